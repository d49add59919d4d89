package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aidscope/ayudas-crawler/internal/scrape"
)

func testSource() scrape.Source {
	return scrape.Source{
		Name:            "junta-cyl",
		BaseURL:         "https://www.tramitacastillayleon.jcyl.es",
		ListingSelector: ".listado.fondo-documental ul li",
		TitleSelector:   ".titulo",
		DatesSelector:   ".info-fondo .fechas",
	}
}

const listingFixture = `<html><body>
<div class="listado fondo-documental"><ul>
	<li>
		<p class="titulo"><a href="/web/jcyl/ayuda-alquiler">Ayudas al alquiler de vivienda</a></p>
		<div class="info-fondo">
			<p class="fechas">Fecha de inicio: 15/01/2026 Fecha de fin: 30/06/2026</p>
		</div>
	</li>
	<li>
		<p class="titulo"><a href="https://otro.example.test/beca">Becas de formación</a></p>
		<div class="info-fondo"><p class="fechas">Fecha de inicio: 01/02/2026</p></div>
	</li>
	<li>
		<p class="titulo"></p>
	</li>
	<li>
		<p class="titulo">Sin enlace</p>
	</li>
</ul></div>
</body></html>`

func TestListings(t *testing.T) {
	t.Parallel()

	listings, err := New(nil).Listings(testSource(), scrape.Page{Number: 1, Body: []byte(listingFixture)})
	require.NoError(t, err)
	require.Len(t, listings, 2)

	first := listings[0]
	require.Equal(t, "Ayudas al alquiler de vivienda", first.Title)
	require.Equal(t, "https://www.tramitacastillayleon.jcyl.es/web/jcyl/ayuda-alquiler", first.URL)
	require.NotNil(t, first.StartDate)
	require.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), *first.StartDate)
	require.NotNil(t, first.EndDate)
	require.Equal(t, time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), *first.EndDate)

	second := listings[1]
	// Absolute links pass through untouched.
	require.Equal(t, "https://otro.example.test/beca", second.URL)
	require.NotNil(t, second.StartDate)
	require.Nil(t, second.EndDate)
}

func TestListingsEmptyPage(t *testing.T) {
	t.Parallel()

	listings, err := New(nil).Listings(testSource(), scrape.Page{Body: []byte("<html><body></body></html>")})
	require.NoError(t, err)
	require.Empty(t, listings)
}
