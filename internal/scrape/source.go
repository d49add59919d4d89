// Package scrape walks a paginated announcement listing, fetching every page
// with retries and recording per-page faults without aborting the run.
package scrape

import (
	"strconv"
	"strings"
	"time"
)

// Source describes one paginated announcement listing.
type Source struct {
	Name      string
	Authority string
	BaseURL   string

	// ListURL is the first page. URLPattern contains an {offset} placeholder
	// filled with page (n-1) * OffsetStep for subsequent pages.
	ListURL    string
	URLPattern string
	OffsetStep int

	// Selectors into the listing markup.
	ListingSelector    string
	TitleSelector      string
	DatesSelector      string
	TotalPagesSelector string
	PageLinksSelector  string

	// PageDelay paces requests between consecutive pages. MaxPages caps the
	// walk regardless of what pagination reports; zero means no cap.
	PageDelay time.Duration
	MaxPages  int
}

// PageURL returns the URL for the 1-based page number.
func (s Source) PageURL(page int) string {
	if page <= 1 || s.URLPattern == "" {
		return s.ListURL
	}
	offset := (page - 1) * s.OffsetStep
	return strings.ReplaceAll(s.URLPattern, "{offset}", strconv.Itoa(offset))
}

// JuntaCyL is the Junta de Castilla y León aid listing.
func JuntaCyL() Source {
	return Source{
		Name:      "junta-cyl",
		Authority: "Junta de Castilla y León",
		BaseURL:   "https://www.tramitacastillayleon.jcyl.es",
		ListURL: "https://www.tramitacastillayleon.jcyl.es/web/jcyl/AdministracionElectronica/es/" +
			"Plantilla100Directorio/1251181050732/_/_/_",
		URLPattern: "https://www.tramitacastillayleon.jcyl.es/web/jcyl/AdministracionElectronica/es/" +
			"Plantilla100Directorio/1251181050732/{offset}/_/_",
		OffsetStep:         5,
		ListingSelector:    ".listado.fondo-documental ul li",
		TitleSelector:      ".titulo",
		DatesSelector:      ".info-fondo .fechas",
		TotalPagesSelector: ".paginacion p",
		PageLinksSelector:  ".paginacion a",
		PageDelay:          500 * time.Millisecond,
	}
}
