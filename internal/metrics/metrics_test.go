package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestObserversAreSafeBeforeInit ensures observation helpers are no-ops until
// Init runs.
func TestObserversAreSafeBeforeInit(t *testing.T) {
	require.NotPanics(t, func() {
		ObservePage("junta-cyl")
		ObservePageFault("junta-cyl")
		ObserveRetry()
		ObserveMerge(1, 2, 3)
		ObserveClassification("fallback")
		ObserveRun("success", 1.5)
	})
}

func TestInitIsIdempotent(t *testing.T) {
	Init()
	require.NotPanics(t, Init)

	ObservePage("junta-cyl")
	ObserveMerge(1, 0, 2)
	ObserveRun("success", 0.1)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "ayudas_pages_fetched_total")
}
