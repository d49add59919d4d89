package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aidscope/ayudas-crawler/internal/catalog"
)

func aid(id, title, status string, deadline *time.Time) catalog.Aid {
	return catalog.Aid{ID: id, Title: title, Status: catalog.Status(status), Deadline: deadline}
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestMergeInsertsNewRecords(t *testing.T) {
	t.Parallel()

	incoming := []catalog.Aid{
		aid("junta-cyl-aaaa1111", "Ayuda A", "open", datePtr(2026, 6, 30)),
		aid("junta-cyl-bbbb2222", "Ayuda B", "open", nil),
	}
	result := Merge(nil, incoming)
	require.Equal(t, 2, result.Inserted)
	require.Zero(t, result.Updated)
	require.Zero(t, result.Unchanged)
	require.Len(t, result.Merged, 2)
}

func TestMergeDetectsChanges(t *testing.T) {
	t.Parallel()

	existing := []catalog.Aid{
		aid("a", "Ayuda A", "open", datePtr(2026, 6, 30)),
		aid("b", "Ayuda B", "open", nil),
		aid("c", "Ayuda C", "open", nil),
	}
	incoming := []catalog.Aid{
		aid("a", "Ayuda A", "closed", datePtr(2026, 6, 30)), // status change
		aid("b", "Ayuda B", "open", datePtr(2026, 9, 1)),    // deadline change
		aid("c", "Ayuda C", "open", nil),                    // no change
		aid("d", "Ayuda D", "open", nil),                    // new
	}

	result := Merge(existing, incoming)
	require.Equal(t, 1, result.Inserted)
	require.Equal(t, 2, result.Updated)
	require.Equal(t, 1, result.Unchanged)
	require.Len(t, result.Merged, 4)
	require.Equal(t, catalog.Status("closed"), result.Merged[0].Status)
	require.NotNil(t, result.Merged[1].Deadline)
}

func TestMergeIgnoresNonKeyFieldChanges(t *testing.T) {
	t.Parallel()

	existing := []catalog.Aid{{ID: "a", Title: "Ayuda A", Keywords: []string{"vivienda"}}}
	incoming := []catalog.Aid{{ID: "a", Title: "Ayuda A", Keywords: []string{"alquiler"}}}

	result := Merge(existing, incoming)
	require.Zero(t, result.Inserted)
	require.Zero(t, result.Updated)
	require.Equal(t, 1, result.Unchanged)
	// The stored record wins when nothing significant changed.
	require.Equal(t, []string{"vivienda"}, result.Merged[0].Keywords)
}

func TestMergeIsIdempotent(t *testing.T) {
	t.Parallel()

	incoming := []catalog.Aid{
		aid("a", "Ayuda A", "open", datePtr(2026, 6, 30)),
		aid("b", "Ayuda B", "closed", nil),
	}

	first := Merge(nil, incoming)
	require.Equal(t, 2, first.Inserted)

	second := Merge(first.Merged, incoming)
	require.Zero(t, second.Inserted)
	require.Zero(t, second.Updated)
	require.Equal(t, 2, second.Unchanged)
	require.Equal(t, first.Merged, second.Merged)
}

func TestMergeDedupesWithinBatch(t *testing.T) {
	t.Parallel()

	incoming := []catalog.Aid{
		aid("a", "Ayuda A", "open", nil),
		aid("a", "Ayuda A", "open", nil),
	}
	result := Merge(nil, incoming)
	require.Equal(t, 1, result.Inserted)
	require.Equal(t, 1, result.Unchanged)
	require.Len(t, result.Merged, 1)
}
