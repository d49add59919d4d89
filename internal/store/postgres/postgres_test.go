package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/aidscope/ayudas-crawler/internal/catalog"
)

func testAid(id, title string) catalog.Aid {
	return catalog.Aid{
		ID:        id,
		Title:     title,
		URL:       "https://example.test/" + id,
		Authority: "Junta de Castilla y León",
		Kind:      catalog.KindAid,
		Domain:    "housing",
		Status:    catalog.StatusOpen,
		Tags:      []string{"housing"},
		Keywords:  []string{"vivienda"},
		ScrapedAt: time.Unix(1700000000, 0).UTC(),
	}
}

// anyArgs builds n wildcard matchers; pgxmock requires the expected and
// actual argument counts to line up even when every value is accepted.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestUpsertWritesRows(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewWithPool(mock, "ayudas", 100)
	require.NoError(t, err)

	aid := testAid("junta-cyl-aaaa1111", "Ayuda alquiler")
	mock.ExpectExec("INSERT INTO ayudas").
		WithArgs(
			"junta-cyl",
			aid.ID,
			aid.Title,
			aid.URL,
			aid.Authority,
			string(aid.Kind),
			aid.Domain,
			aid.PublishedAt,
			aid.Deadline,
			aid.Description,
			string(aid.Status),
			[]byte(`["housing"]`),
			[]byte(`["vivienda"]`),
			aid.ScrapedAt,
			pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	written, err := store.Upsert(context.Background(), "junta-cyl", []catalog.Aid{aid})
	require.NoError(t, err)
	require.Equal(t, 1, written)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSplitsIntoBatches(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewWithPool(mock, "ayudas", 2)
	require.NoError(t, err)

	records := []catalog.Aid{
		testAid("a", "A"), testAid("b", "B"), testAid("c", "C"),
	}
	mock.ExpectExec("INSERT INTO ayudas").WithArgs(anyArgs(2 * len(upsertColumns))...).WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectExec("INSERT INTO ayudas").WithArgs(anyArgs(len(upsertColumns))...).WillReturnResult(pgxmock.NewResult("INSERT", 1))

	written, err := store.Upsert(context.Background(), "junta-cyl", records)
	require.NoError(t, err)
	require.Equal(t, 3, written)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertDedupesWithinInput(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewWithPool(mock, "ayudas", 100)
	require.NoError(t, err)

	records := []catalog.Aid{
		testAid("a", "First"), testAid("a", "Duplicate"), testAid("b", "B"),
	}
	// A single exec with two rows; the duplicate collapses to its first
	// occurrence before the query is built.
	mock.ExpectExec("INSERT INTO ayudas").WithArgs(anyArgs(2 * len(upsertColumns))...).WillReturnResult(pgxmock.NewResult("INSERT", 2))

	written, err := store.Upsert(context.Background(), "junta-cyl", records)
	require.NoError(t, err)
	require.Equal(t, 2, written)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertAbortsOnBatchError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewWithPool(mock, "ayudas", 1)
	require.NoError(t, err)

	records := []catalog.Aid{testAid("a", "A"), testAid("b", "B"), testAid("c", "C")}
	mock.ExpectExec("INSERT INTO ayudas").WithArgs(anyArgs(len(upsertColumns))...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO ayudas").WithArgs(anyArgs(len(upsertColumns))...).WillReturnError(errors.New("connection reset"))

	written, err := store.Upsert(context.Background(), "junta-cyl", records)
	require.Error(t, err)
	require.Contains(t, err.Error(), "upsert batch at 1")
	require.Equal(t, 1, written)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewWithPoolValidation(t *testing.T) {
	t.Parallel()

	_, err := NewWithPool(nil, "ayudas", 0)
	require.Error(t, err)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewWithPool(mock, "bad;table", 0)
	require.Error(t, err)

	store, err := NewWithPool(mock, "", 0)
	require.NoError(t, err)
	require.Equal(t, "ayudas", store.table)
	require.Equal(t, defaultBatchSize, store.batchSize)
}
