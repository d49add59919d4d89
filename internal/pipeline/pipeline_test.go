package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aidscope/ayudas-crawler/internal/catalog"
	"github.com/aidscope/ayudas-crawler/internal/scrape"
	"github.com/aidscope/ayudas-crawler/internal/store"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeScraper struct {
	result scrape.Result
	err    error
}

func (s *fakeScraper) Run(context.Context, scrape.Source) (scrape.Result, error) {
	return s.result, s.err
}

type fakeExtractor struct {
	perPage map[int][]catalog.Listing
	failOn  map[int]bool
}

func (e *fakeExtractor) Listings(_ scrape.Source, page scrape.Page) ([]catalog.Listing, error) {
	if e.failOn[page.Number] {
		return nil, errors.New("malformed page")
	}
	return e.perPage[page.Number], nil
}

type fakeBuilder struct {
	failTitles map[string]bool
	built      int
}

func (b *fakeBuilder) Build(_ context.Context, listing catalog.Listing) (catalog.Aid, error) {
	if b.failTitles[listing.Title] {
		return catalog.Aid{}, errors.New("classify failed")
	}
	b.built++
	return catalog.Aid{
		ID:     fmt.Sprintf("junta-cyl-%08d", b.built),
		Title:  listing.Title,
		Kind:   catalog.KindAid,
		Status: catalog.StatusOpen,
	}, nil
}

type fakeLocal struct {
	added []catalog.Aid
	err   error
}

func (s *fakeLocal) Add(_ context.Context, incoming []catalog.Aid) (store.MergeResult, error) {
	if s.err != nil {
		return store.MergeResult{}, s.err
	}
	s.added = incoming
	return store.MergeResult{Inserted: len(incoming), Merged: incoming}, nil
}

type fakeRemote struct {
	written []catalog.Aid
	source  string
	err     error
}

func (s *fakeRemote) Upsert(_ context.Context, source string, records []catalog.Aid) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.source = source
	s.written = records
	return len(records), nil
}

func twoPageResult() scrape.Result {
	return scrape.Result{
		TotalPages: 2,
		Pages: []scrape.Page{
			{Number: 1, Body: []byte("page1")},
			{Number: 2, Body: []byte("page2")},
		},
		Faults: []scrape.Fault{{Page: 3, Err: errors.New("gone")}},
	}
}

func newTestPipeline(scraper Scraper, extractor Extractor, builder Builder, local LocalStore, remote RemoteStore) *Pipeline {
	p := New(scraper, extractor, builder, local, remote, nil, fixedClock{now: time.Unix(1700000000, 0).UTC()})
	p.newRunID = func() string { return "run-test" }
	return p
}

func TestRunHappyPath(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{perPage: map[int][]catalog.Listing{
		1: {{Title: "Ayuda A"}, {Title: "Ayuda B"}},
		2: {{Title: "Ayuda C"}},
	}}
	local := &fakeLocal{}
	remote := &fakeRemote{}

	p := newTestPipeline(&fakeScraper{result: twoPageResult()}, extractor, &fakeBuilder{}, local, remote)
	result := p.Run(context.Background(), scrape.Source{Name: "junta-cyl"}, Filter{})

	require.True(t, result.Success)
	require.Equal(t, "run-test", result.RunID)
	require.Empty(t, result.Error)
	require.Equal(t, 3, result.Data.Total)
	require.Equal(t, 3, result.Data.Inserted)
	require.Zero(t, result.Data.Failed)
	require.Equal(t, 2, result.Meta.PagesFetched)
	require.Equal(t, 1, result.Meta.PagesFailed)
	require.Equal(t, "junta-cyl", result.Meta.Source)
	require.Equal(t, "junta-cyl", remote.source)
	require.Len(t, remote.written, 3)
	require.Len(t, local.added, 3)
}

func TestRunCountsBuildFailures(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{
		perPage: map[int][]catalog.Listing{1: {{Title: "Ayuda A"}, {Title: "Rota"}}},
		failOn:  map[int]bool{2: true},
	}
	builder := &fakeBuilder{failTitles: map[string]bool{"Rota": true}}

	p := newTestPipeline(&fakeScraper{result: twoPageResult()}, extractor, builder, &fakeLocal{}, nil)
	result := p.Run(context.Background(), scrape.Source{Name: "junta-cyl"}, Filter{})

	require.True(t, result.Success)
	require.Equal(t, 1, result.Data.Total)
	// One unparseable page plus one failed classification.
	require.Equal(t, 2, result.Data.Failed)
}

func TestRunScrapeFailureFailsRun(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(&fakeScraper{err: errors.New("first page down")}, &fakeExtractor{}, &fakeBuilder{}, &fakeLocal{}, nil)
	result := p.Run(context.Background(), scrape.Source{Name: "junta-cyl"}, Filter{})

	require.False(t, result.Success)
	require.Contains(t, result.Error, "first page down")
}

func TestRunSurvivesOneStoreFailure(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{perPage: map[int][]catalog.Listing{1: {{Title: "Ayuda A"}}}}
	scraper := &fakeScraper{result: scrape.Result{Pages: []scrape.Page{{Number: 1}}}}
	local := &fakeLocal{}
	remote := &fakeRemote{err: errors.New("db unreachable")}

	p := newTestPipeline(scraper, extractor, &fakeBuilder{}, local, remote)
	result := p.Run(context.Background(), scrape.Source{Name: "junta-cyl"}, Filter{})

	require.True(t, result.Success)
	require.Len(t, local.added, 1)
}

func TestRunFailsWhenEveryStoreFails(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{perPage: map[int][]catalog.Listing{1: {{Title: "Ayuda A"}}}}
	scraper := &fakeScraper{result: scrape.Result{Pages: []scrape.Page{{Number: 1}}}}

	p := newTestPipeline(scraper, extractor, &fakeBuilder{},
		&fakeLocal{err: errors.New("disk full")},
		&fakeRemote{err: errors.New("db unreachable")})
	result := p.Run(context.Background(), scrape.Source{Name: "junta-cyl"}, Filter{})

	require.False(t, result.Success)
	require.Contains(t, result.Error, "remote")
	require.Contains(t, result.Error, "local")
}

func TestRunAppliesFilter(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{perPage: map[int][]catalog.Listing{
		1: {{Title: "Ayuda A"}, {Title: "Ayuda B"}},
	}}
	scraper := &fakeScraper{result: scrape.Result{Pages: []scrape.Page{{Number: 1}}}}
	local := &fakeLocal{}

	p := newTestPipeline(scraper, extractor, &fakeBuilder{}, local, nil)
	result := p.Run(context.Background(), scrape.Source{Name: "junta-cyl"}, Filter{Keyword: "ayuda b"})

	require.True(t, result.Success)
	require.Equal(t, 1, result.Data.Total)
	require.Len(t, local.added, 1)
	require.Equal(t, "Ayuda B", local.added[0].Title)
}

func TestFilterMatch(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	aid := catalog.Aid{
		Title:    "Ayudas al alquiler",
		Kind:     catalog.KindAid,
		Domain:   "housing",
		Status:   catalog.StatusOpen,
		Deadline: &deadline,
		Keywords: []string{"alquiler"},
		Tags:     []string{"housing"},
	}

	require.True(t, Filter{}.Match(aid))
	require.True(t, Filter{Kind: catalog.KindAid, Domain: "housing", Status: catalog.StatusOpen}.Match(aid))
	require.False(t, Filter{Kind: catalog.KindGrant}.Match(aid))
	require.False(t, Filter{Domain: "health"}.Match(aid))
	require.False(t, Filter{Status: catalog.StatusClosed}.Match(aid))

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	require.True(t, Filter{From: &from, To: &to}.Match(aid))
	require.False(t, Filter{From: &from, To: &to}.Match(catalog.Aid{}))
	late := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	require.False(t, Filter{From: &late}.Match(aid))

	require.True(t, Filter{Keyword: "alquiler"}.Match(aid))
	require.True(t, Filter{Keyword: "housing"}.Match(aid))
	require.False(t, Filter{Keyword: "sanidad"}.Match(aid))
}
