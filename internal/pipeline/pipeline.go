// Package pipeline runs a full scrape: fetch, extract, classify, filter and
// persist.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aidscope/ayudas-crawler/internal/catalog"
	"github.com/aidscope/ayudas-crawler/internal/metrics"
	"github.com/aidscope/ayudas-crawler/internal/scrape"
	"github.com/aidscope/ayudas-crawler/internal/store"
)

// Scraper walks every page of a source.
type Scraper interface {
	Run(ctx context.Context, src scrape.Source) (scrape.Result, error)
}

// Extractor parses listings out of a fetched page.
type Extractor interface {
	Listings(src scrape.Source, page scrape.Page) ([]catalog.Listing, error)
}

// Builder turns a listing into a classified record.
type Builder interface {
	Build(ctx context.Context, listing catalog.Listing) (catalog.Aid, error)
}

// LocalStore merges records into the JSON file store.
type LocalStore interface {
	Add(ctx context.Context, incoming []catalog.Aid) (store.MergeResult, error)
}

// RemoteStore upserts records into the database.
type RemoteStore interface {
	Upsert(ctx context.Context, source string, records []catalog.Aid) (int, error)
}

// Data summarizes what a run produced.
type Data struct {
	Total    int `json:"total"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
}

// Meta carries run context for reporting.
type Meta struct {
	Source       string        `json:"source"`
	StartedAt    time.Time     `json:"startedAt"`
	Duration     time.Duration `json:"duration"`
	PagesFetched int           `json:"pagesFetched"`
	PagesFailed  int           `json:"pagesFailed"`
}

// Result is the outcome of one run.
type Result struct {
	Success bool   `json:"success"`
	RunID   string `json:"runId"`
	Error   string `json:"error,omitempty"`
	Data    Data   `json:"data"`
	Meta    Meta   `json:"meta"`
}

// Pipeline wires the run stages together. Either store may be nil; at least
// one write must succeed for the run to count as successful.
type Pipeline struct {
	scraper   Scraper
	extractor Extractor
	builder   Builder
	local     LocalStore
	remote    RemoteStore
	logger    *zap.Logger
	clock     catalog.Clock

	newRunID func() string
}

// New builds a Pipeline. logger may be nil.
func New(
	scraper Scraper,
	extractor Extractor,
	builder Builder,
	local LocalStore,
	remote RemoteStore,
	logger *zap.Logger,
	clock catalog.Clock,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		scraper:   scraper,
		extractor: extractor,
		builder:   builder,
		local:     local,
		remote:    remote,
		logger:    logger,
		clock:     clock,
		newRunID:  newRunID,
	}
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Run executes the full pipeline against one source.
func (p *Pipeline) Run(ctx context.Context, src scrape.Source, filter Filter) (result Result) {
	started := p.clock.Now()
	result = Result{
		RunID: p.newRunID(),
		Meta:  Meta{Source: src.Name, StartedAt: started},
	}
	p.logger.Info("run starting",
		zap.String("run_id", result.RunID),
		zap.String("source", src.Name),
	)

	defer func() {
		result.Meta.Duration = p.clock.Now().Sub(started)
		status := "success"
		if !result.Success {
			status = "failure"
		}
		metrics.ObserveRun(status, result.Meta.Duration.Seconds())
	}()

	scraped, err := p.scraper.Run(ctx, src)
	if err != nil {
		return p.fail(result, fmt.Errorf("scrape %s: %w", src.Name, err))
	}
	result.Meta.PagesFetched = len(scraped.Pages)
	result.Meta.PagesFailed = len(scraped.Faults)

	records, failed := p.collect(ctx, src, scraped)
	result.Data.Failed = failed

	kept := make([]catalog.Aid, 0, len(records))
	for _, aid := range records {
		if filter.Match(aid) {
			kept = append(kept, aid)
		}
	}
	result.Data.Total = len(kept)

	if err := p.persist(ctx, src, kept, &result); err != nil {
		return p.fail(result, err)
	}

	result.Success = true
	p.logger.Info("run finished",
		zap.String("run_id", result.RunID),
		zap.Int("total", result.Data.Total),
		zap.Int("inserted", result.Data.Inserted),
		zap.Int("updated", result.Data.Updated),
		zap.Int("failed", result.Data.Failed),
	)
	return result
}

// collect extracts and builds records from every fetched page. Extraction and
// classification failures are logged and counted, never fatal.
func (p *Pipeline) collect(ctx context.Context, src scrape.Source, scraped scrape.Result) ([]catalog.Aid, int) {
	var (
		records []catalog.Aid
		failed  int
	)
	for _, page := range scraped.Pages {
		listings, err := p.extractor.Listings(src, page)
		if err != nil {
			p.logger.Warn("page extraction failed",
				zap.Int("page", page.Number),
				zap.Error(err),
			)
			failed++
			continue
		}
		for _, listing := range listings {
			aid, err := p.builder.Build(ctx, listing)
			if err != nil {
				p.logger.Warn("record build failed",
					zap.String("title", listing.Title),
					zap.Error(err),
				)
				failed++
				continue
			}
			records = append(records, aid)
		}
	}
	return records, failed
}

// persist writes to the remote store first and the local store second. Both
// failing fails the run; one failing is degraded but acceptable.
func (p *Pipeline) persist(ctx context.Context, src scrape.Source, records []catalog.Aid, result *Result) error {
	if p.remote == nil && p.local == nil {
		return nil
	}

	var errs []string
	stored := false

	if p.remote != nil {
		written, err := p.remote.Upsert(ctx, src.Name, records)
		if err != nil {
			p.logger.Error("remote store failed", zap.Error(err))
			errs = append(errs, fmt.Sprintf("remote: %v", err))
		} else {
			stored = true
			result.Data.Inserted = written
		}
	}

	if p.local != nil {
		merged, err := p.local.Add(ctx, records)
		if err != nil {
			p.logger.Error("local store failed", zap.Error(err))
			errs = append(errs, fmt.Sprintf("local: %v", err))
		} else {
			stored = true
			result.Data.Inserted = merged.Inserted
			result.Data.Updated = merged.Updated
			metrics.ObserveMerge(merged.Inserted, merged.Updated, merged.Unchanged)
		}
	}

	if !stored {
		return fmt.Errorf("every store failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (p *Pipeline) fail(result Result, err error) Result {
	p.logger.Error("run failed", zap.String("run_id", result.RunID), zap.Error(err))
	result.Success = false
	result.Error = err.Error()
	return result
}
