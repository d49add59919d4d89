package scrape

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/aidscope/ayudas-crawler/internal/fetch"
	"github.com/aidscope/ayudas-crawler/internal/metrics"
)

// Page is one successfully fetched listing page.
type Page struct {
	Number int
	URL    string
	Body   []byte
}

// Fault records a page that kept failing after retries. The run continues
// past it.
type Fault struct {
	Page int
	URL  string
	Err  error
}

// Result is the outcome of walking a source.
type Result struct {
	TotalPages int
	Pages      []Page
	Faults     []Fault
}

// Scraper fetches every page of a source.
type Scraper struct {
	retry   *fetch.RetryPolicy
	fetcher fetch.Getter
	logger  *zap.Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a Scraper. logger may be nil.
func New(fetcher fetch.Getter, retry *fetch.RetryPolicy, logger *zap.Logger) *Scraper {
	if retry == nil {
		retry = fetch.NewRetryPolicy()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{
		retry:   retry,
		fetcher: fetcher,
		logger:  logger,
		sleep:   fetch.Sleep,
	}
}

// Run fetches the first page, discovers the total page count from it and
// walks the remaining pages. A page that fails after retries becomes a Fault;
// only a failed first page aborts the run.
func (s *Scraper) Run(ctx context.Context, src Source) (Result, error) {
	first, err := s.retry.Get(ctx, s.fetcher, src.PageURL(1))
	if err != nil {
		return Result{}, fmt.Errorf("fetch first page of %s: %w", src.Name, err)
	}
	metrics.ObservePage(src.Name)

	total := s.totalPages(src, first)
	if src.MaxPages > 0 && total > src.MaxPages {
		total = src.MaxPages
	}
	s.logger.Info("listing paginated",
		zap.String("source", src.Name),
		zap.Int("total_pages", total),
	)

	result := Result{
		TotalPages: total,
		Pages:      []Page{{Number: 1, URL: src.PageURL(1), Body: first}},
	}

	for page := 2; page <= total; page++ {
		if err := s.sleep(ctx, src.PageDelay); err != nil {
			return result, err
		}
		url := src.PageURL(page)
		body, err := s.retry.Get(ctx, s.fetcher, url)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			s.logger.Warn("page failed, skipping",
				zap.String("source", src.Name),
				zap.Int("page", page),
				zap.Error(err),
			)
			metrics.ObservePageFault(src.Name)
			result.Faults = append(result.Faults, Fault{Page: page, URL: url, Err: err})
			continue
		}
		metrics.ObservePage(src.Name)
		result.Pages = append(result.Pages, Page{Number: page, URL: url, Body: body})
	}
	return result, nil
}

var pageOfRe = regexp.MustCompile(`(?i)de\s+(\d+)`)

// totalPages reads the page count from the pagination block, first from the
// "Página 1 de N" text, then from the highest numbered page link. A listing
// without pagination markup is a single page.
func (s *Scraper) totalPages(src Source, body []byte) int {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		s.logger.Warn("unparseable first page", zap.String("source", src.Name), zap.Error(err))
		return 1
	}

	if src.TotalPagesSelector != "" {
		text := doc.Find(src.TotalPagesSelector).First().Text()
		if m := pageOfRe.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n
			}
		}
	}

	max := 1
	if src.PageLinksSelector != "" {
		doc.Find(src.PageLinksSelector).Each(func(_ int, sel *goquery.Selection) {
			if n, err := strconv.Atoi(strings.TrimSpace(sel.Text())); err == nil && n > max {
				max = n
			}
		})
	}
	return max
}
