// Package extract parses announcement listings out of fetched HTML.
package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/aidscope/ayudas-crawler/internal/catalog"
	"github.com/aidscope/ayudas-crawler/internal/scrape"
)

// Extractor turns listing markup into catalog listings.
type Extractor struct {
	logger *zap.Logger
}

// New builds an Extractor. logger may be nil.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

var (
	startDateRe = regexp.MustCompile(`(?i)fecha\s+de\s+inicio:?\s*(\d{1,2}/\d{1,2}/\d{4})`)
	endDateRe   = regexp.MustCompile(`(?i)fecha\s+de\s+fin:?\s*(\d{1,2}/\d{1,2}/\d{4})`)
)

// Listings extracts every announcement from one page body. Items without a
// title or a link are logged and skipped, never returned half-built.
func (e *Extractor) Listings(src scrape.Source, page scrape.Page) ([]catalog.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("parse page %d of %s: %w", page.Number, src.Name, err)
	}

	base, err := url.Parse(src.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url of %s: %w", src.Name, err)
	}

	var listings []catalog.Listing
	doc.Find(src.ListingSelector).Each(func(i int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find(src.TitleSelector).First().Text())
		href, _ := sel.Find("a[href]").First().Attr("href")
		href = strings.TrimSpace(href)
		if title == "" || href == "" {
			e.logger.Warn("skipping incomplete listing item",
				zap.String("source", src.Name),
				zap.Int("page", page.Number),
				zap.Int("item", i),
			)
			return
		}

		dates := sel.Find(src.DatesSelector).Text()
		listings = append(listings, catalog.Listing{
			Title:     title,
			URL:       resolveURL(base, href),
			StartDate: parseDate(startDateRe, dates),
			EndDate:   parseDate(endDateRe, dates),
		})
	})
	return listings, nil
}

// resolveURL makes href absolute against the source base.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// parseDate pulls a DD/MM/YYYY date out of the dates block text.
func parseDate(re *regexp.Regexp, text string) *time.Time {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	t, err := time.ParseInLocation("2/1/2006", m[1], time.UTC)
	if err != nil {
		return nil
	}
	return &t
}
