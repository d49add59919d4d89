package catalog

import (
	"context"
	"fmt"

	"github.com/aidscope/ayudas-crawler/internal/hash/md5"
)

// idDigestLen is the number of hex characters of the content digest kept in
// an aid ID.
const idDigestLen = 8

// NewID derives the stable identifier for an announcement from its source and
// its (title, url) pair. The same pair always yields the same ID, which is
// what makes merge-time dedup possible without a prior lookup.
func NewID(source, title, url string) string {
	return fmt.Sprintf("%s-%s", source, md5.ShortHex(title+"-"+url, idDigestLen))
}

// Builder turns raw extracted listings into canonical Aid records.
type Builder struct {
	source     string
	authority  string
	classifier Classifier
	clock      Clock
}

// NewBuilder constructs a Builder for one source.
func NewBuilder(source, authority string, classifier Classifier, clock Clock) *Builder {
	return &Builder{
		source:     source,
		authority:  authority,
		classifier: classifier,
		clock:      clock,
	}
}

// Build creates the canonical Aid for one listing, inferring its category,
// topical area and status, and attaching the classifier's tags and keywords.
// The listing itself is never mutated.
func (b *Builder) Build(ctx context.Context, listing Listing) (Aid, error) {
	now := b.clock.Now()

	aid := Aid{
		ID:          NewID(b.source, listing.Title, listing.URL),
		Title:       listing.Title,
		URL:         listing.URL,
		Authority:   b.authority,
		Kind:        InferKind(listing.Title),
		Domain:      InferDomain(listing.Title),
		PublishedAt: listing.StartDate,
		Deadline:    listing.EndDate,
		Description: listing.Title,
		Status:      InferStatus(listing.EndDate, now),
		ScrapedAt:   now,
	}

	classification, err := b.classifier.Classify(ctx, ClassifyInput{
		Title:       aid.Title,
		Description: aid.Description,
		Scope:       aid.Domain,
		Kind:        string(aid.Kind),
		Domain:      aid.Domain,
	})
	if err != nil {
		return Aid{}, fmt.Errorf("classify %s: %w", aid.ID, err)
	}
	aid.Tags = classification.Tags
	aid.Keywords = classification.Keywords

	return aid, nil
}
