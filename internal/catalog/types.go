// Package catalog defines the core aid-catalog types shared across subsystems.
package catalog

import (
	"context"
	"time"
)

// Status represents whether an aid's application window is open.
type Status string

// Status values derived from the deadline at build time. A stored status can
// go stale between re-scrapes; it is recomputed on the next run.
const (
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
	StatusUnknown Status = "unknown"
)

// Kind is the coarse category of an announcement, inferred from its title.
type Kind string

// Kind values.
const (
	KindGrant       Kind = "grant"
	KindScholarship Kind = "scholarship"
	KindAid         Kind = "aid"
	KindContract    Kind = "contract"
	KindOther       Kind = "other"
)

// Aid is the canonical entity persisted by the pipeline. Identity (ID, Title,
// URL) is immutable; classification and status fields may be recomputed on
// re-scrape of the same ID.
type Aid struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Authority   string     `json:"authority"`
	Kind        Kind       `json:"kind"`
	Domain      string     `json:"domain"`
	PublishedAt *time.Time `json:"publishedAt"`
	Deadline    *time.Time `json:"deadline"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Tags        []string   `json:"tags"`
	Keywords    []string   `json:"keywords"`
	ScrapedAt   time.Time  `json:"scrapedAt"`
}

// Listing is one raw announcement extracted from a single HTML list element.
// It has no identity beyond its fields and is never persisted.
type Listing struct {
	Title     string
	URL       string
	StartDate *time.Time
	EndDate   *time.Time
}

// ClassifyInput carries the free-text fields a classifier may use. All fields
// are optional; empty fields are skipped when text is combined.
type ClassifyInput struct {
	Title       string
	Description string
	Scope       string
	Kind        string
	Domain      string
}

// Classification is the fixed output contract shared by every classifier
// strategy.
type Classification struct {
	Tags       []string
	Keywords   []string
	Confidence float64
	Source     string
}

// Classifier computes tags and keywords for one announcement.
type Classifier interface {
	Classify(ctx context.Context, input ClassifyInput) (Classification, error)
}

// Clock returns the current time (injectable for testing).
type Clock interface {
	Now() time.Time
}
