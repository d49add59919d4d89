package pipeline

import (
	"strings"
	"time"

	"github.com/aidscope/ayudas-crawler/internal/catalog"
)

// Filter narrows which records a run keeps. Zero-value fields match
// everything.
type Filter struct {
	Kind    catalog.Kind
	Domain  string
	Status  catalog.Status
	From    *time.Time
	To      *time.Time
	Keyword string
}

// Match reports whether aid passes every set criterion. The date range
// applies to the deadline; records without one only match an unbounded
// range. The keyword criterion searches title, keywords and tags.
func (f Filter) Match(aid catalog.Aid) bool {
	if f.Kind != "" && aid.Kind != f.Kind {
		return false
	}
	if f.Domain != "" && aid.Domain != f.Domain {
		return false
	}
	if f.Status != "" && aid.Status != f.Status {
		return false
	}
	if f.From != nil || f.To != nil {
		if aid.Deadline == nil {
			return false
		}
		if f.From != nil && aid.Deadline.Before(*f.From) {
			return false
		}
		if f.To != nil && aid.Deadline.After(*f.To) {
			return false
		}
	}
	if f.Keyword != "" && !matchesKeyword(aid, f.Keyword) {
		return false
	}
	return true
}

func matchesKeyword(aid catalog.Aid, keyword string) bool {
	needle := strings.ToLower(keyword)
	if strings.Contains(strings.ToLower(aid.Title), needle) {
		return true
	}
	for _, kw := range aid.Keywords {
		if strings.Contains(kw, needle) {
			return true
		}
	}
	for _, tag := range aid.Tags {
		if tag == needle {
			return true
		}
	}
	return false
}
