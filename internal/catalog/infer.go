package catalog

import (
	"strings"
	"time"
)

// kindTerms maps title substrings to coarse categories. First match wins.
var kindTerms = []struct {
	term string
	kind Kind
}{
	{"subvenció", KindGrant},
	{"beca", KindScholarship},
	{"ayuda", KindAid},
	{"contrato", KindContract},
}

// domainTerms maps title substrings to topical areas. First match wins.
var domainTerms = []struct {
	term   string
	domain string
}{
	{"cultura", "culture"},
	{"educació", "education"},
	{"empleo", "employment"},
	{"agrícola", "agriculture"},
	{"ganader", "agriculture"},
	{"salud", "health"},
	{"vivienda", "housing"},
}

// InferKind derives the coarse category from the announcement title.
func InferKind(title string) Kind {
	lowered := strings.ToLower(title)
	for _, entry := range kindTerms {
		if strings.Contains(lowered, entry.term) {
			return entry.kind
		}
	}
	return KindOther
}

// InferDomain derives the topical area from the announcement title.
func InferDomain(title string) string {
	lowered := strings.ToLower(title)
	for _, entry := range domainTerms {
		if strings.Contains(lowered, entry.term) {
			return entry.domain
		}
	}
	return "general"
}

// InferStatus derives the application-window status from the deadline as of
// now. The result is a point-in-time evaluation; stored statuses go stale
// until the next scrape recomputes them.
func InferStatus(deadline *time.Time, now time.Time) Status {
	if deadline == nil {
		return StatusUnknown
	}
	if !deadline.Before(now) {
		return StatusOpen
	}
	return StatusClosed
}
