// Package store merges scraped records into persisted sets.
package store

import (
	"time"

	"github.com/aidscope/ayudas-crawler/internal/catalog"
)

// MergeResult describes what a merge did. Merged holds the full set after
// the merge, existing records first in their original order.
type MergeResult struct {
	Inserted  int
	Updated   int
	Unchanged int
	Merged    []catalog.Aid
}

// Merge folds incoming records into existing ones by ID. A record counts as
// updated only when its title, deadline or status changed; everything else
// leaves the stored record untouched. Merging the same input twice yields
// zero inserts and zero updates the second time.
func Merge(existing, incoming []catalog.Aid) MergeResult {
	index := make(map[string]int, len(existing))
	for i, aid := range existing {
		index[aid.ID] = i
	}

	result := MergeResult{Merged: append([]catalog.Aid(nil), existing...)}
	for _, aid := range incoming {
		i, ok := index[aid.ID]
		if !ok {
			index[aid.ID] = len(result.Merged)
			result.Merged = append(result.Merged, aid)
			result.Inserted++
			continue
		}
		if changed(result.Merged[i], aid) {
			result.Merged[i] = aid
			result.Updated++
		} else {
			result.Unchanged++
		}
	}
	return result
}

func changed(old, new catalog.Aid) bool {
	return old.Title != new.Title ||
		old.Status != new.Status ||
		!sameTime(old.Deadline, new.Deadline)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
