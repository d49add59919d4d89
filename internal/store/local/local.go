// Package local implements a JSON file-backed record store.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aidscope/ayudas-crawler/internal/catalog"
	"github.com/aidscope/ayudas-crawler/internal/store"
)

// Metadata summarizes the stored set and the last run that touched it.
type Metadata struct {
	LastUpdated     time.Time `json:"lastUpdated"`
	Total           int       `json:"total"`
	InsertedLastRun int       `json:"insertedLastRun"`
	UpdatedLastRun  int       `json:"updatedLastRun"`
}

type document struct {
	Records  []catalog.Aid `json:"records"`
	Metadata Metadata      `json:"metadata"`
}

// Store persists records to one JSON file, rewriting it whole on every save.
type Store struct {
	path  string
	clock catalog.Clock
}

// New builds a Store writing to path.
func New(path string, clock catalog.Clock) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	return &Store{path: path, clock: clock}, nil
}

// Load reads every stored record. A missing file is an empty store.
func (s *Store) Load(_ context.Context) ([]catalog.Aid, error) {
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return doc.Records, nil
}

// Add merges incoming records into the stored set and rewrites the file.
func (s *Store) Add(ctx context.Context, incoming []catalog.Aid) (store.MergeResult, error) {
	existing, err := s.Load(ctx)
	if err != nil {
		return store.MergeResult{}, err
	}

	result := store.Merge(existing, incoming)
	doc := document{
		Records: result.Merged,
		Metadata: Metadata{
			LastUpdated:     s.clock.Now(),
			Total:           len(result.Merged),
			InsertedLastRun: result.Inserted,
			UpdatedLastRun:  result.Updated,
		},
	}
	if err := s.write(doc); err != nil {
		return store.MergeResult{}, err
	}
	return result, nil
}

// FindBy returns stored records matching the predicate.
func (s *Store) FindBy(ctx context.Context, match func(catalog.Aid) bool) ([]catalog.Aid, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []catalog.Aid
	for _, aid := range records {
		if match(aid) {
			out = append(out, aid)
		}
	}
	return out, nil
}

// Counts aggregates stored records along the reporting dimensions.
type Counts struct {
	Total       int            `json:"total"`
	ByAuthority map[string]int `json:"byAuthority"`
	ByKind      map[string]int `json:"byKind"`
	ByStatus    map[string]int `json:"byStatus"`
	ByDomain    map[string]int `json:"byDomain"`
}

// Counts groups the stored records by authority, kind, status and domain.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return Counts{}, err
	}
	counts := Counts{
		Total:       len(records),
		ByAuthority: map[string]int{},
		ByKind:      map[string]int{},
		ByStatus:    map[string]int{},
		ByDomain:    map[string]int{},
	}
	for _, aid := range records {
		counts.ByAuthority[aid.Authority]++
		counts.ByKind[string(aid.Kind)]++
		counts.ByStatus[string(aid.Status)]++
		counts.ByDomain[aid.Domain]++
	}
	return counts, nil
}

// Stats reads the stored metadata.
func (s *Store) Stats(_ context.Context) (Metadata, error) {
	doc, err := s.read()
	if err != nil {
		return Metadata{}, err
	}
	return doc.Metadata, nil
}

func (s *Store) read() (document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return document{}, nil
		}
		return document{}, fmt.Errorf("read store file: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("parse store file: %w", err)
	}
	return doc, nil
}

func (s *Store) write(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store file: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	return nil
}
