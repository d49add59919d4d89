// Package postgres provides Postgres-backed persistence for aid records.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidscope/ayudas-crawler/internal/catalog"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

const defaultBatchSize = 100

// Config controls the Postgres connection pool used for aid rows.
type Config struct {
	DSN             string
	Table           string
	BatchSize       int
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// Store upserts aid rows into Postgres.
type Store struct {
	pool      execCloser
	table     string
	batchSize int
}

// New creates a Postgres-backed Store using the provided config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return newStore(pool, cfg.Table, cfg.BatchSize)
}

// NewWithPool constructs a store from an existing pool (primarily for testing).
func NewWithPool(pool execCloser, table string, batchSize int) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return newStore(pool, table, batchSize)
}

func newStore(pool execCloser, table string, batchSize int) (*Store, error) {
	if table == "" {
		table = "ayudas"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Store{pool: pool, table: table, batchSize: batchSize}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

var upsertColumns = []string{
	"source",
	"source_id",
	"title",
	"url",
	"authority",
	"kind",
	"domain",
	"published_at",
	"deadline",
	"description",
	"status",
	"tags",
	"keywords",
	"scraped_at",
	"raw",
}

// Upsert writes records in sub-batches, merging on (source, source_id).
// Duplicate IDs within the input collapse to their first occurrence. The
// first failing batch aborts the whole call; the number of rows written so
// far is returned either way.
func (s *Store) Upsert(ctx context.Context, source string, records []catalog.Aid) (int, error) {
	if s == nil || s.pool == nil {
		return 0, fmt.Errorf("postgres store is not configured")
	}
	if source == "" {
		return 0, fmt.Errorf("source is required")
	}

	deduped := dedupe(records)
	written := 0
	for start := 0; start < len(deduped); start += s.batchSize {
		end := start + s.batchSize
		if end > len(deduped) {
			end = len(deduped)
		}
		if err := s.upsertBatch(ctx, source, deduped[start:end]); err != nil {
			return written, fmt.Errorf("upsert batch at %d: %w", start, err)
		}
		written += end - start
	}
	return written, nil
}

func (s *Store) upsertBatch(ctx context.Context, source string, batch []catalog.Aid) error {
	placeholders := make([]string, 0, len(batch))
	args := make([]any, 0, len(batch)*len(upsertColumns))
	for i, aid := range batch {
		base := i * len(upsertColumns)
		nums := make([]string, len(upsertColumns))
		for j := range upsertColumns {
			nums[j] = fmt.Sprintf("$%d", base+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(nums, ",")+")")

		tagsJSON, err := json.Marshal(emptyAsList(aid.Tags))
		if err != nil {
			return fmt.Errorf("marshal tags for %s: %w", aid.ID, err)
		}
		keywordsJSON, err := json.Marshal(emptyAsList(aid.Keywords))
		if err != nil {
			return fmt.Errorf("marshal keywords for %s: %w", aid.ID, err)
		}
		// The full record travels along for audit.
		rawJSON, err := json.Marshal(aid)
		if err != nil {
			return fmt.Errorf("marshal record %s: %w", aid.ID, err)
		}
		args = append(args,
			source,
			aid.ID,
			aid.Title,
			aid.URL,
			aid.Authority,
			string(aid.Kind),
			aid.Domain,
			aid.PublishedAt,
			aid.Deadline,
			aid.Description,
			string(aid.Status),
			tagsJSON,
			keywordsJSON,
			aid.ScrapedAt,
			rawJSON,
		)
	}

	query := fmt.Sprintf(`
INSERT INTO %s (%s)
VALUES %s
ON CONFLICT (source, source_id) DO UPDATE SET
	title = EXCLUDED.title,
	url = EXCLUDED.url,
	authority = EXCLUDED.authority,
	kind = EXCLUDED.kind,
	domain = EXCLUDED.domain,
	published_at = EXCLUDED.published_at,
	deadline = EXCLUDED.deadline,
	description = EXCLUDED.description,
	status = EXCLUDED.status,
	tags = EXCLUDED.tags,
	keywords = EXCLUDED.keywords,
	scraped_at = EXCLUDED.scraped_at,
	raw = EXCLUDED.raw`,
		s.table, strings.Join(upsertColumns, ", "), strings.Join(placeholders, ", "))

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return err
	}
	return nil
}

// dedupe keeps the first occurrence of each ID, preserving order.
func dedupe(records []catalog.Aid) []catalog.Aid {
	seen := make(map[string]bool, len(records))
	out := make([]catalog.Aid, 0, len(records))
	for _, aid := range records {
		if seen[aid.ID] {
			continue
		}
		seen[aid.ID] = true
		out = append(out, aid)
	}
	return out
}

func emptyAsList(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
