package cmd

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aidscope/ayudas-crawler/internal/catalog"
	"github.com/aidscope/ayudas-crawler/internal/config"
	"github.com/aidscope/ayudas-crawler/internal/pipeline"
)

func TestBuildFilter(t *testing.T) {
	t.Parallel()

	filter, err := buildFilter(&scrapeFlags{
		kind:    "aid",
		domain:  "housing",
		status:  "open",
		from:    "2026-01-01",
		to:      "2026-12-31",
		keyword: "alquiler",
	})
	require.NoError(t, err)
	require.Equal(t, pipeline.Filter{
		Kind:    catalog.KindAid,
		Domain:  "housing",
		Status:  catalog.StatusOpen,
		From:    timePtr(t, "2026-01-01"),
		To:      timePtr(t, "2026-12-31"),
		Keyword: "alquiler",
	}, filter)

	_, err = buildFilter(&scrapeFlags{from: "31/12/2026"})
	require.Error(t, err)
}

func timePtr(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	require.NoError(t, err)
	return &parsed
}

func TestResolveSource(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Source.MaxPages = 2

	src, err := resolveSource(cfg, "")
	require.NoError(t, err)
	require.Equal(t, "junta-cyl", src.Name)
	require.Equal(t, 2, src.MaxPages)
	require.Equal(t, 500*time.Millisecond, src.PageDelay)

	_, err = resolveSource(cfg, "desconocida")
	require.Error(t, err)
}

func TestStatsCommand(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Storage.FilePath = filepath.Join(t.TempDir(), "ayudas.json")

	restore := newApp
	newApp = func(context.Context) (*app, error) {
		return &app{cfg: cfg, logger: zap.NewNop()}, nil
	}
	defer func() { newApp = restore }()

	root := newRootCmd()
	root.SetArgs([]string{"stats", "--output", "json"})
	require.NoError(t, root.Execute())
}
