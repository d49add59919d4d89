package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aidscope/ayudas-crawler/internal/catalog"
	"github.com/aidscope/ayudas-crawler/internal/classify"
	"github.com/aidscope/ayudas-crawler/internal/clock/system"
	"github.com/aidscope/ayudas-crawler/internal/config"
	"github.com/aidscope/ayudas-crawler/internal/extract"
	"github.com/aidscope/ayudas-crawler/internal/fetch"
	"github.com/aidscope/ayudas-crawler/internal/logging"
	"github.com/aidscope/ayudas-crawler/internal/metrics"
	"github.com/aidscope/ayudas-crawler/internal/pipeline"
	"github.com/aidscope/ayudas-crawler/internal/scrape"
	"github.com/aidscope/ayudas-crawler/internal/store/local"
	"github.com/aidscope/ayudas-crawler/internal/store/postgres"
)

type scrapeFlags struct {
	source    string
	kind      string
	domain    string
	status    string
	from      string
	to        string
	keyword   string
	output    string
	filePath  string
	noStorage bool
}

func newScrapeCmd() *cobra.Command {
	flags := &scrapeFlags{}

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Runs a full scrape of one aid listing",
		Long: `Fetches every page of the configured listing, extracts and
classifies each announcement and merges the results into storage. With
--output json the run result document is printed to stdout.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScrapeCommand(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.source, "source", "", "source name (defaults to config)")
	cmd.Flags().StringVar(&flags.kind, "kind", "", "keep only this kind (grant|scholarship|aid|contract|other)")
	cmd.Flags().StringVar(&flags.domain, "domain", "", "keep only this domain")
	cmd.Flags().StringVar(&flags.status, "status", "", "keep only this status (open|closed|unknown)")
	cmd.Flags().StringVar(&flags.from, "from", "", "keep deadlines on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.to, "to", "", "keep deadlines on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.keyword, "keyword", "", "keep only records matching this keyword")
	cmd.Flags().StringVar(&flags.output, "output", "console", "output format (console|json)")
	cmd.Flags().StringVar(&flags.filePath, "file-path", "", "override the local store file path")
	cmd.Flags().BoolVar(&flags.noStorage, "no-storage", false, "disable the local JSON store for this run")

	return cmd
}

func runScrapeCommand(cmd *cobra.Command, flags *scrapeFlags) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	cfg := appInstance.cfg

	logger := appInstance.logger
	if flags.output == "json" {
		logger = logging.Quiet(logger)
	}

	src, err := resolveSource(cfg, flags.source)
	if err != nil {
		return err
	}

	filter, err := buildFilter(flags)
	if err != nil {
		return err
	}

	clk := system.New()
	p, cleanup, err := buildPipeline(cmd, cfg, flags, src, logger, clk)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Metrics.Addr != "" {
		stop := serveMetrics(cfg.Metrics.Addr, logger)
		defer stop()
	}

	result := p.Run(cmd.Context(), src, filter)

	switch flags.output {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	case "console":
		logger.Info("scrape result",
			zap.String("run_id", result.RunID),
			zap.Bool("success", result.Success),
			zap.Int("total", result.Data.Total),
			zap.Int("inserted", result.Data.Inserted),
			zap.Int("updated", result.Data.Updated),
			zap.Int("failed", result.Data.Failed),
			zap.Int("pages_fetched", result.Meta.PagesFetched),
			zap.Int("pages_failed", result.Meta.PagesFailed),
			zap.Duration("duration", result.Meta.Duration),
		)
	default:
		return fmt.Errorf("unknown output format %q", flags.output)
	}

	if !result.Success {
		return fmt.Errorf("scrape run failed: %s", result.Error)
	}
	return nil
}

func buildPipeline(
	cmd *cobra.Command,
	cfg config.Config,
	flags *scrapeFlags,
	src scrape.Source,
	logger *zap.Logger,
	clk catalog.Clock,
) (*pipeline.Pipeline, func(), error) {
	fetcher := fetch.New(fetch.Config{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.HTTPTimeout(),
	})
	policy := fetch.NewRetryPolicy()
	policy.Attempts = cfg.HTTP.MaxRetries
	policy.InitialDelay = cfg.BackoffInitial()

	scraper := scrape.New(fetcher, policy, logger)
	extractor := extract.New(logger)

	var classifier catalog.Classifier = classify.NewFallback()
	if cfg.AI.Enabled {
		classifier = classify.NewRemote(classify.RemoteConfig{
			Endpoint:    cfg.AI.Endpoint,
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			MaxTokens:   cfg.AI.MaxTokens,
			Temperature: cfg.AI.Temperature,
			Timeout:     time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		}, logger)
	}
	builder := catalog.NewBuilder(src.Name, src.Authority, classifier, clk)

	cleanup := func() {}

	var localStore pipeline.LocalStore
	if cfg.Storage.Enabled && !flags.noStorage {
		path := cfg.Storage.FilePath
		if flags.filePath != "" {
			path = flags.filePath
		}
		s, err := local.New(path, clk)
		if err != nil {
			return nil, cleanup, fmt.Errorf("init local store: %w", err)
		}
		localStore = s
	}

	var remoteStore pipeline.RemoteStore
	if cfg.DB.Enabled {
		s, err := postgres.New(cmd.Context(), postgres.Config{
			DSN:       cfg.DB.DSN,
			Table:     cfg.DB.Table,
			BatchSize: cfg.DB.BatchSize,
			MaxConns:  int32(cfg.DB.MaxOpenConns),
		})
		if err != nil {
			return nil, cleanup, fmt.Errorf("init postgres store: %w", err)
		}
		remoteStore = s
		cleanup = s.Close
	}

	return pipeline.New(scraper, extractor, builder, localStore, remoteStore, logger, clk), cleanup, nil
}

// serveMetrics exposes /metrics for the duration of the run.
func serveMetrics(addr string, logger *zap.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics endpoint failed", zap.Error(err))
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func resolveSource(cfg config.Config, override string) (scrape.Source, error) {
	name := cfg.Source.Name
	if override != "" {
		name = override
	}
	switch name {
	case "junta-cyl":
		src := scrape.JuntaCyL()
		src.PageDelay = cfg.PageDelay()
		src.MaxPages = cfg.Source.MaxPages
		return src, nil
	default:
		return scrape.Source{}, fmt.Errorf("unknown source %q", name)
	}
}

func buildFilter(flags *scrapeFlags) (pipeline.Filter, error) {
	filter := pipeline.Filter{
		Kind:    catalog.Kind(flags.kind),
		Domain:  flags.domain,
		Status:  catalog.Status(flags.status),
		Keyword: flags.keyword,
	}
	var err error
	if filter.From, err = parseDateFlag(flags.from); err != nil {
		return pipeline.Filter{}, fmt.Errorf("parse --from: %w", err)
	}
	if filter.To, err = parseDateFlag(flags.to); err != nil {
		return pipeline.Filter{}, fmt.Errorf("parse --to: %w", err)
	}
	return filter, nil
}

func parseDateFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
