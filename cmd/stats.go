package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aidscope/ayudas-crawler/internal/clock/system"
	"github.com/aidscope/ayudas-crawler/internal/store/local"
)

func newStatsCmd() *cobra.Command {
	var (
		filePath string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Prints metadata about the local store",

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			cfg := appInstance.cfg

			path := cfg.Storage.FilePath
			if filePath != "" {
				path = filePath
			}
			store, err := local.New(path, system.New())
			if err != nil {
				return fmt.Errorf("open local store: %w", err)
			}

			meta, err := store.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("read stats: %w", err)
			}
			counts, err := store.Counts(cmd.Context())
			if err != nil {
				return fmt.Errorf("aggregate records: %w", err)
			}

			if output == "json" {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Metadata local.Metadata `json:"metadata"`
					Counts   local.Counts   `json:"counts"`
				}{meta, counts})
			}
			appInstance.logger.Info("local store stats",
				zap.String("path", path),
				zap.Int("total", meta.Total),
				zap.Int("inserted_last_run", meta.InsertedLastRun),
				zap.Int("updated_last_run", meta.UpdatedLastRun),
				zap.Time("last_updated", meta.LastUpdated),
				zap.Any("by_authority", counts.ByAuthority),
				zap.Any("by_kind", counts.ByKind),
				zap.Any("by_status", counts.ByStatus),
				zap.Any("by_domain", counts.ByDomain),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file-path", "", "override the local store file path")
	cmd.Flags().StringVar(&output, "output", "console", "output format (console|json)")

	return cmd
}
