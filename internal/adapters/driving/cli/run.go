package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/helpsync-labs/helpsync-cli/internal/core/domain"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one sync pass",
	Long: `Fetches all articles from the source, diffs them against the last
synced state and uploads only the documents whose content changed.
Documents that disappeared from the source are removed from the index.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	comps, err := buildComponents(cfg)
	if err != nil {
		return err
	}
	defer comps.connector.Close()

	cmd.Printf("Syncing %s → vector store %s\n", cfg.Source.BaseURL, cfg.Index.VectorStoreID)

	summary, err := comps.pipeline.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	printSummary(cmd, summary)
	if summary.Failed() {
		return fmt.Errorf("%d documents failed to sync", summary.FailedCount)
	}
	return nil
}

func printSummary(cmd *cobra.Command, s *domain.RunSummary) {
	cmd.Printf("\nRun %s finished in %s\n", s.RunID, s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond))
	cmd.Printf("  added:     %d\n", s.AddedCount)
	cmd.Printf("  updated:   %d\n", s.UpdatedCount)
	cmd.Printf("  unchanged: %d\n", s.UnchangedCount)
	cmd.Printf("  removed:   %d\n", s.RemovedCount)
	cmd.Printf("  failed:    %d\n", s.FailedCount)

	for _, f := range s.Failures {
		cmd.Printf("  - %s %s: %s\n", f.Op, f.DocumentID, f.Reason)
	}
}
