package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	resetRemote bool
	resetForce  bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear local state, forcing a full resync on the next run",
	Long: `Removes the ledger and the locally stored documents. The next run
re-uploads everything. With --remote, every file in the remote index is
deleted as well.`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetRemote, "remote", false, "also delete all files from the remote index")
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "skip the confirmation check")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	if !resetForce {
		return fmt.Errorf("reset discards sync state; re-run with --force to confirm")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	comps, err := buildComponents(cfg)
	if err != nil {
		return err
	}
	defer comps.connector.Close()

	ctx := cmd.Context()

	if resetRemote {
		files, err := comps.index.List(ctx)
		if err != nil {
			return fmt.Errorf("list remote files: %w", err)
		}
		for _, f := range files {
			if err := comps.index.Delete(ctx, f.ID); err != nil {
				return fmt.Errorf("delete remote file %s: %w", f.ID, err)
			}
		}
		cmd.Printf("Deleted %d remote files\n", len(files))
	}

	if err := comps.ledgerStore.Reset(ctx); err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}
	if err := comps.docStore.Clear(ctx); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}

	cmd.Println("Local state cleared; the next run performs a full resync.")
	return nil
}
