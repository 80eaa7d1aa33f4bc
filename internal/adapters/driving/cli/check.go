package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and connectivity",
	Long: `Verifies the configuration is complete, the help-center API is
reachable and the remote index accepts the credentials. Makes no
changes.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cmd.Println("Configuration: ok")

	comps, err := buildComponents(cfg)
	if err != nil {
		return err
	}
	defer comps.connector.Close()

	ctx := cmd.Context()

	if err := comps.connector.Validate(ctx); err != nil {
		return fmt.Errorf("source unreachable: %w", err)
	}
	cmd.Printf("Source %s: ok\n", cfg.Source.BaseURL)

	counts, err := comps.index.Counts(ctx)
	if err != nil {
		return fmt.Errorf("remote index unreachable: %w", err)
	}
	cmd.Printf("Vector store %s: ok (%d files)\n", cfg.Index.VectorStoreID, counts.Total)
	return nil
}
