// Package cli implements the helpsync command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	configfile "github.com/helpsync-labs/helpsync-cli/internal/adapters/driven/config/file"
	"github.com/helpsync-labs/helpsync-cli/internal/logger"
)

// version is set by Execute from the build.
var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "helpsync",
	Short: "Sync help-center articles into a managed search index",
	Long: `helpsync fetches articles from a help-center API, normalises them to
clean text, and keeps a remote managed index in step with the source.
Only documents whose content actually changed are re-uploaded.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.helpsync/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the CLI with the given build version.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}

// loadConfig reads the configuration honouring the --config flag.
func loadConfig() (*configfile.Config, error) {
	path := configPath
	if path == "" {
		path = configfile.DefaultPath()
	}
	return configfile.Load(path)
}
