package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/synthpop/config"
	"github.com/katalvlaran/synthpop/logger"
)

// Set by -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

var (
	configPath string
	cfg        *config.Config
	log        *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "synthpop",
	Short: "synthpop - family-unit formation for synthetic populations",
	Long: `synthpop builds a synthetic base population and groups its persons into
census family units: couples, couples with children, one-parent families and
other families.

Examples:
  synthpop form --config synthpop.toml
  synthpop form --config synthpop.toml --seed 7 --store runs.db
  synthpop version`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
		if log, err = logger.New(logger.Config{JSON: cfg.Log.JSON, Level: cfg.Log.Level}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	rootCmd.AddCommand(formCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
