package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/molisha70-dotcom/Economic/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "growth",
	Short: "Policy-text GDP growth forecaster",
	Long:  "Extracts economic policies from free text with several LLMs, merges them into a consensus list and simulates base/low/high GDP growth paths for a country.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
