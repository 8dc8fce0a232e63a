package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/daynight/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "daynight",
	Short: "Solar day/night temperature analysis for weather stations",
	Long:  "Resolves a region to its weather stations, splits every temperature sample into solar day or night using per-date sunrise and sunset, and reports per-station and region-wide averages.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
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
