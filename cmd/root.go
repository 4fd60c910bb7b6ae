package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/platewise/nutrition-engine/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "nutrition-engine",
	Short: "Meal-plan nutrition validation and portion adjustment",
	Long:  "Resolves ingredients against FoodData Central, recomputes macro totals from verified per-100g data, rescales portions toward a target macro profile, and consolidates grocery lists.",
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
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
