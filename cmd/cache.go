package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/platewise/nutrition-engine/internal/model"
	"github.com/platewise/nutrition-engine/internal/resolver"
)

var (
	purgeNames     []string
	importFilePath string
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the ingredient cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached ingredient record",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		n, err := st.DeleteAll(ctx)
		if err != nil {
			return eris.Wrap(err, "clear cache")
		}

		zap.L().Info("cache cleared", zap.Int("deleted", n))
		cmd.Printf("deleted %d cached ingredients\n", n)
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete specific cached ingredients by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if len(purgeNames) == 0 {
			return eris.New("at least one --names entry is required")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		// Cache keys are normalized names.
		names := make([]string, len(purgeNames))
		for i, n := range purgeNames {
			names[i] = resolver.Normalize(n)
		}

		n, err := st.DeleteNames(ctx, names)
		if err != nil {
			return eris.Wrap(err, "purge cache")
		}

		zap.L().Info("cache purged", zap.Int("deleted", n), zap.Strings("names", purgeNames))
		cmd.Printf("deleted %d cached ingredients\n", n)
		return nil
	},
}

var cacheImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk-load ingredient records from a JSON export",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(importFilePath)
		if err != nil {
			return eris.Wrap(err, "read import file")
		}

		var recs []model.ResolvedIngredient
		if err := json.Unmarshal(data, &recs); err != nil {
			return eris.Wrap(err, "parse import file")
		}
		for i := range recs {
			recs[i].Name = resolver.Normalize(recs[i].Name)
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		n, err := st.UpsertBatch(ctx, recs)
		if err != nil {
			return eris.Wrap(err, "import cache")
		}

		zap.L().Info("cache imported", zap.Int("records", n), zap.String("file", importFilePath))
		cmd.Printf("imported %d ingredients\n", n)
		return nil
	},
}

func init() {
	cachePurgeCmd.Flags().StringSliceVar(&purgeNames, "names", nil, "ingredient names to purge (comma-separated)")
	cacheImportCmd.Flags().StringVar(&importFilePath, "file", "", "path to JSON array of ingredient records (required)")
	cacheImportCmd.MarkFlagRequired("file")
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
	cacheCmd.AddCommand(cacheImportCmd)
	rootCmd.AddCommand(cacheCmd)
}
