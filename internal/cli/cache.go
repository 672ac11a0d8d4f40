package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conjure-cli/conjure/internal/config"
	"github.com/conjure-cli/conjure/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the generated-source artifact store",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached source artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		st, err := store.New(cfg.CacheDir)
		if err != nil {
			return fmt.Errorf("opening artifact store: %w", err)
		}
		if err := st.Clear(); err != nil {
			return fmt.Errorf("clearing artifact store: %w", err)
		}
		fmt.Fprintln(os.Stdout, "Artifact store cleared.")
		return nil
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show artifact store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		st, err := store.New(cfg.CacheDir)
		if err != nil {
			return fmt.Errorf("opening artifact store: %w", err)
		}
		stats, err := st.GetStats()
		if err != nil {
			return fmt.Errorf("reading artifact store stats: %w", err)
		}
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheShowCmd)
	cacheClearCmd.Flags().StringVar(&flagCacheDir, "cache-dir", "", "Directory for generated source artifacts")
	cacheShowCmd.Flags().StringVar(&flagCacheDir, "cache-dir", "", "Directory for generated source artifacts")
}
