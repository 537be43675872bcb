package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/memowall"
	"github.com/aretw0/memowall/pkg/core"
)

var keysCmd = &cobra.Command{
	Use:   "keys [pattern]",
	Short: "List storage keys matching a glob pattern (default **)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern := "**"
		if len(args) == 1 {
			pattern = args[0]
		}

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()
		kv, err := memowall.Init(ctx, cfg.Path,
			memowall.WithAdapter(cfg.Store),
			memowall.WithReadOnly(cfg.ReadOnly),
			memowall.WithLogger(slog.Default()),
		)
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		if c, ok := kv.(core.Closer); ok {
			defer c.Close()
		}

		lister, ok := kv.(core.Lister)
		if !ok {
			return fmt.Errorf("%s storage does not support listing", cfg.Store)
		}
		keys, err := lister.Keys(ctx, pattern)
		if err != nil {
			return fmt.Errorf("failed to list keys: %w", err)
		}
		for _, k := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), k)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}
