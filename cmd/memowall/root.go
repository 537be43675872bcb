package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/memowall"
	"github.com/aretw0/memowall/internal/config"
)

var (
	verbose    bool
	configFile string
	storeFlag  string
	pathFlag   string
	keyFlag    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "memowall",
	Short: "A wall of sticky notes you can pin, drag and tear off",
	Long: `Memowall keeps a board of short notes in a single storage key.
Notes can be pinned from the command line or the web board, dragged around,
and removed. The whole board is saved on every change.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default ./memowall.yaml)")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Storage backend: memory, fs or sqlite")
	rootCmd.PersistentFlags().StringVar(&pathFlag, "path", "", "Storage location (directory for fs, database file for sqlite)")
	rootCmd.PersistentFlags().StringVar(&keyFlag, "key", "", "Storage key holding the board")
}

// loadConfig resolves the process configuration and applies flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return config.Config{}, err
	}
	if storeFlag != "" {
		cfg.Store = storeFlag
	}
	if keyFlag != "" {
		cfg.Key = keyFlag
	}
	if pathFlag != "" {
		cfg.Path = pathFlag
	} else if !filepath.IsAbs(cfg.Path) {
		// Resolve relative to the nearest directory that already holds a
		// board, else to the working directory.
		if wd, err := os.Getwd(); err == nil {
			base := wd
			if root, err := memowall.FindRoot(wd); err == nil {
				base = root
			}
			cfg.Path = filepath.Join(base, cfg.Path)
		}
	}
	return cfg, nil
}

func boardOptions(cfg config.Config) []memowall.Option {
	return []memowall.Option{
		memowall.WithAdapter(cfg.Store),
		memowall.WithStorageKey(cfg.Key),
		memowall.WithViewport(cfg.Viewport),
		memowall.WithQuota(cfg.Quota),
		memowall.WithReadOnly(cfg.ReadOnly),
		memowall.WithLogger(slog.Default()),
		memowall.WithErrorHandler(func(err error) {
			slog.Error("storage error", "error", err)
		}),
	}
}

// openBoard opens the configured board. Callers must Close it.
func openBoard(ctx context.Context) (*memowall.Board, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	board, err := memowall.New(ctx, cfg.Path, boardOptions(cfg)...)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("failed to open board: %w", err)
	}
	return board, cfg, nil
}

func closeBoard(ctx context.Context, board *memowall.Board) {
	if err := board.Close(ctx); err != nil {
		slog.Warn("failed to close board", "error", err)
	}
}
