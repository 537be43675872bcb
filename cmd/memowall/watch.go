package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/memowall"
	lcadapter "github.com/aretw0/memowall/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print board events as they happen",
	Long: `Watch follows the board's storage key and prints every reload caused
by another process (another "memowall" command or a running server).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		board, cfg, err := openBoard(ctx)
		if err != nil {
			return err
		}
		defer closeBoard(context.Background(), board)

		following, err := memowall.Follow(ctx, board, slog.Default())
		if err != nil {
			return fmt.Errorf("failed to watch storage: %w", err)
		}
		if !following {
			return fmt.Errorf("%s storage does not report changes", cfg.Store)
		}

		src := lcadapter.NewSource(board.Subscribe(ctx))
		if err := src.Start(ctx); err != nil {
			return fmt.Errorf("failed to start event feed: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Watching %s (%d notes). Press Ctrl+C to stop.\n", cfg.Key, len(board.Notes()))
		for e := range src.Events() {
			fmt.Fprintf(out, "%s %s (%d notes)\n", time.Now().Format(time.TimeOnly), e, len(board.Notes()))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
