package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/aretw0/memowall"
	"github.com/aretw0/memowall/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		board, cfg, err := openBoard(ctx)
		if err != nil {
			return err
		}
		// Flush with a fresh context, ctx is already cancelled by then.
		defer closeBoard(context.Background(), board)

		if serveAddr != "" {
			cfg.Addr = serveAddr
		}

		if cfg.Watch {
			following, err := memowall.Follow(ctx, board, slog.Default())
			if err != nil {
				slog.Warn("storage watch disabled", "error", err)
			} else if following {
				slog.Info("following external storage changes", "key", cfg.Key)
			}
		}

		srv, err := api.NewServer(api.Config{Addr: cfg.Addr}, board, slog.Default())
		if err != nil {
			return fmt.Errorf("failed to build server: %w", err)
		}
		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default :8080, or $PORT)")
}
