package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/memowall/pkg/core"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Tear a note off the board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		ctx := context.Background()
		board, _, err := openBoard(ctx)
		if err != nil {
			return err
		}
		defer closeBoard(ctx, board)

		if !board.Remove(ctx, id) {
			return fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Note deleted: %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
