package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/memowall/pkg/core"
)

// moveCmd replays a full drag: grab the note at its corner, move, release.
var moveCmd = &cobra.Command{
	Use:   "move [id] [x] [y]",
	Short: "Move a note to a new position",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		x, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid x: %w", err)
		}
		y, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid y: %w", err)
		}
		target := core.Position{X: x, Y: y}
		if !target.Finite() {
			return fmt.Errorf("%w: (%s, %s)", core.ErrBadPosition, args[1], args[2])
		}

		ctx := context.Background()
		board, _, err := openBoard(ctx)
		if err != nil {
			return err
		}
		defer closeBoard(ctx, board)

		note, ok := board.Get(id)
		if !ok {
			return fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		if err := board.PointerDown(id, note.Position()); err != nil {
			return fmt.Errorf("failed to grab note: %w", err)
		}
		board.PointerMove(target)
		moved, _ := board.PointerUp(ctx)

		fmt.Fprintf(cmd.OutOrStdout(), "Note %s moved to (%.0f, %.0f)\n", moved.ID, moved.X, moved.Y)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
