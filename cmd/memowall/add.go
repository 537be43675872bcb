package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/memowall/pkg/core"
)

var (
	addAuthor string
	addColor  string
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Pin a new note to the board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		color, err := core.ParseColor(addColor)
		if err != nil {
			return fmt.Errorf("invalid color: %w", err)
		}

		ctx := context.Background()
		board, _, err := openBoard(ctx)
		if err != nil {
			return err
		}
		defer closeBoard(ctx, board)

		note, err := board.Add(ctx, args[0], addAuthor, color)
		if err != nil {
			return fmt.Errorf("failed to add note: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Note pinned: %s\n", note.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addAuthor, "author", "a", "", "Author name (default Anonymous)")
	addCmd.Flags().StringVar(&addColor, "color", string(core.DefaultColor), "Note color: white, cream, mint, rose or sky")
}
