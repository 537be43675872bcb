package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/memowall/pkg/core"
)

var (
	listJSON     bool
	listYAML     bool
	filterAuthor string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the notes on the board, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		board, _, err := openBoard(ctx)
		if err != nil {
			return err
		}
		defer closeBoard(ctx, board)

		notes := filterNotes(board.Notes(), filterAuthor)
		out := cmd.OutOrStdout()

		switch {
		case listJSON:
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(notes); err != nil {
				return fmt.Errorf("error encoding JSON: %w", err)
			}
		case listYAML:
			encoder := yaml.NewEncoder(out)
			encoder.SetIndent(2)
			if err := encoder.Encode(notes); err != nil {
				return fmt.Errorf("error encoding YAML: %w", err)
			}
			return encoder.Close()
		default:
			for _, note := range notes {
				fmt.Fprintf(out, "%s [%s] %q by %s\n", note.ID, note.Color, note.Text, note.DisplayAuthor())
			}
		}
		return nil
	},
}

// filterNotes keeps notes by the given author, case-insensitively.
func filterNotes(notes []core.Note, author string) []core.Note {
	filtered := make([]core.Note, 0, len(notes))
	for _, note := range notes {
		if author != "" && !strings.EqualFold(note.DisplayAuthor(), author) {
			continue
		}
		filtered = append(filtered, note)
	}
	return filtered
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listYAML, "yaml", false, "Output in YAML format")
	listCmd.Flags().StringVar(&filterAuthor, "author", "", "Filter notes by author")
	listCmd.MarkFlagsMutuallyExclusive("json", "yaml")
}
