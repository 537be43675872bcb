package memowall_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/memowall"
	"github.com/aretw0/memowall/pkg/core"
)

// Example_basic demonstrates how to open a board, pin a note and read it back.
func Example_basic() {
	// Create a temporary directory for the example
	tmpDir, err := os.MkdirTemp("", "memowall-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	board, err := memowall.New(ctx, tmpDir)
	if err != nil {
		log.Fatal(err)
	}

	// 1. Pin a note
	if _, err := board.Add(ctx, "Hello", "", core.ColorMint); err != nil {
		log.Fatal(err)
	}
	_ = board.Close(ctx)

	// 2. Reopen and read it back
	again, err := memowall.New(ctx, tmpDir)
	if err != nil {
		log.Fatal(err)
	}
	for _, n := range again.Notes() {
		fmt.Printf("%s by %s (%s)\n", n.Text, n.Author, n.Color)
	}
	// Output:
	// Hello by Anonymous (mint)
}

// Example_drag shows the grab offset being kept while a note is dragged.
func Example_drag() {
	ctx := context.Background()
	board, err := memowall.New(ctx, "", memowall.WithAdapter(memowall.AdapterMemory))
	if err != nil {
		log.Fatal(err)
	}

	note, _ := board.Add(ctx, "drag me", "Gopher", core.ColorSky)

	// Grab the note 10px right and below its corner.
	grab := core.Position{X: note.X + 10, Y: note.Y + 10}
	if err := board.PointerDown(note.ID, grab); err != nil {
		log.Fatal(err)
	}
	board.PointerMove(core.Position{X: 150, Y: 160})
	moved, _ := board.PointerUp(ctx)

	fmt.Printf("(%.0f, %.0f)\n", moved.X, moved.Y)
	// Output:
	// (140, 150)
}
