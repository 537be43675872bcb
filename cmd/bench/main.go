package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/memowall"
	"github.com/aretw0/memowall/pkg/core"
)

func main() {
	count := flag.Int("count", 200, "Number of notes to pin")
	adapter := flag.String("adapter", memowall.AdapterFS, "Storage backend: memory, fs or sqlite")
	keep := flag.Bool("keep", false, "Keep the benchmark board after running")
	flag.Parse()

	// 1. Setup Namespace
	benchDir, err := os.MkdirTemp("", "memowall_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.TODO()
	opts := []memowall.Option{
		memowall.WithAdapter(*adapter),
		memowall.WithLogger(logger),
		memowall.WithErrorHandler(func(err error) { panic(err) }),
	}

	board, err := memowall.New(ctx, benchDir, opts...)
	if err != nil {
		panic(err)
	}

	// 2. Pin: every add rewrites the whole board, so cost grows with size.
	fmt.Printf("Pinning %d notes (%s) in %s...\n", *count, *adapter, benchDir)
	startAdd := time.Now()
	for i := 0; i < *count; i++ {
		if _, err := board.Add(ctx, fmt.Sprintf("Benchmark note %d", i), "bench", core.ColorCream); err != nil {
			panic(err)
		}
	}
	addDuration := time.Since(startAdd)

	// 3. Drag: 50 moves per note, one save at release.
	notes := board.Notes()
	startDrag := time.Now()
	for _, n := range notes {
		if err := board.PointerDown(n.ID, n.Position()); err != nil {
			panic(err)
		}
		for step := 0; step < 50; step++ {
			board.PointerMove(core.Position{X: n.X + float64(step), Y: n.Y + float64(step)})
		}
		board.PointerUp(ctx)
	}
	dragDuration := time.Since(startDrag)

	if err := board.Close(ctx); err != nil {
		panic(err)
	}

	// 4. Reopen to simulate a new CLI command run.
	startOpen := time.Now()
	board2, err := memowall.New(ctx, benchDir, opts...)
	if err != nil {
		panic(err)
	}
	openDuration := time.Since(startOpen)
	loaded := len(board2.Notes())
	_ = board2.Close(ctx)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d notes, %s):\n", *count, *adapter)
	fmt.Printf("  Add:    %v (%v/note)\n", addDuration, addDuration/time.Duration(max(*count, 1)))
	fmt.Printf("  Drag:   %v (%v/drag)\n", dragDuration, dragDuration/time.Duration(max(len(notes), 1)))
	fmt.Printf("  Reopen: %v (Items: %d)\n", openDuration, loaded)
	fmt.Printf("--------------------------------------------------\n")
}
