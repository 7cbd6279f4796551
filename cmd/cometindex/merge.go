package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/wizenheimer/cometindex/internal/merge"
)

func runMerge(args []string) error {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	dir := fs.String("dir", ".", "build directory containing run_*.bin files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: cometindex merge <num_runs> [--dir path]")
	}

	numRuns, err := strconv.Atoi(fs.Arg(0))
	if err != nil || numRuns < 0 {
		return fmt.Errorf("num_runs must be a non-negative integer, got %q", fs.Arg(0))
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	stats, err := merge.Merge(*dir, numRuns, logger)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}

	logger.Info("merge complete", "terms", stats.TotalTerms, "blocks", stats.TotalBlocks)
	return nil
}
