package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/wizenheimer/cometindex/internal/analyze"
	"github.com/wizenheimer/cometindex/internal/build"
)

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	dir := fs.String("dir", ".", "build directory for runs and index output")
	enriched := fs.Bool("enriched", false, "use the stemming/stopword analyzer instead of the basic tokenizer")
	subset := fs.String("subset", "", "optional newline-delimited allowlist of external ids")
	maxBuffer := fs.Int("max-buffer-postings", build.DefaultMaxBufferPostings, "postings buffered in memory before a run is spilled")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: cometindex build <corpus.tsv> [--dir path] [--enriched] [--subset file]")
	}
	corpusPath := fs.Arg(0)

	var analyzer analyze.Analyzer = analyze.Basic{}
	if *enriched {
		analyzer = analyze.Enriched{}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	meta, err := build.Build(corpusPath, build.Options{
		BuildDir:          *dir,
		Analyzer:          analyzer,
		MaxBufferPostings: *maxBuffer,
		SubsetFile:        *subset,
		Logger:            logger,
	})
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	logger.Info("build complete", "documents", meta.TotalDocuments, "runs", meta.TotalRuns)
	return nil
}
