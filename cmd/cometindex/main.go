// Command cometindex builds, merges, and queries a disk-resident BM25
// inverted index, following the three-subcommand shape of the tools this
// was built from (a separate build/merge/query binary each).
package main

import (
	"fmt"
	"log/slog"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(os.Args[2:])
	case "merge":
		err = runMerge(os.Args[2:])
	case "query":
		err = runQuery(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: cometindex <build|merge|query> [args]")
	fmt.Fprintln(os.Stderr, "  cometindex build <corpus.tsv> [--dir path] [--enriched] [--subset file]")
	fmt.Fprintln(os.Stderr, "  cometindex merge <num_runs> [--dir path]")
	fmt.Fprintln(os.Stderr, "  cometindex query [--dir path] [--enriched] [<queries.tsv> | --server [port]]")
}
