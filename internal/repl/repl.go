// Package repl implements the interactive query console, mirroring
// handleCli's prompt/parse/score/print loop: AND:/OR: prefixes (OR is the
// default), quit/exit to terminate, one result block per query.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wizenheimer/cometindex/internal/index"
	"github.com/wizenheimer/cometindex/internal/rank"
)

// Run drives the interactive loop, reading queries from in and writing
// prompts/results to out, until EOF or a "quit"/"exit" line.
func Run(idx *index.Index, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Search engine ready. Type 'quit' to exit.")
	fmt.Fprintln(out, "Prefix queries with 'AND:' for conjunctive, 'OR:' for disjunctive (default).")
	fmt.Fprintln(out)

	f, err := idx.NewCursorFile()
	if err != nil {
		return fmt.Errorf("opening inverted index: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Query> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		conjunctive := false
		query := line
		switch {
		case strings.HasPrefix(line, "AND:"):
			conjunctive = true
			query = line[4:]
		case strings.HasPrefix(line, "OR:"):
			query = line[3:]
		}

		terms := idx.Analyzer.Analyze([]byte(query))
		if len(terms) == 0 {
			continue
		}

		start := time.Now()

		var scored []rank.RankedDoc
		if conjunctive {
			scored = rank.AND(idx, f, terms, rank.TopKServer, nil)
		} else {
			scored = rank.OR(idx, f, terms, rank.TopKServer, nil)
		}

		shown := scored
		if len(shown) > rank.TopKInteractive {
			shown = shown[:rank.TopKInteractive]
		}

		elapsedMs := float64(time.Since(start).Microseconds()) / 1000.0

		fmt.Fprintf(out, "\nTop %d results:\n", len(shown))
		for i, r := range shown {
			fmt.Fprintf(out, "%d. DocID: %d (score: %v)\n", i+1, r.DocID, r.Score)
			snippet := "Snippet not available."
			if text, err := idx.FetchDocument(r.DocID); err == nil {
				snippet = rank.Snippet(string(text), terms, rank.AnsiBoldRed)
			}
			fmt.Fprintf(out, "Snippet: %s\n", snippet)
		}
		fmt.Fprintln(out, "--------------------------------------------------")
		fmt.Fprintf(out, "Total found: %d documents\n", len(scored))
		fmt.Fprintf(out, "Search time: %v ms\n\n", elapsedMs)
	}

	return scanner.Err()
}
