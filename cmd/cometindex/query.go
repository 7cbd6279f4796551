package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/wizenheimer/cometindex/internal/analyze"
	"github.com/wizenheimer/cometindex/internal/index"
	"github.com/wizenheimer/cometindex/internal/rank"
	"github.com/wizenheimer/cometindex/internal/repl"
	"github.com/wizenheimer/cometindex/internal/server"
)

func runQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	dir := fs.String("dir", ".", "directory containing the merged index")
	enriched := fs.Bool("enriched", false, "use the stemming/stopword analyzer (must match the build)")
	serverFlag := fs.Bool("server", false, "serve HTTP search requests instead of batch or REPL mode")
	port := fs.Int("port", 8080, "port for --server mode")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var analyzer analyze.Analyzer = analyze.Basic{}
	if *enriched {
		analyzer = analyze.Enriched{}
	}

	idx, err := index.Open(*dir, analyzer)
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer idx.Close()

	switch {
	case *serverFlag:
		if fs.NArg() == 1 {
			p, err := strconv.Atoi(fs.Arg(0))
			if err != nil {
				return fmt.Errorf("invalid server port %q", fs.Arg(0))
			}
			*port = p
		}
		return runServer(idx, *port)
	case fs.NArg() == 1:
		return runBatch(idx, fs.Arg(0))
	case fs.NArg() == 0:
		return repl.Run(idx, os.Stdin, os.Stdout)
	default:
		return fmt.Errorf("usage: cometindex query [--dir path] [<queries.tsv> | --server [port]]")
	}
}

func runServer(idx *index.Index, port int) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	metrics := server.NewMetrics()
	router := server.NewRouter(idx, metrics)

	addr := fmt.Sprintf(":%d", port)
	logger.Info("serving", "addr", addr)
	return router.Run(addr)
}

// runBatch mirrors the source's worker-pool batch query tool: a fixed pool
// of goroutines pulls query lines by atomic index fetch-and-increment, each
// accumulates its own output lines, and a single mutex guards the flush.
func runBatch(idx *index.Index, queriesPath string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	f, err := os.Open(queriesPath)
	if err != nil {
		return fmt.Errorf("opening queries file: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading queries file: %w", err)
	}

	outPath := strings.TrimSuffix(filepath.Base(queriesPath), filepath.Ext(queriesPath)) + "_results.txt"
	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	defer outFile.Close()
	out := bufio.NewWriter(outFile)
	defer out.Flush()

	var next atomic.Uint64
	var mu sync.Mutex
	var wg sync.WaitGroup

	workers := runtime.GOMAXPROCS(0)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			cursorFile, err := idx.NewCursorFile()
			if err != nil {
				logger.Error("opening cursor file", "error", err)
				return
			}
			defer cursorFile.Close()

			var local []string
			for {
				i := next.Add(1) - 1
				if i >= uint64(len(lines)) {
					break
				}

				id, text := splitQueryLine(lines[i])
				terms := idx.Analyzer.Analyze([]byte(text))
				if len(terms) == 0 {
					continue
				}

				results := rank.OR(idx, cursorFile, terms, rank.TopKServer, nil)
				for rk, r := range results {
					local = append(local, fmt.Sprintf("%s Q0 %s %d %v bm25",
						id, idx.ExternalID(r.DocID), rk+1, r.Score))
				}
			}

			mu.Lock()
			for _, line := range local {
				fmt.Fprintln(out, line)
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	logger.Info("batch query complete", "queries", len(lines), "output", outPath)
	return nil
}

func splitQueryLine(line string) (id, text string) {
	tab := strings.IndexByte(line, '\t')
	if tab < 0 {
		return "", line
	}
	return line[:tab], line[tab+1:]
}
