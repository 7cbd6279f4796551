// Package build implements the Builder: streaming ingest of a TSV corpus
// into per-document store/length/external-id tables and sorted posting runs
// ready for the merge step.
package build

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/wizenheimer/cometindex/internal/analyze"
	"github.com/wizenheimer/cometindex/internal/corpus"
)

// Options configures a build run.
type Options struct {
	// BuildDir is where run_*.bin, documents.dat/idx, page_table.txt, and
	// doc_lengths.txt are written.
	BuildDir string
	// Analyzer is run over each document's text. Must be used identically at
	// query time; the system does not detect a mismatch.
	Analyzer analyze.Analyzer
	// MaxBufferPostings caps the in-memory posting buffer before a spill.
	MaxBufferPostings int
	// SubsetFile, if set, restricts ingest to the external ids it lists.
	SubsetFile string
	Logger     *slog.Logger
}

// Metadata is written to indexer_meta.txt.
type Metadata struct {
	TotalDocuments int
	TotalRuns      int
}

// Build ingests corpusPath and writes run files plus the document-side
// tables under opts.BuildDir.
func Build(corpusPath string, opts Options) (Metadata, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	allowlist, err := corpus.LoadAllowlist(opts.SubsetFile)
	if err != nil {
		return Metadata{}, fmt.Errorf("build: loading subset filter: %w", err)
	}

	provider, err := newRunProvider(opts.BuildDir)
	if err != nil {
		return Metadata{}, err
	}
	defer provider.close()

	in, err := os.Open(corpusPath)
	if err != nil {
		return Metadata{}, fmt.Errorf("build: opening corpus %s: %w", corpusPath, err)
	}
	defer in.Close()

	storeW, err := corpus.NewStoreWriter(opts.BuildDir)
	if err != nil {
		return Metadata{}, err
	}
	defer storeW.Close()

	pageW, err := corpus.NewPageTableWriter(opts.BuildDir)
	if err != nil {
		return Metadata{}, err
	}
	defer pageW.Close()

	lenW, err := corpus.NewDocLengthWriter(opts.BuildDir)
	if err != nil {
		return Metadata{}, err
	}
	defer lenW.Close()

	buf := newPostingBuffer(opts.MaxBufferPostings)
	var docID int32
	totalRuns := 0

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		tab := strings.IndexByte(line, '\t')
		if tab < 0 {
			continue // malformed line, skipped silently
		}
		externalID, text := line[:tab], line[tab+1:]

		if allowlist != nil && !allowlist.Allows(externalID) {
			continue
		}

		tokens := opts.Analyzer.Analyze([]byte(text))
		if len(tokens) == 0 {
			// Also skip the store writes, keeping documents.idx directly
			// doc_id-indexable.
			continue
		}

		if err := storeW.Append([]byte(text)); err != nil {
			return Metadata{}, err
		}
		if err := pageW.Write(docID, externalID); err != nil {
			return Metadata{}, fmt.Errorf("build: writing page table: %w", err)
		}
		if err := lenW.Write(docID, len(tokens)); err != nil {
			return Metadata{}, fmt.Errorf("build: writing doc lengths: %w", err)
		}

		tf := make(map[string]int32, len(tokens))
		for _, t := range tokens {
			tf[t]++
		}
		for term, freq := range tf {
			buf.add(term, docID, freq)
		}

		docID++
		if docID%100_000 == 0 {
			logger.Info("build progress", "docs_indexed", docID)
		}

		if buf.isFull() {
			runID := provider.nextRunID()
			if err := spillRun(provider.runPath(runID), buf.items); err != nil {
				return Metadata{}, err
			}
			logger.Info("spilled run", "run", runID, "postings", buf.len())
			totalRuns++
			buf.reset()
		}
	}
	if err := sc.Err(); err != nil {
		return Metadata{}, fmt.Errorf("build: reading corpus: %w", err)
	}

	if buf.len() > 0 {
		runID := provider.nextRunID()
		if err := spillRun(provider.runPath(runID), buf.items); err != nil {
			return Metadata{}, err
		}
		logger.Info("spilled final run", "run", runID, "postings", buf.len())
		totalRuns++
	}

	meta := Metadata{TotalDocuments: int(docID), TotalRuns: totalRuns}
	if err := writeMetadata(opts.BuildDir, meta); err != nil {
		return Metadata{}, err
	}
	logger.Info("build complete", "total_documents", meta.TotalDocuments, "total_runs", meta.TotalRuns)
	return meta, nil
}

func writeMetadata(dir string, m Metadata) error {
	f, err := os.Create(dir + "/indexer_meta.txt")
	if err != nil {
		return fmt.Errorf("build: creating indexer_meta.txt: %w", err)
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "total_documents\t%d\ntotal_runs\t%d\n", m.TotalDocuments, m.TotalRuns)
	if err != nil {
		return fmt.Errorf("build: writing indexer_meta.txt: %w", err)
	}
	return nil
}
