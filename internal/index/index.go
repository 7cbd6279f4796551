// Package index assembles the persisted files into one immutable in-memory
// Index value, constructed once at process startup and shared read-only by
// every query.
package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/wizenheimer/cometindex/internal/analyze"
	"github.com/wizenheimer/cometindex/internal/corpus"
	"github.com/wizenheimer/cometindex/internal/postings"
)

// Index holds every derived in-memory table plus the handles needed to build
// per-query Cursors. All fields are read-only after Open returns.
type Index struct {
	dir string

	lexicon map[string]*postings.LexiconEntry
	skip    *postings.SkipTable

	lengths     *corpus.DocLengths
	externalIDs *corpus.ExternalIDs
	store       *corpus.Store

	Analyzer analyze.Analyzer

	invertedFile *os.File
}

// Open loads lexicon.txt, metadata.bin, doc_lengths.txt, page_table.txt, and
// the document store from dir, and opens inverted_index.bin for per-cursor
// random reads. A failure here is a startup error: the caller is expected
// to log and exit nonzero.
func Open(dir string, a analyze.Analyzer) (*Index, error) {
	lex, err := loadLexicon(dir + "/lexicon.txt")
	if err != nil {
		return nil, fmt.Errorf("index: loading lexicon: %w", err)
	}
	skip, err := loadSkipTable(dir + "/metadata.bin")
	if err != nil {
		return nil, fmt.Errorf("index: loading skip table: %w", err)
	}
	lengths, err := corpus.LoadDocLengths(dir)
	if err != nil {
		return nil, fmt.Errorf("index: loading doc lengths: %w", err)
	}
	ext, err := corpus.LoadPageTable(dir)
	if err != nil {
		return nil, fmt.Errorf("index: loading page table: %w", err)
	}
	store, err := corpus.OpenStore(dir)
	if err != nil {
		return nil, fmt.Errorf("index: opening document store: %w", err)
	}
	inv, err := os.Open(dir + "/inverted_index.bin")
	if err != nil {
		return nil, fmt.Errorf("index: opening inverted_index.bin: %w", err)
	}

	return &Index{
		dir:          dir,
		lexicon:      lex,
		skip:         skip,
		lengths:      lengths,
		externalIDs:  ext,
		store:        store,
		Analyzer:     a,
		invertedFile: inv,
	}, nil
}

// Close releases the shared file handles. Per-cursor/per-request handles are
// opened separately (see NewCursorFile) and are not affected.
func (idx *Index) Close() error {
	err1 := idx.invertedFile.Close()
	err2 := idx.store.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// NumDocs returns N, the total document count.
func (idx *Index) NumDocs() int { return idx.lengths.NumDocs() }

// AvgDL returns the collection's mean document length.
func (idx *Index) AvgDL() float64 { return idx.lengths.AvgDL() }

// DocLength returns the token count of docID.
func (idx *Index) DocLength(docID int32) int32 { return idx.lengths.Length(docID) }

// ExternalID returns the external identifier for docID.
func (idx *Index) ExternalID(docID int32) string { return idx.externalIDs.External(docID) }

// DocIDForExternal resolves an external id back to a doc_id.
func (idx *Index) DocIDForExternal(externalID string) (int32, bool) {
	return idx.externalIDs.DocID(externalID)
}

// DF returns a term's document frequency, or 0 if the term is absent from
// the lexicon.
func (idx *Index) DF(term string) int32 {
	if e, ok := idx.lexicon[term]; ok {
		return e.DF
	}
	return 0
}

// FetchDocument returns the raw passage bytes for docID.
func (idx *Index) FetchDocument(docID int32) ([]byte, error) {
	return idx.store.Fetch(docID)
}

// NewCursorFile opens a fresh, independent handle onto inverted_index.bin.
// In server mode, cursors never share a seek position; each request gets
// its own handle.
func (idx *Index) NewCursorFile() (*os.File, error) {
	f, err := os.Open(idx.dir + "/inverted_index.bin")
	if err != nil {
		return nil, fmt.Errorf("index: opening inverted_index.bin: %w", err)
	}
	return f, nil
}

// Cursor constructs a posting cursor for term over r (an io.ReaderAt obtained
// from NewCursorFile, or idx.SharedReaderAt()).
func (idx *Index) Cursor(r io.ReaderAt, term string) *postings.Cursor {
	return postings.NewCursor(r, idx.skip, idx.lexicon[term])
}

// SharedReaderAt exposes the Index-owned handle. Independent ReadAt calls on
// it are safe concurrently (os.File.ReadAt does not share a seek position
// across calls); the batch, server, and REPL paths each open their own
// handle via NewCursorFile instead.
func (idx *Index) SharedReaderAt() *os.File { return idx.invertedFile }

func loadLexicon(path string) (map[string]*postings.LexiconEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	lex := make(map[string]*postings.LexiconEntry)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		parts := strings.Split(sc.Text(), "\t")
		if len(parts) != 5 {
			return nil, fmt.Errorf("malformed lexicon line: %q", sc.Text())
		}
		startOffset, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed start_offset in %q: %w", sc.Text(), err)
		}
		startBlock, err := strconv.ParseInt(parts[2], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("malformed start_block in %q: %w", sc.Text(), err)
		}
		totalPostings, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed total_postings in %q: %w", sc.Text(), err)
		}
		df, err := strconv.ParseInt(parts[4], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("malformed df in %q: %w", sc.Text(), err)
		}
		lex[parts[0]] = &postings.LexiconEntry{
			Term:          parts[0],
			StartOffset:   startOffset,
			StartBlock:    int32(startBlock),
			TotalPostings: totalPostings,
			DF:            int32(df),
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lex, nil
}

func loadSkipTable(path string) (*postings.SkipTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var hdr [4]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		return nil, fmt.Errorf("reading num_blocks: %w", err)
	}
	n := int(binary.LittleEndian.Uint32(hdr[:]))

	readArray := func() ([]int32, error) {
		buf := make([]byte, n*4)
		if n > 0 {
			if _, err := io.ReadFull(f, buf); err != nil {
				return nil, err
			}
		}
		out := make([]int32, n)
		for i := 0; i < n; i++ {
			out[i] = int32(binary.LittleEndian.Uint32(buf[i*4 : i*4+4]))
		}
		return out, nil
	}

	last, err := readArray()
	if err != nil {
		return nil, fmt.Errorf("reading last_doc_id: %w", err)
	}
	docBytes, err := readArray()
	if err != nil {
		return nil, fmt.Errorf("reading doc_bytes: %w", err)
	}
	freqBytes, err := readArray()
	if err != nil {
		return nil, fmt.Errorf("reading freq_bytes: %w", err)
	}

	return &postings.SkipTable{LastDocID: last, DocBytes: docBytes, FreqBytes: freqBytes}, nil
}
