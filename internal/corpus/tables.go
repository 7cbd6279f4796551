package corpus

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// PageTableWriter appends doc_id -> external_id lines to page_table.txt.
type PageTableWriter struct {
	w *bufio.Writer
	f *os.File
}

// NewPageTableWriter creates page_table.txt under dir.
func NewPageTableWriter(dir string) (*PageTableWriter, error) {
	f, err := os.Create(dir + "/page_table.txt")
	if err != nil {
		return nil, fmt.Errorf("corpus: creating page_table.txt: %w", err)
	}
	return &PageTableWriter{w: bufio.NewWriter(f), f: f}, nil
}

// Write appends one (doc_id, external_id) line.
func (p *PageTableWriter) Write(docID int32, externalID string) error {
	_, err := fmt.Fprintf(p.w, "%d\t%s\n", docID, externalID)
	return err
}

// Close flushes and closes the underlying file.
func (p *PageTableWriter) Close() error {
	if err := p.w.Flush(); err != nil {
		return err
	}
	return p.f.Close()
}

// DocLengthWriter appends doc_id -> token_count lines to doc_lengths.txt.
type DocLengthWriter struct {
	w *bufio.Writer
	f *os.File
}

// NewDocLengthWriter creates doc_lengths.txt under dir.
func NewDocLengthWriter(dir string) (*DocLengthWriter, error) {
	f, err := os.Create(dir + "/doc_lengths.txt")
	if err != nil {
		return nil, fmt.Errorf("corpus: creating doc_lengths.txt: %w", err)
	}
	return &DocLengthWriter{w: bufio.NewWriter(f), f: f}, nil
}

// Write appends one (doc_id, length) line.
func (d *DocLengthWriter) Write(docID int32, length int) error {
	_, err := fmt.Fprintf(d.w, "%d\t%d\n", docID, length)
	return err
}

// Close flushes and closes the underlying file.
func (d *DocLengthWriter) Close() error {
	if err := d.w.Flush(); err != nil {
		return err
	}
	return d.f.Close()
}

// ExternalIDs is the in-memory doc_id<->external_id map loaded at query time.
type ExternalIDs struct {
	toExternal []string
	toDocID    map[string]int32
}

// LoadPageTable reads page_table.txt fully into memory.
func LoadPageTable(dir string) (*ExternalIDs, error) {
	f, err := os.Open(dir + "/page_table.txt")
	if err != nil {
		return nil, fmt.Errorf("corpus: opening page_table.txt: %w", err)
	}
	defer f.Close()

	e := &ExternalIDs{toDocID: make(map[string]int32)}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		docID, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}
		for len(e.toExternal) <= docID {
			e.toExternal = append(e.toExternal, "")
		}
		e.toExternal[docID] = parts[1]
		e.toDocID[parts[1]] = int32(docID)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("corpus: reading page_table.txt: %w", err)
	}
	return e, nil
}

// External returns the external id for docID.
func (e *ExternalIDs) External(docID int32) string {
	if int(docID) < 0 || int(docID) >= len(e.toExternal) {
		return ""
	}
	return e.toExternal[docID]
}

// DocID returns the internal doc_id for an external id, and whether it exists.
func (e *ExternalIDs) DocID(externalID string) (int32, bool) {
	id, ok := e.toDocID[externalID]
	return id, ok
}

// DocLengths is the in-memory doc_id -> token_count map loaded at query time.
type DocLengths struct {
	lengths []int32
	avgdl   float64
}

// LoadDocLengths reads doc_lengths.txt fully and precomputes avgdl.
func LoadDocLengths(dir string) (*DocLengths, error) {
	f, err := os.Open(dir + "/doc_lengths.txt")
	if err != nil {
		return nil, fmt.Errorf("corpus: opening doc_lengths.txt: %w", err)
	}
	defer f.Close()

	d := &DocLengths{}
	var sum int64
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		parts := strings.SplitN(sc.Text(), "\t", 2)
		if len(parts) != 2 {
			continue
		}
		docID, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}
		length, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		for len(d.lengths) <= docID {
			d.lengths = append(d.lengths, 0)
		}
		d.lengths[docID] = int32(length)
		sum += int64(length)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("corpus: reading doc_lengths.txt: %w", err)
	}
	if len(d.lengths) > 0 {
		d.avgdl = float64(sum) / float64(len(d.lengths))
	}
	return d, nil
}

// Length returns the token count for docID.
func (d *DocLengths) Length(docID int32) int32 {
	if int(docID) < 0 || int(docID) >= len(d.lengths) {
		return 0
	}
	return d.lengths[docID]
}

// NumDocs returns N, the total document count.
func (d *DocLengths) NumDocs() int { return len(d.lengths) }

// AvgDL returns avgdl across the loaded collection.
func (d *DocLengths) AvgDL() float64 { return d.avgdl }
