// Package merge implements the k-way merge of sorted spill runs into the
// final compressed inverted file, lexicon, and skip table.
package merge

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// runReader streams (term, doc_id, freq) records from one spill run file in
// the order the builder wrote them.
type runReader struct {
	f *os.File
	r *bufio.Reader
}

func openRun(path string) (*runReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("merge: opening run %s: %w", path, err)
	}
	return &runReader{f: f, r: bufio.NewReader(f)}, nil
}

// readNext reads the next record, returning ok=false at clean EOF.
func (rr *runReader) readNext() (term string, doc, freq int32, ok bool, err error) {
	var hdr [4]byte
	if _, err = io.ReadFull(rr.r, hdr[:]); err != nil {
		if err == io.EOF {
			return "", 0, 0, false, nil
		}
		return "", 0, 0, false, fmt.Errorf("merge: reading term length: %w", err)
	}
	termLen := binary.LittleEndian.Uint32(hdr[:])

	termBytes := make([]byte, termLen)
	if _, err = io.ReadFull(rr.r, termBytes); err != nil {
		return "", 0, 0, false, fmt.Errorf("merge: reading term bytes: %w", err)
	}

	var rest [8]byte
	if _, err = io.ReadFull(rr.r, rest[:]); err != nil {
		return "", 0, 0, false, fmt.Errorf("merge: reading doc/freq: %w", err)
	}
	doc = int32(binary.LittleEndian.Uint32(rest[0:4]))
	freq = int32(binary.LittleEndian.Uint32(rest[4:8]))
	return string(termBytes), doc, freq, true, nil
}

func (rr *runReader) close() error {
	return rr.f.Close()
}
