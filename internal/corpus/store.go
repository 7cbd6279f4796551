// Package corpus implements the document store, external-id table, and
// doc-length table shared by the build and query paths, plus the optional
// subset allowlist feature.
package corpus

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// StoreWriter appends passage bytes to documents.dat and a parallel
// (offset, length) record to documents.idx, in doc_id order.
type StoreWriter struct {
	dat    *os.File
	idx    *os.File
	offset int64
}

// NewStoreWriter creates documents.dat and documents.idx under dir.
func NewStoreWriter(dir string) (*StoreWriter, error) {
	dat, err := os.Create(dir + "/documents.dat")
	if err != nil {
		return nil, fmt.Errorf("corpus: creating documents.dat: %w", err)
	}
	idx, err := os.Create(dir + "/documents.idx")
	if err != nil {
		dat.Close()
		return nil, fmt.Errorf("corpus: creating documents.idx: %w", err)
	}
	return &StoreWriter{dat: dat, idx: idx}, nil
}

// Append writes text's bytes at the current offset and records its
// (offset, length) entry. Callers decide whether to call this for documents
// whose analysis turns out empty.
func (w *StoreWriter) Append(text []byte) error {
	if _, err := w.dat.Write(text); err != nil {
		return fmt.Errorf("corpus: writing documents.dat: %w", err)
	}
	var rec [12]byte
	binary.LittleEndian.PutUint64(rec[0:8], uint64(w.offset))
	binary.LittleEndian.PutUint32(rec[8:12], uint32(len(text)))
	if _, err := w.idx.Write(rec[:]); err != nil {
		return fmt.Errorf("corpus: writing documents.idx: %w", err)
	}
	w.offset += int64(len(text))
	return nil
}

// Close closes both underlying files.
func (w *StoreWriter) Close() error {
	err1 := w.dat.Close()
	err2 := w.idx.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// Record is one documents.idx entry.
type Record struct {
	Offset int64
	Length int32
}

// Store is a read-only, random-access view over documents.dat/documents.idx,
// opened once at query startup and shared read-only across requests.
type Store struct {
	dat     *os.File
	records []Record
}

// OpenStore loads documents.idx fully into memory and opens documents.dat for
// random reads.
func OpenStore(dir string) (*Store, error) {
	dat, err := os.Open(dir + "/documents.dat")
	if err != nil {
		return nil, fmt.Errorf("corpus: opening documents.dat: %w", err)
	}
	idxFile, err := os.Open(dir + "/documents.idx")
	if err != nil {
		dat.Close()
		return nil, fmt.Errorf("corpus: opening documents.idx: %w", err)
	}
	defer idxFile.Close()

	br := bufio.NewReader(idxFile)
	var records []Record
	for {
		var rec [12]byte
		_, err := io.ReadFull(br, rec[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			dat.Close()
			return nil, fmt.Errorf("corpus: reading documents.idx: %w", err)
		}
		records = append(records, Record{
			Offset: int64(binary.LittleEndian.Uint64(rec[0:8])),
			Length: int32(binary.LittleEndian.Uint32(rec[8:12])),
		})
	}
	return &Store{dat: dat, records: records}, nil
}

// Fetch returns the raw passage bytes for docID.
func (s *Store) Fetch(docID int32) ([]byte, error) {
	if int(docID) < 0 || int(docID) >= len(s.records) {
		return nil, fmt.Errorf("corpus: doc_id %d out of range", docID)
	}
	rec := s.records[docID]
	buf := make([]byte, rec.Length)
	if rec.Length > 0 {
		if _, err := s.dat.ReadAt(buf, rec.Offset); err != nil {
			return nil, fmt.Errorf("corpus: fetching doc %d: %w", docID, err)
		}
	}
	return buf, nil
}

// NumDocs returns the number of documents in the store.
func (s *Store) NumDocs() int { return len(s.records) }

// Close closes the underlying document store file.
func (s *Store) Close() error { return s.dat.Close() }
