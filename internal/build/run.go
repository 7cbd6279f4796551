package build

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"sort"
)

// spillRun sorts items lexicographically by (term, doc_id) ascending and
// writes them to path as repeated (term_len u32, term_bytes, doc_id i32,
// freq i32) records.
func spillRun(path string, items []posting) error {
	sort.Slice(items, func(i, j int) bool {
		if items[i].term != items[j].term {
			return items[i].term < items[j].term
		}
		return items[i].docID < items[j].docID
	})

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("build: creating run file %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var hdr [12]byte
	for _, p := range items {
		binary.LittleEndian.PutUint32(hdr[0:4], uint32(len(p.term)))
		if _, err := w.Write(hdr[0:4]); err != nil {
			return fmt.Errorf("build: writing run record: %w", err)
		}
		if _, err := w.WriteString(p.term); err != nil {
			return fmt.Errorf("build: writing run record: %w", err)
		}
		binary.LittleEndian.PutUint32(hdr[4:8], uint32(p.docID))
		binary.LittleEndian.PutUint32(hdr[8:12], uint32(p.freq))
		if _, err := w.Write(hdr[4:12]); err != nil {
			return fmt.Errorf("build: writing run record: %w", err)
		}
	}
	return w.Flush()
}
