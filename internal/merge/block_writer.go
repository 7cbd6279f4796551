package merge

import (
	"bufio"
	"encoding/binary"
	"fmt"

	"github.com/wizenheimer/cometindex/internal/postings"
)

// writeBlock emits one compressed block for docs/freqs to w: delta+varbyte
// encoded doc-ids, varbyte-encoded freqs, each prefixed by its byte length.
// It appends the block's skip-table entry and advances *offset by the
// number of bytes written.
func writeBlock(w *bufio.Writer, docs, freqs []int32, skip *postings.SkipTable, offset *int64) error {
	ed := postings.EncodeDeltas(docs)
	ef := postings.EncodeFreqs(freqs)

	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(ed)))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("merge: writing doc_bytes header: %w", err)
	}
	if _, err := w.Write(ed); err != nil {
		return fmt.Errorf("merge: writing doc bytes: %w", err)
	}
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(ef)))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("merge: writing freq_bytes header: %w", err)
	}
	if _, err := w.Write(ef); err != nil {
		return fmt.Errorf("merge: writing freq bytes: %w", err)
	}

	skip.LastDocID = append(skip.LastDocID, docs[len(docs)-1])
	skip.DocBytes = append(skip.DocBytes, int32(len(ed)))
	skip.FreqBytes = append(skip.FreqBytes, int32(len(ef)))

	*offset += int64(8 + len(ed) + len(ef))
	return nil
}
