package postings

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// writeBlocks lays out docs/freqs into BlockSize-sized blocks using the same
// persisted-layout rules the merge step writes, returning the encoded
// inverted file bytes plus the skip table and lexicon entry a real merge
// would produce.
func writeBlocks(docs, freqs []int32) ([]byte, *SkipTable, *LexiconEntry) {
	var buf bytes.Buffer
	skip := &SkipTable{}
	startBlock := int32(0)

	for i := 0; i < len(docs); i += BlockSize {
		end := i + BlockSize
		if end > len(docs) {
			end = len(docs)
		}
		blockDocs := docs[i:end]
		blockFreqs := freqs[i:end]

		ed := EncodeDeltas(blockDocs)
		ef := EncodeFreqs(blockFreqs)

		var hdr [4]byte
		binary.LittleEndian.PutUint32(hdr[:], uint32(len(ed)))
		buf.Write(hdr[:])
		buf.Write(ed)
		binary.LittleEndian.PutUint32(hdr[:], uint32(len(ef)))
		buf.Write(hdr[:])
		buf.Write(ef)

		skip.LastDocID = append(skip.LastDocID, blockDocs[len(blockDocs)-1])
		skip.DocBytes = append(skip.DocBytes, int32(len(ed)))
		skip.FreqBytes = append(skip.FreqBytes, int32(len(ef)))
	}

	e := &LexiconEntry{
		Term:          "t",
		StartOffset:   0,
		StartBlock:    startBlock,
		TotalPostings: int64(len(docs)),
		DF:            int32(len(docs)),
	}
	return buf.Bytes(), skip, e
}

func TestCursorMonotonicity(t *testing.T) {
	docs := make([]int32, 0, 300)
	freqs := make([]int32, 0, 300)
	for i := int32(0); i < 300; i++ {
		docs = append(docs, i*2)
		freqs = append(freqs, (i%5)+1)
	}
	data, skip, e := writeBlocks(docs, freqs)
	r := bytes.NewReader(data)
	c := NewCursor(r, skip, e)

	var got []int32
	for ok := c.NextGEQ(0); ok; ok = c.Advance() {
		got = append(got, c.Doc())
	}
	if len(got) != len(docs) {
		t.Fatalf("yielded %d postings, want %d (df)", len(got), len(docs))
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("doc_ids not strictly increasing at %d: %d <= %d", i, got[i], got[i-1])
		}
	}
	for i, d := range got {
		if d != docs[i] {
			t.Fatalf("doc %d = %d, want %d", i, d, docs[i])
		}
	}
}

func TestCursorNextGEQMonotone(t *testing.T) {
	docs := []int32{1, 5, 9, 130, 131, 400}
	freqs := []int32{1, 1, 1, 1, 1, 1}
	data, skip, e := writeBlocks(docs, freqs)
	r := bytes.NewReader(data)
	c := NewCursor(r, skip, e)

	targets := []int32{0, 2, 6, 6, 131, 500}
	for _, target := range targets {
		ok := c.NextGEQ(target)
		if !ok {
			if target <= docs[len(docs)-1] {
				t.Fatalf("NextGEQ(%d) failed unexpectedly", target)
			}
			continue
		}
		if c.Doc() < target {
			t.Fatalf("NextGEQ(%d) landed on %d, which is < target", target, c.Doc())
		}
	}
}

func TestCursorMissingTermIsExhausted(t *testing.T) {
	c := NewCursor(bytes.NewReader(nil), &SkipTable{}, nil)
	if c.Valid() {
		t.Fatal("cursor for absent term should be immediately exhausted")
	}
	if c.NextGEQ(0) {
		t.Fatal("NextGEQ on an absent-term cursor must return false")
	}
}

func TestCursorBlockBoundary(t *testing.T) {
	n := BlockSize*2 + 7
	docs := make([]int32, n)
	freqs := make([]int32, n)
	for i := range docs {
		docs[i] = int32(i)
		freqs[i] = 1
	}
	_, skip, _ := writeBlocks(docs, freqs)
	wantBlocks := (n + BlockSize - 1) / BlockSize
	if skip.NumBlocks() != wantBlocks {
		t.Fatalf("NumBlocks() = %d, want %d", skip.NumBlocks(), wantBlocks)
	}
	if skip.LastDocID[0] != docs[BlockSize-1] {
		t.Fatalf("block 0 last_doc_id = %d, want %d", skip.LastDocID[0], docs[BlockSize-1])
	}
	if skip.LastDocID[wantBlocks-1] != docs[n-1] {
		t.Fatalf("last block last_doc_id = %d, want %d", skip.LastDocID[wantBlocks-1], docs[n-1])
	}
}
