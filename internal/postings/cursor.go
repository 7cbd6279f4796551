package postings

import (
	"encoding/binary"
	"fmt"
	"io"
)

// BlockSize is the maximum number of postings stored per compressed block.
const BlockSize = 128

// LexiconEntry is one term's entry in lexicon.txt.
type LexiconEntry struct {
	Term          string
	StartOffset   uint64
	StartBlock    int32
	TotalPostings int64
	DF            int32
}

// SkipTable holds the three parallel per-block arrays loaded from metadata.bin.
type SkipTable struct {
	LastDocID []int32
	DocBytes  []int32
	FreqBytes []int32
}

// NumBlocks returns the number of blocks described by the skip table.
func (s *SkipTable) NumBlocks() int { return len(s.LastDocID) }

// PostingCursor is the interface the ranker walks over a term's posting list.
type PostingCursor interface {
	NextGEQ(target int32) bool
	Doc() int32
	Freq() int32
	Advance() bool
	Valid() bool
}

// Cursor is a random-access reader over one term's posting list within the
// inverted file. It holds its own io.ReaderAt so concurrent queries never
// share a seek position.
type Cursor struct {
	r    io.ReaderAt
	skip *SkipTable

	startOff      uint64
	startBlk      int32
	lastBlkEx     int32
	totalPostings int64

	blockIdx     int32
	loadedBlock  int32
	blockLoaded  bool
	docs         []int32
	freqs        []int32
	pos          int
	valid        bool
}

// NewCursor constructs a cursor for term entry e over the inverted file reader r
// and global skip table skip. If e is nil the cursor is immediately exhausted,
// matching the absent-term contract: a query over an unknown term yields no
// postings rather than an error.
func NewCursor(r io.ReaderAt, skip *SkipTable, e *LexiconEntry) *Cursor {
	c := &Cursor{r: r, skip: skip, loadedBlock: -1}
	if e == nil || e.DF == 0 {
		return c
	}
	c.startOff = e.StartOffset
	c.startBlk = e.StartBlock
	c.totalPostings = e.TotalPostings
	numBlocks := int32((e.TotalPostings + BlockSize - 1) / BlockSize)
	c.lastBlkEx = e.StartBlock + numBlocks
	c.blockIdx = e.StartBlock
	c.loadBlock()
	return c
}

// blockOffset computes the byte offset of block idx within the inverted file.
func (c *Cursor) blockOffset(idx int32) uint64 {
	off := c.startOff
	for i := c.startBlk; i < idx; i++ {
		off += 8 + uint64(c.skip.DocBytes[i]) + uint64(c.skip.FreqBytes[i])
	}
	return off
}

// blockPostingCount derives how many postings block idx holds: BlockSize for
// every block but the term's last, which holds the remainder.
func (c *Cursor) blockPostingCount(idx int32) int {
	full := int64(idx - c.startBlk)
	rem := c.totalPostings - full*BlockSize
	if rem <= 0 || rem > BlockSize {
		return BlockSize
	}
	return int(rem)
}

func (c *Cursor) loadBlock() {
	if c.blockIdx >= c.lastBlkEx {
		c.valid = false
		c.docs = nil
		c.freqs = nil
		return
	}
	off := c.blockOffset(c.blockIdx)
	docBytes := int(c.skip.DocBytes[c.blockIdx])
	freqBytes := int(c.skip.FreqBytes[c.blockIdx])

	var hdr [4]byte
	if _, err := c.r.ReadAt(hdr[:], int64(off)); err != nil {
		panic(fmt.Errorf("postings: reading doc_bytes header at block %d: %w", c.blockIdx, err))
	}
	n := binary.LittleEndian.Uint32(hdr[:])
	if int(n) != docBytes {
		panic(fmt.Errorf("postings: block %d doc_bytes mismatch: skip table says %d, file says %d", c.blockIdx, docBytes, n))
	}
	ed := make([]byte, docBytes)
	if docBytes > 0 {
		if _, err := c.r.ReadAt(ed, int64(off)+4); err != nil {
			panic(fmt.Errorf("postings: reading doc bytes at block %d: %w", c.blockIdx, err))
		}
	}

	freqOff := off + 4 + uint64(docBytes)
	if _, err := c.r.ReadAt(hdr[:], int64(freqOff)); err != nil {
		panic(fmt.Errorf("postings: reading freq_bytes header at block %d: %w", c.blockIdx, err))
	}
	fn := binary.LittleEndian.Uint32(hdr[:])
	if int(fn) != freqBytes {
		panic(fmt.Errorf("postings: block %d freq_bytes mismatch: skip table says %d, file says %d", c.blockIdx, freqBytes, fn))
	}
	ef := make([]byte, freqBytes)
	if freqBytes > 0 {
		if _, err := c.r.ReadAt(ef, int64(freqOff)+4); err != nil {
			panic(fmt.Errorf("postings: reading freq bytes at block %d: %w", c.blockIdx, err))
		}
	}

	count := c.blockPostingCount(c.blockIdx)
	c.docs = DecodeDeltas(ed, count)
	c.freqs = DecodeFreqs(ef, count)
	c.pos = 0
	c.loadedBlock = c.blockIdx
	c.blockLoaded = true
	c.valid = len(c.docs) > 0
}

// Doc returns the doc-id at the current position. Valid only if Valid() is true.
func (c *Cursor) Doc() int32 {
	if !c.valid {
		return -1
	}
	return c.docs[c.pos]
}

// Freq returns the term frequency at the current position.
func (c *Cursor) Freq() int32 {
	if !c.valid {
		return 0
	}
	return c.freqs[c.pos]
}

// Valid reports whether the cursor is positioned on a posting.
func (c *Cursor) Valid() bool { return c.valid }

// Advance moves to the next posting, crossing block boundaries as needed.
func (c *Cursor) Advance() bool {
	if !c.valid {
		return false
	}
	c.pos++
	if c.pos >= len(c.docs) {
		c.blockIdx++
		c.loadBlock()
	}
	return c.valid
}

// NextGEQ advances to the first posting with doc() >= target, skipping whole
// blocks via the skip table before linearly scanning within a block.
func (c *Cursor) NextGEQ(target int32) bool {
	if !c.valid && c.blockIdx >= c.lastBlkEx {
		return false
	}
	for {
		for c.blockIdx < c.lastBlkEx && c.skip.LastDocID[c.blockIdx] < target {
			c.blockIdx++
			c.blockLoaded = false
		}
		if c.blockIdx >= c.lastBlkEx {
			c.valid = false
			return false
		}
		if !c.blockLoaded || c.loadedBlock != c.blockIdx {
			c.loadBlock()
			if !c.valid {
				continue
			}
		}
		for c.pos < len(c.docs) && c.docs[c.pos] < target {
			c.pos++
		}
		if c.pos < len(c.docs) {
			c.valid = true
			return true
		}
		c.blockIdx++
		c.blockLoaded = false
		c.loadBlock()
		if !c.valid {
			return false
		}
	}
}
