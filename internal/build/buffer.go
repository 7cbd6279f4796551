package build

import "sync/atomic"

// DefaultMaxBufferPostings is the default cap: the buffer is spilled to a
// sorted run once it holds this many postings.
const DefaultMaxBufferPostings = 10_000_000

// posting is one (term, doc_id, tf) record awaiting spill.
type posting struct {
	term  string
	docID int32
	freq  int32
}

// postingBuffer accumulates postings in memory until it reaches its cap, at
// which point the caller sorts and spills it. Cap accounting uses an atomic
// counter so callers can observe buffer pressure without a lock, even though
// build is single-threaded.
type postingBuffer struct {
	items []posting
	cap   int
	count atomic.Int64
}

func newPostingBuffer(cap int) *postingBuffer {
	if cap <= 0 {
		cap = DefaultMaxBufferPostings
	}
	return &postingBuffer{cap: cap}
}

func (b *postingBuffer) add(term string, docID, freq int32) {
	b.items = append(b.items, posting{term: term, docID: docID, freq: freq})
	b.count.Add(1)
}

func (b *postingBuffer) isFull() bool {
	return int(b.count.Load()) >= b.cap
}

func (b *postingBuffer) len() int { return len(b.items) }

func (b *postingBuffer) reset() {
	b.items = b.items[:0]
	b.count.Store(0)
}
