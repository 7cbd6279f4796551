package rank

import (
	"io"
	"sort"

	"github.com/wizenheimer/cometindex/internal/index"
	"github.com/wizenheimer/cometindex/internal/postings"
)

// TopKServer and TopKInteractive are the two result-truncation defaults:
// the server keeps a deep pool for fusion and filtering, the REPL only
// prints a handful.
const (
	TopKServer      = 1000
	TopKInteractive = 10
)

// OR runs a disjunctive, term-at-a-time BM25 query. Terms absent from the
// lexicon contribute nothing. Results are sorted by score descending and
// truncated to topK.
func OR(idx *index.Index, r io.ReaderAt, terms []string, topK int, filter *DocumentFilter) []RankedDoc {
	n := idx.NumDocs()
	avgdl := idx.AvgDL()
	scores := make(map[int32]float64)

	for _, term := range terms {
		df := int(idx.DF(term))
		if df == 0 {
			continue
		}
		c := idx.Cursor(r, term)
		for ok := c.NextGEQ(0); ok; ok = c.Advance() {
			docID := c.Doc()
			if !filter.IsEligible(docID) {
				continue
			}
			dl := idx.DocLength(docID)
			scores[docID] += termScore(n, df, c.Freq(), dl, avgdl)
		}
	}
	return topResults(scores, topK)
}

// AND runs a conjunctive, document-at-a-time BM25 query. If any term is
// absent from the lexicon the result is empty. Cursors are ordered by df
// ascending (rarest first) and driven by the pivot cursor.
func AND(idx *index.Index, r io.ReaderAt, terms []string, topK int, filter *DocumentFilter) []RankedDoc {
	n := idx.NumDocs()
	avgdl := idx.AvgDL()

	type termCursor struct {
		term string
		df   int
		c    *postingsCursor
	}

	cursors := make([]termCursor, 0, len(terms))
	for _, term := range terms {
		df := int(idx.DF(term))
		if df == 0 {
			return nil
		}
		cursors = append(cursors, termCursor{term: term, df: df, c: wrapCursor(idx.Cursor(r, term))})
	}
	sort.Slice(cursors, func(i, j int) bool { return cursors[i].df < cursors[j].df })

	for i := range cursors {
		cursors[i].c.nextGEQ(0)
	}

	var results []RankedDoc
	pivot := &cursors[0]
outer:
	for pivot.c.valid() {
		d := pivot.c.doc()
		allMatch := true
		for i := 1; i < len(cursors); i++ {
			other := &cursors[i]
			if !other.c.nextGEQ(d) {
				// other is exhausted: no further intersection is possible.
				break outer
			}
			if other.c.doc() != d {
				allMatch = false
				pivot.c.nextGEQ(other.c.doc())
				break
			}
		}
		if !allMatch {
			continue
		}
		if filter.IsEligible(d) {
			var score float64
			dl := idx.DocLength(d)
			for i := range cursors {
				score += termScore(n, cursors[i].df, cursors[i].c.freq(), dl, avgdl)
			}
			results = append(results, RankedDoc{DocID: d, Score: score})
		}
		pivot.c.advance()
	}
	return truncate(sortedDescending(results), topK)
}

func topResults(scores map[int32]float64, topK int) []RankedDoc {
	out := make([]RankedDoc, 0, len(scores))
	for docID, score := range scores {
		out = append(out, RankedDoc{DocID: docID, Score: score})
	}
	return truncate(sortedDescending(out), topK)
}

func sortedDescending(docs []RankedDoc) []RankedDoc {
	sort.Slice(docs, func(i, j int) bool { return docs[i].Score > docs[j].Score })
	return docs
}

func truncate(docs []RankedDoc, topK int) []RankedDoc {
	if topK > 0 && len(docs) > topK {
		return docs[:topK]
	}
	return docs
}

// postingsCursor is a tiny adapter giving the AND loop lowercase method names
// and tracking the last next_geq/advance outcome as valid().
type postingsCursor struct {
	c  postings.PostingCursor
	ok bool
}

func wrapCursor(c postings.PostingCursor) *postingsCursor {
	return &postingsCursor{c: c}
}

func (p *postingsCursor) nextGEQ(target int32) bool {
	p.ok = p.c.NextGEQ(target)
	return p.ok
}

func (p *postingsCursor) advance() bool {
	p.ok = p.c.Advance()
	return p.ok
}

func (p *postingsCursor) valid() bool { return p.ok }
func (p *postingsCursor) doc() int32  { return p.c.Doc() }
func (p *postingsCursor) freq() int32 { return p.c.Freq() }
