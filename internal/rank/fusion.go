package rank

import "sort"

// RRFK is the reciprocal rank fusion constant.
const RRFK = 60.0

// FusionStrategy combines one or more ordered doc-id rankings into a single
// fused score map. One implementation, RRFFusion, covers the fusion this
// module needs between lexical and dense rankings.
type FusionStrategy interface {
	Combine(lists ...[]int32) map[int32]float64
}

// RRFFusion implements reciprocal rank fusion: score = sum 1/(k + rank),
// rank starting at 1 within each input list.
type RRFFusion struct {
	K float64
}

// NewRRFFusion returns an RRFFusion using RRFK.
func NewRRFFusion() *RRFFusion {
	return &RRFFusion{K: RRFK}
}

// Combine fuses lists by summing each list's reciprocal-rank contribution per
// doc-id. A document present in only one list contributes only that list's
// term.
func (f *RRFFusion) Combine(lists ...[]int32) map[int32]float64 {
	combined := make(map[int32]float64)
	for _, list := range lists {
		for i, docID := range list {
			rank := i + 1
			combined[docID] += 1.0 / (f.K + float64(rank))
		}
	}
	return combined
}

// RankedList sorts a fused score map descending and truncates to topK.
func RankedList(combined map[int32]float64, topK int) []RankedDoc {
	out := make([]RankedDoc, 0, len(combined))
	for docID, score := range combined {
		out = append(out, RankedDoc{DocID: docID, Score: score})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return truncate(out, topK)
}
