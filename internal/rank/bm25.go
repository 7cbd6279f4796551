// Package rank implements BM25 scoring, disjunctive (OR) and conjunctive
// (AND) query plans over posting cursors, RRF fusion against a dense
// ranking, and the snippet generator.
package rank

import "math"

// K1 and B are the Okapi BM25 tuning constants.
const (
	K1 = 1.2
	B  = 0.75
)

// RankedDoc is one scored result.
type RankedDoc struct {
	DocID int32
	Score float64
}

// idf computes the inverse document frequency term. N is total_documents,
// df is the term's document frequency. Deliberately not clamped: idf goes
// negative when df > N/2.
func idf(n, df int) float64 {
	return math.Log((float64(n) - float64(df) + 0.5) / (float64(df) + 0.5))
}

// normTF computes the length-normalized term-frequency component.
func normTF(tf, dl int32, avgdl float64) float64 {
	return float64(tf) * (K1 + 1) / (float64(tf) + K1*(1-B+B*float64(dl)/avgdl))
}

// termScore computes one term's BM25 contribution to a document's score.
func termScore(n, df int, tf, dl int32, avgdl float64) float64 {
	return idf(n, df) * normTF(tf, dl, avgdl)
}
