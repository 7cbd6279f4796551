package merge

// entry is one pending record in the merge heap, tagged with the run it came
// from so the merge loop knows which run to pull the next record from.
type entry struct {
	term   string
	doc    int32
	freq   int32
	runIdx int
}

// entryHeap is a min-heap over entries ordered by (term, doc) ascending.
// Each (term, doc) pair appears at most once across all runs, so this
// ordering alone is a sufficient tie-break.
type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].term != h[j].term {
		return h[i].term < h[j].term
	}
	return h[i].doc < h[j].doc
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(entry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
