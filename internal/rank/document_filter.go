package rank

import "github.com/RoaringBitmap/roaring"

// DocumentFilter restricts a query's candidate doc-ids to a caller-supplied
// set, generalizing a per-call doc-id slice into a reusable roaring-bitmap
// membership test.
type DocumentFilter struct {
	bitmap *roaring.Bitmap
}

// NewDocumentFilter builds a filter from a list of doc-ids. A nil filter (no
// restriction) is returned when docIDs is empty.
func NewDocumentFilter(docIDs []int32) *DocumentFilter {
	if len(docIDs) == 0 {
		return nil
	}
	bm := roaring.New()
	for _, id := range docIDs {
		bm.Add(uint32(id))
	}
	return &DocumentFilter{bitmap: bm}
}

// IsEligible reports whether docID passes the filter. A nil filter admits
// every document.
func (f *DocumentFilter) IsEligible(docID int32) bool {
	if f == nil {
		return true
	}
	return f.bitmap.Contains(uint32(docID))
}
