package corpus

import (
	"bufio"
	"fmt"
	"hash/fnv"
	"os"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// Allowlist restricts ingest to a fixed set of external ids, mirroring an
// optional msmarco_passages_subset.tsv filter. External ids are folded into
// a 32-bit fingerprint space and tested against a roaring bitmap, the same
// membership-testing structure used elsewhere in this module for document-id
// filtering; unlike doc-id filtering, the subset filter operates on opaque
// strings before any doc_id exists, so ids are hashed rather than used as
// bitmap values directly. A 32-bit fingerprint collision would let through
// one ID that wasn't in the subset; for a subset file up to low millions of
// entries this is an acceptable, documented risk over a full string-keyed
// structure.
type Allowlist struct {
	bitmap *roaring.Bitmap
}

// LoadAllowlist reads a newline-delimited file of allowed external ids. A
// nil *Allowlist (returned with a nil error when path is empty) means no
// filtering is applied.
func LoadAllowlist(path string) (*Allowlist, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: opening subset file: %w", err)
	}
	defer f.Close()

	a := &Allowlist{bitmap: roaring.New()}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		id := strings.TrimSpace(sc.Text())
		if id == "" {
			continue
		}
		a.bitmap.Add(fingerprint(id))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("corpus: reading subset file: %w", err)
	}
	return a, nil
}

// Allows reports whether externalID is a member of the allowlist. A nil
// allowlist allows everything.
func (a *Allowlist) Allows(externalID string) bool {
	if a == nil {
		return true
	}
	return a.bitmap.Contains(fingerprint(externalID))
}

func fingerprint(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
