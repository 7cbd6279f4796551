package dense

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

// QueryEmbeddings is a read-only view over precomputed query vectors,
// keyed by the query id used in the queries TSV.
type QueryEmbeddings struct {
	vectors [][]float32
	ids     []string
	index   map[string]int
}

// LoadQueryEmbeddings reads query_embeddings.bin and query_ids.txt from dir.
// Query vectors are stored as full float32, unlike the passage table, since
// there are orders of magnitude fewer queries than passages.
func LoadQueryEmbeddings(dir string) (*QueryEmbeddings, error) {
	f, err := os.Open(filepath.Join(dir, "query_embeddings.bin"))
	if err != nil {
		return nil, fmt.Errorf("opening query embeddings: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("reading query embedding count: %w", err)
	}

	vectors := make([][]float32, n)
	for i := range vectors {
		v := make([]float32, Dim)
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("reading query embedding row %d: %w", i, err)
		}
		vectors[i] = v
	}

	ids, err := readLines(filepath.Join(dir, "query_ids.txt"))
	if err != nil {
		return nil, fmt.Errorf("reading query ids: %w", err)
	}
	if len(ids) != len(vectors) {
		return nil, fmt.Errorf("query id count %d does not match embedding count %d", len(ids), len(vectors))
	}

	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	return &QueryEmbeddings{vectors: vectors, ids: ids, index: index}, nil
}

// Vector returns the embedding for queryID, if one was precomputed.
func (q *QueryEmbeddings) Vector(queryID string) ([]float32, bool) {
	i, ok := q.index[queryID]
	if !ok {
		return nil, false
	}
	return q.vectors[i], true
}
