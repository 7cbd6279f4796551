// Package dense holds the collaborator contract for an externally computed
// dense ranking: loading a precomputed embedding table and query vectors,
// scoring by dot product, and handing results to the rank package for RRF
// fusion. Computing the embeddings themselves is out of scope here.
package dense

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/x448/float16"
)

// Dim is the embedding dimensionality used throughout, matching the
// original hybrid query tool's DIM constant.
const Dim = 384

// TopK is the number of dense candidates kept per query before fusion.
const TopK = 1000

// Table is a read-only view over a passage embedding table. Vectors are
// stored on disk as float16 bits to halve the footprint of a
// Dim x NumDocs table, and dequantized to float32 on demand.
type Table struct {
	rows       [][]uint16 // Dim float16 bits per row
	passageIDs []string
}

// LoadTable reads embeddings_<variant>.bin and passage_ids_<variant>.txt
// from dir.
func LoadTable(dir, variant string) (*Table, error) {
	binPath := filepath.Join(dir, fmt.Sprintf("embeddings_%s.bin", variant))
	f, err := os.Open(binPath)
	if err != nil {
		return nil, fmt.Errorf("opening embedding table: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("reading embedding count: %w", err)
	}

	rows := make([][]uint16, n)
	for i := range rows {
		row := make([]uint16, Dim)
		if err := binary.Read(r, binary.LittleEndian, row); err != nil {
			return nil, fmt.Errorf("reading embedding row %d: %w", i, err)
		}
		rows[i] = row
	}

	idsPath := filepath.Join(dir, fmt.Sprintf("passage_ids_%s.txt", variant))
	ids, err := readLines(idsPath)
	if err != nil {
		return nil, fmt.Errorf("reading passage ids: %w", err)
	}
	if len(ids) != len(rows) {
		return nil, fmt.Errorf("passage id count %d does not match embedding count %d", len(ids), len(rows))
	}

	return &Table{rows: rows, passageIDs: ids}, nil
}

// NumDocs returns the number of rows in the table.
func (t *Table) NumDocs() int { return len(t.rows) }

// PassageID returns the external id stored for row.
func (t *Table) PassageID(row int) string { return t.passageIDs[row] }

// Vector dequantizes row back to a float32 slice of length Dim.
func (t *Table) Vector(row int) []float32 {
	bits := t.rows[row]
	out := make([]float32, len(bits))
	for i, b := range bits {
		out[i] = float16.Frombits(b).Float32()
	}
	return out
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
				line = line[:len(line)-1]
			}
			lines = append(lines, line)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
	}
	return lines, nil
}
