package dense

import (
	"bufio"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func writeTable(t *testing.T, dir, variant string, rows [][]float32, ids []string) {
	t.Helper()

	f, err := os.Create(filepath.Join(dir, "embeddings_"+variant+".bin"))
	require.NoError(t, err)
	w := bufio.NewWriter(f)
	require.NoError(t, binary.Write(w, binary.LittleEndian, uint32(len(rows))))
	for _, row := range rows {
		bits := make([]uint16, len(row))
		for i, v := range row {
			bits[i] = float16.Fromfloat32(v).Bits()
		}
		require.NoError(t, binary.Write(w, binary.LittleEndian, bits))
	}
	require.NoError(t, w.Flush())
	require.NoError(t, f.Close())

	idsFile, err := os.Create(filepath.Join(dir, "passage_ids_"+variant+".txt"))
	require.NoError(t, err)
	for _, id := range ids {
		_, err := idsFile.WriteString(id + "\n")
		require.NoError(t, err)
	}
	require.NoError(t, idsFile.Close())
}

func padVec(vals ...float32) []float32 {
	v := make([]float32, Dim)
	copy(v, vals)
	return v
}

func TestLoadTableRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rows := [][]float32{padVec(1, 0, 0), padVec(0, 1, 0), padVec(0.5, 0.5, 0)}
	ids := []string{"A", "B", "C"}
	writeTable(t, dir, "test", rows, ids)

	tbl, err := LoadTable(dir, "test")
	require.NoError(t, err)
	require.Equal(t, 3, tbl.NumDocs())
	require.Equal(t, "B", tbl.PassageID(1))

	got := tbl.Vector(0)
	require.InDelta(t, 1.0, got[0], 1e-3)
}

func TestRankOrdersByDotProductAndResolves(t *testing.T) {
	dir := t.TempDir()
	rows := [][]float32{padVec(1, 0, 0), padVec(0, 1, 0), padVec(0.9, 0.1, 0)}
	ids := []string{"A", "B", "C"}
	writeTable(t, dir, "test", rows, ids)

	tbl, err := LoadTable(dir, "test")
	require.NoError(t, err)

	query := padVec(1, 0, 0)
	resolve := func(ext string) (int32, bool) {
		switch ext {
		case "A":
			return 0, true
		case "B":
			return 1, true
		case "C":
			return 2, true
		}
		return 0, false
	}

	matches := Rank(tbl, query, resolve, TopK)
	require.Len(t, matches, 3)
	require.Equal(t, int32(0), matches[0].DocID) // A: dot = 1
	require.Equal(t, int32(2), matches[1].DocID) // C: dot = 0.9
	require.Equal(t, int32(1), matches[2].DocID) // B: dot = 0
}

func TestRankDropsUnresolvedRows(t *testing.T) {
	dir := t.TempDir()
	rows := [][]float32{padVec(1, 0, 0), padVec(0, 1, 0)}
	ids := []string{"A", "unknown"}
	writeTable(t, dir, "test", rows, ids)

	tbl, err := LoadTable(dir, "test")
	require.NoError(t, err)

	resolve := func(ext string) (int32, bool) {
		if ext == "A" {
			return 0, true
		}
		return 0, false
	}

	matches := Rank(tbl, padVec(1, 0, 0), resolve, TopK)
	require.Len(t, matches, 1)
	require.Equal(t, int32(0), matches[0].DocID)
}

func TestRankTruncatesToTopK(t *testing.T) {
	dir := t.TempDir()
	rows := make([][]float32, 5)
	ids := make([]string, 5)
	for i := range rows {
		rows[i] = padVec(float32(i) / 10.0)
		ids[i] = string(rune('A' + i))
	}
	writeTable(t, dir, "test", rows, ids)

	tbl, err := LoadTable(dir, "test")
	require.NoError(t, err)

	resolve := func(ext string) (int32, bool) { return int32(ext[0] - 'A'), true }
	matches := Rank(tbl, padVec(1), resolve, 2)
	require.Len(t, matches, 2)
}

func TestLoadQueryEmbeddings(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "query_embeddings.bin"))
	require.NoError(t, err)
	w := bufio.NewWriter(f)
	require.NoError(t, binary.Write(w, binary.LittleEndian, uint32(2)))
	require.NoError(t, binary.Write(w, binary.LittleEndian, padVec(1, 2, 3)))
	require.NoError(t, binary.Write(w, binary.LittleEndian, padVec(4, 5, 6)))
	require.NoError(t, w.Flush())
	require.NoError(t, f.Close())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "query_ids.txt"), []byte("q1\nq2\n"), 0o644))

	qe, err := LoadQueryEmbeddings(dir)
	require.NoError(t, err)

	v, ok := qe.Vector("q2")
	require.True(t, ok)
	require.Equal(t, float32(4), v[0])

	_, ok = qe.Vector("missing")
	require.False(t, ok)
}
