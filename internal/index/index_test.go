package index

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wizenheimer/cometindex/internal/analyze"
	"github.com/wizenheimer/cometindex/internal/build"
	"github.com/wizenheimer/cometindex/internal/merge"
)

func buildFourDocIndex(t *testing.T) *Index {
	t.Helper()
	dir := t.TempDir()
	content := "A\tthe quick brown fox\nB\tquick brown dogs\nC\tlazy fox jumps over\nD\tthe lazy dog\n"
	require.NoError(t, os.WriteFile(dir+"/corpus.tsv", []byte(content), 0o644))

	meta, err := build.Build(dir+"/corpus.tsv", build.Options{BuildDir: dir, Analyzer: analyze.Basic{}})
	require.NoError(t, err)
	_, err = merge.Merge(dir, meta.TotalRuns, nil)
	require.NoError(t, err)

	idx, err := Open(dir, analyze.Basic{})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestOpenAndDerivedTables(t *testing.T) {
	idx := buildFourDocIndex(t)
	require.Equal(t, 4, idx.NumDocs())
	require.Equal(t, 3.5, idx.AvgDL())
	require.Equal(t, int32(2), idx.DF("fox"))
	require.Equal(t, int32(1), idx.DF("dogs"))
	require.Equal(t, int32(0), idx.DF("zzzzz"))
}

func TestCursorOverFoxPostings(t *testing.T) {
	idx := buildFourDocIndex(t)
	f, err := idx.NewCursorFile()
	require.NoError(t, err)
	defer f.Close()

	c := idx.Cursor(f, "fox")
	var docs []int32
	for ok := c.NextGEQ(0); ok; ok = c.Advance() {
		docs = append(docs, c.Doc())
	}
	require.Equal(t, []int32{0, 2}, docs) // A and C, in doc_id order
}

func TestCursorOverMissingTerm(t *testing.T) {
	idx := buildFourDocIndex(t)
	f, err := idx.NewCursorFile()
	require.NoError(t, err)
	defer f.Close()

	c := idx.Cursor(f, "zzzzz")
	require.False(t, c.Valid())
	require.False(t, c.NextGEQ(0))
}
