package repl

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wizenheimer/cometindex/internal/analyze"
	"github.com/wizenheimer/cometindex/internal/build"
	"github.com/wizenheimer/cometindex/internal/index"
	"github.com/wizenheimer/cometindex/internal/merge"
)

func buildTestIndex(t *testing.T) *index.Index {
	t.Helper()
	dir := t.TempDir()
	content := "A\tthe quick brown fox\nB\tquick brown dogs\nC\tlazy fox jumps over\nD\tthe lazy dog\n"
	require.NoError(t, os.WriteFile(dir+"/corpus.tsv", []byte(content), 0o644))

	meta, err := build.Build(dir+"/corpus.tsv", build.Options{BuildDir: dir, Analyzer: analyze.Basic{}})
	require.NoError(t, err)
	_, err = merge.Merge(dir, meta.TotalRuns, nil)
	require.NoError(t, err)

	idx, err := index.Open(dir, analyze.Basic{})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestReplORQuery(t *testing.T) {
	idx := buildTestIndex(t)
	in := strings.NewReader("fox\nquit\n")
	var out strings.Builder

	require.NoError(t, Run(idx, in, &out))
	require.Contains(t, out.String(), "Top 2 results:")
	require.Contains(t, out.String(), "Total found: 2 documents")
}

func TestReplANDPrefix(t *testing.T) {
	idx := buildTestIndex(t)
	in := strings.NewReader("AND:quick brown\nexit\n")
	var out strings.Builder

	require.NoError(t, Run(idx, in, &out))
	require.Contains(t, out.String(), "Top 2 results:")
}

func TestReplEmptyLineIgnored(t *testing.T) {
	idx := buildTestIndex(t)
	in := strings.NewReader("\n\nfox\nquit\n")
	var out strings.Builder

	require.NoError(t, Run(idx, in, &out))
	require.Equal(t, 1, strings.Count(out.String(), "Top"))
}

func TestReplNoMatchReportsZeroFound(t *testing.T) {
	idx := buildTestIndex(t)
	in := strings.NewReader("zzzzz\nquit\n")
	var out strings.Builder

	require.NoError(t, Run(idx, in, &out))
	require.Contains(t, out.String(), "Total found: 0 documents")
}
