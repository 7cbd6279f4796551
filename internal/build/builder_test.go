package build

import (
	"os"
	"strings"
	"testing"

	"github.com/wizenheimer/cometindex/internal/analyze"
	"github.com/wizenheimer/cometindex/internal/corpus"
	"github.com/stretchr/testify/require"
)

const fourDocCorpus = "A\tthe quick brown fox\nB\tquick brown dogs\nC\tlazy fox jumps over\nD\tthe lazy dog\n"

func TestBuildFourDocCorpus(t *testing.T) {
	dir := t.TempDir()
	corpusPath := dir + "/corpus.tsv"
	require.NoError(t, os.WriteFile(corpusPath, []byte(fourDocCorpus), 0o644))

	meta, err := Build(corpusPath, Options{
		BuildDir: dir,
		Analyzer: analyze.Basic{},
	})
	require.NoError(t, err)
	require.Equal(t, 4, meta.TotalDocuments)
	require.Equal(t, 1, meta.TotalRuns)

	lengths, err := corpus.LoadDocLengths(dir)
	require.NoError(t, err)
	require.Equal(t, 4, lengths.NumDocs())
	require.Equal(t, int32(4), lengths.Length(0))
	require.Equal(t, int32(3), lengths.Length(1))
	require.Equal(t, 3.5, lengths.AvgDL())

	ids, err := corpus.LoadPageTable(dir)
	require.NoError(t, err)
	require.Equal(t, "A", ids.External(0))
	require.Equal(t, "D", ids.External(3))
}

func TestBuildSkipsMalformedAndEmptyAnalysis(t *testing.T) {
	dir := t.TempDir()
	corpusPath := dir + "/corpus.tsv"
	content := strings.Join([]string{
		"no-tab-here",
		"X\t!!!",
		"Y\thello world",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(corpusPath, []byte(content), 0o644))

	meta, err := Build(corpusPath, Options{BuildDir: dir, Analyzer: analyze.Basic{}})
	require.NoError(t, err)
	require.Equal(t, 1, meta.TotalDocuments)

	store, err := corpus.OpenStore(dir)
	require.NoError(t, err)
	defer store.Close()
	require.Equal(t, 1, store.NumDocs())
}

func TestBuildRespectsSubsetFilter(t *testing.T) {
	dir := t.TempDir()
	corpusPath := dir + "/corpus.tsv"
	require.NoError(t, os.WriteFile(corpusPath, []byte(fourDocCorpus), 0o644))
	subsetPath := dir + "/subset.tsv"
	require.NoError(t, os.WriteFile(subsetPath, []byte("A\nD\n"), 0o644))

	meta, err := Build(corpusPath, Options{
		BuildDir:   dir,
		Analyzer:   analyze.Basic{},
		SubsetFile: subsetPath,
	})
	require.NoError(t, err)
	require.Equal(t, 2, meta.TotalDocuments)
}
