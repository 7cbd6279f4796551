package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/tmp/build")
	require.Equal(t, "/tmp/build", cfg.BuildDir)
	require.Equal(t, 10_000_000, cfg.MaxBufferPostings)
	require.Equal(t, 1.2, cfg.BM25K1)
	require.Equal(t, 0.75, cfg.BM25B)
	require.Equal(t, 60.0, cfg.RRFK)
}

func TestLoadWithNoPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("", "/tmp/build")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig("/tmp/build"), cfg)
}

func TestLoadOverlaysYAML(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "cometindex.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("maxBufferPostings: 500\nserverPort: 9999\n"), 0o644))

	cfg, err := Load(yamlPath, "/tmp/build")
	require.NoError(t, err)
	require.Equal(t, 500, cfg.MaxBufferPostings)
	require.Equal(t, 9999, cfg.ServerPort)
	require.Equal(t, 1.2, cfg.BM25K1) // untouched fields keep their default
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/cometindex.yaml", "/tmp/build")
	require.Error(t, err)
}
