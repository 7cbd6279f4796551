package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/wizenheimer/cometindex/internal/analyze"
	"github.com/wizenheimer/cometindex/internal/build"
	"github.com/wizenheimer/cometindex/internal/index"
	"github.com/wizenheimer/cometindex/internal/merge"
)

func buildTestIndex(t *testing.T) *index.Index {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

func TestSearchHandlerORDefaultMode(t *testing.T) {
	idx := buildTestIndex(t)
	router := NewRouter(idx, NewMetrics())

	req := httptest.NewRequest(http.MethodGet, "/search?q=fox", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.TotalResults)
	require.Equal(t, 2, resp.ReturnedResults)
}

func TestSearchHandlerMissingQuery(t *testing.T) {
	idx := buildTestIndex(t)
	router := NewRouter(idx, NewMetrics())

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchHandlerInvalidMode(t *testing.T) {
	idx := buildTestIndex(t)
	router := NewRouter(idx, NewMetrics())

	req := httptest.NewRequest(http.MethodGet, "/search?q=fox&mode=xor", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchHandlerLimitClamp(t *testing.T) {
	idx := buildTestIndex(t)
	router := NewRouter(idx, NewMetrics())

	req := httptest.NewRequest(http.MethodGet, "/search?q=fox&limit=0", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.LessOrEqual(t, resp.ReturnedResults, 1)
}

func TestSearchHandlerAndMode(t *testing.T) {
	idx := buildTestIndex(t)
	router := NewRouter(idx, NewMetrics())

	req := httptest.NewRequest(http.MethodGet, "/search?q=quick+brown&mode=and", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.TotalResults)
}

func TestSearchHandlerNoMatchesReturnsEmpty(t *testing.T) {
	idx := buildTestIndex(t)
	router := NewRouter(idx, NewMetrics())

	req := httptest.NewRequest(http.MethodGet, "/search?q=zzzzz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 0, resp.TotalResults)
	require.Empty(t, resp.Results)
}
