package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wizenheimer/cometindex/internal/index"
	"github.com/wizenheimer/cometindex/internal/rank"
)

// SearchResult is one scored, snippeted hit in a /search response.
type SearchResult struct {
	DocID   int32   `json:"docId"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

// SearchResponse is the JSON body returned by GET /search.
type SearchResponse struct {
	Query           string         `json:"query"`
	TotalResults    int            `json:"total_results"`
	ReturnedResults int            `json:"returned_results"`
	SearchTimeMs    float64        `json:"search_time_ms"`
	Results         []SearchResult `json:"results"`
}

// Server wires an opened Index and its metrics into gin handlers.
type Server struct {
	idx     *index.Index
	metrics *Metrics
}

// NewServer wraps idx for HTTP serving, recording metrics on m.
func NewServer(idx *index.Index, m *Metrics) *Server {
	return &Server{idx: idx, metrics: m}
}

// SearchHandler implements GET /search?q=&mode=&limit= exactly per the
// documented contract: mode defaults to "or", limit clamps to [1, 100],
// 400 for a missing q / invalid mode / empty term list, 500 on index errors.
func (s *Server) SearchHandler(c *gin.Context) {
	start := time.Now()

	query := c.Query("q")
	if query == "" {
		s.metrics.QueriesTotal.WithLabelValues("unknown", "error").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter q"})
		return
	}

	mode := c.DefaultQuery("mode", "or")
	if mode != "or" && mode != "and" {
		s.metrics.QueriesTotal.WithLabelValues(mode, "error").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be 'and' or 'or'"})
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	terms := s.idx.Analyzer.Analyze([]byte(query))
	if len(terms) == 0 {
		s.metrics.QueriesTotal.WithLabelValues(mode, "error").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "query produced no searchable terms"})
		return
	}

	f, err := s.idx.NewCursorFile()
	if err != nil {
		s.metrics.QueriesTotal.WithLabelValues(mode, "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "index unavailable"})
		return
	}
	defer f.Close()

	var ranked []rank.RankedDoc
	topK := rank.TopKServer
	if mode == "and" {
		ranked = rank.AND(s.idx, f, terms, topK, nil)
	} else {
		ranked = rank.OR(s.idx, f, terms, topK, nil)
	}

	total := len(ranked)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	results := make([]SearchResult, 0, len(ranked))
	for _, r := range ranked {
		text, err := s.idx.FetchDocument(r.DocID)
		snippet := ""
		if err == nil {
			snippet = rank.Snippet(string(text), terms, rank.QuoteMark)
		}
		results = append(results, SearchResult{DocID: r.DocID, Score: r.Score, Snippet: snippet})
	}

	elapsed := time.Since(start)
	s.metrics.QueriesTotal.WithLabelValues(mode, "ok").Inc()
	s.metrics.QueryLatency.WithLabelValues(mode).Observe(elapsed.Seconds())
	s.metrics.ResultsCount.WithLabelValues(mode).Observe(float64(len(results)))

	c.JSON(http.StatusOK, SearchResponse{
		Query:           query,
		TotalResults:    total,
		ReturnedResults: len(results),
		SearchTimeMs:    float64(elapsed.Microseconds()) / 1000.0,
		Results:         results,
	})
}
