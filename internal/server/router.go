package server

import (
	"github.com/gin-gonic/gin"

	"github.com/wizenheimer/cometindex/internal/index"
)

// NewRouter builds the gin engine serving GET /search and GET /metrics
// against idx.
func NewRouter(idx *index.Index, m *Metrics) *gin.Engine {
	router := gin.Default()
	srv := NewServer(idx, m)

	router.GET("/search", srv.SearchHandler)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	return router
}
