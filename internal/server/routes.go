package server

import "github.com/gin-gonic/gin"

// registerRoutes wires all endpoints. The ledger API lives under /api/v1;
// /health and /metrics sit at the root for probes and scrapers.
func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(s.metrics.handler()))

	v1 := s.engine.Group("/api/v1")
	v1.GET("/status", s.handleStatus)
	v1.POST("/types", s.handleCreateType)
	v1.GET("/types", s.handleListTypes)
	v1.GET("/types/:id", s.handleGetType)
	v1.DELETE("/types/:id", s.handleDeleteType)
	v1.POST("/types/:id/move", s.handleMove)
	v1.GET("/types/:id/history", s.handleHistory)
	v1.GET("/export", s.handleExport)
	v1.POST("/import", s.handleImport)
}
