package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dukaforge/paintline/pkg/paintline"
	"github.com/dukaforge/paintline/pkg/types"
)

// errorBody is the wire form of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// typeBody is the wire form of a type with its counters keyed by stage
// token.
type typeBody struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Counts map[string]int `json:"counts"`
}

type createTypeRequest struct {
	Name string `json:"name"`
}

type moveRequest struct {
	FromStage string `json:"from_stage"`
	ToStage   string `json:"to_stage"`
	Qty       int    `json:"qty"`
}

// historyGroupBody is one grouped history row.
type historyGroupBody struct {
	FromStage string    `json:"from_stage"`
	ToStage   string    `json:"to_stage"`
	Qty       int       `json:"qty"`
	Timestamp time.Time `json:"timestamp"`
}

type importRequest struct {
	Types []types.ImportItem `json:"types"`
}

func newTypeBody(mt *types.MiniatureType) typeBody {
	return typeBody{ID: mt.ID, Name: mt.Name, Counts: countsBody(mt.Counts)}
}

func countsBody(counts types.StageCounts) map[string]int {
	out := make(map[string]int, types.StageCount)
	for _, stage := range types.Stages() {
		out[stage.String()] = counts[stage]
	}
	return out
}

// writeError maps a ledger error to its boundary code and HTTP status.
// Missing resources are 404, internal failures 500, everything else is a
// rejectable request and gets 400.
func (s *Server) writeError(c *gin.Context, err error) {
	code := types.ErrorCode(err)
	status := http.StatusBadRequest
	switch code {
	case types.CodeNotFound:
		status = http.StatusNotFound
	case types.CodeInternal:
		status = http.StatusInternalServerError
		s.log.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, errorBody{Code: code, Message: err.Error()})
}

// writeBindError reports a request whose shape did not parse at all.
func (s *Server) writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorBody{
		Code:    types.CodeValidation,
		Message: "malformed request body: " + err.Error(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": paintline.Version,
	})
}

func (s *Server) handleCreateType(c *gin.Context) {
	var req createTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeBindError(c, err)
		return
	}
	mt, err := s.ledger.CreateType(req.Name)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTypeBody(mt))
}

func (s *Server) handleListTypes(c *gin.Context) {
	list, err := s.ledger.ListTypes()
	if err != nil {
		s.writeError(c, err)
		return
	}
	items := make([]typeBody, 0, len(list))
	for _, mt := range list {
		items = append(items, newTypeBody(mt))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) handleGetType(c *gin.Context) {
	mt, err := s.ledger.GetType(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTypeBody(mt))
}

func (s *Server) handleDeleteType(c *gin.Context) {
	if err := s.ledger.DeleteType(c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeBindError(c, err)
		return
	}
	from, err := types.ParseStage(req.FromStage)
	if err != nil {
		s.writeError(c, err)
		return
	}
	to, err := types.ParseStage(req.ToStage)
	if err != nil {
		s.writeError(c, err)
		return
	}
	id := c.Param("id")
	counts, err := s.ledger.Move(id, from, to, req.Qty)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.metrics.moves.Inc()

	mt, err := s.ledger.GetType(id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	mt.Counts = counts
	c.JSON(http.StatusOK, newTypeBody(mt))
}

func (s *Server) handleHistory(c *gin.Context) {
	groups, err := s.ledger.GroupedHistory(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	items := make([]historyGroupBody, 0, len(groups))
	for _, g := range groups {
		items = append(items, historyGroupBody{
			FromStage: g.From.String(),
			ToStage:   g.To.String(),
			Qty:       g.Qty,
			Timestamp: g.At,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) handleExport(c *gin.Context) {
	exported, err := s.ledger.ExportAll()
	if err != nil {
		s.writeError(c, err)
		return
	}
	if exported == nil {
		exported = []types.ExportType{}
	}
	c.JSON(http.StatusOK, gin.H{"types": exported})
}

func (s *Server) handleImport(c *gin.Context) {
	// Import payloads are strict: unknown fields anywhere in the document
	// reject the whole batch, same as any other malformed item.
	var req importRequest
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", types.ErrInvalidImportFormat, err))
		return
	}
	if err := s.ledger.ImportBatch(req.Types); err != nil {
		s.writeError(c, err)
		return
	}
	s.metrics.importBatches.Inc()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
