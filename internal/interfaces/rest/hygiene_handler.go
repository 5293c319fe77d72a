package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/pkg/errors"
)

// HygieneRunner is the subset of the hygiene service the handler drives
type HygieneRunner interface {
	RunRecords(ctx context.Context, records []models.Record) (*models.Report, error)
	RunSource(ctx context.Context, name string) (*models.Report, error)
	Check(ctx context.Context, record models.Record) models.RecordCheck
	GetRun(ctx context.Context, id string) (*models.Report, error)
	ListRuns(ctx context.Context, limit int) ([]models.Summary, error)
	Dashboard(ctx context.Context) (*models.Dashboard, error)
}

// HygieneHandler exposes hygiene runs over HTTP
type HygieneHandler struct {
	svc HygieneRunner
	now func() time.Time
}

// NewHygieneHandler creates a new HygieneHandler
func NewHygieneHandler(svc HygieneRunner) *HygieneHandler {
	return &HygieneHandler{svc: svc, now: time.Now}
}

// RunRequest is the body of POST /api/hygiene/run
type RunRequest struct {
	Records []models.Record `json:"records"`
	Source  string          `json:"source"`
}

// CheckRequest is the body of POST /api/hygiene/check
type CheckRequest struct {
	Record models.Record `json:"record" binding:"required"`
}

// Health handles GET /health
func (h *HygieneHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   h.now().UTC().Format(time.RFC3339),
	})
}

// Run handles POST /api/hygiene/run
func (h *HygieneHandler) Run(c *gin.Context) {
	var req RunRequest
	if !BindJSON(c, &req) {
		return
	}
	if len(req.Records) == 0 && req.Source == "" {
		RespondAppError(c, errors.NewValidationError("records", "records or source is required"))
		return
	}

	HandleCreateEnvelope(c, "report", "Hygiene run completed", func() (interface{}, error) {
		if len(req.Records) > 0 {
			return h.svc.RunRecords(c.Request.Context(), req.Records)
		}
		return h.svc.RunSource(c.Request.Context(), req.Source)
	})
}

// Check handles POST /api/hygiene/check
func (h *HygieneHandler) Check(c *gin.Context) {
	var req CheckRequest
	if !BindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"check": h.svc.Check(c.Request.Context(), req.Record)})
}

// ListRuns handles GET /api/hygiene/runs
func (h *HygieneHandler) ListRuns(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			RespondAppError(c, errors.NewValidationError("limit", "must be a non-negative integer"))
			return
		}
		limit = n
	}
	HandleGetEnvelope(c, "runs", func() (interface{}, error) {
		return h.svc.ListRuns(c.Request.Context(), limit)
	})
}

// GetRun handles GET /api/hygiene/runs/:id
func (h *HygieneHandler) GetRun(c *gin.Context) {
	id := c.Param("id")
	HandleGetEnvelope(c, "run", func() (interface{}, error) {
		return h.svc.GetRun(c.Request.Context(), id)
	})
}

// Dashboard handles GET /api/hygiene/dashboard
func (h *HygieneHandler) Dashboard(c *gin.Context) {
	HandleGetEnvelope(c, "dashboard", func() (interface{}, error) {
		return h.svc.Dashboard(c.Request.Context())
	})
}
