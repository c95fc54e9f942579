package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/pixellab01/dashboard/internal/analytics"
	"github.com/pixellab01/dashboard/internal/domain"
	"github.com/pixellab01/dashboard/internal/domain/entity"
	"github.com/pixellab01/dashboard/internal/handler/dto"
)

// ReportHandler handles report computation requests
type ReportHandler struct {
	usecase domain.ReportUsecase
	queue   domain.JobQueue
	logger  *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(uc domain.ReportUsecase, queue domain.JobQueue) *ReportHandler {
	return &ReportHandler{
		usecase: uc,
		queue:   queue,
		logger:  slog.Default(),
	}
}

// computeRequest is the compute endpoint's body: a session plus an optional
// filter spec inlined alongside it.
type computeRequest struct {
	SessionID string `json:"sessionId"`
	entity.FilterSpec
}

// Compute runs all reports for a session. With ?async=true the work is
// queued and a job handle returned instead of the bundle.
func (h *ReportHandler) Compute(ctx context.Context, c *app.RequestContext) {
	var req computeRequest
	if err := c.BindJSON(&req); err != nil {
		BadRequestResponse(c, "malformed request body")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		BadRequestResponse(c, "sessionId is required")
		return
	}

	spec := req.FilterSpec
	if strings.EqualFold(c.Query("async"), "true") {
		job, err := h.queue.Enqueue(ctx, req.SessionID, &spec)
		if err != nil {
			h.logger.Error("failed to enqueue compute job", "session_id", req.SessionID, "error", err)
			ErrorResponse(c, err)
			return
		}
		AcceptedResponse(c, dto.ToJobResponse(job))
		return
	}

	bundle, err := h.usecase.ComputeAll(ctx, req.SessionID, &spec)
	if err != nil {
		h.logger.Error("failed to compute reports", "session_id", req.SessionID, "error", err)
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, bundle)
}

// Get computes a single named report. Filters arrive as a JSON object in
// the "filters" query parameter, matching what the dashboard sends.
func (h *ReportHandler) Get(ctx context.Context, c *app.RequestContext) {
	reportType := c.Param("type")
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		BadRequestResponse(c, "sessionId is required")
		return
	}

	var spec entity.FilterSpec
	if raw := c.Query("filters"); raw != "" {
		if err := sonic.Unmarshal([]byte(raw), &spec); err != nil {
			BadRequestResponse(c, "malformed filters parameter")
			return
		}
	}

	result, err := h.usecase.ComputeOne(ctx, sessionID, reportType, &spec)
	if err != nil {
		if domain.IsUnknownReport(err) {
			c.JSON(consts.StatusBadRequest, Response{
				Code:    "UNKNOWN_REPORT",
				Message: "report type '" + reportType + "' is not supported",
				Data:    map[string]any{"supportedReports": analytics.AggregateNames()},
			})
			return
		}
		h.logger.Error("failed to compute report",
			"session_id", sessionID,
			"report", reportType,
			"error", err,
		)
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, result)
}

// Job returns the status of a background compute job.
func (h *ReportHandler) Job(ctx context.Context, c *app.RequestContext) {
	id := c.Param("id")
	job, ok := h.queue.Job(id)
	if !ok {
		ErrorResponse(c, domain.NewNotFoundError("job", id))
		return
	}
	SuccessResponse(c, dto.ToJobResponse(job))
}

// QueueStats returns the admin view of the job queue.
func (h *ReportHandler) QueueStats(ctx context.Context, c *app.RequestContext) {
	SuccessResponse(c, h.queue.Stats())
}
