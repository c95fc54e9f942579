package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/pixellab01/dashboard/internal/domain"
	"github.com/pixellab01/dashboard/internal/handler/dto"
	"github.com/pixellab01/dashboard/internal/ingest"
)

// DatasetHandler handles dataset lifecycle requests
type DatasetHandler struct {
	usecase     domain.DatasetUsecase
	store       domain.DatasetStore
	maxFileSize int64
	logger      *slog.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(uc domain.DatasetUsecase, store domain.DatasetStore, maxFileSize int64) *DatasetHandler {
	return &DatasetHandler{
		usecase:     uc,
		store:       store,
		maxFileSize: maxFileSize,
		logger:      slog.Default(),
	}
}

// Upload ingests an export file. The file arrives as multipart form data
// under "file"; an optional "sessionId" field pins the session, otherwise
// one is generated.
func (h *DatasetHandler) Upload(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequestResponse(c, "missing form file 'file'")
		return
	}
	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		BadRequestResponse(c, fmt.Sprintf("file exceeds the %d byte limit", h.maxFileSize))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("failed to open upload", "filename", fileHeader.Filename, "error", err)
		ErrorResponse(c, domain.NewInternalError(err))
		return
	}
	defer f.Close()

	table, err := ingest.Read(f, fileHeader.Filename)
	if err != nil {
		h.logger.Error("failed to parse upload", "filename", fileHeader.Filename, "error", err)
		ErrorResponse(c, err)
		return
	}

	meta, err := h.usecase.Ingest(ctx, domain.IngestRequest{
		SessionID:  string(c.FormValue("sessionId")),
		SourceName: fileHeader.Filename,
		Table:      table,
	})
	if err != nil {
		h.logger.Error("failed to ingest dataset", "filename", fileHeader.Filename, "error", err)
		ErrorResponse(c, err)
		return
	}

	CreatedResponse(c, dto.ToIngestResponse(meta))
}

// List returns the live dataset sessions.
func (h *DatasetHandler) List(ctx context.Context, c *app.RequestContext) {
	sessions, err := h.store.ListSessions(ctx)
	if err != nil {
		h.logger.Error("failed to list sessions", "error", err)
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, dto.SessionListResponse{Sessions: sessions})
}

// Rows returns one page of normalized rows for a session.
func (h *DatasetHandler) Rows(ctx context.Context, c *app.RequestContext) {
	sessionID := c.Param("id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "100"))

	result, err := h.usecase.Rows(ctx, sessionID, page, pageSize)
	if err != nil {
		h.logger.Error("failed to page rows", "session_id", sessionID, "error", err)
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, result)
}

// FilterOptions returns the distinct filterable values for a session.
func (h *DatasetHandler) FilterOptions(ctx context.Context, c *app.RequestContext) {
	sessionID := c.Param("id")

	opts, err := h.usecase.FilterOptions(ctx, sessionID)
	if err != nil {
		h.logger.Error("failed to build filter options", "session_id", sessionID, "error", err)
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, opts)
}

// Stats returns the stored summary for a session.
func (h *DatasetHandler) Stats(ctx context.Context, c *app.RequestContext) {
	sessionID := c.Param("id")

	meta, err := h.usecase.Stats(ctx, sessionID)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, dto.ToStatsResponse(meta, h.store.TTL()))
}

// Delete removes a dataset and its cached reports.
func (h *DatasetHandler) Delete(ctx context.Context, c *app.RequestContext) {
	sessionID := c.Param("id")

	if err := h.usecase.Delete(ctx, sessionID); err != nil {
		h.logger.Error("failed to delete dataset", "session_id", sessionID, "error", err)
		ErrorResponse(c, err)
		return
	}
	NoContentResponse(c)
}
