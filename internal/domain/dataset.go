package domain

import (
	"context"
	"time"

	"github.com/pixellab01/dashboard/internal/domain/entity"
)

// DatasetStore defines the interface for normalized dataset storage. The
// store owns expiry: a dataset past its TTL behaves as not found.
type DatasetStore interface {
	PutDataset(ctx context.Context, ds *entity.Dataset) error
	GetDataset(ctx context.Context, sessionID string) (*entity.Dataset, error)
	PutMeta(ctx context.Context, meta *entity.DatasetMeta) error
	GetMeta(ctx context.Context, sessionID string) (*entity.DatasetMeta, error)
	Delete(ctx context.Context, sessionID string) error
	ListSessions(ctx context.Context) ([]string, error)

	// TTL is the configured dataset lifetime; metadata ExpiresAt is
	// derived from it at ingest time.
	TTL() time.Duration

	// Report cache. Payloads are opaque encoded bundles keyed by session,
	// report type and filter fingerprint.
	PutReport(ctx context.Context, sessionID, reportType, fingerprint string, payload []byte) error
	GetReport(ctx context.Context, sessionID, reportType, fingerprint string) ([]byte, error)
}

// IngestRequest represents a request to ingest one export file.
type IngestRequest struct {
	SessionID  string
	SourceName string
	Table      entity.RawTable
}

// RowPage is one page of normalized rows.
type RowPage struct {
	SessionID  string                `json:"sessionId"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	TotalRows  int                   `json:"totalRows"`
	TotalPages int                   `json:"totalPages"`
	Rows       []entity.CanonicalRow `json:"rows"`
}

// DatasetUsecase defines the business logic interface for dataset lifecycle
type DatasetUsecase interface {
	Ingest(ctx context.Context, req IngestRequest) (*entity.DatasetMeta, error)
	Rows(ctx context.Context, sessionID string, page, pageSize int) (*RowPage, error)
	FilterOptions(ctx context.Context, sessionID string) (*entity.FilterOptions, error)
	Stats(ctx context.Context, sessionID string) (*entity.DatasetMeta, error)
	Delete(ctx context.Context, sessionID string) error
}

// ReportUsecase defines the business logic interface for report computation
type ReportUsecase interface {
	// ComputeAll runs every registered report over the filtered dataset.
	// Per-report failures land in the bundle's Errors map, not in err.
	ComputeAll(ctx context.Context, sessionID string, spec *entity.FilterSpec) (*entity.ReportBundle, error)
	// ComputeOne runs a single named report.
	ComputeOne(ctx context.Context, sessionID, reportType string, spec *entity.FilterSpec) (any, error)
}

// JobQueue defines the interface for background report computation.
type JobQueue interface {
	// Enqueue schedules a compute-all run for the session. Job IDs are
	// idempotent per session: a queued or running job is returned as-is.
	Enqueue(ctx context.Context, sessionID string, spec *entity.FilterSpec) (*entity.JobStatus, error)
	Job(id string) (*entity.JobStatus, bool)
	Stats() entity.QueueStats
}
