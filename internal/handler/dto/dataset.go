package dto

import (
	"time"

	"github.com/pixellab01/dashboard/internal/domain/entity"
)

// IngestResponse summarizes an ingested dataset.
type IngestResponse struct {
	SessionID   string    `json:"sessionId"`
	TotalRows   int       `json:"totalRows"`
	TotalCols   int       `json:"totalCols"`
	SourceName  string    `json:"sourceName,omitempty"`
	ProcessedAt time.Time `json:"timestamp"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// ToIngestResponse converts dataset metadata to its API form.
func ToIngestResponse(meta *entity.DatasetMeta) *IngestResponse {
	return &IngestResponse{
		SessionID:   meta.SessionID,
		TotalRows:   meta.TotalRows,
		TotalCols:   meta.TotalCols,
		SourceName:  meta.SourceName,
		ProcessedAt: meta.ProcessedAt,
		ExpiresAt:   meta.ExpiresAt,
	}
}

// StatsResponse is the session stats view: ingest metadata plus the cache
// lifetime it is held under.
type StatsResponse struct {
	IngestResponse
	TTLSeconds       int64 `json:"ttlSeconds"`
	RemainingSeconds int64 `json:"remainingSeconds"`
}

// ToStatsResponse combines dataset metadata with the store's configured TTL.
func ToStatsResponse(meta *entity.DatasetMeta, ttl time.Duration) *StatsResponse {
	remaining := time.Until(meta.ExpiresAt)
	if remaining < 0 {
		remaining = 0
	}
	return &StatsResponse{
		IngestResponse:   *ToIngestResponse(meta),
		TTLSeconds:       int64(ttl.Seconds()),
		RemainingSeconds: int64(remaining.Seconds()),
	}
}

// SessionListResponse lists live dataset sessions.
type SessionListResponse struct {
	Sessions []string `json:"sessions"`
}

// JobResponse is the API form of a background job.
type JobResponse struct {
	ID         string `json:"id"`
	SessionID  string `json:"sessionId"`
	State      string `json:"state"`
	EnqueuedAt string `json:"enqueuedAt"`
	StartedAt  string `json:"startedAt,omitempty"`
	FinishedAt string `json:"finishedAt,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ToJobResponse converts a job status to its API form.
func ToJobResponse(j *entity.JobStatus) *JobResponse {
	resp := &JobResponse{
		ID:         j.ID,
		SessionID:  j.SessionID,
		State:      j.State,
		EnqueuedAt: j.EnqueuedAt.Format(time.RFC3339),
		Error:      j.Error,
	}
	if !j.StartedAt.IsZero() {
		resp.StartedAt = j.StartedAt.Format(time.RFC3339)
	}
	if !j.FinishedAt.IsZero() {
		resp.FinishedAt = j.FinishedAt.Format(time.RFC3339)
	}
	return resp
}
