package entity

import "time"

// Job states.
const (
	JobQueued   = "queued"
	JobStarted  = "started"
	JobFinished = "finished"
	JobFailed   = "failed"
)

// JobStatus is the visible state of one background compute job.
type JobStatus struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"sessionId"`
	State      string    `json:"state"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
	StartedAt  time.Time `json:"startedAt,omitempty"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// QueueStats is the admin view of the job queue.
type QueueStats struct {
	Queued   int `json:"queued"`
	Started  int `json:"started"`
	Finished int `json:"finished"`
	Failed   int `json:"failed"`
	Workers  int `json:"workers"`
}
