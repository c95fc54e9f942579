// Package worker runs report computation off the request path.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pixellab01/dashboard/internal/domain"
	"github.com/pixellab01/dashboard/internal/domain/entity"
)

// finishedDedupWindow is how long a finished job keeps absorbing re-enqueues
// of the same session before a fresh run is allowed.
const finishedDedupWindow = 30 * time.Second

type job struct {
	status entity.JobStatus
	spec   *entity.FilterSpec
}

// Runner is a bounded worker pool computing report bundles. Job IDs are
// derived from the session, so concurrent enqueues for one session collapse
// into a single run.
type Runner struct {
	reports domain.ReportUsecase
	logger  *slog.Logger

	workers int
	queue   chan *job
	wg      sync.WaitGroup
	cancel  context.CancelFunc

	mu   sync.Mutex
	jobs map[string]*job
}

// NewRunner constructs a runner with the given pool size and queue bound.
func NewRunner(reports domain.ReportUsecase, workers, queueSize int, logger *slog.Logger) *Runner {
	return &Runner{
		reports: reports,
		logger:  logger,
		workers: workers,
		queue:   make(chan *job, queueSize),
		jobs:    make(map[string]*job),
	}
}

// Start spins up the worker pool.
func (r *Runner) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(ctx)
	}
}

// Stop drains the pool and waits for in-flight jobs.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

// Enqueue schedules a compute-all run for the session. A job already queued
// or running for the same session is returned as-is; a job finished within
// the dedup window likewise.
func (r *Runner) Enqueue(ctx context.Context, sessionID string, spec *entity.FilterSpec) (*entity.JobStatus, error) {
	id := "analytics-" + sessionID

	r.mu.Lock()
	if existing, ok := r.jobs[id]; ok {
		switch existing.status.State {
		case entity.JobQueued, entity.JobStarted:
			status := existing.status
			r.mu.Unlock()
			return &status, nil
		case entity.JobFinished:
			if time.Since(existing.status.FinishedAt) < finishedDedupWindow {
				status := existing.status
				r.mu.Unlock()
				return &status, nil
			}
		}
	}

	j := &job{
		status: entity.JobStatus{
			ID:         id,
			SessionID:  sessionID,
			State:      entity.JobQueued,
			EnqueuedAt: time.Now(),
		},
		spec: spec,
	}
	r.jobs[id] = j
	r.mu.Unlock()

	// Snapshot before the send: once a worker receives the job it mutates
	// j.status under the mutex, which this read does not hold.
	status := j.status

	select {
	case r.queue <- j:
		return &status, nil
	default:
		r.mu.Lock()
		delete(r.jobs, id)
		r.mu.Unlock()
		return nil, fmt.Errorf("job queue full")
	}
}

// Job returns the current status for a job ID.
func (r *Runner) Job(id string) (*entity.JobStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, false
	}
	status := j.status
	return &status, true
}

// Stats summarizes the queue for the admin endpoint.
func (r *Runner) Stats() entity.QueueStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := entity.QueueStats{Workers: r.workers}
	for _, j := range r.jobs {
		switch j.status.State {
		case entity.JobQueued:
			stats.Queued++
		case entity.JobStarted:
			stats.Started++
		case entity.JobFinished:
			stats.Finished++
		case entity.JobFailed:
			stats.Failed++
		}
	}
	return stats
}

func (r *Runner) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-r.queue:
			r.execute(ctx, j)
		}
	}
}

func (r *Runner) execute(ctx context.Context, j *job) {
	r.setState(j, entity.JobStarted, "")
	r.logger.Info("compute job started", "job_id", j.status.ID, "session_id", j.status.SessionID)

	bundle, err := r.reports.ComputeAll(ctx, j.status.SessionID, j.spec)
	if err != nil {
		r.setState(j, entity.JobFailed, err.Error())
		r.logger.Error("compute job failed", "job_id", j.status.ID, "error", err)
		return
	}

	r.setState(j, entity.JobFinished, "")
	r.logger.Info("compute job finished",
		"job_id", j.status.ID,
		"reports", len(bundle.Reports),
		"errors", len(bundle.Errors))
}

func (r *Runner) setState(j *job, state, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j.status.State = state
	j.status.Error = errMsg
	switch state {
	case entity.JobStarted:
		j.status.StartedAt = time.Now()
	case entity.JobFinished, entity.JobFailed:
		j.status.FinishedAt = time.Now()
	}
}
