package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/pixellab01/dashboard/internal/domain"
	"github.com/pixellab01/dashboard/internal/domain/entity"
)

// fakeReports counts ComputeAll calls and can be made to fail.
type fakeReports struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeReports) ComputeAll(ctx context.Context, sessionID string, spec *entity.FilterSpec) (*entity.ReportBundle, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &entity.ReportBundle{Success: true, Reports: map[string]any{}}, nil
}

func (f *fakeReports) ComputeOne(ctx context.Context, sessionID, reportType string, spec *entity.FilterSpec) (any, error) {
	return nil, errors.New("not used")
}

func (f *fakeReports) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var _ domain.ReportUsecase = (*fakeReports)(nil)

func waitForState(t *testing.T, r *Runner, id, state string) *entity.JobStatus {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if status, ok := r.Job(id); ok && status.State == state {
			return status
		}
		time.Sleep(10 * time.Millisecond)
	}
	status, _ := r.Job(id)
	t.Fatalf("job %s never reached state %q, last status: %+v", id, state, status)
	return nil
}

func TestEnqueue(t *testing.T) {
	// No workers started, so the job stays queued and the test is
	// deterministic.
	r := NewRunner(&fakeReports{}, 0, 8, slog.Default())

	status, err := r.Enqueue(context.Background(), "s1", nil)
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if status.ID != "analytics-s1" {
		t.Errorf("ID = %q, want analytics-s1", status.ID)
	}
	if status.State != entity.JobQueued {
		t.Errorf("State = %q, want queued", status.State)
	}
	if status.EnqueuedAt.IsZero() {
		t.Error("EnqueuedAt should be set")
	}
}

func TestEnqueueCollapsesDuplicates(t *testing.T) {
	r := NewRunner(&fakeReports{}, 0, 8, slog.Default())

	first, err := r.Enqueue(context.Background(), "s1", nil)
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	second, err := r.Enqueue(context.Background(), "s1", nil)
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if second.ID != first.ID || second.State != entity.JobQueued {
		t.Errorf("duplicate enqueue = %+v, want the queued job back", second)
	}

	stats := r.Stats()
	if stats.Queued != 1 {
		t.Errorf("Stats().Queued = %d, want 1", stats.Queued)
	}
}

func TestEnqueueFinishedDedupWindow(t *testing.T) {
	r := NewRunner(&fakeReports{}, 0, 8, slog.Default())

	// A job finished moments ago keeps absorbing enqueues.
	r.jobs["analytics-s1"] = &job{status: entity.JobStatus{
		ID:         "analytics-s1",
		SessionID:  "s1",
		State:      entity.JobFinished,
		FinishedAt: time.Now(),
	}}
	status, err := r.Enqueue(context.Background(), "s1", nil)
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if status.State != entity.JobFinished {
		t.Errorf("State = %q, want finished (within dedup window)", status.State)
	}

	// Once the window has passed, a fresh run is scheduled.
	r.jobs["analytics-s2"] = &job{status: entity.JobStatus{
		ID:         "analytics-s2",
		SessionID:  "s2",
		State:      entity.JobFinished,
		FinishedAt: time.Now().Add(-time.Minute),
	}}
	status, err = r.Enqueue(context.Background(), "s2", nil)
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if status.State != entity.JobQueued {
		t.Errorf("State = %q, want queued (window expired)", status.State)
	}
}

func TestEnqueueQueueFull(t *testing.T) {
	r := NewRunner(&fakeReports{}, 0, 1, slog.Default())

	if _, err := r.Enqueue(context.Background(), "s1", nil); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if _, err := r.Enqueue(context.Background(), "s2", nil); err == nil {
		t.Fatal("Enqueue() should fail when the queue is full")
	}
	// The rejected job must not linger in the registry.
	if _, ok := r.Job("analytics-s2"); ok {
		t.Error("rejected job should not be tracked")
	}
}

func TestJobUnknownID(t *testing.T) {
	r := NewRunner(&fakeReports{}, 0, 1, slog.Default())

	if _, ok := r.Job("analytics-missing"); ok {
		t.Error("Job() should report unknown IDs")
	}
}

func TestRunnerExecutesJob(t *testing.T) {
	reports := &fakeReports{}
	r := NewRunner(reports, 1, 8, slog.Default())
	r.Start(context.Background())
	defer r.Stop()

	if _, err := r.Enqueue(context.Background(), "s1", nil); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	status := waitForState(t, r, "analytics-s1", entity.JobFinished)
	if status.FinishedAt.IsZero() {
		t.Error("FinishedAt should be set")
	}
	if reports.callCount() != 1 {
		t.Errorf("ComputeAll calls = %d, want 1", reports.callCount())
	}
}

func TestEnqueueConcurrentWithWorkers(t *testing.T) {
	reports := &fakeReports{}
	r := NewRunner(reports, 8, 2048, slog.Default())
	r.Start(context.Background())
	defer r.Stop()

	// Workers drain jobs while enqueues are still returning, so every
	// returned status must be a consistent snapshot of the enqueued job.
	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				sessionID := fmt.Sprintf("s-%d-%d", g, i)
				status, err := r.Enqueue(context.Background(), sessionID, nil)
				if err != nil {
					continue
				}
				if status.ID != "analytics-"+sessionID {
					t.Errorf("status.ID = %q for session %s", status.ID, sessionID)
				}
				if status.SessionID != sessionID {
					t.Errorf("status.SessionID = %q, want %s", status.SessionID, sessionID)
				}
				if status.State == entity.JobQueued && !status.FinishedAt.IsZero() {
					t.Errorf("queued status carries FinishedAt: %+v", status)
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestRunnerRecordsFailure(t *testing.T) {
	reports := &fakeReports{err: errors.New("dataset 'missing' not found")}
	r := NewRunner(reports, 1, 8, slog.Default())
	r.Start(context.Background())
	defer r.Stop()

	if _, err := r.Enqueue(context.Background(), "s1", nil); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	status := waitForState(t, r, "analytics-s1", entity.JobFailed)
	if status.Error == "" {
		t.Error("failed job should carry the error message")
	}
}
