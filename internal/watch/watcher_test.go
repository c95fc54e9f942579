package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixellab01/dashboard/internal/domain"
	"github.com/pixellab01/dashboard/internal/domain/entity"
)

// fakeDatasets records ingest requests.
type fakeDatasets struct {
	requests []domain.IngestRequest
}

func (f *fakeDatasets) Ingest(ctx context.Context, req domain.IngestRequest) (*entity.DatasetMeta, error) {
	f.requests = append(f.requests, req)
	return &entity.DatasetMeta{SessionID: req.SessionID, TotalRows: len(req.Table.Rows)}, nil
}

func (f *fakeDatasets) Rows(ctx context.Context, sessionID string, page, pageSize int) (*domain.RowPage, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeDatasets) FilterOptions(ctx context.Context, sessionID string) (*entity.FilterOptions, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeDatasets) Stats(ctx context.Context, sessionID string) (*entity.DatasetMeta, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeDatasets) Delete(ctx context.Context, sessionID string) error {
	return domain.ErrNotFound
}

var _ domain.DatasetUsecase = (*fakeDatasets)(nil)

func TestBackfill(t *testing.T) {
	dir := t.TempDir()
	csv := "Order Date,Status\n2025-03-01,DELIVERED\n"
	if err := os.WriteFile(filepath.Join(dir, "March Orders.csv"), []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatal(err)
	}

	datasets := &fakeDatasets{}
	w := New(dir, datasets, slog.Default())

	if err := w.Backfill(context.Background()); err != nil {
		t.Fatalf("Backfill() error = %v", err)
	}
	if len(datasets.requests) != 1 {
		t.Fatalf("ingested %d files, want 1", len(datasets.requests))
	}

	req := datasets.requests[0]
	if req.SourceName != "March Orders.csv" {
		t.Errorf("SourceName = %q, want the file name", req.SourceName)
	}
	if req.SessionID != "file-march-orders" {
		t.Errorf("SessionID = %q, want file-march-orders", req.SessionID)
	}
	if len(req.Table.Rows) != 1 {
		t.Errorf("rows = %d, want 1", len(req.Table.Rows))
	}
}

func TestBackfillDisabled(t *testing.T) {
	datasets := &fakeDatasets{}
	w := New("", datasets, slog.Default())

	if err := w.Backfill(context.Background()); err != nil {
		t.Fatalf("Backfill() error = %v", err)
	}
	if len(datasets.requests) != 0 {
		t.Errorf("disabled watcher ingested %d files, want 0", len(datasets.requests))
	}
}

func TestIsExport(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "orders.csv", want: true},
		{path: "orders.XLSX", want: true},
		{path: "orders.xls", want: true},
		{path: "orders.json", want: true},
		{path: "orders.txt", want: false},
		{path: "orders", want: false},
	}

	for _, tt := range tests {
		if got := isExport(tt.path); got != tt.want {
			t.Errorf("isExport(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSessionFromName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "orders.csv", want: "file-orders"},
		{name: "March Orders (2).xlsx", want: "file-march-orders--2-"},
		{name: "export_2025-03.json", want: "file-export_2025-03"},
	}

	for _, tt := range tests {
		if got := sessionFromName(tt.name); got != tt.want {
			t.Errorf("sessionFromName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
