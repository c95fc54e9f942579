package usecase

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/pixellab01/dashboard/internal/analytics"
	"github.com/pixellab01/dashboard/internal/domain"
	"github.com/pixellab01/dashboard/internal/domain/entity"
)

func testReportUsecase(store domain.DatasetStore) domain.ReportUsecase {
	return NewReportUsecase(store, slog.Default())
}

func seedReportRows(store *memStore, sessionID string) {
	d1 := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	v1, v2 := 500.0, 750.0
	store.datasets[sessionID] = &entity.Dataset{
		SessionID: sessionID,
		Rows: []entity.CanonicalRow{
			{DeliveryStatus: "DELIVERED", Channel: "Amazon", State: "Delhi", OrderDate: &d1, OrderWeek: "2025-03-01-07", OrderValue: &v1, PaymentMethod: "COD"},
			{DeliveryStatus: "RTO DELIVERED", RTOFlag: true, Channel: "Shopify", State: "Kerala", OrderDate: &d2, OrderWeek: "2025-03-08-14", OrderValue: &v2, PaymentMethod: "Prepaid"},
			{DeliveryStatus: "CANCELLED", CancelledFlag: true, Channel: "Amazon", State: "Delhi", OrderDate: &d1, OrderWeek: "2025-03-01-07"},
		},
		ProcessedAt: time.Now(),
	}
}

func TestComputeAll(t *testing.T) {
	store := newMemStore()
	seedReportRows(store, "s1")
	uc := testReportUsecase(store)

	bundle, err := uc.ComputeAll(context.Background(), "s1", nil)
	if err != nil {
		t.Fatalf("ComputeAll() error = %v", err)
	}
	if !bundle.Success {
		t.Error("Success = false, want true")
	}
	if bundle.Errors != nil {
		t.Errorf("Errors = %v, want nil", bundle.Errors)
	}
	names := analytics.AggregateNames()
	if len(bundle.Reports) != len(names) {
		t.Fatalf("len(Reports) = %d, want %d", len(bundle.Reports), len(names))
	}
	for _, name := range names {
		if _, ok := bundle.Reports[name]; !ok {
			t.Errorf("Reports missing %q", name)
		}
	}

	// Every result is cached under the base fingerprint.
	for _, name := range names {
		if _, err := store.GetReport(context.Background(), "s1", name, "base"); err != nil {
			t.Errorf("report %q not cached: %v", name, err)
		}
	}
}

func TestComputeAllWithFilter(t *testing.T) {
	store := newMemStore()
	seedReportRows(store, "s1")
	uc := testReportUsecase(store)

	spec := &entity.FilterSpec{Channel: entity.StringList{"Amazon"}}
	bundle, err := uc.ComputeAll(context.Background(), "s1", spec)
	if err != nil {
		t.Fatalf("ComputeAll() error = %v", err)
	}
	if len(bundle.Reports) == 0 {
		t.Fatal("filtered compute returned no reports")
	}
	if _, err := store.GetReport(context.Background(), "s1", "summary-metrics", spec.Fingerprint()); err != nil {
		t.Errorf("filtered result not cached under its fingerprint: %v", err)
	}
}

func TestComputeAllUnknownSession(t *testing.T) {
	uc := testReportUsecase(newMemStore())

	_, err := uc.ComputeAll(context.Background(), "missing", nil)
	if !domain.IsNotFound(err) {
		t.Errorf("ComputeAll() error = %v, want not-found", err)
	}
}

func TestComputeOne(t *testing.T) {
	store := newMemStore()
	seedReportRows(store, "s1")
	uc := testReportUsecase(store)

	result, err := uc.ComputeOne(context.Background(), "s1", "summary-metrics", nil)
	if err != nil {
		t.Fatalf("ComputeOne() error = %v", err)
	}
	if result == nil {
		t.Fatal("ComputeOne() returned nil result")
	}
	if _, err := store.GetReport(context.Background(), "s1", "summary-metrics", "base"); err != nil {
		t.Errorf("result not cached: %v", err)
	}
}

func TestComputeOneUnknownReport(t *testing.T) {
	store := newMemStore()
	seedReportRows(store, "s1")
	uc := testReportUsecase(store)

	_, err := uc.ComputeOne(context.Background(), "s1", "no-such-report", nil)
	if !domain.IsUnknownReport(err) {
		t.Errorf("ComputeOne() error = %v, want unknown-report", err)
	}
}

func TestComputeOneCacheHit(t *testing.T) {
	store := newMemStore()
	uc := testReportUsecase(store)

	// A valid cache entry is served without touching the dataset, which
	// does not even exist here.
	payload, _ := sonic.Marshal(map[string]any{"cached": true})
	store.reports[reportKey("s1", "summary-metrics", "base")] = payload

	result, err := uc.ComputeOne(context.Background(), "s1", "summary-metrics", nil)
	if err != nil {
		t.Fatalf("ComputeOne() error = %v", err)
	}
	m, ok := result.(map[string]any)
	if !ok || m["cached"] != true {
		t.Errorf("result = %v, want cached payload", result)
	}
}

func TestComputeOneCorruptCacheRecomputes(t *testing.T) {
	store := newMemStore()
	seedReportRows(store, "s1")
	uc := testReportUsecase(store)

	store.reports[reportKey("s1", "summary-metrics", "base")] = []byte("{not json")

	result, err := uc.ComputeOne(context.Background(), "s1", "summary-metrics", nil)
	if err != nil {
		t.Fatalf("ComputeOne() error = %v", err)
	}
	if result == nil {
		t.Fatal("ComputeOne() returned nil result")
	}
}

func TestComputeOneCacheWriteFailureIsNotFatal(t *testing.T) {
	store := newMemStore()
	seedReportRows(store, "s1")
	store.putErr = errors.New("connection refused")
	uc := testReportUsecase(store)

	result, err := uc.ComputeOne(context.Background(), "s1", "summary-metrics", nil)
	if err != nil {
		t.Fatalf("ComputeOne() error = %v", err)
	}
	if result == nil {
		t.Fatal("ComputeOne() returned nil result")
	}
}

func TestRunAggregateRecoversPanic(t *testing.T) {
	boom := func(rows []entity.CanonicalRow) any {
		panic("bad row")
	}

	_, err := runAggregate(boom, nil)
	if err == nil {
		t.Fatal("runAggregate() should convert panics into errors")
	}
}
