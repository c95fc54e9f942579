package usecase

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/pixellab01/dashboard/internal/domain"
	"github.com/pixellab01/dashboard/internal/domain/entity"
)

func testDatasetUsecase(store domain.DatasetStore) domain.DatasetUsecase {
	return NewDatasetUsecase(store, 30*time.Minute, slog.Default())
}

func rawFixture() entity.RawTable {
	return entity.RawTable{
		Headers: []string{"Order Date", "Status", "Channel", "SKU", "Product Name", "Order Total"},
		Rows: []entity.RawRow{
			{"Order Date": "2025-03-01", "Status": "DELIVERED", "Channel": "Amazon", "SKU": "SKU-1", "Product Name": "Widget", "Order Total": "500"},
			{"Order Date": "2025-03-02", "Status": "RTO DELIVERED", "Channel": "Shopify", "SKU": "SKU-2", "Product Name": "Gadget", "Order Total": "750"},
			{"Order Date": "", "Status": "CANCELED", "Channel": "Amazon", "SKU": "", "Product Name": "Widget", "Order Total": ""},
		},
	}
}

func TestIngest(t *testing.T) {
	store := newMemStore()
	uc := testDatasetUsecase(store)

	meta, err := uc.Ingest(context.Background(), domain.IngestRequest{
		SourceName: "orders.csv",
		Table:      rawFixture(),
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if meta.SessionID == "" {
		t.Error("Ingest() should generate a session ID when none is given")
	}
	if meta.TotalRows != 3 {
		t.Errorf("TotalRows = %d, want 3", meta.TotalRows)
	}
	if meta.TotalCols != 6 {
		t.Errorf("TotalCols = %d, want 6", meta.TotalCols)
	}
	if meta.SourceName != "orders.csv" {
		t.Errorf("SourceName = %q, want %q", meta.SourceName, "orders.csv")
	}
	if !meta.ExpiresAt.After(meta.ProcessedAt) {
		t.Error("ExpiresAt should be after ProcessedAt")
	}

	ds, err := store.GetDataset(context.Background(), meta.SessionID)
	if err != nil {
		t.Fatalf("GetDataset() error = %v", err)
	}
	if len(ds.Rows) != 3 {
		t.Errorf("stored rows = %d, want 3", len(ds.Rows))
	}
	if ds.Rows[0].OriginalStatus != "DELIVERED" {
		t.Errorf("Rows[0].OriginalStatus = %q, want DELIVERED", ds.Rows[0].OriginalStatus)
	}
}

func TestIngestKeepsSessionID(t *testing.T) {
	store := newMemStore()
	uc := testDatasetUsecase(store)

	meta, err := uc.Ingest(context.Background(), domain.IngestRequest{
		SessionID: "session-1",
		Table:     rawFixture(),
	})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if meta.SessionID != "session-1" {
		t.Errorf("SessionID = %q, want session-1", meta.SessionID)
	}
}

func TestIngestEmptyTable(t *testing.T) {
	uc := testDatasetUsecase(newMemStore())

	_, err := uc.Ingest(context.Background(), domain.IngestRequest{
		Table: entity.RawTable{Headers: []string{"Order Date"}},
	})
	if !errors.Is(err, domain.ErrEmptyDataset) {
		t.Errorf("Ingest() error = %v, want ErrEmptyDataset", err)
	}
}

func TestIngestStoreFailure(t *testing.T) {
	store := newMemStore()
	store.putErr = errors.New("connection refused")
	uc := testDatasetUsecase(store)

	_, err := uc.Ingest(context.Background(), domain.IngestRequest{Table: rawFixture()})
	if err == nil {
		t.Fatal("Ingest() should propagate store failures")
	}
}

func seedRows(store *memStore, sessionID string, n int) {
	rows := make([]entity.CanonicalRow, n)
	for i := range rows {
		rows[i] = entity.CanonicalRow{SKU: "SKU-1", OriginalStatus: "DELIVERED"}
	}
	store.datasets[sessionID] = &entity.Dataset{
		SessionID:   sessionID,
		Rows:        rows,
		ProcessedAt: time.Now(),
	}
}

func TestRowsPaging(t *testing.T) {
	store := newMemStore()
	seedRows(store, "s1", 1250)
	uc := testDatasetUsecase(store)

	tests := []struct {
		name      string
		page      int
		pageSize  int
		wantPage  int
		wantSize  int
		wantRows  int
		wantPages int
	}{
		{name: "first page", page: 1, pageSize: 100, wantPage: 1, wantSize: 100, wantRows: 100, wantPages: 13},
		{name: "last partial page", page: 13, pageSize: 100, wantPage: 13, wantSize: 100, wantRows: 50, wantPages: 13},
		{name: "page past the end", page: 99, pageSize: 100, wantPage: 99, wantSize: 100, wantRows: 0, wantPages: 13},
		{name: "zero page clamps to 1", page: 0, pageSize: 100, wantPage: 1, wantSize: 100, wantRows: 100, wantPages: 13},
		{name: "oversized page size clamps", page: 1, pageSize: 10000, wantPage: 1, wantSize: 500, wantRows: 500, wantPages: 3},
		{name: "zero page size clamps", page: 1, pageSize: 0, wantPage: 1, wantSize: 500, wantRows: 500, wantPages: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := uc.Rows(context.Background(), "s1", tt.page, tt.pageSize)
			if err != nil {
				t.Fatalf("Rows() error = %v", err)
			}
			if page.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", page.Page, tt.wantPage)
			}
			if page.PageSize != tt.wantSize {
				t.Errorf("PageSize = %d, want %d", page.PageSize, tt.wantSize)
			}
			if len(page.Rows) != tt.wantRows {
				t.Errorf("len(Rows) = %d, want %d", len(page.Rows), tt.wantRows)
			}
			if page.TotalRows != 1250 {
				t.Errorf("TotalRows = %d, want 1250", page.TotalRows)
			}
			if page.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", page.TotalPages, tt.wantPages)
			}
		})
	}
}

func TestRowsUnknownSession(t *testing.T) {
	uc := testDatasetUsecase(newMemStore())

	_, err := uc.Rows(context.Background(), "missing", 1, 100)
	if !domain.IsNotFound(err) {
		t.Errorf("Rows() error = %v, want not-found", err)
	}
}

func TestFilterOptions(t *testing.T) {
	store := newMemStore()
	store.datasets["s1"] = &entity.Dataset{
		SessionID: "s1",
		Rows: []entity.CanonicalRow{
			{Channel: "Amazon", SKU: "SKU-B", ProductName: "Widget", OriginalStatus: "DELIVERED"},
			{Channel: "Amazon", SKU: "SKU-B", ProductName: "Widget", OriginalStatus: "delivered"},
			{Channel: "Shopify", SKU: "SKU-A", ProductName: "Gadget", DeliveryStatus: "RTO CLOSED"},
			{Channel: "nan", SKU: "None", ProductName: "N/A", OriginalStatus: "nan"},
		},
	}
	uc := testDatasetUsecase(store)

	opts, err := uc.FilterOptions(context.Background(), "s1")
	if err != nil {
		t.Fatalf("FilterOptions() error = %v", err)
	}

	if len(opts.Channels) != 2 || opts.Channels[0] != "Amazon" || opts.Channels[1] != "Shopify" {
		t.Errorf("Channels = %v, want [Amazon Shopify]", opts.Channels)
	}
	if len(opts.SKUs) != 2 || opts.SKUs[0] != "SKU-A" || opts.SKUs[1] != "SKU-B" {
		t.Errorf("SKUs = %v, want [SKU-A SKU-B]", opts.SKUs)
	}
	// Top lists rank by frequency: SKU-B appears twice.
	if len(opts.SKUsTop10) != 2 || opts.SKUsTop10[0] != "SKU-B" {
		t.Errorf("SKUsTop10 = %v, want SKU-B first", opts.SKUsTop10)
	}
	if len(opts.ProductNames) != 2 {
		t.Errorf("ProductNames = %v, want 2 entries", opts.ProductNames)
	}

	statusSet := map[string]bool{}
	for _, s := range opts.Statuses {
		statusSet[s] = true
	}
	for _, want := range predefinedStatuses {
		if !statusSet[want] {
			t.Errorf("Statuses missing predefined value %q", want)
		}
	}
	if !statusSet["RTO CLOSED"] {
		t.Error("Statuses should include values observed in the dataset")
	}
	if statusSet["NAN"] || statusSet["nan"] {
		t.Error("Statuses should not include null markers")
	}
}

func TestStats(t *testing.T) {
	store := newMemStore()
	store.metas["s1"] = &entity.DatasetMeta{SessionID: "s1", TotalRows: 42}
	uc := testDatasetUsecase(store)

	meta, err := uc.Stats(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if meta.TotalRows != 42 {
		t.Errorf("TotalRows = %d, want 42", meta.TotalRows)
	}

	if _, err := uc.Stats(context.Background(), "missing"); !domain.IsNotFound(err) {
		t.Errorf("Stats() error = %v, want not-found", err)
	}
}

func TestStatsExpiredSession(t *testing.T) {
	store := newMemStore()
	store.metas["s1"] = &entity.DatasetMeta{
		SessionID: "s1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	uc := testDatasetUsecase(store)

	_, err := uc.Stats(context.Background(), "s1")
	if !errors.Is(err, domain.ErrDatasetExpired) {
		t.Errorf("Stats() error = %v, want ErrDatasetExpired", err)
	}
}

func TestDelete(t *testing.T) {
	store := newMemStore()
	seedRows(store, "s1", 3)
	store.metas["s1"] = &entity.DatasetMeta{SessionID: "s1", TotalRows: 3}
	uc := testDatasetUsecase(store)

	if err := uc.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := store.datasets["s1"]; ok {
		t.Error("dataset should be removed from the store")
	}

	if err := uc.Delete(context.Background(), "s1"); !domain.IsNotFound(err) {
		t.Errorf("Delete() on missing session = %v, want not-found", err)
	}
}
