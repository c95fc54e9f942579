package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pixellab01/dashboard/internal/analytics"
	"github.com/pixellab01/dashboard/internal/domain"
	"github.com/pixellab01/dashboard/internal/domain/entity"
)

// maxPageSize caps the rows endpoint page size.
const maxPageSize = 500

// predefinedStatuses always appear in filter options, whether or not the
// current dataset contains them. Dashboards build their dropdowns from this.
var predefinedStatuses = []string{
	"CANCELED", "DELIVERED", "DESTROYED", "IN TRANSIT",
	"IN TRANSIT-AT DESTINATION HUB", "LOST", "OUT FOR DELIVERY",
	"OUT FOR PICKUP", "PICKED UP", "PICKUP EXCEPTION",
	"REACHED BACK AT_SELLER_CITY", "REACHED DESTINATION HUB",
	"RTO DELIVERED", "RTO IN TRANSIT", "RTO INITIATED", "RTO NDR",
	"UNDELIVERED", "UNDELIVERED-1st Attempt", "UNDELIVERED-2nd Attempt",
	"UNDELIVERED-3rd Attempt", "UNTRACEABLE",
}

// datasetUsecase is the DatasetUsecase implementation
type datasetUsecase struct {
	store  domain.DatasetStore
	ttl    time.Duration
	logger *slog.Logger
}

// NewDatasetUsecase creates a new DatasetUsecase instance
func NewDatasetUsecase(store domain.DatasetStore, ttl time.Duration, logger *slog.Logger) domain.DatasetUsecase {
	return &datasetUsecase{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// Ingest normalizes a raw table and stores it under the session. Already
// canonical input passes through unchanged, so re-ingesting stored rows is
// harmless.
func (u *datasetUsecase) Ingest(ctx context.Context, req domain.IngestRequest) (*entity.DatasetMeta, error) {
	if len(req.Table.Rows) == 0 {
		return nil, domain.ErrEmptyDataset
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	rows := analytics.Normalize(req.Table)
	if len(rows) == 0 {
		return nil, domain.ErrEmptyDataset
	}

	now := time.Now()
	ds := &entity.Dataset{
		SessionID:   sessionID,
		Rows:        rows,
		ProcessedAt: now,
	}
	meta := &entity.DatasetMeta{
		SessionID:   sessionID,
		TotalRows:   len(rows),
		TotalCols:   len(req.Table.Headers),
		SourceName:  req.SourceName,
		ProcessedAt: now,
		ExpiresAt:   now.Add(u.ttl),
	}

	if err := u.store.PutDataset(ctx, ds); err != nil {
		return nil, fmt.Errorf("failed to store dataset: %w", err)
	}
	if err := u.store.PutMeta(ctx, meta); err != nil {
		return nil, fmt.Errorf("failed to store metadata: %w", err)
	}

	u.logger.Info("dataset ingested",
		"session_id", sessionID,
		"source", req.SourceName,
		"rows", meta.TotalRows,
		"cols", meta.TotalCols)
	return meta, nil
}

// Rows returns one page of normalized rows.
func (u *datasetUsecase) Rows(ctx context.Context, sessionID string, page, pageSize int) (*domain.RowPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	ds, err := u.store.GetDataset(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	total := len(ds.Rows)
	totalPages := (total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &domain.RowPage{
		SessionID:  sessionID,
		Page:       page,
		PageSize:   pageSize,
		TotalRows:  total,
		TotalPages: totalPages,
		Rows:       ds.Rows[start:end],
	}, nil
}

// FilterOptions collects the distinct values dashboards offer as filters.
func (u *datasetUsecase) FilterOptions(ctx context.Context, sessionID string) (*entity.FilterOptions, error) {
	ds, err := u.store.GetDataset(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	channels := map[string]bool{}
	skuCounts := map[string]int{}
	productCounts := map[string]int{}
	statuses := map[string]bool{}

	for i := range ds.Rows {
		r := &ds.Rows[i]
		if v := strings.TrimSpace(r.Channel); v != "" && !analytics.IsNullMarker(v) {
			channels[v] = true
		}
		if v := strings.TrimSpace(r.SKU); v != "" && !isInvalidOptionToken(v) {
			skuCounts[v]++
		}
		if v := strings.TrimSpace(r.ProductName); v != "" && !isInvalidOptionToken(v) {
			productCounts[v]++
		}
		for _, v := range []string{r.OriginalStatus, r.DeliveryStatus} {
			v = strings.ToUpper(strings.TrimSpace(v))
			if v != "" && !analytics.IsNullMarker(v) {
				statuses[v] = true
			}
		}
	}
	for _, s := range predefinedStatuses {
		statuses[s] = true
	}

	opts := &entity.FilterOptions{
		Channels:          sortedKeys(channels),
		SKUs:              sortedCountKeys(skuCounts),
		SKUsTop10:         topByCount(skuCounts, 10),
		ProductNames:      sortedCountKeys(productCounts),
		ProductNamesTop10: topByCount(productCounts, 10),
		Statuses:          sortedKeys(statuses),
	}
	return opts, nil
}

// Stats returns the stored summary for a session. Metadata can outlive the
// dataset payload when their expirations race; that window reports as expired
// rather than as a live session.
func (u *datasetUsecase) Stats(ctx context.Context, sessionID string) (*entity.DatasetMeta, error) {
	meta, err := u.store.GetMeta(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !meta.ExpiresAt.IsZero() && time.Now().After(meta.ExpiresAt) {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrDatasetExpired)
	}
	return meta, nil
}

// Delete removes a dataset and everything derived from it.
func (u *datasetUsecase) Delete(ctx context.Context, sessionID string) error {
	if _, err := u.store.GetMeta(ctx, sessionID); err != nil {
		return err
	}
	if err := u.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	u.logger.Info("dataset deleted", "session_id", sessionID)
	return nil
}

// ============ helpers ============

func isInvalidOptionToken(v string) bool {
	switch strings.ToLower(v) {
	case "none", "n/a", "na", "null", "undefined":
		return true
	}
	return false
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedCountKeys(counts map[string]int) []string {
	out := make([]string, 0, len(counts))
	for k := range counts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func topByCount(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
