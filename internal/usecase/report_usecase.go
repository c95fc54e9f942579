package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bytedance/sonic"

	"github.com/pixellab01/dashboard/internal/analytics"
	"github.com/pixellab01/dashboard/internal/domain"
	"github.com/pixellab01/dashboard/internal/domain/entity"
)

// reportUsecase is the ReportUsecase implementation
type reportUsecase struct {
	store  domain.DatasetStore
	logger *slog.Logger
}

// NewReportUsecase creates a new ReportUsecase instance
func NewReportUsecase(store domain.DatasetStore, logger *slog.Logger) domain.ReportUsecase {
	return &reportUsecase{
		store:  store,
		logger: logger,
	}
}

// ComputeAll runs every registered report over the filtered dataset. One
// report failing is recorded under its name and does not stop the rest.
func (u *reportUsecase) ComputeAll(ctx context.Context, sessionID string, spec *entity.FilterSpec) (*entity.ReportBundle, error) {
	rows, err := u.filteredRows(ctx, sessionID, spec)
	if err != nil {
		return nil, err
	}

	bundle := &entity.ReportBundle{
		Success: true,
		Reports: make(map[string]any),
		Errors:  make(map[string]string),
	}
	for _, name := range analytics.AggregateNames() {
		fn, _ := analytics.Lookup(name)
		result, err := runAggregate(fn, rows)
		if err != nil {
			u.logger.Error("report failed", "session_id", sessionID, "report", name, "error", err)
			bundle.Errors[name] = err.Error()
			continue
		}
		bundle.Reports[name] = result
	}
	if len(bundle.Errors) == 0 {
		bundle.Errors = nil
	}

	u.cacheBundle(ctx, sessionID, spec, bundle)
	return bundle, nil
}

// ComputeOne runs a single named report, consulting the cache first.
func (u *reportUsecase) ComputeOne(ctx context.Context, sessionID, reportType string, spec *entity.FilterSpec) (any, error) {
	fn, err := analytics.Lookup(reportType)
	if err != nil {
		return nil, domain.NewUnknownReportError(reportType)
	}

	fingerprint := spec.Fingerprint()
	if payload, err := u.store.GetReport(ctx, sessionID, reportType, fingerprint); err == nil {
		var cached any
		if err := sonic.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
		// A corrupt cache entry falls through to recompute.
	}

	rows, err := u.filteredRows(ctx, sessionID, spec)
	if err != nil {
		return nil, err
	}

	result, err := runAggregate(fn, rows)
	if err != nil {
		return nil, fmt.Errorf("compute %s: %w", reportType, err)
	}

	if payload, err := sonic.Marshal(result); err == nil {
		if err := u.store.PutReport(ctx, sessionID, reportType, fingerprint, payload); err != nil {
			u.logger.Warn("report cache write failed", "session_id", sessionID, "report", reportType, "error", err)
		}
	}
	return result, nil
}

// filteredRows loads the session dataset and applies the filter spec.
func (u *reportUsecase) filteredRows(ctx context.Context, sessionID string, spec *entity.FilterSpec) ([]entity.CanonicalRow, error) {
	ds, err := u.store.GetDataset(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	rows := ds.Rows
	if spec != nil {
		rows = analytics.Filter(rows, spec)
	}
	return rows, nil
}

func (u *reportUsecase) cacheBundle(ctx context.Context, sessionID string, spec *entity.FilterSpec, bundle *entity.ReportBundle) {
	fingerprint := spec.Fingerprint()
	for name, result := range bundle.Reports {
		payload, err := sonic.Marshal(result)
		if err != nil {
			continue
		}
		if err := u.store.PutReport(ctx, sessionID, name, fingerprint, payload); err != nil {
			u.logger.Warn("report cache write failed", "session_id", sessionID, "report", name, "error", err)
			return
		}
	}
}

// runAggregate executes one report function, converting a panic inside the
// aggregate into an error so a bad row cannot take down the whole bundle.
func runAggregate(fn analytics.AggregateFunc, rows []entity.CanonicalRow) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("aggregate panicked: %v", r)
		}
	}()
	return analytics.Sanitize(fn(rows)), nil
}
