package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/pixellab01/dashboard/internal/domain"
	"github.com/pixellab01/dashboard/internal/domain/entity"
)

// memStore is an in-memory DatasetStore for tests.
type memStore struct {
	datasets map[string]*entity.Dataset
	metas    map[string]*entity.DatasetMeta
	reports  map[string][]byte
	putErr   error
}

func newMemStore() *memStore {
	return &memStore{
		datasets: map[string]*entity.Dataset{},
		metas:    map[string]*entity.DatasetMeta{},
		reports:  map[string][]byte{},
	}
}

func reportKey(sessionID, reportType, fingerprint string) string {
	return sessionID + "/" + reportType + "/" + fingerprint
}

func (s *memStore) PutDataset(ctx context.Context, ds *entity.Dataset) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.datasets[ds.SessionID] = ds
	return nil
}

func (s *memStore) GetDataset(ctx context.Context, sessionID string) (*entity.Dataset, error) {
	ds, ok := s.datasets[sessionID]
	if !ok {
		return nil, domain.NewNotFoundError("dataset", sessionID)
	}
	return ds, nil
}

func (s *memStore) PutMeta(ctx context.Context, meta *entity.DatasetMeta) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.metas[meta.SessionID] = meta
	return nil
}

func (s *memStore) GetMeta(ctx context.Context, sessionID string) (*entity.DatasetMeta, error) {
	meta, ok := s.metas[sessionID]
	if !ok {
		return nil, domain.NewNotFoundError("dataset", sessionID)
	}
	return meta, nil
}

func (s *memStore) Delete(ctx context.Context, sessionID string) error {
	delete(s.datasets, sessionID)
	delete(s.metas, sessionID)
	return nil
}

func (s *memStore) TTL() time.Duration {
	return 30 * time.Minute
}

func (s *memStore) ListSessions(ctx context.Context) ([]string, error) {
	out := make([]string, 0, len(s.metas))
	for id := range s.metas {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (s *memStore) PutReport(ctx context.Context, sessionID, reportType, fingerprint string, payload []byte) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.reports[reportKey(sessionID, reportType, fingerprint)] = payload
	return nil
}

func (s *memStore) GetReport(ctx context.Context, sessionID, reportType, fingerprint string) ([]byte, error) {
	payload, ok := s.reports[reportKey(sessionID, reportType, fingerprint)]
	if !ok {
		return nil, domain.NewNotFoundError("report", reportType)
	}
	return payload, nil
}
