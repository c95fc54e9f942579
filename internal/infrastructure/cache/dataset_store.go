package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/pixellab01/dashboard/internal/domain"
	"github.com/pixellab01/dashboard/internal/domain/entity"
)

const (
	datasetKeyPrefix = "shipping:data:"
	metaKeyPrefix    = "shipping:meta:"
	reportKeyPrefix  = "analytics:"
	sessionIndexKey  = "shipping:sessions"
)

// DatasetStore implements domain.DatasetStore on Redis. Datasets are stored
// msgpack-encoded under a TTL; expiry is indistinguishable from absence.
type DatasetStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewDatasetStore creates a store backed by Redis.
func NewDatasetStore(addr, password string, db int, ttl time.Duration, logger *slog.Logger) *DatasetStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &DatasetStore{client: rdb, ttl: ttl, logger: logger}
}

// Ping checks connectivity.
func (s *DatasetStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (s *DatasetStore) Close() error {
	return s.client.Close()
}

// TTL returns the configured dataset lifetime.
func (s *DatasetStore) TTL() time.Duration {
	return s.ttl
}

// PutDataset stores a normalized dataset under its session ID.
func (s *DatasetStore) PutDataset(ctx context.Context, ds *entity.Dataset) error {
	payload, err := msgpack.Marshal(ds)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, datasetKeyPrefix+ds.SessionID, payload, s.ttl)
	pipe.SAdd(ctx, sessionIndexKey, ds.SessionID)
	pipe.Expire(ctx, sessionIndexKey, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store dataset %s: %w", ds.SessionID, err)
	}

	s.logger.Debug("dataset stored",
		"session_id", ds.SessionID,
		"rows", len(ds.Rows),
		"bytes", len(payload))
	return nil
}

// GetDataset loads a dataset; an expired or unknown session yields NotFound.
func (s *DatasetStore) GetDataset(ctx context.Context, sessionID string) (*entity.Dataset, error) {
	payload, err := s.client.Get(ctx, datasetKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NewNotFoundError("dataset", sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", sessionID, err)
	}

	var ds entity.Dataset
	if err := msgpack.Unmarshal(payload, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", sessionID, err)
	}
	return &ds, nil
}

// PutMeta stores the dataset summary.
func (s *DatasetStore) PutMeta(ctx context.Context, meta *entity.DatasetMeta) error {
	payload, err := msgpack.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := s.client.Set(ctx, metaKeyPrefix+meta.SessionID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store metadata %s: %w", meta.SessionID, err)
	}
	return nil
}

// GetMeta loads the dataset summary.
func (s *DatasetStore) GetMeta(ctx context.Context, sessionID string) (*entity.DatasetMeta, error) {
	payload, err := s.client.Get(ctx, metaKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NewNotFoundError("dataset", sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("load metadata %s: %w", sessionID, err)
	}

	var meta entity.DatasetMeta
	if err := msgpack.Unmarshal(payload, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", sessionID, err)
	}
	return &meta, nil
}

// Delete removes a dataset, its metadata and any cached reports.
func (s *DatasetStore) Delete(ctx context.Context, sessionID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, datasetKeyPrefix+sessionID, metaKeyPrefix+sessionID)
	pipe.SRem(ctx, sessionIndexKey, sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete dataset %s: %w", sessionID, err)
	}

	// Cached reports carry the session in their key pattern.
	iter := s.client.Scan(ctx, 0, reportKeyPrefix+sessionID+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("delete report cache for %s: %w", sessionID, err)
		}
	}
	return iter.Err()
}

// ListSessions returns the session IDs with live datasets.
func (s *DatasetStore) ListSessions(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, sessionIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	// The index can outlive individual datasets. Drop stale entries.
	live := ids[:0]
	for _, id := range ids {
		n, err := s.client.Exists(ctx, datasetKeyPrefix+id).Result()
		if err != nil {
			return nil, err
		}
		if n > 0 {
			live = append(live, id)
		} else {
			s.client.SRem(ctx, sessionIndexKey, id)
		}
	}
	return live, nil
}

// PutReport caches one encoded report bundle.
func (s *DatasetStore) PutReport(ctx context.Context, sessionID, reportType, fingerprint string, payload []byte) error {
	key := reportKey(sessionID, reportType, fingerprint)
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store report %s: %w", key, err)
	}
	return nil
}

// GetReport returns a cached report payload, or NotFound.
func (s *DatasetStore) GetReport(ctx context.Context, sessionID, reportType, fingerprint string) ([]byte, error) {
	key := reportKey(sessionID, reportType, fingerprint)
	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NewNotFoundError("report", key)
	}
	if err != nil {
		return nil, fmt.Errorf("load report %s: %w", key, err)
	}
	return payload, nil
}

func reportKey(sessionID, reportType, fingerprint string) string {
	return fmt.Sprintf("%s%s:%s:%s", reportKeyPrefix, sessionID, reportType, fingerprint)
}
