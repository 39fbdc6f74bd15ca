package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// snapshotTTL bounds how long a batch's snapshots stay readable. Batches are
// session-scoped; nothing survives past this window.
const snapshotTTL = 2 * time.Hour

// SnapshotStore publishes batch snapshots to polling consumers.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot Snapshot) error
	Get(ctx context.Context, batchID string) (Snapshot, error)
}

// RedisSnapshotStore keeps the latest snapshot per batch in Redis.
type RedisSnapshotStore struct {
	redis *redis.Client
}

// NewRedisSnapshotStore creates a new RedisSnapshotStore instance.
func NewRedisSnapshotStore(redisClient *redis.Client) *RedisSnapshotStore {
	return &RedisSnapshotStore{redis: redisClient}
}

func snapshotKey(batchID string) string {
	return fmt.Sprintf("batch:snapshot:%s", batchID)
}

// Save overwrites the stored snapshot for the batch.
func (s *RedisSnapshotStore) Save(ctx context.Context, snapshot Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := s.redis.Set(ctx, snapshotKey(snapshot.BatchID), data, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot to Redis: %w", err)
	}

	return nil
}

// Get retrieves the latest snapshot for a batch.
func (s *RedisSnapshotStore) Get(ctx context.Context, batchID string) (Snapshot, error) {
	data, err := s.redis.Get(ctx, snapshotKey(batchID)).Bytes()
	if err == redis.Nil {
		return Snapshot{}, ErrBatchNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to get snapshot from Redis: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return snapshot, nil
}
