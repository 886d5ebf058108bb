package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix     = "listing:submit:"
	pendingMarker = "pending"

	// completed keys outlive the pending lock so a late resubmit still sees the record id
	completedTTL = 24 * time.Hour
)

// SubmissionGuard makes listing submits idempotent per key using Redis SETNX.
type SubmissionGuard struct {
	client  redis.UniversalClient
	lockTTL time.Duration
	logger  *logger.Logger
}

func NewRedisClient(addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// NewSubmissionGuard uses lockTTL as the upper bound on how long an unfinished submit
// blocks its key.
func NewSubmissionGuard(client redis.UniversalClient, lockTTL time.Duration, log *logger.Logger) *SubmissionGuard {
	return &SubmissionGuard{client: client, lockTTL: lockTTL, logger: log.Named("SubmissionGuard")}
}

func (g *SubmissionGuard) Acquire(ctx context.Context, key string) (*domain.CompletedSubmission, error) {
	ok, err := g.client.SetNX(ctx, keyPrefix+key, pendingMarker, g.lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("submission guard acquire %s: %w", key, err)
	}
	if ok {
		return nil, nil
	}

	val, err := g.client.Get(ctx, keyPrefix+key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// expired between SETNX and GET; the caller may retry
		return nil, domain.ErrDuplicateSubmission
	case err != nil:
		return nil, fmt.Errorf("submission guard lookup %s: %w", key, err)
	case val == pendingMarker:
		return nil, domain.ErrDuplicateSubmission
	}

	var done domain.CompletedSubmission
	if err := json.Unmarshal([]byte(val), &done); err != nil || done.RecordID == "" {
		g.logger.Error("Corrupt completed submission entry", zap.String("key", key), zap.String("value", val), zap.Error(err))
		return nil, fmt.Errorf("submission guard decode %s: %w", key, domain.ErrDuplicateSubmission)
	}
	g.logger.Debug("Idempotency key already completed", zap.String("key", key), zap.String("record_id", done.RecordID))
	return &done, nil
}

func (g *SubmissionGuard) Complete(ctx context.Context, key string, done domain.CompletedSubmission) error {
	data, err := json.Marshal(done)
	if err != nil {
		return fmt.Errorf("submission guard encode %s: %w", key, err)
	}
	return g.client.Set(ctx, keyPrefix+key, data, completedTTL).Err()
}

func (g *SubmissionGuard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, keyPrefix+key).Err()
}
