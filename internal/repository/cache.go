// internal/repository/cache.go
package repository

import (
	"context"
	"encoding/json"
	stderrs "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"program-pipeline/internal/common/logger"
	"program-pipeline/internal/models"
)

// StatusCache keeps terminal generation records in Redis so polling clients
// stop hitting Postgres once a record can no longer change. Non-terminal
// records are never cached.
type StatusCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewStatusCache(client *redis.Client, ttl time.Duration, log logger.Logger) *StatusCache {
	return &StatusCache{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "status-cache"}),
	}
}

func cacheKey(id string) string {
	return fmt.Sprintf("program:record:%s", id)
}

// Get returns the cached record, or nil on a miss. Cache failures degrade to
// a miss; the database remains the source of truth.
func (c *StatusCache) Get(ctx context.Context, id string) *models.GenerationRecord {
	payload, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if stderrs.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		c.logger.WithError(err).Warn("cache read failed", map[string]interface{}{"programId": id})
		return nil
	}

	var record models.GenerationRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		c.logger.WithError(err).Warn("cache entry corrupt", map[string]interface{}{"programId": id})
		return nil
	}
	return &record
}

// Put stores a record if its status is terminal and is otherwise a no-op.
func (c *StatusCache) Put(ctx context.Context, record *models.GenerationRecord) {
	if record == nil || !record.Status.IsTerminal() {
		return
	}

	payload, err := json.Marshal(record)
	if err != nil {
		c.logger.WithError(err).Warn("cache encode failed", map[string]interface{}{"programId": record.ID})
		return
	}
	if err := c.client.Set(ctx, cacheKey(record.ID), payload, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("cache write failed", map[string]interface{}{"programId": record.ID})
	}
}
