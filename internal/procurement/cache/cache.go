package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// MasterCache read-through redis cache for master data records. Lookups
// during generation hit vendors and medicines repeatedly; writes invalidate.
// A nil client degrades to pass-through.
type MasterCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewMasterCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *MasterCache {
	return &MasterCache{rdb: rdb, ttl: ttl, logger: logger}
}

func key(kind, id string) string {
	return fmt.Sprintf("master:%s:%s", kind, id)
}

// Get unmarshals a cached record into dest; returns false on miss.
func (c *MasterCache) Get(ctx context.Context, kind, id string, dest interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key(kind, id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get failed", zap.String("key", key(kind, id)), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("cache decode failed", zap.String("key", key(kind, id)), zap.Error(err))
		return false
	}
	return true
}

// Set stores a record under kind:id for the configured TTL.
func (c *MasterCache) Set(ctx context.Context, kind, id string, value interface{}) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key(kind, id), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key(kind, id)), zap.Error(err))
	}
}

// Invalidate drops a record after a write.
func (c *MasterCache) Invalidate(ctx context.Context, kind, id string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, key(kind, id)).Err(); err != nil {
		c.logger.Warn("cache invalidate failed", zap.String("key", key(kind, id)), zap.Error(err))
	}
}

// Cache kinds
const (
	KindVendor   = "vendor"
	KindMedicine = "medicine"
)
