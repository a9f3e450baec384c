package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/advocates-api/pkg/errors"
)

// purgeScanCount is the SCAN hint and the UNLINK chunk size used by Purge.
const purgeScanCount = 500

// CacheRepository keeps serialized search pages in Redis. Without a client
// it behaves as an always-empty cache so the API can run uncached.
type CacheRepository struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewCacheRepository wraps rdb, which may be nil.
func NewCacheRepository(rdb *redis.Client, logger *zap.Logger) *CacheRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheRepository{rdb: rdb, logger: logger}
}

// Get decodes the page stored at key into dest. Absent keys and entries
// that no longer decode both report appErrors.ErrCacheMiss; the latter are
// unlinked so the next search repopulates them.
func (r *CacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if r.rdb == nil {
		return appErrors.ErrCacheMiss
	}

	raw, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return appErrors.ErrCacheMiss
	case err != nil:
		return fmt.Errorf("read cached page %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		r.logger.Debug("dropping stale cached page", zap.String("key", key), zap.Error(err))
		r.rdb.Unlink(ctx, key)
		return appErrors.ErrCacheMiss
	}
	return nil
}

// Set stores value at key for ttl.
func (r *CacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if r.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached page %s: %w", key, err)
	}
	return r.rdb.Set(ctx, key, payload, ttl).Err()
}

// Purge unlinks every key matching pattern in SCAN-sized chunks and returns
// how many keys were removed.
func (r *CacheRepository) Purge(ctx context.Context, pattern string) (int, error) {
	if r.rdb == nil {
		return 0, nil
	}

	var (
		removed int
		cursor  uint64
	)
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, pattern, purgeScanCount).Result()
		if err != nil {
			return removed, fmt.Errorf("scan %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			n, err := r.rdb.Unlink(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("unlink %d keys for %s: %w", len(keys), pattern, err)
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

// Close releases the Redis connection pool.
func (r *CacheRepository) Close() error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Close()
}
