package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"sharpPicks/business/generator"
	"sharpPicks/business/retrieval"
	"sharpPicks/domain"
	"sharpPicks/pkg/logger"
)

const DefaultPoolTTL = 10 * time.Minute

// poolVersionTTL outlives any pool TTL; a lapsed version only skips one fill.
const poolVersionTTL = 48 * time.Hour

// PoolCache is a read-through cache in front of the pick store. Redis failures
// are logged and the store is read directly.
type PoolCache struct {
	client *redis.Client
	next   retrieval.PoolReader
	ttl    time.Duration
}

var (
	_ retrieval.PoolReader      = (*PoolCache)(nil)
	_ generator.PoolInvalidator = (*PoolCache)(nil)
)

func NewPoolCache(client *redis.Client, next retrieval.PoolReader, ttl time.Duration) *PoolCache {
	if ttl <= 0 {
		ttl = DefaultPoolTTL
	}
	return &PoolCache{client: client, next: next, ttl: ttl}
}

func PoolKey(runDate string, category domain.Category) string {
	return fmt.Sprintf("picks:pool:%s:%s", runDate, category)
}

// poolVersionKey is bumped on every invalidation. A reader only fills the
// cache if the version it saw before reading the store is still current.
func poolVersionKey(runDate string, category domain.Category) string {
	return PoolKey(runDate, category) + ":version"
}

var errStalePool = errors.New("pool version changed during read")

// Query serves the whole (date, category) pool from cache and applies the
// sport filter in memory. Empty pools are never cached so a pool generated
// later shows up immediately.
func (c *PoolCache) Query(ctx context.Context, runDate string, category domain.Category, sport string) ([]domain.Pick, error) {
	key := PoolKey(runDate, category)

	if picks, ok := c.read(ctx, key); ok {
		return filterSport(picks, sport), nil
	}

	versionKey := poolVersionKey(runDate, category)
	version, versionOK := c.version(ctx, versionKey)

	picks, err := c.next.Query(ctx, runDate, category, "")
	if err != nil {
		return nil, err
	}

	if len(picks) > 0 && versionOK {
		c.write(ctx, key, versionKey, version, picks)
	}

	return filterSport(picks, sport), nil
}

func (c *PoolCache) InvalidatePool(ctx context.Context, runDate string, category domain.Category) error {
	key := PoolKey(runDate, category)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		versionKey := poolVersionKey(runDate, category)
		pipe.Incr(ctx, versionKey)
		pipe.Expire(ctx, versionKey, poolVersionTTL)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate %s: %w", key, err)
	}
	return nil
}

func (c *PoolCache) read(ctx context.Context, key string) ([]domain.Pick, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.Warn("pool cache read failed", "key", key, "error", err)
		return nil, false
	}

	var picks []domain.Pick
	if err := json.Unmarshal(data, &picks); err != nil {
		logger.Warn("pool cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return picks, true
}

func (c *PoolCache) version(ctx context.Context, versionKey string) (string, bool) {
	v, err := c.client.Get(ctx, versionKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", true
	}
	if err != nil {
		logger.Warn("pool cache version read failed", "key", versionKey, "error", err)
		return "", false
	}
	return v, true
}

// write stores picks under key unless the pool was invalidated since the
// caller read version.
func (c *PoolCache) write(ctx context.Context, key, versionKey, version string, picks []domain.Pick) {
	data, err := json.Marshal(picks)
	if err != nil {
		logger.Warn("pool cache marshal failed", "key", key, "error", err)
		return
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStalePool
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}, versionKey)

	switch {
	case err == nil:
	case errors.Is(err, errStalePool), errors.Is(err, redis.TxFailedErr):
		logger.Debug("pool cache fill skipped, pool regenerated during read", "key", key)
	default:
		logger.Warn("pool cache write failed", "key", key, "error", err)
	}
}

func filterSport(picks []domain.Pick, sport string) []domain.Pick {
	sport = strings.TrimSpace(sport)
	if sport == "" {
		return picks
	}

	out := make([]domain.Pick, 0, len(picks))
	for _, p := range picks {
		if strings.EqualFold(p.Sport, sport) {
			out = append(out, p)
		}
	}
	return out
}
