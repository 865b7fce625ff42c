package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/osrs-tools/flip-scanner/internal/config"
	"github.com/osrs-tools/flip-scanner/internal/models"
)

// SeriesCache is a read-through Redis cache in front of a series
// provider. Timeseries responses are immutable for the length of one
// upstream bucket, so a short TTL saves most of the per-item fetches
// when the same items are scanned repeatedly.
type SeriesCache struct {
	client *redis.Client
	next   seriesProvider
	ttl    time.Duration
	log    *zap.Logger
}

type seriesProvider interface {
	Series(ctx context.Context, itemID int, step models.Timestep) ([]models.TimeSeriesPoint, error)
}

// NewSeriesCache connects to Redis and wraps the given provider.
func NewSeriesCache(cfg config.RedisConfig, next seriesProvider, log *zap.Logger) (*SeriesCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if log == nil {
		log = zap.NewNop()
	}
	return &SeriesCache{client: client, next: next, ttl: cfg.TTL, log: log}, nil
}

func seriesKey(itemID int, step models.Timestep) string {
	return fmt.Sprintf("series:%s:%d", step, itemID)
}

// Series returns the cached series when present, otherwise fetches from
// the wrapped provider and stores the result. Cache failures degrade to
// a plain fetch and never fail the scan.
func (c *SeriesCache) Series(ctx context.Context, itemID int, step models.Timestep) ([]models.TimeSeriesPoint, error) {
	key := seriesKey(itemID, step)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var points []models.TimeSeriesPoint
		if jsonErr := json.Unmarshal(payload, &points); jsonErr == nil {
			return points, nil
		}
		// Corrupt entry, drop it and refetch.
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		c.log.Warn("redis read failed, fetching direct",
			zap.String("key", key), zap.Error(err))
	}

	points, err := c.next.Series(ctx, itemID, step)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(points); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.log.Warn("redis write failed",
				zap.String("key", key), zap.Error(err))
		}
	}
	return points, nil
}

// Close releases the Redis connection.
func (c *SeriesCache) Close() error {
	return c.client.Close()
}
