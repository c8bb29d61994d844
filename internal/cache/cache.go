package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quantlab/portfolio-insight/internal/config"
	"github.com/quantlab/portfolio-insight/internal/data"
	"github.com/quantlab/portfolio-insight/internal/models"
	"github.com/quantlab/portfolio-insight/pkg/logger"
)

// SeriesCache caches fetched price series in Redis keyed by symbol and
// range. A nil *SeriesCache is a valid no-op cache, so callers never need
// to branch on whether Redis is configured.
type SeriesCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection. Returns nil (no-op
// cache) when the cache is disabled in config.
func New(cfg config.RedisConfig) (*SeriesCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis",
		logger.String("addr", cfg.Addr()),
		logger.Duration("series_ttl", cfg.TTL),
	)

	return &SeriesCache{client: rdb, ttl: cfg.TTL}, nil
}

// Key builds the cache key for a symbol and range. Range endpoints are
// truncated to the day so repeated runs within a day share entries.
func Key(symbol string, rng data.Range) string {
	return fmt.Sprintf("series:%s:%s:%s",
		symbol,
		rng.Start.UTC().Format("2006-01-02"),
		rng.End.UTC().Format("2006-01-02"),
	)
}

// Get returns the cached series for the symbol and range, if present.
func (c *SeriesCache) Get(ctx context.Context, symbol string, rng data.Range) (*models.PriceSeries, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, Key(symbol, rng)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Warn("Series cache read failed",
			logger.ErrorField(err),
			logger.String("symbol", symbol),
		)
		return nil, false
	}

	var series models.PriceSeries
	if err := json.Unmarshal(raw, &series); err != nil {
		logger.Warn("Series cache entry corrupt, ignoring",
			logger.ErrorField(err),
			logger.String("symbol", symbol),
		)
		return nil, false
	}
	return &series, true
}

// Set stores the series for the symbol and range with the configured TTL.
// Cache write failures are logged, never surfaced: the pipeline already
// holds the data.
func (c *SeriesCache) Set(ctx context.Context, symbol string, rng data.Range, series *models.PriceSeries) {
	if c == nil || series == nil {
		return
	}

	raw, err := json.Marshal(series)
	if err != nil {
		logger.Warn("Series cache marshal failed", logger.ErrorField(err))
		return
	}

	if err := c.client.Set(ctx, Key(symbol, rng), raw, c.ttl).Err(); err != nil {
		logger.Warn("Series cache write failed",
			logger.ErrorField(err),
			logger.String("symbol", symbol),
		)
	}
}

// Close closes the Redis connection.
func (c *SeriesCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
