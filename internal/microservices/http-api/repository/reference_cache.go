package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"novelhub/internal/microservices/http-api/models"

	"github.com/redis/go-redis/v9"
)

const (
	regionsCacheKey = "reference:regions"
	genresCacheKey  = "reference:genres"
)

// ReferenceCache is a Redis read-through cache in front of the static
// reference tables (regions, genres). A cache miss or a Redis failure
// falls through to Postgres; Redis being down is never fatal.
type ReferenceCache struct {
	client  *redis.Client
	regions *RegionRepo
	genres  *GenreRepo
	ttl     time.Duration
	logger  *slog.Logger
}

func NewReferenceCache(redisURL, redisPassword string, ttl time.Duration, regions *RegionRepo, genres *GenreRepo, logger *slog.Logger) (*ReferenceCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if redisPassword != "" {
		opts.Password = redisPassword
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	// Verify connection; a failed ping only disables the cache
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, reference data served from database", "error", err)
		rdb = nil
	}

	return &ReferenceCache{
		client:  rdb,
		regions: regions,
		genres:  genres,
		ttl:     ttl,
		logger:  logger,
	}, nil
}

func (c *ReferenceCache) GetRegions(ctx context.Context) ([]models.Region, error) {
	var cached []models.Region
	if c.lookup(ctx, regionsCacheKey, &cached) {
		return cached, nil
	}

	list, err := c.regions.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, regionsCacheKey, list)
	return list, nil
}

func (c *ReferenceCache) GetGenres(ctx context.Context) ([]models.Genre, error) {
	var cached []models.Genre
	if c.lookup(ctx, genresCacheKey, &cached) {
		return cached, nil
	}

	list, err := c.genres.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, genresCacheKey, list)
	return list, nil
}

// Invalidate drops both cached lists, called after an admin mutation.
func (c *ReferenceCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, regionsCacheKey, genresCacheKey).Err(); err != nil {
		c.logger.Warn("failed to invalidate reference cache", "error", err)
	}
}

func (c *ReferenceCache) lookup(ctx context.Context, key string, target any) bool {
	if c == nil || c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("reference cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		c.logger.Warn("reference cache entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (c *ReferenceCache) store(ctx context.Context, key string, value any) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("reference cache write failed", "key", key, "error", err)
	}
}

func (c *ReferenceCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
