package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/config"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/domain"
	"github.com/redis/go-redis/v9"
)

const crossSellKeyPrefix = "cross_sell:suggest"

// CrossSellCache fronts the pair-count lookup. Misses and cache failures are
// never fatal; the caller falls through to the warehouse.
type CrossSellCache interface {
	Get(ctx context.Context, sku string, n int) ([]domain.CrossSellSuggestion, bool, error)
	Set(ctx context.Context, sku string, n int, suggestions []domain.CrossSellSuggestion) error
	InvalidateAll(ctx context.Context) error
}

type redisCrossSellCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopCrossSellCache struct{}

func NewCrossSellCache(cfg config.CacheConfig) (CrossSellCache, error) {
	if !cfg.Enabled {
		return &noopCrossSellCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisCrossSellCache{client: client, ttl: ttl}, nil
}

func NewNoopCrossSellCache() CrossSellCache {
	return &noopCrossSellCache{}
}

func (c *redisCrossSellCache) Get(ctx context.Context, sku string, n int) ([]domain.CrossSellSuggestion, bool, error) {
	payload, err := c.client.Get(ctx, crossSellKey(sku, n)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var suggestions []domain.CrossSellSuggestion
	if err := json.Unmarshal(payload, &suggestions); err != nil {
		return nil, false, fmt.Errorf("decode cross-sell cache: %w", err)
	}

	return suggestions, true, nil
}

func (c *redisCrossSellCache) Set(ctx context.Context, sku string, n int, suggestions []domain.CrossSellSuggestion) error {
	payload, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("encode cross-sell cache: %w", err)
	}

	if err := c.client.Set(ctx, crossSellKey(sku, n), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisCrossSellCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, crossSellKeyPrefix, scanBatchSize)
}

func (n *noopCrossSellCache) Get(ctx context.Context, sku string, count int) ([]domain.CrossSellSuggestion, bool, error) {
	return nil, false, nil
}

func (n *noopCrossSellCache) Set(ctx context.Context, sku string, count int, suggestions []domain.CrossSellSuggestion) error {
	return nil
}

func (n *noopCrossSellCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func crossSellKey(sku string, n int) string {
	return fmt.Sprintf("%s:%s:%d", crossSellKeyPrefix, sku, n)
}
