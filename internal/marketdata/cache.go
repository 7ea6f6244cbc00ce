package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FinSight/internal/metrics"
	"FinSight/internal/model"
)

// DefaultCacheTTL bounds how long market data is served without refetching.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// CachedFetcher wraps a Fetcher with a TTL cache keyed per call signature.
// Errors are never cached.
type CachedFetcher struct {
	inner Fetcher
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry

	metrics *metrics.Metrics
}

// NewCachedFetcher decorates inner with a TTL cache. A non-positive ttl
// falls back to DefaultCacheTTL.
func NewCachedFetcher(inner Fetcher, ttl time.Duration, m *metrics.Metrics) *CachedFetcher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedFetcher{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		metrics: m,
	}
}

func (c *CachedFetcher) Name() string { return c.inner.Name() }

func (c *CachedFetcher) lookup(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		c.metrics.CacheMisses.Inc()
		return nil, false
	}
	c.metrics.CacheHits.Inc()
	return entry.value, true
}

func (c *CachedFetcher) store(key string, value interface{}) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *CachedFetcher) FetchDailySeries(ctx context.Context, symbol string, days int) (model.PriceSeries, error) {
	key := fmt.Sprintf("series:%s:%d", symbol, days)
	if v, ok := c.lookup(key); ok {
		return v.(model.PriceSeries), nil
	}
	series, err := c.inner.FetchDailySeries(ctx, symbol, days)
	if err != nil {
		return nil, err
	}
	c.store(key, series)
	return series, nil
}

func (c *CachedFetcher) FetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	key := "quote:" + symbol
	if v, ok := c.lookup(key); ok {
		return v.(model.Quote), nil
	}
	quote, err := c.inner.FetchQuote(ctx, symbol)
	if err != nil {
		return model.Quote{}, err
	}
	c.store(key, quote)
	return quote, nil
}

func (c *CachedFetcher) FetchProfile(ctx context.Context, symbol string) (model.Company, error) {
	key := "profile:" + symbol
	if v, ok := c.lookup(key); ok {
		return v.(model.Company), nil
	}
	profile, err := c.inner.FetchProfile(ctx, symbol)
	if err != nil {
		return model.Company{}, err
	}
	c.store(key, profile)
	return profile, nil
}

// PurgeExpired drops expired entries and reports how many were removed.
func (c *CachedFetcher) PurgeExpired() int {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}
