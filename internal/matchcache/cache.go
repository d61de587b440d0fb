// Package matchcache memoises nearest-neighbour matches for the streaming
// pipeline, where the same vessel positions recur across messages.
package matchcache

import (
	"math"

	"github.com/couchcryptid/ais-metocean-etl/internal/domain"
	"github.com/couchcryptid/ais-metocean-etl/internal/observability"
)

// CachedMatcher wraps a domain.Matcher with in-memory LRU caches. Reference
// data never changes during a run, so misses are cached like hits.
type CachedMatcher struct {
	inner   domain.Matcher
	ocean   *lruCache[domain.Position, result[domain.OceanReading]]
	weather *lruCache[domain.Position, result[domain.WeatherReading]]
	metrics *observability.Metrics
}

type result[V any] struct {
	value V
	err   error
}

// NewCachedMatcher creates a cache decorator around a matcher. Each source
// keeps at most maxEntries positions.
func NewCachedMatcher(inner domain.Matcher, maxEntries int, metrics *observability.Metrics) *CachedMatcher {
	return &CachedMatcher{
		inner:   inner,
		ocean:   newLRUCache[domain.Position, result[domain.OceanReading]](maxEntries),
		weather: newLRUCache[domain.Position, result[domain.WeatherReading]](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedMatcher) MatchOcean(pos domain.Position) (domain.OceanReading, error) {
	return lookup(c, "ocean", c.ocean, pos, c.inner.MatchOcean)
}

func (c *CachedMatcher) MatchWeather(pos domain.Position) (domain.WeatherReading, error) {
	return lookup(c, "weather", c.weather, pos, c.inner.MatchWeather)
}

func lookup[V any](c *CachedMatcher, source string, cache *lruCache[domain.Position, result[V]], pos domain.Position, match func(domain.Position) (V, error)) (V, error) {
	// NaN never equals itself, so such keys could never be hit or evicted.
	if math.IsNaN(pos.Lat) || math.IsNaN(pos.Lon) {
		return match(pos)
	}
	if r, ok := cache.get(pos); ok {
		c.metrics.MatchCache.WithLabelValues(source, "hit").Inc()
		return r.value, r.err
	}
	c.metrics.MatchCache.WithLabelValues(source, "miss").Inc()

	v, err := match(pos)
	if err == nil || domain.IsMiss(err) {
		cache.put(pos, result[V]{value: v, err: err})
	}
	return v, err
}
