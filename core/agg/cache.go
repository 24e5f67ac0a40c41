// Package agg caches the expensive event-log aggregates between scoring calls.
package agg

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/schema"
	"github.com/sirupsen/logrus"
)

// currentCacheVersion defines the version of the durable cache payload
const currentCacheVersion = 1

// durableKeyPrefix namespaces event aggregates inside the shared cache table.
const durableKeyPrefix = "event_aggregate:"

// entry is an in-memory cache value with the time it was stored.
type entry struct {
	value    schema.EventTypeAggregate
	storedAt time.Time
}

// ResultCache memoizes event aggregates per project for a fixed TTL.
// Concurrent misses on the same key may both compute; the last write wins.
type ResultCache struct {
	entries sync.Map // schema.ProjectKey -> entry
	clock   contract.Clock
	ttl     time.Duration
	durable contract.CacheStore // optional
	logger  *logrus.Logger
}

// NewResultCache creates a cache. A nil durable store keeps the cache in memory only.
func NewResultCache(clock contract.Clock, ttl time.Duration, durable contract.CacheStore, logger *logrus.Logger) *ResultCache {
	if ttl <= 0 {
		ttl = contract.DefaultCacheTTL
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ResultCache{
		clock:   clock,
		ttl:     ttl,
		durable: durable,
		logger:  logger,
	}
}

// TTL returns the configured lifetime of an entry.
func (c *ResultCache) TTL() time.Duration {
	return c.ttl
}

// GetOrCompute returns a fresh cached aggregate for key, or calls compute and stores its result.
// A result that compute reports as failed is returned but never stored.
func (c *ResultCache) GetOrCompute(ctx context.Context, key schema.ProjectKey, compute func(context.Context) (schema.EventTypeAggregate, bool)) schema.EventTypeAggregate {
	now := c.clock.Now()

	if v, ok := c.entries.Load(key); ok {
		e := v.(entry)
		if c.fresh(e.storedAt, now) {
			return e.value
		}
	}

	if e, ok := c.loadDurable(key, now); ok {
		c.entries.Store(key, e)
		return e.value
	}

	value, ok := compute(ctx)
	if !ok {
		return value
	}
	storedAt := c.clock.Now()
	c.entries.Store(key, entry{value: value, storedAt: storedAt})
	c.storeDurable(key, value, storedAt)
	return value
}

// Len returns the number of in-memory entries, fresh or not.
func (c *ResultCache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (c *ResultCache) fresh(storedAt, now time.Time) bool {
	return now.Before(storedAt.Add(c.ttl))
}

// loadDurable attempts to retrieve and validate an entry from the durable tier
func (c *ResultCache) loadDurable(key schema.ProjectKey, now time.Time) (entry, bool) {
	if c.durable == nil {
		return entry{}, false
	}
	data, version, ts, err := c.durable.Get(durableKeyPrefix + string(key))
	if err != nil {
		return entry{}, false // Cache miss
	}

	// Validate version and staleness
	storedAt := time.Unix(ts, 0)
	if version != currentCacheVersion || !c.fresh(storedAt, now) {
		return entry{}, false
	}

	var value schema.EventTypeAggregate
	if err := json.Unmarshal(data, &value); err != nil {
		c.logger.WithError(err).WithField("project", key).Warn("discarding unreadable cache entry")
		return entry{}, false
	}
	return entry{value: value, storedAt: storedAt}, true
}

func (c *ResultCache) storeDurable(key schema.ProjectKey, value schema.EventTypeAggregate, storedAt time.Time) {
	if c.durable == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.durable.Set(durableKeyPrefix+string(key), data, currentCacheVersion, storedAt.Unix()); err != nil {
		c.logger.WithError(err).WithField("project", key).Warn("failed to persist event aggregate")
	}
}
