package routecache

import (
	"errors"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/routex/pkg/datastructure"
	"github.com/lintang-b-s/routex/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	route     *datastructure.Route
	expiresAt time.Time
}

// RouteCache memoize computed routes by request fingerprint. lookups for the
// same fingerprint coalesce into one computation (singleflight), entries
// expire after ttl and the least-recently-used entry is evicted once the
// cache is full. an optimization layer only: removing it changes
// performance, never correctness.
type RouteCache struct {
	log *zap.Logger
	lru *lru.Cache[string, entry]
	ttl time.Duration

	group singleflight.Group

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

func New(maxEntries int, ttl time.Duration, log *zap.Logger) (*RouteCache, error) {
	c := &RouteCache{
		log: log,
		ttl: ttl,
	}
	// github.com/hashicorp/golang-lru/v2 is thread-safe
	store, err := lru.NewWithEvict[string, entry](maxEntries, func(key string, _ entry) {
		c.evictions.Add(1)
	})
	if err != nil {
		return nil, err
	}
	c.lru = store
	return c, nil
}

// GetOrCompute return the cached route for fingerprint or run computeFn once
// for all concurrent callers of the same fingerprint. an expired entry is
// treated as a miss and recomputed transparently. when computeFn fails every
// waiter of that flight receives the same ErrCacheComputeFailed, nothing
// stale is substituted.
func (c *RouteCache) GetOrCompute(fingerprint string,
	computeFn func() (*datastructure.Route, error)) (*datastructure.Route, error) {
	if e, ok := c.lru.Get(fingerprint); ok {
		if time.Now().Before(e.expiresAt) {
			c.hits.Add(1)
			return e.route, nil
		}
		// dead entry, drop it so it stops occupying capacity
		c.lru.Remove(fingerprint)
	}
	c.misses.Add(1)

	v, err, shared := c.group.Do(fingerprint, func() (interface{}, error) {
		// a coalesced waiter may arrive right after the leader stored the
		// result, re-check before recomputing
		if e, ok := c.lru.Get(fingerprint); ok && time.Now().Before(e.expiresAt) {
			return e.route, nil
		}

		route, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.lru.Add(fingerprint, entry{route: route, expiresAt: time.Now().Add(c.ttl)})
		return route, nil
	})
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			// "no route" is a legitimate outcome, not a compute failure
			return nil, err
		}
		return nil, util.WrapErrorf(err, util.ErrCacheComputeFailed,
			"route computation for fingerprint %s failed", fingerprint)
	}
	if shared {
		c.log.Debug("coalesced duplicate route computation",
			zap.String("fingerprint", fingerprint))
	}

	return v.(*datastructure.Route), nil
}

func (c *RouteCache) Len() int {
	return c.lru.Len()
}

// Stats read-only hit/miss/eviction counters for observability collaborators.
func (c *RouteCache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
