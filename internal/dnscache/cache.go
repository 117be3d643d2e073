// Package dnscache provides a thread-safe, TTL-based cache for MX lookups
// with singleflight deduplication for concurrent requests to the same domain.
package dnscache

import (
	"context"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// LookupFunc performs the underlying MX lookup.
type LookupFunc func(ctx context.Context, domain string) ([]*net.MX, error)

// Cache is a thread-safe MX lookup cache.
// Concurrent lookups for the same domain are deduplicated:
// only one query is in flight, and all waiters receive its result.
// The shared query is detached from any single caller's cancellation and
// bounded by lookupTimeout instead, so an abandoned caller does not fail
// the others waiting on it.
type Cache struct {
	mu            sync.Mutex
	entries       map[string]entry
	cacheTTL      time.Duration
	lookupTimeout time.Duration
	lookup        LookupFunc
	cacheable     func(error) bool
	group         singleflight.Group
	now           func() time.Time
}

type entry struct {
	records []*net.MX
	err     error
	expires time.Time
}

type outcome struct {
	records []*net.MX
	err     error
}

// New creates a cache in front of lookup. Only results for which
// cacheable(err) is true are stored; a nil cacheable stores successes only.
func New(lookup LookupFunc, lookupTimeout, cacheTTL time.Duration, cacheable func(error) bool) *Cache {
	if cacheable == nil {
		cacheable = func(err error) bool { return err == nil }
	}
	return &Cache{
		entries:       make(map[string]entry),
		cacheTTL:      cacheTTL,
		lookupTimeout: lookupTimeout,
		lookup:        lookup,
		cacheable:     cacheable,
		now:           time.Now,
	}
}

// LookupMX returns MX records for the domain, using the cache when possible.
func (c *Cache) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	c.mu.Lock()
	if e, ok := c.entries[domain]; ok {
		if c.now().Before(e.expires) {
			c.mu.Unlock()
			return copyMX(e.records), e.err
		}
		delete(c.entries, domain)
	}
	c.mu.Unlock()

	ch := c.group.DoChan(domain, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.lookupTimeout)
		defer cancel()

		records, err := c.lookup(lctx, domain)
		if c.cacheable(err) {
			c.mu.Lock()
			c.entries[domain] = entry{records: records, err: err, expires: c.now().Add(c.cacheTTL)}
			c.mu.Unlock()
		}
		// the lookup error travels inside the value so every waiter sees it unchanged
		return outcome{records: records, err: err}, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		o := res.Val.(outcome)
		return copyMX(o.records), o.err
	}
}

// Len returns the number of entries in the cache (for diagnostics).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// copyMX returns a deep copy of MX records to prevent callers from
// mutating cached data (e.g., via sort.Slice).
func copyMX(records []*net.MX) []*net.MX {
	if records == nil {
		return nil
	}
	out := make([]*net.MX, len(records))
	for i, r := range records {
		cp := *r
		out[i] = &cp
	}
	return out
}
