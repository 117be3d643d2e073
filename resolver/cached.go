package resolver

import (
	"context"
	"net"
	"time"

	"github.com/optimode/emailcheck/internal/dnscache"
)

// Cached puts a TTL cache in front of another Resolver. Definitive answers
// (records, ErrNotFound, ErrNoData) are cached; transient failures are not.
type Cached struct {
	cache *dnscache.Cache
}

// NewCached wraps r. lookupTimeout bounds each shared upstream query.
func NewCached(r Resolver, lookupTimeout, ttl time.Duration) *Cached {
	return &Cached{
		cache: dnscache.New(r.LookupMX, lookupTimeout, ttl, IsDefinitive),
	}
}

func (c *Cached) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	return c.cache.LookupMX(ctx, domain)
}

// Len returns the number of cached domains.
func (c *Cached) Len() int {
	return c.cache.Len()
}
