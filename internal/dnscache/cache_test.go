package dnscache_test

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimode/emailcheck/internal/dnscache"
)

var errNXDomain = errors.New("nxdomain")

// mockResolver tracks how many times LookupMX was called.
type mockResolver struct {
	records []*net.MX
	err     error
	delay   time.Duration
	calls   atomic.Int64
}

func (m *mockResolver) LookupMX(ctx context.Context, _ string) ([]*net.MX, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.records, m.err
}

func cacheErrors(err error) bool {
	return err == nil || errors.Is(err, errNXDomain)
}

func TestCache_BasicCaching(t *testing.T) {
	r := &mockResolver{
		records: []*net.MX{{Host: "mx.example.com.", Pref: 10}},
	}
	c := dnscache.New(r.LookupMX, 2*time.Second, time.Minute, nil)
	ctx := context.Background()

	// First call: actual lookup
	recs, err := c.LookupMX(ctx, "example.com")
	assert.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, int64(1), r.calls.Load())

	// Second call: cached
	recs, err = c.LookupMX(ctx, "example.com")
	assert.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, int64(1), r.calls.Load())
}

func TestCache_DifferentDomains(t *testing.T) {
	r := &mockResolver{
		records: []*net.MX{{Host: "mx.test.", Pref: 10}},
	}
	c := dnscache.New(r.LookupMX, 2*time.Second, time.Minute, nil)

	_, _ = c.LookupMX(context.Background(), "a.com")
	_, _ = c.LookupMX(context.Background(), "b.com")
	assert.Equal(t, int64(2), r.calls.Load())
	assert.Equal(t, 2, c.Len())
}

func TestCache_TTLExpiry(t *testing.T) {
	r := &mockResolver{
		records: []*net.MX{{Host: "mx.test.", Pref: 10}},
	}
	c := dnscache.New(r.LookupMX, 2*time.Second, 50*time.Millisecond, nil)

	_, _ = c.LookupMX(context.Background(), "example.com")
	assert.Equal(t, int64(1), r.calls.Load())

	time.Sleep(100 * time.Millisecond)

	_, _ = c.LookupMX(context.Background(), "example.com")
	assert.Equal(t, int64(2), r.calls.Load())
}

func TestCache_Singleflight(t *testing.T) {
	r := &mockResolver{
		records: []*net.MX{{Host: "mx.test.", Pref: 10}},
		delay:   50 * time.Millisecond,
	}
	c := dnscache.New(r.LookupMX, 2*time.Second, time.Minute, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			recs, err := c.LookupMX(context.Background(), "example.com")
			assert.NoError(t, err)
			assert.Len(t, recs, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), r.calls.Load())
}

func TestCache_CachesDefinitiveErrors(t *testing.T) {
	r := &mockResolver{err: errNXDomain}
	c := dnscache.New(r.LookupMX, 2*time.Second, time.Minute, cacheErrors)

	_, err := c.LookupMX(context.Background(), "bad.com")
	assert.ErrorIs(t, err, errNXDomain)

	_, err = c.LookupMX(context.Background(), "bad.com")
	assert.ErrorIs(t, err, errNXDomain)
	assert.Equal(t, int64(1), r.calls.Load())
}

func TestCache_SkipsTransientErrors(t *testing.T) {
	r := &mockResolver{err: errors.New("server failure")}
	c := dnscache.New(r.LookupMX, 2*time.Second, time.Minute, cacheErrors)

	_, err := c.LookupMX(context.Background(), "flaky.com")
	assert.Error(t, err)
	_, err = c.LookupMX(context.Background(), "flaky.com")
	assert.Error(t, err)
	assert.Equal(t, int64(2), r.calls.Load())
	assert.Zero(t, c.Len())
}

func TestCache_CallerCancelDoesNotAbortSharedLookup(t *testing.T) {
	r := &mockResolver{
		records: []*net.MX{{Host: "mx.test.", Pref: 10}},
		delay:   100 * time.Millisecond,
	}
	c := dnscache.New(r.LookupMX, 2*time.Second, time.Minute, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.LookupMX(ctx, "example.com")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// A second caller joins or reuses the detached query
	recs, err := c.LookupMX(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, int64(1), r.calls.Load())
}

func TestCache_ReturnsCopy(t *testing.T) {
	r := &mockResolver{
		records: []*net.MX{
			{Host: "mx2.", Pref: 20},
			{Host: "mx1.", Pref: 10},
		},
	}
	c := dnscache.New(r.LookupMX, 2*time.Second, time.Minute, nil)

	recs1, _ := c.LookupMX(context.Background(), "example.com")
	recs2, _ := c.LookupMX(context.Background(), "example.com")

	// Mutating one copy should not affect the other
	recs1[0].Host = "modified."
	assert.NotEqual(t, recs1[0].Host, recs2[0].Host)
}
