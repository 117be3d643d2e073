package check

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/optimode/emailcheck/internal/parse"
	"github.com/optimode/emailcheck/resolver"
	"github.com/optimode/emailcheck/types"
)

const (
	DefaultMXTimeout     = 250 * time.Millisecond
	DefaultMXMaxAttempts = 2
)

// ErrMXTimeout is returned by MXChecker.LookupMX when every attempt timed out.
var ErrMXTimeout = errors.New("MX check timed out")

// MXConfig is the MX checker configuration.
type MXConfig struct {
	// Timeout bounds a single attempt.
	Timeout time.Duration
	// MaxAttempts caps the attempt counter. A timed-out attempt is
	// re-issued while the counter (starting at 0) has not exceeded it.
	MaxAttempts int
}

// MXChecker verifies that the domain publishes MX records.
type MXChecker struct {
	cfg      MXConfig
	resolver resolver.Resolver
}

func NewMXChecker(cfg MXConfig, r resolver.Resolver) *MXChecker {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultMXTimeout
	}
	if cfg.MaxAttempts < 0 {
		cfg.MaxAttempts = 0
	}
	if r == nil {
		r = resolver.Default()
	}
	return &MXChecker{cfg: cfg, resolver: r}
}

func (c *MXChecker) Check(ctx context.Context, email parse.Email) types.CheckResult {
	level := types.LevelMX

	if email.ASCIIDomain == "" {
		return types.CheckResult{
			Level:   level,
			Kind:    types.KindDomainNotFound,
			Details: fmt.Sprintf("The domain %s doesn't exist", email.Domain),
		}
	}

	records, err := c.LookupMX(ctx, email.ASCIIDomain)
	if err == nil && len(records) == 0 {
		err = resolver.ErrNoData
	}
	if err != nil {
		return classify(email.Domain, err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Pref < records[j].Pref
	})

	return types.CheckResult{
		Level:   level,
		Passed:  true,
		Details: fmt.Sprintf("%d MX record(s) found", len(records)),
		MXHost:  strings.TrimSuffix(records[0].Host, "."),
	}
}

func classify(domain string, err error) types.CheckResult {
	res := types.CheckResult{Level: types.LevelMX, Err: err}
	switch {
	case errors.Is(err, resolver.ErrNotFound):
		res.Kind = types.KindDomainNotFound
		res.Details = fmt.Sprintf("The domain %s doesn't exist", domain)
	case errors.Is(err, resolver.ErrNoData):
		res.Kind = types.KindNoMailExchanger
		res.Details = fmt.Sprintf("No MX records for the domain %s", domain)
	case errors.Is(err, ErrMXTimeout):
		res.Kind = types.KindResolutionTimeout
		res.Details = ErrMXTimeout.Error()
	default:
		res.Kind = types.KindUnclassifiedResolverError
		res.Details = err.Error()
	}
	return res
}

type lookupResult struct {
	records []*net.MX
	err     error
}

// LookupMX queries the resolver with a per-attempt timeout. An attempt
// that times out is cancelled and its late answer ignored; a fresh one is
// issued until the attempt counter exceeds MaxAttempts, after which
// ErrMXTimeout is returned. Any answer, success or error, ends the loop.
func (c *MXChecker) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	for attempt := 0; ; attempt++ {
		res, answered := c.lookupOnce(ctx, domain)
		if answered {
			return res.records, res.err
		}
		if attempt > c.cfg.MaxAttempts {
			return nil, ErrMXTimeout
		}
	}
}

// lookupOnce runs one attempt. answered is false if the timer fired first.
func (c *MXChecker) lookupOnce(ctx context.Context, domain string) (res lookupResult, answered bool) {
	actx, cancel := context.WithCancel(ctx)
	defer cancel()

	// buffered so an abandoned attempt can always deliver and exit
	done := make(chan lookupResult, 1)
	go func() {
		records, err := c.resolver.LookupMX(actx, domain)
		done <- lookupResult{records: records, err: err}
	}()

	timer := time.NewTimer(c.cfg.Timeout)
	defer timer.Stop()

	select {
	case res = <-done:
		return res, true
	case <-ctx.Done():
		return lookupResult{err: ctx.Err()}, true
	case <-timer.C:
		return lookupResult{}, false
	}
}
