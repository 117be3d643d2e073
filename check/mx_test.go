package check_test

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimode/emailcheck/check"
	"github.com/optimode/emailcheck/internal/parse"
	"github.com/optimode/emailcheck/resolver"
	"github.com/optimode/emailcheck/types"
)

type step func(ctx context.Context) ([]*net.MX, error)

// scriptedResolver plays one step per call; the last step repeats.
type scriptedResolver struct {
	steps []step
	calls atomic.Int64
}

func (s *scriptedResolver) LookupMX(ctx context.Context, _ string) ([]*net.MX, error) {
	n := int(s.calls.Add(1)) - 1
	return s.steps[min(n, len(s.steps)-1)](ctx)
}

func answer(records ...*net.MX) step {
	return func(context.Context) ([]*net.MX, error) { return records, nil }
}

func fail(err error) step {
	return func(context.Context) ([]*net.MX, error) { return nil, err }
}

// hang blocks until the attempt is abandoned.
func hang(ctx context.Context) ([]*net.MX, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

var fastMX = check.MXConfig{Timeout: 20 * time.Millisecond, MaxAttempts: 2}

func TestMXChecker_Outcomes(t *testing.T) {
	refused := errors.New("read udp 127.0.0.1:53: connection refused")

	tests := []struct {
		name    string
		email   string
		step    step
		wantOK  bool
		kind    types.Kind
		details string
	}{
		{
			name:    "has MX records",
			email:   "user@sub.example.com",
			step:    answer(&net.MX{Host: "mx.example.com.", Pref: 10}),
			wantOK:  true,
			details: "1 MX record(s) found",
		},
		{
			name:    "domain not found",
			email:   "user@nonexistentdomain.com",
			step:    fail(resolver.ErrNotFound),
			kind:    types.KindDomainNotFound,
			details: "The domain nonexistentdomain.com doesn't exist",
		},
		{
			name:    "no MX data",
			email:   "user@example.com",
			step:    fail(resolver.ErrNoData),
			kind:    types.KindNoMailExchanger,
			details: "No MX records for the domain example.com",
		},
		{
			name:    "empty answer",
			email:   "user@example.com",
			step:    answer(),
			kind:    types.KindNoMailExchanger,
			details: "No MX records for the domain example.com",
		},
		{
			name:    "unclassified error passes through",
			email:   "user@example.com",
			step:    fail(refused),
			kind:    types.KindUnclassifiedResolverError,
			details: refused.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &scriptedResolver{steps: []step{tt.step}}
			res := check.NewMXChecker(fastMX, r).Check(context.Background(), parse.NewEmail(tt.email))
			assert.Equal(t, tt.wantOK, res.Passed)
			assert.Equal(t, tt.kind, res.Kind)
			assert.Equal(t, tt.details, res.Details)
			assert.Equal(t, int64(1), r.calls.Load())
		})
	}
}

func TestMXChecker_UnclassifiedKeepsError(t *testing.T) {
	refused := errors.New("connection refused")
	r := &scriptedResolver{steps: []step{fail(refused)}}
	res := check.NewMXChecker(fastMX, r).Check(context.Background(), parse.NewEmail("a@example.com"))
	assert.ErrorIs(t, res.Err, refused)
}

func TestMXChecker_SortsByPreference(t *testing.T) {
	r := &scriptedResolver{steps: []step{answer(
		&net.MX{Host: "mx2.example.com.", Pref: 20},
		&net.MX{Host: "mx1.example.com.", Pref: 10},
	)}}
	res := check.NewMXChecker(fastMX, r).Check(context.Background(), parse.NewEmail("a@example.com"))
	assert.True(t, res.Passed)
	assert.Equal(t, "mx1.example.com", res.MXHost)
}

func TestMXChecker_RetriesAfterTimeout(t *testing.T) {
	r := &scriptedResolver{steps: []step{hang, answer(&net.MX{Host: "mx.example.com.", Pref: 10})}}
	res := check.NewMXChecker(fastMX, r).Check(context.Background(), parse.NewEmail("a@example.com"))
	assert.True(t, res.Passed)
	assert.Equal(t, int64(2), r.calls.Load())
}

func TestMXChecker_GivesUpAfterMaxAttempts(t *testing.T) {
	r := &scriptedResolver{steps: []step{hang}}
	res := check.NewMXChecker(fastMX, r).Check(context.Background(), parse.NewEmail("a@example.com"))
	assert.False(t, res.Passed)
	assert.Equal(t, types.KindResolutionTimeout, res.Kind)
	assert.Equal(t, "MX check timed out", res.Details)
	assert.ErrorIs(t, res.Err, check.ErrMXTimeout)
	// attempts 0..MaxAttempts+1: the counter must exceed MaxAttempts
	assert.Equal(t, int64(fastMX.MaxAttempts+2), r.calls.Load())
}

func TestMXChecker_AbandonedAttemptIsCancelled(t *testing.T) {
	cancelled := make(chan struct{})
	first := func(ctx context.Context) ([]*net.MX, error) {
		<-ctx.Done()
		close(cancelled)
		return nil, ctx.Err()
	}
	r := &scriptedResolver{steps: []step{first, answer(&net.MX{Host: "mx.example.com.", Pref: 10})}}

	res := check.NewMXChecker(fastMX, r).Check(context.Background(), parse.NewEmail("a@example.com"))
	require.True(t, res.Passed)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("first attempt was not cancelled")
	}
}

func TestMXChecker_LateAnswerIsIgnored(t *testing.T) {
	// The first attempt ignores cancellation and reports not-found long
	// after it was abandoned; the second attempt's answer must stand.
	late := func(context.Context) ([]*net.MX, error) {
		time.Sleep(60 * time.Millisecond)
		return nil, resolver.ErrNotFound
	}
	r := &scriptedResolver{steps: []step{late, answer(&net.MX{Host: "mx.example.com.", Pref: 10})}}
	c := check.NewMXChecker(fastMX, r)

	res := c.Check(context.Background(), parse.NewEmail("a@example.com"))
	assert.True(t, res.Passed)
	assert.Equal(t, int64(2), r.calls.Load())
}

func TestMXChecker_CallerCancel(t *testing.T) {
	r := &scriptedResolver{steps: []step{hang}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := check.NewMXChecker(check.MXConfig{Timeout: time.Second, MaxAttempts: 5}, r).
		Check(ctx, parse.NewEmail("a@example.com"))
	assert.False(t, res.Passed)
	assert.Equal(t, types.KindUnclassifiedResolverError, res.Kind)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestMXChecker_InvalidDomainSkipsLookup(t *testing.T) {
	r := &scriptedResolver{steps: []step{answer(&net.MX{Host: "mx.example.com.", Pref: 10})}}
	res := check.NewMXChecker(fastMX, r).Check(context.Background(), parse.NewEmail("a@bad_label.com"))
	assert.False(t, res.Passed)
	assert.Equal(t, types.KindDomainNotFound, res.Kind)
	assert.Equal(t, "The domain bad_label.com doesn't exist", res.Details)
	assert.Zero(t, r.calls.Load())
}

func TestMXChecker_Defaults(t *testing.T) {
	// zero config falls back to the defaults instead of an instant timeout
	r := &scriptedResolver{steps: []step{answer(&net.MX{Host: "mx.example.com.", Pref: 10})}}
	res := check.NewMXChecker(check.MXConfig{}, r).Check(context.Background(), parse.NewEmail("a@example.com"))
	assert.True(t, res.Passed)
	assert.Equal(t, 250*time.Millisecond, check.DefaultMXTimeout)
	assert.Equal(t, 2, check.DefaultMXMaxAttempts)
}
