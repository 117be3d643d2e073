package emailcheck

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/optimode/emailcheck/check"
	"github.com/optimode/emailcheck/internal/parse"
	"github.com/optimode/emailcheck/resolver"
	"github.com/optimode/emailcheck/tld"
	"github.com/optimode/emailcheck/types"
)

// checker is the internal interface for all checks.
// Every check/ package type implements this.
type checker interface {
	Check(ctx context.Context, email parse.Email) types.CheckResult
}

// Validator is the main fluent builder struct.
// Instantiate with the New() function. A configured Validator is safe for
// concurrent use; the With* methods are not.
type Validator struct {
	pattern checker
	tld     checker
	mx      checker

	resolver resolver.Resolver
	tldList  *tld.List
	mxOpts   MXOptions
	cacheTTL time.Duration
	err      error // configuration error, returned on Validate()
}

// New creates a Validator using the nameservers from /etc/resolv.conf
// (falling back to the Go resolver), the embedded TLD list and the
// default MX options.
func New() *Validator {
	v := &Validator{
		pattern:  check.NewPatternChecker(),
		resolver: resolver.Default(),
		mxOpts:   DefaultMXOptions(),
	}
	v.rebuild()
	return v
}

// WithResolver replaces the resolver used for MX lookups.
func (v *Validator) WithResolver(r resolver.Resolver) *Validator {
	if r != nil {
		v.resolver = r
	}
	v.rebuild()
	return v
}

// WithTLDList replaces the list the TLD check consults.
func (v *Validator) WithTLDList(l *tld.List) *Validator {
	v.tldList = l
	v.rebuild()
	return v
}

// WithMXOptions overrides the default MXOptions. Zero fields keep their
// defaults; negative fields make Validate return ErrInvalidMXOptions.
func (v *Validator) WithMXOptions(opts MXOptions) *Validator {
	if opts.Timeout < 0 || opts.MaxAttempts < 0 {
		v.err = ErrInvalidMXOptions
		return v
	}
	def := DefaultMXOptions()
	if opts.Timeout == 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	v.mxOpts = opts
	v.rebuild()
	return v
}

// WithCache caches definitive MX answers for ttl and collapses concurrent
// lookups of the same domain. Useful with ValidateMany.
func (v *Validator) WithCache(ttl time.Duration) *Validator {
	v.cacheTTL = ttl
	v.rebuild()
	return v
}

func (v *Validator) rebuild() {
	r := v.resolver
	if v.cacheTTL > 0 {
		r = resolver.NewCached(r, v.mxOpts.budget(), v.cacheTTL)
	}
	v.tld = check.NewTLDChecker(v.tldList)
	v.mx = check.NewMXChecker(check.MXConfig{
		Timeout:     v.mxOpts.Timeout,
		MaxAttempts: v.mxOpts.MaxAttempts,
	}, r)
}

func (v *Validator) checkers(o Options) []checker {
	out := make([]checker, 0, 3)
	if o.Regexp {
		out = append(out, v.pattern)
	}
	if o.TLD {
		out = append(out, v.tld)
	}
	if o.MX {
		out = append(out, v.mx)
	}
	return out
}

// Validate checks email and returns true if every enabled check passed.
// Otherwise it returns false and a *ValidationError from the first failing
// check; later checks are not run. Without opts all checks are enabled.
func (v *Validator) Validate(ctx context.Context, email string, opts ...Options) (bool, error) {
	res, err := v.Check(ctx, email, opts...)
	if err != nil {
		return false, err
	}
	if !res.Valid {
		return false, res.Err()
	}
	return true, nil
}

// Check runs the enabled checks and returns each one's result.
// The pipeline short-circuits: if a check fails, later checks are skipped.
// The error is non-nil only for configuration problems.
func (v *Validator) Check(ctx context.Context, email string, opts ...Options) (Result, error) {
	if v.err != nil {
		return Result{}, v.err
	}

	o := DefaultOptions()
	if len(opts) > 0 {
		o = opts[0]
	}

	parsed := parse.NewEmail(email)
	result := Result{Email: email}

	for _, c := range v.checkers(o) {
		cr := c.Check(ctx, parsed)
		result.Checks = append(result.Checks, cr)

		if !cr.Passed {
			return result, nil // short-circuit
		}
	}

	result.Valid = true
	return result, nil
}

// ValidateMany checks multiple emails concurrently with the given Options.
// The result order matches the input slice order.
// Emails are sorted by domain internally so that a cache set with
// WithCache serves repeated domains.
func (v *Validator) ValidateMany(ctx context.Context, emails []string, checks Options, opts ...ConcurrencyOptions) ([]Result, error) {
	if v.err != nil {
		return nil, v.err
	}

	workers := 5
	if len(opts) > 0 && opts[0].Workers > 0 {
		workers = opts[0].Workers
	}

	results := make([]Result, len(emails))
	type job struct {
		idx    int
		email  string
		domain string
	}

	// Build and sort jobs by domain for cache locality
	jobSlice := make([]job, len(emails))
	for i, e := range emails {
		domain := ""
		if atIdx := strings.LastIndex(e, "@"); atIdx >= 0 {
			domain = strings.ToLower(e[atIdx+1:])
		}
		jobSlice[i] = job{idx: i, email: e, domain: domain}
	}
	sort.SliceStable(jobSlice, func(i, j int) bool {
		return jobSlice[i].domain < jobSlice[j].domain
	})

	// Feed sorted jobs into bounded channel
	bufSize := min(len(emails), 1000)
	jobs := make(chan job, bufSize)
	go func() {
		defer close(jobs)
		for _, j := range jobSlice {
			select {
			case jobs <- j:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				res, err := v.Check(ctx, j.email, checks)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("validating %q: %w", j.email, err)
					}
					mu.Unlock()
					continue
				}
				results[j.idx] = res
			}
		}()
	}

	wg.Wait()
	if firstErr == nil && ctx.Err() != nil {
		firstErr = ctx.Err()
	}
	return results, firstErr
}

var defaultValidator = sync.OnceValue(New)

// Validate checks email with a Validator built by New on first use.
// See Validator.Validate.
func Validate(ctx context.Context, email string, opts ...Options) (bool, error) {
	return defaultValidator().Validate(ctx, email, opts...)
}
