package emailcheck

import (
	"time"

	"github.com/optimode/emailcheck/check"
)

// Options selects which checks run. Checks always run in the order
// regexp, tld, mx. With every check disabled Validate succeeds without
// looking at the address.
type Options struct {
	// Regexp matches the address against the syntax pattern.
	Regexp bool `toml:"regexp"`
	// TLD requires the final domain label to be a known top-level domain.
	TLD bool `toml:"tld"`
	// MX requires the domain to publish MX records.
	MX bool `toml:"mx"`
}

// DefaultOptions enables every check. It is what Validate uses when no
// Options are passed.
func DefaultOptions() Options {
	return Options{Regexp: true, TLD: true, MX: true}
}

// MXOptions configures the MX lookup.
type MXOptions struct {
	// Timeout bounds a single lookup attempt. Default: 250ms
	Timeout time.Duration `toml:"timeout"`
	// MaxAttempts caps the retry counter. The counter starts at 0 and a
	// timed-out attempt is retried while it has not exceeded MaxAttempts,
	// so up to MaxAttempts+2 queries are sent. Default: 2
	MaxAttempts int `toml:"max_attempts"`
}

func DefaultMXOptions() MXOptions {
	return MXOptions{
		Timeout:     check.DefaultMXTimeout,
		MaxAttempts: check.DefaultMXMaxAttempts,
	}
}

// budget is the longest a full retry loop can take.
func (o MXOptions) budget() time.Duration {
	return o.Timeout * time.Duration(o.MaxAttempts+2)
}

// ConcurrencyOptions configures concurrent processing for ValidateMany.
type ConcurrencyOptions struct {
	// Workers is the number of concurrent goroutines. Default: 5
	Workers int
}
