// Package resolver provides MX lookups with errors classified the way the
// validator reports them: a domain that does not exist, a domain without
// MX records, or anything else.
package resolver

import (
	"context"
	"errors"
	"net"
)

var (
	// ErrNotFound is returned (wrapped) when the domain does not exist (NXDOMAIN).
	ErrNotFound = errors.New("resolver: domain not found")

	// ErrNoData is returned (wrapped) when the domain exists but has no MX records.
	ErrNoData = errors.New("resolver: no MX records")
)

// Resolver looks up MX records for a domain.
// *net.Resolver satisfies it, but reports both ErrNotFound and ErrNoData
// cases as a generic not-found error; wrap it with NewSystem.
type Resolver interface {
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

// Default returns a Direct resolver using the nameservers from
// /etc/resolv.conf, or the System resolver when that file is unusable.
func Default() Resolver {
	if d, err := NewDirectFromResolvConf(DefaultResolvConf); err == nil {
		return d
	}
	return NewSystem(nil)
}

// IsDefinitive reports whether err is a final answer about the domain
// (as opposed to a transport or server failure worth retrying).
func IsDefinitive(err error) bool {
	return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoData)
}
