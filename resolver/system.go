package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
)

// System adapts the Go standard resolver.
// The standard resolver does not distinguish NXDOMAIN from an empty answer
// in every configuration, so a missing MX set may surface as ErrNotFound.
type System struct {
	r Resolver
}

// NewSystem wraps r. A nil r uses net.DefaultResolver.
func NewSystem(r Resolver) *System {
	if r == nil {
		r = net.DefaultResolver
	}
	return &System{r: r}
}

func (s *System) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	records, err := s.r.LookupMX(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, domain)
		}
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, domain)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Pref < records[j].Pref
	})
	return records, nil
}
