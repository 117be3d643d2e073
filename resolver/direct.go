package resolver

import (
	"context"
	"fmt"
	"net"
	"sort"
	"time"

	"github.com/miekg/dns"
)

// DefaultResolvConf is where nameservers are read from by Default.
const DefaultResolvConf = "/etc/resolv.conf"

// Direct sends MX queries straight to a list of nameservers and inspects
// the response code, so NXDOMAIN and NOERROR-without-answers are told apart.
// Servers are tried in order; the next one is used only on transport
// failure or a server-side error code.
type Direct struct {
	servers []string
	udp     *dns.Client
	tcp     *dns.Client
}

// NewDirect creates a resolver querying the given servers ("host:port";
// a bare host gets port 53).
func NewDirect(servers ...string) *Direct {
	d := &Direct{
		udp: &dns.Client{Net: "udp", Timeout: 5 * time.Second},
		tcp: &dns.Client{Net: "tcp", Timeout: 5 * time.Second},
	}
	for _, s := range servers {
		if _, _, err := net.SplitHostPort(s); err != nil {
			s = net.JoinHostPort(s, "53")
		}
		d.servers = append(d.servers, s)
	}
	return d
}

// NewDirectFromResolvConf reads nameservers from a resolv.conf file.
func NewDirectFromResolvConf(path string) (*Direct, error) {
	cfg, err := dns.ClientConfigFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("resolver: reading %s: %w", path, err)
	}
	if len(cfg.Servers) == 0 {
		return nil, fmt.Errorf("resolver: no nameservers in %s", path)
	}
	servers := make([]string, len(cfg.Servers))
	for i, s := range cfg.Servers {
		servers[i] = net.JoinHostPort(s, cfg.Port)
	}
	return NewDirect(servers...), nil
}

// Servers returns the nameservers in query order.
func (d *Direct) Servers() []string {
	return append([]string(nil), d.servers...)
}

func (d *Direct) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	if len(d.servers) == 0 {
		return nil, fmt.Errorf("resolver: no nameservers configured")
	}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), dns.TypeMX)
	m.RecursionDesired = true

	var lastErr error
	for _, server := range d.servers {
		in, err := d.exchange(ctx, m, server)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		switch in.Rcode {
		case dns.RcodeSuccess:
			return mxFromAnswer(in, domain)
		case dns.RcodeNameError:
			return nil, fmt.Errorf("%w: %s", ErrNotFound, domain)
		default:
			lastErr = fmt.Errorf("resolver: %s answered %s for %s",
				server, dns.RcodeToString[in.Rcode], domain)
		}
	}
	return nil, lastErr
}

// exchange sends m over UDP and repeats over TCP when the answer is truncated.
func (d *Direct) exchange(ctx context.Context, m *dns.Msg, server string) (*dns.Msg, error) {
	in, _, err := d.udp.ExchangeContext(ctx, m, server)
	if err != nil {
		return nil, err
	}
	if in.Truncated {
		in, _, err = d.tcp.ExchangeContext(ctx, m, server)
		if err != nil {
			return nil, err
		}
	}
	return in, nil
}

func mxFromAnswer(in *dns.Msg, domain string) ([]*net.MX, error) {
	var out []*net.MX
	for _, rr := range in.Answer {
		if mx, ok := rr.(*dns.MX); ok {
			out = append(out, &net.MX{Host: mx.Mx, Pref: mx.Preference})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, domain)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Pref < out[j].Pref
	})
	return out, nil
}
