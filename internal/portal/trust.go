package portal

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// HostMatcher decides which portal hosts may receive credentials.
// An empty matcher trusts every host.
type HostMatcher struct {
	patterns []string
	globs    []glob.Glob
	nets     []*net.IPNet
}

// NewHostMatcher compiles host patterns. A pattern is either a CIDR
// ("10.0.0.0/8"), an IP literal, or a hostname glob
// ("*.campus.example.edu") whose wildcards stay inside one DNS label.
// IP hosts only match IP and CIDR patterns. Matching is case-insensitive.
func NewHostMatcher(patterns []string) (*HostMatcher, error) {
	m := &HostMatcher{}
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		switch {
		case strings.Contains(p, "/"):
			_, n, err := net.ParseCIDR(p)
			if err != nil {
				return nil, fmt.Errorf("parse host network %q: %w", p, err)
			}
			m.nets = append(m.nets, n)
		case net.ParseIP(p) != nil:
			ip := net.ParseIP(p)
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip, bits = ip.To4(), 8*net.IPv4len
			}
			m.nets = append(m.nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
		default:
			g, err := glob.Compile(p, '.')
			if err != nil {
				return nil, fmt.Errorf("compile host pattern %q: %w", p, err)
			}
			m.globs = append(m.globs, g)
		}
		m.patterns = append(m.patterns, p)
	}
	return m, nil
}

// Allowed reports whether the host of rawURL matches a pattern
func (m *HostMatcher) Allowed(rawURL string) bool {
	if m == nil || len(m.patterns) == 0 {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}

	if ip := net.ParseIP(host); ip != nil {
		for _, n := range m.nets {
			if n.Contains(ip) {
				return true
			}
		}
		return false
	}

	for _, g := range m.globs {
		if g.Match(host) {
			return true
		}
	}
	return false
}

// Patterns returns the normalised patterns
func (m *HostMatcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.patterns...)
}
