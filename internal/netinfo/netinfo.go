// Package netinfo reports the host's locally configured IPv4 subnets. The
// firewall commands use it to warn about rule sources that overlap no local
// network, which on the appliance almost always means a typo.
package netinfo

import (
	"log/slog"
	"net"
	"strings"
)

// Checker warns about rule sources outside every local subnet. The subnet
// listing function is injectable for tests; the default reads the kernel's
// address table (Linux) or reports nothing (other platforms).
type Checker struct {
	networks func() ([]*net.IPNet, error)
	logger   *slog.Logger
}

// NewChecker returns a Checker backed by the host's address table.
func NewChecker(logger *slog.Logger) *Checker {
	return &Checker{
		networks: localNetworks,
		logger:   logger.With("component", "netinfo"),
	}
}

// WarnForeign logs a warning for every source that overlaps none of the
// host's subnets. It never fails and never alters rule semantics; when the
// address table is unreadable or empty, no warnings are emitted.
func (c *Checker) WarnForeign(sources []string) {
	nets, err := c.networks()
	if err != nil {
		c.logger.Debug("cannot read local address table", "error", err)
		return
	}
	if len(nets) == 0 {
		return
	}

	for _, src := range sources {
		if !overlapsAny(src, nets) {
			c.logger.Warn("source matches no local subnet, check for typos",
				"source", src,
			)
		}
	}
}

// overlapsAny reports whether the source IP or CIDR intersects any of the
// given networks.
func overlapsAny(source string, nets []*net.IPNet) bool {
	if strings.Contains(source, "/") {
		_, srcNet, err := net.ParseCIDR(source)
		if err != nil {
			return true // malformed sources are rejected elsewhere
		}
		for _, n := range nets {
			if n.Contains(srcNet.IP) || srcNet.Contains(n.IP) {
				return true
			}
		}
		return false
	}

	ip := net.ParseIP(source)
	if ip == nil {
		return true
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
