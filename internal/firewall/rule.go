// Package firewall defines the abstract rule model, the backend strategy
// interface, and the translation of rules into backend command syntax.
package firewall

import (
	"fmt"
	"net"
	"strings"
)

// Action is a rule verdict.
type Action string

// Rule actions.
const (
	ActionAllow Action = "allow"
	ActionDeny  Action = "deny"
)

// Protocol is a transport protocol token. ProtocolBoth is only valid on a
// Request; it is expanded away before a Rule reaches a backend.
type Protocol string

// Rule protocols.
const (
	ProtocolTCP  Protocol = "tcp"
	ProtocolUDP  Protocol = "udp"
	ProtocolBoth Protocol = "both"
)

// Rule is a fully concrete firewall rule: one source, one port, one
// protocol. The comment doubles as an identity tag for later lookup.
type Rule struct {
	Action   Action
	Source   string // single IP or CIDR
	Port     uint16
	Protocol Protocol // tcp or udp
	Comment  string
}

// Validate checks the rule for semantic correctness and returns an error if
// any field contains an invalid value.
func (r *Rule) Validate() error {
	if r.Action != ActionAllow && r.Action != ActionDeny {
		return fmt.Errorf("firewall: rule: invalid action %q", r.Action)
	}
	if err := validateSource(r.Source); err != nil {
		return err
	}
	if r.Port == 0 {
		return fmt.Errorf("firewall: rule: port 0: %w", ErrInvalidPort)
	}
	if r.Protocol != ProtocolTCP && r.Protocol != ProtocolUDP {
		return fmt.Errorf("firewall: rule: protocol %q: %w", r.Protocol, ErrInvalidProtocol)
	}
	return nil
}

// validateSource accepts a single IPv4/IPv6 address or a CIDR network.
func validateSource(source string) error {
	if source == "" {
		return fmt.Errorf("firewall: rule: empty source: %w", ErrInvalidSource)
	}
	if strings.Contains(source, "/") {
		if _, _, err := net.ParseCIDR(source); err != nil {
			return fmt.Errorf("firewall: rule: source %q: %w", source, ErrInvalidSource)
		}
		return nil
	}
	if net.ParseIP(source) == nil {
		return fmt.Errorf("firewall: rule: source %q: %w", source, ErrInvalidSource)
	}
	return nil
}

// NormalizeSource strips a redundant /32 (or /128) suffix so that sources
// read back from different backends compare equal. iptables prints single
// hosts as CIDR; ufw prints them bare.
func NormalizeSource(source string) string {
	if s, ok := strings.CutSuffix(source, "/32"); ok {
		return s
	}
	if s, ok := strings.CutSuffix(source, "/128"); ok {
		return s
	}
	return source
}
