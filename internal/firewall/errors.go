package firewall

import "errors"

// Sentinel errors for rule validation and backend detection. Callers match
// them with errors.Is; all occur before any backend mutation.
var (
	// ErrNoBackend means no supported firewall control program is installed.
	// Fatal for the whole invocation: no rule command can be issued.
	ErrNoBackend = errors.New("no supported firewall backend found")

	// ErrInvalidSource means a source is neither a valid IP nor a valid CIDR.
	ErrInvalidSource = errors.New("invalid source")

	// ErrInvalidPort means a port is outside 1-65535.
	ErrInvalidPort = errors.New("invalid port")

	// ErrInvalidProtocol means a protocol token is not tcp, udp or both.
	ErrInvalidProtocol = errors.New("invalid protocol")
)
