package firewall

import (
	"fmt"
	"log/slog"
	"os/exec"
)

// Backend identifiers, in detection precedence order.
const (
	backendUFW       = "ufw"
	backendFirewalld = "firewalld"
	backendIptables  = "iptables"
)

// LookupFunc locates a control program on the PATH. It matches the signature
// of exec.LookPath and is injectable for tests.
type LookupFunc func(name string) (string, error)

// probe pairs a control program with its client constructor. Precedence is
// fixed: the allow-list manager first, then the zone manager, then the raw
// packet filter. The first program found wins even when a lower-priority
// backend is also installed.
type probe struct {
	backend string
	binary  string
	build   func(cfg Config, logger *slog.Logger) Client
}

var probeOrder = []probe{
	{backendUFW, "ufw", func(_ Config, logger *slog.Logger) Client { return NewUFWClient(logger) }},
	{backendFirewalld, "firewall-cmd", func(_ Config, logger *slog.Logger) Client { return NewFirewalldClient(logger) }},
	{backendIptables, "iptables", func(cfg Config, logger *slog.Logger) Client { return NewIptablesClient(cfg.Chain, logger) }},
}

// Detect selects the active backend for this invocation. With Backend set to
// auto it probes the PATH in precedence order and returns the first backend
// whose control program is present; a pinned Backend skips probing but still
// requires the program to exist. Detection is a pure read with no side
// effects. A nil lookup falls back to exec.LookPath.
func Detect(cfg Config, lookup LookupFunc, logger *slog.Logger) (Client, error) {
	cfg.ApplyDefaults()
	if lookup == nil {
		lookup = exec.LookPath
	}

	for _, p := range probeOrder {
		if cfg.Backend != BackendAuto && cfg.Backend != p.backend {
			continue
		}
		path, err := lookup(p.binary)
		if err != nil {
			if cfg.Backend == p.backend {
				return nil, fmt.Errorf("firewall: detect: backend %q pinned but %s not found: %w", cfg.Backend, p.binary, ErrNoBackend)
			}
			continue
		}
		logger.Debug("firewall backend selected",
			"component", "firewall",
			"backend", p.backend,
			"path", path,
		)
		return p.build(cfg, logger), nil
	}

	return nil, fmt.Errorf("firewall: detect: %w", ErrNoBackend)
}
