package firewall

import "fmt"

// BackendAuto selects the backend by probing the PATH in fixed precedence.
const BackendAuto = "auto"

// DefaultChain is the iptables chain rules are managed in.
const DefaultChain = "INPUT"

// Config holds the firewall backend configuration.
type Config struct {
	// Backend pins the backend instead of probing: auto, ufw, firewalld or
	// iptables. Default: auto.
	Backend string `yaml:"backend"`

	// Chain is the chain the iptables backend appends to. Ignored by the
	// other backends. Default: INPUT.
	Chain string `yaml:"chain"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendAuto
	}
	if c.Chain == "" {
		c.Chain = DefaultChain
	}
}

// Validate checks that configuration values are acceptable.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAuto, backendUFW, backendFirewalld, backendIptables:
	default:
		return fmt.Errorf("firewall: config: unknown backend %q", c.Backend)
	}
	if c.Chain == "" {
		return fmt.Errorf("firewall: config: Chain must not be empty")
	}
	return nil
}
