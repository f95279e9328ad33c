// Package config aggregates fwadm's configuration. The config file is
// optional: a missing file yields pure defaults, so the tool works on a
// stock appliance image without any setup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/plexsphere/fwadm/internal/catalog"
	"github.com/plexsphere/fwadm/internal/engine"
	"github.com/plexsphere/fwadm/internal/firewall"
)

// DefaultPath is the default configuration file location.
const DefaultPath = "/etc/fwadm/config.yaml"

// DefaultLogLevel is the default log level.
const DefaultLogLevel = "info"

// Config is the top-level configuration, populated from a YAML file via
// ParseConfig.
type Config struct {
	// LogLevel is the log level: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// DefaultComment tags rules created without an explicit --comment.
	DefaultComment string `yaml:"default_comment"`

	Firewall firewall.Config `yaml:"firewall"`
	Engine   engine.Config   `yaml:"engine"`

	// Services defines extra catalog entries merged on top of the
	// built-ins. Redefining a built-in name overrides its port set.
	Services []ServiceEntry `yaml:"services"`
}

// ServiceEntry is an operator-defined service in the config file. Ports use
// the "445/tcp" notation.
type ServiceEntry struct {
	Name  string   `yaml:"name"`
	Ports []string `yaml:"ports"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.DefaultComment == "" {
		c.DefaultComment = "managed by fwadm"
	}
	c.Firewall.ApplyDefaults()
	c.Engine.ApplyDefaults()
}

// Validate checks that required fields are set and values are acceptable.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log level %q", c.LogLevel)
	}
	if err := c.Firewall.Validate(); err != nil {
		return err
	}
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	for _, s := range c.Services {
		if s.Name == "" {
			return errors.New("config: service entry without a name")
		}
		if len(s.Ports) == 0 {
			return fmt.Errorf("config: service %q has no ports", s.Name)
		}
		for _, p := range s.Ports {
			if _, err := parsePortSpec(p); err != nil {
				return fmt.Errorf("config: service %q: %w", s.Name, err)
			}
		}
	}
	return nil
}

// ParseConfig reads and validates the configuration file. A missing file is
// not an error: defaults are returned.
func ParseConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No config file; run on defaults.
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Catalog builds the service catalog: built-ins plus the config's extra
// services. Validate has already checked the port specs.
func (c *Config) Catalog() *catalog.Catalog {
	cat := catalog.Default()
	var extra []catalog.Service
	for _, s := range c.Services {
		svc := catalog.Service{Name: s.Name}
		for _, p := range s.Ports {
			spec, err := parsePortSpec(p)
			if err != nil {
				continue
			}
			svc.Ports = append(svc.Ports, spec)
		}
		extra = append(extra, svc)
	}
	cat.Merge(extra)
	return cat
}

// parsePortSpec parses "445/tcp" notation into a PortSpec.
func parsePortSpec(s string) (catalog.PortSpec, error) {
	portStr, proto, found := strings.Cut(s, "/")
	if !found {
		return catalog.PortSpec{}, fmt.Errorf("port %q: want port/protocol", s)
	}
	if proto != "tcp" && proto != "udp" {
		return catalog.PortSpec{}, fmt.Errorf("port %q: protocol must be tcp or udp", s)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		return catalog.PortSpec{}, fmt.Errorf("port %q: invalid port number", s)
	}
	return catalog.PortSpec{Port: uint16(port), Protocol: proto}, nil
}
