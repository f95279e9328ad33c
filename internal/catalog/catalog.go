// Package catalog defines the service-to-port catalog used to expand service
// names into concrete firewall rules.
package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownService is returned when a service name is not present in the catalog.
var ErrUnknownService = errors.New("unknown service")

// PortSpec is a single (port, protocol) pair belonging to a service.
type PortSpec struct {
	Port     uint16
	Protocol string // "tcp" or "udp"
}

// Service maps a service name to the ordered set of ports it listens on.
type Service struct {
	Name  string
	Ports []PortSpec
}

// builtin is the fixed set of services the appliance knows out of the box.
// Order within a service is significant: rules are emitted in this order.
var builtin = []Service{
	{Name: "samba", Ports: []PortSpec{{445, "tcp"}, {139, "tcp"}, {137, "udp"}, {138, "udp"}}},
	{Name: "ssh", Ports: []PortSpec{{22, "tcp"}}},
	{Name: "http", Ports: []PortSpec{{80, "tcp"}}},
	{Name: "https", Ports: []PortSpec{{443, "tcp"}}},
	{Name: "smtp", Ports: []PortSpec{{25, "tcp"}}},
	{Name: "pop3", Ports: []PortSpec{{110, "tcp"}}},
	{Name: "imap", Ports: []PortSpec{{143, "tcp"}}},
	{Name: "ftp", Ports: []PortSpec{{21, "tcp"}}},
	{Name: "nfs", Ports: []PortSpec{{2049, "tcp"}}},
	{Name: "dns", Ports: []PortSpec{{53, "tcp"}, {53, "udp"}}},
}

// commonNames is the fixed subset of the catalog used as the implicit deny
// list for host isolation. Host isolation denies these services minus the
// explicitly allowed ones; it never denies the full catalog.
var commonNames = []string{"ssh", "http", "https", "smtp", "pop3", "imap"}

// Catalog resolves service names to port specifications. The zero value is
// not usable; construct one with Default.
type Catalog struct {
	services map[string]Service
	order    []string
}

// Default returns a Catalog containing the built-in services.
func Default() *Catalog {
	c := &Catalog{services: make(map[string]Service, len(builtin))}
	for _, s := range builtin {
		c.services[s.Name] = s
		c.order = append(c.order, s.Name)
	}
	return c
}

// Merge adds or replaces services in the catalog. Operator-defined services
// from the config file are merged on top of the built-ins; replacing a
// built-in entry overrides its port set.
func (c *Catalog) Merge(extra []Service) {
	for _, s := range extra {
		if _, exists := c.services[s.Name]; !exists {
			c.order = append(c.order, s.Name)
		}
		c.services[s.Name] = s
	}
}

// Resolve returns the named service or an error wrapping ErrUnknownService.
func (c *Catalog) Resolve(name string) (Service, error) {
	s, ok := c.services[name]
	if !ok {
		return Service{}, fmt.Errorf("catalog: resolve %q: %w", name, ErrUnknownService)
	}
	return s, nil
}

// Common returns the common-services subset in fixed order. Entries are
// looked up in the live catalog so operator overrides of a common service's
// ports are respected.
func (c *Catalog) Common() []Service {
	out := make([]Service, 0, len(commonNames))
	for _, name := range commonNames {
		if s, ok := c.services[name]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Names returns all service names in stable (sorted) order, for help text
// and error messages.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	sort.Strings(names)
	return names
}
