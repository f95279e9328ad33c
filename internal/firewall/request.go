package firewall

import (
	"fmt"

	"github.com/plexsphere/fwadm/internal/catalog"
)

// Request is the collaborator-facing rule request. A request with Service
// set is sugar that Expand turns into one Rule per (port, protocol) pair of
// the service; explicit Ports take precedence over the service's port set.
type Request struct {
	Action   Action
	Sources  []string
	Service  string
	Ports    []uint16
	Protocol Protocol // tcp, udp or both; applies to explicit Ports only
	Comment  string
}

// Expand validates the request and expands it into fully concrete rules.
// Validation covers every field before any rule is produced: an invalid
// source, port or protocol rejects the whole request, so a partially
// expanded request is never submitted to a backend.
//
// Expansion order is deterministic: sources in the given order; for each
// source the service's ports in catalog order (or the explicit ports in the
// given order); a "both" protocol yields tcp before udp.
func Expand(req Request, cat *catalog.Catalog) ([]Rule, error) {
	if req.Action != ActionAllow && req.Action != ActionDeny {
		return nil, fmt.Errorf("firewall: expand: invalid action %q", req.Action)
	}
	if len(req.Sources) == 0 {
		return nil, fmt.Errorf("firewall: expand: no sources: %w", ErrInvalidSource)
	}
	for _, src := range req.Sources {
		if err := validateSource(src); err != nil {
			return nil, err
		}
	}

	ports, err := resolvePorts(req, cat)
	if err != nil {
		return nil, err
	}

	rules := make([]Rule, 0, len(req.Sources)*len(ports))
	for _, src := range req.Sources {
		for _, p := range ports {
			rules = append(rules, Rule{
				Action:   req.Action,
				Source:   src,
				Port:     p.Port,
				Protocol: Protocol(p.Protocol),
				Comment:  req.Comment,
			})
		}
	}
	return rules, nil
}

// resolvePorts produces the protocol-concrete (port, protocol) pairs for the
// request. Explicit ports win over the service catalog; a service name is
// only resolved when no explicit ports were supplied.
func resolvePorts(req Request, cat *catalog.Catalog) ([]catalog.PortSpec, error) {
	if len(req.Ports) > 0 {
		proto := req.Protocol
		if proto == "" {
			proto = ProtocolTCP
		}
		if proto != ProtocolTCP && proto != ProtocolUDP && proto != ProtocolBoth {
			return nil, fmt.Errorf("firewall: expand: protocol %q: %w", proto, ErrInvalidProtocol)
		}
		var specs []catalog.PortSpec
		for _, port := range req.Ports {
			if port == 0 {
				return nil, fmt.Errorf("firewall: expand: port 0: %w", ErrInvalidPort)
			}
			if proto == ProtocolBoth {
				specs = append(specs, catalog.PortSpec{Port: port, Protocol: "tcp"}, catalog.PortSpec{Port: port, Protocol: "udp"})
			} else {
				specs = append(specs, catalog.PortSpec{Port: port, Protocol: string(proto)})
			}
		}
		return specs, nil
	}

	if req.Service == "" {
		return nil, fmt.Errorf("firewall: expand: neither service nor ports given: %w", ErrInvalidPort)
	}
	svc, err := cat.Resolve(req.Service)
	if err != nil {
		return nil, fmt.Errorf("firewall: expand: %w", err)
	}
	return svc.Ports, nil
}
