package isolation

import (
	"context"
	"fmt"
	"sort"

	"github.com/plexsphere/fwadm/internal/firewall"
)

// HostState describes one host's inferred isolation state.
type HostState struct {
	Host         string
	AllowedPorts []uint16
	DeniedPorts  []uint16
}

// IsolatedHosts infers which hosts are currently isolated by grouping the
// live listing by source. A host counts as isolated when it has at least one
// allow rule and at least one deny rule on a common-service port. This is an
// inference, not a stored flag: manual edits or a reboot clearing ephemeral
// rules will change the answer, because no isolation registry is kept.
func (c *Composer) IsolatedHosts(ctx context.Context) ([]HostState, error) {
	listing, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("isolation: list hosts: %w", err)
	}

	commonPorts := make(map[uint16]bool)
	for _, svc := range c.cat.Common() {
		for _, p := range svc.Ports {
			commonPorts[p.Port] = true
		}
	}

	byHost := make(map[string]*HostState)
	var order []string
	for _, r := range listing {
		host := firewall.NormalizeSource(r.Source)
		st, ok := byHost[host]
		if !ok {
			st = &HostState{Host: host}
			byHost[host] = st
			order = append(order, host)
		}
		switch r.Action {
		case firewall.ActionAllow:
			st.AllowedPorts = append(st.AllowedPorts, r.Port)
		case firewall.ActionDeny:
			if commonPorts[r.Port] {
				st.DeniedPorts = append(st.DeniedPorts, r.Port)
			}
		}
	}

	var hosts []HostState
	for _, host := range order {
		st := byHost[host]
		if len(st.AllowedPorts) == 0 || len(st.DeniedPorts) == 0 {
			continue
		}
		sort.Slice(st.AllowedPorts, func(i, j int) bool { return st.AllowedPorts[i] < st.AllowedPorts[j] })
		sort.Slice(st.DeniedPorts, func(i, j int) bool { return st.DeniedPorts[i] < st.DeniedPorts[j] })
		hosts = append(hosts, *st)
	}
	return hosts, nil
}
