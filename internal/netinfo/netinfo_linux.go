//go:build linux

package netinfo

import (
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// localNetworks returns the IPv4 subnets configured on any interface, read
// from the kernel's address table via netlink. Loopback is excluded: a rule
// sourced from 127.0.0.0/8 is foreign on a network-facing appliance.
func localNetworks() ([]*net.IPNet, error) {
	addrs, err := netlink.AddrList(nil, unix.AF_INET)
	if err != nil {
		return nil, fmt.Errorf("netinfo: list addresses: %w", err)
	}

	var nets []*net.IPNet
	for _, addr := range addrs {
		if addr.IPNet == nil || addr.IP.IsLoopback() {
			continue
		}
		network := &net.IPNet{
			IP:   addr.IP.Mask(addr.Mask),
			Mask: addr.Mask,
		}
		nets = append(nets, network)
	}
	return nets, nil
}
