// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package main

import (
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
)

// addS1MMEAddress puts ip/masklen on ifName unless the interface already
// carries it.
func addS1MMEAddress(ifName string, ip net.IP, masklen int) (added bool, err error) {

	link, err := netlink.LinkByName(ifName)
	if err != nil {
		err = fmt.Errorf("failed to find interface[%s]: %s", ifName, err)
		return
	}

	family, bits := netlink.FAMILY_V4, 32
	if ip.To4() == nil {
		family, bits = netlink.FAMILY_V6, 128
	}
	if masklen < 1 || masklen > bits {
		err = fmt.Errorf("invalid mask length %d for %s", masklen, ip)
		return
	}

	addrs, err := netlink.AddrList(link, family)
	if err != nil {
		err = fmt.Errorf("failed to list addresses of [%s]: %s", ifName, err)
		return
	}

	for _, a := range addrs {
		if a.IPNet != nil && a.IPNet.IP.Equal(ip) {
			// The IP address has already been set.
			return
		}
	}

	addr := &netlink.Addr{
		IPNet: &net.IPNet{
			IP:   ip,
			Mask: net.CIDRMask(masklen, bits),
		},
	}
	if err = netlink.AddrAdd(link, addr); err != nil {
		err = fmt.Errorf("failed to add %s to [%s]: %s", addr.IPNet, ifName, err)
		return
	}
	added = true
	return
}
