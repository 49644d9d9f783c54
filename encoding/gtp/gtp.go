// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

// Package gtp is the GTPv1-U tunnel endpoint view of the S1-U bearer
// addressing exchanged over S1AP.
// document version: 3GPP TS 29.281 v15.3.0 (2018-06)
package gtp

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/pkg/errors"
)

const (
	Port = 2152
)

// FTEID is a fully qualified tunnel endpoint identifier: a transport
// layer address and a TEID.
type FTEID struct {
	Addr net.IP
	TEID uint32
}

func NewFTEID(addr net.IP, teid uint32) (p *FTEID) {

	var f FTEID
	p = &f
	p.Addr = addr
	p.TEID = teid

	return
}

// TransportLayerAddress returns the address as the BIT STRING of
// 3GPP TS 36.414 5.3: 32 bits for IPv4, 128 bits for IPv6.
func (f *FTEID) TransportLayerAddress() (v []byte, bitlen int, err error) {
	if v4 := f.Addr.To4(); v4 != nil {
		v = []byte(v4)
		bitlen = 32
		return
	}
	if v6 := f.Addr.To16(); v6 != nil {
		v = []byte(v6)
		bitlen = 128
		return
	}
	err = errors.Errorf("TransportLayerAddress: invalid address %v", f.Addr)
	return
}

// GTPTEID returns the TEID as the 4 octets of S1AP GTP-TEID.
func (f *FTEID) GTPTEID() (v [4]byte) {
	binary.BigEndian.PutUint32(v[:], f.TEID)
	return
}

// ParseTransportLayerAddress returns the addresses held in an S1AP
// TransportLayerAddress: IPv4, IPv6, or both (160 bits).
func ParseTransportLayerAddress(v []byte, bitlen int) (addrs []net.IP, err error) {

	if len(v)*8 < bitlen {
		err = errors.Errorf("ParseTransportLayerAddress: %d octets hold no %d bits",
			len(v), bitlen)
		return
	}

	switch bitlen {
	case 32:
		addrs = append(addrs, net.IP(append([]byte{}, v[:4]...)))
	case 128:
		addrs = append(addrs, net.IP(append([]byte{}, v[:16]...)))
	case 160:
		addrs = append(addrs, net.IP(append([]byte{}, v[:4]...)),
			net.IP(append([]byte{}, v[4:20]...)))
	default:
		err = errors.Errorf("ParseTransportLayerAddress: unsupported length %d",
			bitlen)
	}
	return
}

// ParseFTEID builds an F-TEID from the S1AP bearer addressing. With a dual
// stack address the IPv4 one is used.
func ParseFTEID(v []byte, bitlen int, teid [4]byte) (f *FTEID, err error) {
	addrs, err := ParseTransportLayerAddress(v, bitlen)
	if err != nil {
		return
	}
	f = NewFTEID(addrs[0], binary.BigEndian.Uint32(teid[:]))
	return
}

func (f *FTEID) String() string {
	return fmt.Sprintf("%v:0x%08x", f.Addr, f.TEID)
}
