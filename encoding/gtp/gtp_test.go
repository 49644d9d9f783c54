// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package gtp

import (
	"net"
	"testing"

	"gotest.tools/v3/assert"
)

func TestFTEID(t *testing.T) {

	pattern := []struct {
		addr   string
		teid   uint32
		bitlen int
		str    string
	}{
		{"192.168.0.1", 0x01020304, 32, "192.168.0.1:0x01020304"},
		{"2001:db8::1", 0x00000001, 128, "2001:db8::1:0x00000001"},
	}

	for _, p := range pattern {
		f := NewFTEID(net.ParseIP(p.addr), p.teid)
		v, bitlen, err := f.TransportLayerAddress()
		assert.NilError(t, err)
		assert.Equal(t, bitlen, p.bitlen)
		assert.Equal(t, f.String(), p.str)

		g, err := ParseFTEID(v, bitlen, f.GTPTEID())
		assert.NilError(t, err)
		assert.Assert(t, g.Addr.Equal(f.Addr))
		assert.Equal(t, g.TEID, p.teid)
	}
}

func TestParseTransportLayerAddress(t *testing.T) {
	v := append([]byte{10, 0, 0, 1}, net.ParseIP("2001:db8::2")...)
	addrs, err := ParseTransportLayerAddress(v, 160)
	assert.NilError(t, err)
	assert.Equal(t, len(addrs), 2)
	assert.Equal(t, addrs[0].String(), "10.0.0.1")
	assert.Equal(t, addrs[1].String(), "2001:db8::2")

	_, err = ParseTransportLayerAddress([]byte{1, 2, 3}, 24)
	assert.ErrorContains(t, err, "unsupported length 24")

	_, err = ParseTransportLayerAddress([]byte{1, 2, 3}, 32)
	assert.ErrorContains(t, err, "hold no 32 bits")
}
