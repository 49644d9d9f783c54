// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package per

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"gotest.tools/v3/assert"
	"pgregory.net/rapid"
)

func encode(f func(c *BitCursor) error) ([]byte, int, error) {
	c := NewWriter()
	err := f(c)
	return c.Bytes(), c.Bits(), err
}

func checkPattern(t *testing.T, p interface{}, v []byte, bitlen int, err error,
	ev []byte, elen int, eerr bool) {
	t.Helper()
	if eerr {
		if err == nil {
			t.Errorf("pattern = %v\n", p)
			t.Errorf("expect error, got nil")
		}
		return
	}
	if err != nil || !bytes.Equal(v, ev) || bitlen != elen {
		t.Errorf("pattern = %v\n", p)
		t.Errorf("expect value 0x%02x, got 0x%02x", ev, v)
		t.Errorf("expect length %d, got %d", elen, bitlen)
		t.Errorf("expect no error, got %v", err)
	}
}

func TestConstrainedWidth(t *testing.T) {

	pattern := []struct {
		rng    uint64
		kind   WidthKind
		bits   int
		octets int
	}{
		{1, WidthEmpty, 0, 0},
		{2, WidthBitField, 1, 0},
		{3, WidthBitField, 2, 0},
		{4, WidthBitField, 2, 0},
		{5, WidthBitField, 3, 0},
		{8, WidthBitField, 3, 0},
		{9, WidthBitField, 4, 0},
		{16, WidthBitField, 4, 0},
		{17, WidthBitField, 5, 0},
		{32, WidthBitField, 5, 0},
		{64, WidthBitField, 6, 0},
		{128, WidthBitField, 7, 0},
		{129, WidthBitField, 8, 0},
		{255, WidthBitField, 8, 0},
		{256, WidthOneOctet, 8, 0},
		{257, WidthTwoOctets, 16, 0},
		{65536, WidthTwoOctets, 16, 0},
		{65537, WidthIndefinite, 0, 3},
		{16777216, WidthIndefinite, 0, 3},
		{4294967296, WidthIndefinite, 0, 4},
		{10000000001, WidthIndefinite, 0, 5},
	}

	for _, p := range pattern {
		w := ConstrainedWidth(p.rng)
		assert.Equal(t, w, Width{Kind: p.kind, Bits: p.bits, Octets: p.octets},
			"range = %d", p.rng)
	}
}

func TestEncConstrainedWholeNumber(t *testing.T) {

	pattern := []struct {
		in    int64
		min   int64
		max   int64
		ev    []byte
		evlen int
		eerr  bool
	}{
		{256, 0, 255, nil, 0, true},
		{1, 0, 0, nil, 0, true},
		{1, 1, 1, []byte{}, 0, false},
		{1, 0, 7, []byte{0x20}, 3, false},
		{128, 0, 255, []byte{128}, 8, false},
		{256, 0, 65535, []byte{1, 0}, 16, false},
		{256, 0, 65536, []byte{0x40, 1, 0}, 24, false},
		{255, 0, 4294967295, []byte{0, 255}, 16, false},
		{256, 0, 4294967295, []byte{0x40, 1, 0}, 24, false},
		{0x0fffffff, 0, 4294967295, []byte{0xc0, 0x0f, 0xff, 0xff, 0xff}, 40, false},
		{1, 0, 16777215, []byte{0x00, 0x01}, 16, false},
		{10000000000, 0, 10000000000,
			[]byte{0x80, 0x02, 0x54, 0x0b, 0xe4, 0x00}, 48, false},
	}

	for _, p := range pattern {
		v, bitlen, err := encode(func(c *BitCursor) error {
			return EncConstrainedWholeNumber(c, p.in, p.min, p.max)
		})
		checkPattern(t, p, v, bitlen, err, p.ev, p.evlen, p.eerr)
		if p.eerr {
			var rerr *RangeError
			assert.Assert(t, errors.As(err, &rerr))
		}
	}
}

func TestDecConstrainedWholeNumber(t *testing.T) {

	pattern := []struct {
		in   []byte
		min  int64
		max  int64
		ev   int64
		eerr bool
	}{
		{[]byte{0x40}, 0, 2, 1, false},
		{[]byte{0xc0}, 0, 2, 0, true}, // 3 does not fit in 0..2
		{[]byte{0x40, 0x01, 0x00}, 0, 4294967295, 256, false},
		{[]byte{0x40, 0x01}, 0, 4294967295, 0, true},
		{[]byte{0xff, 0xff}, 1, 65535, 0, true},
		{[]byte{0x00, 0x00}, 1, 65535, 1, false},
	}

	for _, p := range pattern {
		v, err := DecConstrainedWholeNumber(NewReader(p.in), p.min, p.max)
		if p.eerr {
			assert.Assert(t, err != nil, "pattern = %v", p)
			continue
		}
		assert.NilError(t, err)
		assert.Equal(t, v, p.ev)
	}
}

func TestConstrainedWholeNumberSymmetry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lb := rapid.Int64Range(-1000000, 1000000).Draw(t, "lb")
		span := rapid.Int64Range(0, 1<<40).Draw(t, "span")
		v := lb + rapid.Int64Range(0, span).Draw(t, "delta")
		off := rapid.IntRange(0, 7).Draw(t, "off")

		w := NewWriter()
		if err := w.WriteBits(off, 0); err != nil {
			t.Fatalf("write offset: %v", err)
		}
		if err := EncConstrainedWholeNumber(w, v, lb, lb+span); err != nil {
			t.Fatalf("encode: %v", err)
		}

		r, err := NewReaderAt(w.Bytes(), off)
		if err != nil {
			t.Fatalf("reader: %v", err)
		}
		got, err := DecConstrainedWholeNumber(r, lb, lb+span)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got != v {
			t.Fatalf("expect %d, got %d", v, got)
		}
		if r.Bits() != w.Bits() {
			t.Fatalf("decoder consumed %d bits, encoder produced %d", r.Bits(), w.Bits())
		}
	})
}

func TestEncLengthDeterminant(t *testing.T) {

	pattern := []struct {
		prefix int
		in     int
		v      []byte
		bitlen int
		err    bool
	}{
		{0, 1, []byte{1}, 8, false},
		{0, 127, []byte{0x7f}, 8, false},
		{0, 128, []byte{0x80, 0x80}, 16, false},
		{0, 16383, []byte{0xbf, 0xff}, 16, false},
		{0, 16384, nil, 0, true},
		{1, 1, []byte{0x00, 0x01}, 16, false},
	}

	for _, p := range pattern {
		v, bitlen, err := encode(func(c *BitCursor) error {
			if err := c.WriteBits(p.prefix, 0); err != nil {
				return err
			}
			return EncLengthDeterminant(c, p.in)
		})
		checkPattern(t, p, v, bitlen, err, p.v, p.bitlen, p.err)
	}
}

func TestDecLengthDeterminant(t *testing.T) {

	pattern := []struct {
		in     []byte
		length int
		err    bool
	}{
		{[]byte{}, 0, true},
		{[]byte{0x7f}, 0x7f, false},
		{[]byte{0x80, 0xff}, 0xff, false},
		{[]byte{0xc1}, 0, true},
	}

	for _, p := range pattern {
		c := NewReader(p.in)
		length, err := DecLengthDeterminant(c)
		if p.err {
			assert.Assert(t, err != nil, "pattern = %v", p)
			continue
		}
		assert.NilError(t, err)
		assert.Equal(t, length, p.length)
		assert.Equal(t, c.Remaining(), 0)
	}
}

func TestNormallySmall(t *testing.T) {

	pattern := []struct {
		in     int
		length bool
		v      []byte
		bitlen int
	}{
		{5, false, []byte{0x0a}, 7},
		{64, false, []byte{0x80, 0x01, 0x40}, 24},
		{1, true, []byte{0x00}, 7},
		{64, true, []byte{0x7e}, 7},
	}

	for _, p := range pattern {
		v, bitlen, err := encode(func(c *BitCursor) error {
			if p.length {
				return EncNormallySmallLength(c, p.in)
			}
			return EncNormallySmallNumber(c, p.in)
		})
		checkPattern(t, p, v, bitlen, err, p.v, p.bitlen, false)

		c := NewReader(v)
		var got int
		if p.length {
			got, err = DecNormallySmallLength(c)
		} else {
			got, err = DecNormallySmallNumber(c)
		}
		assert.NilError(t, err)
		assert.Equal(t, got, p.in)
	}
}

func TestEncInteger(t *testing.T) {

	pattern := []struct {
		in     int64
		min    int64
		max    int64
		ext    bool
		v      []byte
		bitlen int
		err    bool
	}{
		{3, 0, 2, false, nil, 0, true},
		{2, 2, 2, false, []byte{}, 0, false},
		{2, 2, 2, true, []byte{0x00}, 1, false},
		{128, 0, 255, false, []byte{128}, 8, false},
		{1, 0, 7, true, []byte{0x10}, 4, false},
		{128, 0, 255, true, []byte{0x00, 128}, 16, false},
		{256, 0, 65535, false, []byte{1, 0}, 16, false},
		{16, 0, 15, true, []byte{0x80, 0x01, 0x10}, 24, false},
	}

	for _, p := range pattern {
		v, bitlen, err := encode(func(c *BitCursor) error {
			return EncInteger(c, p.in, p.min, p.max, p.ext)
		})
		checkPattern(t, p, v, bitlen, err, p.v, p.bitlen, p.err)
		if p.err {
			continue
		}
		got, err := DecInteger(NewReader(v), p.min, p.max, p.ext)
		assert.NilError(t, err)
		assert.Equal(t, got, p.in)
	}
}

func TestEncEnumerated(t *testing.T) {

	pattern := []struct {
		in     int
		count  int
		ext    bool
		v      []byte
		bitlen int
		err    bool
	}{
		{3, 3, false, nil, 0, true},
		{2, 3, false, []byte{0x80}, 2, false},
		{1, 3, true, []byte{0x20}, 3, false},
		{3, 3, true, []byte{0x80}, 8, false},
		{0, 1, false, []byte{}, 0, false},
	}

	for _, p := range pattern {
		v, bitlen, err := encode(func(c *BitCursor) error {
			return EncEnumerated(c, p.in, p.count, p.ext)
		})
		checkPattern(t, p, v, bitlen, err, p.v, p.bitlen, p.err)
		if p.err {
			continue
		}
		got, err := DecEnumerated(NewReader(v), p.count, p.ext)
		assert.NilError(t, err)
		assert.Equal(t, got, p.in)
	}
}

func TestEncSequence(t *testing.T) {

	pattern := []struct {
		ext    bool
		flag   []bool
		v      []byte
		bitlen int
	}{
		{true, nil, []byte{0x00}, 1},
		{true, []bool{true}, []byte{0x40}, 2},
		{false, []bool{false, true}, []byte{0x40}, 2},
		{false, nil, []byte{}, 0},
	}

	for _, p := range pattern {
		v, bitlen, err := encode(func(c *BitCursor) error {
			return EncSequence(c, p.ext, p.flag...)
		})
		checkPattern(t, p, v, bitlen, err, p.v, p.bitlen, false)

		extended, present, err := DecSequence(NewReader(v), p.ext, len(p.flag))
		assert.NilError(t, err)
		assert.Assert(t, !extended)
		assert.Equal(t, len(present), len(p.flag))
		for i := range present {
			assert.Equal(t, present[i], p.flag[i])
		}
	}
}

func TestBitString(t *testing.T) {

	pattern := []struct {
		in     []byte
		inlen  int
		min    int
		max    int
		ext    bool
		v      []byte
		bitlen int
		err    bool
	}{
		{[]byte{}, 100, 0, 63, false, nil, 0, true},
		{make([]byte, 5), 33, 22, 32, false, nil, 0, true},
		{[]byte{0x12, 0x34}, 16, 16, 16, false, []byte{0x12, 0x34}, 16, false},
		{[]byte{0x00, 0x00, 0x20, 0x10}, 28, 28, 28, false,
			[]byte{0x00, 0x00, 0x20, 0x10}, 28, false},
		{[]byte{0xc0, 0xa8, 0x00, 0x01}, 32, 1, 160, true,
			[]byte{0x0f, 0x80, 0xc0, 0xa8, 0x00, 0x01}, 48, false},
		{[]byte{0xe0, 0x00}, 16, 16, 16, true, []byte{0x70, 0x00, 0x00}, 17, false},
	}

	for _, p := range pattern {
		v, bitlen, err := encode(func(c *BitCursor) error {
			return EncBitString(c, p.in, p.inlen, p.min, p.max, p.ext)
		})
		checkPattern(t, p, v, bitlen, err, p.v, p.bitlen, p.err)
		if p.err {
			continue
		}
		got, gotlen, err := DecBitString(NewReader(v), p.min, p.max, p.ext)
		assert.NilError(t, err)
		assert.Equal(t, gotlen, p.inlen)
		assert.DeepEqual(t, got, p.in)
	}
}

func TestBitString32(t *testing.T) {
	v, bitlen, err := encode(func(c *BitCursor) error {
		if err := c.WriteBit(true); err != nil {
			return err
		}
		return EncBitString32(c, 2, 20)
	})
	assert.NilError(t, err)
	assert.DeepEqual(t, v, []byte{0x80, 0x00, 0x00, 0x20})
	assert.Equal(t, bitlen, 28)

	c := NewReader(v)
	_, err = c.ReadBit()
	assert.NilError(t, err)
	got, err := DecBitString32(c, 20)
	assert.NilError(t, err)
	assert.Equal(t, got, uint32(2))

	_, _, err = encode(func(c *BitCursor) error {
		return EncBitString32(c, 0x100000, 20)
	})
	var rerr *RangeError
	assert.Assert(t, errors.As(err, &rerr))
}

func TestOctetString(t *testing.T) {

	pattern := []struct {
		in     []byte
		min    int
		max    int
		ext    bool
		v      []byte
		bitlen int
		err    bool
	}{
		{[]byte{0}, 16, 64, false, nil, 0, true},
		{make([]byte, 8), 8, 8, false, make([]byte, 8), 64, false},
		{[]byte{0x01, 0x80}, 2, 2, true, []byte{0x00, 0xc0, 0x00}, 17, false},
		{make([]byte, 8), 8, 8, true, make([]byte, 9), 72, false},
		{make([]byte, 3), 0, Unbounded, false, []byte{3, 0, 0, 0}, 32, false},
		{make([]byte, 3), 0, 7, true, []byte{0x30, 0, 0, 0}, 32, false},
		{[]byte{0x42, 0xf4, 0x70}, 3, 3, false, []byte{0x42, 0xf4, 0x70}, 24, false},
	}

	for _, p := range pattern {
		v, bitlen, err := encode(func(c *BitCursor) error {
			return EncOctetString(c, p.in, p.min, p.max, p.ext)
		})
		checkPattern(t, p, v, bitlen, err, p.v, p.bitlen, p.err)
		if p.err {
			continue
		}
		got, err := DecOctetString(NewReader(v), p.min, p.max, p.ext)
		assert.NilError(t, err)
		assert.DeepEqual(t, got, p.in)
	}
}

func TestPrintableString(t *testing.T) {

	pattern := []struct {
		in     string
		min    int
		max    int
		ext    bool
		v      []byte
		bitlen int
		err    bool
	}{
		{"enb", 1, 150, true, []byte{0x01, 0x00, 0x65, 0x6e, 0x62}, 40, false},
		{"a_b", 1, 150, true, nil, 0, true},
		{"", 1, 150, false, nil, 0, true},
		{"ab", 2, 2, false, []byte{0x61, 0x62}, 16, false},
	}

	for _, p := range pattern {
		v, bitlen, err := encode(func(c *BitCursor) error {
			return EncPrintableString(c, p.in, p.min, p.max, p.ext)
		})
		checkPattern(t, p, v, bitlen, err, p.v, p.bitlen, p.err)
		if p.err {
			continue
		}
		got, err := DecPrintableString(NewReader(v), p.min, p.max, p.ext)
		assert.NilError(t, err)
		assert.Equal(t, got, p.in)
	}
}

func TestChoice(t *testing.T) {

	pattern := []struct {
		input int
		count int
		mark  bool
		epv   []byte
		eplen int
		eerr  bool
	}{
		{0, 1, false, []byte{}, 0, false},
		{1, 3, false, []byte{0x40}, 2, false},
		{1, 2, true, []byte{0x40}, 2, false},
		{2, 2, false, nil, 0, true},
	}

	for _, p := range pattern {
		pv, plen, err := encode(func(c *BitCursor) error {
			return EncChoice(c, p.input, p.count, p.mark)
		})
		checkPattern(t, p, pv, plen, err, p.epv, p.eplen, p.eerr)
		if p.eerr {
			continue
		}
		index, extended, err := DecChoice(NewReader(pv), p.count, p.mark)
		assert.NilError(t, err)
		assert.Assert(t, !extended)
		assert.Equal(t, index, p.input)
	}

	pv, plen, err := encode(func(c *BitCursor) error {
		return EncChoiceExtension(c, 0)
	})
	assert.NilError(t, err)
	assert.DeepEqual(t, pv, []byte{0x80})
	assert.Equal(t, plen, 8)

	index, extended, err := DecChoice(NewReader(pv), 5, true)
	assert.NilError(t, err)
	assert.Assert(t, extended)
	assert.Equal(t, index, 0)
}

func TestOpenType(t *testing.T) {

	pattern := []struct {
		inner func(c *BitCursor) error
		v     []byte
	}{
		{func(c *BitCursor) error { return c.WriteBits(3, 0x5) }, []byte{0x01, 0xa0}},
		{func(c *BitCursor) error { return nil }, []byte{0x01, 0x00}},
		{func(c *BitCursor) error {
			return EncConstrainedWholeNumber(c, 256, 0, 4294967295)
		}, []byte{0x03, 0x40, 0x01, 0x00}},
	}

	for _, p := range pattern {
		v, bitlen, err := encode(func(c *BitCursor) error {
			return EncOpenType(c, p.inner)
		})
		assert.NilError(t, err)
		assert.DeepEqual(t, v, p.v)
		assert.Equal(t, bitlen, len(p.v)*8)
	}
}

func TestOpenTypeFraming(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		payload := rapid.SliceOfN(rapid.Byte(), 1, 300).Draw(t, "payload")

		w := NewWriter()
		if err := EncOpenTypeBytes(w, payload); err != nil {
			t.Fatalf("encode: %v", err)
		}
		prefix := 8
		if len(payload) >= 128 {
			prefix = 16
		}
		if w.Bits() != prefix+8*len(payload) {
			t.Fatalf("advanced %d bits, expect %d", w.Bits(), prefix+8*len(payload))
		}

		r := NewReader(w.Bytes())
		got, err := DecOpenType(r)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("expect 0x%02x, got 0x%02x", payload, got)
		}
		if r.Remaining() != 0 {
			t.Fatalf("%d bits left", r.Remaining())
		}
	})
}

func TestSkipExtensions(t *testing.T) {

	// two additions, the first one present with 2 octets, then one octet
	// belonging to whatever follows the sequence
	in := []byte{0x03, 0x00, 0x02, 0xaa, 0xbb, 0x55}

	c := NewReader(in)
	skipped, err := SkipExtensions(c)
	assert.NilError(t, err)
	assert.Equal(t, skipped, 1)

	rest, err := c.ReadOctets(1)
	assert.NilError(t, err)
	assert.DeepEqual(t, rest, []byte{0x55})

	_, err = SkipExtensions(NewReader([]byte{0x03, 0x00, 0x05, 0xaa}))
	var serr *StructuralError
	assert.Assert(t, errors.As(err, &serr))
}

func TestChoiceExtensionIndexBound(t *testing.T) {

	pattern := []struct {
		index int
		eerr  bool
	}{
		{64, false},
		{MaxChoiceExtension, false},
		{MaxChoiceExtension + 1, true},
		{math.MaxInt, true},
	}

	for _, p := range pattern {
		pv, _, err := encode(func(c *BitCursor) error {
			return EncChoiceExtension(c, p.index)
		})
		assert.NilError(t, err)

		index, extended, err := DecChoice(NewReader(pv), 2, true)
		if !p.eerr {
			assert.NilError(t, err)
			assert.Assert(t, extended)
			assert.Equal(t, index, p.index)
			continue
		}
		var re *RangeError
		assert.Assert(t, errors.As(err, &re), "index %d: got %v", p.index, err)
	}
}

func TestConstrainedWholeNumberFullRange(t *testing.T) {

	_, _, err := encode(func(c *BitCursor) error {
		return EncConstrainedWholeNumber(c, 0, math.MinInt64, math.MaxInt64)
	})
	var re *RangeError
	assert.Assert(t, errors.As(err, &re), "got %v", err)

	_, err = DecConstrainedWholeNumber(NewReader(make([]byte, 9)),
		math.MinInt64, math.MaxInt64)
	assert.Assert(t, errors.As(err, &re), "got %v", err)

	// one short of the full span still has an encoding
	for _, v := range []int64{math.MinInt64 + 1, -1, 0, math.MaxInt64} {
		pv, _, err := encode(func(c *BitCursor) error {
			return EncConstrainedWholeNumber(c, v, math.MinInt64+1, math.MaxInt64)
		})
		assert.NilError(t, err)
		dv, err := DecConstrainedWholeNumber(NewReader(pv),
			math.MinInt64+1, math.MaxInt64)
		assert.NilError(t, err)
		assert.Equal(t, dv, v)
	}
}

func TestSemiConstrainedWholeNumberOverflow(t *testing.T) {

	in := []byte{0x08, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	_, err := DecSemiConstrainedWholeNumber(NewReader(in), 0)
	var re *RangeError
	assert.Assert(t, errors.As(err, &re), "got %v", err)
	assert.ErrorContains(t, err, "len=8")
	assert.ErrorContains(t, err, "0xffffffffffffffff")
}
