// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

// Package per is implementation for Basic Package Encoding Rule (PER) in
// ALIGNED variant.
// document version: ITU-T X.691 (08/2015)
//
// Every routine works on a *BitCursor. Enc* routines append to a writer,
// Dec* routines consume from a reader. Bounds are inclusive and Unbounded
// marks a missing upper bound.
package per

import (
	"fmt"
	"math"
	"math/bits"
)

// Unbounded is the upper bound of a size or value without one.
const Unbounded = -1

// MaxChoiceExtension is the largest extension alternative index DecChoice
// accepts.
const MaxChoiceExtension = 65535

// WidthKind is the shape of a constrained whole number on the wire.
type WidthKind int

const (
	WidthEmpty      WidthKind = iota // range of 1, nothing is encoded
	WidthBitField                    // 1 to 8 bits, not aligned
	WidthOneOctet                    // aligned single octet
	WidthTwoOctets                   // aligned double octet
	WidthIndefinite                  // octet count, then aligned octets
)

// Width describes how a constrained whole number is laid out.
type Width struct {
	Kind WidthKind
	// Bits is the size of the bit-field or of the fixed octet field.
	Bits int
	// Octets is the largest octet count of the indefinite length case.
	Octets int
}

// ConstrainedWidth is the implementation for
// 10.5.7 the ALIGNED variant of constrained whole number.
// The wire width depends on the range ub-lb+1 only.
func ConstrainedWidth(rng uint64) (w Width) {
	switch {
	case rng <= 1: // empty bit-field
		w.Kind = WidthEmpty
	case rng <= 255: // the bit-field case
		w.Kind = WidthBitField
		w.Bits = bits.Len64(rng - 1)
	case rng == 256: // the one-octet case
		w.Kind = WidthOneOctet
		w.Bits = 8
	case rng <= 65536: // the two-octet case
		w.Kind = WidthTwoOctets
		w.Bits = 16
	default: // the indefinite length case
		w.Kind = WidthIndefinite
		w.Octets = OctetsNonNegativeBinaryInteger(rng - 1)
	}
	return
}

// OctetsNonNegativeBinaryInteger returns the minimum number of octets
// holding v. Zero needs one octet.
func OctetsNonNegativeBinaryInteger(v uint64) int {
	if v == 0 {
		return 1
	}
	return (bits.Len64(v) + 7) / 8
}

func putUint(v uint64, n int) (b []byte) {
	b = make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return
}

func getUint(b []byte) (v uint64) {
	for _, o := range b {
		v = v<<8 | uint64(o)
	}
	return
}

// EncConstrainedWholeNumber is the implementation for
// 10.5 Encoding of constrained whole number.
func EncConstrainedWholeNumber(c *BitCursor, input, lb, ub int64) (err error) {

	if input < lb || input > ub {
		err = rangeError("EncConstrainedWholeNumber", input, lb, ub)
		return
	}

	span, err := constrainedSpan("EncConstrainedWholeNumber", lb, ub)
	if err != nil {
		return
	}
	inputEnc := uint64(input) - uint64(lb)
	w := ConstrainedWidth(span + 1)

	switch w.Kind {
	case WidthEmpty:
	case WidthBitField:
		err = c.WriteBits(w.Bits, uint32(inputEnc))
	case WidthOneOctet, WidthTwoOctets:
		if err = c.Align(); err != nil {
			return
		}
		err = c.WriteBits(w.Bits, uint32(inputEnc))
	case WidthIndefinite:
		octets := OctetsNonNegativeBinaryInteger(inputEnc)
		err = EncConstrainedWholeNumber(c, int64(octets), 1, int64(w.Octets))
		if err != nil {
			return
		}
		err = c.WriteOctets(putUint(inputEnc, octets))
	}
	return
}

// constrainedSpan returns ub-lb. The full int64 range has no
// constrained encoding.
func constrainedSpan(op string, lb, ub int64) (span uint64, err error) {
	span = uint64(ub) - uint64(lb)
	if span == math.MaxUint64 {
		err = rangeError(op, ub, lb, lb+math.MaxInt64)
	}
	return
}

// DecConstrainedWholeNumber is the decoder of EncConstrainedWholeNumber.
func DecConstrainedWholeNumber(c *BitCursor, lb, ub int64) (v int64, err error) {

	if ub < lb {
		err = rangeError("DecConstrainedWholeNumber", ub, lb, ub)
		return
	}

	span, err := constrainedSpan("DecConstrainedWholeNumber", lb, ub)
	if err != nil {
		return
	}
	w := ConstrainedWidth(span + 1)

	var raw uint64
	switch w.Kind {
	case WidthEmpty:
	case WidthBitField:
		var tmp uint32
		tmp, err = c.ReadBits(w.Bits)
		raw = uint64(tmp)
	case WidthOneOctet, WidthTwoOctets:
		if err = c.Align(); err != nil {
			return
		}
		var tmp uint32
		tmp, err = c.ReadBits(w.Bits)
		raw = uint64(tmp)
	case WidthIndefinite:
		var octets int64
		octets, err = DecConstrainedWholeNumber(c, 1, int64(w.Octets))
		if err != nil {
			return
		}
		var b []byte
		b, err = c.ReadOctets(int(octets))
		raw = getUint(b)
	}
	if err != nil {
		return
	}

	if raw > span {
		err = rangeError("DecConstrainedWholeNumber", int64(uint64(lb)+raw), lb, ub)
		return
	}
	v = lb + int64(raw)
	return
}

// EncLengthDeterminant is the implementation for
// 10.9 General rules for encoding a length determinant
// in the unconstrained case. Fragmentation is not supported.
func EncLengthDeterminant(c *BitCursor, input int) (err error) {

	if err = c.Align(); err != nil {
		return
	}

	switch {
	case input < 0:
	case input < 128:
		return c.WriteBits(8, uint32(input))
	case input < 16384:
		return c.WriteBits(16, uint32(input)|0x8000)
	}
	err = rangeError("EncLengthDeterminant", int64(input), 0, 16383)
	return
}

// DecLengthDeterminant is the decoder of EncLengthDeterminant.
func DecLengthDeterminant(c *BitCursor) (length int, err error) {

	if err = c.Align(); err != nil {
		return
	}

	first, err := c.ReadBits(8)
	if err != nil {
		return
	}

	switch {
	case first&0x80 == 0:
		length = int(first)
	case first&0xc0 == 0x80:
		var second uint32
		if second, err = c.ReadBits(8); err != nil {
			return
		}
		length = int(first&0x3f)<<8 | int(second)
	default:
		err = rangeError("DecLengthDeterminant",
			int64(first&0x3f)*16384, 0, 16383)
	}
	return
}

// EncConstrainedLength encodes a length with bounds lb and ub.
// 10.9.3.3 constrained whole number when ub is less than 64K, the
// unconstrained form otherwise.
func EncConstrainedLength(c *BitCursor, input, lb, ub int) (err error) {
	if ub != Unbounded && ub < 65536 {
		return EncConstrainedWholeNumber(c, int64(input), int64(lb), int64(ub))
	}
	if input < lb {
		return rangeError("EncConstrainedLength", int64(input), int64(lb), int64(ub))
	}
	return EncLengthDeterminant(c, input)
}

// DecConstrainedLength is the decoder of EncConstrainedLength.
func DecConstrainedLength(c *BitCursor, lb, ub int) (length int, err error) {
	if ub != Unbounded && ub < 65536 {
		var v int64
		v, err = DecConstrainedWholeNumber(c, int64(lb), int64(ub))
		length = int(v)
		return
	}
	if length, err = DecLengthDeterminant(c); err != nil {
		return
	}
	if length < lb {
		err = rangeError("DecConstrainedLength", int64(length), int64(lb), int64(ub))
	}
	return
}

// EncSemiConstrainedWholeNumber is the implementation for
// 10.7 Encoding of a semi-constrained whole number.
func EncSemiConstrainedWholeNumber(c *BitCursor, input, lb int64) (err error) {
	if input < lb {
		return rangeError("EncSemiConstrainedWholeNumber", input, lb, lb)
	}
	v := uint64(input - lb)
	octets := OctetsNonNegativeBinaryInteger(v)
	if err = EncLengthDeterminant(c, octets); err != nil {
		return
	}
	return c.WriteOctets(putUint(v, octets))
}

// DecSemiConstrainedWholeNumber is the decoder of
// EncSemiConstrainedWholeNumber.
func DecSemiConstrainedWholeNumber(c *BitCursor, lb int64) (v int64, err error) {
	octets, err := DecLengthDeterminant(c)
	if err != nil {
		return
	}
	if octets < 1 || octets > 8 {
		err = rangeError("DecSemiConstrainedWholeNumber", int64(octets), 1, 8)
		return
	}
	b, err := c.ReadOctets(octets)
	if err != nil {
		return
	}
	raw := getUint(b)
	if limit := uint64(math.MaxInt64) - uint64(max(lb, 0)); raw > limit {
		// the value does not fit; report it saturated, with its length
		err = &RangeError{
			Op: fmt.Sprintf("DecSemiConstrainedWholeNumber(len=%d, 0x%x)",
				octets, raw),
			Value: math.MaxInt64,
			Lb:    lb,
			Ub:    int64(limit),
		}
		return
	}
	v = lb + int64(raw)
	return
}

// EncUnconstrainedWholeNumber is the implementation for
// 10.8 Encoding of an unconstrained whole number.
func EncUnconstrainedWholeNumber(c *BitCursor, input int64) (err error) {
	octets := 1
	for octets < 8 {
		shift := uint(octets*8 - 1)
		if input >= -(1<<shift) && input < 1<<shift {
			break
		}
		octets++
	}
	if err = EncLengthDeterminant(c, octets); err != nil {
		return
	}
	return c.WriteOctets(putUint(uint64(input), octets))
}

// DecUnconstrainedWholeNumber is the decoder of EncUnconstrainedWholeNumber.
func DecUnconstrainedWholeNumber(c *BitCursor) (v int64, err error) {
	octets, err := DecLengthDeterminant(c)
	if err != nil {
		return
	}
	if octets < 1 || octets > 8 {
		err = rangeError("DecUnconstrainedWholeNumber", int64(octets), 1, 8)
		return
	}
	b, err := c.ReadOctets(octets)
	if err != nil {
		return
	}
	raw := getUint(b)
	shift := uint(64 - octets*8)
	v = int64(raw<<shift) >> shift
	return
}

// EncNormallySmallNumber is the implementation for
// 10.6 Encoding of a normally small non-negative whole number.
func EncNormallySmallNumber(c *BitCursor, input int) (err error) {
	if input < 0 {
		return rangeError("EncNormallySmallNumber", int64(input), 0, 0)
	}
	if input <= 63 {
		if err = c.WriteBit(false); err != nil {
			return
		}
		return c.WriteBits(6, uint32(input))
	}
	if err = c.WriteBit(true); err != nil {
		return
	}
	return EncSemiConstrainedWholeNumber(c, int64(input), 0)
}

// DecNormallySmallNumber is the decoder of EncNormallySmallNumber.
func DecNormallySmallNumber(c *BitCursor) (v int, err error) {
	large, err := c.ReadBit()
	if err != nil {
		return
	}
	if !large {
		var tmp uint32
		tmp, err = c.ReadBits(6)
		v = int(tmp)
		return
	}
	tmp, err := DecSemiConstrainedWholeNumber(c, 0)
	v = int(tmp)
	return
}

// EncNormallySmallLength is the implementation for
// 10.9.3.4 normally small length. input must be at least 1.
func EncNormallySmallLength(c *BitCursor, input int) (err error) {
	if input < 1 {
		return rangeError("EncNormallySmallLength", int64(input), 1, 16383)
	}
	if input <= 64 {
		if err = c.WriteBit(false); err != nil {
			return
		}
		return c.WriteBits(6, uint32(input-1))
	}
	if err = c.WriteBit(true); err != nil {
		return
	}
	return EncLengthDeterminant(c, input)
}

// DecNormallySmallLength is the decoder of EncNormallySmallLength.
func DecNormallySmallLength(c *BitCursor) (length int, err error) {
	large, err := c.ReadBit()
	if err != nil {
		return
	}
	if !large {
		var tmp uint32
		tmp, err = c.ReadBits(6)
		length = int(tmp) + 1
		return
	}
	return DecLengthDeterminant(c)
}

// EncBoolean is the implementation for
// 12. Encoding the boolean type
func EncBoolean(c *BitCursor, input bool) error {
	return c.WriteBit(input)
}

// DecBoolean is the decoder of EncBoolean.
func DecBoolean(c *BitCursor) (bool, error) {
	return c.ReadBit()
}

// EncInteger is the implementation for
// 13. Encoding the integer type
// for the constrained case with or without extension marker.
func EncInteger(c *BitCursor, input, lb, ub int64, extmark bool) (err error) {
	inRoot := input >= lb && input <= ub
	if extmark {
		if err = c.WriteBit(!inRoot); err != nil {
			return
		}
		if !inRoot {
			return EncUnconstrainedWholeNumber(c, input)
		}
	}
	return EncConstrainedWholeNumber(c, input, lb, ub)
}

// DecInteger is the decoder of EncInteger.
func DecInteger(c *BitCursor, lb, ub int64, extmark bool) (v int64, err error) {
	if extmark {
		var extended bool
		if extended, err = c.ReadBit(); err != nil {
			return
		}
		if extended {
			return DecUnconstrainedWholeNumber(c)
		}
	}
	return DecConstrainedWholeNumber(c, lb, ub)
}

// EncEnumerated is the implementation for
// 14. Encoding the enumerated type
// count is the number of root enumerations. Values at or above count are
// extension additions and need extmark.
func EncEnumerated(c *BitCursor, input, count int, extmark bool) (err error) {
	if input < 0 || (!extmark && input >= count) {
		return rangeError("EncEnumerated", int64(input), 0, int64(count-1))
	}
	if extmark {
		if err = c.WriteBit(input >= count); err != nil {
			return
		}
		if input >= count {
			return EncNormallySmallNumber(c, input-count)
		}
	}
	return EncConstrainedWholeNumber(c, int64(input), 0, int64(count-1))
}

// DecEnumerated is the decoder of EncEnumerated.
func DecEnumerated(c *BitCursor, count int, extmark bool) (v int, err error) {
	if extmark {
		var extended bool
		if extended, err = c.ReadBit(); err != nil {
			return
		}
		if extended {
			if v, err = DecNormallySmallNumber(c); err != nil {
				return
			}
			v += count
			return
		}
	}
	tmp, err := DecConstrainedWholeNumber(c, 0, int64(count-1))
	v = int(tmp)
	return
}

// EncBitString32 encodes a BIT STRING of fixed size (1..32 bits) held in
// the least significant bits of input.
// 16.9 and 16.10: octet-aligned when the size is larger than 16 bits.
func EncBitString32(c *BitCursor, input uint32, size int) (err error) {
	if size < 1 || size > 32 {
		return rangeError("EncBitString32", int64(size), 1, 32)
	}
	if size < 32 && input>>uint(size) != 0 {
		return rangeError("EncBitString32", int64(input), 0, int64(1)<<uint(size)-1)
	}
	if size > 16 {
		if err = c.Align(); err != nil {
			return
		}
	}
	return c.WriteBits(size, input)
}

// DecBitString32 is the decoder of EncBitString32.
func DecBitString32(c *BitCursor, size int) (v uint32, err error) {
	if size < 1 || size > 32 {
		err = rangeError("DecBitString32", int64(size), 1, 32)
		return
	}
	if size > 16 {
		if err = c.Align(); err != nil {
			return
		}
	}
	return c.ReadBits(size)
}

func writeBitRun(c *BitCursor, input []byte, bitlen int) (err error) {
	full := bitlen / 8
	if err = c.writeUnalignedOctets(input[:full]); err != nil {
		return
	}
	if rem := bitlen % 8; rem > 0 {
		err = c.WriteBits(rem, uint32(input[full]>>uint(8-rem)))
	}
	return
}

func readBitRun(c *BitCursor, bitlen int) (v []byte, err error) {
	full := bitlen / 8
	if v, err = c.readUnalignedOctets(full); err != nil {
		return
	}
	if rem := bitlen % 8; rem > 0 {
		var tmp uint32
		if tmp, err = c.ReadBits(rem); err != nil {
			return
		}
		v = append(v, byte(tmp<<uint(8-rem)))
	}
	return
}

func inSize(n, lb, ub int) bool {
	return n >= lb && (ub == Unbounded || n <= ub)
}

// EncBitString is the implementation for
// 16. Encoding the bitstring type
// input carries bitlen bits starting from the most significant bit of the
// first octet.
func EncBitString(c *BitCursor, input []byte, bitlen, lb, ub int, extmark bool) (err error) {

	if bitlen < 0 || len(input)*8 < bitlen {
		return rangeError("EncBitString", int64(bitlen), 0, int64(len(input)*8))
	}

	inRoot := inSize(bitlen, lb, ub)
	if extmark {
		if err = c.WriteBit(!inRoot); err != nil {
			return
		}
		if !inRoot {
			if err = EncLengthDeterminant(c, bitlen); err != nil {
				return
			}
			if err = c.Align(); err != nil {
				return
			}
			return writeBitRun(c, input, bitlen)
		}
	} else if !inRoot {
		return rangeError("EncBitString", int64(bitlen), int64(lb), int64(ub))
	}

	if lb == ub {
		if bitlen > 16 {
			if err = c.Align(); err != nil {
				return
			}
		}
		return writeBitRun(c, input, bitlen)
	}

	if err = EncConstrainedLength(c, bitlen, lb, ub); err != nil {
		return
	}
	if bitlen > 0 {
		if err = c.Align(); err != nil {
			return
		}
	}
	return writeBitRun(c, input, bitlen)
}

// DecBitString is the decoder of EncBitString.
func DecBitString(c *BitCursor, lb, ub int, extmark bool) (v []byte, bitlen int, err error) {

	if extmark {
		var extended bool
		if extended, err = c.ReadBit(); err != nil {
			return
		}
		if extended {
			if bitlen, err = DecLengthDeterminant(c); err != nil {
				return
			}
			if err = c.Align(); err != nil {
				return
			}
			v, err = readBitRun(c, bitlen)
			return
		}
	}

	if lb == ub {
		bitlen = lb
		if bitlen > 16 {
			if err = c.Align(); err != nil {
				return
			}
		}
		v, err = readBitRun(c, bitlen)
		return
	}

	if bitlen, err = DecConstrainedLength(c, lb, ub); err != nil {
		return
	}
	if bitlen > 0 {
		if err = c.Align(); err != nil {
			return
		}
	}
	v, err = readBitRun(c, bitlen)
	return
}

// EncOctetString is the implementation for
// 17. Encoding the octetstring type
//
//   - fixed length of up to 2 octets is encoded as a bit-field, not aligned.
//   - other fixed lengths are octet-aligned without a length determinant.
//   - variable lengths carry a length determinant and are octet-aligned.
func EncOctetString(c *BitCursor, input []byte, lb, ub int, extmark bool) (err error) {

	n := len(input)
	inRoot := inSize(n, lb, ub)
	if extmark {
		if err = c.WriteBit(!inRoot); err != nil {
			return
		}
		if !inRoot {
			if err = EncLengthDeterminant(c, n); err != nil {
				return
			}
			return c.WriteOctets(input)
		}
	} else if !inRoot {
		return rangeError("EncOctetString", int64(n), int64(lb), int64(ub))
	}

	if lb == ub {
		switch {
		case n == 0:
		case n <= 2:
			err = c.writeUnalignedOctets(input)
		default:
			err = c.WriteOctets(input)
		}
		return
	}

	if err = EncConstrainedLength(c, n, lb, ub); err != nil {
		return
	}
	if n > 0 {
		err = c.WriteOctets(input)
	}
	return
}

// DecOctetString is the decoder of EncOctetString.
func DecOctetString(c *BitCursor, lb, ub int, extmark bool) (v []byte, err error) {

	if extmark {
		var extended bool
		if extended, err = c.ReadBit(); err != nil {
			return
		}
		if extended {
			var n int
			if n, err = DecLengthDeterminant(c); err != nil {
				return
			}
			return c.ReadOctets(n)
		}
	}

	if lb == ub {
		switch {
		case lb == 0:
			v = []byte{}
		case lb <= 2:
			v, err = c.readUnalignedOctets(lb)
		default:
			v, err = c.ReadOctets(lb)
		}
		return
	}

	n, err := DecConstrainedLength(c, lb, ub)
	if err != nil {
		return
	}
	if n == 0 {
		v = []byte{}
		return
	}
	return c.ReadOctets(n)
}

func printable(r byte) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	}
	switch r {
	case ' ', '\'', '(', ')', '+', ',', '-', '.', '/', ':', '=', '?':
		return true
	}
	return false
}

func stringAligned(lb, ub int) bool {
	if ub == Unbounded {
		return true
	}
	return ub*8 > 16
}

// EncPrintableString is the implementation for
// 30. Encoding the restricted character string types
// for PrintableString, a known-multiplier character string with 8 bits
// per character in the ALIGNED variant.
func EncPrintableString(c *BitCursor, input string, lb, ub int, extmark bool) (err error) {

	for i := 0; i < len(input); i++ {
		if !printable(input[i]) {
			return structuralError("EncPrintableString",
				"invalid character 0x%02x at %d", input[i], i)
		}
	}

	n := len(input)
	inRoot := inSize(n, lb, ub)
	if extmark {
		if err = c.WriteBit(!inRoot); err != nil {
			return
		}
		if !inRoot {
			if err = EncLengthDeterminant(c, n); err != nil {
				return
			}
			return c.WriteOctets([]byte(input))
		}
	} else if !inRoot {
		return rangeError("EncPrintableString", int64(n), int64(lb), int64(ub))
	}

	if lb != ub {
		if err = EncConstrainedLength(c, n, lb, ub); err != nil {
			return
		}
	}
	if n == 0 {
		return
	}
	if stringAligned(lb, ub) {
		return c.WriteOctets([]byte(input))
	}
	return c.writeUnalignedOctets([]byte(input))
}

// DecPrintableString is the decoder of EncPrintableString.
func DecPrintableString(c *BitCursor, lb, ub int, extmark bool) (v string, err error) {

	var b []byte
	if extmark {
		var extended bool
		if extended, err = c.ReadBit(); err != nil {
			return
		}
		if extended {
			var n int
			if n, err = DecLengthDeterminant(c); err != nil {
				return
			}
			if b, err = c.ReadOctets(n); err != nil {
				return
			}
			return checkPrintable(b)
		}
	}

	n := lb
	if lb != ub {
		if n, err = DecConstrainedLength(c, lb, ub); err != nil {
			return
		}
	}
	if n == 0 {
		return
	}
	if stringAligned(lb, ub) {
		b, err = c.ReadOctets(n)
	} else {
		b, err = c.readUnalignedOctets(n)
	}
	if err != nil {
		return
	}
	return checkPrintable(b)
}

func checkPrintable(b []byte) (v string, err error) {
	for i, r := range b {
		if !printable(r) {
			err = structuralError("DecPrintableString",
				"invalid character 0x%02x at %d", r, i)
			return
		}
	}
	v = string(b)
	return
}

// EncSequence is the implementation for
// 19. Encoding the sequence type
// It writes the preamble: the extension bit when extmark is set, then one
// bit per OPTIONAL component. Extension additions are never produced.
func EncSequence(c *BitCursor, extmark bool, present ...bool) (err error) {
	if extmark {
		if err = c.WriteBit(false); err != nil {
			return
		}
	}
	for _, p := range present {
		if err = c.WriteBit(p); err != nil {
			return
		}
	}
	return
}

// DecSequence is the decoder of EncSequence. extended reports that
// extension additions follow the root components.
func DecSequence(c *BitCursor, extmark bool, optnum int) (
	extended bool, present []bool, err error) {

	if extmark {
		if extended, err = c.ReadBit(); err != nil {
			return
		}
	}
	present = make([]bool, optnum)
	for i := range present {
		if present[i], err = c.ReadBit(); err != nil {
			return
		}
	}
	return
}

// EncSequenceOf encodes the count of
// 20. Encoding the sequence-of type
func EncSequenceOf(c *BitCursor, count, lb, ub int) error {
	if lb == ub {
		if count != lb {
			return rangeError("EncSequenceOf", int64(count), int64(lb), int64(ub))
		}
		return nil
	}
	return EncConstrainedLength(c, count, lb, ub)
}

// DecSequenceOf is the decoder of EncSequenceOf.
func DecSequenceOf(c *BitCursor, lb, ub int) (count int, err error) {
	if lb == ub {
		count = lb
		return
	}
	return DecConstrainedLength(c, lb, ub)
}

// EncChoice is the implementation for
// 23. Encoding the choice type
// for a root alternative. No index is encoded when the root has a single
// alternative.
func EncChoice(c *BitCursor, input, count int, extmark bool) (err error) {
	if input < 0 || input >= count {
		return rangeError("EncChoice", int64(input), 0, int64(count-1))
	}
	if extmark {
		if err = c.WriteBit(false); err != nil {
			return
		}
	}
	if count == 1 {
		return
	}
	return EncConstrainedWholeNumber(c, int64(input), 0, int64(count-1))
}

// EncChoiceExtension encodes the index of an extension alternative. The
// alternative itself follows as an open type.
func EncChoiceExtension(c *BitCursor, input int) (err error) {
	if err = c.WriteBit(true); err != nil {
		return
	}
	return EncNormallySmallNumber(c, input)
}

// DecChoice is the decoder of EncChoice and EncChoiceExtension. When
// extended is set, index counts from the first extension alternative.
func DecChoice(c *BitCursor, count int, extmark bool) (index int, extended bool, err error) {
	if extmark {
		if extended, err = c.ReadBit(); err != nil {
			return
		}
		if extended {
			if index, err = DecNormallySmallNumber(c); err != nil {
				return
			}
			if index > MaxChoiceExtension {
				err = rangeError("DecChoice", int64(index), 0, MaxChoiceExtension)
			}
			return
		}
	}
	if count == 1 {
		return
	}
	v, err := DecConstrainedWholeNumber(c, 0, int64(count-1))
	index = int(v)
	return
}

// EncOpenType is the implementation for
// 11.2 Open type fields.
// The inner value is encoded into its own, growing writer first so that
// its length is known before anything is written to c.
func EncOpenType(c *BitCursor, inner func(*BitCursor) error) (err error) {
	scratch := NewWriter()
	if err = inner(scratch); err != nil {
		return
	}
	if err = scratch.Align(); err != nil {
		return
	}
	return EncOpenTypeBytes(c, scratch.Bytes())
}

// EncOpenTypeBytes writes an already encoded open type value.
func EncOpenTypeBytes(c *BitCursor, input []byte) (err error) {
	if len(input) == 0 {
		// 11.2.2: an empty encoding is replaced by a single zero octet.
		input = []byte{0x00}
	}
	if err = EncLengthDeterminant(c, len(input)); err != nil {
		return
	}
	return c.WriteOctets(input)
}

// DecOpenType returns the octets of an open type field.
func DecOpenType(c *BitCursor) (v []byte, err error) {
	n, err := DecLengthDeterminant(c)
	if err != nil {
		return
	}
	return c.ReadOctets(n)
}

// DecExtensionBitmap reads the presence bitmap of the extension additions
// of a SEQUENCE, 19.7 and 19.8.
func DecExtensionBitmap(c *BitCursor) (present []bool, err error) {
	n, err := DecNormallySmallLength(c)
	if err != nil {
		return
	}
	if n > c.Remaining() {
		err = structuralError("DecExtensionBitmap",
			"bitmap of %d bits exceeds remaining %d bits", n, c.Remaining())
		return
	}
	present = make([]bool, n)
	for i := range present {
		if present[i], err = c.ReadBit(); err != nil {
			return
		}
	}
	return
}

// SkipExtensions consumes the extension additions of a SEQUENCE whose
// extension bit was set: the presence bitmap, then one open type per
// present addition. It returns the number of additions skipped.
func SkipExtensions(c *BitCursor) (skipped int, err error) {
	present, err := DecExtensionBitmap(c)
	if err != nil {
		return
	}
	for _, p := range present {
		if !p {
			continue
		}
		if _, err = DecOpenType(c); err != nil {
			return
		}
		skipped++
	}
	return
}
