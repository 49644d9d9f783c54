// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package per

// BitCursor is a bit-granular position over a byte buffer.
//
// A reader borrows the buffer it is created with and never modifies it. A
// writer owns a buffer that grows as bits are produced. In both cases the
// byte position, the sub-byte offset and the bit counter are only changed
// together, by the methods below.
//
// A BitCursor is created for one encode or decode call and must not be
// shared between goroutines.
type BitCursor struct {
	buf    []byte
	pos    int   // current byte
	off    uint8 // bits already used in buf[pos], always in [0,8)
	limit  int   // readable bits (reader only)
	bits   int   // bits consumed (reader) or produced (writer)
	writer bool
}

const initialWriterSize = 64

// NewReader returns a cursor reading b from its first bit.
func NewReader(b []byte) *BitCursor {
	return &BitCursor{buf: b, limit: len(b) * 8}
}

// NewReaderAt returns a cursor reading b from bit offset off of the first
// octet.
func NewReaderAt(b []byte, off int) (c *BitCursor, err error) {
	if off < 0 || off > 7 {
		err = structuralError("NewReaderAt",
			"bit offset=%d is out of range. (should be 0 <= 7)", off)
		return
	}
	c = NewReader(b)
	if off == 0 {
		return
	}
	if c.limit < off {
		err = structuralError("NewReaderAt",
			"bit offset=%d is beyond the buffer of %d bits", off, c.limit)
		c = nil
		return
	}
	c.off = uint8(off)
	c.bits = off
	return
}

// NewWriter returns an empty cursor for encoding.
func NewWriter() *BitCursor {
	return &BitCursor{
		buf:    make([]byte, 0, initialWriterSize),
		writer: true,
	}
}

// Bits returns the number of bits consumed by a reader or produced by a
// writer, padding included.
func (c *BitCursor) Bits() int {
	return c.bits
}

// Remaining returns the number of bits left to read. It is always zero for
// a writer.
func (c *BitCursor) Remaining() int {
	if c.writer {
		return 0
	}
	return c.limit - c.bits
}

// Offset returns the bit offset inside the current octet.
func (c *BitCursor) Offset() int {
	return int(c.off)
}

// Bytes returns the octets produced by a writer. A trailing partial octet
// is included, padded with zero bits.
func (c *BitCursor) Bytes() []byte {
	if !c.writer {
		return c.buf[c.pos:]
	}
	return c.buf
}

// Aligned reports whether the cursor sits on an octet boundary.
func (c *BitCursor) Aligned() bool {
	return c.off == 0
}

func (c *BitCursor) advance(n uint8) {
	c.off += n
	c.bits += int(n)
	if c.off == 8 {
		c.off = 0
		c.pos++
	}
}

func (c *BitCursor) need(op string, n int) error {
	if c.writer {
		return structuralError(op, "cursor is a writer")
	}
	if n > c.limit-c.bits {
		return structuralError(op,
			"remaining pdu length(%d bits) is too short. expect >= %d",
			c.limit-c.bits, n)
	}
	return nil
}

// Align discards (reader) or zero pads (writer) the rest of the current
// octet.
func (c *BitCursor) Align() (err error) {
	if c.off == 0 {
		return
	}
	pad := 8 - c.off
	if !c.writer {
		if err = c.need("Align", int(pad)); err != nil {
			return
		}
	}
	c.advance(pad)
	return
}

// ReadBit reads a single bit.
func (c *BitCursor) ReadBit() (bit bool, err error) {
	v, err := c.ReadBits(1)
	bit = v == 1
	return
}

// WriteBit writes a single bit.
func (c *BitCursor) WriteBit(bit bool) error {
	var v uint32
	if bit {
		v = 1
	}
	return c.WriteBits(1, v)
}

// ReadBits reads n bits (0 <= n <= 32), most significant bit first. The
// run may start anywhere in an octet and straddle octet boundaries.
func (c *BitCursor) ReadBits(n int) (v uint32, err error) {
	if n < 0 || n > 32 {
		err = structuralError("ReadBits",
			"bit count=%d is out of range. (should be 0 <= 32)", n)
		return
	}
	if err = c.need("ReadBits", n); err != nil {
		return
	}

	var acc uint64
	for n > 0 {
		avail := 8 - int(c.off)
		take := min(n, avail)
		chunk := (c.buf[c.pos] >> uint(avail-take)) & byte(1<<uint(take)-1)
		acc = acc<<uint(take) | uint64(chunk)
		c.advance(uint8(take))
		n -= take
	}
	v = uint32(acc)
	return
}

// WriteBits writes the n (0 <= n <= 32) least significant bits of v, most
// significant bit first.
func (c *BitCursor) WriteBits(n int, v uint32) error {
	if n < 0 || n > 32 {
		return structuralError("WriteBits",
			"bit count=%d is out of range. (should be 0 <= 32)", n)
	}
	if !c.writer {
		return structuralError("WriteBits", "cursor is a reader")
	}

	for n > 0 {
		if c.off == 0 {
			c.buf = append(c.buf, 0)
		}
		avail := 8 - int(c.off)
		take := min(n, avail)
		chunk := byte(v>>uint(n-take)) & byte(1<<uint(take)-1)
		c.buf[c.pos] |= chunk << uint(avail-take)
		c.advance(uint8(take))
		n -= take
	}
	return nil
}

// ReadOctets aligns the cursor and returns a copy of the next n octets.
func (c *BitCursor) ReadOctets(n int) (b []byte, err error) {
	if n < 0 {
		err = structuralError("ReadOctets", "negative octet count=%d", n)
		return
	}
	if err = c.Align(); err != nil {
		return
	}
	if err = c.need("ReadOctets", n*8); err != nil {
		return
	}
	b = make([]byte, n)
	copy(b, c.buf[c.pos:c.pos+n])
	c.pos += n
	c.bits += n * 8
	return
}

// WriteOctets aligns the cursor and appends b.
func (c *BitCursor) WriteOctets(b []byte) (err error) {
	if !c.writer {
		return structuralError("WriteOctets", "cursor is a reader")
	}
	if err = c.Align(); err != nil {
		return
	}
	c.buf = append(c.buf, b...)
	c.pos += len(b)
	c.bits += len(b) * 8
	return
}

// readUnalignedOctets reads n octets without aligning first.
func (c *BitCursor) readUnalignedOctets(n int) (b []byte, err error) {
	if err = c.need("readUnalignedOctets", n*8); err != nil {
		return
	}
	b = make([]byte, n)
	for i := range b {
		var v uint32
		if v, err = c.ReadBits(8); err != nil {
			return
		}
		b[i] = byte(v)
	}
	return
}

func (c *BitCursor) writeUnalignedOctets(b []byte) (err error) {
	for _, v := range b {
		if err = c.WriteBits(8, uint32(v)); err != nil {
			return
		}
	}
	return
}
