// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package s1ap

import (
	"fmt"
	"io"
	"strings"

	"github.com/hhorai/mme/encoding/per"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ProtocolIEID is defined in 9.3.7 Constant Definitions
/*
ProtocolIE-ID ::= INTEGER (0..maxProtocolIEs)
maxProtocolIEs INTEGER ::= 65535
*/
type ProtocolIEID uint16

// Criticality is defined in 9.3.5 Common Definitions
/*
Criticality ::= ENUMERATED { reject, ignore, notify }
*/
type Criticality int

const (
	CriticalityReject Criticality = iota
	CriticalityIgnore
	CriticalityNotify
)

var criticalityStr = []string{"reject", "ignore", "notify"}

func (c Criticality) String() string {
	if c < 0 || int(c) >= len(criticalityStr) {
		return fmt.Sprintf("criticality(%d)", int(c))
	}
	return criticalityStr[c]
}

func encCriticality(c *per.BitCursor, v Criticality) error {
	return per.EncEnumerated(c, int(v), len(criticalityStr), false)
}

func decCriticality(c *per.BitCursor) (v Criticality, err error) {
	n, err := per.DecEnumerated(c, len(criticalityStr), false)
	v = Criticality(n)
	return
}

// Presence is defined in 9.3.5 Common Definitions. It is never sent on
// the wire.
type Presence int

const (
	PresenceOptional Presence = iota
	PresenceConditional
	PresenceMandatory
)

func (p Presence) String() string {
	switch p {
	case PresenceOptional:
		return "optional"
	case PresenceConditional:
		return "conditional"
	}
	return "mandatory"
}

// IE is a decoded ProtocolIE-Field or ProtocolExtensionField.
type IE struct {
	ID          ProtocolIEID
	Criticality Criticality
	Presence    Presence
	Value       Value
}

func (ie *IE) Show(p *Printer) {
	p.Printf("%s (%d) criticality: %v", IEName(ie.ID), ie.ID, ie.Criticality)
	if ie.Value != nil {
		p.Nest(func() { ie.Value.Show(p) })
	}
}

// Free releases the value of the IE.
func (ie *IE) Free() {
	if ie.Value != nil {
		ie.Value.Free()
		ie.Value = nil
	}
}

// Value is implemented by every IE type. decode and encode work on the
// contents of the open type, never on the field wrapper.
type Value interface {
	Show(p *Printer)
	Free()
	decode(d *decoder, c *per.BitCursor) error
	encode(c *per.BitCursor) error
}

// Printer dumps values with indentation.
type Printer struct {
	w      io.Writer
	indent int
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Printf(format string, v ...interface{}) {
	indent := strings.Repeat("  ", p.indent)
	fmt.Fprintf(p.w, indent+format+"\n", v...)
}

// Nest runs f one level deeper.
func (p *Printer) Nest(f func()) {
	p.indent++
	f()
	p.indent--
}

var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the sink for the warnings of the decoder. It must be
// called before decoding starts.
func SetLogger(l logrus.FieldLogger) {
	logger = l
}

// decoder carries the options of one Decode call down to every value.
type decoder struct {
	opts Options
	log  logrus.FieldLogger
}

func newDecoder(opts Options) *decoder {
	return &decoder{opts: opts, log: logger}
}

// extensions handles the extension bit of a SEQUENCE.
func (d *decoder) extensions(c *per.BitCursor, name string, extended bool) error {
	if !extended {
		return nil
	}
	if d.opts.extensions() == PolicyAbort {
		return per.NewExtensionError(name, "extension additions present")
	}
	n, err := per.SkipExtensions(c)
	if err != nil {
		return errors.Wrapf(err, "%s: extension additions", name)
	}
	d.log.WithFields(logrus.Fields{
		"type":    name,
		"skipped": n,
	}).Warn("extension additions skipped")
	return nil
}

// choiceExtension reads the open type of an extension alternative of a
// CHOICE.
func (d *decoder) choiceExtension(c *per.BitCursor, name string, index int) (
	v []byte, err error) {
	if d.opts.extensions() == PolicyAbort {
		err = per.NewExtensionError(name, "extension alternative %d", index)
		return
	}
	if v, err = per.DecOpenType(c); err != nil {
		err = errors.Wrapf(err, "%s: extension alternative %d", name, index)
		return
	}
	d.log.WithFields(logrus.Fields{
		"type":  name,
		"index": index,
	}).Warn("extension alternative kept opaque")
	return
}

// value decodes v from the octets of an open type. The octets must be
// consumed up to the padding of the last one.
func (d *decoder) value(v Value, b []byte, name string) error {
	c := per.NewReader(b)
	if err := v.decode(d, c); err != nil {
		return errors.Wrapf(err, "decode %s", name)
	}
	return openTypeEnd(c, b, name)
}

// openTypeEnd checks that c, reading the open type octets b, stopped
// within the last octet.
func openTypeEnd(c *per.BitCursor, b []byte, name string) error {
	if err := c.Align(); err != nil {
		return errors.Wrapf(err, "decode %s", name)
	}
	// an empty encoding is carried as a single zero octet
	if c.Remaining() != 0 && !(c.Bits() == 0 && len(b) == 1 && b[0] == 0) {
		return &per.StructuralError{
			Op:  "decode " + name,
			Msg: fmt.Sprintf("%d trailing octets in open type", c.Remaining()/8),
		}
	}
	return nil
}

// RawValue is an IE kept as the octets of its open type. It is used for
// IE ids without a handler under PolicySkip and for the fields of
// ProtocolExtensionContainer.
type RawValue struct {
	Bytes []byte
}

func (v *RawValue) Show(p *Printer) {
	p.Printf("raw: %02x", v.Bytes)
}

func (v *RawValue) Free() {
	for i := range v.Bytes {
		v.Bytes[i] = 0
	}
	v.Bytes = nil
}

func (v *RawValue) decode(d *decoder, c *per.BitCursor) (err error) {
	v.Bytes, err = c.ReadOctets(c.Remaining() / 8)
	return
}

func (v *RawValue) encode(c *per.BitCursor) error {
	return c.WriteOctets(v.Bytes)
}
