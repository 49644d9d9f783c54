// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package s1ap

import (
	"github.com/hhorai/mme/encoding/per"
	"github.com/pkg/errors"
)

// 9.3.7 Constant Definitions
const (
	maxProtocolIEs        = 65535
	maxProtocolExtensions = 65535
	maxnoofERABs          = 256
)

// Container is an ordered list of IEs bounded by the protocol maximum. It
// owns its IEs. It is the value of
//
//   - ProtocolIE-Container, the IEs of an S1AP message,
//   - ProtocolIE-ContainerList, a list of ProtocolIE-SingleContainer,
//   - ProtocolExtensionContainer, whose fields are kept as *RawValue.
//
// All three share one encoding: a count followed by ProtocolIE-Fields.
/*
ProtocolIE-Container {S1AP-PROTOCOL-IES : IEsSetParam} ::=
    SEQUENCE (SIZE (0..maxProtocolIEs)) OF
    ProtocolIE-Field {{IEsSetParam}}

ProtocolIE-ContainerList {INTEGER : lowerBound, INTEGER : upperBound, S1AP-PROTOCOL-IES : IEsSetParam} ::=
    SEQUENCE (SIZE (lowerBound..upperBound)) OF
    ProtocolIE-SingleContainer {{IEsSetParam}}

ProtocolExtensionContainer {S1AP-PROTOCOL-EXTENSION : ExtensionSetParam} ::=
    SEQUENCE (SIZE (1..maxProtocolExtensions)) OF
    ProtocolExtensionField {{ExtensionSetParam}}
*/
type Container struct {
	min   int
	max   int
	raw   bool
	items []*IE
}

// NewContainer returns an empty ProtocolIE-Container holding up to max IEs.
func NewContainer(max int) *Container {
	return &Container{min: 0, max: max}
}

func newContainerList(min, max int) *Container {
	return &Container{min: min, max: max}
}

// NewExtensionContainer returns an empty ProtocolExtensionContainer.
func NewExtensionContainer() *Container {
	return &Container{min: 1, max: maxProtocolExtensions, raw: true}
}

// AddIE appends ie. A full container is left unchanged and a
// *per.RangeError is returned.
func (ct *Container) AddIE(ie *IE) error {
	if ie == nil || ie.Value == nil {
		return errors.New("AddIE: nil IE or value")
	}
	if len(ct.items) >= ct.max {
		return &per.RangeError{
			Op:    "AddIE",
			Value: int64(len(ct.items) + 1),
			Lb:    int64(ct.min),
			Ub:    int64(ct.max),
		}
	}
	ct.items = append(ct.items, ie)
	return nil
}

func (ct *Container) Len() int {
	return len(ct.items)
}

func (ct *Container) Max() int {
	return ct.max
}

// IEs returns the IEs in wire order. The slice is owned by ct.
func (ct *Container) IEs() []*IE {
	return ct.items
}

// Find returns the first IE with id, or nil.
func (ct *Container) Find(id ProtocolIEID) *IE {
	for _, ie := range ct.items {
		if ie.ID == id {
			return ie
		}
	}
	return nil
}

// Take removes the first IE with id and hands it to the caller, or
// returns nil.
func (ct *Container) Take(id ProtocolIEID) *IE {
	for i, ie := range ct.items {
		if ie.ID == id {
			last := len(ct.items) - 1
			copy(ct.items[i:], ct.items[i+1:])
			ct.items[last] = nil
			ct.items = ct.items[:last]
			return ie
		}
	}
	return nil
}

// Free releases every IE.
func (ct *Container) Free() {
	for _, ie := range ct.items {
		ie.Free()
	}
	ct.items = nil
}

func (ct *Container) Show(p *Printer) {
	p.Printf("items: %d", len(ct.items))
	for i, ie := range ct.items {
		p.Printf("[%d]", i)
		p.Nest(func() { ie.Show(p) })
	}
}

func (ct *Container) decode(d *decoder, c *per.BitCursor) (err error) {
	n, err := per.DecSequenceOf(c, ct.min, ct.max)
	if err != nil {
		return errors.Wrap(err, "container count")
	}
	items := make([]*IE, 0, n)
	for i := 0; i < n; i++ {
		ie, err := d.field(c, ct.raw)
		if err != nil {
			for _, done := range items {
				done.Free()
			}
			return errors.Wrapf(err, "container item %d", i)
		}
		items = append(items, ie)
	}
	ct.items = items
	return
}

func (ct *Container) encode(c *per.BitCursor) (err error) {
	if err = per.EncSequenceOf(c, len(ct.items), ct.min, ct.max); err != nil {
		return errors.Wrap(err, "container count")
	}
	for i, ie := range ct.items {
		if err = encField(c, ie); err != nil {
			return errors.Wrapf(err, "container item %d", i)
		}
	}
	return
}

// encExtensions and decExtensions handle the iE-Extensions component of a
// SEQUENCE. The presence bit is part of the preamble of the caller.
func encExtensions(c *per.BitCursor, ext *Container) error {
	if ext == nil {
		return nil
	}
	return ext.encode(c)
}

func decExtensions(d *decoder, c *per.BitCursor, present bool) (ext *Container, err error) {
	if !present {
		return
	}
	ext = NewExtensionContainer()
	if err = ext.decode(d, c); err != nil {
		err = errors.Wrap(err, "iE-Extensions")
		ext = nil
	}
	return
}

func freeExtensions(ext **Container) {
	if *ext != nil {
		(*ext).Free()
		*ext = nil
	}
}

func showExtensions(p *Printer, ext *Container) {
	if ext == nil {
		return
	}
	p.Printf("iE-Extensions:")
	p.Nest(func() { ext.Show(p) })
}
