// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package s1ap

import (
	"fmt"

	"github.com/hhorai/mme/encoding/nas"
	"github.com/hhorai/mme/encoding/per"
	"github.com/pkg/errors"
)

// 9.3.7 Constant Definitions
const (
	maxnoofTACs         = 256
	maxnoofBPLMNs       = 6
	maxnoofRATs         = 8
	maxnoofPLMNsPerMME  = 32
	maxnoofGroupIDs     = 65535
	maxnoofMMECs        = 256
	cellIdentityBitLen  = 28
	enbIDRootAlternates = 2
)

func encFixedOctets(c *per.BitCursor, v []byte) error {
	return per.EncOctetString(c, v, len(v), len(v), false)
}

func decFixedOctets(c *per.BitCursor, v []byte) error {
	b, err := per.DecOctetString(c, len(v), len(v), false)
	if err != nil {
		return err
	}
	copy(v, b)
	return nil
}

// PLMN Identity is defined in 9.2.3.8
/*
PLMNidentity ::= TBCD-STRING
TBCD-STRING ::= OCTET STRING (SIZE (3))
*/
type PLMNIdentity [3]byte

func NewPLMNIdentity(mcc, mnc string) (v PLMNIdentity, err error) {
	b, err := nas.EncPLMN(mcc, mnc)
	v = PLMNIdentity(b)
	return
}

func (v PLMNIdentity) String() string {
	mcc, mnc := nas.DecPLMN(v)
	return fmt.Sprintf("MCC=%s MNC=%s", mcc, mnc)
}

// TAC is defined in 9.2.3.7
/*
TAC ::= OCTET STRING (SIZE (2))
*/
type TAC [2]byte

func NewTAC(tac uint16) TAC {
	return TAC{byte(tac >> 8), byte(tac)}
}

func (v TAC) Uint16() uint16 {
	return uint16(v[0])<<8 | uint16(v[1])
}

// Global eNB ID is defined in 9.2.1.37
/*
Global-ENB-ID ::= SEQUENCE {
    pLMNidentity            PLMNidentity,
    eNB-ID                  ENB-ID,
    iE-Extensions           ProtocolExtensionContainer { {GlobalENB-ID-ExtIEs} } OPTIONAL,
    ...
}

ENB-ID ::= CHOICE {
    macroENB-ID         BIT STRING (SIZE(20)),
    homeENB-ID          BIT STRING (SIZE(28)),
    ... ,
    short-macroENB-ID       BIT STRING (SIZE(18)),
    long-macroENB-ID        BIT STRING (SIZE(21))
}
*/
type GlobalENBID struct {
	PLMN  PLMNIdentity
	Type  ENBIDType
	ENBID uint32

	// open type of an unknown extension alternative of ENB-ID.
	ExtValue []byte

	Extensions *Container
}

type ENBIDType int

const (
	ENBIDMacro ENBIDType = iota
	ENBIDHome
	ENBIDShortMacro
	ENBIDLongMacro
)

var enbIDInfo = []struct {
	name   string
	bitlen int
}{
	{"macroENB-ID", 20},
	{"homeENB-ID", 28},
	{"short-macroENB-ID", 18},
	{"long-macroENB-ID", 21},
}

func NewGlobalENBID(plmn PLMNIdentity, t ENBIDType, id uint32) *GlobalENBID {
	return &GlobalENBID{PLMN: plmn, Type: t, ENBID: id}
}

func (v *GlobalENBID) Show(p *Printer) {
	p.Printf("Global-ENB-ID:")
	p.Nest(func() {
		p.Printf("pLMNidentity: %v", v.PLMN)
		switch {
		case v.Type < 0:
			p.Printf("eNB-ID: invalid type %d", int(v.Type))
		case int(v.Type) < len(enbIDInfo):
			p.Printf("%s: 0x%x", enbIDInfo[v.Type].name, v.ENBID)
		default:
			p.Printf("eNB-ID extension(%d): %02x",
				int(v.Type)-enbIDRootAlternates, v.ExtValue)
		}
		showExtensions(p, v.Extensions)
	})
}

func (v *GlobalENBID) Free() {
	v.ExtValue = nil
	freeExtensions(&v.Extensions)
}

func (v *GlobalENBID) decode(d *decoder, c *per.BitCursor) (err error) {

	extended, present, err := per.DecSequence(c, true, 1)
	if err != nil {
		return
	}
	if err = decFixedOctets(c, v.PLMN[:]); err != nil {
		return
	}

	index, idExtended, err := per.DecChoice(c, enbIDRootAlternates, true)
	if err != nil {
		return
	}
	switch {
	case !idExtended:
		v.Type = ENBIDType(index)
		v.ENBID, err = per.DecBitString32(c, enbIDInfo[index].bitlen)
	case index < len(enbIDInfo)-enbIDRootAlternates:
		v.Type = ENBIDType(enbIDRootAlternates + index)
		var b []byte
		if b, err = per.DecOpenType(c); err != nil {
			return
		}
		inner := per.NewReader(b)
		if v.ENBID, err = per.DecBitString32(inner, enbIDInfo[v.Type].bitlen); err != nil {
			return
		}
		err = openTypeEnd(inner, b, enbIDInfo[v.Type].name)
	default:
		v.Type = ENBIDType(enbIDRootAlternates + index)
		v.ExtValue, err = d.choiceExtension(c, "ENB-ID", index)
	}
	if err != nil {
		return
	}

	if v.Extensions, err = decExtensions(d, c, present[0]); err != nil {
		return
	}
	return d.extensions(c, "Global-ENB-ID", extended)
}

func (v *GlobalENBID) encode(c *per.BitCursor) (err error) {

	if err = per.EncSequence(c, true, v.Extensions != nil); err != nil {
		return
	}
	if err = encFixedOctets(c, v.PLMN[:]); err != nil {
		return
	}

	switch {
	case v.Type < 0:
		return errors.Errorf("Global-ENB-ID: invalid eNB-ID type %d", v.Type)
	case int(v.Type) < enbIDRootAlternates:
		if err = per.EncChoice(c, int(v.Type), enbIDRootAlternates, true); err != nil {
			return
		}
		err = per.EncBitString32(c, v.ENBID, enbIDInfo[v.Type].bitlen)
	case int(v.Type) < len(enbIDInfo):
		if err = per.EncChoiceExtension(c, int(v.Type)-enbIDRootAlternates); err != nil {
			return
		}
		bitlen := enbIDInfo[v.Type].bitlen
		err = per.EncOpenType(c, func(c *per.BitCursor) error {
			return per.EncBitString32(c, v.ENBID, bitlen)
		})
	default:
		if err = per.EncChoiceExtension(c, int(v.Type)-enbIDRootAlternates); err != nil {
			return
		}
		err = per.EncOpenTypeBytes(c, v.ExtValue)
	}
	if err != nil {
		return
	}

	return encExtensions(c, v.Extensions)
}

// Supported TAs is defined in 9.1.8.4 S1 SETUP REQUEST
/*
SupportedTAs ::= SEQUENCE (SIZE(1.. maxnoofTACs)) OF SupportedTAs-Item

SupportedTAs-Item ::= SEQUENCE  {
    tAC                 TAC,
    broadcastPLMNs      BPLMNs,
    iE-Extensions       ProtocolExtensionContainer { {SupportedTAs-Item-ExtIEs} } OPTIONAL,
    ...
}

BPLMNs ::= SEQUENCE (SIZE(1.. maxnoofBPLMNs)) OF PLMNidentity
*/
type SupportedTAs struct {
	Items []SupportedTAsItem
}

type SupportedTAsItem struct {
	TAC            TAC
	BroadcastPLMNs []PLMNIdentity
	Extensions     *Container
}

func (v *SupportedTAs) Show(p *Printer) {
	p.Printf("SupportedTAs: %d items", len(v.Items))
	p.Nest(func() {
		for _, item := range v.Items {
			p.Printf("tAC: 0x%04x", item.TAC.Uint16())
			p.Nest(func() {
				for _, plmn := range item.BroadcastPLMNs {
					p.Printf("broadcastPLMN: %v", plmn)
				}
				showExtensions(p, item.Extensions)
			})
		}
	})
}

func (v *SupportedTAs) Free() {
	for i := range v.Items {
		freeExtensions(&v.Items[i].Extensions)
	}
	v.Items = nil
}

func (v *SupportedTAs) decode(d *decoder, c *per.BitCursor) (err error) {

	n, err := per.DecSequenceOf(c, 1, maxnoofTACs)
	if err != nil {
		return
	}
	v.Items = make([]SupportedTAsItem, n)

	for i := range v.Items {
		item := &v.Items[i]

		extended, present, err := per.DecSequence(c, true, 1)
		if err != nil {
			return err
		}
		if err = decFixedOctets(c, item.TAC[:]); err != nil {
			return err
		}

		m, err := per.DecSequenceOf(c, 1, maxnoofBPLMNs)
		if err != nil {
			return err
		}
		item.BroadcastPLMNs = make([]PLMNIdentity, m)
		for j := range item.BroadcastPLMNs {
			if err = decFixedOctets(c, item.BroadcastPLMNs[j][:]); err != nil {
				return err
			}
		}

		if item.Extensions, err = decExtensions(d, c, present[0]); err != nil {
			return err
		}
		if err = d.extensions(c, "SupportedTAs-Item", extended); err != nil {
			return err
		}
	}
	return
}

func (v *SupportedTAs) encode(c *per.BitCursor) (err error) {

	if err = per.EncSequenceOf(c, len(v.Items), 1, maxnoofTACs); err != nil {
		return
	}

	for _, item := range v.Items {
		if err = per.EncSequence(c, true, item.Extensions != nil); err != nil {
			return
		}
		if err = encFixedOctets(c, item.TAC[:]); err != nil {
			return
		}
		if err = per.EncSequenceOf(c, len(item.BroadcastPLMNs), 1, maxnoofBPLMNs); err != nil {
			return
		}
		for _, plmn := range item.BroadcastPLMNs {
			if err = encFixedOctets(c, plmn[:]); err != nil {
				return
			}
		}
		if err = encExtensions(c, item.Extensions); err != nil {
			return
		}
	}
	return
}

// TAI is defined in 9.2.3.16
/*
TAI ::= SEQUENCE {
    pLMNidentity            PLMNidentity,
    tAC                     TAC,
    iE-Extensions           ProtocolExtensionContainer { {TAI-ExtIEs} } OPTIONAL,
    ...
}
*/
type TAI struct {
	PLMN       PLMNIdentity
	TAC        TAC
	Extensions *Container
}

func NewTAI(plmn PLMNIdentity, tac TAC) *TAI {
	return &TAI{PLMN: plmn, TAC: tac}
}

func (v *TAI) Show(p *Printer) {
	p.Printf("TAI: %v tAC=0x%04x", v.PLMN, v.TAC.Uint16())
	p.Nest(func() { showExtensions(p, v.Extensions) })
}

func (v *TAI) Free() {
	freeExtensions(&v.Extensions)
}

func (v *TAI) decode(d *decoder, c *per.BitCursor) (err error) {
	extended, present, err := per.DecSequence(c, true, 1)
	if err != nil {
		return
	}
	if err = decFixedOctets(c, v.PLMN[:]); err != nil {
		return
	}
	if err = decFixedOctets(c, v.TAC[:]); err != nil {
		return
	}
	if v.Extensions, err = decExtensions(d, c, present[0]); err != nil {
		return
	}
	return d.extensions(c, "TAI", extended)
}

func (v *TAI) encode(c *per.BitCursor) (err error) {
	if err = per.EncSequence(c, true, v.Extensions != nil); err != nil {
		return
	}
	if err = encFixedOctets(c, v.PLMN[:]); err != nil {
		return
	}
	if err = encFixedOctets(c, v.TAC[:]); err != nil {
		return
	}
	return encExtensions(c, v.Extensions)
}

// E-UTRAN CGI is defined in 9.2.1.38
/*
EUTRAN-CGI ::= SEQUENCE {
    pLMNidentity            PLMNidentity,
    cell-ID                 CellIdentity,
    iE-Extensions           ProtocolExtensionContainer { {EUTRAN-CGI-ExtIEs} } OPTIONAL,
    ...
}

CellIdentity ::= BIT STRING (SIZE (28))
*/
type EUTRANCGI struct {
	PLMN       PLMNIdentity
	CellID     uint32
	Extensions *Container
}

func NewEUTRANCGI(plmn PLMNIdentity, cellID uint32) *EUTRANCGI {
	return &EUTRANCGI{PLMN: plmn, CellID: cellID}
}

func (v *EUTRANCGI) Show(p *Printer) {
	p.Printf("EUTRAN-CGI: %v cell-ID=0x%07x", v.PLMN, v.CellID)
	p.Nest(func() { showExtensions(p, v.Extensions) })
}

func (v *EUTRANCGI) Free() {
	freeExtensions(&v.Extensions)
}

func (v *EUTRANCGI) decode(d *decoder, c *per.BitCursor) (err error) {
	extended, present, err := per.DecSequence(c, true, 1)
	if err != nil {
		return
	}
	if err = decFixedOctets(c, v.PLMN[:]); err != nil {
		return
	}
	if v.CellID, err = per.DecBitString32(c, cellIdentityBitLen); err != nil {
		return
	}
	if v.Extensions, err = decExtensions(d, c, present[0]); err != nil {
		return
	}
	return d.extensions(c, "EUTRAN-CGI", extended)
}

func (v *EUTRANCGI) encode(c *per.BitCursor) (err error) {
	if err = per.EncSequence(c, true, v.Extensions != nil); err != nil {
		return
	}
	if err = encFixedOctets(c, v.PLMN[:]); err != nil {
		return
	}
	if err = per.EncBitString32(c, v.CellID, cellIdentityBitLen); err != nil {
		return
	}
	return encExtensions(c, v.Extensions)
}

// GUMMEI is defined in 9.2.3.9
/*
GUMMEI ::= SEQUENCE {
    pLMN-Identity       PLMNidentity,
    mME-Group-ID        MME-Group-ID,
    mME-Code            MME-Code,
    iE-Extensions       ProtocolExtensionContainer { {GUMMEI-ExtIEs} } OPTIONAL,
    ...
}

MME-Group-ID ::= OCTET STRING (SIZE (2))
MME-Code ::= OCTET STRING (SIZE (1))
*/
type GUMMEI struct {
	PLMN       PLMNIdentity
	MMEGroupID [2]byte
	MMECode    byte
	Extensions *Container
}

func (v *GUMMEI) Show(p *Printer) {
	p.Printf("GUMMEI: %v mME-Group-ID=%02x mME-Code=%02x",
		v.PLMN, v.MMEGroupID, v.MMECode)
	p.Nest(func() { showExtensions(p, v.Extensions) })
}

func (v *GUMMEI) Free() {
	freeExtensions(&v.Extensions)
}

func (v *GUMMEI) decode(d *decoder, c *per.BitCursor) (err error) {
	extended, present, err := per.DecSequence(c, true, 1)
	if err != nil {
		return
	}
	if err = decFixedOctets(c, v.PLMN[:]); err != nil {
		return
	}
	if err = decFixedOctets(c, v.MMEGroupID[:]); err != nil {
		return
	}
	var code [1]byte
	if err = decFixedOctets(c, code[:]); err != nil {
		return
	}
	v.MMECode = code[0]
	if v.Extensions, err = decExtensions(d, c, present[0]); err != nil {
		return
	}
	return d.extensions(c, "GUMMEI", extended)
}

func (v *GUMMEI) encode(c *per.BitCursor) (err error) {
	if err = per.EncSequence(c, true, v.Extensions != nil); err != nil {
		return
	}
	if err = encFixedOctets(c, v.PLMN[:]); err != nil {
		return
	}
	if err = encFixedOctets(c, v.MMEGroupID[:]); err != nil {
		return
	}
	if err = encFixedOctets(c, []byte{v.MMECode}); err != nil {
		return
	}
	return encExtensions(c, v.Extensions)
}

// S-TMSI is defined in 9.2.3.6
/*
S-TMSI ::= SEQUENCE {
    mMEC    MME-Code,
    m-TMSI  M-TMSI,
    iE-Extensions       ProtocolExtensionContainer { {S-TMSI-ExtIEs} } OPTIONAL,
    ...
}

M-TMSI ::= OCTET STRING (SIZE (4))
*/
type STMSI struct {
	MMECode    byte
	MTMSI      [4]byte
	Extensions *Container
}

func (v *STMSI) Show(p *Printer) {
	p.Printf("S-TMSI: mMEC=%02x m-TMSI=%02x", v.MMECode, v.MTMSI)
	p.Nest(func() { showExtensions(p, v.Extensions) })
}

func (v *STMSI) Free() {
	v.MTMSI = [4]byte{}
	freeExtensions(&v.Extensions)
}

func (v *STMSI) decode(d *decoder, c *per.BitCursor) (err error) {
	extended, present, err := per.DecSequence(c, true, 1)
	if err != nil {
		return
	}
	var code [1]byte
	if err = decFixedOctets(c, code[:]); err != nil {
		return
	}
	v.MMECode = code[0]
	if err = decFixedOctets(c, v.MTMSI[:]); err != nil {
		return
	}
	if v.Extensions, err = decExtensions(d, c, present[0]); err != nil {
		return
	}
	return d.extensions(c, "S-TMSI", extended)
}

func (v *STMSI) encode(c *per.BitCursor) (err error) {
	if err = per.EncSequence(c, true, v.Extensions != nil); err != nil {
		return
	}
	if err = encFixedOctets(c, []byte{v.MMECode}); err != nil {
		return
	}
	if err = encFixedOctets(c, v.MTMSI[:]); err != nil {
		return
	}
	return encExtensions(c, v.Extensions)
}

// Served GUMMEIs is defined in 9.1.8.5 S1 SETUP RESPONSE
/*
ServedGUMMEIs ::= SEQUENCE (SIZE (1.. maxnoofRATs)) OF ServedGUMMEIsItem

ServedGUMMEIsItem ::= SEQUENCE {
    servedPLMNs             ServedPLMNs,
    servedGroupIDs          ServedGroupIDs,
    servedMMECs             ServedMMECs,
    iE-Extensions           ProtocolExtensionContainer { {ServedGUMMEIsItem-ExtIEs} } OPTIONAL,
    ...
}

ServedPLMNs ::= SEQUENCE (SIZE(1.. maxnoofPLMNsPerMME)) OF PLMNidentity
ServedGroupIDs ::= SEQUENCE (SIZE(1.. maxnoofGroupIDs)) OF MME-Group-ID
ServedMMECs ::= SEQUENCE (SIZE(1.. maxnoofMMECs)) OF MME-Code
*/
type ServedGUMMEIs struct {
	Items []ServedGUMMEIsItem
}

type ServedGUMMEIsItem struct {
	ServedPLMNs    []PLMNIdentity
	ServedGroupIDs [][2]byte
	ServedMMECs    []byte
	Extensions     *Container
}

func (v *ServedGUMMEIs) Show(p *Printer) {
	p.Printf("ServedGUMMEIs: %d items", len(v.Items))
	p.Nest(func() {
		for _, item := range v.Items {
			for _, plmn := range item.ServedPLMNs {
				p.Printf("servedPLMN: %v", plmn)
			}
			for _, gid := range item.ServedGroupIDs {
				p.Printf("servedGroupID: %02x", gid)
			}
			p.Printf("servedMMECs: %02x", item.ServedMMECs)
			showExtensions(p, item.Extensions)
		}
	})
}

func (v *ServedGUMMEIs) Free() {
	for i := range v.Items {
		freeExtensions(&v.Items[i].Extensions)
	}
	v.Items = nil
}

func (v *ServedGUMMEIs) decode(d *decoder, c *per.BitCursor) (err error) {

	n, err := per.DecSequenceOf(c, 1, maxnoofRATs)
	if err != nil {
		return
	}
	v.Items = make([]ServedGUMMEIsItem, n)

	for i := range v.Items {
		item := &v.Items[i]

		extended, present, err := per.DecSequence(c, true, 1)
		if err != nil {
			return err
		}

		m, err := per.DecSequenceOf(c, 1, maxnoofPLMNsPerMME)
		if err != nil {
			return err
		}
		item.ServedPLMNs = make([]PLMNIdentity, m)
		for j := range item.ServedPLMNs {
			if err = decFixedOctets(c, item.ServedPLMNs[j][:]); err != nil {
				return err
			}
		}

		if m, err = per.DecSequenceOf(c, 1, maxnoofGroupIDs); err != nil {
			return err
		}
		item.ServedGroupIDs = make([][2]byte, m)
		for j := range item.ServedGroupIDs {
			if err = decFixedOctets(c, item.ServedGroupIDs[j][:]); err != nil {
				return err
			}
		}

		if m, err = per.DecSequenceOf(c, 1, maxnoofMMECs); err != nil {
			return err
		}
		item.ServedMMECs = make([]byte, m)
		for j := range item.ServedMMECs {
			if err = decFixedOctets(c, item.ServedMMECs[j:j+1]); err != nil {
				return err
			}
		}

		if item.Extensions, err = decExtensions(d, c, present[0]); err != nil {
			return err
		}
		if err = d.extensions(c, "ServedGUMMEIsItem", extended); err != nil {
			return err
		}
	}
	return
}

func (v *ServedGUMMEIs) encode(c *per.BitCursor) (err error) {

	if err = per.EncSequenceOf(c, len(v.Items), 1, maxnoofRATs); err != nil {
		return
	}

	for _, item := range v.Items {
		if err = per.EncSequence(c, true, item.Extensions != nil); err != nil {
			return
		}

		if err = per.EncSequenceOf(c, len(item.ServedPLMNs), 1, maxnoofPLMNsPerMME); err != nil {
			return
		}
		for _, plmn := range item.ServedPLMNs {
			if err = encFixedOctets(c, plmn[:]); err != nil {
				return
			}
		}

		if err = per.EncSequenceOf(c, len(item.ServedGroupIDs), 1, maxnoofGroupIDs); err != nil {
			return
		}
		for _, gid := range item.ServedGroupIDs {
			if err = encFixedOctets(c, gid[:]); err != nil {
				return
			}
		}

		if err = per.EncSequenceOf(c, len(item.ServedMMECs), 1, maxnoofMMECs); err != nil {
			return
		}
		for j := range item.ServedMMECs {
			if err = encFixedOctets(c, item.ServedMMECs[j:j+1]); err != nil {
				return
			}
		}

		if err = encExtensions(c, item.Extensions); err != nil {
			return
		}
	}
	return
}
