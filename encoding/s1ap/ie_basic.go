// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package s1ap

import (
	"fmt"

	"github.com/hhorai/mme/encoding/nas"
	"github.com/hhorai/mme/encoding/per"
)

// MME UE S1AP ID is defined in 9.2.3.3
/*
MME-UE-S1AP-ID ::= INTEGER (0..4294967295)
*/
type MMEUES1APID uint32

func NewMMEUES1APID(id uint32) *MMEUES1APID {
	v := MMEUES1APID(id)
	return &v
}

func (v *MMEUES1APID) Show(p *Printer) {
	p.Printf("MME-UE-S1AP-ID: %d", *v)
}

func (v *MMEUES1APID) Free() {}

func (v *MMEUES1APID) decode(d *decoder, c *per.BitCursor) error {
	n, err := per.DecConstrainedWholeNumber(c, 0, 4294967295)
	*v = MMEUES1APID(n)
	return err
}

func (v *MMEUES1APID) encode(c *per.BitCursor) error {
	return per.EncConstrainedWholeNumber(c, int64(*v), 0, 4294967295)
}

// eNB UE S1AP ID is defined in 9.2.3.4
/*
ENB-UE-S1AP-ID ::= INTEGER (0..16777215)
*/
type ENBUES1APID uint32

func NewENBUES1APID(id uint32) *ENBUES1APID {
	v := ENBUES1APID(id)
	return &v
}

func (v *ENBUES1APID) Show(p *Printer) {
	p.Printf("eNB-UE-S1AP-ID: %d", *v)
}

func (v *ENBUES1APID) Free() {}

func (v *ENBUES1APID) decode(d *decoder, c *per.BitCursor) error {
	n, err := per.DecConstrainedWholeNumber(c, 0, 16777215)
	*v = ENBUES1APID(n)
	return err
}

func (v *ENBUES1APID) encode(c *per.BitCursor) error {
	return per.EncConstrainedWholeNumber(c, int64(*v), 0, 16777215)
}

// Relative MME Capacity is defined in 9.2.3.17
/*
RelativeMMECapacity ::= INTEGER (0..255)
*/
type RelativeMMECapacity uint8

func NewRelativeMMECapacity(capacity uint8) *RelativeMMECapacity {
	v := RelativeMMECapacity(capacity)
	return &v
}

func (v *RelativeMMECapacity) Show(p *Printer) {
	p.Printf("RelativeMMECapacity: %d", *v)
}

func (v *RelativeMMECapacity) Free() {}

func (v *RelativeMMECapacity) decode(d *decoder, c *per.BitCursor) error {
	n, err := per.DecConstrainedWholeNumber(c, 0, 255)
	*v = RelativeMMECapacity(n)
	return err
}

func (v *RelativeMMECapacity) encode(c *per.BitCursor) error {
	return per.EncConstrainedWholeNumber(c, int64(*v), 0, 255)
}

// NAS-PDU is defined in 9.2.3.5
/*
NAS-PDU ::= OCTET STRING
*/
type NASPDU []byte

func NewNASPDU(pdu []byte) *NASPDU {
	v := NASPDU(append([]byte{}, pdu...))
	return &v
}

func (v *NASPDU) Show(p *Printer) {
	h, err := nas.Peek(*v)
	if err != nil {
		p.Printf("NAS-PDU: %d octets", len(*v))
		return
	}
	p.Printf("NAS-PDU: %d octets, %v", len(*v), h)
}

// Free scrubs the message, it may carry key material.
func (v *NASPDU) Free() {
	for i := range *v {
		(*v)[i] = 0
	}
	*v = nil
}

func (v *NASPDU) decode(d *decoder, c *per.BitCursor) (err error) {
	*v, err = per.DecOctetString(c, 0, per.Unbounded, false)
	return
}

func (v *NASPDU) encode(c *per.BitCursor) error {
	return per.EncOctetString(c, *v, 0, per.Unbounded, false)
}

// UE Radio Capability is defined in 9.2.1.27
/*
UERadioCapability ::= OCTET STRING
*/
type UERadioCapability []byte

func NewUERadioCapability(b []byte) *UERadioCapability {
	v := UERadioCapability(append([]byte{}, b...))
	return &v
}

func (v *UERadioCapability) Show(p *Printer) {
	p.Printf("UERadioCapability: %d octets", len(*v))
}

func (v *UERadioCapability) Free() {
	*v = nil
}

func (v *UERadioCapability) decode(d *decoder, c *per.BitCursor) (err error) {
	*v, err = per.DecOctetString(c, 0, per.Unbounded, false)
	return
}

func (v *UERadioCapability) encode(c *per.BitCursor) error {
	return per.EncOctetString(c, *v, 0, per.Unbounded, false)
}

// Security Key is defined in 9.2.1.41
/*
SecurityKey ::= BIT STRING (SIZE(256))
*/
type SecurityKey [32]byte

func NewSecurityKey(key [32]byte) *SecurityKey {
	v := SecurityKey(key)
	return &v
}

func (v *SecurityKey) Show(p *Printer) {
	p.Printf("SecurityKey: (256 bits)")
}

func (v *SecurityKey) Free() {
	*v = SecurityKey{}
}

func (v *SecurityKey) decode(d *decoder, c *per.BitCursor) error {
	b, _, err := per.DecBitString(c, 256, 256, false)
	if err != nil {
		return err
	}
	copy(v[:], b)
	return nil
}

func (v *SecurityKey) encode(c *per.BitCursor) error {
	return per.EncBitString(c, v[:], 256, 256, 256, false)
}

// eNB Name is defined in 9.2.1.62, MME Name in 9.2.3.8
/*
ENBname ::= PrintableString (SIZE (1..150,...))
MMEname ::= PrintableString (SIZE (1..150,...))
*/
const maxNameLength = 150

type ENBname string

func NewENBname(name string) *ENBname {
	v := ENBname(name)
	return &v
}

func (v *ENBname) Show(p *Printer) {
	p.Printf("eNBname: %s", string(*v))
}

func (v *ENBname) Free() {}

func (v *ENBname) decode(d *decoder, c *per.BitCursor) error {
	s, err := per.DecPrintableString(c, 1, maxNameLength, true)
	*v = ENBname(s)
	return err
}

func (v *ENBname) encode(c *per.BitCursor) error {
	return per.EncPrintableString(c, string(*v), 1, maxNameLength, true)
}

type MMEname string

func NewMMEname(name string) *MMEname {
	v := MMEname(name)
	return &v
}

func (v *MMEname) Show(p *Printer) {
	p.Printf("MMEname: %s", string(*v))
}

func (v *MMEname) Free() {}

func (v *MMEname) decode(d *decoder, c *per.BitCursor) error {
	s, err := per.DecPrintableString(c, 1, maxNameLength, true)
	*v = MMEname(s)
	return err
}

func (v *MMEname) encode(c *per.BitCursor) error {
	return per.EncPrintableString(c, string(*v), 1, maxNameLength, true)
}

// enumInfo describes an ENUMERATED type: its root values and whether it
// is extensible. Values at or above len(values) are extension values.
type enumInfo struct {
	name   string
	ext    bool
	values []string
}

func (e *enumInfo) enc(c *per.BitCursor, v int) error {
	return per.EncEnumerated(c, v, len(e.values), e.ext)
}

func (e *enumInfo) dec(c *per.BitCursor) (int, error) {
	return per.DecEnumerated(c, len(e.values), e.ext)
}

func (e *enumInfo) str(v int) string {
	if v >= 0 && v < len(e.values) {
		return e.values[v]
	}
	return fmt.Sprintf("extension(%d)", v-len(e.values))
}

func (e *enumInfo) show(p *Printer, v int) {
	p.Printf("%s: %s (%d)", e.name, e.str(v), v)
}

// Handover Type is defined in 9.2.1.13
/*
HandoverType ::= ENUMERATED {
    intralte,
    ltetoutran,
    ltetogeran,
    utrantolte,
    gerantolte,
    ...
}
*/
type HandoverType int

const (
	HandoverTypeIntraLTE HandoverType = iota
	HandoverTypeLTEtoUTRAN
	HandoverTypeLTEtoGERAN
	HandoverTypeUTRANtoLTE
	HandoverTypeGERANtoLTE
)

var handoverTypeInfo = enumInfo{"HandoverType", true, []string{
	"intralte", "ltetoutran", "ltetogeran", "utrantolte", "gerantolte",
}}

func (v *HandoverType) Show(p *Printer) { handoverTypeInfo.show(p, int(*v)) }
func (v *HandoverType) Free() {}

func (v *HandoverType) decode(d *decoder, c *per.BitCursor) error {
	n, err := handoverTypeInfo.dec(c)
	*v = HandoverType(n)
	return err
}

func (v *HandoverType) encode(c *per.BitCursor) error {
	return handoverTypeInfo.enc(c, int(*v))
}

// Time to wait is defined in 9.2.1.61
/*
TimeToWait ::= ENUMERATED {v1s, v2s, v5s, v10s, v20s, v60s, ...}
*/
type TimeToWait int

const (
	TimeToWaitV1s TimeToWait = iota
	TimeToWaitV2s
	TimeToWaitV5s
	TimeToWaitV10s
	TimeToWaitV20s
	TimeToWaitV60s
)

var timeToWaitInfo = enumInfo{"TimeToWait", true, []string{
	"v1s", "v2s", "v5s", "v10s", "v20s", "v60s",
}}

func (v *TimeToWait) Show(p *Printer) { timeToWaitInfo.show(p, int(*v)) }
func (v *TimeToWait) Free() {}

func (v *TimeToWait) decode(d *decoder, c *per.BitCursor) error {
	n, err := timeToWaitInfo.dec(c)
	*v = TimeToWait(n)
	return err
}

func (v *TimeToWait) encode(c *per.BitCursor) error {
	return timeToWaitInfo.enc(c, int(*v))
}

// CS Fallback Indicator is defined in 9.2.3.21
/*
CSFallbackIndicator ::= ENUMERATED {
    cs-fallback-required,
    ...,
    cs-fallback-high-priority
}
*/
type CSFallbackIndicator int

const (
	CSFallbackRequired CSFallbackIndicator = iota
	CSFallbackHighPriority
)

var csFallbackIndicatorInfo = enumInfo{"CSFallbackIndicator", true, []string{
	"cs-fallback-required",
}}

func (v *CSFallbackIndicator) Show(p *Printer) { csFallbackIndicatorInfo.show(p, int(*v)) }
func (v *CSFallbackIndicator) Free() {}

func (v *CSFallbackIndicator) decode(d *decoder, c *per.BitCursor) error {
	n, err := csFallbackIndicatorInfo.dec(c)
	*v = CSFallbackIndicator(n)
	return err
}

func (v *CSFallbackIndicator) encode(c *per.BitCursor) error {
	return csFallbackIndicatorInfo.enc(c, int(*v))
}

// CN Domain is defined in 9.2.3.22
/*
CNDomain ::= ENUMERATED {
    ps,
    cs
}
*/
type CNDomain int

const (
	CNDomainPS CNDomain = iota
	CNDomainCS
)

var cnDomainInfo = enumInfo{"CNDomain", false, []string{"ps", "cs"}}

func (v *CNDomain) Show(p *Printer) { cnDomainInfo.show(p, int(*v)) }
func (v *CNDomain) Free() {}

func (v *CNDomain) decode(d *decoder, c *per.BitCursor) error {
	n, err := cnDomainInfo.dec(c)
	*v = CNDomain(n)
	return err
}

func (v *CNDomain) encode(c *per.BitCursor) error {
	return cnDomainInfo.enc(c, int(*v))
}

// RRC Establishment Cause is defined in 9.2.1.3a
/*
RRC-Establishment-Cause ::= ENUMERATED {
    emergency,
    highPriorityAccess,
    mt-Access,
    mo-Signalling,
    mo-Data,
    ...
}
*/
type RRCEstablishmentCause int

const (
	RRCEstablishmentCauseEmergency RRCEstablishmentCause = iota
	RRCEstablishmentCauseHighPriorityAccess
	RRCEstablishmentCauseMTAccess
	RRCEstablishmentCauseMOSignalling
	RRCEstablishmentCauseMOData
)

var rrcEstablishmentCauseInfo = enumInfo{"RRC-Establishment-Cause", true, []string{
	"emergency", "highPriorityAccess", "mt-Access", "mo-Signalling", "mo-Data",
}}

func NewRRCEstablishmentCause(cause RRCEstablishmentCause) *RRCEstablishmentCause {
	return &cause
}

func (v *RRCEstablishmentCause) Show(p *Printer) { rrcEstablishmentCauseInfo.show(p, int(*v)) }
func (v *RRCEstablishmentCause) Free() {}

func (v *RRCEstablishmentCause) decode(d *decoder, c *per.BitCursor) error {
	n, err := rrcEstablishmentCauseInfo.dec(c)
	*v = RRCEstablishmentCause(n)
	return err
}

func (v *RRCEstablishmentCause) encode(c *per.BitCursor) error {
	return rrcEstablishmentCauseInfo.enc(c, int(*v))
}

// Paging DRX is defined in 9.2.1.16
/*
PagingDRX ::= ENUMERATED {
    v32,
    v64,
    v128,
    v256,
    ...
}
*/
type PagingDRX int

const (
	PagingDRXv32 PagingDRX = iota
	PagingDRXv64
	PagingDRXv128
	PagingDRXv256
)

var pagingDRXInfo = enumInfo{"PagingDRX", true, []string{
	"v32", "v64", "v128", "v256",
}}

// ParsePagingDRX returns the value named by s, as written in the ASN.1
// definition.
func ParsePagingDRX(s string) (PagingDRX, error) {
	for i, name := range pagingDRXInfo.values {
		if name == s {
			return PagingDRX(i), nil
		}
	}
	return 0, fmt.Errorf("ParsePagingDRX: unknown paging DRX %q", s)
}

func NewPagingDRX(drx PagingDRX) *PagingDRX {
	return &drx
}

func (v *PagingDRX) Show(p *Printer) { pagingDRXInfo.show(p, int(*v)) }
func (v *PagingDRX) Free() {}

func (v *PagingDRX) decode(d *decoder, c *per.BitCursor) error {
	n, err := pagingDRXInfo.dec(c)
	*v = PagingDRX(n)
	return err
}

func (v *PagingDRX) encode(c *per.BitCursor) error {
	return pagingDRXInfo.enc(c, int(*v))
}
