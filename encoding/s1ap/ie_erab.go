// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package s1ap

import (
	"github.com/hhorai/mme/encoding/gtp"
	"github.com/hhorai/mme/encoding/per"
	"github.com/pkg/errors"
)

const (
	maxBitRate                  = 10000000000
	maxTransportLayerAddressLen = 160
)

// BitString holds BitLen bits starting from the most significant bit of
// the first octet.
type BitString struct {
	Bytes  []byte
	BitLen int
}

// Bit Rate is defined in 9.2.1.19
/*
BitRate ::= INTEGER (0..10000000000)
*/
func encBitRate(c *per.BitCursor, v uint64) error {
	return per.EncConstrainedWholeNumber(c, int64(v), 0, maxBitRate)
}

func decBitRate(c *per.BitCursor) (v uint64, err error) {
	n, err := per.DecConstrainedWholeNumber(c, 0, maxBitRate)
	v = uint64(n)
	return
}

// E-RAB ID is defined in 9.2.1.2
/*
E-RAB-ID ::= INTEGER (0..15, ...)
*/
func encERABID(c *per.BitCursor, v int64) error {
	return per.EncInteger(c, v, 0, 15, true)
}

func decERABID(c *per.BitCursor) (int64, error) {
	return per.DecInteger(c, 0, 15, true)
}

// Transport Layer Address is defined in 9.2.2.1
/*
TransportLayerAddress ::= BIT STRING (SIZE(1..160, ...))
*/
func encTransportLayerAddress(c *per.BitCursor, v BitString) error {
	return per.EncBitString(c, v.Bytes, v.BitLen, 1, maxTransportLayerAddressLen, true)
}

func decTransportLayerAddress(c *per.BitCursor) (v BitString, err error) {
	v.Bytes, v.BitLen, err = per.DecBitString(c, 1, maxTransportLayerAddressLen, true)
	return
}

// E-RAB Level QoS Parameters is defined in 9.2.1.15
/*
E-RABLevelQoSParameters ::= SEQUENCE {
    qCI                         QCI,
    allocationRetentionPriority AllocationAndRetentionPriority,
    gbrQosInformation           GBR-QosInformation          OPTIONAL,
    iE-Extensions               ProtocolExtensionContainer { {E-RABQoSParameters-ExtIEs} } OPTIONAL,
    ...
}

QCI ::= INTEGER (0..255)
*/
type ERABLevelQoSParameters struct {
	QCI        uint8
	ARP        AllocationAndRetentionPriority
	GBR        *GBRQosInformation
	Extensions *Container
}

func (v *ERABLevelQoSParameters) show(p *Printer) {
	p.Printf("e-RABlevelQoSParameters: qCI=%d", v.QCI)
	p.Nest(func() {
		v.ARP.show(p)
		if v.GBR != nil {
			v.GBR.show(p)
		}
		showExtensions(p, v.Extensions)
	})
}

func (v *ERABLevelQoSParameters) free() {
	v.ARP.free()
	if v.GBR != nil {
		freeExtensions(&v.GBR.Extensions)
		v.GBR = nil
	}
	freeExtensions(&v.Extensions)
}

func (v *ERABLevelQoSParameters) decode(d *decoder, c *per.BitCursor) (err error) {
	extended, present, err := per.DecSequence(c, true, 2)
	if err != nil {
		return
	}
	qci, err := per.DecConstrainedWholeNumber(c, 0, 255)
	if err != nil {
		return
	}
	v.QCI = uint8(qci)
	if err = v.ARP.decode(d, c); err != nil {
		return
	}
	if present[0] {
		v.GBR = new(GBRQosInformation)
		if err = v.GBR.decode(d, c); err != nil {
			return
		}
	}
	if v.Extensions, err = decExtensions(d, c, present[1]); err != nil {
		return
	}
	return d.extensions(c, "E-RABLevelQoSParameters", extended)
}

func (v *ERABLevelQoSParameters) encode(c *per.BitCursor) (err error) {
	if err = per.EncSequence(c, true, v.GBR != nil, v.Extensions != nil); err != nil {
		return
	}
	if err = per.EncConstrainedWholeNumber(c, int64(v.QCI), 0, 255); err != nil {
		return
	}
	if err = v.ARP.encode(c); err != nil {
		return
	}
	if v.GBR != nil {
		if err = v.GBR.encode(c); err != nil {
			return
		}
	}
	return encExtensions(c, v.Extensions)
}

// Allocation and Retention Priority is defined in 9.2.1.60
/*
AllocationAndRetentionPriority ::= SEQUENCE {
    priorityLevel               PriorityLevel,
    pre-emptionCapability       Pre-emptionCapability,
    pre-emptionVulnerability    Pre-emptionVulnerability,
    iE-Extensions               ProtocolExtensionContainer { {AllocationAndRetentionPriority-ExtIEs} } OPTIONAL,
    ...
}

PriorityLevel ::= INTEGER { spare (0), highest (1), lowest (14), no-priority (15) } (0..15)
Pre-emptionCapability ::= ENUMERATED {
    shall-not-trigger-pre-emption,
    may-trigger-pre-emption
}
Pre-emptionVulnerability ::= ENUMERATED {
    not-pre-emptable,
    pre-emptable
}
*/
type AllocationAndRetentionPriority struct {
	PriorityLevel           uint8
	PreEmptionCapability    int
	PreEmptionVulnerability int
	Extensions              *Container
}

const (
	PreEmptionShallNotTrigger = 0
	PreEmptionMayTrigger      = 1
	PreEmptionNotPreEmptable  = 0
	PreEmptionPreEmptable     = 1
)

var preEmptionCapabilityInfo = enumInfo{"pre-emptionCapability", false, []string{
	"shall-not-trigger-pre-emption", "may-trigger-pre-emption",
}}

var preEmptionVulnerabilityInfo = enumInfo{"pre-emptionVulnerability", false, []string{
	"not-pre-emptable", "pre-emptable",
}}

func (v *AllocationAndRetentionPriority) show(p *Printer) {
	p.Printf("allocationRetentionPriority: priorityLevel=%d", v.PriorityLevel)
	p.Nest(func() {
		preEmptionCapabilityInfo.show(p, v.PreEmptionCapability)
		preEmptionVulnerabilityInfo.show(p, v.PreEmptionVulnerability)
		showExtensions(p, v.Extensions)
	})
}

func (v *AllocationAndRetentionPriority) free() {
	freeExtensions(&v.Extensions)
}

func (v *AllocationAndRetentionPriority) decode(d *decoder, c *per.BitCursor) (err error) {
	extended, present, err := per.DecSequence(c, true, 1)
	if err != nil {
		return
	}
	level, err := per.DecConstrainedWholeNumber(c, 0, 15)
	if err != nil {
		return
	}
	v.PriorityLevel = uint8(level)
	if v.PreEmptionCapability, err = preEmptionCapabilityInfo.dec(c); err != nil {
		return
	}
	if v.PreEmptionVulnerability, err = preEmptionVulnerabilityInfo.dec(c); err != nil {
		return
	}
	if v.Extensions, err = decExtensions(d, c, present[0]); err != nil {
		return
	}
	return d.extensions(c, "AllocationAndRetentionPriority", extended)
}

func (v *AllocationAndRetentionPriority) encode(c *per.BitCursor) (err error) {
	if err = per.EncSequence(c, true, v.Extensions != nil); err != nil {
		return
	}
	if err = per.EncConstrainedWholeNumber(c, int64(v.PriorityLevel), 0, 15); err != nil {
		return
	}
	if err = preEmptionCapabilityInfo.enc(c, v.PreEmptionCapability); err != nil {
		return
	}
	if err = preEmptionVulnerabilityInfo.enc(c, v.PreEmptionVulnerability); err != nil {
		return
	}
	return encExtensions(c, v.Extensions)
}

// GBR QoS Information is defined in 9.2.1.18
/*
GBR-QosInformation ::= SEQUENCE {
    e-RAB-MaximumBitrateDL          BitRate,
    e-RAB-MaximumBitrateUL          BitRate,
    e-RAB-GuaranteedBitrateDL       BitRate,
    e-RAB-GuaranteedBitrateUL       BitRate,
    iE-Extensions                   ProtocolExtensionContainer { { GBR-QosInformation-ExtIEs} } OPTIONAL,
    ...
}
*/
type GBRQosInformation struct {
	MaximumBitrateDL    uint64
	MaximumBitrateUL    uint64
	GuaranteedBitrateDL uint64
	GuaranteedBitrateUL uint64
	Extensions          *Container
}

func (v *GBRQosInformation) rates() []*uint64 {
	return []*uint64{
		&v.MaximumBitrateDL, &v.MaximumBitrateUL,
		&v.GuaranteedBitrateDL, &v.GuaranteedBitrateUL,
	}
}

func (v *GBRQosInformation) show(p *Printer) {
	p.Printf("gbrQosInformation: MBR DL=%d UL=%d GBR DL=%d UL=%d",
		v.MaximumBitrateDL, v.MaximumBitrateUL,
		v.GuaranteedBitrateDL, v.GuaranteedBitrateUL)
	p.Nest(func() { showExtensions(p, v.Extensions) })
}

func (v *GBRQosInformation) decode(d *decoder, c *per.BitCursor) (err error) {
	extended, present, err := per.DecSequence(c, true, 1)
	if err != nil {
		return
	}
	for _, rate := range v.rates() {
		if *rate, err = decBitRate(c); err != nil {
			return
		}
	}
	if v.Extensions, err = decExtensions(d, c, present[0]); err != nil {
		return
	}
	return d.extensions(c, "GBR-QosInformation", extended)
}

func (v *GBRQosInformation) encode(c *per.BitCursor) (err error) {
	if err = per.EncSequence(c, true, v.Extensions != nil); err != nil {
		return
	}
	for _, rate := range v.rates() {
		if err = encBitRate(c, *rate); err != nil {
			return
		}
	}
	return encExtensions(c, v.Extensions)
}

// E-RAB To Be Setup Item is defined in 9.1.4.1 INITIAL CONTEXT SETUP REQUEST
/*
E-RABToBeSetupItemCtxtSUReq ::= SEQUENCE {
    e-RAB-ID                    E-RAB-ID,
    e-RABlevelQoSParameters     E-RABLevelQoSParameters,
    transportLayerAddress       TransportLayerAddress,
    gTP-TEID                    GTP-TEID,
    nAS-PDU                     NAS-PDU     OPTIONAL,
    iE-Extensions               ProtocolExtensionContainer { {E-RABToBeSetupItemCtxtSUReqExtIEs} } OPTIONAL,
    ...
}

GTP-TEID ::= OCTET STRING (SIZE (4))
*/
type ERABToBeSetupItemCtxtSUReq struct {
	ERABID                int64
	QoS                   ERABLevelQoSParameters
	TransportLayerAddress BitString
	GTPTEID               [4]byte
	NASPDU                []byte
	Extensions            *Container
}

// NewERABToBeSetupItemCtxtSUReq returns a bearer to be set up towards the
// S-GW endpoint f.
func NewERABToBeSetupItemCtxtSUReq(id int64, qci uint8, f *gtp.FTEID) (
	v *ERABToBeSetupItemCtxtSUReq, err error) {

	b, bitlen, err := f.TransportLayerAddress()
	if err != nil {
		return
	}
	v = &ERABToBeSetupItemCtxtSUReq{
		ERABID:                id,
		QoS:                   ERABLevelQoSParameters{QCI: qci},
		TransportLayerAddress: BitString{Bytes: b, BitLen: bitlen},
		GTPTEID:               f.GTPTEID(),
	}
	return
}

// FTEID returns the S-GW endpoint of the bearer.
func (v *ERABToBeSetupItemCtxtSUReq) FTEID() (*gtp.FTEID, error) {
	return gtp.ParseFTEID(v.TransportLayerAddress.Bytes,
		v.TransportLayerAddress.BitLen, v.GTPTEID)
}

func (v *ERABToBeSetupItemCtxtSUReq) Show(p *Printer) {
	p.Printf("E-RABToBeSetupItemCtxtSUReq: e-RAB-ID=%d", v.ERABID)
	p.Nest(func() {
		v.QoS.show(p)
		showFTEID(p, v.TransportLayerAddress, v.GTPTEID)
		if v.NASPDU != nil {
			pdu := NASPDU(v.NASPDU)
			pdu.Show(p)
		}
		showExtensions(p, v.Extensions)
	})
}

func (v *ERABToBeSetupItemCtxtSUReq) Free() {
	v.QoS.free()
	if v.NASPDU != nil {
		pdu := NASPDU(v.NASPDU)
		pdu.Free()
		v.NASPDU = nil
	}
	freeExtensions(&v.Extensions)
}

func (v *ERABToBeSetupItemCtxtSUReq) decode(d *decoder, c *per.BitCursor) (err error) {

	extended, present, err := per.DecSequence(c, true, 2)
	if err != nil {
		return
	}
	if v.ERABID, err = decERABID(c); err != nil {
		return
	}
	if err = v.QoS.decode(d, c); err != nil {
		return
	}
	if v.TransportLayerAddress, err = decTransportLayerAddress(c); err != nil {
		return
	}
	if err = decFixedOctets(c, v.GTPTEID[:]); err != nil {
		return
	}
	if present[0] {
		var pdu NASPDU
		if err = pdu.decode(d, c); err != nil {
			return
		}
		v.NASPDU = pdu
	}
	if v.Extensions, err = decExtensions(d, c, present[1]); err != nil {
		return
	}
	return d.extensions(c, "E-RABToBeSetupItemCtxtSUReq", extended)
}

func (v *ERABToBeSetupItemCtxtSUReq) encode(c *per.BitCursor) (err error) {

	if err = per.EncSequence(c, true, v.NASPDU != nil, v.Extensions != nil); err != nil {
		return
	}
	if err = encERABID(c, v.ERABID); err != nil {
		return
	}
	if err = v.QoS.encode(c); err != nil {
		return
	}
	if err = encTransportLayerAddress(c, v.TransportLayerAddress); err != nil {
		return
	}
	if err = encFixedOctets(c, v.GTPTEID[:]); err != nil {
		return
	}
	if v.NASPDU != nil {
		pdu := NASPDU(v.NASPDU)
		if err = pdu.encode(c); err != nil {
			return
		}
	}
	return encExtensions(c, v.Extensions)
}

// E-RAB Setup Item is defined in 9.1.4.3 INITIAL CONTEXT SETUP RESPONSE
/*
E-RABSetupItemCtxtSURes ::= SEQUENCE {
    e-RAB-ID                    E-RAB-ID,
    transportLayerAddress       TransportLayerAddress,
    gTP-TEID                    GTP-TEID,
    iE-Extensions               ProtocolExtensionContainer { {E-RABSetupItemCtxtSUResExtIEs} } OPTIONAL,
    ...
}
*/
type ERABSetupItemCtxtSURes struct {
	ERABID                int64
	TransportLayerAddress BitString
	GTPTEID               [4]byte
	Extensions            *Container
}

// FTEID returns the eNB endpoint of the bearer.
func (v *ERABSetupItemCtxtSURes) FTEID() (*gtp.FTEID, error) {
	return gtp.ParseFTEID(v.TransportLayerAddress.Bytes,
		v.TransportLayerAddress.BitLen, v.GTPTEID)
}

func (v *ERABSetupItemCtxtSURes) Show(p *Printer) {
	p.Printf("E-RABSetupItemCtxtSURes: e-RAB-ID=%d", v.ERABID)
	p.Nest(func() {
		showFTEID(p, v.TransportLayerAddress, v.GTPTEID)
		showExtensions(p, v.Extensions)
	})
}

func (v *ERABSetupItemCtxtSURes) Free() {
	freeExtensions(&v.Extensions)
}

func (v *ERABSetupItemCtxtSURes) decode(d *decoder, c *per.BitCursor) (err error) {
	extended, present, err := per.DecSequence(c, true, 1)
	if err != nil {
		return
	}
	if v.ERABID, err = decERABID(c); err != nil {
		return
	}
	if v.TransportLayerAddress, err = decTransportLayerAddress(c); err != nil {
		return
	}
	if err = decFixedOctets(c, v.GTPTEID[:]); err != nil {
		return
	}
	if v.Extensions, err = decExtensions(d, c, present[0]); err != nil {
		return
	}
	return d.extensions(c, "E-RABSetupItemCtxtSURes", extended)
}

func (v *ERABSetupItemCtxtSURes) encode(c *per.BitCursor) (err error) {
	if err = per.EncSequence(c, true, v.Extensions != nil); err != nil {
		return
	}
	if err = encERABID(c, v.ERABID); err != nil {
		return
	}
	if err = encTransportLayerAddress(c, v.TransportLayerAddress); err != nil {
		return
	}
	if err = encFixedOctets(c, v.GTPTEID[:]); err != nil {
		return
	}
	return encExtensions(c, v.Extensions)
}

func showFTEID(p *Printer, tla BitString, teid [4]byte) {
	f, err := gtp.ParseFTEID(tla.Bytes, tla.BitLen, teid)
	if err != nil {
		p.Printf("transportLayerAddress: %02x (%d bits) gTP-TEID: %02x",
			tla.Bytes, tla.BitLen, teid)
		return
	}
	p.Printf("F-TEID: %v", f)
}

// NewERABToBeSetupListCtxtSUReq wraps items as the value of
// id-E-RABToBeSetupListCtxtSUReq.
/*
E-RABToBeSetupListCtxtSUReq ::= E-RAB-IE-ContainerList { {E-RABToBeSetupItemCtxtSUReqIEs} }
E-RAB-IE-ContainerList { S1AP-PROTOCOL-IES : IEsSetParam } ::= ProtocolIE-ContainerList { 1, maxnoofE-RABs, {IEsSetParam} }
*/
func NewERABToBeSetupListCtxtSUReq(items ...*ERABToBeSetupItemCtxtSUReq) (*Container, error) {
	list := newContainerList(1, maxnoofERABs)
	for _, item := range items {
		if err := addListItem(list, IDERABToBeSetupItemCtxtSUReq, item); err != nil {
			list.Free()
			return nil, err
		}
	}
	return list, nil
}

// NewERABSetupListCtxtSURes wraps items as the value of
// id-E-RABSetupListCtxtSURes.
func NewERABSetupListCtxtSURes(items ...*ERABSetupItemCtxtSURes) (*Container, error) {
	list := newContainerList(1, maxnoofERABs)
	for _, item := range items {
		if err := addListItem(list, IDERABSetupItemCtxtSURes, item); err != nil {
			list.Free()
			return nil, err
		}
	}
	return list, nil
}

func addListItem(list *Container, id ProtocolIEID, v Value) error {
	ie, err := NewIE(id, v)
	if err != nil {
		return err
	}
	return list.AddIE(ie)
}

// UE Aggregate Maximum Bit Rate is defined in 9.2.1.20
/*
UEAggregateMaximumBitrate ::= SEQUENCE {
    uEaggregateMaximumBitRateDL         BitRate,
    uEaggregateMaximumBitRateUL         BitRate,
    iE-Extensions                       ProtocolExtensionContainer { {UEAggregate-MaximumBitrates-ExtIEs} } OPTIONAL,
    ...
}
*/
type UEAggregateMaximumBitrate struct {
	DL         uint64
	UL         uint64
	Extensions *Container
}

func NewUEAggregateMaximumBitrate(dl, ul uint64) *UEAggregateMaximumBitrate {
	return &UEAggregateMaximumBitrate{DL: dl, UL: ul}
}

func (v *UEAggregateMaximumBitrate) Show(p *Printer) {
	p.Printf("UEAggregateMaximumBitrate: DL=%d UL=%d", v.DL, v.UL)
	p.Nest(func() { showExtensions(p, v.Extensions) })
}

func (v *UEAggregateMaximumBitrate) Free() {
	freeExtensions(&v.Extensions)
}

func (v *UEAggregateMaximumBitrate) decode(d *decoder, c *per.BitCursor) (err error) {
	extended, present, err := per.DecSequence(c, true, 1)
	if err != nil {
		return
	}
	if v.DL, err = decBitRate(c); err != nil {
		return
	}
	if v.UL, err = decBitRate(c); err != nil {
		return
	}
	if v.Extensions, err = decExtensions(d, c, present[0]); err != nil {
		return
	}
	return d.extensions(c, "UEAggregateMaximumBitrate", extended)
}

func (v *UEAggregateMaximumBitrate) encode(c *per.BitCursor) (err error) {
	if err = per.EncSequence(c, true, v.Extensions != nil); err != nil {
		return
	}
	if err = encBitRate(c, v.DL); err != nil {
		return
	}
	if err = encBitRate(c, v.UL); err != nil {
		return
	}
	return encExtensions(c, v.Extensions)
}

// UE Security Capabilities is defined in 9.2.1.40
/*
UESecurityCapabilities ::= SEQUENCE {
    encryptionAlgorithms                EncryptionAlgorithms,
    integrityProtectionAlgorithms       IntegrityProtectionAlgorithms,
    iE-Extensions                       ProtocolExtensionContainer { { UESecurityCapabilities-ExtIEs} } OPTIONAL,
    ...
}

EncryptionAlgorithms ::= BIT STRING (SIZE (16,...))
IntegrityProtectionAlgorithms ::= BIT STRING (SIZE (16,...))
*/
type UESecurityCapabilities struct {
	EncryptionAlgorithms          BitString
	IntegrityProtectionAlgorithms BitString
	Extensions                    *Container
}

// NewUESecurityCapabilities takes the 16 bit masks, EEA1 and EIA1 in the
// most significant bit.
func NewUESecurityCapabilities(eea, eia uint16) *UESecurityCapabilities {
	return &UESecurityCapabilities{
		EncryptionAlgorithms:          BitString{[]byte{byte(eea >> 8), byte(eea)}, 16},
		IntegrityProtectionAlgorithms: BitString{[]byte{byte(eia >> 8), byte(eia)}, 16},
	}
}

func (v *UESecurityCapabilities) Show(p *Printer) {
	p.Printf("UESecurityCapabilities: encryptionAlgorithms=%02x integrityProtectionAlgorithms=%02x",
		v.EncryptionAlgorithms.Bytes, v.IntegrityProtectionAlgorithms.Bytes)
	p.Nest(func() { showExtensions(p, v.Extensions) })
}

func (v *UESecurityCapabilities) Free() {
	freeExtensions(&v.Extensions)
}

func (v *UESecurityCapabilities) decode(d *decoder, c *per.BitCursor) (err error) {
	extended, present, err := per.DecSequence(c, true, 1)
	if err != nil {
		return
	}
	for _, alg := range []*BitString{&v.EncryptionAlgorithms, &v.IntegrityProtectionAlgorithms} {
		if alg.Bytes, alg.BitLen, err = per.DecBitString(c, 16, 16, true); err != nil {
			return
		}
	}
	if v.Extensions, err = decExtensions(d, c, present[0]); err != nil {
		return
	}
	return d.extensions(c, "UESecurityCapabilities", extended)
}

func (v *UESecurityCapabilities) encode(c *per.BitCursor) (err error) {
	if err = per.EncSequence(c, true, v.Extensions != nil); err != nil {
		return
	}
	for _, alg := range []BitString{v.EncryptionAlgorithms, v.IntegrityProtectionAlgorithms} {
		if err = per.EncBitString(c, alg.Bytes, alg.BitLen, 16, 16, true); err != nil {
			return
		}
	}
	return encExtensions(c, v.Extensions)
}

// UE S1AP IDs is defined in 9.2.3.18
/*
UE-S1AP-IDs ::= CHOICE{
    uE-S1AP-ID-pair     UE-S1AP-ID-pair,
    mME-UE-S1AP-ID      MME-UE-S1AP-ID,
    ...
}

UE-S1AP-ID-pair ::= SEQUENCE{
    mME-UE-S1AP-ID      MME-UE-S1AP-ID,
    eNB-UE-S1AP-ID      ENB-UE-S1AP-ID,
    iE-Extensions       ProtocolExtensionContainer { {UE-S1AP-ID-pair-ExtIEs} } OPTIONAL,
    ...
}
*/
type UES1APIDs struct {
	// Pair selects uE-S1AP-ID-pair, otherwise only MMEUES1APID is sent.
	Pair        bool
	MMEUES1APID MMEUES1APID
	ENBUES1APID ENBUES1APID

	// open type of an extension alternative; Pair is ignored then.
	ExtIndex   int
	ExtValue   []byte
	Extensions *Container
}

const ueS1APIDsAlternatives = 2

func NewUES1APIDPair(mme MMEUES1APID, enb ENBUES1APID) *UES1APIDs {
	return &UES1APIDs{Pair: true, MMEUES1APID: mme, ENBUES1APID: enb}
}

func (v *UES1APIDs) Show(p *Printer) {
	switch {
	case v.ExtValue != nil:
		p.Printf("UE-S1AP-IDs: extension(%d) %02x", v.ExtIndex, v.ExtValue)
	case v.Pair:
		p.Printf("UE-S1AP-IDs: uE-S1AP-ID-pair")
		p.Nest(func() {
			v.MMEUES1APID.Show(p)
			v.ENBUES1APID.Show(p)
			showExtensions(p, v.Extensions)
		})
	default:
		p.Printf("UE-S1AP-IDs:")
		p.Nest(func() { v.MMEUES1APID.Show(p) })
	}
}

func (v *UES1APIDs) Free() {
	v.ExtValue = nil
	freeExtensions(&v.Extensions)
}

func (v *UES1APIDs) decode(d *decoder, c *per.BitCursor) (err error) {

	index, extended, err := per.DecChoice(c, ueS1APIDsAlternatives, true)
	if err != nil {
		return
	}
	if extended {
		v.ExtIndex = index
		v.ExtValue, err = d.choiceExtension(c, "UE-S1AP-IDs", index)
		if err == nil && v.ExtValue == nil {
			v.ExtValue = []byte{}
		}
		return
	}
	if index == 1 {
		return v.MMEUES1APID.decode(d, c)
	}

	v.Pair = true
	seqExtended, present, err := per.DecSequence(c, true, 1)
	if err != nil {
		return
	}
	if err = v.MMEUES1APID.decode(d, c); err != nil {
		return
	}
	if err = v.ENBUES1APID.decode(d, c); err != nil {
		return
	}
	if v.Extensions, err = decExtensions(d, c, present[0]); err != nil {
		return
	}
	return d.extensions(c, "UE-S1AP-ID-pair", seqExtended)
}

func (v *UES1APIDs) encode(c *per.BitCursor) (err error) {

	if v.ExtValue != nil {
		if err = per.EncChoiceExtension(c, v.ExtIndex); err != nil {
			return
		}
		return per.EncOpenTypeBytes(c, v.ExtValue)
	}
	if !v.Pair {
		if v.Extensions != nil {
			return errors.New("UE-S1AP-IDs: iE-Extensions need uE-S1AP-ID-pair")
		}
		if err = per.EncChoice(c, 1, ueS1APIDsAlternatives, true); err != nil {
			return
		}
		return v.MMEUES1APID.encode(c)
	}

	if err = per.EncChoice(c, 0, ueS1APIDsAlternatives, true); err != nil {
		return
	}
	if err = per.EncSequence(c, true, v.Extensions != nil); err != nil {
		return
	}
	if err = v.MMEUES1APID.encode(c); err != nil {
		return
	}
	if err = v.ENBUES1APID.encode(c); err != nil {
		return
	}
	return encExtensions(c, v.Extensions)
}
