// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

// Package s1ap is implementation for S1 Application Protocol (S1AP)
// in the EPS. It decodes and encodes S1AP-PDUs with the ALIGNED PER
// codec of package per and dispatches every protocol IE through a
// registry keyed by its id.
// document version: 3GPP TS 36.413 v15.3.0 (2018-09)
package s1ap

import (
	"fmt"

	"github.com/hhorai/mme/encoding/per"
	"github.com/pkg/errors"
)

// S1-MME transport, 3GPP TS 36.412 7.
const (
	Port = 36412
	PPID = 18
)

// ProcedureCode is defined in 9.3.5 Common Definitions
/*
ProcedureCode ::= INTEGER (0..255)
*/
type ProcedureCode uint8

const (
	ProcHandoverPreparation                ProcedureCode = 0
	ProcHandoverResourceAllocation         ProcedureCode = 1
	ProcHandoverNotification               ProcedureCode = 2
	ProcPathSwitchRequest                  ProcedureCode = 3
	ProcHandoverCancel                     ProcedureCode = 4
	ProcERABSetup                          ProcedureCode = 5
	ProcERABModify                         ProcedureCode = 6
	ProcERABRelease                        ProcedureCode = 7
	ProcERABReleaseIndication              ProcedureCode = 8
	ProcInitialContextSetup                ProcedureCode = 9
	ProcPaging                             ProcedureCode = 10
	ProcDownlinkNASTransport               ProcedureCode = 11
	ProcInitialUEMessage                   ProcedureCode = 12
	ProcUplinkNASTransport                 ProcedureCode = 13
	ProcReset                              ProcedureCode = 14
	ProcErrorIndication                    ProcedureCode = 15
	ProcNASNonDeliveryIndication           ProcedureCode = 16
	ProcS1Setup                            ProcedureCode = 17
	ProcUEContextReleaseRequest            ProcedureCode = 18
	ProcDownlinkS1cdma2000tunnelling       ProcedureCode = 19
	ProcUplinkS1cdma2000tunnelling         ProcedureCode = 20
	ProcUEContextModification              ProcedureCode = 21
	ProcUECapabilityInfoIndication         ProcedureCode = 22
	ProcUEContextRelease                   ProcedureCode = 23
	ProcENBStatusTransfer                  ProcedureCode = 24
	ProcMMEStatusTransfer                  ProcedureCode = 25
	ProcDeactivateTrace                    ProcedureCode = 26
	ProcTraceStart                         ProcedureCode = 27
	ProcTraceFailureIndication             ProcedureCode = 28
	ProcENBConfigurationUpdate             ProcedureCode = 29
	ProcMMEConfigurationUpdate             ProcedureCode = 30
	ProcLocationReportingControl           ProcedureCode = 31
	ProcLocationReportingFailureIndication ProcedureCode = 32
	ProcLocationReport                     ProcedureCode = 33
	ProcOverloadStart                      ProcedureCode = 34
	ProcOverloadStop                       ProcedureCode = 35
	ProcWriteReplaceWarning                ProcedureCode = 36
	ProcENBDirectInformationTransfer       ProcedureCode = 37
	ProcMMEDirectInformationTransfer       ProcedureCode = 38
	ProcPrivateMessage                     ProcedureCode = 39
	ProcENBConfigurationTransfer           ProcedureCode = 40
	ProcMMEConfigurationTransfer           ProcedureCode = 41
	ProcCellTrafficTrace                   ProcedureCode = 42
	ProcKill                               ProcedureCode = 43
)

// procedures holds the name and the criticality of every elementary
// procedure of 9.3.2 Elementary Procedure Definitions.
var procedures = map[ProcedureCode]struct {
	name        string
	criticality Criticality
}{
	ProcHandoverPreparation:                {"HandoverPreparation", CriticalityReject},
	ProcHandoverResourceAllocation:         {"HandoverResourceAllocation", CriticalityReject},
	ProcHandoverNotification:               {"HandoverNotification", CriticalityIgnore},
	ProcPathSwitchRequest:                  {"PathSwitchRequest", CriticalityReject},
	ProcHandoverCancel:                     {"HandoverCancel", CriticalityReject},
	ProcERABSetup:                          {"E-RABSetup", CriticalityReject},
	ProcERABModify:                         {"E-RABModify", CriticalityReject},
	ProcERABRelease:                        {"E-RABRelease", CriticalityReject},
	ProcERABReleaseIndication:              {"E-RABReleaseIndication", CriticalityIgnore},
	ProcInitialContextSetup:                {"InitialContextSetup", CriticalityReject},
	ProcPaging:                             {"Paging", CriticalityIgnore},
	ProcDownlinkNASTransport:               {"downlinkNASTransport", CriticalityIgnore},
	ProcInitialUEMessage:                   {"initialUEMessage", CriticalityIgnore},
	ProcUplinkNASTransport:                 {"uplinkNASTransport", CriticalityIgnore},
	ProcReset:                              {"Reset", CriticalityReject},
	ProcErrorIndication:                    {"ErrorIndication", CriticalityIgnore},
	ProcNASNonDeliveryIndication:           {"NASNonDeliveryIndication", CriticalityIgnore},
	ProcS1Setup:                            {"S1Setup", CriticalityReject},
	ProcUEContextReleaseRequest:            {"UEContextReleaseRequest", CriticalityIgnore},
	ProcDownlinkS1cdma2000tunnelling:       {"DownlinkS1cdma2000tunnelling", CriticalityIgnore},
	ProcUplinkS1cdma2000tunnelling:         {"UplinkS1cdma2000tunnelling", CriticalityIgnore},
	ProcUEContextModification:              {"UEContextModification", CriticalityReject},
	ProcUECapabilityInfoIndication:         {"UECapabilityInfoIndication", CriticalityIgnore},
	ProcUEContextRelease:                   {"UEContextRelease", CriticalityReject},
	ProcENBStatusTransfer:                  {"eNBStatusTransfer", CriticalityIgnore},
	ProcMMEStatusTransfer:                  {"MMEStatusTransfer", CriticalityIgnore},
	ProcDeactivateTrace:                    {"DeactivateTrace", CriticalityIgnore},
	ProcTraceStart:                         {"TraceStart", CriticalityIgnore},
	ProcTraceFailureIndication:             {"TraceFailureIndication", CriticalityIgnore},
	ProcENBConfigurationUpdate:             {"ENBConfigurationUpdate", CriticalityReject},
	ProcMMEConfigurationUpdate:             {"MMEConfigurationUpdate", CriticalityReject},
	ProcLocationReportingControl:           {"LocationReportingControl", CriticalityIgnore},
	ProcLocationReportingFailureIndication: {"LocationReportingFailureIndication", CriticalityIgnore},
	ProcLocationReport:                     {"LocationReport", CriticalityIgnore},
	ProcOverloadStart:                      {"OverloadStart", CriticalityIgnore},
	ProcOverloadStop:                       {"OverloadStop", CriticalityReject},
	ProcWriteReplaceWarning:                {"WriteReplaceWarning", CriticalityReject},
	ProcENBDirectInformationTransfer:       {"eNBDirectInformationTransfer", CriticalityIgnore},
	ProcMMEDirectInformationTransfer:       {"MMEDirectInformationTransfer", CriticalityIgnore},
	ProcPrivateMessage:                     {"PrivateMessage", CriticalityIgnore},
	ProcENBConfigurationTransfer:           {"eNBConfigurationTransfer", CriticalityIgnore},
	ProcMMEConfigurationTransfer:           {"MMEConfigurationTransfer", CriticalityIgnore},
	ProcCellTrafficTrace:                   {"CellTrafficTrace", CriticalityIgnore},
	ProcKill:                               {"Kill", CriticalityReject},
}

// ProcedureName returns the name of the elementary procedure code.
func ProcedureName(code ProcedureCode) string {
	if p, ok := procedures[code]; ok {
		return p.name
	}
	return fmt.Sprintf("procedure(%d)", code)
}

func (code ProcedureCode) String() string {
	return ProcedureName(code)
}

// 9.3.1 Elementary Procedure Definitions
/*
S1AP-PDU ::= CHOICE {
    initiatingMessage   InitiatingMessage,
    successfulOutcome   SuccessfulOutcome,
    unsuccessfulOutcome UnsuccessfulOutcome,
    ...
}

InitiatingMessage ::= SEQUENCE {
    procedureCode   S1AP-ELEMENTARY-PROCEDURE.&procedureCode    ({S1AP-ELEMENTARY-PROCEDURES}),
    criticality     S1AP-ELEMENTARY-PROCEDURE.&criticality      ({S1AP-ELEMENTARY-PROCEDURES}{@procedureCode}),
    value           S1AP-ELEMENTARY-PROCEDURE.&InitiatingMessage    ({S1AP-ELEMENTARY-PROCEDURES}{@procedureCode})
}

SuccessfulOutcome ::= SEQUENCE {
    procedureCode   S1AP-ELEMENTARY-PROCEDURE.&procedureCode    ({S1AP-ELEMENTARY-PROCEDURES}),
    criticality     S1AP-ELEMENTARY-PROCEDURE.&criticality      ({S1AP-ELEMENTARY-PROCEDURES}{@procedureCode}),
    value           S1AP-ELEMENTARY-PROCEDURE.&SuccessfulOutcome    ({S1AP-ELEMENTARY-PROCEDURES}{@procedureCode})
}

UnsuccessfulOutcome ::= SEQUENCE {
    procedureCode   S1AP-ELEMENTARY-PROCEDURE.&procedureCode    ({S1AP-ELEMENTARY-PROCEDURES}),
    criticality     S1AP-ELEMENTARY-PROCEDURE.&criticality      ({S1AP-ELEMENTARY-PROCEDURES}{@procedureCode}),
    value           S1AP-ELEMENTARY-PROCEDURE.&UnsuccessfulOutcome  ({S1AP-ELEMENTARY-PROCEDURES}{@procedureCode})
}
*/
type MessageType int

const (
	InitiatingMessage MessageType = iota
	SuccessfulOutcome
	UnsuccessfulOutcome
)

var messageTypeStr = []string{
	"initiatingMessage",
	"successfulOutcome",
	"unsuccessfulOutcome",
}

func (t MessageType) String() string {
	if t < 0 || int(t) >= len(messageTypeStr) {
		return fmt.Sprintf("messageType(%d)", int(t))
	}
	return messageTypeStr[t]
}

// Message is an S1AP-PDU. With Extended set, Choice is the index of an
// extension alternative of S1AP-PDU whose open type is kept in
// PDU.ExtensionValue.
type Message struct {
	Extended bool
	Choice   MessageType
	PDU      PDU
}

// PDU is the body of InitiatingMessage, SuccessfulOutcome or
// UnsuccessfulOutcome. Value holds the protocolIEs of the message.
// Extended reports extension additions of the message value that were
// skipped by the decoder. They are never encoded.
/*
S1SetupRequest ::= SEQUENCE {
    protocolIEs         ProtocolIE-Container        { {S1SetupRequestIEs} },
    ...
}
*/
type PDU struct {
	ProcedureCode  ProcedureCode
	Criticality    Criticality
	Extended       bool
	Value          *Container
	ExtensionValue []byte
}

// NewMessage returns an empty message of the procedure with its
// criticality.
func NewMessage(choice MessageType, code ProcedureCode) *Message {
	crit := CriticalityIgnore
	if p, ok := procedures[code]; ok {
		crit = p.criticality
	}
	return &Message{
		Choice: choice,
		PDU: PDU{
			ProcedureCode: code,
			Criticality:   crit,
			Value:         NewContainer(maxProtocolIEs),
		},
	}
}

// Add appends a new IE made of id and v to the protocolIEs.
func (m *Message) Add(id ProtocolIEID, v Value) error {
	ie, err := NewIE(id, v)
	if err != nil {
		return err
	}
	if m.PDU.Value == nil {
		m.PDU.Value = NewContainer(maxProtocolIEs)
	}
	return m.PDU.Value.AddIE(ie)
}

// Find returns the first IE with id, or nil.
func (m *Message) Find(id ProtocolIEID) *IE {
	if m.PDU.Value == nil {
		return nil
	}
	return m.PDU.Value.Find(id)
}

// Take removes the first IE with id and hands it to the caller. The
// caller then owns the IE and frees it.
func (m *Message) Take(id ProtocolIEID) *IE {
	if m.PDU.Value == nil {
		return nil
	}
	return m.PDU.Value.Take(id)
}

// Free releases every IE of the message.
func (m *Message) Free() {
	if m.PDU.Value != nil {
		m.PDU.Value.Free()
		m.PDU.Value = nil
	}
	m.PDU.ExtensionValue = nil
}

func (m *Message) Show(p *Printer) {
	if m.Extended {
		p.Printf("S1AP-PDU: extension(%d)", int(m.Choice))
		p.Nest(func() { p.Printf("value: %02x", m.PDU.ExtensionValue) })
		return
	}
	p.Printf("S1AP-PDU: %v", m.Choice)
	p.Nest(func() {
		p.Printf("procedureCode: %v (%d)", m.PDU.ProcedureCode, m.PDU.ProcedureCode)
		p.Printf("criticality: %v", m.PDU.Criticality)
		if m.PDU.Value == nil {
			return
		}
		p.Printf("protocolIEs:")
		p.Nest(func() { m.PDU.Value.Show(p) })
	})
}

// Decode decodes an S1AP-PDU with the default options.
func Decode(b []byte) (*Message, error) {
	return DecodeWithOptions(b, Options{})
}

// DecodeWithOptions decodes an S1AP-PDU. The message owns its IEs; nothing
// of b is referenced after the call returns.
func DecodeWithOptions(b []byte, opts Options) (m *Message, err error) {

	d := newDecoder(opts)
	c := per.NewReader(b)

	index, extended, err := per.DecChoice(c, len(messageTypeStr), true)
	if err != nil {
		return nil, errors.Wrap(err, "S1AP-PDU")
	}
	m = &Message{Extended: extended, Choice: MessageType(index)}

	if extended {
		if m.PDU.ExtensionValue, err = d.choiceExtension(c, "S1AP-PDU", index); err != nil {
			return nil, err
		}
		return m, trailing(c, "S1AP-PDU")
	}

	code, err := per.DecConstrainedWholeNumber(c, 0, 255)
	if err != nil {
		return nil, errors.Wrap(err, "procedureCode")
	}
	m.PDU.ProcedureCode = ProcedureCode(code)

	if m.PDU.Criticality, err = decCriticality(c); err != nil {
		return nil, errors.Wrapf(err, "criticality of %v", m.PDU.ProcedureCode)
	}

	v, err := per.DecOpenType(c)
	if err != nil {
		return nil, errors.Wrapf(err, "value of %v", m.PDU.ProcedureCode)
	}
	if err = trailing(c, "S1AP-PDU"); err != nil {
		return nil, err
	}

	body := &pduValue{pdu: &m.PDU}
	if err = d.value(body, v, m.PDU.ProcedureCode.String()); err != nil {
		return nil, err
	}
	return
}

// Encode encodes m as an S1AP-PDU.
func Encode(m *Message) (b []byte, err error) {

	c := per.NewWriter()

	if m.Extended {
		if err = per.EncChoiceExtension(c, int(m.Choice)); err != nil {
			return nil, errors.Wrap(err, "S1AP-PDU")
		}
		if err = per.EncOpenTypeBytes(c, m.PDU.ExtensionValue); err != nil {
			return nil, errors.Wrap(err, "S1AP-PDU")
		}
		return c.Bytes(), nil
	}

	if err = per.EncChoice(c, int(m.Choice), len(messageTypeStr), true); err != nil {
		return nil, errors.Wrap(err, "S1AP-PDU")
	}
	if err = per.EncConstrainedWholeNumber(c, int64(m.PDU.ProcedureCode), 0, 255); err != nil {
		return nil, errors.Wrap(err, "procedureCode")
	}
	if err = encCriticality(c, m.PDU.Criticality); err != nil {
		return nil, errors.Wrapf(err, "criticality of %v", m.PDU.ProcedureCode)
	}

	body := &pduValue{pdu: &m.PDU}
	if err = per.EncOpenType(c, body.encode); err != nil {
		return nil, errors.Wrapf(err, "encode %v", m.PDU.ProcedureCode)
	}
	return c.Bytes(), nil
}

func trailing(c *per.BitCursor, name string) error {
	if err := c.Align(); err != nil {
		return err
	}
	if c.Remaining() != 0 {
		return &per.StructuralError{
			Op:  "decode " + name,
			Msg: fmt.Sprintf("%d trailing octets", c.Remaining()/8),
		}
	}
	return nil
}

// pduValue is the value of a message: its protocolIEs and the extension
// marker.
type pduValue struct {
	pdu *PDU
}

func (v *pduValue) Show(p *Printer) {
	if v.pdu.Value != nil {
		v.pdu.Value.Show(p)
	}
}

func (v *pduValue) Free() {
	if v.pdu.Value != nil {
		v.pdu.Value.Free()
	}
}

func (v *pduValue) decode(d *decoder, c *per.BitCursor) (err error) {
	extended, _, err := per.DecSequence(c, true, 0)
	if err != nil {
		return
	}
	v.pdu.Extended = extended

	ies := NewContainer(maxProtocolIEs)
	if err = ies.decode(d, c); err != nil {
		return errors.Wrap(err, "protocolIEs")
	}
	if err = d.extensions(c, v.pdu.ProcedureCode.String(), extended); err != nil {
		ies.Free()
		return
	}
	v.pdu.Value = ies
	return
}

func (v *pduValue) encode(c *per.BitCursor) (err error) {
	if err = per.EncSequence(c, true); err != nil {
		return
	}
	ies := v.pdu.Value
	if ies == nil {
		ies = NewContainer(maxProtocolIEs)
	}
	return errors.Wrap(ies.encode(c), "protocolIEs")
}
