// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package s1ap

import (
	"reflect"
	"sort"

	"github.com/pkg/errors"
)

// 9.3.7 Constant Definitions
const (
	IDMMEUES1APID                ProtocolIEID = 0
	IDHandoverType               ProtocolIEID = 1
	IDCause                      ProtocolIEID = 2
	IDENBUES1APID                ProtocolIEID = 8
	IDERABToBeSetupListCtxtSUReq ProtocolIEID = 24
	IDNASPDU                     ProtocolIEID = 26
	IDERABSetupItemCtxtSURes     ProtocolIEID = 50
	IDERABSetupListCtxtSURes     ProtocolIEID = 51
	IDERABToBeSetupItemCtxtSUReq ProtocolIEID = 52
	IDGlobalENBID                ProtocolIEID = 59
	IDENBname                    ProtocolIEID = 60
	IDMMEname                    ProtocolIEID = 61
	IDSupportedTAs               ProtocolIEID = 64
	IDTimeToWait                 ProtocolIEID = 65
	IDUEAggregateMaximumBitrate  ProtocolIEID = 66
	IDTAI                        ProtocolIEID = 67
	IDSecurityKey                ProtocolIEID = 73
	IDUERadioCapability          ProtocolIEID = 74
	IDGUMMEIID                   ProtocolIEID = 75
	IDRelativeMMECapacity        ProtocolIEID = 87
	IDSourceMMEUES1APID          ProtocolIEID = 88
	IDSTMSI                      ProtocolIEID = 96
	IDUES1APIDs                  ProtocolIEID = 99
	IDEUTRANCGI                  ProtocolIEID = 100
	IDServedGUMMEIs              ProtocolIEID = 105
	IDUESecurityCapabilities     ProtocolIEID = 107
	IDCSFallbackIndicator        ProtocolIEID = 108
	IDCNDomain                   ProtocolIEID = 109
	IDRRCEstablishmentCause      ProtocolIEID = 134
	IDDefaultPagingDRX           ProtocolIEID = 137
)

type ieType struct {
	name        string
	criticality Criticality
	presence    Presence
	new         func() Value
}

// registry maps every supported protocol IE id to its handler. The
// criticality and presence are the ones of the most common message the IE
// appears in. The map is never written after init.
var registry = map[ProtocolIEID]ieType{
	IDMMEUES1APID: {"id-MME-UE-S1AP-ID", CriticalityReject, PresenceMandatory,
		func() Value { return new(MMEUES1APID) }},
	IDHandoverType: {"id-HandoverType", CriticalityReject, PresenceMandatory,
		func() Value { return new(HandoverType) }},
	IDCause: {"id-Cause", CriticalityIgnore, PresenceMandatory,
		func() Value { return new(Cause) }},
	IDENBUES1APID: {"id-eNB-UE-S1AP-ID", CriticalityReject, PresenceMandatory,
		func() Value { return new(ENBUES1APID) }},
	IDERABToBeSetupListCtxtSUReq: {"id-E-RABToBeSetupListCtxtSUReq",
		CriticalityReject, PresenceMandatory,
		func() Value { return newContainerList(1, maxnoofERABs) }},
	IDNASPDU: {"id-NAS-PDU", CriticalityReject, PresenceMandatory,
		func() Value { return new(NASPDU) }},
	IDERABSetupItemCtxtSURes: {"id-E-RABSetupItemCtxtSURes",
		CriticalityIgnore, PresenceMandatory,
		func() Value { return new(ERABSetupItemCtxtSURes) }},
	IDERABSetupListCtxtSURes: {"id-E-RABSetupListCtxtSURes",
		CriticalityIgnore, PresenceMandatory,
		func() Value { return newContainerList(1, maxnoofERABs) }},
	IDERABToBeSetupItemCtxtSUReq: {"id-E-RABToBeSetupItemCtxtSUReq",
		CriticalityReject, PresenceMandatory,
		func() Value { return new(ERABToBeSetupItemCtxtSUReq) }},
	IDGlobalENBID: {"id-Global-ENB-ID", CriticalityReject, PresenceMandatory,
		func() Value { return new(GlobalENBID) }},
	IDENBname: {"id-eNBname", CriticalityIgnore, PresenceOptional,
		func() Value { return new(ENBname) }},
	IDMMEname: {"id-MMEname", CriticalityIgnore, PresenceOptional,
		func() Value { return new(MMEname) }},
	IDSupportedTAs: {"id-SupportedTAs", CriticalityReject, PresenceMandatory,
		func() Value { return new(SupportedTAs) }},
	IDTimeToWait: {"id-TimeToWait", CriticalityIgnore, PresenceOptional,
		func() Value { return new(TimeToWait) }},
	IDUEAggregateMaximumBitrate: {"id-uEaggregateMaximumBitrate",
		CriticalityReject, PresenceMandatory,
		func() Value { return new(UEAggregateMaximumBitrate) }},
	IDTAI: {"id-TAI", CriticalityReject, PresenceMandatory,
		func() Value { return new(TAI) }},
	IDSecurityKey: {"id-SecurityKey", CriticalityReject, PresenceMandatory,
		func() Value { return new(SecurityKey) }},
	IDUERadioCapability: {"id-UERadioCapability", CriticalityIgnore, PresenceOptional,
		func() Value { return new(UERadioCapability) }},
	IDGUMMEIID: {"id-GUMMEI-ID", CriticalityReject, PresenceOptional,
		func() Value { return new(GUMMEI) }},
	IDRelativeMMECapacity: {"id-RelativeMMECapacity", CriticalityIgnore,
		PresenceMandatory, func() Value { return new(RelativeMMECapacity) }},
	IDSourceMMEUES1APID: {"id-SourceMME-UE-S1AP-ID", CriticalityReject,
		PresenceMandatory, func() Value { return new(MMEUES1APID) }},
	IDSTMSI: {"id-S-TMSI", CriticalityReject, PresenceOptional,
		func() Value { return new(STMSI) }},
	IDUES1APIDs: {"id-UE-S1AP-IDs", CriticalityReject, PresenceMandatory,
		func() Value { return new(UES1APIDs) }},
	IDEUTRANCGI: {"id-EUTRAN-CGI", CriticalityIgnore, PresenceMandatory,
		func() Value { return new(EUTRANCGI) }},
	IDServedGUMMEIs: {"id-ServedGUMMEIs", CriticalityReject, PresenceMandatory,
		func() Value { return new(ServedGUMMEIs) }},
	IDUESecurityCapabilities: {"id-UESecurityCapabilities", CriticalityReject,
		PresenceMandatory, func() Value { return new(UESecurityCapabilities) }},
	IDCSFallbackIndicator: {"id-CSFallbackIndicator", CriticalityReject,
		PresenceOptional, func() Value { return new(CSFallbackIndicator) }},
	IDCNDomain: {"id-CNDomain", CriticalityIgnore, PresenceMandatory,
		func() Value { return new(CNDomain) }},
	IDRRCEstablishmentCause: {"id-RRC-Establishment-Cause", CriticalityIgnore,
		PresenceMandatory, func() Value { return new(RRCEstablishmentCause) }},
	IDDefaultPagingDRX: {"id-DefaultPagingDRX", CriticalityIgnore,
		PresenceMandatory, func() Value { return new(PagingDRX) }},
}

// IEName returns the ASN.1 name of id.
func IEName(id ProtocolIEID) string {
	if t, ok := registry[id]; ok {
		return t.name
	}
	return "id-unknown"
}

// RegisteredIEs returns every supported protocol IE id in ascending order.
func RegisteredIEs() (ids []ProtocolIEID) {
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return
}

// NewValue returns an empty value of the type registered for id.
func NewValue(id ProtocolIEID) (Value, error) {
	t, ok := registry[id]
	if !ok {
		return nil, &UnsupportedIEError{ID: id}
	}
	return t.new(), nil
}

// NewIE wraps v as an outbound IE with the default criticality and
// presence of id. v must be of the type registered for id.
func NewIE(id ProtocolIEID, v Value) (*IE, error) {
	t, ok := registry[id]
	if !ok {
		return nil, &UnsupportedIEError{ID: id}
	}
	if v == nil {
		return nil, errors.Errorf("NewIE: %s has no value", t.name)
	}
	if want, got := reflect.TypeOf(t.new()), reflect.TypeOf(v); want != got {
		return nil, errors.Errorf("NewIE: %s takes %v, got %v", t.name, want, got)
	}
	return &IE{
		ID:          id,
		Criticality: t.criticality,
		Presence:    t.presence,
		Value:       v,
	}, nil
}
