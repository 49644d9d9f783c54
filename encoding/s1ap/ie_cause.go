// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package s1ap

import (
	"github.com/hhorai/mme/encoding/per"
)

// Cause is defined in 9.2.1.3
/*
Cause ::= CHOICE {
    radioNetwork        CauseRadioNetwork,
    transport           CauseTransport,
    nas                 CauseNas,
    protocol            CauseProtocol,
    misc                CauseMisc,
    ...
}
*/
type Cause struct {
	Group CauseGroup
	Value int

	// open type of an extension alternative, Group counts from
	// CauseGroupExtension then.
	ExtValue []byte
}

type CauseGroup int

const (
	CauseGroupRadioNetwork CauseGroup = iota
	CauseGroupTransport
	CauseGroupNAS
	CauseGroupProtocol
	CauseGroupMisc
	CauseGroupExtension
)

var causeGroupInfo = []enumInfo{
	{"radioNetwork", true, []string{
		"unspecified",
		"tx2relocoverall-expiry",
		"successful-handover",
		"release-due-to-eutran-generated-reason",
		"handover-cancelled",
		"partial-handover",
		"ho-failure-in-target-EPC-eNB-or-target-system",
		"ho-target-not-allowed",
		"tS1relocoverall-expiry",
		"tS1relocprep-expiry",
		"cell-not-available",
		"unknown-targetID",
		"no-radio-resources-available-in-target-cell",
		"unknown-mme-ue-s1ap-id",
		"unknown-enb-ue-s1ap-id",
		"unknown-pair-ue-s1ap-id",
		"handover-desirable-for-radio-reason",
		"time-critical-handover",
		"resource-optimisation-handover",
		"reduce-load-in-serving-cell",
		"user-inactivity",
		"radio-connection-with-ue-lost",
		"load-balancing-tau-required",
		"cs-fallback-triggered",
		"ue-not-available-for-ps-service",
		"radio-resources-not-available",
		"failure-in-radio-interface-procedure",
		"invalid-qos-combination",
		"interrat-redirection",
		"interaction-with-other-procedure",
		"unknown-E-RAB-ID",
		"multiple-E-RAB-ID-instances",
		"encryption-and-or-integrity-protection-algorithms-not-supported",
		"s1-intra-system-handover-triggered",
		"s1-inter-system-handover-triggered",
		"x2-handover-triggered",
	}},
	{"transport", true, []string{
		"transport-resource-unavailable",
		"unspecified",
	}},
	{"nas", true, []string{
		"normal-release",
		"authentication-failure",
		"detach",
		"unspecified",
	}},
	{"protocol", true, []string{
		"transfer-syntax-error",
		"abstract-syntax-error-reject",
		"abstract-syntax-error-ignore-and-notify",
		"message-not-compatible-with-receiver-state",
		"semantic-error",
		"abstract-syntax-error-falsely-constructed-message",
		"unspecified",
	}},
	{"misc", true, []string{
		"control-processing-overload",
		"not-enough-user-plane-processing-resources",
		"hardware-failure",
		"om-intervention",
		"unspecified",
		"unknown-PLMN",
	}},
}

// some values used by the MME side
const (
	CauseRadioNetworkUnspecified = 0
	CauseNASNormalRelease        = 0
	CauseNASDetach               = 2
	CauseProtocolSemanticError   = 4
	CauseMiscUnspecified         = 4
	CauseMiscUnknownPLMN         = 5
)

func NewCause(group CauseGroup, value int) *Cause {
	return &Cause{Group: group, Value: value}
}

func (v *Cause) Show(p *Printer) {
	if v.Group >= CauseGroupExtension {
		p.Printf("Cause: extension(%d) %02x", v.Group-CauseGroupExtension, v.ExtValue)
		return
	}
	if v.Group < 0 {
		p.Printf("Cause: group(%d) %d", v.Group, v.Value)
		return
	}
	info := &causeGroupInfo[v.Group]
	p.Printf("Cause: %s %s (%d)", info.name, info.str(v.Value), v.Value)
}

func (v *Cause) Free() {
	v.ExtValue = nil
}

func (v *Cause) decode(d *decoder, c *per.BitCursor) (err error) {
	index, extended, err := per.DecChoice(c, len(causeGroupInfo), true)
	if err != nil {
		return
	}
	if extended {
		v.Group = CauseGroupExtension + CauseGroup(index)
		v.ExtValue, err = d.choiceExtension(c, "Cause", index)
		return
	}
	v.Group = CauseGroup(index)
	v.Value, err = causeGroupInfo[index].dec(c)
	return
}

func (v *Cause) encode(c *per.BitCursor) (err error) {
	if v.Group >= CauseGroupExtension {
		if err = per.EncChoiceExtension(c, int(v.Group-CauseGroupExtension)); err != nil {
			return
		}
		return per.EncOpenTypeBytes(c, v.ExtValue)
	}
	if v.Group < 0 {
		return &per.RangeError{Op: "Cause", Value: int64(v.Group),
			Lb: 0, Ub: int64(len(causeGroupInfo) - 1)}
	}
	if err = per.EncChoice(c, int(v.Group), len(causeGroupInfo), true); err != nil {
		return
	}
	return causeGroupInfo[v.Group].enc(c, v.Value)
}
