// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

// Package nas is a peek into non-access stratum (NAS) messages carried in
// S1AP NAS-PDU. It does not run any EMM/ESM procedure.
// document version: 3GPP TS 24.301 v15.4.0 (2018-09)
package nas

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// 9.2 Protocol discriminator
const (
	PDEPSSessionManagement  = 0x02
	PDEPSMobilityManagement = 0x07
)

// 9.3.1 Security header type
const (
	SecurityHeaderTypePlain = iota
	SecurityHeaderTypeIntegrityProtected
	SecurityHeaderTypeIntegrityProtectedAndCiphered
	SecurityHeaderTypeIntegrityProtectedNewContext
	SecurityHeaderTypeIntegrityProtectedAndCipheredNewContext
	SecurityHeaderTypeIntegrityProtectedPartiallyCiphered
	SecurityHeaderTypeServiceRequest = 0x0c
)

// 9.8 Message type
var emmMessageType = map[uint8]string{
	0x41: "Attach request",
	0x42: "Attach accept",
	0x43: "Attach complete",
	0x44: "Attach reject",
	0x45: "Detach request",
	0x46: "Detach accept",
	0x48: "Tracking area update request",
	0x49: "Tracking area update accept",
	0x4a: "Tracking area update complete",
	0x4b: "Tracking area update reject",
	0x4c: "Extended service request",
	0x4e: "Service reject",
	0x50: "GUTI reallocation command",
	0x51: "GUTI reallocation complete",
	0x52: "Authentication request",
	0x53: "Authentication response",
	0x54: "Authentication reject",
	0x55: "Identity request",
	0x56: "Identity response",
	0x5c: "Authentication failure",
	0x5d: "Security mode command",
	0x5e: "Security mode complete",
	0x5f: "Security mode reject",
	0x60: "EMM status",
	0x61: "EMM information",
	0x62: "Downlink NAS transport",
	0x63: "Uplink NAS transport",
	0x64: "CS Service notification",
}

var esmMessageType = map[uint8]string{
	0xc1: "Activate default EPS bearer context request",
	0xc2: "Activate default EPS bearer context accept",
	0xc3: "Activate default EPS bearer context reject",
	0xc5: "Activate dedicated EPS bearer context request",
	0xc6: "Activate dedicated EPS bearer context accept",
	0xc7: "Activate dedicated EPS bearer context reject",
	0xcd: "Deactivate EPS bearer context request",
	0xce: "Deactivate EPS bearer context accept",
	0xd0: "PDN connectivity request",
	0xd1: "PDN connectivity reject",
	0xd2: "PDN disconnect request",
	0xd3: "PDN disconnect reject",
	0xd9: "ESM information request",
	0xda: "ESM information response",
	0xe8: "ESM status",
}

// Header is the part of a NAS message needed to name it.
type Header struct {
	ProtocolDiscriminator uint8
	SecurityHeaderType    uint8
	MessageType           uint8

	// set when the message is wrapped in 9.1 security protected NAS
	// message format.
	Protected      bool
	MAC            uint32
	SequenceNumber uint8
}

// Peek reads the header of a NAS message. For a security protected
// message the header of the inner plain message is returned, unless the
// payload is ciphered.
func Peek(pdu []byte) (h Header, err error) {

	if len(pdu) < 2 {
		err = errors.Errorf("Peek: NAS message length(%d) is too short", len(pdu))
		return
	}

	h.ProtocolDiscriminator = pdu[0] & 0x0f
	h.SecurityHeaderType = pdu[0] >> 4

	if h.ProtocolDiscriminator == PDEPSSessionManagement {
		// ESM carries the EPS bearer identity instead of the security
		// header type, and a procedure transaction identity.
		h.SecurityHeaderType = SecurityHeaderTypePlain
		if len(pdu) < 3 {
			err = errors.Errorf("Peek: ESM message length(%d) is too short", len(pdu))
			return
		}
		h.MessageType = pdu[2]
		return
	}

	switch h.SecurityHeaderType {
	case SecurityHeaderTypePlain:
		h.MessageType = pdu[1]
		return
	case SecurityHeaderTypeServiceRequest:
		return
	}

	// 9.1 security protected NAS message
	if len(pdu) < 6 {
		err = errors.Errorf("Peek: protected NAS message length(%d) is too short",
			len(pdu))
		return
	}
	h.Protected = true
	h.MAC = uint32(pdu[1])<<24 | uint32(pdu[2])<<16 | uint32(pdu[3])<<8 |
		uint32(pdu[4])
	h.SequenceNumber = pdu[5]

	switch h.SecurityHeaderType {
	case SecurityHeaderTypeIntegrityProtected,
		SecurityHeaderTypeIntegrityProtectedNewContext:
		inner, ierr := Peek(pdu[6:])
		if ierr != nil {
			err = errors.Wrap(ierr, "Peek: inner message")
			return
		}
		h.MessageType = inner.MessageType
		if inner.ProtocolDiscriminator != h.ProtocolDiscriminator {
			h.ProtocolDiscriminator = inner.ProtocolDiscriminator
		}
	}
	return
}

// String returns the message name.
func (h Header) String() string {
	name := ""
	switch h.ProtocolDiscriminator {
	case PDEPSMobilityManagement:
		name = emmMessageType[h.MessageType]
	case PDEPSSessionManagement:
		name = esmMessageType[h.MessageType]
	}

	switch {
	case h.SecurityHeaderType == SecurityHeaderTypeServiceRequest:
		name = "Service request"
	case h.Protected && h.MessageType == 0:
		name = "ciphered"
	case name == "":
		name = "unknown"
	}

	if h.Protected {
		return fmt.Sprintf("%s (0x%02x, protected, SN=%d)",
			name, h.MessageType, h.SequenceNumber)
	}
	return fmt.Sprintf("%s (0x%02x)", name, h.MessageType)
}

// Str2BCD converts a string of hex digits to the telephony BCD format,
// the first digit in the low nibble.
func Str2BCD(str string) (bcd []byte) {

	byteArray := []byte(str)
	bcdlen := len(byteArray) / 2
	if len(byteArray)%2 == 1 {
		bcdlen++
	}
	bcd = make([]byte, bcdlen, bcdlen)

	for i, v := range byteArray {

		n, _ := strconv.ParseUint(string(v), 16, 8)
		j := i / 2

		if i%2 == 0 {
			bcd[j] = byte(n)
		} else {
			bcd[j] |= (byte(n) << 4)
		}
	}

	return
}

// BCD2Str is the reverse of Str2BCD. A filler digit 0xf is kept as 'f'.
func BCD2Str(bcd []byte) string {
	const digits = "0123456789abcdef"
	b := make([]byte, 0, len(bcd)*2)
	for _, v := range bcd {
		b = append(b, digits[v&0x0f], digits[v>>4])
	}
	return string(b)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// EncPLMN returns PLMN identity octets defined in
// 3GPP TS 24.008 10.5.1.13 PLMN list, for a 3 digit MCC and a 2 or 3 digit
// MNC.
func EncPLMN(mcc, mnc string) (plmn [3]byte, err error) {

	if len(mcc) != 3 || !isDigits(mcc) {
		err = errors.Errorf("EncPLMN: invalid MCC %q", mcc)
		return
	}
	if (len(mnc) != 2 && len(mnc) != 3) || !isDigits(mnc) {
		err = errors.Errorf("EncPLMN: invalid MNC %q", mnc)
		return
	}

	str := mcc + "f" + mnc
	if len(mnc) == 3 {
		str = mcc + mnc[2:] + mnc[:2]
	}
	copy(plmn[:], Str2BCD(str))
	return
}

// DecPLMN returns MCC and MNC of the PLMN identity octets.
func DecPLMN(plmn [3]byte) (mcc, mnc string) {
	str := BCD2Str(plmn[:])
	mcc = str[0:3]
	if str[3] == 'f' {
		mnc = str[4:6]
		return
	}
	mnc = str[4:6] + str[3:4]
	return
}
