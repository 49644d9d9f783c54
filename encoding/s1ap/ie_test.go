// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package s1ap

import (
	"bytes"
	"encoding/hex"
	"net"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hhorai/mme/encoding/gtp"
	"github.com/hhorai/mme/encoding/per"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gotest.tools/v3/assert"
	"pgregory.net/rapid"
)

func decodeValue(id ProtocolIEID, b []byte, opts Options) (v Value, err error) {
	if v, err = NewValue(id); err != nil {
		return
	}
	err = newDecoder(opts).value(v, b, IEName(id))
	return
}

func encodeValue(v Value) ([]byte, error) {
	c := per.NewWriter()
	if err := v.encode(c); err != nil {
		return nil, err
	}
	if err := c.Align(); err != nil {
		return nil, err
	}
	return c.Bytes(), nil
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	assert.NilError(t, err)
	return b
}

func testPLMN(t *testing.T) PLMNIdentity {
	t.Helper()
	plmn, err := NewPLMNIdentity("244", "07")
	assert.NilError(t, err)
	return plmn
}

// one fixture per registered IE, as the octets of its open type.
var registeredIEFixtures = []struct {
	id  ProtocolIEID
	hex string
}{
	{IDMMEUES1APID, "40 01 00"},
	{IDHandoverType, "10"},
	{IDCause, "24"},
	{IDENBUES1APID, "00 01"},
	{IDERABToBeSetupListCtxtSUReq, "00 00 34 00 0e 05 00 09 3d 0f 80 0a 00 00 01 00 00 00 01"},
	{IDNASPDU, "03 07 41 01"},
	{IDERABSetupItemCtxtSURes, "0a 1f 0a 00 00 02 00 00 00 02"},
	{IDERABSetupListCtxtSURes, "00 00 32 40 0a 0a 1f 0a 00 00 02 00 00 00 02"},
	{IDERABToBeSetupItemCtxtSUReq, "05 00 09 3d 0f 80 0a 00 00 01 00 00 00 01"},
	{IDGlobalENBID, "00 42 f4 70 00 00 00 20"},
	{IDENBname, "01 80 65 6e 62 31"},
	{IDMMEname, "01 00 6d 6d 65"},
	{IDSupportedTAs, "00 00 00 40 42 f4 70"},
	{IDTimeToWait, "30"},
	{IDUEAggregateMaximumBitrate, "18 05 f5 e1 00 60 02 fa f0 80"},
	{IDTAI, "00 42 f4 70 00 01"},
	{IDSecurityKey, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"},
	{IDUERadioCapability, "02 ab cd"},
	{IDGUMMEIID, "00 42 f4 70 80 01 01"},
	{IDRelativeMMECapacity, "ff"},
	{IDSourceMMEUES1APID, "00 01"},
	{IDSTMSI, "00 40 c0 00 00 01"},
	{IDUES1APIDs, "00 01 00 02"},
	{IDEUTRANCGI, "00 42 f4 70 00 00 20 10"},
	{IDServedGUMMEIs, "00 00 42 f4 70 00 00 80 01 00 01"},
	{IDUESecurityCapabilities, "18 00 0c 00 00"},
	{IDCSFallbackIndicator, "80"},
	{IDCNDomain, "80"},
	{IDRRCEstablishmentCause, "30"},
	{IDDefaultPagingDRX, "40"},
}

func TestRegisteredIESymmetry(t *testing.T) {

	covered := map[ProtocolIEID]bool{}

	for _, p := range registeredIEFixtures {
		in := mustHex(t, p.hex)
		v, err := decodeValue(p.id, in, Options{})
		assert.NilError(t, err, "decode %s", IEName(p.id))

		out, err := encodeValue(v)
		assert.NilError(t, err, "encode %s", IEName(p.id))
		if !bytes.Equal(in, out) {
			t.Errorf("%s\nexpect: %02x\nactual: %02x", IEName(p.id), in, out)
		}
		covered[p.id] = true
	}

	for _, id := range RegisteredIEs() {
		assert.Assert(t, covered[id], "no fixture for %s (%d)", IEName(id), id)
	}
}

func TestGlobalENBID(t *testing.T) {

	plmn := testPLMN(t)

	pattern := []struct {
		in     string
		expect GlobalENBID
	}{
		{"00 42 f4 70 00 00 00 20", GlobalENBID{PLMN: plmn, Type: ENBIDMacro, ENBID: 2}},
		{"00 42 f4 70 40 00 00 00 10", GlobalENBID{PLMN: plmn, Type: ENBIDHome, ENBID: 1}},
		{"00 42 f4 70 80 03 00 00 40", GlobalENBID{PLMN: plmn, Type: ENBIDShortMacro, ENBID: 1}},
		{"00 42 f4 70 81 03 00 00 08", GlobalENBID{PLMN: plmn, Type: ENBIDLongMacro, ENBID: 1}},
	}

	for _, p := range pattern {
		in := mustHex(t, p.in)
		v, err := decodeValue(IDGlobalENBID, in, Options{})
		assert.NilError(t, err, "pattern = %v", p)
		if diff := cmp.Diff(&p.expect, v); diff != "" {
			t.Errorf("pattern = %v\n%s", p, diff)
		}

		out, err := encodeValue(&p.expect)
		assert.NilError(t, err)
		assert.DeepEqual(t, in, out)
	}
}

func TestGlobalENBIDUnknownAlternative(t *testing.T) {

	in := mustHex(t, "00 42 f4 70 82 02 ab cd")

	v, err := decodeValue(IDGlobalENBID, in, Options{})
	assert.NilError(t, err)
	id := v.(*GlobalENBID)
	assert.Equal(t, id.Type, ENBIDType(4))
	assert.DeepEqual(t, id.ExtValue, []byte{0xab, 0xcd})

	out, err := encodeValue(v)
	assert.NilError(t, err)
	assert.DeepEqual(t, in, out)

	_, err = decodeValue(IDGlobalENBID, in, Options{Extensions: PolicyAbort})
	var ext *per.ExtensionError
	assert.Assert(t, errors.As(err, &ext), "got %v", err)
}

func TestGlobalENBIDHugeAlternative(t *testing.T) {

	// extension alternative index 2^63-1 in a normally small number
	in := mustHex(t, "00 11 00 17 00 00 01 "+
		"00 3b 00 10 00 42 f4 70 c0 08 7f ff ff ff ff ff ff ff 01 00")

	var err error
	assert.Assert(t, func() (ok bool) {
		defer func() { ok = recover() == nil }()
		_, err = Decode(in)
		return
	}(), "decode panicked")

	var re *per.RangeError
	assert.Assert(t, errors.As(err, &re), "got %v", err)
}

func TestGlobalENBIDPaddedAlternative(t *testing.T) {

	pattern := []struct {
		in string
	}{
		{"00 42 f4 70 80 04 00 00 40 00"},
		{"00 42 f4 70 81 05 00 00 08 00 00"},
	}

	for _, p := range pattern {
		_, err := decodeValue(IDGlobalENBID, mustHex(t, p.in), Options{})
		var se *per.StructuralError
		assert.Assert(t, errors.As(err, &se), "pattern = %v: got %v", p, err)
		assert.ErrorContains(t, err, "trailing octets")
	}
}

func TestGlobalENBIDShowInvalidType(t *testing.T) {

	pattern := []struct {
		typ    ENBIDType
		expect string
	}{
		{-1, "eNB-ID: invalid type -1\n"},
		{ENBIDLongMacro, "long-macroENB-ID: 0x1\n"},
		{5, "eNB-ID extension(3): \n"},
	}

	for _, p := range pattern {
		v := NewGlobalENBID(testPLMN(t), p.typ, 1)
		var buf strings.Builder
		v.Show(NewPrinter(&buf))
		assert.Assert(t, strings.Contains(buf.String(), p.expect),
			"%q not in\n%s", p.expect, buf.String())
	}
}

func TestMacroENBIDProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		enbid := rapid.Uint32Range(0, 1<<20-1).Draw(t, "enbid")
		v := NewGlobalENBID(PLMNIdentity{0x42, 0xf4, 0x70}, ENBIDMacro, enbid)

		b, err := encodeValue(v)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if len(b) != 8 {
			t.Fatalf("expect 8 octets, got %02x", b)
		}
		w, err := decodeValue(IDGlobalENBID, b, Options{})
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got := w.(*GlobalENBID).ENBID; got != enbid {
			t.Fatalf("expect %d, got %d", enbid, got)
		}
	})
}

func TestMMEUES1APIDProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.Uint32().Draw(t, "id")

		b, err := encodeValue(NewMMEUES1APID(id))
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		// count of octets in 2 bits, padding, then the octets
		if n := per.OctetsNonNegativeBinaryInteger(uint64(id)); len(b) != 1+n {
			t.Fatalf("expect %d octets, got %02x", 1+n, b)
		}
		v, err := decodeValue(IDMMEUES1APID, b, Options{})
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got := uint32(*v.(*MMEUES1APID)); got != id {
			t.Fatalf("expect %d, got %d", id, got)
		}
	})
}

func TestInitialUEMessageValues(t *testing.T) {

	plmn := testPLMN(t)

	pattern := []struct {
		v      Value
		expect string
	}{
		{NewENBUES1APID(1), "00 01"},
		{NewTAI(plmn, NewTAC(1)), "00 42 f4 70 00 01"},
		{NewEUTRANCGI(plmn, 0x0000201), "00 42 f4 70 00 00 20 10"},
		{NewRRCEstablishmentCause(RRCEstablishmentCauseMOSignalling), "30"},
		{NewPagingDRX(PagingDRXv128), "40"},
		{NewCause(CauseGroupNAS, CauseNASNormalRelease), "20"},
		{&UES1APIDs{MMEUES1APID: 1}, "40 01"},
		{NewUES1APIDPair(1, 2), "00 01 00 02"},
		{NewUESecurityCapabilities(0xc000, 0xc000), "18 00 0c 00 00"},
		{NewUEAggregateMaximumBitrate(100000000, 50000000), "18 05 f5 e1 00 60 02 fa f0 80"},
	}

	for _, p := range pattern {
		b, err := encodeValue(p.v)
		assert.NilError(t, err, "pattern = %T", p.v)
		assert.DeepEqual(t, b, mustHex(t, p.expect))
	}
}

func TestMMEUES1APIDField(t *testing.T) {

	in := mustHex(t, "00 00 00 03 40 01 00")

	ie, err := newDecoder(Options{}).field(per.NewReader(in), false)
	assert.NilError(t, err)
	assert.Equal(t, ie.ID, IDMMEUES1APID)
	assert.Equal(t, ie.Criticality, CriticalityReject)
	assert.Equal(t, uint32(*ie.Value.(*MMEUES1APID)), uint32(256))

	c := per.NewWriter()
	assert.NilError(t, encField(c, ie))
	assert.DeepEqual(t, c.Bytes(), in)
}

func TestFieldTrailingOctets(t *testing.T) {
	in := mustHex(t, "00 00 00 04 40 01 00 00")

	_, err := newDecoder(Options{}).field(per.NewReader(in), false)
	var se *per.StructuralError
	assert.Assert(t, errors.As(err, &se), "got %v", err)
}

func TestFieldUnsupportedIE(t *testing.T) {

	in := mustHex(t, "27 0f 40 02 ab cd")

	_, err := newDecoder(Options{}).field(per.NewReader(in), false)
	var ue *UnsupportedIEError
	assert.Assert(t, errors.As(err, &ue), "got %v", err)
	assert.Equal(t, ue.ID, ProtocolIEID(9999))

	logger, hook := test.NewNullLogger()
	SetLogger(logger)
	defer SetLogger(logrus.StandardLogger())

	ie, err := newDecoder(Options{UnsupportedIE: PolicySkip}).field(per.NewReader(in), false)
	assert.NilError(t, err)
	assert.Equal(t, ie.Criticality, CriticalityIgnore)
	assert.DeepEqual(t, ie.Value, &RawValue{Bytes: []byte{0xab, 0xcd}})
	assert.Equal(t, hook.LastEntry().Message, "unsupported IE kept opaque")

	c := per.NewWriter()
	assert.NilError(t, encField(c, ie))
	assert.DeepEqual(t, c.Bytes(), in)
}

func TestExtensionAdditions(t *testing.T) {

	// TAI with one extension addition of one octet
	in := mustHex(t, "80 42 f4 70 00 01 01 01 ff")

	logger, hook := test.NewNullLogger()
	SetLogger(logger)
	defer SetLogger(logrus.StandardLogger())

	v, err := decodeValue(IDTAI, in, Options{})
	assert.NilError(t, err)
	assert.Equal(t, v.(*TAI).TAC.Uint16(), uint16(1))
	assert.Equal(t, hook.LastEntry().Level, logrus.WarnLevel)
	assert.Equal(t, hook.LastEntry().Data["skipped"], 1)

	out, err := encodeValue(v)
	assert.NilError(t, err)
	assert.DeepEqual(t, out, mustHex(t, "00 42 f4 70 00 01"))

	_, err = decodeValue(IDTAI, in, Options{Extensions: PolicyAbort})
	var ext *per.ExtensionError
	assert.Assert(t, errors.As(err, &ext), "got %v", err)
}

func TestProtocolExtensionContainer(t *testing.T) {

	// TAI with iE-Extensions holding one field id=300 ignore
	in := mustHex(t, "40 42 f4 70 00 01 00 00 01 2c 40 01 55")

	v, err := decodeValue(IDTAI, in, Options{})
	assert.NilError(t, err)
	tai := v.(*TAI)
	assert.Assert(t, tai.Extensions != nil)
	assert.Equal(t, tai.Extensions.Len(), 1)
	ie := tai.Extensions.Find(300)
	assert.Assert(t, ie != nil)
	assert.DeepEqual(t, ie.Value, &RawValue{Bytes: []byte{0x55}})

	out, err := encodeValue(v)
	assert.NilError(t, err)
	assert.DeepEqual(t, in, out)

	v.Free()
	assert.Assert(t, tai.Extensions == nil)
}

func TestContainerBound(t *testing.T) {

	ct := NewContainer(2)
	for i := 0; i < 2; i++ {
		ie, err := NewIE(IDENBUES1APID, NewENBUES1APID(uint32(i)))
		assert.NilError(t, err)
		assert.NilError(t, ct.AddIE(ie))
	}

	ie, err := NewIE(IDENBUES1APID, NewENBUES1APID(2))
	assert.NilError(t, err)
	err = ct.AddIE(ie)
	var re *per.RangeError
	assert.Assert(t, errors.As(err, &re), "got %v", err)
	assert.Equal(t, re.Value, int64(3))
	assert.Equal(t, ct.Len(), 2)
}

func TestContainerFindTake(t *testing.T) {

	ct := NewContainer(maxProtocolIEs)
	for _, id := range []uint32{1, 2} {
		ie, err := NewIE(IDENBUES1APID, NewENBUES1APID(id))
		assert.NilError(t, err)
		assert.NilError(t, ct.AddIE(ie))
	}

	ie := ct.Find(IDENBUES1APID)
	assert.Equal(t, uint32(*ie.Value.(*ENBUES1APID)), uint32(1))
	assert.Assert(t, ct.Find(IDMMEUES1APID) == nil)

	before := ct.IEs()
	taken := ct.Take(IDENBUES1APID)
	assert.Equal(t, taken, ie)
	assert.Equal(t, ct.Len(), 1)
	// the vacated slot no longer holds the second IE
	assert.Assert(t, before[1] == nil)
	assert.Equal(t, uint32(*ct.Find(IDENBUES1APID).Value.(*ENBUES1APID)), uint32(2))
	assert.Assert(t, ct.Take(IDMMEUES1APID) == nil)

	ct.Free()
	assert.Equal(t, ct.Len(), 0)
	assert.Equal(t, uint32(*taken.Value.(*ENBUES1APID)), uint32(1))
}

func TestContainerAddNil(t *testing.T) {

	ct := NewContainer(maxProtocolIEs)
	assert.ErrorContains(t, ct.AddIE(nil), "nil IE")
	assert.ErrorContains(t, ct.AddIE(&IE{ID: IDENBUES1APID}), "nil IE")
	assert.Equal(t, ct.Len(), 0)

	c := per.NewWriter()
	assert.NilError(t, ct.encode(c))
}

func TestNewIE(t *testing.T) {

	ie, err := NewIE(IDCNDomain, new(CNDomain))
	assert.NilError(t, err)
	assert.Equal(t, ie.Criticality, CriticalityIgnore)
	assert.Equal(t, ie.Presence, PresenceMandatory)

	_, err = NewIE(IDTAI, NewENBUES1APID(1))
	assert.ErrorContains(t, err, "id-TAI takes")

	_, err = NewIE(9999, NewENBUES1APID(1))
	var ue *UnsupportedIEError
	assert.Assert(t, errors.As(err, &ue))

	_, err = NewIE(IDTAI, nil)
	assert.ErrorContains(t, err, "has no value")

	assert.Equal(t, IEName(9999), "id-unknown")
}

func TestERABToBeSetupList(t *testing.T) {

	f := gtp.NewFTEID(net.ParseIP("10.0.0.1"), 1)
	item, err := NewERABToBeSetupItemCtxtSUReq(5, 9, f)
	assert.NilError(t, err)
	item.QoS.ARP = AllocationAndRetentionPriority{
		PriorityLevel:           15,
		PreEmptionCapability:    PreEmptionShallNotTrigger,
		PreEmptionVulnerability: PreEmptionPreEmptable,
	}

	list, err := NewERABToBeSetupListCtxtSUReq(item)
	assert.NilError(t, err)
	b, err := encodeValue(list)
	assert.NilError(t, err)
	assert.DeepEqual(t, b, mustHex(t,
		"00 00 34 00 0e 05 00 09 3d 0f 80 0a 00 00 01 00 00 00 01"))

	v, err := decodeValue(IDERABToBeSetupListCtxtSUReq, b, Options{})
	assert.NilError(t, err)
	got := v.(*Container).Find(IDERABToBeSetupItemCtxtSUReq).Value.(*ERABToBeSetupItemCtxtSUReq)
	g, err := got.FTEID()
	assert.NilError(t, err)
	assert.Equal(t, g.String(), "10.0.0.1:0x00000001")

	empty, err := NewERABSetupListCtxtSURes()
	assert.NilError(t, err)
	_, err = encodeValue(empty)
	var re *per.RangeError
	assert.Assert(t, errors.As(err, &re), "got %v", err)
}

func TestERABWithGBRAndNAS(t *testing.T) {

	item := &ERABToBeSetupItemCtxtSUReq{
		ERABID: 16,
		QoS: ERABLevelQoSParameters{
			QCI: 1,
			GBR: &GBRQosInformation{
				MaximumBitrateDL:    maxBitRate,
				MaximumBitrateUL:    1,
				GuaranteedBitrateDL: 0,
				GuaranteedBitrateUL: 256,
			},
		},
		TransportLayerAddress: BitString{Bytes: make([]byte, 20), BitLen: 160},
		GTPTEID:               [4]byte{1, 2, 3, 4},
		NASPDU:                []byte{0x27, 0x01, 0x02, 0x03, 0x04, 0x05, 0x07, 0x62},
	}

	b, err := encodeValue(item)
	assert.NilError(t, err)

	v, err := decodeValue(IDERABToBeSetupItemCtxtSUReq, b, Options{})
	assert.NilError(t, err)
	if diff := cmp.Diff(item, v); diff != "" {
		t.Error(diff)
	}

	v.Free()
	assert.Assert(t, v.(*ERABToBeSetupItemCtxtSUReq).NASPDU == nil)
	assert.Assert(t, v.(*ERABToBeSetupItemCtxtSUReq).QoS.GBR == nil)
}

func TestCauseExtensionAlternative(t *testing.T) {

	// extension alternative 0 of Cause carrying one octet
	in := mustHex(t, "80 01 55")

	v, err := decodeValue(IDCause, in, Options{})
	assert.NilError(t, err)
	cause := v.(*Cause)
	assert.Equal(t, cause.Group, CauseGroupExtension)
	assert.DeepEqual(t, cause.ExtValue, []byte{0x55})

	out, err := encodeValue(v)
	assert.NilError(t, err)
	assert.DeepEqual(t, in, out)
}

func TestNASPDUFree(t *testing.T) {
	raw := []byte{0x07, 0x41, 0x01}
	v := NewNASPDU(raw)
	b := []byte(*v)
	v.Free()
	assert.Assert(t, *v == nil)
	assert.DeepEqual(t, b, []byte{0, 0, 0})
	assert.DeepEqual(t, raw, []byte{0x07, 0x41, 0x01})
}
