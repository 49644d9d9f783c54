// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package main

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/hhorai/mme/encoding/s1ap"
	"gotest.tools/v3/assert"
)

var testS1SetupRequest = "00 11 00 1f 00 00 03 " +
	"00 3b 00 08 00 42 f4 70 00 00 00 20 " +
	"00 40 00 07 00 00 00 40 42 f4 70 " +
	"00 89 40 01 40"

func testConfig() enbConfig {
	return enbConfig{
		mcc:    "244",
		mnc:    "07",
		enbID:  2,
		tac:    1,
		drx:    "v128",
		cellID: 0x201,
	}
}

func TestMessages(t *testing.T) {

	cfg := testConfig()
	msgs, err := cfg.messages()
	assert.NilError(t, err)
	assert.Equal(t, len(msgs), 1)
	defer msgs[0].Free()

	b, err := s1ap.Encode(msgs[0])
	assert.NilError(t, err)
	expect, err := hex.DecodeString(strings.ReplaceAll(testS1SetupRequest, " ", ""))
	assert.NilError(t, err)
	assert.DeepEqual(t, b, expect)
}

func TestMessagesWithNAS(t *testing.T) {

	cfg := testConfig()
	cfg.name = "enb"
	cfg.nas = "074101"
	msgs, err := cfg.messages()
	assert.NilError(t, err)
	assert.Equal(t, len(msgs), 2)

	assert.Equal(t, msgs[0].PDU.Value.Len(), 4)
	assert.Equal(t, string(*msgs[0].Find(s1ap.IDENBname).Value.(*s1ap.ENBname)), "enb")

	ue := msgs[1]
	assert.Equal(t, ue.PDU.ProcedureCode, s1ap.ProcInitialUEMessage)
	assert.Equal(t, ue.PDU.Value.Len(), 5)
	assert.DeepEqual(t, []byte(*ue.Find(s1ap.IDNASPDU).Value.(*s1ap.NASPDU)),
		[]byte{0x07, 0x41, 0x01})

	for _, m := range msgs {
		_, err := s1ap.Encode(m)
		assert.NilError(t, err)
		m.Free()
	}
}

func TestMessagesErrors(t *testing.T) {

	pattern := []struct {
		modify func(cfg *enbConfig)
		expect string
	}{
		{func(cfg *enbConfig) { cfg.drx = "v16" }, "unknown paging DRX"},
		{func(cfg *enbConfig) { cfg.mcc = "24a" }, "invalid MCC"},
		{func(cfg *enbConfig) { cfg.nas = "zz" }, "invalid byte"},
	}

	for _, p := range pattern {
		cfg := testConfig()
		p.modify(&cfg)
		_, err := cfg.messages()
		assert.ErrorContains(t, err, p.expect, "config %+v", cfg)
	}
}
