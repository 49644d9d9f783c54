// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package main

import (
	"fmt"
	"sync"

	"github.com/hhorai/mme/encoding/s1ap"
	"github.com/sirupsen/logrus"
)

// Handler receives every PDU decoded on an association. The message is
// freed after HandleMessage returns; IEs that must outlive it are taken
// with Message.Take.
type Handler interface {
	HandleMessage(a *Association, m *s1ap.Message) error
	Closed(a *Association)
}

// enb is what an eNB announced in its S1 Setup Request.
type enb struct {
	PLMN   s1ap.PLMNIdentity
	Type   s1ap.ENBIDType
	ID     uint32
	Name   string
	TACs   []uint16
	DRX    s1ap.PagingDRX
	HasDRX bool
}

func newENB(m *s1ap.Message) (e enb, err error) {

	ie := m.Find(s1ap.IDGlobalENBID)
	if ie == nil {
		err = fmt.Errorf("S1SetupRequest without Global-ENB-ID")
		return
	}
	id := ie.Value.(*s1ap.GlobalENBID)
	e.PLMN, e.Type, e.ID = id.PLMN, id.Type, id.ENBID

	if ie := m.Find(s1ap.IDENBname); ie != nil {
		e.Name = string(*ie.Value.(*s1ap.ENBname))
	}
	if ie := m.Find(s1ap.IDSupportedTAs); ie != nil {
		for _, ta := range ie.Value.(*s1ap.SupportedTAs).Items {
			e.TACs = append(e.TACs, ta.TAC.Uint16())
		}
	}
	if ie := m.Find(s1ap.IDDefaultPagingDRX); ie != nil {
		e.DRX, e.HasDRX = *ie.Value.(*s1ap.PagingDRX), true
	}
	return
}

func (e enb) fields() logrus.Fields {
	f := logrus.Fields{
		"plmn":  e.PLMN.String(),
		"enbID": fmt.Sprintf("0x%x", e.ID),
		"tacs":  e.TACs,
	}
	if e.Name != "" {
		f["enbName"] = e.Name
	}
	return f
}

type enbTable struct {
	mu   sync.Mutex
	enbs map[uint64]enb
}

func newENBTable() *enbTable {
	return &enbTable{enbs: map[uint64]enb{}}
}

func (t *enbTable) set(assoc uint64, e enb) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enbs[assoc] = e
}

func (t *enbTable) get(assoc uint64) (e enb, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok = t.enbs[assoc]
	return
}

func (t *enbTable) remove(assoc uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.enbs, assoc)
}

func (t *enbTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.enbs)
}

// logHandler logs each message and remembers the eNB behind every
// association. It never answers.
type logHandler struct {
	enbs *enbTable
}

func newLogHandler() *logHandler {
	return &logHandler{enbs: newENBTable()}
}

func (h *logHandler) HandleMessage(a *Association, m *s1ap.Message) error {

	log := a.Log
	if e, ok := h.enbs.get(a.ID); ok {
		log = log.WithField("enbID", fmt.Sprintf("0x%x", e.ID))
	}

	if m.Extended {
		log.Info("S1AP-PDU extension alternative ignored")
		return nil
	}

	log.WithFields(logrus.Fields{
		"procedure": m.PDU.ProcedureCode.String(),
		"type":      m.Choice.String(),
		"ies":       m.PDU.Value.Len(),
	}).Info("received")

	if m.Choice == s1ap.InitiatingMessage &&
		m.PDU.ProcedureCode == s1ap.ProcS1Setup {
		e, err := newENB(m)
		if err != nil {
			return err
		}
		h.enbs.set(a.ID, e)
		log.WithFields(e.fields()).WithField("enbs", h.enbs.len()).
			Info("eNB announced")
	}
	return nil
}

func (h *logHandler) Closed(a *Association) {
	h.enbs.remove(a.ID)
}
