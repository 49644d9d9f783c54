// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package main

import (
	"encoding/hex"
	"net"
	"os"
	"strings"

	"github.com/hhorai/mme/encoding/s1ap"
	"github.com/ishidawataru/sctp"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
)

type enbConfig struct {
	mcc, mnc string
	enbID    uint32
	name     string
	tac      uint16
	drx      string
	cellID   uint32
	nas      string
}

func main() {
	var ip = flag.String("ip", "localhost", "destination ip address")
	var port = flag.Int("port", s1ap.Port, "destination port")
	var lport = flag.Int("lport", 0, "local port")
	var wait = flag.Bool("wait", false, "wait for an answer after each message")

	var cfg enbConfig
	flag.StringVar(&cfg.mcc, "mcc", "001", "mobile country code")
	flag.StringVar(&cfg.mnc, "mnc", "01", "mobile network code")
	flag.Uint32Var(&cfg.enbID, "enbid", 1, "macro eNB ID")
	flag.StringVar(&cfg.name, "name", "", "eNB name")
	flag.Uint16Var(&cfg.tac, "tac", 1, "tracking area code")
	flag.StringVar(&cfg.drx, "drx", "v128", "default paging DRX")
	flag.Uint32Var(&cfg.cellID, "cellid", 0x10, "E-UTRAN cell identity")
	flag.StringVar(&cfg.nas, "nas", "", "hex NAS-PDU sent in an Initial UE Message")

	flag.Parse()

	log := logrus.New()

	ips := []net.IPAddr{}
	for _, i := range strings.Split(*ip, ",") {
		a, err := net.ResolveIPAddr("ip", i)
		if err != nil {
			log.Fatalf("failed to resolve %s: %v", i, err)
		}
		ips = append(ips, *a)
	}

	addr := &sctp.SCTPAddr{
		IPAddrs: ips,
		Port:    *port,
	}

	var laddr *sctp.SCTPAddr
	if *lport != 0 {
		laddr = &sctp.SCTPAddr{
			Port: *lport,
		}
	}

	conn, err := sctp.DialSCTP("sctp", laddr, addr)
	if err != nil {
		log.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()
	log.Infof("Dial LocalAddr: %s; RemoteAddr: %s", conn.LocalAddr(), conn.RemoteAddr())

	info := &sctp.SndRcvInfo{
		Stream: 0,
		PPID:   s1ap.PPID << 24, // Paylod Protocol Identifier: S1AP(18)
	}
	conn.SubscribeEvents(sctp.SCTP_EVENT_DATA_IO)

	msgs, err := cfg.messages()
	if err != nil {
		log.Fatal(err)
	}

	for _, m := range msgs {
		send(log, conn, info, m)
		m.Free()
		if *wait {
			recv(log, conn)
		}
	}
}

func (cfg *enbConfig) messages() (msgs []*s1ap.Message, err error) {

	plmn, err := s1ap.NewPLMNIdentity(cfg.mcc, cfg.mnc)
	if err != nil {
		return
	}
	drx, err := s1ap.ParsePagingDRX(cfg.drx)
	if err != nil {
		return
	}

	m := s1ap.NewMessage(s1ap.InitiatingMessage, s1ap.ProcS1Setup)
	msgs = append(msgs, m)
	err = m.Add(s1ap.IDGlobalENBID,
		s1ap.NewGlobalENBID(plmn, s1ap.ENBIDMacro, cfg.enbID))
	if err != nil {
		return
	}
	if cfg.name != "" {
		if err = m.Add(s1ap.IDENBname, s1ap.NewENBname(cfg.name)); err != nil {
			return
		}
	}
	err = m.Add(s1ap.IDSupportedTAs, &s1ap.SupportedTAs{
		Items: []s1ap.SupportedTAsItem{
			{TAC: s1ap.NewTAC(cfg.tac), BroadcastPLMNs: []s1ap.PLMNIdentity{plmn}},
		},
	})
	if err != nil {
		return
	}
	if err = m.Add(s1ap.IDDefaultPagingDRX, s1ap.NewPagingDRX(drx)); err != nil {
		return
	}

	if cfg.nas == "" {
		return
	}
	pdu, err := hex.DecodeString(cfg.nas)
	if err != nil {
		return
	}

	m = s1ap.NewMessage(s1ap.InitiatingMessage, s1ap.ProcInitialUEMessage)
	msgs = append(msgs, m)
	if err = m.Add(s1ap.IDENBUES1APID, s1ap.NewENBUES1APID(1)); err != nil {
		return
	}
	if err = m.Add(s1ap.IDNASPDU, s1ap.NewNASPDU(pdu)); err != nil {
		return
	}
	if err = m.Add(s1ap.IDTAI, s1ap.NewTAI(plmn, s1ap.NewTAC(cfg.tac))); err != nil {
		return
	}
	if err = m.Add(s1ap.IDEUTRANCGI, s1ap.NewEUTRANCGI(plmn, cfg.cellID)); err != nil {
		return
	}
	err = m.Add(s1ap.IDRRCEstablishmentCause,
		s1ap.NewRRCEstablishmentCause(s1ap.RRCEstablishmentCauseMOSignalling))
	return
}

func send(log *logrus.Logger, conn *sctp.SCTPConn, info *sctp.SndRcvInfo,
	m *s1ap.Message) {

	m.Show(s1ap.NewPrinter(os.Stdout))
	sendbuf, err := s1ap.Encode(m)
	if err != nil {
		log.Fatalf("failed to encode: %v", err)
	}

	n, err := conn.SCTPWrite(sendbuf, info)
	if err != nil {
		log.Fatalf("failed to write: %v", err)
	}
	log.Infof("write: len %d", n)
}

func recv(log *logrus.Logger, conn *sctp.SCTPConn) {

	buf := make([]byte, 1500)
	n, info, err := conn.SCTPRead(buf)
	if err != nil {
		log.Fatalf("failed to read: %v", err)
	}

	log.Infof("read: len %d, info: %+v", n, info)
	buf = buf[:n]
	log.Infof("dump: %x", buf)

	m, err := s1ap.Decode(buf)
	if err != nil {
		log.Errorf("failed to decode: %v", err)
		return
	}
	defer m.Free()
	m.Show(s1ap.NewPrinter(os.Stdout))
}
