// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package main

import (
	"context"
	"encoding/hex"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hhorai/mme/encoding/s1ap"
	"github.com/ishidawataru/sctp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Paylod Protocol Identifier: S1AP(18), in network byte order.
const s1apPPID = s1ap.PPID << 24

// Association is one SCTP association with an eNB.
type Association struct {
	ID   uint64
	Peer net.Addr
	Log  logrus.FieldLogger
}

type server struct {
	opts    s1ap.Options
	bufSize int
	log     *logrus.Logger
	metrics *metrics
	handler Handler

	ln     *sctp.SCTPListener
	nextID uint64
	wg     sync.WaitGroup
}

func listenS1MME(addrs []net.IPAddr, port int) (ln *sctp.SCTPListener, err error) {

	addr := &sctp.SCTPAddr{
		IPAddrs: addrs,
		Port:    port,
	}

	ln, err = sctp.ListenSCTP("sctp", addr)
	if err != nil {
		err = errors.Wrapf(err, "failed to listen on sctp port %d", port)
	}
	return
}

func newServer(cfg config, log *logrus.Logger, m *metrics, h Handler) (
	s *server, err error) {

	s = &server{
		bufSize: cfg.S1MME.ReadBuffer,
		log:     log,
		metrics: m,
		handler: h,
	}
	s.opts, err = cfg.options()
	return
}

// Serve accepts associations on ln until ctx is done, then waits for
// every association to close.
func (s *server) Serve(ctx context.Context, ln *sctp.SCTPListener) error {

	s.ln = ln
	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()

	s.log.WithField("addr", ln.Addr()).Info("S1-MME listening")
	for {
		conn, err := s.ln.AcceptSCTP()
		if err != nil {
			if ctx.Err() != nil {
				s.wg.Wait()
				return nil
			}
			return errors.Wrap(err, "failed to accept association")
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveAssociation(ctx, conn)
		}()
	}
}

func (s *server) serveAssociation(ctx context.Context, conn *sctp.SCTPConn) {

	a := &Association{
		ID:   atomic.AddUint64(&s.nextID, 1),
		Peer: conn.RemoteAddr(),
	}
	a.Log = s.log.WithFields(logrus.Fields{
		"assoc": a.ID,
		"peer":  a.Peer,
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	s.metrics.associations.Inc()
	defer s.metrics.associations.Dec()
	defer s.handler.Closed(a)
	defer conn.Close()

	a.Log.Info("association up")
	if err := conn.SubscribeEvents(sctp.SCTP_EVENT_DATA_IO); err != nil {
		a.Log.WithError(err).Warn("failed to subscribe sctp events")
	}

	buf := make([]byte, s.bufSize)
	for {
		n, info, err := conn.SCTPRead(buf)
		if err != nil {
			if err == io.EOF || ctx.Err() != nil {
				a.Log.Info("association down")
			} else {
				a.Log.WithError(err).Warn("association aborted")
			}
			return
		}
		if info != nil && info.PPID != 0 && info.PPID != s1apPPID {
			a.Log.WithField("ppid", info.PPID).Warn("not an S1AP payload")
			s.metrics.failed(resultBadPPID)
			continue
		}
		s.receive(a, buf[:n])
	}
}

// receive decodes one datagram and hands it to the handler.
func (s *server) receive(a *Association, b []byte) {

	start := time.Now()
	m, err := s1ap.DecodeWithOptions(b, s.opts)
	s.metrics.decodeSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		a.Log.WithError(err).WithField("pdu", hex.EncodeToString(b)).
			Warn("failed to decode S1AP-PDU")
		s.metrics.failed(resultError)
		return
	}
	defer m.Free()
	s.metrics.received(m)

	if s.log.IsLevelEnabled(logrus.DebugLevel) {
		var dump strings.Builder
		m.Show(s1ap.NewPrinter(&dump))
		a.Log.Debug("\n" + dump.String())
	}

	if err := s.handler.HandleMessage(a, m); err != nil {
		a.Log.WithError(err).Warn("handler failed")
	}
}
