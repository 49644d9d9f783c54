// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/hhorai/mme/encoding/s1ap"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	resultOK       = "ok"
	resultError    = "error"
	resultBadPPID  = "bad_ppid"
	procUnknown    = "unknown"
	metricsTimeout = 5 * time.Second
)

type metrics struct {
	pdus          *prometheus.CounterVec
	decodeSeconds prometheus.Histogram
	associations  prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		pdus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mme",
			Subsystem: "s1ap",
			Name:      "pdus_received_total",
			Help:      "S1AP PDUs received on S1-MME by procedure and result.",
		}, []string{"procedure", "type", "result"}),
		decodeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mme",
			Subsystem: "s1ap",
			Name:      "decode_duration_seconds",
			Help:      "Time spent decoding one S1AP PDU.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 8),
		}),
		associations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mme",
			Subsystem: "s1ap",
			Name:      "associations",
			Help:      "SCTP associations currently open.",
		}),
	}
	reg.MustRegister(m.pdus, m.decodeSeconds, m.associations)
	return m
}

func (m *metrics) received(msg *s1ap.Message) {
	if msg.Extended {
		m.pdus.WithLabelValues(procUnknown, procUnknown, resultOK).Inc()
		return
	}
	m.pdus.WithLabelValues(msg.PDU.ProcedureCode.String(),
		msg.Choice.String(), resultOK).Inc()
}

func (m *metrics) failed(result string) {
	m.pdus.WithLabelValues(procUnknown, procUnknown, result).Inc()
}

// serveMetrics exposes reg on addr until ctx is done.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry,
	log logrus.FieldLogger) {

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsTimeout,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), metricsTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.WithError(err).Warn("metrics server shutdown")
		}
	}()

	log.WithField("addr", addr).Info("serving metrics")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Error("metrics server stopped")
	}
}
