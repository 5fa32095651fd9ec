// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import "github.com/prometheus/client_golang/prometheus"

// transportMetrics is the optional instrumentation component named in
// SPEC_FULL.md §3, grounded on the prometheus/client_golang usage in
// AlexAQ972-FASST-LLM (zmap/zgrab2) and runZeroInc-conniver
// (go-tcpinfo). Registration is opt-in: a Transport constructed without
// a MetricsRegisterer gets a metrics value whose methods are safe
// no-ops.
type transportMetrics struct {
	packetsSent     *prometheus.CounterVec
	packetsReceived *prometheus.CounterVec
	rekeys          prometheus.Counter
	macFailures     prometheus.Counter
	sequenceOut     prometheus.Gauge
	sequenceIn      prometheus.Gauge
}

func newTransportMetrics(reg prometheus.Registerer) *transportMetrics {
	if reg == nil {
		return nil
	}
	m := &transportMetrics{
		packetsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gossh",
			Name:      "packets_sent_total",
			Help:      "Packets written to the wire by message type.",
		}, []string{"type"}),
		packetsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gossh",
			Name:      "packets_received_total",
			Help:      "Packets read from the wire by message type.",
		}, []string{"type"}),
		rekeys: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gossh",
			Name:      "rekeys_total",
			Help:      "Completed key exchanges, the initial one included.",
		}),
		macFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gossh",
			Name:      "mac_failures_total",
			Help:      "Inbound records that failed MAC verification.",
		}),
		sequenceOut: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gossh",
			Name:      "sequence_number_outbound",
			Help:      "Current outbound sequence number.",
		}),
		sequenceIn: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gossh",
			Name:      "sequence_number_inbound",
			Help:      "Current inbound sequence number.",
		}),
	}
	reg.MustRegister(m.packetsSent, m.packetsReceived, m.rekeys, m.macFailures, m.sequenceOut, m.sequenceIn)
	return m
}

func (m *transportMetrics) sent(msgType byte) {
	if m == nil {
		return
	}
	m.packetsSent.WithLabelValues(messageTypeName(msgType)).Inc()
}

func (m *transportMetrics) received(msgType byte) {
	if m == nil {
		return
	}
	m.packetsReceived.WithLabelValues(messageTypeName(msgType)).Inc()
}

func (m *transportMetrics) rekeyed() {
	if m == nil {
		return
	}
	m.rekeys.Inc()
}

func (m *transportMetrics) macFailed() {
	if m == nil {
		return
	}
	m.macFailures.Inc()
}

func (m *transportMetrics) observeSequence(out, in uint32) {
	if m == nil {
		return
	}
	m.sequenceOut.Set(float64(out))
	m.sequenceIn.Set(float64(in))
}

func messageTypeName(msgType byte) string {
	switch msgType {
	case msgDisconnect:
		return "disconnect"
	case msgIgnore:
		return "ignore"
	case msgKexInit:
		return "kexinit"
	case msgNewKeys:
		return "newkeys"
	case msgKexDHGexRequest:
		return "gex_request"
	case msgKexDHGexGroup:
		return "gex_group"
	case msgKexDHGexInit:
		return "gex_init"
	case msgKexDHGexReply:
		return "gex_reply"
	case msgUserAuthRequest:
		return "userauth_request"
	default:
		return "unknown"
	}
}
