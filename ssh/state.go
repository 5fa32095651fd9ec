// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

// state is the transport's position in the handshake/operation
// lifecycle (spec.md §4.6). Reified as an explicit type, unlike the
// teacher's implicit control flow in handshake(), because rekey()
// re-enters key exchange from Operational and every inbound packet
// during a rekey still has to be checked against KexInFlight's legal
// set.
type state int

const (
	stateInitial state = iota
	stateVersionDone
	stateKexInFlight
	stateOperational
)

func (s state) String() string {
	switch s {
	case stateInitial:
		return "Initial"
	case stateVersionDone:
		return "VersionDone"
	case stateKexInFlight:
		return "KexInFlight"
	case stateOperational:
		return "Operational"
	default:
		return "Unknown"
	}
}

// legalInbound is the fixed table of packet types a state accepts,
// beyond IGNORE which is absorbed unconditionally at every state
// (spec.md §4.6, §7). DEBUG is not in the packet registry and has no
// exemption: it is rejected as unexpected in every state. DISCONNECT is
// legal everywhere and terminates the
// session, so it is not listed per-state — the state machine checks it
// first.
var legalInbound = map[state]map[byte]bool{
	stateVersionDone: {
		msgKexInit: true,
	},
	stateKexInFlight: {
		msgKexInit:         true,
		msgKexDHGexGroup:   true,
		msgKexDHGexReply:   true,
		msgNewKeys:         true,
		msgKexDHGexRequest: true,
		msgKexDHGexInit:    true,
	},
	stateOperational: {
		msgKexInit:         true,
		msgUserAuthRequest: true,
	},
}

// checkLegal enforces the per-state legality table. IGNORE is always
// legal (absorbed, never surfaced); DISCONNECT is always legal
// (terminates the session).
func checkLegal(s state, msgType byte) error {
	if msgType == msgIgnore || msgType == msgDisconnect {
		return nil
	}
	allowed, ok := legalInbound[s]
	if !ok || !allowed[msgType] {
		return errUnexpectedPacket(s, msgType)
	}
	return nil
}
