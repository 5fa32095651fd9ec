// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"context"
	"errors"
	"fmt"

	"github.com/gravitational/trace"
)

// Cancelled is returned by Read/Write when the caller's context was
// cancelled between packet boundaries. It is context.Canceled itself so
// callers can use errors.Is without importing this package's taxonomy.
var Cancelled = context.Canceled

// errConnectionClosed is returned when the peer closed the byte stream
// (a zero-length read) and also when the peer sent DISCONNECT. For a
// DISCONNECT the reason code and message are logged, not returned: the
// DisconnectMsg itself is not handed to the caller of Read.
func errConnectionClosed() error {
	return trace.ConnectionProblem(nil, "ssh: connection closed by peer")
}

// errIO wraps a transport-level read/write failure.
func errIO(err error) error {
	return trace.ConnectionProblem(err, "ssh: i/o error")
}

// errShortRead is returned by the wire codec when the input ends before
// a fixed-width or length-prefixed field is fully present.
func errShortRead(what string) error {
	return trace.ConnectionProblem(nil, "ssh: short read decoding %s", what)
}

// errMalformed is returned when a decoded value violates a fixed
// invariant of its encoding (e.g. a non-minimal mpint).
func errMalformed(format string, args ...interface{}) error {
	return trace.BadParameter("ssh: malformed %s", fmt.Sprintf(format, args...))
}

// errUnknownPacket is returned by the packet registry on an
// unrecognised message type.
func errUnknownPacket(msgType byte) error {
	return trace.BadParameter("ssh: unknown packet type %d", msgType)
}

// errVersionMismatch is returned by the version exchange sublayer.
func errVersionMismatch(line string) error {
	return trace.ConnectionProblem(nil, "ssh: bad identification string %q", line)
}

// errNoCommonAlgorithm is returned when algorithm negotiation fails to
// find a common choice for some slot.
func errNoCommonAlgorithm(slot string) error {
	return trace.BadParameter("ssh: no common algorithm for %s", slot)
}

// errDHParameterOutOfRange is returned when a GEX group or public value
// falls outside the range the protocol requires.
func errDHParameterOutOfRange(what string) error {
	return trace.BadParameter("ssh: dh parameter out of range: %s", what)
}

// errHostKeyRejected is returned when the caller's verifier callback, or
// signature verification itself, rejects the host key.
func errHostKeyRejected(reason string) error {
	return trace.AccessDenied("ssh: host key rejected: %s", reason)
}

// errMacMismatchSentinel identifies a MAC-verification failure
// underneath whatever trace wraps it, so callers that need to
// distinguish it from other transport errors (e.g. for metrics) can
// use errors.Is instead of matching on message text.
var errMacMismatchSentinel = errors.New("ssh: MAC mismatch")

// errMacMismatch is returned by the record layer on MAC verification
// failure. The session is unrecoverable once this occurs.
func errMacMismatch() error {
	return trace.Wrap(errMacMismatchSentinel)
}

// isMacMismatch reports whether err is (or wraps) a MAC-verification
// failure, as opposed to an I/O error, oversized packet, or short read.
func isMacMismatch(err error) bool {
	return errors.Is(err, errMacMismatchSentinel)
}

// errPacketTooLarge is returned when a claimed packet length exceeds the
// record layer's sanity bound.
func errPacketTooLarge(length uint32) error {
	return trace.LimitExceeded("ssh: packet too large: %d bytes", length)
}

// errUnexpectedPacket is returned by the state machine when a packet
// type is not legal in the current state.
func errUnexpectedPacket(state state, msgType byte) error {
	return trace.BadParameter("ssh: unexpected packet type %d in state %s", msgType, state)
}
