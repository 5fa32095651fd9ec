// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"context"
	"io"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/creachadair/taskgroup"
	"github.com/sirupsen/logrus"
)

// Transport is the client side of an SSH-2 transport connection: version
// negotiation, key exchange, and the record layer, with no knowledge of
// authentication or channel semantics (spec.md §1). It corresponds to
// the teacher client.go's ClientConn, stripped of channel multiplexing
// and reorganized around an explicit state machine (see DESIGN.md).
type Transport struct {
	socket   *socket
	config   *ClientConfig
	outbound *DirectionState
	inbound  *DirectionState
	metrics  *transportMetrics
	log      *logrus.Entry

	stateMu sync.Mutex
	st      state

	sessionID []byte
	versions  VersionExchange

	magics handshakeMagics

	cancelled atomic.Bool
	group     taskgroup.Group
}

// Connect performs version exchange and the initial key exchange over
// rw, and returns an operational Transport (spec.md §6). ctx governs
// cooperative cancellation: an abort signal observed between packet
// boundaries causes the next Read/Write to return Cancelled
// (spec.md §5), grounded on other_examples/tskagent.go's taskgroup.Group
// + ctx.Done() pattern.
func Connect(ctx context.Context, rw io.ReadWriter, config *ClientConfig) (*Transport, error) {
	if config == nil {
		config = &ClientConfig{}
	}
	t := &Transport{
		socket:   newSocket(rw),
		config:   config,
		outbound: newDirectionState(),
		inbound:  newDirectionState(),
		metrics:  newTransportMetrics(config.MetricsRegisterer),
		log:      config.logger().WithField("component", "ssh-transport"),
	}
	t.group.Run(func() {
		<-ctx.Done()
		t.cancelled.Store(true)
	})

	if err := t.doVersionExchange(); err != nil {
		t.socket.close()
		return nil, err
	}
	if err := t.doKeyExchange(nil); err != nil {
		t.socket.close()
		return nil, err
	}
	t.log.WithFields(logrus.Fields{
		"client_version": string(t.versions.Client),
		"server_version": string(t.versions.Server),
	}).Info("ssh: handshake complete")
	return t, nil
}

func (t *Transport) setState(s state) {
	t.stateMu.Lock()
	t.st = s
	t.stateMu.Unlock()
}

func (t *Transport) State() string {
	t.stateMu.Lock()
	defer t.stateMu.Unlock()
	return t.st.String()
}

// checkCancelled implements the cooperative cancellation rule of
// spec.md §5: checked only at packet boundaries, never mid-record.
func (t *Transport) checkCancelled() error {
	if t.cancelled.Load() {
		return Cancelled
	}
	return nil
}

func (t *Transport) doVersionExchange() error {
	clientLine, err := sendVersion(t.socket.w, t.config.ClientVersion)
	if err != nil {
		return err
	}
	serverLine, err := readVersion(t.socket.r)
	if err != nil {
		return err
	}
	t.versions = VersionExchange{Client: clientLine, Server: serverLine}
	t.magics.clientVersion = clientLine
	t.magics.serverVersion = serverLine
	t.setState(stateVersionDone)
	return nil
}

// doKeyExchange runs one full KEXINIT → GEX → NEWKEYS round, used both
// for the initial handshake and for Rekey. It is the core's internal
// critical section (spec.md §5): callers never observe a half-rekeyed
// transport. pendingServerKexInit carries a server KEXINIT payload that
// Read already pulled off the wire before recognizing a peer-initiated
// rekey; pass nil to have doKeyExchange read it itself.
func (t *Transport) doKeyExchange(pendingServerKexInit []byte) error {
	t.setState(stateKexInFlight)

	clientKexInit := &KexInitMsg{
		KexAlgos:                t.config.Crypto.kexes(),
		ServerHostKeyAlgos:      t.config.Crypto.hostKeyAlgos(),
		CiphersClientServer:     t.config.Crypto.ciphers(),
		CiphersServerClient:     t.config.Crypto.ciphers(),
		MACsClientServer:        t.config.Crypto.macs(),
		MACsServerClient:        t.config.Crypto.macs(),
		CompressionClientServer: defaultCompressions,
		CompressionServerClient: defaultCompressions,
	}
	if _, err := io.ReadFull(t.config.rand(), clientKexInit.Cookie[:]); err != nil {
		return errIO(err)
	}
	clientPayload := encodePacket(clientKexInit)
	t.magics.clientKexInit = clientPayload
	if err := t.sendPayload(clientPayload); err != nil {
		return err
	}

	serverPayload := pendingServerKexInit
	if serverPayload == nil {
		p, err := t.recvPayload()
		if err != nil {
			return err
		}
		serverPayload = p
	}
	t.magics.serverKexInit = serverPayload
	serverPacket, err := decodePacket(serverPayload)
	if err != nil {
		return err
	}
	serverKexInit, ok := serverPacket.(*KexInitMsg)
	if !ok {
		return errUnexpectedPacket(stateKexInFlight, serverPayload[0])
	}

	algos, err := negotiate(clientKexInit, serverKexInit)
	if err != nil {
		return err
	}
	if serverKexInit.FirstKexFollows && algos.kex != serverKexInit.KexAlgos[0] {
		// The server sent a speculative KEX packet for an algorithm we
		// did not settle on; discard it (RFC 4253 §7.1).
		if _, err := t.recvPayload(); err != nil {
			return err
		}
	}

	result, err := t.performGex(algos.hostKey)
	if err != nil {
		return err
	}

	if err := verifyHostKeySignature(result.HostKey, result.H, result.Signature); err != nil {
		return err
	}
	if t.config.HostKeyVerifier != nil && !t.config.HostKeyVerifier(result.HostKey, algos.hostKey) {
		return errHostKeyRejected("rejected by HostKeyVerifier callback")
	}

	if t.sessionID == nil {
		t.sessionID = result.H
	}

	return t.installKeys(result, algos)
}

// performGex drives diffie-hellman-group-exchange-sha256 (spec.md §4.5
// steps 2-6), generalizing the teacher client.go's kexDH/kexECDH hash
// assembly to the GEX field list.
func (t *Transport) performGex(hostKeyAlgo string) (*kexResult, error) {
	req := &GexRequestMsg{Min: gexMin, N: gexN, Max: gexMax}
	if err := t.sendPayload(encodePacket(req)); err != nil {
		return nil, err
	}

	groupPayload, err := t.recvPayload()
	if err != nil {
		return nil, err
	}
	groupPacket, err := decodePacket(groupPayload)
	if err != nil {
		return nil, err
	}
	group, ok := groupPacket.(*GexGroupMsg)
	if !ok {
		return nil, errUnexpectedPacket(stateKexInFlight, groupPayload[0])
	}
	if err := validateGexGroup(group.P, gexMin, gexMax); err != nil {
		return nil, err
	}

	x, err := chooseExponent(group.P)
	if err != nil {
		return nil, err
	}
	e := new(big.Int).Exp(group.G, x, group.P)

	if err := t.sendPayload(encodePacket(&GexInitMsg{E: e})); err != nil {
		return nil, err
	}

	replyPayload, err := t.recvPayload()
	if err != nil {
		return nil, err
	}
	replyPacket, err := decodePacket(replyPayload)
	if err != nil {
		return nil, err
	}
	reply, ok := replyPacket.(*GexReplyMsg)
	if !ok {
		return nil, errUnexpectedPacket(stateKexInFlight, replyPayload[0])
	}
	if err := validateGexPublicValue(reply.F, group.P); err != nil {
		return nil, err
	}

	k := new(big.Int).Exp(reply.F, x, group.P)

	h := computeExchangeHash(&t.magics, reply.HostKey, gexMin, gexN, gexMax, group.P, group.G, e, reply.F, k)

	return &kexResult{
		H:         h,
		K:         k,
		HostKey:   reply.HostKey,
		Signature: reply.Signature,
	}, nil
}

// sendPayload writes one packet through the outbound record layer,
// refusing to start a new write once cancellation has been observed
// (spec.md §5: cancellation is checked only at packet boundaries).
func (t *Transport) sendPayload(payload []byte) error {
	if err := t.checkCancelled(); err != nil {
		return err
	}
	if err := writeRecord(t.socket, t.outbound, payload); err != nil {
		return err
	}
	t.metrics.sent(payload[0])
	t.metrics.observeSequence(t.outbound.currentSequence(), t.inbound.currentSequence())
	return nil
}

// recvPayload reads one packet through the inbound record layer,
// absorbing IGNORE unconditionally and checking every other type against
// the current state's legality table before returning it to the caller
// (spec.md §4.6, §7).
func (t *Transport) recvPayload() ([]byte, error) {
	for {
		if err := t.checkCancelled(); err != nil {
			return nil, err
		}
		payload, err := readRecord(t.socket, t.inbound)
		if err != nil {
			if isMacMismatch(err) {
				t.metrics.macFailed()
			}
			return nil, err
		}
		if len(payload) == 0 {
			return nil, errShortRead("packet discriminator")
		}
		msgType := payload[0]

		t.stateMu.Lock()
		st := t.st
		t.stateMu.Unlock()
		if err := checkLegal(st, msgType); err != nil {
			return nil, err
		}

		t.metrics.received(msgType)

		if msgType == msgIgnore {
			continue
		}
		if msgType == msgDisconnect {
			d, derr := decodeDisconnect(payload[1:])
			if derr != nil {
				return nil, errConnectionClosed()
			}
			t.log.WithFields(logrus.Fields{
				"reason":  d.Reason,
				"message": d.Message,
			}).Info("ssh: peer sent disconnect")
			return nil, errConnectionClosed()
		}
		return payload, nil
	}
}

// installKeys derives the six key streams of spec.md §4.5 step 9 from
// result and algos, then performs the NEWKEYS exchange: the outbound
// primitives are installed the instant NEWKEYS is sent, and the inbound
// primitives the instant NEWKEYS is received, so the two directions
// rekey independently and no half-rekeyed state is ever observable to a
// caller between the two (spec.md §5).
func (t *Transport) installKeys(result *kexResult, algos *negotiatedAlgorithms) error {
	outCipher := cipherModes[algos.cipherC2S]
	inCipher := cipherModes[algos.cipherS2C]
	outMac := macModes[algos.macC2S]
	inMac := macModes[algos.macS2C]
	if outCipher == nil || inCipher == nil || outMac == nil || inMac == nil {
		return errNoCommonAlgorithm("cipher/mac mode")
	}

	ivC2S := deriveKey(result.K, result.H, kexIVClientToServer, t.sessionID, outCipher.ivSize)
	ivS2C := deriveKey(result.K, result.H, kexIVServerToClient, t.sessionID, inCipher.ivSize)
	keyC2S := deriveKey(result.K, result.H, kexKeyClientToServer, t.sessionID, outCipher.keySize)
	keyS2C := deriveKey(result.K, result.H, kexKeyServerToClient, t.sessionID, inCipher.keySize)
	macKeyC2S := deriveKey(result.K, result.H, kexMACClientToServer, t.sessionID, outMac.keySize)
	macKeyS2C := deriveKey(result.K, result.H, kexMACServerToClient, t.sessionID, inMac.keySize)

	enc, err := newEncrypter(algos.cipherC2S, keyC2S, ivC2S)
	if err != nil {
		return err
	}
	outMacImpl, err := newMac(algos.macC2S, macKeyC2S)
	if err != nil {
		return err
	}
	dec, err := newDecrypter(algos.cipherS2C, keyS2C, ivS2C)
	if err != nil {
		return err
	}
	inMacImpl, err := newMac(algos.macS2C, macKeyS2C)
	if err != nil {
		return err
	}

	if err := t.sendPayload(encodePacket(&NewKeysMsg{})); err != nil {
		return err
	}
	t.outbound.installEncrypter(enc, outMacImpl, outMac.size, algos.cipherC2S, algos.macC2S)

	newKeysPayload, err := t.recvPayload()
	if err != nil {
		return err
	}
	if _, err := decodePacket(newKeysPayload); err != nil {
		return err
	}
	if newKeysPayload[0] != msgNewKeys {
		return errUnexpectedPacket(stateKexInFlight, newKeysPayload[0])
	}
	t.inbound.installDecrypter(dec, inMacImpl, inMac.size, algos.cipherS2C, algos.macS2C)

	t.setState(stateOperational)
	t.metrics.rekeyed()
	return nil
}

// Read returns the next application packet, blocking until one arrives,
// the peer disconnects, or ctx-derived cancellation fires (spec.md §6).
// IGNORE and the transport's own protocol messages are absorbed
// internally and never surfaced here.
func (t *Transport) Read() (Packet, error) {
	for {
		payload, err := t.recvPayload()
		if err != nil {
			return nil, err
		}
		switch payload[0] {
		case msgKexInit:
			if err := t.handlePeerRekey(payload); err != nil {
				return nil, err
			}
			continue
		default:
			return decodePacket(payload)
		}
	}
}

// handlePeerRekey responds to a peer-initiated KEXINIT seen outside an
// explicit Rekey call, replaying the same doKeyExchange critical section
// spec.md §5 requires for either party to be able to initiate rekeying.
func (t *Transport) handlePeerRekey(serverFirstPayload []byte) error {
	return t.doKeyExchange(serverFirstPayload)
}

// Write sends p through the record layer (spec.md §6).
func (t *Transport) Write(p Packet) error {
	return t.sendPayload(encodePacket(p))
}

// Rekey runs a fresh key-exchange round over the already-operational
// transport, honoring ctx for cooperative cancellation between packet
// boundaries the same way Connect does (spec.md §5, §6).
func (t *Transport) Rekey(ctx context.Context) error {
	if err := t.checkCancelled(); err != nil {
		return err
	}
	done := make(chan struct{})
	defer close(done)
	t.group.Run(func() {
		select {
		case <-ctx.Done():
			t.cancelled.Store(true)
		case <-done:
		}
	})
	return t.doKeyExchange(nil)
}

// Close sends DISCONNECT with reason and message, then closes the
// underlying stream (spec.md §6).
func (t *Transport) Close(reason uint32, message string) error {
	sendErr := t.sendPayload(encodePacket(&DisconnectMsg{Reason: reason, Message: message}))
	closeErr := t.socket.close()
	if sendErr != nil {
		return sendErr
	}
	return closeErr
}
