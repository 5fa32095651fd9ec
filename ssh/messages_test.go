// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestGexRequestDiscriminatorIsRFC4419 pins the open-question (a)
// decision in SPEC_FULL.md §5(a): SSH_MSG_KEX_DH_GEX_REQUEST is 30, not
// the older 34 the teacher's truncated source used for the same name.
func TestGexRequestDiscriminatorIsRFC4419(t *testing.T) {
	require.EqualValues(t, 30, msgKexDHGexRequest)
	require.EqualValues(t, 34, msgKexDHGexRequestOld)
}

func TestKexInitRoundTrip(t *testing.T) {
	m := &KexInitMsg{
		KexAlgos:                []string{kexAlgoGexSHA256},
		ServerHostKeyAlgos:      []string{hostAlgoRSA},
		CiphersClientServer:     []string{cipherAlgoAES128},
		CiphersServerClient:     []string{cipherAlgoAES128},
		MACsClientServer:        []string{macAlgoHMACSHA1},
		MACsServerClient:        []string{macAlgoHMACSHA1},
		CompressionClientServer: []string{compressionNone},
		CompressionServerClient: []string{compressionNone},
		LanguagesClientServer:   nil,
		LanguagesServerClient:   nil,
		FirstKexFollows:         true,
		Reserved:                0,
	}
	for i := range m.Cookie {
		m.Cookie[i] = byte(i)
	}

	payload := encodePacket(m)
	require.Equal(t, byte(msgKexInit), payload[0])

	decoded, err := decodePacket(payload)
	require.NoError(t, err)
	got, ok := decoded.(*KexInitMsg)
	require.True(t, ok)
	require.Equal(t, m.Cookie, got.Cookie)
	require.Equal(t, m.KexAlgos, got.KexAlgos)
	require.Equal(t, m.FirstKexFollows, got.FirstKexFollows)
}

func TestGexGroupRoundTrip(t *testing.T) {
	m := &GexGroupMsg{P: bigFromHex("ffffffffffffffff"), G: big.NewInt(2)}
	payload := encodePacket(m)
	decoded, err := decodePacket(payload)
	require.NoError(t, err)
	got, ok := decoded.(*GexGroupMsg)
	require.True(t, ok)
	require.Zero(t, m.P.Cmp(got.P))
	require.Zero(t, m.G.Cmp(got.G))
}

func TestGexReplyRoundTrip(t *testing.T) {
	m := &GexReplyMsg{
		HostKey:   []byte("fake-host-key-blob"),
		F:         bigFromHex("abcdef"),
		Signature: []byte("fake-signature-blob"),
	}
	payload := encodePacket(m)
	decoded, err := decodePacket(payload)
	require.NoError(t, err)
	got, ok := decoded.(*GexReplyMsg)
	require.True(t, ok)
	require.Equal(t, m.HostKey, got.HostKey)
	require.Zero(t, m.F.Cmp(got.F))
	require.Equal(t, m.Signature, got.Signature)
}

func TestDecodePacketUnknownType(t *testing.T) {
	_, err := decodePacket([]byte{0xff})
	require.Error(t, err)
}

func TestDisconnectRoundTrip(t *testing.T) {
	m := &DisconnectMsg{Reason: 11, Message: "bye", Language: "en"}
	payload := encodePacket(m)
	decoded, err := decodePacket(payload)
	require.NoError(t, err)
	got, ok := decoded.(*DisconnectMsg)
	require.True(t, ok)
	require.Equal(t, m, got)
}
