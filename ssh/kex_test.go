// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeExchangeHashDeterministic(t *testing.T) {
	magics := &handshakeMagics{
		clientVersion: []byte("SSH-2.0-gossh"),
		serverVersion: []byte("SSH-2.0-OpenSSH_9.6"),
		clientKexInit: []byte{msgKexInit, 1, 2, 3},
		serverKexInit: []byte{msgKexInit, 4, 5, 6},
	}
	p := bigFromHex("ffffffffffffffffc90fdaa22168c234c4c6628b80dc1cd")
	g := big.NewInt(2)
	e := big.NewInt(12345)
	f := big.NewInt(67890)
	k := big.NewInt(424242)
	hostKey := []byte("host-key-blob")

	h1 := computeExchangeHash(magics, hostKey, gexMin, gexN, gexMax, p, g, e, f, k)
	h2 := computeExchangeHash(magics, hostKey, gexMin, gexN, gexMax, p, g, e, f, k)
	require.Equal(t, h1, h2)
	require.Len(t, h1, 32) // sha256

	// Changing any single field must change H.
	h3 := computeExchangeHash(magics, hostKey, gexMin, gexN, gexMax, p, g, e, f, big.NewInt(424243))
	require.NotEqual(t, h1, h3)
}

func TestDeriveKeyLabelsProduceDistinctStreams(t *testing.T) {
	k := big.NewInt(99999)
	h := []byte("exchange-hash-stand-in-32-bytes")
	sessionID := []byte("session-id-stand-in")

	labels := []kexKeyLabel{
		kexIVClientToServer, kexIVServerToClient,
		kexKeyClientToServer, kexKeyServerToClient,
		kexMACClientToServer, kexMACServerToClient,
	}
	seen := map[string]bool{}
	for _, label := range labels {
		out := deriveKey(k, h, label, sessionID, 20)
		require.Len(t, out, 20)
		require.False(t, seen[string(out)], "label %c collided with a previous stream", label)
		seen[string(out)] = true
	}
}

func TestDeriveKeyExpandsPastOneBlock(t *testing.T) {
	k := big.NewInt(1)
	h := []byte("h")
	sessionID := []byte("sid")
	out := deriveKey(k, h, kexKeyClientToServer, sessionID, 64)
	require.Len(t, out, 64)
}

func TestValidateGexGroupBounds(t *testing.T) {
	tooSmall := big.NewInt(3)
	require.Error(t, validateGexGroup(tooSmall, gexMin, gexMax))

	fits := new(big.Int).Lsh(big.NewInt(1), gexMin+1)
	require.NoError(t, validateGexGroup(fits, gexMin, gexMax))

	tooBig := new(big.Int).Lsh(big.NewInt(1), gexMax+1)
	require.Error(t, validateGexGroup(tooBig, gexMin, gexMax))
}

func TestValidateGexPublicValueBounds(t *testing.T) {
	p := bigFromHex("ffffffffffffffffc90fdaa22168c234c4c6628b80dc1cd")
	require.NoError(t, validateGexPublicValue(big.NewInt(2), p))
	require.Error(t, validateGexPublicValue(big.NewInt(0), p))
	require.Error(t, validateGexPublicValue(p, p))
}

func TestChooseExponentWithinRange(t *testing.T) {
	p := bigFromHex("ffffffffffffffffc90fdaa22168c234c4c6628b80dc1cd")
	upper := new(big.Int).Rsh(new(big.Int).Sub(p, big.NewInt(1)), 1)
	for i := 0; i < 20; i++ {
		x, err := chooseExponent(p)
		require.NoError(t, err)
		require.True(t, x.Cmp(big.NewInt(2)) >= 0)
		require.True(t, x.Cmp(upper) < 0)
	}
}
