// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func sshRSAHostKeyBlob(t *testing.T, pub *rsa.PublicKey) []byte {
	buf := appendString(nil, []byte(hostAlgoRSA))
	buf = appendMpint(buf, big.NewInt(int64(pub.E)))
	buf = appendMpint(buf, pub.N)
	return buf
}

func sshRSASignature(t *testing.T, priv *rsa.PrivateKey, data []byte) []byte {
	h := sha1.Sum(data)
	sig, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA1, h[:])
	require.NoError(t, err)
	buf := appendString(nil, []byte(hostAlgoRSA))
	return appendString(buf, sig)
}

// TestVerifyHostKeySignatureAccepts pins open-question (c): host-key
// verification is implemented, not stubbed to always-accept.
func TestVerifyHostKeySignatureAccepts(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	data := []byte("exchange-hash-stand-in")

	hostKeyBlob := sshRSAHostKeyBlob(t, &priv.PublicKey)
	sig := sshRSASignature(t, priv, data)

	require.NoError(t, verifyHostKeySignature(hostKeyBlob, data, sig))
}

func TestVerifyHostKeySignatureRejectsWrongKey(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	data := []byte("exchange-hash-stand-in")

	hostKeyBlob := sshRSAHostKeyBlob(t, &other.PublicKey)
	sig := sshRSASignature(t, priv, data)

	require.Error(t, verifyHostKeySignature(hostKeyBlob, data, sig))
}

func TestVerifyHostKeySignatureRejectsTamperedData(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	data := []byte("exchange-hash-stand-in")

	hostKeyBlob := sshRSAHostKeyBlob(t, &priv.PublicKey)
	sig := sshRSASignature(t, priv, data)

	require.Error(t, verifyHostKeySignature(hostKeyBlob, []byte("tampered"), sig))
}

func TestParsePublicKeyRejectsNonRSAAlgorithm(t *testing.T) {
	blob := appendString(nil, []byte("ssh-ed25519"))
	_, err := parsePublicKey(blob)
	require.Error(t, err)
}
