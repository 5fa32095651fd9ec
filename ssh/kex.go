// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"crypto/rand"
	"crypto/sha256"
	"hash"
	"math/big"
)

// Group-exchange DH bounds (spec.md §4.5 step 2).
const (
	gexMin = 1024
	gexN   = 1024
	gexMax = 8192
)

// handshakeMagics accumulates the exact bytes that feed the exchange
// hash: both banners (sans CRLF) and both KEXINIT payloads (discriminator
// byte included, captured verbatim — spec.md §6, "implementations must
// not pretty-print or reorder fields"). Grounded on the teacher
// client.go's handshakeMagics struct, kept under the same name.
type handshakeMagics struct {
	clientVersion, serverVersion []byte
	clientKexInit, serverKexInit []byte
}

// kexResult captures the outcome of one key-exchange round: the
// exchange hash H, the shared secret K, and the host key material plus
// its signature over H, following the teacher client.go's kexResult
// shape.
type kexResult struct {
	H         []byte
	K         *big.Int
	HostKey   []byte
	Signature []byte
}

// chooseExponent picks the secret exponent x uniformly in [2, (p-1)/2),
// using a cryptographically secure source distinct from the cookie RNG
// (spec.md §9).
func chooseExponent(p *big.Int) (*big.Int, error) {
	upper := new(big.Int).Sub(p, big.NewInt(1))
	upper.Rsh(upper, 1) // (p-1)/2
	span := new(big.Int).Sub(upper, big.NewInt(2))
	if span.Sign() <= 0 {
		return nil, errDHParameterOutOfRange("group too small for a secret exponent")
	}
	r, err := rand.Int(rand.Reader, span)
	if err != nil {
		return nil, errIO(err)
	}
	return r.Add(r, big.NewInt(2)), nil
}

// validateGexGroup rejects groups outside the requested [2^min, 2^max]
// size bound (spec.md §4.5 step 3).
func validateGexGroup(p *big.Int, min, max uint32) error {
	lower := new(big.Int).Lsh(big.NewInt(1), uint(min))
	upper := new(big.Int).Lsh(big.NewInt(1), uint(max))
	if p.Cmp(lower) < 0 {
		return errDHParameterOutOfRange("p smaller than 2^min")
	}
	if p.Cmp(upper) > 0 {
		return errDHParameterOutOfRange("p larger than 2^max")
	}
	return nil
}

// validateGexPublicValue rejects f outside [1, p-1] (spec.md §4.5 step 5).
func validateGexPublicValue(f, p *big.Int) error {
	one := big.NewInt(1)
	pMinus1 := new(big.Int).Sub(p, one)
	if f.Cmp(one) < 0 || f.Cmp(pMinus1) > 0 {
		return errDHParameterOutOfRange("f outside [1, p-1]")
	}
	return nil
}

// computeExchangeHash assembles H exactly per spec.md §4.5 step 6,
// generalizing the teacher client.go's kexDH hash-assembly order
// (writeString(clientVersion); writeString(serverVersion); ...;
// marshalInt(K); h.Write(K)) from single-group DH to group-exchange DH's
// wider field list (min, n, max added; p, g added).
func computeExchangeHash(magics *handshakeMagics, hostKey []byte, min, n, max uint32, p, g, e, f, k *big.Int) []byte {
	h := sha256.New()
	writeHashString(h, magics.clientVersion)
	writeHashString(h, magics.serverVersion)
	writeHashString(h, magics.clientKexInit)
	writeHashString(h, magics.serverKexInit)
	writeHashString(h, hostKey)
	writeHashUint32(h, min)
	writeHashUint32(h, n)
	writeHashUint32(h, max)
	writeHashMpint(h, p)
	writeHashMpint(h, g)
	writeHashMpint(h, e)
	writeHashMpint(h, f)
	writeHashMpint(h, k)
	return h.Sum(nil)
}

func writeHashString(h hash.Hash, b []byte) {
	h.Write(appendString(nil, b))
}

func writeHashUint32(h hash.Hash, n uint32) {
	h.Write(appendUint32(nil, n))
}

func writeHashMpint(h hash.Hash, n *big.Int) {
	h.Write(appendMpint(nil, n))
}

// kexKeyLabel identifies one of the six derived key streams of spec.md
// §4.5 step 9.
type kexKeyLabel byte

const (
	kexIVClientToServer kexKeyLabel = 'A'
	kexIVServerToClient kexKeyLabel = 'B'
	kexKeyClientToServer kexKeyLabel = 'C'
	kexKeyServerToClient kexKeyLabel = 'D'
	kexMACClientToServer kexKeyLabel = 'E'
	kexMACServerToClient kexKeyLabel = 'F'
)

// deriveKey expands HASH(K || H || label || session_id), then
// HASH(K || H || previous_output) while short of length, per spec.md
// §4.5 step 9.
func deriveKey(k *big.Int, h []byte, label kexKeyLabel, sessionID []byte, length int) []byte {
	mpintK := appendMpint(nil, k)

	digest := func(extra []byte) []byte {
		sum := sha256.New()
		sum.Write(mpintK)
		sum.Write(h)
		sum.Write(extra)
		return sum.Sum(nil)
	}

	first := sha256.New()
	first.Write(mpintK)
	first.Write(h)
	first.Write([]byte{byte(label)})
	first.Write(sessionID)
	out := first.Sum(nil)

	for len(out) < length {
		out = append(out, digest(out)...)
	}
	return out[:length]
}
