// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha1"
)

// Algorithm identifiers exchanged as bytes (spec.md §6).
const (
	kexAlgoGexSHA256 = "diffie-hellman-group-exchange-sha256"
	hostAlgoRSA      = "ssh-rsa"
	cipherAlgoAES128 = "aes128-ctr"
	macAlgoHMACSHA1  = "hmac-sha1"
	cipherAlgoNone   = "none"
	macAlgoNone      = "none"
	compressionNone  = "none"
)

// Encrypter transforms plaintext to ciphertext of equal length.
type Encrypter interface {
	encrypt(dst, src []byte)
	blockSize() int
}

// Decrypter is the inverse of Encrypter.
type Decrypter interface {
	decrypt(dst, src []byte)
	blockSize() int
}

// Mac is a streaming keyed MAC with reset, matching spec.md §4.4: the
// outbound MAC is used statelessly per packet (reset, input, result).
type Mac interface {
	reset()
	input(p []byte)
	result() []byte
	size() int
}

// noneCipher copies bytes through and reports the minimum block size
// required for padding alignment in the pre-keyed phase (spec.md §4.4,
// RFC 4253 §6).
type noneCipher struct{}

func (noneCipher) encrypt(dst, src []byte) { copy(dst, src) }
func (noneCipher) decrypt(dst, src []byte) { copy(dst, src) }
func (noneCipher) blockSize() int          { return 8 }

// noneMac emits an empty tag.
type noneMac struct{}

func (noneMac) reset()          {}
func (noneMac) input(p []byte)  {}
func (noneMac) result() []byte  { return nil }
func (noneMac) size() int       { return 0 }

// ctrCipher wraps a cipher.Stream built from crypto/aes in CTR mode. Its
// counter is internal to the stream and advances strictly with consumed
// bytes, never resetting within a keying epoch (spec.md §4.4).
type ctrCipher struct {
	stream cipher.Stream
}

func newAES128CTR(key, iv []byte) (*ctrCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errIO(err)
	}
	return &ctrCipher{stream: cipher.NewCTR(block, iv)}, nil
}

func (c *ctrCipher) encrypt(dst, src []byte) { c.stream.XORKeyStream(dst, src) }
func (c *ctrCipher) decrypt(dst, src []byte) { c.stream.XORKeyStream(dst, src) }
func (c *ctrCipher) blockSize() int          { return aes.BlockSize }

// hmacSHA1Mac produces a 20-byte tag over whatever is fed to input since
// the last reset.
type hmacSHA1Mac struct {
	key []byte
	buf []byte
}

func newHMACSHA1(key []byte) *hmacSHA1Mac {
	return &hmacSHA1Mac{key: key}
}

func (m *hmacSHA1Mac) reset() {
	m.buf = m.buf[:0]
}

func (m *hmacSHA1Mac) input(p []byte) {
	m.buf = append(m.buf, p...)
}

func (m *hmacSHA1Mac) result() []byte {
	mac := hmac.New(sha1.New, m.key)
	mac.Write(m.buf)
	return mac.Sum(nil)
}

func (m *hmacSHA1Mac) size() int { return sha1.Size }

// cipherMode describes the key/IV lengths a negotiated cipher algorithm
// needs from key derivation. This is the registry the teacher's
// common.go assumes exists (findCommonCipher checks "cipherModes[...]
// != nil") but never defines in the truncated source.
type cipherMode struct {
	keySize int
	ivSize  int
}

var cipherModes = map[string]*cipherMode{
	cipherAlgoNone:   {keySize: 0, ivSize: 0},
	cipherAlgoAES128: {keySize: 16, ivSize: aes.BlockSize},
}

// macMode describes the key length and tag size of a negotiated MAC
// algorithm, independent of which cipher it is paired with.
type macMode struct {
	keySize int
	size    int
}

var macModes = map[string]*macMode{
	macAlgoNone:     {keySize: 0, size: 0},
	macAlgoHMACSHA1: {keySize: 20, size: sha1.Size},
}

// newEncrypter constructs the Encrypter for algo from the derived key
// material.
func newEncrypter(algo string, key, iv []byte) (Encrypter, error) {
	switch algo {
	case cipherAlgoNone:
		return noneCipher{}, nil
	case cipherAlgoAES128:
		return newAES128CTR(key, iv)
	default:
		return nil, errNoCommonAlgorithm("cipher " + algo)
	}
}

// newDecrypter constructs the Decrypter for algo from the derived key
// material. CTR mode is its own inverse, so this reuses newAES128CTR.
func newDecrypter(algo string, key, iv []byte) (Decrypter, error) {
	switch algo {
	case cipherAlgoNone:
		return noneCipher{}, nil
	case cipherAlgoAES128:
		return newAES128CTR(key, iv)
	default:
		return nil, errNoCommonAlgorithm("cipher " + algo)
	}
}

// newMac constructs the Mac for algo from the derived key material.
func newMac(algo string, key []byte) (Mac, error) {
	switch algo {
	case macAlgoNone:
		return noneMac{}, nil
	case macAlgoHMACSHA1:
		return newHMACSHA1(key), nil
	default:
		return nil, errNoCommonAlgorithm("mac " + algo)
	}
}
