// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"encoding/binary"
	"math/big"
	"strings"
)

// This file is the wire codec for the primitive types of RFC 4251 §5:
// byte, boolean, uint32, string, mpint, name-list, plus the fixed-width
// Cookie used in KEXINIT. It generalizes the append/parse helpers the
// teacher scattered across common.go (appendU32, appendString,
// appendBool) and certs.go (parseString, parseUint32, parseUint64,
// marshalUint32, marshalUint64) into one codec both the packet registry
// and the key exchange engine build on.

// cookieLen is the fixed size of the KEXINIT cookie field.
const cookieLen = 16

// Cookie is sixteen bytes of randomness contributed to algorithm
// negotiation. It carries no length prefix on the wire.
type Cookie [cookieLen]byte

func appendByte(buf []byte, b byte) []byte {
	return append(buf, b)
}

func appendBool(buf []byte, b bool) []byte {
	if b {
		return append(buf, 1)
	}
	return append(buf, 0)
}

func appendUint32(buf []byte, n uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], n)
	return append(buf, tmp[:]...)
}

// appendString appends an RFC 4251 string: a uint32 length followed by
// the raw bytes. It is used for both "string" and "binary string" wire
// types; the distinction is in how the caller interprets the bytes, not
// in the encoding.
func appendString(buf []byte, s []byte) []byte {
	buf = appendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

// appendNameList appends a name-list: an RFC 4251 string whose body is
// the comma-joined names.
func appendNameList(buf []byte, names []string) []byte {
	return appendString(buf, []byte(strings.Join(names, ",")))
}

// appendCookie appends the sixteen raw cookie bytes with no length prefix.
func appendCookie(buf []byte, c Cookie) []byte {
	return append(buf, c[:]...)
}

// appendMpint appends n in SSH's length-prefixed two's-complement,
// minimum-length, most-significant-byte-first representation (RFC 4251
// §5). Zero encodes as a zero-length string. This is a project-owned
// encoder independent of math/big's own serialization, per the source's
// documented ambiguity between big-integer back ends (spec.md §9).
func appendMpint(buf []byte, n *big.Int) []byte {
	if n.Sign() == 0 {
		return appendUint32(buf, 0)
	}
	if n.Sign() > 0 {
		b := n.Bytes()
		if b[0]&0x80 != 0 {
			buf = appendUint32(buf, uint32(len(b)+1))
			buf = append(buf, 0x00)
			return append(buf, b...)
		}
		buf = appendUint32(buf, uint32(len(b)))
		return append(buf, b...)
	}
	// Negative: encode the two's-complement of |n| at minimum length.
	// nCandidate bytes hold |n| unsigned; that already has room for the
	// sign bit unless |n| exceeds 2^(8*nCandidate-1), in which case one
	// more byte is needed (e.g. -129 does not fit the 1-byte range
	// [-128,127] even though 129 fits in a single unsigned byte).
	abs := new(big.Int).Abs(n)
	nCandidate := (abs.BitLen() + 7) / 8
	if nCandidate == 0 {
		nCandidate = 1
	}
	threshold := new(big.Int).Lsh(big.NewInt(1), uint(8*nCandidate-1))
	nBytes := nCandidate
	if abs.Cmp(threshold) > 0 {
		nBytes++
	}
	twos := new(big.Int).Lsh(big.NewInt(1), uint(nBytes*8))
	twos.Sub(twos, abs)
	b := twos.Bytes()
	for len(b) < nBytes {
		b = append([]byte{0x00}, b...)
	}
	buf = appendUint32(buf, uint32(len(b)))
	return append(buf, b...)
}

func parseByte(in []byte) (b byte, rest []byte, err error) {
	if len(in) < 1 {
		return 0, nil, errShortRead("byte")
	}
	return in[0], in[1:], nil
}

func parseBool(in []byte) (b bool, rest []byte, err error) {
	if len(in) < 1 {
		return false, nil, errShortRead("boolean")
	}
	return in[0] != 0, in[1:], nil
}

func parseUint32(in []byte) (n uint32, rest []byte, err error) {
	if len(in) < 4 {
		return 0, nil, errShortRead("uint32")
	}
	return binary.BigEndian.Uint32(in), in[4:], nil
}

func parseUint64(in []byte) (n uint64, rest []byte, err error) {
	if len(in) < 8 {
		return 0, nil, errShortRead("uint64")
	}
	return binary.BigEndian.Uint64(in), in[8:], nil
}

// parseString parses an RFC 4251 string (or binary string): a uint32
// length followed by that many raw bytes. The returned slice aliases in.
func parseString(in []byte) (out []byte, rest []byte, err error) {
	length, in, err := parseUint32(in)
	if err != nil {
		return nil, nil, err
	}
	if uint64(len(in)) < uint64(length) {
		return nil, nil, errShortRead("string")
	}
	return in[:length], in[length:], nil
}

// parseNameList parses a name-list, splitting its body on ",". Per
// spec.md §9(b) / SPEC_FULL.md §5(b), an empty body yields []string{""},
// matching the source's unconditional strings.Split rather than RFC
// 4251's empty list. This asymmetry is intentional and pinned by
// TestNameListEmptyBodyDecodesToOneEmptyName.
func parseNameList(in []byte) (out []string, rest []byte, err error) {
	body, rest, err := parseString(in)
	if err != nil {
		return nil, nil, err
	}
	return strings.Split(string(body), ","), rest, nil
}

// parseCookie reads the fixed sixteen-byte KEXINIT cookie.
func parseCookie(in []byte) (c Cookie, rest []byte, err error) {
	if len(in) < cookieLen {
		return c, nil, errShortRead("cookie")
	}
	copy(c[:], in[:cookieLen])
	return c, in[cookieLen:], nil
}

// parseMpint parses an SSH mpint, rejecting any encoding whose leading
// byte could be dropped without changing the value or sign (non-minimal
// encodings are Malformed, per Testable Property 2).
func parseMpint(in []byte) (n *big.Int, rest []byte, err error) {
	body, rest, err := parseString(in)
	if err != nil {
		return nil, nil, err
	}
	if len(body) == 0 {
		return new(big.Int), rest, nil
	}
	if len(body) > 1 {
		if body[0] == 0x00 && body[1]&0x80 == 0 {
			return nil, nil, errMalformed("mpint: non-minimal positive encoding")
		}
		if body[0] == 0xff && body[1]&0x80 != 0 {
			return nil, nil, errMalformed("mpint: non-minimal negative encoding")
		}
	}
	if body[0]&0x80 == 0 {
		return new(big.Int).SetBytes(body), rest, nil
	}
	// Negative: body is the two's-complement representation.
	twos := new(big.Int).SetBytes(body)
	mod := new(big.Int).Lsh(big.NewInt(1), uint(len(body)*8))
	twos.Sub(twos, mod)
	return twos, rest, nil
}
