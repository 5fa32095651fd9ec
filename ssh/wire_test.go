// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestAppendMpintVectors(t *testing.T) {
	cases := []struct {
		name string
		n    *big.Int
		want []byte
	}{
		{"zero", big.NewInt(0), []byte{0x00, 0x00, 0x00, 0x00}},
		{"one", big.NewInt(1), []byte{0x00, 0x00, 0x00, 0x01, 0x01}},
		{"large positive", bigFromHex("9a378f9b2e332a7"),
			[]byte{0x00, 0x00, 0x00, 0x08, 0x09, 0xa3, 0x78, 0xf9, 0xb2, 0xe3, 0x32, 0xa7}},
		{"negative one", big.NewInt(-1), []byte{0x00, 0x00, 0x00, 0x01, 0xff}},
		{"negative", new(big.Int).Neg(bigFromHex("deadbeef")),
			[]byte{0x00, 0x00, 0x00, 0x05, 0xff, 0x21, 0x52, 0x41, 0x11}},
		{"negative power of two fits in one byte", big.NewInt(-128), []byte{0x00, 0x00, 0x00, 0x01, 0x80}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := appendMpint(nil, c.n)
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Fatalf("appendMpint(%s) mismatch (-want +got):\n%s", c.name, diff)
			}
		})
	}
}

func TestParseMpintRoundTrip(t *testing.T) {
	values := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(-1),
		big.NewInt(-128),
		bigFromHex("9a378f9b2e332a7"),
		new(big.Int).Neg(bigFromHex("deadbeef")),
	}
	for _, v := range values {
		encoded := appendMpint(nil, v)
		got, rest, err := parseMpint(encoded)
		require.NoError(t, err)
		require.Empty(t, rest)
		require.Zero(t, v.Cmp(got), "round-trip mismatch for %s", v.String())
	}
}

func TestParseMpintRejectsNonMinimalEncoding(t *testing.T) {
	// 0x00 0x00 0x00 0x02 0x00 0x01 encodes the value 1 with a redundant
	// leading zero byte, which is not the minimum-length encoding.
	_, _, err := parseMpint([]byte{0x00, 0x00, 0x00, 0x02, 0x00, 0x01})
	require.Error(t, err)
}

// TestAppendNameListZlibNoneVector pins spec.md §8 S2's literal byte
// vector: ["zlib","none"] encodes as a uint32 length of 9 followed by
// the ASCII body "zlib,none".
func TestAppendNameListZlibNoneVector(t *testing.T) {
	want := []byte{0x00, 0x00, 0x00, 0x09, 'z', 'l', 'i', 'b', ',', 'n', 'o', 'n', 'e'}
	got := appendNameList(nil, []string{"zlib", "none"})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("appendNameList([zlib none]) mismatch (-want +got):\n%s", diff)
	}

	names, rest, err := parseNameList(want)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, []string{"zlib", "none"}, names)
}

func TestAppendParseNameList(t *testing.T) {
	names := []string{"diffie-hellman-group-exchange-sha256", "ssh-rsa"}
	encoded := appendNameList(nil, names)
	got, rest, err := parseNameList(encoded)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, names, got)
}

// TestNameListEmptyBodyDecodesToOneEmptyName pins the open-question (b)
// decision recorded in SPEC_FULL.md §5(b): an empty name-list body
// decodes to []string{""}, not []string{}.
func TestNameListEmptyBodyDecodesToOneEmptyName(t *testing.T) {
	encoded := appendUint32(nil, 0)
	got, rest, err := parseNameList(encoded)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, []string{""}, got)
}

func TestAppendParseCookie(t *testing.T) {
	var c Cookie
	for i := range c {
		c[i] = byte(i)
	}
	encoded := appendCookie(nil, c)
	require.Len(t, encoded, cookieLen)
	got, rest, err := parseCookie(encoded)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, c, got)
}

func TestParseStringShortRead(t *testing.T) {
	_, _, err := parseString([]byte{0x00, 0x00, 0x00, 0x05, 'a', 'b'})
	require.Error(t, err)
}

func TestAppendParseBoolUint32(t *testing.T) {
	encoded := appendBool(nil, true)
	encoded = appendUint32(encoded, 0xdeadbeef)
	b, rest, err := parseBool(encoded)
	require.NoError(t, err)
	require.True(t, b)
	n, rest, err := parseUint32(rest)
	require.NoError(t, err)
	require.Equal(t, uint32(0xdeadbeef), n)
	require.Empty(t, rest)
}

func bigFromHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("bad hex literal: " + s)
	}
	return n
}
