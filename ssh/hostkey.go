// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha1"
)

// PublicKey is implemented by the host key types this module verifies.
// Grounded on the teacher client.go's verifyHostKeySignature, which
// calls ParsePublicKey and key.Verify without either being defined in
// the truncated source; this module supplies both for ssh-rsa, the
// only host-key algorithm spec.md §4.5 names as in scope.
type PublicKey interface {
	// Verify reports whether sig is a valid signature by this key over
	// data.
	Verify(data, sig []byte) bool
}

// rsaPublicKey wraps an RSA public key in ssh-rsa wire format
// (RFC 4253 §6.6: string "ssh-rsa", mpint e, mpint n).
type rsaPublicKey rsa.PublicKey

func (r *rsaPublicKey) Verify(data, sig []byte) bool {
	h := sha1.Sum(data)
	return rsa.VerifyPKCS1v15((*rsa.PublicKey)(r), crypto.SHA1, h[:], sig) == nil
}

// parsePublicKey parses an ssh-rsa host key blob as received in
// GEX_REPLY's host-key-and-certs field.
func parsePublicKey(in []byte) (PublicKey, error) {
	algo, in, err := parseString(in)
	if err != nil {
		return nil, err
	}
	if string(algo) != hostAlgoRSA {
		return nil, errMalformed("host key algorithm %q", algo)
	}
	e, in, err := parseMpint(in)
	if err != nil {
		return nil, err
	}
	n, _, err := parseMpint(in)
	if err != nil {
		return nil, err
	}
	return &rsaPublicKey{E: int(e.Int64()), N: n}, nil
}

// parseSSHRSASignature parses the "ssh-rsa" signature wrapper
// (RFC 4253 §6.6: string format, string blob) and checks the format tag.
func parseSSHRSASignature(in []byte) ([]byte, error) {
	format, in, err := parseString(in)
	if err != nil {
		return nil, err
	}
	if string(format) != hostAlgoRSA {
		return nil, errMalformed("signature format %q", format)
	}
	blob, _, err := parseString(in)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), blob...), nil
}

// HostKeyVerifier is the external collaborator of spec.md §4.5 step 7:
// policy for accepting a host key lives entirely outside the core.
type HostKeyVerifier func(hostKey []byte, algo string) bool

// verifyHostKeySignature parses the host key and signature out of a
// GEX_REPLY and checks sig against data, following the teacher
// client.go's verifyHostKeySignature shape.
func verifyHostKeySignature(hostKeyBytes, data, signature []byte) error {
	key, err := parsePublicKey(hostKeyBytes)
	if err != nil {
		return errHostKeyRejected(err.Error())
	}
	blob, err := parseSSHRSASignature(signature)
	if err != nil {
		return errHostKeyRejected(err.Error())
	}
	if !key.Verify(data, blob) {
		return errHostKeyRejected("signature verification failed")
	}
	return nil
}
