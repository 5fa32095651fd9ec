// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	cryptorand "crypto/rand"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// defaultKexAlgos, defaultHostKeyAlgos, defaultCiphers, defaultMACs are
// the single negotiable combination spec.md §4.5 requires for the
// initial core: {gex-sha256, ssh-rsa, aes128-ctr, hmac-sha1, none}.
var (
	defaultKexAlgos     = []string{kexAlgoGexSHA256}
	defaultHostKeyAlgos = []string{hostAlgoRSA}
	defaultCiphers      = []string{cipherAlgoAES128}
	defaultMACs         = []string{macAlgoHMACSHA1}
	defaultCompressions = []string{compressionNone}
)

// CryptoConfig is the cryptographic configuration common to both
// directions, generalized from the teacher common.go's CryptoConfig
// (which only ever needed Ciphers/MACs/KeyExchanges for server and
// client alike).
type CryptoConfig struct {
	KeyExchanges []string
	HostKeyAlgos []string
	Ciphers      []string
	MACs         []string
}

func (c *CryptoConfig) kexes() []string {
	if len(c.KeyExchanges) == 0 {
		return defaultKexAlgos
	}
	return c.KeyExchanges
}

func (c *CryptoConfig) hostKeyAlgos() []string {
	if len(c.HostKeyAlgos) == 0 {
		return defaultHostKeyAlgos
	}
	return c.HostKeyAlgos
}

func (c *CryptoConfig) ciphers() []string {
	if len(c.Ciphers) == 0 {
		return defaultCiphers
	}
	return c.Ciphers
}

func (c *CryptoConfig) macs() []string {
	if len(c.MACs) == 0 {
		return defaultMACs
	}
	return c.MACs
}

// ClientConfig configures Connect. After being passed to Connect it must
// not be modified, following the teacher's own ClientConfig contract.
type ClientConfig struct {
	// Rand provides the entropy source for the KEXINIT cookie. It does
	// NOT drive the DH secret exponent, which always uses
	// crypto/rand.Reader directly per spec.md §9. If nil,
	// crypto/rand.Reader is used.
	Rand io.Reader

	// Crypto controls the negotiable algorithm sets.
	Crypto CryptoConfig

	// ClientVersion overrides the identification string sent to the
	// peer. If empty, clientVersionID is used.
	ClientVersion string

	// HostKeyVerifier is consulted after signature verification
	// succeeds; a nil HostKeyVerifier accepts any key whose signature
	// verifies (spec.md §4.5 step 7 names this an external collaborator,
	// not core policy).
	HostKeyVerifier HostKeyVerifier

	// Logger receives structured entries when the handshake completes
	// and when the peer sends DISCONNECT. Algorithm negotiation, rekeys
	// and MAC failures are not logged. A nil Logger discards all entries.
	Logger *logrus.Logger

	// MetricsRegisterer, if non-nil, receives this transport's
	// Prometheus collectors. A nil value is a no-op — the core has no
	// implicit global registry side effect.
	MetricsRegisterer prometheus.Registerer
}

func (c *ClientConfig) rand() io.Reader {
	if c.Rand == nil {
		return cryptorand.Reader
	}
	return c.Rand
}

func (c *ClientConfig) logger() *logrus.Logger {
	if c.Logger == nil {
		return discardLogger
	}
	return c.Logger
}
