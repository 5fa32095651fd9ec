// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

// negotiatedAlgorithms is the outcome of RFC 4253 §7.1 algorithm
// negotiation: the first client-proposed algorithm that the server also
// supports, for each slot.
type negotiatedAlgorithms struct {
	kex             string
	hostKey         string
	cipherC2S       string
	cipherS2C       string
	macC2S          string
	macS2C          string
	compressionC2S  string
	compressionS2C  string
}

// findCommonAlgorithm returns the first of clientAlgos that also appears
// in serverAlgos, following the teacher common.go's findCommonAlgorithm
// (client preference order wins, not the server's).
func findCommonAlgorithm(clientAlgos, serverAlgos []string) (string, bool) {
	for _, c := range clientAlgos {
		for _, s := range serverAlgos {
			if c == s {
				return c, true
			}
		}
	}
	return "", false
}

// negotiate picks one algorithm per slot, failing with NoCommonAlgorithm
// if any slot has no overlap (spec.md §4.5).
func negotiate(client, server *KexInitMsg) (*negotiatedAlgorithms, error) {
	n := new(negotiatedAlgorithms)
	var ok bool

	if n.kex, ok = findCommonAlgorithm(client.KexAlgos, server.KexAlgos); !ok {
		return nil, errNoCommonAlgorithm("key exchange")
	}
	if n.hostKey, ok = findCommonAlgorithm(client.ServerHostKeyAlgos, server.ServerHostKeyAlgos); !ok {
		return nil, errNoCommonAlgorithm("host key")
	}
	if n.cipherC2S, ok = findCommonAlgorithm(client.CiphersClientServer, server.CiphersClientServer); !ok {
		return nil, errNoCommonAlgorithm("cipher client-to-server")
	}
	if n.cipherS2C, ok = findCommonAlgorithm(client.CiphersServerClient, server.CiphersServerClient); !ok {
		return nil, errNoCommonAlgorithm("cipher server-to-client")
	}
	if n.macC2S, ok = findCommonAlgorithm(client.MACsClientServer, server.MACsClientServer); !ok {
		return nil, errNoCommonAlgorithm("mac client-to-server")
	}
	if n.macS2C, ok = findCommonAlgorithm(client.MACsServerClient, server.MACsServerClient); !ok {
		return nil, errNoCommonAlgorithm("mac server-to-client")
	}
	if n.compressionC2S, ok = findCommonAlgorithm(client.CompressionClientServer, server.CompressionClientServer); !ok {
		return nil, errNoCommonAlgorithm("compression client-to-server")
	}
	if n.compressionS2C, ok = findCommonAlgorithm(client.CompressionServerClient, server.CompressionServerClient); !ok {
		return nil, errNoCommonAlgorithm("compression server-to-client")
	}
	return n, nil
}
