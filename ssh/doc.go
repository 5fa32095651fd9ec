// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ssh implements the client side of the SSH-2 transport layer:
// version negotiation, algorithm negotiation, group-exchange
// Diffie-Hellman key agreement, and the record layer that frames,
// encrypts, authenticates and decrypts every packet once keyed.
//
// It does not implement user authentication or channel multiplexing.
// Those live in a higher layer that consumes the typed packets this
// package produces via Transport.Read and Transport.Write.
package ssh
