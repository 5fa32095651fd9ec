// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"crypto/rand"
	"crypto/subtle"
	"sync"
)

// maxPacketLength bounds the claimed packet length on inbound frames
// (spec.md §4.6 inbound step 1).
const maxPacketLength = 1 << 18

// DirectionState is the per-direction record-layer state: the active
// cipher, MAC, and a monotonically increasing sequence number that wraps
// modulo 2^32. It is owned exclusively by one direction. At each NEWKEYS
// boundary its cipher and MAC are replaced wholesale in one locked update
// (installEncrypter/installDecrypter); the sequence number carries on
// (spec.md §3).
type DirectionState struct {
	mu       sync.Mutex
	enc      Encrypter
	dec      Decrypter
	mac      Mac
	macSize  int
	cipher   string
	macAlgo  string
	keyed    bool
	sequence uint32
}

// newDirectionState starts a direction in the pre-keyed phase with the
// "none" cipher and MAC, per spec.md §3.
func newDirectionState() *DirectionState {
	return &DirectionState{
		enc:     noneCipher{},
		dec:     noneCipher{},
		mac:     noneMac{},
		cipher:  cipherAlgoNone,
		macAlgo: macAlgoNone,
	}
}

// installEncrypter installs newly derived outbound primitives as one
// atomic value swap (spec.md §4.5 step 10, §5).
func (d *DirectionState) installEncrypter(enc Encrypter, mac Mac, macSize int, cipherAlgo, macAlgo string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enc = enc
	d.mac = mac
	d.macSize = macSize
	d.cipher = cipherAlgo
	d.macAlgo = macAlgo
	d.keyed = true
}

// installDecrypter is installEncrypter's inbound counterpart.
func (d *DirectionState) installDecrypter(dec Decrypter, mac Mac, macSize int, cipherAlgo, macAlgo string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dec = dec
	d.mac = mac
	d.macSize = macSize
	d.cipher = cipherAlgo
	d.macAlgo = macAlgo
	d.keyed = true
}

// nextSequence returns the current sequence number and increments it
// modulo 2^32 (spec.md §3, §5).
func (d *DirectionState) nextSequence() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	seq := d.sequence
	d.sequence++
	return seq
}

// currentSequence reads the next sequence number without advancing it,
// for metrics observation.
func (d *DirectionState) currentSequence() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sequence
}

// writeRecord implements the outbound pipeline of spec.md §4.6: frame,
// pad, MAC, encrypt, and write payload P (the encoded packet body,
// message code included) to s.
func writeRecord(s *socket, d *DirectionState, payload []byte) error {
	d.mu.Lock()
	enc, mac, macSize, keyed := d.enc, d.mac, d.macSize, d.keyed
	d.mu.Unlock()

	block := enc.blockSize()
	if block < 8 {
		block = 8
	}

	// (4 length + 1 padLen + payload + pad) % block == 0, padLen >= 4.
	padLen := block - ((5 + len(payload)) % block)
	if padLen < 4 {
		padLen += block
	}

	pad := make([]byte, padLen)
	if keyed {
		if _, err := rand.Read(pad); err != nil {
			return errIO(err)
		}
	}

	record := make([]byte, 0, 4+1+len(payload)+padLen)
	record = appendUint32(record, uint32(1+len(payload)+padLen))
	record = append(record, byte(padLen))
	record = append(record, payload...)
	record = append(record, pad...)

	seq := d.nextSequence()

	tag := computeMAC(mac, seq, record)

	encrypted := make([]byte, len(record))
	enc.encrypt(encrypted, record)

	out := make([]byte, 0, len(encrypted)+macSize)
	out = append(out, encrypted...)
	out = append(out, tag...)

	return s.write(out)
}

// computeMAC recomputes the tag over uint32(sequence_number) || record,
// resetting the stateless per-packet MAC first (spec.md §4.6 step 4).
func computeMAC(mac Mac, seq uint32, record []byte) []byte {
	mac.reset()
	mac.input(appendUint32(nil, seq))
	mac.input(record)
	return mac.result()
}

// readRecord implements the inbound pipeline of spec.md §4.6: read one
// cipher block, decrypt it to learn the length, read the remainder,
// verify the MAC in constant time, and return the extracted payload.
func readRecord(s *socket, d *DirectionState) ([]byte, error) {
	d.mu.Lock()
	dec, mac, macSize := d.dec, d.mac, d.macSize
	d.mu.Unlock()

	block := dec.blockSize()
	if block < 8 {
		block = 8
	}

	firstBlock := make([]byte, block)
	if err := s.readFull(firstBlock); err != nil {
		return nil, err
	}
	decryptedFirst := make([]byte, block)
	dec.decrypt(decryptedFirst, firstBlock)

	length, _, err := parseUint32(decryptedFirst)
	if err != nil {
		return nil, err
	}
	if length > maxPacketLength {
		return nil, errPacketTooLarge(length)
	}

	remaining := int(length) + 4 - block
	if remaining < 0 {
		return nil, errMalformed("record shorter than one cipher block")
	}

	rest := make([]byte, remaining)
	if remaining > 0 {
		if err := s.readFull(rest); err != nil {
			return nil, err
		}
	}
	decryptedRest := make([]byte, remaining)
	dec.decrypt(decryptedRest, rest)

	record := append(append([]byte(nil), decryptedFirst...), decryptedRest...)

	tag := make([]byte, macSize)
	if macSize > 0 {
		if err := s.readFull(tag); err != nil {
			return nil, err
		}
	}

	seq := d.nextSequence()
	expected := computeMAC(mac, seq, record)
	if subtle.ConstantTimeCompare(expected, tag) != 1 {
		return nil, errMacMismatch()
	}

	padLen := int(record[4])
	if padLen+5 > len(record) {
		return nil, errMalformed("padding length exceeds record")
	}
	payload := record[5 : len(record)-padLen]
	return payload, nil
}
