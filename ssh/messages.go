// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import "math/big"

// Packet type discriminators (RFC 4253 §12, RFC 4419 §3). msgKexDHGexRequest
// is 30 per RFC 4419; the teacher's source used 34
// (msgKexDHGexRequestOld, SSH_MSG_KEX_DH_GEX_REQUEST_OLD) which this
// module keeps named but unused — see SPEC_FULL.md §5(a).
const (
	msgDisconnect         = 1
	msgIgnore             = 2
	msgKexInit            = 20
	msgNewKeys            = 21
	msgKexDHGexRequestOld = 34
	msgKexDHGexRequest    = 30
	msgKexDHGexGroup      = 31
	msgKexDHGexInit       = 32
	msgKexDHGexReply      = 33
	msgUserAuthRequest    = 50
)

// Packet is the tagged union of recognised packet shapes: each *Msg type
// in this file implements it, and a successful decodePacket returns
// exactly one of them.
type Packet interface {
	messageType() byte
	marshal() []byte
}

// DisconnectMsg is SSH_MSG_DISCONNECT.
type DisconnectMsg struct {
	Reason   uint32
	Message  string
	Language string
}

func (m *DisconnectMsg) messageType() byte { return msgDisconnect }

func (m *DisconnectMsg) marshal() []byte {
	buf := []byte{msgDisconnect}
	buf = appendUint32(buf, m.Reason)
	buf = appendString(buf, []byte(m.Message))
	buf = appendString(buf, []byte(m.Language))
	return buf
}

func decodeDisconnect(body []byte) (*DisconnectMsg, error) {
	m := new(DisconnectMsg)
	var b []byte
	var err error
	if m.Reason, body, err = parseUint32(body); err != nil {
		return nil, err
	}
	if b, body, err = parseString(body); err != nil {
		return nil, err
	}
	m.Message = string(b)
	if b, body, err = parseString(body); err != nil {
		return nil, err
	}
	m.Language = string(b)
	return m, nil
}

// IgnoreMsg is SSH_MSG_IGNORE; absorbed by the state machine rather than
// delivered to callers (spec.md §4.6, §7).
type IgnoreMsg struct {
	Data []byte
}

func (m *IgnoreMsg) messageType() byte { return msgIgnore }

func (m *IgnoreMsg) marshal() []byte {
	buf := []byte{msgIgnore}
	return appendString(buf, m.Data)
}

func decodeIgnore(body []byte) (*IgnoreMsg, error) {
	data, _, err := parseString(body)
	if err != nil {
		return nil, err
	}
	return &IgnoreMsg{Data: append([]byte(nil), data...)}, nil
}

// KexInitMsg is SSH_MSG_KEXINIT (RFC 4253 §7.1).
type KexInitMsg struct {
	Cookie                  Cookie
	KexAlgos                []string
	ServerHostKeyAlgos      []string
	CiphersClientServer     []string
	CiphersServerClient     []string
	MACsClientServer        []string
	MACsServerClient        []string
	CompressionClientServer []string
	CompressionServerClient []string
	LanguagesClientServer   []string
	LanguagesServerClient   []string
	FirstKexFollows         bool
	Reserved                uint32
}

func (m *KexInitMsg) messageType() byte { return msgKexInit }

func (m *KexInitMsg) marshal() []byte {
	buf := []byte{msgKexInit}
	buf = appendCookie(buf, m.Cookie)
	buf = appendNameList(buf, m.KexAlgos)
	buf = appendNameList(buf, m.ServerHostKeyAlgos)
	buf = appendNameList(buf, m.CiphersClientServer)
	buf = appendNameList(buf, m.CiphersServerClient)
	buf = appendNameList(buf, m.MACsClientServer)
	buf = appendNameList(buf, m.MACsServerClient)
	buf = appendNameList(buf, m.CompressionClientServer)
	buf = appendNameList(buf, m.CompressionServerClient)
	buf = appendNameList(buf, m.LanguagesClientServer)
	buf = appendNameList(buf, m.LanguagesServerClient)
	buf = appendBool(buf, m.FirstKexFollows)
	buf = appendUint32(buf, m.Reserved)
	return buf
}

func decodeKexInit(body []byte) (*KexInitMsg, error) {
	m := new(KexInitMsg)
	var err error
	if m.Cookie, body, err = parseCookie(body); err != nil {
		return nil, err
	}
	lists := []*[]string{
		&m.KexAlgos, &m.ServerHostKeyAlgos,
		&m.CiphersClientServer, &m.CiphersServerClient,
		&m.MACsClientServer, &m.MACsServerClient,
		&m.CompressionClientServer, &m.CompressionServerClient,
		&m.LanguagesClientServer, &m.LanguagesServerClient,
	}
	for _, l := range lists {
		if *l, body, err = parseNameList(body); err != nil {
			return nil, err
		}
	}
	if m.FirstKexFollows, body, err = parseBool(body); err != nil {
		return nil, err
	}
	if m.Reserved, body, err = parseUint32(body); err != nil {
		return nil, err
	}
	return m, nil
}

// NewKeysMsg is SSH_MSG_NEWKEYS; it has an empty body.
type NewKeysMsg struct{}

func (m *NewKeysMsg) messageType() byte { return msgNewKeys }
func (m *NewKeysMsg) marshal() []byte   { return []byte{msgNewKeys} }

func decodeNewKeys(body []byte) (*NewKeysMsg, error) {
	return &NewKeysMsg{}, nil
}

// GexRequestMsg is SSH_MSG_KEX_DH_GEX_REQUEST (RFC 4419 §3).
type GexRequestMsg struct {
	Min uint32
	N   uint32
	Max uint32
}

func (m *GexRequestMsg) messageType() byte { return msgKexDHGexRequest }

func (m *GexRequestMsg) marshal() []byte {
	buf := []byte{msgKexDHGexRequest}
	buf = appendUint32(buf, m.Min)
	buf = appendUint32(buf, m.N)
	buf = appendUint32(buf, m.Max)
	return buf
}

func decodeGexRequest(body []byte) (*GexRequestMsg, error) {
	m := new(GexRequestMsg)
	var err error
	if m.Min, body, err = parseUint32(body); err != nil {
		return nil, err
	}
	if m.N, body, err = parseUint32(body); err != nil {
		return nil, err
	}
	if m.Max, body, err = parseUint32(body); err != nil {
		return nil, err
	}
	return m, nil
}

// GexGroupMsg is SSH_MSG_KEX_DH_GEX_GROUP.
type GexGroupMsg struct {
	P, G *big.Int
}

func (m *GexGroupMsg) messageType() byte { return msgKexDHGexGroup }

func (m *GexGroupMsg) marshal() []byte {
	buf := []byte{msgKexDHGexGroup}
	buf = appendMpint(buf, m.P)
	buf = appendMpint(buf, m.G)
	return buf
}

func decodeGexGroup(body []byte) (*GexGroupMsg, error) {
	m := new(GexGroupMsg)
	var err error
	if m.P, body, err = parseMpint(body); err != nil {
		return nil, err
	}
	if m.G, body, err = parseMpint(body); err != nil {
		return nil, err
	}
	return m, nil
}

// GexInitMsg is SSH_MSG_KEX_DH_GEX_INIT.
type GexInitMsg struct {
	E *big.Int
}

func (m *GexInitMsg) messageType() byte { return msgKexDHGexInit }

func (m *GexInitMsg) marshal() []byte {
	buf := []byte{msgKexDHGexInit}
	return appendMpint(buf, m.E)
}

func decodeGexInit(body []byte) (*GexInitMsg, error) {
	m := new(GexInitMsg)
	var err error
	if m.E, body, err = parseMpint(body); err != nil {
		return nil, err
	}
	return m, nil
}

// GexReplyMsg is SSH_MSG_KEX_DH_GEX_REPLY.
type GexReplyMsg struct {
	HostKey   []byte
	F         *big.Int
	Signature []byte
}

func (m *GexReplyMsg) messageType() byte { return msgKexDHGexReply }

func (m *GexReplyMsg) marshal() []byte {
	buf := []byte{msgKexDHGexReply}
	buf = appendString(buf, m.HostKey)
	buf = appendMpint(buf, m.F)
	buf = appendString(buf, m.Signature)
	return buf
}

func decodeGexReply(body []byte) (*GexReplyMsg, error) {
	m := new(GexReplyMsg)
	var b []byte
	var err error
	if b, body, err = parseString(body); err != nil {
		return nil, err
	}
	m.HostKey = append([]byte(nil), b...)
	if m.F, body, err = parseMpint(body); err != nil {
		return nil, err
	}
	if b, body, err = parseString(body); err != nil {
		return nil, err
	}
	m.Signature = append([]byte(nil), b...)
	return m, nil
}

// UserAuthRequestMsg is SSH_MSG_USERAUTH_REQUEST (RFC 4252 §5). The
// method-specific tail is out of core scope (spec.md §4.2); it is
// retained verbatim for the higher auth layer to interpret.
type UserAuthRequestMsg struct {
	User    string
	Service string
	Method  string
	Rest    []byte
}

func (m *UserAuthRequestMsg) messageType() byte { return msgUserAuthRequest }

func (m *UserAuthRequestMsg) marshal() []byte {
	buf := []byte{msgUserAuthRequest}
	buf = appendString(buf, []byte(m.User))
	buf = appendString(buf, []byte(m.Service))
	buf = appendString(buf, []byte(m.Method))
	return append(buf, m.Rest...)
}

func decodeUserAuthRequest(body []byte) (*UserAuthRequestMsg, error) {
	m := new(UserAuthRequestMsg)
	var b []byte
	var err error
	if b, body, err = parseString(body); err != nil {
		return nil, err
	}
	m.User = string(b)
	if b, body, err = parseString(body); err != nil {
		return nil, err
	}
	m.Service = string(b)
	if b, body, err = parseString(body); err != nil {
		return nil, err
	}
	m.Method = string(b)
	m.Rest = append([]byte(nil), body...)
	return m, nil
}

// encodePacket returns the wire encoding of p, discriminator included.
func encodePacket(p Packet) []byte {
	return p.marshal()
}

// decodePacket parses the one-octet discriminator of payload and
// dispatches to the matching packet shape. It fails with UnknownPacket
// for any code the registry does not recognise — the core never
// silently drops an unrecognised message (spec.md §4.2, §7).
func decodePacket(payload []byte) (Packet, error) {
	if len(payload) == 0 {
		return nil, errShortRead("packet discriminator")
	}
	msgType, body := payload[0], payload[1:]
	switch msgType {
	case msgDisconnect:
		return decodeDisconnect(body)
	case msgIgnore:
		return decodeIgnore(body)
	case msgKexInit:
		return decodeKexInit(body)
	case msgNewKeys:
		return decodeNewKeys(body)
	case msgKexDHGexRequest:
		return decodeGexRequest(body)
	case msgKexDHGexGroup:
		return decodeGexGroup(body)
	case msgKexDHGexInit:
		return decodeGexInit(body)
	case msgKexDHGexReply:
		return decodeGexReply(body)
	case msgUserAuthRequest:
		return decodeUserAuthRequest(body)
	default:
		return nil, errUnknownPacket(msgType)
	}
}
