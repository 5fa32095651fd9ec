// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import (
	"bufio"
	"io"
)

// socket is a thin adapter around the caller's duplex byte stream,
// isolating the record layer from net.Conn so loopback io.Pipe pairs can
// stand in for tests (Testable Property 4). Grounded on the
// socket/transport split in original_source/src/transport/ssh_socket.rs
// and ssh_transport.rs, which the teacher's single transport type
// conflates.
type socket struct {
	r *bufio.Reader
	w *bufio.Writer
	c io.Closer
}

func newSocket(rw io.ReadWriter) *socket {
	s := &socket{r: bufio.NewReader(rw), w: bufio.NewWriter(rw)}
	if c, ok := rw.(io.Closer); ok {
		s.c = c
	}
	return s
}

// readFull reads exactly len(buf) bytes, retrying transparently on short
// reads, and maps io.EOF on a zero-length read to ConnectionClosed
// (spec.md §6).
func (s *socket) readFull(buf []byte) error {
	n, err := io.ReadFull(s.r, buf)
	if err != nil {
		if err == io.EOF && n == 0 {
			return errConnectionClosed()
		}
		return errIO(err)
	}
	return nil
}

func (s *socket) write(buf []byte) error {
	if _, err := s.w.Write(buf); err != nil {
		return errIO(err)
	}
	if err := s.w.Flush(); err != nil {
		return errIO(err)
	}
	return nil
}

func (s *socket) close() error {
	if s.c != nil {
		return s.c.Close()
	}
	return nil
}
