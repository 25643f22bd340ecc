/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package socket

import (
	"net"
	"sync"

	"golang.org/x/sys/unix"

	libatm "github.com/sabouaram/netcore/pkg/atomic"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// udpSocket is the datagram variant of the plain Socket: Recv/Send are
// not meaningful on an unconnected UDP socket, so they return
// ErrorNotSupported, while DgramRecv/DgramSend carry the peer address.
type udpSocket struct {
	mu    sync.Mutex
	conn  *net.UDPConn
	fd    int
	state State
	ref   *libatm.RefCount
}

// NewUDP wraps an already-bound *net.UDPConn in non-blocking mode.
func NewUDP(conn *net.UDPConn) (Socket, liberr.Error) {
	raw, e := conn.SyscallConn()
	if e != nil {
		return nil, ErrorInvalidAddr.ErrorParent(e)
	}

	var fd int
	_ = raw.Control(func(f uintptr) { fd = int(f) })

	if e := unix.SetNonblock(fd, true); e != nil {
		return nil, ErrorInvalidAddr.ErrorParent(e)
	}

	return &udpSocket{
		conn:  conn,
		fd:    fd,
		state: Nonblocking | FreeOnUnref,
		ref:   libatm.NewRefCount(),
	}, nil
}

// ListenUDP binds a non-blocking UDP socket at addr.
func ListenUDP(addr Addr) (Socket, liberr.Error) {
	conn, e := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP(addr.Host), Port: int(addr.Port)})
	if e != nil {
		return nil, ErrorListen.ErrorParent(e)
	}
	return NewUDP(conn)
}

func (s *udpSocket) Kind() Kind { return KindTCP }

func (s *udpSocket) Fd() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fd
}

func (s *udpSocket) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *udpSocket) LocalAddr() Addr  { return toAddr(s.conn.LocalAddr()) }
func (s *udpSocket) RemoteAddr() Addr { return Addr{} }

func (s *udpSocket) Recv(p []byte) (int, liberr.Error) {
	return 0, ErrorNotSupported.Error(nil)
}

func (s *udpSocket) Send(p []byte) (int, liberr.Error) {
	return 0, ErrorNotSupported.Error(nil)
}

func (s *udpSocket) DgramRecv(p []byte) (int, Addr, liberr.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Has(Closed) {
		return 0, Addr{}, ErrorClosed.Error(nil)
	}

	n, from, e := s.conn.ReadFromUDP(p)
	if e != nil {
		if isAgain(e) {
			s.state.set(ReadAgain)
			return 0, Addr{}, ErrorAgain.ErrorParent(e)
		}
		s.state.set(Err)
		return 0, Addr{}, ErrorClosed.ErrorParent(e)
	}

	s.state.clear(ReadAgain)
	return n, toAddr(from), nil
}

func (s *udpSocket) DgramSend(p []byte, to Addr) (int, liberr.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Has(Closed) {
		return 0, ErrorClosed.Error(nil)
	}

	n, e := s.conn.WriteToUDP(p, &net.UDPAddr{IP: net.ParseIP(to.Host), Port: int(to.Port)})
	if e != nil {
		if isAgain(e) {
			s.state.set(WriteAgain)
			return n, ErrorAgain.ErrorParent(e)
		}
		s.state.set(Err)
		return n, ErrorClosed.ErrorParent(e)
	}

	s.state.clear(WriteAgain)
	return n, nil
}

func (s *udpSocket) SetNonblocking(v bool) liberr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := unix.SetNonblock(s.fd, v); e != nil {
		return ErrorInvalidAddr.ErrorParent(e)
	}
	if v {
		s.state.set(Nonblocking)
	} else {
		s.state.clear(Nonblocking)
	}
	return nil
}

func (s *udpSocket) Ref() int32 { return s.ref.Inc() }

func (s *udpSocket) Unref() int32 {
	n := s.ref.Dec()
	if n <= 0 && s.State().Has(FreeOnUnref) {
		_ = s.Close()
	}
	return n
}

func (s *udpSocket) Close() liberr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Has(Closed) {
		return nil
	}
	s.state.set(Closed)
	s.fd = -1

	if e := s.conn.Close(); e != nil && !isAlreadyClosed(e) {
		return ErrorClosed.ErrorParent(e)
	}
	return nil
}
