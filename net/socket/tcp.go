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
	"errors"
	"io"
	"net"
	"os"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"

	libatm "github.com/sabouaram/netcore/pkg/atomic"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// tcpSocket wraps a *net.TCPConn's raw fd for non-blocking Recv/Send while
// keeping the net.Conn around for LocalAddr/RemoteAddr and Close.
type tcpSocket struct {
	mu    sync.Mutex
	conn  *net.TCPConn
	raw   syscall.RawConn
	fd    int
	state State
	ref   *libatm.RefCount
}

// NewTCP wraps an already-accepted or already-dialed *net.TCPConn, putting
// it in non-blocking mode immediately.
func NewTCP(conn *net.TCPConn) (Socket, liberr.Error) {
	raw, e := conn.SyscallConn()
	if e != nil {
		return nil, ErrorInvalidAddr.ErrorParent(e)
	}

	var fd int
	_ = raw.Control(func(f uintptr) { fd = int(f) })

	s := &tcpSocket{
		conn:  conn,
		raw:   raw,
		fd:    fd,
		state: Nonblocking | FreeOnUnref,
		ref:   libatm.NewRefCount(),
	}

	if e := unix.SetNonblock(fd, true); e != nil {
		return nil, ErrorInvalidAddr.ErrorParent(e)
	}

	return s, nil
}

func (s *tcpSocket) Kind() Kind { return KindTCP }

func (s *tcpSocket) Fd() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fd
}

func (s *tcpSocket) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *tcpSocket) LocalAddr() Addr  { return toAddr(s.conn.LocalAddr()) }
func (s *tcpSocket) RemoteAddr() Addr { return toAddr(s.conn.RemoteAddr()) }

func toAddr(a net.Addr) Addr {
	if tcp, ok := a.(*net.TCPAddr); ok {
		return Addr{Host: tcp.IP.String(), Port: uint16(tcp.Port)}
	}
	return Addr{}
}

func (s *tcpSocket) Recv(p []byte) (int, liberr.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Has(Closed) {
		return 0, ErrorClosed.Error(nil)
	}

	n, e := s.conn.Read(p)
	if n > 0 {
		s.state.clear(ReadAgain)
		return n, nil
	}

	if e == nil {
		return 0, nil
	}

	if e == io.EOF {
		s.state.set(Hup)
		return 0, ErrorClosed.ErrorParent(e)
	}

	if isAgain(e) {
		s.state.set(ReadAgain)
		return 0, ErrorAgain.ErrorParent(e)
	}

	s.state.set(Err)
	return 0, ErrorClosed.ErrorParent(e)
}

func (s *tcpSocket) Send(p []byte) (int, liberr.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Has(Closed) {
		return 0, ErrorClosed.Error(nil)
	}

	n, e := s.conn.Write(p)
	if e == nil {
		s.state.clear(WriteAgain)
		return n, nil
	}

	if isAgain(e) {
		s.state.set(WriteAgain)
		return n, ErrorAgain.ErrorParent(e)
	}

	s.state.set(Err)
	return n, ErrorClosed.ErrorParent(e)
}

// DgramRecv is not supported over a connected stream socket.
func (s *tcpSocket) DgramRecv(p []byte) (int, Addr, liberr.Error) {
	return 0, Addr{}, ErrorNotSupported.Error(nil)
}

// DgramSend is not supported over a connected stream socket.
func (s *tcpSocket) DgramSend(p []byte, to Addr) (int, liberr.Error) {
	return 0, ErrorNotSupported.Error(nil)
}

func (s *tcpSocket) SetNonblocking(v bool) liberr.Error {
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

func (s *tcpSocket) Ref() int32 { return s.ref.Inc() }

func (s *tcpSocket) Unref() int32 {
	n := s.ref.Dec()
	if n <= 0 && s.State().Has(FreeOnUnref) {
		_ = s.Close()
	}
	return n
}

func (s *tcpSocket) Close() liberr.Error {
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

func isAgain(e error) bool {
	var sysErr syscall.Errno
	if errors.As(e, &sysErr) {
		return sysErr == syscall.EAGAIN || sysErr == syscall.EWOULDBLOCK
	}
	return errors.Is(e, os.ErrDeadlineExceeded)
}

func isAlreadyClosed(e error) bool {
	return errors.Is(e, net.ErrClosed)
}
