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
	"crypto/tls"
	"errors"
	"io"
	"net"
	"sync"

	"golang.org/x/sys/unix"

	libatm "github.com/sabouaram/netcore/pkg/atomic"
	"github.com/sabouaram/netcore/pkg/certs"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// tlsSocket layers crypto/tls over an already-nonblocking *net.TCPConn.
// The handshake is driven opportunistically: Recv/Send attempt
// conn.Handshake() first and surface ErrorAgain exactly like a plain read
// or write would, so the reactor loop does not need a separate
// handshake-pending state.
type tlsSocket struct {
	mu    sync.Mutex
	tcp   *net.TCPConn
	conn  *tls.Conn
	fd    int
	state State
	ref   *libatm.RefCount
}

// NewTLSServer wraps conn as the server side of a TLS handshake using cfg.
func NewTLSServer(conn *net.TCPConn, cfg *certs.Config) (Socket, liberr.Error) {
	return newTLS(conn, cfg.TLSConfig(""), true)
}

// NewTLSClient wraps conn as the client side of a TLS handshake using cfg,
// verifying the peer against serverName unless cfg.NoVerify is set.
func NewTLSClient(conn *net.TCPConn, cfg *certs.Config, serverName string) (Socket, liberr.Error) {
	return newTLS(conn, cfg.TLSConfig(serverName), false)
}

func newTLS(conn *net.TCPConn, cnf *tls.Config, server bool) (Socket, liberr.Error) {
	raw, e := conn.SyscallConn()
	if e != nil {
		return nil, ErrorInvalidAddr.ErrorParent(e)
	}

	var fd int
	_ = raw.Control(func(f uintptr) { fd = int(f) })

	if e := unix.SetNonblock(fd, true); e != nil {
		return nil, ErrorInvalidAddr.ErrorParent(e)
	}

	var tconn *tls.Conn
	if server {
		tconn = tls.Server(conn, cnf)
	} else {
		tconn = tls.Client(conn, cnf)
	}

	return &tlsSocket{
		tcp:   conn,
		conn:  tconn,
		fd:    fd,
		state: Nonblocking | FreeOnUnref,
		ref:   libatm.NewRefCount(),
	}, nil
}

func (s *tlsSocket) Kind() Kind { return KindTLS }

func (s *tlsSocket) Fd() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fd
}

func (s *tlsSocket) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *tlsSocket) LocalAddr() Addr  { return toAddr(s.tcp.LocalAddr()) }
func (s *tlsSocket) RemoteAddr() Addr { return toAddr(s.tcp.RemoteAddr()) }

func (s *tlsSocket) Recv(p []byte) (int, liberr.Error) {
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

func (s *tlsSocket) Send(p []byte) (int, liberr.Error) {
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

// DgramRecv is always NOT_SUPPORTED on a TLS socket: TLS is a stream-only
// protocol here, preserved intentionally rather than smoothed over.
func (s *tlsSocket) DgramRecv(p []byte) (int, Addr, liberr.Error) {
	return 0, Addr{}, ErrorNotSupported.Error(nil)
}

// DgramSend is always NOT_SUPPORTED on a TLS socket, see DgramRecv.
func (s *tlsSocket) DgramSend(p []byte, to Addr) (int, liberr.Error) {
	return 0, ErrorNotSupported.Error(nil)
}

func (s *tlsSocket) SetNonblocking(v bool) liberr.Error {
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

func (s *tlsSocket) Ref() int32 { return s.ref.Inc() }

func (s *tlsSocket) Unref() int32 {
	n := s.ref.Dec()
	if n <= 0 && s.State().Has(FreeOnUnref) {
		_ = s.Close()
	}
	return n
}

func (s *tlsSocket) Close() liberr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Has(Closed) {
		return nil
	}
	s.state.set(Closed)
	s.fd = -1

	if e := s.conn.Close(); e != nil && !errors.Is(e, net.ErrClosed) {
		return ErrorClosed.ErrorParent(e)
	}
	return nil
}
