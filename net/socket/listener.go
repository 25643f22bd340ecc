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
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/sabouaram/netcore/pkg/certs"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// Listener accepts new Sockets, wrapping each one in the requested Kind.
type Listener struct {
	ln   *net.TCPListener
	kind Kind
	tls  *certs.Config
	fd   int
}

// Listen opens a non-blocking TCP listener at addr. When tlsCfg is non-nil
// accepted connections are wrapped as TLS server sockets, otherwise as
// plain TCP.
func Listen(addr Addr, tlsCfg *certs.Config) (*Listener, liberr.Error) {
	ln, e := net.ListenTCP("tcp", &net.TCPAddr{IP: net.ParseIP(addr.Host), Port: int(addr.Port)})
	if e != nil {
		return nil, ErrorListen.ErrorParent(e)
	}

	raw, e := ln.SyscallConn()
	if e != nil {
		return nil, ErrorListen.ErrorParent(e)
	}

	var fd int
	_ = raw.Control(func(f uintptr) { fd = int(f) })
	_ = unix.SetNonblock(fd, true)

	kind := KindTCP
	if tlsCfg != nil {
		kind = KindTLS
	}

	return &Listener{ln: ln, kind: kind, tls: tlsCfg, fd: fd}, nil
}

// Fd returns the listening socket's file descriptor, for poller registration.
func (l *Listener) Fd() int { return l.fd }

// Addr reports the bound local address.
func (l *Listener) Addr() Addr { return toAddr(l.ln.Addr()) }

// Accept pulls one pending connection, returning ErrorAgain when none is
// pending (the listening fd is non-blocking).
func (l *Listener) Accept() (Socket, liberr.Error) {
	conn, e := l.ln.AcceptTCP()
	if e != nil {
		if ne, ok := e.(net.Error); ok && ne.Timeout() {
			return nil, ErrorAgain.ErrorParent(e)
		}
		if isAgain(e) {
			return nil, ErrorAgain.ErrorParent(e)
		}
		return nil, ErrorAccept.ErrorParent(e)
	}

	if l.kind == KindTLS {
		return NewTLSServer(conn, l.tls)
	}
	return NewTCP(conn)
}

// Close shuts the listener down.
func (l *Listener) Close() liberr.Error {
	if e := l.ln.Close(); e != nil {
		return ErrorClosed.ErrorParent(e)
	}
	return nil
}

// Dial connects to addr, optionally wrapping the result in a TLS client
// socket when tlsCfg is non-nil. serverName pins SNI/verification.
func Dial(addr Addr, tlsCfg *certs.Config, serverName string) (Socket, liberr.Error) {
	conn, e := net.DialTCP("tcp", nil, &net.TCPAddr{IP: net.ParseIP(addr.Host), Port: int(addr.Port)})
	if e != nil {
		return nil, ErrorConnect.ErrorParent(e)
	}

	if tlsCfg != nil {
		return NewTLSClient(conn, tlsCfg, serverName)
	}
	return NewTCP(conn)
}

// ParseAddr parses a "host:port" string into an Addr.
func ParseAddr(hostport string) (Addr, liberr.Error) {
	h, p, e := net.SplitHostPort(hostport)
	if e != nil {
		return Addr{}, ErrorInvalidAddr.ErrorParent(e)
	}
	port, e := strconv.ParseUint(p, 10, 16)
	if e != nil {
		return Addr{}, ErrorInvalidAddr.ErrorParent(e)
	}
	return Addr{Host: h, Port: uint16(port)}, nil
}
