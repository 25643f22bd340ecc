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

	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// Kind distinguishes the two socket variants the spec names.
type Kind uint8

const (
	KindTCP Kind = iota
	KindTLS
)

// Addr is a resolved socket address (host/port pair, or a unix path in the
// future if ever needed - only TCP/TLS are supported today).
type Addr struct {
	Host string
	Port uint16
}

func (a Addr) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(int(a.Port)))
}

// Socket is the non-blocking, refcounted connection abstraction every
// higher layer (poller, stream engine, emitter, parsers) is built on. Every
// I/O method returns ErrorAgain rather than blocking when the underlying fd
// is not ready.
type Socket interface {
	// Kind reports whether this is a plain TCP or a TLS-wrapped socket.
	Kind() Kind

	// Fd returns the underlying file descriptor, for registration with a
	// poller. Returns -1 once the socket is closed.
	Fd() int

	// State returns the current state bitmask.
	State() State

	// LocalAddr/RemoteAddr report the two endpoints of a connected socket.
	LocalAddr() Addr
	RemoteAddr() Addr

	// Recv reads into p, returning the number of bytes read. Returns
	// ErrorAgain if no data is currently available and ErrorClosed once the
	// peer has shut down cleanly (Hup is also set on State()).
	Recv(p []byte) (int, liberr.Error)

	// Send writes p, returning the number of bytes actually written
	// (which may be less than len(p) on a partial non-blocking write).
	// Returns ErrorAgain if the socket is not currently writable.
	Send(p []byte) (int, liberr.Error)

	// DgramRecv/DgramSend are only meaningful on datagram-capable sockets.
	// A stream-only TLS socket always returns ErrorNotSupported for both,
	// preserved intentionally (see DESIGN.md).
	DgramRecv(p []byte) (int, Addr, liberr.Error)
	DgramSend(p []byte, to Addr) (int, liberr.Error)

	// SetNonblocking toggles the NONBLOCKING bit and the underlying fd flag.
	SetNonblocking(v bool) liberr.Error

	// Ref/Unref implement the refcounted lifecycle: Unref closes and frees
	// the socket once the count reaches zero and FREE_ON_UNREF is set.
	Ref() int32
	Unref() int32

	// Close shuts the socket down immediately, regardless of refcount.
	Close() liberr.Error
}

