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

package nm

import (
	"sync"
	"time"

	"github.com/sabouaram/netcore/net/socket"
	"github.com/sabouaram/netcore/pkg/certs"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// Client is a synchronous NM stream client, mirroring the original core's
// connect/send/recv contract (vtm_nm_stream_client) rather than the
// server's non-blocking engine-driven one.
type Client struct {
	TLS     *certs.Config
	Timeout time.Duration

	mu     sync.Mutex
	sck    socket.Socket
	parser *Parser
}

// NewClient returns a Client with default options.
func NewClient() *Client { return &Client{} }

// Connect dials addr (host:port) and prepares to exchange NM messages.
func (cl *Client) Connect(addr string) liberr.Error {
	a, aerr := socket.ParseAddr(addr)
	if aerr != nil {
		return ErrorDial.ErrorParent(aerr)
	}

	sck, derr := socket.Dial(a, cl.TLS, a.Host)
	if derr != nil {
		return ErrorDial.ErrorParent(derr)
	}
	if serr := sck.SetNonblocking(false); serr != nil {
		_ = sck.Close()
		return serr
	}

	if cl.Timeout > 0 {
		var once sync.Once
		timer := time.AfterFunc(cl.Timeout, func() { once.Do(func() { _ = sck.Close() }) })
		defer timer.Stop()
	}

	cl.mu.Lock()
	cl.sck = sck
	cl.parser = NewParser()
	cl.mu.Unlock()
	return nil
}

// Close tears down the connection.
func (cl *Client) Close() liberr.Error {
	cl.mu.Lock()
	sck := cl.sck
	cl.mu.Unlock()
	if sck == nil {
		return nil
	}
	return sck.Close()
}

// Send encodes and writes msg in full, blocking until it drains.
func (cl *Client) Send(msg *Message) liberr.Error {
	cl.mu.Lock()
	sck := cl.sck
	cl.mu.Unlock()
	if sck == nil {
		return ErrorNotConnected.Error(nil)
	}

	p, e := Encode(msg)
	if e != nil {
		return e
	}
	for len(p) > 0 {
		n, werr := sck.Send(p)
		if werr != nil {
			return werr
		}
		p = p[n:]
	}
	return nil
}

// Recv blocks until a full message has been received.
func (cl *Client) Recv() (*Message, liberr.Error) {
	cl.mu.Lock()
	sck := cl.sck
	parser := cl.parser
	cl.mu.Unlock()
	if sck == nil {
		return nil, ErrorNotConnected.Error(nil)
	}

	buf := make([]byte, 16*1024)
	for {
		res, perr := parser.Parse()
		if perr != nil || res == Invalid {
			return nil, perr
		}
		if res == Complete {
			return parser.Message(), nil
		}

		n, rerr := sck.Recv(buf)
		if rerr != nil {
			return nil, rerr
		}
		if n == 0 {
			continue
		}
		if fe := parser.Feed(buf[:n]); fe != nil {
			return nil, fe
		}
	}
}
