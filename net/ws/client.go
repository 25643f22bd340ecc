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

package ws

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sabouaram/netcore/net/httpwire"
	"github.com/sabouaram/netcore/net/socket"
	"github.com/sabouaram/netcore/pkg/certs"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// Client is a synchronous WebSocket client: one Connect dials and
// completes the opening handshake, after which Send/Recv exchange
// messages over the same blocking socket - mirroring the original
// client's connect/send/recv contract rather than the server's
// non-blocking engine-driven one.
type Client struct {
	NoCertCheck bool
	Timeout     time.Duration

	// MaxMessageSize overrides the default 64 KiB assembled-message cap;
	// 0 keeps the default (see pkg/config's WSConfig.MaxMessageSize).
	MaxMessageSize int

	mu   sync.Mutex
	sck  socket.Socket
	conn *Conn
}

// NewClient returns a Client with default options.
func NewClient() *Client { return &Client{} }

// Connect dials target (an http/https URL whose scheme selects plain or
// TLS transport) and performs the WebSocket opening handshake.
func (cl *Client) Connect(target string) liberr.Error {
	u, e := url.Parse(target)
	if e != nil || u.Host == "" {
		return ErrorHandshakeUpgrade.ErrorParent(e)
	}

	var tlsCfg *certs.Config
	port := "80"
	switch u.Scheme {
	case "http", "ws", "":
	case "https", "wss":
		tlsCfg = &certs.Config{NoVerify: cl.NoCertCheck}
		port = "443"
	default:
		return ErrorHandshakeUpgrade.Error(nil)
	}

	host := u.Hostname()
	if p := u.Port(); p != "" {
		port = p
	}

	addr, aerr := socket.ParseAddr(host + ":" + port)
	if aerr != nil {
		return aerr
	}
	sck, derr := socket.Dial(addr, tlsCfg, host)
	if derr != nil {
		return derr
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

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	key, kerr := randomKey()
	if kerr != nil {
		_ = sck.Close()
		return kerr
	}

	if werr := writeHandshake(sck, host, path, key); werr != nil {
		_ = sck.Close()
		return werr
	}

	if verr := readHandshake(sck, key); verr != nil {
		_ = sck.Close()
		return verr
	}

	cl.mu.Lock()
	cl.sck = sck
	cl.conn = newConn(sck, ModeClient, &Handler{MaxMessageSize: cl.MaxMessageSize})
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

// SendText sends a single-frame text message.
func (cl *Client) SendText(s string) liberr.Error { return cl.conn.SendText(s) }

// SendBinary sends a single-frame binary message.
func (cl *Client) SendBinary(p []byte) liberr.Error { return cl.conn.SendBinary(p) }

// Recv blocks until a full message (control or data) has been received.
// Ping frames are answered automatically and not returned; a received
// Close frame is echoed and the socket closed before returning it.
func (cl *Client) Recv() (*Message, liberr.Error) {
	buf := readPool.Get(16 * 1024)
	defer readPool.Put(buf)

	for {
		res, perr := cl.conn.parser.Parse()
		if perr != nil || res == Invalid {
			return nil, ErrorHandshakeUpgrade.Error(perr)
		}
		if res == Complete {
			msg := cl.conn.parser.Message()
			switch msg.Opcode {
			case OpPing:
				_ = cl.conn.enqueue(cl.conn.enc.EncodePong(msg.Payload))
				continue
			case OpClose:
				_ = cl.conn.enqueue(cl.conn.enc.EncodeClose(0, ""))
				_ = cl.sck.Close()
				return msg, nil
			default:
				return msg, nil
			}
		}

		n, err := cl.sck.Recv(buf)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			continue
		}
		if fe := cl.conn.parser.Feed(buf[:n]); fe != nil {
			return nil, fe
		}
	}
}

func randomKey() (string, liberr.Error) {
	var raw [16]byte
	if _, e := rand.Read(raw[:]); e != nil {
		return "", ErrorHandshakeKey.ErrorParent(e)
	}
	return base64.StdEncoding.EncodeToString(raw[:]), nil
}

func writeHandshake(sck socket.Socket, host, path, key string) liberr.Error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "GET %s HTTP/1.1\r\n", path)
	fmt.Fprintf(&sb, "Host: %s\r\n", host)
	sb.WriteString("Upgrade: websocket\r\n")
	sb.WriteString("Connection: Upgrade\r\n")
	fmt.Fprintf(&sb, "Sec-WebSocket-Key: %s\r\n", key)
	sb.WriteString("Sec-WebSocket-Version: 13\r\n")
	sb.WriteString("\r\n")

	p := []byte(sb.String())
	for len(p) > 0 {
		n, e := sck.Send(p)
		if e != nil {
			return e
		}
		p = p[n:]
	}
	return nil
}

func readHandshake(sck socket.Socket, key string) liberr.Error {
	parser := httpwire.NewParser(httpwire.ModeResponse, 0, 0)
	buf := readPool.Get(8 * 1024)
	defer readPool.Put(buf)

	for {
		res, perr := parser.Parse()
		if perr != nil {
			return ErrorHandshakeUpgrade.ErrorParent(perr)
		}
		if res == httpwire.Invalid {
			return ErrorHandshakeUpgrade.Error(nil)
		}
		if res == httpwire.Complete {
			break
		}
		n, rerr := sck.Recv(buf)
		if rerr != nil {
			return rerr
		}
		if n == 0 {
			continue
		}
		if fe := parser.Feed(buf[:n]); fe != nil {
			return fe
		}
	}

	m := parser.Message()
	if m.StatusCode != 101 {
		return ErrorHandshakeUpgrade.Error(nil)
	}
	if !m.Headers.HasToken("Upgrade", "websocket") {
		return ErrorHandshakeUpgrade.Error(nil)
	}
	if m.Headers.Get("Sec-WebSocket-Accept") != acceptKey(key) {
		return ErrorHandshakeAccept.Error(nil)
	}
	return nil
}
