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

package httpcli

import (
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

// Client holds connection options shared across requests. The zero value
// is ready to use.
type Client struct {
	NoCertCheck bool
	Timeout     time.Duration
}

// New returns a Client with default options (certificate verification on,
// no timeout).
func New() *Client { return &Client{} }

// Request is one outgoing HTTP/1.x request.
type Request struct {
	Method  string // defaults to GET
	Version string // defaults to "1.1"
	URL     string
	Headers *httpwire.Headers
	Body    []byte
}

// Response is a fully received HTTP/1.x response.
type Response struct {
	Version    string
	StatusCode int
	StatusMsg  string
	Headers    *httpwire.Headers
	Body       []byte
}

// Do connects, sends req and blocks until the full response is received or
// the Client's Timeout elapses.
func (c *Client) Do(req *Request) (*Response, liberr.Error) {
	u, e := url.Parse(req.URL)
	if e != nil || u.Host == "" {
		return nil, ErrorBadURL.ErrorParent(e)
	}

	var tlsCfg *certs.Config
	port := "80"
	switch u.Scheme {
	case "http", "":
	case "https":
		tlsCfg = &certs.Config{NoVerify: c.NoCertCheck}
		port = "443"
	default:
		return nil, ErrorUnsupportedScheme.Error(nil)
	}

	host := u.Hostname()
	if p := u.Port(); p != "" {
		port = p
	}

	addr, aerr := socket.ParseAddr(host + ":" + port)
	if aerr != nil {
		return nil, ErrorBadURL.ErrorParent(aerr)
	}

	sck, derr := socket.Dial(addr, tlsCfg, host)
	if derr != nil {
		return nil, derr
	}
	defer func() { _ = sck.Close() }()

	if serr := sck.SetNonblocking(false); serr != nil {
		return nil, serr
	}

	if c.Timeout > 0 {
		var once sync.Once
		timer := time.AfterFunc(c.Timeout, func() { once.Do(func() { _ = sck.Close() }) })
		defer timer.Stop()
	}

	method := req.Method
	if method == "" {
		method = "GET"
	}
	version := req.Version
	if version == "" {
		version = "1.1"
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	if e := c.writeRequest(sck, method, path, version, host, req); e != nil {
		return nil, e
	}

	return c.readResponse(sck)
}

func (c *Client) writeRequest(sck socket.Socket, method, path, version, host string, req *Request) liberr.Error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s HTTP/%s\r\n", method, path, version)
	fmt.Fprintf(&sb, "Host: %s\r\n", host)

	hasBody := len(req.Body) > 0
	if hasBody {
		fmt.Fprintf(&sb, "Content-Length: %d\r\n", len(req.Body))
	}

	if req.Headers != nil {
		req.Headers.Each(func(name, value string) {
			fmt.Fprintf(&sb, "%s: %s\r\n", name, value)
		})
	}
	sb.WriteString("Connection: close\r\n")
	sb.WriteString("\r\n")

	if e := writeAll(sck, []byte(sb.String())); e != nil {
		return e
	}
	if hasBody {
		return writeAll(sck, req.Body)
	}
	return nil
}

func writeAll(sck socket.Socket, p []byte) liberr.Error {
	for len(p) > 0 {
		n, e := sck.Send(p)
		if e != nil {
			return e
		}
		p = p[n:]
	}
	return nil
}

func (c *Client) readResponse(sck socket.Socket) (*Response, liberr.Error) {
	parser := httpwire.NewParser(httpwire.ModeResponse, 0, 0)

	buf := make([]byte, 16*1024)
	for {
		res, perr := parser.Parse()
		if perr != nil {
			return nil, ErrorInvalidResponse.ErrorParent(perr)
		}
		if res == httpwire.Invalid {
			return nil, ErrorInvalidResponse.Error(nil)
		}
		if res == httpwire.Complete {
			break
		}

		n, rerr := sck.Recv(buf)
		if rerr != nil {
			if rerr.HasCode(socket.ErrorClosed) {
				parser.Close()
				continue
			}
			return nil, ErrorTimeout.ErrorParent(rerr)
		}
		if n == 0 {
			parser.Close()
			continue
		}
		if fe := parser.Feed(buf[:n]); fe != nil {
			return nil, fe
		}
	}

	m := parser.Message()
	return &Response{
		Version:    m.Version,
		StatusCode: m.StatusCode,
		StatusMsg:  m.StatusMsg,
		Headers:    m.Headers,
		Body:       m.Body,
	}, nil
}
