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

package httpwire

import (
	"bytes"
	"testing"
)

// feedByteAtATime drives Parse after every single appended byte, so a
// correct resumable parser must behave identically to one fed whole.
func feedByteAtATime(t *testing.T, p *Parser, raw []byte) Result {
	t.Helper()
	for i, b := range raw {
		if e := p.Feed([]byte{b}); e != nil {
			t.Fatalf("Feed byte %d: %v", i, e)
		}
		r, e := p.Parse()
		if e != nil {
			t.Fatalf("Parse after byte %d: %v", i, e)
		}
		if r == Complete {
			return r
		}
	}
	return Again
}

func TestParseSimpleGetRequest(t *testing.T) {
	p := NewParser(ModeRequest, 0, 0)
	raw := "GET /hello?name=world HTTP/1.1\r\nHost: example.com\r\n\r\n"

	r := feedByteAtATime(t, p, []byte(raw))
	if r != Complete {
		t.Fatalf("Parse() = %v, want Complete", r)
	}

	msg := p.Message()
	if msg.Method != "GET" {
		t.Fatalf("Method = %q, want GET", msg.Method)
	}
	if msg.Path != "/hello" {
		t.Fatalf("Path = %q, want /hello", msg.Path)
	}
	if msg.Query["name"] != "world" {
		t.Fatalf("Query[name] = %q, want world", msg.Query["name"])
	}
	if msg.Version != "1.1" {
		t.Fatalf("Version = %q, want 1.1", msg.Version)
	}
	if got := msg.Headers.Get("Host"); got != "example.com" {
		t.Fatalf("Headers.Get(Host) = %q, want example.com", got)
	}
	if msg.Body != nil {
		t.Fatalf("Body = %v, want nil for a bodyless GET", msg.Body)
	}
}

func TestParseRequestWithFixedBody(t *testing.T) {
	p := NewParser(ModeRequest, 0, 0)
	raw := "POST /submit HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello"

	r := feedByteAtATime(t, p, []byte(raw))
	if r != Complete {
		t.Fatalf("Parse() = %v, want Complete", r)
	}

	msg := p.Message()
	if !bytes.Equal(msg.Body, []byte("hello")) {
		t.Fatalf("Body = %q, want %q", msg.Body, "hello")
	}
}

func TestParseChunkedBody(t *testing.T) {
	p := NewParser(ModeRequest, 0, 0)
	raw := "POST /chunked HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n" +
		"5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n"

	r := feedByteAtATime(t, p, []byte(raw))
	if r != Complete {
		t.Fatalf("Parse() = %v, want Complete", r)
	}

	msg := p.Message()
	if !bytes.Equal(msg.Body, []byte("hello world")) {
		t.Fatalf("Body = %q, want %q", msg.Body, "hello world")
	}
}

func TestParseCloseDelimitedResponseBody(t *testing.T) {
	p := NewParser(ModeResponse, 0, 0)
	raw := "HTTP/1.1 200 OK\r\n\r\nsome body without length"

	if e := p.Feed([]byte(raw)); e != nil {
		t.Fatalf("Feed: %v", e)
	}
	r, e := p.Parse()
	if e != nil {
		t.Fatalf("Parse: %v", e)
	}
	if r != Again {
		t.Fatalf("Parse() before Close() = %v, want Again", r)
	}

	p.Close()
	r, e = p.Parse()
	if e != nil {
		t.Fatalf("Parse after Close: %v", e)
	}
	if r != Complete {
		t.Fatalf("Parse() after Close() = %v, want Complete", r)
	}
	if !bytes.Equal(p.Message().Body, []byte("some body without length")) {
		t.Fatalf("Body = %q, want %q", p.Message().Body, "some body without length")
	}
}

func TestParseRejectsOversizedHeader(t *testing.T) {
	p := NewParser(ModeRequest, 16, 0)
	raw := "GET /this-path-is-too-long-for-the-configured-header-budget HTTP/1.1\r\n\r\n"

	if e := p.Feed([]byte(raw)); e != nil {
		t.Fatalf("Feed: %v", e)
	}
	r, e := p.Parse()
	if r != Invalid {
		t.Fatalf("Parse() = %v, want Invalid", r)
	}
	if e == nil || !e.IsCode(ErrorHeaderTooLarge) {
		t.Fatalf("Parse() error = %v, want ErrorHeaderTooLarge", e)
	}
}

func TestParseRejectsBadMethod(t *testing.T) {
	p := NewParser(ModeRequest, 0, 0)
	raw := "FROB / HTTP/1.1\r\n\r\n"

	if e := p.Feed([]byte(raw)); e != nil {
		t.Fatalf("Feed: %v", e)
	}
	r, e := p.Parse()
	if r != Invalid {
		t.Fatalf("Parse() = %v, want Invalid", r)
	}
	if e == nil || !e.IsCode(ErrorInvalid) {
		t.Fatalf("Parse() error = %v, want ErrorInvalid", e)
	}
}

func TestResetAllowsReuseForNextMessage(t *testing.T) {
	p := NewParser(ModeRequest, 0, 0)
	raw := "GET /one HTTP/1.1\r\n\r\n"
	if r := feedByteAtATime(t, p, []byte(raw)); r != Complete {
		t.Fatalf("first Parse() = %v, want Complete", r)
	}
	if p.Message().Path != "/one" {
		t.Fatalf("Path = %q, want /one", p.Message().Path)
	}

	p.Reset()

	raw2 := "GET /two HTTP/1.1\r\n\r\n"
	if r := feedByteAtATime(t, p, []byte(raw2)); r != Complete {
		t.Fatalf("second Parse() = %v, want Complete", r)
	}
	if p.Message().Path != "/two" {
		t.Fatalf("Path = %q, want /two", p.Message().Path)
	}
}
