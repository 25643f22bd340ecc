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
	"net/url"
	"strconv"
	"strings"

	"github.com/sabouaram/netcore/pkg/buffer"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

type phase uint8

const (
	phaseHeaders phase = iota
	phaseChunkSize
	phaseChunkData
	phaseChunkCRLF
	phaseChunkTrailerCRLF
	phaseFixedBody
	phaseCloseDelimitedBody
	phaseDone
)

// Parser is a resumable HTTP/1.x request/response parser. Feed
// accumulates bytes into an internal buffer.Buffer; Parse advances as far
// as the currently accumulated bytes allow and returns Again when it needs
// more. Parsed values (Message.Path, header values, Body) are copied out
// of the internal buffer into the Message; Reset starts a fresh Message.
type Parser struct {
	mode          Mode
	maxHeaderSize int
	maxBodySize   int

	buf   *buffer.Buffer
	phase phase
	msg   Message

	chunkSize int64
	chunkRead int64
	bodyWant  int64 // -1 = unknown, read until Close()
	bodyGot   int64
	bodyBuf   []byte

	headerScanned int
	closed        bool
}

// NewParser builds a Parser for the given mode. maxHeaderSize/maxBodySize
// of 0 fall back to the spec defaults (8 KiB / 8 MiB).
func NewParser(mode Mode, maxHeaderSize, maxBodySize int) *Parser {
	if maxHeaderSize <= 0 {
		maxHeaderSize = 8 * 1024
	}
	if maxBodySize <= 0 {
		maxBodySize = 8 * 1024 * 1024
	}

	return &Parser{
		mode:          mode,
		maxHeaderSize: maxHeaderSize,
		maxBodySize:   maxBodySize,
		buf:           buffer.New(buffer.BigEndian),
	}
}

// Feed appends newly received bytes to the parser's internal buffer.
func (p *Parser) Feed(data []byte) liberr.Error {
	if e := p.buf.Put(data); e != nil {
		return e
	}
	return nil
}

// Close tells a response-mode parser reading a close-delimited body (no
// Content-Length, no chunked framing) that the connection has reached EOF,
// finalizing the body with whatever was accumulated.
func (p *Parser) Close() {
	p.closed = true
}

// Reset clears parsed state and compacts the internal buffer, readying the
// Parser for the next message on the same connection.
func (p *Parser) Reset() {
	p.phase = phaseHeaders
	p.msg = Message{}
	p.chunkSize = 0
	p.chunkRead = 0
	p.bodyWant = 0
	p.bodyGot = 0
	p.bodyBuf = nil
	p.headerScanned = 0
	p.closed = false
	p.buf.DiscardProcessed()
}

// Message returns the most recently completed message. Only meaningful
// right after Parse returns Complete.
func (p *Parser) Message() *Message { return &p.msg }

// Parse advances the state machine as far as currently available bytes
// permit.
func (p *Parser) Parse() (Result, liberr.Error) {
	for {
		switch p.phase {
		case phaseHeaders:
			r, e := p.parseHeaders()
			if r != Complete {
				return r, e
			}
			// parseHeaders already picked the next phase.
		case phaseChunkSize, phaseChunkData, phaseChunkCRLF, phaseChunkTrailerCRLF:
			r, e := p.parseChunk()
			if r != Again {
				return r, e
			}
			return Again, nil
		case phaseFixedBody:
			return p.parseFixedBody()
		case phaseCloseDelimitedBody:
			return p.parseCloseDelimitedBody()
		case phaseDone:
			return Complete, nil
		}
	}
}

func (p *Parser) available() []byte { return p.buf.Bytes() }

func (p *Parser) parseHeaders() (Result, liberr.Error) {
	avail := p.available()

	idx := bytes.Index(avail, []byte("\r\n\r\n"))
	if idx < 0 {
		if len(avail) > p.maxHeaderSize {
			return Invalid, ErrorHeaderTooLarge.Error(nil)
		}
		return Again, nil
	}
	if idx > p.maxHeaderSize {
		return Invalid, ErrorHeaderTooLarge.Error(nil)
	}

	block := avail[:idx]
	lines := strings.Split(string(block), "\r\n")
	if len(lines) == 0 {
		return Invalid, ErrorInvalid.Error(nil)
	}

	p.msg.Mode = p.mode
	p.msg.Headers = NewHeaders()

	if p.mode == ModeRequest {
		if e := p.parseRequestLine(lines[0]); e != nil {
			return Invalid, e
		}
	} else {
		if e := p.parseStatusLine(lines[0]); e != nil {
			return Invalid, e
		}
	}

	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		if e := p.parseHeaderLine(line); e != nil {
			return Invalid, e
		}
	}

	if e := p.buf.MarkProcessed(idx + 4); e != nil {
		return Invalid, e
	}

	p.selectBodyFraming()
	return Complete, nil
}

func (p *Parser) parseRequestLine(line string) liberr.Error {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return ErrorInvalid.Error(nil)
	}

	if !isValidMethod(parts[0]) {
		return ErrorInvalid.Error(nil)
	}
	p.msg.Method = parts[0]

	rawPath := parts[1]
	path := rawPath
	query := map[string]string{}
	if qi := strings.IndexByte(rawPath, '?'); qi >= 0 {
		path = rawPath[:qi]
		for _, pair := range strings.Split(rawPath[qi+1:], "&") {
			if pair == "" {
				continue
			}
			kv := strings.SplitN(pair, "=", 2)
			key := kv[0]
			if key == "" {
				continue
			}
			val := ""
			if len(kv) == 2 {
				val = kv[1]
			}
			if k, e := url.QueryUnescape(key); e == nil {
				key = k
			}
			if v, e := url.QueryUnescape(val); e == nil {
				val = v
			}
			query[key] = val
		}
	}
	p.msg.Path = path
	p.msg.Query = query

	ver, e := parseVersion(parts[2])
	if e != nil {
		return e
	}
	p.msg.Version = ver
	return nil
}

func parseVersion(s string) (string, liberr.Error) {
	const prefix = "HTTP/"
	if !strings.HasPrefix(s, prefix) {
		return "", ErrorInvalid.Error(nil)
	}
	rest := s[len(prefix):]
	dot := strings.IndexByte(rest, '.')
	if dot <= 0 || dot == len(rest)-1 {
		return "", ErrorInvalid.Error(nil)
	}
	major, minor := rest[:dot], rest[dot+1:]
	if _, e := strconv.Atoi(major); e != nil {
		return "", ErrorInvalid.Error(nil)
	}
	if _, e := strconv.Atoi(minor); e != nil {
		return "", ErrorInvalid.Error(nil)
	}
	if major == "1" && minor == "1" {
		return "1.1", nil
	}
	if major == "1" && minor == "0" {
		return "1.0", nil
	}
	return "", ErrorInvalid.Error(nil)
}

func (p *Parser) parseStatusLine(line string) liberr.Error {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return ErrorInvalid.Error(nil)
	}

	ver, e := parseVersion(parts[0])
	if e != nil {
		return e
	}
	p.msg.Version = ver

	if len(parts[1]) != 3 {
		return ErrorInvalid.Error(nil)
	}
	code, ce := strconv.Atoi(parts[1])
	if ce != nil {
		return ErrorInvalid.Error(nil)
	}
	p.msg.StatusCode = code

	if len(parts) == 3 {
		p.msg.StatusMsg = parts[2]
	}
	return nil
}

func (p *Parser) parseHeaderLine(line string) liberr.Error {
	ci := strings.IndexByte(line, ':')
	if ci < 0 {
		return ErrorInvalid.Error(nil)
	}

	name := line[:ci]
	if strings.ContainsAny(name, " \r\t") {
		return ErrorInvalid.Error(nil)
	}

	value := strings.TrimSpace(line[ci+1:])
	p.msg.Headers.Add(name, value)
	return nil
}

func (p *Parser) selectBodyFraming() {
	h := p.msg.Headers

	if h.HasToken("Transfer-Encoding", "chunked") {
		p.phase = phaseChunkSize
		return
	}

	if cl := h.Get("Content-Length"); cl != "" {
		if n, e := strconv.ParseUint(strings.TrimSpace(cl), 10, 64); e == nil {
			p.bodyWant = int64(n)
			p.bodyBuf = make([]byte, 0, n)
			p.phase = phaseFixedBody
			return
		}
	}

	if p.mode == ModeResponse {
		p.bodyWant = -1
		p.phase = phaseCloseDelimitedBody
		return
	}

	p.msg.Body = nil
	p.phase = phaseDone
}

func (p *Parser) parseFixedBody() (Result, liberr.Error) {
	if p.bodyWant > int64(p.maxBodySize) {
		return Invalid, ErrorBodyTooLarge.Error(nil)
	}

	avail := p.available()
	need := p.bodyWant - p.bodyGot
	if int64(len(avail)) < need {
		if need > 0 {
			p.bodyBuf = append(p.bodyBuf, avail...)
			p.bodyGot += int64(len(avail))
			_ = p.buf.MarkProcessed(len(avail))
		}
		return Again, nil
	}

	p.bodyBuf = append(p.bodyBuf, avail[:need]...)
	_ = p.buf.MarkProcessed(int(need))
	p.msg.Body = p.bodyBuf
	p.phase = phaseDone
	return Complete, nil
}

func (p *Parser) parseCloseDelimitedBody() (Result, liberr.Error) {
	avail := p.available()
	if len(avail) > 0 {
		if int64(len(p.bodyBuf)+len(avail)) > int64(p.maxBodySize) {
			return Invalid, ErrorBodyTooLarge.Error(nil)
		}
		p.bodyBuf = append(p.bodyBuf, avail...)
		_ = p.buf.MarkProcessed(len(avail))
	}

	if !p.closed {
		return Again, nil
	}

	p.msg.Body = p.bodyBuf
	p.phase = phaseDone
	return Complete, nil
}
