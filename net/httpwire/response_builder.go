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
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sabouaram/netcore/net/emitter"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// ConnAction tells the caller what to do with the underlying socket once a
// built response has been fully sent.
type ConnAction uint8

const (
	CloseConn ConnAction = iota
	KeepConn
	UpgradeWS
)

type builderState uint8

const (
	stateInit builderState = iota
	stateBegun
	stateHeaders
	stateBody
	stateEnded
)

// BodyMode picks how a ResponseBuilder frames the body it is given.
type BodyMode uint8

const (
	BodyFixed BodyMode = iota
	BodyChunked
	BodySized
)

// ResponseBuilder assembles one HTTP/1.x response through an ordered call
// sequence (Begin, Header*, BodyStr|BodyRaw|BodyEmitter*, End), enforcing
// that order, then Send drives the assembled head plus body sources through
// a net/emitter.Chain.
type ResponseBuilder struct {
	state   builderState
	version string
	status  int
	reason  string

	headers *Headers
	mode    BodyMode

	fixedBody []byte
	sources   []emitter.Source
	sizedLen  int64

	serverName string
	action     ConnAction
}

// NewResponseBuilder returns a ResponseBuilder that stamps serverName into
// the Server header.
func NewResponseBuilder(serverName string) *ResponseBuilder {
	return &ResponseBuilder{
		headers:    NewHeaders(),
		serverName: serverName,
	}
}

// Begin starts a new response. requestVersion/requestConnClose come from the
// parsed request and drive the default Connection action.
func (b *ResponseBuilder) Begin(status int, reason, requestVersion string, requestConnClose bool) liberr.Error {
	if b.state != stateInit && b.state != stateEnded {
		return ErrorBuilderState.Error(nil)
	}

	b.state = stateBegun
	b.status = status
	b.reason = reason
	b.version = requestVersion
	if b.version == "" {
		b.version = "1.1"
	}
	b.headers.Reset()
	b.fixedBody = nil
	b.sources = nil
	b.mode = BodyFixed

	if requestConnClose {
		b.action = CloseConn
	} else if b.version == "1.0" {
		b.action = CloseConn
	} else {
		b.action = KeepConn
	}
	return nil
}

// Header adds one response header. Must follow Begin and precede any Body*
// call.
func (b *ResponseBuilder) Header(name, value string) liberr.Error {
	if b.state != stateBegun && b.state != stateHeaders {
		return ErrorBuilderState.Error(nil)
	}
	b.state = stateHeaders
	b.headers.Add(name, value)
	return nil
}

// Upgrade marks this response as a successful WebSocket upgrade: the
// eventual Send reports UpgradeWS instead of KeepConn/CloseConn.
func (b *ResponseBuilder) Upgrade() {
	b.action = UpgradeWS
}

// BodyStr sets a fixed, known-length textual body.
func (b *ResponseBuilder) BodyStr(s string) liberr.Error {
	return b.BodyRaw([]byte(s))
}

// BodyRaw sets a fixed, known-length binary body.
func (b *ResponseBuilder) BodyRaw(p []byte) liberr.Error {
	if b.state != stateBegun && b.state != stateHeaders {
		return ErrorBuilderState.Error(nil)
	}
	b.state = stateBody
	b.mode = BodyFixed
	b.fixedBody = append(b.fixedBody, p...)
	return nil
}

// BodyEmitter appends a net/emitter.Source to a chunked-mode body, for
// streaming content whose length is not known up front.
func (b *ResponseBuilder) BodyEmitter(src emitter.Source) liberr.Error {
	if b.state != stateBegun && b.state != stateHeaders && b.state != stateBody {
		return ErrorBuilderState.Error(nil)
	}
	if b.mode == BodyFixed && len(b.fixedBody) > 0 {
		return ErrorBuilderState.Error(nil)
	}
	b.state = stateBody
	b.mode = BodyChunked
	b.sources = append(b.sources, src)
	return nil
}

// BodyEmitterSized streams src as the body without buffering it, declaring
// length up front so the response is framed with Content-Length instead of
// chunked transfer-encoding: the shape a static file route needs, since
// its size is known from a stat call before the first byte is sent.
func (b *ResponseBuilder) BodyEmitterSized(src emitter.Source, length int64) liberr.Error {
	if b.state != stateBegun && b.state != stateHeaders {
		return ErrorBuilderState.Error(nil)
	}
	b.state = stateBody
	b.mode = BodySized
	b.sizedLen = length
	b.sources = append(b.sources, src)
	return nil
}

// End finalizes the header set (Content-Length or Transfer-Encoding,
// Server, Date, Connection) and transitions to the sendable state.
func (b *ResponseBuilder) End() liberr.Error {
	if b.state != stateBegun && b.state != stateHeaders && b.state != stateBody {
		return ErrorBuilderState.Error(nil)
	}

	if b.serverName != "" && !b.headers.Has("Server") {
		b.headers.Set("Server", b.serverName)
	}
	if !b.headers.Has("Date") {
		b.headers.Set("Date", time.Now().UTC().Format(http1Date))
	}

	switch b.mode {
	case BodyFixed:
		b.headers.Set("Content-Length", strconv.Itoa(len(b.fixedBody)))
	case BodySized:
		b.headers.Set("Content-Length", strconv.FormatInt(b.sizedLen, 10))
	case BodyChunked:
		b.headers.Set("Transfer-Encoding", "chunked")
	}

	switch b.action {
	case CloseConn:
		b.headers.Set("Connection", "close")
	case KeepConn:
		b.headers.Set("Connection", "keep-alive")
	case UpgradeWS:
		b.headers.Set("Connection", "Upgrade")
	}

	b.state = stateEnded
	return nil
}

const http1Date = "Mon, 02 Jan 2006 15:04:05 GMT"

// Send builds the status line and header block, then returns a
// net/emitter.Chain carrying the head followed by whatever body sources
// this response was given. The returned ConnAction tells the caller what to
// do with the socket once the chain finishes draining.
func (b *ResponseBuilder) Send() (*emitter.Chain, ConnAction, liberr.Error) {
	if b.state != stateEnded {
		return nil, b.action, ErrorBuilderState.Error(nil)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "HTTP/%s %d %s\r\n", b.version, b.status, b.reason)
	b.headers.Each(func(name, value string) {
		fmt.Fprintf(&sb, "%s: %s\r\n", name, value)
	})
	sb.WriteString("\r\n")

	sources := make([]emitter.Source, 0, 1+len(b.sources)+len(b.fixedBody))
	sources = append(sources, emitter.NewRaw([]byte(sb.String())))

	switch b.mode {
	case BodyFixed:
		if len(b.fixedBody) > 0 {
			sources = append(sources, emitter.NewRaw(b.fixedBody))
		}
	case BodySized, BodyChunked:
		sources = append(sources, b.sources...)
	}

	return emitter.NewChain(sources...), b.action, nil
}
