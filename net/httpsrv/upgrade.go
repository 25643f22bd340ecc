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

package httpsrv

import (
	"strings"
	"sync"

	"github.com/sabouaram/netcore/net/httpwire"
	"github.com/sabouaram/netcore/net/socket"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// UpgradeHandler takes ownership of sck's subsequent I/O once the 101
// response built by it has fully drained. It returns the callbacks the
// server should invoke instead of ordinary HTTP framing from then on.
type UpgradeHandler func(sck socket.Socket, req *httpwire.Message, res *httpwire.ResponseBuilder) (onRead, onWrite func(sck socket.Socket), err liberr.Error)

// UpgradeDispatcher maps the Upgrade: header's token (case-insensitive) to
// the handler responsible for completing that upgrade, generalizing the
// original single WS-only upgrade path to a small registry.
type UpgradeDispatcher struct {
	mu       sync.RWMutex
	handlers map[string]UpgradeHandler
}

// NewUpgradeDispatcher returns an empty dispatcher.
func NewUpgradeDispatcher() *UpgradeDispatcher {
	return &UpgradeDispatcher{handlers: map[string]UpgradeHandler{}}
}

// Register associates token (e.g. "websocket") with h.
func (d *UpgradeDispatcher) Register(token string, h UpgradeHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[strings.ToLower(token)] = h
}

// Token returns the lower-cased Upgrade: header token of req, or "" if the
// request does not carry one.
func Token(req *httpwire.Message) string {
	return strings.ToLower(strings.TrimSpace(req.Headers.Get("Upgrade")))
}

// Dispatch looks up the handler registered for req's Upgrade token and
// invokes it. ErrorNoUpgradeHandler is returned when no route has asked for
// this token's handling.
func (d *UpgradeDispatcher) Dispatch(sck socket.Socket, req *httpwire.Message, res *httpwire.ResponseBuilder) (onRead, onWrite func(sck socket.Socket), err liberr.Error) {
	tok := Token(req)
	d.mu.RLock()
	h, ok := d.handlers[tok]
	d.mu.RUnlock()
	if !ok {
		return nil, nil, ErrorNoUpgradeHandler.Error(nil)
	}
	return h(sck, req, res)
}
