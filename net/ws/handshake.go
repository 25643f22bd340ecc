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
	"crypto/sha1"
	"encoding/base64"

	"github.com/sabouaram/netcore/net/httpsrv"
	"github.com/sabouaram/netcore/net/httpwire"
	"github.com/sabouaram/netcore/net/socket"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// guid is appended to the client's Sec-WebSocket-Key before hashing, fixed
// by RFC 6455 section 1.3.
const guid = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

func acceptKey(clientKey string) string {
	sum := sha1.Sum([]byte(clientKey + guid))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// NewAcceptHandler returns an httpsrv.HandlerFunc that validates an
// incoming WebSocket handshake request and, on success, builds the 101
// Switching Protocols response and marks the connection for upgrade.
// Add the resulting route to the httpsrv.Router that is passed, together
// with an httpsrv.UpgradeDispatcher holding NewUpgradeHandler, to the same
// httpsrv.Server, so the framing handoff completes once the response has
// drained.
func NewAcceptHandler() httpsrv.HandlerFunc {
	return func(req *httpwire.Message, res *httpwire.ResponseBuilder) (bool, liberr.Error) {
		if !req.Headers.HasToken("Connection", "upgrade") ||
			!req.Headers.HasToken("Upgrade", "websocket") {
			return false, nil
		}

		key := req.Headers.Get("Sec-WebSocket-Key")
		if key == "" {
			return false, ErrorHandshakeKey.Error(nil)
		}
		if req.Headers.Get("Sec-WebSocket-Version") != "13" {
			return false, ErrorHandshakeVersion.Error(nil)
		}

		if be := res.Begin(101, "Switching Protocols", req.Version, false); be != nil {
			return false, be
		}
		if he := res.Header("Upgrade", "websocket"); he != nil {
			return false, he
		}
		if he := res.Header("Sec-WebSocket-Accept", acceptKey(key)); he != nil {
			return false, he
		}
		res.Upgrade()
		if ee := res.End(); ee != nil {
			return false, ee
		}
		return true, nil
	}
}

// NewUpgradeHandler returns the httpsrv.UpgradeHandler to register under
// the "websocket" token. h receives every data message and connection
// close; Ping/Pong/Close are answered automatically.
func NewUpgradeHandler(h *Handler) httpsrv.UpgradeHandler {
	return func(sck socket.Socket, req *httpwire.Message, res *httpwire.ResponseBuilder) (onRead, onWrite func(sck socket.Socket), err liberr.Error) {
		c := newConn(sck, ModeServer, h)
		return c.onRead, c.onWrite, nil
	}
}
