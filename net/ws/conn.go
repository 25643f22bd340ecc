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
	"sync"

	"github.com/gobwas/pool/pbytes"

	"github.com/sabouaram/netcore/net/socket"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// readPool hands out the scratch buffers onRead drains sockets into,
// pooled the way gobwas/ws pools its own per-frame scratch space rather
// than allocating one per readable event.
var readPool = pbytes.New(1024, 16*1024)

// Handler groups the callbacks a Conn invokes as messages arrive.
// OnMessage fires for reassembled Text/Binary messages. OnClose fires
// once, right before the socket is closed (either because a peer Close
// frame was received or the local read loop failed).
type Handler struct {
	OnMessage func(c *Conn, msg *Message)
	OnClose   func(c *Conn)

	// MaxMessageSize overrides the default 64 KiB assembled-message cap;
	// 0 keeps the default (see pkg/config's WSConfig.MaxMessageSize).
	MaxMessageSize int
}

// Conn binds a Parser/Encoder pair to one connected socket, handling the
// read-side reassembly loop and a best-effort non-blocking write queue.
// Ping/Pong/Close control frames are answered without involving Handler.
type Conn struct {
	sck  socket.Socket
	mode Mode

	parser *Parser
	enc    *Encoder

	handler *Handler

	mu       sync.Mutex
	outQueue [][]byte
	writing  []byte
	closed   bool
}

func newConn(sck socket.Socket, mode Mode, h *Handler) *Conn {
	var maxMsg int
	if h != nil {
		maxMsg = h.MaxMessageSize
	}
	return &Conn{
		sck:     sck,
		mode:    mode,
		parser:  NewParser(mode, maxMsg),
		enc:     NewEncoder(mode),
		handler: h,
	}
}

// Socket returns the underlying connection, for callers that need the
// peer address or fd.
func (c *Conn) Socket() socket.Socket { return c.sck }

// SendText enqueues and attempts to send a single-frame text message.
func (c *Conn) SendText(s string) liberr.Error { return c.enqueue(c.enc.EncodeText(s)) }

// SendBinary enqueues and attempts to send a single-frame binary message.
func (c *Conn) SendBinary(p []byte) liberr.Error { return c.enqueue(c.enc.EncodeBinary(p)) }

// SendPing enqueues a ping control frame.
func (c *Conn) SendPing(p []byte) liberr.Error { return c.enqueue(c.enc.EncodePing(p)) }

// SendClose enqueues a close control frame. Most callers should follow
// this with sck.Close() once it drains, which onRead/onWrite do
// automatically for peer-initiated closes.
func (c *Conn) SendClose(code uint16, reason string) liberr.Error {
	return c.enqueue(c.enc.EncodeClose(code, reason))
}

func (c *Conn) enqueue(frame []byte) liberr.Error {
	c.mu.Lock()
	c.outQueue = append(c.outQueue, frame)
	c.mu.Unlock()
	return c.flush()
}

// flush drains the queue against the socket's current writability,
// returning once either the queue empties or a write would block.
func (c *Conn) flush() liberr.Error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for len(c.outQueue) > 0 {
		if len(c.writing) == 0 {
			c.writing = c.outQueue[0]
		}
		n, err := c.sck.Send(c.writing)
		if err != nil {
			if err.HasCode(socket.ErrorAgain) {
				return nil
			}
			return err
		}
		c.writing = c.writing[n:]
		if len(c.writing) == 0 {
			c.outQueue = c.outQueue[1:]
		}
	}
	return nil
}

// onRead is the httpsrv override read callback: it pulls whatever is
// currently available, feeds the parser, and dispatches every message the
// parser completes.
func (c *Conn) onRead(sck socket.Socket) {
	buf := readPool.Get(16 * 1024)
	defer readPool.Put(buf)

	for {
		n, err := sck.Recv(buf)
		if n > 0 {
			if fe := c.parser.Feed(buf[:n]); fe != nil {
				c.fail()
				return
			}
		}
		if err != nil {
			if err.HasCode(socket.ErrorAgain) {
				break
			}
			c.fail()
			return
		}
		if n == 0 {
			break
		}
	}

	for {
		res, perr := c.parser.Parse()
		if perr != nil || res == Invalid {
			c.fail()
			return
		}
		if res == Again {
			return
		}
		c.dispatch(c.parser.Message())
	}
}

// onWrite is the httpsrv override write callback, resuming a queue drain
// once the poller reports the socket writable again.
func (c *Conn) onWrite(sck socket.Socket) {
	_ = c.flush()
}

func (c *Conn) dispatch(msg *Message) {
	switch msg.Opcode {
	case OpPing:
		_ = c.enqueue(c.enc.EncodePong(msg.Payload))
	case OpPong:
		// no default action; an application wanting liveness tracking
		// can watch for it via Handler.
	case OpClose:
		_ = c.enqueue(c.enc.EncodeClose(0, ""))
		c.fail()
	default:
		if c.handler != nil && c.handler.OnMessage != nil {
			c.handler.OnMessage(c, msg)
		}
	}
}

func (c *Conn) fail() {
	c.mu.Lock()
	already := c.closed
	c.closed = true
	c.mu.Unlock()
	if already {
		return
	}
	if c.handler != nil && c.handler.OnClose != nil {
		c.handler.OnClose(c)
	}
	_ = c.sck.Close()
}
