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

	"github.com/sabouaram/netcore/net/socket"
	"github.com/sabouaram/netcore/net/stream"
	"github.com/sabouaram/netcore/pkg/certs"
	liberr "github.com/sabouaram/netcore/pkg/errors"
	"github.com/sabouaram/netcore/pkg/logger"
)

// Callbacks mirrors the original stream server's vtm_nm_stream_srv_cbs:
// ServerReady fires once the listener is up, WorkerInit/WorkerEnd bracket
// each worker goroutine's lifetime (the place to stash per-worker
// resources such as a database handle), and ClientConnect/
// ClientDisconnect/ClientMsg track one connection's lifecycle.
type Callbacks struct {
	ServerReady      func(s *Server)
	WorkerInit       func(workerID int)
	WorkerEnd        func(workerID int)
	ClientConnect    func(c *Conn)
	ClientDisconnect func(c *Conn)
	ClientMsg        func(c *Conn, msg *Message)
}

// Config configures one Server.
type Config struct {
	BindAddr      socket.Addr
	TLS           *certs.Config
	WorkerThreads int
	Callbacks     Callbacks
}

// Conn wraps one connected NM client socket with its resumable Parser and
// a best-effort non-blocking write queue, the same shape net/ws.Conn uses.
type Conn struct {
	sck    socket.Socket
	parser *Parser

	mu       sync.Mutex
	outQueue [][]byte
	writing  []byte
}

func newConn(sck socket.Socket) *Conn {
	return &Conn{sck: sck, parser: NewParser()}
}

// Socket returns the underlying connection.
func (c *Conn) Socket() socket.Socket { return c.sck }

// Send encodes msg and enqueues it for delivery, mirroring
// vtm_nm_stream_conn_send.
func (c *Conn) Send(msg *Message) liberr.Error {
	p, e := Encode(msg)
	if e != nil {
		return e
	}
	return c.enqueue(p)
}

func (c *Conn) enqueue(p []byte) liberr.Error {
	c.mu.Lock()
	c.outQueue = append(c.outQueue, p)
	c.mu.Unlock()
	return c.flush()
}

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

// Server ties Callbacks to a net/stream.Engine, feeding received bytes
// through a per-connection Parser and dispatching completed messages to
// ClientMsg - the Go counterpart of vtm_nm_stream_srv_run.
type Server struct {
	cfg Config
	log logger.Logger

	eng *stream.Engine

	mu    sync.Mutex
	conns map[int]*Conn
}

// New builds a Server, not yet listening.
func New(cfg Config, log logger.Logger) *Server {
	if log == nil {
		log = logger.New()
	}
	return &Server{cfg: cfg, log: log, conns: map[int]*Conn{}}
}

// Start begins listening and serving.
func (s *Server) Start() liberr.Error {
	s.eng = stream.New(stream.Config{
		BindAddr:      s.cfg.BindAddr,
		TLS:           s.cfg.TLS,
		WorkerThreads: s.cfg.WorkerThreads,
		Callbacks: stream.Callbacks{
			ServerReady:      func(*stream.Engine) { s.ready() },
			WorkerInit:       s.cfg.Callbacks.WorkerInit,
			WorkerEnd:        s.cfg.Callbacks.WorkerEnd,
			SockConnected:    s.onConnected,
			SockDisconnected: s.onDisconnected,
			SockCanRead:      s.onReadable,
			SockCanWrite:     s.onWritable,
		},
	}, s.log)

	return s.eng.Start()
}

// Addr returns the listener's bound address, resolved to the actual
// ephemeral port once Start has run if BindAddr.Port was 0.
func (s *Server) Addr() socket.Addr {
	return s.eng.Addr()
}

// Stop halts the engine and every live connection.
func (s *Server) Stop() liberr.Error {
	return s.eng.Stop()
}

func (s *Server) ready() {
	if s.cfg.Callbacks.ServerReady != nil {
		s.cfg.Callbacks.ServerReady(s)
	}
}

func (s *Server) onConnected(sck socket.Socket) {
	c := newConn(sck)
	s.mu.Lock()
	s.conns[sck.Fd()] = c
	s.mu.Unlock()

	if s.cfg.Callbacks.ClientConnect != nil {
		s.cfg.Callbacks.ClientConnect(c)
	}
}

func (s *Server) onDisconnected(sck socket.Socket) {
	s.mu.Lock()
	c, ok := s.conns[sck.Fd()]
	delete(s.conns, sck.Fd())
	s.mu.Unlock()

	if ok && s.cfg.Callbacks.ClientDisconnect != nil {
		s.cfg.Callbacks.ClientDisconnect(c)
	}
}

func (s *Server) connFor(sck socket.Socket) *Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns[sck.Fd()]
}

func (s *Server) onReadable(sck socket.Socket) {
	c := s.connFor(sck)
	if c == nil {
		return
	}

	buf := make([]byte, 16*1024)
	for {
		n, err := sck.Recv(buf)
		if n > 0 {
			if fe := c.parser.Feed(buf[:n]); fe != nil {
				_ = sck.Close()
				return
			}
		}
		if err != nil {
			if err.HasCode(socket.ErrorAgain) {
				break
			}
			return
		}
		if n == 0 {
			break
		}
	}

	for {
		res, perr := c.parser.Parse()
		if perr != nil || res == Invalid {
			_ = sck.Close()
			return
		}
		if res == Again {
			return
		}

		msg := c.parser.Message()
		if s.cfg.Callbacks.ClientMsg != nil {
			s.cfg.Callbacks.ClientMsg(c, msg)
		}
	}
}

func (s *Server) onWritable(sck socket.Socket) {
	c := s.connFor(sck)
	if c == nil {
		return
	}
	_ = c.flush()
}
