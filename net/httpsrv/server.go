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
	"sync"

	"github.com/sabouaram/netcore/net/emitter"
	"github.com/sabouaram/netcore/net/httpwire"
	"github.com/sabouaram/netcore/net/socket"
	"github.com/sabouaram/netcore/net/stream"
	"github.com/sabouaram/netcore/pkg/certs"
	liberr "github.com/sabouaram/netcore/pkg/errors"
	"github.com/sabouaram/netcore/pkg/logger"
)

// Config configures one Server.
type Config struct {
	BindAddr      socket.Addr
	TLS           *certs.Config
	WorkerThreads int
	ServerName    string
	MaxHeaderSize int
	MaxBodySize   int
	ReadBufSize   int
}

func (c Config) readBufSize() int {
	if c.ReadBufSize > 0 {
		return c.ReadBufSize
	}
	return 16 * 1024
}

// connState is the per-fd state the HTTP framing loop needs: the resumable
// request parser, a pending outbound chain when a response could not fully
// drain in one non-blocking write, and - once a route upgrades the
// connection - the override callbacks that take over from ordinary HTTP
// framing.
type connState struct {
	parser *httpwire.Parser
	out    *emitter.Chain
	action httpwire.ConnAction

	upgraded bool
	onRead   func(sck socket.Socket)
	onWrite  func(sck socket.Socket)
}

// Server ties a Router and an optional UpgradeDispatcher to a net/stream
// Engine, feeding received bytes through net/httpwire's Parser and driving
// responses through its ResponseBuilder.
type Server struct {
	cfg     Config
	router  *Router
	upgrade *UpgradeDispatcher
	log     logger.Logger

	eng *stream.Engine

	mu    sync.Mutex
	conns map[int]*connState
}

// New builds a Server. router must not be nil; upgrade may be nil when the
// server never upgrades connections.
func New(cfg Config, router *Router, upgrade *UpgradeDispatcher, log logger.Logger) (*Server, liberr.Error) {
	if router == nil {
		return nil, ErrorNilRouter.Error(nil)
	}
	if log == nil {
		log = logger.New()
	}
	if upgrade == nil {
		upgrade = NewUpgradeDispatcher()
	}

	return &Server{
		cfg:     cfg,
		router:  router,
		upgrade: upgrade,
		log:     log,
		conns:   map[int]*connState{},
	}, nil
}

// Start begins listening and serving.
func (s *Server) Start() liberr.Error {
	s.eng = stream.New(stream.Config{
		BindAddr:      s.cfg.BindAddr,
		TLS:           s.cfg.TLS,
		WorkerThreads: s.cfg.WorkerThreads,
		Callbacks: stream.Callbacks{
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

// Stop is the fixed entrypoint mirroring the original stop call: the null
// check on the server argument happens first, before any field access,
// rather than after an internal dereference.
func Stop(srv *Server) liberr.Error {
	if srv == nil {
		return ErrorNilServer.Error(nil)
	}
	return srv.eng.Stop()
}

func (s *Server) onConnected(sck socket.Socket) {
	s.mu.Lock()
	s.conns[sck.Fd()] = &connState{
		parser: httpwire.NewParser(httpwire.ModeRequest, s.cfg.MaxHeaderSize, s.cfg.MaxBodySize),
	}
	s.mu.Unlock()
}

func (s *Server) onDisconnected(sck socket.Socket) {
	s.mu.Lock()
	delete(s.conns, sck.Fd())
	s.mu.Unlock()
}

func (s *Server) connFor(sck socket.Socket) *connState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns[sck.Fd()]
}

func (s *Server) onReadable(sck socket.Socket) {
	c := s.connFor(sck)
	if c == nil {
		return
	}

	if c.upgraded {
		if c.onRead != nil {
			c.onRead(sck)
		}
		return
	}

	buf := make([]byte, s.cfg.readBufSize())
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
			return // closed/error: the engine's own handle() finishes cleanup
		}
		if n == 0 {
			break
		}
	}

	for {
		if c.out != nil {
			break // a previous response hasn't finished draining yet
		}

		res, err := c.parser.Parse()
		if err != nil || res == httpwire.Invalid {
			_ = sck.Close()
			return
		}
		if res == httpwire.Again {
			return
		}

		req := c.parser.Message()
		s.serve(sck, c, req)
		c.parser.Reset()

		if c.out != nil {
			if done := s.drain(sck, c); !done {
				return
			}
		}
	}
}

func (s *Server) onWritable(sck socket.Socket) {
	c := s.connFor(sck)
	if c == nil {
		return
	}
	if c.upgraded {
		if c.onWrite != nil {
			c.onWrite(sck)
		}
		return
	}
	if c.out == nil {
		return
	}
	if done := s.drain(sck, c); done {
		s.onReadable(sck) // pipeline: try parsing whatever already arrived next
	}
}

// serve dispatches req through the router (or a bare 404 if nothing
// matched) and hands the resulting response to c for draining.
func (s *Server) serve(sck socket.Socket, c *connState, req *httpwire.Message) {
	res := httpwire.NewResponseBuilder(s.cfg.ServerName)

	handled, err := s.router.Handle(req, res)
	if err != nil {
		_ = sck.Close()
		return
	}
	if !handled {
		_ = res.Begin(404, "Not Found", req.Version, req.Headers.HasToken("Connection", "close"))
		_ = res.BodyStr("404 Not Found\n")
		_ = res.End()
	}

	chain, action, serr := res.Send()
	if serr != nil {
		_ = sck.Close()
		return
	}

	c.out = chain
	c.action = action

	if action == httpwire.UpgradeWS {
		onRead, onWrite, uerr := s.upgrade.Dispatch(sck, req, res)
		if uerr == nil {
			c.upgraded = true
			c.onRead = onRead
			c.onWrite = onWrite
		}
	}
}

// drain pushes as much of c.out as sck currently accepts. It reports
// whether the chain fully drained; on false, the socket is not writable and
// onWritable will resume once the poller says so.
func (s *Server) drain(sck socket.Socket, c *connState) bool {
	done, err := c.out.TryWriteChain(sck)
	if err != nil {
		_ = sck.Close()
		return false
	}
	if !done {
		return false
	}

	c.out = nil
	if c.action == httpwire.CloseConn && !c.upgraded {
		_ = sck.Close()
	}
	return true
}
