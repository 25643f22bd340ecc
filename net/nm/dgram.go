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
	"github.com/sabouaram/netcore/net/dgram"
	"github.com/sabouaram/netcore/net/socket"
	liberr "github.com/sabouaram/netcore/pkg/errors"
	"github.com/sabouaram/netcore/pkg/logger"
)

// DgramCallbacks mirrors the original dgram server's vtm_nm_dgram_srv_cbs:
// every datagram is decoded whole (NM messages never span more than one
// UDP datagram) before MsgRecv sees it.
type DgramCallbacks struct {
	ServerReady func(s *DgramServer)
	WorkerInit  func(workerID int)
	WorkerEnd   func(workerID int)
	MsgRecv     func(s *DgramServer, msg *Message, from socket.Addr)
	OnError     func(err liberr.Error)
}

// DgramConfig configures one DgramServer.
type DgramConfig struct {
	BindAddr      socket.Addr
	WorkerThreads int
	QueueLimit    int
}

// DgramServer decodes each inbound UDP datagram as a whole NM message and
// can reply to any peer address observed in MsgRecv - the Go counterpart
// of vtm_nm_dgram_srv_run/vtm_nm_dgram_srv_send.
type DgramServer struct {
	cfg DgramConfig
	cb  DgramCallbacks
	log logger.Logger

	eng *dgram.Engine
}

// NewDgramServer builds a DgramServer, not yet listening.
func NewDgramServer(cfg DgramConfig, cb DgramCallbacks, log logger.Logger) *DgramServer {
	if log == nil {
		log = logger.New()
	}
	return &DgramServer{cfg: cfg, cb: cb, log: log}
}

// Start binds the datagram socket and begins serving.
func (s *DgramServer) Start() liberr.Error {
	s.eng = dgram.New(dgram.Config{
		BindAddr:      s.cfg.BindAddr,
		WorkerThreads: s.cfg.WorkerThreads,
		QueueLimit:    s.cfg.QueueLimit,
		OnDgram:       s.onDgram,
		OnError:       s.cb.OnError,
		WorkerInit:    s.cb.WorkerInit,
		WorkerEnd:     s.cb.WorkerEnd,
	}, s.log)

	if err := s.eng.Start(); err != nil {
		return err
	}
	if s.cb.ServerReady != nil {
		s.cb.ServerReady(s)
	}
	return nil
}

// Addr returns the bound UDP socket's local address, resolved to the actual
// ephemeral port once Start has run if BindAddr.Port was 0.
func (s *DgramServer) Addr() socket.Addr {
	return s.eng.Addr()
}

// Stop halts the engine.
func (s *DgramServer) Stop() liberr.Error {
	return s.eng.Stop()
}

// Send encodes msg and writes it to to, mirroring vtm_nm_dgram_srv_send.
func (s *DgramServer) Send(msg *Message, to socket.Addr) liberr.Error {
	p, e := Encode(msg)
	if e != nil {
		return e
	}
	return s.eng.Send(to, p)
}

func (s *DgramServer) onDgram(d dgram.Dgram) {
	parser := NewParser()
	if fe := parser.Feed(d.Buf); fe != nil {
		if s.cb.OnError != nil {
			s.cb.OnError(fe)
		}
		return
	}

	res, perr := parser.Parse()
	if perr != nil {
		if s.cb.OnError != nil {
			s.cb.OnError(perr)
		}
		return
	}
	if res != Complete {
		if s.cb.OnError != nil {
			s.cb.OnError(ErrorBadMagic.Error(nil))
		}
		return
	}

	if s.cb.MsgRecv != nil {
		s.cb.MsgRecv(s, parser.Message(), d.Source)
	}
}

// DgramClient is a synchronous NM datagram client, mirroring
// vtm_nm_dgram_client.
type DgramClient struct {
	sck  socket.Socket
	addr socket.Addr
}

// NewDgramClient binds an ephemeral local UDP socket for talking to addr.
func NewDgramClient(addr socket.Addr) (*DgramClient, liberr.Error) {
	sck, err := socket.ListenUDP(socket.Addr{Host: "0.0.0.0", Port: 0})
	if err != nil {
		return nil, ErrorDial.ErrorParent(err)
	}
	if serr := sck.SetNonblocking(false); serr != nil {
		_ = sck.Close()
		return nil, serr
	}
	return &DgramClient{sck: sck, addr: addr}, nil
}

// Close releases the local socket.
func (c *DgramClient) Close() liberr.Error { return c.sck.Close() }

// Send encodes and sends msg to the server address given at construction.
func (c *DgramClient) Send(msg *Message) liberr.Error {
	p, e := Encode(msg)
	if e != nil {
		return e
	}
	_, werr := c.sck.DgramSend(p, c.addr)
	return werr
}

// Recv blocks until one datagram arrives, decoding it as a whole message.
func (c *DgramClient) Recv() (*Message, liberr.Error) {
	buf := make([]byte, 64*1024)
	n, _, err := c.sck.DgramRecv(buf)
	if err != nil {
		return nil, err
	}

	parser := NewParser()
	if fe := parser.Feed(buf[:n]); fe != nil {
		return nil, fe
	}
	res, perr := parser.Parse()
	if perr != nil {
		return nil, perr
	}
	if res != Complete {
		return nil, ErrorBadMagic.Error(nil)
	}
	return parser.Message(), nil
}
