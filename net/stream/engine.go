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

package stream

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sabouaram/netcore/net/poller"
	"github.com/sabouaram/netcore/net/socket"
	libatm "github.com/sabouaram/netcore/pkg/atomic"
	liberr "github.com/sabouaram/netcore/pkg/errors"
	"github.com/sabouaram/netcore/pkg/logger"
)

// Engine is the stream server's central concurrency core: an accept loop
// driven by a readiness Poller, dispatching to callbacks either inline
// (direct mode) or via a worker pool draining a shared queue (queued
// mode).
type Engine struct {
	cfg Config
	log logger.Logger

	ln  *socket.Listener
	pol poller.Poller

	running libatm.Flag
	done    chan struct{}

	connMu sync.Mutex
	conns  map[int]*conn
	ids    map[int]string // fd -> correlation id, for logging

	queue chan streamEvent
	wg    sync.WaitGroup
}

// New builds an Engine for cfg, not yet listening.
func New(cfg Config, log logger.Logger) *Engine {
	if log == nil {
		log = logger.New()
	}
	return &Engine{
		cfg:   cfg,
		log:   log,
		conns: map[int]*conn{},
		ids:   map[int]string{},
	}
}

// Start opens the listener, registers it with a fresh poller, launches the
// worker pool in queued mode, and begins the notifier loop in a new
// goroutine. Start returns once the listener is ready and ServerReady (if
// set) has fired.
func (e *Engine) Start() liberr.Error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrorAlreadyRunning.Error(nil)
	}

	ln, err := socket.Listen(e.cfg.BindAddr, e.cfg.TLS)
	if err != nil {
		e.running.Set(false)
		return ErrorListen.ErrorParent(err)
	}
	e.ln = ln

	pol, err := poller.New()
	if err != nil {
		e.running.Set(false)
		_ = ln.Close()
		return ErrorListen.ErrorParent(err)
	}
	e.pol = pol

	if err := e.pol.Add(e.ln.Fd(), poller.Readable); err != nil {
		e.running.Set(false)
		_ = e.pol.Close()
		_ = ln.Close()
		return ErrorListen.ErrorParent(err)
	}

	e.done = make(chan struct{})

	if e.cfg.WorkerThreads > 0 {
		e.queue = make(chan streamEvent, e.cfg.queueCapacity()*e.cfg.WorkerThreads)
		for i := 0; i < e.cfg.WorkerThreads; i++ {
			e.wg.Add(1)
			go e.worker(i)
		}
	} else if e.cfg.Callbacks.WorkerInit != nil {
		e.cfg.Callbacks.WorkerInit(0)
	}

	if e.cfg.Callbacks.ServerReady != nil {
		e.cfg.Callbacks.ServerReady(e)
	}

	e.wg.Add(1)
	go e.notifierLoop()

	return nil
}

// Stop signals the notifier loop and any workers to shut down, then waits
// for them to drain. Every live connection receives a synthetic CLOSED
// event and a SockDisconnected callback before Stop returns.
func (e *Engine) Stop() liberr.Error {
	if !e.running.CompareAndSwap(true, false) {
		return ErrorNotRunning.Error(nil)
	}

	close(e.done)
	e.wg.Wait()

	e.connMu.Lock()
	remaining := make([]*conn, 0, len(e.conns))
	for _, c := range e.conns {
		remaining = append(remaining, c)
	}
	e.conns = map[int]*conn{}
	e.connMu.Unlock()

	for _, c := range remaining {
		_ = c.sck.Close()
		if e.cfg.Callbacks.SockDisconnected != nil {
			e.cfg.Callbacks.SockDisconnected(c.sck)
		}
	}

	if e.cfg.Callbacks.WorkerEnd != nil {
		e.cfg.Callbacks.WorkerEnd(0)
	}

	_ = e.pol.Close()
	return e.ln.Close()
}

func (e *Engine) notifierLoop() {
	defer e.wg.Done()

	for {
		select {
		case <-e.done:
			return
		default:
		}

		ready, err := e.pol.Wait(200 * time.Millisecond)
		if err != nil {
			continue
		}

		for _, r := range ready {
			if r.Fd == e.ln.Fd() {
				e.acceptLoop()
				_ = e.pol.Modify(e.ln.Fd(), poller.Readable)
				continue
			}
			e.dispatchReadiness(r)
		}
	}
}

func (e *Engine) acceptLoop() {
	for {
		sck, err := e.ln.Accept()
		if err != nil {
			return // ErrorAgain: drained the backlog.
		}

		_ = sck.SetNonblocking(true)

		if e.cfg.Callbacks.SockConnected != nil {
			e.cfg.Callbacks.SockConnected(sck)
		}

		if sck.State().Has(socket.Closed) {
			continue
		}

		c := newConn(sck)
		e.connMu.Lock()
		e.conns[sck.Fd()] = c
		e.ids[sck.Fd()] = uuid.NewString()
		e.connMu.Unlock()

		_ = e.pol.Add(sck.Fd(), poller.Readable)
	}
}

func (e *Engine) dispatchReadiness(r poller.Readiness) {
	e.connMu.Lock()
	c, ok := e.conns[r.Fd]
	e.connMu.Unlock()
	if !ok {
		return
	}

	var k eventKind
	if r.Events&poller.Readable != 0 {
		k |= evRead
	}
	if r.Events&poller.Writable != 0 {
		k |= evWrite
	}
	if r.Events&poller.Hup != 0 {
		k |= evClosed
	}
	if r.Events&poller.Err != 0 {
		k |= evErr
	}
	if k == 0 {
		return
	}

	if e.cfg.WorkerThreads > 0 {
		c.sck.Ref()
		select {
		case e.queue <- streamEvent{fd: r.Fd, kind: k}:
		default:
			// queue saturated: drop and let the next readiness cycle retry.
			c.sck.Unref()
		}
		return
	}

	e.handle(r.Fd, c, k)
	e.rearm(r.Fd, c)
}

func (e *Engine) worker(id int) {
	defer e.wg.Done()

	if e.cfg.Callbacks.WorkerInit != nil {
		e.cfg.Callbacks.WorkerInit(id)
	}

	for {
		select {
		case ev := <-e.queue:
			e.connMu.Lock()
			c, ok := e.conns[ev.fd]
			e.connMu.Unlock()
			if !ok {
				continue
			}

			gotRead, gotWrite := c.tryLock(ev.kind)
			if (ev.kind&(evRead|evClosed|evErr) != 0 && !gotRead) ||
				(ev.kind&(evWrite|evClosed|evErr) != 0 && !gotWrite) {
				c.unlock(ev.kind, gotRead, gotWrite)
				select {
				case e.queue <- ev:
				default:
				}
				continue
			}

			e.handle(ev.fd, c, ev.kind)
			c.unlock(ev.kind, gotRead, gotWrite)
			c.sck.Unref()
			e.rearm(ev.fd, c)

		case <-e.done:
			if e.cfg.Callbacks.WorkerEnd != nil {
				e.cfg.Callbacks.WorkerEnd(id)
			}
			return
		}
	}
}

func (e *Engine) handle(fd int, c *conn, k eventKind) {
	if k&(evClosed|evErr) != 0 {
		e.connMu.Lock()
		delete(e.conns, fd)
		delete(e.ids, fd)
		e.connMu.Unlock()

		_ = e.pol.Remove(fd)
		_ = c.sck.Close()

		if k&evErr != 0 && e.cfg.Callbacks.SockError != nil {
			e.cfg.Callbacks.SockError(c.sck, nil)
		}
		if e.cfg.Callbacks.SockDisconnected != nil {
			e.cfg.Callbacks.SockDisconnected(c.sck)
		}
		return
	}

	if k&evRead != 0 && e.cfg.Callbacks.SockCanRead != nil {
		e.cfg.Callbacks.SockCanRead(c.sck)
	}
	if k&evWrite != 0 && e.cfg.Callbacks.SockCanWrite != nil {
		e.cfg.Callbacks.SockCanWrite(c.sck)
	}
}

func (e *Engine) rearm(fd int, c *conn) {
	st := c.sck.State()
	if st.Has(socket.Closed) {
		return
	}

	interest := poller.Readable
	if st.Has(socket.WriteAgain) {
		interest |= poller.Writable
	}
	_ = e.pol.Modify(fd, interest)
}

// ConnID returns the correlation id assigned to fd at accept time, for log
// correlation across the accept/read/write/close lifecycle.
func (e *Engine) ConnID(fd int) string {
	e.connMu.Lock()
	defer e.connMu.Unlock()
	return e.ids[fd]
}

// Addr returns the listener's bound address, resolved to the actual
// ephemeral port once Start has run if BindAddr.Port was 0.
func (e *Engine) Addr() socket.Addr {
	return e.ln.Addr()
}
