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

package dgram

import (
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/sabouaram/netcore/net/socket"
	libatm "github.com/sabouaram/netcore/pkg/atomic"
	liberr "github.com/sabouaram/netcore/pkg/errors"
	"github.com/sabouaram/netcore/pkg/logger"
)

// antsLogger adapts Logger to ants.Logger's single Printf method.
type antsLogger struct {
	l logger.Logger
}

func (a antsLogger) Printf(format string, args ...interface{}) {
	a.l.Debug(format, nil, args...)
}

// Config configures one datagram Engine.
type Config struct {
	BindAddr      socket.Addr
	WorkerThreads int // 0 = direct mode (receiver invokes OnDgram inline)
	QueueLimit    int // default 2*WorkerThreads, minimum 1
	OnDgram       func(d Dgram)
	OnError       func(err liberr.Error)
	ReadBufSize   int // default 64 KiB

	// WorkerInit/WorkerEnd bracket each worker goroutine's lifetime (worker
	// id 0 in direct mode, since there's no pool to bracket otherwise), the
	// place to stash per-worker resources such as a database handle.
	WorkerInit func(workerID int)
	WorkerEnd  func(workerID int)
}

func (c Config) queueLimit() int {
	if c.QueueLimit > 0 {
		return c.QueueLimit
	}
	if c.WorkerThreads > 0 {
		return 2 * c.WorkerThreads
	}
	return 1
}

func (c Config) readBufSize() int {
	if c.ReadBufSize > 0 {
		return c.ReadBufSize
	}
	return 64 * 1024
}

// Engine is the datagram server engine: a receive loop over a bound UDP
// socket.Socket, either invoking OnDgram inline (threads=0) or handing each
// datagram to a bounded FIFO drained by a worker pool (threads>=1).
type Engine struct {
	cfg Config
	log logger.Logger

	sck socket.Socket
	q   *boundedQueue
	pool *ants.Pool

	running libatm.Flag
	wg      sync.WaitGroup
}

// New builds an Engine for cfg, not yet listening.
func New(cfg Config, log logger.Logger) *Engine {
	if log == nil {
		log = logger.New()
	}
	return &Engine{cfg: cfg, log: log}
}

// Start binds the datagram socket and begins the receive loop.
func (e *Engine) Start() liberr.Error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrorAlreadyRunning.Error(nil)
	}

	sck, err := socket.ListenUDP(e.cfg.BindAddr)
	if err != nil {
		e.running.Set(false)
		return ErrorBind.ErrorParent(err)
	}
	e.sck = sck

	if e.cfg.WorkerThreads > 0 {
		e.q = newBoundedQueue(e.cfg.queueLimit())

		pool, perr := ants.NewPool(e.cfg.WorkerThreads, ants.WithLogger(antsLogger{e.log}))
		if perr != nil {
			e.running.Set(false)
			_ = sck.Close()
			return ErrorBind.ErrorParent(perr)
		}
		e.pool = pool

		for i := 0; i < e.cfg.WorkerThreads; i++ {
			e.wg.Add(1)
			go e.worker(i)
		}
	} else if e.cfg.WorkerInit != nil {
		e.cfg.WorkerInit(0)
	}

	e.wg.Add(1)
	go e.receiveLoop()

	return nil
}

// Addr returns the bound UDP socket's local address, resolved to the actual
// ephemeral port once Start has run if BindAddr.Port was 0.
func (e *Engine) Addr() socket.Addr {
	return e.sck.LocalAddr()
}

// Send writes p to to over the engine's bound socket, for replying to a
// peer address captured from a received Dgram. It is safe to call
// concurrently with the receive loop and from worker goroutines.
func (e *Engine) Send(to socket.Addr, p []byte) liberr.Error {
	if !e.running.Get() {
		return ErrorNotRunning.Error(nil)
	}
	_, err := e.sck.DgramSend(p, to)
	return err
}

// Stop halts the receive loop, wakes any blocked worker, and waits for
// everything to drain.
func (e *Engine) Stop() liberr.Error {
	if !e.running.CompareAndSwap(true, false) {
		return ErrorNotRunning.Error(nil)
	}

	_ = e.sck.Close()
	if e.q != nil {
		e.q.Stop()
	}
	e.wg.Wait()

	if e.pool != nil {
		e.pool.Release()
	}
	if e.cfg.WorkerThreads == 0 && e.cfg.WorkerEnd != nil {
		e.cfg.WorkerEnd(0)
	}
	return nil
}

func (e *Engine) receiveLoop() {
	defer e.wg.Done()

	buf := make([]byte, e.cfg.readBufSize())
	for e.running.Get() {
		n, from, err := e.sck.DgramRecv(buf)
		if err != nil {
			if err.HasCode(socket.ErrorAgain) {
				continue
			}
			if e.running.Get() && e.cfg.OnError != nil {
				e.cfg.OnError(err)
			}
			return
		}

		cpy := make([]byte, n)
		copy(cpy, buf[:n])
		d := Dgram{Buf: cpy, Source: from}

		if e.cfg.WorkerThreads == 0 {
			if e.cfg.OnDgram != nil {
				e.cfg.OnDgram(d)
			}
			continue
		}

		e.q.Push(d)
	}
}

func (e *Engine) worker(id int) {
	defer e.wg.Done()

	if e.cfg.WorkerInit != nil {
		e.cfg.WorkerInit(id)
	}
	defer func() {
		if e.cfg.WorkerEnd != nil {
			e.cfg.WorkerEnd(id)
		}
	}()

	for {
		d, ok := e.q.Pop()
		if !ok {
			return
		}

		if e.cfg.OnDgram == nil {
			continue
		}

		// submitted through the ants pool so handler execution shares the
		// same bounded-concurrency pool as net/nm's dgram server.
		d := d
		_ = e.pool.Submit(func() {
			e.cfg.OnDgram(d)
		})
	}
}
