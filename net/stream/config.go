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
	"github.com/sabouaram/netcore/net/socket"
	"github.com/sabouaram/netcore/pkg/certs"
)

// Callbacks mirrors the engine's callback set. Any left nil is simply
// skipped.
type Callbacks struct {
	ServerReady      func(e *Engine)
	WorkerInit       func(workerID int)
	WorkerEnd        func(workerID int)
	SockConnected    func(sck socket.Socket)
	SockDisconnected func(sck socket.Socket)
	SockCanRead      func(sck socket.Socket)
	SockCanWrite     func(sck socket.Socket)
	SockError        func(sck socket.Socket, err error)
}

// Config configures one Engine instance.
type Config struct {
	BindAddr               socket.Addr
	Backlog                int
	MaxEventsPerIteration  int
	WorkerThreads          int // 0 = direct mode, >=1 = queued mode
	TLS                    *certs.Config
	Callbacks              Callbacks
	QueueCapacityPerWorker int // default 64 if unset
}

func (c Config) queueCapacity() int {
	if c.QueueCapacityPerWorker > 0 {
		return c.QueueCapacityPerWorker
	}
	return 64
}

func (c Config) maxEvents() int {
	if c.MaxEventsPerIteration > 0 {
		return c.MaxEventsPerIteration
	}
	return 128
}
