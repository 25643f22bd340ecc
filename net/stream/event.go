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
	libatm "github.com/sabouaram/netcore/pkg/atomic"
	"github.com/sabouaram/netcore/net/socket"
)

type eventKind uint8

const (
	evRead eventKind = 1 << iota
	evWrite
	evClosed
	evErr
)

type streamEvent struct {
	fd   int
	kind eventKind
}

// conn pairs a Socket with the per-direction try-lock the queued-mode
// worker pool uses to preserve per-socket event ordering: a worker only
// proceeds on an event if it wins the lock(s) the event's direction(s)
// need, otherwise it requeues and moves to the next event.
type conn struct {
	sck         socket.Socket
	readLocked  libatm.Flag
	writeLocked libatm.Flag
}

func newConn(s socket.Socket) *conn {
	return &conn{sck: s}
}

func (c *conn) tryLock(k eventKind) (gotRead, gotWrite bool) {
	if k&(evRead|evClosed|evErr) != 0 {
		gotRead = c.readLocked.CompareAndSwap(false, true)
	} else {
		gotRead = true
	}
	if k&(evWrite|evClosed|evErr) != 0 {
		gotWrite = c.writeLocked.CompareAndSwap(false, true)
	} else {
		gotWrite = true
	}
	return
}

func (c *conn) unlock(k eventKind, heldRead, heldWrite bool) {
	if heldRead && k&(evRead|evClosed|evErr) != 0 {
		c.readLocked.Set(false)
	}
	if heldWrite && k&(evWrite|evClosed|evErr) != 0 {
		c.writeLocked.Set(false)
	}
}
