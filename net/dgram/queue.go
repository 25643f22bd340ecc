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

	"github.com/sabouaram/netcore/net/socket"
)

// Dgram is one received datagram, paired with its source address.
type Dgram struct {
	Buf    []byte
	Source socket.Addr
}

// boundedQueue is a FIFO of Dgram guarded by not-empty/not-full condition
// variables, matching the original receive-loop backpressure design: the
// receiver blocks on not-full once the queue is saturated, workers block
// on not-empty, and Stop wakes every waiter on both.
type boundedQueue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	items    []Dgram
	limit    int
	stopped  bool
}

func newBoundedQueue(limit int) *boundedQueue {
	q := &boundedQueue{limit: limit}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Push blocks while the queue is full, returning false if Stop was called
// in the meantime instead of enqueuing.
func (q *boundedQueue) Push(d Dgram) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) >= q.limit && !q.stopped {
		q.notFull.Wait()
	}
	if q.stopped {
		return false
	}

	q.items = append(q.items, d)
	q.notEmpty.Signal()
	return true
}

// Pop blocks while the queue is empty, returning ok=false once Stop has
// been called and there is nothing left to drain.
func (q *boundedQueue) Pop() (d Dgram, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.stopped {
		q.notEmpty.Wait()
	}
	if len(q.items) == 0 {
		return Dgram{}, false
	}

	d = q.items[0]
	q.items = q.items[1:]
	q.notFull.Signal()
	return d, true
}

// Stop wakes every blocked Push/Pop so shutdown can proceed; queued items
// already pushed remain poppable until drained.
func (q *boundedQueue) Stop() {
	q.mu.Lock()
	q.stopped = true
	q.mu.Unlock()
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}
