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

// Package atomic narrows the lock-free Value[T] pattern down to the two
// concrete counters the reactor substrate shares: a refcount for socket
// lifetime (net/socket) and a running flag for engine start/stop
// (net/stream, net/dgram).
package atomic

import "sync/atomic"

// RefCount is a CAS-based reference counter. A Socket starts at one
// reference (its owner) and is released back to the pool or closed once
// the count returns to zero, matching the refcounted socket lifecycle.
type RefCount struct {
	n int32
}

// NewRefCount returns a RefCount initialized to 1.
func NewRefCount() *RefCount {
	return &RefCount{n: 1}
}

// Inc adds one reference and returns the new count.
func (r *RefCount) Inc() int32 {
	return atomic.AddInt32(&r.n, 1)
}

// Dec removes one reference and returns the new count. Callers release
// the underlying resource when the returned value reaches zero.
func (r *RefCount) Dec() int32 {
	return atomic.AddInt32(&r.n, -1)
}

// Value reports the current count without modifying it.
func (r *RefCount) Value() int32 {
	return atomic.LoadInt32(&r.n)
}

// Flag is a CAS-based boolean, used as the running/stopped latch for the
// stream and datagram server engines so Start/Stop can be called safely
// from any goroutine while workers poll it without a lock.
type Flag struct {
	v int32
}

// Set stores b.
func (f *Flag) Set(b bool) {
	if b {
		atomic.StoreInt32(&f.v, 1)
	} else {
		atomic.StoreInt32(&f.v, 0)
	}
}

// Get loads the current value.
func (f *Flag) Get() bool {
	return atomic.LoadInt32(&f.v) != 0
}

// CompareAndSwap performs the same as atomic.CompareAndSwapInt32 over the
// flag's two boolean states, used by engine shutdown to ensure only one
// caller drives the drain-latch transition.
func (f *Flag) CompareAndSwap(old, new bool) bool {
	var o, n int32
	if old {
		o = 1
	}
	if new {
		n = 1
	}
	return atomic.CompareAndSwapInt32(&f.v, o, n)
}
