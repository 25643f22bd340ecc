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

package buffer

import (
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// ByteOrder selects the wire byte order a Buffer declares for itself, and
// the one a caller may pass to PutBytesOrder/GetBytesOrder when the source
// or destination disagrees with it.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

// inlineSize matches the original core's 1 KiB inline scratch region
// (struct vtm_buf.sdata[1024]) used before the buffer ever heap-grows.
const inlineSize = 1024

// Buffer is a growing byte store with independent write (used) and read
// cursors. The invariant 0 <= read <= used <= len(data) holds after every
// public method returns.
type Buffer struct {
	order ByteOrder
	data  []byte
	used  int
	read  int
	err   liberr.Error
}

// New allocates a Buffer with the given declared byte order and the
// teacher-sized inline region pre-reserved.
func New(order ByteOrder) *Buffer {
	return &Buffer{
		order: order,
		data:  make([]byte, inlineSize),
	}
}

func (b *Buffer) Order() ByteOrder { return b.order }

// Err returns the sticky error set by the first failed Ensure, or nil.
func (b *Buffer) Err() liberr.Error { return b.err }

// Len returns the current backing capacity.
func (b *Buffer) Len() int { return len(b.data) }

// Used returns the number of bytes written (including already-read ones).
func (b *Buffer) Used() int { return b.used }

// Read returns the number of bytes already consumed by Get operations.
func (b *Buffer) Read() int { return b.read }

// Avail reports the number of unread bytes still pending (used - read).
func (b *Buffer) Avail() int { return b.used - b.read }

// Bytes returns the unread region [read:used), a live view into the
// internal storage. The parsers in this module copy what they keep out of
// it; callers must not retain it across a DiscardProcessed or Reset.
func (b *Buffer) Bytes() []byte { return b.data[b.read:b.used] }

// All returns the full written region [0:used), mainly useful for tests.
func (b *Buffer) All() []byte { return b.data[:b.used] }

// Reset clears used/read back to zero without shrinking the backing array.
func (b *Buffer) Reset() {
	b.used = 0
	b.read = 0
	b.err = nil
}

// Ensure grows the backing array, doubling geometrically, until it can
// hold at least `used+n` bytes. A no-op once the buffer is already in a
// sticky error state.
func (b *Buffer) Ensure(n int) liberr.Error {
	if b.err != nil {
		return b.err
	}
	if n < 0 {
		b.err = ErrorOverflow.Error(nil)
		return b.err
	}

	need := b.used + n
	if need < b.used {
		b.err = ErrorOverflow.Error(nil)
		return b.err
	}
	if need <= len(b.data) {
		return nil
	}

	newLen := len(b.data)
	if newLen == 0 {
		newLen = inlineSize
	}
	for newLen < need {
		newLen *= 2
	}

	grown := make([]byte, newLen)
	copy(grown, b.data[:b.used])
	b.data = grown
	return nil
}

// DiscardProcessed shifts the unread region to the front of the buffer and
// resets the read cursor to zero, so accumulation can continue without
// unbounded growth once a message has been partially consumed.
func (b *Buffer) DiscardProcessed() {
	if b.read == 0 {
		return
	}
	n := copy(b.data, b.data[b.read:b.used])
	b.used = n
	b.read = 0
}

// MarkProcessed advances the read cursor by n bytes without copying,
// overflow-checked against used.
func (b *Buffer) MarkProcessed(n int) liberr.Error {
	if n < 0 || b.read+n > b.used || b.read+n < b.read {
		return ErrorOverflow.Error(nil)
	}
	b.read += n
	return nil
}

func reverse(p []byte) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}

// PutBytes appends a copy of src, reversing its byte order first when
// srcOrder disagrees with the buffer's declared order.
func (b *Buffer) PutBytes(src []byte, srcOrder ByteOrder) liberr.Error {
	if b.err != nil {
		return b.err
	}
	if e := b.Ensure(len(src)); e != nil {
		return e
	}

	n := copy(b.data[b.used:], src)
	if srcOrder != b.order {
		reverse(b.data[b.used : b.used+n])
	}
	b.used += n
	return nil
}

// Put appends src verbatim, in the buffer's own declared order.
func (b *Buffer) Put(src []byte) liberr.Error {
	return b.PutBytes(src, b.order)
}

// PutByte appends a single byte.
func (b *Buffer) PutByte(c byte) liberr.Error {
	return b.Put([]byte{c})
}

// PutString appends s without any terminator, matching vtm_buf_puts.
func (b *Buffer) PutString(s string) liberr.Error {
	return b.Put([]byte(s))
}

// GetBytes copies len(dst) bytes from the unread region into dst,
// reversing byte order first when dstOrder disagrees with the buffer's
// declared order, then advances the read cursor.
func (b *Buffer) GetBytes(dst []byte, dstOrder ByteOrder) liberr.Error {
	if b.err != nil {
		return b.err
	}
	if b.read+len(dst) > b.used {
		return ErrorOverflow.Error(nil)
	}

	n := copy(dst, b.data[b.read:b.read+len(dst)])
	if dstOrder != b.order {
		reverse(dst[:n])
	}
	b.read += n
	return nil
}

// Get copies len(dst) bytes verbatim in the buffer's own order.
func (b *Buffer) Get(dst []byte) liberr.Error {
	return b.GetBytes(dst, b.order)
}
