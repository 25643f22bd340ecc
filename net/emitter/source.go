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

package emitter

import (
	"io"
	"os"

	"github.com/sabouaram/netcore/net/socket"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// Source is one link of an emitter chain. TryWrite attempts to push as much
// of the source onto sck as it will currently accept without blocking, and
// reports whether the source is now fully drained.
type Source interface {
	// TryWrite pushes pending bytes onto sck. done is true once this source
	// has nothing left to write.
	TryWrite(sck socket.Socket) (done bool, err liberr.Error)
}

// RawSource emits a fixed in-memory byte slice, tracking how much of it has
// already been written across resumed calls.
type RawSource struct {
	data []byte
	off  int
}

// NewRaw wraps p as a Source. p is not copied; the caller must not mutate
// it until the source reports done.
func NewRaw(p []byte) *RawSource {
	return &RawSource{data: p}
}

func (s *RawSource) TryWrite(sck socket.Socket) (bool, liberr.Error) {
	for s.off < len(s.data) {
		n, e := sck.Send(s.data[s.off:])
		s.off += n
		if e != nil {
			if e.HasCode(socket.ErrorAgain) {
				return false, nil
			}
			return false, e
		}
		if n == 0 {
			return false, nil
		}
	}
	return true, nil
}

// BufferSource emits the contents of a *bytes.Buffer-like accumulator; it
// is distinguished from RawSource only by ownership semantics (the chain
// reads it fully, then discards it) and is otherwise implemented the same.
type BufferSource struct {
	RawSource
}

// NewBuffer wraps p (e.g. the rendered bytes of an HTTP response header
// block) as a Source.
func NewBuffer(p []byte) *BufferSource {
	return &BufferSource{RawSource{data: p}}
}

// FileSource emits a file's contents (or a byte range of it), used for
// static file responses so a large body never needs to be fully buffered
// in memory.
type FileSource struct {
	f       *os.File
	remain  int64
	bufSize int
	scratch []byte
	pending []byte
}

// NewFile opens path and arranges to emit exactly length bytes starting at
// offset. Closing the underlying *os.File is the chain's responsibility
// once TryWrite reports done (or on error).
func NewFile(path string, offset, length int64) (*FileSource, liberr.Error) {
	f, e := os.Open(path)
	if e != nil {
		return nil, ErrorFileOpen.ErrorParent(e)
	}

	if offset > 0 {
		if _, e := f.Seek(offset, io.SeekStart); e != nil {
			_ = f.Close()
			return nil, ErrorFileOpen.ErrorParent(e)
		}
	}

	return &FileSource{f: f, remain: length, bufSize: 32 * 1024}, nil
}

func (s *FileSource) Close() error {
	return s.f.Close()
}

func (s *FileSource) TryWrite(sck socket.Socket) (bool, liberr.Error) {
	for {
		if len(s.pending) == 0 {
			if s.remain <= 0 {
				return true, nil
			}

			if s.scratch == nil {
				s.scratch = make([]byte, s.bufSize)
			}

			want := int64(len(s.scratch))
			if s.remain < want {
				want = s.remain
			}

			n, e := s.f.Read(s.scratch[:want])
			if n > 0 {
				s.pending = s.scratch[:n]
				s.remain -= int64(n)
			}
			if e != nil && e != io.EOF {
				return false, ErrorFileRead.ErrorParent(e)
			}
			if n == 0 {
				return true, nil
			}
		}

		n, e := sck.Send(s.pending)
		s.pending = s.pending[n:]
		if e != nil {
			if e.HasCode(socket.ErrorAgain) {
				return false, nil
			}
			return false, e
		}
		if n == 0 {
			return false, nil
		}
	}
}
