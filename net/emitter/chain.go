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

	"github.com/sabouaram/netcore/net/socket"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// Chain holds an ordered list of Sources (typically: response header block,
// then zero or more body sources) and drains them in order, resuming at
// whichever source was mid-flight the last time TryWriteChain returned
// false.
type Chain struct {
	sources []Source
	pos     int
}

// NewChain builds a Chain over the given sources, written in order.
func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

// Append adds a source to the end of the chain. Safe to call while the
// chain is mid-drain (e.g. to append a body source once headers finish),
// as long as it happens from the same goroutine driving TryWriteChain.
func (c *Chain) Append(s Source) {
	c.sources = append(c.sources, s)
}

// Done reports whether every source in the chain has fully drained.
func (c *Chain) Done() bool {
	return c.pos >= len(c.sources)
}

// TryWriteChain drains as many sources as sck will currently accept
// without blocking. It returns done=true once every source has drained,
// and a nil error with done=false when the socket is not currently
// writable (ErrorAgain case), so the caller can simply re-invoke once the
// poller reports the socket writable again.
func (c *Chain) TryWriteChain(sck socket.Socket) (done bool, err liberr.Error) {
	for c.pos < len(c.sources) {
		d, e := c.sources[c.pos].TryWrite(sck)
		if e != nil || d {
			if cl, ok := c.sources[c.pos].(io.Closer); ok {
				_ = cl.Close()
			}
		}
		if e != nil {
			return false, e
		}
		if !d {
			return false, nil
		}
		c.pos++
	}
	return true, nil
}
