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

package poller

import (
	"time"

	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// Event is the set of readiness bits reported for one fd in one Wait call.
type Event uint8

const (
	Readable Event = 1 << iota
	Writable
	Hup
	Err
)

// Readiness pairs a registered fd with the events observed for it.
type Readiness struct {
	Fd     int
	Events Event
}

// Poller is the readiness notifier every stream/datagram engine drives its
// accept/read/write loop from. Registration is one-shot: once an fd fires,
// it must be re-armed via Modify before it fires again, the level+one-shot
// discipline both epoll and kqueue backends follow here.
type Poller interface {
	// Add registers fd for the given interest set.
	Add(fd int, interest Event) liberr.Error
	// Modify re-arms fd (typically after it fired) for a new interest set.
	Modify(fd int, interest Event) liberr.Error
	// Remove deregisters fd. Safe to call after the fd has already closed.
	Remove(fd int) liberr.Error
	// Wait blocks up to timeout (0 or negative = until an fd is ready) and
	// returns the fds that became ready.
	Wait(timeout time.Duration) ([]Readiness, liberr.Error)
	// Close releases the underlying poller resource.
	Close() liberr.Error
}

// New builds the platform-appropriate Poller: epoll on Linux, kqueue on
// BSD/Darwin, select-based fallback otherwise.
func New() (Poller, liberr.Error) {
	return newPlatform()
}
