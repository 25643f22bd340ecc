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

//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package poller

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"

	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// selectPoller is the fallback readiness notifier for platforms without an
// epoll/kqueue equivalent. It re-scans the whole registered set on every
// Wait, which bounds it to the small fd counts a fallback platform is
// expected to serve.
type selectPoller struct {
	mu   sync.Mutex
	want map[int]Event
}

func newPlatform() (Poller, liberr.Error) {
	return &selectPoller{want: map[int]Event{}}, nil
}

func (p *selectPoller) Add(fd int, interest Event) liberr.Error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.want[fd] = interest
	return nil
}

func (p *selectPoller) Modify(fd int, interest Event) liberr.Error {
	return p.Add(fd, interest)
}

func (p *selectPoller) Remove(fd int) liberr.Error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.want, fd)
	return nil
}

func (p *selectPoller) Wait(timeout time.Duration) ([]Readiness, liberr.Error) {
	p.mu.Lock()
	want := make(map[int]Event, len(p.want))
	for fd, ev := range p.want {
		want[fd] = ev
	}
	p.mu.Unlock()

	var rfds, wfds unix.FdSet
	maxFd := 0
	for fd, ev := range want {
		if ev&Readable != 0 {
			fdSet(&rfds, fd)
		}
		if ev&Writable != 0 {
			fdSet(&wfds, fd)
		}
		if fd > maxFd {
			maxFd = fd
		}
	}

	var tv *unix.Timeval
	if timeout > 0 {
		t := unix.NsecToTimeval(timeout.Nanoseconds())
		tv = &t
	}

	if _, e := unix.Select(maxFd+1, &rfds, &wfds, nil, tv); e != nil {
		if e == unix.EINTR {
			return nil, nil
		}
		return nil, ErrorWait.ErrorParent(e)
	}

	out := make([]Readiness, 0, len(want))
	for fd, ev := range want {
		var got Event
		if ev&Readable != 0 && fdIsSet(&rfds, fd) {
			got |= Readable
		}
		if ev&Writable != 0 && fdIsSet(&wfds, fd) {
			got |= Writable
		}
		if got != 0 {
			// one-shot: deregister the fired interest until re-armed.
			p.mu.Lock()
			delete(p.want, fd)
			p.mu.Unlock()
			out = append(out, Readiness{Fd: fd, Events: got})
		}
	}
	return out, nil
}

func fdSet(set *unix.FdSet, fd int) {
	set.Bits[fd/64] |= 1 << (uint(fd) % 64)
}

func fdIsSet(set *unix.FdSet, fd int) bool {
	return set.Bits[fd/64]&(1<<(uint(fd)%64)) != 0
}

func (p *selectPoller) Close() liberr.Error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.want = map[int]Event{}
	return nil
}
