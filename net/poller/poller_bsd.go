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

//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package poller

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"

	liberr "github.com/sabouaram/netcore/pkg/errors"
)

type kqueuePoller struct {
	mu sync.Mutex
	fd int
}

func newPlatform() (Poller, liberr.Error) {
	fd, e := unix.Kqueue()
	if e != nil {
		return nil, ErrorCreate.ErrorParent(e)
	}
	return &kqueuePoller{fd: fd}, nil
}

func (p *kqueuePoller) changelist(fd int, interest Event) []unix.Kevent_t {
	// EV_ONESHOT mirrors the epoll backend's one-shot discipline: each
	// event must be re-armed via Modify after it fires.
	var changes []unix.Kevent_t
	if interest&Readable != 0 {
		changes = append(changes, unix.Kevent_t{
			Ident: uint64(fd), Filter: unix.EVFILT_READ, Flags: unix.EV_ADD | unix.EV_ONESHOT,
		})
	}
	if interest&Writable != 0 {
		changes = append(changes, unix.Kevent_t{
			Ident: uint64(fd), Filter: unix.EVFILT_WRITE, Flags: unix.EV_ADD | unix.EV_ONESHOT,
		})
	}
	return changes
}

func (p *kqueuePoller) Add(fd int, interest Event) liberr.Error {
	p.mu.Lock()
	defer p.mu.Unlock()

	changes := p.changelist(fd, interest)
	if _, e := unix.Kevent(p.fd, changes, nil, nil); e != nil {
		return ErrorRegister.ErrorParent(e)
	}
	return nil
}

func (p *kqueuePoller) Modify(fd int, interest Event) liberr.Error {
	return p.Add(fd, interest)
}

func (p *kqueuePoller) Remove(fd int) liberr.Error {
	p.mu.Lock()
	defer p.mu.Unlock()

	changes := []unix.Kevent_t{
		{Ident: uint64(fd), Filter: unix.EVFILT_READ, Flags: unix.EV_DELETE},
		{Ident: uint64(fd), Filter: unix.EVFILT_WRITE, Flags: unix.EV_DELETE},
	}
	// Best-effort: either filter may not have been registered.
	_, _ = unix.Kevent(p.fd, changes, nil, nil)
	return nil
}

func (p *kqueuePoller) Wait(timeout time.Duration) ([]Readiness, liberr.Error) {
	var ts *unix.Timespec
	if timeout > 0 {
		t := unix.NsecToTimespec(timeout.Nanoseconds())
		ts = &t
	}

	events := make([]unix.Kevent_t, 128)
	n, e := unix.Kevent(p.fd, nil, events, ts)
	if e != nil {
		if e == unix.EINTR {
			return nil, nil
		}
		return nil, ErrorWait.ErrorParent(e)
	}

	byFd := map[int]Event{}
	for i := 0; i < n; i++ {
		fd := int(events[i].Ident)
		var ev Event
		switch events[i].Filter {
		case unix.EVFILT_READ:
			ev = Readable
		case unix.EVFILT_WRITE:
			ev = Writable
		}
		if events[i].Flags&unix.EV_EOF != 0 {
			ev |= Hup
		}
		if events[i].Flags&unix.EV_ERROR != 0 {
			ev |= Err
		}
		byFd[fd] |= ev
	}

	out := make([]Readiness, 0, len(byFd))
	for fd, ev := range byFd {
		out = append(out, Readiness{Fd: fd, Events: ev})
	}
	return out, nil
}

func (p *kqueuePoller) Close() liberr.Error {
	if e := unix.Close(p.fd); e != nil {
		return ErrorClosed.ErrorParent(e)
	}
	return nil
}
