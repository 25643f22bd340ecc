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

//go:build linux

package poller

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"

	liberr "github.com/sabouaram/netcore/pkg/errors"
)

type epollPoller struct {
	mu sync.Mutex
	fd int
}

func newPlatform() (Poller, liberr.Error) {
	fd, e := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if e != nil {
		return nil, ErrorCreate.ErrorParent(e)
	}
	return &epollPoller{fd: fd}, nil
}

func toEpollEvents(interest Event) uint32 {
	var m uint32
	if interest&Readable != 0 {
		m |= unix.EPOLLIN
	}
	if interest&Writable != 0 {
		m |= unix.EPOLLOUT
	}
	// level-triggered + one-shot: every registration must be re-armed
	// explicitly via Modify after it fires.
	m |= unix.EPOLLONESHOT
	return m
}

func (p *epollPoller) Add(fd int, interest Event) liberr.Error {
	ev := &unix.EpollEvent{Events: toEpollEvents(interest), Fd: int32(fd)}
	if e := unix.EpollCtl(p.fd, unix.EPOLL_CTL_ADD, fd, ev); e != nil {
		return ErrorRegister.ErrorParent(e)
	}
	return nil
}

func (p *epollPoller) Modify(fd int, interest Event) liberr.Error {
	ev := &unix.EpollEvent{Events: toEpollEvents(interest), Fd: int32(fd)}
	if e := unix.EpollCtl(p.fd, unix.EPOLL_CTL_MOD, fd, ev); e != nil {
		return ErrorRegister.ErrorParent(e)
	}
	return nil
}

func (p *epollPoller) Remove(fd int) liberr.Error {
	if e := unix.EpollCtl(p.fd, unix.EPOLL_CTL_DEL, fd, nil); e != nil && e != unix.ENOENT && e != unix.EBADF {
		return ErrorRegister.ErrorParent(e)
	}
	return nil
}

func (p *epollPoller) Wait(timeout time.Duration) ([]Readiness, liberr.Error) {
	ms := -1
	if timeout > 0 {
		ms = int(timeout.Milliseconds())
	}

	events := make([]unix.EpollEvent, 128)
	n, e := unix.EpollWait(p.fd, events, ms)
	if e != nil {
		if e == unix.EINTR {
			return nil, nil
		}
		return nil, ErrorWait.ErrorParent(e)
	}

	out := make([]Readiness, 0, n)
	for i := 0; i < n; i++ {
		var ev Event
		m := events[i].Events
		if m&unix.EPOLLIN != 0 {
			ev |= Readable
		}
		if m&unix.EPOLLOUT != 0 {
			ev |= Writable
		}
		if m&unix.EPOLLHUP != 0 {
			ev |= Hup
		}
		if m&unix.EPOLLERR != 0 {
			ev |= Err
		}
		out = append(out, Readiness{Fd: int(events[i].Fd), Events: ev})
	}
	return out, nil
}

func (p *epollPoller) Close() liberr.Error {
	if e := unix.Close(p.fd); e != nil {
		return ErrorClosed.ErrorParent(e)
	}
	return nil
}
