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

// Package poller is the readiness notifier: it watches a set of file
// descriptors and reports which ones became readable/writable/hup/err,
// backed by epoll on Linux, kqueue on BSD/Darwin, and a select-based
// fallback everywhere else.
package poller

import "github.com/sabouaram/netcore/pkg/errors"

const (
	ErrorCreate errors.CodeError = iota + errors.MinPkgPoller
	ErrorRegister
	ErrorWait
	ErrorClosed
)

func init() {
	errors.RegisterIdFctMessage(ErrorCreate, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorCreate:
		return "failed to create poller instance"
	case ErrorRegister:
		return "failed to register file descriptor with poller"
	case ErrorWait:
		return "poller wait failed"
	case ErrorClosed:
		return "poller is closed"
	}
	return ""
}
