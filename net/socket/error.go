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

// Package socket wraps a single network connection (TCP, TLS-over-TCP or UDP)
// behind a non-blocking, refcounted lifecycle, the bottom layer every
// reactor, parser and emitter in netcore sits on.
package socket

import "github.com/sabouaram/netcore/pkg/errors"

const (
	ErrorAgain errors.CodeError = iota + errors.MinPkgSocket
	ErrorClosed
	ErrorNotSupported
	ErrorInvalidAddr
	ErrorListen
	ErrorAccept
	ErrorConnect
	ErrorLocked
	ErrorMaxReached
)

func init() {
	errors.RegisterIdFctMessage(ErrorAgain, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorAgain:
		return "operation would block, retry once the socket is readable/writable again"
	case ErrorClosed:
		return "socket is closed"
	case ErrorNotSupported:
		return "operation not supported by this socket variant"
	case ErrorInvalidAddr:
		return "invalid socket address"
	case ErrorListen:
		return "listen failed"
	case ErrorAccept:
		return "accept failed"
	case ErrorConnect:
		return "connect failed"
	case ErrorLocked:
		return "socket direction is locked by a concurrent operation"
	case ErrorMaxReached:
		return "maximum number of sockets reached"
	}
	return ""
}
