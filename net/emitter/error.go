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

// Package emitter drains a heterogeneous chain of response sources (raw
// bytes, buffers, files) onto a socket, resuming cleanly across partial
// non-blocking writes.
package emitter

import "github.com/sabouaram/netcore/pkg/errors"

const (
	ErrorAgain errors.CodeError = iota + errors.MinPkgEmitter
	ErrorClosed
	ErrorFileOpen
	ErrorFileRead
)

func init() {
	errors.RegisterIdFctMessage(ErrorAgain, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorAgain:
		return "write would block, retry once the socket is writable again"
	case ErrorClosed:
		return "socket closed before the emitter chain drained"
	case ErrorFileOpen:
		return "failed to open file source"
	case ErrorFileRead:
		return "failed to read from file source"
	}
	return ""
}
