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

// Package dgram is the datagram server engine: a receive loop that either
// invokes the handler directly (threads=0) or hands each datagram to a
// bounded worker pool (threads>=1), applying backpressure once the queue
// fills rather than growing it unbounded.
package dgram

import "github.com/sabouaram/netcore/pkg/errors"

const (
	ErrorAlreadyRunning errors.CodeError = iota + errors.MinPkgDgram
	ErrorNotRunning
	ErrorBind
)

func init() {
	errors.RegisterIdFctMessage(ErrorAlreadyRunning, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorAlreadyRunning:
		return "engine is already running"
	case ErrorNotRunning:
		return "engine is not running"
	case ErrorBind:
		return "failed to bind datagram socket"
	}
	return ""
}
