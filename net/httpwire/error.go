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

// Package httpwire implements the HTTP/1.x wire layer: a resumable
// request/response parser over pkg/buffer, and a response builder that
// drives a net/emitter chain.
package httpwire

import "github.com/sabouaram/netcore/pkg/errors"

const (
	ErrorInvalid errors.CodeError = iota + errors.MinPkgHttpWire
	ErrorHeaderTooLarge
	ErrorBodyTooLarge
	ErrorBuilderState
	ErrorClosed
)

func init() {
	errors.RegisterIdFctMessage(ErrorInvalid, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorInvalid:
		return "malformed HTTP message"
	case ErrorHeaderTooLarge:
		return "header section exceeds configured limit"
	case ErrorBodyTooLarge:
		return "body exceeds configured limit"
	case ErrorBuilderState:
		return "response builder method called out of order"
	case ErrorClosed:
		return "connection closed while parsing"
	}
	return ""
}
