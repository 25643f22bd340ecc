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

// Package nm implements the NM binary message protocol: a small
// self-describing field/value wire format (magic byte, version, field
// count, then name-tagged typed values) plus client/server transports
// built atop net/stream and net/dgram.
package nm

import "github.com/sabouaram/netcore/pkg/errors"

const (
	ErrorBadMagic errors.CodeError = iota + errors.MinPkgNM
	ErrorBadVersion
	ErrorNameEmpty
	ErrorNameTooLong
	ErrorBadType
	ErrorFieldNotFound
	ErrorNotConnected
	ErrorDial
	ErrorListen
)

func init() {
	errors.RegisterIdFctMessage(ErrorBadMagic, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorBadMagic:
		return "message does not start with the NM magic byte"
	case ErrorBadVersion:
		return "unsupported NM protocol version"
	case ErrorNameEmpty:
		return "field name length is zero"
	case ErrorNameTooLong:
		return "field name longer than 255 bytes"
	case ErrorBadType:
		return "unknown field type tag"
	case ErrorFieldNotFound:
		return "field not present in message"
	case ErrorNotConnected:
		return "client is not connected"
	case ErrorDial:
		return "failed to connect to NM server"
	case ErrorListen:
		return "failed to start NM server"
	}
	return ""
}
