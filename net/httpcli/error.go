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

// Package httpcli is a blocking HTTP/1.x client built on net/socket and
// net/httpwire: one request per connection, synchronous Do call, optional
// TLS with certificate verification disabled for testing against
// self-signed endpoints.
package httpcli

import "github.com/sabouaram/netcore/pkg/errors"

const (
	ErrorBadURL errors.CodeError = iota + errors.MinPkgHttpCli
	ErrorUnsupportedScheme
	ErrorTimeout
	ErrorInvalidResponse
)

func init() {
	errors.RegisterIdFctMessage(ErrorBadURL, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorBadURL:
		return "malformed request URL"
	case ErrorUnsupportedScheme:
		return "unsupported URL scheme"
	case ErrorTimeout:
		return "request timed out"
	case ErrorInvalidResponse:
		return "malformed or incomplete response"
	}
	return ""
}
