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

// Package httpsrv assembles net/httpwire and net/stream into a routable
// HTTP/1.x server: an ordered-prefix Router, a static file route, a Basic
// auth helper, and an Upgrade-header dispatcher.
package httpsrv

import "github.com/sabouaram/netcore/pkg/errors"

const (
	ErrorNilServer errors.CodeError = iota + errors.MinPkgHttpSrv
	ErrorNilRouter
	ErrorPathEscape
	ErrorNotRegularFile
	ErrorNoUpgradeHandler
	ErrorListen
)

func init() {
	errors.RegisterIdFctMessage(ErrorNilServer, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorNilServer:
		return "nil server"
	case ErrorNilRouter:
		return "nil router"
	case ErrorPathEscape:
		return "resolved path escapes static root"
	case ErrorNotRegularFile:
		return "resolved path is not a regular file"
	case ErrorNoUpgradeHandler:
		return "no handler registered for upgrade token"
	case ErrorListen:
		return "listen failed"
	}
	return ""
}
