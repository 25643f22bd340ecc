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

package errors

// Package code ranges, one per package of this module, mirroring the
// teacher's MinPkg* ledger in github.com/nabbar/golib/errors. Every
// sub-package of netcore registers its sentinel CodeError values starting
// at its MinPkg* constant via RegisterIdFctMessage.
const (
	MinPkgBuffer   = 100
	MinPkgSocket   = 200
	MinPkgPoller   = 300
	MinPkgStream   = 400
	MinPkgDgram    = 500
	MinPkgEmitter  = 600
	MinPkgHttpWire = 700
	MinPkgHttpSrv  = 800
	MinPkgHttpCli  = 900
	MinPkgWS       = 1000
	MinPkgNM       = 1100
	MinPkgCerts    = 1200
	MinPkgConfig   = 1300
	MinPkgLogger   = 1400

	MinAvailable = 2000
)
