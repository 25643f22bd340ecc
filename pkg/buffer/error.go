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

// Package buffer implements the growing byte buffer every wire parser in
// netcore accumulates and drains through: a small inline region that grows
// geometrically, a read/write cursor pair, and a sticky error that turns
// every subsequent Put into a no-op once an Ensure size check fails.
package buffer

import "github.com/sabouaram/netcore/pkg/errors"

const (
	ErrorOverflow errors.CodeError = iota + errors.MinPkgBuffer
	ErrorMalloc
	ErrorSticky
)

func init() {
	errors.RegisterIdFctMessage(ErrorOverflow, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorOverflow:
		return "requested size overflows buffer capacity"
	case ErrorMalloc:
		return "buffer allocation failed"
	case ErrorSticky:
		return "buffer is in a sticky error state from a previous operation"
	}
	return ""
}
