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

// Package errors gives every wire/engine component of netcore a uniform,
// numeric, HTTP-status-shaped error code plus parent-chaining, replacing the
// original C core's thread-local (code, file, line, message) error slot with
// a value carried on the return path.
package errors

import (
	"math"
	"reflect"
	"runtime"
	"sort"
	"strconv"
)

var idMsgFct = make(map[CodeError]Message)

// Message generates the human string for a CodeError.
type Message func(code CodeError) (message string)

// CodeError is a uint16 error classification, in the same numeric family as
// the VTM-style result codes of the original core (OK, IO_AGAIN,
// MAX_REACHED, ...) but namespaced per package the way the teacher's
// errors.CodeError is.
type CodeError uint16

const (
	UnknownError   CodeError = 0
	UnknownMessage           = "unknown error"
	NullMessage              = ""
)

func ParseCodeError(i int64) CodeError {
	if i < 0 {
		return UnknownError
	} else if i >= int64(math.MaxUint16) {
		return math.MaxUint16
	}
	return CodeError(i)
}

func (c CodeError) Uint16() uint16 {
	return uint16(c)
}

func (c CodeError) Int() int {
	return int(c)
}

func (c CodeError) String() string {
	return strconv.Itoa(c.Int())
}

// Message returns the registered human message for this code, falling back
// to UnknownMessage when no package registered a handler for this range.
func (c CodeError) Message() string {
	if c == UnknownError {
		return UnknownMessage
	}

	if f, ok := idMsgFct[findCodeErrorInMapMessage(c)]; ok {
		if m := f(c); m != "" {
			return m
		}
	}

	return UnknownMessage
}

// Error builds a new Error value carrying this code, its registered message
// and the given parent errors.
func (c CodeError) Error(p ...error) Error {
	return New(c.Uint16(), c.Message(), p...)
}

// ErrorParent is a convenience alias kept for symmetry with CodeError.Error
// when the call site only ever carries a single wrapped error (the common
// case at a syscall edge).
func (c CodeError) ErrorParent(p error) Error {
	if p == nil {
		return New(c.Uint16(), c.Message())
	}
	return New(c.Uint16(), c.Message(), p)
}

func RegisterIdFctMessage(minCode CodeError, fct Message) {
	if idMsgFct == nil {
		idMsgFct = make(map[CodeError]Message)
	}
	idMsgFct[minCode] = fct
	orderMapMessage()
}

func ExistInMapMessage(code CodeError) bool {
	if f, ok := idMsgFct[findCodeErrorInMapMessage(code)]; ok {
		return f(code) != NullMessage
	}
	return false
}

func getMapMessageKey() []CodeError {
	keys := make([]int, 0, len(idMsgFct))
	for k := range idMsgFct {
		keys = append(keys, int(k.Uint16()))
	}
	sort.Ints(keys)

	res := make([]CodeError, 0, len(keys))
	for _, k := range keys {
		res = append(res, CodeError(k))
	}
	return res
}

func orderMapMessage() {
	res := make(map[CodeError]Message)
	for _, k := range getMapMessageKey() {
		res[k] = idMsgFct[k]
	}
	idMsgFct = res
}

func findCodeErrorInMapMessage(code CodeError) CodeError {
	var res CodeError = 0
	for _, k := range getMapMessageKey() {
		if k <= code && k > res {
			res = k
		}
	}
	return res
}

// GetCodePackages reports, for every registered range, the source file that
// registered it, used by diagnostics to map a code back to a package
// without maintaining a second table by hand.
func GetCodePackages() map[CodeError]string {
	res := make(map[CodeError]string)
	for i, f := range idMsgFct {
		p := reflect.ValueOf(f).Pointer()
		n, _ := runtime.FuncForPC(p).FileLine(p)
		res[i] = n
	}
	return res
}
