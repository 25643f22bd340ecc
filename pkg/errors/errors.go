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

import (
	"fmt"
	"runtime"
	"strings"
)

type ers struct {
	c uint16
	e string
	p []error
	t runtime.Frame
}

func sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

func (e *ers) captureTrace(skip int) {
	pc := make([]uintptr, 1)
	if n := runtime.Callers(skip, pc); n > 0 {
		frames := runtime.CallersFrames(pc[:n])
		f, _ := frames.Next()
		e.t = f
	}
}

func (e *ers) Error() string {
	if e.c == 0 {
		return e.e
	}
	return fmt.Sprintf("[%d] %s", e.c, e.e)
}

func (e *ers) Code() uint16 {
	return e.c
}

func (e *ers) IsCode(code CodeError) bool {
	return e.c == code.Uint16()
}

func (e *ers) HasCode(code CodeError) bool {
	if e.IsCode(code) {
		return true
	}
	for _, p := range e.p {
		if er, ok := p.(Error); ok && er.HasCode(code) {
			return true
		}
	}
	return false
}

func (e *ers) Add(parent ...error) {
	for _, v := range parent {
		if v != nil {
			e.p = append(e.p, v)
		}
	}
}

func (e *ers) HasParent() bool {
	return len(e.p) > 0
}

func (e *ers) GetParent(withMainError bool) []error {
	res := make([]error, 0, len(e.p)+1)
	if withMainError {
		res = append(res, &ers{c: e.c, e: e.e, t: e.t})
	}
	res = append(res, e.p...)
	return res
}

func (e *ers) Unwrap() []error {
	return e.p
}

func (e *ers) GetTrace() string {
	if e.t.File == "" {
		return ""
	}
	file := e.t.File
	if i := strings.LastIndex(file, "/"); i >= 0 {
		file = file[i+1:]
	}
	return fmt.Sprintf("%s#%d", file, e.t.Line)
}

func (e *ers) IsError(err error) bool {
	if err == nil {
		return false
	}
	return strings.EqualFold(e.e, err.Error())
}

func (e *ers) Is(err error) bool {
	if err == nil {
		return false
	}
	if oe, ok := err.(*ers); ok {
		return e.c == oe.c && strings.EqualFold(e.e, oe.e)
	}
	return e.IsError(err)
}
