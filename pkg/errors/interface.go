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

// Error extends the standard error with a numeric code, parent chaining and
// caller trace: the typed replacement for the original core's thread-local
// (code, file, line, message) error slot.
type Error interface {
	error

	IsCode(code CodeError) bool
	HasCode(code CodeError) bool
	Code() uint16

	Add(parent ...error)
	HasParent() bool
	GetParent(withMainError bool) []error
	Unwrap() []error

	GetTrace() string

	Is(err error) bool
	IsError(err error) bool
}

// New builds an Error with a captured caller frame, two levels up from the
// CodeError.Error helper that normally constructs it.
func New(code uint16, message string, parent ...error) Error {
	e := &ers{c: code, e: message}
	e.captureTrace(3)
	e.Add(parent...)
	return e
}

func Newf(code uint16, format string, args ...interface{}) Error {
	return New(code, sprintf(format, args...))
}

// IfError returns nil unless at least one of the given errors is non-nil,
// mirroring the original core's "a handler returning NOT_HANDLED is not an
// error" rule: a filtered empty parent list collapses to no Error at all.
func IfError(code uint16, message string, e ...error) Error {
	var has bool
	for _, v := range e {
		if v != nil {
			has = true
			break
		}
	}

	if !has {
		return nil
	}

	return New(code, message, e...)
}
