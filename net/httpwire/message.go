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

package httpwire

// Mode selects whether a Parser reads a request or a response.
type Mode uint8

const (
	ModeRequest Mode = iota
	ModeResponse
)

// Result is the outcome of one Parse call.
type Result uint8

const (
	Again Result = iota
	Complete
	Invalid
	Closed
)

// Methods lists the nine HTTP methods the request line is matched
// against, correctly comma-separated (no, there is no typo here).
var Methods = []string{
	"GET", "POST", "HEAD", "PUT", "PATCH", "DELETE", "TRACE", "OPTIONS", "CONNECT",
}

func isValidMethod(m string) bool {
	for _, v := range Methods {
		if v == m {
			return true
		}
	}
	return false
}

// Message is the parsed request or response, valid only between a
// Complete result and the following Reset.
type Message struct {
	Mode    Mode
	Method  string
	Path    string
	Query   map[string]string
	Version string // "1.0" or "1.1"

	StatusCode int
	StatusMsg  string

	Headers *Headers
	Body    []byte
}
