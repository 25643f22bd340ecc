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

import (
	"strings"
)

// Headers is a case-insensitive ordered-enough header map. Keys are
// stored folded to lower-case; the original casing of the first
// occurrence of each name is kept in order for re-serialization.
type Headers struct {
	order  []string          // canonical (lower) keys, first-seen order
	names  map[string]string // lower -> original casing
	values map[string][]string
}

// NewHeaders returns an empty Headers map.
func NewHeaders() *Headers {
	return &Headers{
		names:  map[string]string{},
		values: map[string][]string{},
	}
}

func foldKey(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

// Add appends value to name, merging with any existing values by a
// comma-space join: duplicate header lines are folded together rather
// than kept as separate entries.
func (h *Headers) Add(name, value string) {
	k := foldKey(name)
	if _, ok := h.names[k]; !ok {
		h.names[k] = name
		h.order = append(h.order, k)
	}
	h.values[k] = append(h.values[k], strings.TrimSpace(value))
}

// Set replaces any existing values for name with exactly one value.
func (h *Headers) Set(name, value string) {
	k := foldKey(name)
	if _, ok := h.names[k]; !ok {
		h.names[k] = name
		h.order = append(h.order, k)
	}
	h.values[k] = []string{value}
}

// Get returns the merged (comma-joined) value for name, or "" if absent.
func (h *Headers) Get(name string) string {
	vs, ok := h.values[foldKey(name)]
	if !ok {
		return ""
	}
	return strings.Join(vs, ", ")
}

// Has reports whether name was seen at all.
func (h *Headers) Has(name string) bool {
	_, ok := h.values[foldKey(name)]
	return ok
}

// HasToken reports whether name's merged value contains token as a
// case-insensitive comma/whitespace-separated token, the match Connection
// and Transfer-Encoding need.
func (h *Headers) HasToken(name, token string) bool {
	v := strings.ToLower(h.Get(name))
	token = strings.ToLower(token)
	for _, part := range strings.Split(v, ",") {
		if strings.TrimSpace(part) == token {
			return true
		}
	}
	return false
}

// Each calls f for every header in first-seen order, with values already
// comma-joined.
func (h *Headers) Each(f func(name, value string)) {
	for _, k := range h.order {
		f(h.names[k], strings.Join(h.values[k], ", "))
	}
}

// Reset clears all entries so the Headers can be reused without allocating.
func (h *Headers) Reset() {
	h.order = h.order[:0]
	for k := range h.names {
		delete(h.names, k)
	}
	for k := range h.values {
		delete(h.values, k)
	}
}
