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

package socket

// State is a bitmask describing a Socket's current disposition. Several
// bits can be set at once (e.g. a socket can be NBL_AUTO and READ_AGAIN in
// the same instant).
type State uint32

const (
	Closed State = 1 << iota
	Err
	Hup
	ReadAgain
	WriteAgain
	ReadAgainWhenWriteable
	WriteAgainWhenReadable
	ReadLocked
	WriteLocked
	NblRead
	NblWrite
	NblAuto
	Nonblocking
	FreeOnUnref
)

func (s State) Has(bit State) bool { return s&bit != 0 }

func (s *State) set(bit State)   { *s |= bit }
func (s *State) clear(bit State) { *s &^= bit }

// String renders the set bits for logging, in declaration order.
func (s State) String() string {
	names := []struct {
		bit State
		nm  string
	}{
		{Closed, "CLOSED"}, {Err, "ERR"}, {Hup, "HUP"},
		{ReadAgain, "READ_AGAIN"}, {WriteAgain, "WRITE_AGAIN"},
		{ReadAgainWhenWriteable, "READ_AGAIN_WHEN_WRITEABLE"},
		{WriteAgainWhenReadable, "WRITE_AGAIN_WHEN_READABLE"},
		{ReadLocked, "READ_LOCKED"}, {WriteLocked, "WRITE_LOCKED"},
		{NblRead, "NBL_READ"}, {NblWrite, "NBL_WRITE"}, {NblAuto, "NBL_AUTO"},
		{Nonblocking, "NONBLOCKING"}, {FreeOnUnref, "FREE_ON_UNREF"},
	}

	out := ""
	for _, n := range names {
		if s.Has(n.bit) {
			if out != "" {
				out += "|"
			}
			out += n.nm
		}
	}
	if out == "" {
		return "NONE"
	}
	return out
}
