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

package ws

import (
	"crypto/rand"
)

// Encoder builds outgoing frames for one connection role. Client-role
// frames are always masked with a freshly generated 32 bit key, per RFC
// 6455 section 5.1; server-role frames are never masked.
type Encoder struct {
	mode Mode
}

// NewEncoder returns an Encoder for the given role.
func NewEncoder(mode Mode) *Encoder {
	return &Encoder{mode: mode}
}

// EncodeFrame builds one complete wire frame. Callers fragmenting a large
// data message are responsible for setting fin/opcode correctly on each
// call (first frame carries the data opcode with fin=false, continuations
// use OpContinue, the last carries fin=true).
func (e *Encoder) EncodeFrame(fin bool, opcode Opcode, payload []byte) []byte {
	masked := e.mode == ModeClient

	header := make([]byte, 0, 14)

	var b0 byte
	if fin {
		b0 |= 0x80
	}
	b0 |= byte(opcode) & 0x0f
	header = append(header, b0)

	n := len(payload)
	var b1 byte
	if masked {
		b1 |= 0x80
	}

	switch {
	case n <= len7Max:
		header = append(header, b1|byte(n))
	case n <= len16Max:
		header = append(header, b1|len16ID, byte(n>>8), byte(n))
	default:
		header = append(header, b1|len64ID,
			byte(uint64(n)>>56), byte(uint64(n)>>48), byte(uint64(n)>>40), byte(uint64(n)>>32),
			byte(uint64(n)>>24), byte(uint64(n)>>16), byte(uint64(n)>>8), byte(uint64(n)))
	}

	if !masked {
		out := make([]byte, len(header)+n)
		copy(out, header)
		copy(out[len(header):], payload)
		return out
	}

	var mask [4]byte
	_, _ = rand.Read(mask[:])
	header = append(header, mask[:]...)

	out := make([]byte, len(header)+n)
	copy(out, header)
	copy(out[len(header):], payload)
	unmask(out[len(header):], mask)
	return out
}

// EncodeText encodes a single-frame, final, UTF-8 text message.
func (e *Encoder) EncodeText(s string) []byte {
	return e.EncodeFrame(true, OpText, []byte(s))
}

// EncodeBinary encodes a single-frame, final, binary message.
func (e *Encoder) EncodeBinary(p []byte) []byte {
	return e.EncodeFrame(true, OpBinary, p)
}

// EncodeClose encodes a close frame; code is the RFC 6455 status code
// (0 omits the status/reason payload entirely).
func (e *Encoder) EncodeClose(code uint16, reason string) []byte {
	if code == 0 {
		return e.EncodeFrame(true, OpClose, nil)
	}
	payload := make([]byte, 2+len(reason))
	payload[0] = byte(code >> 8)
	payload[1] = byte(code)
	copy(payload[2:], reason)
	return e.EncodeFrame(true, OpClose, payload)
}

// EncodePing encodes a ping control frame.
func (e *Encoder) EncodePing(payload []byte) []byte {
	return e.EncodeFrame(true, OpPing, payload)
}

// EncodePong encodes a pong control frame, normally echoing the ping's
// payload back verbatim.
func (e *Encoder) EncodePong(payload []byte) []byte {
	return e.EncodeFrame(true, OpPong, payload)
}
