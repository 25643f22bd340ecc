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

// Mode tells the parser/encoder which side of the connection it is
// running on, since masking is mandatory in one direction only.
type Mode uint8

const (
	ModeServer Mode = iota
	ModeClient
)

// Opcode is the low 4 bits of the first frame byte.
type Opcode uint8

const (
	OpContinue Opcode = 0x0
	OpText     Opcode = 0x1
	OpBinary   Opcode = 0x2
	OpClose    Opcode = 0x8
	OpPing     Opcode = 0x9
	OpPong     Opcode = 0xA
)

func (o Opcode) isValid() bool {
	switch o {
	case OpContinue, OpText, OpBinary, OpClose, OpPing, OpPong:
		return true
	}
	return false
}

func (o Opcode) isControl() bool {
	switch o {
	case OpClose, OpPing, OpPong:
		return true
	}
	return false
}

// length-field sentinels from RFC 6455 section 5.2.
const (
	len7Max  = 125
	len16ID  = 126
	len64ID  = 127
	len16Max = 0xffff
)

// defaultMaxMessageSize caps an assembled (possibly fragmented) data
// message when Parser is built with maxMessageSize <= 0, per the 64 KiB
// budget the spec puts on in-memory frame/message assembly.
const defaultMaxMessageSize = 64 * 1024

// Message is one fully assembled WebSocket message: either a complete
// data message (after any fragmentation has been reassembled) or a
// control message (Close/Ping/Pong), which is never fragmented.
type Message struct {
	Opcode  Opcode
	Payload []byte
}

func (m *Message) IsControl() bool { return m != nil && m.Opcode.isControl() }
