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
	"github.com/sabouaram/netcore/pkg/buffer"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// Result is the outcome of one Parse call.
type Result uint8

const (
	Again Result = iota
	Complete
	Invalid
)

type stage uint8

const (
	stageMsgBegin stage = iota
	stageFrameBegin
	stageFinOpcode
	stageMaskLen7
	stageLen16
	stageLen64
	stageMask32
	stagePayload
	stageFinishCtrl
	stageFinishData
	stageFrameComplete
	stageMsgComplete
	stageError
)

// Parser is a resumable RFC 6455 frame parser that reassembles fragmented
// data messages and interleaves control frames (Close/Ping/Pong) ahead of
// whatever data message is in progress - a control frame completes and is
// retrievable via Message as soon as its single frame finishes, regardless
// of any fragmentation still under way.
//
// Feed accumulates bytes; Parse advances as far as available data allows
// and returns Complete as soon as either an interleaved control message or
// a fully reassembled data message is ready to retrieve via Message.
type Parser struct {
	mode  Mode
	stage stage
	buf   *buffer.Buffer

	fin        bool
	opcode     Opcode
	masked     bool
	payloadLen uint64
	mask       [4]byte

	pendingPayload []byte

	msgBuf     []byte
	msgType    Opcode
	frameCount int

	hasCtrlMsg bool
	ctrlMsg    Message

	maxMessageSize uint64
}

// NewParser builds a Parser running in the given role. mode determines
// which direction masking is mandatory for: ModeServer requires masked
// incoming frames, ModeClient forbids them. maxMessageSize caps an
// assembled (possibly fragmented) data message; 0 selects the default
// 64 KiB budget (see pkg/config's WSConfig.MaxMessageSize).
func NewParser(mode Mode, maxMessageSize int) *Parser {
	if maxMessageSize <= 0 {
		maxMessageSize = defaultMaxMessageSize
	}
	return &Parser{
		mode:           mode,
		buf:            buffer.New(buffer.BigEndian),
		maxMessageSize: uint64(maxMessageSize),
	}
}

// Feed appends newly received bytes to the parser's internal buffer.
func (p *Parser) Feed(data []byte) liberr.Error {
	return p.buf.Put(data)
}

// Reset discards any in-progress frame/message state, including an
// unread interleaved control message. It does not need to be called
// between ordinary messages - the state machine returns to its initial
// stage on its own once Message has retrieved a Complete result.
func (p *Parser) Reset() {
	p.stage = stageMsgBegin
	p.msgBuf = nil
	p.hasCtrlMsg = false
	p.ctrlMsg = Message{}
}

// Message retrieves the result of the last Complete Parse call. An
// interleaved control message, if any, is returned (and cleared) before
// the in-progress data message.
func (p *Parser) Message() *Message {
	if p.hasCtrlMsg {
		p.hasCtrlMsg = false
		m := p.ctrlMsg
		p.ctrlMsg = Message{}
		return &m
	}

	payload := p.msgBuf
	p.msgBuf = nil
	return &Message{Opcode: p.msgType, Payload: payload}
}

// Parse advances the state machine over the currently fed bytes. It
// returns Again when more bytes are needed, Invalid on any protocol
// violation (the parser is then stuck until Reset), and Complete once a
// message (control or, once fully reassembled, data) is ready to
// retrieve via Message.
func (p *Parser) Parse() (Result, liberr.Error) {
	for {
		switch p.stage {
		case stageMsgBegin:
			p.msgBuf = p.msgBuf[:0]
			p.frameCount = 0
			p.msgType = OpClose
			p.stage = stageFrameBegin

		case stageFrameBegin:
			p.payloadLen = 0
			p.stage = stageFinOpcode

		case stageFinOpcode:
			if p.buf.Avail() < 1 {
				return Again, nil
			}
			c := p.buf.Bytes()[0]
			_ = p.buf.MarkProcessed(1)

			p.fin = c&0x80 != 0
			rsv := c & 0x70
			p.opcode = Opcode(c & 0x0f)

			if rsv != 0 {
				return p.invalid(ErrorRsvNonZero)
			}
			if !p.opcode.isValid() {
				return p.invalid(ErrorInvalidOpcode)
			}
			if p.opcode.isControl() && !p.fin {
				return p.invalid(ErrorControlFragmented)
			}
			if p.opcode == OpContinue && p.frameCount < 1 {
				return p.invalid(ErrorBadContinueFrame)
			}
			if p.frameCount > 0 && p.opcode > OpContinue && p.opcode < OpClose {
				return p.invalid(ErrorMsgNotContinued)
			}
			if p.frameCount == 0 && p.opcode < OpClose {
				p.msgType = p.opcode
			}
			p.stage = stageMaskLen7

		case stageMaskLen7:
			if p.buf.Avail() < 1 {
				return Again, nil
			}
			c := p.buf.Bytes()[0]
			_ = p.buf.MarkProcessed(1)

			p.masked = c&0x80 != 0
			p.payloadLen = uint64(c & 0x7f)

			if p.mode == ModeServer && !p.masked {
				return p.invalid(ErrorClientMsgUnmasked)
			}
			if p.mode == ModeClient && p.masked {
				return p.invalid(ErrorServerMsgMasked)
			}
			if p.opcode.isControl() && p.payloadLen > len7Max {
				return p.invalid(ErrorInvalidPayloadLen)
			}

			switch p.payloadLen {
			case len16ID:
				p.stage = stageLen16
			case len64ID:
				p.stage = stageLen64
			default:
				p.stage = stageMask32
			}

		case stageLen16:
			if p.buf.Avail() < 2 {
				return Again, nil
			}
			b := p.buf.Bytes()[:2]
			n := uint64(b[0])<<8 | uint64(b[1])
			_ = p.buf.MarkProcessed(2)

			if n <= len7Max {
				return p.invalid(ErrorInvalidPayloadLen)
			}
			p.payloadLen = n
			p.stage = stageMask32

		case stageLen64:
			if p.buf.Avail() < 8 {
				return Again, nil
			}
			b := p.buf.Bytes()[:8]
			var n uint64
			for i := 0; i < 8; i++ {
				n = n<<8 | uint64(b[i])
			}
			_ = p.buf.MarkProcessed(8)

			if n&0x8000000000000000 != 0 {
				return p.invalid(ErrorInvalidPayloadLen)
			}
			if n <= len16Max {
				return p.invalid(ErrorInvalidPayloadLen)
			}
			p.payloadLen = n
			p.stage = stageMask32

		case stageMask32:
			if p.masked {
				if p.buf.Avail() < 4 {
					return Again, nil
				}
				copy(p.mask[:], p.buf.Bytes()[:4])
				_ = p.buf.MarkProcessed(4)
			}
			p.stage = stagePayload

		case stagePayload:
			if uint64(p.buf.Avail()) < p.payloadLen {
				return Again, nil
			}
			if !p.opcode.isControl() && uint64(len(p.msgBuf))+p.payloadLen > p.maxMessageSize {
				return p.invalid(ErrorMessageTooLarge)
			}

			payload := make([]byte, p.payloadLen)
			copy(payload, p.buf.Bytes()[:p.payloadLen])
			_ = p.buf.MarkProcessed(int(p.payloadLen))

			if p.masked {
				unmask(payload, p.mask)
			}
			p.pendingPayload = payload

			if p.opcode.isControl() {
				p.stage = stageFinishCtrl
			} else {
				p.stage = stageFinishData
			}

		case stageFinishCtrl:
			if p.hasCtrlMsg {
				return p.invalid(ErrorPrevCtrlMsg)
			}
			p.ctrlMsg = Message{Opcode: p.opcode, Payload: p.pendingPayload}
			p.hasCtrlMsg = true
			p.stage = stageFrameComplete

		case stageFinishData:
			p.msgBuf = append(p.msgBuf, p.pendingPayload...)
			p.frameCount++
			p.stage = stageFrameComplete

		case stageFrameComplete:
			p.buf.DiscardProcessed()

			if p.hasCtrlMsg {
				p.stage = stageFrameBegin
				return Complete, nil
			}
			if p.fin {
				p.stage = stageMsgComplete
			} else {
				p.stage = stageFrameBegin
			}

		case stageMsgComplete:
			p.stage = stageMsgBegin
			return Complete, nil

		case stageError:
			return Invalid, nil
		}
	}
}

func (p *Parser) invalid(code liberr.CodeError) (Result, liberr.Error) {
	p.stage = stageError
	return Invalid, code.Error(nil)
}

func unmask(b []byte, mask [4]byte) {
	for i := range b {
		b[i] ^= mask[i%4]
	}
}
