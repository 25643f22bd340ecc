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

package nm

import (
	"math"

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
	stageMagic
	stageVersion
	stageFieldCount
	stageFieldBegin
	stageNameLen
	stageName
	stageValueType
	stageValueLen
	stageValue
	stageFieldComplete
	stageMsgComplete
	stageError
)

// Parser is a resumable decoder for the NM wire format, reproducing the
// original core's twelve-state vtm_nm_parser_run loop field for field:
// magic, version, field count, then per field a name-length-prefixed name,
// a type tag and its value (STRING/BLOB carry their own 4-byte length
// prefix; every other type's length follows from its tag).
type Parser struct {
	stage stage
	buf   *buffer.Buffer

	fieldCount   uint16
	fieldsParsed uint16

	nameLen byte
	name    string

	valueType Type
	valueLen  uint32

	msg *Message
}

// NewParser returns a Parser ready to decode one message at a time.
func NewParser() *Parser {
	return &Parser{
		stage: stageMsgBegin,
		buf:   buffer.New(buffer.BigEndian),
	}
}

// Feed appends newly received bytes to the parser's internal buffer.
func (p *Parser) Feed(data []byte) liberr.Error {
	return p.buf.Put(data)
}

// Reset discards any in-progress message and returns the parser to its
// initial state.
func (p *Parser) Reset() {
	p.stage = stageMsgBegin
	p.msg = nil
	p.name = ""
}

// Message retrieves the message completed by the last Complete Parse
// call. Only valid immediately after Parse returns Complete.
func (p *Parser) Message() *Message {
	msg := p.msg
	p.msg = nil
	p.stage = stageMsgBegin
	return msg
}

// Parse advances the state machine over the currently fed bytes,
// returning Again when more bytes are needed and Invalid on any
// protocol violation (the parser is then stuck until Reset).
func (p *Parser) Parse() (Result, liberr.Error) {
	for {
		switch p.stage {
		case stageMsgBegin:
			p.msg = NewMessage()
			p.stage = stageMagic

		case stageMagic:
			if p.buf.Avail() < 1 {
				return Again, nil
			}
			c := p.buf.Bytes()[0]
			_ = p.buf.MarkProcessed(1)
			if c != magic {
				return p.invalid(ErrorBadMagic)
			}
			p.stage = stageVersion

		case stageVersion:
			if p.buf.Avail() < 1 {
				return Again, nil
			}
			c := p.buf.Bytes()[0]
			_ = p.buf.MarkProcessed(1)
			if c != version {
				return p.invalid(ErrorBadVersion)
			}
			p.stage = stageFieldCount

		case stageFieldCount:
			if p.buf.Avail() < 2 {
				return Again, nil
			}
			b := p.buf.Bytes()[:2]
			p.fieldCount = uint16(b[0])<<8 | uint16(b[1])
			_ = p.buf.MarkProcessed(2)
			p.fieldsParsed = 0
			p.stage = stageFieldBegin

		case stageFieldBegin:
			if p.fieldsParsed == p.fieldCount {
				p.stage = stageMsgComplete
			} else {
				p.stage = stageNameLen
			}

		case stageNameLen:
			if p.buf.Avail() < 1 {
				return Again, nil
			}
			p.nameLen = p.buf.Bytes()[0]
			_ = p.buf.MarkProcessed(1)
			if p.nameLen == 0 {
				return p.invalid(ErrorNameEmpty)
			}
			p.stage = stageName

		case stageName:
			n := int(p.nameLen)
			if p.buf.Avail() < n {
				return Again, nil
			}
			p.name = string(p.buf.Bytes()[:n])
			_ = p.buf.MarkProcessed(n)
			p.stage = stageValueType

		case stageValueType:
			if p.buf.Avail() < 1 {
				return Again, nil
			}
			c := p.buf.Bytes()[0]
			_ = p.buf.MarkProcessed(1)

			t, ok := tagToType(c)
			if !ok {
				return p.invalid(ErrorBadType)
			}
			p.valueType = t

			if t.hasLengthPrefix() {
				p.stage = stageValueLen
			} else {
				p.valueLen = uint32(t.fixedLen())
				p.stage = stageValue
			}

		case stageValueLen:
			if p.buf.Avail() < 4 {
				return Again, nil
			}
			b := p.buf.Bytes()[:4]
			p.valueLen = uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
			_ = p.buf.MarkProcessed(4)
			p.stage = stageValue

		case stageValue:
			n := int(p.valueLen)
			if p.buf.Avail() < n {
				return Again, nil
			}
			raw := p.buf.Bytes()[:n]
			v := decodeValue(p.valueType, raw)
			_ = p.buf.MarkProcessed(n)

			p.msg.Set(p.name, v)
			p.name = ""
			p.fieldsParsed++
			p.stage = stageFieldComplete

		case stageFieldComplete:
			p.buf.DiscardProcessed()
			p.stage = stageFieldBegin

		case stageMsgComplete:
			p.buf.DiscardProcessed()
			return Complete, nil

		case stageError:
			return Invalid, nil
		}
	}
}

func decodeValue(t Type, raw []byte) Value {
	switch t {
	case TypeInt8:
		return Int8(int8(raw[0]))
	case TypeUint8:
		return Uint8(raw[0])
	case TypeInt16:
		return Int16(int16(uint16(raw[0])<<8 | uint16(raw[1])))
	case TypeUint16:
		return Uint16(uint16(raw[0])<<8 | uint16(raw[1]))
	case TypeInt32:
		return Int32(int32(beUint32(raw)))
	case TypeUint32:
		return Uint32(beUint32(raw))
	case TypeInt64:
		return Int64(int64(beUint64(raw)))
	case TypeUint64:
		return Uint64(beUint64(raw))
	case TypeBool:
		return Bool(raw[0] != 0)
	case TypeChar:
		return Char(raw[0])
	case TypeSChar:
		return SChar(int8(raw[0]))
	case TypeUChar:
		return UChar(raw[0])
	case TypeFloat:
		return Float32(math.Float32frombits(beUint32(raw)))
	case TypeDouble:
		return Float64(math.Float64frombits(beUint64(raw)))
	case TypeString:
		return Str(string(raw))
	case TypeBlob:
		return Blob(raw)
	default:
		return Value{}
	}
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func beUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func (p *Parser) invalid(code liberr.CodeError) (Result, liberr.Error) {
	p.stage = stageError
	return Invalid, code.Error(nil)
}
