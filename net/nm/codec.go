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

// magic and version are fixed by the original protocol; the original left
// multi-byte integers in the host's native byte order, which the spec's
// cross-platform wire requirement (matching net/httpwire and net/ws's own
// fixed-order framing) rules out for a portable Go rewrite. Every
// multi-byte NM field below is therefore always big-endian on the wire,
// regardless of host - an explicit, documented deviation from the
// original's native-order behavior (see DESIGN.md).
const (
	magic   byte = 'V'
	version byte = 1
)

func typeToTag(t Type) byte { return byte(t) }

func tagToType(c byte) (Type, bool) {
	t := Type(c)
	if !t.valid() {
		return 0, false
	}
	return t, true
}

func putUint16(buf *buffer.Buffer, v uint16) liberr.Error {
	return buf.Put([]byte{byte(v >> 8), byte(v)})
}

func putUint32(buf *buffer.Buffer, v uint32) liberr.Error {
	return buf.Put([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

func putUint64(buf *buffer.Buffer, v uint64) liberr.Error {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> uint(56-8*i))
	}
	return buf.Put(b)
}

// Encode serializes msg into the NM wire format: magic byte, version
// byte, a 2-byte field count, then each field as a 1-byte name length,
// the name bytes, a 1-byte type tag and the type-specific value.
func Encode(msg *Message) ([]byte, liberr.Error) {
	buf := buffer.New(buffer.BigEndian)

	if e := buf.PutByte(magic); e != nil {
		return nil, e
	}
	if e := buf.PutByte(version); e != nil {
		return nil, e
	}
	if e := putUint16(buf, uint16(msg.Len())); e != nil {
		return nil, e
	}

	for _, f := range msg.Fields() {
		if len(f.Name) == 0 {
			return nil, ErrorNameEmpty.Error(nil)
		}
		if len(f.Name) > 0xff {
			return nil, ErrorNameTooLong.Error(nil)
		}
		if e := buf.PutByte(byte(len(f.Name))); e != nil {
			return nil, e
		}
		if e := buf.PutString(f.Name); e != nil {
			return nil, e
		}
		if e := buf.PutByte(typeToTag(f.Value.Type())); e != nil {
			return nil, e
		}
		if e := encodeValue(buf, f.Value); e != nil {
			return nil, e
		}
	}

	return buf.All(), nil
}

func encodeValue(buf *buffer.Buffer, v Value) liberr.Error {
	switch v.Type() {
	case TypeInt8:
		n, _ := v.Int8()
		return buf.PutByte(byte(n))
	case TypeUint8:
		n, _ := v.Uint8()
		return buf.PutByte(n)
	case TypeInt16:
		n, _ := v.Int16()
		return putUint16(buf, uint16(n))
	case TypeUint16:
		n, _ := v.Uint16()
		return putUint16(buf, n)
	case TypeInt32:
		n, _ := v.Int32()
		return putUint32(buf, uint32(n))
	case TypeUint32:
		n, _ := v.Uint32()
		return putUint32(buf, n)
	case TypeInt64:
		n, _ := v.Int64()
		return putUint64(buf, uint64(n))
	case TypeUint64:
		n, _ := v.Uint64()
		return putUint64(buf, n)
	case TypeBool:
		b, _ := v.Bool()
		if b {
			return buf.PutByte(1)
		}
		return buf.PutByte(0)
	case TypeChar, TypeUChar:
		c, _ := v.Char()
		return buf.PutByte(c)
	case TypeSChar:
		n, _ := v.Int8()
		return buf.PutByte(byte(n))
	case TypeFloat:
		f, _ := v.Float32()
		return putUint32(buf, math.Float32bits(f))
	case TypeDouble:
		f, _ := v.Float64()
		return putUint64(buf, math.Float64bits(f))
	case TypeString:
		s, _ := v.Str()
		if e := putUint32(buf, uint32(len(s))); e != nil {
			return e
		}
		return buf.PutString(s)
	case TypeBlob:
		b, _ := v.Blob()
		if e := putUint32(buf, uint32(len(b))); e != nil {
			return e
		}
		return buf.Put(b)
	default:
		return ErrorBadType.Error(nil)
	}
}
