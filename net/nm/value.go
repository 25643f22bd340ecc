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

// Type is the wire type tag of one field's value, matching the original
// protocol's vtm_nm_type_to_num numbering exactly (1-16) so captures stay
// byte-for-byte comparable against the C implementation's fixtures.
type Type uint8

const (
	TypeInt8 Type = iota + 1
	TypeUint8
	TypeInt16
	TypeUint16
	TypeInt32
	TypeUint32
	TypeInt64
	TypeUint64
	TypeBool
	TypeChar
	TypeSChar
	TypeUChar
	TypeFloat
	TypeDouble
	TypeString
	TypeBlob
)

func (t Type) valid() bool {
	return t >= TypeInt8 && t <= TypeBlob
}

// fixedLen returns the wire value length for every type whose size does
// not ride along in a length prefix. STRING and BLOB return 0 since their
// length is read separately from a 4-byte prefix.
func (t Type) fixedLen() int {
	switch t {
	case TypeInt8, TypeUint8, TypeBool, TypeChar, TypeSChar, TypeUChar:
		return 1
	case TypeInt16, TypeUint16:
		return 2
	case TypeInt32, TypeUint32, TypeFloat:
		return 4
	case TypeInt64, TypeUint64, TypeDouble:
		return 8
	default:
		return 0
	}
}

func (t Type) hasLengthPrefix() bool {
	return t == TypeString || t == TypeBlob
}

// Value is a typed field value, mirroring the original core's
// vtm_variant tagged union. Construct one with the matching constructor
// (Int8, Uint32, Str, ...) and read it back with the matching accessor;
// the accessor's second return is false when Type() disagrees.
type Value struct {
	typ Type
	raw interface{}
}

func (v Value) Type() Type { return v.typ }

func Int8(n int8) Value    { return Value{typ: TypeInt8, raw: n} }
func Uint8(n uint8) Value  { return Value{typ: TypeUint8, raw: n} }
func Int16(n int16) Value  { return Value{typ: TypeInt16, raw: n} }
func Uint16(n uint16) Value { return Value{typ: TypeUint16, raw: n} }
func Int32(n int32) Value  { return Value{typ: TypeInt32, raw: n} }
func Uint32(n uint32) Value { return Value{typ: TypeUint32, raw: n} }
func Int64(n int64) Value  { return Value{typ: TypeInt64, raw: n} }
func Uint64(n uint64) Value { return Value{typ: TypeUint64, raw: n} }
func Bool(b bool) Value    { return Value{typ: TypeBool, raw: b} }
func Char(c byte) Value    { return Value{typ: TypeChar, raw: c} }
func SChar(c int8) Value   { return Value{typ: TypeSChar, raw: c} }
func UChar(c byte) Value   { return Value{typ: TypeUChar, raw: c} }
func Float32(f float32) Value { return Value{typ: TypeFloat, raw: f} }
func Float64(f float64) Value { return Value{typ: TypeDouble, raw: f} }
func Str(s string) Value   { return Value{typ: TypeString, raw: s} }
func Blob(b []byte) Value  { return Value{typ: TypeBlob, raw: append([]byte(nil), b...)} }

func (v Value) Int8() (int8, bool)    { n, ok := v.raw.(int8); return n, ok }
func (v Value) Uint8() (uint8, bool)  { n, ok := v.raw.(uint8); return n, ok }
func (v Value) Int16() (int16, bool)  { n, ok := v.raw.(int16); return n, ok }
func (v Value) Uint16() (uint16, bool) { n, ok := v.raw.(uint16); return n, ok }
func (v Value) Int32() (int32, bool)  { n, ok := v.raw.(int32); return n, ok }
func (v Value) Uint32() (uint32, bool) { n, ok := v.raw.(uint32); return n, ok }
func (v Value) Int64() (int64, bool)  { n, ok := v.raw.(int64); return n, ok }
func (v Value) Uint64() (uint64, bool) { n, ok := v.raw.(uint64); return n, ok }
func (v Value) Bool() (bool, bool)    { b, ok := v.raw.(bool); return b, ok }
func (v Value) Char() (byte, bool)    { c, ok := v.raw.(byte); return c, ok }
func (v Value) Float32() (float32, bool) { f, ok := v.raw.(float32); return f, ok }
func (v Value) Float64() (float64, bool) { f, ok := v.raw.(float64); return f, ok }
func (v Value) Str() (string, bool)   { s, ok := v.raw.(string); return s, ok }
func (v Value) Blob() ([]byte, bool)  { b, ok := v.raw.([]byte); return b, ok }

// Field is one name/value pair of a Message, in wire order.
type Field struct {
	Name  string
	Value Value
}

// Message is an ordered field list, mirroring the original core's
// vtm_dataset: field order is preserved for encoding/logging, while Get
// still resolves by name in O(1).
type Message struct {
	fields []Field
	index  map[string]int
}

// NewMessage returns an empty Message ready for Set calls.
func NewMessage() *Message {
	return &Message{index: map[string]int{}}
}

// Set assigns name to v, overwriting an existing field of the same name
// in place (preserving its original position) or appending a new one.
func (m *Message) Set(name string, v Value) *Message {
	if i, ok := m.index[name]; ok {
		m.fields[i].Value = v
		return m
	}
	m.index[name] = len(m.fields)
	m.fields = append(m.fields, Field{Name: name, Value: v})
	return m
}

// Get returns the value stored under name, if any.
func (m *Message) Get(name string) (Value, bool) {
	i, ok := m.index[name]
	if !ok {
		return Value{}, false
	}
	return m.fields[i].Value, true
}

// Fields returns the message's fields in wire order. The returned slice
// must not be mutated by the caller.
func (m *Message) Fields() []Field { return m.fields }

// Len returns the number of fields.
func (m *Message) Len() int { return len(m.fields) }
