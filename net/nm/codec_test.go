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
	"bytes"
	"testing"
)

// feedByteAtATime drives Parse after every single appended byte.
func feedByteAtATime(t *testing.T, p *Parser, raw []byte) Result {
	t.Helper()
	for i, b := range raw {
		if e := p.Feed([]byte{b}); e != nil {
			t.Fatalf("Feed byte %d: %v", i, e)
		}
		r, e := p.Parse()
		if e != nil {
			t.Fatalf("Parse after byte %d: %v", i, e)
		}
		if r != Again {
			return r
		}
	}
	return Again
}

func TestEncodeParseRoundTripAllTypes(t *testing.T) {
	msg := NewMessage().
		Set("i8", Int8(-12)).
		Set("u8", Uint8(200)).
		Set("i16", Int16(-1000)).
		Set("u16", Uint16(40000)).
		Set("i32", Int32(-100000)).
		Set("u32", Uint32(3000000000)).
		Set("i64", Int64(-1 << 40)).
		Set("u64", Uint64(1 << 50)).
		Set("flag", Bool(true)).
		Set("ch", Char('Z')).
		Set("f32", Float32(3.5)).
		Set("f64", Float64(2.718281828)).
		Set("name", Str("hello, NM")).
		Set("sc", SChar(-126)).
		Set("uc", UChar(254)).
		Set("raw", Blob([]byte{0x00, 0x01, 0xff, 0xfe}))

	wire, e := Encode(msg)
	if e != nil {
		t.Fatalf("Encode: %v", e)
	}

	p := NewParser()
	r := feedByteAtATime(t, p, wire)
	if r != Complete {
		t.Fatalf("Parse() = %v, want Complete", r)
	}

	got := p.Message()
	if got.Len() != msg.Len() {
		t.Fatalf("Len() = %d, want %d", got.Len(), msg.Len())
	}

	checkInt8 := func(name string, want int8) {
		v, ok := got.Get(name)
		if !ok {
			t.Fatalf("field %q missing", name)
		}
		n, ok := v.Int8()
		if !ok || n != want {
			t.Fatalf("field %q = %v (ok=%v), want %d", name, n, ok, want)
		}
	}
	checkInt8("i8", -12)
	checkInt8("sc", -126)
	if v, _ := got.Get("uc"); mustChar(t, v) != 254 {
		t.Fatalf("uc mismatch")
	}

	if v, _ := got.Get("u8"); mustUint8(t, v) != 200 {
		t.Fatalf("u8 mismatch")
	}
	if v, _ := got.Get("i16"); mustInt16(t, v) != -1000 {
		t.Fatalf("i16 mismatch")
	}
	if v, _ := got.Get("u16"); mustUint16(t, v) != 40000 {
		t.Fatalf("u16 mismatch")
	}
	if v, _ := got.Get("i32"); mustInt32(t, v) != -100000 {
		t.Fatalf("i32 mismatch")
	}
	if v, _ := got.Get("u32"); mustUint32(t, v) != 3000000000 {
		t.Fatalf("u32 mismatch")
	}
	if v, _ := got.Get("i64"); mustInt64(t, v) != -1<<40 {
		t.Fatalf("i64 mismatch")
	}
	if v, _ := got.Get("u64"); mustUint64(t, v) != 1<<50 {
		t.Fatalf("u64 mismatch")
	}
	if v, _ := got.Get("flag"); !mustBool(t, v) {
		t.Fatalf("flag mismatch")
	}
	if v, _ := got.Get("ch"); mustChar(t, v) != 'Z' {
		t.Fatalf("ch mismatch")
	}
	if v, _ := got.Get("f32"); mustFloat32(t, v) != 3.5 {
		t.Fatalf("f32 mismatch")
	}
	if v, _ := got.Get("f64"); mustFloat64(t, v) != 2.718281828 {
		t.Fatalf("f64 mismatch")
	}
	if v, _ := got.Get("name"); mustStr(t, v) != "hello, NM" {
		t.Fatalf("name mismatch")
	}
	if v, _ := got.Get("raw"); !bytes.Equal(mustBlob(t, v), []byte{0x00, 0x01, 0xff, 0xfe}) {
		t.Fatalf("raw mismatch")
	}
}

func mustUint8(t *testing.T, v Value) uint8 {
	n, ok := v.Uint8()
	if !ok {
		t.Fatalf("expected uint8 value")
	}
	return n
}
func mustInt16(t *testing.T, v Value) int16 {
	n, ok := v.Int16()
	if !ok {
		t.Fatalf("expected int16 value")
	}
	return n
}
func mustUint16(t *testing.T, v Value) uint16 {
	n, ok := v.Uint16()
	if !ok {
		t.Fatalf("expected uint16 value")
	}
	return n
}
func mustInt32(t *testing.T, v Value) int32 {
	n, ok := v.Int32()
	if !ok {
		t.Fatalf("expected int32 value")
	}
	return n
}
func mustUint32(t *testing.T, v Value) uint32 {
	n, ok := v.Uint32()
	if !ok {
		t.Fatalf("expected uint32 value")
	}
	return n
}
func mustInt64(t *testing.T, v Value) int64 {
	n, ok := v.Int64()
	if !ok {
		t.Fatalf("expected int64 value")
	}
	return n
}
func mustUint64(t *testing.T, v Value) uint64 {
	n, ok := v.Uint64()
	if !ok {
		t.Fatalf("expected uint64 value")
	}
	return n
}
func mustBool(t *testing.T, v Value) bool {
	b, ok := v.Bool()
	if !ok {
		t.Fatalf("expected bool value")
	}
	return b
}
func mustChar(t *testing.T, v Value) byte {
	c, ok := v.Char()
	if !ok {
		t.Fatalf("expected char value")
	}
	return c
}
func mustFloat32(t *testing.T, v Value) float32 {
	f, ok := v.Float32()
	if !ok {
		t.Fatalf("expected float32 value")
	}
	return f
}
func mustFloat64(t *testing.T, v Value) float64 {
	f, ok := v.Float64()
	if !ok {
		t.Fatalf("expected float64 value")
	}
	return f
}
func mustStr(t *testing.T, v Value) string {
	s, ok := v.Str()
	if !ok {
		t.Fatalf("expected string value")
	}
	return s
}
func mustBlob(t *testing.T, v Value) []byte {
	b, ok := v.Blob()
	if !ok {
		t.Fatalf("expected blob value")
	}
	return b
}

func TestFieldOrderPreserved(t *testing.T) {
	msg := NewMessage().Set("c", Int8(3)).Set("a", Int8(1)).Set("b", Int8(2))
	names := make([]string, 0, 3)
	for _, f := range msg.Fields() {
		names = append(names, f.Name)
	}
	want := []string{"c", "a", "b"}
	if len(names) != len(want) {
		t.Fatalf("Fields() length = %d, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Fields()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestSetOverwritesInPlace(t *testing.T) {
	msg := NewMessage().Set("a", Int8(1)).Set("b", Int8(2)).Set("a", Int8(99))
	if msg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (overwrite must not append)", msg.Len())
	}
	v, ok := msg.Get("a")
	if !ok {
		t.Fatal("Get(a) missing")
	}
	if n, _ := v.Int8(); n != 99 {
		t.Fatalf("Get(a) = %d, want 99", n)
	}
	if msg.Fields()[0].Name != "a" {
		t.Fatalf("Fields()[0].Name = %q, want a (position preserved)", msg.Fields()[0].Name)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	wire, _ := Encode(NewMessage().Set("x", Bool(true)))
	wire[0] = 'X'

	p := NewParser()
	if e := p.Feed(wire); e != nil {
		t.Fatalf("Feed: %v", e)
	}
	r, e := p.Parse()
	if r != Invalid {
		t.Fatalf("Parse() = %v, want Invalid", r)
	}
	if e == nil || !e.IsCode(ErrorBadMagic) {
		t.Fatalf("Parse() error = %v, want ErrorBadMagic", e)
	}
}

func TestDecodeRejectsBadVersion(t *testing.T) {
	wire, _ := Encode(NewMessage().Set("x", Bool(true)))
	wire[1] = 0xff

	p := NewParser()
	if e := p.Feed(wire); e != nil {
		t.Fatalf("Feed: %v", e)
	}
	r, e := p.Parse()
	if r != Invalid {
		t.Fatalf("Parse() = %v, want Invalid", r)
	}
	if e == nil || !e.IsCode(ErrorBadVersion) {
		t.Fatalf("Parse() error = %v, want ErrorBadVersion", e)
	}
}

func TestEncodeRejectsEmptyFieldName(t *testing.T) {
	msg := NewMessage().Set("", Bool(true))
	if _, e := Encode(msg); e == nil || !e.IsCode(ErrorNameEmpty) {
		t.Fatalf("Encode() error = %v, want ErrorNameEmpty", e)
	}
}

func TestEncodeRejectsOverlongFieldName(t *testing.T) {
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	msg := NewMessage().Set(string(long), Bool(true))
	if _, e := Encode(msg); e == nil || !e.IsCode(ErrorNameTooLong) {
		t.Fatalf("Encode() error = %v, want ErrorNameTooLong", e)
	}
}
