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
	"bytes"
	"testing"
)

// feedByteAtATime drives Parse after every single appended byte.
func feedByteAtATime(t *testing.T, p *Parser, raw []byte) (Result, *Message) {
	t.Helper()
	for i, b := range raw {
		if e := p.Feed([]byte{b}); e != nil {
			t.Fatalf("Feed byte %d: %v", i, e)
		}
		r, e := p.Parse()
		if r == Invalid {
			return r, nil
		}
		if e != nil {
			t.Fatalf("Parse after byte %d: %v", i, e)
		}
		if r == Complete {
			return r, p.Message()
		}
	}
	return Again, nil
}

func TestClientServerTextRoundTrip(t *testing.T) {
	enc := NewEncoder(ModeClient)
	wire := enc.EncodeText("hello websocket")

	p := NewParser(ModeServer, 0)
	r, msg := feedByteAtATime(t, p, wire)
	if r != Complete {
		t.Fatalf("Parse() = %v, want Complete", r)
	}
	if msg.Opcode != OpText {
		t.Fatalf("Opcode = %v, want OpText", msg.Opcode)
	}
	if string(msg.Payload) != "hello websocket" {
		t.Fatalf("Payload = %q, want %q", msg.Payload, "hello websocket")
	}
}

func TestServerClientBinaryRoundTrip(t *testing.T) {
	enc := NewEncoder(ModeServer)
	payload := bytes.Repeat([]byte{0xAB}, 300) // forces the 16 bit length field
	wire := enc.EncodeBinary(payload)

	p := NewParser(ModeClient, 0)
	r, msg := feedByteAtATime(t, p, wire)
	if r != Complete {
		t.Fatalf("Parse() = %v, want Complete", r)
	}
	if msg.Opcode != OpBinary {
		t.Fatalf("Opcode = %v, want OpBinary", msg.Opcode)
	}
	if !bytes.Equal(msg.Payload, payload) {
		t.Fatalf("Payload mismatch, got %d bytes want %d", len(msg.Payload), len(payload))
	}
}

func TestFragmentedMessageReassembly(t *testing.T) {
	enc := NewEncoder(ModeClient)
	f1 := enc.EncodeFrame(false, OpText, []byte("hello "))
	f2 := enc.EncodeFrame(false, OpContinue, []byte("frag"))
	f3 := enc.EncodeFrame(true, OpContinue, []byte("mented"))

	p := NewParser(ModeServer, 0)
	wire := append(append(f1, f2...), f3...)
	r, msg := feedByteAtATime(t, p, wire)
	if r != Complete {
		t.Fatalf("Parse() = %v, want Complete", r)
	}
	if msg.Opcode != OpText {
		t.Fatalf("Opcode = %v, want OpText", msg.Opcode)
	}
	if string(msg.Payload) != "hello fragmented" {
		t.Fatalf("Payload = %q, want %q", msg.Payload, "hello fragmented")
	}
}

func TestControlFrameInterleavesBeforeFragmentedData(t *testing.T) {
	enc := NewEncoder(ModeClient)
	f1 := enc.EncodeFrame(false, OpText, []byte("part1"))
	ping := enc.EncodePing([]byte("ping-payload"))

	p := NewParser(ModeServer, 0)
	wire := append(f1, ping...)

	if e := p.Feed(wire); e != nil {
		t.Fatalf("Feed: %v", e)
	}
	r, e := p.Parse()
	if e != nil {
		t.Fatalf("Parse: %v", e)
	}
	if r != Complete {
		t.Fatalf("Parse() = %v, want Complete for interleaved ping", r)
	}
	msg := p.Message()
	if msg.Opcode != OpPing {
		t.Fatalf("Opcode = %v, want OpPing (interleaved control first)", msg.Opcode)
	}
	if string(msg.Payload) != "ping-payload" {
		t.Fatalf("Payload = %q, want %q", msg.Payload, "ping-payload")
	}
}

func TestServerRejectsUnmaskedFrame(t *testing.T) {
	enc := NewEncoder(ModeServer) // unmasked frame
	wire := enc.EncodeText("unmasked")

	p := NewParser(ModeServer, 0)
	r, _ := feedByteAtATime(t, p, wire)
	if r != Invalid {
		t.Fatalf("Parse() = %v, want Invalid for an unmasked frame at a server", r)
	}
}

func TestClientRejectsMaskedFrame(t *testing.T) {
	enc := NewEncoder(ModeClient) // masked frame
	wire := enc.EncodeText("masked")

	p := NewParser(ModeClient, 0)
	r, _ := feedByteAtATime(t, p, wire)
	if r != Invalid {
		t.Fatalf("Parse() = %v, want Invalid for a masked frame at a client", r)
	}
}

func TestOversizedMessageRejected(t *testing.T) {
	enc := NewEncoder(ModeClient)
	wire := enc.EncodeText(string(bytes.Repeat([]byte{'x'}, 100)))

	p := NewParser(ModeServer, 50) // cap well below the 100 byte payload
	r, _ := feedByteAtATime(t, p, wire)
	if r != Invalid {
		t.Fatalf("Parse() = %v, want Invalid for a message over maxMessageSize", r)
	}
}

func TestCloseFrameRoundTrip(t *testing.T) {
	enc := NewEncoder(ModeClient)
	wire := enc.EncodeClose(1000, "bye")

	p := NewParser(ModeServer, 0)
	r, msg := feedByteAtATime(t, p, wire)
	if r != Complete {
		t.Fatalf("Parse() = %v, want Complete", r)
	}
	if msg.Opcode != OpClose {
		t.Fatalf("Opcode = %v, want OpClose", msg.Opcode)
	}
	if !msg.IsControl() {
		t.Fatal("IsControl() = false, want true for a close message")
	}
	gotCode := uint16(msg.Payload[0])<<8 | uint16(msg.Payload[1])
	if gotCode != 1000 {
		t.Fatalf("close code = %d, want 1000", gotCode)
	}
	if string(msg.Payload[2:]) != "bye" {
		t.Fatalf("close reason = %q, want %q", msg.Payload[2:], "bye")
	}
}
