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

// Package ws implements the RFC 6455 WebSocket wire protocol: a resumable
// frame parser/message assembler, a frame encoder, and the HTTP handshake
// on both the server (accept) and client (dial) sides.
package ws

import "github.com/sabouaram/netcore/pkg/errors"

const (
	ErrorRsvNonZero errors.CodeError = iota + errors.MinPkgWS
	ErrorInvalidOpcode
	ErrorControlFragmented
	ErrorBadContinueFrame
	ErrorMsgNotContinued
	ErrorInvalidPayloadLen
	ErrorClientMsgUnmasked
	ErrorServerMsgMasked
	ErrorPrevCtrlMsg
	ErrorMessageTooLarge
	ErrorHandshakeKey
	ErrorHandshakeVersion
	ErrorHandshakeAccept
	ErrorHandshakeUpgrade
)

func init() {
	errors.RegisterIdFctMessage(ErrorRsvNonZero, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorRsvNonZero:
		return "reserved bits must be zero"
	case ErrorInvalidOpcode:
		return "invalid frame opcode"
	case ErrorControlFragmented:
		return "control frames must not be fragmented"
	case ErrorBadContinueFrame:
		return "continuation frame without a preceding data frame"
	case ErrorMsgNotContinued:
		return "data frame received while a message was already in progress"
	case ErrorInvalidPayloadLen:
		return "payload length uses a non-minimal encoding"
	case ErrorClientMsgUnmasked:
		return "client frame must be masked"
	case ErrorServerMsgMasked:
		return "server frame must not be masked"
	case ErrorPrevCtrlMsg:
		return "previous interleaved control message was not retrieved"
	case ErrorMessageTooLarge:
		return "assembled message exceeds the maximum size"
	case ErrorHandshakeKey:
		return "missing or malformed Sec-WebSocket-Key"
	case ErrorHandshakeVersion:
		return "unsupported Sec-WebSocket-Version"
	case ErrorHandshakeAccept:
		return "Sec-WebSocket-Accept does not match the expected value"
	case ErrorHandshakeUpgrade:
		return "missing Upgrade: websocket handshake headers"
	}
	return ""
}
