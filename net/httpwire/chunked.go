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

package httpwire

import (
	"bytes"
	"strconv"
	"strings"

	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// parseChunk drives the four chunked-transfer sub-phases: the size line,
// the chunk data itself, the trailing CRLF after each chunk, and the final
// trailer section after the zero-size terminator chunk. Reassembly is
// contiguous: each chunk's bytes land directly in p.bodyBuf, never exposed
// to the caller chunk-by-chunk.
func (p *Parser) parseChunk() (Result, liberr.Error) {
	for {
		switch p.phase {
		case phaseChunkSize:
			r, e := p.parseChunkSizeLine()
			if r != Complete {
				return r, e
			}
		case phaseChunkData:
			r, e := p.parseChunkData()
			if r != Complete {
				return r, e
			}
		case phaseChunkCRLF:
			r, e := p.parseChunkTrailingCRLF()
			if r != Complete {
				return r, e
			}
		case phaseChunkTrailerCRLF:
			return p.parseChunkTrailer()
		default:
			return Complete, nil
		}
	}
}

func (p *Parser) parseChunkSizeLine() (Result, liberr.Error) {
	avail := p.available()
	idx := bytes.Index(avail, []byte("\r\n"))
	if idx < 0 {
		if len(avail) > 64 {
			return Invalid, ErrorInvalid.Error(nil)
		}
		return Again, nil
	}

	line := string(avail[:idx])
	if si := strings.IndexByte(line, ';'); si >= 0 {
		line = line[:si]
	}
	line = strings.TrimSpace(line)

	size, e := strconv.ParseInt(line, 16, 64)
	if e != nil || size < 0 {
		return Invalid, ErrorInvalid.Error(nil)
	}

	if e := p.buf.MarkProcessed(idx + 2); e != nil {
		return Invalid, e
	}

	p.chunkSize = size
	p.chunkRead = 0

	if size == 0 {
		p.phase = phaseChunkTrailerCRLF
		return Complete, nil
	}

	if int64(len(p.bodyBuf))+size > int64(p.maxBodySize) {
		return Invalid, ErrorBodyTooLarge.Error(nil)
	}

	p.phase = phaseChunkData
	return Complete, nil
}

func (p *Parser) parseChunkData() (Result, liberr.Error) {
	avail := p.available()
	need := p.chunkSize - p.chunkRead
	if int64(len(avail)) < need {
		if len(avail) > 0 {
			p.bodyBuf = append(p.bodyBuf, avail...)
			p.chunkRead += int64(len(avail))
			_ = p.buf.MarkProcessed(len(avail))
		}
		return Again, nil
	}

	p.bodyBuf = append(p.bodyBuf, avail[:need]...)
	_ = p.buf.MarkProcessed(int(need))
	p.phase = phaseChunkCRLF
	return Complete, nil
}

func (p *Parser) parseChunkTrailingCRLF() (Result, liberr.Error) {
	avail := p.available()
	if len(avail) < 2 {
		return Again, nil
	}
	if avail[0] != '\r' || avail[1] != '\n' {
		return Invalid, ErrorInvalid.Error(nil)
	}
	_ = p.buf.MarkProcessed(2)
	p.phase = phaseChunkSize
	return Complete, nil
}

// parseChunkTrailer consumes the (usually empty) trailer header section
// that follows the zero-size terminator chunk, up to and including its
// blank-line terminator, then finalizes the body.
func (p *Parser) parseChunkTrailer() (Result, liberr.Error) {
	avail := p.available()
	idx := bytes.Index(avail, []byte("\r\n\r\n"))
	if idx < 0 {
		if bytes.Equal(avail, []byte("\r\n")) {
			idx = 0
		} else if len(avail) > p.maxHeaderSize {
			return Invalid, ErrorHeaderTooLarge.Error(nil)
		} else {
			return Again, nil
		}
	}

	consume := idx + 4
	if consume > len(avail) {
		consume = len(avail)
	}
	_ = p.buf.MarkProcessed(consume)

	p.msg.Body = p.bodyBuf
	p.phase = phaseDone
	return Complete, nil
}
