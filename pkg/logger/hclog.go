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

package logger

import (
	"io"
	"log"
	"os"

	"github.com/hashicorp/go-hclog"
)

// hclogAdapter lets components written against hclog.Logger log through the
// same sink as every other component instead of carrying a second logging
// stack. net/dgram does not use it: its ants pool logs through a Printf
// adapter of its own.
type hclogAdapter struct {
	l Logger
}

// NewHCLog wraps a Logger as an hclog.Logger.
func NewHCLog(l Logger) hclog.Logger {
	return &hclogAdapter{l: l}
}

func (h *hclogAdapter) Log(level hclog.Level, msg string, args ...interface{}) {
	switch level {
	case hclog.Off, hclog.NoLevel:
		return
	case hclog.Trace, hclog.Debug:
		h.l.Debug(msg, nil, args...)
	case hclog.Info:
		h.l.Info(msg, nil, args...)
	case hclog.Warn:
		h.l.Warning(msg, nil, args...)
	case hclog.Error:
		h.l.Error(msg, nil, args...)
	}
}

func (h *hclogAdapter) Trace(msg string, args ...interface{}) { h.l.Debug(msg, nil, args...) }
func (h *hclogAdapter) Debug(msg string, args ...interface{}) { h.l.Debug(msg, nil, args...) }
func (h *hclogAdapter) Info(msg string, args ...interface{})  { h.l.Info(msg, nil, args...) }
func (h *hclogAdapter) Warn(msg string, args ...interface{})  { h.l.Warning(msg, nil, args...) }
func (h *hclogAdapter) Error(msg string, args ...interface{}) { h.l.Error(msg, nil, args...) }

func (h *hclogAdapter) IsTrace() bool { return true }
func (h *hclogAdapter) IsDebug() bool { return true }
func (h *hclogAdapter) IsInfo() bool  { return true }
func (h *hclogAdapter) IsWarn() bool  { return true }
func (h *hclogAdapter) IsError() bool { return true }

func (h *hclogAdapter) ImpliedArgs() []interface{}            { return nil }
func (h *hclogAdapter) With(args ...interface{}) hclog.Logger { return h }
func (h *hclogAdapter) Named(name string) hclog.Logger        { return h }
func (h *hclogAdapter) ResetNamed(name string) hclog.Logger   { return h }
func (h *hclogAdapter) Name() string                          { return "netcore" }
func (h *hclogAdapter) SetLevel(level hclog.Level)             {}
func (h *hclogAdapter) GetLevel() hclog.Level                  { return hclog.Info }

func (h *hclogAdapter) StandardLogger(opts *hclog.StandardLoggerOptions) *log.Logger {
	return log.New(os.Stderr, "", log.LstdFlags)
}

func (h *hclogAdapter) StandardWriter(opts *hclog.StandardLoggerOptions) io.Writer {
	return os.Stderr
}
