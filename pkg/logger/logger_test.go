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
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func TestNewLogsAtOrAboveInfoByDefault(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)

	l.Debug("debug message", nil)
	if strings.Contains(buf.String(), "debug message") {
		t.Fatal("Debug() was logged, want it suppressed below the default Info level")
	}

	l.Info("info message", nil)
	if !strings.Contains(buf.String(), "info message") {
		t.Fatal("Info() was not logged, want it present at the default level")
	}
}

func TestSetLevelEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(DebugLevel)

	l.Debug("now visible", nil)
	if !strings.Contains(buf.String(), "now visible") {
		t.Fatal("Debug() was not logged after SetLevel(DebugLevel)")
	}
}

func TestWithFieldAndWithFieldsAttachValues(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)

	l.WithField("conn", "abc123").Info("connected", nil)
	if !strings.Contains(buf.String(), "conn=abc123") {
		t.Fatalf("output %q missing WithField key/value", buf.String())
	}

	buf.Reset()
	l.WithFields(Fields{"worker": 3, "proto": "nm"}).Info("ready", nil)
	out := buf.String()
	if !strings.Contains(out, "worker=3") || !strings.Contains(out, "proto=nm") {
		t.Fatalf("output %q missing WithFields key/values", out)
	}
}

func TestErrorAttachesUnderlyingError(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)

	l.Error("write failed", errors.New("disk full"))
	if !strings.Contains(buf.String(), "disk full") {
		t.Fatalf("output %q missing the attached error", buf.String())
	}
}

func TestMessageFormatsArgs(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)

	l.Info("worker %d of %d started", nil, 2, 4)
	if !strings.Contains(buf.String(), "worker 2 of 4 started") {
		t.Fatalf("output %q missing formatted message", buf.String())
	}
}

func TestLevelStringAndLogrusMapping(t *testing.T) {
	cases := map[Level]string{
		PanicLevel: "Critical",
		FatalLevel: "Fatal",
		ErrorLevel: "Error",
		WarnLevel:  "Warning",
		InfoLevel:  "Info",
		DebugLevel: "Debug",
	}
	for lvl, want := range cases {
		if got := lvl.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", lvl, got, want)
		}
	}
}

func TestHCLogAdapterRoutesLevelsThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(DebugLevel)

	hl := NewHCLog(l)
	hl.Debug("hclog debug")
	hl.Info("hclog info")
	hl.Warn("hclog warn")
	hl.Error("hclog error")

	out := buf.String()
	for _, want := range []string{"hclog debug", "hclog info", "hclog warn", "hclog error"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q, got %q", want, out)
		}
	}
}

func TestHCLogAdapterIgnoresOffAndNoLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(DebugLevel)

	hl := NewHCLog(l)
	hl.Log(hclog.Off, "should not appear")
	hl.Log(hclog.NoLevel, "should not appear either")

	if strings.Contains(buf.String(), "should not appear") {
		t.Fatalf("Off/NoLevel entries were logged, want them suppressed: %q", buf.String())
	}
}
