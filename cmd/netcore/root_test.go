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

package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRootCommandRegistersEverySubcommand(t *testing.T) {
	root := newRootCommand()

	want := []string{"tcp-server", "http-router", "ws-echo", "nm-echo"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil {
			t.Fatalf("Find(%q): %v", name, err)
		}
		if cmd.Name() != name {
			t.Fatalf("Find(%q) resolved to %q", name, cmd.Name())
		}
	}
}

func TestTCPServerCommandFlagDefaults(t *testing.T) {
	cmd := newTCPServerCommand()

	listen, err := cmd.Flags().GetString("listen")
	if err != nil {
		t.Fatalf("GetString(listen): %v", err)
	}
	if listen != "127.0.0.1:5000" {
		t.Fatalf("listen default = %q, want 127.0.0.1:5000", listen)
	}

	workers, err := cmd.Flags().GetInt("workers")
	if err != nil {
		t.Fatalf("GetInt(workers): %v", err)
	}
	if workers != 2 {
		t.Fatalf("workers default = %d, want 2", workers)
	}
}

func TestNewLoggerSetsDebugLevelWhenVerbose(t *testing.T) {
	var quietBuf, verboseBuf bytes.Buffer

	quiet := newLogger(false)
	quiet.SetOutput(&quietBuf)
	quiet.Debug("debug message from quiet logger", nil)
	if strings.Contains(quietBuf.String(), "debug message") {
		t.Fatal("newLogger(false) logged a Debug message, want it filtered at the default Info level")
	}

	verbose := newLogger(true)
	verbose.SetOutput(&verboseBuf)
	verbose.Debug("debug message from verbose logger", nil)
	if !strings.Contains(verboseBuf.String(), "debug message") {
		t.Fatal("newLogger(true) filtered a Debug message, want SetLevel(DebugLevel) to let it through")
	}
}
