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

package httpsrv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sabouaram/netcore/net/httpwire"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

func staticReq(path string) *httpwire.Message {
	return &httpwire.Message{Path: path, Version: "1.1", Headers: httpwire.NewHeaders()}
}

func TestStaticFileHandlerServesExistingFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello world"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	h := NewStaticFileHandler("/static", dir)
	res := httpwire.NewResponseBuilder("test-server")

	handled, err := h(staticReq("/static/hello.txt"), res)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if !handled {
		t.Fatal("handled = false, want true for an existing file")
	}
}

func TestStaticFileHandlerFallsThroughOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	h := NewStaticFileHandler("/static", dir)
	res := httpwire.NewResponseBuilder("test-server")

	handled, err := h(staticReq("/static/missing.txt"), res)
	if err != nil {
		t.Fatalf("handler error = %v, want nil (NOT_HANDLED lets a later route answer)", err)
	}
	if handled {
		t.Fatal("handled = true, want false for a missing file")
	}
}

func TestStaticFileHandlerRejectsPathEscape(t *testing.T) {
	dir := t.TempDir()
	h := NewStaticFileHandler("/static", dir)
	res := httpwire.NewResponseBuilder("test-server")

	_, err := h(staticReq("/static/../../../../etc/passwd"), res)
	if err == nil {
		t.Fatal("handler error = nil, want ErrorPathEscape for a path escaping root")
	}
	ce, ok := err.(liberr.Error)
	if !ok || !ce.IsCode(ErrorPathEscape) {
		t.Fatalf("handler error = %v, want ErrorPathEscape", err)
	}
}

func TestStaticFileHandlerRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	h := NewStaticFileHandler("/static", dir)
	res := httpwire.NewResponseBuilder("test-server")

	_, err := h(staticReq("/static/subdir"), res)
	if err == nil {
		t.Fatal("handler error = nil, want ErrorNotRegularFile for a directory")
	}
	ce, ok := err.(liberr.Error)
	if !ok || !ce.IsCode(ErrorNotRegularFile) {
		t.Fatalf("handler error = %v, want ErrorNotRegularFile", err)
	}
}
