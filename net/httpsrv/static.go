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
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/sabouaram/netcore/net/emitter"
	"github.com/sabouaram/netcore/net/httpwire"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// StaticRoute serves files out of Root below URL prefix Prefix, rejecting
// any resolved path that escapes Root.
type StaticRoute struct {
	Prefix string
	Root   string
}

// NewStaticFileHandler builds a HandlerFunc that resolves req.Path below
// prefix to a path under root, rejects escapes, stats as a regular file
// and serves it via a net/emitter.FileSource body.
func NewStaticFileHandler(prefix, root string) HandlerFunc {
	cleanRoot := filepath.Clean(root)

	return func(req *httpwire.Message, res *httpwire.ResponseBuilder) (bool, liberr.Error) {
		rel := strings.TrimPrefix(req.Path, prefix)
		rel = strings.TrimPrefix(rel, "/")

		full := filepath.Join(cleanRoot, rel)
		full = filepath.Clean(full)

		if full != cleanRoot && !strings.HasPrefix(full, cleanRoot+string(filepath.Separator)) {
			return false, ErrorPathEscape.Error(nil)
		}

		info, statErr := os.Stat(full)
		if statErr != nil {
			return false, nil // NOT_HANDLED: let a later route (e.g. a 404) take it
		}
		if !info.Mode().IsRegular() {
			return false, ErrorNotRegularFile.Error(nil)
		}

		src, e := emitter.NewFile(full, 0, info.Size())
		if e != nil {
			return false, e
		}

		if be := res.Begin(200, "OK", req.Version, req.Headers.HasToken("Connection", "close")); be != nil {
			return false, be
		}
		if he := res.Header("Content-Type", contentType(full)); he != nil {
			return false, he
		}
		if bb := res.BodyEmitterSized(src, info.Size()); bb != nil {
			return false, bb
		}
		if ee := res.End(); ee != nil {
			return false, ee
		}

		return true, nil
	}
}

func contentType(path string) string {
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return ct
}
