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
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/sabouaram/netcore/net/httpwire"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// BasicAuth checks an incoming request's Authorization header against a
// fixed user/pass pair, constant-time compared. Realm names the
// WWW-Authenticate challenge issued on a missing or wrong credential.
type BasicAuth struct {
	Realm string
	User  string
	Pass  string
}

// Check decodes req's Authorization header and reports whether it carries
// the exact configured credentials.
func (a BasicAuth) Check(req *httpwire.Message) bool {
	hdr := req.Headers.Get("Authorization")
	const prefix = "Basic "
	if !strings.HasPrefix(hdr, prefix) {
		return false
	}

	raw, err := base64.StdEncoding.DecodeString(hdr[len(prefix):])
	if err != nil {
		return false
	}

	sep := strings.IndexByte(string(raw), ':')
	if sep < 0 {
		return false
	}

	user, pass := string(raw[:sep]), string(raw[sep+1:])
	okUser := subtle.ConstantTimeCompare([]byte(user), []byte(a.User)) == 1
	okPass := subtle.ConstantTimeCompare([]byte(pass), []byte(a.Pass)) == 1
	return okUser && okPass
}

// Challenge writes a 401 response carrying the WWW-Authenticate header,
// for use as the fallback when Check fails.
func (a BasicAuth) Challenge(req *httpwire.Message, res *httpwire.ResponseBuilder) liberr.Error {
	if e := res.Begin(401, "Unauthorized", req.Version, req.Headers.HasToken("Connection", "close")); e != nil {
		return e
	}
	if e := res.Header("WWW-Authenticate", fmt.Sprintf(`Basic realm="%s"`, a.Realm)); e != nil {
		return e
	}
	if e := res.BodyStr("401 Unauthorized\n"); e != nil {
		return e
	}
	return res.End()
}

// Wrap returns a HandlerFunc that enforces Basic auth in front of next,
// answering the 401 challenge itself when credentials are missing or wrong.
func (a BasicAuth) Wrap(next HandlerFunc) HandlerFunc {
	return func(req *httpwire.Message, res *httpwire.ResponseBuilder) (bool, liberr.Error) {
		if !a.Check(req) {
			if e := a.Challenge(req, res); e != nil {
				return false, e
			}
			return true, nil
		}
		return next(req, res)
	}
}
