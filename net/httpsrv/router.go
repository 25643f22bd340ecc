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
	"strings"
	"sync"

	"github.com/sabouaram/netcore/net/httpwire"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// HandlerFunc processes one request. A false handled return lets the
// Router try the next matching route, mirroring a NOT_HANDLED result
// rather than an error; a non-nil err always stops iteration.
type HandlerFunc func(req *httpwire.Message, res *httpwire.ResponseBuilder) (handled bool, err liberr.Error)

// Route pairs a URL path prefix with the handler invoked when it matches.
type Route struct {
	Prefix  string
	Handler HandlerFunc
}

// matches implements the router's prefix rule: an exact match always
// matches; a prefix ending in "/" additionally matches any path it is a
// proper string-prefix of. A prefix NOT ending in "/" does not match
// "/foo" against "/foobar". This asymmetry ("/foo/" accepts "/foo/bar",
// "/foo" rejects "/foobar") is intentional, not a bug.
func (r Route) matches(path string) bool {
	if path == r.Prefix {
		return true
	}
	if strings.HasSuffix(r.Prefix, "/") && strings.HasPrefix(path, r.Prefix) {
		return true
	}
	return false
}

// Router holds an ordered list of routes and tries each in turn.
type Router struct {
	mu     sync.RWMutex
	routes []Route
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{}
}

// Add appends a route. Routes are tried in the order they were added.
func (rt *Router) Add(prefix string, h HandlerFunc) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.routes = append(rt.routes, Route{Prefix: prefix, Handler: h})
}

// Handle tries each route matching req.Path in order. handled is false
// when no route matched, or every matching route returned handled=false.
func (rt *Router) Handle(req *httpwire.Message, res *httpwire.ResponseBuilder) (handled bool, err liberr.Error) {
	rt.mu.RLock()
	routes := make([]Route, len(rt.routes))
	copy(routes, rt.routes)
	rt.mu.RUnlock()

	for _, r := range routes {
		if !r.matches(req.Path) {
			continue
		}
		h, e := r.Handler(req, res)
		if e != nil {
			return false, e
		}
		if h {
			return true, nil
		}
	}
	return false, nil
}
