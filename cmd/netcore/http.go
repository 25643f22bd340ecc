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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sabouaram/netcore/net/httpsrv"
	"github.com/sabouaram/netcore/net/httpwire"
	"github.com/sabouaram/netcore/net/socket"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// newHTTPRouterCommand mirrors examples/net_http_srv_router.c: a router
// serving an info route (echoes back path/version/params/headers) plus an
// optional static file route.
func newHTTPRouterCommand() *cobra.Command {
	var (
		listen     string
		workers    int
		verbose    bool
		staticRoot string
	)

	cmd := &cobra.Command{
		Use:   "http-router",
		Short: "Run an HTTP/1.x server with an info route and optional static files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHTTPRouter(listen, workers, verbose, staticRoot)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:8080", "address to bind")
	cmd.Flags().IntVar(&workers, "workers", 2, "worker pool size (0 = direct mode)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	cmd.Flags().StringVar(&staticRoot, "static-root", "", "serve files under this directory at /static/")

	return cmd
}

func runHTTPRouter(listen string, workers int, verbose bool, staticRoot string) error {
	log := newLogger(verbose)

	addr, aerr := socket.ParseAddr(listen)
	if aerr != nil {
		return aerr
	}

	router := httpsrv.NewRouter()
	router.Add("/info", httpInfoHandler)
	if staticRoot != "" {
		router.Add("/static/", httpsrv.NewStaticFileHandler("/static/", staticRoot))
	}

	srv, serr := httpsrv.New(httpsrv.Config{
		BindAddr:      addr,
		WorkerThreads: workers,
		ServerName:    "netcore",
	}, router, nil, log)
	if serr != nil {
		return serr
	}

	if err := srv.Start(); err != nil {
		return err
	}

	log.Info("Server URL: http://%s/", nil, listen)

	waitForSignal()
	log.Info("stopping server...", nil)
	return httpsrv.Stop(srv)
}

// httpInfoHandler mirrors examples/net_http_srv_router.c's http_info: it
// dumps the requested path, HTTP version, query params and headers back
// as the response body.
func httpInfoHandler(req *httpwire.Message, res *httpwire.ResponseBuilder) (bool, liberr.Error) {
	var body string
	body += "Requested path was: " + req.Path + "\n"
	body += "HTTP Version: " + req.Version + "\n"

	if len(req.Query) > 0 {
		body += "--Params--\n"
		for k, v := range req.Query {
			body += fmt.Sprintf("%s: %s\n", k, v)
		}
	}

	body += "--Headers--\n"
	req.Headers.Each(func(name, value string) {
		body += fmt.Sprintf("%s: %s\n", name, value)
	})

	if be := res.Begin(200, "OK", req.Version, false); be != nil {
		return false, be
	}
	if he := res.Header("Content-Type", "text/plain; charset=utf-8"); he != nil {
		return false, he
	}
	if we := res.BodyStr(body); we != nil {
		return false, we
	}
	if ee := res.End(); ee != nil {
		return false, ee
	}
	return true, nil
}
