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

package httpsrv_test

import (
	"bufio"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/netcore/net/httpsrv"
	"github.com/sabouaram/netcore/net/httpwire"
	"github.com/sabouaram/netcore/net/socket"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

var _ = Describe("Server", func() {
	var srv *httpsrv.Server

	AfterEach(func() {
		if srv != nil {
			_ = httpsrv.Stop(srv)
			srv = nil
		}
	})

	dial := func(addr socket.Addr) net.Conn {
		conn, err := net.DialTimeout("tcp", addr.String(), time.Second)
		Expect(err).NotTo(HaveOccurred())
		return conn
	}

	It("routes a GET request to the matching handler and returns its response", func() {
		router := httpsrv.NewRouter()
		router.Add("/hello", func(req *httpwire.Message, res *httpwire.ResponseBuilder) (bool, liberr.Error) {
			if e := res.Begin(200, "OK", req.Version, true); e != nil {
				return false, e
			}
			if e := res.BodyStr("hi there"); e != nil {
				return false, e
			}
			return true, res.End()
		})

		var err error
		srv, err = httpsrv.New(httpsrv.Config{
			BindAddr: socket.Addr{Host: "127.0.0.1", Port: 0},
		}, router, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(srv.Start()).To(Succeed())

		conn := dial(srv.Addr())
		defer conn.Close()

		_, werr := conn.Write([]byte("GET /hello HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n"))
		Expect(werr).NotTo(HaveOccurred())

		Expect(conn.SetReadDeadline(time.Now().Add(2 * time.Second))).To(Succeed())
		r := bufio.NewReader(conn)
		status, rerr := r.ReadString('\n')
		Expect(rerr).NotTo(HaveOccurred())
		Expect(status).To(ContainSubstring("200"))
	})

	It("falls back to a 404 when no route matches", func() {
		router := httpsrv.NewRouter()

		var err error
		srv, err = httpsrv.New(httpsrv.Config{
			BindAddr: socket.Addr{Host: "127.0.0.1", Port: 0},
		}, router, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(srv.Start()).To(Succeed())

		conn := dial(srv.Addr())
		defer conn.Close()

		_, werr := conn.Write([]byte("GET /missing HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n"))
		Expect(werr).NotTo(HaveOccurred())

		Expect(conn.SetReadDeadline(time.Now().Add(2 * time.Second))).To(Succeed())
		r := bufio.NewReader(conn)
		status, rerr := r.ReadString('\n')
		Expect(rerr).NotTo(HaveOccurred())
		Expect(status).To(ContainSubstring("404"))
	})

	It("rejects a nil router", func() {
		_, err := httpsrv.New(httpsrv.Config{}, nil, nil, nil)
		Expect(err).To(HaveOccurred())
	})
})
