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

package ws_test

import (
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/netcore/net/httpsrv"
	"github.com/sabouaram/netcore/net/socket"
	"github.com/sabouaram/netcore/net/ws"
)

// newEchoServer wires a Router serving the opening handshake at /ws ahead of
// an UpgradeDispatcher registered for the "websocket" token, mirroring how
// cmd/netcore's ws-echo subcommand assembles the same pieces.
func newEchoServer(h *ws.Handler) *httpsrv.Server {
	router := httpsrv.NewRouter()
	router.Add("/ws", ws.NewAcceptHandler())

	upgrade := httpsrv.NewUpgradeDispatcher()
	upgrade.Register("websocket", ws.NewUpgradeHandler(h))

	srv, err := httpsrv.New(httpsrv.Config{
		BindAddr: socket.Addr{Host: "127.0.0.1", Port: 0},
	}, router, upgrade, nil)
	Expect(err).NotTo(HaveOccurred())
	return srv
}

var _ = Describe("WebSocket upgrade and framing", func() {
	var srv *httpsrv.Server
	var cl *ws.Client

	AfterEach(func() {
		if cl != nil {
			_ = cl.Close()
			cl = nil
		}
		if srv != nil {
			_ = httpsrv.Stop(srv)
			srv = nil
		}
	})

	It("completes the handshake and echoes a text message back", func() {
		echoed := make(chan *ws.Message, 1)
		h := &ws.Handler{
			OnMessage: func(c *ws.Conn, msg *ws.Message) {
				echoed <- msg
				_ = c.SendText("echo: " + string(msg.Payload))
			},
		}
		srv = newEchoServer(h)
		Expect(srv.Start()).To(Succeed())

		cl = ws.NewClient()
		url := fmt.Sprintf("ws://%s/ws", srv.Addr().String())
		Expect(cl.Connect(url)).To(Succeed())

		Expect(cl.SendText("hello")).To(Succeed())

		var got *ws.Message
		Eventually(echoed, time.Second).Should(Receive(&got))
		Expect(string(got.Payload)).To(Equal("hello"))

		reply, rerr := cl.Recv()
		Expect(rerr).NotTo(HaveOccurred())
		Expect(string(reply.Payload)).To(Equal("echo: hello"))
	})

	It("fires OnClose once the peer connection drops", func() {
		closed := make(chan struct{}, 1)
		h := &ws.Handler{
			OnClose: func(c *ws.Conn) { closed <- struct{}{} },
		}
		srv = newEchoServer(h)
		Expect(srv.Start()).To(Succeed())

		cl = ws.NewClient()
		url := fmt.Sprintf("ws://%s/ws", srv.Addr().String())
		Expect(cl.Connect(url)).To(Succeed())

		Expect(cl.Close()).To(Succeed())
		Eventually(closed, time.Second).Should(Receive())
		cl = nil
	})

	It("rejects a handshake missing Sec-WebSocket-Version", func() {
		srv = newEchoServer(&ws.Handler{})
		Expect(srv.Start()).To(Succeed())

		raw, derr := socket.Dial(srv.Addr(), nil, "")
		Expect(derr).NotTo(HaveOccurred())
		Expect(raw.SetNonblocking(false)).To(Succeed())
		defer raw.Close()

		req := "GET /ws HTTP/1.1\r\nHost: x\r\nUpgrade: websocket\r\nConnection: Upgrade\r\nSec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\r\n\r\n"
		_, werr := raw.Send([]byte(req))
		Expect(werr).NotTo(HaveOccurred())

		buf := make([]byte, 4096)
		n, rerr := raw.Recv(buf)
		Expect(rerr).NotTo(HaveOccurred())
		Expect(string(buf[:n])).NotTo(ContainSubstring("101 Switching Protocols"))
	})
})
