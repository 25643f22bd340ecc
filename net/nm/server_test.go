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

package nm_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/netcore/net/nm"
	"github.com/sabouaram/netcore/net/socket"
)

var _ = Describe("Server", func() {
	var srv *nm.Server
	var cl *nm.Client

	AfterEach(func() {
		if cl != nil {
			_ = cl.Close()
			cl = nil
		}
		if srv != nil {
			_ = srv.Stop()
			srv = nil
		}
	})

	It("accepts a client, receives its message, and replies", func() {
		received := make(chan *nm.Message, 1)

		srv = nm.New(nm.Config{
			BindAddr: socket.Addr{Host: "127.0.0.1", Port: 0},
			Callbacks: nm.Callbacks{
				ClientMsg: func(c *nm.Conn, msg *nm.Message) {
					received <- msg
					reply := nm.NewMessage().Set("ack", nm.Bool(true))
					_ = c.Send(reply)
				},
			},
		}, nil)

		Expect(srv.Start()).To(Succeed())

		cl = nm.NewClient()
		Expect(cl.Connect(srv.Addr().String())).To(Succeed())

		msg := nm.NewMessage().Set("name", nm.Str("ping")).Set("count", nm.Int32(7))
		Expect(cl.Send(msg)).To(Succeed())

		var got *nm.Message
		Eventually(received, time.Second).Should(Receive(&got))
		name, ok := got.Get("name")
		Expect(ok).To(BeTrue())
		s, ok := name.Str()
		Expect(ok).To(BeTrue())
		Expect(s).To(Equal("ping"))

		reply, rerr := cl.Recv()
		Expect(rerr).NotTo(HaveOccurred())
		ack, ok := reply.Get("ack")
		Expect(ok).To(BeTrue())
		b, ok := ack.Bool()
		Expect(ok).To(BeTrue())
		Expect(b).To(BeTrue())
	})

	It("fires ClientConnect and ClientDisconnect around a connection's lifetime", func() {
		connected := make(chan struct{}, 1)
		disconnected := make(chan struct{}, 1)

		srv = nm.New(nm.Config{
			BindAddr: socket.Addr{Host: "127.0.0.1", Port: 0},
			Callbacks: nm.Callbacks{
				ClientConnect:    func(c *nm.Conn) { connected <- struct{}{} },
				ClientDisconnect: func(c *nm.Conn) { disconnected <- struct{}{} },
			},
		}, nil)

		Expect(srv.Start()).To(Succeed())

		cl = nm.NewClient()
		Expect(cl.Connect(srv.Addr().String())).To(Succeed())
		Eventually(connected, time.Second).Should(Receive())

		Expect(cl.Close()).To(Succeed())
		cl = nil
		Eventually(disconnected, time.Second).Should(Receive())
	})
})
