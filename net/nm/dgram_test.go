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
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/netcore/net/nm"
	"github.com/sabouaram/netcore/net/socket"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

var _ = Describe("DgramServer", func() {
	var srv *nm.DgramServer
	var cl *nm.DgramClient

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

	It("decodes an inbound datagram and can reply to the sender", func() {
		received := make(chan *nm.Message, 1)
		var gotFrom socket.Addr

		srv = nm.NewDgramServer(nm.DgramConfig{
			BindAddr: socket.Addr{Host: "127.0.0.1", Port: 0},
		}, nm.DgramCallbacks{
			MsgRecv: func(s *nm.DgramServer, msg *nm.Message, from socket.Addr) {
				gotFrom = from
				received <- msg
				reply := nm.NewMessage().Set("ack", nm.Uint8(1))
				_ = s.Send(reply, from)
			},
		}, nil)

		Expect(srv.Start()).To(Succeed())

		var err error
		cl, err = nm.NewDgramClient(srv.Addr())
		Expect(err).NotTo(HaveOccurred())

		msg := nm.NewMessage().Set("temp", nm.Float64(21.5))
		Expect(cl.Send(msg)).To(Succeed())

		var got *nm.Message
		Eventually(received, time.Second).Should(Receive(&got))
		temp, ok := got.Get("temp")
		Expect(ok).To(BeTrue())
		f, ok := temp.Float64()
		Expect(ok).To(BeTrue())
		Expect(f).To(BeNumerically("==", 21.5))
		Expect(gotFrom.Host).NotTo(BeEmpty())

		reply, rerr := cl.Recv()
		Expect(rerr).NotTo(HaveOccurred())
		ack, ok := reply.Get("ack")
		Expect(ok).To(BeTrue())
		n, ok := ack.Uint8()
		Expect(ok).To(BeTrue())
		Expect(n).To(Equal(uint8(1)))
	})

	It("reports decode failures through OnError instead of crashing the receive loop", func() {
		errs := make(chan liberr.Error, 1)

		srv = nm.NewDgramServer(nm.DgramConfig{
			BindAddr: socket.Addr{Host: "127.0.0.1", Port: 0},
		}, nm.DgramCallbacks{
			OnError: func(err liberr.Error) { errs <- err },
		}, nil)

		Expect(srv.Start()).To(Succeed())

		udpAddr, rerr := net.ResolveUDPAddr("udp", srv.Addr().String())
		Expect(rerr).NotTo(HaveOccurred())
		conn, derr := net.DialUDP("udp", nil, udpAddr)
		Expect(derr).NotTo(HaveOccurred())
		defer conn.Close()

		_, werr := conn.Write([]byte("not an nm message"))
		Expect(werr).NotTo(HaveOccurred())

		Eventually(errs, time.Second).Should(Receive())
	})
})
