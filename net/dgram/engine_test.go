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

package dgram_test

import (
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/netcore/net/dgram"
	"github.com/sabouaram/netcore/net/socket"
)

var _ = Describe("Engine", func() {
	var eng *dgram.Engine

	AfterEach(func() {
		if eng != nil {
			_ = eng.Stop()
			eng = nil
		}
	})

	It("receives a datagram and echoes it back to the sender in direct mode", func() {
		received := make(chan dgram.Dgram, 1)

		eng = dgram.New(dgram.Config{
			BindAddr: socket.Addr{Host: "127.0.0.1", Port: 0},
			OnDgram: func(d dgram.Dgram) {
				received <- d
			},
		}, nil)

		Expect(eng.Start()).To(Succeed())

		udpAddr, rerr := net.ResolveUDPAddr("udp", eng.Addr().String())
		Expect(rerr).NotTo(HaveOccurred())

		conn, derr := net.DialUDP("udp", nil, udpAddr)
		Expect(derr).NotTo(HaveOccurred())
		defer conn.Close()

		_, werr := conn.Write([]byte("ping"))
		Expect(werr).NotTo(HaveOccurred())

		var d dgram.Dgram
		Eventually(received, time.Second).Should(Receive(&d))
		Expect(string(d.Buf)).To(Equal("ping"))

		Expect(eng.Send(d.Source, []byte("pong"))).To(Succeed())

		buf := make([]byte, 64)
		Expect(conn.SetReadDeadline(time.Now().Add(time.Second))).To(Succeed())
		n, rerr := conn.Read(buf)
		Expect(rerr).NotTo(HaveOccurred())
		Expect(string(buf[:n])).To(Equal("pong"))
	})

	It("dispatches through the worker pool when WorkerThreads > 0", func() {
		workerStarted := make(chan int, 2)
		received := make(chan dgram.Dgram, 1)

		eng = dgram.New(dgram.Config{
			BindAddr:      socket.Addr{Host: "127.0.0.1", Port: 0},
			WorkerThreads: 2,
			WorkerInit:    func(id int) { workerStarted <- id },
			OnDgram: func(d dgram.Dgram) {
				received <- d
			},
		}, nil)

		Expect(eng.Start()).To(Succeed())
		Eventually(workerStarted, time.Second).Should(Receive())
		Eventually(workerStarted, time.Second).Should(Receive())

		udpAddr, rerr := net.ResolveUDPAddr("udp", eng.Addr().String())
		Expect(rerr).NotTo(HaveOccurred())
		conn, derr := net.DialUDP("udp", nil, udpAddr)
		Expect(derr).NotTo(HaveOccurred())
		defer conn.Close()

		_, werr := conn.Write([]byte("queued"))
		Expect(werr).NotTo(HaveOccurred())

		var d dgram.Dgram
		Eventually(received, time.Second).Should(Receive(&d))
		Expect(string(d.Buf)).To(Equal("queued"))
	})

	It("rejects Send and a second Start while not running or already running", func() {
		eng = dgram.New(dgram.Config{BindAddr: socket.Addr{Host: "127.0.0.1", Port: 0}}, nil)

		Expect(eng.Send(socket.Addr{Host: "127.0.0.1", Port: 1}, []byte("x"))).To(HaveOccurred())

		Expect(eng.Start()).To(Succeed())
		Expect(eng.Start()).To(HaveOccurred())
	})
})
