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

package stream_test

import (
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/netcore/net/socket"
	"github.com/sabouaram/netcore/net/stream"
)

var _ = Describe("Engine", func() {
	var eng *stream.Engine

	AfterEach(func() {
		if eng != nil {
			_ = eng.Stop()
			eng = nil
		}
	})

	It("accepts a connection and reports connect/read/disconnect in direct mode", func() {
		connected := make(chan socket.Socket, 1)
		readData := make(chan []byte, 1)
		disconnected := make(chan struct{}, 1)

		eng = stream.New(stream.Config{
			BindAddr: socket.Addr{Host: "127.0.0.1", Port: 0},
			Backlog:  16,
			Callbacks: stream.Callbacks{
				SockConnected: func(sck socket.Socket) {
					connected <- sck
				},
				SockCanRead: func(sck socket.Socket) {
					buf := make([]byte, 64)
					n, e := sck.Recv(buf)
					if e == nil && n > 0 {
						select {
						case readData <- append([]byte(nil), buf[:n]...):
						default:
						}
					}
				},
				SockDisconnected: func(sck socket.Socket) {
					select {
					case disconnected <- struct{}{}:
					default:
					}
				},
			},
		}, nil)

		Expect(eng.Start()).To(Succeed())

		conn, derr := net.Dial("tcp", eng.Addr().String())
		Expect(derr).NotTo(HaveOccurred())

		var sck socket.Socket
		Eventually(connected, time.Second).Should(Receive(&sck))

		_, werr := conn.Write([]byte("ping"))
		Expect(werr).NotTo(HaveOccurred())

		var got []byte
		Eventually(readData, time.Second).Should(Receive(&got))
		Expect(string(got)).To(Equal("ping"))

		Expect(conn.Close()).To(Succeed())
		Eventually(disconnected, time.Second).Should(Receive())
	})

	It("dispatches through the queued worker pool when WorkerThreads > 0", func() {
		workerStarted := make(chan int, 4)
		readData := make(chan []byte, 1)

		eng = stream.New(stream.Config{
			BindAddr:      socket.Addr{Host: "127.0.0.1", Port: 0},
			WorkerThreads: 2,
			Callbacks: stream.Callbacks{
				WorkerInit: func(id int) { workerStarted <- id },
				SockCanRead: func(sck socket.Socket) {
					buf := make([]byte, 64)
					n, e := sck.Recv(buf)
					if e == nil && n > 0 {
						select {
						case readData <- append([]byte(nil), buf[:n]...):
						default:
						}
					}
				},
			},
		}, nil)

		Expect(eng.Start()).To(Succeed())
		Eventually(workerStarted, time.Second).Should(Receive())
		Eventually(workerStarted, time.Second).Should(Receive())

		conn, derr := net.Dial("tcp", eng.Addr().String())
		Expect(derr).NotTo(HaveOccurred())
		defer conn.Close()

		_, werr := conn.Write([]byte("queued"))
		Expect(werr).NotTo(HaveOccurred())

		var got []byte
		Eventually(readData, time.Second).Should(Receive(&got))
		Expect(string(got)).To(Equal("queued"))
	})

	It("rejects a second Start and a Stop before Start", func() {
		eng = stream.New(stream.Config{BindAddr: socket.Addr{Host: "127.0.0.1", Port: 0}}, nil)

		Expect(eng.Stop()).To(HaveOccurred())
		Expect(eng.Start()).To(Succeed())
		Expect(eng.Start()).To(HaveOccurred())
	})
})
