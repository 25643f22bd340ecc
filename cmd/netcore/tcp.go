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
	"sync"

	"github.com/spf13/cobra"

	"github.com/sabouaram/netcore/net/socket"
	"github.com/sabouaram/netcore/net/stream"
)

// newTCPServerCommand mirrors examples/net_tcp_server.c: a non-blocking
// stream server that logs connect/disconnect and echoes back whatever it
// reads from each client.
func newTCPServerCommand() *cobra.Command {
	var (
		listen  string
		workers int
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "tcp-server",
		Short: "Run a plain TCP echo server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTCPServer(listen, workers, verbose)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:5000", "address to bind")
	cmd.Flags().IntVar(&workers, "workers", 2, "worker pool size (0 = direct mode)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	return cmd
}

func runTCPServer(listen string, workers int, verbose bool) error {
	log := newLogger(verbose)

	addr, aerr := socket.ParseAddr(listen)
	if aerr != nil {
		return aerr
	}

	eng := stream.New(stream.Config{
		BindAddr:      addr,
		Backlog:       64,
		WorkerThreads: workers,
		Callbacks: stream.Callbacks{
			ServerReady: func(e *stream.Engine) {
				log.Info("TCP server listening at %s", nil, listen)
			},
			WorkerInit: func(id int) {
				log.Debug("worker %d started", nil, id)
			},
			WorkerEnd: func(id int) {
				log.Debug("worker %d finished", nil, id)
			},
			SockConnected: func(sck socket.Socket) {
				log.Info("client connected: %s", nil, sck.RemoteAddr().String())
			},
			SockDisconnected: func(sck socket.Socket) {
				log.Info("client disconnected: %s", nil, sck.RemoteAddr().String())
			},
			SockCanRead:  onTCPReadable,
			SockCanWrite: onTCPWritable,
		},
	}, log)

	if err := eng.Start(); err != nil {
		return err
	}

	waitForSignal()
	log.Info("stopping server...", nil)
	return eng.Stop()
}

// echoPending tracks a partially-written echo reply per connection,
// mirroring the original's malloc'd index/vtm_socket_set_usr_data dance
// with a plain mutex-guarded map instead of per-socket user data.
var (
	echoPendingMu sync.Mutex
	echoPending   = map[int][]byte{}
)

func onTCPReadable(sck socket.Socket) {
	buf := make([]byte, 4096)
	n, err := sck.Recv(buf)
	if err != nil {
		return
	}
	if n == 0 {
		return
	}

	reply := append([]byte(nil), buf[:n]...)
	writeEcho(sck, reply)
}

func onTCPWritable(sck socket.Socket) {
	echoPendingMu.Lock()
	pending, ok := echoPending[sck.Fd()]
	if ok {
		delete(echoPending, sck.Fd())
	}
	echoPendingMu.Unlock()

	if ok {
		writeEcho(sck, pending)
	}
}

func writeEcho(sck socket.Socket, p []byte) {
	n, err := sck.Send(p)
	if err != nil {
		echoPendingMu.Lock()
		echoPending[sck.Fd()] = p
		echoPendingMu.Unlock()
		return
	}
	if n < len(p) {
		echoPendingMu.Lock()
		echoPending[sck.Fd()] = p[n:]
		echoPendingMu.Unlock()
	}
}
