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

	"github.com/sabouaram/netcore/net/nm"
	"github.com/sabouaram/netcore/net/socket"
	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// newNMEchoCommand runs either the NM stream server or the NM dgram
// server (selected by --proto), echoing every received message back to
// its sender - the Go counterpart of the original's vtm_nm_stream_srv /
// vtm_nm_dgram_srv driver programs.
func newNMEchoCommand() *cobra.Command {
	var (
		listen  string
		workers int
		verbose bool
		proto   string
	)

	cmd := &cobra.Command{
		Use:   "nm-echo",
		Short: "Run an NM protocol echo server (stream or dgram)",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch proto {
			case "stream":
				return runNMStreamEcho(listen, workers, verbose)
			case "dgram":
				return runNMDgramEcho(listen, workers, verbose)
			default:
				return fmt.Errorf("invalid --proto %q (expected \"stream\" or \"dgram\")", proto)
			}
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:9000", "address to bind")
	cmd.Flags().IntVar(&workers, "workers", 2, "worker pool size (0 = direct mode)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	cmd.Flags().StringVar(&proto, "proto", "stream", "transport to use: stream or dgram")

	return cmd
}

func runNMStreamEcho(listen string, workers int, verbose bool) error {
	log := newLogger(verbose)

	addr, aerr := socket.ParseAddr(listen)
	if aerr != nil {
		return aerr
	}

	srv := nm.New(nm.Config{
		BindAddr:      addr,
		WorkerThreads: workers,
		Callbacks: nm.Callbacks{
			ServerReady: func(s *nm.Server) {
				log.Info("NM stream server listening at %s", nil, listen)
			},
			ClientConnect: func(c *nm.Conn) {
				log.Info("client connected: %s", nil, c.Socket().RemoteAddr().String())
			},
			ClientDisconnect: func(c *nm.Conn) {
				log.Info("client disconnected", nil)
			},
			ClientMsg: func(c *nm.Conn, msg *nm.Message) {
				_ = c.Send(msg)
			},
		},
	}, log)

	if err := srv.Start(); err != nil {
		return err
	}

	waitForSignal()
	log.Info("stopping server...", nil)
	return srv.Stop()
}

func runNMDgramEcho(listen string, workers int, verbose bool) error {
	log := newLogger(verbose)

	addr, aerr := socket.ParseAddr(listen)
	if aerr != nil {
		return aerr
	}

	srv := nm.NewDgramServer(nm.DgramConfig{
		BindAddr:      addr,
		WorkerThreads: workers,
	}, nm.DgramCallbacks{
		ServerReady: func(s *nm.DgramServer) {
			log.Info("NM dgram server listening at %s", nil, listen)
		},
		MsgRecv: func(s *nm.DgramServer, msg *nm.Message, from socket.Addr) {
			_ = s.Send(msg, from)
		},
		OnError: func(err liberr.Error) {
			log.Warning("dgram error", err)
		},
	}, log)

	if err := srv.Start(); err != nil {
		return err
	}

	waitForSignal()
	log.Info("stopping server...", nil)
	return srv.Stop()
}
