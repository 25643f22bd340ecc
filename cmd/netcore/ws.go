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
	"github.com/spf13/cobra"

	"github.com/sabouaram/netcore/net/httpsrv"
	"github.com/sabouaram/netcore/net/socket"
	"github.com/sabouaram/netcore/net/ws"
)

// newWSEchoCommand runs an HTTP server whose single route upgrades to a
// WebSocket connection and echoes back every text/binary message it
// receives.
func newWSEchoCommand() *cobra.Command {
	var (
		listen         string
		workers        int
		verbose        bool
		maxMessageSize int
	)

	cmd := &cobra.Command{
		Use:   "ws-echo",
		Short: "Run a WebSocket echo server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWSEcho(listen, workers, verbose, maxMessageSize)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:8081", "address to bind")
	cmd.Flags().IntVar(&workers, "workers", 2, "worker pool size (0 = direct mode)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	cmd.Flags().IntVar(&maxMessageSize, "max-message-size", 0, "assembled message cap in bytes (0 = default 64 KiB)")

	return cmd
}

func runWSEcho(listen string, workers int, verbose bool, maxMessageSize int) error {
	log := newLogger(verbose)

	addr, aerr := socket.ParseAddr(listen)
	if aerr != nil {
		return aerr
	}

	handler := &ws.Handler{
		MaxMessageSize: maxMessageSize,
		OnMessage: func(c *ws.Conn, msg *ws.Message) {
			if msg.Opcode == ws.OpText {
				_ = c.SendText(string(msg.Payload))
			} else {
				_ = c.SendBinary(msg.Payload)
			}
		},
		OnClose: func(c *ws.Conn) {
			log.Debug("connection closed: %s", nil, c.Socket().RemoteAddr().String())
		},
	}

	router := httpsrv.NewRouter()
	router.Add("/ws", ws.NewAcceptHandler())

	upgrade := httpsrv.NewUpgradeDispatcher()
	upgrade.Register("websocket", ws.NewUpgradeHandler(handler))

	srv, serr := httpsrv.New(httpsrv.Config{
		BindAddr:      addr,
		WorkerThreads: workers,
		ServerName:    "netcore",
	}, router, upgrade, log)
	if serr != nil {
		return serr
	}

	if err := srv.Start(); err != nil {
		return err
	}

	log.Info("WebSocket echo server listening at ws://%s/ws", nil, listen)

	waitForSignal()
	log.Info("stopping server...", nil)
	return httpsrv.Stop(srv)
}
