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
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sabouaram/netcore/pkg/logger"
)

// newRootCommand builds the netcore command tree: one subcommand per
// engine this module exposes, each taking its own --listen/--workers/
// --verbose flags rather than a single shared global config, since each
// example drives exactly one engine at a time.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "netcore",
		Short:         "Run one of netcore's network server engines",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newTCPServerCommand(),
		newHTTPRouterCommand(),
		newWSEchoCommand(),
		newNMEchoCommand(),
	)

	return root
}

// waitForSignal blocks until SIGINT/SIGTERM arrives, mirroring the
// original examples' vtm_signal_set_handler(VTM_SIG_INT, stop_server).
func waitForSignal() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
}

func newLogger(verbose bool) logger.Logger {
	l := logger.New()
	if verbose {
		l.SetLevel(logger.DebugLevel)
	}
	return l
}
