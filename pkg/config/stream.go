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

package config

import (
	"github.com/sabouaram/netcore/net/socket"
	"github.com/sabouaram/netcore/net/stream"
)

// ListenConfig is the address/bind fragment shared by every listening
// server config (stream, HTTP, NM).
type ListenConfig struct {
	// Host is the local address (ip, hostname) to bind; empty means all
	// interfaces.
	Host string `mapstructure:"host" yaml:"host" json:"host"`

	// Port is the local TCP/UDP port to bind.
	Port uint16 `mapstructure:"port" yaml:"port" json:"port" validate:"required"`
}

func (l ListenConfig) addr() socket.Addr {
	return socket.Addr{Host: l.Host, Port: l.Port}
}

// StreamConfig is the on-disk shape of one net/stream.Engine, modeled on
// httpserver.ServerConfig's listen/worker/TLS fields.
type StreamConfig struct {
	// Name identifies this engine among siblings in a multi-listener
	// deployment; purely descriptive.
	Name string `mapstructure:"name" yaml:"name" json:"name"`

	Listen ListenConfig `mapstructure:"listen" yaml:"listen" json:"listen" validate:"required"`

	// Backlog is copied into stream.Config.Backlog; the stream engine does
	// not apply it, and its listener always uses the runtime's default
	// listen backlog.
	Backlog int `mapstructure:"backlog" yaml:"backlog" json:"backlog"`

	// WorkerThreads selects direct mode (0) or a fixed worker pool
	// (>=1) for connection event dispatch.
	WorkerThreads int `mapstructure:"worker_threads" yaml:"worker_threads" json:"worker_threads" validate:"gte=0"`

	// MaxEventsPerIteration is copied into stream.Config; the stream engine
	// does not apply it and handles every event one poller wait returns.
	MaxEventsPerIteration int `mapstructure:"max_events_per_iteration" yaml:"max_events_per_iteration" json:"max_events_per_iteration"`

	// QueueCapacityPerWorker caps the per-worker event backlog in queued
	// mode; 0 selects the engine default.
	QueueCapacityPerWorker int `mapstructure:"queue_capacity_per_worker" yaml:"queue_capacity_per_worker" json:"queue_capacity_per_worker"`

	TLS TLSConfig `mapstructure:"tls" yaml:"tls" json:"tls"`
}

// Engine builds a stream.Config from this configuration, wiring cb for
// every event callback. TLS is resolved via Build and attached only when
// enabled.
func (c StreamConfig) Engine(cb stream.Callbacks) (stream.Config, error) {
	tlsCfg, err := c.TLS.Build()
	if err != nil {
		return stream.Config{}, err
	}

	return stream.Config{
		BindAddr:               c.Listen.addr(),
		Backlog:                c.Backlog,
		MaxEventsPerIteration:  c.MaxEventsPerIteration,
		WorkerThreads:          c.WorkerThreads,
		QueueCapacityPerWorker: c.QueueCapacityPerWorker,
		TLS:                    tlsCfg,
		Callbacks:              cb,
	}, nil
}
