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
	"github.com/sabouaram/netcore/net/nm"
)

// NMConfig is the on-disk shape of one net/nm.Server (the NM stream
// transport).
type NMConfig struct {
	Name          string       `mapstructure:"name" yaml:"name" json:"name"`
	Listen        ListenConfig `mapstructure:"listen" yaml:"listen" json:"listen" validate:"required"`
	WorkerThreads int          `mapstructure:"worker_threads" yaml:"worker_threads" json:"worker_threads" validate:"gte=0"`
	TLS           TLSConfig    `mapstructure:"tls" yaml:"tls" json:"tls"`
}

// Server builds an nm.Config from this configuration, wiring cb for every
// connection/message callback.
func (c NMConfig) Server(cb nm.Callbacks) (nm.Config, error) {
	tlsCfg, err := c.TLS.Build()
	if err != nil {
		return nm.Config{}, err
	}

	return nm.Config{
		BindAddr:      c.Listen.addr(),
		TLS:           tlsCfg,
		WorkerThreads: c.WorkerThreads,
		Callbacks:     cb,
	}, nil
}

// NMDgramConfig is the on-disk shape of one net/nm.DgramServer (the NM
// datagram transport).
type NMDgramConfig struct {
	Name          string       `mapstructure:"name" yaml:"name" json:"name"`
	Listen        ListenConfig `mapstructure:"listen" yaml:"listen" json:"listen" validate:"required"`
	WorkerThreads int          `mapstructure:"worker_threads" yaml:"worker_threads" json:"worker_threads" validate:"gte=0"`
	QueueLimit    int          `mapstructure:"queue_limit" yaml:"queue_limit" json:"queue_limit"`
}

// DgramServer builds an nm.DgramConfig from this configuration.
func (c NMDgramConfig) DgramServer() nm.DgramConfig {
	return nm.DgramConfig{
		BindAddr:      c.Listen.addr(),
		WorkerThreads: c.WorkerThreads,
		QueueLimit:    c.QueueLimit,
	}
}
