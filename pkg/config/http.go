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
	"github.com/sabouaram/netcore/net/httpsrv"
)

// HTTPConfig is the on-disk shape of one net/httpsrv.Server, modeled on
// httpserver.ServerConfig's read/write/header-size fields.
type HTTPConfig struct {
	Name   string       `mapstructure:"name" yaml:"name" json:"name"`
	Listen ListenConfig `mapstructure:"listen" yaml:"listen" json:"listen" validate:"required"`

	WorkerThreads int `mapstructure:"worker_threads" yaml:"worker_threads" json:"worker_threads" validate:"gte=0"`

	// ServerName is sent back as the response Server: header.
	ServerName string `mapstructure:"server_name" yaml:"server_name" json:"server_name"`

	// MaxHeaderSize caps the request line + header block; 0 selects the
	// parser default.
	MaxHeaderSize int `mapstructure:"max_header_size" yaml:"max_header_size" json:"max_header_size"`

	// MaxBodySize caps a request body read into memory; 0 selects the
	// parser default.
	MaxBodySize int `mapstructure:"max_body_size" yaml:"max_body_size" json:"max_body_size"`

	// ReadBufSize sizes the per-connection read scratch buffer; 0
	// selects the server default.
	ReadBufSize int `mapstructure:"read_buf_size" yaml:"read_buf_size" json:"read_buf_size"`

	TLS TLSConfig `mapstructure:"tls" yaml:"tls" json:"tls"`
}

// Server builds an httpsrv.Config from this configuration.
func (c HTTPConfig) Server() (httpsrv.Config, error) {
	tlsCfg, err := c.TLS.Build()
	if err != nil {
		return httpsrv.Config{}, err
	}

	name := c.ServerName
	if name == "" {
		name = c.Name
	}

	return httpsrv.Config{
		BindAddr:      c.Listen.addr(),
		TLS:           tlsCfg,
		WorkerThreads: c.WorkerThreads,
		ServerName:    name,
		MaxHeaderSize: c.MaxHeaderSize,
		MaxBodySize:   c.MaxBodySize,
		ReadBufSize:   c.ReadBufSize,
	}, nil
}
