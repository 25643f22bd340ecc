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

// WSConfig layers WebSocket-specific caps on top of the HTTP server the
// upgrade route is registered against; HTTP carries the listener itself.
type WSConfig struct {
	// HTTP is the underlying HTTP server this WebSocket route upgrades
	// from.
	HTTP HTTPConfig `mapstructure:"http" yaml:"http" json:"http" validate:"required"`

	// Route is the upgrade path registered with the router, e.g. "/ws".
	Route string `mapstructure:"route" yaml:"route" json:"route" validate:"required"`

	// MaxMessageSize caps an assembled (possibly fragmented) data
	// message; 0 selects the parser's 64 KiB default.
	MaxMessageSize int `mapstructure:"max_message_size" yaml:"max_message_size" json:"max_message_size"`
}
