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
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	liberr "github.com/sabouaram/netcore/pkg/errors"
)

// Root is the top-level decoded configuration document: zero or more
// instances of each transport, since a single netcore process can run
// several listeners side by side (e.g. one TCP echo stream, one HTTP+WS
// server, one NM stream server, one NM dgram server).
type Root struct {
	Stream  []StreamConfig  `mapstructure:"stream" yaml:"stream" json:"stream"`
	HTTP    []HTTPConfig    `mapstructure:"http" yaml:"http" json:"http"`
	WS      []WSConfig      `mapstructure:"ws" yaml:"ws" json:"ws"`
	NM      []NMConfig      `mapstructure:"nm" yaml:"nm" json:"nm"`
	NMDgram []NMDgramConfig `mapstructure:"nm_dgram" yaml:"nm_dgram" json:"nm_dgram"`
}

// Load reads path (any format viper supports by extension - yaml, json,
// toml) plus NETCORE_-prefixed environment overrides, decodes it into a
// Root and validates every entry. path may be empty to read purely from
// environment/defaults.
func Load(path string) (*Root, liberr.Error) {
	v := viper.New()
	v.SetEnvPrefix("NETCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, ErrorFileRead.ErrorParent(err)
		}
	}

	var r Root
	if err := v.Unmarshal(&r); err != nil {
		return nil, ErrorDecode.ErrorParent(err)
	}

	if verr := r.Validate(); verr != nil {
		return nil, verr
	}

	return &r, nil
}

// Validate runs go-playground/validator over every configured instance,
// collecting every field failure rather than stopping at the first,
// mirroring httpserver.PoolServerConfig.Validate's accumulate-then-report
// shape.
func (r Root) Validate() liberr.Error {
	val := validator.New()
	out := ErrorValidate.Error(nil)

	check := func(kind string, idx int, v interface{}) {
		err := val.Struct(v)
		if err == nil {
			return
		}
		if e, ok := err.(*validator.InvalidValidationError); ok {
			out.Add(e)
			return
		}
		for _, fe := range err.(validator.ValidationErrors) {
			//nolint goerr113
			out.Add(fmt.Errorf("%s[%d]: field '%s' failed constraint '%s'", kind, idx, fe.Field(), fe.ActualTag()))
		}
	}

	for i, c := range r.Stream {
		check("stream", i, c)
	}
	for i, c := range r.HTTP {
		check("http", i, c)
	}
	for i, c := range r.WS {
		check("ws", i, c)
	}
	for i, c := range r.NM {
		check("nm", i, c)
	}
	for i, c := range r.NMDgram {
		check("nm_dgram", i, c)
	}

	if !out.HasParent() {
		return nil
	}
	return out
}
