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
	"crypto/tls"

	"github.com/sabouaram/netcore/pkg/certs"
)

// TLSConfig is the on-disk description of a TLS identity: zero or more
// certificate/key pairs plus an optional CA bundle for client-auth. TLS
// stays disabled for the owning server unless Enabled is set.
type TLSConfig struct {
	// Enabled gates whether Build produces a usable *certs.Config at all;
	// a server with Enabled false runs in plain mode regardless of the
	// other fields being populated.
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`

	// Pairs lists one or more certificate/private-key PEM file paths.
	Pairs []TLSPair `mapstructure:"pairs" yaml:"pairs" json:"pairs" validate:"required_if=Enabled true,dive"`

	// ClientCAFile, when set, enables client certificate verification
	// against this CA bundle.
	ClientCAFile string `mapstructure:"client_ca_file" yaml:"client_ca_file" json:"client_ca_file"`

	// RequireClientCert toggles tls.RequireAndVerifyClientCert versus
	// tls.VerifyClientCertIfGiven when ClientCAFile is set.
	RequireClientCert bool `mapstructure:"require_client_cert" yaml:"require_client_cert" json:"require_client_cert"`

	// ServerName overrides SNI/verification hostname; mostly relevant to
	// the httpcli/ws/nm client configs.
	ServerName string `mapstructure:"server_name" yaml:"server_name" json:"server_name"`

	// NoVerify disables certificate verification - development only.
	NoVerify bool `mapstructure:"no_verify" yaml:"no_verify" json:"no_verify"`
}

// TLSPair is one certificate/private-key PEM file pair.
type TLSPair struct {
	CertFile string `mapstructure:"cert_file" yaml:"cert_file" json:"cert_file" validate:"required"`
	KeyFile  string `mapstructure:"key_file" yaml:"key_file" json:"key_file" validate:"required"`
}

// Build materializes a *certs.Config by loading every configured file,
// returning nil, nil when TLS is disabled.
func (t TLSConfig) Build() (*certs.Config, error) {
	if !t.Enabled {
		return nil, nil
	}

	c := &certs.Config{
		ServerName: t.ServerName,
		NoVerify:   t.NoVerify,
	}

	for _, pair := range t.Pairs {
		if err := c.AddPairFile(pair.CertFile, pair.KeyFile); err != nil {
			return nil, ErrorTLSBuild.ErrorParent(err)
		}
	}

	if t.ClientCAFile != "" {
		if err := c.AddRootCAFile(t.ClientCAFile); err != nil {
			return nil, ErrorTLSBuild.ErrorParent(err)
		}
		c.ClientCA = c.RootCA
		if t.RequireClientCert {
			c.ClientAuth = tls.RequireAndVerifyClientCert
		} else {
			c.ClientAuth = tls.VerifyClientCertIfGiven
		}
	}

	if len(c.CipherSuites) == 0 {
		c.CipherSuites = certs.DefaultCipherSuites()
	}

	return c, nil
}
