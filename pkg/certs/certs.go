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

// Package certs loads certificate/key pairs and CA bundles into a
// *tls.Config, the one collaborator the Socket abstraction (net/socket)
// needs for its TLS variant: an external collaborator behind the Socket
// interface, adapted from the teacher's certificates package.
package certs

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"os"
	"strings"

	liberr "github.com/sabouaram/netcore/pkg/errors"
)

const (
	ErrorParamsEmpty liberr.CodeError = iota + liberr.MinPkgCerts
	ErrorFileStat
	ErrorFileRead
	ErrorFileEmpty
	ErrorKeyPairLoad
)

func init() {
	liberr.RegisterIdFctMessage(ErrorParamsEmpty, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorParamsEmpty:
		return "given certificate parameter is empty"
	case ErrorFileStat:
		return "cannot stat certificate file"
	case ErrorFileRead:
		return "cannot read certificate file"
	case ErrorFileEmpty:
		return "certificate file is empty"
	case ErrorKeyPairLoad:
		return "cannot load certificate/key pair"
	}
	return ""
}

// Config is the minimal certificate bag the Socket TLS variant consumes:
// zero or more certificate pairs plus an optional CA/client-auth policy.
type Config struct {
	Certificates []tls.Certificate
	ClientCA     *x509.CertPool
	ClientAuth   tls.ClientAuthType
	RootCA       *x509.CertPool
	MinVersion   uint16
	CipherSuites []uint16
	ServerName   string
	NoVerify     bool
}

func checkFile(path string) liberr.Error {
	if path == "" {
		return ErrorParamsEmpty.Error(nil)
	}
	if _, e := os.Stat(path); e != nil {
		return ErrorFileStat.ErrorParent(e)
	}
	return nil
}

// AddPairFile loads a certificate/private-key PEM file pair, mirroring
// certificates/certs.AddCertificatePairFile.
func (c *Config) AddPairFile(certFile, keyFile string) liberr.Error {
	if e := checkFile(certFile); e != nil {
		return e
	}
	if e := checkFile(keyFile); e != nil {
		return e
	}

	pair, e := tls.LoadX509KeyPair(certFile, keyFile)
	if e != nil {
		return ErrorKeyPairLoad.ErrorParent(e)
	}

	c.Certificates = append(c.Certificates, pair)
	return nil
}

// AddPairPEM loads a certificate/private-key pair already held in memory.
func (c *Config) AddPairPEM(certPEM, keyPEM string) liberr.Error {
	cb := bytes.TrimSpace([]byte(certPEM))
	kb := bytes.TrimSpace([]byte(keyPEM))

	if len(cb) == 0 || len(kb) == 0 {
		return ErrorFileEmpty.Error(nil)
	}

	pair, e := tls.X509KeyPair(cb, kb)
	if e != nil {
		return ErrorKeyPairLoad.ErrorParent(e)
	}

	c.Certificates = append(c.Certificates, pair)
	return nil
}

// AddRootCAFile appends a PEM CA bundle file to the client verification
// pool, mirroring certificates/config.AddRootCAFile.
func (c *Config) AddRootCAFile(path string) liberr.Error {
	if e := checkFile(path); e != nil {
		return e
	}

	b, e := os.ReadFile(path)
	if e != nil {
		return ErrorFileRead.ErrorParent(e)
	}

	if c.RootCA == nil {
		pool, e2 := x509.SystemCertPool()
		if e2 != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		c.RootCA = pool
	}

	if !c.RootCA.AppendCertsFromPEM(b) {
		return ErrorKeyPairLoad.Error(nil)
	}
	return nil
}

// TLSConfig materializes a *tls.Config for the given role. serverName, when
// non-empty, pins SNI/verification for the client role.
func (c *Config) TLSConfig(serverName string) *tls.Config {
	/* #nosec -- NoVerify is an explicit opt-in client option, see net/socket. */
	cnf := &tls.Config{
		InsecureSkipVerify: c.NoVerify,
		Certificates:       c.Certificates,
		RootCAs:            c.RootCA,
		ClientCAs:          c.ClientCA,
		ClientAuth:         c.ClientAuth,
	}

	if serverName != "" {
		cnf.ServerName = serverName
	} else if c.ServerName != "" {
		cnf.ServerName = c.ServerName
	}

	if c.MinVersion != 0 {
		cnf.MinVersion = c.MinVersion
	}
	if len(c.CipherSuites) > 0 {
		cnf.CipherSuites = c.CipherSuites
	}

	return cnf
}

// LenCertificatePair reports how many certificate pairs are configured.
func (c *Config) LenCertificatePair() int {
	return len(c.Certificates)
}

// DefaultCipherSuites is the teacher-style conservative default cipher
// list, provided so callers don't have to hand-pick suites themselves.
func DefaultCipherSuites() []uint16 {
	return []uint16{
		tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
		tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
		tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	}
}

func trimPEM(b []byte) []byte {
	s := strings.TrimSpace(string(b))
	return []byte(s)
}
