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

package certs

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"
)

// selfSignedPEM generates a minimal self-signed cert/key pair in PEM form,
// good enough to exercise AddPairPEM without touching the filesystem.
func selfSignedPEM(t *testing.T) (certPEM, keyPEM string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "netcore-test"},
		NotBefore:    time.Unix(0, 0),
		NotAfter:     time.Unix(0, 0).Add(100 * 365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("CreateCertificate: %v", err)
	}
	certPEM = string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("MarshalECPrivateKey: %v", err)
	}
	keyPEM = string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}))

	return certPEM, keyPEM
}

func TestAddPairPEMSucceedsAndPopulatesConfig(t *testing.T) {
	certPEM, keyPEM := selfSignedPEM(t)

	c := &Config{}
	if e := c.AddPairPEM(certPEM, keyPEM); e != nil {
		t.Fatalf("AddPairPEM: %v", e)
	}
	if got := c.LenCertificatePair(); got != 1 {
		t.Fatalf("LenCertificatePair() = %d, want 1", got)
	}
}

func TestAddPairPEMRejectsEmptyInput(t *testing.T) {
	c := &Config{}
	e := c.AddPairPEM("", "")
	if e == nil || !e.IsCode(ErrorFileEmpty) {
		t.Fatalf("AddPairPEM(empty) = %v, want ErrorFileEmpty", e)
	}
}

func TestAddPairPEMRejectsGarbage(t *testing.T) {
	c := &Config{}
	e := c.AddPairPEM("not a cert", "not a key")
	if e == nil || !e.IsCode(ErrorKeyPairLoad) {
		t.Fatalf("AddPairPEM(garbage) = %v, want ErrorKeyPairLoad", e)
	}
}

func TestAddPairFileRejectsEmptyPath(t *testing.T) {
	c := &Config{}
	e := c.AddPairFile("", "/some/key.pem")
	if e == nil || !e.IsCode(ErrorParamsEmpty) {
		t.Fatalf("AddPairFile(empty cert path) = %v, want ErrorParamsEmpty", e)
	}
}

func TestAddPairFileRejectsMissingFile(t *testing.T) {
	c := &Config{}
	e := c.AddPairFile("/nonexistent/cert.pem", "/nonexistent/key.pem")
	if e == nil || !e.IsCode(ErrorFileStat) {
		t.Fatalf("AddPairFile(missing) = %v, want ErrorFileStat", e)
	}
}

func TestAddRootCAFileRejectsMissingFile(t *testing.T) {
	c := &Config{}
	e := c.AddRootCAFile("/nonexistent/ca.pem")
	if e == nil || !e.IsCode(ErrorFileStat) {
		t.Fatalf("AddRootCAFile(missing) = %v, want ErrorFileStat", e)
	}
}

func TestTLSConfigAppliesServerNameOverride(t *testing.T) {
	c := &Config{ServerName: "default.example.com", NoVerify: true}

	cnf := c.TLSConfig("")
	if cnf.ServerName != "default.example.com" {
		t.Fatalf("ServerName = %q, want default.example.com", cnf.ServerName)
	}
	if !cnf.InsecureSkipVerify {
		t.Fatal("InsecureSkipVerify = false, want true when NoVerify is set")
	}

	cnf2 := c.TLSConfig("override.example.com")
	if cnf2.ServerName != "override.example.com" {
		t.Fatalf("ServerName = %q, want override.example.com", cnf2.ServerName)
	}
}

func TestDefaultCipherSuitesNonEmpty(t *testing.T) {
	if len(DefaultCipherSuites()) == 0 {
		t.Fatal("DefaultCipherSuites() is empty, want a conservative default list")
	}
}
