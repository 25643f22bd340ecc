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
	"testing"

	liberr "github.com/sabouaram/netcore/pkg/errors"

	"github.com/sabouaram/netcore/net/nm"
	"github.com/sabouaram/netcore/net/stream"
)

func TestTLSConfigDisabledBuildsNothing(t *testing.T) {
	c := TLSConfig{Enabled: false}
	tlsCfg, err := c.Build()
	if err != nil {
		t.Fatalf("Build() error = %v, want nil", err)
	}
	if tlsCfg != nil {
		t.Fatalf("Build() = %v, want nil when disabled", tlsCfg)
	}
}

func TestTLSConfigEnabledMissingFileErrors(t *testing.T) {
	c := TLSConfig{
		Enabled: true,
		Pairs: []TLSPair{
			{CertFile: "/nonexistent/cert.pem", KeyFile: "/nonexistent/key.pem"},
		},
	}
	_, err := c.Build()
	if err == nil {
		t.Fatal("Build() with a missing cert file = nil error, want ErrorTLSBuild")
	}
	ce, ok := err.(liberr.Error)
	if !ok || !ce.IsCode(ErrorTLSBuild) {
		t.Fatalf("Build() error = %v, want ErrorTLSBuild", err)
	}
}

func TestStreamConfigEngineWiresFields(t *testing.T) {
	sc := StreamConfig{
		Name:                   "test",
		Listen:                 ListenConfig{Host: "127.0.0.1", Port: 9001},
		Backlog:                32,
		WorkerThreads:          4,
		MaxEventsPerIteration:  64,
		QueueCapacityPerWorker: 128,
	}

	cb := stream.Callbacks{}
	eng, err := sc.Engine(cb)
	if err != nil {
		t.Fatalf("Engine() error = %v, want nil", err)
	}

	if eng.BindAddr.Host != "127.0.0.1" || eng.BindAddr.Port != 9001 {
		t.Fatalf("BindAddr = %+v, want 127.0.0.1:9001", eng.BindAddr)
	}
	if eng.Backlog != 32 {
		t.Fatalf("Backlog = %d, want 32", eng.Backlog)
	}
	if eng.WorkerThreads != 4 {
		t.Fatalf("WorkerThreads = %d, want 4", eng.WorkerThreads)
	}
	if eng.TLS != nil {
		t.Fatalf("TLS = %v, want nil when TLSConfig is disabled", eng.TLS)
	}
}

func TestHTTPConfigServerWiresFieldsAndDefaultsNameWhenServerNameEmpty(t *testing.T) {
	hc := HTTPConfig{
		Name:          "api",
		Listen:        ListenConfig{Host: "127.0.0.1", Port: 8080},
		WorkerThreads: 2,
		MaxHeaderSize: 4096,
		MaxBodySize:   1 << 20,
	}

	cfg, err := hc.Server()
	if err != nil {
		t.Fatalf("Server() error = %v, want nil", err)
	}
	if cfg.BindAddr.Host != "127.0.0.1" || cfg.BindAddr.Port != 8080 {
		t.Fatalf("BindAddr = %+v, want 127.0.0.1:8080", cfg.BindAddr)
	}
	if cfg.WorkerThreads != 2 {
		t.Fatalf("WorkerThreads = %d, want 2", cfg.WorkerThreads)
	}
	if cfg.ServerName != "api" {
		t.Fatalf("ServerName = %q, want fallback to Name %q", cfg.ServerName, "api")
	}
	if cfg.MaxHeaderSize != 4096 || cfg.MaxBodySize != 1<<20 {
		t.Fatalf("MaxHeaderSize/MaxBodySize = %d/%d, want 4096/%d", cfg.MaxHeaderSize, cfg.MaxBodySize, 1<<20)
	}
	if cfg.TLS != nil {
		t.Fatalf("TLS = %v, want nil when TLSConfig is disabled", cfg.TLS)
	}
}

func TestHTTPConfigServerPrefersExplicitServerName(t *testing.T) {
	hc := HTTPConfig{
		Name:       "api",
		Listen:     ListenConfig{Host: "127.0.0.1", Port: 8080},
		ServerName: "my-server",
	}
	cfg, err := hc.Server()
	if err != nil {
		t.Fatalf("Server() error = %v, want nil", err)
	}
	if cfg.ServerName != "my-server" {
		t.Fatalf("ServerName = %q, want explicit %q", cfg.ServerName, "my-server")
	}
}

func TestHTTPConfigServerPropagatesTLSBuildFailure(t *testing.T) {
	hc := HTTPConfig{
		Listen: ListenConfig{Host: "127.0.0.1", Port: 8443},
		TLS: TLSConfig{
			Enabled: true,
			Pairs:   []TLSPair{{CertFile: "/nonexistent/cert.pem", KeyFile: "/nonexistent/key.pem"}},
		},
	}
	_, err := hc.Server()
	if err == nil {
		t.Fatal("Server() error = nil, want the TLS build failure to propagate")
	}
}

func TestNMConfigServerWiresFieldsAndCallbacks(t *testing.T) {
	nc := NMConfig{
		Name:          "nm-stream",
		Listen:        ListenConfig{Host: "127.0.0.1", Port: 9100},
		WorkerThreads: 3,
	}

	called := false
	cb := nm.Callbacks{ServerReady: func(s *nm.Server) { called = true }}

	cfg, err := nc.Server(cb)
	if err != nil {
		t.Fatalf("Server() error = %v, want nil", err)
	}
	if cfg.BindAddr.Host != "127.0.0.1" || cfg.BindAddr.Port != 9100 {
		t.Fatalf("BindAddr = %+v, want 127.0.0.1:9100", cfg.BindAddr)
	}
	if cfg.WorkerThreads != 3 {
		t.Fatalf("WorkerThreads = %d, want 3", cfg.WorkerThreads)
	}
	if cfg.Callbacks.ServerReady == nil {
		t.Fatal("Callbacks.ServerReady = nil, want the callback passed in")
	}
	cfg.Callbacks.ServerReady(nil)
	if !called {
		t.Fatal("the wired ServerReady callback was not the one passed to Server()")
	}
}

func TestNMConfigServerPropagatesTLSBuildFailure(t *testing.T) {
	nc := NMConfig{
		Listen: ListenConfig{Host: "127.0.0.1", Port: 9100},
		TLS: TLSConfig{
			Enabled: true,
			Pairs:   []TLSPair{{CertFile: "/nonexistent/cert.pem", KeyFile: "/nonexistent/key.pem"}},
		},
	}
	_, err := nc.Server(nm.Callbacks{})
	if err == nil {
		t.Fatal("Server() error = nil, want the TLS build failure to propagate")
	}
}

func TestNMDgramConfigDgramServerWiresFields(t *testing.T) {
	dc := NMDgramConfig{
		Name:          "nm-dgram",
		Listen:        ListenConfig{Host: "127.0.0.1", Port: 9200},
		WorkerThreads: 5,
		QueueLimit:    64,
	}

	cfg := dc.DgramServer()
	if cfg.BindAddr.Host != "127.0.0.1" || cfg.BindAddr.Port != 9200 {
		t.Fatalf("BindAddr = %+v, want 127.0.0.1:9200", cfg.BindAddr)
	}
	if cfg.WorkerThreads != 5 {
		t.Fatalf("WorkerThreads = %d, want 5", cfg.WorkerThreads)
	}
	if cfg.QueueLimit != 64 {
		t.Fatalf("QueueLimit = %d, want 64", cfg.QueueLimit)
	}
}

func TestRootValidateAccumulatesEveryFailure(t *testing.T) {
	r := Root{
		Stream: []StreamConfig{
			{Listen: ListenConfig{Port: 0}}, // missing required port
		},
		HTTP: []HTTPConfig{
			{Listen: ListenConfig{Port: 0}}, // missing required port
		},
	}

	err := r.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want accumulated field errors")
	}
	if !err.HasParent() {
		t.Fatal("Validate() error has no parents, want one per failed struct")
	}
	if got := len(err.GetParent(false)); got < 2 {
		t.Fatalf("Validate() parent count = %d, want at least 2 (one per invalid config)", got)
	}
}

func TestRootValidatePassesOnWellFormedConfig(t *testing.T) {
	r := Root{
		Stream: []StreamConfig{
			{Listen: ListenConfig{Host: "0.0.0.0", Port: 9000}},
		},
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil for a well-formed config", err)
	}
}
