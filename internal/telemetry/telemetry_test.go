/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type recorder struct {
	mu      sync.Mutex
	events  [][]byte
	crashes [][]byte
	auth    []string
}

func (r *recorder) server(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, req *http.Request) {
		b, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.events = append(r.events, b)
		r.auth = append(r.auth, req.Header.Get("Authorization"))
		r.mu.Unlock()
	})
	mux.HandleFunc("/crash", func(w http.ResponseWriter, req *http.Request) {
		b, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.crashes = append(r.crashes, b)
		r.mu.Unlock()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func (r *recorder) waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		r.mu.Lock()
		ok := cond()
		r.mu.Unlock()
		if ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func TestEventCarriesNameRunAndToken(t *testing.T) {
	rec := &recorder{}
	srv := rec.server(t)
	c := New(Config{OptIn: true, EventsURL: srv.URL + "/events", Token: "s3cret", Timeout: time.Second})
	defer c.Close()

	c.Event("export", map[string]any{"format": "png", "name": "spoofed"})
	c.Flush(context.Background())
	rec.waitFor(t, func() bool { return len(rec.events) == 1 })

	var m map[string]any
	if err := json.Unmarshal(rec.events[0], &m); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if m["name"] != "export" || m["format"] != "png" {
		t.Fatalf("payload = %v", m)
	}
	if s, _ := m["run"].(string); s == "" {
		t.Fatalf("missing run id")
	}
	if rec.auth[0] != "Bearer s3cret" {
		t.Fatalf("auth header = %q", rec.auth[0])
	}
	deadline := time.Now().Add(time.Second)
	for {
		if sent, _ := c.Stats(); sent == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("sent counter not updated")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestUploadCrash(t *testing.T) {
	rec := &recorder{}
	srv := rec.server(t)
	c := New(Config{OptIn: true, CrashURL: srv.URL + "/crash"})
	defer c.Close()
	c.UploadCrash([]byte("STACK"))
	rec.waitFor(t, func() bool { return len(rec.crashes) == 1 && string(rec.crashes[0]) == "STACK" })
}

func TestDisabledClientSendsNothing(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits.Add(1) }))
	defer srv.Close()

	c := New(Config{OptIn: false, EventsURL: srv.URL, CrashURL: srv.URL})
	defer c.Close()
	if c.Enabled() {
		t.Fatalf("expected disabled client")
	}
	c.Event("ignored", nil)
	c.UploadCrash([]byte("ignored"))

	c2 := New(Config{OptIn: true, EventsURL: srv.URL})
	defer c2.Close()
	c2.Event("", nil)
	c2.Flush(nil)
	time.Sleep(50 * time.Millisecond)
	if hits.Load() != 0 {
		t.Fatalf("unexpected requests: %d", hits.Load())
	}
	var nilClient *Client
	nilClient.Event("x", nil)
	nilClient.UploadCrash(nil)
}

func TestSendFailureIsSilent(t *testing.T) {
	c := New(Config{OptIn: true, EventsURL: "http://127.0.0.1:1/events", Timeout: 50 * time.Millisecond, DebugLogging: true})
	defer c.Close()
	c.Event("err", map[string]any{"a": 1})
	c.Flush(context.Background())
	time.Sleep(100 * time.Millisecond)
	if sent, _ := c.Stats(); sent != 0 {
		t.Fatalf("failed post counted as sent")
	}
}

func TestFromEnvAndDefault(t *testing.T) {
	t.Setenv("CC_TELEMETRY_OPT_IN", "yes")
	t.Setenv("CC_TELEMETRY_URL", " http://127.0.0.1:0 ")
	t.Setenv("CC_TELEMETRY_TIMEOUT_MS", "100")
	cfg := FromEnv()
	if !cfg.OptIn || cfg.EventsURL != "http://127.0.0.1:0" || cfg.Timeout != 100*time.Millisecond {
		t.Fatalf("FromEnv = %+v", cfg)
	}
	c := New(cfg)
	SetDefault(c)
	defer SetDefault(nil)
	if Default() != c || !Default().Enabled() {
		t.Fatalf("default client not installed")
	}
}
