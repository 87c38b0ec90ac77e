/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"collagecreator/internal/export"

	"github.com/zalando/go-keyring"
)

type memTokens struct{ m map[string]string }

func (s *memTokens) Get(service, key string) (string, error) {
	v, ok := s.m[service+"/"+key]
	if !ok {
		return "", keyring.ErrNotFound
	}
	return v, nil
}
func (s *memTokens) Set(service, key, value string) error {
	s.m[service+"/"+key] = value
	return nil
}
func (s *memTokens) Delete(service, key string) error {
	delete(s.m, service+"/"+key)
	return nil
}

func stubTokens(t *testing.T) *memTokens {
	ts := &memTokens{m: map[string]string{}}
	prev := SetTokenStore(ts)
	t.Cleanup(func() { SetTokenStore(prev) })
	return ts
}

func writeConfig(t *testing.T, body string) string {
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	stubTokens(t)
	cfg, tok, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil || tok != "" {
		t.Fatalf("LoadFrom = %v, %q", err, tok)
	}
	if cfg.Canvas.Width != 500 || cfg.Export.Format != "png" || cfg.Logging.Level != "info" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadMergesFileSections(t *testing.T) {
	stubTokens(t)
	p := writeConfig(t, `
config_version: 1
canvas:
  width: 800
  background: "#ffffff"
export:
  dir: out
  format: PDF
fonts:
  roboto: /fonts/Roboto.ttf
logging:
  level: debug
`)
	cfg, _, err := LoadFrom(p)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Canvas.Width != 800 || cfg.Canvas.Height != 500 {
		t.Fatalf("canvas = %+v", cfg.Canvas)
	}
	if cfg.Export.Dir != "out" || cfg.ExportOptions().Format != export.FormatPDF {
		t.Fatalf("export = %+v", cfg.Export)
	}
	if cfg.Fonts["roboto"] != "/fonts/Roboto.ttf" || cfg.Logging.Level != "debug" {
		t.Fatalf("fonts/logging not merged: %+v %+v", cfg.Fonts, cfg.Logging)
	}
	if a := cfg.Area(); a.Width != 800 || a.Background != "#ffffff" {
		t.Fatalf("area = %+v", a)
	}
}

func TestInvalidFileIsIgnored(t *testing.T) {
	stubTokens(t)
	p := writeConfig(t, "canvas:\n  width: -3\nexport:\n  format: gif\n")
	if err := Validate([]byte("canvas:\n  width: -3\n")); err == nil {
		t.Fatalf("expected schema error")
	}
	cfg, _, err := LoadFrom(p)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Canvas.Width != 500 || cfg.Export.Format != "png" {
		t.Fatalf("invalid file was merged: %+v", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	stubTokens(t)
	t.Setenv(EnvTelemetryOptIn, "on")
	t.Setenv(EnvExportFormat, "JPG")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	cfg, _, _ := LoadFrom(filepath.Join(t.TempDir(), "none.yaml"))
	if !cfg.General.TelemetryOptIn || cfg.ExportOptions().Format != export.FormatJPEG {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if o := cfg.LogOptions(); o.Format != "json" || !o.AddSource {
		t.Fatalf("log options = %+v", o)
	}
	if env, ok := EnvOverrideFor("export.format"); !ok || env != EnvExportFormat {
		t.Fatalf("EnvOverrideFor = %q, %v", env, ok)
	}
	if _, ok := EnvOverrideFor("canvas.width"); ok {
		t.Fatalf("canvas.width has no override")
	}
}

func TestSaveRoundTripsAndStoresToken(t *testing.T) {
	ts := stubTokens(t)
	p := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Defaults()
	cfg.Export.SettleMs = 250
	cfg.Telemetry.EventsURL = "https://example.test/e"
	if err := SaveTo(p, cfg, "tok"); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, tok, err := LoadFrom(p)
	if err != nil || tok != "tok" || ts.m[keyringService+"/"+keyringToken] != "tok" {
		t.Fatalf("LoadFrom = %v, token %q", err, tok)
	}
	if got.ExportOptions().Settle != 250*time.Millisecond {
		t.Fatalf("settle = %v", got.ExportOptions().Settle)
	}
	tc := got.TelemetryConfig(tok)
	if tc.Token != "tok" || tc.EventsURL != "https://example.test/e" || tc.Timeout != 1500*time.Millisecond {
		t.Fatalf("telemetry config = %+v", tc)
	}
}

func TestConfigPathEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/x.yaml")
	if p, err := ConfigPath(); err != nil || p != "/tmp/x.yaml" {
		t.Fatalf("ConfigPath = %q, %v", p, err)
	}
}

func TestExportPresetFixesFormatAndQuality(t *testing.T) {
	stubTokens(t)
	p := writeConfig(t, "export:\n  preset: photo\n  format: pdf\n  jpeg_quality: 50\n")
	cfg, _, err := LoadFrom(p)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	o := cfg.ExportOptions()
	if o.Format != export.FormatJPEG || o.JPEGQuality != 95 {
		t.Fatalf("preset not applied: %+v", o)
	}
	if err := Validate([]byte("export:\n  preset: poster\n")); err == nil {
		t.Fatalf("unknown preset accepted")
	}
	cfg.Export.Preset = "poster"
	if o := cfg.ExportOptions(); o.Format != export.FormatPDF || o.JPEGQuality != 50 {
		t.Fatalf("unknown preset should fall back to the format keys: %+v", o)
	}
}
