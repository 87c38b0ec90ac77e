/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config loads the per-user YAML configuration. The file is checked
// against an embedded JSON schema; environment variables override it at
// runtime and the telemetry token lives in the OS keyring.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"collagecreator/internal/domain"
	"collagecreator/internal/export"
	applog "collagecreator/internal/log"
	"collagecreator/internal/telemetry"
	"collagecreator/internal/view"

	"github.com/xeipuuv/gojsonschema"
	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // system | light | dark
}

// CanvasConfig seeds the download area and the zoom bounds.
type CanvasConfig struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Background string  `yaml:"background,omitempty"`
	MinZoom    float64 `yaml:"min_zoom"`
	MaxZoom    float64 `yaml:"max_zoom"`
	ZoomStep   float64 `yaml:"zoom_step"`
}

type ExportConfig struct {
	Dir          string `yaml:"dir"`
	Preset       string `yaml:"preset,omitempty"`
	Format       string `yaml:"format"`
	JPEGQuality  int    `yaml:"jpeg_quality"`
	SettleMs     int    `yaml:"settle_ms"`
	AckTimeoutMs int    `yaml:"ack_timeout_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type TelemetryConfig struct {
	EventsURL string `yaml:"events_url"`
	CrashURL  string `yaml:"crash_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
	// The token is not stored on disk; it lives in the OS keyring.
}

type AppConfig struct {
	ConfigVersion int               `yaml:"config_version"`
	General       GeneralConfig     `yaml:"general"`
	Canvas        CanvasConfig      `yaml:"canvas"`
	Export        ExportConfig      `yaml:"export"`
	Fonts         map[string]string `yaml:"fonts,omitempty"` // family -> TTF path
	Logging       LoggingConfig     `yaml:"logging"`
	Telemetry     TelemetryConfig   `yaml:"telemetry"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Theme: "system"},
		Canvas: CanvasConfig{
			Width:    domain.DefaultAreaWidth,
			Height:   domain.DefaultAreaHeight,
			MinZoom:  view.MinScale,
			MaxZoom:  view.MaxScale,
			ZoomStep: view.Step,
		},
		Export:    ExportConfig{Dir: ".", Format: "png", JPEGQuality: 90, SettleMs: 1000, AckTimeoutMs: 5000},
		Logging:   LoggingConfig{Level: "info", Format: "console"},
		Telemetry: TelemetryConfig{TimeoutMs: 1500},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath     = "CC_CONFIG"
	EnvTelemetryOptIn = "CC_TELEMETRY_OPT_IN"
	EnvTelemetryURL   = "CC_TELEMETRY_URL"
	EnvCrashURL       = "CC_CRASH_UPLOAD_URL"
	EnvExportDir      = "CC_EXPORT_DIR"
	EnvExportFormat   = "CC_EXPORT_FORMAT"
	EnvLogLevel       = "CC_LOG_LEVEL"
	EnvLogFormat      = "CC_LOG_FORMAT"
	EnvLogSource      = "CC_LOG_SOURCE"
	EnvLogFile        = "CC_LOG_FILE"
)

const (
	keyringService = "CollageCreator"
	keyringToken   = "telemetry_token"
)

// TokenStore abstracts the keyring so tests can stub it.
type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (osKeyring) Set(service, key, value string) error    { return keyring.Set(service, key, value) }
func (osKeyring) Delete(service, key string) error        { return keyring.Delete(service, key) }

var tokenStore TokenStore = osKeyring{}

// SetTokenStore swaps the keyring backend and returns the previous one.
func SetTokenStore(ts TokenStore) TokenStore {
	prev := tokenStore
	tokenStore = ts
	return prev
}

// ConfigPath returns the per-user config file path. CC_CONFIG wins.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "CollageCreator")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "CollageCreator")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "collagecreator")
		} else if home := os.Getenv("HOME"); home != "" {
			base = filepath.Join(home, ".config", "collagecreator")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config, applies env overrides and fetches the keyring
// token. A missing or invalid file leaves the defaults in place.
func Load() (AppConfig, string, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, "", err
	}
	return LoadFrom(path)
}

func LoadFrom(path string) (AppConfig, string, error) {
	cfg := Defaults()
	log := applog.WithComponent("config")
	if data, err := os.ReadFile(path); err == nil {
		if err := Validate(data); err != nil {
			log.Warn("config ignored", "path", path, "err", err)
		} else {
			var fileCfg AppConfig
			if err := yaml.Unmarshal(data, &fileCfg); err != nil {
				log.Warn("config ignored", "path", path, "err", err)
			} else {
				mergeInto(&cfg, &fileCfg)
			}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Warn("config unreadable", "path", path, "err", err)
	}
	applyEnvOverrides(&cfg)
	tok, err := tokenStore.Get(keyringService, keyringToken)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		log.Debug("keyring unavailable", "err", err)
	}
	return cfg, tok, nil
}

// Validate checks YAML config bytes against the embedded schema.
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if doc == nil {
		return nil
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert config: %w", err)
	}
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(js))
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// Save writes the config YAML and stores a non-empty token in the keyring.
func Save(cfg AppConfig, token string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg, token)
}

func SaveTo(path string, cfg AppConfig, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if token != "" {
		if err := tokenStore.Set(keyringService, keyringToken, token); err != nil {
			return fmt.Errorf("store token: %w", err)
		}
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}

	if src.Canvas.Width > 0 {
		dst.Canvas.Width = src.Canvas.Width
	}
	if src.Canvas.Height > 0 {
		dst.Canvas.Height = src.Canvas.Height
	}
	if strings.TrimSpace(src.Canvas.Background) != "" {
		dst.Canvas.Background = strings.TrimSpace(src.Canvas.Background)
	}
	if src.Canvas.MinZoom > 0 {
		dst.Canvas.MinZoom = src.Canvas.MinZoom
	}
	if src.Canvas.MaxZoom > 0 {
		dst.Canvas.MaxZoom = src.Canvas.MaxZoom
	}
	if src.Canvas.ZoomStep > 0 {
		dst.Canvas.ZoomStep = src.Canvas.ZoomStep
	}

	if strings.TrimSpace(src.Export.Dir) != "" {
		dst.Export.Dir = strings.TrimSpace(src.Export.Dir)
	}
	if p := strings.TrimSpace(src.Export.Preset); p != "" {
		dst.Export.Preset = strings.ToLower(p)
	}
	if src.Export.Format != "" {
		dst.Export.Format = strings.ToLower(src.Export.Format)
	}
	if src.Export.JPEGQuality != 0 {
		dst.Export.JPEGQuality = src.Export.JPEGQuality
	}
	if src.Export.SettleMs != 0 {
		dst.Export.SettleMs = src.Export.SettleMs
	}
	if src.Export.AckTimeoutMs != 0 {
		dst.Export.AckTimeoutMs = src.Export.AckTimeoutMs
	}

	if len(src.Fonts) > 0 {
		dst.Fonts = make(map[string]string, len(src.Fonts))
		for k, v := range src.Fonts {
			dst.Fonts[k] = v
		}
	}

	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}

	if src.Telemetry.EventsURL != "" {
		dst.Telemetry.EventsURL = src.Telemetry.EventsURL
	}
	if src.Telemetry.CrashURL != "" {
		dst.Telemetry.CrashURL = src.Telemetry.CrashURL
	}
	if src.Telemetry.TimeoutMs != 0 {
		dst.Telemetry.TimeoutMs = src.Telemetry.TimeoutMs
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = telemetry.ParseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryURL)); v != "" {
		cfg.Telemetry.EventsURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCrashURL)); v != "" {
		cfg.Telemetry.CrashURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportDir)); v != "" {
		cfg.Export.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportFormat)); v != "" {
		cfg.Export.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = telemetry.ParseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var overrideKeys = map[string]string{
	"general.telemetry_opt_in": EnvTelemetryOptIn,
	"telemetry.events_url":     EnvTelemetryURL,
	"telemetry.crash_url":      EnvCrashURL,
	"export.dir":               EnvExportDir,
	"export.format":            EnvExportFormat,
	"logging.level":            EnvLogLevel,
	"logging.format":           EnvLogFormat,
	"logging.source":           EnvLogSource,
	"logging.file":             EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := overrideKeys[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}

// LogOptions maps the logging section onto logger options.
func (c AppConfig) LogOptions() applog.Options {
	return applog.Options{
		Level:     c.Logging.Level,
		Format:    c.Logging.Format,
		AddSource: c.Logging.Source,
		File:      c.Logging.File,
	}
}

// TelemetryConfig builds the sender config with the keyring token.
func (c AppConfig) TelemetryConfig(token string) telemetry.Config {
	cfg := telemetry.Config{
		OptIn:        c.General.TelemetryOptIn,
		EventsURL:    c.Telemetry.EventsURL,
		CrashURL:     c.Telemetry.CrashURL,
		Token:        token,
		Timeout:      time.Duration(c.Telemetry.TimeoutMs) * time.Millisecond,
		DebugLogging: os.Getenv("CC_TELEMETRY_DEBUG") != "",
	}
	if ms := strings.TrimSpace(os.Getenv("CC_TELEMETRY_TIMEOUT_MS")); ms != "" {
		if n, err := strconv.Atoi(ms); err == nil && n > 0 {
			cfg.Timeout = time.Duration(n) * time.Millisecond
		}
	}
	return cfg
}

// ExportOptions maps the export section; an unknown format falls back to PNG.
// A known preset fixes format and quality, and format and jpeg_quality are
// then ignored.
func (c AppConfig) ExportOptions() export.Options {
	o, err := export.Preset(export.PresetName(c.Export.Preset))
	if c.Export.Preset == "" || err != nil {
		o = export.DefaultOptions()
		if f, err := export.ParseFormat(c.Export.Format); err == nil {
			o.Format = f
		}
		if c.Export.JPEGQuality > 0 {
			o.JPEGQuality = c.Export.JPEGQuality
		}
	}
	if c.Export.SettleMs > 0 {
		o.Settle = time.Duration(c.Export.SettleMs) * time.Millisecond
	}
	if c.Export.AckTimeoutMs > 0 {
		o.AckTimeout = time.Duration(c.Export.AckTimeoutMs) * time.Millisecond
	}
	return o
}

// Area returns the initial download area.
func (c AppConfig) Area() domain.DownloadArea {
	a := domain.DefaultDownloadArea()
	if c.Canvas.Width >= 1 {
		a.Width = c.Canvas.Width
	}
	if c.Canvas.Height >= 1 {
		a.Height = c.Canvas.Height
	}
	if c.Canvas.Background != "" {
		a.Background = domain.Color(c.Canvas.Background)
	}
	return a
}
