/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"collagecreator/internal/config"
	"collagecreator/internal/crash"
	"collagecreator/internal/decode"
	"collagecreator/internal/editor"
	"collagecreator/internal/export"
	applog "collagecreator/internal/log"
	"collagecreator/internal/render"
	"collagecreator/internal/script"
	"collagecreator/internal/sidebar"
	"collagecreator/internal/telemetry"
	"collagecreator/internal/textlayout"
	"collagecreator/internal/ui"
	"collagecreator/internal/version"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "Collage Creator")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  collagecreator version|-v|--version        Show version")
	fmt.Fprintln(w, "  collagecreator console [<script>]          Run a command script, or an interactive console")
	fmt.Fprintln(w, "  collagecreator ui                          Launch desktop UI (build with -tags fyne for full UI)")
	fmt.Fprintln(w, "  collagecreator config path                 Print the config file location")
	fmt.Fprintln(w, "  collagecreator config validate [<file>]    Check a config file against the schema")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// sceneRef lets the crash handler summarize a session created after it was
// deferred.
type sceneRef struct{ s *editor.Session }

func (r *sceneRef) Summary() string {
	if r.s == nil {
		return "no session"
	}
	return r.s.Summary()
}

func run(args []string) int {
	cfg, token, cerr := config.Load()
	applog.Init(cfg.LogOptions())
	l := applog.WithComponent("cli")
	if cerr != nil {
		l.Warn("config location unavailable, using defaults", slog.Any("err", cerr))
	}
	tc := telemetry.New(cfg.TelemetryConfig(token))
	telemetry.SetDefault(tc)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		tc.Flush(ctx)
		tc.Close()
	}()

	ref := &sceneRef{}
	defer crash.Recover(ref)

	l.Debug("start", slog.Int("args", len(args)))
	if len(args) == 0 {
		usage(os.Stdout)
		return 0
	}
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Println("Collage Creator")
		fmt.Println(version.String())
		return 0
	case "config":
		return runConfig(args[1:])
	case "console":
		s, surf, panel := newSession(cfg, l)
		ref.s = s
		defer surf.Close()
		defer s.Unmount()
		tc.Event("app_start", map[string]any{"mode": "console"})
		return runConsole(s, panel, args[1:], l)
	case "ui":
		s, surf, panel := newSession(cfg, l)
		ref.s = s
		defer surf.Close()
		defer s.Unmount()
		tc.Event("app_start", map[string]any{"mode": "ui"})
		if err := ui.Run(ui.Options{Session: s, Surface: surf, Panel: panel}); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 1
		}
		return 0
	}
	usage(os.Stderr)
	return 2
}

// newSession builds an editor session with a mounted render surface and a
// sidebar panel bound to its selection.
func newSession(cfg config.AppConfig, l *slog.Logger) (*editor.Session, *render.Surface, *sidebar.Panel) {
	lib := textlayout.NewFontLibrary()
	for family, path := range cfg.Fonts {
		if err := lib.LoadTTF(family, path); err != nil {
			l.Warn("font not loaded", slog.String("family", family), slog.String("path", path), slog.Any("err", err))
		}
	}
	fonts := textlayout.FaceProvider{Lib: lib}
	reg := decode.NewRegistry()
	s := editor.New(editor.Options{
		Area:     cfg.Area(),
		MinZoom:  cfg.Canvas.MinZoom,
		MaxZoom:  cfg.Canvas.MaxZoom,
		ZoomStep: cfg.Canvas.ZoomStep,
		Fonts:    fonts,
		Registry: reg,
		Export:   cfg.ExportOptions(),
		Saver:    export.FileSaver{Dir: cfg.Export.Dir},
		Events:   telemetry.Default(),
	})
	surf := render.NewSurface(render.NewRasterizer(reg, fonts))
	s.Mount(surf)
	panel := sidebar.NewPanel(s)
	panel.Bind(s.Selection().OnChange)
	return s, surf, panel
}

func runConsole(s *editor.Session, panel *sidebar.Panel, args []string, l *slog.Logger) int {
	ctx := s.Context(context.Background())
	r := script.NewRunner(s, panel, os.Stdout)
	if len(args) == 0 {
		if err := r.REPL(ctx, os.Stdin); err != nil {
			l.Error("console input failed", slog.Any("err", err))
			return 1
		}
		return 0
	}
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	r.Dir = filepath.Dir(path)
	l.Info("running script", slog.String("path", path))
	if err := r.Run(ctx, string(data)); err != nil {
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 {
		usage(os.Stderr)
		return 2
	}
	switch args[0] {
	case "path":
		p, err := config.ConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 1
		}
		fmt.Println(p)
		return 0
	case "validate":
		path := ""
		if len(args) > 1 {
			path = args[1]
		} else if p, err := config.ConfigPath(); err == nil {
			path = p
		}
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 1
		}
		if err := config.Validate(data); err != nil {
			fmt.Fprintln(os.Stderr, "Invalid:", err)
			return 1
		}
		fmt.Println("OK:", path)
		return 0
	}
	usage(os.Stderr)
	return 2
}
