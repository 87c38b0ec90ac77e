/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"collagecreator/internal/decode"
	"collagecreator/internal/domain"
	"collagecreator/internal/editor"
	"collagecreator/internal/export"
	applog "collagecreator/internal/log"
	"collagecreator/internal/sidebar"
	"collagecreator/internal/vector"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	headStyle = lipgloss.NewStyle().Bold(true)
)

// Runner executes console commands against an editor session. Field edits
// go through the sidebar panel so they follow the same validation as the
// form inputs.
type Runner struct {
	s     *editor.Session
	panel *sidebar.Panel
	out   io.Writer
	log   *slog.Logger

	// Dir resolves relative image paths. Empty means the working directory.
	Dir string

	last string // id of the most recently added element
}

func NewRunner(s *editor.Session, panel *sidebar.Panel, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{s: s, panel: panel, out: out, log: applog.WithComponent("script")}
}

// Run parses and executes a whole script. Parse errors are reported first
// and nothing runs; otherwise execution stops at the first failing command.
func (r *Runner) Run(ctx context.Context, input string) error {
	cmds, errs := Parse(input)
	if len(errs) > 0 {
		for _, e := range errs {
			r.fail(e)
		}
		return errs[0]
	}
	for _, c := range cmds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.safeExec(ctx, c); err != nil {
			r.fail(fmt.Errorf("line %d: %w", c.Line, err))
			return fmt.Errorf("line %d: %w", c.Line, err)
		}
	}
	return nil
}

// REPL reads commands line by line until EOF, "quit" or "exit". Errors are
// printed and the loop continues.
func (r *Runner) REPL(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	r.prompt()
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		switch strings.ToLower(line) {
		case "quit", "exit":
			return nil
		case "help":
			r.help()
			r.prompt()
			continue
		}
		cmds, errs := Parse(line)
		for _, e := range errs {
			r.fail(Error{Line: 1, Column: e.Column, Message: e.Message})
		}
		for _, c := range cmds {
			if err := r.safeExec(ctx, c); err != nil {
				r.fail(err)
			}
		}
		r.prompt()
	}
	return sc.Err()
}

func (r *Runner) safeExec(ctx context.Context, c Command) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("command panicked", slog.String("op", string(c.Op)), slog.Any("panic", p))
			err = fmt.Errorf("%s: internal error: %v", c.Op, p)
		}
	}()
	return r.Exec(ctx, c)
}

// Exec runs one command.
func (r *Runner) Exec(ctx context.Context, c Command) error {
	switch c.Op {
	case OpImageAdd:
		return r.addImages(c.Args)
	case OpTextAdd:
		r.s.BeginText()
		id, err := r.s.AddText(c.Args[0])
		if err != nil {
			return err
		}
		r.last = id
		r.ok("text %s added", short(id))
	case OpSelect:
		return r.selectCmd(c.Args)
	case OpClick:
		r.s.Click(vector.Pt{X: num(c.Args[0]), Y: num(c.Args[1])})
		r.reportSelection()
	case OpDrag:
		r.s.Drag(vector.Pt{X: num(c.Args[0]), Y: num(c.Args[1])}, vector.Pt{X: num(c.Args[2]), Y: num(c.Args[3])})
		r.reportSelection()
	case OpResize:
		if !r.s.ResizeSelected(num(c.Args[0]), num(c.Args[1])) {
			return errors.New("resize: no image selected or scale not positive")
		}
		r.ok("resized")
	case OpRotate:
		if !r.s.RotateSelected(num(c.Args[0])) {
			return sidebar.ErrNoSelection
		}
		r.ok("rotated")
	case OpFront, OpBack:
		id, kind := r.s.Selected()
		if kind != domain.KindImage {
			return errors.New("reorder: no image selected")
		}
		if c.Op == OpFront {
			r.s.MoveToFront(id)
		} else {
			r.s.MoveToBack(id)
		}
		r.ok("moved to %s", c.Op)
	case OpDelete:
		if !r.s.DeleteSelected() {
			return sidebar.ErrNoSelection
		}
		r.ok("deleted")
	case OpSet:
		if err := r.panel.Set(c.Args[0], c.Args[1]); err != nil {
			return err
		}
		r.ok("%s = %s", c.Args[0], c.Args[1])
	case OpArea:
		return r.areaCmd(c.Args[0], c.Args[1])
	case OpZoom:
		var changed bool
		switch c.Args[0] {
		case "in":
			changed = r.s.ZoomIn()
		case "out":
			changed = r.s.ZoomOut()
		default:
			r.s.ResetZoom()
			changed = true
		}
		if !changed {
			r.dim("zoom stays at %.2g", r.s.Scale())
			return nil
		}
		r.ok("zoom %.2g", r.s.Scale())
	case OpWait:
		r.s.WaitDecodes()
		r.dim("decodes done")
	case OpExport:
		return r.export(ctx, c.Args)
	case OpList:
		r.list()
	default:
		return fmt.Errorf("unknown command %q", c.Op)
	}
	return nil
}

func (r *Runner) addImages(paths []string) error {
	uploads := make([]decode.Upload, 0, len(paths))
	for _, p := range paths {
		if r.Dir != "" && !filepath.IsAbs(p) {
			p = filepath.Join(r.Dir, p)
		}
		u, err := decode.ReadUpload(p)
		if err != nil {
			return err
		}
		uploads = append(uploads, u)
	}
	ids := r.s.AddImages(uploads...)
	if len(ids) > 0 {
		r.last = ids[len(ids)-1]
	}
	r.ok("%d image(s) added", len(ids))
	return nil
}

func (r *Runner) selectCmd(args []string) error {
	switch args[0] {
	case "none":
		r.s.ClearSelection()
		r.dim("selection cleared")
		return nil
	case "last":
		if r.last == "" || !r.s.Select(r.last) {
			return errors.New("select: nothing added yet")
		}
	default:
		n, _ := strconv.Atoi(args[1])
		snap := r.s.Store().Snapshot()
		var id string
		if args[0] == "image" && n <= len(snap.Images) {
			id = snap.Images[n-1].ID
		}
		if args[0] == "text" && n <= len(snap.Texts) {
			id = snap.Texts[n-1].ID
		}
		if id == "" || !r.s.Select(id) {
			return fmt.Errorf("select: no %s #%d", args[0], n)
		}
	}
	r.reportSelection()
	return nil
}

func (r *Runner) areaCmd(field, value string) error {
	var err error
	switch field {
	case "width":
		err = r.panel.Area.SetWidth(value)
	case "height":
		err = r.panel.Area.SetHeight(value)
	case "background":
		if strings.EqualFold(value, "off") || strings.EqualFold(value, "none") {
			err = r.panel.Area.SetBackgroundEnabled(false)
			break
		}
		if err = r.panel.Area.SetBackgroundColor(value); err == nil {
			err = r.panel.Area.SetBackgroundEnabled(true)
		}
	}
	if err != nil {
		return err
	}
	a := r.s.Area()
	r.ok("area %vx%v background %s", a.Width, a.Height, a.Background)
	return nil
}

func (r *Runner) export(ctx context.Context, args []string) error {
	if len(args) == 1 {
		f, err := export.ParseFormat(args[0])
		if err != nil {
			return err
		}
		r.s.Pipeline().SetFormat(f)
	}
	res, err := r.s.Export(ctx)
	if err != nil {
		return err
	}
	if res.Path == "" {
		r.dim("nothing to export without a canvas")
		return nil
	}
	r.ok("exported %s (%dx%d, %d bytes)", res.Path, res.Width, res.Height, res.Bytes)
	return nil
}

func (r *Runner) list() {
	snap := r.s.Store().Snapshot()
	sel, _ := r.s.Selected()
	a := r.s.Area()
	fmt.Fprintln(r.out, headStyle.Render(fmt.Sprintf("area %vx%v  zoom %.2g", a.Width, a.Height, r.s.Scale())))
	mark := func(id string) string {
		if id == sel {
			return "*"
		}
		return " "
	}
	for i, im := range snap.Images {
		fmt.Fprintf(r.out, "%s image %d %s at (%g,%g) %gx%g rot %g\n",
			mark(im.ID), i+1, dimStyle.Render(short(im.ID)), im.X, im.Y, im.Width, im.Height, im.Rotation)
	}
	for i, t := range snap.Texts {
		fmt.Fprintf(r.out, "%s text %d %s %q at (%g,%g) %s %gpx rot %g\n",
			mark(t.ID), i+1, dimStyle.Render(short(t.ID)), t.Value, t.X, t.Y, t.FontFamily, t.FontSize, t.Rotation)
	}
	if len(snap.Images)+len(snap.Texts) == 0 {
		r.dim("empty canvas")
	}
}

func (r *Runner) reportSelection() {
	id, kind := r.s.Selected()
	if id == "" {
		r.dim("nothing selected")
		return
	}
	r.ok("selected %s %s", kind, short(id))
}

func (r *Runner) help() {
	fmt.Fprintln(r.out, headStyle.Render("commands"))
	for _, l := range []string{
		"image add <path>...", "text add <words>", "select image|text <n> | last | none",
		"click <x> <y>", "drag <x0> <y0> <x1> <y1>", "resize <sx> <sy>", "rotate <deg>",
		"front | back | delete", "set <field> <value>", "area width|height <v>",
		"area background <color>|off", "zoom in|out|reset", "wait", "export [png|jpeg|pdf]", "list", "quit",
	} {
		fmt.Fprintln(r.out, "  "+l)
	}
}

func (r *Runner) prompt() { fmt.Fprint(r.out, dimStyle.Render("collage> ")) }

func (r *Runner) ok(format string, args ...any) {
	fmt.Fprintln(r.out, okStyle.Render(fmt.Sprintf(format, args...)))
}

func (r *Runner) dim(format string, args ...any) {
	fmt.Fprintln(r.out, dimStyle.Render(fmt.Sprintf(format, args...)))
}

func (r *Runner) fail(err error) {
	fmt.Fprintln(r.out, errStyle.Render("error: "+err.Error()))
}

func num(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
