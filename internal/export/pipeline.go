/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	applog "collagecreator/internal/log"
	"collagecreator/internal/vector"
)

// ErrExportInProgress is returned when Run is called while an export is
// already between its Exporting and Idle transitions.
var ErrExportInProgress = errors.New("export: already in progress")

// State of the export machine.
type State int

const (
	StateIdle State = iota
	StateExporting
)

func (s State) String() string {
	if s == StateExporting {
		return "exporting"
	}
	return "idle"
}

// Surface is the mounted raster the area is captured from.
type Surface interface {
	Capture(region vector.Rect, pixelRatio float64) (*image.RGBA, error)
}

// Acknowledger is implemented by surfaces that can report when a frame
// with a given sequence number has been committed.
type Acknowledger interface {
	AwaitCommit(ctx context.Context, seq uint64) error
}

// Scene is the editor side of an export. SetExporting switches the scene
// in or out of export mode and returns the sequence number of the frame
// that reflects the switch and the area rectangle in scene space.
type Scene interface {
	ClearSelection()
	SetExporting(on bool) (seq uint64, area vector.Rect)
	Surface() Surface
}

// EventSink receives an "export" event after each successful save.
type EventSink interface {
	Event(name string, props map[string]any)
}

// Result describes a finished export. Path is empty when nothing was saved.
type Result struct {
	Path   string
	Format Format
	Width  int
	Height int
	Bytes  int
}

// Pipeline serializes exports of one scene.
type Pipeline struct {
	opts   Options
	saver  Saver
	events EventSink
	log    *slog.Logger

	mu    sync.Mutex
	state State
}

func NewPipeline(opts Options, saver Saver, events EventSink) *Pipeline {
	if saver == nil {
		saver = FileSaver{}
	}
	return &Pipeline{
		opts:   opts.withDefaults(),
		saver:  saver,
		events: events,
		log:    applog.WithComponent("export"),
	}
}

func (p *Pipeline) Options() Options { return p.opts }

// SetFormat changes the format used by later runs.
func (p *Pipeline) SetFormat(f Format) {
	p.mu.Lock()
	p.opts.Format = f
	p.mu.Unlock()
}

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Run exports the scene's area. Without a mounted surface it does nothing.
// The scene always leaves export mode before Run returns.
func (p *Pipeline) Run(ctx context.Context, sc Scene) (Result, error) {
	surf := sc.Surface()
	if surf == nil {
		p.log.DebugContext(ctx, "export skipped: no surface")
		return Result{}, nil
	}
	p.mu.Lock()
	if p.state == StateExporting {
		p.mu.Unlock()
		return Result{}, ErrExportInProgress
	}
	p.state = StateExporting
	opts := p.opts
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.state = StateIdle
		p.mu.Unlock()
	}()

	log := applog.WithOperation(p.log, "run")
	start := time.Now()

	sc.ClearSelection()
	seq, area := sc.SetExporting(true)
	defer sc.SetExporting(false)

	if err := p.settle(ctx, surf, seq, opts); err != nil {
		return Result{}, err
	}
	img, err := surf.Capture(area, opts.PixelRatio)
	if err != nil {
		return Result{}, fmt.Errorf("capture area: %w", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img, opts.Format, opts); err != nil {
		return Result{}, err
	}
	path, err := p.saver.Save(opts.FileName(), buf.Bytes())
	if err != nil {
		return Result{}, err
	}
	res := Result{
		Path:   path,
		Format: opts.Format,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Bytes:  buf.Len(),
	}
	log.InfoContext(ctx, "export saved",
		slog.String("path", path),
		slog.String("format", string(res.Format)),
		slog.Int("width", res.Width),
		slog.Int("height", res.Height),
		slog.Duration("took", time.Since(start)),
	)
	if p.events != nil {
		p.events.Event("export", map[string]any{
			"format": string(res.Format),
			"width":  res.Width,
			"height": res.Height,
			"bytes":  res.Bytes,
		})
	}
	return res, nil
}

// settle waits until the export frame is on the surface. Surfaces that
// acknowledge commits are awaited up to AckTimeout; others get a fixed
// Settle delay.
func (p *Pipeline) settle(ctx context.Context, surf Surface, seq uint64, opts Options) error {
	if ack, ok := surf.(Acknowledger); ok {
		wctx, cancel := context.WithTimeout(ctx, opts.AckTimeout)
		defer cancel()
		if err := ack.AwaitCommit(wctx, seq); err != nil {
			return fmt.Errorf("await export frame: %w", err)
		}
		return nil
	}
	t := time.NewTimer(opts.Settle)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
