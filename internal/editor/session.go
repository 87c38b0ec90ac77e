/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor holds the editing session: the element store, the single
// selection, zoom, the download area and the mounted render surface. Every
// change re-composes the canvas and presents it to the surface.
package editor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"collagecreator/internal/compose"
	"collagecreator/internal/decode"
	"collagecreator/internal/domain"
	"collagecreator/internal/export"
	applog "collagecreator/internal/log"
	"collagecreator/internal/selection"
	"collagecreator/internal/store"
	"collagecreator/internal/textlayout"
	"collagecreator/internal/view"

	"github.com/google/uuid"
)

// Surface is a render target that can be captured for export.
// *render.Surface implements it.
type Surface interface {
	Present(f *compose.Frame)
	export.Surface
}

// Options configures a new session. Zero values fall back to defaults.
type Options struct {
	Area     domain.DownloadArea
	MinZoom  float64
	MaxZoom  float64
	ZoomStep float64
	Fonts    textlayout.Provider
	Registry *decode.Registry
	Export   export.Options
	Saver    export.Saver
	Events   export.EventSink
}

type Session struct {
	id    string
	log   *slog.Logger
	store *store.Store
	sel   *selection.Controller
	zoom  *view.Zoom
	fonts textlayout.Provider
	dec   *decode.Decoder
	pipe  *export.Pipeline

	// paint orders compose and present so frames reach the surface in
	// sequence order.
	paint     sync.Mutex
	mu        sync.Mutex
	area      domain.DownloadArea
	surf      Surface
	seq       uint64
	exporting bool
	frame     *compose.Frame
	drag      *gesture
	observers []func(*compose.Frame)
}

func New(opts Options) *Session {
	area := opts.Area
	if area.Width < 1 || area.Height < 1 {
		d := domain.DefaultDownloadArea()
		if area.Width < 1 {
			area.Width = d.Width
		}
		if area.Height < 1 {
			area.Height = d.Height
		}
	}
	if area.Background == "" {
		area.Background = domain.Transparent
	}
	fonts := opts.Fonts
	if fonts == nil {
		fonts = textlayout.BasicProvider{}
	}
	reg := opts.Registry
	if reg == nil {
		reg = decode.NewRegistry()
	}
	expOpts := opts.Export
	if expOpts.Format == "" {
		expOpts = export.DefaultOptions()
	}
	id := uuid.NewString()
	s := &Session{
		id:    id,
		log:   applog.WithComponent("editor").With(slog.String("session", id)),
		store: store.New(),
		sel:   &selection.Controller{},
		zoom:  view.NewZoom(opts.MinZoom, opts.MaxZoom, opts.ZoomStep),
		fonts: fonts,
		dec:   decode.NewDecoder(reg),
		pipe:  export.NewPipeline(expOpts, opts.Saver, opts.Events),
		area:  area,
	}
	s.sel.OnChange(func(string) { s.refresh() })
	s.refresh()
	return s
}

func (s *Session) ID() string { return s.id }

// Context returns ctx tagged with the session id for logging.
func (s *Session) Context(ctx context.Context) context.Context {
	return applog.WithSession(ctx, s.id)
}

func (s *Session) Store() *store.Store              { return s.store }
func (s *Session) Selection() *selection.Controller { return s.sel }
func (s *Session) Fonts() textlayout.Provider       { return s.fonts }
func (s *Session) Registry() *decode.Registry       { return s.dec.Registry() }
func (s *Session) Pipeline() *export.Pipeline       { return s.pipe }

// Mount attaches a render surface and presents the current frame to it.
func (s *Session) Mount(surf Surface) {
	s.mu.Lock()
	s.surf = surf
	s.mu.Unlock()
	s.refresh()
}

// Unmount detaches the surface. Exports become no-ops until the next Mount.
func (s *Session) Unmount() {
	s.mu.Lock()
	s.surf = nil
	s.mu.Unlock()
}

// OnFrame registers fn to observe every composed frame.
func (s *Session) OnFrame(fn func(*compose.Frame)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Frame returns the most recently composed frame.
func (s *Session) Frame() *compose.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// refresh composes the current state, presents it and returns the frame.
func (s *Session) refresh() *compose.Frame {
	s.paint.Lock()
	snap := s.store.Snapshot()
	selected, _ := s.sel.Selected()
	scale := s.zoom.Scale()

	s.mu.Lock()
	var active *domain.Transformer
	if s.drag != nil {
		active = s.drag.tr
	}
	f := compose.Compose(compose.Input{
		Images:    snap.Images,
		Texts:     snap.Texts,
		Area:      s.area,
		Selected:  selected,
		Scale:     scale,
		Exporting: s.exporting,
		Fonts:     s.fonts,
		Active:    active,
	})
	s.seq++
	f.Seq = s.seq
	s.frame = f
	surf := s.surf
	obs := append([]func(*compose.Frame){}, s.observers...)
	s.mu.Unlock()
	if surf != nil {
		surf.Present(f)
	}
	s.paint.Unlock()

	for _, fn := range obs {
		fn(f)
	}
	return f
}

// AddImages appends one unsized image per upload, in upload order, and
// starts decoding them. Each image gets its natural size once its decode
// finishes, unless it was sized in the meantime.
func (s *Session) AddImages(uploads ...decode.Upload) []string {
	s.sel.Clear()
	if len(uploads) == 0 {
		return nil
	}
	ids := make([]string, len(uploads))
	elems := make([]domain.ImageElement, len(uploads))
	for i := range uploads {
		id := uuid.NewString()
		ids[i] = id
		elems[i] = domain.NewImage(id, "blob:"+id)
	}
	s.store.AddImages(elems...)
	for i, u := range uploads {
		id := ids[i]
		s.dec.Decode(elems[i].ImageURL, u.Data, func(r decode.Result) {
			if s.store.SetNaturalSize(id, float64(r.Width), float64(r.Height)) {
				s.refresh()
				return
			}
			if s.store.KindOf(id) == domain.KindNone {
				s.dec.Registry().Delete(r.Ref)
			}
		})
	}
	s.log.Info("images added", slog.Int("count", len(ids)))
	s.refresh()
	return ids
}

// WaitDecodes blocks until all started decodes finished.
func (s *Session) WaitDecodes() { s.dec.Wait() }

// BeginText clears the selection, which starting a new text entry does.
func (s *Session) BeginText() { s.sel.Clear() }

// AddText appends a label with the starter style. Empty values are rejected.
func (s *Session) AddText(value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("text value is empty")
	}
	id := uuid.NewString()
	s.store.AddText(domain.NewText(id, value))
	s.refresh()
	return id, nil
}

func (s *Session) UpdateImage(im domain.ImageElement) bool {
	ok := s.store.UpdateImage(im)
	if ok {
		s.refresh()
	}
	return ok
}

func (s *Session) UpdateText(t domain.TextElement) bool {
	ok := s.store.UpdateText(t)
	if ok {
		s.refresh()
	}
	return ok
}

// Delete removes an element of either kind. Deleting the selected element
// clears the selection; a deleted image also drops its decoded pixels.
func (s *Session) Delete(id string) bool {
	im, isImage := s.store.Image(id)
	ok := s.store.DeleteImage(id) || s.store.DeleteText(id)
	if !ok {
		return false
	}
	if isImage {
		s.dec.Registry().Delete(im.ImageURL)
	}
	if s.sel.IsSelected(id) {
		s.sel.Clear()
	}
	s.refresh()
	return true
}

// DeleteSelected deletes the selected element, if any.
func (s *Session) DeleteSelected() bool {
	id, ok := s.sel.Selected()
	if !ok {
		return false
	}
	return s.Delete(id)
}

func (s *Session) MoveToFront(id string) bool {
	ok := s.store.MoveToFront(id)
	if ok {
		s.refresh()
	}
	return ok
}

func (s *Session) MoveToBack(id string) bool {
	ok := s.store.MoveToBack(id)
	if ok {
		s.refresh()
	}
	return ok
}

// Select replaces the selection. Unknown ids are ignored.
func (s *Session) Select(id string) bool {
	if s.store.KindOf(id) == domain.KindNone {
		return false
	}
	s.sel.Select(id)
	return true
}

func (s *Session) ClearSelection() { s.sel.Clear() }

// Selected returns the selected element's id and kind.
func (s *Session) Selected() (string, domain.Kind) {
	id, ok := s.sel.Selected()
	if !ok {
		return "", domain.KindNone
	}
	return id, s.store.KindOf(id)
}

// SelectedImage returns the selected image, if an image is selected.
func (s *Session) SelectedImage() (domain.ImageElement, bool) {
	id, ok := s.sel.Selected()
	if !ok {
		return domain.ImageElement{}, false
	}
	return s.store.Image(id)
}

// SelectedText returns the selected label, if a label is selected.
func (s *Session) SelectedText() (domain.TextElement, bool) {
	id, ok := s.sel.Selected()
	if !ok {
		return domain.TextElement{}, false
	}
	return s.store.Text(id)
}

func (s *Session) Area() domain.DownloadArea {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.area
}

// SetArea replaces the download area. Sizes below 1 are rejected.
func (s *Session) SetArea(a domain.DownloadArea) error {
	if a.Width < 1 || a.Height < 1 {
		return fmt.Errorf("download area must be at least 1x1, got %vx%v", a.Width, a.Height)
	}
	if _, err := a.Background.Paint(); err != nil {
		return err
	}
	s.mu.Lock()
	s.area = a
	s.mu.Unlock()
	s.refresh()
	return nil
}

func (s *Session) Scale() float64   { return s.zoom.Scale() }
func (s *Session) CanZoomIn() bool  { return s.zoom.CanZoomIn() }
func (s *Session) CanZoomOut() bool { return s.zoom.CanZoomOut() }

func (s *Session) ZoomIn() bool {
	ok := s.zoom.ZoomIn()
	if ok {
		s.refresh()
	}
	return ok
}

func (s *Session) ZoomOut() bool {
	ok := s.zoom.ZoomOut()
	if ok {
		s.refresh()
	}
	return ok
}

// ResetZoom returns the canvas to the default scale.
func (s *Session) ResetZoom() {
	s.zoom.Reset()
	s.refresh()
}

// Summary describes the scene without user content. It is used in crash
// reports.
func (s *Session) Summary() string {
	snap := s.store.Snapshot()
	a := s.Area()
	_, kind := s.Selected()
	return fmt.Sprintf("images=%d decoded=%d texts=%d rev=%d area=%vx%v zoom=%.2f selected=%s exporting=%v",
		len(snap.Images), s.dec.Registry().Len(), len(snap.Texts), snap.Revision,
		a.Width, a.Height, s.zoom.Scale(), kind, s.Exporting())
}

// Exporting reports whether an export is between its enter and leave steps.
func (s *Session) Exporting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exporting
}
