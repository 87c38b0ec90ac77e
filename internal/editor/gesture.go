/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"math"

	"collagecreator/internal/compose"
	"collagecreator/internal/domain"
	"collagecreator/internal/vector"
)

type gestureKind int

const (
	gestureDrag gestureKind = iota + 1
	gestureResize
	gestureRotate
)

// minSide keeps a resized image from collapsing or flipping.
const minSide = 1.0

// gesture is an in-flight pointer manipulation of the selected element.
type gesture struct {
	kind   gestureKind
	handle compose.HandleKind
	tr     *domain.Transformer
	start  vector.Pt // scene point at pointer down
	origin vector.Pt // transformer origin at pointer down
	base   vector.Size
	fixed  vector.Pt // scene position of the corner opposite the grabbed one
	moved  bool
}

// PointerDown starts a gesture at a canvas point (zoomed pixels). A handle
// of the selected element starts a resize or rotate, the selected element
// itself starts a drag, another element becomes selected, and the area or
// background clears the selection.
func (s *Session) PointerDown(canvas vector.Pt) {
	f := s.Frame()
	if f == nil {
		return
	}
	scene := f.ToScene(canvas)
	selected, hasSel := s.sel.Selected()

	if hasSel && f.Handles != nil && f.Handles.ID == selected {
		if k := f.Handles.At(scene, f.Scale); k != compose.HandleNone {
			if g := s.newGesture(f, selected, scene, k); g != nil {
				s.begin(g)
				return
			}
		}
	}

	hit := f.HitTest(canvas)
	switch hit.Target {
	case compose.TargetElement:
		if hit.ID == selected {
			if g := s.newGesture(f, selected, scene, compose.HandleNone); g != nil {
				s.begin(g)
			}
			return
		}
		s.sel.Select(hit.ID)
	default:
		s.sel.Clear()
	}
}

func (s *Session) begin(g *gesture) {
	s.mu.Lock()
	s.drag = g
	s.mu.Unlock()
}

func (s *Session) newGesture(f *compose.Frame, id string, scene vector.Pt, k compose.HandleKind) *gesture {
	var tr *domain.Transformer
	switch s.store.KindOf(id) {
	case domain.KindImage:
		im, _ := s.store.Image(id)
		tr = domain.ForImage(im)
	case domain.KindText:
		t, _ := s.store.Text(id)
		box := f.Labels[id]
		tr = domain.ForText(t, vector.Size{W: box.Width, H: box.Height})
	default:
		return nil
	}
	g := &gesture{tr: tr, start: scene, origin: tr.Origin(), base: tr.Box(), handle: k}
	switch {
	case k == compose.HandleRotate:
		g.kind = gestureRotate
	case k.IsCorner():
		if !tr.CanResize() || g.base.W <= 0 || g.base.H <= 0 {
			return nil
		}
		g.kind = gestureResize
		g.fixed = tr.Placement().Apply(cornerLocal(k.Opposite(), g.base))
	default:
		g.kind = gestureDrag
	}
	return g
}

// PointerMove updates the active gesture. Without one it does nothing.
func (s *Session) PointerMove(canvas vector.Pt) {
	s.mu.Lock()
	g := s.drag
	f := s.frame
	if g == nil || f == nil {
		s.mu.Unlock()
		return
	}
	scene := f.ToScene(canvas)
	switch g.kind {
	case gestureDrag:
		d := scene.Sub(g.start)
		g.tr.MoveTo(g.origin.X+d.X, g.origin.Y+d.Y)
	case gestureResize:
		g.resizeTo(scene)
	case gestureRotate:
		g.rotateTo(scene)
	}
	g.moved = true
	s.mu.Unlock()
	s.refresh()
}

// PointerUp ends the gesture and writes the result back once.
func (s *Session) PointerUp() {
	s.mu.Lock()
	g := s.drag
	s.drag = nil
	s.mu.Unlock()
	if g == nil {
		return
	}
	if !g.moved {
		s.refresh()
		return
	}
	s.commit(g)
}

func (s *Session) commit(g *gesture) {
	id := g.tr.ID()
	switch g.tr.Kind() {
	case domain.KindImage:
		im, ok := s.store.Image(id)
		if !ok {
			break
		}
		if g.kind == gestureDrag {
			o := g.tr.Origin()
			im = im.Dragged(o.X, o.Y)
		} else {
			im = im.Transformed(g.tr.End())
		}
		s.store.UpdateImage(im)
	case domain.KindText:
		t, ok := s.store.Text(id)
		if !ok {
			break
		}
		if g.kind == gestureDrag {
			o := g.tr.Origin()
			t = t.Dragged(o.X, o.Y)
		} else {
			t = t.Rotated(g.tr.End())
		}
		s.store.UpdateText(t)
	}
	s.refresh()
}

// resizeTo moves the grabbed corner to p while the opposite corner stays
// put. Keep-ratio is not applied on canvas.
func (g *gesture) resizeTo(p vector.Pt) {
	rot := g.tr.Rotation()
	d := vector.Rotate(-vector.Radians(rot)).Apply(p.Sub(g.fixed))
	var w, h float64
	switch g.handle {
	case compose.HandleBottomRight:
		w, h = d.X, d.Y
	case compose.HandleTopLeft:
		w, h = -d.X, -d.Y
	case compose.HandleTopRight:
		w, h = d.X, -d.Y
	case compose.HandleBottomLeft:
		w, h = -d.X, d.Y
	}
	w, h = math.Max(w, minSide), math.Max(h, minSide)
	opp := cornerLocal(g.handle.Opposite(), vector.Size{W: w, H: h})
	off := vector.Rotate(vector.Radians(rot)).Apply(opp)
	g.tr.SetScale(w/g.base.W, h/g.base.H, g.fixed.Sub(off))
}

// rotateTo points the rotate knob at p. The knob sits above the box
// center, so a pointer straight above means zero degrees.
func (g *gesture) rotateTo(p vector.Pt) {
	b := g.tr.Box()
	c := g.tr.Placement().Apply(vector.Pt{X: b.W / 2, Y: b.H / 2})
	v := p.Sub(c)
	if v.X == 0 && v.Y == 0 {
		return
	}
	g.tr.RotateAbout(normalizeDeg(vector.Degrees(math.Atan2(v.Y, v.X)) + 90))
}

func normalizeDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

func cornerLocal(k compose.HandleKind, sz vector.Size) vector.Pt {
	switch k {
	case compose.HandleTopRight:
		return vector.Pt{X: sz.W}
	case compose.HandleBottomRight:
		return vector.Pt{X: sz.W, Y: sz.H}
	case compose.HandleBottomLeft:
		return vector.Pt{Y: sz.H}
	default:
		return vector.Pt{}
	}
}

// Click is a pointer down and up at the same point.
func (s *Session) Click(canvas vector.Pt) {
	s.PointerDown(canvas)
	s.PointerUp()
}

// Drag presses at from, moves to to and releases.
func (s *Session) Drag(from, to vector.Pt) {
	s.PointerDown(from)
	s.PointerMove(to)
	s.PointerUp()
}

// ResizeSelected scales the selected image by sx, sy about its origin, as
// a handle drag would. Labels cannot be resized.
func (s *Session) ResizeSelected(sx, sy float64) bool {
	im, ok := s.SelectedImage()
	if !ok || !finite(sx) || !finite(sy) || sx <= 0 || sy <= 0 {
		return false
	}
	tr := domain.ForImage(im)
	tr.SetScale(sx, sy, tr.Origin())
	return s.UpdateImage(im.Transformed(tr.End()))
}

// RotateSelected sets the selected element's rotation, keeping its center.
func (s *Session) RotateSelected(deg float64) bool {
	if !finite(deg) {
		return false
	}
	id, kind := s.Selected()
	f := s.Frame()
	switch kind {
	case domain.KindImage:
		im, _ := s.store.Image(id)
		tr := domain.ForImage(im)
		tr.RotateAbout(deg)
		return s.UpdateImage(im.Transformed(tr.End()))
	case domain.KindText:
		t, _ := s.store.Text(id)
		box := f.Labels[id]
		tr := domain.ForText(t, vector.Size{W: box.Width, H: box.Height})
		tr.RotateAbout(deg)
		return s.UpdateText(t.Rotated(tr.End()))
	}
	return false
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
