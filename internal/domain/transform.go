/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"math"

	"collagecreator/internal/vector"
)

// Gesture is the state of a manipulated node at the end of a drag, rotate
// or resize. Scale is relative to the node's size when the gesture began.
type Gesture struct {
	X, Y           float64
	Rotation       float64
	ScaleX, ScaleY float64
}

// Dragged returns the image at its new position; nothing else changes.
func (im ImageElement) Dragged(x, y float64) ImageElement {
	im.X, im.Y = x, y
	return im
}

// Transformed folds a rotate or resize gesture into the image. The scale is
// baked into width and height (rounded to whole pixels) so a persisted
// element never carries a scale factor.
func (im ImageElement) Transformed(g Gesture) ImageElement {
	im.X, im.Y = g.X, g.Y
	im.Rotation = g.Rotation
	im.Width = math.Round(im.Width * g.ScaleX)
	im.Height = math.Round(im.Height * g.ScaleY)
	return im
}

func (t TextElement) Dragged(x, y float64) TextElement {
	t.X, t.Y = x, y
	return t
}

// Rotated applies a rotate gesture. Labels cannot be resized on canvas, so
// any scale in g is ignored.
func (t TextElement) Rotated(g Gesture) TextElement {
	t.X, t.Y = g.X, g.Y
	t.Rotation = g.Rotation
	return t
}

// Transformer is the on-canvas manipulation surface attached to the
// selected element. It accumulates a gesture and hands it out on End.
type Transformer struct {
	kind     Kind
	id       string
	x, y     float64
	rotation float64
	scaleX   float64
	scaleY   float64
	w, h     float64
}

// ForImage attaches a transformer with resize and rotate handles.
func ForImage(im ImageElement) *Transformer {
	return &Transformer{kind: KindImage, id: im.ID, x: im.X, y: im.Y, rotation: im.Rotation,
		scaleX: 1, scaleY: 1, w: im.Width, h: im.Height}
}

// ForText attaches a rotate-only transformer. box is the measured label size.
func ForText(t TextElement, box vector.Size) *Transformer {
	return &Transformer{kind: KindText, id: t.ID, x: t.X, y: t.Y, rotation: t.Rotation,
		scaleX: 1, scaleY: 1, w: box.W, h: box.H}
}

func (t *Transformer) ID() string      { return t.id }
func (t *Transformer) Kind() Kind      { return t.kind }
func (t *Transformer) CanResize() bool { return t.kind == KindImage }
func (t *Transformer) Origin() vector.Pt {
	return vector.Pt{X: t.x, Y: t.y}
}
func (t *Transformer) Rotation() float64 { return t.rotation }

// Scale returns the scale accumulated since the last End.
func (t *Transformer) Scale() (sx, sy float64) { return t.scaleX, t.scaleY }

// Box returns the node's current on-canvas size.
func (t *Transformer) Box() vector.Size {
	return vector.Size{W: t.w * t.scaleX, H: t.h * t.scaleY}
}

// Placement maps the node's local space into scene space.
func (t *Transformer) Placement() vector.Affine2D {
	return vector.Placement(t.x, t.y, t.rotation)
}

func (t *Transformer) MoveTo(x, y float64) {
	t.x, t.y = x, y
}

// SetScale sets the scale relative to the gesture start and moves the node
// origin. It reports false for nodes without resize handles.
func (t *Transformer) SetScale(sx, sy float64, origin vector.Pt) bool {
	if !t.CanResize() {
		return false
	}
	t.scaleX, t.scaleY = sx, sy
	t.x, t.y = origin.X, origin.Y
	return true
}

// RotateAbout sets the absolute rotation while keeping the box center fixed.
func (t *Transformer) RotateAbout(deg float64) {
	b := t.Box()
	c := t.Placement().Apply(vector.Pt{X: b.W / 2, Y: b.H / 2})
	off := vector.Rotate(vector.Radians(deg)).Apply(vector.Pt{X: b.W / 2, Y: b.H / 2})
	t.rotation = deg
	t.x, t.y = c.X-off.X, c.Y-off.Y
}

// End reports the gesture and resets the scale to 1. A resized image keeps
// its new size as the base for the next gesture, so scales never compound.
func (t *Transformer) End() Gesture {
	g := Gesture{X: t.x, Y: t.y, Rotation: t.rotation, ScaleX: t.scaleX, ScaleY: t.scaleY}
	if t.kind == KindImage {
		t.w = math.Round(t.w * t.scaleX)
		t.h = math.Round(t.h * t.scaleY)
	}
	t.scaleX, t.scaleY = 1, 1
	return g
}
