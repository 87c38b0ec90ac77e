/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package compose derives the drawable frame of the editor canvas from the
// scene state. Composition is a pure function of its input: the same store
// snapshot, selection, zoom and export flag always yield the same frame.
package compose

import (
	"math"

	"collagecreator/internal/domain"
	"collagecreator/internal/textlayout"
	"collagecreator/internal/vector"
)

const (
	// AreaOffset is where the download area's top-left sits on the stage.
	AreaOffset = 10

	AreaID   = "$area"
	BorderID = "$border"
)

// Input is everything a frame depends on.
type Input struct {
	Images    []domain.ImageElement
	Texts     []domain.TextElement
	Area      domain.DownloadArea
	Selected  string
	Scale     float64
	Exporting bool
	Fonts     textlayout.Provider
	// Active is the transformer of an in-flight gesture. Its node is drawn
	// from the transformer instead of the stored element.
	Active *domain.Transformer
}

// Frame is a composed canvas: a root group scaled by the zoom, plus the
// data a render surface and pointer handling need.
type Frame struct {
	Seq       uint64
	Root      *vector.Group
	Scale     float64
	Exporting bool
	// Area is the download area in scene coordinates.
	Area    vector.Rect
	Handles *Handles
	Labels  map[string]textlayout.TextBox
	kinds   map[string]domain.Kind
}

// Compose builds the frame. Paint order is area background, images in store
// order, texts in store order, then the border line unless exporting.
func Compose(in Input) *Frame {
	scale := in.Scale
	if scale <= 0 || in.Exporting {
		scale = 1
	}
	area := vector.R(AreaOffset, AreaOffset, in.Area.Width, in.Area.Height)
	f := &Frame{
		Scale:     scale,
		Exporting: in.Exporting,
		Area:      area,
		Labels:    make(map[string]textlayout.TextBox, len(in.Texts)),
		kinds:     make(map[string]domain.Kind, len(in.Images)+len(in.Texts)),
	}
	bg, err := in.Area.Background.Paint()
	if err != nil {
		bg = vector.Transparent
	}
	root := vector.NewGroup(vector.NewRect(AreaID, area, vector.SolidFill(bg), vector.Stroke{}))

	for _, im := range in.Images {
		x, y, rot, sz := im.X, im.Y, im.Rotation, vector.Size{W: im.Width, H: im.Height}
		if tr := in.Active; tr != nil && tr.ID() == im.ID {
			o := tr.Origin()
			x, y, rot, sz = o.X, o.Y, tr.Rotation(), tr.Box()
		}
		n := vector.NewImage(im.ID, im.ImageURL, sz)
		n.SetTransform(vector.Placement(x, y, rot))
		root.Children = append(root.Children, n)
		f.kinds[im.ID] = domain.KindImage
		if !in.Exporting && im.ID == in.Selected {
			f.Handles = &Handles{ID: im.ID, Kind: domain.KindImage, Placement: n.Transform(), Box: sz, Resize: true, Rotate: true}
		}
	}

	for _, t := range in.Texts {
		box := LabelBox(in.Fonts, t)
		f.Labels[t.ID] = box
		x, y, rot := t.X, t.Y, t.Rotation
		if tr := in.Active; tr != nil && tr.ID() == t.ID {
			o := tr.Origin()
			x, y, rot = o.X, o.Y, tr.Rotation()
		}
		fg, err := t.Color.Paint()
		if err != nil {
			fg = vector.Black
		}
		tag, err := t.BackgroundColor.Paint()
		if err != nil {
			tag = vector.Transparent
		}
		n := vector.NewLabel(t.ID, t.Value, vector.FontRef{Family: t.FontFamily.FaceName(), Size: t.FontSize},
			fg, vector.SolidFill(tag), box.Padding, vector.Size{W: box.Width, H: box.Height})
		n.SetTransform(vector.Placement(x, y, rot))
		root.Children = append(root.Children, n)
		f.kinds[t.ID] = domain.KindText
		if !in.Exporting && t.ID == in.Selected {
			f.Handles = &Handles{ID: t.ID, Kind: domain.KindText, Placement: n.Transform(),
				Box: vector.Size{W: box.Width, H: box.Height}, Rotate: true}
		}
	}

	if !in.Exporting {
		c := area.Corners()
		border := vector.NewPolyline(BorderID, []vector.Pt{c[0], c[1], c[2], c[3], c[0]},
			vector.Stroke{Color: vector.Black, Width: 1, Enabled: true})
		root.Children = append(root.Children, border)
	}

	root.SetTransform(vector.Scale(scale, scale))
	f.Root = root
	return f
}

// LabelBox lays out a text element with its resolved face.
func LabelBox(p textlayout.Provider, t domain.TextElement) textlayout.TextBox {
	t = t.Normalized()
	spec := textlayout.FontSpec{Family: t.FontFamily.FaceName(), Size: t.FontSize}
	return textlayout.Layout(p, t.Value, spec, t.Padding)
}

// StageSize is the canvas size in scene pixels: the area plus its offset
// margin, grown to include every element.
func (f *Frame) StageSize() vector.Size {
	w := f.Area.X + f.Area.W + AreaOffset
	h := f.Area.Y + f.Area.H + AreaOffset
	for _, c := range f.Root.Children {
		if c.ID() == BorderID || c.ID() == AreaID {
			continue
		}
		b := c.Bounds()
		w = math.Max(w, b.X+b.W)
		h = math.Max(h, b.Y+b.H)
	}
	return vector.Size{W: w, H: h}
}

// PixelSize is the stage size after zoom, rounded up to whole pixels.
func (f *Frame) PixelSize() (int, int) {
	s := f.StageSize()
	return int(math.Ceil(s.W * f.Scale)), int(math.Ceil(s.H * f.Scale))
}

// ToScene converts a point on the zoomed canvas to scene coordinates.
func (f *Frame) ToScene(p vector.Pt) vector.Pt {
	return f.Root.Transform().Invert().Apply(p)
}

// Target classifies what a pointer landed on.
type Target int

const (
	TargetBackground Target = iota
	TargetArea
	TargetElement
)

// Hit is the result of a hit test.
type Hit struct {
	Target Target
	ID     string
	Kind   domain.Kind
}

// HitTest finds the top-most element under a canvas point.
func (f *Frame) HitTest(canvas vector.Pt) Hit {
	n := f.Root.HitNode(canvas)
	if n == nil {
		return Hit{Target: TargetBackground}
	}
	if n.ID() == AreaID {
		return Hit{Target: TargetArea}
	}
	return Hit{Target: TargetElement, ID: n.ID(), Kind: f.kinds[n.ID()]}
}

// KindOf reports the element kind for an id present in the frame.
func (f *Frame) KindOf(id string) domain.Kind { return f.kinds[id] }
