/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render rasterizes composed frames. It is the headless render
// surface of the editor: the desktop shell displays its output and the
// export pipeline captures from it.
package render

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"collagecreator/internal/compose"
	"collagecreator/internal/textlayout"
	"collagecreator/internal/vector"
)

// ImageSource resolves image refs to decoded pixels.
type ImageSource interface {
	Get(ref string) (image.Image, bool)
}

var handleColor = color.NRGBA{R: 0x00, G: 0xa1, B: 0xff, A: 0xff}

// Rasterizer draws frames with gg. Scaled image pixels are cached per
// ref and size between frames.
type Rasterizer struct {
	Images ImageSource
	Fonts  textlayout.Provider

	mu    sync.Mutex
	cache map[scaledKey]*image.RGBA
}

type scaledKey struct {
	ref  string
	w, h int
}

func NewRasterizer(images ImageSource, fonts textlayout.Provider) *Rasterizer {
	return &Rasterizer{Images: images, Fonts: fonts, cache: make(map[scaledKey]*image.RGBA)}
}

// Rasterize draws f at its zoom into a new RGBA image sized to the stage.
func (r *Rasterizer) Rasterize(f *compose.Frame) *image.RGBA {
	w, h := f.PixelSize()
	dc := gg.NewContext(max(w, 1), max(h, 1))
	dc.Scale(f.Scale, f.Scale)

	r.mu.Lock()
	used := make(map[scaledKey]bool)
	for _, n := range f.Root.Children {
		dc.Push()
		switch n := n.(type) {
		case *vector.RectNode:
			drawRect(dc, n)
		case *vector.ImageNode:
			r.drawImage(dc, n, used)
		case *vector.LabelNode:
			r.drawLabel(dc, n, f.Labels[n.ID()])
		case *vector.PolylineNode:
			drawPolyline(dc, n)
		}
		dc.Pop()
	}
	for k := range r.cache {
		if !used[k] {
			delete(r.cache, k)
		}
	}
	r.mu.Unlock()

	if f.Handles != nil && !f.Exporting {
		drawHandles(dc, f.Handles, f.Scale)
	}
	if img, ok := dc.Image().(*image.RGBA); ok {
		return img
	}
	out := image.NewRGBA(dc.Image().Bounds())
	xdraw.Copy(out, image.Point{}, dc.Image(), dc.Image().Bounds(), xdraw.Src, nil)
	return out
}

// place applies an element placement. Element transforms are a translation
// followed by a rotation, so they decompose exactly.
func place(dc *gg.Context, m vector.Affine2D) {
	dc.Translate(m.E, m.F)
	if rot := math.Atan2(m.B, m.A); rot != 0 {
		dc.Rotate(rot)
	}
}

func drawRect(dc *gg.Context, n *vector.RectNode) {
	place(dc, n.Transform())
	r := n.Local()
	if f := n.Fill(); f.Enabled {
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
		dc.SetColor(f.Color)
		dc.Fill()
	}
	if s := n.Stroke(); s.Enabled {
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
		dc.SetColor(s.Color)
		dc.SetLineWidth(s.Width)
		dc.Stroke()
	}
}

func (r *Rasterizer) drawImage(dc *gg.Context, n *vector.ImageNode, used map[scaledKey]bool) {
	sz := n.Size()
	w, h := int(math.Round(sz.W)), int(math.Round(sz.H))
	if w <= 0 || h <= 0 || r.Images == nil {
		return
	}
	src, ok := r.Images.Get(n.Ref)
	if !ok {
		return
	}
	k := scaledKey{ref: n.Ref, w: w, h: h}
	dst, ok := r.cache[k]
	if !ok {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
		r.cache[k] = dst
	}
	used[k] = true
	place(dc, n.Transform())
	dc.DrawImage(dst, 0, 0)
}

func (r *Rasterizer) drawLabel(dc *gg.Context, n *vector.LabelNode, box textlayout.TextBox) {
	place(dc, n.Transform())
	sz := n.Size()
	if f := n.Fill(); f.Enabled {
		dc.DrawRectangle(0, 0, sz.W, sz.H)
		dc.SetColor(f.Color)
		dc.Fill()
	}
	if n.TextColor.A == 0 || len(box.Lines) == 0 {
		return
	}
	fonts := r.Fonts
	if fonts == nil {
		fonts = textlayout.BasicProvider{}
	}
	face, _ := fonts.Resolve(textlayout.FontSpec{Family: n.Font.Family, Size: n.Font.Size})
	dc.SetFontFace(face)
	dc.SetColor(n.TextColor)
	for i, line := range box.Lines {
		if line.Text == "" {
			continue
		}
		dc.DrawString(line.Text, n.Padding, box.Baseline(i))
	}
}

func drawPolyline(dc *gg.Context, n *vector.PolylineNode) {
	s := n.Stroke()
	if !s.Enabled || len(n.Points) < 2 {
		return
	}
	place(dc, n.Transform())
	dc.MoveTo(n.Points[0].X, n.Points[0].Y)
	for _, p := range n.Points[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.SetColor(s.Color)
	dc.SetLineWidth(s.Width)
	dc.Stroke()
}

// drawHandles paints the transform grips in scene space with screen-sized
// strokes and squares.
func drawHandles(dc *gg.Context, h *compose.Handles, scale float64) {
	px := 1 / scale
	c := [4]vector.Pt{
		h.Anchor(compose.HandleTopLeft), h.Anchor(compose.HandleTopRight),
		h.Anchor(compose.HandleBottomRight), h.Anchor(compose.HandleBottomLeft),
	}
	dc.SetColor(handleColor)
	dc.SetLineWidth(px)
	dc.MoveTo(c[0].X, c[0].Y)
	for _, p := range c[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
	dc.Stroke()

	half := compose.HandleSize / 2 * px
	for _, k := range h.Visible() {
		p := h.Anchor(k)
		if k == compose.HandleRotate {
			top := h.Placement.Apply(vector.Pt{X: h.Box.W / 2})
			dc.SetColor(handleColor)
			dc.DrawLine(top.X, top.Y, p.X, p.Y)
			dc.Stroke()
			dc.DrawCircle(p.X, p.Y, half)
		} else {
			dc.DrawRectangle(p.X-half, p.Y-half, 2*half, 2*half)
		}
		dc.SetColor(color.White)
		dc.FillPreserve()
		dc.SetColor(handleColor)
		dc.Stroke()
	}
}
