//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"collagecreator/internal/compose"
	"collagecreator/internal/editor"
	"collagecreator/internal/render"
	"collagecreator/internal/vector"
)

// CollageCanvas shows the surface's committed frames and forwards pointer
// input to the editor session. One canvas unit is one stage pixel.
type CollageCanvas struct {
	widget.BaseWidget
	s    *editor.Session
	img  *canvas.Image
	size fyne.Size
	down bool

	// OnGestureEnd runs after every released pointer on the canvas.
	OnGestureEnd func()
}

func NewCollageCanvas(s *editor.Session, surf *render.Surface) *CollageCanvas {
	c := &CollageCanvas{s: s, img: canvas.NewImageFromImage(nil)}
	c.img.FillMode = canvas.ImageFillStretch
	c.img.ScaleMode = canvas.ImageScalePixels
	if img, _ := surf.Latest(); img != nil {
		c.setImage(img)
	}
	surf.OnCommit(func(img *image.RGBA, _ *compose.Frame) {
		fyne.Do(func() {
			c.setImage(img)
			c.Refresh()
		})
	})
	c.ExtendBaseWidget(c)
	return c
}

func (c *CollageCanvas) setImage(img *image.RGBA) {
	b := img.Bounds()
	c.img.Image = img
	c.size = fyne.NewSize(float32(b.Dx()), float32(b.Dy()))
	c.img.SetMinSize(c.size)
}

func (c *CollageCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff})
	return &collageRenderer{c: c, bg: bg, objects: []fyne.CanvasObject{bg, c.img}}
}

func toCanvas(p fyne.Position) vector.Pt { return vector.Pt{X: float64(p.X), Y: float64(p.Y)} }

func (c *CollageCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	c.down = true
	c.s.PointerDown(toCanvas(e.Position))
}

func (c *CollageCanvas) MouseUp(*desktop.MouseEvent) { c.release() }

func (c *CollageCanvas) Dragged(e *fyne.DragEvent) {
	if c.down {
		c.s.PointerMove(toCanvas(e.Position))
	}
}

func (c *CollageCanvas) DragEnd() { c.release() }

// release ends the gesture once even when both MouseUp and DragEnd fire.
func (c *CollageCanvas) release() {
	if !c.down {
		return
	}
	c.down = false
	c.s.PointerUp()
	if c.OnGestureEnd != nil {
		c.OnGestureEnd()
	}
}

type collageRenderer struct {
	c       *CollageCanvas
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *collageRenderer) Destroy()                     {}
func (r *collageRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *collageRenderer) MinSize() fyne.Size           { return r.c.size }
func (r *collageRenderer) Refresh()                     { r.Layout(r.c.Size()); canvas.Refresh(r.c.img) }

func (r *collageRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	r.c.img.Move(fyne.NewPos(0, 0))
	r.c.img.Resize(r.c.size)
}
