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

// These tests drive the canvas widget through the Fyne test driver. They are
// gated behind the "fyne" build tag so headless CI does not need a display.
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"collagecreator/internal/decode"
	"collagecreator/internal/editor"
	"collagecreator/internal/render"
	"collagecreator/internal/textlayout"
)

func press(c *CollageCanvas, x, y float32) {
	c.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: desktop.MouseButtonPrimary})
}

func release(c *CollageCanvas, x, y float32) {
	c.MouseUp(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: desktop.MouseButtonPrimary})
}

func TestCollageCanvas_ForwardsGestures(t *testing.T) {
	test.NewApp()
	s := editor.New(editor.Options{Fonts: textlayout.BasicProvider{}})
	surf := render.NewSurface(render.NewRasterizer(s.Registry(), s.Fonts()))
	t.Cleanup(surf.Close)
	s.Mount(surf)

	id := s.AddImages(decode.Upload{Data: []byte("not an image")})[0]
	s.WaitDecodes()
	im, _ := s.Store().Image(id)
	im.Width, im.Height = 100, 100
	s.UpdateImage(im)

	c := NewCollageCanvas(s, surf)
	ends := 0
	c.OnGestureEnd = func() { ends++ }

	press(c, 50, 50)
	release(c, 50, 50)
	if sel, _ := s.Selected(); sel != id {
		t.Fatalf("click did not select the image")
	}

	press(c, 50, 50)
	c.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(70, 80)}})
	c.DragEnd()
	release(c, 70, 80)

	got, _ := s.Store().Image(id)
	if got.X != 30 || got.Y != 40 {
		t.Fatalf("after drag: %+v", got)
	}
	if ends != 2 {
		t.Fatalf("gesture end fired %d times, want 2", ends)
	}
}

func TestCollageCanvas_IgnoresSecondaryButton(t *testing.T) {
	test.NewApp()
	s := editor.New(editor.Options{Fonts: textlayout.BasicProvider{}})
	surf := render.NewSurface(render.NewRasterizer(s.Registry(), s.Fonts()))
	t.Cleanup(surf.Close)
	c := NewCollageCanvas(s, surf)
	c.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(5, 5)}, Button: desktop.MouseButtonSecondary})
	if c.down {
		t.Fatalf("secondary button started a gesture")
	}
}
