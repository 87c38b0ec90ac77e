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
	"testing"

	"collagecreator/internal/vector"
)

func TestImageTransformedRoundsAndWritesAllFields(t *testing.T) {
	im := ImageElement{ID: "a", Width: 800, Height: 600}
	got := im.Transformed(Gesture{X: 5, Y: 6, Rotation: 15, ScaleX: 0.333, ScaleY: 0.5})
	if got.Width != 266 || got.Height != 300 {
		t.Fatalf("unexpected size: %vx%v", got.Width, got.Height)
	}
	if got.X != 5 || got.Y != 6 || got.Rotation != 15 {
		t.Fatalf("position/rotation not written: %+v", got)
	}
	if got.ID != "a" {
		t.Fatalf("id changed: %q", got.ID)
	}
}

func TestDraggedOnlyMoves(t *testing.T) {
	im := ImageElement{ID: "a", Width: 80, Height: 60, Rotation: 30}
	got := im.Dragged(100, 200)
	if got.X != 100 || got.Y != 200 || got.Width != 80 || got.Rotation != 30 {
		t.Fatalf("unexpected drag result: %+v", got)
	}
	tx := NewText("t", "v").Dragged(3, 4)
	if tx.X != 3 || tx.Y != 4 || tx.FontSize != 30 {
		t.Fatalf("unexpected text drag: %+v", tx)
	}
}

func TestTextRotatedIgnoresScale(t *testing.T) {
	tx := NewText("t", "v")
	got := tx.Rotated(Gesture{X: 1, Y: 2, Rotation: 45, ScaleX: 3, ScaleY: 3})
	if got.Rotation != 45 || got.X != 1 || got.Y != 2 || got.FontSize != 30 {
		t.Fatalf("unexpected rotate result: %+v", got)
	}
}

func TestTransformerScaleResetsAfterEnd(t *testing.T) {
	im := ImageElement{ID: "a", X: 10, Y: 10, Width: 200, Height: 100}
	tr := ForImage(im)

	tr.SetScale(1.5, 2, vector.Pt{X: 10, Y: 10})
	g := tr.End()
	im = im.Transformed(g)
	if im.Width != 300 || im.Height != 200 {
		t.Fatalf("first resize: %vx%v", im.Width, im.Height)
	}
	if sx, sy := tr.Scale(); sx != 1 || sy != 1 {
		t.Fatalf("scale not reset: %v,%v", sx, sy)
	}

	// The same relative gesture applies to the new size, not a compounded scale.
	tr.SetScale(1.5, 2, vector.Pt{X: 10, Y: 10})
	im = im.Transformed(tr.End())
	if im.Width != 450 || im.Height != 400 {
		t.Fatalf("second resize: %vx%v", im.Width, im.Height)
	}
}

func TestTextTransformerRefusesScale(t *testing.T) {
	tr := ForText(NewText("t", "v"), vector.Size{W: 40, H: 30})
	if tr.CanResize() || tr.SetScale(2, 2, vector.Pt{}) {
		t.Fatalf("labels must not be resizable")
	}
	if g := tr.End(); g.ScaleX != 1 || g.ScaleY != 1 {
		t.Fatalf("unexpected scale: %+v", g)
	}
}

func TestRotateAboutKeepsCenter(t *testing.T) {
	tr := ForImage(ImageElement{ID: "a", X: 0, Y: 0, Width: 100, Height: 50})
	before := tr.Placement().Apply(vector.Pt{X: 50, Y: 25})
	tr.RotateAbout(90)
	after := tr.Placement().Apply(vector.Pt{X: 50, Y: 25})
	if math.Abs(before.X-after.X) > 1e-9 || math.Abs(before.Y-after.Y) > 1e-9 {
		t.Fatalf("center moved: %+v -> %+v", before, after)
	}
	if tr.Rotation() != 90 {
		t.Fatalf("rotation = %v", tr.Rotation())
	}
}
