/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package compose

import (
	"testing"

	"collagecreator/internal/domain"
	"collagecreator/internal/textlayout"
	"collagecreator/internal/vector"
)

func sampleInput() Input {
	a := domain.NewImage("A", "blob:A")
	a.Width, a.Height = 100, 80
	b := domain.NewImage("B", "blob:B")
	b.X, b.Width, b.Height = 200, 50, 50
	tx := domain.NewText("T", "Hi")
	return Input{
		Images: []domain.ImageElement{a, b},
		Texts:  []domain.TextElement{tx},
		Area:   domain.DefaultDownloadArea(),
		Scale:  0.5,
		Fonts:  textlayout.BasicProvider{},
	}
}

func childIDs(f *Frame) []string {
	var out []string
	for _, c := range f.Root.Children {
		out = append(out, c.ID())
	}
	return out
}

func TestComposePaintOrder(t *testing.T) {
	f := Compose(sampleInput())
	got := childIDs(f)
	want := []string{AreaID, "A", "B", "T", BorderID}
	if len(got) != len(want) {
		t.Fatalf("unexpected children: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("paint order %v, want %v", got, want)
		}
	}
	if f.Root.Transform() != vector.Scale(0.5, 0.5) {
		t.Fatalf("zoom not applied at root: %+v", f.Root.Transform())
	}
}

func TestComposeExportingPinsScaleAndDropsBorder(t *testing.T) {
	in := sampleInput()
	in.Exporting = true
	in.Selected = "A"
	f := Compose(in)
	for _, id := range childIDs(f) {
		if id == BorderID {
			t.Fatalf("border must not be drawn while exporting")
		}
	}
	if f.Scale != 1 || f.Root.Transform() != vector.Identity {
		t.Fatalf("export frame must be unscaled: %v", f.Scale)
	}
	if f.Handles != nil {
		t.Fatalf("no handles while exporting")
	}
	if f.Area != vector.R(10, 10, 500, 500) {
		t.Fatalf("unexpected area rect: %+v", f.Area)
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	in := sampleInput()
	a, b := Compose(in), Compose(in)
	if len(a.Root.Children) != len(b.Root.Children) {
		t.Fatalf("frames differ in size")
	}
	for i := range a.Root.Children {
		if a.Root.Children[i].ID() != b.Root.Children[i].ID() || a.Root.Children[i].Bounds() != b.Root.Children[i].Bounds() {
			t.Fatalf("frames differ at %d", i)
		}
	}
}

func TestComposeHandlesFollowSelection(t *testing.T) {
	in := sampleInput()
	in.Selected = "A"
	f := Compose(in)
	if f.Handles == nil || f.Handles.ID != "A" || !f.Handles.Resize || !f.Handles.Rotate {
		t.Fatalf("image should get resize and rotate handles: %+v", f.Handles)
	}
	in.Selected = "T"
	f = Compose(in)
	if f.Handles == nil || f.Handles.Resize || !f.Handles.Rotate {
		t.Fatalf("label should get rotate-only handles: %+v", f.Handles)
	}
	in.Selected = ""
	if Compose(in).Handles != nil {
		t.Fatalf("no selection, no handles")
	}
}

func TestComposeLabelBoxIncludesPadding(t *testing.T) {
	in := sampleInput()
	in.Texts[0].BackgroundColor = "#ffffff"
	in.Texts[0].Padding = 4
	f := Compose(in)
	box := f.Labels["T"]
	// BasicProvider: 7px per glyph, line height = font size.
	if box.Width != 14+8 || box.Height != 30+8 {
		t.Fatalf("unexpected label box: %vx%v", box.Width, box.Height)
	}
	n := f.Root.Children[3].(*vector.LabelNode)
	if !n.Fill().Enabled || n.Padding != 4 {
		t.Fatalf("label background not set: %+v", n)
	}
}

func TestHitTestTopMostAndTargets(t *testing.T) {
	in := sampleInput()
	in.Scale = 1
	f := Compose(in)
	// Label "T" at (10,10) overlaps image A; texts paint above images.
	if h := f.HitTest(vector.Pt{X: 12, Y: 12}); h.Target != TargetElement || h.ID != "T" || h.Kind != domain.KindText {
		t.Fatalf("expected text hit, got %+v", h)
	}
	if h := f.HitTest(vector.Pt{X: 90, Y: 80}); h.ID != "A" || h.Kind != domain.KindImage {
		t.Fatalf("expected image A, got %+v", h)
	}
	if h := f.HitTest(vector.Pt{X: 400, Y: 400}); h.Target != TargetArea {
		t.Fatalf("expected area, got %+v", h)
	}
	if h := f.HitTest(vector.Pt{X: 515, Y: 515}); h.Target != TargetBackground {
		t.Fatalf("expected background, got %+v", h)
	}
}

func TestHitTestHonorsZoom(t *testing.T) {
	f := Compose(sampleInput()) // scale 0.5
	if h := f.HitTest(vector.Pt{X: 110, Y: 10}); h.ID != "B" {
		t.Fatalf("expected B at zoomed point, got %+v", h)
	}
	if p := f.ToScene(vector.Pt{X: 50, Y: 25}); p.X != 100 || p.Y != 50 {
		t.Fatalf("ToScene = %+v", p)
	}
}

func TestActiveTransformerOverridesNode(t *testing.T) {
	in := sampleInput()
	tr := domain.ForImage(in.Images[0])
	tr.MoveTo(300, 300)
	in.Active = tr
	f := Compose(in)
	if b := f.Root.Children[1].Bounds(); b.X != 300 || b.Y != 300 {
		t.Fatalf("active gesture not reflected: %+v", b)
	}
}

func TestStageSizeGrowsWithContent(t *testing.T) {
	in := sampleInput()
	in.Scale = 1
	if s := Compose(in).StageSize(); s.W != 520 || s.H != 520 {
		t.Fatalf("unexpected stage: %+v", s)
	}
	in.Images[1].X = 700
	if s := Compose(in).StageSize(); s.W != 750 {
		t.Fatalf("stage should grow to content: %+v", s)
	}
}

func TestHandlesAt(t *testing.T) {
	h := &Handles{Placement: vector.Placement(10, 10, 0), Box: vector.Size{W: 100, H: 50}, Resize: true, Rotate: true}
	if k := h.At(vector.Pt{X: 111, Y: 61}, 1); k != HandleBottomRight {
		t.Fatalf("expected bottom-right, got %v", k)
	}
	if k := h.At(vector.Pt{X: 60, Y: -20}, 1); k != HandleRotate {
		t.Fatalf("expected rotate knob, got %v", k)
	}
	if k := h.At(vector.Pt{X: 60, Y: 35}, 1); k != HandleNone {
		t.Fatalf("expected none in the middle, got %v", k)
	}
	// At half zoom the grab radius doubles in scene units.
	if k := h.At(vector.Pt{X: 24, Y: 10}, 0.5); k != HandleTopLeft {
		t.Fatalf("expected top-left at zoom 0.5, got %v", k)
	}
	if HandleTopLeft.Opposite() != HandleBottomRight || HandleRotate.IsCorner() {
		t.Fatalf("handle helpers mismatch")
	}
	var none *Handles
	if none.At(vector.Pt{}, 1) != HandleNone {
		t.Fatalf("nil handles should hit nothing")
	}
}
