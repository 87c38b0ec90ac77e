/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "testing"

func TestRectNode_HitAndBounds(t *testing.T) {
	n := NewRect("area", R(0, 0, 100, 50), Fill{Enabled: true, Color: White}, Stroke{Enabled: true, Width: 1})
	n.SetTransform(Translate(10, 20))
	if !n.Hit(Pt{50 + 10, 25 + 20}) {
		t.Fatalf("expected hit after translation")
	}
	b := n.Bounds()
	if b.X != 10 || b.Y != 20 || b.W != 100 || b.H != 50 {
		t.Fatalf("unexpected bounds: %+v", b)
	}
	if n.ID() != "area" {
		t.Fatalf("id not kept: %q", n.ID())
	}
}

func TestImageNode_RotatedHit(t *testing.T) {
	n := NewImage("a", "blob:a", Size{W: 100, H: 20})
	n.SetTransform(Placement(50, 50, 90))
	// Rotated 90° clockwise around (50,50): occupies x in [30,50], y in [50,150].
	if !n.Hit(Pt{40, 120}) {
		t.Fatalf("expected hit inside rotated image")
	}
	if n.Hit(Pt{120, 55}) {
		t.Fatalf("unrotated footprint should miss")
	}
}

func TestLabelNode_LocalIncludesPadding(t *testing.T) {
	n := NewLabel("t", "hi", FontRef{Family: "Roboto", Size: 30}, Black, SolidFill(White), 5, Size{W: 40, H: 40})
	if n.Local() != R(0, 0, 40, 40) {
		t.Fatalf("unexpected local box: %+v", n.Local())
	}
	if !n.Fill().Enabled {
		t.Fatalf("background fill should be enabled")
	}
}

func TestPolylineIsPassive(t *testing.T) {
	n := NewPolyline("border", []Pt{{0, 0}, {10, 0}, {10, 10}}, Stroke{Enabled: true, Width: 1})
	if n.Hit(Pt{5, 0}) {
		t.Fatalf("polyline must not take hits")
	}
	if b := n.Bounds(); b.W != 10 || b.H != 10 {
		t.Fatalf("unexpected bounds: %+v", b)
	}
}

func TestGroup_HitNodeTopMostAndScaled(t *testing.T) {
	bottom := NewRect("bottom", R(0, 0, 50, 50), Fill{}, Stroke{})
	top := NewRect("top", R(25, 25, 50, 50), Fill{}, Stroke{})
	g := NewGroup(bottom, top)
	g.SetTransform(Scale(0.5, 0.5))

	// (15,15) on screen is (30,30) in scene space: both overlap, top wins.
	if n := g.HitNode(Pt{15, 15}); n == nil || n.ID() != "top" {
		t.Fatalf("expected top-most node, got %v", n)
	}
	if n := g.HitNode(Pt{5, 5}); n == nil || n.ID() != "bottom" {
		t.Fatalf("expected bottom node, got %v", n)
	}
	if g.Hit(Pt{200, 200}) {
		t.Fatalf("expected miss outside children")
	}
	b := g.Bounds()
	if b.W != 37.5 || b.H != 37.5 {
		t.Fatalf("unexpected group bounds: %+v", b)
	}
}
