/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"path/filepath"
	"testing"
)

func TestLayout_BasicProviderIsDeterministic(t *testing.T) {
	b := Layout(BasicProvider{}, "Hello", FontSpec{Family: "Roboto", Size: 30}, 0)
	if len(b.Lines) != 1 || b.Lines[0].Width != 35 {
		t.Fatalf("unexpected line: %+v", b.Lines)
	}
	if b.Width != 35 || b.Height != 30 {
		t.Fatalf("unexpected box: %vx%v", b.Width, b.Height)
	}
}

func TestLayout_PaddingAndNewlines(t *testing.T) {
	b := Layout(BasicProvider{}, "ab\nabcd", FontSpec{Size: 20}, 5)
	if len(b.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(b.Lines))
	}
	if b.Width != 28+10 || b.Height != 40+10 {
		t.Fatalf("unexpected box: %vx%v", b.Width, b.Height)
	}
	if b.Baseline(1) <= b.Baseline(0) || b.Baseline(0) <= 5 {
		t.Fatalf("baselines out of order: %v %v", b.Baseline(0), b.Baseline(1))
	}
}

func TestLayout_EmptyTextKeepsOneLine(t *testing.T) {
	b := Layout(nil, "", FontSpec{Size: 30}, 0)
	if len(b.Lines) != 1 || b.Width != 0 || b.Height != 30 {
		t.Fatalf("unexpected empty layout: %+v", b)
	}
}

func TestMeasure_Deterministic(t *testing.T) {
	w1, h1 := Measure(BasicProvider{}, "ABC", FontSpec{Size: 10})
	w2, h2 := Measure(BasicProvider{}, "A\nC", FontSpec{Size: 10})
	if w1 != w2 || h1 != h2 {
		t.Fatalf("expected same measure, got w1=%v h1=%v vs w2=%v h2=%v", w1, h1, w2, h2)
	}
}

func TestFaceProvider_BundledFontsScaleWithSize(t *testing.T) {
	p := FaceProvider{}
	small := Layout(p, "Collage", FontSpec{Family: "Roboto", Size: 12}, 0)
	large := Layout(p, "Collage", FontSpec{Family: "Roboto", Size: 48}, 0)
	if large.Width <= small.Width*3 {
		t.Fatalf("expected width to scale with size: %v vs %v", small.Width, large.Width)
	}
	mono := Layout(p, "iiii", FontSpec{Family: "Courier", Size: 20}, 0)
	prop := Layout(p, "iiii", FontSpec{Family: "Arial", Size: 20}, 0)
	if mono.Width <= prop.Width {
		t.Fatalf("monospace i should be wider than proportional i: %v vs %v", mono.Width, prop.Width)
	}
	// Unknown families fall back to the default face.
	if u := Layout(p, "Collage", FontSpec{Family: "Nope", Size: 12}, 0); u.Width != small.Width {
		t.Fatalf("unknown family should use the default face: %v vs %v", u.Width, small.Width)
	}
}

func TestFontLibrary_LoadErrors(t *testing.T) {
	fl := NewFontLibrary()
	if err := fl.LoadTTF("Roboto", filepath.Join(t.TempDir(), "missing.ttf")); err == nil {
		t.Fatalf("expected read error")
	}
	if fl.Has("Roboto") {
		t.Fatalf("failed load must not register a face")
	}
}
