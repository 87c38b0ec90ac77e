/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"testing"
)

func TestNewTextStarterStyle(t *testing.T) {
	tx := NewText("t1", "Hello")
	if tx.X != 10 || tx.Y != 10 || tx.Rotation != 0 {
		t.Fatalf("unexpected position: %+v", tx)
	}
	if tx.FontFamily != FontDefault || tx.FontSize != 30 || tx.Color != "#000000" {
		t.Fatalf("unexpected style: %+v", tx)
	}
	if !tx.BackgroundColor.IsTransparent() || tx.Padding != 0 {
		t.Fatalf("expected no background: %+v", tx)
	}
}

func TestNewImageIsUnsized(t *testing.T) {
	im := NewImage("i1", "blob:i1")
	if im.Sized() || im.X != 10 || im.Y != 10 {
		t.Fatalf("unexpected starter image: %+v", im)
	}
}

func TestNormalizedDropsPaddingWithoutBackground(t *testing.T) {
	tx := NewText("t", "x")
	tx.Padding = 12
	if got := tx.Normalized(); got.Padding != 0 {
		t.Fatalf("padding should be forced to 0, got %v", got.Padding)
	}
	tx.BackgroundColor = "#ffffff"
	if got := tx.Normalized(); got.Padding != 12 {
		t.Fatalf("padding should be kept with background, got %v", got.Padding)
	}
}

func TestFontFamilyFaceNames(t *testing.T) {
	want := map[FontFamily]string{
		FontDefault:   "Roboto",
		FontSerif:     "Times New Roman",
		FontSans:      "Arial",
		FontMonospace: "Courier",
	}
	for f, name := range want {
		if f.FaceName() != name {
			t.Fatalf("%s maps to %q, want %q", f, f.FaceName(), name)
		}
		got, err := ParseFontFamily(name)
		if err != nil || got != f {
			t.Fatalf("ParseFontFamily(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseFontFamily("Comic Sans"); err == nil {
		t.Fatalf("expected error for unknown family")
	}
}

func TestColorPaint(t *testing.T) {
	c, err := Transparent.Paint()
	if err != nil || c.A != 0 {
		t.Fatalf("transparent should paint nothing: %+v %v", c, err)
	}
	c, err = Color("#ff0000").Paint()
	if err != nil || c.R != 255 || c.A != 255 {
		t.Fatalf("unexpected paint: %+v %v", c, err)
	}
}

func TestTextElementJSONFieldNames(t *testing.T) {
	b, err := json.Marshal(NewText("t", "v"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"fontFamily", "fontSize", "backgroundColor", "padding"} {
		if _, ok := m[k]; !ok {
			t.Fatalf("missing key %q in %s", k, b)
		}
	}
}
