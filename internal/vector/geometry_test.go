/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRectContainsAndInset(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	in := r.Inset(5, 5)
	if in.X != 15 || in.Y != 25 || in.W != 90 || in.H != 40 {
		t.Fatalf("unexpected inset: %+v", in)
	}
}

func TestAffineBasic(t *testing.T) {
	m := Translate(10, 5).Mul(Scale(2, 3))
	p := m.Apply(Pt{1, 1})
	if p.X != 12 || p.Y != 8 { // (1*2+10, 1*3+5)
		t.Fatalf("unexpected transform result: %+v", p)
	}
}

func TestAffineInvertRoundTrip(t *testing.T) {
	m := Placement(40, 30, 33)
	p := Pt{7, -3}
	q := m.Invert().Apply(m.Apply(p))
	if !near(p.X, q.X) || !near(p.Y, q.Y) {
		t.Fatalf("round trip mismatch: %+v vs %+v", p, q)
	}
	if Scale(0, 1).Invert() != Identity {
		t.Fatalf("singular matrix should invert to identity")
	}
}

func TestPlacementRotatesClockwiseAroundOrigin(t *testing.T) {
	m := Placement(10, 10, 90)
	p := m.Apply(Pt{1, 0})
	// +x rotates onto +y in a y-down space.
	if !near(p.X, 10) || !near(p.Y, 11) {
		t.Fatalf("unexpected rotated point: %+v", p)
	}
}

func TestMapRectRotated(t *testing.T) {
	b := Rotate(Radians(90)).MapRect(R(0, 0, 20, 10))
	if !near(b.X, -10) || !near(b.Y, 0) || !near(b.W, 10) || !near(b.H, 20) {
		t.Fatalf("unexpected bounds: %+v", b)
	}
}

func TestFloatRound(t *testing.T) {
	if got := FloatRound(0.1+0.2, 1); got != 0.3 {
		t.Fatalf("FloatRound = %v", got)
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000")
	if err != nil || c != (Color{255, 128, 0, 255}) {
		t.Fatalf("unexpected: %+v %v", c, err)
	}
	c, err = ParseColor("#0f0")
	if err != nil || c != (Color{0, 255, 0, 255}) {
		t.Fatalf("short form: %+v %v", c, err)
	}
	c, err = ParseColor("transparent")
	if err != nil || c != Transparent {
		t.Fatalf("transparent: %+v %v", c, err)
	}
	if c, _ = ParseColor("#11223380"); c.A != 0x80 || c.Hex() != "#11223380" {
		t.Fatalf("alpha form: %+v", c)
	}
	if _, err = ParseColor("red"); err == nil {
		t.Fatalf("expected error for named color")
	}
	if SolidFill(Transparent).Enabled {
		t.Fatalf("transparent fill should be disabled")
	}
}
