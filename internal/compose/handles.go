/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package compose

import (
	"collagecreator/internal/domain"
	"collagecreator/internal/vector"
)

// Handle sizes are in screen pixels and stay constant under zoom.
const (
	HandleSize = 8
	KnobOffset = 30
)

// HandleKind names one grip of the transform handles.
type HandleKind int

const (
	HandleNone HandleKind = iota
	HandleTopLeft
	HandleTopRight
	HandleBottomRight
	HandleBottomLeft
	HandleRotate
)

var corners = []HandleKind{HandleTopLeft, HandleTopRight, HandleBottomRight, HandleBottomLeft}

// Opposite returns the corner that stays fixed while k is dragged.
func (k HandleKind) Opposite() HandleKind {
	switch k {
	case HandleTopLeft:
		return HandleBottomRight
	case HandleTopRight:
		return HandleBottomLeft
	case HandleBottomRight:
		return HandleTopLeft
	case HandleBottomLeft:
		return HandleTopRight
	default:
		return HandleNone
	}
}

func (k HandleKind) IsCorner() bool { return k >= HandleTopLeft && k <= HandleBottomLeft }

// Handles describes the transform grips drawn around the selected element.
// Images get resize corners and a rotate knob; labels only the knob.
type Handles struct {
	ID        string
	Kind      domain.Kind
	Placement vector.Affine2D
	Box       vector.Size
	Resize    bool
	Rotate    bool
}

// Local returns the grip position in the element's local space.
func (h *Handles) Local(k HandleKind) vector.Pt {
	switch k {
	case HandleTopLeft:
		return vector.Pt{}
	case HandleTopRight:
		return vector.Pt{X: h.Box.W}
	case HandleBottomRight:
		return vector.Pt{X: h.Box.W, Y: h.Box.H}
	case HandleBottomLeft:
		return vector.Pt{Y: h.Box.H}
	case HandleRotate:
		return vector.Pt{X: h.Box.W / 2, Y: -KnobOffset}
	default:
		return vector.Pt{}
	}
}

// Anchor returns the grip position in scene space.
func (h *Handles) Anchor(k HandleKind) vector.Pt { return h.Placement.Apply(h.Local(k)) }

// Visible lists the grips the element offers.
func (h *Handles) Visible() []HandleKind {
	var out []HandleKind
	if h.Resize {
		out = append(out, corners...)
	}
	if h.Rotate {
		out = append(out, HandleRotate)
	}
	return out
}

// At returns the grip under a scene point. scale is the view zoom, so the
// grab tolerance matches the on-screen handle size.
func (h *Handles) At(p vector.Pt, scale float64) HandleKind {
	if h == nil {
		return HandleNone
	}
	if scale <= 0 {
		scale = 1
	}
	tol := HandleSize / scale
	for _, k := range h.Visible() {
		if h.Anchor(k).Dist(p) <= tol {
			return k
		}
	}
	return HandleNone
}
