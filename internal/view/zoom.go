/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package view holds the display zoom of the editor canvas.
package view

import (
	"math"
	"sync"
)

const (
	DefaultScale = 1.0
	MinScale     = 0.2
	MaxScale     = 1.0
	Step         = 0.1

	eps = 1e-9
)

// Zoom is a clamped display scale moved in fixed steps. It only affects
// presentation; element coordinates stay in scene pixels.
type Zoom struct {
	mu    sync.RWMutex
	scale float64
	min   float64
	max   float64
	step  float64
}

// NewZoom returns a zoom at the default scale using the given bounds. Zero
// values fall back to the defaults.
func NewZoom(minScale, maxScale, step float64) *Zoom {
	if minScale <= 0 {
		minScale = MinScale
	}
	if maxScale <= 0 || maxScale < minScale {
		maxScale = MaxScale
	}
	if step <= 0 {
		step = Step
	}
	return &Zoom{scale: clamp(DefaultScale, minScale, maxScale), min: minScale, max: maxScale, step: step}
}

func (z *Zoom) Scale() float64 {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.scale
}

// CanZoomIn is false once the scale reaches the upper bound.
func (z *Zoom) CanZoomIn() bool {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.scale < z.max-eps
}

// CanZoomOut is false once the scale reaches the lower bound.
func (z *Zoom) CanZoomOut() bool {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.scale > z.min+eps
}

// ZoomIn steps up and reports whether the scale changed.
func (z *Zoom) ZoomIn() bool { return z.stepBy(1) }

// ZoomOut steps down and reports whether the scale changed.
func (z *Zoom) ZoomOut() bool { return z.stepBy(-1) }

func (z *Zoom) Reset() {
	z.mu.Lock()
	z.scale = clamp(DefaultScale, z.min, z.max)
	z.mu.Unlock()
}

func (z *Zoom) stepBy(dir float64) bool {
	z.mu.Lock()
	defer z.mu.Unlock()
	if dir > 0 && z.scale >= z.max-eps || dir < 0 && z.scale <= z.min+eps {
		return false
	}
	// Snap to a multiple of the step so repeated steps do not drift.
	next := math.Round((z.scale+dir*z.step)/z.step) * z.step
	next = clamp(math.Round(next*1e6)/1e6, z.min, z.max)
	if math.Abs(next-z.scale) < eps {
		return false
	}
	z.scale = next
	return true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
