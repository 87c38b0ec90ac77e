/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Label measurement. Labels are laid out like a canvas text node: lines
// break only at explicit newlines, every line is fontSize tall, and the
// block is inset by the label padding.

import (
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontSpec describes a requested font. Family is a concrete face name
// such as "Roboto"; Size is in scene pixels.
type FontSpec struct {
	Family string
	Size   float64
}

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent, LineGap float64
}

// Provider maps FontSpec to a concrete font.Face. Faces are not safe for
// concurrent use, so implementations return a fresh face per call.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// BasicProvider uses x/image/basicfont Face7x13 for deterministic tests.
// Every glyph advances 7px regardless of the requested size.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	return f, metricsOf(f)
}

func metricsOf(f font.Face) Metrics {
	m := f.Metrics()
	return Metrics{
		Ascent:  float64(m.Ascent.Round()),
		Descent: float64(m.Descent.Round()),
		LineGap: float64(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

// Line is a single laid out line.
type Line struct {
	Text  string
	Width float64
}

// TextBox is the result of laying out a label.
type TextBox struct {
	Lines      []Line
	LineHeight float64
	// Width and Height include padding on both sides.
	Width, Height float64
	Padding       float64
	Metrics       Metrics
}

// Baseline returns the baseline y of line i relative to the box top.
func (b TextBox) Baseline(i int) float64 {
	lead := (b.LineHeight - (b.Metrics.Ascent + b.Metrics.Descent)) / 2
	return b.Padding + float64(i)*b.LineHeight + lead + b.Metrics.Ascent
}

// Layout measures text in the given font. An empty string still yields one
// empty line so a freshly cleared label keeps a hit area.
func Layout(p Provider, text string, spec FontSpec, padding float64) TextBox {
	if p == nil {
		p = BasicProvider{}
	}
	if spec.Size <= 0 {
		spec.Size = 12
	}
	face, met := p.Resolve(spec)
	box := TextBox{LineHeight: math.Max(spec.Size, met.Ascent+met.Descent), Padding: padding, Metrics: met}
	var maxW float64
	for _, s := range strings.Split(text, "\n") {
		w := advance(face, s)
		box.Lines = append(box.Lines, Line{Text: s, Width: w})
		maxW = math.Max(maxW, w)
	}
	box.Width = math.Ceil(maxW) + 2*padding
	box.Height = float64(len(box.Lines))*box.LineHeight + 2*padding
	return box
}

func advance(f font.Face, s string) float64 {
	return float64(font.MeasureString(f, s)) / 64 // fixed.Int26_6 to px
}

// Measure returns the width and line height of a single line without padding.
func Measure(p Provider, text string, spec FontSpec) (w, h float64) {
	b := Layout(p, strings.ReplaceAll(text, "\n", " "), spec, 0)
	return b.Width, b.Height
}
