/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the scene data model of the collage editor: placed
// images, text labels and the download area. All geometry is in scene
// pixels; the view zoom never leaks into these values.

import (
	"fmt"
	"strings"

	"collagecreator/internal/vector"
)

// Starter values for newly placed elements.
const (
	StartX = 10
	StartY = 10

	DefaultFontSize   = 30
	DefaultTextColor  = Color("#000000")
	DefaultAreaWidth  = 500
	DefaultAreaHeight = 500
)

// Kind tells images and texts apart where an id alone is not enough.
type Kind int

const (
	KindNone Kind = iota
	KindImage
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindText:
		return "text"
	default:
		return "none"
	}
}

// Color is a CSS-like hex color or the sentinel "transparent".
type Color string

const Transparent Color = "transparent"

func (c Color) IsTransparent() bool {
	s := strings.TrimSpace(strings.ToLower(string(c)))
	return s == "" || s == string(Transparent) || s == "none"
}

// Paint resolves the color for drawing. The empty string paints nothing.
func (c Color) Paint() (vector.Color, error) {
	if c.IsTransparent() {
		return vector.Transparent, nil
	}
	return vector.ParseColor(string(c))
}

// FontFamily is the closed set of families offered for labels.
type FontFamily string

const (
	FontDefault   FontFamily = "Default"
	FontSerif     FontFamily = "Serif"
	FontSans      FontFamily = "Sans"
	FontMonospace FontFamily = "Monospace"
)

// FontFamilies lists the families in menu order.
var FontFamilies = []FontFamily{FontDefault, FontSerif, FontSans, FontMonospace}

// FaceName maps the family to the concrete font requested from the font library.
func (f FontFamily) FaceName() string {
	switch f {
	case FontSerif:
		return "Times New Roman"
	case FontSans:
		return "Arial"
	case FontMonospace:
		return "Courier"
	default:
		return "Roboto"
	}
}

// ParseFontFamily accepts a family name or one of the concrete face names.
func ParseFontFamily(s string) (FontFamily, error) {
	s = strings.TrimSpace(s)
	for _, f := range FontFamilies {
		if strings.EqualFold(s, string(f)) || strings.EqualFold(s, f.FaceName()) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown font family %q", s)
}

// ImageElement is a placed raster image.
type ImageElement struct {
	ID       string  `json:"id"`
	ImageURL string  `json:"imageUrl"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
}

// NewImage returns an unsized image at the starter position. Width and
// height stay 0 until the decode source reports the natural size.
func NewImage(id, ref string) ImageElement {
	return ImageElement{ID: id, ImageURL: ref, X: StartX, Y: StartY}
}

// Sized reports whether the image ever received a size.
func (im ImageElement) Sized() bool { return im.Width != 0 || im.Height != 0 }

// TextElement is a placed text label.
type TextElement struct {
	ID              string     `json:"id"`
	Value           string     `json:"value"`
	X               float64    `json:"x"`
	Y               float64    `json:"y"`
	Rotation        float64    `json:"rotation"`
	FontFamily      FontFamily `json:"fontFamily"`
	FontSize        float64    `json:"fontSize"`
	Color           Color      `json:"color"`
	BackgroundColor Color      `json:"backgroundColor"`
	Padding         float64    `json:"padding"`
}

// NewText returns a label with the starter style.
func NewText(id, value string) TextElement {
	return TextElement{
		ID:              id,
		Value:           value,
		X:               StartX,
		Y:               StartY,
		FontFamily:      FontDefault,
		FontSize:        DefaultFontSize,
		Color:           DefaultTextColor,
		BackgroundColor: Transparent,
	}
}

// Normalized enforces that a label without background carries no padding.
func (t TextElement) Normalized() TextElement {
	if t.BackgroundColor.IsTransparent() {
		t.Padding = 0
	}
	if t.FontFamily == "" {
		t.FontFamily = FontDefault
	}
	return t
}

// DownloadArea is the exported region of the scene.
type DownloadArea struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Background Color   `json:"background"`
}

func DefaultDownloadArea() DownloadArea {
	return DownloadArea{Width: DefaultAreaWidth, Height: DefaultAreaHeight, Background: Transparent}
}
