/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package sidebar

import (
	"fmt"
	"strings"
)

// Panel groups the three forms. Call Resync on every selection change;
// the editor's selection listener does this when Bind is used.
type Panel struct {
	Area  *AreaForm
	Image *ImageForm
	Text  *TextForm
}

func NewPanel(ed Editor) *Panel {
	return &Panel{Area: NewAreaForm(ed), Image: NewImageForm(ed), Text: NewTextForm(ed)}
}

// Bind registers Resync with a selection listener such as
// (*selection.Controller).OnChange.
func (p *Panel) Bind(onChange func(func(id string))) {
	onChange(func(string) { p.Resync() })
}

func (p *Panel) Resync() {
	p.Image.Resync()
	p.Text.Resync()
}

// Set edits one field of the selected element by name. Image fields are
// width, height, rotation and ratio; label fields are value, font, size,
// rotation, color, background and padding. "background off" disables a
// label background, any other value enables it with that color.
func (p *Panel) Set(field, value string) error {
	field = strings.ToLower(strings.TrimSpace(field))
	if p.Image.Active() {
		switch field {
		case "width":
			return p.Image.SetWidth(value)
		case "height":
			return p.Image.SetHeight(value)
		case "rotation":
			return p.Image.SetRotation(value)
		case "ratio", "keep-ratio":
			p.Image.KeepRatio = isOn(value)
			return nil
		}
		return fmt.Errorf("unknown image field %q", field)
	}
	if p.Text.Active() {
		switch field {
		case "value", "text":
			return p.Text.SetValue(value)
		case "font":
			return p.Text.SetFont(value)
		case "size":
			return p.Text.SetFontSize(value)
		case "rotation":
			return p.Text.SetRotation(value)
		case "color":
			return p.Text.SetColor(value)
		case "background":
			if strings.EqualFold(value, "off") || strings.EqualFold(value, "none") {
				return p.Text.SetBackgroundEnabled(false)
			}
			if err := validColor(value); err != nil {
				return err
			}
			p.Text.BgColor = value
			return p.Text.SetBackgroundEnabled(true)
		case "padding":
			return p.Text.SetPadding(value)
		}
		return fmt.Errorf("unknown text field %q", field)
	}
	return ErrNoSelection
}

// Errors lists the fields whose error flag is set, for display.
func (p *Panel) Errors() []string {
	var out []string
	add := func(name string, f Field) {
		if f.Err {
			out = append(out, name)
		}
	}
	add("area.width", p.Area.Width)
	add("area.height", p.Area.Height)
	add("image.width", p.Image.Width)
	add("image.height", p.Image.Height)
	add("text.size", p.Text.FontSize)
	add("text.padding", p.Text.Padding)
	return out
}

func isOn(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "yes", "1":
		return true
	}
	return false
}
