/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package sidebar

import "collagecreator/internal/domain"

const defaultBackground = "#ffffff"

// AreaForm edits the download area.
type AreaForm struct {
	ed        Editor
	Width     Field
	Height    Field
	BgEnabled bool
	BgColor   string
}

func NewAreaForm(ed Editor) *AreaForm {
	f := &AreaForm{ed: ed}
	a := ed.Area()
	f.Width.seed(a.Width)
	f.Height.seed(a.Height)
	f.BgEnabled = !a.Background.IsTransparent()
	f.BgColor = defaultBackground
	if f.BgEnabled {
		f.BgColor = string(a.Background)
	}
	return f
}

func (f *AreaForm) SetWidth(s string) error {
	f.Width.edit(s)
	v, err := f.Width.positive()
	if err != nil {
		return err
	}
	a := f.ed.Area()
	a.Width = v
	return f.ed.SetArea(a)
}

func (f *AreaForm) SetHeight(s string) error {
	f.Height.edit(s)
	v, err := f.Height.positive()
	if err != nil {
		return err
	}
	a := f.ed.Area()
	a.Height = v
	return f.ed.SetArea(a)
}

// SetBackgroundEnabled toggles between the chosen color and transparent.
func (f *AreaForm) SetBackgroundEnabled(on bool) error {
	f.BgEnabled = on
	a := f.ed.Area()
	a.Background = domain.Transparent
	if on {
		a.Background = domain.Color(f.BgColor)
	}
	return f.ed.SetArea(a)
}

// SetBackgroundColor remembers c and applies it while the background is on.
func (f *AreaForm) SetBackgroundColor(c string) error {
	if err := validColor(c); err != nil {
		return err
	}
	f.BgColor = c
	if !f.BgEnabled {
		return nil
	}
	a := f.ed.Area()
	a.Background = domain.Color(c)
	return f.ed.SetArea(a)
}
