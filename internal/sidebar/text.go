/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package sidebar

import (
	"errors"

	"collagecreator/internal/domain"
)

// TextForm adds labels and edits the selected one.
type TextForm struct {
	ed       Editor
	NewText  string
	Value    string
	Font     domain.FontFamily
	FontSize Field
	Rotation Field
	Color    string
	// Padding is only editable while the background is enabled.
	BgEnabled bool
	BgColor   string
	Padding   Field
	active    bool
}

func NewTextForm(ed Editor) *TextForm {
	f := &TextForm{ed: ed}
	f.Resync()
	return f
}

func (f *TextForm) Active() bool { return f.active }

// Resync re-seeds every draft from the selected label and clears errors.
// The new-text draft is not tied to a selection and survives.
func (f *TextForm) Resync() {
	t, ok := f.ed.SelectedText()
	f.active = ok
	if !ok {
		f.Value, f.Font, f.Color = "", "", string(domain.DefaultTextColor)
		f.FontSize, f.Rotation, f.Padding = Field{}, Field{}, Field{}
		f.BgEnabled, f.BgColor = false, defaultBackground
		return
	}
	f.Value = t.Value
	f.Font = t.FontFamily
	f.FontSize.seed(t.FontSize)
	f.Rotation = Field{Draft: formatDegrees(t.Rotation)}
	f.Padding.seed(t.Padding)
	f.Color = string(t.Color)
	f.BgEnabled = !t.BackgroundColor.IsTransparent()
	f.BgColor = defaultBackground
	if f.BgEnabled {
		f.BgColor = string(t.BackgroundColor)
	}
}

// SetNewText edits the new-text draft. Typing starts a new entry, which
// clears the selection.
func (f *TextForm) SetNewText(s string) {
	f.ed.BeginText()
	f.NewText = s
	f.Resync()
}

// Add places the new-text draft as a label and empties the draft.
func (f *TextForm) Add() (string, error) {
	if f.NewText == "" {
		return "", errors.New("text to add is empty")
	}
	id, err := f.ed.AddText(f.NewText)
	if err != nil {
		return "", err
	}
	f.NewText = ""
	return id, nil
}

// SetValue replaces the label text. An empty draft is kept but not applied.
func (f *TextForm) SetValue(s string) error {
	t, ok := f.ed.SelectedText()
	if !ok {
		return ErrNoSelection
	}
	f.Value = s
	if s == "" {
		return nil
	}
	t.Value = s
	return f.apply(t)
}

func (f *TextForm) SetFont(name string) error {
	t, ok := f.ed.SelectedText()
	if !ok {
		return ErrNoSelection
	}
	fam, err := domain.ParseFontFamily(name)
	if err != nil {
		return err
	}
	t.FontFamily = fam
	return f.apply(t)
}

func (f *TextForm) SetFontSize(s string) error {
	t, ok := f.ed.SelectedText()
	if !ok {
		return ErrNoSelection
	}
	f.FontSize.edit(s)
	v, err := f.FontSize.positive()
	if err != nil {
		return err
	}
	t.FontSize = v
	return f.apply(t)
}

func (f *TextForm) SetRotation(s string) error {
	t, ok := f.ed.SelectedText()
	if !ok {
		return ErrNoSelection
	}
	f.Rotation.edit(s)
	v, err := parseDegrees(s)
	if err != nil {
		return err
	}
	t.Rotation = v
	return f.apply(t)
}

func (f *TextForm) SetColor(c string) error {
	t, ok := f.ed.SelectedText()
	if !ok {
		return ErrNoSelection
	}
	if err := validColor(c); err != nil {
		return err
	}
	f.Color = c
	t.Color = domain.Color(c)
	return f.apply(t)
}

// SetBackgroundEnabled switches the label background. Turning it on
// restores the padding draft when that is valid; turning it off forces
// padding to 0.
func (f *TextForm) SetBackgroundEnabled(on bool) error {
	t, ok := f.ed.SelectedText()
	if !ok {
		return ErrNoSelection
	}
	f.BgEnabled = on
	if !on {
		t.BackgroundColor = domain.Transparent
		t.Padding = 0
		return f.apply(t)
	}
	t.BackgroundColor = domain.Color(f.BgColor)
	t.Padding = 0
	probe := f.Padding
	if v, err := probe.positive(); err == nil {
		t.Padding = v
	}
	return f.apply(t)
}

func (f *TextForm) SetBackgroundColor(c string) error {
	t, ok := f.ed.SelectedText()
	if !ok {
		return ErrNoSelection
	}
	if !f.BgEnabled {
		return ErrDisabled
	}
	if err := validColor(c); err != nil {
		return err
	}
	f.BgColor = c
	t.BackgroundColor = domain.Color(c)
	return f.apply(t)
}

func (f *TextForm) SetPadding(s string) error {
	t, ok := f.ed.SelectedText()
	if !ok {
		return ErrNoSelection
	}
	if !f.BgEnabled {
		return ErrDisabled
	}
	f.Padding.edit(s)
	v, err := f.Padding.positive()
	if err != nil {
		return err
	}
	t.Padding = v
	return f.apply(t)
}

func (f *TextForm) apply(t domain.TextElement) error {
	if !f.ed.UpdateText(t) {
		return ErrNoSelection
	}
	f.Resync()
	return nil
}
