/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package sidebar

import (
	"math"

	"collagecreator/internal/domain"
)

// ImageForm edits the selected image. KeepRatio couples width and height
// edits and defaults to on.
type ImageForm struct {
	ed        Editor
	Width     Field
	Height    Field
	Rotation  Field
	KeepRatio bool
	active    bool
}

func NewImageForm(ed Editor) *ImageForm {
	f := &ImageForm{ed: ed, KeepRatio: true}
	f.Resync()
	return f
}

// Active reports whether an image is selected and the form is editable.
func (f *ImageForm) Active() bool { return f.active }

// Resync re-seeds every draft from the selected image and clears errors.
func (f *ImageForm) Resync() {
	im, ok := f.ed.SelectedImage()
	f.active = ok
	if !ok {
		f.Width, f.Height, f.Rotation = Field{}, Field{}, Field{}
		return
	}
	f.Width.seed(im.Width)
	f.Height.seed(im.Height)
	f.Rotation = Field{Draft: formatDegrees(im.Rotation)}
}

func (f *ImageForm) SetWidth(s string) error {
	im, ok := f.ed.SelectedImage()
	if !ok {
		return ErrNoSelection
	}
	f.Width.edit(s)
	v, err := f.Width.positive()
	if err != nil {
		return err
	}
	if f.KeepRatio && im.Width > 0 && im.Height > 0 {
		im.Height = math.Round(v * im.Height / im.Width)
	}
	im.Width = v
	return f.apply(im)
}

func (f *ImageForm) SetHeight(s string) error {
	im, ok := f.ed.SelectedImage()
	if !ok {
		return ErrNoSelection
	}
	f.Height.edit(s)
	v, err := f.Height.positive()
	if err != nil {
		return err
	}
	if f.KeepRatio && im.Width > 0 && im.Height > 0 {
		im.Width = math.Round(v * im.Width / im.Height)
	}
	im.Height = v
	return f.apply(im)
}

// SetRotation sets the rotation directly; the image turns about its origin.
// A non-numeric draft is kept without touching the image.
func (f *ImageForm) SetRotation(s string) error {
	im, ok := f.ed.SelectedImage()
	if !ok {
		return ErrNoSelection
	}
	f.Rotation.edit(s)
	v, err := parseDegrees(s)
	if err != nil {
		return err
	}
	im.Rotation = v
	return f.apply(im)
}

func (f *ImageForm) ToggleKeepRatio() { f.KeepRatio = !f.KeepRatio }

func (f *ImageForm) apply(im domain.ImageElement) error {
	if !f.ed.UpdateImage(im) {
		return ErrNoSelection
	}
	f.Resync()
	return nil
}
