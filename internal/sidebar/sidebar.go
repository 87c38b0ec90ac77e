/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package sidebar implements the property forms next to the canvas. Forms
// keep string drafts per field; a draft only reaches the store once it is
// valid. Drafts are re-seeded from the selected element whenever the
// selection changes, so they never become a second source of truth.
package sidebar

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"collagecreator/internal/domain"
)

var (
	// ErrInvalid marks a draft that is empty, not a number, or below 1.
	ErrInvalid     = errors.New("value needs to be a number bigger than 0")
	ErrNoSelection = errors.New("no matching element selected")
	ErrDisabled    = errors.New("field is disabled")
)

// Editor is the part of the editing session the forms drive.
type Editor interface {
	SelectedImage() (domain.ImageElement, bool)
	SelectedText() (domain.TextElement, bool)
	UpdateImage(domain.ImageElement) bool
	UpdateText(domain.TextElement) bool
	BeginText()
	AddText(value string) (string, error)
	Area() domain.DownloadArea
	SetArea(domain.DownloadArea) error
}

// Field is one text input: the raw draft and its error flag.
type Field struct {
	Draft string
	Err   bool
}

// edit stores a new draft and clears the error flag, whatever the value.
func (f *Field) edit(s string) { f.Draft, f.Err = s, false }

func (f *Field) seed(v float64) { f.Draft, f.Err = formatNumber(v), false }

// positive parses a size-like draft. Fractions are truncated, so "0.5"
// is rejected like "0".
func (f *Field) positive() (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(f.Draft), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || math.Trunc(v) < 1 {
		f.Err = true
		return 0, ErrInvalid
	}
	return math.Trunc(v), nil
}

func parseDegrees(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalid
	}
	return v, nil
}

func formatNumber(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// formatDegrees shows two decimals like the rotation inputs do.
func formatDegrees(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func validColor(c string) error {
	if strings.TrimSpace(c) == "" {
		return ErrInvalid
	}
	_, err := domain.Color(c).Paint()
	return err
}
