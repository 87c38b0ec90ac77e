/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"strings"
	"time"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
	PresetPhoto PresetName = "photo"
)

// BaseName is the fixed file name stem of every export.
const BaseName = "collage"

// Options controls one export run.
type Options struct {
	Format      Format
	PixelRatio  float64 // 1 captures the area at its exact size
	JPEGQuality int
	Title       string
	BaseName    string
	// Settle bounds the wait for the export frame when the surface cannot
	// acknowledge commits; AckTimeout bounds the acknowledged wait.
	Settle     time.Duration
	AckTimeout time.Duration
}

// DefaultOptions exports a PNG at pixel ratio 1.
func DefaultOptions() Options {
	return Options{
		Format:      FormatPNG,
		PixelRatio:  1,
		JPEGQuality: 90,
		BaseName:    BaseName,
		Settle:      time.Second,
		AckTimeout:  5 * time.Second,
	}
}

// Preset returns the options for a named preset.
func Preset(name PresetName) (Options, error) {
	o := DefaultOptions()
	switch PresetName(strings.ToLower(string(name))) {
	case PresetWeb, "":
	case PresetPrint:
		o.Format = FormatPDF
	case PresetPhoto:
		o.Format = FormatJPEG
		o.JPEGQuality = 95
	default:
		return Options{}, fmt.Errorf("unknown export preset: %s", name)
	}
	return o, nil
}

// FileName is the output file name for the options' format.
func (o Options) FileName() string {
	base := strings.TrimSpace(o.BaseName)
	if base == "" {
		base = BaseName
	}
	f := o.Format
	if f == "" {
		f = FormatPNG
	}
	return base + f.Ext()
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Format == "" {
		o.Format = d.Format
	}
	if o.PixelRatio <= 0 {
		o.PixelRatio = d.PixelRatio
	}
	if o.BaseName == "" {
		o.BaseName = d.BaseName
	}
	if o.Settle <= 0 {
		o.Settle = d.Settle
	}
	if o.AckTimeout <= 0 {
		o.AckTimeout = d.AckTimeout
	}
	return o
}
