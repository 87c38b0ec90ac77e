/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package ui hosts the desktop shell: the collage canvas, the sidebar forms
// and the upload and export actions. The shell is built only with the
// "fyne" tag; other builds get a stub Run.
package ui

import (
	"path/filepath"
	"strings"

	"collagecreator/internal/editor"
	"collagecreator/internal/render"
	"collagecreator/internal/sidebar"
)

// Options wires an existing editor session into the shell. The surface
// must already be mounted on the session.
type Options struct {
	Session *editor.Session
	Surface *render.Surface
	Panel   *sidebar.Panel
	Title   string
}

// ImageExtensions are the upload types offered by the file dialog.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".tif", ".tiff"}

// IsImageFile reports whether name has one of ImageExtensions.
func IsImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

func (o Options) title() string {
	if strings.TrimSpace(o.Title) != "" {
		return o.Title
	}
	return "Collage Creator"
}
