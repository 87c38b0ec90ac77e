/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/opentype"
)

// FontLibrary stores user supplied OpenType fonts mapped by face name.
type FontLibrary struct {
	mu    sync.RWMutex
	fonts map[string]*opentype.Font
}

func NewFontLibrary() *FontLibrary { return &FontLibrary{fonts: make(map[string]*opentype.Font)} }

// LoadTTF loads a font file into the library under the given face name.
func (fl *FontLibrary) LoadTTF(family, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", path, err)
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.fonts == nil {
		fl.fonts = make(map[string]*opentype.Font)
	}
	fl.fonts[key(family)] = f
	return nil
}

// Has reports whether a face name was loaded.
func (fl *FontLibrary) Has(family string) bool { return fl.find(family) != nil }

func (fl *FontLibrary) find(family string) *opentype.Font {
	if fl == nil {
		return nil
	}
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	return fl.fonts[key(family)]
}

func key(family string) string { return strings.ToLower(strings.TrimSpace(family)) }

// Bundled stand-ins for the face names labels ask for, used whenever no
// matching TTF was configured.
var goFontData = map[string][]byte{
	"roboto":          goregular.TTF,
	"arial":           gomedium.TTF,
	"times new roman": gosmallcaps.TTF,
	"courier":         gomono.TTF,
}

var (
	goFontsOnce sync.Once
	goFonts     map[string]*truetype.Font
	goFontsErr  error
)

func parsedGoFonts() (map[string]*truetype.Font, error) {
	goFontsOnce.Do(func() {
		goFonts = make(map[string]*truetype.Font, len(goFontData))
		for name, data := range goFontData {
			f, err := truetype.Parse(data)
			if err != nil {
				goFontsErr = fmt.Errorf("parse bundled font %s: %w", name, err)
				return
			}
			goFonts[name] = f
		}
	})
	return goFonts, goFontsErr
}

// FaceProvider resolves face names against the library first, then the
// bundled Go fonts, then Fallback.
type FaceProvider struct {
	Lib      *FontLibrary
	DPI      float64 // default 72 if zero, so points equal pixels
	Fallback Provider
}

func (p FaceProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if spec.Size <= 0 {
		spec.Size = 12
	}
	dpi := p.DPI
	if dpi <= 0 {
		dpi = 72
	}
	if f := p.Lib.find(spec.Family); f != nil {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: spec.Size, DPI: dpi, Hinting: font.HintingFull})
		if err == nil {
			return face, metricsOf(face)
		}
	}
	if fonts, err := parsedGoFonts(); err == nil {
		f, ok := fonts[key(spec.Family)]
		if !ok {
			f = fonts["roboto"]
		}
		face := truetype.NewFace(f, &truetype.Options{Size: spec.Size, DPI: dpi, Hinting: font.HintingFull})
		return face, metricsOf(face)
	}
	fb := p.Fallback
	if fb == nil {
		fb = BasicProvider{}
	}
	return fb.Resolve(spec)
}
