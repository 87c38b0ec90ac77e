/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package decode turns uploaded image bytes into pixels off the UI
// goroutine and keeps them addressable by an opaque reference.
package decode

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	applog "collagecreator/internal/log"
)

// MaxPixels rejects images whose header announces more pixels than this.
const MaxPixels = 64 << 20

// Upload is one picked file.
type Upload struct {
	Name string
	Data []byte
}

// ReadUpload reads a file from disk as an Upload.
func ReadUpload(path string) (Upload, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Upload{}, fmt.Errorf("read image %s: %w", path, err)
	}
	return Upload{Name: filepath.Base(path), Data: b}, nil
}

// Registry maps image refs to decoded pixels. It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	imgs map[string]image.Image
}

func NewRegistry() *Registry { return &Registry{imgs: make(map[string]image.Image)} }

func (r *Registry) Put(ref string, img image.Image) {
	r.mu.Lock()
	r.imgs[ref] = img
	r.mu.Unlock()
}

func (r *Registry) Get(ref string) (image.Image, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	img, ok := r.imgs[ref]
	return img, ok
}

func (r *Registry) Delete(ref string) {
	r.mu.Lock()
	delete(r.imgs, ref)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.imgs)
}

// Result reports a finished decode.
type Result struct {
	Ref           string
	Width, Height int
	Format        string
}

// Decoder runs decodes on their own goroutines.
type Decoder struct {
	reg *Registry
	log *slog.Logger
	wg  sync.WaitGroup
}

func NewDecoder(reg *Registry) *Decoder {
	return &Decoder{reg: reg, log: applog.WithComponent("decode")}
}

func (d *Decoder) Registry() *Registry { return d.reg }

// Decode starts decoding data for ref. On success the pixels are stored in
// the registry and onDone is called from the decode goroutine. A failed
// decode is logged and onDone never runs.
func (d *Decoder) Decode(ref string, data []byte, onDone func(Result)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		img, format, err := Bytes(data)
		if err != nil {
			d.log.Warn("image decode failed", slog.String("ref", ref), slog.Any("err", err))
			return
		}
		d.reg.Put(ref, img)
		b := img.Bounds()
		d.log.Debug("image decoded", slog.String("ref", ref), slog.String("format", format),
			slog.Int("w", b.Dx()), slog.Int("h", b.Dy()))
		if onDone != nil {
			onDone(Result{Ref: ref, Width: b.Dx(), Height: b.Dy(), Format: format})
		}
	}()
}

// Wait blocks until every started decode finished.
func (d *Decoder) Wait() { d.wg.Wait() }

// Bytes decodes a single image synchronously after checking its header size.
func Bytes(data []byte) (image.Image, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("decode: empty image %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Width*cfg.Height > MaxPixels {
		return nil, "", fmt.Errorf("decode: image too large %dx%d", cfg.Width, cfg.Height)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode: %w", err)
	}
	return img, format, nil
}
