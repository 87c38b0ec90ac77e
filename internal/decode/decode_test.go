/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package decode

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"golang.org/x/image/bmp"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeStoresPixelsAndReportsSize(t *testing.T) {
	d := NewDecoder(NewRegistry())
	var got Result
	var calls atomic.Int32
	d.Decode("blob:a", pngBytes(t, 8, 6), func(r Result) {
		got = r
		calls.Add(1)
	})
	d.Wait()
	if calls.Load() != 1 || got.Width != 8 || got.Height != 6 || got.Format != "png" {
		t.Fatalf("unexpected result: %+v (calls=%d)", got, calls.Load())
	}
	img, ok := d.Registry().Get("blob:a")
	if !ok || img.Bounds().Dx() != 8 {
		t.Fatalf("pixels not registered")
	}
}

func TestDecodeFailureNeverResolves(t *testing.T) {
	d := NewDecoder(NewRegistry())
	var calls atomic.Int32
	d.Decode("blob:bad", []byte("not an image"), func(Result) { calls.Add(1) })
	d.Wait()
	if calls.Load() != 0 {
		t.Fatalf("failed decode must not resolve")
	}
	if d.Registry().Len() != 0 {
		t.Fatalf("failed decode must not register pixels")
	}
}

func TestBytesDecodesBMP(t *testing.T) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 2))); err != nil {
		t.Fatalf("bmp encode: %v", err)
	}
	img, format, err := Bytes(buf.Bytes())
	if err != nil || format != "bmp" || img.Bounds().Dx() != 3 {
		t.Fatalf("unexpected: %v %q %v", img, format, err)
	}
}

func TestReadUpload(t *testing.T) {
	p := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(p, pngBytes(t, 2, 2), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	u, err := ReadUpload(p)
	if err != nil || u.Name != "photo.png" || len(u.Data) == 0 {
		t.Fatalf("unexpected upload: %+v %v", u, err)
	}
	if _, err := ReadUpload(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestRegistryDelete(t *testing.T) {
	r := NewRegistry()
	r.Put("x", image.NewRGBA(image.Rect(0, 0, 1, 1)))
	r.Delete("x")
	if _, ok := r.Get("x"); ok {
		t.Fatalf("expected deletion")
	}
}
