/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"

	"collagecreator/internal/compose"
	applog "collagecreator/internal/log"
	"collagecreator/internal/vector"
)

var (
	ErrNoFrame = errors.New("render: no frame committed")
	ErrClosed  = errors.New("render: surface closed")
)

// CommitFunc observes committed frames. It runs on the render goroutine.
type CommitFunc func(img *image.RGBA, f *compose.Frame)

// Surface rasterizes presented frames on its own goroutine. Only the most
// recent pending frame is drawn; intermediate ones are skipped. A frame is
// committed once its pixels are available to Latest and Capture.
type Surface struct {
	r   *Rasterizer
	log *slog.Logger

	mu        sync.Mutex
	pending   *compose.Frame
	last      *image.RGBA
	lastFrame *compose.Frame
	committed uint64
	commitCh  chan struct{}
	observers []CommitFunc
	closed    bool

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

func NewSurface(r *Rasterizer) *Surface {
	s := &Surface{
		r:        r,
		log:      applog.WithComponent("render"),
		commitCh: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	s.wg.Add(1)
	go s.loop()
	return s
}

// Present queues f for drawing and returns immediately. Frames older than
// the pending or committed one are dropped.
func (s *Surface) Present(f *compose.Frame) {
	if f == nil {
		return
	}
	s.mu.Lock()
	if s.closed || f.Seq < s.committed || (s.pending != nil && f.Seq < s.pending.Seq) {
		s.mu.Unlock()
		return
	}
	s.pending = f
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// OnCommit registers an observer for committed frames.
func (s *Surface) OnCommit(fn CommitFunc) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// AwaitCommit blocks until a frame with sequence number >= seq is committed.
func (s *Surface) AwaitCommit(ctx context.Context, seq uint64) error {
	for {
		s.mu.Lock()
		if s.committed >= seq && s.last != nil {
			s.mu.Unlock()
			return nil
		}
		if s.closed {
			s.mu.Unlock()
			return ErrClosed
		}
		ch := s.commitCh
		s.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Latest returns the last committed raster and its frame.
func (s *Surface) Latest() (*image.RGBA, *compose.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.lastFrame
}

// Capture copies a scene-space region out of the last committed raster.
// pixelRatio scales the output; 1 yields exactly region-sized pixels.
func (s *Surface) Capture(region vector.Rect, pixelRatio float64) (*image.RGBA, error) {
	s.mu.Lock()
	img, f := s.last, s.lastFrame
	s.mu.Unlock()
	if img == nil || f == nil {
		return nil, ErrNoFrame
	}
	return Crop(img, f.Scale, region, pixelRatio), nil
}

// Crop cuts region (scene space) out of a raster drawn at scale. Parts of
// the region outside the raster stay transparent.
func Crop(img *image.RGBA, scale float64, region vector.Rect, pixelRatio float64) *image.RGBA {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	src := image.Rect(
		int(math.Round(region.X*scale)), int(math.Round(region.Y*scale)),
		int(math.Round((region.X+region.W)*scale)), int(math.Round((region.Y+region.H)*scale)),
	)
	w := int(math.Round(region.W * pixelRatio))
	h := int(math.Round(region.H * pixelRatio))
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if src.Dx() == w && src.Dy() == h {
		xdraw.Copy(out, image.Point{}, img, src, xdraw.Src, nil)
		return out
	}
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, src, xdraw.Src, nil)
	return out
}

// Close stops the render goroutine and wakes all waiters.
func (s *Surface) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.commitCh)
	s.commitCh = make(chan struct{})
	s.mu.Unlock()
	close(s.done)
	s.wg.Wait()
}

func (s *Surface) loop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}
		s.mu.Lock()
		f := s.pending
		s.pending = nil
		s.mu.Unlock()
		if f == nil {
			continue
		}
		img := s.r.Rasterize(f)

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		if f.Seq < s.committed {
			s.mu.Unlock()
			continue
		}
		s.last, s.lastFrame = img, f
		s.committed = f.Seq
		close(s.commitCh)
		s.commitCh = make(chan struct{})
		obs := append([]CommitFunc(nil), s.observers...)
		s.mu.Unlock()

		s.log.Debug("frame committed", slog.Uint64("seq", f.Seq), slog.Bool("exporting", f.Exporting))
		for _, fn := range obs {
			fn(img, f)
		}
	}
}
