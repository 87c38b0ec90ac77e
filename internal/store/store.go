/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package store holds the ordered image and text collections of a scene.
// Slice order is paint order within each collection; texts always paint
// above images. Every operation is total: unknown ids are a no-op.
package store

import (
	"log/slog"
	"sync"

	"collagecreator/internal/domain"
	applog "collagecreator/internal/log"
)

// Store is safe for concurrent use. Decode completions write from their own
// goroutines while the editor mutates from the UI goroutine.
type Store struct {
	mu     sync.RWMutex
	images []domain.ImageElement
	texts  []domain.TextElement
	log    *slog.Logger
	rev    uint64
}

func New() *Store {
	return &Store{log: applog.WithComponent("store")}
}

// Snapshot is a copy of both collections taken under one lock.
type Snapshot struct {
	Images   []domain.ImageElement
	Texts    []domain.TextElement
	// Revision increments on every effective mutation.
	Revision uint64
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Images:   append([]domain.ImageElement(nil), s.images...),
		Texts:    append([]domain.TextElement(nil), s.texts...),
		Revision: s.rev,
	}
}

func (s *Store) Images() []domain.ImageElement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ImageElement(nil), s.images...)
}

func (s *Store) Texts() []domain.TextElement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.TextElement(nil), s.texts...)
}

func (s *Store) Image(id string) (domain.ImageElement, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.imageIndex(id); i >= 0 {
		return s.images[i], true
	}
	return domain.ImageElement{}, false
}

func (s *Store) Text(id string) (domain.TextElement, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.textIndex(id); i >= 0 {
		return s.texts[i], true
	}
	return domain.TextElement{}, false
}

// KindOf reports which collection holds id.
func (s *Store) KindOf(id string) domain.Kind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.imageIndex(id) >= 0:
		return domain.KindImage
	case s.textIndex(id) >= 0:
		return domain.KindText
	default:
		return domain.KindNone
	}
}

// AddImages appends in the given order, so the last one paints on top.
func (s *Store) AddImages(elems ...domain.ImageElement) {
	if len(elems) == 0 {
		return
	}
	s.mu.Lock()
	s.images = append(s.images, elems...)
	s.rev++
	s.mu.Unlock()
	s.log.Debug("images added", slog.Int("count", len(elems)))
}

func (s *Store) AddText(t domain.TextElement) {
	s.mu.Lock()
	s.texts = append(s.texts, t.Normalized())
	s.rev++
	s.mu.Unlock()
	s.log.Debug("text added", slog.String("id", t.ID))
}

// UpdateImage replaces the element with the same id in place.
func (s *Store) UpdateImage(im domain.ImageElement) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.imageIndex(im.ID)
	if i < 0 {
		return false
	}
	s.images[i] = im
	s.rev++
	return true
}

// UpdateText replaces the label with the same id in place. A label without
// background is stored with zero padding.
func (s *Store) UpdateText(t domain.TextElement) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.textIndex(t.ID)
	if i < 0 {
		return false
	}
	s.texts[i] = t.Normalized()
	s.rev++
	return true
}

// SetNaturalSize backfills the decoded size of an image that has never been
// sized. Later decodes never override a size the user or a gesture set.
func (s *Store) SetNaturalSize(id string, w, h float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.imageIndex(id)
	if i < 0 || s.images[i].Sized() {
		return false
	}
	s.images[i].Width, s.images[i].Height = w, h
	s.rev++
	return true
}

func (s *Store) DeleteImage(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.imageIndex(id)
	if i < 0 {
		return false
	}
	s.images = append(s.images[:i], s.images[i+1:]...)
	s.rev++
	s.log.Debug("image deleted", slog.String("id", id))
	return true
}

func (s *Store) DeleteText(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.textIndex(id)
	if i < 0 {
		return false
	}
	s.texts = append(s.texts[:i], s.texts[i+1:]...)
	s.rev++
	s.log.Debug("text deleted", slog.String("id", id))
	return true
}

// MoveToFront moves an image to the top of the image stack. Texts are not
// reorderable and stay above all images.
func (s *Store) MoveToFront(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.imageIndex(id)
	if i < 0 {
		return false
	}
	im := s.images[i]
	s.images = append(append(s.images[:i:i], s.images[i+1:]...), im)
	s.rev++
	return true
}

// MoveToBack moves an image to the bottom of the image stack.
func (s *Store) MoveToBack(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.imageIndex(id)
	if i < 0 {
		return false
	}
	im := s.images[i]
	rest := append(s.images[:i:i], s.images[i+1:]...)
	s.images = append([]domain.ImageElement{im}, rest...)
	s.rev++
	return true
}

func (s *Store) imageIndex(id string) int {
	for i := range s.images {
		if s.images[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) textIndex(id string) int {
	for i := range s.texts {
		if s.texts[i].ID == id {
			return i
		}
	}
	return -1
}
