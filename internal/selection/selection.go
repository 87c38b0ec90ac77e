/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package selection tracks the single selected canvas element.
package selection

import "sync"

// Controller holds at most one selected id. The zero value has nothing selected.
type Controller struct {
	mu        sync.RWMutex
	id        string
	listeners []func(id string)
}

// Select replaces the current selection. An empty id clears it.
func (c *Controller) Select(id string) {
	c.mu.Lock()
	changed := c.id != id
	c.id = id
	ls := append([]func(string){}, c.listeners...)
	c.mu.Unlock()
	if changed {
		for _, fn := range ls {
			fn(id)
		}
	}
}

func (c *Controller) Clear() { c.Select("") }

// Selected returns the selected id, if any.
func (c *Controller) Selected() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id, c.id != ""
}

func (c *Controller) IsSelected(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return id != "" && c.id == id
}

// OnChange registers fn to run after every selection change, outside the lock.
// Sidebar editors use it to re-seed their drafts.
func (c *Controller) OnChange(fn func(id string)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}
