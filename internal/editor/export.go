/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"context"

	"collagecreator/internal/export"
	"collagecreator/internal/vector"
)

// Export captures the download area into a file through the session's
// pipeline. It returns export.ErrExportInProgress while another export
// runs, and does nothing when no surface is mounted.
func (s *Session) Export(ctx context.Context) (export.Result, error) {
	return s.pipe.Run(s.Context(ctx), exportScene{s})
}

// exportScene is the session as seen by the export pipeline.
type exportScene struct{ s *Session }

func (e exportScene) ClearSelection() { e.s.sel.Clear() }

func (e exportScene) SetExporting(on bool) (uint64, vector.Rect) {
	e.s.mu.Lock()
	e.s.exporting = on
	e.s.mu.Unlock()
	f := e.s.refresh()
	return f.Seq, f.Area
}

func (e exportScene) Surface() export.Surface {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if e.s.surf == nil {
		return nil
	}
	return e.s.surf
}
