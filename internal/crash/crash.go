/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a top-level panic into a logged error and a report file.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "collagecreator/internal/log"
	"collagecreator/internal/telemetry"
	"collagecreator/internal/version"

	"github.com/google/uuid"
)

// Summarizer describes the editor state at the time of the crash. It must
// not include user content such as label text or file names.
type Summarizer interface {
	Summary() string
}

var (
	exitFn    = os.Exit
	reportDir = os.TempDir
)

// Recover captures a panic, logs it with the stack, writes a crash report and
// exits with code 2. sum may be nil.
//
// Usage: defer crash.Recover(session)
func Recover(sum Summarizer) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	scene := ""
	if sum != nil {
		scene = safeSummary(sum)
	}
	path, err := writeReport(reportDir(), r, scene, stack)
	if err != nil {
		l.Error("crash report not written", slog.Any("err", err))
	}
	fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", path)
	fmt.Fprintf(os.Stderr, "Version: %s\n", version.String())
	exitFn(2)
}

// safeSummary keeps a second panic inside Summary from masking the first.
func safeSummary(sum Summarizer) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("<summary failed: %v>", r)
		}
	}()
	return sum.Summary()
}

func writeReport(dir string, panicVal any, scene string, stack []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure report dir: %w", err)
	}
	id := uuid.NewString()[:8]
	path := filepath.Join(dir, fmt.Sprintf("collage-crash-%s-%s.log", time.Now().Format("20060102-150405"), id))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Collage Creator Crash Report\n")
	fmt.Fprintf(&buf, "Report: %s\n", id)
	fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&buf, "Version: %s\n", version.String())
	fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if scene != "" {
		fmt.Fprintf(&buf, "Scene: %s\n", scene)
	}
	fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	fmt.Fprintf(&buf, "Stack:\n%s\n", stack)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, fmt.Errorf("write crash report: %w", err)
	}
	telemetry.UploadCrash(buf.Bytes())
	return path, nil
}
