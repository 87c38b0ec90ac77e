/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "fmt"

// Op names one console command.
type Op string

const (
	OpImageAdd Op = "image add"
	OpTextAdd  Op = "text add"
	OpSelect   Op = "select"
	OpClick    Op = "click"
	OpDrag     Op = "drag"
	OpResize   Op = "resize"
	OpRotate   Op = "rotate"
	OpFront    Op = "front"
	OpBack     Op = "back"
	OpDelete   Op = "delete"
	OpSet      Op = "set"
	OpArea     Op = "area"
	OpZoom     Op = "zoom"
	OpWait     Op = "wait"
	OpExport   Op = "export"
	OpList     Op = "list"
)

// Command is one parsed line. Args holds the words after the command
// keywords with quotes removed; numeric arguments are already validated.
type Command struct {
	Op   Op
	Args []string
	Line int // 1-based
}

// Error represents a parse error with position context.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}
