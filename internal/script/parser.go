/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parse parses console input into commands, one per line.
// Supported syntax:
//   - image add <path>...          text add <words>
//   - select image|text <n>        select last | select none
//   - click <x> <y>                drag <x0> <y0> <x1> <y1>
//   - resize <sx> <sy>             rotate <deg>
//   - front | back | delete        set <field> <value>
//   - area width|height <v>        area background <color>|off
//   - zoom in|out|reset            wait [decode]
//   - export [png|jpeg|pdf]        list
//
// Words may be double-quoted. A '#' outside quotes starts a comment.
// Lines with errors are skipped and reported; the rest still parse.
func Parse(input string) ([]Command, []Error) {
	var cmds []Command
	var errs []Error
	sc := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		toks, err := tokenize(sc.Text())
		if err != nil {
			errs = append(errs, Error{Line: lineNo, Column: err.col, Message: err.msg})
			continue
		}
		if len(toks) == 0 {
			continue
		}
		cmd, perr := parseLine(toks)
		if perr != nil {
			errs = append(errs, Error{Line: lineNo, Column: perr.col, Message: perr.msg})
			continue
		}
		cmd.Line = lineNo
		cmds = append(cmds, cmd)
	}
	if err := sc.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo + 1, Column: 1, Message: err.Error()})
	}
	return cmds, errs
}

type token struct {
	text string
	col  int // 1-based byte column
}

type posError struct {
	col int
	msg string
}

func errAt(col int, format string, args ...any) *posError {
	return &posError{col: col, msg: fmt.Sprintf(format, args...)}
}

func tokenize(line string) ([]token, *posError) {
	var toks []token
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '#':
			return toks, nil
		case c == '"':
			start := i
			var b strings.Builder
			i++
			closed := false
			for i < len(line) {
				if line[i] == '\\' && i+1 < len(line) {
					b.WriteByte(line[i+1])
					i += 2
					continue
				}
				if line[i] == '"' {
					closed = true
					i++
					break
				}
				b.WriteByte(line[i])
				i++
			}
			if !closed {
				return nil, errAt(start+1, "unterminated quote")
			}
			toks = append(toks, token{text: b.String(), col: start + 1})
		default:
			start := i
			for i < len(line) && line[i] != ' ' && line[i] != '\t' && line[i] != '\r' && line[i] != '"' && line[i] != '#' {
				i++
			}
			toks = append(toks, token{text: line[start:i], col: start + 1})
		}
	}
	return toks, nil
}

func parseLine(toks []token) (Command, *posError) {
	head := toks[0]
	rest := toks[1:]
	switch strings.ToLower(head.text) {
	case "image":
		if err := keyword(head, rest, "add"); err != nil {
			return Command{}, err
		}
		if len(rest) < 2 {
			return Command{}, errAt(endCol(toks), "image add needs at least one path")
		}
		return Command{Op: OpImageAdd, Args: texts(rest[1:])}, nil
	case "text":
		if err := keyword(head, rest, "add"); err != nil {
			return Command{}, err
		}
		if len(rest) < 2 {
			return Command{}, errAt(endCol(toks), "text add needs a value")
		}
		return Command{Op: OpTextAdd, Args: []string{strings.Join(texts(rest[1:]), " ")}}, nil
	case "select":
		if len(rest) == 0 {
			return Command{}, errAt(endCol(toks), "select needs image, text, last or none")
		}
		switch k := strings.ToLower(rest[0].text); k {
		case "last", "none":
			if err := arity(toks, 2, 2); err != nil {
				return Command{}, err
			}
			return Command{Op: OpSelect, Args: []string{k}}, nil
		case "image", "text":
			if err := arity(toks, 3, 3); err != nil {
				return Command{}, err
			}
			n, err := strconv.Atoi(rest[1].text)
			if err != nil || n < 1 {
				return Command{}, errAt(rest[1].col, "index must be a positive integer, got %q", rest[1].text)
			}
			return Command{Op: OpSelect, Args: []string{k, rest[1].text}}, nil
		default:
			return Command{}, errAt(rest[0].col, "unknown selection %q", rest[0].text)
		}
	case "click":
		return numeric(OpClick, toks, 2)
	case "drag":
		return numeric(OpDrag, toks, 4)
	case "resize":
		return numeric(OpResize, toks, 2)
	case "rotate":
		return numeric(OpRotate, toks, 1)
	case "front":
		return bare(OpFront, toks)
	case "back":
		return bare(OpBack, toks)
	case "delete":
		return bare(OpDelete, toks)
	case "list":
		return bare(OpList, toks)
	case "set":
		if len(rest) < 2 {
			return Command{}, errAt(endCol(toks), "set needs a field and a value")
		}
		return Command{Op: OpSet, Args: []string{strings.ToLower(rest[0].text), strings.Join(texts(rest[1:]), " ")}}, nil
	case "area":
		if err := arity(toks, 3, 3); err != nil {
			return Command{}, err
		}
		switch k := strings.ToLower(rest[0].text); k {
		case "width", "height", "background":
			return Command{Op: OpArea, Args: []string{k, rest[1].text}}, nil
		default:
			return Command{}, errAt(rest[0].col, "unknown area field %q", rest[0].text)
		}
	case "zoom":
		if err := arity(toks, 2, 2); err != nil {
			return Command{}, err
		}
		switch k := strings.ToLower(rest[0].text); k {
		case "in", "out", "reset":
			return Command{Op: OpZoom, Args: []string{k}}, nil
		default:
			return Command{}, errAt(rest[0].col, "zoom takes in, out or reset, got %q", rest[0].text)
		}
	case "wait":
		if err := arity(toks, 1, 2); err != nil {
			return Command{}, err
		}
		if len(rest) == 1 && !strings.EqualFold(rest[0].text, "decode") {
			return Command{}, errAt(rest[0].col, "unknown wait target %q", rest[0].text)
		}
		return Command{Op: OpWait}, nil
	case "export":
		if err := arity(toks, 1, 2); err != nil {
			return Command{}, err
		}
		if len(rest) == 0 {
			return Command{Op: OpExport}, nil
		}
		switch k := strings.ToLower(rest[0].text); k {
		case "png", "jpeg", "jpg", "pdf":
			return Command{Op: OpExport, Args: []string{k}}, nil
		default:
			return Command{}, errAt(rest[0].col, "unknown export format %q", rest[0].text)
		}
	}
	return Command{}, errAt(head.col, "unknown command %q", head.text)
}

func keyword(head token, rest []token, want string) *posError {
	if len(rest) == 0 {
		return errAt(head.col+len(head.text), "%s needs %q", head.text, want)
	}
	if !strings.EqualFold(rest[0].text, want) {
		return errAt(rest[0].col, "expected %q after %s, got %q", want, head.text, rest[0].text)
	}
	return nil
}

// arity checks the total token count, command word included.
func arity(toks []token, min, max int) *posError {
	switch {
	case len(toks) < min:
		return errAt(endCol(toks), "%s: missing argument", toks[0].text)
	case len(toks) > max:
		return errAt(toks[max].col, "%s: unexpected argument %q", toks[0].text, toks[max].text)
	}
	return nil
}

func numeric(op Op, toks []token, n int) (Command, *posError) {
	if err := arity(toks, n+1, n+1); err != nil {
		return Command{}, err
	}
	args := texts(toks[1:])
	for i, t := range toks[1:] {
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Command{}, errAt(t.col, "%s: %q is not a number", toks[0].text, args[i])
		}
	}
	return Command{Op: op, Args: args}, nil
}

func bare(op Op, toks []token) (Command, *posError) {
	if err := arity(toks, 1, 1); err != nil {
		return Command{}, err
	}
	return Command{Op: op}, nil
}

func texts(toks []token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.text
	}
	return out
}

func endCol(toks []token) int {
	last := toks[len(toks)-1]
	return last.col + len(last.text)
}
