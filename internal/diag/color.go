// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0

package diag

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorMode selects how WriterSink decides whether to colorize its
// output: auto (terminal-detected), none, or force.
type ColorMode int8

const (
	ColorAuto ColorMode = iota
	ColorNone
	ColorForce
)

// resolveColor decides whether w should receive ANSI colour, the way
// signadot-tony-format's cmd/o resolves its own color-auto default:
// ColorForce and ColorNone are unconditional, ColorAuto colours only
// when w is a terminal *os.File.
func resolveColor(mode ColorMode, w Writer) bool {
	switch mode {
	case ColorForce:
		return true
	case ColorNone:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var levelColor = map[Level]*color.Color{
	LevelDebug: color.New(color.FgHiBlack),
	LevelInfo:  color.New(color.FgCyan),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgRed, color.Bold),
}

// colorizeLine renders d.Format() with the level token picked out in
// colour, leaving source/module/message in the terminal's default.
func colorizeLine(d Diagnostic) string {
	c, ok := levelColor[d.Level]
	if !ok {
		c = color.New()
	}
	head := fmt.Sprintf("%s:%d:%d: ", d.Source, d.Line+1, d.Column+1)
	tail := fmt.Sprintf(": %s: %s", d.Module, d.Message)
	line := head + c.Sprint(d.Level.String()) + tail
	if d.Snippet == "" {
		return line
	}
	return line + "\n" + d.Snippet + "\n" + caret(d.Column, d.Snippet)
}

func caret(col int, snippet string) string {
	b := make([]byte, 0, col+1)
	for i := 0; i < col && i < len(snippet); i++ {
		if snippet[i] == '\t' {
			b = append(b, '\t')
		} else {
			b = append(b, ' ')
		}
	}
	b = append(b, '^')
	return string(b)
}
