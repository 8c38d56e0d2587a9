// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Package emitter turns a document.Node tree back into bytes. Its
// column/indentation bookkeeping (writeIndent, writeIndicator, the
// scalar-style writers) is structured as a tree-walking emitter rather
// than an event-driven one, since the caller already holds a complete
// Node tree rather than a one-shot event stream.
package emitter

import (
	"github.com/ohporter/yamlkit/internal/atom"
	"github.com/ohporter/yamlkit/internal/document"
	"github.com/ohporter/yamlkit/internal/docstate"
	"github.com/ohporter/yamlkit/internal/token"
)

// DecodeFunc decodes a scalar token's backing atom into text. Defaults
// to token.Decode; a caller emitting nodes built under a non-default
// decoder (rare) can override it via Options.Decode.
type DecodeFunc func(raw []byte, style atom.Style, flags atom.Flags) string

// Mode selects the overall emission strategy.
type Mode int

const (
	ModeOriginal Mode = iota
	ModeBlockOnly
	ModeFlowOnly
	ModeFlowOneline
	ModeJSON
	ModeJSONTypePreserving
	ModeJSONOneline
)

// MarkMode controls a boolean-ish directive/marker's emission.
type MarkMode int8

const (
	MarkAuto MarkMode = iota
	MarkOff
	MarkOn
)

// WriteKind tags every chunk handed to a Sink, so a sink can colourise
// or filter by kind without re-parsing the bytes.
type WriteKind int8

const (
	KindDocumentIndicator WriteKind = iota
	KindTagDirective
	KindVersionDirective
	KindIndent
	KindIndicator
	KindWhitespace
	KindPlainScalar
	KindSingleQuotedScalar
	KindDoubleQuotedScalar
	KindLiteralScalar
	KindFoldedScalar
	KindAnchor
	KindTag
	KindLineBreak
	KindAlias
	KindPlainScalarKey
	KindSingleQuotedScalarKey
	KindDoubleQuotedScalarKey
	KindComment
)

// Sink receives emitted chunks. Implementations may ignore Kind, or use
// it to colourise; this package ships no colourising Sink.
type Sink interface {
	Write(kind WriteKind, p []byte) error
}

// Options configures an Emitter: indentation, line width, output mode,
// directive/marker emission, and key-sort behavior.
type Options struct {
	Indent int  // 1-9, default 2
	Width  int  // 0-255, 0 means infinite
	Mode   Mode

	DocStartMark     MarkMode
	DocEndMark       MarkMode
	VersionDirective MarkMode
	TagDirective     MarkMode

	SortKeys       bool
	OutputComments bool
	Canonical      bool

	// Decode overrides the scalar decoder. Nil means token.Decode.
	Decode DecodeFunc
}

// DefaultOptions returns the conventional defaults: 2-space indent, no
// line-wrap budget, original mode.
func DefaultOptions() Options {
	return Options{Indent: 2, Width: 0, Mode: ModeOriginal}
}

func isJSONMode(m Mode) bool {
	return m == ModeJSON || m == ModeJSONTypePreserving || m == ModeJSONOneline
}

// Emitter walks a document.Node tree (or a bare Node with no enclosing
// Doc) and writes it to a Sink.
type Emitter struct {
	opts   Options
	sink   Sink
	decode DecodeFunc

	column     int
	indent     int
	indents    []int
	whitespace bool
	indention  bool
	openEnded  bool

	state *docstate.State

	docCount int
}

// New creates an Emitter writing to sink under opts.
func New(sink Sink, opts Options) *Emitter {
	if opts.Indent < 1 || opts.Indent > 9 {
		opts.Indent = 2
	}
	decode := opts.Decode
	if decode == nil {
		decode = DecodeFunc(token.Decode)
	}
	return &Emitter{opts: opts, sink: sink, decode: decode, whitespace: true, indention: true, indent: -1}
}

// EmitDocument writes one document, including its markers/directives as
// opts dictates.
func (e *Emitter) EmitDocument(doc *document.Doc) error {
	if isJSONMode(e.opts.Mode) {
		return e.emitJSONNode(doc.Root)
	}

	first := e.docCount == 0
	e.docCount++
	e.state = doc.State

	if err := e.maybeEmitDirectives(doc.State, first); err != nil {
		return err
	}
	if err := e.maybeEmitDocStart(doc.State, first); err != nil {
		return err
	}
	if e.opts.Mode == ModeFlowOneline {
		if err := e.emitOnelineNode(doc.Root); err != nil {
			return err
		}
		return e.writeLineBreak()
	}
	if err := e.emitNode(doc.Root, false, false); err != nil {
		return err
	}
	return e.maybeEmitDocEnd()
}

// EmitNode writes a single detached node with no document wrapper,
// for callers that only have a Node and not a whole Doc.
func (e *Emitter) EmitNode(n *document.Node) error {
	if isJSONMode(e.opts.Mode) {
		return e.emitJSONNode(n)
	}
	if e.opts.Mode == ModeFlowOneline {
		if err := e.emitOnelineNode(n); err != nil {
			return err
		}
		return e.writeLineBreak()
	}
	return e.emitNode(n, false, false)
}

// pushIndent saves the current indent and increases it by opts.Indent
// (or sets it to 0 from the unset -1 sentinel, so the outermost block
// collection starts at column 0), the way the teacher's
// increaseIndentCompact does without its compact-sequence special case,
// which this tree-walking emitter has no use for.
func (e *Emitter) pushIndent() {
	e.indents = append(e.indents, e.indent)
	if e.indent < 0 {
		e.indent = 0
	} else {
		e.indent += e.opts.Indent
	}
}

func (e *Emitter) popIndent() {
	e.indent = e.indents[len(e.indents)-1]
	e.indents = e.indents[:len(e.indents)-1]
}

func (e *Emitter) maybeEmitDirectives(st *docstate.State, first bool) error {
	emitVersion := e.opts.VersionDirective == MarkOn ||
		(e.opts.VersionDirective == MarkAuto && st.HasVersion)
	if emitVersion {
		line := []byte(formatVersionDirective(st.Version.Major, st.Version.Minor))
		if err := e.sink.Write(KindVersionDirective, line); err != nil {
			return err
		}
		if err := e.writeLineBreak(); err != nil {
			return err
		}
	}
	emitTags := e.opts.TagDirective == MarkOn ||
		(e.opts.TagDirective == MarkAuto && hasExplicitTagDirectives(st))
	if emitTags {
		for _, d := range st.Directives() {
			if isDefaultTagDirective(d) {
				continue
			}
			line := []byte("%TAG " + d.Handle + " " + d.Prefix)
			if err := e.sink.Write(KindTagDirective, line); err != nil {
				return err
			}
			if err := e.writeLineBreak(); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatVersionDirective(major, minor int8) string {
	return "%YAML " + itoa(int(major)) + "." + itoa(int(minor))
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [8]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func hasExplicitTagDirectives(st *docstate.State) bool {
	for _, d := range st.Directives() {
		if !isDefaultTagDirective(d) {
			return true
		}
	}
	return false
}

func isDefaultTagDirective(d docstate.TagDirective) bool {
	return (d.Handle == "!" && d.Prefix == "!") || (d.Handle == "!!" && d.Prefix == "tag:yaml.org,2002:")
}

func (e *Emitter) maybeEmitDocStart(st *docstate.State, first bool) error {
	need := e.opts.DocStartMark == MarkOn
	if e.opts.DocStartMark == MarkAuto {
		need = !first || hasExplicitTagDirectives(st) || st.HasVersion
	}
	if !need {
		return nil
	}
	if err := e.writeIndicator([]byte("---"), true, false, false); err != nil {
		return err
	}
	return nil
}

func (e *Emitter) maybeEmitDocEnd() error {
	need := e.opts.DocEndMark == MarkOn
	if e.opts.DocEndMark == MarkAuto {
		need = e.openEnded
	}
	if !need {
		if err := e.writeLineBreak(); err != nil {
			return err
		}
		return nil
	}
	if err := e.writeIndicator([]byte("..."), true, false, false); err != nil {
		return err
	}
	return e.writeLineBreak()
}
