// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Package token defines the tagged-union Token the scanner produces and
// the parser/document layers share by reference. A Token is immutable
// after creation; its decoded-text cache is computed once.
package token

import (
	"fmt"

	"go.uber.org/atomic"

	"github.com/ohporter/yamlkit/internal/atom"
)

// Type enumerates the scanner's token set: structural markers, content
// (scalar/alias/anchor/tag/directives), and control tokens (key/value/
// entry). This is the standard libyaml token set.
type Type int

const (
	NoToken Type = iota

	StreamStart
	StreamEnd

	VersionDirective
	TagDirective

	DocumentStart
	DocumentEnd

	BlockSequenceStart
	BlockMappingStart
	BlockEnd

	FlowSequenceStart
	FlowSequenceEnd
	FlowMappingStart
	FlowMappingEnd

	BlockEntry
	FlowEntry
	Key
	Value

	Alias
	Anchor
	Tag
	Scalar
	Comment
)

var typeNames = map[Type]string{
	NoToken:            "NO_TOKEN",
	StreamStart:        "STREAM_START",
	StreamEnd:          "STREAM_END",
	VersionDirective:   "VERSION_DIRECTIVE",
	TagDirective:       "TAG_DIRECTIVE",
	DocumentStart:      "DOCUMENT_START",
	DocumentEnd:        "DOCUMENT_END",
	BlockSequenceStart: "BLOCK_SEQUENCE_START",
	BlockMappingStart:  "BLOCK_MAPPING_START",
	BlockEnd:           "BLOCK_END",
	FlowSequenceStart:  "FLOW_SEQUENCE_START",
	FlowSequenceEnd:    "FLOW_SEQUENCE_END",
	FlowMappingStart:   "FLOW_MAPPING_START",
	FlowMappingEnd:     "FLOW_MAPPING_END",
	BlockEntry:         "BLOCK_ENTRY",
	FlowEntry:          "FLOW_ENTRY",
	Key:                "KEY",
	Value:              "VALUE",
	Alias:              "ALIAS",
	Anchor:             "ANCHOR",
	Tag:                "TAG",
	Scalar:             "SCALAR",
	Comment:            "COMMENT",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("<unknown token %d>", int(t))
}

// ScalarStyle records how a SCALAR token was written, independent of
// atom.Style (which records the escaping discipline of the underlying
// atom and is nearly the same enumeration, kept separate because a
// token can in principle be re-styled by the document layer without
// re-deriving the atom).
type ScalarStyle int8

const (
	AnyScalarStyle ScalarStyle = iota
	PlainScalarStyle
	SingleQuotedScalarStyle
	DoubleQuotedScalarStyle
	LiteralScalarStyle
	FoldedScalarStyle
)

// Mark is a byte offset plus its (line, column) projection.
type Mark struct {
	Index  int
	Line   int
	Column int
}

func (m Mark) String() string {
	if m.Line == 0 {
		return "<unknown position>"
	}
	return fmt.Sprintf("line %d, column %d", m.Line, m.Column+1)
}

// Token is immutable after creation and reference-counted because the
// same token may back a parser Event, a document Node, and an anchor
// entry simultaneously.
type Token struct {
	Type               Type
	StartMark, EndMark Mark

	// Primary is the token's sole atom for SCALAR/ALIAS/ANCHOR/COMMENT
	// tokens and the handle/prefix-bearing atom for TAG/TAG_DIRECTIVE.
	Primary atom.Atom

	Style ScalarStyle

	// Suffix is the tag URI suffix (TAG) or the directive prefix
	// (TAG_DIRECTIVE carries handle in Primary, prefix in Suffix).
	Suffix atom.Atom
	hasSuffix bool

	// Major/Minor hold the version for VERSION_DIRECTIVE.
	Major, Minor int8

	refs *atomic.Int32
	decoded *cachedText
}

type cachedText struct {
	done  atomic.Bool
	value string
}

// New creates a Token with a reference count of 1.
func New(typ Type, start, end Mark) *Token {
	return &Token{Type: typ, StartMark: start, EndMark: end, refs: atomic.NewInt32(1), decoded: &cachedText{}}
}

// WithPrimary attaches the token's primary atom and returns the token
// for chaining.
func (t *Token) WithPrimary(a atom.Atom) *Token {
	t.Primary = a
	return t
}

// WithSuffix attaches a secondary atom (tag suffix / directive prefix).
func (t *Token) WithSuffix(a atom.Atom) *Token {
	t.Suffix = a
	t.hasSuffix = true
	return t
}

// HasSuffix reports whether WithSuffix was called.
func (t *Token) HasSuffix() bool { return t.hasSuffix }

// Retain increments the reference count and returns t.
func (t *Token) Retain() *Token {
	t.refs.Inc()
	return t
}

// Release decrements the reference count. It never frees anything
// itself (Go's GC owns that); it exists so API users that care about
// "is this token still referenced" (e.g. before a document-state
// directive removal) can ask via RefCount.
func (t *Token) Release() {
	t.refs.Dec()
}

// RefCount returns the current reference count.
func (t *Token) RefCount() int32 { return t.refs.Load() }

// Text returns the token's decoded text, computing and caching it on
// first call via decode. Re-decoding under the same decode function
// always agrees with the cached value, since decode is a pure function
// of the atom's bytes, style and flags.
func (t *Token) Text(decode func(raw []byte, style atom.Style, flags atom.Flags) string) string {
	if t.decoded.done.Load() {
		return t.decoded.value
	}
	v := t.Primary.Text(decode)
	t.decoded.value = v
	t.decoded.done.Store(true)
	return v
}

// RawBytes returns the primary atom's undecoded bytes.
func (t *Token) RawBytes() []byte { return t.Primary.Raw() }
