// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Package atom defines the sole representation of textual content read
// from an Input: a tagged byte-slice view, never owning character data.
// A decoded string is produced only when a caller explicitly asks for
// one via Text.
package atom

import "strings"

// Style records the escaping/indentation discipline that applies to an
// atom's bytes.
type Style int8

const (
	Plain Style = iota
	SingleQuoted
	DoubleQuoted
	Literal
	Folded
	URI
	Comment
)

func (s Style) String() string {
	switch s {
	case Plain:
		return "plain"
	case SingleQuoted:
		return "single-quoted"
	case DoubleQuoted:
		return "double-quoted"
	case Literal:
		return "literal"
	case Folded:
		return "folded"
	case URI:
		return "uri"
	case Comment:
		return "comment"
	}
	return "unknown"
}

// Flags record properties discovered while scanning the atom's source
// range, so a decoder never has to re-scan to find them.
type Flags uint8

const (
	// HasEscapes means the raw bytes contain backslash escapes (double
	// quoted) or doubled quotes (single quoted) that Text must unescape.
	HasEscapes Flags = 1 << iota
	// HasFoldedBreaks means line breaks inside the atom fold to spaces
	// per the style's folding rule (plain, single/double quoted, folded).
	HasFoldedBreaks
	// EdgeWhitespace means leading or trailing whitespace on some line of
	// the atom is significant and must not be trimmed by a naive decoder.
	EdgeWhitespace
	// MultiChunk means the atom was assembled from more than one
	// non-contiguous source region (e.g. a streamed input whose buffer
	// was compacted mid-scan) and Text must concatenate, not slice.
	MultiChunk
)

// Source is the minimal view an Atom needs into its backing Input:
// a stable byte slice. internal/input.Input satisfies this.
type Source interface {
	Slice(start, end int) []byte
}

// Atom is `(input, start, end, style, flags)`. It never owns character
// data; Input must outlive every Atom referencing it.
type Atom struct {
	Src   Source
	Start int
	End   int
	Style Style
	Flags Flags

	// parts holds extra (src, start, end) segments for MultiChunk atoms,
	// appended after the primary [Start,End) range.
	parts []part
}

type part struct {
	src        Source
	start, end int
}

// Len returns the number of raw bytes the atom spans (sum across parts
// for a MultiChunk atom).
func (a Atom) Len() int {
	n := a.End - a.Start
	for _, p := range a.parts {
		n += p.end - p.start
	}
	return n
}

// Raw returns the atom's unprocessed bytes, concatenating parts for a
// MultiChunk atom. This allocates only in the MultiChunk case.
func (a Atom) Raw() []byte {
	if len(a.parts) == 0 {
		return a.Src.Slice(a.Start, a.End)
	}
	buf := make([]byte, 0, a.Len())
	buf = append(buf, a.Src.Slice(a.Start, a.End)...)
	for _, p := range a.parts {
		buf = append(buf, p.src.Slice(p.start, p.end)...)
	}
	return buf
}

// WithPart returns a copy of a with an additional backing range
// appended, setting MultiChunk.
func (a Atom) WithPart(src Source, start, end int) Atom {
	a.parts = append(append([]part{}, a.parts...), part{src, start, end})
	a.Flags |= MultiChunk
	return a
}

// Text materializes the atom's decoded content: escapes processed for
// quoted styles, folding applied for folded/plain/quoted multi-line
// scalars, and raw bytes returned unmodified for Literal, URI and
// Comment atoms. Decode is the escape/fold processor; callers in
// internal/token supply the one that knows the style-specific rules so
// this package stays free of YAML grammar knowledge.
func (a Atom) Text(decode func(raw []byte, style Style, flags Flags) string) string {
	raw := a.Raw()
	if decode == nil {
		return string(raw)
	}
	return decode(raw, a.Style, a.Flags)
}

// RawString is a convenience for styles that need no decoding.
func (a Atom) RawString() string {
	if len(a.parts) == 0 {
		return string(a.Src.Slice(a.Start, a.End))
	}
	var b strings.Builder
	b.Write(a.Src.Slice(a.Start, a.End))
	for _, p := range a.parts {
		b.Write(p.src.Slice(p.start, p.end))
	}
	return b.String()
}
