// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

package token

import (
	"strings"

	"github.com/ohporter/yamlkit/internal/atom"
	"github.com/ohporter/yamlkit/internal/ctype"
)

// Decode is the default atom decoder: it unescapes double-quoted
// content, un-doubles single-quoted quotes, and folds line breaks for
// any style whose Flags carry HasFoldedBreaks. Literal, URI and Comment
// atoms pass through unchanged regardless of flags.
func Decode(raw []byte, style atom.Style, flags atom.Flags) string {
	switch style {
	case atom.DoubleQuoted:
		return decodeDoubleQuoted(raw)
	case atom.SingleQuoted:
		return decodeSingleQuoted(raw)
	case atom.Literal, atom.URI, atom.Comment:
		return string(raw)
	default: // Plain, Folded
		if flags&atom.HasFoldedBreaks != 0 {
			return foldBreaks(raw, style == atom.Folded)
		}
		return string(raw)
	}
}

// foldBreaks implements the block/plain folding rule: a single line
// break folds to a space; two or more fold to (n-1) line breaks. Plain
// scalars use the same rule as folded block scalars for embedded breaks
// once leading/trailing blank stripping has already happened at scan
// time (the scanner only sets HasFoldedBreaks after trimming).
func foldBreaks(raw []byte, literalBlank bool) string {
	var b strings.Builder
	i := 0
	breakRun := 0
	flushBreaks := func() {
		if breakRun == 0 {
			return
		}
		if breakRun == 1 {
			b.WriteByte(' ')
		} else {
			for k := 0; k < breakRun-1; k++ {
				b.WriteByte('\n')
			}
		}
		breakRun = 0
	}
	for i < len(raw) {
		if n := ctype.SkipLB(raw[i:]); n > 0 {
			breakRun++
			i += n
			continue
		}
		flushBreaks()
		b.WriteByte(raw[i])
		i++
	}
	flushBreaks()
	return b.String()
}

func decodeSingleQuoted(raw []byte) string {
	// raw excludes the surrounding quotes; '' decodes to a single '.
	var b strings.Builder
	i := 0
	breakRun := 0
	flushBreaks := func() {
		if breakRun == 0 {
			return
		}
		if breakRun == 1 {
			b.WriteByte(' ')
		} else {
			for k := 0; k < breakRun-1; k++ {
				b.WriteByte('\n')
			}
		}
		breakRun = 0
	}
	for i < len(raw) {
		if n := ctype.SkipLB(raw[i:]); n > 0 {
			breakRun++
			i += n
			continue
		}
		if raw[i] == '\'' && i+1 < len(raw) && raw[i+1] == '\'' {
			flushBreaks()
			b.WriteByte('\'')
			i += 2
			continue
		}
		flushBreaks()
		b.WriteByte(raw[i])
		i++
	}
	flushBreaks()
	return b.String()
}

func decodeDoubleQuoted(raw []byte) string {
	var b strings.Builder
	i := 0
	breakRun := 0
	flushBreaks := func() {
		if breakRun == 0 {
			return
		}
		if breakRun == 1 {
			b.WriteByte(' ')
		} else {
			for k := 0; k < breakRun-1; k++ {
				b.WriteByte('\n')
			}
		}
		breakRun = 0
	}
	for i < len(raw) {
		if n := ctype.SkipLB(raw[i:]); n > 0 {
			breakRun++
			i += n
			continue
		}
		if raw[i] == '\\' && i+1 < len(raw) {
			flushBreaks()
			if n := ctype.SkipLB(raw[i+1:]); n > 0 {
				// escaped line break: a line continuation, consumes
				// following leading whitespace at scan time already.
				i += 1 + n
				continue
			}
			c := raw[i+1]
			switch c {
			case '0':
				b.WriteByte(0)
				i += 2
			case 'a':
				b.WriteByte('\a')
				i += 2
			case 'b':
				b.WriteByte('\b')
				i += 2
			case 't', '\t':
				b.WriteByte('\t')
				i += 2
			case 'n':
				b.WriteByte('\n')
				i += 2
			case 'v':
				b.WriteByte('\v')
				i += 2
			case 'f':
				b.WriteByte('\f')
				i += 2
			case 'r':
				b.WriteByte('\r')
				i += 2
			case 'e':
				b.WriteByte(0x1B)
				i += 2
			case ' ':
				b.WriteByte(' ')
				i += 2
			case '"':
				b.WriteByte('"')
				i += 2
			case '\'':
				b.WriteByte('\'')
				i += 2
			case '\\':
				b.WriteByte('\\')
				i += 2
			case 'N':
				b.WriteRune('')
				i += 2
			case '_':
				b.WriteRune(' ')
				i += 2
			case 'L':
				b.WriteRune(' ')
				i += 2
			case 'P':
				b.WriteRune(' ')
				i += 2
			case 'x':
				i += writeHexEscape(&b, raw, i+2, 2)
			case 'u':
				i += writeHexEscape(&b, raw, i+2, 4)
			case 'U':
				i += writeHexEscape(&b, raw, i+2, 8)
			default:
				// Unknown escape: emit verbatim rather than erroring,
				// since decode is a pure post-hoc pass over bytes the
				// scanner already accepted.
				b.WriteByte('\\')
				b.WriteByte(c)
				i += 2
			}
			continue
		}
		flushBreaks()
		b.WriteByte(raw[i])
		i++
	}
	flushBreaks()
	return b.String()
}

// writeHexEscape decodes n hex digits starting at raw[start] into a
// rune and writes it to b, returning the number of input bytes consumed
// including the 2 bytes of the escape introducer (so callers can add it
// to i directly... actually callers pass i+2 as start, so this returns
// 2+n).
func writeHexEscape(b *strings.Builder, raw []byte, start, n int) int {
	if start+n > len(raw) {
		b.WriteString(string(raw[start-2 : len(raw)]))
		return len(raw) - (start - 2)
	}
	value := 0
	for k := 0; k < n; k++ {
		r := rune(raw[start+k])
		if !ctype.IsHex(r) {
			b.WriteString(string(raw[start-2 : start+k]))
			return 2 + k
		}
		value = value<<4 + ctype.AsHex(r)
	}
	b.WriteRune(rune(value))
	return 2 + n
}
