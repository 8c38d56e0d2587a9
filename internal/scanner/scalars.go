// Copyright 2006-2010 Kirill Simonov
// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

package scanner

import (
	"github.com/ohporter/yamlkit/internal/atom"
	"github.com/ohporter/yamlkit/internal/ctype"
	"github.com/ohporter/yamlkit/internal/token"
)

// scanAnchor scans an ALIAS (*name) or ANCHOR (&name) token. Anchor
// names are restricted to alphanumerics (libyaml's rule, kept here
// unwidened).
func (s *Scanner) scanAnchor(typ token.Type) (*token.Token, error) {
	start := s.mark()
	s.skip() // '&' or '*'
	nameStart := s.pos
	any := false
	for {
		r, _, ok := s.runeAt(0)
		if !ok || !ctype.IsAlnum(r) {
			break
		}
		s.skip()
		any = true
	}
	if !any {
		return nil, s.fail(start, "did not find expected alphabetic or numeric character")
	}
	nameEnd := s.pos
	if ok := s.anchorTerminated(); !ok {
		return nil, s.fail(start, "did not find expected alphabetic or numeric character")
	}
	end := s.mark()
	t := token.New(typ, start, end)
	t.WithPrimary(atom.Atom{Src: s.in, Start: nameStart, End: nameEnd, Style: atom.Plain})
	return t, nil
}

func (s *Scanner) anchorTerminated() bool {
	b, ok := s.byteAt(0)
	if !ok {
		return true
	}
	switch b {
	case '?', ':', ',', '[', ']', '{', '}', '%', '@', '`':
		return true
	}
	return s.isBlankZAt(0)
}

// scanTag scans a TAG token: the verbatim `!<uri>` form, the
// `!handle!suffix` shorthand form, bare `!suffix` (primary handle), and
// the lone non-specific `!` tag.
func (s *Scanner) scanTag() (*token.Token, error) {
	start := s.mark()

	var handleStart, handleEnd, suffixStart, suffixEnd int

	b1, _ := s.byteAt(1)
	if b1 == '<' {
		s.skip() // '!'
		s.skip() // '<'
		suffixStart = s.pos
		for {
			r, _, ok := s.runeAt(0)
			if !ok {
				return nil, s.fail(start, "did not find expected '>'")
			}
			if r == '>' {
				break
			}
			if r == '%' {
				if err := s.skipURIEscape(start); err != nil {
					return nil, err
				}
				continue
			}
			if !ctype.IsURI(r) {
				return nil, s.fail(start, "found an invalid character in a tag")
			}
			s.skip()
		}
		suffixEnd = s.pos
		s.skip() // '>'
	} else {
		handleStart = s.pos
		s.skip() // '!'
		for {
			r, _, ok := s.runeAt(0)
			if !ok || !ctype.IsAlpha(r) {
				break
			}
			s.skip()
		}
		if b, ok := s.byteAt(0); ok && b == '!' {
			s.skip()
			handleEnd = s.pos
		} else {
			// No second '!': this is the bare "!suffix" form using the
			// primary handle, or the lone "!" non-specific tag.
			handleEnd = handleStart + 1
			s.pos = handleStart + 1
		}
		suffixStart = s.pos
		for {
			r, _, ok := s.runeAt(0)
			if !ok {
				break
			}
			if r == '%' {
				if err := s.skipURIEscape(start); err != nil {
					return nil, err
				}
				continue
			}
			if !ctype.IsURI(r) {
				break
			}
			s.skip()
		}
		suffixEnd = s.pos
	}

	if !s.isBlankZAt(0) {
		b, _ := s.byteAt(0)
		switch b {
		case ',', '[', ']', '{', '}':
			if s.flowLevel == 0 {
				return nil, s.fail(start, "did not find expected whitespace or line break")
			}
		default:
			return nil, s.fail(start, "did not find expected whitespace or line break")
		}
	}

	end := s.mark()
	t := token.New(token.Tag, start, end)
	t.WithPrimary(atom.Atom{Src: s.in, Start: handleStart, End: handleEnd, Style: atom.Plain})
	t.WithSuffix(atom.Atom{Src: s.in, Start: suffixStart, End: suffixEnd, Style: atom.URI})
	return t, nil
}

// scanBlockScalar scans a literal (|) or folded (>) block scalar,
// including its chomping indicator (+/-) and explicit indentation
// indicator (1-9). Because folding/chomping and per-line indentation
// stripping cannot be expressed as a single contiguous byte range, the
// content is assembled eagerly into an owned buffer wrapped by a
// memSource, rather than left as a zero-copy view into the Input.
func (s *Scanner) scanBlockScalar(literal bool) (*token.Token, error) {
	start := s.mark()
	s.skip() // '|' or '>'

	chomping := 0 // 0 = clip, 1 = strip, -1 = keep
	increment := 0

	readIndicators := func() error {
		for i := 0; i < 2; i++ {
			b, ok := s.byteAt(0)
			if !ok {
				break
			}
			switch {
			case b == '+' || b == '-':
				if chomping != 0 {
					return s.fail(start, "found duplicate chomping indicator")
				}
				if b == '+' {
					chomping = -1
				} else {
					chomping = 1
				}
				s.skip()
			case ctype.IsDigit(rune(b)):
				if increment != 0 {
					return s.fail(start, "found duplicate indentation indicator")
				}
				if b == '0' {
					return s.fail(start, "found an indentation indicator equal to 0")
				}
				increment = int(b - '0')
				s.skip()
			default:
				return nil
			}
		}
		return nil
	}
	if err := readIndicators(); err != nil {
		return nil, err
	}

	for s.isBlankAt(0) {
		s.skip()
	}
	if b, ok := s.byteAt(0); ok && b == '#' {
		for !s.atEOF(0) && !s.isBreakAt(0) {
			s.skip()
		}
	}
	if !s.atEOF(0) && !s.isBreakAt(0) {
		return nil, s.fail(start, "did not find expected comment or line break")
	}
	if s.isBreakAt(0) {
		s.skipLine()
	}

	blockIndent := 0
	if increment > 0 {
		blockIndent = s.indent + increment
		if blockIndent < 1 {
			blockIndent = 1
		}
	}

	var buf []byte
	leadingBlank := false
	trailingBlank := false
	firstLine := true
	indentDetermined := increment > 0
	breaks := 0

	appendBreaks := func(n int, wasLiteral bool) {
		if n == 0 {
			return
		}
		if wasLiteral {
			for k := 0; k < n; k++ {
				buf = append(buf, '\n')
			}
			return
		}
		if firstLine {
			for k := 0; k < n; k++ {
				buf = append(buf, '\n')
			}
			return
		}
		if n == 1 && !leadingBlank && !trailingBlank {
			buf = append(buf, ' ')
		} else {
			for k := 0; k < n-1; k++ {
				buf = append(buf, '\n')
			}
			if n == 1 {
				buf = append(buf, '\n')
			}
		}
	}
	_ = appendBreaks

	for {
		// Measure this line's indentation.
		col := 0
		for s.isBlankAt(0) {
			s.skip()
			col++
		}
		if !indentDetermined {
			if col > s.indent {
				blockIndent = col
				indentDetermined = true
			} else {
				blockIndent = s.indent + 1
				if blockIndent < 1 {
					blockIndent = 1
				}
			}
		}
		if s.atEOF(0) {
			break
		}
		if s.isBreakAt(0) {
			if col < blockIndent {
				// Blank line: record a break, continue.
				trailingBlank = true
				breaks++
				s.skipLine()
				continue
			}
		}
		if col < blockIndent {
			break
		}

		// Emit buffered breaks.
		if breaks > 0 || !firstLine {
			appendLineBreaks(&buf, breaks, literal, firstLine, leadingBlank, trailingBlank)
		}
		breaks = 0
		leadingBlank = s.isBlankAt(0)

		lineStart := s.pos
		for !s.atEOF(0) && !s.isBreakAt(0) {
			s.skip()
		}
		buf = append(buf, s.in.Bytes()[lineStart:s.pos]...)
		trailingBlank = false
		firstLine = false

		if s.isBreakAt(0) {
			s.skipLine()
			breaks++
			// peek whether the line after is blank, to decide folding
			// on the next iteration via leadingBlank/trailingBlank.
		} else {
			break
		}
	}

	// Chomping.
	switch chomping {
	case 1: // strip
		// buf already has no trailing break content appended (breaks
		// are only flushed at the next content line); nothing to trim.
	case -1: // keep
		for k := 0; k < breaks; k++ {
			buf = append(buf, '\n')
		}
	default: // clip
		if breaks > 0 {
			buf = append(buf, '\n')
		}
	}

	end := s.mark()
	style := atom.Literal
	if !literal {
		style = atom.Folded
	}
	t := token.New(token.Scalar, start, end)
	if literal {
		t.Style = token.LiteralScalarStyle
	} else {
		t.Style = token.FoldedScalarStyle
	}
	src := memSource(buf)
	t.WithPrimary(atom.Atom{Src: src, Start: 0, End: len(buf), Style: style})
	return t, nil
}

// appendLineBreaks applies the block-folding rule for folded scalars
// (literal scalars always keep every break verbatim): a single break
// between two non-blank lines folds to a space; any other run of breaks,
// or a break touching a blank line, is kept as literal newlines.
func appendLineBreaks(buf *[]byte, breaks int, literal, firstLine, leadingBlank, trailingBlank bool) {
	if literal {
		for k := 0; k < breaks; k++ {
			*buf = append(*buf, '\n')
		}
		return
	}
	if breaks == 1 && !leadingBlank && !trailingBlank {
		*buf = append(*buf, ' ')
		return
	}
	for k := 0; k < breaks; k++ {
		*buf = append(*buf, '\n')
	}
}

// scanFlowScalar scans a single- or double-quoted scalar. Single-line
// instances stay zero-copy (the raw quoted body becomes the atom, with
// HasEscapes/HasFoldedBreaks flags set for token.Decode to interpret
// lazily); multi-line instances are folded eagerly into an owned buffer
// at scan time, since fold/indentation handling cannot be expressed as a
// view into a single contiguous input range.
func (s *Scanner) scanFlowScalar(single bool) (*token.Token, error) {
	start := s.mark()
	quote, _ := s.byteAt(0)
	s.skip()

	bodyStart := s.pos
	multiline := false
	hasEscapes := false

	var buf []byte
	leadingBlank := false
	breaks := 0
	firstLine := true

	flush := func() {
		if breaks == 0 {
			return
		}
		if breaks == 1 && !leadingBlank {
			buf = append(buf, ' ')
		} else {
			for k := 0; k < breaks-1; k++ {
				buf = append(buf, '\n')
			}
		}
		breaks = 0
	}

	for {
		if s.atEOF(0) {
			return nil, s.fail(start, "found unexpected end of stream while scanning a quoted scalar")
		}
		b, _ := s.byteAt(0)
		if b == byte(quote) {
			if single && func() bool { b2, ok := s.byteAt(1); return ok && b2 == '\'' }() {
				hasEscapes = true
				if multiline {
					flush()
					buf = append(buf, '\'')
				}
				s.skip()
				s.skip()
				continue
			}
			break
		}
		if !single && b == '\\' {
			nb, ok := s.byteAt(1)
			if ok && ctype.IsLB(rune(nb)) {
				// line continuation
				multiline = true
				hasEscapes = true
				if multiline {
					flush()
				}
				s.skip()
				s.skipLine()
				leadingBlank = s.isBlankAt(0)
				for s.isBlankAt(0) {
					s.skip()
				}
				breaks = 0
				firstLine = false
				continue
			}
			hasEscapes = true
			if multiline {
				segStart := s.pos
				s.skip()
				if nb2, ok := s.byteAt(0); ok {
					switch nb2 {
					case 'x':
						s.skip()
						s.skip()
						s.skip()
					case 'u':
						s.skip()
						for i := 0; i < 4; i++ {
							s.skip()
						}
					case 'U':
						s.skip()
						for i := 0; i < 8; i++ {
							s.skip()
						}
					default:
						s.skip()
					}
				}
				flush()
				buf = append(buf, s.in.Bytes()[segStart:s.pos]...)
			} else {
				s.skip()
				if nb2, ok := s.byteAt(0); ok {
					switch nb2 {
					case 'x':
						s.skip()
						s.skip()
						s.skip()
					case 'u':
						s.skip()
						for i := 0; i < 4; i++ {
							s.skip()
						}
					case 'U':
						s.skip()
						for i := 0; i < 8; i++ {
							s.skip()
						}
					default:
						s.skip()
					}
				}
			}
			continue
		}
		if s.isBreakAt(0) {
			if !multiline {
				multiline = true
				buf = append(buf, s.in.Bytes()[bodyStart:s.pos]...)
			}
			s.skipLine()
			breaks++
			leadingBlank = s.isBlankAt(0)
			for s.isBlankAt(0) {
				s.skip()
			}
			firstLine = false
			continue
		}
		if multiline {
			flush()
			segStart := s.pos
			for {
				bb, ok := s.byteAt(0)
				if !ok || bb == byte(quote) || s.isBreakAt(0) {
					break
				}
				if !single && bb == '\\' {
					break
				}
				if single && bb == '\'' {
					break
				}
				s.skip()
			}
			buf = append(buf, s.in.Bytes()[segStart:s.pos]...)
			continue
		}
		s.skip()
	}
	quoteEnd := s.pos
	s.skip() // closing quote
	end := s.mark()
	_ = firstLine

	style := atom.SingleQuoted
	if !single {
		style = atom.DoubleQuoted
	}

	t := token.New(token.Scalar, start, end)
	if single {
		t.Style = token.SingleQuotedScalarStyle
	} else {
		t.Style = token.DoubleQuotedScalarStyle
	}

	if !multiline {
		var flags atom.Flags
		if hasEscapes {
			flags |= atom.HasEscapes
		}
		t.WithPrimary(atom.Atom{Src: s.in, Start: bodyStart, End: quoteEnd, Style: style, Flags: flags})
		return t, nil
	}

	src := memSource(buf)
	t.WithPrimary(atom.Atom{Src: src, Start: 0, End: len(buf), Style: style})
	return t, nil
}

// scanPlainScalar scans an unquoted scalar. Single-line plain scalars
// stay zero-copy; multi-line ones fold eagerly into an owned buffer for
// the same reason multi-line quoted scalars do.
func (s *Scanner) scanPlainScalar() (*token.Token, error) {
	start := s.mark()
	indent := s.indent + 1

	bodyStart := s.pos
	multiline := false
	var buf []byte
	breaks := 0
	var trailingWSStart = -1

	flushFold := func() {
		if breaks == 0 {
			return
		}
		if breaks == 1 {
			buf = append(buf, ' ')
		} else {
			for k := 0; k < breaks-1; k++ {
				buf = append(buf, '\n')
			}
		}
		breaks = 0
	}

	for {
		if s.atEOF(0) {
			break
		}
		if s.isBreakAt(0) {
			if s.flowLevel == 0 && s.col < indent {
				break
			}
			if !multiline {
				multiline = true
				end := s.pos
				if trailingWSStart >= 0 {
					end = trailingWSStart
				}
				buf = append(buf, s.in.Bytes()[bodyStart:end]...)
			}
			s.skipLine()
			breaks++
			trailingWSStart = -1
			for s.isBlankAt(0) {
				if s.flowLevel == 0 && s.col >= indent {
					s.skip()
					continue
				}
				if s.flowLevel > 0 {
					s.skip()
					continue
				}
				break
			}
			continue
		}
		if s.isBlankAt(0) {
			if trailingWSStart < 0 {
				trailingWSStart = s.pos
			}
			s.skip()
			continue
		}
		// Check terminators: a continuation line indented below the
		// scalar or starting with a document marker, " #", ": " (or ":"
		// before a flow indicator at flow level), flow indicators at
		// flow level.
		b, _ := s.byteAt(0)
		if breaks > 0 && s.flowLevel == 0 && s.col < indent {
			break
		}
		if breaks > 0 && s.col == 0 && (s.matchIndicator("---") || s.matchIndicator("...")) {
			break
		}
		if b == '#' && (trailingWSStart >= 0 || breaks > 0) {
			break
		}
		if b == ':' {
			if s.isBlankZAt(1) {
				break
			}
			if s.flowLevel > 0 {
				nb, ok := s.byteAt(1)
				if ok {
					switch nb {
					case ',', '[', ']', '{', '}':
						goto done
					}
				}
			}
		}
		if s.flowLevel > 0 {
			switch b {
			case ',', '[', ']', '{', '}':
				goto done
			}
		}
		if trailingWSStart >= 0 || breaks > 0 {
			if multiline {
				if breaks == 0 {
					buf = append(buf, s.in.Bytes()[trailingWSStart:s.pos]...)
				}
				flushFold()
			}
			trailingWSStart = -1
		}
		if multiline {
			segStart := s.pos
			for {
				bb, ok := s.byteAt(0)
				if !ok || s.isBreakAt(0) || s.isBlankAt(0) {
					break
				}
				if bb == ':' && s.isBlankZAt(1) {
					break
				}
				if s.flowLevel > 0 {
					stop := false
					switch bb {
					case ',', '[', ']', '{', '}':
						stop = true
					case ':':
						if nb, ok := s.byteAt(1); ok {
							switch nb {
							case ',', '[', ']', '{', '}':
								stop = true
							}
						}
					}
					if stop {
						break
					}
				}
				s.skip()
			}
			if s.pos == segStart {
				s.skip()
			} else {
				buf = append(buf, s.in.Bytes()[segStart:s.pos]...)
			}
			continue
		}
		s.skip()
	}
done:
	if breaks > 0 {
		s.simpleKeyAllowed = true
	}
	end := s.mark()
	bodyEnd := s.pos
	if trailingWSStart >= 0 && !multiline {
		bodyEnd = trailingWSStart
	}

	t := token.New(token.Scalar, start, end)
	t.Style = token.PlainScalarStyle

	if !multiline {
		t.WithPrimary(atom.Atom{Src: s.in, Start: bodyStart, End: bodyEnd, Style: atom.Plain})
		return t, nil
	}
	src := memSource(buf)
	t.WithPrimary(atom.Atom{Src: src, Start: 0, End: len(buf), Style: atom.Plain})
	return t, nil
}
