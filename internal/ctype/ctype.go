// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Package ctype decodes UTF-8 and classifies codepoints the way the YAML
// 1.2/1.3 grammar needs: line-break recognition (including NEL/LS/PS),
// blank/whitespace, URI characters, and the "printable" set used to decide
// whether a scalar may be left unescaped.
package ctype

import "unicode/utf8"

// NEL, LS and PS are the non-ASCII line-break codepoints YAML recognizes
// in addition to LF and CR.
const (
	nel = ''
	ls  = ' '
	ps  = ' '
)

// Decode returns the rune starting at b[0] and its width in bytes. ok is
// false if b is empty or begins with an invalid UTF-8 sequence.
func Decode(b []byte) (r rune, width int, ok bool) {
	if len(b) == 0 {
		return 0, 0, false
	}
	r, width = utf8.DecodeRune(b)
	if r == utf8.RuneError && width <= 1 {
		return 0, 0, false
	}
	return r, width, true
}

// IsBlank reports whether r is a space or tab.
func IsBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

// IsLB reports whether r is a YAML line-break character: LF, CR, NEL, LS
// or PS. CR-LF is recognized as a single break by SkipLB, not by IsLB.
func IsLB(r rune) bool {
	switch r {
	case '\n', '\r', nel, ls, ps:
		return true
	}
	return false
}

// IsBreakZ reports whether r is a line break or end-of-input sentinel (0).
func IsBreakZ(r rune, ok bool) bool {
	return !ok || r == 0 || IsLB(r)
}

// IsWS reports whether r is blank or a line break.
func IsWS(r rune) bool {
	return IsBlank(r) || IsLB(r)
}

// IsDigit reports whether r is an ASCII digit.
func IsDigit(r rune) bool { return r >= '0' && r <= '9' }

// AsDigit returns the numeric value of an ASCII digit rune.
func AsDigit(r rune) int { return int(r - '0') }

// IsHex reports whether r is a hex digit.
func IsHex(r rune) bool {
	return IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// AsHex returns the numeric value of a hex digit rune.
func AsHex(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	}
	return -1
}

// IsAlpha reports whether r may appear in an anchor/tag-handle name: a
// letter, digit, '_' or '-'.
func IsAlpha(r rune) bool {
	return IsDigit(r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '-'
}

// IsAlnum reports whether r is a letter or digit.
func IsAlnum(r rune) bool {
	return IsDigit(r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsURI reports whether r may appear unescaped in a tag URI: alnum plus
// the URI "mark" characters and the percent-escape/flow punctuation YAML
// allows in tag shorthand.
func IsURI(r rune) bool {
	if IsAlnum(r) {
		return true
	}
	switch r {
	case ';', '/', '?', ':', '@', '&', '=', '+', '$', ',', '_', '.', '!', '~', '*', '\'', '(', ')', '[', ']', '%', '-', '#':
		return true
	}
	return false
}

// IsPrintable reports whether r is in the YAML printable set: the
// printable ASCII range, tab, line breaks, and most of the Unicode BMP
// and astral planes, excluding C0/C1 controls, the BOM, and surrogates.
func IsPrintable(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0x7E:
		return true
	case r == nel:
		return true
	case r >= 0xA0 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD && r != 0xFEFF:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// SkipLB returns the number of bytes consumed by the line break starting
// at b[0] (2 for CR-LF, otherwise the width of the single break
// character), or 0 if b does not start with a line break.
func SkipLB(b []byte) int {
	r, w, ok := Decode(b)
	if !ok || !IsLB(r) {
		return 0
	}
	if r == '\r' && len(b) > w && b[w] == '\n' {
		return w + 1
	}
	return w
}
