// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

package emitter

import (
	"github.com/ohporter/yamlkit/internal/ctype"
	"github.com/ohporter/yamlkit/internal/document"
)

// scalarShape records which presentation styles a scalar's literal text
// permits.
type scalarShape struct {
	multiline           bool
	flowPlainAllowed    bool
	blockPlainAllowed   bool
	singleQuotedAllowed bool
	blockAllowed        bool
}

func analyzeScalar(value string) scalarShape {
	if len(value) == 0 {
		return scalarShape{flowPlainAllowed: false, blockPlainAllowed: true, singleQuotedAllowed: true, blockAllowed: false}
	}

	b := []byte(value)
	var blockIndicators, flowIndicators, lineBreaks, special, tabs bool
	var leadingSpace, leadingBreak, trailingSpace, trailingBreak bool
	var breakSpace, spaceBreak bool
	var precededByWS, previousSpace, previousBreak bool

	if len(b) >= 3 && ((b[0] == '-' && b[1] == '-' && b[2] == '-') || (b[0] == '.' && b[1] == '.' && b[2] == '.')) {
		blockIndicators = true
		flowIndicators = true
	}

	precededByWS = true
	for i := 0; i < len(b); {
		r, w, ok := ctype.Decode(b[i:])
		if !ok {
			w = 1
		}
		followedByWS := i+w >= len(b) || isBlankAt(b, i+w)

		if i == 0 {
			switch b[i] {
			case '#', ',', '[', ']', '{', '}', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
				flowIndicators = true
				blockIndicators = true
			case '?', ':':
				flowIndicators = true
				if followedByWS {
					blockIndicators = true
				}
			case '-':
				if followedByWS {
					flowIndicators = true
					blockIndicators = true
				}
			}
		} else {
			switch b[i] {
			case ',', '?', '[', ']', '{', '}':
				flowIndicators = true
			case ':':
				flowIndicators = true
				if followedByWS {
					blockIndicators = true
				}
			case '#':
				if precededByWS {
					flowIndicators = true
					blockIndicators = true
				}
			}
		}

		if b[i] == '\t' {
			tabs = true
		} else if ok && !ctype.IsPrintable(r) {
			special = true
		}

		switch {
		case ok && ctype.IsBlank(r):
			if i == 0 {
				leadingSpace = true
			}
			if i+w == len(b) {
				trailingSpace = true
			}
			if previousBreak {
				breakSpace = true
			}
			previousSpace, previousBreak = true, false
		case ok && ctype.IsLB(r):
			lineBreaks = true
			if i == 0 {
				leadingBreak = true
			}
			if i+w == len(b) {
				trailingBreak = true
			}
			if previousSpace {
				spaceBreak = true
			}
			previousSpace, previousBreak = false, true
		default:
			previousSpace, previousBreak = false, false
		}

		precededByWS = isBlankOrZeroAt(b, i)
		i += w
	}

	s := scalarShape{
		multiline:           lineBreaks,
		flowPlainAllowed:    true,
		blockPlainAllowed:   true,
		singleQuotedAllowed: true,
		blockAllowed:        true,
	}
	if leadingSpace || leadingBreak || trailingSpace || trailingBreak {
		s.flowPlainAllowed = false
		s.blockPlainAllowed = false
	}
	if trailingSpace {
		s.blockAllowed = false
	}
	if breakSpace {
		s.flowPlainAllowed = false
		s.blockPlainAllowed = false
		s.singleQuotedAllowed = false
	}
	if spaceBreak || tabs || special {
		s.flowPlainAllowed = false
		s.blockPlainAllowed = false
		s.singleQuotedAllowed = false
	}
	if spaceBreak || special {
		s.blockAllowed = false
	}
	if lineBreaks {
		s.flowPlainAllowed = false
		s.blockPlainAllowed = false
	}
	if flowIndicators {
		s.flowPlainAllowed = false
	}
	if blockIndicators {
		s.blockPlainAllowed = false
	}
	return s
}

func isBlankAt(b []byte, i int) bool {
	if i >= len(b) {
		return true
	}
	r, _, ok := ctype.Decode(b[i:])
	return ok && ctype.IsBlank(r)
}

func isBlankOrZeroAt(b []byte, i int) bool {
	if i >= len(b) {
		return true
	}
	r, _, ok := ctype.Decode(b[i:])
	return ok && (ctype.IsBlank(r) || ctype.IsLB(r))
}

// pickScalarStyle is the tree-walking analogue of selectScalarStyle: it
// takes the node's style hint plus what the content actually permits
// and returns the style that will be written, downgrading as needed.
func pickScalarStyle(hint document.Style, flowContext bool, shape scalarShape, canonical bool) document.Style {
	style := hint
	if style == document.AnyStyle {
		style = document.PlainStyle
	}
	if canonical {
		style = document.DoubleQuotedStyle
	}

	if style == document.PlainStyle {
		if (flowContext && !shape.flowPlainAllowed) || (!flowContext && !shape.blockPlainAllowed) {
			style = document.SingleQuotedStyle
		}
	}
	if style == document.SingleQuotedStyle && !shape.singleQuotedAllowed {
		style = document.DoubleQuotedStyle
	}
	if (style == document.LiteralStyle || style == document.FoldedStyle) && (!shape.blockAllowed || flowContext) {
		style = document.DoubleQuotedStyle
	}
	return style
}
