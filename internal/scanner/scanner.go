// Copyright 2006-2010 Kirill Simonov
// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Package scanner turns Input bytes into a FIFO of Tokens. It implements
// indentation tracking, flow/block context, implicit (simple) key
// detection with no artificial length limit, block scalar chomping, and
// tag/anchor/alias lexemes, the way the libyaml-derived scanners in the
// retrieved corpus do it (see the package-level grounding note in
// DESIGN.md: this module's algorithm is ported from the pack's
// WillAbides-yaml / carvel-dev-ytt scanner sources, since the primary
// teacher's own scanner file was not present in the retrieval pack).
package scanner

import (
	"fmt"

	"github.com/ohporter/yamlkit/internal/atom"
	"github.com/ohporter/yamlkit/internal/ctype"
	"github.com/ohporter/yamlkit/internal/input"
	"github.com/ohporter/yamlkit/internal/token"
)

// Error is a scanner-stage failure: bad indentation, an unterminated
// quoted scalar, a malformed block-scalar header, and so on.
type Error struct {
	Mark    token.Mark
	Problem string
}

func (e *Error) Error() string {
	return fmt.Sprintf("yaml: %s: %s", e.Mark, e.Problem)
}

// NeedMore is returned by Next when a Streamed Input has run out of
// committed bytes; the caller should Append more and retry.
type NeedMore struct{}

func (NeedMore) Error() string { return "yaml: need more input" }

const maxFlowLevel = 10000
const maxIndents = 10000

type simpleKey struct {
	possible    bool
	required    bool
	tokenNumber int
	mark        token.Mark
}

// memSource is a trivial atom.Source over an owned byte slice, used for
// block-scalar atoms whose content the scanner must assemble (chomping
// and per-line indentation stripping are not expressible as a single
// contiguous input range).
type memSource []byte

func (m memSource) Slice(start, end int) []byte { return m[start:end] }

// Scanner produces a queue of Tokens from an Input.
type Scanner struct {
	in *input.Input

	pos  int
	line int
	col  int

	streamStartProduced bool
	streamEndProduced   bool

	flowLevel int

	tokens        []*token.Token
	tokensHead    int
	tokensParsed  int

	indent  int
	indents []int

	simpleKeyAllowed bool
	simpleKeys       []simpleKey

	skipComments bool

	err error
}

// New creates a Scanner over in.
func New(in *input.Input) *Scanner {
	return &Scanner{in: in, line: 1, indent: -1}
}

func (s *Scanner) mark() token.Mark { return token.Mark{Index: s.pos, Line: s.line, Column: s.col} }

// byteAt returns the byte at pos+off, or (0, false) past the committed
// buffer.
func (s *Scanner) byteAt(off int) (byte, bool) {
	p := s.pos + off
	if p >= s.in.Len() {
		return 0, false
	}
	return s.in.Bytes()[p], true
}

func (s *Scanner) runeAt(off int) (rune, int, bool) {
	p := s.pos + off
	if p >= s.in.Len() {
		return 0, 0, false
	}
	return ctype.Decode(s.in.Bytes()[p:])
}

func (s *Scanner) isBlankZAt(off int) bool {
	r, _, ok := s.runeAt(off)
	if !ok {
		return true
	}
	return ctype.IsBlank(r) || ctype.IsLB(r)
}

func (s *Scanner) isBlankAt(off int) bool {
	r, _, ok := s.runeAt(off)
	return ok && ctype.IsBlank(r)
}

func (s *Scanner) isBreakAt(off int) bool {
	r, _, ok := s.runeAt(off)
	return ok && ctype.IsLB(r)
}

func (s *Scanner) atEOF(off int) bool {
	_, _, ok := s.runeAt(off)
	return !ok
}

// skip advances the cursor by one rune.
func (s *Scanner) skip() {
	r, w, ok := s.runeAt(0)
	if !ok {
		return
	}
	if r == '\t' {
		s.col++
	} else {
		s.col++
	}
	s.pos += w
	_ = r
}

// skipLine advances past a line break (CR, LF, or CR-LF), resetting the
// column and bumping the line.
func (s *Scanner) skipLine() {
	n := ctype.SkipLB(s.in.Bytes()[s.pos:])
	if n == 0 {
		return
	}
	s.pos += n
	s.line++
	s.col = 0
}

func (s *Scanner) fail(mark token.Mark, problem string) error {
	if s.err == nil {
		s.err = &Error{Mark: mark, Problem: problem}
	}
	return s.err
}

// Next returns the next token from the queue, scanning more input as
// needed. It returns NeedMore for a Streamed Input that has not yet
// committed enough bytes, and io.EOF-equivalent via a nil token once
// STREAM-END has been returned and consumed.
func (s *Scanner) Next() (*token.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	// The head token is held back while a simple key saved at its
	// position is still valid: a later ':' may yet insert KEY (and
	// BLOCK-MAPPING-START) in front of it.
	for {
		need := s.tokensHead >= len(s.tokens)
		for i := range s.simpleKeys {
			if sk := &s.simpleKeys[i]; !need && sk.possible && sk.tokenNumber == s.tokensParsed {
				valid, err := s.simpleKeyIsValid(sk)
				if err != nil {
					return nil, err
				}
				need = valid
			}
		}
		if !need || s.streamEndProduced {
			break
		}
		if err := s.fetchMore(); err != nil {
			return nil, err
		}
	}
	if s.tokensHead >= len(s.tokens) {
		return nil, nil
	}
	t := s.tokens[s.tokensHead]
	s.tokensHead++
	s.tokensParsed++
	return t, nil
}

// insertToken inserts tok at absolute queue position pos (relative to
// tokensParsed), or appends if pos < 0.
func (s *Scanner) insertToken(pos int, tok *token.Token) {
	if pos < 0 {
		s.tokens = append(s.tokens, tok)
		return
	}
	rel := pos - s.tokensParsed
	idx := s.tokensHead + rel
	s.tokens = append(s.tokens, nil)
	copy(s.tokens[idx+1:], s.tokens[idx:len(s.tokens)-1])
	s.tokens[idx] = tok
}

func (s *Scanner) nextTokenNumber() int {
	return s.tokensParsed + (len(s.tokens) - s.tokensHead)
}

func (s *Scanner) fetchMore() error {
	if !s.streamStartProduced {
		return s.fetchStreamStart()
	}

	scanMark := s.mark()
	if err := s.scanToNextToken(); err != nil {
		return err
	}
	s.unrollIndent(s.col, scanMark)

	if s.atEOF(0) {
		return s.fetchStreamEnd()
	}

	if s.col == 0 {
		if b, _ := s.byteAt(0); b == '%' {
			return s.fetchDirective()
		}
		if s.matchIndicator("---") {
			return s.fetchDocumentIndicator(token.DocumentStart)
		}
		if s.matchIndicator("...") {
			return s.fetchDocumentIndicator(token.DocumentEnd)
		}
	}

	b, _ := s.byteAt(0)
	switch {
	case b == '[':
		return s.fetchFlowCollectionStart(token.FlowSequenceStart)
	case b == '{':
		return s.fetchFlowCollectionStart(token.FlowMappingStart)
	case b == ']':
		return s.fetchFlowCollectionEnd(token.FlowSequenceEnd)
	case b == '}':
		return s.fetchFlowCollectionEnd(token.FlowMappingEnd)
	case b == ',':
		return s.fetchFlowEntry()
	case b == '-' && s.isBlankZAt(1):
		return s.fetchBlockEntry()
	case b == '?' && (s.flowLevel > 0 || s.isBlankZAt(1)):
		return s.fetchKey()
	case b == ':' && (s.flowLevel > 0 || s.isBlankZAt(1)):
		return s.fetchValue()
	case b == '*':
		return s.fetchAnchor(token.Alias)
	case b == '&':
		return s.fetchAnchor(token.Anchor)
	case b == '!':
		return s.fetchTag()
	case b == '|' && s.flowLevel == 0:
		return s.fetchBlockScalar(true)
	case b == '>' && s.flowLevel == 0:
		return s.fetchBlockScalar(false)
	case b == '\'':
		return s.fetchFlowScalar(true)
	case b == '"':
		return s.fetchFlowScalar(false)
	}

	if s.plainScalarMayStart() {
		return s.fetchPlainScalar()
	}
	return s.fail(s.mark(), "found character that cannot start any token")
}

func (s *Scanner) matchIndicator(ind string) bool {
	for i := 0; i < len(ind); i++ {
		b, ok := s.byteAt(i)
		if !ok || b != ind[i] {
			return false
		}
	}
	return s.isBlankZAt(len(ind))
}

func (s *Scanner) plainScalarMayStart() bool {
	b, ok := s.byteAt(0)
	if !ok {
		return false
	}
	special := map[byte]bool{
		',': true, '[': true, ']': true, '{': true, '}': true,
		'#': true, '&': true, '*': true, '!': true, '|': true,
		'>': true, '\'': true, '"': true, '%': true, '@': true, '`': true,
	}
	if s.isBlankZAt(0) {
		return false
	}
	if b == '-' {
		return !s.isBlankZAt(1)
	}
	if b == '?' || b == ':' {
		if s.flowLevel == 0 {
			return !s.isBlankZAt(1)
		}
		return !special[b]
	}
	return !special[b]
}

// -- fetch_* ----------------------------------------------------------

func (s *Scanner) fetchStreamStart() error {
	s.indent = -1
	s.simpleKeys = []simpleKey{{}}
	s.simpleKeyAllowed = true
	s.streamStartProduced = true
	m := s.mark()
	t := token.New(token.StreamStart, m, m)
	s.insertToken(-1, t)
	return nil
}

func (s *Scanner) fetchStreamEnd() error {
	if s.col != 0 {
		s.col = 0
		s.line++
	}
	s.unrollIndent(-1, s.mark())
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false
	s.streamEndProduced = true
	m := s.mark()
	s.insertToken(-1, token.New(token.StreamEnd, m, m))
	return nil
}

func (s *Scanner) fetchDocumentIndicator(typ token.Type) error {
	s.unrollIndent(-1, s.mark())
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false
	start := s.mark()
	s.skip()
	s.skip()
	s.skip()
	end := s.mark()
	s.insertToken(-1, token.New(typ, start, end))
	return nil
}

func (s *Scanner) fetchFlowCollectionStart(typ token.Type) error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	if err := s.increaseFlowLevel(); err != nil {
		return err
	}
	s.simpleKeyAllowed = true
	start := s.mark()
	s.skip()
	end := s.mark()
	s.insertToken(-1, token.New(typ, start, end))
	return nil
}

func (s *Scanner) fetchFlowCollectionEnd(typ token.Type) error {
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.decreaseFlowLevel()
	s.simpleKeyAllowed = false
	start := s.mark()
	s.skip()
	end := s.mark()
	s.insertToken(-1, token.New(typ, start, end))
	return nil
}

func (s *Scanner) fetchFlowEntry() error {
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = true
	start := s.mark()
	s.skip()
	end := s.mark()
	s.insertToken(-1, token.New(token.FlowEntry, start, end))
	return nil
}

func (s *Scanner) fetchBlockEntry() error {
	if s.flowLevel == 0 {
		if !s.simpleKeyAllowed {
			return s.fail(s.mark(), "block sequence entries are not allowed in this context")
		}
		if err := s.rollIndent(s.col, -1, token.BlockSequenceStart, s.mark()); err != nil {
			return err
		}
	}
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = true
	start := s.mark()
	s.skip()
	end := s.mark()
	s.insertToken(-1, token.New(token.BlockEntry, start, end))
	return nil
}

func (s *Scanner) fetchKey() error {
	if s.flowLevel == 0 {
		if !s.simpleKeyAllowed {
			return s.fail(s.mark(), "mapping keys are not allowed in this context")
		}
		if err := s.rollIndent(s.col, -1, token.BlockMappingStart, s.mark()); err != nil {
			return err
		}
	}
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = s.flowLevel == 0
	start := s.mark()
	s.skip()
	end := s.mark()
	s.insertToken(-1, token.New(token.Key, start, end))
	return nil
}

func (s *Scanner) fetchValue() error {
	sk := &s.simpleKeys[len(s.simpleKeys)-1]
	valid, err := s.simpleKeyIsValid(sk)
	if err != nil {
		return err
	}
	if valid {
		s.insertToken(sk.tokenNumber, token.New(token.Key, sk.mark, sk.mark))
		if err := s.rollIndent(sk.mark.Column, sk.tokenNumber, token.BlockMappingStart, sk.mark); err != nil {
			return err
		}
		sk.possible = false
		s.simpleKeyAllowed = false
	} else {
		if s.flowLevel == 0 {
			if !s.simpleKeyAllowed {
				return s.fail(s.mark(), "mapping values are not allowed in this context")
			}
			if err := s.rollIndent(s.col, -1, token.BlockMappingStart, s.mark()); err != nil {
				return err
			}
		}
		s.simpleKeyAllowed = s.flowLevel == 0
	}
	start := s.mark()
	s.skip()
	end := s.mark()
	s.insertToken(-1, token.New(token.Value, start, end))
	return nil
}

func (s *Scanner) fetchAnchor(typ token.Type) error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false
	t, err := s.scanAnchor(typ)
	if err != nil {
		return err
	}
	s.insertToken(-1, t)
	return nil
}

func (s *Scanner) fetchTag() error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false
	t, err := s.scanTag()
	if err != nil {
		return err
	}
	s.insertToken(-1, t)
	return nil
}

func (s *Scanner) fetchBlockScalar(literal bool) error {
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = true
	t, err := s.scanBlockScalar(literal)
	if err != nil {
		return err
	}
	s.insertToken(-1, t)
	return nil
}

func (s *Scanner) fetchFlowScalar(single bool) error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false
	t, err := s.scanFlowScalar(single)
	if err != nil {
		return err
	}
	s.insertToken(-1, t)
	return nil
}

func (s *Scanner) fetchPlainScalar() error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false
	t, err := s.scanPlainScalar()
	if err != nil {
		return err
	}
	s.insertToken(-1, t)
	return nil
}

func (s *Scanner) fetchDirective() error {
	s.unrollIndent(-1, s.mark())
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false
	t, err := s.scanDirective()
	if err != nil {
		return err
	}
	s.insertToken(-1, t)
	return nil
}

// -- simple keys / indentation -----------------------------------------

func (s *Scanner) simpleKeyIsValid(sk *simpleKey) (bool, error) {
	if !sk.possible {
		return false, nil
	}
	if sk.mark.Line < s.line {
		if sk.required {
			return false, s.fail(sk.mark, "could not find expected ':'")
		}
		sk.possible = false
		return false, nil
	}
	return true, nil
}

func (s *Scanner) saveSimpleKey() error {
	required := s.flowLevel == 0 && s.indent == s.col
	if s.simpleKeyAllowed {
		sk := simpleKey{possible: true, required: required, tokenNumber: s.nextTokenNumber(), mark: s.mark()}
		if err := s.removeSimpleKey(); err != nil {
			return err
		}
		s.simpleKeys[len(s.simpleKeys)-1] = sk
	}
	return nil
}

func (s *Scanner) removeSimpleKey() error {
	sk := &s.simpleKeys[len(s.simpleKeys)-1]
	if sk.possible && sk.required {
		return s.fail(sk.mark, "could not find expected ':'")
	}
	sk.possible = false
	return nil
}

func (s *Scanner) increaseFlowLevel() error {
	s.simpleKeys = append(s.simpleKeys, simpleKey{mark: s.mark()})
	s.flowLevel++
	if s.flowLevel > maxFlowLevel {
		return s.fail(s.mark(), fmt.Sprintf("exceeded max flow depth of %d", maxFlowLevel))
	}
	return nil
}

func (s *Scanner) decreaseFlowLevel() {
	if s.flowLevel > 0 {
		s.flowLevel--
		s.simpleKeys = s.simpleKeys[:len(s.simpleKeys)-1]
	}
}

func (s *Scanner) rollIndent(column, number int, typ token.Type, mark token.Mark) error {
	if s.flowLevel > 0 {
		return nil
	}
	if s.indent < column {
		s.indents = append(s.indents, s.indent)
		s.indent = column
		if len(s.indents) > maxIndents {
			return s.fail(mark, fmt.Sprintf("exceeded max indentation depth of %d", maxIndents))
		}
		s.insertToken(number, token.New(typ, mark, mark))
	}
	return nil
}

func (s *Scanner) unrollIndent(column int, scanMark token.Mark) {
	if s.flowLevel > 0 {
		return
	}
	blockMark := scanMark
	if blockMark.Index > 0 {
		blockMark.Index--
	}
	for s.indent > column {
		s.insertToken(-1, token.New(token.BlockEnd, blockMark, blockMark))
		s.indent = s.indents[len(s.indents)-1]
		s.indents = s.indents[:len(s.indents)-1]
	}
}

// -- whitespace/comment skipping ----------------------------------------

func (s *Scanner) scanToNextToken() error {
	for {
		for s.isBlankAt(0) {
			s.skip()
		}
		if b, ok := s.byteAt(0); ok && b == '#' {
			for !s.atEOF(0) && !s.isBreakAt(0) {
				s.skip()
			}
		}
		if s.isBreakAt(0) {
			s.skipLine()
			if s.flowLevel == 0 {
				s.simpleKeyAllowed = true
			}
			continue
		}
		break
	}
	return nil
}

// -- directives -----------------------------------------------------

func (s *Scanner) scanDirective() (*token.Token, error) {
	start := s.mark()
	s.skip() // '%'
	name := s.scanDirectiveName()
	switch name {
	case "YAML":
		major, minor, err := s.scanVersionDirectiveValue(start)
		if err != nil {
			return nil, err
		}
		s.scanDirectiveTail(start)
		end := s.mark()
		t := token.New(token.VersionDirective, start, end)
		t.Major, t.Minor = major, minor
		return t, nil
	case "TAG":
		handleStart := s.pos
		for s.isBlankAt(0) {
			s.skip()
		}
		handleBegin := s.pos
		if err := s.scanTagHandleRaw(true, start); err != nil {
			return nil, err
		}
		handleEnd := s.pos
		for s.isBlankAt(0) {
			s.skip()
		}
		uriBegin := s.pos
		if err := s.scanTagURIRaw(true, start); err != nil {
			return nil, err
		}
		uriEnd := s.pos
		s.scanDirectiveTail(start)
		end := s.mark()
		_ = handleStart
		t := token.New(token.TagDirective, start, end)
		t.WithPrimary(atom.Atom{Src: s.in, Start: handleBegin, End: handleEnd, Style: atom.Plain})
		t.WithSuffix(atom.Atom{Src: s.in, Start: uriBegin, End: uriEnd, Style: atom.URI})
		return t, nil
	default:
		// Unknown directive: consume to end of line and ignore, per the
		// grammar ("reserved directives" must be ignorable).
		for !s.isBreakAt(0) && !s.atEOF(0) {
			s.skip()
		}
		s.scanDirectiveTail(start)
		end := s.mark()
		return token.New(token.Comment, start, end), nil
	}
}

func (s *Scanner) scanDirectiveName() string {
	begin := s.pos
	for {
		r, _, ok := s.runeAt(0)
		if !ok || !ctype.IsAlpha(r) {
			break
		}
		s.skip()
	}
	return string(s.in.Bytes()[begin:s.pos])
}

func (s *Scanner) scanVersionDirectiveValue(start token.Mark) (int8, int8, error) {
	for s.isBlankAt(0) {
		s.skip()
	}
	major, err := s.scanVersionNumber(start)
	if err != nil {
		return 0, 0, err
	}
	if b, _ := s.byteAt(0); b != '.' {
		return 0, 0, s.fail(start, "did not find expected digit or '.' character")
	}
	s.skip()
	minor, err := s.scanVersionNumber(start)
	if err != nil {
		return 0, 0, err
	}
	return major, minor, nil
}

func (s *Scanner) scanVersionNumber(start token.Mark) (int8, error) {
	value := 0
	length := 0
	for {
		r, _, ok := s.runeAt(0)
		if !ok || !ctype.IsDigit(r) {
			break
		}
		length++
		if length > 9 {
			return 0, s.fail(start, "found extremely long version number")
		}
		value = value*10 + ctype.AsDigit(r)
		s.skip()
	}
	if length == 0 {
		return 0, s.fail(start, "did not find expected version number")
	}
	return int8(value), nil
}

func (s *Scanner) scanDirectiveTail(start token.Mark) {
	for s.isBlankAt(0) {
		s.skip()
	}
	if b, _ := s.byteAt(0); b == '#' {
		for !s.atEOF(0) && !s.isBreakAt(0) {
			s.skip()
		}
	}
}

func (s *Scanner) scanTagHandleRaw(directive bool, start token.Mark) error {
	b, _ := s.byteAt(0)
	if b != '!' {
		return s.fail(start, "did not find expected '!'")
	}
	s.skip()
	for {
		r, _, ok := s.runeAt(0)
		if !ok || !ctype.IsAlpha(r) {
			break
		}
		s.skip()
	}
	if b, _ := s.byteAt(0); b == '!' {
		s.skip()
	} else if directive {
		// bare "!" handle
	}
	return nil
}

func (s *Scanner) scanTagURIRaw(directive bool, start token.Mark) error {
	any := false
	for {
		r, _, ok := s.runeAt(0)
		if !ok {
			break
		}
		if r == '%' {
			if err := s.skipURIEscape(start); err != nil {
				return err
			}
			any = true
			continue
		}
		if !ctype.IsURI(r) {
			break
		}
		s.skip()
		any = true
	}
	if !any {
		return s.fail(start, "did not find expected tag URI")
	}
	return nil
}

func (s *Scanner) skipURIEscape(start token.Mark) error {
	s.skip() // '%'
	r1, _, ok1 := s.runeAt(0)
	r2, _, ok2 := s.runeAt(1)
	if !ok1 || !ok2 || !ctype.IsHex(r1) || !ctype.IsHex(r2) {
		return s.fail(start, "did not find URI escaped octet")
	}
	s.skip()
	s.skip()
	return nil
}
