// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Package parser drives internal/scanner through a recursive-descent
// grammar state machine over a token buffer, and emits one Event per
// call to Next.
//
// stream               ::= STREAM-START implicit_document? explicit_document* STREAM-END
// implicit_document    ::= block_node DOCUMENT-END*
// explicit_document    ::= DIRECTIVE* DOCUMENT-START block_node? DOCUMENT-END*
// block_node           ::= ALIAS | properties block_content? | block_content
// flow_node            ::= ALIAS | properties flow_content? | flow_content
// properties           ::= TAG ANCHOR? | ANCHOR TAG?
// block_collection     ::= block_sequence | block_mapping
// flow_collection      ::= flow_sequence | flow_mapping
package parser

import (
	"fmt"

	"github.com/ohporter/yamlkit/internal/docstate"
	"github.com/ohporter/yamlkit/internal/scanner"
	"github.com/ohporter/yamlkit/internal/token"
)

// EventType discriminates an Event's variant.
type EventType int

const (
	NoEvent EventType = iota
	StreamStartEvent
	StreamEndEvent
	DocumentStartEvent
	DocumentEndEvent
	SequenceStartEvent
	SequenceEndEvent
	MappingStartEvent
	MappingEndEvent
	ScalarEvent
	AliasEvent
)

func (t EventType) String() string {
	switch t {
	case NoEvent:
		return "NO_EVENT"
	case StreamStartEvent:
		return "STREAM_START_EVENT"
	case StreamEndEvent:
		return "STREAM_END_EVENT"
	case DocumentStartEvent:
		return "DOCUMENT_START_EVENT"
	case DocumentEndEvent:
		return "DOCUMENT_END_EVENT"
	case SequenceStartEvent:
		return "SEQUENCE_START_EVENT"
	case SequenceEndEvent:
		return "SEQUENCE_END_EVENT"
	case MappingStartEvent:
		return "MAPPING_START_EVENT"
	case MappingEndEvent:
		return "MAPPING_END_EVENT"
	case ScalarEvent:
		return "SCALAR_EVENT"
	case AliasEvent:
		return "ALIAS_EVENT"
	}
	return "UNKNOWN_EVENT"
}

// Event is a discriminated parse event, valid only until the next call
// to Next (its atoms still reference tokens the parser keeps alive for
// exactly that long; callers that need to retain an event's content
// should Retain the underlying token via Scalar/Anchor/Tag themselves).
type Event struct {
	Type EventType

	StartMark, EndMark token.Mark

	Anchor *token.Token
	Tag    *token.Token

	// Scalar carries the content token for ScalarEvent, or the alias
	// name token for AliasEvent.
	Scalar *token.Token
	Style  token.ScalarStyle

	Flow bool // sequence/mapping started with flow indicators

	Implicit bool // doc-start/doc-end had no explicit marker

	State *docstate.State // set on DocumentStartEvent
}

type state int

const (
	stStreamStart state = iota
	stImplicitDocStart
	stDocStart
	stDocContent
	stDocEnd
	stBlockNode
	stBlockNodeOrIndentlessSeq
	stBlockSequenceEntryFirst
	stBlockSequenceEntry
	stIndentlessSequenceEntry
	stBlockMappingKeyFirst
	stBlockMappingKey
	stBlockMappingValue
	stFlowNode
	stFlowSequenceEntryFirst
	stFlowSequenceEntry
	stFlowSequenceEntryMappingKey
	stFlowSequenceEntryMappingValue
	stFlowSequenceEntryMappingEnd
	stFlowMappingKeyFirst
	stFlowMappingKey
	stFlowMappingValue
	stEnd
)

// Error is a grammar-stage failure.
type Error struct {
	Mark    token.Mark
	Problem string
}

func (e *Error) Error() string { return fmt.Sprintf("yaml: %s: %s", e.Mark, e.Problem) }

// Parser drives a Scanner through the grammar, producing Events.
type Parser struct {
	sc *scanner.Scanner

	state  state
	states []state

	marks []token.Mark

	streamEnded bool

	// current lookahead token, fetched but not yet consumed.
	tok    *token.Token
	tokEOF bool

	docState *docstate.State
}

// New creates a Parser over sc.
func New(sc *scanner.Scanner) *Parser {
	return &Parser{sc: sc, state: stStreamStart}
}

func (p *Parser) peek() (*token.Token, error) {
	if p.tok != nil || p.tokEOF {
		return p.tok, nil
	}
	t, err := p.sc.Next()
	if err != nil {
		return nil, err
	}
	if t == nil {
		p.tokEOF = true
		return nil, nil
	}
	p.tok = t
	return t, nil
}

func (p *Parser) skip() {
	p.tok = nil
}

func (p *Parser) fail(mark token.Mark, problem string) error {
	return &Error{Mark: mark, Problem: problem}
}

func (p *Parser) pushState(s state) { p.states = append(p.states, s) }
func (p *Parser) popState() state {
	s := p.states[len(p.states)-1]
	p.states = p.states[:len(p.states)-1]
	return s
}

// Next produces the next event, or (nil, nil) once StreamEndEvent has
// already been returned and consumed.
func (p *Parser) Next() (*Event, error) {
	if p.streamEnded {
		return nil, nil
	}
	return p.stateMachine()
}

func (p *Parser) stateMachine() (*Event, error) {
	switch p.state {
	case stStreamStart:
		return p.parseStreamStart()
	case stImplicitDocStart:
		return p.parseDocumentStart(true)
	case stDocStart:
		return p.parseDocumentStart(false)
	case stDocContent:
		return p.parseDocumentContent()
	case stDocEnd:
		return p.parseDocumentEnd()
	case stBlockNode:
		return p.parseNode(true, false)
	case stBlockNodeOrIndentlessSeq:
		return p.parseNode(true, true)
	case stFlowNode:
		return p.parseNode(false, false)
	case stBlockSequenceEntryFirst:
		return p.parseBlockSequenceEntry(true)
	case stBlockSequenceEntry:
		return p.parseBlockSequenceEntry(false)
	case stIndentlessSequenceEntry:
		return p.parseIndentlessSequenceEntry()
	case stBlockMappingKeyFirst:
		return p.parseBlockMappingKey(true)
	case stBlockMappingKey:
		return p.parseBlockMappingKey(false)
	case stBlockMappingValue:
		return p.parseBlockMappingValue()
	case stFlowSequenceEntryFirst:
		return p.parseFlowSequenceEntry(true)
	case stFlowSequenceEntry:
		return p.parseFlowSequenceEntry(false)
	case stFlowSequenceEntryMappingKey:
		return p.parseFlowSequenceEntryMappingKey()
	case stFlowSequenceEntryMappingValue:
		return p.parseFlowSequenceEntryMappingValue()
	case stFlowSequenceEntryMappingEnd:
		return p.parseFlowSequenceEntryMappingEnd()
	case stFlowMappingKeyFirst:
		return p.parseFlowMappingKey(true)
	case stFlowMappingKey:
		return p.parseFlowMappingKey(false)
	case stFlowMappingValue:
		return p.parseFlowMappingValue(false)
	case stEnd:
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		ev := &Event{Type: StreamEndEvent, StartMark: t.StartMark, EndMark: t.EndMark}
		p.skip()
		p.streamEnded = true
		return ev, nil
	}
	return nil, p.fail(token.Mark{}, fmt.Sprintf("internal error: unhandled parser state %d", p.state))
}

func (p *Parser) parseStreamStart() (*Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.Type != token.StreamStart {
		return nil, p.fail(t.StartMark, "did not find expected <stream-start>")
	}
	p.state = stImplicitDocStart
	ev := &Event{Type: StreamStartEvent, StartMark: t.StartMark, EndMark: t.EndMark}
	p.skip()
	return ev, nil
}

func (p *Parser) processDirectives() (*docstate.State, error) {
	st := docstate.NewEmpty()
	for {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		if t.Type != token.VersionDirective && t.Type != token.TagDirective {
			break
		}
		switch t.Type {
		case token.VersionDirective:
			if err := st.SetVersion(t.Major, t.Minor); err != nil {
				return nil, p.fail(t.StartMark, err.Error())
			}
		case token.TagDirective:
			handle := t.Primary.RawString()
			prefix := t.Suffix.RawString()
			if err := st.AppendTagDirective(docstate.TagDirective{Handle: handle, Prefix: prefix}, false); err != nil {
				return nil, p.fail(t.StartMark, err.Error())
			}
		}
		p.skip()
	}
	st.ApplyDefaults()
	return st, nil
}

func (p *Parser) parseDocumentStart(implicit bool) (*Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}

	for !implicit && (t.Type == token.DocumentEnd) {
		p.skip()
		t, err = p.peek()
		if err != nil {
			return nil, err
		}
	}

	if implicit && t.Type != token.VersionDirective && t.Type != token.TagDirective &&
		t.Type != token.DocumentStart && t.Type != token.StreamEnd {
		st, err := p.processDirectives()
		if err != nil {
			return nil, err
		}
		p.docState = st
		p.pushState(stDocEnd)
		p.state = stBlockNode
		ev := &Event{Type: DocumentStartEvent, StartMark: t.StartMark, EndMark: t.StartMark, Implicit: true, State: st}
		return ev, nil
	}

	if t.Type != token.StreamEnd {
		startMark := t.StartMark
		st, err := p.processDirectives()
		if err != nil {
			return nil, err
		}
		t, err = p.peek()
		if err != nil {
			return nil, err
		}
		if t.Type != token.DocumentStart {
			return nil, p.fail(t.StartMark, "did not find expected <document start>")
		}
		p.docState = st
		p.pushState(stDocEnd)
		p.state = stDocContent
		endMark := t.EndMark
		p.skip()
		return &Event{Type: DocumentStartEvent, StartMark: startMark, EndMark: endMark, Implicit: false, State: st}, nil
	}

	ev := &Event{Type: StreamEndEvent, StartMark: t.StartMark, EndMark: t.EndMark}
	p.state = stEnd
	p.skip()
	p.streamEnded = true
	return ev, nil
}

func (p *Parser) parseDocumentContent() (*Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch t.Type {
	case token.VersionDirective, token.TagDirective, token.DocumentStart, token.DocumentEnd, token.StreamEnd:
		p.state = p.popState()
		return p.processEmptyScalar(t.StartMark)
	}
	return p.parseNode(true, false)
}

func (p *Parser) parseDocumentEnd() (*Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	startMark := t.StartMark
	endMark := t.StartMark
	implicit := true
	if t.Type == token.DocumentEnd {
		endMark = t.EndMark
		implicit = false
		p.skip()
	}
	p.state = stImplicitDocStart
	return &Event{Type: DocumentEndEvent, StartMark: startMark, EndMark: endMark, Implicit: implicit}, nil
}

func (p *Parser) processEmptyScalar(mark token.Mark) (*Event, error) {
	return &Event{Type: ScalarEvent, StartMark: mark, EndMark: mark, Style: token.PlainScalarStyle}, nil
}

// parseNode parses block_node / flow_node / block_content, consuming
// any leading ANCHOR/TAG properties in either order.
func (p *Parser) parseNode(block, indentlessSequence bool) (*Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}

	if t.Type == token.Alias {
		p.state = p.popState()
		ev := &Event{Type: AliasEvent, StartMark: t.StartMark, EndMark: t.EndMark, Scalar: t}
		p.skip()
		return ev, nil
	}

	startMark := t.StartMark
	var anchorTok, tagTok *token.Token

	if t.Type == token.Anchor {
		anchorTok = t
		p.skip()
		t, err = p.peek()
		if err != nil {
			return nil, err
		}
		if t.Type == token.Tag {
			tagTok = t
			p.skip()
			t, err = p.peek()
			if err != nil {
				return nil, err
			}
		}
	} else if t.Type == token.Tag {
		tagTok = t
		p.skip()
		t, err = p.peek()
		if err != nil {
			return nil, err
		}
		if t.Type == token.Anchor {
			anchorTok = t
			p.skip()
			t, err = p.peek()
			if err != nil {
				return nil, err
			}
		}
	}

	endMark := t.EndMark

	switch {
	case t.Type == token.Scalar:
		p.state = p.popState()
		ev := &Event{Type: ScalarEvent, StartMark: startMark, EndMark: endMark, Anchor: anchorTok, Tag: tagTok, Scalar: t, Style: t.Style}
		p.skip()
		return ev, nil

	case t.Type == token.FlowSequenceStart:
		p.state = stFlowSequenceEntryFirst
		ev := &Event{Type: SequenceStartEvent, StartMark: startMark, EndMark: endMark, Anchor: anchorTok, Tag: tagTok, Flow: true}
		return ev, nil

	case t.Type == token.FlowMappingStart:
		p.state = stFlowMappingKeyFirst
		ev := &Event{Type: MappingStartEvent, StartMark: startMark, EndMark: endMark, Anchor: anchorTok, Tag: tagTok, Flow: true}
		return ev, nil

	case block && t.Type == token.BlockSequenceStart:
		p.state = stBlockSequenceEntryFirst
		ev := &Event{Type: SequenceStartEvent, StartMark: startMark, EndMark: endMark, Anchor: anchorTok, Tag: tagTok}
		return ev, nil

	case block && indentlessSequence && t.Type == token.BlockEntry:
		p.state = stIndentlessSequenceEntry
		ev := &Event{Type: SequenceStartEvent, StartMark: startMark, EndMark: endMark, Anchor: anchorTok, Tag: tagTok}
		return ev, nil

	case block && t.Type == token.BlockMappingStart:
		p.state = stBlockMappingKeyFirst
		ev := &Event{Type: MappingStartEvent, StartMark: startMark, EndMark: endMark, Anchor: anchorTok, Tag: tagTok}
		return ev, nil

	case anchorTok != nil || tagTok != nil:
		p.state = p.popState()
		return &Event{Type: ScalarEvent, StartMark: startMark, EndMark: endMark, Anchor: anchorTok, Tag: tagTok, Style: token.PlainScalarStyle}, nil
	}

	what := "block"
	if !block {
		what = "flow"
	}
	return nil, p.fail(t.StartMark, fmt.Sprintf("did not find expected node content (%s context)", what))
}

func (p *Parser) parseBlockSequenceEntry(first bool) (*Event, error) {
	if first {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		p.marks = append(p.marks, t.StartMark)
		p.skip()
	}
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.Type == token.BlockEntry {
		endMark := t.EndMark
		p.skip()
		t2, err := p.peek()
		if err != nil {
			return nil, err
		}
		if t2.Type != token.BlockEntry && t2.Type != token.BlockEnd {
			p.pushState(stBlockSequenceEntry)
			return p.parseNode(true, false)
		}
		p.state = stBlockSequenceEntry
		return p.processEmptyScalar(endMark)
	}
	if t.Type == token.BlockEnd {
		p.state = p.popState()
		p.marks = p.marks[:len(p.marks)-1]
		ev := &Event{Type: SequenceEndEvent, StartMark: t.StartMark, EndMark: t.EndMark}
		p.skip()
		return ev, nil
	}
	return nil, p.fail(t.StartMark, "did not find expected '-' indicator")
}

func (p *Parser) parseIndentlessSequenceEntry() (*Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.Type == token.BlockEntry {
		endMark := t.EndMark
		p.skip()
		t2, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch t2.Type {
		case token.BlockEntry, token.Key, token.Value, token.BlockEnd:
			p.state = stIndentlessSequenceEntry
			return p.processEmptyScalar(endMark)
		}
		p.pushState(stIndentlessSequenceEntry)
		return p.parseNode(true, false)
	}
	p.state = p.popState()
	return &Event{Type: SequenceEndEvent, StartMark: t.StartMark, EndMark: t.StartMark}, nil
}

func (p *Parser) parseBlockMappingKey(first bool) (*Event, error) {
	if first {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		p.marks = append(p.marks, t.StartMark)
		p.skip()
	}
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.Type == token.Key {
		endMark := t.EndMark
		p.skip()
		t2, err := p.peek()
		if err != nil {
			return nil, err
		}
		if t2.Type != token.Key && t2.Type != token.Value && t2.Type != token.BlockEnd {
			p.pushState(stBlockMappingValue)
			return p.parseNode(true, true)
		}
		p.state = stBlockMappingValue
		return p.processEmptyScalar(endMark)
	}
	if t.Type == token.BlockEnd {
		p.state = p.popState()
		p.marks = p.marks[:len(p.marks)-1]
		ev := &Event{Type: MappingEndEvent, StartMark: t.StartMark, EndMark: t.EndMark}
		p.skip()
		return ev, nil
	}
	return nil, p.fail(t.StartMark, "did not find expected key")
}

func (p *Parser) parseBlockMappingValue() (*Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.Type == token.Value {
		endMark := t.EndMark
		p.skip()
		t2, err := p.peek()
		if err != nil {
			return nil, err
		}
		if t2.Type != token.Key && t2.Type != token.Value && t2.Type != token.BlockEnd {
			p.pushState(stBlockMappingKey)
			return p.parseNode(true, true)
		}
		p.state = stBlockMappingKey
		return p.processEmptyScalar(endMark)
	}
	p.state = stBlockMappingKey
	return p.processEmptyScalar(t.StartMark)
}

func (p *Parser) parseFlowSequenceEntry(first bool) (*Event, error) {
	if first {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		p.marks = append(p.marks, t.StartMark)
		p.skip()
	}
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.Type != token.FlowSequenceEnd {
		if !first {
			if t.Type == token.FlowEntry {
				p.skip()
				t, err = p.peek()
				if err != nil {
					return nil, err
				}
			} else {
				return nil, p.fail(t.StartMark, "did not find expected ',' or ']'")
			}
		}
		if t.Type == token.Key {
			p.state = stFlowSequenceEntryMappingKey
			ev := &Event{Type: MappingStartEvent, StartMark: t.StartMark, EndMark: t.EndMark, Flow: true, Implicit: true}
			p.skip()
			return ev, nil
		}
		if t.Type != token.FlowSequenceEnd {
			p.pushState(stFlowSequenceEntry)
			return p.parseNode(false, false)
		}
	}
	p.state = p.popState()
	p.marks = p.marks[:len(p.marks)-1]
	ev := &Event{Type: SequenceEndEvent, StartMark: t.StartMark, EndMark: t.EndMark}
	p.skip()
	return ev, nil
}

func (p *Parser) parseFlowSequenceEntryMappingKey() (*Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.Type != token.Value && t.Type != token.FlowEntry && t.Type != token.FlowSequenceEnd {
		p.pushState(stFlowSequenceEntryMappingValue)
		return p.parseNode(false, false)
	}
	mark := t.EndMark
	p.state = stFlowSequenceEntryMappingValue
	return p.processEmptyScalar(mark)
}

func (p *Parser) parseFlowSequenceEntryMappingValue() (*Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.Type == token.Value {
		p.skip()
		t2, err := p.peek()
		if err != nil {
			return nil, err
		}
		if t2.Type != token.FlowEntry && t2.Type != token.FlowSequenceEnd {
			p.pushState(stFlowSequenceEntryMappingEnd)
			return p.parseNode(false, false)
		}
	}
	p.state = stFlowSequenceEntryMappingEnd
	return p.processEmptyScalar(t.StartMark)
}

func (p *Parser) parseFlowSequenceEntryMappingEnd() (*Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	p.state = stFlowSequenceEntry
	return &Event{Type: MappingEndEvent, StartMark: t.StartMark, EndMark: t.StartMark}, nil
}

func (p *Parser) parseFlowMappingKey(first bool) (*Event, error) {
	if first {
		t, err := p.peek()
		if err != nil {
			return nil, err
		}
		p.marks = append(p.marks, t.StartMark)
		p.skip()
	}
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.Type != token.FlowMappingEnd {
		if !first {
			if t.Type == token.FlowEntry {
				p.skip()
				t, err = p.peek()
				if err != nil {
					return nil, err
				}
			} else {
				return nil, p.fail(t.StartMark, "did not find expected ',' or '}'")
			}
		}
		switch t.Type {
		case token.Key:
			p.skip()
			t2, err := p.peek()
			if err != nil {
				return nil, err
			}
			if t2.Type != token.Value && t2.Type != token.FlowEntry && t2.Type != token.FlowMappingEnd {
				p.pushState(stFlowMappingValue)
				return p.parseNode(false, false)
			}
			p.state = stFlowMappingValue
			return p.processEmptyScalar(t2.StartMark)
		case token.Value:
			p.pushState(stFlowMappingValue)
			return p.parseNode(false, false)
		case token.FlowMappingEnd:
			// fallthrough to close below
		default:
			p.pushState(stFlowMappingValue)
			return p.parseNode(false, false)
		}
	}
	p.state = p.popState()
	p.marks = p.marks[:len(p.marks)-1]
	ev := &Event{Type: MappingEndEvent, StartMark: t.StartMark, EndMark: t.EndMark}
	p.skip()
	return ev, nil
}

func (p *Parser) parseFlowMappingValue(empty bool) (*Event, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if empty {
		p.state = stFlowMappingKey
		return p.processEmptyScalar(t.StartMark)
	}
	if t.Type == token.Value {
		p.skip()
		t2, err := p.peek()
		if err != nil {
			return nil, err
		}
		if t2.Type != token.FlowEntry && t2.Type != token.FlowMappingEnd {
			p.pushState(stFlowMappingKey)
			return p.parseNode(false, false)
		}
	}
	p.state = stFlowMappingKey
	return p.processEmptyScalar(t.StartMark)
}
