// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

package document

import (
	"fmt"

	"github.com/ohporter/yamlkit/internal/parser"
	"github.com/ohporter/yamlkit/internal/token"
)

// EventSource is the subset of parser.Parser the builder depends on,
// kept narrow so tests can feed a canned event sequence.
type EventSource interface {
	Next() (*parser.Event, error)
}

// BuildError reports a build-time failure: a duplicate key, a missing
// value, or a malformed alias target, with the offending position.
type BuildError struct {
	Mark   token.Mark
	Reason string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("yaml: %s: %s", e.Mark, e.Reason)
}

// Builder composes one Doc per call to Build from a parser's event
// stream, walking it into a Node tree: MAPPING-START/SEQUENCE-START
// allocate and push a parent; SCALAR/ALIAS allocate a leaf; *-END pops.
type Builder struct {
	src EventSource

	// EnforceUniqueKeys makes AppendPair error on a duplicate mapping
	// key. When it is false, both pairs are kept in source order (a key
	// lookup then finds the first one).
	EnforceUniqueKeys bool

	// EqualFn compares two key nodes under semantic equality; the
	// resolver package provides the canonical one.
	EqualFn func(a, b *Node) bool

	pending *parser.Event
	streamStarted bool
	streamEnded   bool
}

// NewBuilder creates a Builder reading events from src.
func NewBuilder(src EventSource) *Builder {
	return &Builder{src: src, EqualFn: func(a, b *Node) bool { return false }}
}

func (b *Builder) next() (*parser.Event, error) {
	if b.pending != nil {
		ev := b.pending
		b.pending = nil
		return ev, nil
	}
	return b.src.Next()
}

func (b *Builder) unread(ev *parser.Event) { b.pending = ev }

// Build consumes events for the next document in the stream and returns
// its Doc, or (nil, nil) once the stream has been exhausted.
func (b *Builder) Build() (*Doc, error) {
	if !b.streamStarted {
		ev, err := b.next()
		if err != nil {
			return nil, err
		}
		if ev == nil || ev.Type != parser.StreamStartEvent {
			return nil, &BuildError{Reason: "expected stream start"}
		}
		b.streamStarted = true
	}
	if b.streamEnded {
		return nil, nil
	}

	ev, err := b.next()
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, &BuildError{Reason: "unexpected end of event stream"}
	}
	if ev.Type == parser.StreamEndEvent {
		b.streamEnded = true
		return nil, nil
	}
	if ev.Type != parser.DocumentStartEvent {
		return nil, &BuildError{Mark: ev.StartMark, Reason: "expected document start"}
	}

	doc := New()
	if ev.State != nil {
		doc.State = ev.State
	}

	root, err := b.parseChild(doc)
	if err != nil {
		return nil, err
	}
	doc.Root = root

	end, err := b.next()
	if err != nil {
		return nil, err
	}
	if end == nil || end.Type != parser.DocumentEndEvent {
		return nil, &BuildError{Reason: "expected document end"}
	}

	doc.State.MarkShared()
	return doc, nil
}

func (b *Builder) parseChild(doc *Doc) (*Node, error) {
	ev, err := b.next()
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, &BuildError{Reason: "unexpected end of event stream"}
	}
	switch ev.Type {
	case parser.ScalarEvent:
		return b.scalar(doc, ev)
	case parser.AliasEvent:
		return b.alias(doc, ev)
	case parser.SequenceStartEvent:
		return b.sequence(doc, ev)
	case parser.MappingStartEvent:
		return b.mapping(doc, ev)
	}
	return nil, &BuildError{Mark: ev.StartMark, Reason: fmt.Sprintf("unexpected event %v while parsing node", ev.Type)}
}

// tagName expands ev.Tag into its full tag URI via doc.State.ResolveTag,
// so Node.Tag always holds a canonical tag (e.g.
// "tag:yaml.org,2002:str") rather than the source's shorthand spelling
// -- the form the resolver's semantic equality and the emitter's
// shorthandTag reversal both assume.
func (b *Builder) tagName(doc *Doc, ev *parser.Event) (string, error) {
	if ev.Tag == nil {
		return "", nil
	}
	handle := ev.Tag.Primary.RawString()
	suffix := ev.Tag.Suffix.RawString()
	tag, err := doc.State.ResolveTag(handle, suffix)
	if err != nil {
		return "", &BuildError{Mark: ev.StartMark, Reason: err.Error()}
	}
	return tag, nil
}

func (b *Builder) attachCommon(n *Node, ev *parser.Event, doc *Doc) error {
	n.Line = ev.StartMark.Line
	n.Column = ev.StartMark.Column
	if ev.Anchor != nil {
		n.Anchor = ev.Anchor.Primary.RawString()
		doc.RegisterAnchor(n.Anchor, n)
	}
	tag, err := b.tagName(doc, ev)
	if err != nil {
		return err
	}
	if tag != "" {
		n.Tag = tag
	}
	return nil
}

func (b *Builder) scalar(doc *Doc, ev *parser.Event) (*Node, error) {
	n := &Node{Kind: ScalarNode, ScalarToken: ev.Scalar, Style: scalarStyle(ev.Style)}
	if err := b.attachCommon(n, ev, doc); err != nil {
		return nil, err
	}
	return n, nil
}

func (b *Builder) alias(doc *Doc, ev *parser.Event) (*Node, error) {
	name := ev.Scalar.Primary.RawString()
	n := &Node{Kind: ScalarNode, Style: AliasStyle, ScalarToken: ev.Scalar, Line: ev.StartMark.Line, Column: ev.StartMark.Column}
	n.Alias = doc.LookupAnchor(name)
	if n.Alias == nil {
		return nil, &BuildError{Mark: ev.StartMark, Reason: fmt.Sprintf("unknown anchor %q referenced", name)}
	}
	return n, nil
}

func (b *Builder) sequence(doc *Doc, ev *parser.Event) (*Node, error) {
	n := &Node{Kind: SequenceNode}
	if ev.Flow {
		n.Style = FlowStyle
	}
	if err := b.attachCommon(n, ev, doc); err != nil {
		return nil, err
	}
	for {
		peeked, err := b.next()
		if err != nil {
			return nil, err
		}
		if peeked.Type == parser.SequenceEndEvent {
			break
		}
		b.unread(peeked)
		child, err := b.parseChild(doc)
		if err != nil {
			return nil, err
		}
		if err := n.AppendChild(child); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (b *Builder) mapping(doc *Doc, ev *parser.Event) (*Node, error) {
	n := &Node{Kind: MappingNode}
	if ev.Flow {
		n.Style = FlowStyle
	}
	if err := b.attachCommon(n, ev, doc); err != nil {
		return nil, err
	}
	for {
		peeked, err := b.next()
		if err != nil {
			return nil, err
		}
		if peeked.Type == parser.MappingEndEvent {
			break
		}
		b.unread(peeked)
		key, err := b.parseChild(doc)
		if err != nil {
			return nil, err
		}
		value, err := b.parseChild(doc)
		if err != nil {
			return nil, err
		}
		if err := n.AppendPair(key, value, b.EnforceUniqueKeys, b.EqualFn); err != nil {
			return nil, &BuildError{Mark: token.Mark{Line: key.Line, Column: key.Column}, Reason: "build mapping: " + err.Error()}
		}
	}
	return n, nil
}

func scalarStyle(s token.ScalarStyle) Style {
	switch s {
	case token.PlainScalarStyle:
		return PlainStyle
	case token.SingleQuotedScalarStyle:
		return SingleQuotedStyle
	case token.DoubleQuotedScalarStyle:
		return DoubleQuotedStyle
	case token.LiteralScalarStyle:
		return LiteralStyle
	case token.FoldedScalarStyle:
		return FoldedStyle
	}
	return AnyStyle
}

// SetParents walks the tree once, assigning Parent on every child; the
// builder already does this incrementally via AppendChild/AppendPair,
// so SetParents exists for trees assembled by other means (resolver
// merge output, programmatic construction) that want the same pass.
func SetParents(n *Node) {
	switch n.Kind {
	case SequenceNode:
		for _, c := range n.Sequence {
			c.Parent = n
			SetParents(c)
		}
	case MappingNode:
		for _, p := range n.Pairs {
			p.Key.Parent = n
			p.Value.Parent = n
			SetParents(p.Key)
			SetParents(p.Value)
		}
	}
}
