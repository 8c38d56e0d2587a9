// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

package emitter

import (
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"github.com/pkg/errors"

	"github.com/ohporter/yamlkit/internal/docstate"
	"github.com/ohporter/yamlkit/internal/document"
)

// flowForced reports whether opts.Mode overrides a node's own style
// hint, the way ModeBlockOnly/ModeFlowOnly pin every collection to one
// presentation regardless of what it was parsed (or built) as.
func (e *Emitter) flowForced() (forced bool, flow bool) {
	switch e.opts.Mode {
	case ModeBlockOnly:
		return true, false
	case ModeFlowOnly:
		return true, true
	}
	return false, false
}

func (e *Emitter) wantFlow(n *document.Node, parentFlow bool) bool {
	if forced, flow := e.flowForced(); forced {
		return flow
	}
	return parentFlow || n.Style == document.FlowStyle || e.opts.Canonical
}

// emitNode writes n and recurses into its children. flow is true when
// an enclosing flow collection has already forced flow context (flow
// never turns back to block once entered, per the grammar). isKey is
// true when n is a mapping key, which only affects which WriteKind a
// scalar is tagged with and whether the scalar writers may break its
// text across lines (never, for a key).
func (e *Emitter) emitNode(n *document.Node, flow bool, isKey bool) error {
	if n == nil {
		return errors.New("emit: nil node")
	}

	if err := e.emitHeadComment(n); err != nil {
		return err
	}

	if n.Kind == document.ScalarNode && n.Style == document.AliasStyle {
		if err := e.emitAlias(n); err != nil {
			return err
		}
		return e.emitLineComment(n)
	}

	if n.Anchor != "" {
		if err := e.writeIndicator([]byte{'&'}, true, false, false); err != nil {
			return err
		}
		if err := e.writeAnchor(n.Anchor); err != nil {
			return err
		}
	}
	if n.Tag != "" {
		if err := e.emitTag(n.Tag); err != nil {
			return err
		}
	}

	var err error
	switch n.Kind {
	case document.ScalarNode:
		err = e.emitScalarContent(n, flow, isKey)
	case document.SequenceNode:
		err = e.emitSequence(n, flow)
	case document.MappingNode:
		err = e.emitMapping(n, flow)
	default:
		return errors.Errorf("emit: unknown node kind %v", n.Kind)
	}
	if err != nil {
		return err
	}
	return e.emitLineComment(n)
}

func (e *Emitter) emitAlias(n *document.Node) error {
	if err := e.writeIndicator([]byte{'*'}, true, false, false); err != nil {
		return err
	}
	name := ""
	if n.ScalarToken != nil {
		name = n.ScalarToken.Primary.RawString()
	}
	return e.writeAll(KindAlias, []byte(name))
}

// emitTag resolves tag to a shorthand ("!!str") under the current
// document's directive table when possible, falling back to the
// always-legal verbatim form ("!<tag:yaml.org,2002:str>") otherwise.
// The verbatim form needs no declared directive, so there is always a
// representable output even when tag directives are unavailable.
func (e *Emitter) emitTag(tag string) error {
	if handle, suffix, ok := shorthandTag(e.state, tag); ok {
		if err := e.writeTagHandle(handle); err != nil {
			return err
		}
		if suffix == "" {
			return nil
		}
		return e.writeTagContent(suffix, false)
	}
	if err := e.writeIndicator([]byte("!<"), true, false, false); err != nil {
		return err
	}
	if err := e.writeTagContent(tag, false); err != nil {
		return err
	}
	return e.writeIndicator([]byte{'>'}, false, false, false)
}

// shorthandTag finds the longest directive prefix covering tag and
// returns the handle/suffix split, the reverse of docstate.ResolveTag.
func shorthandTag(state *docstate.State, tag string) (handle, suffix string, ok bool) {
	if state == nil {
		return "", "", false
	}
	bestHandle, bestPrefix := "", ""
	for _, d := range state.Directives() {
		if strings.HasPrefix(tag, d.Prefix) && len(d.Prefix) > len(bestPrefix) {
			bestHandle, bestPrefix = d.Handle, d.Prefix
		}
	}
	if bestPrefix == "" {
		return "", "", false
	}
	return bestHandle, tag[len(bestPrefix):], true
}

func (e *Emitter) emitScalarContent(n *document.Node, flow bool, isKey bool) error {
	text := n.Text(e.decode)
	shape := analyzeScalar(text)
	style := pickScalarStyle(n.Style, flow, shape, e.opts.Canonical)
	kind := scalarKind(style, isKey)
	allowBreaks := !isKey

	switch style {
	case document.SingleQuotedStyle:
		return e.writeSingleQuotedScalar(kind, text, allowBreaks, e.opts.Width)
	case document.DoubleQuotedStyle:
		return e.writeDoubleQuotedScalar(kind, text, allowBreaks, e.opts.Width)
	case document.LiteralStyle:
		return e.writeLiteralScalar(text, e.opts.Indent)
	case document.FoldedStyle:
		return e.writeFoldedScalar(text, e.opts.Indent, e.opts.Width)
	default:
		return e.writePlainScalar(kind, text, allowBreaks, e.opts.Width)
	}
}

func scalarKind(style document.Style, isKey bool) WriteKind {
	if isKey {
		switch style {
		case document.SingleQuotedStyle:
			return KindSingleQuotedScalarKey
		case document.DoubleQuotedStyle:
			return KindDoubleQuotedScalarKey
		default:
			return KindPlainScalarKey
		}
	}
	switch style {
	case document.SingleQuotedStyle:
		return KindSingleQuotedScalar
	case document.DoubleQuotedStyle:
		return KindDoubleQuotedScalar
	case document.LiteralStyle:
		return KindLiteralScalar
	case document.FoldedStyle:
		return KindFoldedScalar
	default:
		return KindPlainScalar
	}
}

func (e *Emitter) emitSequence(n *document.Node, parentFlow bool) error {
	if e.wantFlow(n, parentFlow) {
		return e.emitFlowSequence(n)
	}
	return e.emitBlockSequence(n)
}

func (e *Emitter) emitFlowSequence(n *document.Node) error {
	if err := e.writeIndicator([]byte{'['}, true, true, false); err != nil {
		return err
	}
	e.pushIndent()
	for i, c := range n.Sequence {
		if i > 0 {
			if err := e.writeIndicator([]byte{','}, false, false, false); err != nil {
				return err
			}
		}
		if e.opts.Canonical || (e.opts.Width > 0 && e.column > e.opts.Width) {
			if err := e.writeIndent(); err != nil {
				return err
			}
		}
		if err := e.emitNode(c, true, false); err != nil {
			return err
		}
	}
	e.popIndent()
	if e.column == 0 || e.opts.Canonical {
		if err := e.writeIndent(); err != nil {
			return err
		}
	}
	return e.writeIndicator([]byte{']'}, false, false, false)
}

func (e *Emitter) emitBlockSequence(n *document.Node) error {
	e.pushIndent()
	for _, c := range n.Sequence {
		if err := e.writeIndent(); err != nil {
			return err
		}
		if err := e.writeIndicator([]byte{'-'}, true, false, true); err != nil {
			return err
		}
		if err := e.emitNode(c, false, false); err != nil {
			return err
		}
	}
	e.popIndent()
	return nil
}

func (e *Emitter) emitMapping(n *document.Node, parentFlow bool) error {
	pairs := n.Pairs
	if e.opts.SortKeys {
		pairs = sortPairsForEmit(pairs, e.decode)
	}
	if e.wantFlow(n, parentFlow) {
		return e.emitFlowMapping(pairs)
	}
	return e.emitBlockMapping(pairs)
}

func (e *Emitter) emitFlowMapping(pairs []document.NodePair) error {
	if err := e.writeIndicator([]byte{'{'}, true, true, false); err != nil {
		return err
	}
	e.pushIndent()
	for i, p := range pairs {
		if i > 0 {
			if err := e.writeIndicator([]byte{','}, false, false, false); err != nil {
				return err
			}
		}
		if e.opts.Canonical || (e.opts.Width > 0 && e.column > e.opts.Width) {
			if err := e.writeIndent(); err != nil {
				return err
			}
		}
		if e.checkSimpleKey(p.Key) && !e.opts.Canonical {
			if err := e.emitNode(p.Key, true, true); err != nil {
				return err
			}
			if err := e.writeIndicator([]byte{':'}, false, false, false); err != nil {
				return err
			}
		} else {
			if err := e.writeIndicator([]byte{'?'}, true, false, false); err != nil {
				return err
			}
			if err := e.emitNode(p.Key, true, false); err != nil {
				return err
			}
			if e.opts.Canonical || (e.opts.Width > 0 && e.column > e.opts.Width) {
				if err := e.writeIndent(); err != nil {
					return err
				}
			}
			if err := e.writeIndicator([]byte{':'}, true, false, false); err != nil {
				return err
			}
		}
		if err := e.emitNode(p.Value, true, false); err != nil {
			return err
		}
	}
	e.popIndent()
	if e.column == 0 || e.opts.Canonical {
		if err := e.writeIndent(); err != nil {
			return err
		}
	}
	return e.writeIndicator([]byte{'}'}, false, false, false)
}

func (e *Emitter) emitBlockMapping(pairs []document.NodePair) error {
	e.pushIndent()
	for _, p := range pairs {
		if err := e.writeIndent(); err != nil {
			return err
		}
		if e.checkSimpleKey(p.Key) {
			if err := e.emitNode(p.Key, false, true); err != nil {
				return err
			}
			if err := e.writeIndicator([]byte{':'}, false, false, false); err != nil {
				return err
			}
		} else {
			if err := e.writeIndicator([]byte{'?'}, true, false, true); err != nil {
				return err
			}
			if err := e.emitNode(p.Key, false, false); err != nil {
				return err
			}
			if err := e.writeIndent(); err != nil {
				return err
			}
			if err := e.writeIndicator([]byte{':'}, true, false, true); err != nil {
				return err
			}
		}
		if err := e.emitNode(p.Value, false, false); err != nil {
			return err
		}
	}
	e.popIndent()
	return nil
}

// checkSimpleKey reports whether n may be written as a bare "key:"
// rather than the explicit "? key\n: value" form: a scalar, not
// multi-line, short enough not to force a line break mid-key.
func (e *Emitter) checkSimpleKey(n *document.Node) bool {
	if n.Kind != document.ScalarNode || n.Style == document.AliasStyle {
		return false
	}
	if n.Anchor != "" || n.Tag != "" {
		return false
	}
	text := n.Text(e.decode)
	return len(text) <= 128 && !strings.ContainsAny(text, "\n\r")
}

func (e *Emitter) emitHeadComment(n *document.Node) error {
	if !e.opts.OutputComments || n.HeadComment == "" {
		return nil
	}
	for _, line := range e.wrapComment(n.HeadComment) {
		if err := e.writeIndent(); err != nil {
			return err
		}
		if err := e.writeComment(line); err != nil {
			return err
		}
	}
	return nil
}

// emitLineComment writes n's trailing same-line comment. FootComment is
// intentionally not emitted here: doing so correctly requires tracking
// a separate foot-indent field so a foot comment lines up under the
// collection it follows rather than the item that precedes it; that
// bookkeeping isn't wired yet.
func (e *Emitter) emitLineComment(n *document.Node) error {
	if !e.opts.OutputComments || n.LineComment == "" {
		return nil
	}
	if err := e.put(KindWhitespace, ' '); err != nil {
		return err
	}
	return e.writeComment(n.LineComment)
}

func (e *Emitter) wrapComment(text string) []string {
	if e.opts.Width <= 0 {
		return []string{text}
	}
	wrapped := wordwrap.WrapString(text, uint(e.opts.Width))
	return strings.Split(wrapped, "\n")
}
