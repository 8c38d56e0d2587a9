// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0

package emitter

import (
	"github.com/ohporter/yamlkit/internal/document"
)

// emitOnelineNode writes n as a single line of flow YAML with no
// indentation bookkeeping at all, for ModeFlowOneline. Anchors/tags are
// still legal here (unlike JSON mode) since this is still YAML, just
// constrained to one physical line.
func (e *Emitter) emitOnelineNode(n *document.Node) error {
	if n.Kind == document.ScalarNode && n.Style == document.AliasStyle {
		return e.emitAlias(n)
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
	switch n.Kind {
	case document.ScalarNode:
		return e.emitScalarContent(n, true, false)
	case document.SequenceNode:
		if err := e.writeIndicator([]byte{'['}, true, true, false); err != nil {
			return err
		}
		for i, c := range n.Sequence {
			if i > 0 {
				if err := e.writeIndicator([]byte{','}, false, false, false); err != nil {
					return err
				}
				if err := e.put(KindWhitespace, ' '); err != nil {
					return err
				}
				e.whitespace = true
			}
			if err := e.emitOnelineNode(c); err != nil {
				return err
			}
		}
		return e.writeIndicator([]byte{']'}, false, false, false)
	case document.MappingNode:
		if err := e.writeIndicator([]byte{'{'}, true, true, false); err != nil {
			return err
		}
		pairs := n.Pairs
		if e.opts.SortKeys {
			pairs = sortPairsForEmit(pairs, e.decode)
		}
		for i, p := range pairs {
			if i > 0 {
				if err := e.writeIndicator([]byte{','}, false, false, false); err != nil {
					return err
				}
				if err := e.put(KindWhitespace, ' '); err != nil {
					return err
				}
				e.whitespace = true
			}
			if err := e.emitOnelineNode(p.Key); err != nil {
				return err
			}
			if err := e.writeIndicator([]byte{':'}, false, false, false); err != nil {
				return err
			}
			if err := e.put(KindWhitespace, ' '); err != nil {
				return err
			}
			e.whitespace = true
			if err := e.emitOnelineNode(p.Value); err != nil {
				return err
			}
		}
		return e.writeIndicator([]byte{'}'}, false, false, false)
	}
	return nil
}
