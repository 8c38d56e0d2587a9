// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Package resolver runs the two post-build passes a parsed document
// needs before it is safe to hand to a caller: alias expansion and
// merge-key (<<) expansion.
package resolver

import (
	"fmt"

	"github.com/ohporter/yamlkit/internal/document"
	"github.com/ohporter/yamlkit/internal/token"
)

const mergeKeyText = "<<"

// maxAliasDepth bounds recursive alias-copy depth; well-formed YAML
// cannot cycle (anchors must precede their aliases), so this only
// catches a malformed or adversarial input.
const maxAliasDepth = 256

// Error reports a resolve-time failure.
type Error struct {
	Mark   token.Mark
	Reason string
}

func (e *Error) Error() string { return fmt.Sprintf("yaml: %s: %s", e.Mark, e.Reason) }

// Resolve runs alias expansion then merge-key expansion over doc.Root
// in place, and reparents the tree. decode is used to compare keys for
// duplicate-detection during merge under semantic equality.
func Resolve(doc *document.Doc, decode DecodeFunc) error {
	root, err := resolveAliases(doc.Root, 0)
	if err != nil {
		return err
	}
	doc.Root = root
	if err := resolveMerges(doc.Root, NewComparator(decode)); err != nil {
		return err
	}
	document.SetParents(doc.Root)
	return nil
}

// resolveAliases deep-copies anchor targets over alias nodes. It
// returns a (possibly new) node, since an alias node is replaced
// entirely by a copy of its target.
func resolveAliases(n *document.Node, depth int) (*document.Node, error) {
	if n == nil {
		return nil, nil
	}
	if depth > maxAliasDepth {
		return nil, &Error{Mark: token.Mark{Line: n.Line, Column: n.Column}, Reason: "exceeded maximum alias recursion depth"}
	}
	if n.Kind == document.ScalarNode && n.Style == document.AliasStyle {
		if n.Alias == nil {
			return nil, &Error{Mark: token.Mark{Line: n.Line, Column: n.Column}, Reason: "unresolved alias"}
		}
		return deepCopy(n.Alias, depth+1)
	}
	switch n.Kind {
	case document.SequenceNode:
		for i, c := range n.Sequence {
			resolved, err := resolveAliases(c, depth+1)
			if err != nil {
				return nil, err
			}
			n.Sequence[i] = resolved
		}
	case document.MappingNode:
		for i, p := range n.Pairs {
			rk, err := resolveAliases(p.Key, depth+1)
			if err != nil {
				return nil, err
			}
			rv, err := resolveAliases(p.Value, depth+1)
			if err != nil {
				return nil, err
			}
			n.Pairs[i] = document.NodePair{Key: rk, Value: rv}
		}
	}
	return n, nil
}

// deepCopy structurally copies a node tree (tokens are shared by
// reference, matching the ownership summary: the same scalar token may
// back both the anchor's node and every alias copy of it).
func deepCopy(n *document.Node, depth int) (*document.Node, error) {
	if depth > maxAliasDepth {
		return nil, &Error{Mark: token.Mark{Line: n.Line, Column: n.Column}, Reason: "exceeded maximum alias recursion depth"}
	}
	cp := &document.Node{
		Kind:        n.Kind,
		Style:       n.Style,
		Tag:         n.Tag,
		ScalarToken: n.ScalarToken,
		HeadComment: n.HeadComment,
		LineComment: n.LineComment,
		FootComment: n.FootComment,
		Line:        n.Line,
		Column:      n.Column,
	}
	switch n.Kind {
	case document.SequenceNode:
		cp.Sequence = make([]*document.Node, len(n.Sequence))
		for i, c := range n.Sequence {
			rc, err := deepCopy(c, depth+1)
			if err != nil {
				return nil, err
			}
			rc.Parent = cp
			cp.Sequence[i] = rc
		}
	case document.MappingNode:
		cp.Pairs = make([]document.NodePair, len(n.Pairs))
		for i, p := range n.Pairs {
			rk, err := deepCopy(p.Key, depth+1)
			if err != nil {
				return nil, err
			}
			rv, err := deepCopy(p.Value, depth+1)
			if err != nil {
				return nil, err
			}
			rk.Parent, rv.Parent = cp, cp
			cp.Pairs[i] = document.NodePair{Key: rk, Value: rv}
		}
	}
	return cp, nil
}

// resolveMerges expands every `<<` pair in every mapping reachable from
// n, depth-first so nested merges are already expanded before an outer
// mapping is scanned (a merge value that is itself a freshly-copied
// alias target may contain its own `<<` pairs).
func resolveMerges(n *document.Node, equalFn func(a, b *document.Node) bool) error {
	switch n.Kind {
	case document.SequenceNode:
		for _, c := range n.Sequence {
			if err := resolveMerges(c, equalFn); err != nil {
				return err
			}
		}
		return nil
	case document.MappingNode:
		for _, p := range n.Pairs {
			if err := resolveMerges(p.Value, equalFn); err != nil {
				return err
			}
		}
		return expandMappingMerges(n, equalFn)
	}
	return nil
}

func isMergeKey(n *document.Node) bool {
	return n.Kind == document.ScalarNode && n.Style != document.AliasStyle && rawScalarText(n) == mergeKeyText
}

func rawScalarText(n *document.Node) string {
	if n.ScalarToken == nil {
		return ""
	}
	return string(n.ScalarToken.RawBytes())
}

// expandMappingMerges scans n's pairs in order; each merge pair's
// referenced mapping(s) contribute their (k, v) entries immediately
// after the merge pair's position, first-writer-wins against both the
// target mapping's own explicit keys (wherever they appear in the
// mapping, not just the ones already emitted) and any earlier merge's
// contributions, then the merge pair itself is removed. Pre-collecting
// every explicit key up front mirrors the teacher's own constructor.go,
// which scans the whole parent mapping's keys before applying a merge
// value rather than only the keys seen so far.
func expandMappingMerges(n *document.Node, equalFn func(a, b *document.Node) bool) error {
	explicit := make([]*document.Node, 0, len(n.Pairs))
	for _, p := range n.Pairs {
		if !isMergeKey(p.Key) {
			explicit = append(explicit, p.Key)
		}
	}

	out := make([]document.NodePair, 0, len(n.Pairs))
	for _, p := range n.Pairs {
		if !isMergeKey(p.Key) {
			out = append(out, p)
			continue
		}
		sources, err := mergeSources(p.Value)
		if err != nil {
			return err
		}
		for _, src := range sources {
			for _, sp := range src.Pairs {
				if containsNode(explicit, sp.Key, equalFn) || containsKey(out, sp.Key, equalFn) {
					continue
				}
				out = append(out, sp)
			}
		}
	}
	n.Pairs = out
	return nil
}

func containsKey(pairs []document.NodePair, key *document.Node, equalFn func(a, b *document.Node) bool) bool {
	for _, p := range pairs {
		if equalFn(p.Key, key) {
			return true
		}
	}
	return false
}

func containsNode(keys []*document.Node, key *document.Node, equalFn func(a, b *document.Node) bool) bool {
	for _, k := range keys {
		if equalFn(k, key) {
			return true
		}
	}
	return false
}

// mergeSources resolves a merge value into the ordered list of mappings
// it refers to: a single mapping, or a sequence of mappings (aliases
// are already expanded to their mapping targets by resolveAliases).
func mergeSources(v *document.Node) ([]*document.Node, error) {
	switch v.Kind {
	case document.MappingNode:
		return []*document.Node{v}, nil
	case document.SequenceNode:
		out := make([]*document.Node, 0, len(v.Sequence))
		for _, c := range v.Sequence {
			if c.Kind != document.MappingNode {
				return nil, &Error{Mark: token.Mark{Line: c.Line, Column: c.Column}, Reason: "map merge requires map or sequence of maps as the value"}
			}
			out = append(out, c)
		}
		return out, nil
	}
	return nil, &Error{Mark: token.Mark{Line: v.Line, Column: v.Column}, Reason: "map merge requires map or sequence of maps as the value"}
}
