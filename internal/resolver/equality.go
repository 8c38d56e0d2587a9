// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"sort"

	"github.com/ohporter/yamlkit/internal/atom"
	"github.com/ohporter/yamlkit/internal/document"
)

// DecodeFunc decodes a scalar node's backing atom into text; the
// top-level façade supplies token.Decode. EqualFn/DefaultComparator
// below close over one to avoid threading it through every call.
type DecodeFunc func(raw []byte, style atom.Style, flags atom.Flags) string

// NewComparator returns an Equal-shaped comparator bound to decode, the
// default semantic-equality rule: scalars compare by decoded
// byte equality, sequences element-wise, mappings by sorting both sides
// under the default key comparator and comparing pair-wise. Two
// empty/null scalars are always equal regardless of style.
func NewComparator(decode DecodeFunc) func(a, b *document.Node) bool {
	var equal func(a, b *document.Node) bool
	text := func(n *document.Node) string {
		if n.ScalarToken == nil {
			return ""
		}
		return n.ScalarToken.Text(decode)
	}
	isNull := func(n *document.Node) bool { return n.Kind == document.ScalarNode && text(n) == "" }
	equal = func(a, b *document.Node) bool {
		if a == nil || b == nil {
			return a == b
		}
		if isNull(a) && isNull(b) {
			return true
		}
		if a.Kind != b.Kind {
			return false
		}
		switch a.Kind {
		case document.ScalarNode:
			return text(a) == text(b)
		case document.SequenceNode:
			if len(a.Sequence) != len(b.Sequence) {
				return false
			}
			for i := range a.Sequence {
				if !equal(a.Sequence[i], b.Sequence[i]) {
					return false
				}
			}
			return true
		case document.MappingNode:
			if len(a.Pairs) != len(b.Pairs) {
				return false
			}
			sa := sortedPairs(a.Pairs, text)
			sb := sortedPairs(b.Pairs, text)
			for i := range sa {
				if !equal(sa[i].Key, sb[i].Key) || !equal(sa[i].Value, sb[i].Value) {
					return false
				}
			}
			return true
		}
		return false
	}
	return equal
}

// Equal is the raw-byte comparator used internally for merge-key
// duplicate detection, where the operands are always plain scalars (the
// `<<` key itself, and mapping keys being merged) and decoding would
// only cost allocations without changing the answer for the ASCII-only
// `<<` marker. Callers comparing arbitrary node content should use
// NewComparator instead.
func Equal(a, b *document.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if isNullRaw(a) && isNullRaw(b) {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case document.ScalarNode:
		return rawScalarText(a) == rawScalarText(b)
	case document.SequenceNode:
		if len(a.Sequence) != len(b.Sequence) {
			return false
		}
		for i := range a.Sequence {
			if !Equal(a.Sequence[i], b.Sequence[i]) {
				return false
			}
		}
		return true
	case document.MappingNode:
		if len(a.Pairs) != len(b.Pairs) {
			return false
		}
		sa := sortedPairs(a.Pairs, rawScalarText)
		sb := sortedPairs(b.Pairs, rawScalarText)
		for i := range sa {
			if !Equal(sa[i].Key, sb[i].Key) || !Equal(sa[i].Value, sb[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

func isNullRaw(n *document.Node) bool {
	return n.Kind == document.ScalarNode && rawScalarText(n) == ""
}

// sortedPairs orders pairs by the default mapping-key comparator:
// mapping-keys first, then sequence-keys, then scalar-keys
// lexicographically by text(key), ties broken by original insertion
// index (sort.SliceStable preserves that automatically).
func sortedPairs(pairs []document.NodePair, text func(*document.Node) string) []document.NodePair {
	out := append([]document.NodePair(nil), pairs...)
	sort.SliceStable(out, func(i, j int) bool {
		return keyLess(out[i].Key, out[j].Key, text)
	})
	return out
}

func keyRank(n *document.Node) int {
	switch n.Kind {
	case document.MappingNode:
		return 0
	case document.SequenceNode:
		return 1
	default:
		return 2
	}
}

func keyLess(a, b *document.Node, text func(*document.Node) string) bool {
	ra, rb := keyRank(a), keyRank(b)
	if ra != rb {
		return ra < rb
	}
	if ra == 2 {
		return text(a) < text(b)
	}
	return false
}
