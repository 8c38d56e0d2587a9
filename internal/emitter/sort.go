// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0

package emitter

import (
	"sort"

	"github.com/ohporter/yamlkit/internal/document"
)

// sortPairsForEmit orders a copy of pairs under the default mapping-key
// comparator: mapping-keys, then sequence-keys, then scalar-keys by
// decoded text, ties kept in original order. This
// mirrors internal/resolver's sortedPairs but stays local so the
// emitter doesn't need a resolver import for one small helper, and so
// SortKeys never mutates the caller's tree (it sorts a copy).
func sortPairsForEmit(pairs []document.NodePair, decode DecodeFunc) []document.NodePair {
	out := append([]document.NodePair(nil), pairs...)
	text := func(n *document.Node) string { return n.Text(decode) }
	sort.SliceStable(out, func(i, j int) bool {
		return keyLessForEmit(out[i].Key, out[j].Key, text)
	})
	return out
}

func keyRankForEmit(n *document.Node) int {
	switch n.Kind {
	case document.MappingNode:
		return 0
	case document.SequenceNode:
		return 1
	default:
		return 2
	}
}

func keyLessForEmit(a, b *document.Node, text func(*document.Node) string) bool {
	ra, rb := keyRankForEmit(a), keyRankForEmit(b)
	if ra != rb {
		return ra < rb
	}
	if ra == 2 {
		return text(a) < text(b)
	}
	return false
}
