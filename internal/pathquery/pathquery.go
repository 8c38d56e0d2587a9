// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Package pathquery implements slash-separated path addressing for
// Node's "path-of"/"lookup-by-path" operations, in a Node-navigation
// idiom (walking Sequence/Pairs directly, no reflection) rather than a
// general JSONPath engine.
package pathquery

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ohporter/yamlkit/internal/atom"
	"github.com/ohporter/yamlkit/internal/document"
)

// DecodeFunc decodes a scalar node's backing atom, needed to compare
// mapping keys against a path segment's literal text.
type DecodeFunc func(raw []byte, style atom.Style, flags atom.Flags) string

// Error reports a path that could not be resolved against a tree.
type Error struct {
	Path   string
	Reason string
}

func (e *Error) Error() string { return "path " + strconv.Quote(e.Path) + ": " + e.Reason }

// Lookup resolves path against root. A path is "/" or "" for the root
// itself, otherwise a sequence of "/"-separated segments: a mapping
// segment is matched against a scalar key's decoded text, a sequence
// segment must be a base-10 non-negative integer index.
func Lookup(root *document.Node, path string, decode DecodeFunc) (*document.Node, error) {
	segments := splitPath(path)
	n := root
	for i, seg := range segments {
		if n == nil {
			return nil, &Error{Path: path, Reason: "nil node encountered before end of path"}
		}
		switch n.Kind {
		case document.MappingNode:
			found := false
			for _, p := range n.Pairs {
				if p.Key.Kind == document.ScalarNode && p.Key.Text(decode) == seg {
					n = p.Value
					found = true
					break
				}
			}
			if !found {
				return nil, &Error{Path: path, Reason: "no mapping key " + strconv.Quote(seg) + " at segment " + strconv.Itoa(i)}
			}
		case document.SequenceNode:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(n.Sequence) {
				return nil, &Error{Path: path, Reason: "invalid sequence index " + strconv.Quote(seg) + " at segment " + strconv.Itoa(i)}
			}
			n = n.Sequence[idx]
		default:
			return nil, &Error{Path: path, Reason: "cannot descend into a scalar at segment " + strconv.Itoa(i)}
		}
	}
	return n, nil
}

func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// PathOf walks n's Parent chain up to the root and returns its
// canonical "/"-separated path. It requires the tree's parent pointers
// to be current (document.SetParents, or the builder's incremental
// AppendChild/AppendPair bookkeeping).
func PathOf(n *document.Node, decode DecodeFunc) (string, error) {
	var segments []string
	cur := n
	for cur != nil && cur.Parent != nil {
		parent := cur.Parent
		switch parent.Kind {
		case document.SequenceNode:
			idx := indexOf(parent.Sequence, cur)
			if idx < 0 {
				return "", errors.New("path-of: node not found among its parent's sequence children")
			}
			segments = append(segments, strconv.Itoa(idx))
		case document.MappingNode:
			key, ok := keyFor(parent, cur)
			if !ok {
				return "", errors.New("path-of: node not found among its parent's mapping pairs")
			}
			segments = append(segments, key.Text(decode))
		default:
			return "", errors.New("path-of: parent is not a sequence or mapping")
		}
		cur = parent
	}
	if len(segments) == 0 {
		return "/", nil
	}
	reverse(segments)
	return "/" + strings.Join(segments, "/"), nil
}

func indexOf(seq []*document.Node, n *document.Node) int {
	for i, c := range seq {
		if c == n {
			return i
		}
	}
	return -1
}

// keyFor finds the pair n belongs to as either key or value; a
// mapping-key segment in a path always names the pair's key, even when
// n itself is the value being located.
func keyFor(mapping *document.Node, n *document.Node) (*document.Node, bool) {
	for _, p := range mapping.Pairs {
		if p.Value == n || p.Key == n {
			return p.Key, true
		}
	}
	return nil, false
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
