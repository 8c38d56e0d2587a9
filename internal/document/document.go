// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Package document holds the in-memory Node tree a parse produces and
// the mutation API callers use to build or edit one programmatically.
// Node's shape mirrors the composer-built tree in the pack's yaml.v3
// lineage, generalized to an explicit ordered NodePair mapping
// representation instead of a flat alternating Content slice.
package document

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/ohporter/yamlkit/internal/atom"
	"github.com/ohporter/yamlkit/internal/docstate"
	"github.com/ohporter/yamlkit/internal/token"
)

// literalSource is an atom.Source over a string literal, used for
// programmatically-constructed scalar nodes that have no backing Input.
type literalSource string

func (s literalSource) Slice(start, end int) []byte { return []byte(s)[start:end] }

// Kind discriminates a Node's variant.
type Kind int8

const (
	ScalarNode Kind = iota
	SequenceNode
	MappingNode
)

func (k Kind) String() string {
	switch k {
	case ScalarNode:
		return "scalar"
	case SequenceNode:
		return "sequence"
	case MappingNode:
		return "mapping"
	}
	return "unknown"
}

// Style records how a node was (or should be) presented.
type Style int8

const (
	AnyStyle Style = iota
	FlowStyle
	PlainStyle
	SingleQuotedStyle
	DoubleQuotedStyle
	LiteralStyle
	FoldedStyle
	AliasStyle
)

// NodePair is one (key, value) entry of a mapping, in insertion order.
type NodePair struct {
	Key   *Node
	Value *Node
}

// Node is a scalar, sequence, or mapping. Exactly one of (ScalarToken),
// (Sequence), (Pairs) is meaningful, selected by Kind.
type Node struct {
	Kind   Kind
	Style  Style
	Tag    string
	Anchor string
	Parent *Node

	// ScalarToken backs a ScalarNode's content, or an AliasNode's alias
	// name (Style == AliasStyle). It is nil for sequence/mapping nodes.
	ScalarToken *token.Token

	// Alias is the anchored node an alias node refers to, looked up by
	// the builder at build time (Build fails on an undeclared anchor);
	// nil for a non-alias node.
	Alias *Node

	Sequence []*Node
	Pairs    []NodePair

	HeadComment string
	LineComment string
	FootComment string

	Line, Column int
}

// AnchorEntry is one (name, node) pair of a Doc's declared-anchor list.
type AnchorEntry struct {
	Name string
	Node *Node
}

// Doc wraps a Node tree with the directive state it was parsed (or is
// to be emitted) under, and the anchor registry built while composing
// it.
type Doc struct {
	Root  *Node
	State *docstate.State

	// anchors holds every declared anchor in source order, including
	// shadowed (redeclared) ones, so removal can un-shadow the prior
	// declaration of the same name.
	anchors []AnchorEntry
}

// New creates an empty Doc with a fresh docstate.
func New() *Doc {
	return &Doc{State: docstate.New()}
}

// NewScalar creates a detached scalar node with literal text, useful
// for programmatic construction (merge results, test fixtures) where no
// backing token exists.
func NewScalar(text, tag string) *Node {
	src := literalSource(text)
	t := token.New(token.Scalar, token.Mark{}, token.Mark{})
	t.Style = token.PlainScalarStyle
	t.WithPrimary(atom.Atom{Src: src, Start: 0, End: len(text), Style: atom.Literal})
	return &Node{Kind: ScalarNode, Tag: tag, Style: PlainStyle, ScalarToken: t}
}

// Text returns a scalar node's decoded text, using decode to interpret
// the backing atom's escapes/folding. It returns "" for a non-scalar
// node or one with no backing token.
func (n *Node) Text(decode func(raw []byte, style atom.Style, flags atom.Flags) string) string {
	if n.Kind != ScalarNode || n.ScalarToken == nil {
		return ""
	}
	return n.ScalarToken.Text(decode)
}

// RegisterAnchor appends (name, n) to the declared-anchor list, so that
// lookups always resolve to the most recently declared anchor visible
// at the point of use, per the shadowing-by-declaration-order rule.
func (d *Doc) RegisterAnchor(name string, n *Node) {
	if name == "" {
		return
	}
	d.anchors = append(d.anchors, AnchorEntry{Name: name, Node: n})
}

// SetAnchor is RegisterAnchor under the public "anchor set" name.
func (d *Doc) SetAnchor(name string, n *Node) { d.RegisterAnchor(name, n) }

// LookupAnchor returns the most recently declared node under name, or
// nil, scanning from the end of the declaration list.
func (d *Doc) LookupAnchor(name string) *Node {
	for i := len(d.anchors) - 1; i >= 0; i-- {
		if d.anchors[i].Name == name {
			return d.anchors[i].Node
		}
	}
	return nil
}

// RemoveAnchor removes the most recently declared anchor named name,
// un-shadowing any earlier declaration of the same name. It reports
// whether an anchor was found and removed.
func (d *Doc) RemoveAnchor(name string) bool {
	for i := len(d.anchors) - 1; i >= 0; i-- {
		if d.anchors[i].Name == name {
			d.anchors = append(d.anchors[:i], d.anchors[i+1:]...)
			return true
		}
	}
	return false
}

// Anchors returns the currently visible anchors (the most recent
// declaration of each name), in ascending order of that declaration.
func (d *Doc) Anchors() []AnchorEntry {
	seen := make(map[string]bool, len(d.anchors))
	out := make([]AnchorEntry, 0, len(d.anchors))
	for i := len(d.anchors) - 1; i >= 0; i-- {
		e := d.anchors[i]
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		out = append(out, e)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// -- sequence mutation ---------------------------------------------------

// AppendChild adds child to the end of sequence node n's children.
func (n *Node) AppendChild(child *Node) error {
	if n.Kind != SequenceNode {
		return errors.New("append: not a sequence node")
	}
	child.Parent = n
	n.Sequence = append(n.Sequence, child)
	return nil
}

// PrependChild adds child to the start of sequence node n's children.
func (n *Node) PrependChild(child *Node) error {
	if n.Kind != SequenceNode {
		return errors.New("prepend: not a sequence node")
	}
	child.Parent = n
	n.Sequence = append([]*Node{child}, n.Sequence...)
	return nil
}

// InsertChildBefore inserts child immediately before the element at
// index, which must be within [0, len(Sequence)].
func (n *Node) InsertChildBefore(index int, child *Node) error {
	if n.Kind != SequenceNode {
		return errors.New("insert-before: not a sequence node")
	}
	if index < 0 || index > len(n.Sequence) {
		return errors.Errorf("insert-before: index %d out of range", index)
	}
	child.Parent = n
	n.Sequence = append(n.Sequence, nil)
	copy(n.Sequence[index+1:], n.Sequence[index:])
	n.Sequence[index] = child
	return nil
}

// InsertChildAfter inserts child immediately after the element at
// index.
func (n *Node) InsertChildAfter(index int, child *Node) error {
	return n.InsertChildBefore(index+1, child)
}

// RemoveChildAt removes the sequence element at index.
func (n *Node) RemoveChildAt(index int) error {
	if n.Kind != SequenceNode {
		return errors.New("remove: not a sequence node")
	}
	if index < 0 || index >= len(n.Sequence) {
		return errors.Errorf("remove: index %d out of range", index)
	}
	n.Sequence = append(n.Sequence[:index], n.Sequence[index+1:]...)
	return nil
}

// -- mapping mutation -----------------------------------------------------

// AppendPair adds a (key, value) pair to the end of a mapping, erroring
// if enforceUnique is set and an equal key (per equalFn) already
// exists.
func (n *Node) AppendPair(key, value *Node, enforceUnique bool, equalFn func(a, b *Node) bool) error {
	if n.Kind != MappingNode {
		return errors.New("append: not a mapping node")
	}
	if enforceUnique {
		for _, p := range n.Pairs {
			if equalFn(p.Key, key) {
				return errors.Errorf("duplicate mapping key at line %d, column %d", key.Line, key.Column)
			}
		}
	}
	key.Parent = n
	value.Parent = n
	n.Pairs = append(n.Pairs, NodePair{Key: key, Value: value})
	return nil
}

// PrependPair adds a (key, value) pair to the start of a mapping.
func (n *Node) PrependPair(key, value *Node) error {
	if n.Kind != MappingNode {
		return errors.New("prepend: not a mapping node")
	}
	key.Parent = n
	value.Parent = n
	n.Pairs = append([]NodePair{{Key: key, Value: value}}, n.Pairs...)
	return nil
}

// RemovePairAt removes the mapping pair at index.
func (n *Node) RemovePairAt(index int) error {
	if n.Kind != MappingNode {
		return errors.New("remove: not a mapping node")
	}
	if index < 0 || index >= len(n.Pairs) {
		return errors.Errorf("remove: index %d out of range", index)
	}
	n.Pairs = append(n.Pairs[:index], n.Pairs[index+1:]...)
	return nil
}

// RemovePairByKey removes the first pair whose key compares equal to
// key under equalFn, reporting whether a pair was removed.
func (n *Node) RemovePairByKey(key *Node, equalFn func(a, b *Node) bool) (bool, error) {
	if n.Kind != MappingNode {
		return false, errors.New("remove-by-key: not a mapping node")
	}
	for i, p := range n.Pairs {
		if equalFn(p.Key, key) {
			n.Pairs = append(n.Pairs[:i], n.Pairs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// LookupByKey returns the value of the first pair whose key compares
// equal to key under equalFn.
func (n *Node) LookupByKey(key *Node, equalFn func(a, b *Node) bool) (*Node, bool) {
	if n.Kind != MappingNode {
		return nil, false
	}
	for _, p := range n.Pairs {
		if equalFn(p.Key, key) {
			return p.Value, true
		}
	}
	return nil, false
}

// Insert merges source into n per the merge rules: a scalar source
// overwrites n's content in place; a sequence source is appended to n's
// children; a mapping source is shallow-merged into n with source's
// keys winning on collision. n and source must share Kind for sequence
// and mapping merges; a scalar source may overwrite any kind.
func (n *Node) Insert(source *Node, equalFn func(a, b *Node) bool) error {
	switch source.Kind {
	case ScalarNode:
		n.Kind = ScalarNode
		n.ScalarToken = source.ScalarToken
		n.Tag = source.Tag
		n.Style = source.Style
		n.Sequence = nil
		n.Pairs = nil
		return nil
	case SequenceNode:
		if n.Kind != SequenceNode {
			return errors.New("insert: cannot merge sequence into non-sequence")
		}
		for _, c := range source.Sequence {
			if err := n.AppendChild(c); err != nil {
				return err
			}
		}
		return nil
	case MappingNode:
		if n.Kind != MappingNode {
			return errors.New("insert: cannot merge mapping into non-mapping")
		}
		for _, p := range source.Pairs {
			if _, err := n.RemovePairByKey(p.Key, equalFn); err != nil {
				return err
			}
			if err := n.AppendPair(p.Key, p.Value, false, equalFn); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("insert: unknown node kind %v", source.Kind)
}
