// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0

package yamlkit

import (
	"github.com/ohporter/yamlkit/internal/document"
	"github.com/ohporter/yamlkit/internal/pathquery"
	"github.com/ohporter/yamlkit/internal/query"
	"github.com/ohporter/yamlkit/internal/token"
)

// Node, Kind, Style and NodePair are re-exported from internal/document
// unchanged, as type and constant re-exports from the internal
// implementation package.
type (
	Node     = document.Node
	Kind     = document.Kind
	Style    = document.Style
	NodePair = document.NodePair
)

const (
	ScalarNode   = document.ScalarNode
	SequenceNode = document.SequenceNode
	MappingNode  = document.MappingNode
)

const (
	AnyStyle          = document.AnyStyle
	FlowStyle         = document.FlowStyle
	PlainStyle        = document.PlainStyle
	SingleQuotedStyle = document.SingleQuotedStyle
	DoubleQuotedStyle = document.DoubleQuotedStyle
	LiteralStyle      = document.LiteralStyle
	FoldedStyle       = document.FoldedStyle
	AliasStyle        = document.AliasStyle
)

// NewScalar creates a detached scalar Node carrying literal text, for
// programmatic construction (building a document from scratch, or
// grafting a computed value into one parsed from bytes).
func NewScalar(text, tag string) *Node { return document.NewScalar(text, tag) }

// Text returns n's decoded scalar text using the library's default
// decoder, or "" for a non-scalar node. It is shorthand for
// n.Text(token.Decode) for callers who never override decoding.
func Text(n *Node) string { return n.Text(token.Decode) }

// PathOf returns n's canonical "/"-separated path from its document
// root, walking Parent pointers. It requires n's tree to have current
// parent pointers (true for anything produced by Parse/Document, or by
// document.SetParents for programmatically assembled trees).
func PathOf(n *Node) (string, error) {
	return pathquery.PathOf(n, pathquery.DecodeFunc(token.Decode))
}

// Lookup resolves path against root: "/" or "" names root itself,
// otherwise a sequence of "/"-separated segments, mapping segments
// matched against a scalar key's decoded text and sequence segments
// parsed as base-10 indices.
func Lookup(root *Node, path string) (*Node, error) {
	return pathquery.Lookup(root, path, pathquery.DecodeFunc(token.Decode))
}

// Scan resolves each path named in format (alternating "/path %verb"
// pairs, verbs %s/%d/%f/%t) against root and writes the decoded,
// converted value into the matching destination pointer
// (*string/*int64/*float64/*bool). It is the typed path-plus-format
// accessor offered in place of a variadic scanf.
func Scan(root *Node, format string, dests ...interface{}) error {
	return query.Scan(root, query.DecodeFunc(token.Decode), format, dests...)
}

// GetString, GetInt, GetFloat and GetBool look up a single path and
// convert its scalar text, for callers who want one value rather than
// a Scan batch.
func GetString(root *Node, path string) (string, error) {
	return query.GetString(root, query.DecodeFunc(token.Decode), path)
}

func GetInt(root *Node, path string) (int64, error) {
	return query.GetInt(root, query.DecodeFunc(token.Decode), path)
}

func GetFloat(root *Node, path string) (float64, error) {
	return query.GetFloat(root, query.DecodeFunc(token.Decode), path)
}

func GetBool(root *Node, path string) (bool, error) {
	return query.GetBool(root, query.DecodeFunc(token.Decode), path)
}

// SetString overwrites the scalar at path with a literal replacement
// value, the "printf" counterpart to Scan's "scanf".
func SetString(root *Node, path, value string) error {
	return query.SetString(root, query.DecodeFunc(token.Decode), path, value)
}
