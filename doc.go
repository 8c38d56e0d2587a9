// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Package yamlkit implements a YAML 1.3 parser, in-memory document
// model, and emitter, also capable of reading JSON as a strict subset.
//
// Source code and other details for the project are available at GitHub:
//
//	https://github.com/ohporter/yamlkit
//
// This file contains only the package overview; see yaml.go for the
// Parse/Emit façade, node.go for the Node/path API, and errors.go for
// the public error types.
//
// The package is a thin, allocation-conscious front over a layered
// internal pipeline: an Input owns the backing bytes, a Scanner turns
// them into Tokens, a Parser drives the Scanner into a flat Event
// stream, a Builder composes that stream into a Node tree, a Resolver
// expands aliases and `<<` merge keys over the tree, and an Emitter
// walks a tree (or a bare Node) back into bytes in a caller-selected
// style. Every stage is reachable on its own for callers who want
// events instead of a tree, but Parse/Document/Emit below cover the
// common path.
package yamlkit
