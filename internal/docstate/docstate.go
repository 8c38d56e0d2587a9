// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Package docstate holds the directive state shared by every node of a
// single document: its YAML version and its tag-handle-to-prefix table.
// The parser accumulates it while consuming directive tokens; the
// document layer copies it on first mutation so that a Node tree
// detached from its source text stays self-contained.
package docstate

import "fmt"

// Version is a parsed %YAML directive's major.minor pair.
type Version struct {
	Major, Minor int8
}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// TagDirective is a parsed %TAG directive: a handle ("!", "!!", or
// "!foo!") mapped to a prefix.
type TagDirective struct {
	Handle, Prefix string
}

var defaultTagDirectives = []TagDirective{
	{Handle: "!", Prefix: "!"},
	{Handle: "!!", Prefix: "tag:yaml.org,2002:"},
}

// State is the directive context for one document: its declared version
// (if any) and the resolved handle -> prefix table, including the two
// implicit defaults every document carries.
type State struct {
	HasVersion bool
	Version    Version

	directives []TagDirective

	// shared is true once the document builder has built a Doc
	// referencing this State (MarkShared); further mutation
	// (AppendTagDirective, RemoveTagDirective) then copies rather than
	// mutating in place, so the two documents never alias each other's
	// directive tables.
	shared bool
}

// NewEmpty creates a State with no tag directives declared yet, for
// callers (the parser) that must accumulate a document's explicit
// %TAG directives before the two built-in defaults are appended.
func NewEmpty() *State {
	return &State{}
}

// New creates a State seeded with the two default tag directives, for
// callers that build a document without going through a
// directives-parsing phase.
func New() *State {
	s := NewEmpty()
	s.ApplyDefaults()
	return s
}

// ApplyDefaults appends the two built-in tag directives ("!" and
// "!!"), silently skipping either handle already declared explicitly.
// This mirrors the parser's two-phase directive order: explicit %TAG
// directives are consumed first into an empty table, erroring only on
// a duplicate explicit handle, and the built-in defaults are appended
// last with duplicates allowed -- so an explicit redeclaration of a
// built-in handle overrides it silently instead of tripping the
// duplicate-directive error.
func (s *State) ApplyDefaults() {
	for _, d := range defaultTagDirectives {
		_ = s.AppendTagDirective(d, true)
	}
}

// MarkShared flags the State as referenced by a built document; it is
// called once by the document builder after composing the root node.
func (s *State) MarkShared() { s.shared = true }

// SetVersion records a %YAML directive. It returns an error if a
// version was already set for this document (duplicate %YAML) or if the
// version is not 1.x.
func (s *State) SetVersion(major, minor int8) error {
	if s.HasVersion {
		return fmt.Errorf("found duplicate %%YAML directive")
	}
	if major != 1 {
		return fmt.Errorf("found incompatible YAML document (version %d.%d)", major, minor)
	}
	s.HasVersion = true
	s.Version = Version{Major: major, Minor: minor}
	return nil
}

// AppendTagDirective registers handle -> prefix. allowDuplicate permits
// re-registering the same handle silently (used when seeding the
// built-in defaults after explicit directives have already been
// consumed); otherwise a duplicate handle is an error. Mutating a shared
// State copies its directive slice first, so a previously-built
// document's table is unaffected.
func (s *State) AppendTagDirective(d TagDirective, allowDuplicate bool) error {
	for _, existing := range s.directives {
		if existing.Handle == d.Handle {
			if allowDuplicate {
				return nil
			}
			return fmt.Errorf("found duplicate %%TAG directive for handle %q", d.Handle)
		}
	}
	if s.shared {
		s.directives = append([]TagDirective(nil), s.directives...)
		s.shared = false
	}
	s.directives = append(s.directives, d)
	return nil
}

// Directives returns the handle -> prefix table in the order entries
// were appended: a parser-built State lists its explicit %TAG
// directives first and the built-in defaults after them, while New()
// starts with the defaults; later additions go at the end.
func (s *State) Directives() []TagDirective {
	return s.directives
}

// LookupTagDirective returns the prefix registered for handle, or
// ("", false) if none is declared.
func (s *State) LookupTagDirective(handle string) (string, bool) {
	for _, d := range s.directives {
		if d.Handle == handle {
			return d.Prefix, true
		}
	}
	return "", false
}

// RemoveTagDirective removes handle's entry, copying the slice first if
// it is shared (see AppendTagDirective). It reports whether handle was
// present. Removing one of the two implicit defaults ("!"/"!!") is
// permitted here; callers that must keep the defaults available should
// check for that before calling.
func (s *State) RemoveTagDirective(handle string) bool {
	for i, d := range s.directives {
		if d.Handle != handle {
			continue
		}
		if s.shared {
			s.directives = append([]TagDirective(nil), s.directives...)
			s.shared = false
		}
		s.directives = append(s.directives[:i], s.directives[i+1:]...)
		return true
	}
	return false
}

// ResolveTag expands a shorthand tag ("!!str", "!foo!bar", "!bang") into
// its full URI using the document's directive table. A lone "!" or an
// already-verbatim "!<...>" tag (handle "") is returned unchanged.
func (s *State) ResolveTag(handle, suffix string) (string, error) {
	if handle == "" {
		return suffix, nil
	}
	for _, d := range s.directives {
		if d.Handle == handle {
			return d.Prefix + suffix, nil
		}
	}
	return "", fmt.Errorf("found undefined tag handle %q", handle)
}

// Clone returns an independent copy of s, used when a document's
// directive state must diverge from its source document's (e.g. a node
// subtree grafted from one document into another with different
// directives in scope).
func (s *State) Clone() *State {
	return &State{
		HasVersion: s.HasVersion,
		Version:    s.Version,
		directives: append([]TagDirective(nil), s.directives...),
	}
}
