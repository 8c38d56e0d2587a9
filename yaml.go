// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0

// This file contains:
// - ParseConfig/EmitConfig and their functional options
// - Document: the parse-build-resolve result, and its path/query methods
// - Parse* entry points (bytes, string, path, reader)
// - Emit* entry points (bytes, string, writer, sink)
package yamlkit

import (
	"bytes"
	"io"

	"github.com/ohporter/yamlkit/internal/diag"
	"github.com/ohporter/yamlkit/internal/docstate"
	"github.com/ohporter/yamlkit/internal/document"
	"github.com/ohporter/yamlkit/internal/emitter"
	"github.com/ohporter/yamlkit/internal/input"
	"github.com/ohporter/yamlkit/internal/parser"
	"github.com/ohporter/yamlkit/internal/pathquery"
	"github.com/ohporter/yamlkit/internal/query"
	"github.com/ohporter/yamlkit/internal/resolver"
	"github.com/ohporter/yamlkit/internal/scanner"
	"github.com/ohporter/yamlkit/internal/token"
)

//-----------------------------------------------------------------------------
// Parse configuration
//-----------------------------------------------------------------------------

// ParseConfig holds a parse run's flag group: quiet, collect-diagnostics,
// color-{auto,none,force}, per-module debug enables, debug level, diagnostic-meta
// toggles, resolve-on-build, disable-mmap, disable-recycling.
type ParseConfig struct {
	// SearchPath is a colon-separated list of directories consulted for
	// file references a document may carry; unused by Parse* directly,
	// reserved for a future include/anchor-file resolution pass.
	SearchPath string

	Quiet              bool
	CollectDiagnostics bool
	Color              diag.ColorMode
	DebugLevel         diag.Level
	DiagnosticMeta     bool

	// ResolveOnBuild runs alias/merge resolution immediately after
	// Build, so Document.Root already reflects expanded aliases and
	// merges rather than requiring a separate Resolve call.
	ResolveOnBuild bool

	// DisableMmap forces buffered reads for ParsePath even when mmap is
	// available.
	DisableMmap bool

	// DisableRecycling is accepted for API parity with a scanner-token-reuse
	// knob some implementations expose; this implementation has no token
	// pool to disable, so the field is inert.
	DisableRecycling bool

	// Sink, if set, receives every diagnostic in addition to (or
	// instead of, per CollectDiagnostics) the buffered list on Document.
	Sink diag.Sink

	// collected backs Document.Diagnostics when CollectDiagnostics is
	// set; populated by newParseConfig, filled in by report.
	collected *diag.BufferSink
}

// ParseOption configures a ParseConfig.
type ParseOption func(*ParseConfig)

func WithSearchPath(path string) ParseOption {
	return func(c *ParseConfig) { c.SearchPath = path }
}

func WithQuiet(quiet bool) ParseOption {
	return func(c *ParseConfig) { c.Quiet = quiet }
}

func WithCollectDiagnostics(collect bool) ParseOption {
	return func(c *ParseConfig) { c.CollectDiagnostics = collect }
}

func WithColor(mode diag.ColorMode) ParseOption {
	return func(c *ParseConfig) { c.Color = mode }
}

func WithDebugLevel(level diag.Level) ParseOption {
	return func(c *ParseConfig) { c.DebugLevel = level }
}

func WithDiagnosticMeta(enable bool) ParseOption {
	return func(c *ParseConfig) { c.DiagnosticMeta = enable }
}

func WithResolveOnBuild(resolve bool) ParseOption {
	return func(c *ParseConfig) { c.ResolveOnBuild = resolve }
}

func WithDisableMmap(disable bool) ParseOption {
	return func(c *ParseConfig) { c.DisableMmap = disable }
}

func WithDisableRecycling(disable bool) ParseOption {
	return func(c *ParseConfig) { c.DisableRecycling = disable }
}

func WithDiagnosticSink(sink diag.Sink) ParseOption {
	return func(c *ParseConfig) { c.Sink = sink }
}

func newParseConfig(opts ...ParseOption) *ParseConfig {
	cfg := &ParseConfig{Color: diag.ColorAuto}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.CollectDiagnostics {
		cfg.collected = diag.NewBufferSink(0)
	}
	return cfg
}

// report sends d to cfg's configured channel: cfg.Sink if set, else the
// process-wide default (unless Quiet), and additionally into
// cfg.collected when CollectDiagnostics was set so a Document produced
// later (or none, on a hard parse failure) can still expose what was
// reported.
func (cfg *ParseConfig) report(d diag.Diagnostic) {
	if cfg.collected != nil {
		cfg.collected.Emit(d)
	}
	if cfg.Quiet {
		return
	}
	if cfg.Sink != nil {
		cfg.Sink.Emit(d)
		return
	}
	diag.Emit(d)
}

//-----------------------------------------------------------------------------
// Document
//-----------------------------------------------------------------------------

// Document wraps a built Node tree with the directive/anchor state it
// carries, plus the path/query convenience accessors exposed at the
// interface level.
type Document struct {
	doc           *document.Doc
	diagnostics   *diag.BufferSink
	hasParseError bool
}

// Root returns the document's root Node (nil for an empty document).
func (d *Document) Root() *Node { return d.doc.Root }

// HasParseError reports whether this Document was produced from a
// stream that hit a parse error. Its Root and other fields reflect
// whatever was built before the error, which may be incomplete or nil.
func (d *Document) HasParseError() bool { return d.hasParseError }

// SetRoot replaces the document's root Node.
func (d *Document) SetRoot(n *Node) { d.doc.Root = n }

// Resolve expands alias nodes into deep copies of their anchor targets
// and `<<` merge keys into their target mappings' entries, in place.
func (d *Document) Resolve() error {
	return wrapErr(resolver.Resolve(d.doc, resolver.DecodeFunc(token.Decode)))
}

// Diagnostics returns the diagnostics collected so far, if the document
// was parsed with WithCollectDiagnostics(true); nil otherwise.
func (d *Document) Diagnostics() []diag.Diagnostic {
	if d.diagnostics == nil {
		return nil
	}
	return d.diagnostics.Diagnostics()
}

// TagDirectives returns the document's %TAG handle->prefix table in the
// order entries were added (a parsed document's explicit directives
// first, then the built-in defaults, then any AddTagDirective calls).
func (d *Document) TagDirectives() []TagDirective { return d.doc.State.Directives() }

// LookupTagDirective returns the prefix registered for handle.
func (d *Document) LookupTagDirective(handle string) (string, bool) {
	return d.doc.State.LookupTagDirective(handle)
}

// AddTagDirective declares handle -> prefix; allowDuplicate permits
// re-declaring an already-present handle silently.
func (d *Document) AddTagDirective(handle, prefix string, allowDuplicate bool) error {
	return d.doc.State.AppendTagDirective(TagDirective{Handle: handle, Prefix: prefix}, allowDuplicate)
}

// RemoveTagDirective removes handle's declaration, reporting whether it
// was present.
func (d *Document) RemoveTagDirective(handle string) bool {
	return d.doc.State.RemoveTagDirective(handle)
}

// Anchors returns the document's currently visible (name, node) anchor
// pairs, in ascending declaration order.
func (d *Document) Anchors() []document.AnchorEntry { return d.doc.Anchors() }

// LookupAnchor returns the node registered under name, or nil.
func (d *Document) LookupAnchor(name string) *Node { return d.doc.LookupAnchor(name) }

// SetAnchor declares name -> n, shadowing any earlier declaration.
func (d *Document) SetAnchor(name string, n *Node) { d.doc.SetAnchor(name, n) }

// RemoveAnchor un-declares name's most recent anchor, un-shadowing an
// earlier declaration of the same name if one exists.
func (d *Document) RemoveAnchor(name string) bool { return d.doc.RemoveAnchor(name) }

// PathOf returns n's canonical path from this document's root.
func (d *Document) PathOf(n *Node) (string, error) {
	return pathquery.PathOf(n, pathquery.DecodeFunc(token.Decode))
}

// Lookup resolves a "/"-separated path against this document's root.
func (d *Document) Lookup(path string) (*Node, error) {
	return pathquery.Lookup(d.doc.Root, path, pathquery.DecodeFunc(token.Decode))
}

// Scan is Lookup plus typed conversion for a batch of paths; see the
// package-level Scan for the format syntax.
func (d *Document) Scan(format string, dests ...interface{}) error {
	return query.Scan(d.doc.Root, query.DecodeFunc(token.Decode), format, dests...)
}

func (d *Document) GetString(path string) (string, error) {
	return query.GetString(d.doc.Root, query.DecodeFunc(token.Decode), path)
}

func (d *Document) GetInt(path string) (int64, error) {
	return query.GetInt(d.doc.Root, query.DecodeFunc(token.Decode), path)
}

func (d *Document) GetFloat(path string) (float64, error) {
	return query.GetFloat(d.doc.Root, query.DecodeFunc(token.Decode), path)
}

func (d *Document) GetBool(path string) (bool, error) {
	return query.GetBool(d.doc.Root, query.DecodeFunc(token.Decode), path)
}

// SetString overwrites the scalar at path with a literal replacement.
func (d *Document) SetString(path, value string) error {
	return query.SetString(d.doc.Root, query.DecodeFunc(token.Decode), path, value)
}

// TagDirective is re-exported from internal/docstate for
// Document.AddTagDirective/TagDirectives callers.
type TagDirective = docstate.TagDirective

//-----------------------------------------------------------------------------
// Parsing
//-----------------------------------------------------------------------------

func buildDocument(in *input.Input, cfg *ParseConfig) (*Document, error) {
	sc := scanner.New(in)
	p := parser.New(sc)
	b := document.NewBuilder(p)
	b.EnforceUniqueKeys = true
	b.EqualFn = resolver.NewComparator(resolver.DecodeFunc(token.Decode))

	doc, err := b.Build()
	if err != nil {
		wrapped := wrapErr(err)
		cfg.report(diag.Diagnostic{
			Source:   in.Source(),
			Level:    diag.LevelError,
			Category: diag.CategoryGrammatical,
			Module:   "parser",
			Message:  wrapped.Error(),
		})
		return &Document{doc: document.New(), diagnostics: cfg.collected, hasParseError: true}, wrapped
	}
	if doc == nil {
		doc = document.New()
	}

	out := &Document{doc: doc, diagnostics: cfg.collected}
	if cfg.ResolveOnBuild {
		if err := out.Resolve(); err != nil {
			return out, err
		}
	}
	return out, nil
}

// ParseBytes parses a single YAML (or JSON) document from b, which is
// borrowed without copying; the caller must keep it alive and immutable
// for as long as the returned Document (and any Node within it) is in
// use.
func ParseBytes(b []byte, opts ...ParseOption) (*Document, error) {
	cfg := newParseConfig(opts...)
	return buildDocument(input.NewFromBytes(b), cfg)
}

// ParseString parses a single document from s.
func ParseString(s string, opts ...ParseOption) (*Document, error) {
	cfg := newParseConfig(opts...)
	return buildDocument(input.NewFromString(s), cfg)
}

// ParsePath opens and parses the document stored at path, memory-mapping
// it unless WithDisableMmap(true) was given.
func ParsePath(path string, opts ...ParseOption) (*Document, error) {
	cfg := newParseConfig(opts...)
	in, err := input.Open(path, input.Config{DisableMmap: cfg.DisableMmap})
	if err != nil {
		wrapped := &ReaderError{Err: err}
		cfg.report(diag.Diagnostic{
			Source:   path,
			Level:    diag.LevelError,
			Category: diag.CategoryInput,
			Module:   "input",
			Message:  wrapped.Error(),
		})
		return nil, wrapped
	}
	return buildDocument(in, cfg)
}

// ParseReader reads r fully, then parses the result. It is a convenience
// over ParseBytes for callers that only have an io.Reader; streaming
// input that must be fed incrementally should use internal/input's
// Streamed Input directly (not part of this package's surface).
func ParseReader(r io.Reader, opts ...ParseOption) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, &ReaderError{Err: err}
	}
	cfg := newParseConfig(opts...)
	return buildDocument(input.NewOwned(b), cfg)
}

//-----------------------------------------------------------------------------
// Emit configuration
//-----------------------------------------------------------------------------

// EmitConfig mirrors emitter.Options, re-exported so callers never
// import internal/emitter directly.
type EmitConfig = emitter.Options

// EmitOption configures an EmitConfig.
type EmitOption func(*EmitConfig)

func WithIndent(n int) EmitOption       { return func(c *EmitConfig) { c.Indent = n } }
func WithWidth(n int) EmitOption        { return func(c *EmitConfig) { c.Width = n } }
func WithMode(m emitter.Mode) EmitOption { return func(c *EmitConfig) { c.Mode = m } }
func WithSortKeys(sort bool) EmitOption { return func(c *EmitConfig) { c.SortKeys = sort } }
func WithOutputComments(out bool) EmitOption {
	return func(c *EmitConfig) { c.OutputComments = out }
}
func WithCanonical(canon bool) EmitOption { return func(c *EmitConfig) { c.Canonical = canon } }
func WithDocStartMark(m emitter.MarkMode) EmitOption {
	return func(c *EmitConfig) { c.DocStartMark = m }
}
func WithDocEndMark(m emitter.MarkMode) EmitOption {
	return func(c *EmitConfig) { c.DocEndMark = m }
}

func newEmitConfig(opts ...EmitOption) EmitConfig {
	cfg := emitter.DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// byteSink collects every emitted chunk into a single buffer, ignoring
// WriteKind; used by EmitBytes/EmitString.
type byteSink struct{ buf bytes.Buffer }

func (s *byteSink) Write(_ emitter.WriteKind, p []byte) error {
	_, err := s.buf.Write(p)
	return err
}

// writerSink adapts an io.Writer to emitter.Sink.
type writerSink struct{ w io.Writer }

func (s writerSink) Write(_ emitter.WriteKind, p []byte) error {
	_, err := s.w.Write(p)
	return err
}

// EmitBytes renders d's whole document (directives, markers, and root)
// and returns the bytes produced.
func EmitBytes(d *Document, opts ...EmitOption) ([]byte, error) {
	cfg := newEmitConfig(opts...)
	sink := &byteSink{}
	e := emitter.New(sink, cfg)
	if err := e.EmitDocument(d.doc); err != nil {
		return nil, &WriterError{Err: err}
	}
	return sink.buf.Bytes(), nil
}

// EmitString is EmitBytes converted to a string.
func EmitString(d *Document, opts ...EmitOption) (string, error) {
	b, err := EmitBytes(d, opts...)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// EmitTo writes doc to w.
func EmitTo(w io.Writer, d *Document, opts ...EmitOption) error {
	cfg := newEmitConfig(opts...)
	e := emitter.New(writerSink{w: w}, cfg)
	if err := e.EmitDocument(d.doc); err != nil {
		return &WriterError{Err: err}
	}
	return nil
}

// EmitNode renders a bare Node (no enclosing Document, so no
// directives/markers are written) to w.
func EmitNode(w io.Writer, n *Node, opts ...EmitOption) error {
	cfg := newEmitConfig(opts...)
	e := emitter.New(writerSink{w: w}, cfg)
	if err := e.EmitNode(n); err != nil {
		return &WriterError{Err: err}
	}
	return nil
}
