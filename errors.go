// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0

package yamlkit

import (
	"fmt"

	"github.com/ohporter/yamlkit/internal/document"
	"github.com/ohporter/yamlkit/internal/parser"
	"github.com/ohporter/yamlkit/internal/resolver"
	"github.com/ohporter/yamlkit/internal/scanner"
	"github.com/ohporter/yamlkit/internal/token"
)

// Mark is a 0-based (index, line, column) source position, re-exported
// from internal/token so callers never need to import it directly.
type Mark = token.Mark

// ScannerError reports a lexical failure: a bad escape, an unterminated
// quoted scalar, a malformed block-scalar header, an invalid tag URI or
// directive.
type ScannerError struct {
	Mark    Mark
	Message string
}

func (e *ScannerError) Error() string { return fmt.Sprintf("yaml: %s: %s", e.Mark, e.Message) }

// ParserError reports a grammatical failure: an unexpected token, an
// unmatched flow terminator, an implicit key spanning a line break in
// block context, a missing mapping value.
type ParserError struct {
	Mark    Mark
	Message string
}

func (e *ParserError) Error() string { return fmt.Sprintf("yaml: %s: %s", e.Mark, e.Message) }

// ComposerError reports a document-build failure: a duplicate mapping
// key, an undefined alias target, a malformed event sequence.
type ComposerError struct {
	Mark    Mark
	Message string
}

func (e *ComposerError) Error() string { return fmt.Sprintf("yaml: %s: %s", e.Mark, e.Message) }

// ResolverError reports a semantic failure at resolve time: an
// undefined alias, an invalid merge-key value, alias-cycle detection --
// the subset that can only be caught once the tree exists.
type ResolverError struct {
	Mark    Mark
	Message string
}

func (e *ResolverError) Error() string { return fmt.Sprintf("yaml: %s: %s", e.Mark, e.Message) }

// EmitterError reports an emission failure: a style forced incompatible
// with a scalar's content, a malformed node shape handed to the
// emitter.
type EmitterError struct {
	Message string
}

func (e *EmitterError) Error() string { return fmt.Sprintf("yaml: %s", e.Message) }

// ReaderError reports an Input-layer failure: I/O error opening or
// reading a path, or non-UTF-8 bytes encountered while scanning.
type ReaderError struct {
	Err error
}

func (e *ReaderError) Error() string { return fmt.Sprintf("yaml: %s", e.Err) }
func (e *ReaderError) Unwrap() error { return e.Err }

// WriterError reports a sink failure during emission: the caller's
// Sink.Write returned an error, which this wraps and propagates
// verbatim.
type WriterError struct {
	Err error
}

func (e *WriterError) Error() string { return fmt.Sprintf("yaml: %s", e.Err) }
func (e *WriterError) Unwrap() error { return e.Err }

// wrapErr classifies an internal error into its public taxonomy type.
// Errors that already carry a Mark translate field-for-field; anything
// else (Sink/IO failures bubbling up untyped) is left as-is so Unwrap
// chains stay intact for errors.As/errors.Is.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *scanner.Error:
		return &ScannerError{Mark: e.Mark, Message: e.Problem}
	case *parser.Error:
		return &ParserError{Mark: e.Mark, Message: e.Problem}
	case *document.BuildError:
		return &ComposerError{Mark: e.Mark, Message: e.Reason}
	case *resolver.Error:
		return &ResolverError{Mark: e.Mark, Message: e.Reason}
	}
	return err
}
