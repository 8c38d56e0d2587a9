// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Package query implements path-indexed convenience accessors: readers
// that look like a variadic scanf/printf idiom from the outside (one
// format string plus a list of destinations) but parse that format
// string into a small internal step list and dispatch each conversion
// through a typed function instead of reflection-driven Sscanf.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ohporter/yamlkit/internal/atom"
	"github.com/ohporter/yamlkit/internal/document"
	"github.com/ohporter/yamlkit/internal/pathquery"
)

// DecodeFunc decodes a scalar node's backing atom into text.
type DecodeFunc func(raw []byte, style atom.Style, flags atom.Flags) string

// Verb names the primitive kind a format step converts to.
type Verb int8

const (
	VerbString Verb = iota
	VerbInt
	VerbFloat
	VerbBool
)

type step struct {
	path string
	verb Verb
}

// parseFormat turns "/invoice %d /date %s" into the step list
// [{"/invoice", VerbInt}, {"/date", VerbString}]. Each conversion is a
// (path, verb) pair; fields are whitespace-separated.
func parseFormat(format string) ([]step, error) {
	fields := strings.Fields(format)
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("query: malformed format %q: expected alternating path/verb pairs", format)
	}
	steps := make([]step, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		var v Verb
		switch fields[i+1] {
		case "%s":
			v = VerbString
		case "%d":
			v = VerbInt
		case "%f":
			v = VerbFloat
		case "%t":
			v = VerbBool
		default:
			return nil, fmt.Errorf("query: unknown verb %q in format %q", fields[i+1], format)
		}
		steps = append(steps, step{path: fields[i], verb: v})
	}
	return steps, nil
}

// Scan resolves each path in format against root in order and converts
// the found scalar's decoded text into the matching destination
// pointer (*string, *int64, *float64 or *bool per the format's verbs).
// It returns the first lookup, parse, or destination-type mismatch
// error encountered.
func Scan(root *document.Node, decode DecodeFunc, format string, dests ...interface{}) error {
	steps, err := parseFormat(format)
	if err != nil {
		return err
	}
	if len(steps) != len(dests) {
		return fmt.Errorf("query: format has %d conversions, got %d destinations", len(steps), len(dests))
	}
	for i, st := range steps {
		n, err := pathquery.Lookup(root, st.path, pathquery.DecodeFunc(decode))
		if err != nil {
			return err
		}
		text := n.Text(decode)
		if err := assign(dests[i], st.verb, text); err != nil {
			return fmt.Errorf("query: path %q: %w", st.path, err)
		}
	}
	return nil
}

func assign(dest interface{}, verb Verb, text string) error {
	switch verb {
	case VerbString:
		dp, ok := dest.(*string)
		if !ok {
			return fmt.Errorf("destination for %%s verb must be *string, got %T", dest)
		}
		*dp = text
	case VerbInt:
		dp, ok := dest.(*int64)
		if !ok {
			return fmt.Errorf("destination for %%d verb must be *int64, got %T", dest)
		}
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return err
		}
		*dp = v
	case VerbFloat:
		dp, ok := dest.(*float64)
		if !ok {
			return fmt.Errorf("destination for %%f verb must be *float64, got %T", dest)
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return err
		}
		*dp = v
	case VerbBool:
		dp, ok := dest.(*bool)
		if !ok {
			return fmt.Errorf("destination for %%t verb must be *bool, got %T", dest)
		}
		v, err := strconv.ParseBool(text)
		if err != nil {
			return err
		}
		*dp = v
	}
	return nil
}

// GetString, GetInt, GetFloat and GetBool are the single-value typed
// readers the design note calls for when a caller wants one
// conversion rather than a batch Scan.
func GetString(root *document.Node, decode DecodeFunc, path string) (string, error) {
	n, err := pathquery.Lookup(root, path, pathquery.DecodeFunc(decode))
	if err != nil {
		return "", err
	}
	return n.Text(decode), nil
}

func GetInt(root *document.Node, decode DecodeFunc, path string) (int64, error) {
	text, err := GetString(root, decode, path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(text, 10, 64)
}

func GetFloat(root *document.Node, decode DecodeFunc, path string) (float64, error) {
	text, err := GetString(root, decode, path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(text, 64)
}

func GetBool(root *document.Node, decode DecodeFunc, path string) (bool, error) {
	text, err := GetString(root, decode, path)
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(text)
}

// SetString is the "printf" half of the design note: it overwrites the
// scalar at path with a literal replacement node carrying value, the
// typed analogue of formatting a value back into the tree at a path.
func SetString(root *document.Node, decode DecodeFunc, path, value string) error {
	n, err := pathquery.Lookup(root, path, pathquery.DecodeFunc(decode))
	if err != nil {
		return err
	}
	if n.Kind != document.ScalarNode {
		return fmt.Errorf("query: path %q does not name a scalar", path)
	}
	replacement := document.NewScalar(value, n.Tag)
	n.ScalarToken = replacement.ScalarToken
	return nil
}
