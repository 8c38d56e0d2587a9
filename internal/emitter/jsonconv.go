// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0

package emitter

import (
	"bytes"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/ohporter/yamlkit/internal/document"
)

// emitJSONNode serialises n as JSON via json-iterator's Stream, which
// writes object fields in the order we feed them rather than Go map
// order, so a mapping's insertion order survives even though the
// library has no concept of document.Node. ModeJSON/
// ModeJSONTypePreserving pretty-print with opts.Indent; ModeJSONOneline
// writes no indentation or line breaks.
func (e *Emitter) emitJSONNode(n *document.Node) error {
	indent := e.opts.Indent
	if e.opts.Mode == ModeJSONOneline {
		indent = 0
	}
	cfg := jsoniter.Config{IndentionStep: indent}.Froze()
	var buf bytes.Buffer
	stream := jsoniter.NewStream(cfg, &buf, 512)

	typePreserving := e.opts.Mode == ModeJSONTypePreserving
	if err := writeJSONValue(stream, n, e.decode, typePreserving); err != nil {
		return err
	}
	if err := stream.Flush(); err != nil {
		return err
	}
	return e.sink.Write(KindDocumentIndicator, buf.Bytes())
}

func writeJSONValue(s *jsoniter.Stream, n *document.Node, decode DecodeFunc, typePreserving bool) error {
	if n.Kind == document.ScalarNode && n.Style == document.AliasStyle {
		n = n.Alias
	}
	switch n.Kind {
	case document.ScalarNode:
		plain := n.Style == document.PlainStyle || n.Style == document.AnyStyle
		writeJSONScalar(s, n.Text(decode), typePreserving && plain)
		return nil
	case document.SequenceNode:
		s.WriteArrayStart()
		for i, c := range n.Sequence {
			if i > 0 {
				s.WriteMore()
			}
			if err := writeJSONValue(s, c, decode, typePreserving); err != nil {
				return err
			}
		}
		s.WriteArrayEnd()
		return nil
	case document.MappingNode:
		s.WriteObjectStart()
		for i, p := range n.Pairs {
			if i > 0 {
				s.WriteMore()
			}
			s.WriteObjectField(p.Key.Text(decode))
			if err := writeJSONValue(s, p.Value, decode, typePreserving); err != nil {
				return err
			}
		}
		s.WriteObjectEnd()
		return nil
	}
	return nil
}

// writeJSONScalar implements the type-preserving rule: a plain
// scalar's text is written unquoted iff it matches the JSON grammar
// for null/bool/number once resolved; everything else, and every
// scalar at all when typePreserving is false, is a JSON string.
func writeJSONScalar(s *jsoniter.Stream, text string, typePreserving bool) {
	if typePreserving {
		switch text {
		case "", "null", "~":
			s.WriteNil()
			return
		case "true":
			s.WriteTrue()
			return
		case "false":
			s.WriteFalse()
			return
		}
		if isJSONNumber(text) {
			s.WriteRaw(text)
			return
		}
	}
	s.WriteString(text)
}

// isJSONNumber reports whether text matches JSON's number grammar
// exactly (no leading zeros other than a bare "0", no leading '+', no
// trailing '.', valid exponent form), rather than merely being
// parseable by strconv with surrounding slack stripped.
func isJSONNumber(text string) bool {
	if text == "" {
		return false
	}
	i := 0
	if text[i] == '-' {
		i++
	}
	if i >= len(text) {
		return false
	}
	start := i
	if text[i] == '0' {
		i++
	} else {
		for i < len(text) && isDigit(text[i]) {
			i++
		}
		if i == start {
			return false
		}
	}
	if i < len(text) && text[i] == '.' {
		i++
		fracStart := i
		for i < len(text) && isDigit(text[i]) {
			i++
		}
		if i == fracStart {
			return false
		}
	}
	if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
		i++
		if i < len(text) && (text[i] == '+' || text[i] == '-') {
			i++
		}
		expStart := i
		for i < len(text) && isDigit(text[i]) {
			i++
		}
		if i == expStart {
			return false
		}
	}
	if i != len(text) {
		return false
	}
	_, err := strconv.ParseFloat(text, 64)
	return err == nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
