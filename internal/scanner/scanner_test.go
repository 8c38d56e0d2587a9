package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohporter/yamlkit/internal/input"
	"github.com/ohporter/yamlkit/internal/scanner"
	"github.com/ohporter/yamlkit/internal/token"
)

func scanAll(t *testing.T, src string) []*token.Token {
	t.Helper()
	s := scanner.New(input.NewFromString(src))
	var out []*token.Token
	for {
		tok, err := s.Next()
		require.NoError(t, err)
		if tok == nil {
			break
		}
		out = append(out, tok)
	}
	return out
}

func types(toks []*token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestScanPlainScalarDocument(t *testing.T) {
	toks := scanAll(t, "hello\n")
	require.Equal(t, []token.Type{
		token.StreamStart, token.Scalar, token.StreamEnd,
	}, types(toks))
	require.Equal(t, "hello", toks[1].Text(token.Decode))
}

func TestScanBlockMapping(t *testing.T) {
	toks := scanAll(t, "key: value\nother: 2\n")
	require.Equal(t, []token.Type{
		token.StreamStart,
		token.BlockMappingStart,
		token.Key, token.Scalar, token.Value, token.Scalar,
		token.Key, token.Scalar, token.Value, token.Scalar,
		token.BlockEnd,
		token.StreamEnd,
	}, types(toks))
}

func TestScanBlockSequence(t *testing.T) {
	toks := scanAll(t, "- one\n- two\n")
	require.Equal(t, []token.Type{
		token.StreamStart,
		token.BlockSequenceStart,
		token.BlockEntry, token.Scalar,
		token.BlockEntry, token.Scalar,
		token.BlockEnd,
		token.StreamEnd,
	}, types(toks))
}

func TestScanFlowMapping(t *testing.T) {
	toks := scanAll(t, "{a: 1, b: 2}\n")
	got := types(toks)
	require.Equal(t, token.StreamStart, got[0])
	require.Equal(t, token.FlowMappingStart, got[1])
	require.Equal(t, token.FlowMappingEnd, got[len(got)-2])
	require.Equal(t, token.StreamEnd, got[len(got)-1])
}

func TestScanFlowSequence(t *testing.T) {
	toks := scanAll(t, "[1, 2, 3]\n")
	got := types(toks)
	require.Equal(t, token.FlowSequenceStart, got[1])
	require.Contains(t, got, token.FlowEntry)
	require.Equal(t, token.FlowSequenceEnd, got[len(got)-2])
}

func TestScanQuotedScalars(t *testing.T) {
	toks := scanAll(t, "'single ''quote''' \n")
	require.Equal(t, "single 'quote'", toks[1].Text(token.Decode))

	toks = scanAll(t, "\"double\\nquote\"\n")
	require.Equal(t, "double\nquote", toks[1].Text(token.Decode))
}

func TestScanAnchorAliasTag(t *testing.T) {
	toks := scanAll(t, "- &a !!str foo\n- *a\n")
	got := types(toks)
	require.Contains(t, got, token.Anchor)
	require.Contains(t, got, token.Tag)
	require.Contains(t, got, token.Alias)
}

func TestScanVersionAndTagDirective(t *testing.T) {
	toks := scanAll(t, "%YAML 1.2\n%TAG !e! tag:example.com,2000:\n---\nfoo\n")
	got := types(toks)
	require.Equal(t, token.VersionDirective, got[1])
	require.Equal(t, token.TagDirective, got[2])
	require.Equal(t, token.DocumentStart, got[3])
}

func TestScanBlockLiteralScalar(t *testing.T) {
	toks := scanAll(t, "key: |\n  line one\n  line two\n")
	var scalar *token.Token
	for _, tok := range toks {
		if tok.Type == token.Scalar && tok.Style == token.LiteralScalarStyle {
			scalar = tok
		}
	}
	require.NotNil(t, scalar)
	require.Equal(t, "line one\nline two\n", scalar.Text(token.Decode))
}

func TestScanEmptyDocument(t *testing.T) {
	toks := scanAll(t, "")
	require.Equal(t, []token.Type{token.StreamStart, token.StreamEnd}, types(toks))
}

func TestNextAfterStreamEndReturnsNil(t *testing.T) {
	s := scanner.New(input.NewFromString("x\n"))
	var last *token.Token
	for {
		tok, err := s.Next()
		require.NoError(t, err)
		if tok == nil {
			break
		}
		last = tok
	}
	require.Equal(t, token.StreamEnd, last.Type)

	tok, err := s.Next()
	require.NoError(t, err)
	require.Nil(t, tok)
}
