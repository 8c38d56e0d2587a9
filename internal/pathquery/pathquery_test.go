package pathquery_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohporter/yamlkit/internal/document"
	"github.com/ohporter/yamlkit/internal/input"
	"github.com/ohporter/yamlkit/internal/parser"
	"github.com/ohporter/yamlkit/internal/pathquery"
	"github.com/ohporter/yamlkit/internal/scanner"
	"github.com/ohporter/yamlkit/internal/token"
)

func build(t *testing.T, src string) *document.Doc {
	t.Helper()
	b := document.NewBuilder(parser.New(scanner.New(input.NewFromString(src))))
	doc, err := b.Build()
	require.NoError(t, err)
	document.SetParents(doc.Root)
	return doc
}

func TestLookupRoot(t *testing.T) {
	doc := build(t, "a: 1\n")
	n, err := pathquery.Lookup(doc.Root, "", token.Decode)
	require.NoError(t, err)
	require.Same(t, doc.Root, n)

	n, err = pathquery.Lookup(doc.Root, "/", token.Decode)
	require.NoError(t, err)
	require.Same(t, doc.Root, n)
}

func TestLookupNestedMappingAndSequence(t *testing.T) {
	doc := build(t, "a:\n  b:\n    - x\n    - y\n")
	n, err := pathquery.Lookup(doc.Root, "/a/b/1", token.Decode)
	require.NoError(t, err)
	require.Equal(t, "y", n.Text(token.Decode))
}

func TestLookupMissingKeyErrors(t *testing.T) {
	doc := build(t, "a: 1\n")
	_, err := pathquery.Lookup(doc.Root, "/missing", token.Decode)
	require.Error(t, err)
}

func TestLookupOutOfRangeIndexErrors(t *testing.T) {
	doc := build(t, "a:\n  - 1\n")
	_, err := pathquery.Lookup(doc.Root, "/a/5", token.Decode)
	require.Error(t, err)
}

func TestLookupDescendIntoScalarErrors(t *testing.T) {
	doc := build(t, "a: 1\n")
	_, err := pathquery.Lookup(doc.Root, "/a/b", token.Decode)
	require.Error(t, err)
}

func TestPathOfRoundTrip(t *testing.T) {
	doc := build(t, "a:\n  b:\n    - x\n    - y\n")
	target, err := pathquery.Lookup(doc.Root, "/a/b/1", token.Decode)
	require.NoError(t, err)

	path, err := pathquery.PathOf(target, token.Decode)
	require.NoError(t, err)
	require.Equal(t, "/a/b/1", path)

	back, err := pathquery.Lookup(doc.Root, path, token.Decode)
	require.NoError(t, err)
	require.Same(t, target, back)
}

func TestPathOfRoot(t *testing.T) {
	doc := build(t, "a: 1\n")
	path, err := pathquery.PathOf(doc.Root, token.Decode)
	require.NoError(t, err)
	require.Equal(t, "/", path)
}

func TestPathOfMappingKeyVsValue(t *testing.T) {
	doc := build(t, "a:\n  b: 1\n")
	value, err := pathquery.Lookup(doc.Root, "/a/b", token.Decode)
	require.NoError(t, err)
	path, err := pathquery.PathOf(value, token.Decode)
	require.NoError(t, err)
	require.Equal(t, "/a/b", path)
}
