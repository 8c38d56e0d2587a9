package document_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohporter/yamlkit/internal/document"
	"github.com/ohporter/yamlkit/internal/input"
	"github.com/ohporter/yamlkit/internal/parser"
	"github.com/ohporter/yamlkit/internal/scanner"
	"github.com/ohporter/yamlkit/internal/token"
)

func build(t *testing.T, src string) *document.Doc {
	t.Helper()
	b := document.NewBuilder(parser.New(scanner.New(input.NewFromString(src))))
	doc, err := b.Build()
	require.NoError(t, err)
	require.NotNil(t, doc)
	return doc
}

func TestBuildScalarDocument(t *testing.T) {
	doc := build(t, "hello\n")
	require.Equal(t, document.ScalarNode, doc.Root.Kind)
	require.Equal(t, "hello", doc.Root.Text(token.Decode))
}

func TestBuildMappingPreservesOrder(t *testing.T) {
	doc := build(t, "z: 1\na: 2\nm: 3\n")
	require.Equal(t, document.MappingNode, doc.Root.Kind)
	var keys []string
	for _, p := range doc.Root.Pairs {
		keys = append(keys, p.Key.Text(token.Decode))
	}
	require.Equal(t, []string{"z", "a", "m"}, keys)
}

func TestBuildDuplicateKeyRejectedWhenEnforced(t *testing.T) {
	src := "a: 1\na: 2\n"
	b := document.NewBuilder(parser.New(scanner.New(input.NewFromString(src))))
	b.EnforceUniqueKeys = true
	b.EqualFn = func(x, y *document.Node) bool { return x.Text(token.Decode) == y.Text(token.Decode) }
	_, err := b.Build()
	require.Error(t, err)
}

func TestBuildDuplicateKeyAllowedByDefault(t *testing.T) {
	doc := build(t, "a: 1\na: 2\n")
	require.Len(t, doc.Root.Pairs, 2)
}

func TestBuildTagResolvesToCanonicalURI(t *testing.T) {
	doc := build(t, "!!str hello\n")
	require.Equal(t, "tag:yaml.org,2002:str", doc.Root.Tag)
}

func TestBuildCustomTagHandleResolves(t *testing.T) {
	doc := build(t, "%TAG !e! tag:example.com,2000:\n--- !e!foo bar\n")
	require.Equal(t, "tag:example.com,2000:foo", doc.Root.Tag)
}

func TestBuildUndefinedTagHandleErrors(t *testing.T) {
	b := document.NewBuilder(parser.New(scanner.New(input.NewFromString("!q!foo bar\n"))))
	_, err := b.Build()
	require.Error(t, err)
}

func TestBuildUnknownAnchorAliasErrors(t *testing.T) {
	b := document.NewBuilder(parser.New(scanner.New(input.NewFromString("*missing\n"))))
	_, err := b.Build()
	require.Error(t, err)
}

func TestAnchorRegistryShadowingAndRemoval(t *testing.T) {
	doc := document.New()
	n1 := document.NewScalar("first", "")
	n2 := document.NewScalar("second", "")

	doc.RegisterAnchor("a", n1)
	require.Same(t, n1, doc.LookupAnchor("a"))

	doc.RegisterAnchor("a", n2)
	require.Same(t, n2, doc.LookupAnchor("a"), "the most recent declaration must shadow the earlier one")

	require.True(t, doc.RemoveAnchor("a"))
	require.Same(t, n1, doc.LookupAnchor("a"), "removing the shadowing declaration must un-shadow the prior one")

	require.True(t, doc.RemoveAnchor("a"))
	require.Nil(t, doc.LookupAnchor("a"))

	require.False(t, doc.RemoveAnchor("a"))
}

func TestAnchorsReturnsVisibleSetInDeclarationOrder(t *testing.T) {
	doc := document.New()
	a := document.NewScalar("a", "")
	b := document.NewScalar("b", "")
	aAgain := document.NewScalar("a-shadow", "")

	doc.RegisterAnchor("a", a)
	doc.RegisterAnchor("b", b)
	doc.RegisterAnchor("a", aAgain)

	entries := doc.Anchors()
	require.Len(t, entries, 2)
	require.Equal(t, "b", entries[0].Name)
	require.Equal(t, "a", entries[1].Name)
	require.Same(t, aAgain, entries[1].Node)
}

func TestSequenceMutation(t *testing.T) {
	doc := build(t, "- 1\n- 2\n- 3\n")
	seq := doc.Root

	require.NoError(t, seq.InsertChildBefore(1, document.NewScalar("1.5", "")))
	texts := func() []string {
		out := make([]string, len(seq.Sequence))
		for i, c := range seq.Sequence {
			out[i] = c.Text(token.Decode)
		}
		return out
	}
	require.Equal(t, []string{"1", "1.5", "2", "3"}, texts())

	require.NoError(t, seq.RemoveChildAt(1))
	require.Equal(t, []string{"1", "2", "3"}, texts())

	require.NoError(t, seq.PrependChild(document.NewScalar("0", "")))
	require.Equal(t, []string{"0", "1", "2", "3"}, texts())
}

func TestMappingMutation(t *testing.T) {
	doc := build(t, "a: 1\n")
	m := doc.Root
	eq := func(x, y *document.Node) bool { return x.Text(token.Decode) == y.Text(token.Decode) }

	require.NoError(t, m.AppendPair(document.NewScalar("b", ""), document.NewScalar("2", ""), true, eq))
	require.Error(t, m.AppendPair(document.NewScalar("b", ""), document.NewScalar("3", ""), true, eq))

	v, ok := m.LookupByKey(document.NewScalar("b", ""), eq)
	require.True(t, ok)
	require.Equal(t, "2", v.Text(token.Decode))

	removed, err := m.RemovePairByKey(document.NewScalar("a", ""), eq)
	require.NoError(t, err)
	require.True(t, removed)
	require.Len(t, m.Pairs, 1)
}

func TestNodeInsertScalarOverwrite(t *testing.T) {
	dst := build(t, "a: 1\n")
	src := document.NewScalar("replaced", "")
	require.NoError(t, dst.Root.Insert(src, nil))
	require.Equal(t, document.ScalarNode, dst.Root.Kind)
	require.Equal(t, "replaced", dst.Root.Text(token.Decode))
}

func TestNodeInsertMappingMerge(t *testing.T) {
	dst := build(t, "a: 1\nb: 2\n")
	src := build(t, "b: 20\nc: 3\n")
	eq := func(x, y *document.Node) bool { return x.Text(token.Decode) == y.Text(token.Decode) }
	require.NoError(t, dst.Root.Insert(src.Root, eq))

	got := map[string]string{}
	for _, p := range dst.Root.Pairs {
		got[p.Key.Text(token.Decode)] = p.Value.Text(token.Decode)
	}
	require.Equal(t, map[string]string{"a": "1", "b": "20", "c": "3"}, got)
}

func TestSetParents(t *testing.T) {
	doc := build(t, "a:\n  - 1\n  - 2\n")
	document.SetParents(doc.Root)
	val := doc.Root.Pairs[0].Value
	require.Same(t, doc.Root, val.Parent)
	for _, c := range val.Sequence {
		require.Same(t, val, c.Parent)
	}
}
