package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohporter/yamlkit/internal/document"
	"github.com/ohporter/yamlkit/internal/input"
	"github.com/ohporter/yamlkit/internal/parser"
	"github.com/ohporter/yamlkit/internal/resolver"
	"github.com/ohporter/yamlkit/internal/scanner"
	"github.com/ohporter/yamlkit/internal/token"
)

func buildDoc(t *testing.T, src string) *document.Doc {
	t.Helper()
	b := document.NewBuilder(parser.New(scanner.New(input.NewFromString(src))))
	doc, err := b.Build()
	require.NoError(t, err)
	require.NotNil(t, doc)
	return doc
}

func textOf(n *document.Node) string {
	return n.Text(token.Decode)
}

func TestResolveAliasExpandsToCopy(t *testing.T) {
	doc := buildDoc(t, "- &a {x: 1}\n- *a\n")
	require.NoError(t, resolver.Resolve(doc, token.Decode))

	seq := doc.Root
	require.Equal(t, document.SequenceNode, seq.Kind)
	require.Len(t, seq.Sequence, 2)

	first, second := seq.Sequence[0], seq.Sequence[1]
	require.Equal(t, document.MappingNode, second.Kind)
	require.NotSame(t, first, second, "alias must resolve to a distinct copy, not the same node")
	require.Equal(t, textOf(first.Pairs[0].Value), textOf(second.Pairs[0].Value))
}

func TestResolveUnknownAliasErrors(t *testing.T) {
	doc := buildDoc(t, "- *missing\n")
	err := resolver.Resolve(doc, token.Decode)
	require.Error(t, err)
}

func TestResolveMergeKeyExpandsMapping(t *testing.T) {
	doc := buildDoc(t, "- &base {a: 1, b: 2}\n- {<<: *base, b: 3, c: 4}\n")
	require.NoError(t, resolver.Resolve(doc, token.Decode))

	merged := doc.Root.Sequence[1]
	require.Equal(t, document.MappingNode, merged.Kind)

	got := map[string]string{}
	for _, p := range merged.Pairs {
		got[textOf(p.Key)] = textOf(p.Value)
	}
	require.Equal(t, map[string]string{"a": "1", "b": "3", "c": "4"}, got)
	require.Len(t, merged.Pairs, 3, "the merge key itself must be removed")
}

func TestResolveMergeSequenceOfMappings(t *testing.T) {
	doc := buildDoc(t, "- &m1 {a: 1}\n- &m2 {b: 2}\n- {<<: [*m1, *m2], c: 3}\n")
	require.NoError(t, resolver.Resolve(doc, token.Decode))

	merged := doc.Root.Sequence[2]
	got := map[string]string{}
	for _, p := range merged.Pairs {
		got[textOf(p.Key)] = textOf(p.Value)
	}
	require.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, got)
}

func TestResolveMergeOnScalarErrors(t *testing.T) {
	doc := buildDoc(t, "{<<: notamap, a: 1}\n")
	err := resolver.Resolve(doc, token.Decode)
	require.Error(t, err)
}

func TestEqualScalarAndNull(t *testing.T) {
	a := document.NewScalar("x", "")
	b := document.NewScalar("x", "")
	require.True(t, resolver.Equal(a, b))

	empty1 := document.NewScalar("", "")
	empty2 := document.NewScalar("", "")
	require.True(t, resolver.Equal(empty1, empty2), "two empty scalars are always equal")

	c := document.NewScalar("y", "")
	require.False(t, resolver.Equal(a, c))
}

func TestNewComparatorMappingOrderIndependent(t *testing.T) {
	docA := buildDoc(t, "{a: 1, b: 2}\n")
	docB := buildDoc(t, "{b: 2, a: 1}\n")
	eq := resolver.NewComparator(token.Decode)
	require.True(t, eq(docA.Root, docB.Root))
}

func TestNewComparatorMappingMismatch(t *testing.T) {
	docA := buildDoc(t, "{a: 1}\n")
	docB := buildDoc(t, "{a: 2}\n")
	eq := resolver.NewComparator(token.Decode)
	require.False(t, eq(docA.Root, docB.Root))
}
