package yamlkit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	yamlkit "github.com/ohporter/yamlkit"
)

func TestNewScalarAndText(t *testing.T) {
	n := yamlkit.NewScalar("hello", "")
	require.Equal(t, "hello", yamlkit.Text(n))
	require.Equal(t, yamlkit.ScalarNode, n.Kind)
}

func TestPackageLevelLookupAndPathOf(t *testing.T) {
	doc, err := yamlkit.ParseString("a:\n  b:\n    - x\n    - y\n")
	require.NoError(t, err)

	n, err := yamlkit.Lookup(doc.Root(), "/a/b/1")
	require.NoError(t, err)
	require.Equal(t, "y", yamlkit.Text(n))

	path, err := yamlkit.PathOf(n)
	require.NoError(t, err)
	require.Equal(t, "/a/b/1", path)
}

func TestPackageLevelScan(t *testing.T) {
	doc, err := yamlkit.ParseString("count: 5\nname: gopher\n")
	require.NoError(t, err)

	var count int64
	var name string
	require.NoError(t, yamlkit.Scan(doc.Root(), "/count %d /name %s", &count, &name))
	require.EqualValues(t, 5, count)
	require.Equal(t, "gopher", name)
}

func TestPackageLevelGetters(t *testing.T) {
	doc, err := yamlkit.ParseString("ratio: 2.5\nok: true\n")
	require.NoError(t, err)

	f, err := yamlkit.GetFloat(doc.Root(), "/ratio")
	require.NoError(t, err)
	require.InDelta(t, 2.5, f, 0.0001)

	b, err := yamlkit.GetBool(doc.Root(), "/ok")
	require.NoError(t, err)
	require.True(t, b)
}

func TestPackageLevelSetString(t *testing.T) {
	doc, err := yamlkit.ParseString("name: old\n")
	require.NoError(t, err)

	require.NoError(t, yamlkit.SetString(doc.Root(), "/name", "new"))
	s, err := yamlkit.GetString(doc.Root(), "/name")
	require.NoError(t, err)
	require.Equal(t, "new", s)
}

func TestNodeKindAndStyleConstantsDistinct(t *testing.T) {
	require.NotEqual(t, yamlkit.ScalarNode, yamlkit.SequenceNode)
	require.NotEqual(t, yamlkit.SequenceNode, yamlkit.MappingNode)
	require.NotEqual(t, yamlkit.FlowStyle, yamlkit.PlainStyle)
}
