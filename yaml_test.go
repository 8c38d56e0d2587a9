package yamlkit_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	yamlkit "github.com/ohporter/yamlkit"
	"github.com/ohporter/yamlkit/internal/diag"
	"github.com/ohporter/yamlkit/internal/emitter"
)

func TestParseBytesAndEmitRoundTrip(t *testing.T) {
	doc, err := yamlkit.ParseBytes([]byte("a: 1\nb: 2\n"))
	require.NoError(t, err)
	require.False(t, doc.HasParseError())

	out, err := yamlkit.EmitString(doc)
	require.NoError(t, err)
	require.Equal(t, "a: 1\nb: 2\n", out)
}

func TestParseStringGetters(t *testing.T) {
	doc, err := yamlkit.ParseString("name: gopher\ncount: 3\n")
	require.NoError(t, err)

	s, err := doc.GetString("/name")
	require.NoError(t, err)
	require.Equal(t, "gopher", s)

	i, err := doc.GetInt("/count")
	require.NoError(t, err)
	require.EqualValues(t, 3, i)
}

func TestParsePathReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("k: v\n"), 0o644))

	doc, err := yamlkit.ParsePath(path)
	require.NoError(t, err)
	s, err := doc.GetString("/k")
	require.NoError(t, err)
	require.Equal(t, "v", s)
}

func TestParseReader(t *testing.T) {
	doc, err := yamlkit.ParseReader(strings.NewReader("x: 1\n"))
	require.NoError(t, err)
	i, err := doc.GetInt("/x")
	require.NoError(t, err)
	require.EqualValues(t, 1, i)
}

func TestParseBytesSyntaxErrorReturnsTypedError(t *testing.T) {
	_, err := yamlkit.ParseBytes([]byte("a: [1, 2\n"))
	require.Error(t, err)
}

func TestResolveOnBuildExpandsAliases(t *testing.T) {
	doc, err := yamlkit.ParseString("- &a foo\n- *a\n", yamlkit.WithResolveOnBuild(true))
	require.NoError(t, err)

	seq := doc.Root().Sequence
	require.Len(t, seq, 2)
	require.Equal(t, "foo", yamlkit.Text(seq[0]))
	require.Equal(t, "foo", yamlkit.Text(seq[1]))
}

func TestCollectDiagnosticsOnParseError(t *testing.T) {
	doc, err := yamlkit.ParseBytes([]byte("a: [1, 2\n"), yamlkit.WithQuiet(true), yamlkit.WithCollectDiagnostics(true))
	require.Error(t, err)
	require.True(t, doc.HasParseError())
	require.NotEmpty(t, doc.Diagnostics())
}

func TestDiagnosticSinkReceivesParseErrors(t *testing.T) {
	sink := diag.NewBufferSink(0)
	_, err := yamlkit.ParseBytes([]byte("a: [1, 2\n"), yamlkit.WithDiagnosticSink(sink))
	require.Error(t, err)
	require.NotEmpty(t, sink.Diagnostics())
}

func TestTagDirectiveRoundTrip(t *testing.T) {
	doc, err := yamlkit.ParseString("a: 1\n")
	require.NoError(t, err)

	require.NoError(t, doc.AddTagDirective("!e!", "tag:example.com,2000:", false))
	prefix, ok := doc.LookupTagDirective("!e!")
	require.True(t, ok)
	require.Equal(t, "tag:example.com,2000:", prefix)

	require.True(t, doc.RemoveTagDirective("!e!"))
	_, ok = doc.LookupTagDirective("!e!")
	require.False(t, ok)
}

func TestAnchorAccessors(t *testing.T) {
	doc, err := yamlkit.ParseString("- &a foo\n- *a\n")
	require.NoError(t, err)

	n := doc.LookupAnchor("a")
	require.NotNil(t, n)

	require.True(t, doc.RemoveAnchor("a"))
	require.Nil(t, doc.LookupAnchor("a"))
}

func TestEmitToWriter(t *testing.T) {
	doc, err := yamlkit.ParseString("a: 1\n")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, yamlkit.EmitTo(&buf, doc))
	require.Equal(t, "a: 1\n", buf.String())
}

func TestEmitWithModeOption(t *testing.T) {
	doc, err := yamlkit.ParseString("a: 1\nb: 2\n")
	require.NoError(t, err)

	out, err := yamlkit.EmitString(doc, yamlkit.WithMode(emitter.ModeFlowOnly))
	require.NoError(t, err)
	require.Equal(t, "{a: 1, b: 2}\n", out)
}

func TestSetStringThenEmit(t *testing.T) {
	doc, err := yamlkit.ParseString("name: old\n")
	require.NoError(t, err)
	require.NoError(t, doc.SetString("/name", "new"))

	out, err := yamlkit.EmitString(doc)
	require.NoError(t, err)
	require.Equal(t, "name: new\n", out)
}
