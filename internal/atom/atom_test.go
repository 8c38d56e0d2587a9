package atom_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohporter/yamlkit/internal/atom"
)

type strSource string

func (s strSource) Slice(start, end int) []byte { return []byte(s)[start:end] }

func TestAtomRawAndLen(t *testing.T) {
	src := strSource("hello world")
	a := atom.Atom{Src: src, Start: 0, End: 5, Style: atom.Plain}
	require.Equal(t, 5, a.Len())
	require.Equal(t, "hello", string(a.Raw()))
	require.Equal(t, "hello", a.RawString())
}

func TestAtomWithPart(t *testing.T) {
	src := strSource("abcdefghij")
	a := atom.Atom{Src: src, Start: 0, End: 3}
	a = a.WithPart(src, 5, 8)
	require.True(t, a.Flags&atom.MultiChunk != 0)
	require.Equal(t, 6, a.Len())
	require.Equal(t, "abcfgh", string(a.Raw()))
	require.Equal(t, "abcfgh", a.RawString())
}

func TestAtomText(t *testing.T) {
	src := strSource("PLAIN")
	a := atom.Atom{Src: src, Start: 0, End: 5, Style: atom.Plain}

	require.Equal(t, "PLAIN", a.Text(nil))

	upper := func(raw []byte, style atom.Style, flags atom.Flags) string {
		require.Equal(t, atom.Plain, style)
		return string(raw) + "!"
	}
	require.Equal(t, "PLAIN!", a.Text(upper))
}

func TestStyleString(t *testing.T) {
	cases := map[atom.Style]string{
		atom.Plain:        "plain",
		atom.SingleQuoted: "single-quoted",
		atom.DoubleQuoted: "double-quoted",
		atom.Literal:      "literal",
		atom.Folded:       "folded",
		atom.URI:          "uri",
		atom.Comment:      "comment",
		atom.Style(99):    "unknown",
	}
	for style, want := range cases {
		require.Equal(t, want, style.String())
	}
}
