package input_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohporter/yamlkit/internal/input"
)

func TestNewFromBytes(t *testing.T) {
	in := input.NewFromBytes([]byte("hello"))
	require.Equal(t, input.Borrowed, in.Kind())
	require.Equal(t, "<bytes>", in.Source())
	require.Equal(t, 5, in.Len())
	require.Equal(t, []byte("ell"), in.Slice(1, 4))
}

func TestNewFromStringAndOwned(t *testing.T) {
	in := input.NewFromString("abc")
	require.Equal(t, input.Borrowed, in.Kind())
	require.Equal(t, []byte("abc"), in.Bytes())

	src := []byte("mutate me")
	owned := input.NewOwned(src)
	require.Equal(t, input.Owned, owned.Kind())
	src[0] = 'X'
	require.Equal(t, "mutate me", string(owned.Bytes()), "NewOwned must copy, not alias")
}

func TestOpenDisableMmap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("key: value\n"), 0o644))

	in, err := input.Open(path, input.Config{DisableMmap: true})
	require.NoError(t, err)
	defer in.Close()
	require.Equal(t, input.Owned, in.Kind())
	require.Equal(t, "key: value\n", string(in.Bytes()))
	require.Equal(t, path, in.Source())
}

func TestOpenMmap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\nb: 2\n"), 0o644))

	in, err := input.Open(path, input.Config{})
	require.NoError(t, err)
	defer in.Close()
	require.Equal(t, input.Mapped, in.Kind())
	require.Equal(t, "a: 1\nb: 2\n", string(in.Bytes()))
}

func TestOpenEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	in, err := input.Open(path, input.Config{})
	require.NoError(t, err)
	defer in.Close()
	require.Equal(t, input.Owned, in.Kind())
	require.Equal(t, 0, in.Len())
}

func TestOpenMissingFile(t *testing.T) {
	_, err := input.Open(filepath.Join(t.TempDir(), "nope.yaml"), input.Config{})
	require.Error(t, err)
}

func TestStreamedInput(t *testing.T) {
	in := input.NewStream(nil)
	require.Equal(t, input.Streamed, in.Kind())
	require.Contains(t, in.Source(), "<stream:")
	require.False(t, in.EOF())

	in.RequestMore()
	require.True(t, in.NeedMore())
	in.Append([]byte("chunk"))
	require.False(t, in.NeedMore())
	require.Equal(t, "chunk", string(in.Bytes()))

	in.MarkEOF()
	require.True(t, in.EOF())
	in.RequestMore()
	require.False(t, in.NeedMore(), "NeedMore must stay false once the stream is closed")
}

func TestPosition(t *testing.T) {
	in := input.NewFromString("line1\nline2\r\nline3")
	line, col := in.Position(0)
	require.Equal(t, 1, line)
	require.Equal(t, 0, col)

	line, col = in.Position(6)
	require.Equal(t, 2, line)
	require.Equal(t, 0, col)

	line, col = in.Position(13)
	require.Equal(t, 3, line)
	require.Equal(t, 0, col)
}

func TestCloseIsNoopForBorrowed(t *testing.T) {
	in := input.NewFromBytes([]byte("x"))
	require.NoError(t, in.Close())
}
