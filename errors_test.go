package yamlkit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	yamlkit "github.com/ohporter/yamlkit"
)

func TestScannerErrorMessage(t *testing.T) {
	err := &yamlkit.ScannerError{Message: "bad escape"}
	require.Contains(t, err.Error(), "bad escape")
}

func TestParserErrorMessage(t *testing.T) {
	err := &yamlkit.ParserError{Message: "unexpected token"}
	require.Contains(t, err.Error(), "unexpected token")
}

func TestWriterErrorUnwraps(t *testing.T) {
	cause := &yamlkit.WriterError{Err: errSentinel{}}
	require.ErrorIs(t, cause, errSentinel{})
}

type errSentinel struct{}

func (errSentinel) Error() string { return "sentinel" }

func TestParseBytesReturnsParserErrorOnUnmatchedFlow(t *testing.T) {
	_, err := yamlkit.ParseBytes([]byte("a: [1, 2\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "yaml:")
}
