package diag_test

import (
	"bytes"
	"strings"
	"testing"

	gokitlog "github.com/go-kit/log"
	"github.com/stretchr/testify/require"

	"github.com/ohporter/yamlkit/internal/diag"
)

func TestWriterSinkEmitsFormattedLine(t *testing.T) {
	var buf bytes.Buffer
	sink := diag.NewWriterSink(&buf, diag.ColorNone)
	sink.Emit(diag.Diagnostic{Source: "x.yaml", Line: 0, Column: 0, Level: diag.LevelError, Module: "parser", Message: "boom"})
	require.Equal(t, "x.yaml:1:1: error: parser: boom\n", buf.String())
}

func TestWriterSinkColorNoneNeverColorizes(t *testing.T) {
	var buf bytes.Buffer
	sink := diag.NewWriterSink(&buf, diag.ColorNone)
	sink.Emit(diag.Diagnostic{Source: "x.yaml", Level: diag.LevelWarn, Module: "m", Message: "msg"})
	require.NotContains(t, buf.String(), "\x1b[")
}

func TestWriterSinkColorAutoOnNonFileWriterStaysPlain(t *testing.T) {
	var buf bytes.Buffer
	sink := diag.NewWriterSink(&buf, diag.ColorAuto)
	sink.Emit(diag.Diagnostic{Source: "x.yaml", Level: diag.LevelInfo, Module: "m", Message: "msg"})
	require.Contains(t, buf.String(), "x.yaml:1:1: info: m: msg")
}

func TestBufferSinkCollectsAndCaps(t *testing.T) {
	b := diag.NewBufferSink(2)
	b.Emit(diag.Diagnostic{Message: "one"})
	b.Emit(diag.Diagnostic{Message: "two"})
	b.Emit(diag.Diagnostic{Message: "three"})

	got := b.Diagnostics()
	require.Len(t, got, 2)
	require.Equal(t, "two", got[0].Message)
	require.Equal(t, "three", got[1].Message)
}

func TestBufferSinkUnboundedWhenCapZero(t *testing.T) {
	b := diag.NewBufferSink(0)
	for i := 0; i < 10; i++ {
		b.Emit(diag.Diagnostic{Message: "x"})
	}
	require.Len(t, b.Diagnostics(), 10)
}

func TestBufferSinkDiagnosticsReturnsSnapshot(t *testing.T) {
	b := diag.NewBufferSink(0)
	b.Emit(diag.Diagnostic{Message: "first"})
	snap := b.Diagnostics()
	b.Emit(diag.Diagnostic{Message: "second"})
	require.Len(t, snap, 1, "a previously-taken snapshot must not observe later Emits")
}

func TestLogSinkDispatchesByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := gokitlog.NewLogfmtLogger(&buf)
	sink := diag.NewLogSink(logger)

	sink.Emit(diag.Diagnostic{Source: "x.yaml", Level: diag.LevelError, Module: "m", Message: "oops", Category: diag.CategorySemantic})
	out := buf.String()
	require.Contains(t, out, "level=error")
	require.Contains(t, out, "msg=oops")
	require.Contains(t, out, "module=m")
	require.Contains(t, out, "category=semantic")
}

func TestLogSinkDefaultsToStderrLogger(t *testing.T) {
	sink := diag.NewLogSink(nil)
	require.NotNil(t, sink.Logger)
}

func TestSetDefaultAndEmit(t *testing.T) {
	var buf bytes.Buffer
	original := diag.Default()
	defer diag.SetDefault(original)

	diag.SetDefault(diag.NewWriterSink(&buf, diag.ColorNone))
	diag.Emit(diag.Diagnostic{Source: "x.yaml", Level: diag.LevelError, Module: "m", Message: "boom"})

	require.True(t, strings.Contains(buf.String(), "boom"))
}
