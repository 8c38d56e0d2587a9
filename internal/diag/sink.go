// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0

package diag

import (
	"os"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Sink receives diagnostics as a parser or emitter produces them.
// Emit must not block indefinitely; a sink that buffers is expected
// to do so without unbounded growth under a caller's control (see
// BufferSink.Cap).
type Sink interface {
	Emit(Diagnostic)
}

// LogSink forwards each Diagnostic to a go-kit logger, dispatched to
// level.Error/Warn/Info/Debug by Diagnostic.Level the way grafana-mimir's
// command-line tools log leveled events: "msg", the message text, plus
// the structured source/line/column/module fields alongside it.
type LogSink struct {
	Logger log.Logger
}

// NewLogSink wraps logger, defaulting to a logfmt logger over stderr
// when logger is nil.
func NewLogSink(logger log.Logger) *LogSink {
	if logger == nil {
		logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	}
	return &LogSink{Logger: logger}
}

func (s *LogSink) Emit(d Diagnostic) {
	kvs := []interface{}{
		"msg", d.Message,
		"source", d.Source,
		"line", d.Line + 1,
		"column", d.Column + 1,
		"module", d.Module,
		"category", d.Category.String(),
	}
	switch d.Level {
	case LevelError:
		level.Error(s.Logger).Log(kvs...)
	case LevelWarn:
		level.Warn(s.Logger).Log(kvs...)
	case LevelInfo:
		level.Info(s.Logger).Log(kvs...)
	default:
		level.Debug(s.Logger).Log(kvs...)
	}
}

// WriterSink writes Diagnostic.Format() lines directly to W, one per
// Emit call, optionally colorised per a ColorMode. This is the
// "<level>: <module>: <message>" human-readable rendering; LogSink
// is the structured alternative for callers already on go-kit/log.
type WriterSink struct {
	W     Writer
	Color ColorMode
}

// Writer is the subset of io.Writer a WriterSink needs, named locally
// so callers can pass *os.File or any io.Writer without importing io
// just for this signature.
type Writer interface {
	Write(p []byte) (n int, err error)
}

// NewWriterSink builds a WriterSink over w, resolving mode against w
// the way signadot-tony-format's encoder resolves its own color-auto
// default: an *os.File connected to a terminal gets color, anything
// else does not.
func NewWriterSink(w Writer, mode ColorMode) *WriterSink {
	return &WriterSink{W: w, Color: mode}
}

func (s *WriterSink) Emit(d Diagnostic) {
	line := d.Format()
	if s.colorEnabled() {
		line = colorizeLine(d)
	}
	s.W.Write([]byte(line))
	s.W.Write([]byte{'\n'})
}

func (s *WriterSink) colorEnabled() bool {
	return resolveColor(s.Color, s.W)
}

// BufferSink implements the collect-diagnostics flag: diagnostics
// accumulate in memory instead of (or in addition to) going to a
// process channel, for later retrieval from the owning document.
type BufferSink struct {
	mu   sync.Mutex
	Cap  int
	buf  []Diagnostic
}

// NewBufferSink builds a BufferSink that keeps at most cap entries,
// dropping the oldest once full; cap <= 0 means unbounded.
func NewBufferSink(cap int) *BufferSink {
	return &BufferSink{Cap: cap}
}

func (b *BufferSink) Emit(d Diagnostic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, d)
	if b.Cap > 0 && len(b.buf) > b.Cap {
		b.buf = b.buf[len(b.buf)-b.Cap:]
	}
}

// Diagnostics returns a snapshot of everything collected so far.
func (b *BufferSink) Diagnostics() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Diagnostic, len(b.buf))
	copy(out, b.buf)
	return out
}

var (
	defaultMu   sync.Mutex
	defaultSink Sink = NewWriterSink(os.Stderr, ColorAuto)
)

// SetDefault installs sink as the process-wide default channel used
// when a parser or emitter is configured with neither a callback nor
// a collection buffer.
func SetDefault(sink Sink) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultSink = sink
}

// Default returns the current process-wide sink.
func Default() Sink {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultSink
}

// Emit reports d on the process-wide default sink.
func Emit(d Diagnostic) {
	Default().Emit(d)
}
