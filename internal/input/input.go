// Copyright 2025 The yamlkit Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Package input owns the backing bytes for a parse: a borrowed or owned
// in-memory slice, a memory-mapped file, or a streamed append-only
// buffer. It gives callers a stable byte view and an offset <-> (line,
// column) mapping, built lazily so the common case (no error reporting)
// never pays for it.
package input

import (
	"io"
	"os"
	"sort"

	"github.com/edsrzf/mmap-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Kind identifies how an Input's bytes are owned.
type Kind int

const (
	// Borrowed wraps a caller-owned slice; the caller must keep it alive
	// and immutable for the Input's lifetime.
	Borrowed Kind = iota
	// Owned wraps a slice the Input itself allocated (e.g. read from a
	// path with mmap disabled).
	Owned
	// Mapped wraps a memory-mapped file.
	Mapped
	// Streamed wraps an append-only buffer fed by chunks as they arrive.
	Streamed
)

// Input is an immutable byte region with origin metadata. Once any Atom
// has been produced against a byte range, that range's bytes never
// change for the Input's lifetime -- Streamed inputs only ever append.
type Input struct {
	kind   Kind
	source string // path, "<string>", or a generated stream id
	data   []byte

	mapped mmap.MMap
	file   *os.File

	reader   io.Reader
	closed   bool
	needMore bool // set by the scanner when Streamed ran out of committed bytes

	breaks    []int // byte offsets of every line break start, built lazily
	breaksLen int    // length of data covered by breaks, for incremental Streamed rebuilds
}

// Config controls how path-based Input opens its file.
type Config struct {
	// DisableMmap forces buffered reads even for path-based opens.
	DisableMmap bool
}

// NewFromBytes wraps a caller-owned slice without copying it.
func NewFromBytes(b []byte) *Input {
	return &Input{kind: Borrowed, source: "<bytes>", data: b}
}

// NewFromString wraps a copy of a string's bytes ([]byte(s) copies).
func NewFromString(s string) *Input {
	return &Input{kind: Borrowed, source: "<string>", data: []byte(s)}
}

// NewOwned copies b into a new Input-owned buffer.
func NewOwned(b []byte) *Input {
	cp := make([]byte, len(b))
	copy(cp, b)
	return &Input{kind: Owned, source: "<bytes>", data: cp}
}

// Open reads path into an Input, memory-mapping it unless cfg disables
// mmap or the file is empty (mmap of a zero-length file is invalid on
// most platforms).
func Open(path string, cfg Config) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open yaml input")
	}
	if cfg.DisableMmap {
		defer f.Close()
		b, err := io.ReadAll(f)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
		return &Input{kind: Owned, source: path, data: b}, nil
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if info.Size() == 0 {
		f.Close()
		return &Input{kind: Owned, source: path, data: nil}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		b, rerr := io.ReadAll(f)
		f.Close()
		if rerr != nil {
			return nil, errors.Wrapf(err, "mmap %s (fallback read also failed: %v)", path, rerr)
		}
		return &Input{kind: Owned, source: path, data: b}, nil
	}
	return &Input{kind: Mapped, source: path, data: []byte(m), mapped: m, file: f}, nil
}

// NewStream creates an Input fed incrementally via Append. Its source is
// tagged with a random session id for diagnostics, since a stream has no
// natural name.
func NewStream(r io.Reader) *Input {
	return &Input{kind: Streamed, source: "<stream:" + uuid.NewString() + ">", reader: r}
}

// Append commits more bytes to a Streamed Input. It is the caller's
// responsibility to call this as chunks arrive; the scanner never blocks
// waiting for it.
func (in *Input) Append(chunk []byte) {
	in.data = append(in.data, chunk...)
	in.needMore = false
}

// MarkEOF records that no further Append calls will come.
func (in *Input) MarkEOF() { in.closed = true }

// EOF reports whether the stream has been marked closed.
func (in *Input) EOF() bool { return in.closed }

// NeedMore reports whether the last read attempt ran past the committed
// buffer of a Streamed Input; the scanner sets this instead of blocking.
func (in *Input) NeedMore() bool { return in.kind == Streamed && in.needMore && !in.closed }

// RequestMore is called by the scanner when it wants bytes beyond the
// committed buffer of a Streamed Input.
func (in *Input) RequestMore() { in.needMore = true }

// Source returns the Input's origin string (path, "<string>", or a
// stream id), used as the "source" field of diagnostic lines.
func (in *Input) Source() string { return in.source }

// Kind returns the Input's storage variant.
func (in *Input) Kind() Kind { return in.kind }

// Bytes returns the full committed byte range. Callers must not retain
// slices of it past the Input's Close.
func (in *Input) Bytes() []byte { return in.data }

// Len returns the number of committed bytes.
func (in *Input) Len() int { return len(in.data) }

// Slice returns data[start:end]. It panics on an out-of-range request,
// matching the contract that callers only ever slice ranges the scanner
// has already committed.
func (in *Input) Slice(start, end int) []byte { return in.data[start:end] }

// Close releases any mapped or open file resources. It is a no-op for
// Borrowed, Owned and Streamed inputs.
func (in *Input) Close() error {
	if in.mapped != nil {
		err := in.mapped.Unmap()
		if in.file != nil {
			if cerr := in.file.Close(); err == nil {
				err = cerr
			}
		}
		in.mapped = nil
		in.file = nil
		return err
	}
	if in.file != nil {
		return in.file.Close()
	}
	return nil
}

// ensureBreaks extends the line-break table to cover the currently
// committed data.
func (in *Input) ensureBreaks() {
	if in.breaksLen >= len(in.data) {
		return
	}
	start := in.breaksLen
	data := in.data
	i := start
	for i < len(data) {
		switch data[i] {
		case '\n':
			in.breaks = append(in.breaks, i+1)
			i++
		case '\r':
			if i+1 < len(data) && data[i+1] == '\n' {
				in.breaks = append(in.breaks, i+2)
				i += 2
			} else {
				in.breaks = append(in.breaks, i+1)
				i++
			}
		default:
			i++
		}
	}
	in.breaksLen = len(data)
}

// Position maps a byte offset to a 1-based line and 0-based column with
// a binary search over the line-break table, O(log n) per call;
// ensureBreaks only scans bytes committed since the previous call.
func (in *Input) Position(offset int) (line, column int) {
	in.ensureBreaks()
	// breaks[i] is the offset of the first byte of line i+2.
	idx := sort.Search(len(in.breaks), func(i int) bool { return in.breaks[i] > offset })
	line = idx + 1
	lineStart := 0
	if idx > 0 {
		lineStart = in.breaks[idx-1]
	}
	return line, offset - lineStart
}
