package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohporter/yamlkit/internal/input"
	"github.com/ohporter/yamlkit/internal/parser"
	"github.com/ohporter/yamlkit/internal/scanner"
	"github.com/ohporter/yamlkit/internal/token"
)

func parseAll(t *testing.T, src string) []*parser.Event {
	t.Helper()
	p := parser.New(scanner.New(input.NewFromString(src)))
	var out []*parser.Event
	for {
		ev, err := p.Next()
		require.NoError(t, err)
		if ev == nil {
			break
		}
		out = append(out, ev)
		if ev.Type == parser.StreamEndEvent {
			break
		}
	}
	return out
}

func eventTypes(evs []*parser.Event) []parser.EventType {
	out := make([]parser.EventType, len(evs))
	for i, ev := range evs {
		out[i] = ev.Type
	}
	return out
}

func TestParseScalarDocument(t *testing.T) {
	evs := parseAll(t, "hello\n")
	require.Equal(t, []parser.EventType{
		parser.StreamStartEvent,
		parser.DocumentStartEvent,
		parser.ScalarEvent,
		parser.DocumentEndEvent,
		parser.StreamEndEvent,
	}, eventTypes(evs))
	require.Equal(t, "hello", evs[2].Scalar.Text(token.Decode))
}

func TestParseBlockMapping(t *testing.T) {
	evs := parseAll(t, "a: 1\nb: 2\n")
	require.Equal(t, []parser.EventType{
		parser.StreamStartEvent,
		parser.DocumentStartEvent,
		parser.MappingStartEvent,
		parser.ScalarEvent, parser.ScalarEvent,
		parser.ScalarEvent, parser.ScalarEvent,
		parser.MappingEndEvent,
		parser.DocumentEndEvent,
		parser.StreamEndEvent,
	}, eventTypes(evs))
}

func TestParseBlockSequence(t *testing.T) {
	evs := parseAll(t, "- 1\n- 2\n- 3\n")
	require.Equal(t, []parser.EventType{
		parser.StreamStartEvent,
		parser.DocumentStartEvent,
		parser.SequenceStartEvent,
		parser.ScalarEvent, parser.ScalarEvent, parser.ScalarEvent,
		parser.SequenceEndEvent,
		parser.DocumentEndEvent,
		parser.StreamEndEvent,
	}, eventTypes(evs))
}

func TestParseNestedFlowCollections(t *testing.T) {
	evs := parseAll(t, "{a: [1, 2], b: 3}\n")
	got := eventTypes(evs)
	require.Equal(t, parser.MappingStartEvent, got[2])
	require.Contains(t, got, parser.SequenceStartEvent)
	require.Contains(t, got, parser.SequenceEndEvent)
	require.Equal(t, parser.MappingEndEvent, got[len(got)-3])
}

func TestParseAnchorAndAlias(t *testing.T) {
	evs := parseAll(t, "- &a foo\n- *a\n")
	var anchored, aliased *parser.Event
	for _, ev := range evs {
		if ev.Type == parser.ScalarEvent && ev.Anchor != nil {
			anchored = ev
		}
		if ev.Type == parser.AliasEvent {
			aliased = ev
		}
	}
	require.NotNil(t, anchored)
	require.NotNil(t, aliased)
	require.Equal(t, "a", anchored.Anchor.Text(token.Decode))
	require.Equal(t, "a", aliased.Scalar.Text(token.Decode))
}

func TestParseTagOnScalar(t *testing.T) {
	evs := parseAll(t, "!!str 42\n")
	var scalar *parser.Event
	for _, ev := range evs {
		if ev.Type == parser.ScalarEvent {
			scalar = ev
		}
	}
	require.NotNil(t, scalar)
	require.NotNil(t, scalar.Tag)
	require.Equal(t, "!!", scalar.Tag.Text(token.Decode))
}

func TestParseVersionDirectiveSetsState(t *testing.T) {
	evs := parseAll(t, "%YAML 1.2\n---\nfoo\n")
	var docStart *parser.Event
	for _, ev := range evs {
		if ev.Type == parser.DocumentStartEvent {
			docStart = ev
		}
	}
	require.NotNil(t, docStart)
	require.NotNil(t, docStart.State)
	require.True(t, docStart.State.HasVersion)
	require.EqualValues(t, 1, docStart.State.Version.Major)
	require.EqualValues(t, 2, docStart.State.Version.Minor)
}

func TestParseMultipleDocuments(t *testing.T) {
	evs := parseAll(t, "---\nfirst\n---\nsecond\n")
	count := 0
	for _, ev := range evs {
		if ev.Type == parser.DocumentStartEvent {
			count++
		}
	}
	require.Equal(t, 2, count)
}

func TestParseEmptyStreamProducesNoDocuments(t *testing.T) {
	evs := parseAll(t, "")
	require.Equal(t, []parser.EventType{parser.StreamStartEvent, parser.StreamEndEvent}, eventTypes(evs))
}

func TestParseRedeclaringBuiltinTagHandleOverridesSilently(t *testing.T) {
	evs := parseAll(t, "%TAG !! tag:example.com,2000:app/\n--- !!foo bar\n")

	var docStart, scalar *parser.Event
	for _, ev := range evs {
		switch ev.Type {
		case parser.DocumentStartEvent:
			docStart = ev
		case parser.ScalarEvent:
			scalar = ev
		}
	}
	require.NotNil(t, docStart)
	require.NotNil(t, docStart.State)

	prefix, ok := docStart.State.LookupTagDirective("!!")
	require.True(t, ok)
	require.Equal(t, "tag:example.com,2000:app/", prefix, "an explicit %TAG redeclaration of a built-in handle must win, not error")

	require.NotNil(t, scalar)
	require.NotNil(t, scalar.Tag)
	resolved, err := docStart.State.ResolveTag(scalar.Tag.Primary.RawString(), scalar.Tag.Suffix.RawString())
	require.NoError(t, err)
	require.Equal(t, "tag:example.com,2000:app/foo", resolved)
}

func TestParseRedeclaringNonBuiltinHandleStillErrors(t *testing.T) {
	p := parser.New(scanner.New(input.NewFromString("%TAG !e! tag:example.com,2000:a/\n%TAG !e! tag:example.com,2000:b/\n--- foo\n")))
	var lastErr error
	for {
		ev, err := p.Next()
		if err != nil {
			lastErr = err
			break
		}
		if ev == nil {
			break
		}
	}
	require.Error(t, lastErr, "two explicit %TAG directives for the same handle must still be a duplicate-directive error")
}
