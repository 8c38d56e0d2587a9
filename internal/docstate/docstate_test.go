package docstate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohporter/yamlkit/internal/docstate"
)

func TestNewSeedsDefaults(t *testing.T) {
	s := docstate.New()
	prefix, ok := s.LookupTagDirective("!")
	require.True(t, ok)
	require.Equal(t, "!", prefix)

	prefix, ok = s.LookupTagDirective("!!")
	require.True(t, ok)
	require.Equal(t, "tag:yaml.org,2002:", prefix)

	_, ok = s.LookupTagDirective("!e!")
	require.False(t, ok)
}

func TestNewEmptyHasNoDirectivesUntilApplyDefaults(t *testing.T) {
	s := docstate.NewEmpty()
	_, ok := s.LookupTagDirective("!")
	require.False(t, ok)
	_, ok = s.LookupTagDirective("!!")
	require.False(t, ok)

	s.ApplyDefaults()
	prefix, ok := s.LookupTagDirective("!")
	require.True(t, ok)
	require.Equal(t, "!", prefix)
	prefix, ok = s.LookupTagDirective("!!")
	require.True(t, ok)
	require.Equal(t, "tag:yaml.org,2002:", prefix)
}

func TestApplyDefaultsYieldsToExplicitRedeclaration(t *testing.T) {
	s := docstate.NewEmpty()
	require.NoError(t, s.AppendTagDirective(docstate.TagDirective{Handle: "!!", Prefix: "tag:example.com,2000:app/"}, false))

	s.ApplyDefaults()

	prefix, ok := s.LookupTagDirective("!!")
	require.True(t, ok)
	require.Equal(t, "tag:example.com,2000:app/", prefix, "an explicit redeclaration of a built-in handle must survive ApplyDefaults silently")

	prefix, ok = s.LookupTagDirective("!")
	require.True(t, ok)
	require.Equal(t, "!", prefix, "the other built-in default is still seeded")
}

func TestSetVersion(t *testing.T) {
	s := docstate.New()
	require.NoError(t, s.SetVersion(1, 2))
	require.True(t, s.HasVersion)
	require.Equal(t, "1.2", s.Version.String())

	require.Error(t, s.SetVersion(1, 1), "a second %YAML directive must error")
}

func TestSetVersionRejectsNonV1(t *testing.T) {
	s := docstate.New()
	require.Error(t, s.SetVersion(2, 0))
}

func TestAppendTagDirective(t *testing.T) {
	s := docstate.New()
	require.NoError(t, s.AppendTagDirective(docstate.TagDirective{Handle: "!e!", Prefix: "tag:example.com,2000:"}, false))

	prefix, ok := s.LookupTagDirective("!e!")
	require.True(t, ok)
	require.Equal(t, "tag:example.com,2000:", prefix)

	err := s.AppendTagDirective(docstate.TagDirective{Handle: "!e!", Prefix: "other:"}, false)
	require.Error(t, err)

	require.NoError(t, s.AppendTagDirective(docstate.TagDirective{Handle: "!e!", Prefix: "other:"}, true))
}

func TestRemoveTagDirective(t *testing.T) {
	s := docstate.New()
	require.NoError(t, s.AppendTagDirective(docstate.TagDirective{Handle: "!e!", Prefix: "tag:example.com,2000:"}, false))

	require.True(t, s.RemoveTagDirective("!e!"))
	_, ok := s.LookupTagDirective("!e!")
	require.False(t, ok)

	require.False(t, s.RemoveTagDirective("!e!"))
}

func TestRemoveTagDirectiveCopiesSharedState(t *testing.T) {
	s := docstate.New()
	require.NoError(t, s.AppendTagDirective(docstate.TagDirective{Handle: "!e!", Prefix: "tag:example.com,2000:"}, false))
	s.MarkShared()

	before := s.Directives()
	require.True(t, s.RemoveTagDirective("!e!"))
	require.Len(t, before, 3, "the previously-returned slice must be unaffected by the copy-on-write removal")
	require.Equal(t, "!e!", before[2].Handle, "the old slice's backing array must keep its original content")
}

func TestResolveTag(t *testing.T) {
	s := docstate.New()
	tag, err := s.ResolveTag("!!", "str")
	require.NoError(t, err)
	require.Equal(t, "tag:yaml.org,2002:str", tag)

	tag, err = s.ResolveTag("", "tag:custom,2000:foo")
	require.NoError(t, err)
	require.Equal(t, "tag:custom,2000:foo", tag)

	_, err = s.ResolveTag("!q!", "foo")
	require.Error(t, err)
}

func TestClone(t *testing.T) {
	s := docstate.New()
	require.NoError(t, s.SetVersion(1, 1))
	c := s.Clone()

	require.NoError(t, c.AppendTagDirective(docstate.TagDirective{Handle: "!e!", Prefix: "tag:example.com,2000:"}, false))
	_, ok := s.LookupTagDirective("!e!")
	require.False(t, ok, "mutating the clone must not affect the original")
	require.True(t, c.HasVersion)
	require.Equal(t, "1.1", c.Version.String())
}
