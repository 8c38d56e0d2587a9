package query_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohporter/yamlkit/internal/document"
	"github.com/ohporter/yamlkit/internal/input"
	"github.com/ohporter/yamlkit/internal/parser"
	"github.com/ohporter/yamlkit/internal/query"
	"github.com/ohporter/yamlkit/internal/scanner"
	"github.com/ohporter/yamlkit/internal/token"
)

func build(t *testing.T, src string) *document.Doc {
	t.Helper()
	b := document.NewBuilder(parser.New(scanner.New(input.NewFromString(src))))
	doc, err := b.Build()
	require.NoError(t, err)
	document.SetParents(doc.Root)
	return doc
}

func TestScanMultipleConversions(t *testing.T) {
	doc := build(t, "invoice: 1042\ndate: 2001-01-23\nbalance: 19.95\nactive: true\n")

	var invoice int64
	var date string
	var balance float64
	var active bool
	err := query.Scan(doc.Root, token.Decode, "/invoice %d /date %s /balance %f /active %t",
		&invoice, &date, &balance, &active)
	require.NoError(t, err)
	require.EqualValues(t, 1042, invoice)
	require.Equal(t, "2001-01-23", date)
	require.InDelta(t, 19.95, balance, 0.0001)
	require.True(t, active)
}

func TestScanMismatchedDestinationCount(t *testing.T) {
	doc := build(t, "a: 1\n")
	var a int64
	err := query.Scan(doc.Root, token.Decode, "/a %d /b %d", &a)
	require.Error(t, err)
}

func TestScanWrongDestinationType(t *testing.T) {
	doc := build(t, "a: 1\n")
	var wrong string
	err := query.Scan(doc.Root, token.Decode, "/a %d", &wrong)
	require.Error(t, err)
}

func TestScanUnknownVerb(t *testing.T) {
	doc := build(t, "a: 1\n")
	var dest string
	err := query.Scan(doc.Root, token.Decode, "/a %q", &dest)
	require.Error(t, err)
}

func TestGetters(t *testing.T) {
	doc := build(t, "name: gopher\ncount: 7\nratio: 1.5\nok: false\n")

	s, err := query.GetString(doc.Root, token.Decode, "/name")
	require.NoError(t, err)
	require.Equal(t, "gopher", s)

	i, err := query.GetInt(doc.Root, token.Decode, "/count")
	require.NoError(t, err)
	require.EqualValues(t, 7, i)

	f, err := query.GetFloat(doc.Root, token.Decode, "/ratio")
	require.NoError(t, err)
	require.InDelta(t, 1.5, f, 0.0001)

	b, err := query.GetBool(doc.Root, token.Decode, "/ok")
	require.NoError(t, err)
	require.False(t, b)
}

func TestSetString(t *testing.T) {
	doc := build(t, "name: gopher\n")
	require.NoError(t, query.SetString(doc.Root, token.Decode, "/name", "updated"))

	s, err := query.GetString(doc.Root, token.Decode, "/name")
	require.NoError(t, err)
	require.Equal(t, "updated", s)
}

func TestSetStringOnNonScalarErrors(t *testing.T) {
	doc := build(t, "a:\n  - 1\n")
	err := query.SetString(doc.Root, token.Decode, "/a", "x")
	require.Error(t, err)
}
