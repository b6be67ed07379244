package snapshot

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
	<title>Acme Docs</title>
	<meta name="description" content="Documentation for Acme.">
	<meta name="keywords" content="acme, docs, guide">
	<style>body { color: red; }</style>
	<script>console.log("noise");</script>
</head>
<body>
	<h1>Getting Started</h1>
	<p>Acme is a tool for X.</p>
	<h2>Installation</h2>
	<p>Run the installer.</p>
	<noscript>Enable JavaScript.</noscript>
</body>
</html>`

func TestParseHTMLExtractsFields(t *testing.T) {
	snap, err := ParseHTML(samplePage, "https://docs.acme.dev/guide", 0)
	require.NoError(t, err)

	assert.Equal(t, "https://docs.acme.dev/guide", snap.URL)
	assert.Equal(t, "Acme Docs", snap.Title)
	assert.Equal(t, "Documentation for Acme.", snap.MetaDescription)
	assert.Equal(t, "acme, docs, guide", snap.MetaKeywords)
	assert.Equal(t, []string{"h1: Getting Started", "h2: Installation"}, snap.Headings)
	assert.Contains(t, snap.BodyText, "Acme is a tool for X.")
	assert.Contains(t, snap.BodyText, "Run the installer.")
}

func TestParseHTMLSkipsScriptAndStyle(t *testing.T) {
	snap, err := ParseHTML(samplePage, "https://docs.acme.dev/guide", 0)
	require.NoError(t, err)

	assert.NotContains(t, snap.BodyText, "console.log")
	assert.NotContains(t, snap.BodyText, "color: red")
	assert.NotContains(t, snap.BodyText, "Enable JavaScript")
}

func TestParseHTMLBoundsBodyText(t *testing.T) {
	long := "<html><body><p>" + strings.Repeat("word ", 2000) + "</p></body></html>"
	snap, err := ParseHTML(long, "https://example.com", 0)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(snap.BodyText), DefaultMaxBodyText)
}

func TestParseHTMLCustomBound(t *testing.T) {
	long := "<html><body><p>" + strings.Repeat("word ", 100) + "</p></body></html>"
	snap, err := ParseHTML(long, "https://example.com", 50)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(snap.BodyText), 50)
}

func TestParseHTMLBoundDoesNotSplitUTF8(t *testing.T) {
	long := "<html><body><p>" + strings.Repeat("héllo wörld ", 100) + "</p></body></html>"
	snap, err := ParseHTML(long, "https://example.com", 41)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(snap.BodyText), 41)
	assert.True(t, utf8.ValidString(snap.BodyText), "body text must remain valid UTF-8")
}

func TestParseHTMLHeadingsInDocumentOrder(t *testing.T) {
	page := `<html><body><h3>third level</h3><h1>top level</h1><h2>second level</h2></body></html>`
	snap, err := ParseHTML(page, "https://example.com", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"h3: third level", "h1: top level", "h2: second level"}, snap.Headings)
}

func TestParseHTMLWhitespaceNormalization(t *testing.T) {
	page := "<html><body><p>spaced\n\n\tout    text</p></body></html>"
	snap, err := ParseHTML(page, "https://example.com", 0)
	require.NoError(t, err)

	assert.Equal(t, "spaced out text", snap.BodyText)
}

func TestParseHTMLEmptyDocument(t *testing.T) {
	snap, err := ParseHTML("", "https://example.com", 0)
	require.NoError(t, err)

	assert.Empty(t, snap.Title)
	assert.Empty(t, snap.Headings)
	assert.Empty(t, snap.BodyText)
}

func TestParseHTMLMissingMetaTags(t *testing.T) {
	page := `<html><head><title>Bare</title></head><body><p>text</p></body></html>`
	snap, err := ParseHTML(page, "https://example.com", 0)
	require.NoError(t, err)

	assert.Empty(t, snap.MetaDescription)
	assert.Empty(t, snap.MetaKeywords)
}
