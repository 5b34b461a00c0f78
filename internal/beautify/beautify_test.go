package beautify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formatPreserving(t *testing.T, src string) string {
	t.Helper()
	out, err := FormatPreservingStyles(src, DefaultOptions())
	require.NoError(t, err)
	return out
}

func TestFormatPreservingStylesKeepsMjStyle(t *testing.T) {
	src := `<mjml><mj-head><mj-style>.a > .b { color: red; }</mj-style></mj-head></mjml>`

	out := formatPreserving(t, src)

	assert.Equal(t, strings.Join([]string{
		"<mjml>",
		"  <mj-head>",
		"    <mj-style>",
		".a > .b { color: red; }",
		"    </mj-style>",
		"  </mj-head>",
		"</mjml>",
	}, "\n"), out)
	assert.NotContains(t, out, "<style")
}

func TestFormatPreservingStylesKeepsAttributes(t *testing.T) {
	src := `<mjml><mj-head><mj-style inline="inline">.btn { border: 0; }</mj-style></mj-head></mjml>`

	out := formatPreserving(t, src)

	assert.Contains(t, out, `<mj-style inline="inline">`)
	assert.Contains(t, out, ".btn { border: 0; }")
	assert.Contains(t, out, "</mj-style>")
}

func TestFormatPreservingStylesMultipleBlocks(t *testing.T) {
	src := `<mjml><mj-head>` +
		`<mj-style>.first { a: 1; }</mj-style>` +
		`<mj-style>.second { b: 2; }</mj-style>` +
		`</mj-head></mjml>`

	out := formatPreserving(t, src)

	assert.Equal(t, 2, strings.Count(out, "<mj-style>"))
	assert.Equal(t, 2, strings.Count(out, "</mj-style>"))
	assert.Contains(t, out, ".first { a: 1; }")
	assert.Contains(t, out, ".second { b: 2; }")
	assert.NotContains(t, out, "<style")
}

func TestFormatPreservingStylesNormalizesTagCase(t *testing.T) {
	src := `<mjml><mj-head><MJ-STYLE>.a { x: 1; }</MJ-STYLE></mj-head></mjml>`

	out := formatPreserving(t, src)

	assert.Contains(t, out, "<mj-style>")
	assert.Contains(t, out, "</mj-style>")
}

func TestFormatPreservingStylesNoRenameWithoutMjStyle(t *testing.T) {
	// Compiled pipeline HTML has real style blocks and no mj-style; the
	// restore pass must not run and must not invent mj-style tags.
	src := `<html><head><style>.a { x: 1; }</style></head><body><p>x</p></body></html>`

	out := formatPreserving(t, src)

	assert.Contains(t, out, "<style>")
	assert.Contains(t, out, "</style>")
	assert.NotContains(t, out, "mj-style")
}

func TestFormatPreservingStylesRenamesRealStyleWhenMixed(t *testing.T) {
	// Longstanding sharp edge: when a source document carries both
	// kinds, the restore pass cannot tell them apart and real style
	// blocks come back as mj-style.
	src := `<mjml><mj-head>` +
		`<style>.real { a: 1; }</style>` +
		`<mj-style>.custom { b: 2; }</mj-style>` +
		`</mj-head></mjml>`

	out := formatPreserving(t, src)

	assert.Equal(t, 2, strings.Count(out, "<mj-style>"))
	assert.NotContains(t, out, "<style>")
}

func TestFormatPreservingStylesContentNeverRewritten(t *testing.T) {
	css := `@media (max-width: 480px) { .col { width: 100% !important; } }`
	src := `<mjml><mj-head><mj-style>` + css + `</mj-style></mj-head></mjml>`

	out := formatPreserving(t, src)

	assert.Contains(t, out, css)
}

func TestFormatPreservingStylesIdempotent(t *testing.T) {
	src := `<mjml><mj-head><mj-style>.a { c: red; }</mj-style></mj-head>` +
		`<mj-body><mj-text>hello</mj-text></mj-body></mjml>`

	first := formatPreserving(t, src)
	second := formatPreserving(t, first)

	assert.Equal(t, first, second)
}
