package readability

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeWhitespace(t *testing.T) {
	cases := map[string]string{
		"a  b":          "a b",
		"a\t\tb":        "a b",
		"a b":      "a b",
		"a​b":      "ab",
		"  leading  ":   " leading ",
		"no-change-abc": "no-change-abc",
	}
	for in, want := range cases {
		require.Equal(t, want, normalizeWhitespace(in), "input %q", in)
	}
}

func TestNormalizeWhitespaceIdempotent(t *testing.T) {
	s := "  a   b\t\nc  ​d  "
	once := normalizeWhitespace(s)
	twice := normalizeWhitespace(once)
	require.Equal(t, once, twice)
}

func TestUnescapeEntities(t *testing.T) {
	require.Equal(t, `<a & "b"> 'c'`, unescapeEntities("&lt;a &amp; &quot;b&quot;&gt; &apos;c&apos;"))
	require.Equal(t, "A", unescapeEntities("&#65;"))
	require.Equal(t, "no entities here", unescapeEntities("no entities here"))
	// Hex numeric entities are a known, deliberately unhandled case.
	require.Equal(t, "&#x41;", unescapeEntities("&#x41;"))
}

func TestWordCount(t *testing.T) {
	require.Equal(t, 3, wordCount("one two three", false))
	require.Equal(t, 1, wordCount("one|two/three", false))
	require.Equal(t, 3, wordCount("one|two/three", true))
	require.Equal(t, 2, wordCount("a » b", true))
}

func TestLinkDensityNoLinks(t *testing.T) {
	doc := mustParse(t, "<html><body><p>plain text with no links at all here</p></body></html>")
	p := firstElementChild(bodyElement(doc))
	require.Equal(t, 0.0, linkDensity(p))
}

func TestLinkDensityAllLink(t *testing.T) {
	doc := mustParse(t, `<html><body><p><a href="#">`+strings.Repeat("x", 40)+`</a></p></body></html>`)
	p := firstElementChild(bodyElement(doc))
	require.InDelta(t, 1.0, linkDensity(p), 0.001)
}

func TestTextContentLengthTrimsButDoesNotCollapse(t *testing.T) {
	doc := mustParse(t, "<html><body><p>  a   b  </p></body></html>")
	p := firstElementChild(bodyElement(doc))
	// textContentLength trims ends only, so internal runs of spaces survive.
	require.Equal(t, len("a   b"), textContentLength(p))
	require.Equal(t, len("a b"), textNormalizedContentLength(p))
}
