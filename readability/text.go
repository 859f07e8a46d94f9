package readability

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// This file implements the text utilities: innerText, countByte and
// linkDensity, plus normalization that handles NBSP/ZWSP and length
// helpers that
// count code points rather than bytes when comparing against
// thresholds.

const (
	nbspRune = ' ' // non-breaking space, UTF-8 C2 A0
	zwspRune = '​' // zero-width space, UTF-8 E2 80 8B
)

// normalizeWhitespace collapses runs of ASCII whitespace plus NBSP into
// a single space and drops ZWSP entirely. It does not trim the ends —
// callers that need trimmed length should TrimSpace the result.
func normalizeWhitespace(s string) string {
	if !strings.ContainsAny(s, " \t\r\n\f\v") &&
		!strings.ContainsRune(s, nbspRune) &&
		!strings.ContainsRune(s, zwspRune) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		switch {
		case r == zwspRune:
			continue
		case r == ' ' || r == nbspRune || isASCIISpace(r):
			if !inRun {
				b.WriteByte(' ')
				inRun = true
			}
		default:
			inRun = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isASCIISpace(r rune) bool {
	switch r {
	case '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// normalizeAndTrim applies normalizeWhitespace then trims leading and
// trailing spaces.
func normalizeAndTrim(s string) string {
	return strings.TrimSpace(normalizeWhitespace(s))
}

// innerText returns a node's text content, optionally whitespace
// normalized, always leading/trailing trimmed. Callers pass
// normalizeSpaces true everywhere except the empty-paragraph check in
// prepareArticle.
func innerText(n *html.Node, normalizeSpaces bool) string {
	text := strings.TrimSpace(textContent(n))
	if normalizeSpaces {
		text = normalizeWhitespace(text)
	}
	return text
}

// textContentLength is the length (in code points) of n's concatenated
// text content, trimmed but not whitespace-collapsed.
func textContentLength(n *html.Node) int {
	return utf8.RuneCountInString(strings.TrimSpace(textContent(n)))
}

// textNormalizedContentLength is textContentLength after full
// whitespace normalization — used to compare candidate article sizes.
func textNormalizedContentLength(n *html.Node) int {
	return utf8.RuneCountInString(normalizeAndTrim(textContent(n)))
}

// unescapeEntities recognizes &amp; &quot; &apos; &lt; &gt; and decimal
// numeric entities (&#NN;). Hex numeric entities are a known TODO,
// carried over from the reference heuristic.
func unescapeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}

	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&quot;", "\"",
		"&apos;", "'",
		"&lt;", "<",
		"&gt;", ">",
	)
	s = replacer.Replace(s)

	if !strings.Contains(s, "&#") {
		return s
	}

	return rxNumericEntity.ReplaceAllStringFunc(s, func(match string) string {
		sub := rxNumericEntity.FindStringSubmatch(match)
		n, err := strconv.Atoi(sub[1])
		if err != nil || n < 0 || n > utf8.MaxRune {
			return match
		}
		return string(rune(n))
	})
}

// wordCount splits on whitespace. When separatorsAsSpaces is true, it
// additionally splits on any of | - \ / > ».
func wordCount(s string, separatorsAsSpaces bool) int {
	if separatorsAsSpaces {
		s = rxSeparatorsAsSpaces.ReplaceAllString(s, " ")
	}
	return len(strings.Fields(s))
}

// countByte returns the number of occurrences of sep in s.
func countByte(s string, sep byte) int {
	return strings.Count(s, string(sep))
}

// linkDensity is the fraction of a node's normalized text that lies
// inside descendant <a> elements, zero when the node has no text.
func linkDensity(n *html.Node) float64 {
	textLength := textNormalizedContentLength(n)
	if textLength == 0 {
		return 0
	}

	linkLength := 0
	for _, a := range getElementsByTagName(n, "a") {
		linkLength += textNormalizedContentLength(a)
	}

	return float64(linkLength) / float64(textLength)
}
