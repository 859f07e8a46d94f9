package readability

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderableFalseForShortParagraph(t *testing.T) {
	doc := mustParse(t, "<html><body><p>Just a short paragraph.</p></body></html>")
	require.False(t, Readerable(doc))
}

func TestReaderableTrueForLongParagraph(t *testing.T) {
	text := strings.Repeat("Lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor. ", 8)
	doc := mustParse(t, "<html><body><p>"+text+"</p></body></html>")
	require.True(t, Readerable(doc))
}

// A single paragraph just over the 140-char floor scores sqrt(length-140),
// which alone can stay under the 20-point threshold; Readerable only
// flips true once enough paragraphs accumulate.
func TestReaderableAccumulatesAcrossParagraphs(t *testing.T) {
	text := strings.Repeat("word ", 60) // textContentLength 299

	onePara := mustParse(t, "<html><body><p>"+text+"</p></body></html>")
	require.False(t, Readerable(onePara))

	twoParas := mustParse(t, "<html><body><p>"+text+"</p><p>"+text+"</p></body></html>")
	require.True(t, Readerable(twoParas))
}

func TestReaderableFalseForListItemParagraph(t *testing.T) {
	text := strings.Repeat("Lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor. ", 8)
	doc := mustParse(t, "<html><body><ul><li><p>"+text+"</p></li></ul></body></html>")
	require.False(t, Readerable(doc))
}

func TestReaderableFalseForHiddenParagraph(t *testing.T) {
	text := strings.Repeat("Lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor. ", 8)
	doc := mustParse(t, `<html><body><p style="display: none">`+text+`</p></body></html>`)
	require.False(t, Readerable(doc))
}

func TestReaderableFalseForAriaHiddenParagraph(t *testing.T) {
	text := strings.Repeat("Lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor. ", 8)
	doc := mustParse(t, `<html><body><p aria-hidden="true">`+text+`</p></body></html>`)
	require.False(t, Readerable(doc))
}

func TestReaderableFalseForUnlikelyCandidateClass(t *testing.T) {
	text := strings.Repeat("Lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor. ", 8)
	doc := mustParse(t, `<html><body><p class="comment-list">`+text+`</p></body></html>`)
	require.False(t, Readerable(doc))
}

func TestReaderableTrueForDivWithBr(t *testing.T) {
	text := strings.Repeat("Lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor. ", 8)
	doc := mustParse(t, "<html><body><div>"+text+"<br></div></body></html>")
	require.True(t, Readerable(doc))
}

func TestHasChildBr(t *testing.T) {
	withBr := mustParse(t, "<html><body><div>text<br></div></body></html>")
	div := getElementsByTagName(withBr, "div")[0]
	require.True(t, hasChildBr(div))

	withoutBr := mustParse(t, "<html><body><div>text</div></body></html>")
	div2 := getElementsByTagName(withoutBr, "div")[0]
	require.False(t, hasChildBr(div2))
}

func TestReaderableScoreZeroAtOrBelowFloor(t *testing.T) {
	doc := mustParse(t, "<html><body><p>short</p></body></html>")
	p := getElementsByTagName(doc, "p")[0]
	require.Equal(t, 0.0, readerableScore(p))
}

func TestReaderableScorePositiveAboveFloor(t *testing.T) {
	text := strings.Repeat("word ", 60)
	doc := mustParse(t, "<html><body><p>"+text+"</p></body></html>")
	p := getElementsByTagName(doc, "p")[0]
	require.Greater(t, readerableScore(p), 0.0)
}
