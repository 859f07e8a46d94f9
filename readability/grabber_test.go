package readability

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestIsUnlikelyCandidateMatchesSidebar(t *testing.T) {
	div := createElement("div")
	setAttribute(div, "class", "sidebar-widget")
	require.True(t, isUnlikelyCandidate(div, classAndID(div), tagName(div)))
}

func TestIsUnlikelyCandidateOkMaybeException(t *testing.T) {
	div := createElement("div")
	setAttribute(div, "class", "sidebar content")
	require.False(t, isUnlikelyCandidate(div, classAndID(div), tagName(div)))
}

func TestIsUnlikelyCandidateRoleComplementary(t *testing.T) {
	div := createElement("div")
	setAttribute(div, "role", "complementary")
	require.True(t, isUnlikelyCandidate(div, classAndID(div), tagName(div)))
}

func TestIsUnlikelyCandidateAnchorException(t *testing.T) {
	a := createElement("a")
	setAttribute(a, "class", "sidebar")
	require.False(t, isUnlikelyCandidate(a, classAndID(a), tagName(a)))
}

func TestIsUnlikelyCandidateTableAncestorException(t *testing.T) {
	table := createElement("table")
	tr := createElement("tr")
	td := createElement("td")
	div := createElement("div")
	setAttribute(div, "class", "sidebar")
	table.AppendChild(tr)
	tr.AppendChild(td)
	td.AppendChild(div)

	require.False(t, isUnlikelyCandidate(div, classAndID(div), tagName(div)))
}

func TestIsProbablyVisible(t *testing.T) {
	plain := createElement("div")
	require.True(t, isProbablyVisible(plain))

	displayNone := createElement("div")
	setAttribute(displayNone, "style", "display: none")
	require.False(t, isProbablyVisible(displayNone))

	hidden := createElement("div")
	setAttribute(hidden, "hidden", "")
	require.False(t, isProbablyVisible(hidden))

	ariaHidden := createElement("div")
	setAttribute(ariaHidden, "aria-hidden", "true")
	require.False(t, isProbablyVisible(ariaHidden))

	fallbackImage := createElement("div")
	setAttribute(fallbackImage, "aria-hidden", "true")
	setAttribute(fallbackImage, "class", "fallback-image")
	require.True(t, isProbablyVisible(fallbackImage))
}

func TestCheckBylineFirstMatchWins(t *testing.T) {
	sess := &session{cfg: defaultConfig(t), ann: newAnnotations()}

	node := createElement("span")
	setAttribute(node, "rel", "author")
	node.AppendChild(createTextNode("Jane Doe"))

	require.True(t, checkByline(sess, node, classAndID(node)))
	require.Equal(t, "Jane Doe", sess.byline)

	other := createElement("span")
	setAttribute(other, "rel", "author")
	other.AppendChild(createTextNode("Someone Else"))
	require.False(t, checkByline(sess, other, classAndID(other)))
	require.Equal(t, "Jane Doe", sess.byline)
}

func TestCheckBylineRejectsLongText(t *testing.T) {
	sess := &session{cfg: defaultConfig(t), ann: newAnnotations()}
	node := createElement("span")
	setAttribute(node, "rel", "author")
	node.AppendChild(createTextNode(strings.Repeat("x", 100)))
	require.False(t, checkByline(sess, node, classAndID(node)))
	require.Equal(t, "", sess.byline)
}

func TestCheckBylineMatchesClassPattern(t *testing.T) {
	sess := &session{cfg: defaultConfig(t), ann: newAnnotations()}
	node := createElement("div")
	setAttribute(node, "class", "byline")
	node.AppendChild(createTextNode("By Jane Doe"))
	require.True(t, checkByline(sess, node, classAndID(node)))
}

func TestClassWeight(t *testing.T) {
	cfg := defaultConfig(t)

	plain := createElement("div")
	require.Equal(t, 0.0, classWeight(cfg, plain))

	positive := createElement("div")
	setAttribute(positive, "class", "article-content")
	require.Equal(t, 25.0, classWeight(cfg, positive))

	negative := createElement("div")
	setAttribute(negative, "id", "sidebar")
	require.Equal(t, -25.0, classWeight(cfg, negative))

	both := createElement("div")
	setAttribute(both, "class", "article")
	setAttribute(both, "id", "sidebar")
	require.Equal(t, 0.0, classWeight(cfg, both))

	unweighted, err := NewConfig().WithWeightClasses(false).Build()
	require.NoError(t, err)
	require.Equal(t, 0.0, classWeight(unweighted, positive))
}

func TestInitializeNodeTagBaselines(t *testing.T) {
	cfg, err := NewConfig().WithWeightClasses(false).Build()
	require.NoError(t, err)
	sess := &session{cfg: cfg, ann: newAnnotations()}

	div := createElement("div")
	initializeNode(sess, div)
	require.Equal(t, 5.0, sess.ann.score(div))

	pre := createElement("pre")
	initializeNode(sess, pre)
	require.Equal(t, 3.0, sess.ann.score(pre))

	li := createElement("li")
	initializeNode(sess, li)
	require.Equal(t, -3.0, sess.ann.score(li))

	h2 := createElement("h2")
	initializeNode(sess, h2)
	require.Equal(t, -5.0, sess.ann.score(h2))
}

// Ancestor scoring: a node's score spreads to its parent, grandparent
// (divider 2), and beyond (divider level*3), with the divisor keyed to
// the ancestor's position in the walk, not its actual DOM depth.
func TestScoreElementsDistributesToAncestors(t *testing.T) {
	cfg, err := NewConfig().WithWeightClasses(false).Build()
	require.NoError(t, err)

	doc := mustParse(t, `<html><body><div id="outer"><section><p>`+strings.Repeat("word, ", 50)+`</p></section></div></body></html>`)
	p := getElementsByTagName(doc, "p")[0]
	section := p.Parent
	div := section.Parent

	sess := &session{cfg: cfg, ann: newAnnotations()}
	candidates := scoreElements(sess, []*html.Node{p})

	require.Len(t, candidates, 3)
	require.Contains(t, candidates, section)
	require.Contains(t, candidates, div)

	require.InDelta(t, 53.0, sess.ann.score(section), 0.001)
	require.InDelta(t, 31.5, sess.ann.score(div), 0.001)
}

func TestScoreElementsSkipsShortText(t *testing.T) {
	cfg := defaultConfig(t)
	doc := mustParse(t, `<html><body><div><p>too short</p></div></body></html>`)
	p := getElementsByTagName(doc, "p")[0]

	sess := &session{cfg: cfg, ann: newAnnotations()}
	candidates := scoreElements(sess, []*html.Node{p})
	require.Empty(t, candidates)
}

func TestTextDirectionFromAncestor(t *testing.T) {
	doc := mustParse(t, `<html dir="ltr"><body><div id="x"><p>hi</p></div></body></html>`)
	p := getElementsByTagName(doc, "p")[0]
	require.Equal(t, "ltr", textDirection(p, doc))
}

func TestTextDirectionFromRootWhenAncestorsLackIt(t *testing.T) {
	doc := mustParse(t, `<html dir="rtl"><body><div><p>hi</p></div></body></html>`)
	p := getElementsByTagName(doc, "p")[0]
	require.Equal(t, "rtl", textDirection(p, doc))
}

// A lone top-level <p> has no wrapping element that can become the top
// candidate other than <body> itself, which selectTopCandidate always
// rejects; grabArticle falls back to wrapping body's children.
func TestGrabArticleFallbackWhenOnlyBodyQualifies(t *testing.T) {
	text := strings.Repeat("Lorem ipsum dolor sit amet consectetur adipiscing elit. ", 5)
	doc := mustParse(t, "<html><body><p>"+text+"</p></body></html>")

	cfg, err := NewConfig().WithCharThreshold(1).Build()
	require.NoError(t, err)

	content, byline, dir, err := grabArticle(doc, cfg, "")
	require.NoError(t, err)
	require.NotNil(t, content)
	require.Equal(t, "", byline)
	require.Equal(t, "", dir)
	require.Contains(t, textContent(content), "Lorem ipsum")
}

// A <p> wrapped in a positively-weighted <div> promotes that div to
// top candidate instead of falling back to body.
func TestGrabArticleSelectsWrappingDiv(t *testing.T) {
	text1 := strings.Repeat("alpha bravo charlie delta echo foxtrot golf hotel. ", 3)
	text2 := strings.Repeat("india juliet kilo lima mike november oscar papa. ", 3)
	doc := mustParse(t, `<html><body><div id="article-body"><p>`+text1+`</p><p>`+text2+`</p></div></body></html>`)

	cfg, err := NewConfig().WithCharThreshold(1).Build()
	require.NoError(t, err)

	content, _, _, err := grabArticle(doc, cfg, "")
	require.NoError(t, err)
	require.Contains(t, textContent(content), "alpha bravo")
	require.Contains(t, textContent(content), "india juliet")

	pages := 0
	for _, n := range getElementsByTagName(content, "div") {
		if getAttribute(n, "id") == "readability-page-1" {
			pages++
		}
	}
	require.Equal(t, 1, pages)
}

// When the selected content stays under charThreshold on every retry,
// the loop exhausts all three flag relaxations and falls back to the
// longest recorded attempt rather than looping forever.
func TestGrabArticleExhaustsRetriesUnderThreshold(t *testing.T) {
	text := strings.Repeat("short paragraph text here. ", 3)
	doc := mustParse(t, "<html><body><p>"+text+"</p></body></html>")

	cfg, err := NewConfig().WithCharThreshold(100000).Build()
	require.NoError(t, err)

	content, _, _, err := grabArticle(doc, cfg, "")
	require.NoError(t, err)
	require.NotNil(t, content)
	textLen := textNormalizedContentLength(content)
	require.Greater(t, textLen, 0)
	require.Less(t, textLen, 100000)
}

// selectTopCandidate must mark the node it actually promotes with
// flagTopCandidate, including the body-rejection fallback path.
func TestSelectTopCandidateSetsFlag(t *testing.T) {
	cfg := defaultConfig(t)
	text := strings.Repeat("word, ", 50)
	doc := mustParse(t, `<html><body><div id="outer"><section><p>`+text+`</p></section></div></body></html>`)
	body := bodyElement(doc)
	p := getElementsByTagName(doc, "p")[0]
	section := p.Parent

	sess := &session{cfg: cfg, ann: newAnnotations()}
	candidates := scoreElements(sess, []*html.Node{p})

	topCandidate, isFallback := selectTopCandidate(sess, body, candidates, defaultNTopCandidates)
	require.False(t, isFallback)
	// section is the highest-scoring candidate, but it is an only child
	// of div, so the single-child-ancestor climb promotes div instead.
	div := section.Parent
	require.Equal(t, div, topCandidate)
	require.True(t, sess.ann.is(topCandidate, flagTopCandidate))
}

func TestSelectTopCandidateFallbackSetsFlag(t *testing.T) {
	cfg := defaultConfig(t)
	doc := mustParse(t, "<html><body><p>short</p></body></html>")
	body := bodyElement(doc)

	sess := &session{cfg: cfg, ann: newAnnotations()}
	topCandidate, isFallback := selectTopCandidate(sess, body, nil, defaultNTopCandidates)
	require.True(t, isFallback)
	require.True(t, sess.ann.is(topCandidate, flagTopCandidate))
}

func TestGrabArticleChildlessBodyFails(t *testing.T) {
	doc := mustParse(t, "<html><body></body></html>")
	cfg := defaultConfig(t)
	_, _, _, err := grabArticle(doc, cfg, "")
	require.ErrorIs(t, err, ErrNoContent)
}
