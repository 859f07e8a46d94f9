package readability

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// tagsToScoreSet is the fixed set of tags marked TO_SCORE during the
// pre-scoring pass.
var tagsToScoreSet = map[string]bool{
	"section": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "p": true, "td": true, "pre": true,
}

// emptyContainerTags are candidates for the "empty container" removal
// rule in the pre-scoring pass.
var emptyContainerTags = map[string]bool{
	"div": true, "section": true, "header": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

const (
	defaultNTopCandidates = 5
	minTopCandidateShare  = 3
	topCandidateSimilarity = 0.75
)

// grabFlags bundles the three retry-weakened feature toggles.
type grabFlags struct {
	stripUnlikely      bool
	weightClasses      bool
	cleanConditionally bool
}

// attempt is a saved candidate article plus its normalized text
// length, kept so the retry loop can fall back to the longest one.
type attempt struct {
	content *html.Node
	length  int
	dir     string
}

// session carries per-extraction-call state: the node-annotation
// side-table and the one-shot byline capture. Grounded on the
// "configuration as variant, not global" note — nothing here is a
// package-level var.
type session struct {
	cfg    Config
	ann    annotations
	byline string
}

// grabArticle runs the scoring/selection/retry loop. It operates on
// successive working copies of doc, cloned fresh per attempt, so each
// retry gets a disjoint tree to mutate.
func grabArticle(doc *html.Node, cfg Config, articleTitle string) (*html.Node, string, string, error) {
	nTop := cfg.nTopCandidates
	if nTop <= 0 {
		nTop = defaultNTopCandidates
	}
	charThreshold := cfg.charThreshold
	if charThreshold <= 0 {
		charThreshold = 500
	}

	flags := grabFlags{
		stripUnlikely:      cfg.stripUnlikely,
		weightClasses:      cfg.weightClasses,
		cleanConditionally: cfg.cleanConditionally,
	}

	var attempts []attempt
	var lastByline string

	for {
		working := cloneTree(doc)
		body := bodyElement(working)
		if body == nil {
			return nil, lastByline, "", ErrMalformed
		}

		sessCfg := cfg
		sessCfg.stripUnlikely = flags.stripUnlikely
		sessCfg.weightClasses = flags.weightClasses
		sessCfg.cleanConditionally = flags.cleanConditionally
		sess := &session{cfg: sessCfg, ann: newAnnotations()}

		elementsToScore := preScore(working, sess, flags)
		lastByline = sess.byline

		candidates := scoreElements(sess, elementsToScore)
		topCandidate, createdFallback := selectTopCandidate(sess, body, candidates, nTop)

		dir := textDirection(topCandidate, working)
		articleContent := gatherSiblings(sess, topCandidate)

		prepareArticle(articleContent, sess.cfg, sess.ann, articleTitle)

		var shaped *html.Node
		if createdFallback {
			shaped = articleContent
			if first := firstElementChild(articleContent); first != nil && isElement(first, "div") {
				setAttribute(first, "id", "readability-page-1")
				setAttribute(first, "class", "page")
			}
		} else {
			page := createElement("div")
			setAttribute(page, "id", "readability-page-1")
			setAttribute(page, "class", "page")
			for _, c := range childNodes(articleContent) {
				appendChild(page, c)
			}
			appendChild(articleContent, page)
			shaped = articleContent
		}

		textLength := textNormalizedContentLength(shaped)
		if textLength >= charThreshold {
			return shaped, sess.byline, dir, nil
		}

		attempts = append(attempts, attempt{content: shaped, length: textLength, dir: dir})

		switch {
		case flags.stripUnlikely:
			flags.stripUnlikely = false
			continue
		case flags.weightClasses:
			flags.weightClasses = false
			continue
		case flags.cleanConditionally:
			flags.cleanConditionally = false
			continue
		}

		sort.SliceStable(attempts, func(i, j int) bool { return attempts[i].length > attempts[j].length })
		if attempts[0].length == 0 {
			return nil, lastByline, "", ErrNoContent
		}
		return attempts[0].content, lastByline, attempts[0].dir, nil
	}
}

// textDirection implements the final-shaping direction
// lookup: walk up from the top candidate (or its original parent) to
// the document root looking for a dir attribute.
func textDirection(topCandidate, doc *html.Node) string {
	for n := topCandidate; n != nil; n = n.Parent {
		if d := getAttribute(n, "dir"); d != "" {
			return d
		}
	}
	if root := documentElement(doc); root != nil {
		return getAttribute(root, "dir")
	}
	return ""
}

// preScore runs the pre-scoring forward walk: it
// strips invisible/unlikely/byline/empty nodes, marks TO_SCORE
// candidates, and folds phrasing-only <div>s into <p>.
func preScore(working *html.Node, sess *session, flags grabFlags) []*html.Node {
	var toScore []*html.Node
	node := documentElement(working)

	for node != nil {
		matchString := classAndID(node)
		tag := tagName(node)

		if !isProbablyVisible(node) {
			node = removeAndGetNext(node)
			continue
		}

		if checkByline(sess, node, matchString) {
			node = removeAndGetNext(node)
			continue
		}

		if flags.stripUnlikely {
			if isUnlikelyCandidate(node, matchString, tag) {
				node = removeAndGetNext(node)
				continue
			}
		}

		if emptyContainerTags[tag] && isElementWithoutContent(node) {
			node = removeAndGetNext(node)
			continue
		}

		if tagsToScoreSet[tag] {
			sess.ann.setFlag(node, flagToScore)
			toScore = append(toScore, node)
		}

		if tag == "div" {
			node = foldPhrasingDiv(sess, node, &toScore)
		}

		node = nextElementNode(node, false)
	}

	return toScore
}

func isUnlikelyCandidate(node *html.Node, matchString, tag string) bool {
	if getAttribute(node, "role") == "complementary" {
		return true
	}
	if !rxUnlikelyCandidates.MatchString(matchString) || rxOkMaybeItsACandidate.MatchString(matchString) {
		return false
	}
	if tag == "body" || tag == "a" {
		return false
	}
	return !hasAncestorTag(node, "table", 3)
}

func isProbablyVisible(n *html.Node) bool {
	style := getAttribute(n, "style")
	if rxDisplayNone.MatchString(style) {
		return false
	}
	if hasAttribute(n, "hidden") {
		return false
	}
	if getAttribute(n, "aria-hidden") == "true" && !strings.Contains(className(n), "fallback-image") {
		return false
	}
	return true
}

func isElementWithoutContent(n *html.Node) bool {
	if strings.TrimSpace(textContent(n)) != "" {
		return false
	}
	kids := children(n)
	if len(kids) == 0 {
		return true
	}
	brs := len(getElementsByTagName(n, "br"))
	hrs := len(getElementsByTagName(n, "hr"))
	return len(kids) == brs+hrs
}

func hasAncestorTag(n *html.Node, tag string, maxDepth int) bool {
	depth := 0
	for p := n.Parent; p != nil; p = p.Parent {
		if maxDepth > 0 && depth > maxDepth {
			return false
		}
		if tagName(p) == tag {
			return true
		}
		depth++
	}
	return false
}

// checkByline runs byline detection: one-shot,
// first qualifying node wins.
func checkByline(sess *session, node *html.Node, matchString string) bool {
	if sess.byline != "" {
		return false
	}
	rel := getAttribute(node, "rel")
	itemprop := getAttribute(node, "itemprop")
	qualifies := rel == "author" || strings.Contains(itemprop, "author") || rxByline.MatchString(matchString)
	if !qualifies {
		return false
	}
	text := innerText(node, true)
	if len(text) == 0 || len(text) >= 100 {
		return false
	}
	sess.byline = text
	return true
}

// foldPhrasingDiv groups phrasing-only
// runs under new <p> wrappers, then either unwrap a div that collapsed
// to a single <p>, or rename a block-free div to <p>. Returns the node
// the outer walk should continue from (node itself unless it was
// replaced).
func foldPhrasingDiv(sess *session, node *html.Node, toScore *[]*html.Node) *html.Node {
	var p *html.Node
	child := node.FirstChild
	for child != nil {
		next := child.NextSibling
		if isPhrasingContent(child) {
			if p != nil {
				appendChild(p, child)
			} else if !isWhitespaceNode(child) {
				p = createElement("p")
				replaceNode(child, p)
				appendChild(p, child)
			}
		} else if p != nil {
			for p.LastChild != nil && isWhitespaceNode(p.LastChild) {
				p.RemoveChild(p.LastChild)
			}
			p = nil
		}
		child = next
	}

	if hasSingleChildOfTag(node, "p") && linkDensity(node) < 0.25 {
		inner := children(node)[0]
		replaceNode(node, inner)
		*toScore = append(*toScore, inner)
		return inner
	}

	if !divHasBlockDescendant(node) {
		setNodeTag(node, "p")
		*toScore = append(*toScore, node)
	}

	return node
}

func hasSingleChildOfTag(n *html.Node, tag string) bool {
	kids := children(n)
	if len(kids) != 1 || tagName(kids[0]) != tag {
		return false
	}
	return !someNode(childNodes(n), func(c *html.Node) bool {
		return c.Type == html.TextNode && rxHasContent.MatchString(c.Data)
	})
}

func divHasBlockDescendant(n *html.Node) bool {
	return someNode(childNodes(n), func(c *html.Node) bool {
		return blockElems[tagName(c)] || (c.Type == html.ElementNode && divHasBlockDescendant(c))
	})
}

// scoreElements runs the scoring pass.
func scoreElements(sess *session, toScore []*html.Node) []*html.Node {
	var candidates []*html.Node

	for _, el := range toScore {
		if el.Parent == nil || el.Parent.Type != html.ElementNode {
			continue
		}

		text := innerText(el, true)
		length := len([]rune(text))
		if length < 25 {
			continue
		}

		ancestors := nodeAncestors(el, 3)
		if len(ancestors) == 0 {
			continue
		}

		score := 1.0
		score += float64(strings.Count(text, ","))
		score += math.Min(math.Floor(float64(length)/100.0), 3.0)

		for level, ancestor := range ancestors {
			if ancestor.Type != html.ElementNode || ancestor.Parent == nil || ancestor.Parent.Type != html.ElementNode {
				continue
			}
			if !sess.ann.is(ancestor, flagInitialized) {
				initializeNode(sess, ancestor)
				sess.ann.setFlag(ancestor, flagInitialized|flagCandidate)
				candidates = append(candidates, ancestor)
			}

			divider := 1.0
			switch level {
			case 0:
				divider = 1
			case 1:
				divider = 2
			default:
				divider = float64(level) * 3
			}
			sess.ann.addScore(ancestor, score/divider)
		}
	}

	return candidates
}

func nodeAncestors(n *html.Node, maxDepth int) []*html.Node {
	var out []*html.Node
	level := 0
	for p := n.Parent; p != nil; p = p.Parent {
		out = append(out, p)
		level++
		if maxDepth > 0 && level == maxDepth {
			break
		}
	}
	return out
}

// initializeNode is the one-shot per-node initialization.
func initializeNode(sess *session, n *html.Node) {
	score := classWeight(sess.cfg, n)
	switch tagName(n) {
	case "div":
		score += 5
	case "pre", "td", "blockquote":
		score += 3
	case "address", "form", "ol", "ul", "dl", "dd", "dt", "li":
		score -= 3
	case "h1", "h2", "h3", "h4", "h5", "h6", "th":
		score -= 5
	}
	sess.ann.setScore(n, score)
}

func classWeight(cfg Config, n *html.Node) float64 {
	if !cfg.weightClasses {
		return 0
	}
	weight := 0.0
	if class := className(n); class != "" {
		if rxNegative.MatchString(class) {
			weight -= 25
		}
		if rxPositive.MatchString(class) {
			weight += 25
		}
	}
	if id := elemID(n); id != "" {
		if rxNegative.MatchString(id) {
			weight -= 25
		}
		if rxPositive.MatchString(id) {
			weight += 25
		}
	}
	return weight
}

// selectTopCandidate runs the top-N selection,
// promotion, and fallback. Returns the chosen top candidate and whether
// it was freshly synthesized (the fallback case).
func selectTopCandidate(sess *session, body *html.Node, candidates []*html.Node, nTop int) (*html.Node, bool) {
	for _, c := range candidates {
		sess.ann.setScore(c, sess.ann.score(c)*(1-linkDensity(c)))
	}

	top := topN(sess, candidates, nTop)

	var topCandidate *html.Node
	if len(top) > 0 {
		topCandidate = top[0]
	}

	if topCandidate == nil || tagName(topCandidate) == "body" {
		fallback := createElement("div")
		for _, kid := range childNodes(body) {
			appendChild(fallback, kid)
		}
		appendChild(body, fallback)
		initializeNode(sess, fallback)
		sess.ann.setFlag(fallback, flagTopCandidate)
		return fallback, true
	}

	topScore := sess.ann.score(topCandidate)
	var altAncestors [][]*html.Node
	for i := 1; i < len(top); i++ {
		if topScore > 0 && sess.ann.score(top[i])/topScore >= topCandidateSimilarity {
			altAncestors = append(altAncestors, nodeAncestors(top[i], 0))
		}
	}

	if len(altAncestors) >= minTopCandidateShare {
		ancestor := topCandidate.Parent
		for ancestor != nil && tagName(ancestor) != "body" {
			count := 0
			for i := 0; i < len(altAncestors) && count < minTopCandidateShare; i++ {
				if containsNode(altAncestors[i], ancestor) {
					count++
				}
			}
			if count >= minTopCandidateShare {
				topCandidate = ancestor
				break
			}
			ancestor = ancestor.Parent
		}
	}

	if !sess.ann.has(topCandidate) {
		initializeNode(sess, topCandidate)
	}

	lastScore := sess.ann.score(topCandidate)
	scoreThreshold := lastScore / 3.0
	for p := topCandidate.Parent; p != nil && tagName(p) != "body"; p = p.Parent {
		if !sess.ann.has(p) {
			continue
		}
		parentScore := sess.ann.score(p)
		if parentScore < scoreThreshold {
			break
		}
		if parentScore > lastScore {
			topCandidate = p
			break
		}
		lastScore = parentScore
	}

	for p := topCandidate.Parent; p != nil && tagName(p) != "body" && len(children(p)) == 1; p = topCandidate.Parent {
		topCandidate = p
	}

	if !sess.ann.has(topCandidate) {
		initializeNode(sess, topCandidate)
	}

	sess.ann.setFlag(topCandidate, flagTopCandidate)
	return topCandidate, false
}

// topN keeps a size-nTop descending-by-score slice, ties broken by
// earlier insertion (stable sort over document-order candidates).
func topN(sess *session, candidates []*html.Node, nTop int) []*html.Node {
	sorted := append([]*html.Node(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sess.ann.score(sorted[i]) > sess.ann.score(sorted[j])
	})
	if len(sorted) > nTop {
		sorted = sorted[:nTop]
	}
	return sorted
}

// alterToDivExceptions are siblings that are re-parented as-is; anything
// else gets renamed to <div> first.
var alterToDivExceptions = map[string]bool{
	"div": true, "article": true, "section": true, "p": true,
}

// gatherSiblings runs the sibling-gathering step.
func gatherSiblings(sess *session, topCandidate *html.Node) *html.Node {
	articleContent := createElement("div")
	topScore := sess.ann.score(topCandidate)
	threshold := math.Max(10, topScore*0.2)
	topClass := className(topCandidate)

	parent := topCandidate.Parent
	for _, sibling := range children(parent) {
		include := false

		if sibling == topCandidate {
			include = true
		} else {
			bonus := 0.0
			if topClass != "" && className(sibling) == topClass {
				bonus = topScore * 0.2
			}

			if sess.ann.is(sibling, flagInitialized) && sess.ann.score(sibling)+bonus >= threshold {
				include = true
			} else if tagName(sibling) == "p" {
				ld := linkDensity(sibling)
				text := innerText(sibling, true)
				length := len([]rune(text))
				if length > 80 && ld < 0.25 {
					include = true
				} else if ld == 0 && rxSentenceDot.MatchString(text) {
					include = true
				}
			}
		}

		if include {
			if !alterToDivExceptions[tagName(sibling)] {
				setNodeTag(sibling, "div")
			}
			appendChild(articleContent, sibling)
		}
	}

	return articleContent
}
