package readability

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// presentationalAttrs are stripped from every element (except inside
// <svg> subtrees) during style cleanup.
var presentationalAttrs = []string{
	"align", "background", "bgcolor", "border", "cellpadding",
	"cellspacing", "frame", "hspace", "rules", "style", "valign", "vspace",
}

// sizedTags additionally lose width/height in style cleanup.
var sizedTags = map[string]bool{"table": true, "th": true, "td": true, "hr": true, "pre": true}

// embedTags are the conditional-cleaning and unconditional-cleaning
// embed set, exempted when they carry a whitelisted video URL.
var embedTags = []string{"object", "embed", "iframe"}

// prepareArticle applies twelve ordered cleanup steps to
// the candidate article. ann is the same node-annotation side-table
// the grabber populated — the article subtree is still part of the
// working tree the grabber cloned, so node identity round-trips.
func prepareArticle(article *html.Node, cfg Config, ann annotations, articleTitle string) {
	cleanStyles(article)
	markDataTables(article, ann)
	fixLazyImages(article)

	cleanConditionally(article, "form", cfg, ann)
	cleanConditionally(article, "fieldset", cfg, ann)

	clean(article, "object")
	clean(article, "embed")
	clean(article, "h1")
	clean(article, "footer")
	clean(article, "link")
	clean(article, "aside")
	clean(article, "iframe")
	clean(article, "input")
	clean(article, "textarea")
	clean(article, "select")
	clean(article, "button")

	for _, top := range children(article) {
		cleanMatchedNodes(top, func(n *html.Node, matchString string) bool {
			return rxShare.MatchString(matchString) && textContentLength(n) < 500
		})
	}

	removeDuplicateTitleHeader(article, articleTitle)

	cleanHeaders(article, cfg)

	cleanConditionally(article, "table", cfg, ann)
	cleanConditionally(article, "ul", cfg, ann)
	cleanConditionally(article, "div", cfg, ann)

	removeNodesIf(getElementsByTagName(article, "p"), func(p *html.Node) bool {
		count := len(getElementsByTagName(p, "img")) +
			len(getElementsByTagName(p, "embed")) +
			len(getElementsByTagName(p, "object")) +
			len(getElementsByTagName(p, "iframe"))
		return count == 0 && innerText(p, false) == ""
	})

	for _, br := range getElementsByTagName(article, "br") {
		if next := nextElementNode(br, false); next != nil && tagName(next) == "p" {
			if br.Parent != nil {
				br.Parent.RemoveChild(br)
			}
		}
	}

	unwrapSingleCellTables(article)
}

// cleanStyles strips presentational attributes everywhere except
// inside <svg> subtrees.
func cleanStyles(n *html.Node) {
	if isElement(n, "svg") {
		return
	}
	if n.Type == html.ElementNode {
		for _, attr := range presentationalAttrs {
			removeAttribute(n, attr)
		}
		if sizedTags[tagName(n)] {
			removeAttribute(n, "width")
			removeAttribute(n, "height")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		cleanStyles(c)
	}
}

// markDataTables flags tables that look like real data tables, as
// opposed to tables used purely for layout.
func markDataTables(root *html.Node, ann annotations) {
	for _, table := range getElementsByTagName(root, "table") {
		if getAttribute(table, "role") == "presentation" {
			continue
		}
		if getAttribute(table, "datatable") == "0" {
			continue
		}
		if hasAttribute(table, "summary") {
			ann.setFlag(table, flagDataTable)
			continue
		}
		if captions := getElementsByTagName(table, "caption"); len(captions) > 0 && captions[0].FirstChild != nil {
			ann.setFlag(table, flagDataTable)
			continue
		}
		hasStructural := false
		for _, tag := range []string{"col", "colgroup", "tfoot", "thead", "th"} {
			if len(getElementsByTagName(table, tag)) > 0 {
				hasStructural = true
				break
			}
		}
		if hasStructural {
			ann.setFlag(table, flagDataTable)
			continue
		}
		if len(getElementsByTagName(table, "table")) > 1 {
			continue // nested table (the list includes table itself): layout table
		}
		rows, cols := rowAndColumnCount(table)
		if rows >= 10 || cols > 4 || rows*cols > 10 {
			ann.setFlag(table, flagDataTable)
		}
	}
}

// rowAndColumnCount keeps a deliberate quirk:
// colspan is read from the row element, not the cell, when summing
// columns. Preserved per the Open Question in DESIGN.md.
func rowAndColumnCount(table *html.Node) (int, int) {
	rows, cols := 0, 0
	for _, tr := range getElementsByTagName(table, "tr") {
		rowSpan := parseIntDefault(getAttribute(tr, "rowspan"), 1)
		rows += rowSpan

		colsInRow := 0
		for range getElementsByTagName(tr, "td") {
			colSpan := parseIntDefault(getAttribute(tr, "colspan"), 1)
			colsInRow += colSpan
		}
		if colsInRow > cols {
			cols = colsInRow
		}
	}
	return rows, cols
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n == 0 {
		return def
	}
	return n
}

// fixLazyImages promotes lazy-loading attributes to src/srcset.
func fixLazyImages(root *html.Node) {
	for _, n := range getAllNodesWithTags(root, "img", "picture", "figure") {
		for _, attr := range append([]html.Attribute(nil), n.Attr...) {
			if attr.Key != "src" {
				continue
			}
			if rxB64DataURL.MatchString(attr.Val) && looksLikeTinyPlaceholder(n, attr.Val) {
				removeAttribute(n, "src")
			}
		}

		needsFix := (!hasAttribute(n, "src") && !hasAttribute(n, "srcset")) || strings.Contains(className(n), "lazy")
		if !needsFix {
			continue
		}

		var newSrcset, newSrc string
		for _, attr := range n.Attr {
			if attr.Key == "src" || attr.Key == "srcset" {
				continue
			}
			if newSrcset == "" && rxSrcsetExtension.MatchString(attr.Val) {
				newSrcset = attr.Val
			}
			if newSrc == "" && rxSrcExtension.MatchString(attr.Val) {
				newSrc = attr.Val
			}
		}
		if newSrcset == "" && newSrc == "" {
			continue
		}

		switch tagName(n) {
		case "img", "picture":
			if newSrcset != "" {
				setAttribute(n, "srcset", newSrcset)
			}
			if newSrc != "" {
				setAttribute(n, "src", newSrc)
			}
		case "figure":
			if len(getElementsByTagName(n, "img")) > 0 {
				continue
			}
			img := createElement("img")
			if newSrcset != "" {
				setAttribute(img, "srcset", newSrcset)
			}
			if newSrc != "" {
				setAttribute(img, "src", newSrc)
			}
			appendChild(n, img)
		}
	}
}

// looksLikeTinyPlaceholder guards the base64-placeholder removal: the
// data URL itself must be short, must not be an SVG, and some other
// attribute on the node must look like it carries the real image.
func looksLikeTinyPlaceholder(n *html.Node, dataURL string) bool {
	if len(dataURL) > 133 {
		return false
	}
	if strings.Contains(dataURL, "image/svg+xml") {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key == "src" {
			continue
		}
		if rxSrcsetExtension.MatchString(attr.Val) || rxSrcExtension.MatchString(attr.Val) {
			return true
		}
	}
	return false
}

// clean removes every descendant of the given tag, skipping a removal
// when the element (or, for <object>, its serialized inner HTML)
// matches the whitelisted videos regex.
func clean(n *html.Node, tag string) {
	isEmbed := tag == "object" || tag == "embed" || tag == "iframe"
	removeNodesIf(getElementsByTagName(n, tag), func(el *html.Node) bool {
		if isEmbed && isVideoEmbed(el) {
			return false
		}
		return true
	})
}

func isVideoEmbed(el *html.Node) bool {
	for _, attr := range el.Attr {
		if rxVideos.MatchString(attr.Val) {
			return true
		}
	}
	return tagName(el) == "object" && rxVideos.MatchString(innerHTML(el))
}

// cleanMatchedNodes removes descendants of root (not root itself) for
// which filter(node, classAndID) holds.
func cleanMatchedNodes(root *html.Node, filter func(*html.Node, string) bool) {
	end := nextElementNode(root, true)
	next := nextElementNode(root, false)
	for next != nil && next != end {
		if filter(next, classAndID(next)) {
			next = removeAndGetNext(next)
		} else {
			next = nextElementNode(next, false)
		}
	}
}

// removeDuplicateTitleHeader drops the article's only <h2>, wherever it
// sits, when it restates the title.
func removeDuplicateTitleHeader(article *html.Node, title string) {
	if title == "" {
		return
	}
	h2s := getElementsByTagName(article, "h2")
	if len(h2s) != 1 {
		return
	}
	h2Text := textContent(h2s[0])
	titleLen := float64(len([]rune(title)))
	if titleLen == 0 {
		return
	}
	diffRate := (float64(len([]rune(h2Text))) - titleLen) / titleLen
	if math.Abs(diffRate) >= 0.5 {
		return
	}
	var match bool
	if diffRate > 0 {
		match = strings.Contains(h2Text, title)
	} else {
		match = strings.Contains(title, h2Text)
	}
	if match {
		clean(article, "h2")
	}
}

func cleanHeaders(article *html.Node, cfg Config) {
	for _, tag := range []string{"h1", "h2"} {
		removeNodesIf(getElementsByTagName(article, tag), func(h *html.Node) bool {
			return classWeight(cfg, h) < 0
		})
	}
}

// cleanConditionally runs the fishy-content
// removal. cfg controls whether it is a no-op and whether class
// weights are scored; ann supplies the data-table flag set earlier in
// this same pass.
func cleanConditionally(root *html.Node, tag string, cfg Config, ann annotations) {
	if !cfg.cleanConditionally {
		return
	}
	isList := tag == "ul" || tag == "ol"

	removeNodesIf(getElementsByTagName(root, tag), func(n *html.Node) bool {
		if tag == "table" && ann.is(n, flagDataTable) {
			return false
		}
		if hasDataTableAncestor(n, ann) {
			return false
		}

		weight := classWeight(cfg, n)
		if weight < 0 {
			return true
		}

		if countByte(textContent(n), ',') > 9 {
			return false
		}

		p := float64(len(getElementsByTagName(n, "p")))
		img := float64(len(getElementsByTagName(n, "img")))
		li := float64(len(getElementsByTagName(n, "li")) - 100)
		input := float64(len(getElementsByTagName(n, "input")))
		contentLength := textNormalizedContentLength(n)

		embeds := getAllNodesWithTags(n, embedTags...)
		embedCount := 0
		for _, embed := range embeds {
			if isVideoEmbed(embed) {
				return false
			}
			embedCount++
		}

		ld := linkDensity(n)
		inFigure := hasAncestorTag(n, "figure", 3)

		return (!inFigure && img > 1 && p < img/2) ||
			(!isList && !inFigure && float64(contentLength) < 25 && img != 1 && img != 2) ||
			(!isList && li > p) ||
			(input > math.Floor(p/3)) ||
			(!isList && weight < 25 && ld > 0.2) ||
			(weight >= 25 && ld > 0.5) ||
			((embedCount == 1 && float64(contentLength) < 75) || embedCount > 1)
	})
}

func hasDataTableAncestor(n *html.Node, ann annotations) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if tagName(p) == "table" && ann.is(p, flagDataTable) {
			return true
		}
	}
	return false
}

// unwrapSingleCellTables flattens tables used purely for layout.
func unwrapSingleCellTables(article *html.Node) {
	for _, table := range getElementsByTagName(article, "table") {
		body := table
		if hasSingleChildOfTag(table, "tbody") {
			body = firstElementChild(table)
		}
		if !hasSingleChildOfTag(body, "tr") {
			continue
		}
		row := firstElementChild(body)
		if !hasSingleChildOfTag(row, "td") {
			continue
		}
		cell := firstElementChild(row)
		if everyNode(childNodes(cell), isPhrasingContent) {
			setNodeTag(cell, "p")
		} else {
			setNodeTag(cell, "div")
		}
		replaceNode(table, cell)
	}
}
