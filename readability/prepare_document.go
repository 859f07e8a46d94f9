package readability

import (
	"strings"

	"golang.org/x/net/html"
)

// phrasingElems is the fixed set of inline-level tags that count as
// phrasing content on their own, matching the MDN phrasing-content
// category.
var phrasingElems = map[string]bool{
	"abbr": true, "audio": true, "b": true, "bdo": true, "br": true,
	"button": true, "cite": true, "code": true, "data": true,
	"datalist": true, "dfn": true, "em": true, "embed": true, "i": true,
	"img": true, "input": true, "kbd": true, "label": true, "mark": true,
	"math": true, "meter": true, "noscript": true, "object": true,
	"output": true, "progress": true, "q": true, "ruby": true,
	"samp": true, "script": true, "select": true, "small": true,
	"span": true, "strong": true, "sub": true, "sup": true,
	"textarea": true, "time": true, "var": true, "wbr": true,
}

// blockElems is the set checked by divHasBlockDescendant, used during
// the div-to-p conversion step.
var blockElems = map[string]bool{
	"a": true, "blockquote": true, "dl": true, "div": true, "img": true,
	"ol": true, "p": true, "pre": true, "table": true, "ul": true,
	"select": true,
}

// isPhrasingContent reports whether n qualifies as phrasing content:
// text nodes, the fixed phrasingElems set, or an <a>/<del>/<ins> whose
// every child is itself phrasing content.
func isPhrasingContent(n *html.Node) bool {
	if n.Type == html.TextNode {
		return true
	}
	if n.Type != html.ElementNode {
		return false
	}
	tag := n.Data
	if phrasingElems[tag] {
		return true
	}
	if tag == "a" || tag == "del" || tag == "ins" {
		return everyNode(childNodes(n), isPhrasingContent)
	}
	return false
}

// isWhitespaceNode reports whether n is a text node holding only
// whitespace, or a <br>.
func isWhitespaceNode(n *html.Node) bool {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data) == ""
	}
	return isElement(n, "br")
}

// nextSignificantSibling walks forward from n, skipping whitespace-only
// text nodes.
func nextSignificantSibling(n *html.Node) *html.Node {
	for n != nil && n.Type != html.ElementNode && rxWhitespace.MatchString(textContent(n)) {
		n = n.NextSibling
	}
	return n
}

// prepareDocument runs, in order: strip comments, unwrap
// noscript-wrapped images, strip scripts/noscript, strip style and
// rename font to span, then coalesce <br><br> runs into <p>.
func prepareDocument(doc *html.Node) {
	removeComments(doc)
	unwrapNoscriptImages(doc)
	removeScriptsAndNoscripts(doc)

	removeNodesIf(getElementsByTagName(doc, "style"), nil)
	replaceTagsInList(getElementsByTagName(doc, "font"), "span")

	if body := bodyElement(doc); body != nil {
		coalesceBrRuns(body)
	}
}

func removeComments(doc *html.Node) {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.CommentNode {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	removeNodesIf(nodes, nil)
}

// unwrapNoscriptImages first drops any
// placeholder <img> that carries no usable source attribute at all.
// Then, for each <noscript> whose only meaningful content is a single
// <img>, check whether the element immediately before it is also a
// single <img>; if so the pair is a lazy-load shim (a low-res <img>
// followed by a <noscript><img> holding the real attributes) and the
// noscript's image replaces the visible one, picking up any attribute
// the visible image had that the noscript image lacks.
func unwrapNoscriptImages(doc *html.Node) {
	imgs := getElementsByTagName(doc, "img")
	removeNodesIf(imgs, func(img *html.Node) bool {
		for _, attr := range img.Attr {
			if attr.Key == "src" || attr.Key == "srcset" || attr.Key == "data-src" || attr.Key == "data-srcset" {
				return false
			}
			if rxImageExtension.MatchString(attr.Val) {
				return false
			}
		}
		return true
	})

	noscripts := getElementsByTagName(doc, "noscript")
	for i := len(noscripts) - 1; i >= 0; i-- {
		noscript := noscripts[i]
		noscriptImg := singleDescendantImage(noscript)
		if noscriptImg == nil && noscript.Parent != nil && noscript.FirstChild != nil &&
			noscript.FirstChild == noscript.LastChild && isText(noscript.FirstChild) {
			// The parser keeps <noscript> content as one raw text node;
			// parse it in the noscript's parent context to reach the image.
			if frag, err := html.ParseFragment(strings.NewReader(noscript.FirstChild.Data), noscript.Parent); err == nil {
				holder := createElement("div")
				for _, f := range frag {
					holder.AppendChild(f)
				}
				noscriptImg = singleDescendantImage(holder)
			}
		}
		if noscriptImg == nil {
			continue
		}

		prev := previousElementSibling(noscript)
		prevImg := prev
		if prev != nil && !isElement(prev, "img") {
			prevImg = nil
		}
		if prevImg == nil {
			continue
		}

		for _, attr := range prevImg.Attr {
			if attr.Val == "" {
				continue
			}
			newName := attr.Key
			if hasAttribute(noscriptImg, attr.Key) {
				newName = "data-old-" + attr.Key
			}
			setAttribute(noscriptImg, newName, attr.Val)
		}

		replaceNode(prevImg, cloneTree(noscriptImg))
	}
}

// singleDescendantImage returns the lone <img> inside n if n's element
// content is nothing but a single-branch chain down to it, else nil.
func singleDescendantImage(n *html.Node) *html.Node {
	cur := n
	for {
		kids := children(cur)
		if len(kids) != 1 {
			if isElement(cur, "img") {
				return cur
			}
			return nil
		}
		cur = kids[0]
		if isElement(cur, "img") {
			return cur
		}
	}
}

func removeScriptsAndNoscripts(doc *html.Node) {
	scripts := getElementsByTagName(doc, "script")
	for _, s := range scripts {
		removeAttribute(s, "src")
		for s.FirstChild != nil {
			s.RemoveChild(s.FirstChild)
		}
	}
	removeNodesIf(scripts, nil)
	removeNodesIf(getElementsByTagName(doc, "noscript"), nil)
}

// coalesceBrRuns finds each <br>
// followed (modulo whitespace) by another <br>, delete the trailing
// ones, rename the first <br> to <p>, and adopt following phrasing
// siblings as its children until the next <br><br> run or a
// non-phrasing element.
func coalesceBrRuns(root *html.Node) {
	brs := getElementsByTagName(root, "br")
	for _, br := range brs {
		if br.Parent == nil {
			continue // already consumed by an earlier run
		}

		next := br.NextSibling
		replaced := false
		for {
			next = nextSignificantSibling(next)
			if next == nil || !isElement(next, "br") {
				break
			}
			replaced = true
			sibling := next.NextSibling
			next.Parent.RemoveChild(next)
			next = sibling
		}

		if !replaced {
			continue
		}

		p := createElement("p")
		replaceNode(br, p)

		next = p.NextSibling
		for next != nil {
			if isElement(next, "br") {
				if after := nextSignificantSibling(next.NextSibling); after != nil && isElement(after, "br") {
					break
				}
			}
			if !isPhrasingContent(next) {
				break
			}
			sibling := next.NextSibling
			appendChild(p, next)
			next = sibling
		}

		for p.LastChild != nil && isWhitespaceNode(p.LastChild) {
			p.RemoveChild(p.LastChild)
		}

		if isElement(p.Parent, "p") {
			setNodeTag(p.Parent, "div")
		}
	}
}
