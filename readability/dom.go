package readability

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// This file implements the DOM traversal primitives: the
// single place where tree mutation interacts with traversal. Every
// mutating walk below returns an explicit "next node" rather than
// recursing, so a node a mapping function replaces becomes the new
// traversal cursor and is visited exactly once. Standalone functions
// (no receiver) since they carry no per-call state.

// tagName returns the lowercase tag name of an element node, or "" for
// anything else.
func tagName(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return n.Data
}

func isElement(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == tag
}

func isText(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode
}

func isComment(n *html.Node) bool {
	return n != nil && n.Type == html.CommentNode
}

func getAttribute(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func hasAttribute(n *html.Node, key string) bool {
	if n == nil {
		return false
	}
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return true
		}
	}
	return false
}

func setAttribute(n *html.Node, key, val string) {
	for i := range n.Attr {
		if strings.EqualFold(n.Attr[i].Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttribute(n *html.Node, key string) {
	for i := range n.Attr {
		if strings.EqualFold(n.Attr[i].Key, key) {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func className(n *html.Node) string {
	c := strings.TrimSpace(getAttribute(n, "class"))
	return rxNormalizeSpaces.ReplaceAllString(c, " ")
}

func elemID(n *html.Node) string {
	return strings.TrimSpace(getAttribute(n, "id"))
}

// classAndID concatenates class and id the way the reference heuristic
// matches regexes against both at once.
func classAndID(n *html.Node) string {
	return className(n) + " " + elemID(n)
}

func createElement(tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag}
}

func createTextNode(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}

// children returns the element-node children of n, in document order.
func children(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// childNodes returns every direct child (elements, text, comments).
func childNodes(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func firstElementChild(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

func nextElementSibling(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

func previousElementSibling(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// appendChild moves (not copies) child to become the last child of
// parent, detaching it from wherever it currently lives.
func appendChild(parent *html.Node, child *html.Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	parent.AppendChild(child)
}

// replaceNode substitutes newNode for oldNode in oldNode's parent,
// preserving position. oldNode is detached from the tree entirely.
func replaceNode(oldNode *html.Node, newNode *html.Node) {
	if oldNode.Parent == nil {
		return
	}
	if newNode.Parent != nil {
		newNode.Parent.RemoveChild(newNode)
	}
	oldNode.Parent.InsertBefore(newNode, oldNode)
	oldNode.Parent.RemoveChild(oldNode)
}

// setNodeTag renames an element node in place.
func setNodeTag(n *html.Node, tag string) {
	if n.Type == html.ElementNode {
		n.Data = tag
		n.DataAtom = 0
	}
}

// cloneTree returns a deep, parent-less copy of n and its descendants.
// Used to give the retry loop in the grabber a disjoint working copy,
// for copy-on-write cloning of the whole document.
func cloneTree(n *html.Node) *html.Node {
	clone := &html.Node{
		Type: n.Type,
		Data: n.Data,
		Attr: append([]html.Attribute(nil), n.Attr...),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clone.AppendChild(cloneTree(c))
	}
	return clone
}

// documentElement returns the <html> element of doc, or nil.
func documentElement(doc *html.Node) *html.Node {
	nodes := getElementsByTagName(doc, "html")
	if len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

// bodyElement returns the <body> element of doc, or nil.
func bodyElement(doc *html.Node) *html.Node {
	nodes := getElementsByTagName(doc, "body")
	if len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

// getElementsByTagName returns every element with the given tag name, in
// document order. tag == "*" returns every element.
func getElementsByTagName(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && (tag == "*" || node.Data == tag) {
			out = append(out, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func getAllNodesWithTags(n *html.Node, tags ...string) []*html.Node {
	var out []*html.Node
	for _, t := range tags {
		out = append(out, getElementsByTagName(n, t)...)
	}
	return out
}

// following returns the next node in document order: children first,
// else next sibling, else walk up until a next sibling is found. This is
// a document-order "following" walk.
func following(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	return followingSkipDescendants(n)
}

// followingSkipDescendants is "following" but never descends into n's
// own children — used right after n (or its subtree) has been unlinked.
func followingSkipDescendants(n *html.Node) *html.Node {
	for n != nil {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}

// nextElementNode walks the tree in document order, visiting element
// nodes only. When ignoreSelfAndChildren is true, n's subtree is
// skipped — used right after removing n.
func nextElementNode(n *html.Node, ignoreSelfAndChildren bool) *html.Node {
	if !ignoreSelfAndChildren {
		if fc := firstElementChild(n); fc != nil {
			return fc
		}
	}
	if sib := nextElementSibling(n); sib != nil {
		return sib
	}
	for {
		n = n.Parent
		if n == nil {
			return nil
		}
		if sib := nextElementSibling(n); sib != nil {
			return sib
		}
	}
}

// removeAndGetNext unlinks n from its parent and returns the element
// node that document-order traversal should continue from.
func removeAndGetNext(n *html.Node) *html.Node {
	next := nextElementNode(n, true)
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	return next
}

// removeNodesIf removes every node in list for which pred is nil or
// returns true. Iterates back-to-front so indices stay valid as nodes
// are unlinked.
func removeNodesIf(list []*html.Node, pred func(*html.Node) bool) {
	for i := len(list) - 1; i >= 0; i-- {
		n := list[i]
		if n.Parent != nil && (pred == nil || pred(n)) {
			n.Parent.RemoveChild(n)
		}
	}
}

func replaceTagsInList(list []*html.Node, tag string) {
	for i := len(list) - 1; i >= 0; i-- {
		setNodeTag(list[i], tag)
	}
}

func someNode(list []*html.Node, pred func(*html.Node) bool) bool {
	for _, n := range list {
		if pred(n) {
			return true
		}
	}
	return false
}

func everyNode(list []*html.Node, pred func(*html.Node) bool) bool {
	for _, n := range list {
		if !pred(n) {
			return false
		}
	}
	return true
}

func indexOfString(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func containsNode(list []*html.Node, n *html.Node) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}

// textContent concatenates every descendant text node's data, in
// document order, with no whitespace normalization.
func textContent(n *html.Node) string {
	var buf bytes.Buffer
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

// innerHTML renders n's children (not n itself) back to an HTML string.
func innerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

// outerHTML renders n and its descendants back to an HTML string.
func outerHTML(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}
