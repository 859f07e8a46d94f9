package readability

import (
	"math"

	"golang.org/x/net/html"
)

const readerableThreshold = 20

// Readerable is a cheap heuristic check that a document probably
// contains an extractable article, without running the full grabber.
// It scores <div> nodes that contain a <br> the same way a <p>/<pre>
// would, and includes an aria-hidden/fallback-image check some ports
// skip.
func Readerable(doc *html.Node) bool {
	score := 0.0
	node := documentElement(doc)
	for node != nil {
		tag := tagName(node)

		if tag == "div" && hasChildBr(node) {
			if scoreReaderableNode(node) {
				score += readerableScore(node)
				if score > readerableThreshold {
					return true
				}
			}
			node = nextElementNode(node, true)
			continue
		}

		if tag == "p" || tag == "pre" {
			if scoreReaderableNode(node) {
				score += readerableScore(node)
				if score > readerableThreshold {
					return true
				}
			}
		}

		node = nextElementNode(node, false)
	}
	return false
}

func hasChildBr(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, "br") {
			return true
		}
	}
	return false
}

func scoreReaderableNode(n *html.Node) bool {
	if !isProbablyVisible(n) {
		return false
	}
	if hasAncestorTag(n, "li", -1) {
		return false
	}
	matchString := classAndID(n)
	if rxUnlikelyCandidates.MatchString(matchString) && !rxOkMaybeItsACandidate.MatchString(matchString) {
		return false
	}
	return textContentLength(n) >= 140
}

func readerableScore(n *html.Node) float64 {
	length := float64(textContentLength(n)) - 140
	if length <= 0 {
		return 0
	}
	return math.Sqrt(length)
}
