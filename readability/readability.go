// Package readability extracts the main readable article (and its
// metadata) from an arbitrary parsed HTML document, reproducing a
// well-known browser reader-view heuristic: multi-pass cleanup,
// paragraph scoring, candidate selection, sibling gathering,
// conditional cleaning, and metadata harvesting.
//
// The engine never performs I/O. It operates purely on an in-memory
// *html.Node tree supplied by the caller (e.g. via
// golang.org/x/net/html.Parse) and a Config value; it never reads a
// network, a file, or process environment.
package readability

import (
	"strings"

	"golang.org/x/net/html"
)

// Article is the result of a successful Extract call: the article
// subtree plus its harvested metadata and a couple of convenience
// renderings.
type Article struct {
	Metadata

	// Node is the article's root element.
	Node *html.Node

	// Content is Node rendered back to an HTML string.
	Content string

	// TextContent is Node's concatenated, trimmed text.
	TextContent string

	// Length is the rune count of TextContent.
	Length int
}

// Extract is the engine's main entry point.
// Control flow: harvest metadata, prepare the document, grab the
// article (retrying internally as needed), prepare and post-process
// the result.
//
// Extract mutates doc heavily; callers that need the original document
// afterward must parse it again or clone it first.
func Extract(doc *html.Node, cfg Config) (Article, error) {
	if documentElement(doc) == nil {
		return Article{}, ErrEmpty
	}

	md := harvestMetadata(doc)

	prepareDocument(doc)

	if bodyElement(doc) == nil {
		return Article{}, ErrMalformed
	}

	content, byline, dir, err := grabArticle(doc, cfg, md.Title)
	if err != nil {
		return Article{}, err
	}
	if content == nil {
		return Article{}, ErrNoContent
	}

	postProcess(content, cfg, &md)

	if md.Byline == "" {
		md.Byline = byline
	}
	md.Direction = dir

	text := strings.TrimSpace(textContent(content))

	return Article{
		Metadata:    md,
		Node:        content,
		Content:     outerHTML(content),
		TextContent: text,
		Length:      len([]rune(text)),
	}, nil
}

// HarvestMetadata is used independently when a
// caller wants only the metadata record, without running extraction.
func HarvestMetadata(doc *html.Node) Metadata {
	return harvestMetadata(doc)
}
