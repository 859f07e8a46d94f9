package readability

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// urlAttrTags carries src/poster/srcset rewriting.
var urlAttrTags = map[string]bool{
	"img": true, "picture": true, "figure": true,
	"video": true, "audio": true, "source": true,
}

// postProcess applies the steps below in order, then fills in the excerpt
// fallback and trims/unescapes the metadata record it is handed.
func postProcess(article *html.Node, cfg Config, md *Metadata) {
	rewriteLinks(article, cfg)
	rewriteMediaURLs(article, cfg)
	cleanClasses(article, cfg.classesToPreserve)
	normalizeTextNodes(article)
	collapsePreCode(article)
	padEmptyElements(article)

	if md.Excerpt == "" {
		if ps := getElementsByTagName(article, "p"); len(ps) > 0 {
			md.Excerpt = innerText(ps[0], true)
		}
	}

	md.Title = strings.TrimSpace(unescapeEntities(md.Title))
	md.Byline = strings.TrimSpace(unescapeEntities(md.Byline))
	md.Excerpt = strings.TrimSpace(unescapeEntities(md.Excerpt))
	md.SiteName = strings.TrimSpace(unescapeEntities(md.SiteName))
}

// rewriteLinks defuses javascript: hrefs and resolves the rest against
// base_url.
func rewriteLinks(article *html.Node, cfg Config) {
	for _, a := range getElementsByTagName(article, "a") {
		href := getAttribute(a, "href")
		if href == "" {
			continue
		}

		if strings.HasPrefix(href, "javascript:") {
			defuseJavascriptLink(a)
			continue
		}

		if strings.HasPrefix(href, "#") && !cfg.urlOverride {
			continue
		}

		setAttribute(a, "href", resolveURL(href, cfg.baseURL, cfg.urlOverride))
	}
}

// defuseJavascriptLink replaces a javascript: link with a <span>
// wrapping its children, collapsed to a bare text node when the link
// held a single text child.
func defuseJavascriptLink(a *html.Node) {
	kids := childNodes(a)
	if len(kids) == 1 && kids[0].Type == html.TextNode {
		replaceNode(a, createTextNode(kids[0].Data))
		return
	}
	span := createElement("span")
	for _, k := range kids {
		appendChild(span, k)
	}
	replaceNode(a, span)
}

// rewriteMediaURLs resolves src/poster/srcset to absolute URLs when a
// base URL is configured.
func rewriteMediaURLs(article *html.Node, cfg Config) {
	var tags []string
	for t := range urlAttrTags {
		tags = append(tags, t)
	}
	for _, n := range getAllNodesWithTags(article, tags...) {
		for _, attr := range []string{"src", "poster"} {
			if v := getAttribute(n, attr); v != "" {
				setAttribute(n, attr, resolveURL(v, cfg.baseURL, cfg.urlOverride))
			}
		}
		if srcset := getAttribute(n, "srcset"); srcset != "" {
			setAttribute(n, "srcset", rewriteSrcset(srcset, cfg.baseURL, cfg.urlOverride))
		}
	}
}

// rewriteSrcset parses the srcset grammar: a
// comma-separated list of "URL [descriptor]" entries, with the URL and
// descriptor separated by whitespace. A trailing comma on a URL (no
// following descriptor) still terminates the entry.
func rewriteSrcset(srcset string, base *url.URL, urlOverride bool) string {
	entries := strings.Split(srcset, ",")
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Fields(entry)
		if len(parts) == 0 {
			continue
		}
		parts[0] = resolveURL(parts[0], base, urlOverride)
		out = append(out, strings.Join(parts, " "))
	}
	return strings.Join(out, ", ")
}

// resolveURL leaves a hash-only href alone unless urlOverride forces it
// through base.ResolveReference like any other relative reference.
func resolveURL(raw string, base *url.URL, urlOverride bool) string {
	if raw == "" || base == nil {
		return raw
	}
	if strings.HasPrefix(raw, "#") && !urlOverride {
		return raw
	}
	if rxAbsoluteURL.MatchString(raw) {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return base.ResolveReference(ref).String()
}

// cleanClasses strips class attributes except names in preserve.
func cleanClasses(n *html.Node, preserve []string) {
	if n.Type == html.ElementNode {
		var kept []string
		for _, c := range strings.Fields(className(n)) {
			if indexOfString(preserve, c) != -1 {
				kept = append(kept, c)
			}
		}
		if len(kept) > 0 {
			setAttribute(n, "class", strings.Join(kept, " "))
		} else {
			removeAttribute(n, "class")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		cleanClasses(c, preserve)
	}
}

// normalizeTextNodes collapses whitespace in every text node except
// those inside <pre>/<code> ancestry.
func normalizeTextNodes(n *html.Node) {
	if n.Type == html.TextNode && !hasAncestorTag(n, "pre", -1) && !hasAncestorTag(n, "code", -1) {
		n.Data = normalizeWhitespace(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		normalizeTextNodes(c)
	}
}

// collapsePreCode folds a <pre> whose only content is a single <code>
// into that <code>'s own content, directly under <pre>.
func collapsePreCode(root *html.Node) {
	for _, pre := range getElementsByTagName(root, "pre") {
		if !hasSingleChildOfTag(pre, "code") {
			continue
		}
		code := firstElementChild(pre)
		for _, k := range childNodes(code) {
			appendChild(pre, k)
		}
		pre.RemoveChild(code)
	}
}

// padEmptyElements inserts a single space as text content into
// otherwise-empty iframe/em/a elements to defeat self-closing
// serialization.
func padEmptyElements(root *html.Node) {
	for _, tag := range []string{"iframe", "em", "a"} {
		for _, n := range getElementsByTagName(root, tag) {
			if n.FirstChild == nil {
				appendChild(n, createTextNode(" "))
			}
		}
	}
}
