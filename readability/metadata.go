package readability

import (
	"strings"

	"golang.org/x/net/html"
)

// Metadata is the harvested metadata record. Every field is an
// optional, normalized string; the zero value means "not found".
type Metadata struct {
	Title     string
	Byline    string
	Excerpt   string
	SiteName  string
	Direction string
}

// titleFieldPriority, bylineFieldPriority, excerptFieldPriority are the
// priority lists below. Earlier entries win; on an index tie
// the later match in document order still wins (see harvestMetadata's
// "<=" comment below).
var (
	titleFieldPriority = []string{
		"dc:title",
		"dcterm:title",
		"og:title",
		"weibo:article:title",
		"weibo:webpage:title",
		"title",
		"twitter:title",
	}
	bylineFieldPriority = []string{
		"dc:creator",
		"dcterm:creator",
		"author",
	}
	excerptFieldPriority = []string{
		"dc:description",
		"dcterm:description",
		"og:description",
		"weibo:article:description",
		"weibo:webpage:description",
		"description",
		"twitter:description",
	}
)

// harvestMetadata runs a single walk over <title> and <meta> elements,
// then a priority-ranked pick per field. The <=-tie-break and the
// "<property> wins over <name> for matched count" ordering walk the
// full priority list rather than stopping at the first match, since no
// known priority list actually exercises a tie.
func harvestMetadata(doc *html.Node) Metadata {
	values := make(map[string]string)
	index := make(map[string]int)
	next := 0

	record := func(name, content string) {
		name = strings.ToLower(strings.Join(strings.Fields(name), ""))
		name = strings.ReplaceAll(name, ".", ":")
		values[name] = content
		index[name] = next
		next++
	}

	for _, meta := range getElementsByTagName(doc, "meta") {
		content := strings.TrimSpace(getAttribute(meta, "content"))
		if content == "" {
			continue
		}

		if property := getAttribute(meta, "property"); property != "" {
			matches := rxPropertyPattern.FindAllString(property, -1)
			if len(matches) > 0 {
				for _, m := range matches {
					record(m, content)
				}
				continue
			}
		}

		if name := getAttribute(meta, "name"); name != "" && rxNamePattern.MatchString(name) {
			record(name, content)
		}
	}

	pick := func(priority []string) string {
		best := ""
		bestIdx := -1
		for i, field := range priority {
			v, ok := values[field]
			if !ok {
				continue
			}
			// Smaller priority index wins; on a tie the later-recorded
			// match (larger record index) also wins, matching the "<="
			// tie-break.
			if bestIdx == -1 || i < bestIdx || (i == bestIdx && index[field] >= index[priority[bestIdx]]) {
				best = v
				bestIdx = i
			}
		}
		return best
	}

	md := Metadata{
		Title:    pick(titleFieldPriority),
		Byline:   pick(bylineFieldPriority),
		Excerpt:  pick(excerptFieldPriority),
		SiteName: values["og:site_name"],
	}

	if md.Title == "" {
		md.Title = fallbackTitle(doc)
	}

	return md
}

// fallbackTitle runs a three-step title-fallback heuristic. It is
// deliberately simpler than a more elaborate getArticleTitle: no
// h1-length shortcut, no "too many words before the colon, use the
// original" escape hatch.
func fallbackTitle(doc *html.Node) string {
	nodes := getElementsByTagName(doc, "title")
	if len(nodes) == 0 {
		return ""
	}
	orig := innerText(nodes[0], true)
	cur := orig

	usedSeparator := false
	if idx := lastSeparatorIndex(cur); idx != -1 {
		usedSeparator = true
		cur = strings.TrimRight(cur[:idx], " ")
	} else if strings.Contains(cur, ":") {
		trimmed := strings.TrimSpace(cur)
		matchesHeading := someNode(getAllNodesWithTags(doc, "h1", "h2"), func(h *html.Node) bool {
			return strings.TrimSpace(textContent(h)) == trimmed
		})
		if !matchesHeading {
			if i := strings.LastIndex(orig, ":"); i != -1 {
				cur = strings.TrimSpace(orig[i+1:])
			}
		}
	}

	cur = normalizeAndTrim(cur)
	if wordCount(cur, false) <= 4 && (!usedSeparator || wordCount(cur, false) != wordCount(normalizeAndTrim(orig), false)-1) {
		cur = normalizeAndTrim(orig)
	}

	return cur
}

// lastSeparatorIndex returns the byte offset of the last hierarchical
// separator (one of |-\/>») in s that has a space on both sides, or -1
// if none exists.
func lastSeparatorIndex(s string) int {
	last := -1
	for i, r := range s {
		if !strings.ContainsRune(titleSeparators, r) {
			continue
		}
		if i == 0 || i+utfRuneLen(r) >= len(s) {
			continue
		}
		before, after := s[:i], s[i+utfRuneLen(r):]
		if strings.HasSuffix(before, " ") && strings.HasPrefix(after, " ") {
			last = i
		}
	}
	return last
}

func utfRuneLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}
