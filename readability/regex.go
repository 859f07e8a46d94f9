package readability

import "regexp"

// The regular expressions below are compiled once at package init and
// shared across every Readability call. Their literals are
// compatibility-sensitive — they reproduce the reference heuristic
// verbatim, including the known oddity called out next to rxShare
// below. Do not "clean them up".
var (
	rxUnlikelyCandidates = regexp.MustCompile(`(?i)-ad-|ai2html|banner|breadcrumbs|combx|comment|community|cover-wrap|disqus|extra|footer|gdpr|header|legends|menu|related|remark|replies|rss|shoutbox|sidebar|skyscraper|social|sponsor|supplemental|ad-break|agegate|pagination|pager|popup|yom-remote`)
	rxOkMaybeItsACandidate = regexp.MustCompile(`(?i)and|article|body|column|content|main|shadow`)
	rxPositive             = regexp.MustCompile(`(?i)article|body|content|entry|hentry|h-entry|main|page|pagination|post|text|blog|story`)
	rxNegative             = regexp.MustCompile(`(?i)hidden|^hid$| hid$| hid |^hid |banner|combx|comment|com-|contact|foot|footer|footnote|gdpr|masthead|media|meta|outbrain|promo|related|scroll|share|shoutbox|sidebar|skyscraper|sponsor|shopping|tags|tool|widget`)
	rxByline               = regexp.MustCompile(`(?i)byline|author|dateline|writtenby|p-author`)

	rxNormalizeSpaces = regexp.MustCompile(`[ \t\f\r\n]+`)
	rxNumericEntity   = regexp.MustCompile(`&#([0-9]+);`)

	rxSeparatorsAsSpaces = regexp.MustCompile(`[|\-\\/>»]`)

	rxSentenceDot = regexp.MustCompile(`\.( |$)`)

	rxImageExtension  = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)`)
	rxSrcsetExtension = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)\s+\d`)
	rxSrcExtension    = regexp.MustCompile(`(?i)^\s*\S+\.(jpg|jpeg|png|webp)\S*\s*$`)

	rxVideos = regexp.MustCompile(`(?i)//(www\.)?((dailymotion|youtube|youtube-nocookie|player\.vimeo|v\.qq)\.com|(archive|upload\.wikimedia)\.org|player\.twitch\.tv)`)

	// The share regex has `|_)` at the end where `[\s_]` looks intended.
	// Reproduced verbatim — see the Open Question entry in DESIGN.md.
	rxShare = regexp.MustCompile(`(?i)(^|[\s_])(share|sharedaddy)($|[\s_]|_)`)

	rxAbsoluteURL = regexp.MustCompile(`^([A-Za-z]+:)?//`)

	rxB64DataURL = regexp.MustCompile(`(?i)^data:\s*[^\s;,]+\s*;\s*base64\s*,`)

	rxHasContent = regexp.MustCompile(`\S$`)
	rxWhitespace = regexp.MustCompile(`^\s*$`)

	rxDisplayNone = regexp.MustCompile(`(?i)display\s*:\s*none`)

	rxPropertyPattern = regexp.MustCompile(`(?i)\s*(dc|dcterm|og|twitter)\s*:\s*(author|creator|description|title|site_name)\s*`)
	rxNamePattern     = regexp.MustCompile(`(?i)^\s*(?:(dc|dcterm|og|twitter|weibo:(?:article|webpage))\s*[.:]\s*)?(author|creator|description|title|site_name)\s*$`)
)

// titleSeparators is the set of characters treated as a hierarchical
// title separator when surrounded by spaces on both sides (" | ", " - ",
// " \ ", " / ", " > ", " » ").
const titleSeparators = `|-\/>»`
