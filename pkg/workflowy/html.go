package workflowy

import (
	"html"
	"regexp"
	"strings"
)

var (
	mentionRe = regexp.MustCompile(`<mention[^>]*>[^<]*</mention>`)
	anchorRe  = regexp.MustCompile(`(?s)<a[^>]+>.*?</a>`)
	hrefRe    = regexp.MustCompile(`href=["'](.*?)["']`)
	tagRe     = regexp.MustCompile(`<[^>]+>`)
)

// CleanHTML strips WorkFlowy's inline HTML from node text.
// Mentions are dropped, anchors become markdown links, all other tags are
// removed, and HTML entities are decoded.
func CleanHTML(content string) string {
	content = mentionRe.ReplaceAllString(content, "")

	content = anchorRe.ReplaceAllStringFunc(content, func(anchor string) string {
		text := strings.TrimSpace(tagRe.ReplaceAllString(anchor, ""))
		if m := hrefRe.FindStringSubmatch(anchor); m != nil {
			return "[" + text + "](" + m[1] + ")"
		}
		return text
	})

	content = tagRe.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	return strings.TrimSpace(content)
}

// CleanNodes returns nodes with Name and Note stripped of HTML.
func CleanNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		n.Name = CleanHTML(n.Name)
		n.Note = CleanHTML(n.Note)
		out[i] = n
	}
	return out
}
