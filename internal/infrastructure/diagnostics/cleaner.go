package diagnostics

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

var errNoBody = errors.New("no <body> in document")

type CleanConfig struct {
	TagsToRemove  []string
	AttrsToRemove []string
	// HiddenFieldsToDrop are hidden inputs removed by name, such as page state blobs.
	HiddenFieldsToDrop []string
	MaxOutputSize      int
}

var DefaultCleanConfig = CleanConfig{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg", "iframe",
		"link", "meta", "head", "title",
	},
	AttrsToRemove: []string{
		"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "tabindex",
	},
	HiddenFieldsToDrop: []string{"__VIEWSTATE", "__EVENTVALIDATION", "__VIEWSTATEGENERATOR"},
	MaxOutputSize:      500_000,
}

// CleanPage strips a captured form page down to its body markup. Password
// values are blanked.
func CleanPage(rawHTML string, cfg *CleanConfig) (string, error) {
	if cfg == nil {
		cfg = &DefaultCleanConfig
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}

	body := findBody(doc)
	if body == nil {
		return "", errNoBody
	}

	clean(body, cfg)

	var sb strings.Builder
	if err := html.Render(&sb, body); err != nil {
		return "", err
	}
	return truncate(sb.String(), cfg.MaxOutputSize), nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func clean(n *html.Node, cfg *CleanConfig) {
	if n.Type == html.CommentNode {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	if isOneOf(n.Data, cfg.TagsToRemove...) || droppedHiddenField(n, cfg) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}

	n.Attr = filterAttrs(n, cfg)

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		clean(c, cfg)
		c = next
	}
}

func filterAttrs(n *html.Node, cfg *CleanConfig) []html.Attribute {
	password := n.Data == "input" && strings.EqualFold(attr(n, "type"), "password")

	var kept []html.Attribute
	for _, a := range n.Attr {
		if isOneOf(a.Key, cfg.AttrsToRemove...) {
			continue
		}
		if strings.HasPrefix(a.Key, "data-") || strings.HasPrefix(a.Key, "aria-") || strings.HasPrefix(a.Key, "on") {
			continue
		}
		if password && a.Key == "value" {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

func droppedHiddenField(n *html.Node, cfg *CleanConfig) bool {
	if n.Data != "input" || !strings.EqualFold(attr(n, "type"), "hidden") {
		return false
	}
	return isOneOf(attr(n, "name"), cfg.HiddenFieldsToDrop...)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// truncate cuts s to at most maxSize bytes. The cut never splits a UTF-8
// sequence or leaves a partial tag behind.
func truncate(s string, maxSize int) string {
	if maxSize <= 0 || len(s) <= maxSize {
		return s
	}
	cut := maxSize
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	head := s[:cut]
	if lt := strings.LastIndexByte(head, '<'); lt > strings.LastIndexByte(head, '>') {
		head = head[:lt]
	}
	return head + "\n<!-- truncated -->"
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
