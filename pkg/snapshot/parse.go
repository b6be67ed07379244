package snapshot

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/pagesage/pagesage/pkg/types"
)

// skippedElements are removed entirely during text extraction.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"iframe":   true,
	"svg":      true,
}

// headingElements are collected in document order.
var headingElements = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// ParseHTML extracts a content snapshot from raw page HTML. Body text is
// whitespace-normalized and bounded to maxBodyText bytes; pass 0 to use
// DefaultMaxBodyText. Headings are rendered as "tag: text" in document order.
func ParseHTML(rawHTML, pageURL string, maxBodyText int) (*types.ContentSnapshot, error) {
	if maxBodyText <= 0 {
		maxBodyText = DefaultMaxBodyText
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("snapshot: failed to parse HTML: %w", err)
	}

	snap := &types.ContentSnapshot{URL: pageURL}
	var bodyParts []string
	var inBody bool

	var walk func(n *html.Node, inBodyHere bool)
	walk = func(n *html.Node, inBodyHere bool) {
		if n.Type == html.ElementNode {
			tag := strings.ToLower(n.Data)
			switch {
			case skippedElements[tag]:
				return
			case tag == "title" && snap.Title == "":
				snap.Title = strings.TrimSpace(textContent(n))
				return
			case tag == "meta":
				name := strings.ToLower(attr(n, "name"))
				switch name {
				case "description":
					snap.MetaDescription = attr(n, "content")
				case "keywords":
					snap.MetaKeywords = attr(n, "content")
				}
				return
			case headingElements[tag]:
				text := strings.TrimSpace(collapseWhitespace(textContent(n)))
				if text != "" {
					snap.Headings = append(snap.Headings, fmt.Sprintf("%s: %s", tag, text))
				}
				if inBodyHere {
					bodyParts = append(bodyParts, text)
				}
				return
			case tag == "body":
				inBodyHere = true
				inBody = true
			}
		}
		if n.Type == html.TextNode && inBodyHere {
			if text := strings.TrimSpace(n.Data); text != "" {
				bodyParts = append(bodyParts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inBodyHere)
		}
	}
	walk(doc, false)

	// Documents without an explicit body still yield their text.
	if !inBody && len(bodyParts) == 0 {
		var collect func(n *html.Node)
		collect = func(n *html.Node) {
			if n.Type == html.ElementNode && (skippedElements[strings.ToLower(n.Data)] || strings.ToLower(n.Data) == "head") {
				return
			}
			if n.Type == html.TextNode {
				if text := strings.TrimSpace(n.Data); text != "" {
					bodyParts = append(bodyParts, text)
				}
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				collect(c)
			}
		}
		collect(doc)
	}

	snap.BodyText = truncate(collapseWhitespace(strings.Join(bodyParts, " ")), maxBodyText)
	return snap, nil
}

// textContent returns the concatenated text of a node's subtree.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// attr returns the value of the named attribute, or an empty string.
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

// collapseWhitespace reduces runs of whitespace to single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate bounds s to max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
