package html

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/helpsync-labs/helpsync-cli/internal/core/domain"
	"github.com/helpsync-labs/helpsync-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser converts raw article HTML into a canonical document.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// strippedSelectors are elements that carry no article content.
var strippedSelectors = []string{
	"script", "style", "noscript", "svg", "iframe", "form",
	"nav", "aside", "header", "footer",
	`[role="navigation"]`, `[role="banner"]`, `[role="complementary"]`,
}

// Normalise renders the article body to clean text, prepends the
// canonical URL header and title, and computes the content hash.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawArticle) (*domain.Document, error) {
	if raw == nil {
		return nil, fmt.Errorf("nil article")
	}

	body, err := renderHTML(raw.BodyHTML)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	if body == "" {
		return nil, fmt.Errorf("article %d: no text content", raw.ID)
	}

	var b strings.Builder
	b.WriteString("Article URL: ")
	b.WriteString(raw.URL)
	b.WriteString("\n\n# ")
	b.WriteString(strings.TrimSpace(raw.Title))
	b.WriteString("\n\n")
	b.WriteString(body)
	content := b.String()

	return &domain.Document{
		ID:          strconv.FormatInt(raw.ID, 10),
		Title:       raw.Title,
		Content:     content,
		URL:         raw.URL,
		ContentHash: domain.HashContent(content),
		UpdatedAt:   raw.UpdatedAt,
		FetchedAt:   time.Now().UTC(),
	}, nil
}

// renderHTML strips non-content elements and renders the rest to
// markdown-flavoured text.
func renderHTML(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}

	body := doc.Find("body")
	for _, sel := range strippedSelectors {
		body.Find(sel).Remove()
	}

	var b strings.Builder
	for _, node := range body.Nodes {
		renderChildren(&b, node, false)
	}
	return tidy(b.String()), nil
}

func renderChildren(b *strings.Builder, n *html.Node, inPre bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(b, c, inPre)
	}
}

//nolint:gocyclo // One case per HTML element kind.
func renderNode(b *strings.Builder, n *html.Node, inPre bool) {
	switch n.Type {
	case html.TextNode:
		if inPre {
			b.WriteString(n.Data)
		} else {
			writeCollapsed(b, n.Data)
		}

	case html.ElementNode:
		switch n.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			level := int(n.Data[1] - '0')
			b.WriteString("\n\n")
			b.WriteString(strings.Repeat("#", level))
			b.WriteString(" ")
			renderChildren(b, n, false)
			b.WriteString("\n\n")

		case "p", "div", "section", "article", "table", "thead", "tbody", "blockquote", "figure", "ul", "ol":
			b.WriteString("\n")
			renderChildren(b, n, inPre)
			b.WriteString("\n")

		case "li":
			b.WriteString("\n- ")
			renderChildren(b, n, inPre)

		case "tr":
			b.WriteString("\n")
			renderChildren(b, n, inPre)

		case "br":
			b.WriteString("\n")

		case "hr":
			b.WriteString("\n---\n")

		case "a":
			href := attr(n, "href")
			text := strings.TrimSpace(inlineText(n))
			if href != "" && text != "" && !strings.HasPrefix(href, "#") {
				fmt.Fprintf(b, "[%s](%s)", text, href)
			} else {
				renderChildren(b, n, inPre)
			}

		case "pre":
			b.WriteString("\n\n```\n")
			renderChildren(b, n, true)
			b.WriteString("\n```\n\n")

		case "code":
			if inPre {
				renderChildren(b, n, true)
			} else {
				b.WriteString("`")
				renderChildren(b, n, false)
				b.WriteString("`")
			}

		case "img":
			if alt := attr(n, "alt"); alt != "" {
				b.WriteString(alt)
			}

		default:
			renderChildren(b, n, inPre)
		}
	}
}

// writeCollapsed writes text with whitespace runs collapsed to single
// spaces, preserving a boundary space at either end.
func writeCollapsed(b *strings.Builder, s string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			b.WriteString(" ")
		}
		return
	}
	if startsWithSpace(s) {
		b.WriteString(" ")
	}
	b.WriteString(strings.Join(fields, " "))
	if endsWithSpace(s) {
		b.WriteString(" ")
	}
}

func startsWithSpace(s string) bool {
	return s != strings.TrimLeft(s, " \t\n\r")
}

func endsWithSpace(s string) bool {
	return s != strings.TrimRight(s, " \t\n\r")
}

// inlineText collects the text content of a node with whitespace
// collapsed, for link labels.
func inlineText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			writeCollapsed(&b, node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

var multiNewlines = regexp.MustCompile(`\n{3,}`)

// tidy trims line whitespace outside code fences and collapses blank
// runs, leaving at most one empty line between blocks.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	inFence := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			out = append(out, trimmed)
			continue
		}
		if inFence {
			out = append(out, strings.TrimRight(line, " \t"))
		} else {
			out = append(out, trimmed)
		}
	}

	joined := strings.Join(out, "\n")
	joined = multiNewlines.ReplaceAllString(joined, "\n\n")
	return strings.TrimSpace(joined)
}
