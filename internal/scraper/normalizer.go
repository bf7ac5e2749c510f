package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractText returns the visible text under n. Script and style contents are
// skipped.
func ExtractText(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
		return ""
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(ExtractText(c))
		if c.Type == html.ElementNode && isBlock(c.DataAtom) {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// CleanText collapses runs of whitespace (non-breaking spaces included) and trims.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func textOf(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	return CleanText(ExtractText(sel.Get(0)))
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.Br, atom.P, atom.Div, atom.Li, atom.Td, atom.Th, atom.Tr, atom.H1, atom.H2, atom.H3, atom.H4:
		return true
	}
	return false
}
