package htmlutil

import (
	"bytes"
	"strings"
	"unicode"

	"enrollmate-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// SelectionText returns the visible text of a selection with
// non-printable runes stripped and whitespace collapsed.
func SelectionText(sel *goquery.Selection) string {
	text := removeNonPrintable(sel.Text())
	return textutil.Clean(text)
}

// BlockText flattens a node into text the way browsers render
// innerText: block-level elements and <br> become line breaks, so
// line-oriented scanning over the result behaves like it would on a
// live page.
func BlockText(node *html.Node) string {
	var buffer bytes.Buffer
	blockTextRecursive(node, &buffer)
	return buffer.String()
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"div": true, "dl": true, "dt": true, "dd": true, "fieldset": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "table": true, "tr": true,
	"td": true, "th": true, "ul": true,
}

func blockTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	if node.Type == html.ElementNode && node.Data == "br" {
		buffer.WriteString("\n")
		return
	}

	isBlock := node.Type == html.ElementNode && blockTags[node.Data]
	if isBlock {
		buffer.WriteString("\n")
	}
	child := node.FirstChild
	for child != nil {
		blockTextRecursive(child, buffer)
		child = child.NextSibling
	}
	if isBlock {
		buffer.WriteString("\n")
	}
}
