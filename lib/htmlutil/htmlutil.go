package htmlutil

import (
	"bytes"
	"strings"
	"unicode"

	"mirrorfeed/lib/textutil"

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

// CleanText pulls the text out of a selection and normalizes it the
// way a feed entry wants it: printable runes only, single spaces.
// Unicode spaces (nbsp and friends) become plain spaces before the
// collapse so words stay separated.
func CleanText(sel *goquery.Selection) string {
	var raw strings.Builder
	for _, node := range sel.Nodes {
		raw.WriteString(GetText(node))
	}

	text := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, raw.String())
	return textutil.CollapseWhitespace(text)
}
