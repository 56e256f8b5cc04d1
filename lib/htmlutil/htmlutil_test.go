package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestGetText(t *testing.T) {
	doc := parse(t, `<div id="x">hello <b>nested <i>world</i></b></div>`)

	sel := doc.Find("#x")
	require.Len(t, sel.Nodes, 1)
	require.Equal(t, "hello nested world", GetText(sel.Nodes[0]))
}

func TestCleanText(t *testing.T) {
	doc := parse(t, "<p>some   text\n\twith<b> markup</b> inside</p>")

	require.Equal(t, "some text with markup inside", CleanText(doc.Find("p")))
}
