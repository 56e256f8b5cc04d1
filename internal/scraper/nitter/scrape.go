package nitter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"mirrorfeed/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// selector fallback list: some mirrors nest the tweet text differently
// depending on version and theme, the first selector with any matches
// wins.
var snippetSelectors = []string{
	".tweet-content",
	".timeline-item .tweet-content.media-body",
	".tweet-body .tweet-content",
}

// containers that mark a page as an actual (possibly empty) profile
// timeline rather than an error page
var timelineSelectors = []string{
	".timeline",
	".timeline-container",
}

func (c *Client) fetchMirror(ctx context.Context, mirror, account string) (snippets []string, hasTimeline bool, err error) {
	link := fmt.Sprintf("%s/%s", mirror, account)
	slog.DebugContext(ctx, "fetching mirror", "account", account, "url", link)

	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		slog.WarnContext(ctx, "mirror request failed", "account", account, "mirror", mirror, "err", err)
		return nil, false, err
	}
	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		slog.WarnContext(ctx, "mirror returned non-success status",
			"account", account, "mirror", mirror, "status", res.StatusCode())
		return nil, false, fmt.Errorf("%s returned status %d", mirror, res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		slog.WarnContext(ctx, "mirror returned unparseable markup", "account", account, "mirror", mirror, "err", err)
		return nil, false, err
	}

	if doc.Find(".error-panel").Length() > 0 {
		return nil, false, fmt.Errorf("%s rendered an error panel for %s", mirror, account)
	}

	for _, sel := range timelineSelectors {
		if doc.Find(sel).Length() > 0 {
			hasTimeline = true
			break
		}
	}

	return c.extract(doc), hasTimeline, nil
}

// extract applies the selector fallback list, cleans each match and
// filters the trivially short ones, capped at the configured count.
func (c *Client) extract(doc *goquery.Document) []string {
	var matches *goquery.Selection
	for _, sel := range snippetSelectors {
		found := doc.Find(sel)
		if found.Length() > 0 {
			matches = found
			break
		}
	}
	if matches == nil {
		return nil
	}

	var snippets []string
	matches.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := htmlutil.CleanText(sel)
		// the minimum is in characters, not bytes
		if utf8.RuneCountInString(text) < c.minLen {
			return true
		}
		snippets = append(snippets, text)
		return len(snippets) < c.maxItems
	})

	return snippets
}
