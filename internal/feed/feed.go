// Package feed assembles the RSS 2.0 document for one account.
package feed

import (
	"fmt"
	"time"

	"mirrorfeed/lib/textutil"

	"github.com/gorilla/feeds"
)

// display length for entry titles
const titleRunes = 80

// Build renders a full feed document from the account's current
// snippets. The document is regenerated wholesale on every accepted
// update, there is no entry merging. Per-item publish times are the
// generation time since the scraped markup carries no usable
// timestamps.
func Build(account string, snippets []string, mirror string, now time.Time) (string, error) {
	source := mirror
	if source == "" {
		source = "N/A"
	}
	link := fmt.Sprintf("https://twitter.com/%s", account)

	f := &feeds.Feed{
		Title:       fmt.Sprintf("X (Twitter) - @%s", account),
		Link:        &feeds.Link{Href: link},
		Description: fmt.Sprintf("Fetched via Nitter (%s)", source),
		Updated:     now,
	}

	if len(snippets) > 0 {
		for i, snippet := range snippets {
			f.Items = append(f.Items, &feeds.Item{
				Title:       textutil.Ellipsize(snippet, titleRunes),
				Link:        &feeds.Link{Href: link},
				Description: snippet,
				Id:          fmt.Sprintf("%s-%d-%d", account, i, now.Unix()),
				Created:     now,
			})
		}
	} else {
		// the placeholder gets a fresh id each generation so feed
		// readers can tell successive keep-alives apart
		f.Items = append(f.Items, &feeds.Item{
			Title:       "No tweets fetched",
			Link:        &feeds.Link{Href: link},
			Description: "All mirrors failed or the account has no public posts.",
			Id:          fmt.Sprintf("%s-empty-%d", account, now.Unix()),
			Created:     now,
		})
	}

	rss := (&feeds.Rss{Feed: f}).RssFeed()
	rss.Language = "en"

	return feeds.ToXML(rss)
}
