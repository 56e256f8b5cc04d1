package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)

func TestRoundTrip(t *testing.T) {
	// snippets arrive already cleaned (trimmed, collapsed), so the
	// fixture has to be too: xml parsers trim text content, and a
	// trailing space would never survive extraction anyway
	snippets := []string{
		"a first post with enough text to matter",
		"a second post, shorter",
		strings.TrimSpace(strings.Repeat("long ", 40)),
	}

	document, err := Build("someuser", snippets, "https://nitter.net", now)
	require.NoError(t, err)

	parsed, err := gofeed.NewParser().ParseString(document)
	require.NoError(t, err)

	require.Equal(t, "X (Twitter) - @someuser", parsed.Title)
	require.Equal(t, "https://twitter.com/someuser", parsed.Link)
	require.Equal(t, "Fetched via Nitter (https://nitter.net)", parsed.Description)
	require.Equal(t, "en", parsed.Language)

	require.Len(t, parsed.Items, len(snippets))
	for i, item := range parsed.Items {
		require.Equal(t, snippets[i], item.Description)
		if len([]rune(snippets[i])) <= 80 {
			require.Equal(t, snippets[i], item.Title)
		} else {
			require.True(t, strings.HasSuffix(item.Title, "…"))
			require.LessOrEqual(t, len([]rune(item.Title)), 80)
		}
	}
}

func TestUniqueEntryIds(t *testing.T) {
	snippets := []string{"a first post here", "a second post here"}

	document, err := Build("someuser", snippets, "https://nitter.net", now)
	require.NoError(t, err)

	parsed, err := gofeed.NewParser().ParseString(document)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, item := range parsed.Items {
		require.NotEmpty(t, item.GUID)
		require.False(t, seen[item.GUID])
		seen[item.GUID] = true
	}
}

func TestPlaceholderWhenEmpty(t *testing.T) {
	document, err := Build("someuser", nil, "", now)
	require.NoError(t, err)

	parsed, err := gofeed.NewParser().ParseString(document)
	require.NoError(t, err)

	require.Equal(t, "Fetched via Nitter (N/A)", parsed.Description)
	require.Len(t, parsed.Items, 1)
	require.Equal(t, "No tweets fetched", parsed.Items[0].Title)
	require.NotEmpty(t, parsed.Items[0].GUID)
}

func TestPlaceholderIdsDifferAcrossGenerations(t *testing.T) {
	first, err := Build("someuser", nil, "", now)
	require.NoError(t, err)
	second, err := Build("someuser", nil, "", now.Add(time.Hour*13))
	require.NoError(t, err)

	a, err := gofeed.NewParser().ParseString(first)
	require.NoError(t, err)
	b, err := gofeed.NewParser().ParseString(second)
	require.NoError(t, err)

	require.NotEqual(t, a.Items[0].GUID, b.Items[0].GUID)
}
