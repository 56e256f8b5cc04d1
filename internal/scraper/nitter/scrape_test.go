package nitter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mirrorfeed/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func timelinePage(snippets ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="timeline">`)
	for _, s := range snippets {
		fmt.Fprintf(&b, `<div class="timeline-item"><div class="tweet-content media-body">%s</div></div>`, s)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

func serve(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(mirrors ...string) *Client {
	return NewClient(ClientOptions{
		Mirrors:           mirrors,
		Timeout:           time.Second * 5,
		RequestsPerSecond: 1000,
	})
}

func TestFetchFirstMirror(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scraper/nitter")
	defer cleanup()

	var gotPath string
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, timelinePage("a first post with text", "a second post with text"))
	})

	client := newTestClient(srv.URL)
	snippets, mirror, err := client.Fetch(context.Background(), "someuser")
	require.NoError(t, err)
	require.Equal(t, "/someuser", gotPath)
	require.Equal(t, srv.URL, mirror)
	require.Equal(t, []string{"a first post with text", "a second post with text"}, snippets)
}

func TestFetchFallsBackToNextMirror(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scraper/nitter")
	defer cleanup()

	broken := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	healthy := serve(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, timelinePage("a post from the second mirror"))
	})

	client := newTestClient(broken.URL, healthy.URL)
	snippets, mirror, err := client.Fetch(context.Background(), "someuser")
	require.NoError(t, err)
	require.Equal(t, healthy.URL, mirror)
	require.Len(t, snippets, 1)
}

func TestFetchAllMirrorsFailed(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scraper/nitter")
	defer cleanup()

	broken := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	errorPanel := serve(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div class="error-panel">user not found</div></body></html>`)
	})

	client := newTestClient(broken.URL, errorPanel.URL)
	snippets, mirror, err := client.Fetch(context.Background(), "someuser")
	require.ErrorIs(t, err, ErrAllMirrorsFailed)
	require.Empty(t, mirror)
	require.Empty(t, snippets)
}

func TestFetchZeroItemsIsNotAFailure(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scraper/nitter")
	defer cleanup()

	quiet := serve(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, timelinePage())
	})

	client := newTestClient(quiet.URL)
	snippets, mirror, err := client.Fetch(context.Background(), "someuser")
	require.NoError(t, err)
	require.Equal(t, quiet.URL, mirror)
	require.Empty(t, snippets)
}

func TestExtractFiltersAndCleans(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scraper/nitter")
	defer cleanup()

	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, timelinePage(
			"ok",     // too short, dropped
			"    ",   // blank, dropped
			"ひらがな短い", // 6 runes (18 bytes), still too short
			"some   text\n\twith   messy whitespace",
			"another perfectly fine post",
		))
	})

	client := newTestClient(srv.URL)
	snippets, _, err := client.Fetch(context.Background(), "someuser")
	require.NoError(t, err)
	require.Equal(t, []string{
		"some text with messy whitespace",
		"another perfectly fine post",
	}, snippets)
}

func TestExtractCapsItemCount(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scraper/nitter")
	defer cleanup()

	var many []string
	for i := 0; i < 30; i++ {
		many = append(many, fmt.Sprintf("post number %d with padding text", i))
	}
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, timelinePage(many...))
	})

	client := NewClient(ClientOptions{
		Mirrors:           []string{srv.URL},
		MaxItems:          5,
		RequestsPerSecond: 1000,
	})
	snippets, _, err := client.Fetch(context.Background(), "someuser")
	require.NoError(t, err)
	require.Len(t, snippets, 5)
	require.Equal(t, "post number 0 with padding text", snippets[0])
}

func TestSelectorFallback(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scraper/nitter")
	defer cleanup()

	// older mirror markup: bare .tweet-content, no media-body class
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div class="timeline">`+
			`<div class="tweet-content">a post in the older markup</div>`+
			`</div></body></html>`)
	})

	client := newTestClient(srv.URL)
	snippets, _, err := client.Fetch(context.Background(), "someuser")
	require.NoError(t, err)
	require.Equal(t, []string{"a post in the older markup"}, snippets)
}
