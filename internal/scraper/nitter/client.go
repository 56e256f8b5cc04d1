// Package nitter fetches an account's recent posts from a list of
// mirror front-ends, falling back to the next mirror on any failure.
package nitter

import (
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"time"

	"mirrorfeed/lib/restyutil"
	"mirrorfeed/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("scraper/nitter")

// ErrAllMirrorsFailed means every mirror errored out for the account.
// Distinct from a mirror that answered with an empty timeline, which
// is a successful fetch of zero items.
var ErrAllMirrorsFailed = errors.New("all mirrors failed")

var instrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	instrumentOutput = out
}

const (
	DefaultUserAgent         = "Mozilla/5.0 (X11; Linux x86_64)"
	DefaultTimeout           = time.Second * 15
	DefaultMaxItems          = 15
	DefaultMinSnippetLength  = 10
	DefaultRequestsPerSecond = 2
)

var DefaultMirrors = []string{
	"https://nitter.net",
	"https://nitter.poast.org",
}

type ClientOptions struct {
	// ordered list of mirror base urls, tried first to last
	Mirrors          []string
	UserAgent        string
	Timeout          time.Duration
	MaxItems         int
	MinSnippetLength int
	// politeness cap shared across all mirrors
	RequestsPerSecond float64
}

type Client struct {
	mirrors  []string
	http     *resty.Client
	maxItems int
	minLen   int
}

func NewClient(opts ClientOptions) *Client {
	if len(opts.Mirrors) == 0 {
		opts.Mirrors = DefaultMirrors
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxItems == 0 {
		opts.MaxItems = DefaultMaxItems
	}
	if opts.MinSnippetLength == 0 {
		opts.MinSnippetLength = DefaultMinSnippetLength
	}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = DefaultRequestsPerSecond
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err == nil {
		client.SetCookieJar(jar)
	}
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", opts.UserAgent)
	client.SetTimeout(opts.Timeout)

	limiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 2)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(client, "scraper/nitter/http")
	restyutil.InstrumentClient(client, instrumentOutput)

	return &Client{
		mirrors:  opts.Mirrors,
		http:     client,
		maxItems: opts.MaxItems,
		minLen:   opts.MinSnippetLength,
	}
}

// Fetch tries each mirror in order and returns the first non-empty
// snippet list along with the mirror that produced it. A mirror that
// renders a recognizable but empty timeline counts as a successful
// fetch of zero items; only exhausting every mirror without a usable
// page is a failure.
func (c *Client) Fetch(ctx context.Context, account string) ([]string, string, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("account", account))

	emptyMirror := ""

	for _, mirror := range c.mirrors {
		snippets, hasTimeline, err := c.fetchMirror(ctx, mirror, account)
		if err != nil {
			span.RecordError(err)
			continue
		}
		if len(snippets) > 0 {
			span.SetAttributes(
				attribute.String("mirror", mirror),
				attribute.Int("snippets", len(snippets)),
			)
			return snippets, mirror, nil
		}
		if hasTimeline && emptyMirror == "" {
			emptyMirror = mirror
		}
	}

	if emptyMirror != "" {
		span.SetAttributes(attribute.String("mirror", emptyMirror))
		return nil, emptyMirror, nil
	}

	span.SetStatus(codes.Error, "all mirrors failed")
	return nil, "", fmt.Errorf("fetch %s: %w", account, ErrAllMirrorsFailed)
}
