// Package runner drives one full cycle over the account list:
// skip-check, fetch, fingerprint, decide, and the conditional feed
// write plus state/history bookkeeping.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mirrorfeed/internal/feed"
	"mirrorfeed/internal/fingerprint"
	"mirrorfeed/internal/history"
	"mirrorfeed/internal/policy"
	"mirrorfeed/internal/state"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("runner")

type Fetcher interface {
	Fetch(ctx context.Context, account string) (snippets []string, mirror string, err error)
}

type Runner struct {
	Fetcher Fetcher
	States  state.Store
	Policy  policy.Policy
	// optional, accepted updates are not logged when nil
	History *history.Store
	// where <account>.rss documents land
	FeedsDir string
	// when set, Run writes index.txt mapping accounts to
	// <PublicBaseUrl>/<account>.rss
	PublicBaseUrl string
	// politeness pause between fetched accounts
	AccountDelay time.Duration
	// overridable for tests, defaults to time.Now
	Now func() time.Time
}

type Summary struct {
	Total   int
	Updated int
	Skipped int
	Failed  int
}

// Run processes every account sequentially. Per-account problems are
// contained: a total fetch failure only bumps that account's failure
// counter. The returned error covers infrastructure breakage (an
// unwritable feeds dir), not content outcomes.
func (r Runner) Run(ctx context.Context, accounts []string) (Summary, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	runId := uuid.NewString()
	summary := Summary{Total: len(accounts)}

	err := os.MkdirAll(r.FeedsDir, 0755)
	if err != nil {
		return summary, fmt.Errorf("create feeds dir: %w", err)
	}

	var errlist []error
	fetched := false

	for _, account := range accounts {
		if ctx.Err() != nil {
			errlist = append(errlist, ctx.Err())
			break
		}
		if fetched {
			if err := r.pause(ctx); err != nil {
				errlist = append(errlist, err)
				break
			}
		}

		st := r.States.Load(account)
		if r.Policy.ShouldSkip(st) {
			slog.InfoContext(ctx, "skipping account, too many consecutive failures",
				"account", account,
				"failures", st.ConsecutiveFailures,
				"reason", policy.SkippedTooManyFailures,
			)
			summary.Skipped++
			continue
		}

		fetched = true
		err := r.processAccount(ctx, runId, account, st, now(), &summary)
		if err != nil {
			errlist = append(errlist, err)
		}
	}

	if r.PublicBaseUrl != "" {
		if err := r.writeIndex(accounts); err != nil {
			errlist = append(errlist, err)
		}
	}

	span.SetAttributes(
		attribute.Int("total", summary.Total),
		attribute.Int("updated", summary.Updated),
		attribute.Int("skipped", summary.Skipped),
		attribute.Int("failed", summary.Failed),
	)
	slog.InfoContext(ctx, "run complete",
		"total", summary.Total,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)

	return summary, errors.Join(errlist...)
}

func (r Runner) processAccount(ctx context.Context, runId, account string, st state.AccountState, now time.Time, summary *Summary) error {
	ctx, span := tracer.Start(ctx, "processAccount")
	defer span.End()
	span.SetAttributes(attribute.String("account", account))

	snippets, mirror, err := r.Fetcher.Fetch(ctx, account)
	if err != nil {
		// the account just sits this cycle out
		st.ConsecutiveFailures++
		summary.Failed++
		slog.WarnContext(ctx, "fetch failed on every mirror",
			"account", account,
			"consecutive_failures", st.ConsecutiveFailures,
		)
		return r.saveState(ctx, account, st)
	}
	if len(snippets) > 0 {
		st.ConsecutiveFailures = 0
	}

	fp := fingerprint.Compute(snippets)
	decision := r.Policy.Decide(st, fp, len(snippets), now)
	slog.DebugContext(ctx, "decision",
		"account", account,
		"fingerprint", fp,
		"items", len(snippets),
		"update", decision.Update,
		"reason", decision.Reason,
	)

	if !decision.Update {
		return r.saveState(ctx, account, st)
	}

	document, err := feed.Build(account, snippets, mirror, now)
	if err != nil {
		return fmt.Errorf("build feed for %s: %w", account, err)
	}
	err = r.writeFeed(account, document)
	if err != nil {
		return err
	}

	st.Fingerprint = fp
	st.LastUpdateTime = now
	st.LastItemCount = len(snippets)
	st.LastMirror = mirror
	summary.Updated++

	slog.InfoContext(ctx, "feed updated",
		"account", account,
		"reason", decision.Reason,
		"items", len(snippets),
		"mirror", mirror,
	)

	if r.History != nil {
		err := r.History.Record(ctx, history.Update{
			RunId:       runId,
			Account:     account,
			Time:        now,
			Reason:      string(decision.Reason),
			Fingerprint: fp,
			ItemCount:   len(snippets),
			Mirror:      mirror,
		})
		if err != nil {
			slog.WarnContext(ctx, "failed to record update history", "account", account, "err", err)
		}
	}

	return r.saveState(ctx, account, st)
}

func (r Runner) saveState(ctx context.Context, account string, st state.AccountState) error {
	err := r.States.Save(account, st)
	if err != nil {
		slog.ErrorContext(ctx, "failed to persist account state", "account", account, "err", err)
		return err
	}
	return nil
}

// feed documents get the same temp-and-rename treatment as state
// records so a reader polling the directory never sees a torn file
func (r Runner) writeFeed(account, document string) error {
	tmp, err := os.CreateTemp(r.FeedsDir, account+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp feed file: %w", err)
	}
	_, err = tmp.WriteString(document)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write feed for %s: %w", account, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	err = os.Rename(tmp.Name(), FeedPath(r.FeedsDir, account))
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace feed for %s: %w", account, err)
	}
	return nil
}

func FeedPath(dir, account string) string {
	return filepath.Join(dir, account+".rss")
}

// writeIndex emits a plain-text account-to-url listing for external
// feed readers.
func (r Runner) writeIndex(accounts []string) error {
	base := strings.TrimSuffix(r.PublicBaseUrl, "/")

	var out strings.Builder
	for _, account := range accounts {
		fmt.Fprintf(&out, "%s %s/%s.rss\n", account, base, account)
	}

	path := filepath.Join(r.FeedsDir, "index.txt")
	err := os.WriteFile(path, []byte(out.String()), 0644)
	if err != nil {
		return fmt.Errorf("write feed index: %w", err)
	}
	return nil
}

func (r Runner) pause(ctx context.Context) error {
	if r.AccountDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(r.AccountDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
