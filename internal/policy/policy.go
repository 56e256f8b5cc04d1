// Package policy decides whether a freshly fetched snapshot of an
// account warrants rewriting its feed. It is a pure function of the
// prior state, the new fingerprint and count, and the clock.
package policy

import (
	"time"

	"mirrorfeed/internal/fingerprint"
	"mirrorfeed/internal/state"
)

type Reason string

const (
	FirstRun               Reason = "first_run"
	ContentChanged         Reason = "content_changed"
	NoChange               Reason = "no_change"
	KeepAlive              Reason = "keep_alive"
	SkippedTooManyFailures Reason = "skipped_too_many_failures"
)

type Decision struct {
	Update bool
	Reason Reason
}

const (
	DefaultKeepAlive   = 12 * time.Hour
	DefaultMaxFailures = 3
)

type Policy struct {
	// quiet period after which a stable empty account gets a
	// liveness refresh
	KeepAlive time.Duration
	// consecutive total fetch failures before the account is
	// skipped without fetching
	MaxFailures int
}

func Default() Policy {
	return Policy{
		KeepAlive:   DefaultKeepAlive,
		MaxFailures: DefaultMaxFailures,
	}
}

// ShouldSkip reports whether the account's failure streak is long
// enough that fetching it again this cycle is wasted work.
func (p Policy) ShouldSkip(st state.AccountState) bool {
	return st.ConsecutiveFailures >= p.MaxFailures
}

func (p Policy) Decide(st state.AccountState, newFingerprint string, newCount int, now time.Time) Decision {
	if st.Fingerprint == "" {
		return Decision{Update: true, Reason: FirstRun}
	}
	if newFingerprint != st.Fingerprint {
		return Decision{Update: true, Reason: ContentChanged}
	}

	if newFingerprint == fingerprint.EmptySentinel && st.LastItemCount == 0 {
		if now.Sub(st.LastUpdateTime) >= p.KeepAlive {
			return Decision{Update: true, Reason: KeepAlive}
		}
		return Decision{Update: false, Reason: NoChange}
	}

	return Decision{Update: false, Reason: NoChange}
}
