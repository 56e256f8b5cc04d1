// Package fingerprint reduces an account's snippet sequence to a
// compact value used purely for change detection.
//
// Only the first PrefixItems snippets participate, each truncated to
// MaxItemRunes, so a change further down the timeline (or past the
// truncation boundary) is invisible to the hash. The sequence is
// trusted to be newest-first as rendered by the mirror.
package fingerprint

import (
	"fmt"
	"strings"

	"mirrorfeed/lib/textutil"

	"github.com/cespare/xxhash/v2"
)

const (
	// number of leading snippets that participate in the hash
	PrefixItems = 3
	// per-snippet truncation length
	MaxItemRunes = 200
)

// EmptySentinel is returned for an empty snippet sequence. Real
// digests are exactly 16 hex characters, so the sentinel can never
// collide with one.
const EmptySentinel = "empty"

func Compute(snippets []string) string {
	if len(snippets) == 0 {
		return EmptySentinel
	}

	n := len(snippets)
	if n > PrefixItems {
		n = PrefixItems
	}

	var joined strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			joined.WriteByte('\n')
		}
		joined.WriteString(textutil.TruncateRunes(snippets[i], MaxItemRunes))
	}

	return fmt.Sprintf("%016x", xxhash.Sum64String(joined.String()))
}
