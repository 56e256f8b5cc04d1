package fingerprint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmptySequence(t *testing.T) {
	require.Equal(t, EmptySentinel, Compute(nil))
	require.Equal(t, EmptySentinel, Compute([]string{}))
}

func TestSentinelNeverCollides(t *testing.T) {
	// real digests are 16 hex characters, the sentinel is not
	inputs := [][]string{
		{"empty"},
		{EmptySentinel},
		{"a reasonably long post about something"},
		{"empty", "empty", "empty"},
	}
	for _, in := range inputs {
		fp := Compute(in)
		require.NotEqual(t, EmptySentinel, fp)
		require.Len(t, fp, 16)
	}
}

func TestEqualPrefixesHashEqual(t *testing.T) {
	a := []string{"first post", "second post", "third post"}
	b := []string{"first post", "second post", "third post", "fourth post"}

	// anything past the Kth item is invisible
	require.Equal(t, Compute(a), Compute(b))
}

func TestChangeWithinPrefixIsVisible(t *testing.T) {
	a := []string{"first post", "second post", "third post"}
	b := []string{"first post", "second post", "third post edited"}

	require.NotEqual(t, Compute(a), Compute(b))
}

func TestChangePastTruncationIsInvisible(t *testing.T) {
	long := strings.Repeat("x", MaxItemRunes)

	a := []string{long + "tail one"}
	b := []string{long + "a different tail"}

	require.Equal(t, Compute(a), Compute(b))
}

func TestDeterminism(t *testing.T) {
	snippets := []string{"first post", "second post"}

	first := Compute(snippets)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Compute(snippets))
	}
}

func TestOrderMatters(t *testing.T) {
	a := []string{"first post", "second post"}
	b := []string{"second post", "first post"}

	require.NotEqual(t, Compute(a), Compute(b))
}
