package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func walk(a *Automaton, s string) *Node {
	n := a.Root()
	for _, r := range s {
		n = a.Step(n, r)
	}
	return n
}

func TestBuildAutomatonLongestMatchFirst(t *testing.T) {
	a := buildAutomaton([]string{"he", "she", "his", "hers"})

	n := walk(a, "ushers")
	matches := a.Matches(n)
	require.NotEmpty(t, matches)
	assert.Equal(t, "hers", matches[0].Keyword, "longest keyword ending here must win")
	assert.Equal(t, 4, matches[0].RuneLen)

	// At "ushe", both "she" and the failure-chain suffix "he" end together.
	var got []string
	for _, m := range a.Matches(walk(a, "ushe")) {
		got = append(got, m.Keyword)
	}
	assert.Contains(t, got, "she")
	assert.Contains(t, got, "he")
}

func TestBuildAutomatonEqualLengthSharedSuffixReportsOnlyMatched(t *testing.T) {
	// "xy" and "zy" share a suffix and have equal length; walking "zy"
	// must report only "zy", never the sibling keyword.
	a := buildAutomaton([]string{"xy", "zy"})
	n := a.Root()
	n = a.Step(n, 'z')
	n = a.Step(n, 'y')
	matches := a.Matches(n)
	require.Len(t, matches, 1)
	assert.Equal(t, "zy", matches[0].Keyword)
}

func TestBuildAutomatonNoMatch(t *testing.T) {
	a := buildAutomaton([]string{"foo"})
	n := walk(a, "bar")
	assert.Empty(t, a.Matches(n))
}

func TestBuildAutomatonEmptyKeywordSet(t *testing.T) {
	a := buildAutomaton(nil)
	assert.Equal(t, 0, a.MaxLen())
	n := walk(a, "anything")
	assert.Empty(t, a.Matches(n))
}

func TestBuildAutomatonMultiByteRunes(t *testing.T) {
	a := buildAutomaton([]string{"秘密"})
	assert.Equal(t, 2, a.MaxLen())
	n := walk(a, "它是秘密")
	matches := a.Matches(n)
	require.Len(t, matches, 1)
	assert.Equal(t, "秘密", matches[0].Keyword)
}

func TestAutomatonResetAfterFailureReturnsToRoot(t *testing.T) {
	a := buildAutomaton([]string{"cat"})
	n := a.Root()
	n = a.Step(n, 'c')
	n = a.Step(n, 'a')
	n = a.Step(n, 'x') // breaks the partial match
	assert.Empty(t, a.Matches(n))
}
