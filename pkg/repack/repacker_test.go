package repack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharRepackerYieldsEachCharacter(t *testing.T) {
	r := NewCharRepacker()
	units := r.Feed([]rune("ab"))
	assert.Equal(t, []string{"a", "b"}, units)
	assert.Nil(t, r.Feed(nil))
}

func TestTokenRepackerYieldsOnTokenEnd(t *testing.T) {
	r := NewTokenRepacker()
	assert.Nil(t, r.Feed([]rune("ab")))
	assert.Nil(t, r.Feed([]rune("cd")))
	assert.Equal(t, []string{"abcd"}, r.EndToken())
	// Subsequent EndToken with nothing accumulated yields nothing.
	assert.Nil(t, r.EndToken())
}

func TestTokenRepackerSuppressesEmptyToken(t *testing.T) {
	r := NewTokenRepacker()
	assert.Nil(t, r.EndToken())
}

func TestChunkRepackerRejectsNonPositiveN(t *testing.T) {
	_, err := NewChunkRepacker(0)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
	_, err = NewChunkRepacker(-1)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestChunkRepackerSplitsAcrossFeeds(t *testing.T) {
	r, err := NewChunkRepacker(2)
	require.NoError(t, err)

	units := r.Feed([]rune("a"))
	assert.Nil(t, units)

	units = r.Feed([]rune("bcd"))
	assert.Equal(t, []string{"ab", "cd"}, units)

	assert.Nil(t, r.Close())
}

func TestChunkRepackerFlushesRemainderAtClose(t *testing.T) {
	r, err := NewChunkRepacker(3)
	require.NoError(t, err)

	assert.Equal(t, []string{"abc"}, r.Feed([]rune("abcde")))
	assert.Equal(t, []string{"de"}, r.Close())
	assert.Nil(t, r.Close())
}
