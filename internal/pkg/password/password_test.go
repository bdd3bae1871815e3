package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndMatch(t *testing.T) {
	hash, err := Hash("secret1")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", hash)
	require.True(t, Match(hash, "secret1"))
	require.False(t, Match(hash, "secret2"))
}

func TestMatchWithoutHash(t *testing.T) {
	require.False(t, Match("", "secret1"))
	require.False(t, Match("", ""))
}

func TestHashRejectsEmptyAndOversized(t *testing.T) {
	_, err := Hash("")
	require.ErrorIs(t, err, ErrEmpty)
	_, err = Hash(strings.Repeat("a", MaxLength+1))
	require.Error(t, err)
}
