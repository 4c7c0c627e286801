package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInviteCode(t *testing.T) {
	code, err := GenerateInviteCode()
	require.NoError(t, err)
	assert.Len(t, code, InviteCodeLength)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(inviteAlphabet, r), "unexpected rune %q", r)
	}
}

func TestGenerateInviteCode_AvoidsAmbiguousCharacters(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateInviteCode()
		require.NoError(t, err)
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "1")
		assert.NotContains(t, code, "I")
	}
}

func TestGenerateInviteCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := GenerateInviteCode()
		require.NoError(t, err)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}
