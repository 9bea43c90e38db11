package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundtrip(t *testing.T) {
	InitTokens("test-secret", 60)

	token, err := GenerateToken("user-1", "freelancer")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "freelancer", claims.Role)
}

func TestParseToken_Invalid(t *testing.T) {
	InitTokens("test-secret", 60)

	_, err := ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Токен, подписанный другим секретом
	token, err := GenerateToken("user-1", "client")
	require.NoError(t, err)

	InitTokens("other-secret", 60)
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	InitTokens("test-secret", -1)

	token, err := GenerateToken("user-1", "client")
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestGenerateRefreshToken(t *testing.T) {
	first, err := GenerateRefreshToken()
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
