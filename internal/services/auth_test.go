package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testTokenService() TokenService {
	return TokenService{
		Secret:     []byte("test-secret"),
		Issuer:     "adaptlearn",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	tokens := testTokenService()

	hash, err := tokens.HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.True(t, tokens.VerifyPassword("correct horse", hash))
	assert.False(t, tokens.VerifyPassword("wrong horse", hash))
}

func TestVerifyPasswordBcryptFallback(t *testing.T) {
	tokens := testTokenService()

	hash, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, tokens.VerifyPassword("legacy-pass", string(hash)))
	assert.False(t, tokens.VerifyPassword("other", string(hash)))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tokens := testTokenService()

	signed, exp, err := tokens.CreateAccessToken("alice", "alice@example.com")
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	token, claims, err := tokens.ParseToken(signed)
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "alice", claims["sub"])
	assert.Equal(t, "alice@example.com", claims["email"])
	assert.Equal(t, "access", claims["typ"])
}

func TestRefreshTokenHasRefreshType(t *testing.T) {
	tokens := testTokenService()

	signed, err := tokens.CreateRefreshToken("alice")
	require.NoError(t, err)

	token, claims, err := tokens.ParseToken(signed)
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "refresh", claims["typ"])
}

func TestParseTokenRejectsWrongIssuer(t *testing.T) {
	other := testTokenService()
	other.Issuer = "someone-else"
	signed, _, err := other.CreateAccessToken("alice", "")
	require.NoError(t, err)

	_, _, err = testTokenService().ParseToken(signed)
	assert.Error(t, err)
}

func TestParseTokenRejectsTamperedSignature(t *testing.T) {
	tokens := testTokenService()
	signed, _, err := tokens.CreateAccessToken("alice", "")
	require.NoError(t, err)

	forged := testTokenService()
	forged.Secret = []byte("other-secret")
	_, _, err = forged.ParseToken(signed)
	assert.Error(t, err)
}
