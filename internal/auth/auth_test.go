// internal/auth/auth_test.go
package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenConfig() *TokenConfig {
	return &TokenConfig{
		Secret:     []byte("0123456789abcdef0123456789abcdef"),
		Expiration: time.Hour,
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	cfg := testTokenConfig()

	token, err := GenerateToken("user-42", TierPremium, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := ParseToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, "user-42", parsed.UserID)
	assert.Equal(t, TierPremium, parsed.Tier)
	assert.True(t, parsed.IsPremium())
}

func TestGenerateToken_UnknownTier(t *testing.T) {
	_, err := GenerateToken("user-42", "platinum", testTokenConfig())
	assert.Error(t, err)
}

func TestGenerateToken_MissingSecret(t *testing.T) {
	_, err := GenerateToken("user-42", TierFree, &TokenConfig{Expiration: time.Hour})
	assert.Error(t, err)
}

func TestParseToken_TamperedSignature(t *testing.T) {
	cfg := testTokenConfig()

	token, err := GenerateToken("user-42", TierFree, cfg)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 2)
	tampered := parts[0] + ".AAAA" + parts[1][4:]

	_, err = ParseToken(tampered, cfg)
	assert.Error(t, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("user-42", TierFree, testTokenConfig())
	require.NoError(t, err)

	other := &TokenConfig{
		Secret:     []byte("ffffffffffffffffffffffffffffffff"),
		Expiration: time.Hour,
	}

	_, err = ParseToken(token, other)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	cfg := &TokenConfig{
		Secret:     []byte("0123456789abcdef0123456789abcdef"),
		Expiration: -time.Minute,
	}

	token, err := GenerateToken("user-42", TierFree, cfg)
	require.NoError(t, err)

	_, err = ParseToken(token, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestParseToken_InvalidFormat(t *testing.T) {
	cfg := testTokenConfig()

	_, err := ParseToken("not-a-token", cfg)
	assert.Error(t, err)

	_, err = ParseToken("a.b.c", cfg)
	assert.Error(t, err)
}

func TestIsPremium(t *testing.T) {
	assert.False(t, (&Token{Tier: TierFree}).IsPremium())
	assert.True(t, (&Token{Tier: TierPremium}).IsPremium())

	var nilToken *Token
	assert.False(t, nilToken.IsPremium())
}

func TestGenerateSecureKey(t *testing.T) {
	key, err := GenerateSecureKey(32)
	require.NoError(t, err)
	assert.Len(t, key, 32)

	// 非法长度回退到默认32字节
	key, err = GenerateSecureKey(0)
	require.NoError(t, err)
	assert.Len(t, key, 32)
}
