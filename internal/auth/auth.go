// internal/auth/auth.go
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TokenConfig holds the configuration for token generation
type TokenConfig struct {
	Secret     []byte
	Expiration time.Duration
}

// Token represents an authentication token
// Tier 决定调用方能否使用付费语音
type Token struct {
	UserID    string `json:"user_id"`
	Tier      string `json:"tier"`
	ExpiresAt int64  `json:"expires_at"`
	IssuedAt  int64  `json:"issued_at"`
}

const (
	TierFree    = "free"
	TierPremium = "premium"
)

// GenerateToken creates a new authentication token
func GenerateToken(userID, tier string, config *TokenConfig) (string, error) {
	if len(config.Secret) == 0 {
		return "", fmt.Errorf("secret key is required")
	}
	if tier != TierFree && tier != TierPremium {
		return "", fmt.Errorf("unknown tier: %s", tier)
	}

	now := time.Now()
	token := &Token{
		UserID:    userID,
		Tier:      tier,
		ExpiresAt: now.Add(config.Expiration).Unix(),
		IssuedAt:  now.Unix(),
	}

	payload := fmt.Sprintf("%s|%s|%d|%d", token.UserID, token.Tier, token.ExpiresAt, token.IssuedAt)

	h := hmac.New(sha256.New, config.Secret)
	h.Write([]byte(payload))
	signature := h.Sum(nil)

	encodedPayload := base64.URLEncoding.EncodeToString([]byte(payload))
	encodedSignature := base64.URLEncoding.EncodeToString(signature)

	return fmt.Sprintf("%s.%s", encodedPayload, encodedSignature), nil
}

// ParseToken parses and validates a token
func ParseToken(tokenString string, config *TokenConfig) (*Token, error) {
	if len(config.Secret) == 0 {
		return nil, fmt.Errorf("secret key is required")
	}

	parts := strings.Split(tokenString, ".")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid token format")
	}

	payloadBytes, err := base64.URLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid token payload: %w", err)
	}

	signatureBytes, err := base64.URLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid token signature: %w", err)
	}

	expected := hmac.New(sha256.New, config.Secret)
	expected.Write(payloadBytes)

	if !hmac.Equal(signatureBytes, expected.Sum(nil)) {
		return nil, fmt.Errorf("invalid token signature")
	}

	payloadParts := strings.Split(string(payloadBytes), "|")
	if len(payloadParts) != 4 {
		return nil, fmt.Errorf("invalid payload format")
	}

	expiresAt, err := strconv.ParseInt(payloadParts[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid expiration timestamp: %w", err)
	}
	issuedAt, err := strconv.ParseInt(payloadParts[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid issued timestamp: %w", err)
	}

	if time.Now().Unix() > expiresAt {
		return nil, fmt.Errorf("token has expired")
	}

	return &Token{
		UserID:    payloadParts[0],
		Tier:      payloadParts[1],
		ExpiresAt: expiresAt,
		IssuedAt:  issuedAt,
	}, nil
}

// IsPremium reports whether the token grants premium voice access
func (t *Token) IsPremium() bool {
	return t != nil && t.Tier == TierPremium
}

// GenerateSecureKey generates a secure random key for token signing
func GenerateSecureKey(length int) ([]byte, error) {
	if length <= 0 {
		length = 32 // Default to 256 bits
	}

	key := make([]byte, length)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}

	return key, nil
}
