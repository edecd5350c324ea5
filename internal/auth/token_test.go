package auth

import (
	"testing"
	"time"

	"ecowork_backend/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestConfig(t *testing.T, secret string, ttlMinutes int) {
	t.Helper()
	prev := config.AppConfig

	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.TTL = ttlMinutes
	config.AppConfig = cfg

	t.Cleanup(func() { config.AppConfig = prev })
}

func TestGenerateAndParseToken(t *testing.T) {
	setTestConfig(t, "unit-test-secret", 60)

	token, err := GenerateToken("user-123", "professional")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "professional", claims.Role)
	assert.Equal(t, "user-123", claims.Subject)
}

func TestParseToken_WrongSecret(t *testing.T) {
	setTestConfig(t, "secret-one", 60)
	token, err := GenerateToken("user-123", "client")
	require.NoError(t, err)

	setTestConfig(t, "secret-two", 60)
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	setTestConfig(t, "unit-test-secret", 60)

	claims := &Claims{
		UserID: "user-123",
		Role:   "client",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unit-test-secret"))
	require.NoError(t, err)

	_, err = ParseToken(expired)
	assert.Error(t, err)
}

func TestParseToken_WrongSigningMethod(t *testing.T) {
	setTestConfig(t, "unit-test-secret", 60)

	// alg=none tokens must be rejected.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user-123"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(signed)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	setTestConfig(t, "unit-test-secret", 60)

	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}
