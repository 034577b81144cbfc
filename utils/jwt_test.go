package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	t.Setenv("JWT_KEY", "test-secret")

	token, err := GenerateJWT("64f1b2a3c4d5e6f708192a3b", "jane@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "64f1b2a3c4d5e6f708192a3b", claims.ID)
	assert.Equal(t, "jane@example.com", claims.Email)

	expiry := time.Unix(claims.ExpiresAt, 0)
	assert.WithinDuration(t, time.Now().Add(3*time.Hour), expiry, time.Minute)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	t.Setenv("JWT_KEY", "first-secret")
	token, err := GenerateJWT("64f1b2a3c4d5e6f708192a3b", "jane@example.com")
	require.NoError(t, err)

	t.Setenv("JWT_KEY", "other-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestGenerateJWTMissingSecret(t *testing.T) {
	t.Setenv("JWT_KEY", "")

	_, err := GenerateJWT("64f1b2a3c4d5e6f708192a3b", "jane@example.com")
	assert.Error(t, err)
}
