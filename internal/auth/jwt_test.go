package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateTokens(t *testing.T) {
	a := NewJWTAuthenticator("access-secret", "refresh-secret", "vairanya-web", "vairanya")

	access, refresh, err := a.GenerateTokens(42, "admin")
	require.NoError(t, err)

	tok, err := a.ValidateAccessToken(access)
	require.NoError(t, err)
	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, "vairanya", claims["iss"])
	assert.Equal(t, "vairanya-web", claims["aud"])

	tok, err = a.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	claims, ok = tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	a := NewJWTAuthenticator("access-secret", "refresh-secret", "vairanya-web", "vairanya")

	access, refresh, err := a.GenerateTokens(7, "customer")
	require.NoError(t, err)

	// Each token only verifies against the secret that signed it.
	_, err = a.ValidateRefreshToken(access)
	assert.Error(t, err)
	_, err = a.ValidateAccessToken(refresh)
	assert.Error(t, err)
}
