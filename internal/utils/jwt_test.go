package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"

	tok, err := NewAccessToken(secret, 42, 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	require.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), tok.Exp, 5*time.Second)

	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.EqualValues(t, 42, claims["sub"])
}

func TestAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("right-secret", 1, 15)
	require.NoError(t, err)

	_, err = jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	require.Error(t, err)
}

func TestRefreshTokenHashing(t *testing.T) {
	a, err := NewRefreshToken(30)
	require.NoError(t, err)
	b, err := NewRefreshToken(30)
	require.NoError(t, err)

	require.NotEqual(t, a.Raw, b.Raw)
	require.Len(t, a.Raw, 96) // 48 random bytes, hex encoded

	// The stored hash is stable and never equals the raw token.
	require.Equal(t, HashRefreshRaw(a.Raw), HashRefreshRaw(a.Raw))
	require.NotEqual(t, a.Raw, HashRefreshRaw(a.Raw))
}
