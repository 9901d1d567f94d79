package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("hunter2secret", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "hunter2secret", hash)

	require.True(t, VerifyPassword(hash, "hunter2secret"))
	require.False(t, VerifyPassword(hash, "wrong-password"))
	require.False(t, VerifyPassword("not-a-bcrypt-hash", "hunter2secret"))
}
