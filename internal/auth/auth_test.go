package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("senha-secreta")
	require.NoError(t, err)
	assert.NotEqual(t, "senha-secreta", hash)

	assert.True(t, CheckPassword(hash, "senha-secreta"))
	assert.False(t, CheckPassword(hash, "senha-errada"))
	assert.False(t, CheckPassword("not-a-hash", "senha-secreta"))
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := IssueToken("segredo", 42, "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("segredo", token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseTokenRejections(t *testing.T) {
	token, err := IssueToken("segredo", 7, "user", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("outro-segredo", token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken("segredo", "lixo.token.aqui")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := IssueToken("segredo", 7, "user", -2*time.Minute)
	require.NoError(t, err)
	_, err = ParseToken("segredo", expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
