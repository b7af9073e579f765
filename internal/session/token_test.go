package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundtrip(t *testing.T) {
	sid := uuid.New()

	token, err := GenerateToken("secret", sid, time.Hour)
	require.NoError(t, err)

	parsed, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, sid, parsed)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", uuid.New(), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other", token)
	assert.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("secret", uuid.New(), -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}
