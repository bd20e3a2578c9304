package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	issuer := NewIssuer("s3cret", time.Hour)

	token, expiresAt, err := issuer.GenerateToken()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
}

func TestRejectsForeignSecret(t *testing.T) {
	token, _, err := NewIssuer("one", time.Hour).GenerateToken()
	require.NoError(t, err)

	_, err = NewIssuer("two", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestRejectsExpired(t *testing.T) {
	issuer := NewIssuer("s3cret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := issuer.GenerateToken()
	require.NoError(t, err)

	_, err = NewIssuer("s3cret", time.Minute).ValidateToken(token)
	assert.Error(t, err)
}
