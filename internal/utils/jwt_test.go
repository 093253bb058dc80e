package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)

	tok, err := m.Generate(42, true, TokenAccess)
	require.NoError(t, err)

	claims, err := m.Validate(tok, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestJWTRejectsWrongType(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)

	tok, err := m.Generate(1, false, TokenAccess)
	require.NoError(t, err)

	_, err = m.Validate(tok, TokenRefresh)
	assert.Error(t, err)
}

func TestJWTRejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	tok, err := m.Generate(1, false, TokenAccess)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Validate(tok, TokenAccess)
	assert.Error(t, err)
}

func TestJWTRejectsForeignSignature(t *testing.T) {
	tok, err := NewJWTManager("one", time.Minute, time.Hour).Generate(1, false, TokenAccess)
	require.NoError(t, err)

	_, err = NewJWTManager("two", time.Minute, time.Hour).Validate(tok, TokenAccess)
	assert.Error(t, err)
}
