package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests-32b"

func TestGenerateAndValidate(t *testing.T) {
	s := NewSigner(testSecret, "pos-test", 0)
	assert.Equal(t, DefaultTTL, s.TTL())

	id := uuid.New()
	tok, err := s.GenerateToken(id, "kasir1", []string{"CASHIER"}, "v1")
	require.NoError(t, err)

	claims, err := s.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "kasir1", claims.Username)
	assert.Equal(t, []string{"CASHIER"}, claims.Roles)
	assert.Equal(t, "v1", claims.TokenVersion)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateToken_Expired(t *testing.T) {
	s := NewSigner(testSecret, "pos-test", time.Hour)
	tok, err := s.generate(uuid.New(), "kasir1", nil, "v1", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = s.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tok, err := NewSigner(testSecret, "pos-test", 0).GenerateToken(uuid.New(), "admin", nil, "v1")
	require.NoError(t, err)

	_, err = NewSigner("another-secret-entirely-different", "pos-test", 0).ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	tok, err := NewSigner(testSecret, "someone-else", 0).GenerateToken(uuid.New(), "admin", nil, "v1")
	require.NoError(t, err)

	_, err = NewSigner(testSecret, "pos-test", 0).ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Missing(t *testing.T) {
	_, err := NewSigner(testSecret, "pos-test", 0).ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = NewSigner(testSecret, "pos-test", 0).ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
