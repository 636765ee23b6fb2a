package util

import (
	"baggage_quiz_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789abcdef0123456789"

func tokenUser() *model.User {
	u := &model.User{
		Username: "ayse",
		Email:    "ayse@example.com",
		Role:     model.RoleUser,
	}
	u.ID = 7
	return u
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(tokenUser(), testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.Equal(t, "ayse@example.com", claims.Email)
	assert.Equal(t, "baggage-quiz-app", claims.Issuer)
	assert.Contains(t, claims.Audience, "baggage-quiz-users")
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWT(tokenUser(), testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(tokenUser(), testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "another-secret-entirely")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTGarbage(t *testing.T) {
	_, err := ParseJWT("not.a.token", testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
