package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidateJWT(t *testing.T) {
	now := time.Now()
	token, issued, err := IssueJWT("secret", TokenParams{UserID: "user-1", Email: "a@b.c", IsAdmin: true, SessionID: 42, TTL: time.Hour, Now: now})
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)

	claims, err := ValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, int64(42), claims.SessionID)
	assert.Equal(t, issued.ID, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), claims.TTL(now).Seconds(), 1)
}

func TestIssueJWTKeepsTokenID(t *testing.T) {
	_, claims, err := IssueJWT("secret", TokenParams{TokenID: "tok-1", UserID: "user-1", TTL: time.Minute, Now: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", claims.ID)
}

func TestValidateJWTRejects(t *testing.T) {
	now := time.Now()
	good, _, err := IssueJWT("secret", TokenParams{UserID: "user-1", Email: "a@b.c", TTL: time.Hour, Now: now})
	require.NoError(t, err)
	expired, _, err := IssueJWT("secret", TokenParams{UserID: "user-1", Email: "a@b.c", TTL: time.Hour, Now: now.Add(-2 * time.Hour)})
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{name: "wrong secret", token: good, secret: "other"},
		{name: "expired", token: expired, secret: "secret"},
		{name: "garbage", token: "not-a-token", secret: "secret"},
		{name: "no subject", token: noSubject, secret: "secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateJWT(tt.token, tt.secret)
			assert.Error(t, err)
		})
	}
}

func TestIssueJWTRequiresSecret(t *testing.T) {
	_, _, err := IssueJWT("", TokenParams{UserID: "user-1", TTL: time.Hour, Now: time.Now()})
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("", "s3cret!"))
}
