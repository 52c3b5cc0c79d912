package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

func TestTokenService_IssueAndVerify(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testSecret, "blogapi", 0)
	token, err := svc.Issue(Identity{ID: 7, Email: "a@x.com", Username: "alice"})
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: 7, Email: "a@x.com", Username: "alice"}, claims.Identity())
	assert.Equal(t, "blogapi", claims.Issuer)
	assert.NotEmpty(t, claims.RegisteredClaims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenService_Verify_Rejects(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testSecret, "blogapi", time.Hour)
	valid, err := svc.Issue(Identity{ID: 1, Email: "a@x.com", Username: "alice"})
	require.NoError(t, err)

	expiredSvc := NewTokenService(testSecret, "blogapi", time.Hour)
	expiredSvc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredSvc.Issue(Identity{ID: 1})
	require.NoError(t, err)

	otherSecret, err := NewTokenService("another-secret-entirely-for-testing", "blogapi", time.Hour).Issue(Identity{ID: 1})
	require.NoError(t, err)

	otherIssuer, err := NewTokenService(testSecret, "someone-else", time.Hour).Issue(Identity{ID: 1})
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id":  1,
		"iss": "blogapi",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong secret", otherSecret},
		{"wrong issuer", otherIssuer},
		{"unsigned", none},
		{"malformed", "not.a.token"},
		{"empty", ""},
		{"bearer prefixed", "Bearer " + valid},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenService_Decode(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testSecret, "blogapi", time.Hour)
	other := NewTokenService("another-secret-entirely-for-testing", "blogapi", time.Hour)

	token, err := other.Issue(Identity{ID: 3, Email: "c@x.com", Username: "carol"})
	require.NoError(t, err)

	claims, ok := svc.Decode(token)
	require.True(t, ok, "decode ignores the signature")
	assert.Equal(t, uint(3), claims.ID)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, ok = svc.Decode("garbage")
	assert.False(t, ok)
}
