package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	svc := NewService("test-secret", 7*24*time.Hour)

	signed, err := svc.Issue("64f1b2c3d4e5f60718293a4b", "reader@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	payload, err := svc.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "64f1b2c3d4e5f60718293a4b", payload.UserID)
	assert.Equal(t, "reader@example.com", payload.Email)
}

func TestVerifyExpiredToken(t *testing.T) {
	t.Parallel()

	svc := NewService("test-secret", -time.Minute)
	signed, err := svc.Issue("64f1b2c3d4e5f60718293a4b", "reader@example.com")
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	signed, err := NewService("secret-one", time.Hour).Issue("id", "a@b.com")
	require.NoError(t, err)

	_, err = NewService("secret-two", time.Hour).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	t.Parallel()

	_, err := NewService("test-secret", time.Hour).Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestFromHeader(t *testing.T) {
	t.Parallel()

	svc := NewService("test-secret", time.Hour)
	signed, err := svc.Issue("64f1b2c3d4e5f60718293a4b", "reader@example.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{"bearer token", "Bearer " + signed, true},
		{"bare token", signed, true},
		{"absent header", "", false},
		{"malformed token", "Bearer nonsense", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := svc.FromHeader(tt.header)
			if tt.want {
				require.NotNil(t, payload)
				assert.Equal(t, "reader@example.com", payload.Email)
			} else {
				assert.Nil(t, payload)
			}
		})
	}
}
