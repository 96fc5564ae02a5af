package service

import (
	"context"
	"io"
	"testing"
	"time"

	"booklister/config"
	"booklister/data/dto"
	"booklister/internal/jsonlog"
	"booklister/internal/token"
	"booklister/repository/repositorytest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*service, *repositorytest.Fake) {
	t.Helper()

	repo := repositorytest.New()
	logger := jsonlog.New(io.Discard, jsonlog.LevelOff)
	tokens := token.NewService("test-secret", time.Hour)
	return New(config.Config{}, logger, repo, tokens), repo
}

func TestRegisterUser(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	user, signed, err := svc.RegisterUser(ctx, dto.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "correct horse battery"})
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.False(t, user.ID.IsZero())
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())

	payload, err := svc.tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), payload.UserID)
	assert.Equal(t, user.Email, payload.Email)
}

func TestRegisterUserValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{name: "empty name", userName: "", email: "bob@example.com", password: "secure-password"},
		{name: "malformed email", userName: "Bob", email: "not-an-email", password: "secure-password"},
		{name: "short password", userName: "Bob", email: "bob@example.com", password: "short"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, repo := newTestService(t)

			_, _, err := svc.RegisterUser(context.Background(), dto.RegisterInput{Name: tc.userName, Email: tc.email, Password: tc.password})
			assert.ErrorIs(t, err, ErrFailedValidation)
			assert.Empty(t, repo.Users)
		})
	}
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.RegisterUser(ctx, dto.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "correct horse battery"})
	require.NoError(t, err)

	_, _, err = svc.RegisterUser(ctx, dto.RegisterInput{Name: "Impostor", Email: "alice@example.com", Password: "another password"})
	assert.ErrorIs(t, err, ErrDuplicateRecord)
	assert.Len(t, repo.Users, 1)
}

func TestLoginUser(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, _, err := svc.RegisterUser(ctx, dto.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "correct horse battery"})
	require.NoError(t, err)

	user, signed, err := svc.LoginUser(ctx, dto.LoginInput{Email: "alice@example.com", Password: "correct horse battery"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	payload, err := svc.tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), payload.UserID)
}

// Login failures must be indistinguishable whether the email is unknown or the
// password is wrong.
func TestLoginUserInvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.RegisterUser(ctx, dto.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "correct horse battery"})
	require.NoError(t, err)

	_, _, wrongPassword := svc.LoginUser(ctx, dto.LoginInput{Email: "alice@example.com", Password: "wrong password"})
	_, _, unknownEmail := svc.LoginUser(ctx, dto.LoginInput{Email: "nobody@example.com", Password: "correct horse battery"})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, _, err := svc.RegisterUser(ctx, dto.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "correct horse battery"})
	require.NoError(t, err)

	user, err := svc.GetUser(ctx, registered.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, registered.Email, user.Email)

	_, err = svc.GetUser(ctx, "not-a-hex-id")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
