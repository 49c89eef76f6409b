package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful-backend/internal/testhelpers"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	db := testhelpers.NewTestDB(t)
	return NewAuthService(db, "unit-test-secret-value")
}

func TestRegisterAndLogin(t *testing.T) {
	auth := newAuthFixture(t)
	ctx := context.Background()

	user, token, err := auth.Register(ctx, RegisterInput{
		Email:     "cook@example.com",
		Username:  "cook",
		FirstName: "Ada",
		LastName:  "Cook",
		Password:  "plaintext-password",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotEqual(t, "plaintext-password", user.PasswordHash)

	loginToken, err := auth.Login(ctx, "cook@example.com", "plaintext-password")
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)

	_, err = auth.Login(ctx, "cook@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, "nobody@example.com", "plaintext-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicate(t *testing.T) {
	auth := newAuthFixture(t)
	ctx := context.Background()

	in := RegisterInput{
		Email:     "cook@example.com",
		Username:  "cook",
		FirstName: "Ada",
		LastName:  "Cook",
		Password:  "plaintext-password",
	}
	_, _, err := auth.Register(ctx, in)
	require.NoError(t, err)

	_, _, err = auth.Register(ctx, in)
	assert.True(t, IsKind(err, KindConflict), "got %v", err)

	// Same username under a new email still collides.
	in.Email = "other@example.com"
	_, _, err = auth.Register(ctx, in)
	assert.True(t, IsKind(err, KindConflict), "got %v", err)
}

func TestTokenRoundTrip(t *testing.T) {
	auth := newAuthFixture(t)

	user, token, err := auth.Register(context.Background(), RegisterInput{
		Email:     "admin@example.com",
		Username:  "admin",
		FirstName: "Ada",
		LastName:  "Min",
		Password:  "plaintext-password",
	})
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.False(t, claims.IsAdmin)

	_, err = auth.ValidateToken(token + "tampered")
	assert.Error(t, err)

	other := NewAuthService(testhelpers.NewTestDB(t), "a-different-secret-value")
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}
