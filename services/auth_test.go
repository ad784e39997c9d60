package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"lexfirm_api_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Secreto123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secreto123", hash)
	assert.True(t, CheckPassword("Secreto123", hash))
	assert.False(t, CheckPassword("secreto123", hash))
}

func TestRegisterAndLogin(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()
	auth := NewAuthService(repos, "test-secret-test-secret-test-secret", time.Hour)

	first, err := auth.Register(ctx, RegisterInput{Email: " Ana@LexFirm.mx ", Password: "Secreto123", Name: "Ana"}, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, first.User.Role)
	assert.Equal(t, "ana@lexfirm.mx", first.User.Email)
	assert.NotEmpty(t, first.Token)

	second, err := auth.Register(ctx, RegisterInput{Email: "luis@lexfirm.mx", Password: "Secreto123", Name: "Luis"}, "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleLawyer, second.User.Role)

	t.Run("Register validation", func(t *testing.T) {
		_, err := auth.Register(ctx, RegisterInput{Email: "ana@lexfirm.mx", Password: "Secreto123", Name: "Dup"}, "")
		assert.True(t, errors.Is(err, ErrConflict))
		_, err = auth.Register(ctx, RegisterInput{Email: "x@lexfirm.mx", Password: "short1", Name: "X"}, "")
		assert.True(t, errors.Is(err, ErrValidation))
		_, err = auth.Register(ctx, RegisterInput{Email: "no-at-sign", Password: "Secreto123", Name: "X"}, "")
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("Login", func(t *testing.T) {
		result, err := auth.Login(ctx, "ana@lexfirm.mx", "Secreto123", "10.0.0.1")
		require.NoError(t, err)
		require.NotNil(t, result.User.LastLogin)

		user, err := auth.Authenticate(ctx, result.Token)
		require.NoError(t, err)
		assert.Equal(t, first.User.ID, user.ID)

		_, err = auth.Login(ctx, "ana@lexfirm.mx", "wrong-pass1", "")
		assert.True(t, errors.Is(err, ErrUnauthorized))
		_, err = auth.Login(ctx, "nobody@lexfirm.mx", "Secreto123", "")
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})

	t.Run("Inactive users cannot sign in", func(t *testing.T) {
		user, err := repos.Users.FindByID(ctx, second.User.ID)
		require.NoError(t, err)
		user.IsActive = false
		require.NoError(t, repos.Users.Update(ctx, user))

		_, err = auth.Login(ctx, "luis@lexfirm.mx", "Secreto123", "")
		assert.True(t, errors.Is(err, ErrUnauthorized))
		_, err = auth.Authenticate(ctx, second.Token)
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})

	t.Run("Change password", func(t *testing.T) {
		err := auth.ChangePassword(ctx, first.User.ID, "wrong-pass1", "Nuevo4567")
		assert.True(t, errors.Is(err, ErrValidation))
		err = auth.ChangePassword(ctx, first.User.ID, "Secreto123", "weak")
		assert.True(t, errors.Is(err, ErrValidation))

		require.NoError(t, auth.ChangePassword(ctx, first.User.ID, "Secreto123", "Nuevo4567"))
		_, err = auth.Login(ctx, "ana@lexfirm.mx", "Nuevo4567", "")
		assert.NoError(t, err)
	})

	t.Run("Profile", func(t *testing.T) {
		updated, err := auth.UpdateProfile(ctx, first.User.ID, ProfileInput{Name: strPtr("Ana María"), Phone: strPtr(" 555 ")})
		require.NoError(t, err)
		assert.Equal(t, "Ana María", updated.Name)
		require.NotNil(t, updated.Phone)
		assert.Equal(t, "555", *updated.Phone)

		_, err = auth.UpdateProfile(ctx, first.User.ID, ProfileInput{Name: strPtr("  ")})
		assert.True(t, errors.Is(err, ErrValidation))
	})
}

func TestParseToken(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	auth := NewAuthService(nil, "test-secret-test-secret-test-secret", time.Hour)
	auth.Now = func() time.Time { return issuedAt }

	user := &models.User{ID: "user-1", Email: "ana@lexfirm.mx", Role: models.RoleAdmin}
	token, expiresAt, err := auth.IssueToken(user)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(time.Hour), expiresAt)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	t.Run("Expired", func(t *testing.T) {
		auth.Now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
		defer func() { auth.Now = func() time.Time { return issuedAt } }()
		_, err := auth.ParseToken(token)
		var appErr *AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "token expired", appErr.Message)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other := NewAuthService(nil, "another-secret-another-secret-123", time.Hour)
		other.Now = auth.Now
		_, err := other.ParseToken(token)
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := auth.ParseToken("not.a.token")
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})
}
