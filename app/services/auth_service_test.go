package services

import (
	"context"
	"testing"
	"time"

	"inkwell/app/auth"
	"inkwell/app/models"
	"inkwell/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService() (*AuthService, *auth.Tokens) {
	tokens := auth.NewTokens("test-secret-test-secret", time.Hour)
	svc := NewAuthService(mock.NewUserRepository(), tokens, nil)
	svc.cost = bcrypt.MinCost
	return svc, tokens
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newAuthService()

	result, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: " Ada@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.Equal(t, models.RoleUser, result.User.Role)
	assert.NotEqual(t, "secret1", result.User.PasswordHash)

	principal, err := tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, principal.ID)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Name: "Other", Email: "ada@example.com", Password: "secret2"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			input RegisterInput
			want  string
		}{
			{RegisterInput{Email: "x@example.com", Password: "secret"}, "Name is required"},
			{RegisterInput{Name: "X", Email: "not-an-email", Password: "secret"}, "Email must be a valid email address"},
			{RegisterInput{Name: "X", Email: "x@example.com", Password: "12345"}, "Password must be at least 6 characters"},
		}
		for _, tt := range tests {
			_, err := svc.Register(ctx, tt.input)
			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.want, err.Error())
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newAuthService()
	registered, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, "ADA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)
	_, err = tokens.Verify(result.Token)
	assert.NoError(t, err)

	for _, creds := range [][2]string{
		{"ada@example.com", "wrong"},
		{"nobody@example.com", "secret1"},
	} {
		_, err := svc.Login(ctx, creds[0], creds[1])
		require.ErrorIs(t, err, ErrUnauthenticated)
		assert.Equal(t, "Invalid email or password", err.Error())
	}
}

func TestAuthService_MeAndProvision(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService()

	user, err := svc.Provision(ctx, RegisterInput{Name: "Root", Email: "root@example.com", Password: "rootroot"}, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	me, err := svc.Me(ctx, models.Principal{ID: user.ID, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "root@example.com", me.Email)

	_, err = svc.Me(ctx, models.Principal{ID: "gone"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Me(ctx, models.Principal{})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Provision(ctx, RegisterInput{Name: "X", Email: "x@example.com", Password: "secret"}, "owner")
	assert.ErrorIs(t, err, ErrValidation)
}
