// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/oliverandrich/authcore/internal/autherr"
	"codeberg.org/oliverandrich/authcore/internal/repository"
	"codeberg.org/oliverandrich/authcore/internal/services/token"
	"codeberg.org/oliverandrich/authcore/internal/services/user"
	"codeberg.org/oliverandrich/authcore/internal/testutil"
)

func newUserService(t *testing.T) (*repository.Repository, *token.Service, *user.Service) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	tokens, _, _, reset := testutil.NewTokenService(t, repo)
	return repo, tokens, user.NewService(repo, tokens, reset)
}

func TestCreate(t *testing.T) {
	_, _, users := newUserService(t)

	created, err := users.Create(context.Background(), "alice@example.com", "password123")

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "alice@example.com", created.Email)
	assert.NotEmpty(t, created.PasswordHash)
	assert.NotEqual(t, "password123", created.PasswordHash)
}

func TestCreate_InvalidEmail(t *testing.T) {
	_, _, users := newUserService(t)

	_, err := users.Create(context.Background(), "not-an-email", "password123")

	assert.ErrorIs(t, err, user.ErrInvalidEmail)
}

func TestCreate_Duplicate(t *testing.T) {
	_, _, users := newUserService(t)
	ctx := context.Background()

	_, err := users.Create(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = users.Create(ctx, "alice@example.com", "other-password")

	assert.ErrorIs(t, err, autherr.ErrUserExists)
}

func TestGet_RequiresToken(t *testing.T) {
	repo, tokens, users := newUserService(t)
	ctx := context.Background()
	alice, pair := testutil.Login(t, repo, tokens, "alice@example.com", "password123")

	got, err := users.Get(ctx, alice.ID, pair.Bearer)
	require.NoError(t, err)
	assert.Equal(t, alice.Email, got.Email)

	_, err = users.Get(ctx, alice.ID, "bogus-token")
	assert.ErrorIs(t, err, autherr.ErrTokenNotFound)
}

func TestGet_RevokedTokenRejected(t *testing.T) {
	repo, tokens, users := newUserService(t)
	ctx := context.Background()
	alice, pair := testutil.Login(t, repo, tokens, "alice@example.com", "password123")

	_, err := tokens.Revoke(ctx, pair.Bearer)
	require.NoError(t, err)

	_, err = users.Get(ctx, alice.ID, pair.Bearer)

	assert.ErrorIs(t, err, autherr.ErrTokenNotFound)
}

func TestList(t *testing.T) {
	repo, tokens, users := newUserService(t)
	ctx := context.Background()
	_, pair := testutil.Login(t, repo, tokens, "alice@example.com", "password123")
	testutil.NewTestUser(t, repo, "bob@example.com", "password123")

	count, page, err := users.List(ctx, 50, 0, pair.Bearer, false)

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Len(t, page, 2)
}

func TestUpdateRoles(t *testing.T) {
	repo, tokens, users := newUserService(t)
	ctx := context.Background()
	alice, pair := testutil.Login(t, repo, tokens, "alice@example.com", "password123")
	admin := testutil.NewTestRole(t, repo, "admin")

	resolved, err := users.UpdateRoles(ctx, alice.ID, []int64{admin.ID}, pair.Bearer)

	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "admin", resolved[0].Name)

	roles, err := users.GetRoles(ctx, alice.ID, pair.Bearer)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, admin.ID, roles[0].ID)
}

func TestUpdateRoles_UnresolvableIDsDropped(t *testing.T) {
	repo, tokens, users := newUserService(t)
	ctx := context.Background()
	alice, pair := testutil.Login(t, repo, tokens, "alice@example.com", "password123")

	resolved, err := users.UpdateRoles(ctx, alice.ID, []int64{9999}, pair.Bearer)

	require.NoError(t, err)
	assert.Empty(t, resolved)

	roles, err := users.GetRoles(ctx, alice.ID, pair.Bearer)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestUpdateEmailVerified(t *testing.T) {
	repo, tokens, users := newUserService(t)
	ctx := context.Background()
	alice, pair := testutil.Login(t, repo, tokens, "alice@example.com", "password123")
	require.False(t, alice.EmailVerified)

	updated, err := users.UpdateEmailVerified(ctx, alice.ID, true, pair.Bearer)

	require.NoError(t, err)
	assert.True(t, updated.EmailVerified)
}

func TestUpdatePassword(t *testing.T) {
	repo, tokens, users := newUserService(t)
	ctx := context.Background()
	testutil.NewTestUser(t, repo, "alice@example.com", "password123")

	reset, err := tokens.RequestPasswordReset(ctx, "alice@example.com")
	require.NoError(t, err)

	_, err = users.UpdatePassword(ctx, reset, "new-password")
	require.NoError(t, err)

	// Old password stops working, the new one logs in.
	_, err = tokens.Login(ctx, "alice@example.com", "password123")
	assert.ErrorIs(t, err, autherr.ErrInvalidCredentials)
	_, err = tokens.Login(ctx, "alice@example.com", "new-password")
	assert.NoError(t, err)
}

func TestUpdatePassword_TokenSingleUse(t *testing.T) {
	repo, tokens, users := newUserService(t)
	ctx := context.Background()
	testutil.NewTestUser(t, repo, "alice@example.com", "password123")

	reset, err := tokens.RequestPasswordReset(ctx, "alice@example.com")
	require.NoError(t, err)
	_, err = users.UpdatePassword(ctx, reset, "new-password")
	require.NoError(t, err)

	_, err = users.UpdatePassword(ctx, reset, "another-password")

	assert.ErrorIs(t, err, autherr.ErrTokenNotFound)
}

func TestUpdatePassword_BearerTokenRejected(t *testing.T) {
	repo, tokens, users := newUserService(t)
	ctx := context.Background()
	_, pair := testutil.Login(t, repo, tokens, "alice@example.com", "password123")

	// A stored bearer token is not a reset token; the reset codec must
	// reject it even though the record exists.
	_, err := users.UpdatePassword(ctx, pair.Bearer, "new-password")

	assert.ErrorIs(t, err, autherr.ErrTokenNotFound)
}

func TestDelete(t *testing.T) {
	repo, tokens, users := newUserService(t)
	ctx := context.Background()
	_, pair := testutil.Login(t, repo, tokens, "alice@example.com", "password123")
	bob := testutil.NewTestUser(t, repo, "bob@example.com", "password123")

	deleted, err := users.Delete(ctx, bob.ID, pair.Bearer)

	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)

	_, err = users.Get(ctx, bob.ID, pair.Bearer)
	assert.ErrorIs(t, err, autherr.ErrUserNotFound)

	// The row survives for audit listings.
	count, _, err := users.List(ctx, 50, 0, pair.Bearer, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
