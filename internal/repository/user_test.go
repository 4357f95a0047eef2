// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/oliverandrich/authcore/internal/models"
	"codeberg.org/oliverandrich/authcore/internal/repository"
	"codeberg.org/oliverandrich/authcore/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, &models.User{
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Salt:         "salt",
	})

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.False(t, user.EmailVerified)
	assert.Nil(t, user.DeletedAt)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, &models.User{Email: "alice@example.com", PasswordHash: "h", Salt: "s"})
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, &models.User{Email: "alice@example.com", PasswordHash: "h", Salt: "s"})

	assert.Error(t, err)
}

func TestGetUserByEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	created := testutil.NewTestUser(t, repo, "alice@example.com", "password123")

	user, err := repo.GetUserByEmail(ctx, "alice@example.com", false)

	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = repo.GetUserByEmail(ctx, "nobody@example.com", false)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateUser_SoftDelete(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "alice@example.com", "password123")

	deleted, err := repo.UpdateUser(ctx, user, true)

	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)

	// Gone from live reads, still reachable when deleted rows are wanted.
	_, err = repo.GetUserByID(ctx, user.ID, false)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	again, err := repo.GetUserByID(ctx, user.ID, true)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestUpdateUser_Fields(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "alice@example.com", "password123")

	user.EmailVerified = true
	user.PasswordHash = "new-hash"
	user.Salt = "new-salt"
	updated, err := repo.UpdateUser(ctx, user, false)

	require.NoError(t, err)
	assert.True(t, updated.EmailVerified)
	assert.Equal(t, "new-hash", updated.PasswordHash)
	assert.Equal(t, "new-salt", updated.Salt)
	assert.Nil(t, updated.DeletedAt)
}

func TestListUsers_Pagination(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	for i := range 5 {
		testutil.NewTestUser(t, repo, fmt.Sprintf("user%d@example.com", i), "password123")
	}

	count, page, err := repo.ListUsers(ctx, 2, 2, false)

	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	require.Len(t, page, 2)
	assert.Equal(t, "user2@example.com", page[0].Email)
	assert.Equal(t, "user3@example.com", page[1].Email)
}

func TestListUsers_ExcludesDeleted(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	alive := testutil.NewTestUser(t, repo, "alive@example.com", "password123")
	gone := testutil.NewTestUser(t, repo, "gone@example.com", "password123")
	_, err := repo.UpdateUser(ctx, gone, true)
	require.NoError(t, err)

	count, page, err := repo.ListUsers(ctx, 50, 0, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, page, 1)
	assert.Equal(t, alive.ID, page[0].ID)

	count, page, err = repo.ListUsers(ctx, 50, 0, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Len(t, page, 2)
}

func TestReplaceUserRoles(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "alice@example.com", "password123")
	admin := testutil.NewTestRole(t, repo, "admin")
	editor := testutil.NewTestRole(t, repo, "editor")

	require.NoError(t, repo.ReplaceUserRoles(ctx, user.ID, []int64{admin.ID, editor.ID}))

	roles, err := repo.GetUserRoles(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "admin", roles[0].Name)
	assert.Equal(t, "editor", roles[1].Name)

	// Replacement is total, not additive.
	require.NoError(t, repo.ReplaceUserRoles(ctx, user.ID, []int64{editor.ID}))
	roles, err = repo.GetUserRoles(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "editor", roles[0].Name)
}

func TestGetUserRoles_ExcludesDeletedRoles(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "alice@example.com", "password123")
	admin := testutil.NewTestRole(t, repo, "admin")
	require.NoError(t, repo.ReplaceUserRoles(ctx, user.ID, []int64{admin.ID}))

	_, err := repo.UpdateRole(ctx, admin, true)
	require.NoError(t, err)

	roles, err := repo.GetUserRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)
}
