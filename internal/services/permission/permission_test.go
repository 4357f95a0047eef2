// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package permission_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/oliverandrich/authcore/internal/autherr"
	"codeberg.org/oliverandrich/authcore/internal/services/permission"
	"codeberg.org/oliverandrich/authcore/internal/testutil"
)

func newPermissionService(t *testing.T) (*permission.Service, string) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	tokens, _, _, _ := testutil.NewTokenService(t, repo)
	_, pair := testutil.Login(t, repo, tokens, "caller@example.com", "password123")
	return permission.NewService(repo, tokens), pair.Bearer
}

func TestCreate_Batch(t *testing.T) {
	perms, callerToken := newPermissionService(t)

	created, err := perms.Create(context.Background(), []permission.CreateInput{
		{Name: "posts:read", Description: "read posts"},
		{Name: "posts:write", Description: "write posts"},
	}, callerToken)

	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "posts:read", created[0].Name)
	assert.Equal(t, "posts:write", created[1].Name)
	assert.NotZero(t, created[0].ID)
}

func TestCreate_RequiresToken(t *testing.T) {
	perms, _ := newPermissionService(t)

	_, err := perms.Create(context.Background(),
		[]permission.CreateInput{{Name: "posts:read"}}, "bogus-token")

	assert.ErrorIs(t, err, autherr.ErrTokenNotFound)
}

func TestGet_NotFound(t *testing.T) {
	perms, callerToken := newPermissionService(t)

	_, err := perms.Get(context.Background(), 9999, callerToken)

	assert.ErrorIs(t, err, autherr.ErrPermissionNotFound)
}

func TestUpdate(t *testing.T) {
	perms, callerToken := newPermissionService(t)
	ctx := context.Background()
	created, err := perms.Create(ctx, []permission.CreateInput{{Name: "posts:read"}}, callerToken)
	require.NoError(t, err)

	updated, err := perms.Update(ctx, created[0].ID, "posts:view", "renamed", callerToken)

	require.NoError(t, err)
	assert.Equal(t, "posts:view", updated.Name)
	assert.Equal(t, "renamed", updated.Description)
}

func TestDelete(t *testing.T) {
	perms, callerToken := newPermissionService(t)
	ctx := context.Background()
	created, err := perms.Create(ctx, []permission.CreateInput{{Name: "posts:read"}}, callerToken)
	require.NoError(t, err)

	deleted, err := perms.Delete(ctx, created[0].ID, callerToken)

	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)

	_, err = perms.Get(ctx, created[0].ID, callerToken)
	assert.ErrorIs(t, err, autherr.ErrPermissionNotFound)
}

func TestList(t *testing.T) {
	perms, callerToken := newPermissionService(t)
	ctx := context.Background()
	_, err := perms.Create(ctx, []permission.CreateInput{
		{Name: "posts:read"}, {Name: "posts:write"}, {Name: "posts:delete"},
	}, callerToken)
	require.NoError(t, err)

	count, page, err := perms.List(ctx, 2, 0, callerToken, false)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Len(t, page, 2)
}
