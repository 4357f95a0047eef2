// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/oliverandrich/authcore/internal/models"
	"codeberg.org/oliverandrich/authcore/internal/repository"
	"codeberg.org/oliverandrich/authcore/internal/testutil"
)

func TestCreateToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "alice@example.com", "password123")

	token, err := repo.CreateToken(ctx, &models.Token{
		BearerDigest:  "bearer-digest",
		RefreshDigest: "refresh-digest",
		UserID:        user.ID,
	})

	require.NoError(t, err)
	assert.NotZero(t, token.ID)
	assert.Equal(t, user.ID, token.UserID)
	assert.Nil(t, token.DeletedAt)
}

func TestCreateToken_DuplicateBearerDigest(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "alice@example.com", "password123")

	_, err := repo.CreateToken(ctx, &models.Token{
		BearerDigest: "dup", RefreshDigest: "r1", UserID: user.ID,
	})
	require.NoError(t, err)

	_, err = repo.CreateToken(ctx, &models.Token{
		BearerDigest: "dup", RefreshDigest: "r2", UserID: user.ID,
	})

	assert.Error(t, err)
}

func TestGetTokenByBearerDigest(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "alice@example.com", "password123")
	created, err := repo.CreateToken(ctx, &models.Token{
		BearerDigest: "bearer-digest", RefreshDigest: "refresh-digest", UserID: user.ID,
	})
	require.NoError(t, err)

	token, err := repo.GetTokenByBearerDigest(ctx, "bearer-digest", false)
	require.NoError(t, err)
	assert.Equal(t, created.ID, token.ID)

	_, err = repo.GetTokenByBearerDigest(ctx, "unknown", false)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateToken_SoftDelete(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "alice@example.com", "password123")
	token, err := repo.CreateToken(ctx, &models.Token{
		BearerDigest: "bearer-digest", RefreshDigest: "refresh-digest", UserID: user.ID,
	})
	require.NoError(t, err)

	revoked, err := repo.UpdateToken(ctx, token, true)

	require.NoError(t, err)
	require.NotNil(t, revoked.DeletedAt)

	_, err = repo.GetTokenByBearerDigest(ctx, "bearer-digest", false)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	again, err := repo.GetTokenByBearerDigest(ctx, "bearer-digest", true)
	require.NoError(t, err)
	assert.Equal(t, token.ID, again.ID)
}
