// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"

	"codeberg.org/oliverandrich/authcore/internal/database"
	"codeberg.org/oliverandrich/authcore/internal/models"
	"codeberg.org/oliverandrich/authcore/internal/repository"
	"codeberg.org/oliverandrich/authcore/internal/services/hasher"
	"codeberg.org/oliverandrich/authcore/internal/services/token"
	"codeberg.org/oliverandrich/authcore/internal/services/tokencodec"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// Codecs returns the per-purpose codecs used across tests. Secrets differ
// per purpose, as in production.
func Codecs() (bearer, refresh, reset *tokencodec.Codec) {
	bearer = tokencodec.New("test-bearer-secret", time.Hour)
	refresh = tokencodec.New("test-refresh-secret", 24*time.Hour)
	reset = tokencodec.New("test-reset-secret", 30*time.Minute)
	return bearer, refresh, reset
}

// NewTokenService creates a token service without a mailer, plus the
// codecs it was built with.
func NewTokenService(t *testing.T, repo *repository.Repository) (*token.Service, *tokencodec.Codec, *tokencodec.Codec, *tokencodec.Codec) {
	t.Helper()
	bearer, refresh, reset := Codecs()
	return token.NewService(repo, bearer, refresh, reset, nil), bearer, refresh, reset
}

// NewTestUser creates a user with a hashed password.
func NewTestUser(t *testing.T, repo *repository.Repository, email, password string) *models.User {
	t.Helper()
	hash, salt, err := hasher.Hash(password)
	require.NoError(t, err)
	user, err := repo.CreateUser(context.Background(), &models.User{
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
	})
	require.NoError(t, err)
	return user
}

// NewTestRole creates a role.
func NewTestRole(t *testing.T, repo *repository.Repository, name string) *models.Role {
	t.Helper()
	role, err := repo.CreateRole(context.Background(), &models.Role{Name: name})
	require.NoError(t, err)
	return role
}

// NewTestPermission creates a permission.
func NewTestPermission(t *testing.T, repo *repository.Repository, name string) *models.Permission {
	t.Helper()
	perm, err := repo.CreatePermission(context.Background(), &models.Permission{Name: name})
	require.NoError(t, err)
	return perm
}

// Login creates a user and logs them in, returning the credential pair.
func Login(t *testing.T, repo *repository.Repository, tokens *token.Service, email, password string) (*models.User, *token.Pair) {
	t.Helper()
	user := NewTestUser(t, repo, email, password)
	pair, err := tokens.Login(context.Background(), email, password)
	require.NoError(t, err)
	return user, pair
}
