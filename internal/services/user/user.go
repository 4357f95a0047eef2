// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package user manages accounts and their role assignments. Every
// operation except registration runs behind the token service's
// precondition gate: the caller must present a valid, non-revoked token.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"

	"codeberg.org/oliverandrich/authcore/internal/autherr"
	"codeberg.org/oliverandrich/authcore/internal/models"
	"codeberg.org/oliverandrich/authcore/internal/repository"
	"codeberg.org/oliverandrich/authcore/internal/services/hasher"
	"codeberg.org/oliverandrich/authcore/internal/services/token"
	"codeberg.org/oliverandrich/authcore/internal/services/tokencodec"
)

// ErrInvalidEmail is returned on registration with a malformed address.
var ErrInvalidEmail = errors.New("invalid email format")

// Service implements user management.
type Service struct {
	repo   *repository.Repository
	tokens *token.Service
	reset  *tokencodec.Codec
}

// NewService creates a user service. The reset codec must be the same
// instance the token service issues password reset tokens with.
func NewService(repo *repository.Repository, tokens *token.Service, reset *tokencodec.Codec) *Service {
	return &Service{repo: repo, tokens: tokens, reset: reset}
}

// Create registers a new account. Registration is the one ungated write:
// a user without credentials cannot hold a token yet.
func (s *Service) Create(ctx context.Context, email, password string) (*models.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	_, err := s.repo.GetUserByEmail(ctx, email, false)
	if err == nil {
		return nil, autherr.ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, salt, err := hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user_created", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Get retrieves a user by id.
func (s *Service) Get(ctx context.Context, id int64, callerToken string) (*models.User, error) {
	if _, err := s.tokens.CheckExists(ctx, callerToken); err != nil {
		return nil, err
	}
	return s.userByID(ctx, id)
}

// GetByEmail retrieves a user by email address.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email, false)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, autherr.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// List returns the total user count plus one page. Including soft-deleted
// rows is a distinct read path for callers allowed to audit history.
func (s *Service) List(ctx context.Context, limit, offset int64, callerToken string, includeDeleted bool) (int64, []models.User, error) {
	if _, err := s.tokens.CheckExists(ctx, callerToken); err != nil {
		return 0, nil, err
	}
	return s.repo.ListUsers(ctx, limit, offset, includeDeleted)
}

// UpdatePassword sets a new password using a password reset token. The
// reset token is revoked on success so it cannot be replayed.
func (s *Service) UpdatePassword(ctx context.Context, resetToken, newPassword string) (*models.User, error) {
	if _, err := s.tokens.CheckExists(ctx, resetToken); err != nil {
		return nil, err
	}

	claims, err := s.reset.Verify(resetToken)
	if err != nil {
		return nil, autherr.ErrTokenNotFound
	}
	email, _ := claims["email"].(string)

	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	hash, salt, err := hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	user.Salt = salt

	updated, err := s.repo.UpdateUser(ctx, user, false)
	if err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	if _, err := s.tokens.Revoke(ctx, resetToken); err != nil {
		return nil, err
	}

	slog.Info("password_updated", "user_id", user.ID)
	return updated, nil
}

// GetRoles returns the roles currently assigned to a user.
func (s *Service) GetRoles(ctx context.Context, id int64, callerToken string) ([]models.Role, error) {
	if _, err := s.tokens.CheckExists(ctx, callerToken); err != nil {
		return nil, err
	}
	if _, err := s.userByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.GetUserRoles(ctx, id)
}

// UpdateRoles replaces the user's entire role set with the roles that
// resolve from the given ids. Ids that do not resolve are silently
// dropped; partial matches are not an error.
func (s *Service) UpdateRoles(ctx context.Context, id int64, roleIDs []int64, callerToken string) ([]models.Role, error) {
	if _, err := s.tokens.CheckExists(ctx, callerToken); err != nil {
		return nil, err
	}
	if _, err := s.userByID(ctx, id); err != nil {
		return nil, err
	}

	resolved := []models.Role{}
	resolvedIDs := []int64{}
	for _, roleID := range roleIDs {
		role, err := s.repo.GetRoleByID(ctx, roleID, false)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to resolve role: %w", err)
		}
		resolved = append(resolved, *role)
		resolvedIDs = append(resolvedIDs, role.ID)
	}

	if err := s.repo.ReplaceUserRoles(ctx, id, resolvedIDs); err != nil {
		return nil, fmt.Errorf("failed to update roles: %w", err)
	}
	return resolved, nil
}

// UpdateEmailVerified flags the user's email address as (un)verified.
func (s *Service) UpdateEmailVerified(ctx context.Context, id int64, verified bool, callerToken string) (*models.User, error) {
	if _, err := s.tokens.CheckExists(ctx, callerToken); err != nil {
		return nil, err
	}
	user, err := s.userByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.EmailVerified = verified
	return s.repo.UpdateUser(ctx, user, false)
}

// Delete soft-deletes a user. The row stays around for audit.
func (s *Service) Delete(ctx context.Context, id int64, callerToken string) (*models.User, error) {
	if _, err := s.tokens.CheckExists(ctx, callerToken); err != nil {
		return nil, err
	}
	user, err := s.userByID(ctx, id)
	if err != nil {
		return nil, err
	}

	deleted, err := s.repo.UpdateUser(ctx, user, true)
	if err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("user_deleted", "user_id", id)
	return deleted, nil
}

func (s *Service) userByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, autherr.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
