// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package token orchestrates the credential lifecycle: issuance on login,
// renewal against a refresh token, introspection, and revocation. A token
// record moves from issued to revoked, either directly or by being
// superseded through renewal; records are never mutated in place beyond
// the soft-delete transition.
package token

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"codeberg.org/oliverandrich/authcore/internal/autherr"
	"codeberg.org/oliverandrich/authcore/internal/models"
	"codeberg.org/oliverandrich/authcore/internal/repository"
	"codeberg.org/oliverandrich/authcore/internal/services/hasher"
	"codeberg.org/oliverandrich/authcore/internal/services/tokencodec"
)

// Mailer delivers password reset tokens out of band. A nil mailer means
// reset tokens are only returned to the caller.
type Mailer interface {
	SendPasswordReset(ctx context.Context, toEmail, token string) error
}

// Service implements the token lifecycle over the repository and the
// per-purpose codecs. Codecs are injected by value at construction; there
// is no shared global tokenizer state.
type Service struct {
	repo    *repository.Repository
	bearer  *tokencodec.Codec
	refresh *tokencodec.Codec
	reset   *tokencodec.Codec
	mailer  Mailer
}

// NewService creates a token service. mailer may be nil.
func NewService(repo *repository.Repository, bearer, refresh, reset *tokencodec.Codec, mailer Mailer) *Service {
	return &Service{
		repo:    repo,
		bearer:  bearer,
		refresh: refresh,
		reset:   reset,
		mailer:  mailer,
	}
}

// Pair carries the plaintext credential pair returned at issuance and
// renewal. This is the only time plaintext tokens leave the service.
type Pair struct {
	Bearer  string `json:"bearer_token"`
	Refresh string `json:"refresh_token"`
}

// Introspection describes a valid bearer token. Roles are looked up live
// rather than read from the signed claims, so role changes made after
// issuance are visible immediately.
type Introspection struct {
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login verifies the credentials and issues a fresh bearer/refresh pair.
func (s *Service) Login(ctx context.Context, email, password string) (*Pair, error) {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if !hasher.Verify(password, user.PasswordHash, user.Salt) {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		return nil, autherr.ErrInvalidCredentials
	}

	claims := map[string]any{"email": user.Email}
	bearer, err := s.bearer.Issue(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to issue bearer token: %w", err)
	}
	refresh, err := s.refresh.Issue(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	_, err = s.repo.CreateToken(ctx, &models.Token{
		BearerDigest:  hasher.Digest(bearer),
		RefreshDigest: hasher.Digest(refresh),
		UserID:        user.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	slog.Info("login_success", "user_id", user.ID, "email", user.Email)
	return &Pair{Bearer: bearer, Refresh: refresh}, nil
}

// RequestPasswordReset issues a short-lived reset token for the user. The
// stored record uses the reset digest for both columns since this flow
// only produces one artifact. When a mailer is configured the token is
// also sent to the user's address.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	reset, err := s.reset.Issue(map[string]any{"email": user.Email})
	if err != nil {
		return "", fmt.Errorf("failed to issue reset token: %w", err)
	}

	digest := hasher.Digest(reset)
	_, err = s.repo.CreateToken(ctx, &models.Token{
		BearerDigest:  digest,
		RefreshDigest: digest,
		UserID:        user.ID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordReset(ctx, user.Email, reset); err != nil {
			return "", fmt.Errorf("failed to send reset mail: %w", err)
		}
	}

	slog.Info("password_reset_requested", "user_id", user.ID, "email", user.Email)
	return reset, nil
}

// Renew exchanges a bearer/refresh pair for a new bearer token. The
// refresh token is reused across renewals until it expires on its own.
// The superseded bearer record is revoked so each refresh chain keeps a
// single valid bearer token.
func (s *Service) Renew(ctx context.Context, oldBearer, refresh string) (*Pair, error) {
	record, err := s.CheckExists(ctx, oldBearer)
	if err != nil {
		return nil, err
	}

	if record.RefreshDigest != hasher.Digest(refresh) {
		return nil, autherr.ErrInvalidRefreshToken
	}
	if _, err := s.refresh.Verify(refresh); err != nil {
		return nil, autherr.ErrInvalidRefreshToken
	}

	user, err := s.userByID(ctx, record.UserID)
	if err != nil {
		return nil, err
	}

	bearer, err := s.bearer.Issue(map[string]any{"email": user.Email})
	if err != nil {
		return nil, fmt.Errorf("failed to issue bearer token: %w", err)
	}

	_, err = s.repo.CreateToken(ctx, &models.Token{
		BearerDigest:  hasher.Digest(bearer),
		RefreshDigest: record.RefreshDigest,
		UserID:        user.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	if _, err := s.repo.UpdateToken(ctx, record, true); err != nil {
		return nil, fmt.Errorf("failed to revoke superseded token: %w", err)
	}

	slog.Info("token_renewed", "user_id", user.ID)
	return &Pair{Bearer: bearer, Refresh: refresh}, nil
}

// Introspect validates a bearer token and returns its claims together
// with the user's current role names.
func (s *Service) Introspect(ctx context.Context, bearer string) (*Introspection, error) {
	record, err := s.CheckExists(ctx, bearer)
	if err != nil {
		return nil, err
	}

	claims, err := s.bearer.Verify(bearer)
	if err != nil {
		return nil, err
	}

	user, err := s.userByID(ctx, record.UserID)
	if err != nil {
		return nil, err
	}

	roles, err := s.repo.GetUserRoles(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = role.Name
	}

	expiresAt, _ := tokencodec.ExpiresAt(claims)
	return &Introspection{
		Email:     user.Email,
		Roles:     names,
		ExpiresAt: expiresAt,
	}, nil
}

// Revoke soft-deletes the token record for the given bearer token.
// Revoking an already revoked token fails with ErrTokenNotFound since the
// lookup only considers live records.
func (s *Service) Revoke(ctx context.Context, bearer string) (*models.Token, error) {
	record, err := s.CheckExists(ctx, bearer)
	if err != nil {
		return nil, err
	}

	revoked, err := s.repo.UpdateToken(ctx, record, true)
	if err != nil {
		return nil, fmt.Errorf("failed to revoke token: %w", err)
	}

	slog.Info("token_revoked", "user_id", record.UserID)
	return revoked, nil
}

// CheckExists resolves a bearer token against the live records. It is the
// precondition gate the access-control services run before every
// authorized operation.
func (s *Service) CheckExists(ctx context.Context, bearer string) (*models.Token, error) {
	record, err := s.repo.GetTokenByBearerDigest(ctx, hasher.Digest(bearer), false)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, autherr.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	return record, nil
}

func (s *Service) userByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email, false)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, autherr.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
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
