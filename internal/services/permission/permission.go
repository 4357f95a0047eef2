// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package permission manages the named capabilities attached to roles.
// All operations require a valid, non-revoked caller token.
package permission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"codeberg.org/oliverandrich/authcore/internal/autherr"
	"codeberg.org/oliverandrich/authcore/internal/models"
	"codeberg.org/oliverandrich/authcore/internal/repository"
	"codeberg.org/oliverandrich/authcore/internal/services/token"
)

// Service implements permission management.
type Service struct {
	repo   *repository.Repository
	tokens *token.Service
}

// NewService creates a permission service.
func NewService(repo *repository.Repository, tokens *token.Service) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// CreateInput is one permission to create.
type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create adds a batch of permissions in one call.
func (s *Service) Create(ctx context.Context, inputs []CreateInput, callerToken string) ([]models.Permission, error) {
	if _, err := s.tokens.CheckExists(ctx, callerToken); err != nil {
		return nil, err
	}

	created := make([]models.Permission, 0, len(inputs))
	for _, input := range inputs {
		perm, err := s.repo.CreatePermission(ctx, &models.Permission{
			Name:        input.Name,
			Description: input.Description,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create permission %q: %w", input.Name, err)
		}
		created = append(created, *perm)
	}

	slog.Info("permissions_created", "count", len(created))
	return created, nil
}

// Get retrieves a permission by id.
func (s *Service) Get(ctx context.Context, id int64, callerToken string) (*models.Permission, error) {
	if _, err := s.tokens.CheckExists(ctx, callerToken); err != nil {
		return nil, err
	}
	return s.permissionByID(ctx, id)
}

// List returns the total permission count plus one page.
func (s *Service) List(ctx context.Context, limit, offset int64, callerToken string, includeDeleted bool) (int64, []models.Permission, error) {
	if _, err := s.tokens.CheckExists(ctx, callerToken); err != nil {
		return 0, nil, err
	}
	return s.repo.ListPermissions(ctx, limit, offset, includeDeleted)
}

// Update changes a permission's name and description.
func (s *Service) Update(ctx context.Context, id int64, name, description, callerToken string) (*models.Permission, error) {
	if _, err := s.tokens.CheckExists(ctx, callerToken); err != nil {
		return nil, err
	}
	perm, err := s.permissionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	perm.Name = name
	perm.Description = description
	return s.repo.UpdatePermission(ctx, perm, false)
}

// Delete soft-deletes a permission.
func (s *Service) Delete(ctx context.Context, id int64, callerToken string) (*models.Permission, error) {
	if _, err := s.tokens.CheckExists(ctx, callerToken); err != nil {
		return nil, err
	}
	perm, err := s.permissionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	deleted, err := s.repo.UpdatePermission(ctx, perm, true)
	if err != nil {
		return nil, fmt.Errorf("failed to delete permission: %w", err)
	}

	slog.Info("permission_deleted", "permission_id", id)
	return deleted, nil
}

func (s *Service) permissionByID(ctx context.Context, id int64) (*models.Permission, error) {
	perm, err := s.repo.GetPermissionByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, autherr.ErrPermissionNotFound
		}
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}
	return perm, nil
}
