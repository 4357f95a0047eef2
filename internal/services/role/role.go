// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package role manages roles and their permission sets. All operations
// require a valid, non-revoked caller token.
package role

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

// Service implements role management.
type Service struct {
	repo   *repository.Repository
	tokens *token.Service
}

// NewService creates a role service.
func NewService(repo *repository.Repository, tokens *token.Service) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Create adds a new role.
func (s *Service) Create(ctx context.Context, name, description, callerToken string) (*models.Role, error) {
	if _, err := s.tokens.CheckExists(ctx, callerToken); err != nil {
		return nil, err
	}
	role, err := s.repo.CreateRole(ctx, &models.Role{Name: name, Description: description})
	if err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	slog.Info("role_created", "role_id", role.ID, "name", role.Name)
	return role, nil
}

// Get retrieves a role by id.
func (s *Service) Get(ctx context.Context, id int64, callerToken string) (*models.Role, error) {
	if _, err := s.tokens.CheckExists(ctx, callerToken); err != nil {
		return nil, err
	}
	return s.roleByID(ctx, id)
}

// List returns the total role count plus one page.
func (s *Service) List(ctx context.Context, limit, offset int64, callerToken string, includeDeleted bool) (int64, []models.Role, error) {
	if _, err := s.tokens.CheckExists(ctx, callerToken); err != nil {
		return 0, nil, err
	}
	return s.repo.ListRoles(ctx, limit, offset, includeDeleted)
}

// Update changes a role's name and description.
func (s *Service) Update(ctx context.Context, id int64, name, description, callerToken string) (*models.Role, error) {
	if _, err := s.tokens.CheckExists(ctx, callerToken); err != nil {
		return nil, err
	}
	role, err := s.roleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	role.Name = name
	role.Description = description
	return s.repo.UpdateRole(ctx, role, false)
}

// Delete soft-deletes a role.
func (s *Service) Delete(ctx context.Context, id int64, callerToken string) (*models.Role, error) {
	if _, err := s.tokens.CheckExists(ctx, callerToken); err != nil {
		return nil, err
	}
	role, err := s.roleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	deleted, err := s.repo.UpdateRole(ctx, role, true)
	if err != nil {
		return nil, fmt.Errorf("failed to delete role: %w", err)
	}

	slog.Info("role_deleted", "role_id", id)
	return deleted, nil
}

// GetPermissions returns the permissions attached to a role.
func (s *Service) GetPermissions(ctx context.Context, id int64, callerToken string) ([]models.Permission, error) {
	if _, err := s.tokens.CheckExists(ctx, callerToken); err != nil {
		return nil, err
	}
	if _, err := s.roleByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.GetRolePermissions(ctx, id)
}

// UpdatePermissions replaces the role's entire permission set with the
// permissions that resolve from the given ids. Unresolvable ids are
// silently dropped.
func (s *Service) UpdatePermissions(ctx context.Context, id int64, permissionIDs []int64, callerToken string) ([]models.Permission, error) {
	if _, err := s.tokens.CheckExists(ctx, callerToken); err != nil {
		return nil, err
	}
	if _, err := s.roleByID(ctx, id); err != nil {
		return nil, err
	}

	resolved := []models.Permission{}
	resolvedIDs := []int64{}
	for _, permissionID := range permissionIDs {
		perm, err := s.repo.GetPermissionByID(ctx, permissionID, false)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to resolve permission: %w", err)
		}
		resolved = append(resolved, *perm)
		resolvedIDs = append(resolvedIDs, perm.ID)
	}

	if err := s.repo.ReplaceRolePermissions(ctx, id, resolvedIDs); err != nil {
		return nil, fmt.Errorf("failed to update permissions: %w", err)
	}
	return resolved, nil
}

func (s *Service) roleByID(ctx context.Context, id int64) (*models.Role, error) {
	role, err := s.repo.GetRoleByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, autherr.ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}
