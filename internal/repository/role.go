// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/authcore/internal/models"
)

// CreateRole inserts a new role and returns the stored row.
func (r *Repository) CreateRole(ctx context.Context, role *models.Role) (*models.Role, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO roles (name, description) VALUES (?, ?)`,
		role.Name, role.Description)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetRoleByID(ctx, id, false)
}

// GetRoleByID retrieves a role by ID.
func (r *Repository) GetRoleByID(ctx context.Context, id int64, includeDeleted bool) (*models.Role, error) {
	var role models.Role
	query := liveClause(`SELECT * FROM roles WHERE id = ?`, includeDeleted)
	if err := r.db.GetContext(ctx, &role, query, id); err != nil {
		return nil, wrapError(err)
	}
	return &role, nil
}

// ListRoles returns the total count of matching roles plus one page.
func (r *Repository) ListRoles(ctx context.Context, limit, offset int64, includeDeleted bool) (int64, []models.Role, error) {
	where := ""
	if !includeDeleted {
		where = " WHERE deleted_at IS NULL"
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM roles`+where); err != nil {
		return 0, nil, err
	}

	roles := []models.Role{}
	err := r.db.SelectContext(ctx, &roles,
		`SELECT * FROM roles`+where+` ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return 0, nil, err
	}
	return count, roles, nil
}

// UpdateRole updates a role, optionally soft-deleting it in the same pass.
func (r *Repository) UpdateRole(ctx context.Context, role *models.Role, delete bool) (*models.Role, error) {
	deletedAt := role.DeletedAt
	if delete && deletedAt == nil {
		now := time.Now().UTC()
		deletedAt = &now
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE roles
		 SET name = ?, description = ?, deleted_at = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		role.Name, role.Description, deletedAt, role.ID)
	if err != nil {
		return nil, err
	}
	return r.GetRoleByID(ctx, role.ID, delete)
}

// GetRolePermissions returns the live permissions attached to a role.
func (r *Repository) GetRolePermissions(ctx context.Context, roleID int64) ([]models.Permission, error) {
	perms := []models.Permission{}
	err := r.db.SelectContext(ctx, &perms,
		`SELECT p.* FROM permissions p
		 JOIN role_permissions rp ON rp.permission_id = p.id
		 WHERE rp.role_id = ? AND p.deleted_at IS NULL
		 ORDER BY p.id`, roleID)
	if err != nil {
		return nil, err
	}
	return perms, nil
}

// ReplaceRolePermissions replaces the role's entire permission set.
func (r *Repository) ReplaceRolePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM role_permissions WHERE role_id = ?`, roleID); err != nil {
		return err
	}
	for _, permissionID := range permissionIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO role_permissions (role_id, permission_id) VALUES (?, ?)`, roleID, permissionID)
		if err != nil {
			return err
		}
	}
	return nil
}
