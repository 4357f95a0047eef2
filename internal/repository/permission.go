// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/authcore/internal/models"
)

// CreatePermission inserts a new permission and returns the stored row.
func (r *Repository) CreatePermission(ctx context.Context, perm *models.Permission) (*models.Permission, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO permissions (name, description) VALUES (?, ?)`,
		perm.Name, perm.Description)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetPermissionByID(ctx, id, false)
}

// GetPermissionByID retrieves a permission by ID.
func (r *Repository) GetPermissionByID(ctx context.Context, id int64, includeDeleted bool) (*models.Permission, error) {
	var perm models.Permission
	query := liveClause(`SELECT * FROM permissions WHERE id = ?`, includeDeleted)
	if err := r.db.GetContext(ctx, &perm, query, id); err != nil {
		return nil, wrapError(err)
	}
	return &perm, nil
}

// ListPermissions returns the total count of matching permissions plus one page.
func (r *Repository) ListPermissions(ctx context.Context, limit, offset int64, includeDeleted bool) (int64, []models.Permission, error) {
	where := ""
	if !includeDeleted {
		where = " WHERE deleted_at IS NULL"
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM permissions`+where); err != nil {
		return 0, nil, err
	}

	perms := []models.Permission{}
	err := r.db.SelectContext(ctx, &perms,
		`SELECT * FROM permissions`+where+` ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return 0, nil, err
	}
	return count, perms, nil
}

// UpdatePermission updates a permission, optionally soft-deleting it.
func (r *Repository) UpdatePermission(ctx context.Context, perm *models.Permission, delete bool) (*models.Permission, error) {
	deletedAt := perm.DeletedAt
	if delete && deletedAt == nil {
		now := time.Now().UTC()
		deletedAt = &now
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE permissions
		 SET name = ?, description = ?, deleted_at = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		perm.Name, perm.Description, deletedAt, perm.ID)
	if err != nil {
		return nil, err
	}
	return r.GetPermissionByID(ctx, perm.ID, delete)
}
