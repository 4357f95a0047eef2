// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/authcore/internal/models"
)

// CreateUser inserts a new user and returns the stored row.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, email_verified, password_hash, salt) VALUES (?, ?, ?, ?)`,
		user.Email, user.EmailVerified, user.PasswordHash, user.Salt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetUserByID(ctx, id, false)
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64, includeDeleted bool) (*models.User, error) {
	var user models.User
	query := liveClause(`SELECT * FROM users WHERE id = ?`, includeDeleted)
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string, includeDeleted bool) (*models.User, error) {
	var user models.User
	query := liveClause(`SELECT * FROM users WHERE email = ?`, includeDeleted)
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// ListUsers returns the total count of matching users plus one page.
func (r *Repository) ListUsers(ctx context.Context, limit, offset int64, includeDeleted bool) (int64, []models.User, error) {
	where := ""
	if !includeDeleted {
		where = " WHERE deleted_at IS NULL"
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`+where); err != nil {
		return 0, nil, err
	}

	users := []models.User{}
	err := r.db.SelectContext(ctx, &users,
		`SELECT * FROM users`+where+` ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return 0, nil, err
	}
	return count, users, nil
}

// UpdateUser updates a user's mutable fields. Soft deletion is the same
// operation with the delete intent set; the returned row reflects the
// stored state after the update.
func (r *Repository) UpdateUser(ctx context.Context, user *models.User, delete bool) (*models.User, error) {
	deletedAt := user.DeletedAt
	if delete && deletedAt == nil {
		now := time.Now().UTC()
		deletedAt = &now
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET email_verified = ?, password_hash = ?, salt = ?, deleted_at = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		user.EmailVerified, user.PasswordHash, user.Salt, deletedAt, user.ID)
	if err != nil {
		return nil, err
	}
	return r.GetUserByID(ctx, user.ID, delete)
}

// GetUserRoles returns the live roles currently assigned to a user.
func (r *Repository) GetUserRoles(ctx context.Context, userID int64) ([]models.Role, error) {
	roles := []models.Role{}
	err := r.db.SelectContext(ctx, &roles,
		`SELECT r.* FROM roles r
		 JOIN user_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id = ? AND r.deleted_at IS NULL
		 ORDER BY r.id`, userID)
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// ReplaceUserRoles replaces the user's entire role set with the given ids.
func (r *Repository) ReplaceUserRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ?`, userID); err != nil {
		return err
	}
	for _, roleID := range roleIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)`, userID, roleID)
		if err != nil {
			return err
		}
	}
	return nil
}
