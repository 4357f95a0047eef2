// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/authcore/internal/models"
)

// CreateToken inserts a new token record and returns the stored row.
// A duplicate bearer digest surfaces as a constraint error from the
// driver; callers treat it as transient and may retry with a fresh token.
func (r *Repository) CreateToken(ctx context.Context, token *models.Token) (*models.Token, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tokens (bearer_digest, refresh_digest, user_id) VALUES (?, ?, ?)`,
		token.BearerDigest, token.RefreshDigest, token.UserID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	var created models.Token
	if err := r.db.GetContext(ctx, &created, `SELECT * FROM tokens WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &created, nil
}

// GetTokenByBearerDigest retrieves a token record by the digest of its
// bearer token. This is the only lookup path the token lifecycle needs.
func (r *Repository) GetTokenByBearerDigest(ctx context.Context, digest string, includeDeleted bool) (*models.Token, error) {
	var token models.Token
	query := liveClause(`SELECT * FROM tokens WHERE bearer_digest = ?`, includeDeleted)
	if err := r.db.GetContext(ctx, &token, query, digest); err != nil {
		return nil, wrapError(err)
	}
	return &token, nil
}

// UpdateToken updates a token record. Token rows are immutable besides the
// soft-delete transition, so in practice this is only called with the
// delete intent set.
func (r *Repository) UpdateToken(ctx context.Context, token *models.Token, delete bool) (*models.Token, error) {
	deletedAt := token.DeletedAt
	if delete && deletedAt == nil {
		now := time.Now().UTC()
		deletedAt = &now
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE tokens SET deleted_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		deletedAt, token.ID)
	if err != nil {
		return nil, err
	}
	return r.GetTokenByBearerDigest(ctx, token.BearerDigest, delete)
}
