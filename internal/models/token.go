// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Token is one issued credential pair. Only SHA-256 digests of the signed
// tokens are stored, never the plaintext; a leaked row cannot be replayed.
// Rows are immutable after creation except for the soft-delete transition.
type Token struct { //nolint:govet // fieldalignment: readability over optimization
	ID            int64      `db:"id" json:"id"`
	BearerDigest  string     `db:"bearer_digest" json:"-"`
	RefreshDigest string     `db:"refresh_digest" json:"-"`
	UserID        int64      `db:"user_id" json:"user_id"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}
