// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package models defines the database records for users, roles,
// permissions and issued tokens. Soft deletion is modeled as a nullable
// deleted_at timestamp on every entity; a set timestamp means the row is
// logically gone but kept for audit.
package models

import "time"

// User is an account that can hold credentials and roles.
type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID            int64      `db:"id" json:"id"`
	Email         string     `db:"email" json:"email"`
	EmailVerified bool       `db:"email_verified" json:"email_verified"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	Salt          string     `db:"salt" json:"-"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}
