// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package repository implements the persistence contract the services
// depend on: keyed lookups, paginated listings, creates, and updates that
// carry an explicit soft-delete intent. All read paths exclude soft-deleted
// rows unless the caller asks for them.
package repository

import (
	"database/sql"
	"errors"

	"github.com/vinovest/sqlx"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// Repository wraps sqlx for database operations.
type Repository struct {
	db *sqlx.DB
}

// New creates a new Repository instance.
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying sqlx DB for direct access.
func (r *Repository) DB() *sqlx.DB {
	return r.db
}

// wrapError converts database/sql errors to repository errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// liveClause appends the soft-delete filter unless deleted rows are wanted.
func liveClause(query string, includeDeleted bool) string {
	if includeDeleted {
		return query
	}
	return query + " AND deleted_at IS NULL"
}
