// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package autherr defines the closed set of domain errors shared by the
// token and access-control services, plus the single place where they are
// mapped to HTTP status codes for whatever transport sits on top.
package autherr

import (
	"errors"
	"net/http"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrRoleNotFound        = errors.New("role not found")
	ErrPermissionNotFound  = errors.New("permission not found")
	ErrTokenNotFound       = errors.New("token not found")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUserExists          = errors.New("user already exists")
)

// StatusCode maps a domain error to an HTTP status code. The mapping
// happens here exactly once; transports must not reinterpret errors.
// Messages never carry storage-layer details, so the error text is safe
// to return to clients as-is.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrTokenNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrInvalidRefreshToken),
		errors.Is(err, ErrUserExists):
		return http.StatusForbidden
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrRoleNotFound),
		errors.Is(err, ErrPermissionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
