// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package hasher provides the two hash primitives the credential core
// needs: a slow salted password hash for stored credentials, and a fast
// one-way digest used solely to index token records. The two must never
// be mixed up; the digest is far too cheap for passwords.
package hasher

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// SaltLength is the number of random bytes in a password salt.
	SaltLength = 32
	// bcryptCost keeps a single verification around the 100ms mark.
	bcryptCost = 12
)

// Hash derives a password hash and a fresh random salt. The salted
// password is pre-hashed with SHA-256 before bcrypt so arbitrarily long
// inputs stay inside bcrypt's 72-byte limit.
func Hash(password string) (hash, salt string, err error) {
	saltBytes := make([]byte, SaltLength)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}
	salt = hex.EncodeToString(saltBytes)

	hashed, err := bcrypt.GenerateFromPassword(prehash(password, salt), bcryptCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), salt, nil
}

// Verify reports whether the password matches the stored hash and salt.
// The comparison is constant time; a mismatch is a false, never an error.
func Verify(password, hash, salt string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(password, salt)) == nil
}

// Digest computes the SHA-256 hex digest of a secret. Used only as a
// lookup key for stored tokens, never for passwords.
func Digest(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func prehash(password, salt string) []byte {
	sum := sha256.Sum256([]byte(password + salt))
	return []byte(hex.EncodeToString(sum[:]))
}
