// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cinescope/cinescope/internal/models"
)

// User errors
var (
	ErrEmailTaken = errors.New("email already registered")
)

// CreateUser inserts a new account. The password hash must already be
// computed by the caller.
func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	query := `INSERT INTO users (id, email, display_name, password_hash, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		user.ID, user.Email, user.DisplayName, user.PasswordHash, user.Active, user.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindUserByID retrieves a user by ID. A missing user is (nil, nil), not
// an error: callers distinguish "no such principal" from "lookup failed".
func (db *DB) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, email, display_name, password_hash, active, created_at
		FROM users WHERE id = ?`

	user, err := scanUser(db.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

// FindUserByEmail retrieves a user by email. A missing user is (nil, nil).
func (db *DB) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, email, display_name, password_hash, active, created_at
		FROM users WHERE email = ?`

	user, err := scanUser(db.conn.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

// SetUserActive flips the account active flag. Deactivated accounts fail
// session verification on their next request.
func (db *DB) SetUserActive(ctx context.Context, id string, active bool) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update user active flag: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %s not found", id)
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	// The driver surfaces UUID columns as uuid-compatible values, not
	// plain strings; scan through uuid.UUID.
	var id uuid.UUID
	err := row.Scan(
		&id, &user.Email, &user.DisplayName, &user.PasswordHash,
		&user.Active, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	user.ID = id.String()
	return &user, nil
}

// isUniqueConstraintError checks if an error is a unique constraint
// violation. DuckDB error messages contain "UNIQUE constraint" or
// "Duplicate key".
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "unique constraint") || strings.Contains(errMsg, "duplicate key")
}
