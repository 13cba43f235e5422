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

	"github.com/cinescope/cinescope/internal/models"
)

// CreateCelebrity inserts a celebrity. The generated ID is written back
// into the struct.
func (db *DB) CreateCelebrity(ctx context.Context, celeb *models.Celebrity) error {
	query := `INSERT INTO celebrities (name, biography, born_at)
		VALUES (?, ?, ?) RETURNING id, created_at`

	err := db.conn.QueryRowContext(ctx, query,
		celeb.Name, nullIfEmpty(celeb.Biography), celeb.BornAt,
	).Scan(&celeb.ID, &celeb.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create celebrity: %w", err)
	}
	return nil
}

// GetCelebrity retrieves a celebrity by ID.
func (db *DB) GetCelebrity(ctx context.Context, id int64) (*models.Celebrity, error) {
	query := `SELECT id, name, biography, born_at, created_at
		FROM celebrities WHERE id = ?`

	var celeb models.Celebrity
	var biography sql.NullString
	var bornAt sql.NullTime

	err := db.conn.QueryRowContext(ctx, query, id).Scan(
		&celeb.ID, &celeb.Name, &biography, &bornAt, &celeb.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCelebrityNotFound
		}
		return nil, fmt.Errorf("failed to scan celebrity: %w", err)
	}

	celeb.Biography = biography.String
	if bornAt.Valid {
		celeb.BornAt = &bornAt.Time
	}
	return &celeb, nil
}

// UpdateCelebrity replaces a celebrity's fields.
func (db *DB) UpdateCelebrity(ctx context.Context, celeb *models.Celebrity) error {
	query := `UPDATE celebrities SET name = ?, biography = ?, born_at = ? WHERE id = ?`

	result, err := db.conn.ExecContext(ctx, query,
		celeb.Name, nullIfEmpty(celeb.Biography), celeb.BornAt, celeb.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update celebrity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrCelebrityNotFound
	}
	return nil
}

// DeleteCelebrity removes a celebrity and the credits pointing at it.
func (db *DB) DeleteCelebrity(ctx context.Context, id int64) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM celebrities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete celebrity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrCelebrityNotFound
	}

	if _, err := db.conn.ExecContext(ctx, `DELETE FROM credits WHERE celebrity_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete celebrity credits: %w", err)
	}
	return nil
}

// ListCelebrities retrieves celebrities ordered by name.
func (db *DB) ListCelebrities(ctx context.Context, limit, skip int) ([]models.Celebrity, error) {
	query := `SELECT id, name, biography, born_at, created_at
		FROM celebrities ORDER BY name, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	if skip > 0 {
		query += ` OFFSET ?`
		args = append(args, skip)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list celebrities: %w", err)
	}
	defer rows.Close()

	celebs := make([]models.Celebrity, 0)
	for rows.Next() {
		var celeb models.Celebrity
		var biography sql.NullString
		var bornAt sql.NullTime
		if err := rows.Scan(&celeb.ID, &celeb.Name, &biography, &bornAt, &celeb.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan celebrity: %w", err)
		}
		celeb.Biography = biography.String
		if bornAt.Valid {
			celeb.BornAt = &bornAt.Time
		}
		celebs = append(celebs, celeb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating celebrities: %w", err)
	}
	return celebs, nil
}

// CreateCredit links a celebrity to a movie or show. Exactly one of
// MovieID and ShowID must be set; the schema enforces it.
func (db *DB) CreateCredit(ctx context.Context, credit *models.Credit) error {
	query := `INSERT INTO credits (celebrity_id, movie_id, show_id, role, character_name, job)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`

	err := db.conn.QueryRowContext(ctx, query,
		credit.CelebrityID, credit.MovieID, credit.ShowID,
		credit.Role, nullIfEmpty(credit.Character), nullIfEmpty(credit.Job),
	).Scan(&credit.ID)
	if err != nil {
		return fmt.Errorf("failed to create credit: %w", err)
	}
	return nil
}

// ListCreditsForCelebrity retrieves all credits of one celebrity.
func (db *DB) ListCreditsForCelebrity(ctx context.Context, celebrityID int64) ([]models.Credit, error) {
	query := `SELECT id, celebrity_id, movie_id, show_id, role, character_name, job
		FROM credits WHERE celebrity_id = ? ORDER BY id`

	rows, err := db.conn.QueryContext(ctx, query, celebrityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list credits: %w", err)
	}
	defer rows.Close()

	return scanCredits(rows)
}

// ListCreditsForMovie retrieves all credits attached to one movie.
func (db *DB) ListCreditsForMovie(ctx context.Context, movieID int64) ([]models.Credit, error) {
	query := `SELECT id, celebrity_id, movie_id, show_id, role, character_name, job
		FROM credits WHERE movie_id = ? ORDER BY id`

	rows, err := db.conn.QueryContext(ctx, query, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to list credits: %w", err)
	}
	defer rows.Close()

	return scanCredits(rows)
}

func scanCredits(rows *sql.Rows) ([]models.Credit, error) {
	credits := make([]models.Credit, 0)
	for rows.Next() {
		var credit models.Credit
		var character, job sql.NullString
		err := rows.Scan(
			&credit.ID, &credit.CelebrityID, &credit.MovieID, &credit.ShowID,
			&credit.Role, &character, &job,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit: %w", err)
		}
		credit.Character = character.String
		credit.Job = job.String
		credits = append(credits, credit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credits: %w", err)
	}
	return credits, nil
}
