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
	"time"

	"github.com/google/uuid"

	"github.com/cinescope/cinescope/internal/models"
)

// Rating errors
var (
	ErrRatingNotFound = errors.New("rating not found")
)

// UpsertRating stores a user's score for a movie or show. A second rating
// for the same title replaces the first one; the score history is not
// kept.
func (db *DB) UpsertRating(ctx context.Context, rating *models.Rating) error {
	existing, err := db.findRating(ctx, rating.UserID, rating.MovieID, rating.ShowID)
	if err != nil && !errors.Is(err, ErrRatingNotFound) {
		return err
	}

	if existing != nil {
		result, err := db.conn.ExecContext(ctx,
			`UPDATE ratings SET score = ?, review = ?, created_at = ? WHERE id = ?`,
			rating.Score, nullIfEmpty(rating.Review), time.Now(), existing.ID)
		if err != nil {
			return fmt.Errorf("failed to update rating: %w", err)
		}
		if _, err := result.RowsAffected(); err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		rating.ID = existing.ID
		return nil
	}

	query := `INSERT INTO ratings (user_id, movie_id, show_id, score, review)
		VALUES (?, ?, ?, ?, ?) RETURNING id, created_at`

	err = db.conn.QueryRowContext(ctx, query,
		rating.UserID, rating.MovieID, rating.ShowID, rating.Score, nullIfEmpty(rating.Review),
	).Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}
	return nil
}

// findRating looks up a user's rating for one target.
func (db *DB) findRating(ctx context.Context, userID string, movieID, showID *int64) (*models.Rating, error) {
	query := `SELECT id, user_id, movie_id, show_id, score, review, created_at
		FROM ratings WHERE user_id = ?`
	args := []any{userID}

	switch {
	case movieID != nil:
		query += ` AND movie_id = ?`
		args = append(args, *movieID)
	case showID != nil:
		query += ` AND show_id = ?`
		args = append(args, *showID)
	default:
		return nil, fmt.Errorf("rating target is required")
	}

	rating, err := scanRating(db.conn.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRatingNotFound
	}
	return rating, err
}

// ListRatingsForMovie retrieves all ratings of one movie, newest first.
func (db *DB) ListRatingsForMovie(ctx context.Context, movieID int64) ([]models.Rating, error) {
	return db.listRatings(ctx,
		`SELECT id, user_id, movie_id, show_id, score, review, created_at
		FROM ratings WHERE movie_id = ? ORDER BY created_at DESC, id DESC`, movieID)
}

// ListRatingsForShow retrieves all ratings of one show, newest first.
func (db *DB) ListRatingsForShow(ctx context.Context, showID int64) ([]models.Rating, error) {
	return db.listRatings(ctx,
		`SELECT id, user_id, movie_id, show_id, score, review, created_at
		FROM ratings WHERE show_id = ? ORDER BY created_at DESC, id DESC`, showID)
}

// ListRatingsByUser retrieves everything one user has rated, newest first.
func (db *DB) ListRatingsByUser(ctx context.Context, userID string) ([]models.Rating, error) {
	return db.listRatings(ctx,
		`SELECT id, user_id, movie_id, show_id, score, review, created_at
		FROM ratings WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

// DeleteRating removes a rating owned by userID. Ratings of other users
// are invisible to the caller, so a foreign ID reads as not found.
func (db *DB) DeleteRating(ctx context.Context, id int64, userID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM ratings WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRatingNotFound
	}
	return nil
}

func (db *DB) listRatings(ctx context.Context, query string, arg any) ([]models.Rating, error) {
	rows, err := db.conn.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]models.Rating, 0)
	for rows.Next() {
		var rating models.Rating
		var userID uuid.UUID
		var review sql.NullString
		err := rows.Scan(
			&rating.ID, &userID, &rating.MovieID, &rating.ShowID,
			&rating.Score, &review, &rating.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		rating.UserID = userID.String()
		rating.Review = review.String
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}
	return ratings, nil
}

func scanRating(row *sql.Row) (*models.Rating, error) {
	var rating models.Rating
	var userID uuid.UUID
	var review sql.NullString
	err := row.Scan(
		&rating.ID, &userID, &rating.MovieID, &rating.ShowID,
		&rating.Score, &review, &rating.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan rating: %w", err)
	}
	rating.UserID = userID.String()
	rating.Review = review.String
	return &rating, nil
}
