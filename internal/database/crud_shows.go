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

// ShowFilter narrows ListShows. Zero values mean "no filter".
type ShowFilter struct {
	Genre string
	Year  int
	Limit int
	Skip  int
}

const showColumns = `s.id, s.title, s.synopsis, s.first_aired, s.seasons, s.created_at,
	COALESCE(r.avg_score, 0) AS avg_rating,
	COALESCE(r.rating_count, 0) AS rating_count`

const showRatingJoin = `LEFT JOIN (
	SELECT show_id, AVG(score) AS avg_score, COUNT(*) AS rating_count
	FROM ratings WHERE show_id IS NOT NULL GROUP BY show_id
) r ON r.show_id = s.id`

// CreateShow inserts a show and links its genres.
func (db *DB) CreateShow(ctx context.Context, show *models.Show) error {
	seasons := show.Seasons
	if seasons <= 0 {
		seasons = 1
	}

	query := `INSERT INTO shows (title, synopsis, first_aired, seasons)
		VALUES (?, ?, ?, ?) RETURNING id, created_at`

	err := db.conn.QueryRowContext(ctx, query,
		show.Title, nullIfEmpty(show.Synopsis), show.FirstAired, seasons,
	).Scan(&show.ID, &show.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create show: %w", err)
	}
	show.Seasons = seasons

	return db.setShowGenres(ctx, show.ID, show.Genres)
}

// GetShow retrieves a show with its genres and rating aggregate.
func (db *DB) GetShow(ctx context.Context, id int64) (*models.Show, error) {
	query := `SELECT ` + showColumns + ` FROM shows s ` + showRatingJoin + ` WHERE s.id = ?`

	show, err := scanShow(db.conn.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}

	show.Genres, err = db.showGenres(ctx, id)
	if err != nil {
		return nil, err
	}
	return show, nil
}

// ListShows retrieves shows matching the filter, newest first.
func (db *DB) ListShows(ctx context.Context, filter ShowFilter) ([]models.Show, error) {
	query := `SELECT ` + showColumns + ` FROM shows s ` + showRatingJoin
	args := []any{}

	if filter.Genre != "" {
		query += ` JOIN show_genres sg ON sg.show_id = s.id
			JOIN genres g ON g.id = sg.genre_id AND lower(g.name) = lower(?)`
		args = append(args, filter.Genre)
	}
	query += ` WHERE 1=1`
	if filter.Year != 0 {
		query += ` AND s.first_aired = ?`
		args = append(args, filter.Year)
	}
	query += ` ORDER BY s.created_at DESC, s.id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Skip > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Skip)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}
	defer rows.Close()

	shows := make([]models.Show, 0)
	for rows.Next() {
		show, err := scanShowRows(rows)
		if err != nil {
			return nil, err
		}
		shows = append(shows, *show)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shows: %w", err)
	}

	for i := range shows {
		shows[i].Genres, err = db.showGenres(ctx, shows[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return shows, nil
}

// UpdateShow updates a show's fields and replaces its genre links.
func (db *DB) UpdateShow(ctx context.Context, show *models.Show) error {
	query := `UPDATE shows SET title = ?, synopsis = ?, first_aired = ?, seasons = ?
		WHERE id = ?`

	result, err := db.conn.ExecContext(ctx, query,
		show.Title, nullIfEmpty(show.Synopsis), show.FirstAired, show.Seasons, show.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update show: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrShowNotFound
	}

	return db.setShowGenres(ctx, show.ID, show.Genres)
}

// DeleteShow removes a show along with its genre links, credits, and
// ratings.
func (db *DB) DeleteShow(ctx context.Context, id int64) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM shows WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete show: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrShowNotFound
	}

	for _, cleanup := range []string{
		`DELETE FROM show_genres WHERE show_id = ?`,
		`DELETE FROM credits WHERE show_id = ?`,
		`DELETE FROM ratings WHERE show_id = ?`,
	} {
		if _, err := db.conn.ExecContext(ctx, cleanup, id); err != nil {
			return fmt.Errorf("failed to clean up show references: %w", err)
		}
	}
	return nil
}

func (db *DB) setShowGenres(ctx context.Context, showID int64, genres []string) error {
	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM show_genres WHERE show_id = ?`, showID); err != nil {
		return fmt.Errorf("failed to clear show genres: %w", err)
	}

	for _, name := range genres {
		genreID, err := db.ensureGenre(ctx, name)
		if err != nil {
			return err
		}
		if _, err := db.conn.ExecContext(ctx,
			`INSERT INTO show_genres (show_id, genre_id) VALUES (?, ?)`,
			showID, genreID); err != nil {
			return fmt.Errorf("failed to link show genre: %w", err)
		}
	}
	return nil
}

func (db *DB) showGenres(ctx context.Context, showID int64) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT g.name FROM genres g
		JOIN show_genres sg ON sg.genre_id = g.id
		WHERE sg.show_id = ? ORDER BY g.name`, showID)
	if err != nil {
		return nil, fmt.Errorf("failed to load show genres: %w", err)
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating genres: %w", err)
	}
	return genres, nil
}

func scanShow(row *sql.Row) (*models.Show, error) {
	var show models.Show
	var synopsis sql.NullString

	err := row.Scan(
		&show.ID, &show.Title, &synopsis, &show.FirstAired, &show.Seasons,
		&show.CreatedAt, &show.AvgRating, &show.RatingCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan show: %w", err)
	}

	show.Synopsis = synopsis.String
	return &show, nil
}

func scanShowRows(rows *sql.Rows) (*models.Show, error) {
	var show models.Show
	var synopsis sql.NullString

	err := rows.Scan(
		&show.ID, &show.Title, &synopsis, &show.FirstAired, &show.Seasons,
		&show.CreatedAt, &show.AvgRating, &show.RatingCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan show: %w", err)
	}

	show.Synopsis = synopsis.String
	return &show, nil
}
