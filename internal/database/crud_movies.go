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

// Catalog errors
var (
	ErrMovieNotFound     = errors.New("movie not found")
	ErrShowNotFound      = errors.New("show not found")
	ErrCelebrityNotFound = errors.New("celebrity not found")
)

// MovieFilter narrows ListMovies. Zero values mean "no filter".
type MovieFilter struct {
	Genre string
	Year  int
	Limit int
	Skip  int
}

const movieColumns = `m.id, m.title, m.synopsis, m.release_year, m.duration_min, m.created_at,
	COALESCE(r.avg_score, 0) AS avg_rating,
	COALESCE(r.rating_count, 0) AS rating_count`

const movieRatingJoin = `LEFT JOIN (
	SELECT movie_id, AVG(score) AS avg_score, COUNT(*) AS rating_count
	FROM ratings WHERE movie_id IS NOT NULL GROUP BY movie_id
) r ON r.movie_id = m.id`

// CreateMovie inserts a movie and links its genres. The generated ID is
// written back into the struct.
func (db *DB) CreateMovie(ctx context.Context, movie *models.Movie) error {
	query := `INSERT INTO movies (title, synopsis, release_year, duration_min)
		VALUES (?, ?, ?, ?) RETURNING id, created_at`

	err := db.conn.QueryRowContext(ctx, query,
		movie.Title, nullIfEmpty(movie.Synopsis), movie.ReleaseYear, nullIfZero(movie.DurationMin),
	).Scan(&movie.ID, &movie.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}

	if err := db.setMovieGenres(ctx, movie.ID, movie.Genres); err != nil {
		return err
	}
	return nil
}

// GetMovie retrieves a movie with its genres and rating aggregate.
func (db *DB) GetMovie(ctx context.Context, id int64) (*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies m ` + movieRatingJoin + ` WHERE m.id = ?`

	movie, err := scanMovie(db.conn.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	movie.Genres, err = db.movieGenres(ctx, id)
	if err != nil {
		return nil, err
	}
	return movie, nil
}

// ListMovies retrieves movies matching the filter, newest first.
func (db *DB) ListMovies(ctx context.Context, filter MovieFilter) ([]models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies m ` + movieRatingJoin
	args := []any{}

	if filter.Genre != "" {
		query += ` JOIN movie_genres mg ON mg.movie_id = m.id
			JOIN genres g ON g.id = mg.genre_id AND lower(g.name) = lower(?)`
		args = append(args, filter.Genre)
	}
	query += ` WHERE 1=1`
	if filter.Year != 0 {
		query += ` AND m.release_year = ?`
		args = append(args, filter.Year)
	}
	query += ` ORDER BY m.created_at DESC, m.id DESC`
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
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	movies := make([]models.Movie, 0)
	for rows.Next() {
		movie, err := scanMovieRows(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movies: %w", err)
	}

	for i := range movies {
		movies[i].Genres, err = db.movieGenres(ctx, movies[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return movies, nil
}

// UpdateMovie updates a movie's fields and replaces its genre links.
func (db *DB) UpdateMovie(ctx context.Context, movie *models.Movie) error {
	query := `UPDATE movies SET title = ?, synopsis = ?, release_year = ?, duration_min = ?
		WHERE id = ?`

	result, err := db.conn.ExecContext(ctx, query,
		movie.Title, nullIfEmpty(movie.Synopsis), movie.ReleaseYear, nullIfZero(movie.DurationMin),
		movie.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrMovieNotFound
	}

	return db.setMovieGenres(ctx, movie.ID, movie.Genres)
}

// DeleteMovie removes a movie along with its genre links, credits, and
// ratings.
func (db *DB) DeleteMovie(ctx context.Context, id int64) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrMovieNotFound
	}

	for _, cleanup := range []string{
		`DELETE FROM movie_genres WHERE movie_id = ?`,
		`DELETE FROM credits WHERE movie_id = ?`,
		`DELETE FROM ratings WHERE movie_id = ?`,
	} {
		if _, err := db.conn.ExecContext(ctx, cleanup, id); err != nil {
			return fmt.Errorf("failed to clean up movie references: %w", err)
		}
	}
	return nil
}

// setMovieGenres replaces the movie's genre links, creating genre rows as
// needed.
func (db *DB) setMovieGenres(ctx context.Context, movieID int64, genres []string) error {
	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM movie_genres WHERE movie_id = ?`, movieID); err != nil {
		return fmt.Errorf("failed to clear movie genres: %w", err)
	}

	for _, name := range genres {
		genreID, err := db.ensureGenre(ctx, name)
		if err != nil {
			return err
		}
		if _, err := db.conn.ExecContext(ctx,
			`INSERT INTO movie_genres (movie_id, genre_id) VALUES (?, ?)`,
			movieID, genreID); err != nil {
			return fmt.Errorf("failed to link movie genre: %w", err)
		}
	}
	return nil
}

// ensureGenre returns the genre ID for name, inserting it if new.
func (db *DB) ensureGenre(ctx context.Context, name string) (int64, error) {
	var id int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM genres WHERE lower(name) = lower(?)`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up genre: %w", err)
	}

	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO genres (name) VALUES (?) RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create genre: %w", err)
	}
	return id, nil
}

func (db *DB) movieGenres(ctx context.Context, movieID int64) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT g.name FROM genres g
		JOIN movie_genres mg ON mg.genre_id = g.id
		WHERE mg.movie_id = ? ORDER BY g.name`, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to load movie genres: %w", err)
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

func scanMovie(row *sql.Row) (*models.Movie, error) {
	var movie models.Movie
	var synopsis sql.NullString
	var duration sql.NullInt64

	err := row.Scan(
		&movie.ID, &movie.Title, &synopsis, &movie.ReleaseYear, &duration,
		&movie.CreatedAt, &movie.AvgRating, &movie.RatingCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan movie: %w", err)
	}

	movie.Synopsis = synopsis.String
	movie.DurationMin = int(duration.Int64)
	return &movie, nil
}

func scanMovieRows(rows *sql.Rows) (*models.Movie, error) {
	var movie models.Movie
	var synopsis sql.NullString
	var duration sql.NullInt64

	err := rows.Scan(
		&movie.ID, &movie.Title, &synopsis, &movie.ReleaseYear, &duration,
		&movie.CreatedAt, &movie.AvgRating, &movie.RatingCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan movie: %w", err)
	}

	movie.Synopsis = synopsis.String
	movie.DurationMin = int(duration.Int64)
	return &movie, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
