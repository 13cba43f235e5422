// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package database

import (
	"context"
	"fmt"

	"github.com/cinescope/cinescope/internal/models"
)

// RecommendMovies returns movies for a user ranked by genre overlap with
// the titles the user rated 7 or higher. Already-rated movies are
// excluded. The result is empty, not an error, when the user has no
// qualifying ratings.
func (db *DB) RecommendMovies(ctx context.Context, userID string, limit int) ([]models.Recommendation, error) {
	if limit <= 0 {
		limit = 10
	}

	// liked_genres: genres of movies this user scored >= 7.
	query := `
		WITH liked_genres AS (
			SELECT DISTINCT mg.genre_id
			FROM ratings r
			JOIN movie_genres mg ON mg.movie_id = r.movie_id
			WHERE r.user_id = ? AND r.movie_id IS NOT NULL AND r.score >= 7
		)
		SELECT m.id, COUNT(*) AS overlap
		FROM movies m
		JOIN movie_genres mg ON mg.movie_id = m.id
		JOIN liked_genres lg ON lg.genre_id = mg.genre_id
		WHERE m.id NOT IN (
			SELECT movie_id FROM ratings WHERE user_id = ? AND movie_id IS NOT NULL
		)
		GROUP BY m.id
		ORDER BY overlap DESC, m.id
		LIMIT ?`

	rows, err := db.conn.QueryContext(ctx, query, userID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to compute recommendations: %w", err)
	}
	defer rows.Close()

	type candidate struct {
		movieID int64
		overlap int
	}
	candidates := make([]candidate, 0)
	for rows.Next() {
		var c candidate
		if err := rows.Scan(&c.movieID, &c.overlap); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recommendations: %w", err)
	}

	recommendations := make([]models.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		movie, err := db.GetMovie(ctx, c.movieID)
		if err != nil {
			return nil, err
		}
		shared, err := db.sharedGenres(ctx, userID, c.movieID)
		if err != nil {
			return nil, err
		}
		recommendations = append(recommendations, models.Recommendation{
			Movie:        *movie,
			SharedGenres: shared,
		})
	}
	return recommendations, nil
}

// sharedGenres lists the genre names a candidate movie shares with the
// user's liked set.
func (db *DB) sharedGenres(ctx context.Context, userID string, movieID int64) ([]string, error) {
	query := `
		SELECT DISTINCT g.name
		FROM movie_genres mg
		JOIN genres g ON g.id = mg.genre_id
		WHERE mg.movie_id = ? AND mg.genre_id IN (
			SELECT DISTINCT mg2.genre_id
			FROM ratings r
			JOIN movie_genres mg2 ON mg2.movie_id = r.movie_id
			WHERE r.user_id = ? AND r.movie_id IS NOT NULL AND r.score >= 7
		)
		ORDER BY g.name`

	rows, err := db.conn.QueryContext(ctx, query, movieID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shared genres: %w", err)
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
