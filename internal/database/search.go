// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/cinescope/cinescope/internal/models"
)

// Search runs a case-insensitive catalog search across movies, shows, and
// celebrities. Results are ranked: exact title match, then prefix match,
// then substring match, with ties broken alphabetically.
func (db *DB) Search(ctx context.Context, term string, limit int) ([]models.SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.SearchResult{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	// Rank weights: 3 exact, 2 prefix, 1 substring.
	query := `
		SELECT kind, id, title, year, score FROM (
			SELECT 'movie' AS kind, id, title, release_year AS year,
				CASE
					WHEN lower(title) = lower(?) THEN 3
					WHEN lower(title) LIKE lower(?) THEN 2
					ELSE 1
				END AS score
			FROM movies WHERE lower(title) LIKE lower(?)
			UNION ALL
			SELECT 'show' AS kind, id, title, first_aired AS year,
				CASE
					WHEN lower(title) = lower(?) THEN 3
					WHEN lower(title) LIKE lower(?) THEN 2
					ELSE 1
				END AS score
			FROM shows WHERE lower(title) LIKE lower(?)
			UNION ALL
			SELECT 'celebrity' AS kind, id, name AS title, 0 AS year,
				CASE
					WHEN lower(name) = lower(?) THEN 3
					WHEN lower(name) LIKE lower(?) THEN 2
					ELSE 1
				END AS score
			FROM celebrities WHERE lower(name) LIKE lower(?)
		)
		ORDER BY score DESC, title, id
		LIMIT ?`

	prefix := term + "%"
	contains := "%" + term + "%"
	args := []any{
		term, prefix, contains,
		term, prefix, contains,
		term, prefix, contains,
		limit,
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog: %w", err)
	}
	defer rows.Close()

	results := make([]models.SearchResult, 0)
	for rows.Next() {
		var r models.SearchResult
		if err := rows.Scan(&r.Kind, &r.ID, &r.Title, &r.Year, &r.Score); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}
	return results, nil
}
