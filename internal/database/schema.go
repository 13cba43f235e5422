// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createSchema creates sequences, tables, and indexes. All statements are
// idempotent so restarts against an existing database file are safe.
func (db *DB) createSchema() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range schemaStatements() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

func schemaStatements() []string {
	return []string{
		// Numeric catalog IDs come from sequences; users keep UUID keys
		// because they are issued by the application at registration.
		`CREATE SEQUENCE IF NOT EXISTS seq_movies START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_shows START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_celebrities START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_credits START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_genres START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_ratings START 1`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS movies (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_movies'),
			title TEXT NOT NULL,
			synopsis TEXT,
			release_year INTEGER NOT NULL,
			duration_min INTEGER,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS shows (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_shows'),
			title TEXT NOT NULL,
			synopsis TEXT,
			first_aired INTEGER NOT NULL,
			seasons INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS celebrities (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_celebrities'),
			name TEXT NOT NULL,
			biography TEXT,
			born_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// Credits link a celebrity to exactly one of movie or show.
		`CREATE TABLE IF NOT EXISTS credits (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_credits'),
			celebrity_id BIGINT NOT NULL,
			movie_id BIGINT,
			show_id BIGINT,
			role TEXT NOT NULL,
			character_name TEXT,
			job TEXT,
			CHECK ((movie_id IS NULL) != (show_id IS NULL))
		)`,

		`CREATE TABLE IF NOT EXISTS genres (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_genres'),
			name TEXT NOT NULL UNIQUE
		)`,

		`CREATE TABLE IF NOT EXISTS movie_genres (
			movie_id BIGINT NOT NULL,
			genre_id BIGINT NOT NULL,
			PRIMARY KEY (movie_id, genre_id)
		)`,

		`CREATE TABLE IF NOT EXISTS show_genres (
			show_id BIGINT NOT NULL,
			genre_id BIGINT NOT NULL,
			PRIMARY KEY (show_id, genre_id)
		)`,

		// One rating per user per title, enforced per target column.
		`CREATE TABLE IF NOT EXISTS ratings (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_ratings'),
			user_id UUID NOT NULL,
			movie_id BIGINT,
			show_id BIGINT,
			score DOUBLE NOT NULL,
			review TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CHECK ((movie_id IS NULL) != (show_id IS NULL)),
			CHECK (score >= 0 AND score <= 10)
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_ratings_user_movie
			ON ratings(user_id, movie_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_ratings_user_show
			ON ratings(user_id, show_id)`,

		`CREATE INDEX IF NOT EXISTS idx_movies_title ON movies(title)`,
		`CREATE INDEX IF NOT EXISTS idx_shows_title ON shows(title)`,
		`CREATE INDEX IF NOT EXISTS idx_celebrities_name ON celebrities(name)`,
		`CREATE INDEX IF NOT EXISTS idx_credits_celebrity ON credits(celebrity_id)`,
		`CREATE INDEX IF NOT EXISTS idx_credits_movie ON credits(movie_id)`,
		`CREATE INDEX IF NOT EXISTS idx_credits_show ON credits(show_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_movie ON ratings(movie_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_show ON ratings(show_id)`,
	}
}
