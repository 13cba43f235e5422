// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

// Package models defines the domain types shared between the database
// layer and the API handlers.
package models

import "time"

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Movie is a single catalog movie entry.
type Movie struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Synopsis    string    `json:"synopsis,omitempty"`
	ReleaseYear int       `json:"releaseYear"`
	DurationMin int       `json:"durationMin,omitempty"`
	Genres      []string  `json:"genres,omitempty"`
	AvgRating   float64   `json:"avgRating"`
	RatingCount int64     `json:"ratingCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Show is a series catalog entry.
type Show struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Synopsis    string    `json:"synopsis,omitempty"`
	FirstAired  int       `json:"firstAired"`
	Seasons     int       `json:"seasons"`
	Genres      []string  `json:"genres,omitempty"`
	AvgRating   float64   `json:"avgRating"`
	RatingCount int64     `json:"ratingCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Celebrity is an actor, director, or other credited person.
type Celebrity struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Biography string     `json:"biography,omitempty"`
	BornAt    *time.Time `json:"bornAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Credit links a celebrity to a movie or show as cast or crew.
type Credit struct {
	ID          int64  `json:"id"`
	CelebrityID int64  `json:"celebrityId"`
	MovieID     *int64 `json:"movieId,omitempty"`
	ShowID      *int64 `json:"showId,omitempty"`
	// Role is "cast" or "crew".
	Role      string `json:"role"`
	Character string `json:"character,omitempty"`
	Job       string `json:"job,omitempty"`
}

// Rating is a user's score for a movie or show. Exactly one of MovieID
// and ShowID is set.
type Rating struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	MovieID   *int64    `json:"movieId,omitempty"`
	ShowID    *int64    `json:"showId,omitempty"`
	Score     float64   `json:"score"`
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// SearchResult is a single row from the catalog search.
type SearchResult struct {
	// Kind is "movie", "show", or "celebrity".
	Kind  string  `json:"kind"`
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Year  int     `json:"year,omitempty"`
	Score float64 `json:"score"`
}

// Recommendation pairs a movie with the genre overlap that produced it.
type Recommendation struct {
	Movie        Movie    `json:"movie"`
	SharedGenres []string `json:"sharedGenres"`
}
