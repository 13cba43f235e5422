// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package api

// Request schemas. Each endpoint declares one of these with the pipeline;
// raw input never reaches a business function. Query schemas receive
// JSON-decoded parameter values, so string parameters arrive quoted
// (genre="drama") and numbers as literals (take=5).

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName" validate:"required,min=2,max=80"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest exchanges credentials for a session.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// MovieUpsertRequest creates or replaces a movie.
type MovieUpsertRequest struct {
	Title       string   `json:"title" validate:"required,max=300"`
	Synopsis    string   `json:"synopsis,omitempty" validate:"omitempty,max=5000"`
	ReleaseYear int      `json:"releaseYear" validate:"required,min=1888,max=2100"`
	DurationMin int      `json:"durationMin,omitempty" validate:"omitempty,min=1,max=1000"`
	Genres      []string `json:"genres,omitempty" validate:"omitempty,max=10,dive,required,max=50"`
}

// ShowUpsertRequest creates or replaces a show.
type ShowUpsertRequest struct {
	Title      string   `json:"title" validate:"required,max=300"`
	Synopsis   string   `json:"synopsis,omitempty" validate:"omitempty,max=5000"`
	FirstAired int      `json:"firstAired" validate:"required,min=1928,max=2100"`
	Seasons    int      `json:"seasons,omitempty" validate:"omitempty,min=1,max=100"`
	Genres     []string `json:"genres,omitempty" validate:"omitempty,max=10,dive,required,max=50"`
}

// CelebrityUpsertRequest creates a celebrity. BornAt is an ISO date.
type CelebrityUpsertRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Biography string `json:"biography,omitempty" validate:"omitempty,max=10000"`
	BornAt    string `json:"bornAt,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// CreditCreateRequest links a celebrity to a movie or a show. Exactly one
// of movieId and showId must be present.
type CreditCreateRequest struct {
	CelebrityID int64  `json:"celebrityId" validate:"required,min=1"`
	MovieID     *int64 `json:"movieId,omitempty" validate:"required_without=ShowID,excluded_with=ShowID,omitempty,min=1"`
	ShowID      *int64 `json:"showId,omitempty" validate:"omitempty,min=1"`
	Role        string `json:"role" validate:"required,oneof=cast crew"`
	Character   string `json:"character,omitempty" validate:"omitempty,max=200"`
	Job         string `json:"job,omitempty" validate:"omitempty,max=200"`
}

// RatingCreateRequest scores a movie or a show on a 0-10 scale. Exactly
// one of movieId and showId must be present.
type RatingCreateRequest struct {
	MovieID *int64   `json:"movieId,omitempty" validate:"required_without=ShowID,excluded_with=ShowID,omitempty,min=1"`
	ShowID  *int64   `json:"showId,omitempty" validate:"omitempty,min=1"`
	Rating  *float64 `json:"rating" validate:"required,min=0,max=10"`
	Review  string   `json:"review,omitempty" validate:"omitempty,max=2000"`
}

// ListCatalogQuery pages and filters a catalog listing.
type ListCatalogQuery struct {
	Take  int    `json:"take,omitempty" validate:"omitempty,min=1,max=100"`
	Skip  int    `json:"skip,omitempty" validate:"omitempty,min=0"`
	Genre string `json:"genre,omitempty" validate:"omitempty,max=50"`
	Year  int    `json:"year,omitempty" validate:"omitempty,min=1888,max=2100"`
}

// ListPageQuery pages a listing without catalog filters.
type ListPageQuery struct {
	Take int `json:"take,omitempty" validate:"omitempty,min=1,max=100"`
	Skip int `json:"skip,omitempty" validate:"omitempty,min=0"`
}

// SearchQuery runs a catalog search.
type SearchQuery struct {
	Query string `json:"query" validate:"required,min=1,max=200"`
	Take  int    `json:"take,omitempty" validate:"omitempty,min=1,max=100"`
}

// RecommendQuery bounds the recommendation result size.
type RecommendQuery struct {
	Take int `json:"take,omitempty" validate:"omitempty,min=1,max=50"`
}
