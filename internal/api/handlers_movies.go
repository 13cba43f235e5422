// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package api

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cinescope/cinescope/internal/database"
	"github.com/cinescope/cinescope/internal/httperr"
	"github.com/cinescope/cinescope/internal/metrics"
	"github.com/cinescope/cinescope/internal/models"
	"github.com/cinescope/cinescope/internal/pipeline"
)

// MsgMovieNotFound is the public not-found message for movies. The
// wording is part of the API contract.
const MsgMovieNotFound = "Movie not found"

// pathID extracts a positive numeric {id} path parameter.
func pathID(req *pipeline.Request) (int64, error) {
	raw := chi.URLParam(req.HTTP, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, httperr.BadRequest("id must be a positive integer")
	}
	return id, nil
}

// ListMovies lists movies with optional genre/year filters and paging.
func (h *Handler) ListMovies(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	query := req.Query.(*ListCatalogQuery)

	return h.db.ListMovies(ctx, database.MovieFilter{
		Genre: query.Genre,
		Year:  query.Year,
		Limit: h.pageSize(query.Take),
		Skip:  query.Skip,
	})
}

// GetMovie returns one movie with genres, rating aggregate, and credits.
func (h *Handler) GetMovie(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	id, err := pathID(req)
	if err != nil {
		return nil, err
	}
	if cached, ok := h.reads.Get(movieKey(id)); ok {
		return cached, nil
	}

	movie, err := h.db.GetMovie(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrMovieNotFound) {
			return nil, httperr.NotFound(MsgMovieNotFound)
		}
		return nil, err
	}

	credits, err := h.db.ListCreditsForMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	result := struct {
		*models.Movie
		Credits []models.Credit `json:"credits"`
	}{movie, credits}
	h.reads.Set(movieKey(id), result)
	return result, nil
}

// CreateMovie adds a movie to the catalog.
func (h *Handler) CreateMovie(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	body := req.Body.(*MovieUpsertRequest)

	movie := &models.Movie{
		Title:       body.Title,
		Synopsis:    body.Synopsis,
		ReleaseYear: body.ReleaseYear,
		DurationMin: body.DurationMin,
		Genres:      body.Genres,
	}
	if err := h.db.CreateMovie(ctx, movie); err != nil {
		return nil, err
	}

	metrics.RecordCatalogWrite("movie", "create")
	return pipeline.Created{Value: movie}, nil
}

// UpdateMovie replaces a movie's fields.
func (h *Handler) UpdateMovie(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	id, err := pathID(req)
	if err != nil {
		return nil, err
	}
	body := req.Body.(*MovieUpsertRequest)

	movie := &models.Movie{
		ID:          id,
		Title:       body.Title,
		Synopsis:    body.Synopsis,
		ReleaseYear: body.ReleaseYear,
		DurationMin: body.DurationMin,
		Genres:      body.Genres,
	}
	if err := h.db.UpdateMovie(ctx, movie); err != nil {
		if errors.Is(err, database.ErrMovieNotFound) {
			return nil, httperr.NotFound(MsgMovieNotFound)
		}
		return nil, err
	}

	h.reads.Invalidate(movieKey(id))
	metrics.RecordCatalogWrite("movie", "update")
	return h.db.GetMovie(ctx, id)
}

// DeleteMovie removes a movie and its references.
func (h *Handler) DeleteMovie(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	id, err := pathID(req)
	if err != nil {
		return nil, err
	}

	if err := h.db.DeleteMovie(ctx, id); err != nil {
		if errors.Is(err, database.ErrMovieNotFound) {
			return nil, httperr.NotFound(MsgMovieNotFound)
		}
		return nil, err
	}

	h.reads.Invalidate(movieKey(id))
	metrics.RecordCatalogWrite("movie", "delete")
	return map[string]bool{"deleted": true}, nil
}
