// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package api

import (
	"context"
	"errors"

	"github.com/cinescope/cinescope/internal/database"
	"github.com/cinescope/cinescope/internal/httperr"
	"github.com/cinescope/cinescope/internal/metrics"
	"github.com/cinescope/cinescope/internal/models"
	"github.com/cinescope/cinescope/internal/pipeline"
)

// CreateRating stores the caller's score for a movie or show. The target
// must exist; a missing movie surfaces as 404 "Movie not found" rather
// than a silent orphan rating.
func (h *Handler) CreateRating(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	body := req.Body.(*RatingCreateRequest)

	if body.MovieID != nil {
		if _, err := h.db.GetMovie(ctx, *body.MovieID); err != nil {
			if errors.Is(err, database.ErrMovieNotFound) {
				return nil, httperr.NotFound(MsgMovieNotFound)
			}
			return nil, err
		}
	}
	if body.ShowID != nil {
		if _, err := h.db.GetShow(ctx, *body.ShowID); err != nil {
			if errors.Is(err, database.ErrShowNotFound) {
				return nil, httperr.NotFound(MsgShowNotFound)
			}
			return nil, err
		}
	}

	rating := &models.Rating{
		UserID:  req.Principal.PrincipalID,
		MovieID: body.MovieID,
		ShowID:  body.ShowID,
		Score:   *body.Rating,
		Review:  body.Review,
	}
	if err := h.db.UpsertRating(ctx, rating); err != nil {
		return nil, err
	}

	// The target's cached aggregate is now stale.
	if body.MovieID != nil {
		h.reads.Invalidate(movieKey(*body.MovieID))
	}
	if body.ShowID != nil {
		h.reads.Invalidate(showKey(*body.ShowID))
	}

	metrics.RecordCatalogWrite("rating", "upsert")
	return pipeline.Created{Value: rating}, nil
}

// MyRatings lists everything the caller has rated.
func (h *Handler) MyRatings(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	return h.db.ListRatingsByUser(ctx, req.Principal.PrincipalID)
}

// DeleteRating removes one of the caller's ratings. Other users' ratings
// are out of reach and read as not found.
func (h *Handler) DeleteRating(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	id, err := pathID(req)
	if err != nil {
		return nil, err
	}

	if err := h.db.DeleteRating(ctx, id, req.Principal.PrincipalID); err != nil {
		if errors.Is(err, database.ErrRatingNotFound) {
			return nil, httperr.NotFound("Rating not found")
		}
		return nil, err
	}

	// The deleted rating's target is unknown at this point; drop all
	// cached reads rather than serve a stale aggregate.
	h.reads.Purge()

	metrics.RecordCatalogWrite("rating", "delete")
	return map[string]bool{"deleted": true}, nil
}
