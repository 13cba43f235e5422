// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package api

import (
	"context"
	"errors"
	"time"

	"github.com/cinescope/cinescope/internal/database"
	"github.com/cinescope/cinescope/internal/httperr"
	"github.com/cinescope/cinescope/internal/metrics"
	"github.com/cinescope/cinescope/internal/models"
	"github.com/cinescope/cinescope/internal/pipeline"
)

// MsgCelebrityNotFound is the public not-found message for celebrities.
const MsgCelebrityNotFound = "Celebrity not found"

// ListCelebrities lists celebrities with paging.
func (h *Handler) ListCelebrities(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	query := req.Query.(*ListPageQuery)
	return h.db.ListCelebrities(ctx, h.pageSize(query.Take), query.Skip)
}

// GetCelebrity returns one celebrity with all credits.
func (h *Handler) GetCelebrity(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	id, err := pathID(req)
	if err != nil {
		return nil, err
	}

	celeb, err := h.db.GetCelebrity(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrCelebrityNotFound) {
			return nil, httperr.NotFound(MsgCelebrityNotFound)
		}
		return nil, err
	}

	credits, err := h.db.ListCreditsForCelebrity(ctx, id)
	if err != nil {
		return nil, err
	}
	return struct {
		*models.Celebrity
		Credits []models.Credit `json:"credits"`
	}{celeb, credits}, nil
}

// CreateCelebrity adds a celebrity to the catalog.
func (h *Handler) CreateCelebrity(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	body := req.Body.(*CelebrityUpsertRequest)

	celeb := &models.Celebrity{
		Name:      body.Name,
		Biography: body.Biography,
	}
	if body.BornAt != "" {
		// Format already validated by the schema.
		born, err := time.Parse("2006-01-02", body.BornAt)
		if err != nil {
			return nil, httperr.BadRequest("bornAt must be a valid date")
		}
		celeb.BornAt = &born
	}

	if err := h.db.CreateCelebrity(ctx, celeb); err != nil {
		return nil, err
	}

	metrics.RecordCatalogWrite("celebrity", "create")
	return pipeline.Created{Value: celeb}, nil
}

// UpdateCelebrity replaces a celebrity's fields.
func (h *Handler) UpdateCelebrity(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	id, err := pathID(req)
	if err != nil {
		return nil, err
	}
	body := req.Body.(*CelebrityUpsertRequest)

	celeb := &models.Celebrity{
		ID:        id,
		Name:      body.Name,
		Biography: body.Biography,
	}
	if body.BornAt != "" {
		born, err := time.Parse("2006-01-02", body.BornAt)
		if err != nil {
			return nil, httperr.BadRequest("bornAt must be a valid date")
		}
		celeb.BornAt = &born
	}

	if err := h.db.UpdateCelebrity(ctx, celeb); err != nil {
		if errors.Is(err, database.ErrCelebrityNotFound) {
			return nil, httperr.NotFound(MsgCelebrityNotFound)
		}
		return nil, err
	}

	metrics.RecordCatalogWrite("celebrity", "update")
	return h.db.GetCelebrity(ctx, id)
}

// DeleteCelebrity removes a celebrity and their credits.
func (h *Handler) DeleteCelebrity(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	id, err := pathID(req)
	if err != nil {
		return nil, err
	}

	if err := h.db.DeleteCelebrity(ctx, id); err != nil {
		if errors.Is(err, database.ErrCelebrityNotFound) {
			return nil, httperr.NotFound(MsgCelebrityNotFound)
		}
		return nil, err
	}

	// Credited titles keep stale credit lists in the read cache.
	h.reads.Purge()

	metrics.RecordCatalogWrite("celebrity", "delete")
	return map[string]bool{"deleted": true}, nil
}

// CreateCredit links a celebrity to a movie or show. The linked title and
// the celebrity must both exist.
func (h *Handler) CreateCredit(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	body := req.Body.(*CreditCreateRequest)

	if _, err := h.db.GetCelebrity(ctx, body.CelebrityID); err != nil {
		if errors.Is(err, database.ErrCelebrityNotFound) {
			return nil, httperr.NotFound(MsgCelebrityNotFound)
		}
		return nil, err
	}
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

	credit := &models.Credit{
		CelebrityID: body.CelebrityID,
		MovieID:     body.MovieID,
		ShowID:      body.ShowID,
		Role:        body.Role,
		Character:   body.Character,
		Job:         body.Job,
	}
	if err := h.db.CreateCredit(ctx, credit); err != nil {
		return nil, err
	}

	// The credited title's cached read no longer lists all credits.
	if body.MovieID != nil {
		h.reads.Invalidate(movieKey(*body.MovieID))
	}
	if body.ShowID != nil {
		h.reads.Invalidate(showKey(*body.ShowID))
	}

	metrics.RecordCatalogWrite("credit", "create")
	return pipeline.Created{Value: credit}, nil
}
