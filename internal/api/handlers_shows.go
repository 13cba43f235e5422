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

// MsgShowNotFound is the public not-found message for shows.
const MsgShowNotFound = "Show not found"

// ListShows lists shows with optional genre/year filters and paging.
func (h *Handler) ListShows(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	query := req.Query.(*ListCatalogQuery)

	return h.db.ListShows(ctx, database.ShowFilter{
		Genre: query.Genre,
		Year:  query.Year,
		Limit: h.pageSize(query.Take),
		Skip:  query.Skip,
	})
}

// GetShow returns one show with genres and rating aggregate.
func (h *Handler) GetShow(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	id, err := pathID(req)
	if err != nil {
		return nil, err
	}

	if cached, ok := h.reads.Get(showKey(id)); ok {
		return cached, nil
	}

	show, err := h.db.GetShow(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrShowNotFound) {
			return nil, httperr.NotFound(MsgShowNotFound)
		}
		return nil, err
	}
	h.reads.Set(showKey(id), show)
	return show, nil
}

// CreateShow adds a show to the catalog.
func (h *Handler) CreateShow(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	body := req.Body.(*ShowUpsertRequest)

	show := &models.Show{
		Title:      body.Title,
		Synopsis:   body.Synopsis,
		FirstAired: body.FirstAired,
		Seasons:    body.Seasons,
		Genres:     body.Genres,
	}
	if err := h.db.CreateShow(ctx, show); err != nil {
		return nil, err
	}

	metrics.RecordCatalogWrite("show", "create")
	return pipeline.Created{Value: show}, nil
}

// UpdateShow replaces a show's fields.
func (h *Handler) UpdateShow(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	id, err := pathID(req)
	if err != nil {
		return nil, err
	}
	body := req.Body.(*ShowUpsertRequest)

	show := &models.Show{
		ID:         id,
		Title:      body.Title,
		Synopsis:   body.Synopsis,
		FirstAired: body.FirstAired,
		Seasons:    body.Seasons,
		Genres:     body.Genres,
	}
	if err := h.db.UpdateShow(ctx, show); err != nil {
		if errors.Is(err, database.ErrShowNotFound) {
			return nil, httperr.NotFound(MsgShowNotFound)
		}
		return nil, err
	}

	h.reads.Invalidate(showKey(id))
	metrics.RecordCatalogWrite("show", "update")
	return h.db.GetShow(ctx, id)
}

// DeleteShow removes a show and its references.
func (h *Handler) DeleteShow(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	id, err := pathID(req)
	if err != nil {
		return nil, err
	}

	if err := h.db.DeleteShow(ctx, id); err != nil {
		if errors.Is(err, database.ErrShowNotFound) {
			return nil, httperr.NotFound(MsgShowNotFound)
		}
		return nil, err
	}

	h.reads.Invalidate(showKey(id))
	metrics.RecordCatalogWrite("show", "delete")
	return map[string]bool{"deleted": true}, nil
}
