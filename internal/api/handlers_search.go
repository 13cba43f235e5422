// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package api

import (
	"context"

	"github.com/cinescope/cinescope/internal/metrics"
	"github.com/cinescope/cinescope/internal/pipeline"
)

// Search runs a ranked catalog search across movies, shows, and
// celebrities.
func (h *Handler) Search(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	query := req.Query.(*SearchQuery)

	metrics.SearchQueries.Inc()
	return h.db.Search(ctx, query.Query, h.pageSize(query.Take))
}

// Recommendations returns movies ranked by genre overlap with the
// caller's highly rated titles.
func (h *Handler) Recommendations(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	query := req.Query.(*RecommendQuery)

	take := query.Take
	if take <= 0 {
		take = 10
	}
	return h.db.RecommendMovies(ctx, req.Principal.PrincipalID, take)
}
