// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

// Package api exposes the catalog over HTTP: route registration, request
// schemas, and the business functions composed by the pipeline.
package api

import (
	"fmt"
	"time"

	"github.com/cinescope/cinescope/internal/auth"
	"github.com/cinescope/cinescope/internal/cache"
	"github.com/cinescope/cinescope/internal/config"
	"github.com/cinescope/cinescope/internal/database"
)

// Handler holds the shared collaborators of every endpoint. It is built
// once at startup; endpoints are methods on it.
type Handler struct {
	db     *database.DB
	cfg    *config.Config
	tokens *auth.TokenManager

	// reads caches assembled GET responses for single titles. Writes to
	// a title (update, delete, rating, credit) invalidate its entry.
	reads *cache.LRU
}

// NewHandler creates the shared handler.
func NewHandler(db *database.DB, cfg *config.Config, tokens *auth.TokenManager) *Handler {
	return &Handler{
		db:     db,
		cfg:    cfg,
		tokens: tokens,
		reads:  cache.NewLRU(2048, 30*time.Second),
	}
}

// movieKey and showKey build the read-cache keys for a title.
func movieKey(id int64) string { return fmt.Sprintf("movie:%d", id) }
func showKey(id int64) string  { return fmt.Sprintf("show:%d", id) }

// pageSize clamps a requested page size to the configured bounds. Zero
// means "use the default".
func (h *Handler) pageSize(requested int) int {
	if requested <= 0 {
		return h.cfg.API.DefaultPageSize
	}
	if requested > h.cfg.API.MaxPageSize {
		return h.cfg.API.MaxPageSize
	}
	return requested
}
