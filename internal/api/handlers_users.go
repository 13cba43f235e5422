// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package api

import (
	"context"

	"github.com/cinescope/cinescope/internal/auth"
	"github.com/cinescope/cinescope/internal/httperr"
	"github.com/cinescope/cinescope/internal/pipeline"
)

// Me returns the current principal's account. The verifier already
// confirmed the account exists and is active on this request.
func (h *Handler) Me(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	user, err := h.db.FindUserByID(ctx, req.Principal.PrincipalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Deleted between verification and this read.
		return nil, httperr.Unauthorized(auth.MsgSessionInvalid)
	}
	return user, nil
}
