// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package api

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/cinescope/cinescope/internal/database"
	"github.com/cinescope/cinescope/internal/httperr"
	"github.com/cinescope/cinescope/internal/logging"
	"github.com/cinescope/cinescope/internal/metrics"
	"github.com/cinescope/cinescope/internal/models"
	"github.com/cinescope/cinescope/internal/pipeline"
)

// MsgInvalidCredentials is returned for both unknown email and wrong
// password, so responses do not reveal which accounts exist.
const MsgInvalidCredentials = "Credenciais inválidas."

// loginResponse pairs the issued token with the public account view for
// storage-based clients; cookie clients can ignore the token field.
type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a new account.
func (h *Handler) Register(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	body := req.Body.(*RegisterRequest)

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		metrics.RecordAuthAttempt("register", "error")
		return nil, err
	}

	user := &models.User{
		Email:        body.Email,
		DisplayName:  body.DisplayName,
		PasswordHash: string(hash),
		Active:       true,
	}
	if err := h.db.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			metrics.RecordAuthAttempt("register", "conflict")
			return nil, httperr.Conflict("E-mail já cadastrado.")
		}
		metrics.RecordAuthAttempt("register", "error")
		return nil, err
	}

	metrics.RecordAuthAttempt("register", "success")
	logging.Info().Str("user_id", user.ID).Msg("Account created")
	return pipeline.Created{Value: user}, nil
}

// Login exchanges email and password for a session credential.
func (h *Handler) Login(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	body := req.Body.(*LoginRequest)

	user, err := h.db.FindUserByEmail(ctx, body.Email)
	if err != nil {
		metrics.RecordAuthAttempt("login", "error")
		return nil, err
	}
	if user == nil || !user.Active {
		metrics.RecordAuthAttempt("login", "rejected")
		return nil, httperr.Unauthorized(MsgInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		metrics.RecordAuthAttempt("login", "rejected")
		return nil, httperr.Unauthorized(MsgInvalidCredentials)
	}

	token, err := h.tokens.Issue(user.ID, user.DisplayName)
	if err != nil {
		metrics.RecordAuthAttempt("login", "error")
		return nil, err
	}

	metrics.RecordAuthAttempt("login", "success")
	logging.Info().Str("user_id", user.ID).Msg("Session issued")
	return pipeline.StartSession{
		Token: token,
		Value: &loginResponse{Token: token, User: user},
	}, nil
}

// Logout ends the caller's session by clearing the credential on the
// client. Sessions are stateless, so nothing is revoked server-side.
func (h *Handler) Logout(ctx context.Context, req *pipeline.Request) (interface{}, error) {
	logging.Info().Str("user_id", req.Principal.PrincipalID).Msg("Session ended")
	return pipeline.EndSession{Value: map[string]bool{"loggedOut": true}}, nil
}
