// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package services

import (
	"context"
	"time"

	"github.com/cinescope/cinescope/internal/logging"
)

// Checkpointer flushes pending writes to durable storage.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService periodically checkpoints the database WAL so a crash
// loses at most one interval of buffered writes. Checkpoint failures are
// logged and retried on the next tick rather than crashing the service.
type CheckpointService struct {
	db       Checkpointer
	interval time.Duration
}

// NewCheckpointService creates the maintenance service. A non-positive
// interval falls back to five minutes.
func NewCheckpointService(db Checkpointer, interval time.Duration) *CheckpointService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CheckpointService{db: db, interval: interval}
}

// Serve implements suture.Service.
func (s *CheckpointService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.db.Checkpoint(ctx); err != nil {
				logging.Warn().Err(err).Msg("Scheduled checkpoint failed")
				continue
			}
			logging.Debug().Msg("Database checkpoint complete")
		}
	}
}

// String implements fmt.Stringer for supervisor log messages.
func (s *CheckpointService) String() string {
	return "db-checkpoint"
}
