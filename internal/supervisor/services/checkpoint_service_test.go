// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeCheckpointer struct {
	calls atomic.Int32
	err   error
}

func (f *fakeCheckpointer) Checkpoint(ctx context.Context) error {
	f.calls.Add(1)
	return f.err
}

func TestCheckpointServiceTicks(t *testing.T) {
	t.Parallel()

	db := &fakeCheckpointer{}
	svc := NewCheckpointService(db, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := svc.Serve(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve returned %v, want context.DeadlineExceeded", err)
	}
	if db.calls.Load() == 0 {
		t.Error("expected at least one checkpoint call")
	}
}

func TestCheckpointServiceSurvivesFailures(t *testing.T) {
	t.Parallel()

	db := &fakeCheckpointer{err: errors.New("database is locked")}
	svc := NewCheckpointService(db, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	// A checkpoint failure must not end the serve loop.
	err := svc.Serve(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve returned %v, want context.DeadlineExceeded", err)
	}
	if db.calls.Load() < 2 {
		t.Errorf("calls = %d, want retries after failure", db.calls.Load())
	}
}

func TestCheckpointServiceDefaultInterval(t *testing.T) {
	t.Parallel()

	svc := NewCheckpointService(&fakeCheckpointer{}, 0)
	if svc.interval != 5*time.Minute {
		t.Errorf("interval = %v, want 5m default", svc.interval)
	}
}
