// Cinescope - Movie and Show Catalog API
// Copyright 2026 Cinescope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	t.Parallel()

	c := NewLRU(4, time.Minute)

	if _, ok := c.Get("movie:1"); ok {
		t.Error("expected miss on empty cache")
	}

	c.Set("movie:1", "Heat")
	v, ok := c.Get("movie:1")
	if !ok || v != "Heat" {
		t.Errorf("Get = %v, %v; want Heat, true", v, ok)
	}

	c.Set("movie:1", "Heat (1995)")
	v, _ = c.Get("movie:1")
	if v != "Heat (1995)" {
		t.Errorf("updated value = %v, want Heat (1995)", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c := NewLRU(3, time.Minute)
	for i := 1; i <= 3; i++ {
		c.Set(fmt.Sprintf("movie:%d", i), i)
	}

	// Touch movie:1 so movie:2 becomes the eviction candidate.
	if _, ok := c.Get("movie:1"); !ok {
		t.Fatal("expected hit on movie:1")
	}

	c.Set("movie:4", 4)

	if _, ok := c.Get("movie:2"); ok {
		t.Error("movie:2 should have been evicted")
	}
	if _, ok := c.Get("movie:1"); !ok {
		t.Error("movie:1 should have survived eviction")
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
}

func TestLRUExpiry(t *testing.T) {
	t.Parallel()

	c := NewLRU(4, 10*time.Millisecond)
	c.Set("show:1", "Fargo")

	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("show:1"); ok {
		t.Error("expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Errorf("Len after lazy expiry = %d, want 0", c.Len())
	}
}

func TestLRUInvalidate(t *testing.T) {
	t.Parallel()

	c := NewLRU(4, time.Minute)
	c.Set("movie:1", "Heat")

	if !c.Invalidate("movie:1") {
		t.Error("Invalidate should report the entry was present")
	}
	if c.Invalidate("movie:1") {
		t.Error("second Invalidate should report absence")
	}
	if _, ok := c.Get("movie:1"); ok {
		t.Error("invalidated entry must not be returned")
	}
}

func TestLRUPurge(t *testing.T) {
	t.Parallel()

	c := NewLRU(8, time.Minute)
	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("movie:%d", i), i)
	}

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len after purge = %d, want 0", c.Len())
	}

	// The cache stays usable after a purge.
	c.Set("movie:9", 9)
	if _, ok := c.Get("movie:9"); !ok {
		t.Error("expected hit after purge and re-set")
	}
}

func TestLRUStats(t *testing.T) {
	t.Parallel()

	c := NewLRU(4, time.Minute)
	c.Set("movie:1", 1)
	c.Get("movie:1")
	c.Get("movie:2")

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("Stats = %d/%d, want 1/1", hits, misses)
	}
}
