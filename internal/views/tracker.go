// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package views counts post views. Every detail request lands in the
// append-only ledger; the per-post counter increments at most once per
// (post, session) inside the dedup window.
package views

import (
	"context"
	"log/slog"

	"vistapress/internal/cache"
	"vistapress/internal/models"
	"vistapress/internal/store"
)

// Tracker wires the view ledger, the dedup markers, and the counter.
type Tracker struct {
	posts  *store.PostStore
	ledger *store.ViewStore
	cache  *cache.Cache
}

// NewTracker creates a Tracker over the given stores and cache.
func NewTracker(posts *store.PostStore, ledger *store.ViewStore, c *cache.Cache) *Tracker {
	return &Tracker{posts: posts, ledger: ledger, cache: c}
}

// Record processes one view of a post. The ledger row is appended
// unconditionally; the counter increments only when this is the first
// view for the session inside the dedup window. Returns whether the
// counter moved.
//
// A view is never worth failing the page for: every error path logs and
// returns counted=false rather than propagating.
func (t *Tracker) Record(ctx context.Context, view *models.PostView) (counted bool) {
	if err := t.ledger.Append(view); err != nil {
		slog.Error("view ledger append failed", "post_id", view.PostID, "error", err)
		// The ledger row is lost but the counter can still move.
	}

	first, err := t.cache.MarkViewed(ctx, view.PostID, view.SessionID)
	if err != nil {
		// With the dedup marker unreachable we cannot tell a repeat from
		// a first view. Skipping the increment keeps the counter honest.
		slog.Warn("view dedup unavailable, skipping increment", "post_id", view.PostID, "error", err)
		return false
	}
	if !first {
		return false
	}

	if err := t.posts.IncrementViewCount(view.PostID); err != nil {
		// One retry; the marker is already set so giving up here loses
		// this view permanently.
		if err = t.posts.IncrementViewCount(view.PostID); err != nil {
			slog.Error("view count increment failed", "post_id", view.PostID, "error", err)
			return false
		}
	}
	return true
}
