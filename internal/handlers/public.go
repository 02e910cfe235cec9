// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vistapress/internal/feed"
	"vistapress/internal/middleware"
	"vistapress/internal/models"
	"vistapress/internal/store"
	"vistapress/internal/views"
)

// Public groups the read-side handlers for the blog.
type Public struct {
	feed       *feed.Service
	tracker    *views.Tracker
	categories *store.CategoryStore
	tags       *store.TagStore
}

// NewPublic creates the public handler group.
func NewPublic(f *feed.Service, tracker *views.Tracker, categories *store.CategoryStore, tags *store.TagStore) *Public {
	return &Public{feed: f, tracker: tracker, categories: categories, tags: tags}
}

// ListPosts serves one page of the published feed. Filters combine:
// ?q= (search), ?tag=, ?category=, ?author=, ?featured=1, ?page=.
func (p *Public) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	filters := store.Filters{
		Search:       q.Get("q"),
		TagSlug:      q.Get("tag"),
		CategorySlug: q.Get("category"),
		AuthorHandle: q.Get("author"),
		FeaturedOnly: q.Get("featured") == "1",
	}

	result, err := p.feed.List(filters, page)
	if err != nil {
		serverError(w, "list posts failed", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetPost serves the full detail payload for a published post and
// records the view. Tracking runs after the payload is assembled so a
// tracking hiccup can never 500 the page.
func (p *Public) GetPost(w http.ResponseWriter, r *http.Request) {
	postSlug := chi.URLParam(r, "slug")

	var userID *uuid.UUID
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		userID = &sess.UserID
	}

	detail, err := p.feed.Detail(postSlug, userID)
	if err != nil {
		serverError(w, "post detail failed", err)
		return
	}
	if detail == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	if sessionID := middleware.SessionIDFromCtx(r.Context()); sessionID != "" {
		view := &models.PostView{
			PostID:    detail.Post.ID,
			UserID:    userID,
			IPAddress: middleware.ClientIP(r),
			UserAgent: r.UserAgent(),
			Referer:   r.Referer(),
			SessionID: sessionID,
		}
		if p.tracker.Record(r.Context(), view) {
			detail.Post.ViewCount++
		}
	}

	respondJSON(w, http.StatusOK, detail)
}

// Sidebar serves the cached feed aggregates.
func (p *Public) Sidebar(w http.ResponseWriter, r *http.Request) {
	sidebar, err := p.feed.Sidebar(r.Context())
	if err != nil {
		serverError(w, "sidebar failed", err)
		return
	}
	respondJSON(w, http.StatusOK, sidebar)
}

// Categories serves the active category tree.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	tree, err := p.categories.Tree()
	if err != nil {
		serverError(w, "category tree failed", err)
		return
	}
	respondJSON(w, http.StatusOK, tree)
}

// GetCategory serves one category with its direct children and its
// breadcrumb trail back to the root.
func (p *Public) GetCategory(w http.ResponseWriter, r *http.Request) {
	catSlug := chi.URLParam(r, "slug")

	category, err := p.categories.FindBySlug(catSlug)
	if err != nil {
		serverError(w, "find category failed", err)
		return
	}
	if category == nil || !category.Active {
		respondError(w, http.StatusNotFound, "category not found")
		return
	}

	children, err := p.categories.Children(category.ID)
	if err != nil {
		serverError(w, "category children failed", err)
		return
	}
	breadcrumbs, err := p.categories.Breadcrumbs(category.ID)
	if err != nil {
		serverError(w, "category breadcrumbs failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"category":    category,
		"children":    children,
		"breadcrumbs": breadcrumbs,
	})
}

// Tags serves all tags.
func (p *Public) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := p.tags.List()
	if err != nil {
		serverError(w, "list tags failed", err)
		return
	}
	respondJSON(w, http.StatusOK, tags)
}
