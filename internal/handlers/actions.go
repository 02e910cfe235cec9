// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vistapress/internal/comments"
	"vistapress/internal/feed"
	"vistapress/internal/middleware"
	"vistapress/internal/store"
)

// Actions groups the write-side handlers reachable by readers: comment
// submission, save toggling, and newsletter subscription.
type Actions struct {
	posts      *store.PostStore
	users      *store.UserStore
	saved      *store.SavedPostStore
	newsletter *store.NewsletterStore
	gate       *comments.Gate
}

// NewActions creates the reader actions handler group.
func NewActions(posts *store.PostStore, users *store.UserStore, saved *store.SavedPostStore,
	newsletter *store.NewsletterStore, gate *comments.Gate) *Actions {
	return &Actions{posts: posts, users: users, saved: saved, newsletter: newsletter, gate: gate}
}

type commentRequest struct {
	ParentID *uuid.UUID `json:"parent_id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Website  string     `json:"website"`
	Body     string     `json:"body"`
}

// SubmitComment accepts a comment on a published post and runs it
// through the moderation gate. Guests queue as pending; signed-in users
// post immediately under their account identity.
func (a *Actions) SubmitComment(w http.ResponseWriter, r *http.Request) {
	post, err := a.posts.FindPublishedBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		serverError(w, "find post failed", err)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateCommentIdentity(req.Name, req.Email, req.Website); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	sub := comments.Submission{
		Post:      post,
		ParentID:  req.ParentID,
		Name:      req.Name,
		Email:     req.Email,
		Website:   req.Website,
		Body:      req.Body,
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		user, err := a.users.FindByID(sess.UserID)
		if err != nil {
			serverError(w, "load user failed", err)
			return
		}
		sub.User = user
	}

	comment, err := a.gate.Submit(sub)
	switch {
	case errors.Is(err, comments.ErrCommentsClosed):
		respondError(w, http.StatusForbidden, "comments are closed on this post")
	case errors.Is(err, comments.ErrBodyTooShort):
		respondError(w, http.StatusBadRequest, "comment must be at least 10 characters")
	case errors.Is(err, comments.ErrMissingIdentity):
		respondError(w, http.StatusBadRequest, "name and email are required")
	case errors.Is(err, comments.ErrInvalidParent):
		respondError(w, http.StatusBadRequest, "invalid parent comment")
	case err != nil:
		serverError(w, "submit comment failed", err)
	default:
		respondJSON(w, http.StatusCreated, comment)
	}
}

// ToggleSave flips the saved state of a post for the signed-in reader.
func (a *Actions) ToggleSave(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	post, err := a.posts.FindPublishedBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		serverError(w, "find post failed", err)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	saved, err := a.saved.Toggle(sess.UserID, post.ID)
	if err != nil {
		serverError(w, "toggle save failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}

// SavedPosts lists one page of the signed-in reader's saved posts.
func (a *Actions) SavedPosts(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	posts, total, err := a.saved.ListForUser(sess.UserID, page, feed.PageSize)
	if err != nil {
		serverError(w, "list saved posts failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"posts":    posts,
		"total":    total,
		"page":     page,
		"per_page": feed.PageSize,
	})
}

type subscribeRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Subscribe registers an email for the newsletter.
func (a *Actions) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateSubscription(req.Email, req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	sub, err := a.newsletter.Subscribe(req.Email, req.Name)
	if errors.Is(err, store.ErrAlreadySubscribed) {
		respondError(w, http.StatusConflict, "email is already subscribed")
		return
	}
	if err != nil {
		serverError(w, "subscribe failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, sub)
}

// ConfirmSubscription marks a subscription confirmed via its token.
func (a *Actions) ConfirmSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := a.newsletter.Confirm(chi.URLParam(r, "token"))
	if err != nil {
		serverError(w, "confirm subscription failed", err)
		return
	}
	if sub == nil {
		respondError(w, http.StatusNotFound, "unknown confirmation token")
		return
	}
	respondJSON(w, http.StatusOK, sub)
}

// Unsubscribe deactivates a subscription via its token.
func (a *Actions) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	ok, err := a.newsletter.Unsubscribe(chi.URLParam(r, "token"))
	if err != nil {
		serverError(w, "unsubscribe failed", err)
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "unknown unsubscribe token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"unsubscribed": true})
}
