// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vistapress/internal/middleware"
	"vistapress/internal/models"
	"vistapress/internal/slug"
	"vistapress/internal/store"
	"vistapress/internal/textutil"
)

// Admin groups the staff-only handlers: post and category management,
// the comment moderation queue, and the newsletter roster.
type Admin struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	tags       *store.TagStore
	comments   *store.CommentStore
	newsletter *store.NewsletterStore
	users      *store.UserStore
}

// NewAdmin creates the admin handler group.
func NewAdmin(posts *store.PostStore, categories *store.CategoryStore, tags *store.TagStore,
	comments *store.CommentStore, newsletter *store.NewsletterStore, users *store.UserStore) *Admin {
	return &Admin{posts: posts, categories: categories, tags: tags,
		comments: comments, newsletter: newsletter, users: users}
}

// --- Posts ---

type postRequest struct {
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Subtitle         *string    `json:"subtitle"`
	Excerpt          string     `json:"excerpt"`
	Body             string     `json:"body"`
	FeaturedImageKey *string    `json:"featured_image_key"`
	FeaturedImageAlt *string    `json:"featured_image_alt"`
	VideoURL         *string    `json:"video_url"`
	CategoryID       *uuid.UUID `json:"category_id"`
	Status           string     `json:"status"`
	Featured         bool       `json:"featured"`
	AllowComments    *bool      `json:"allow_comments"`
	MetaTitle        *string    `json:"meta_title"`
	MetaDescription  *string    `json:"meta_description"`
	MetaKeywords     *string    `json:"meta_keywords"`
	OGTitle          *string    `json:"og_title"`
	OGDescription    *string    `json:"og_description"`
	Tags             []string   `json:"tags"`
}

func (req *postRequest) status() (models.PostStatus, bool) {
	switch models.PostStatus(req.Status) {
	case models.PostStatusDraft, models.PostStatusPublished, models.PostStatusArchived:
		return models.PostStatus(req.Status), true
	case "":
		return models.PostStatusDraft, true
	}
	return "", false
}

// applyDerived fills the fields computed from the body: the excerpt when
// the author left it blank, and the reading time estimate.
func (req *postRequest) applyDerived(p *models.Post) {
	p.Excerpt = strings.TrimSpace(req.Excerpt)
	if p.Excerpt == "" {
		p.Excerpt = textutil.Excerpt(textutil.StripTags(req.Body))
	}
	p.ReadingTime = textutil.ReadingTime(req.Body)
}

// CreatePost creates a post. The slug comes from the request when one
// is supplied, otherwise from the title; it is made unique with a
// numeric suffix and never changes afterwards.
func (h *Admin) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validatePost(req.Title, req.Body); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateMetadata(req.Excerpt, deref(req.MetaDescription)); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	status, ok := req.status()
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown status")
		return
	}

	slugBase := req.Slug
	if strings.TrimSpace(slugBase) == "" {
		slugBase = req.Title
	}
	postSlug, err := slug.Unique(slug.Generate(slugBase), h.posts.SlugExists)
	if err != nil {
		serverError(w, "slug assignment failed", err)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	post := &models.Post{
		AuthorID:         sess.UserID,
		Title:            strings.TrimSpace(req.Title),
		Slug:             postSlug,
		Subtitle:         req.Subtitle,
		Body:             req.Body,
		FeaturedImageKey: req.FeaturedImageKey,
		FeaturedImageAlt: req.FeaturedImageAlt,
		VideoURL:         req.VideoURL,
		CategoryID:       req.CategoryID,
		Status:           status,
		Featured:         req.Featured,
		AllowComments:    req.AllowComments == nil || *req.AllowComments,
		MetaTitle:        req.MetaTitle,
		MetaDescription:  req.MetaDescription,
		MetaKeywords:     req.MetaKeywords,
		OGTitle:          req.OGTitle,
		OGDescription:    req.OGDescription,
	}
	req.applyDerived(post)

	created, err := h.posts.Create(post)
	if err != nil {
		serverError(w, "create post failed", err)
		return
	}

	if err := h.setTags(created.ID, req.Tags); err != nil {
		serverError(w, "set post tags failed", err)
		return
	}

	full, err := h.posts.FindByID(created.ID)
	if err != nil {
		serverError(w, "reload post failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, full)
}

// UpdatePost modifies a post. The slug stays as assigned at creation
// even if the title changes.
func (h *Admin) UpdatePost(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return
	}

	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validatePost(req.Title, req.Body); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	status, ok := req.status()
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown status")
		return
	}

	post.Title = strings.TrimSpace(req.Title)
	post.Subtitle = req.Subtitle
	post.Body = req.Body
	post.FeaturedImageKey = req.FeaturedImageKey
	post.FeaturedImageAlt = req.FeaturedImageAlt
	post.VideoURL = req.VideoURL
	post.CategoryID = req.CategoryID
	post.Status = status
	post.Featured = req.Featured
	post.AllowComments = req.AllowComments == nil || *req.AllowComments
	post.MetaTitle = req.MetaTitle
	post.MetaDescription = req.MetaDescription
	post.MetaKeywords = req.MetaKeywords
	post.OGTitle = req.OGTitle
	post.OGDescription = req.OGDescription
	req.applyDerived(post)

	if err := h.posts.Update(post); err != nil {
		serverError(w, "update post failed", err)
		return
	}
	if req.Tags != nil {
		if err := h.setTags(post.ID, req.Tags); err != nil {
			serverError(w, "set post tags failed", err)
			return
		}
	}

	full, err := h.posts.FindByID(post.ID)
	if err != nil {
		serverError(w, "reload post failed", err)
		return
	}
	respondJSON(w, http.StatusOK, full)
}

// GetPost returns one post regardless of status.
func (h *Admin) GetPost(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// ListPosts returns all posts in a status for the management screen.
// Defaults to drafts.
func (h *Admin) ListPosts(w http.ResponseWriter, r *http.Request) {
	status := models.PostStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.PostStatusDraft
	}

	posts, err := h.posts.ListByStatus(status)
	if err != nil {
		serverError(w, "list posts failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// DeletePost removes a post and everything hanging off it.
func (h *Admin) DeletePost(w http.ResponseWriter, r *http.Request) {
	post, ok := h.loadPost(w, r)
	if !ok {
		return
	}
	if err := h.posts.Delete(post.ID); err != nil {
		serverError(w, "delete post failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Admin) loadPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return nil, false
	}
	post, err := h.posts.FindByID(id)
	if err != nil {
		serverError(w, "find post failed", err)
		return nil, false
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return nil, false
	}
	return post, true
}

func (h *Admin) setTags(postID uuid.UUID, names []string) error {
	tags, err := h.tags.Ensure(names)
	if err != nil {
		return err
	}
	return h.posts.SetTags(postID, tags)
}

// --- Categories ---

type categoryRequest struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	ParentID        *uuid.UUID `json:"parent_id"`
	ImageKey        *string    `json:"image_key"`
	MetaDescription *string    `json:"meta_description"`
	Active          *bool      `json:"active"`
	SortOrder       int        `json:"sort_order"`
}

// CreateCategory creates a category with a slug derived from its name.
func (h *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "Name is required.")
		return
	}

	catSlug, err := slug.Unique(slug.Generate(req.Name), h.categories.SlugExists)
	if err != nil {
		serverError(w, "slug assignment failed", err)
		return
	}

	category, err := h.categories.Create(&models.Category{
		Name:            strings.TrimSpace(req.Name),
		Slug:            catSlug,
		Description:     req.Description,
		ParentID:        req.ParentID,
		ImageKey:        req.ImageKey,
		MetaDescription: req.MetaDescription,
		Active:          req.Active == nil || *req.Active,
		SortOrder:       req.SortOrder,
	})
	if err != nil {
		serverError(w, "create category failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

// UpdateCategory modifies a category. Reparenting that would close a
// cycle is rejected.
func (h *Admin) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	category, err := h.categories.FindByID(id)
	if err != nil {
		serverError(w, "find category failed", err)
		return
	}
	if category == nil {
		respondError(w, http.StatusNotFound, "category not found")
		return
	}

	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "Name is required.")
		return
	}

	category.Name = strings.TrimSpace(req.Name)
	category.Description = req.Description
	category.ParentID = req.ParentID
	category.ImageKey = req.ImageKey
	category.MetaDescription = req.MetaDescription
	if req.Active != nil {
		category.Active = *req.Active
	}
	category.SortOrder = req.SortOrder

	err = h.categories.Update(category)
	if errors.Is(err, store.ErrCategoryCycle) {
		respondError(w, http.StatusConflict, "reparenting would create a cycle")
		return
	}
	if err != nil {
		serverError(w, "update category failed", err)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

// DeleteCategory removes a category. Its descendants go with it; posts
// in the subtree become uncategorized.
func (h *Admin) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	if err := h.categories.Delete(id); err != nil {
		serverError(w, "delete category failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// --- Comment moderation ---

// ModerationQueue lists comments by status, defaulting to the pending queue.
func (h *Admin) ModerationQueue(w http.ResponseWriter, r *http.Request) {
	status := models.CommentStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.CommentStatusPending
	}

	queue, err := h.comments.ListByStatus(status)
	if err != nil {
		serverError(w, "list comments failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"comments": queue})
}

type moderateRequest struct {
	Status string `json:"status"`
}

// ModerateComment moves a comment between moderation states.
func (h *Admin) ModerateComment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	var req moderateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	status := models.CommentStatus(req.Status)
	switch status {
	case models.CommentStatusPending, models.CommentStatusApproved,
		models.CommentStatusSpam, models.CommentStatusTrash:
	default:
		respondError(w, http.StatusBadRequest, "unknown status")
		return
	}

	comment, err := h.comments.FindByID(id)
	if err != nil {
		serverError(w, "find comment failed", err)
		return
	}
	if comment == nil {
		respondError(w, http.StatusNotFound, "comment not found")
		return
	}

	if err := h.comments.UpdateStatus(id, status); err != nil {
		serverError(w, "moderate comment failed", err)
		return
	}
	comment.Status = status
	respondJSON(w, http.StatusOK, comment)
}

// DeleteComment removes a comment and its replies.
func (h *Admin) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid comment id")
		return
	}
	if err := h.comments.Delete(id); err != nil {
		serverError(w, "delete comment failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// --- Newsletter ---

// Subscribers lists the active newsletter roster.
func (h *Admin) Subscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.newsletter.ListActive()
	if err != nil {
		serverError(w, "list subscribers failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"subscribers": subs})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
