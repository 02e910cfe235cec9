// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package feed assembles the public read side of the blog: the paginated
// listing, the cached sidebar aggregates, and the full detail payload.
// Expensive aggregates are memoized in Valkey with per-query TTLs; the
// paginated listing itself is always fresh.
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vistapress/internal/cache"
	"vistapress/internal/markdown"
	"vistapress/internal/models"
	"vistapress/internal/store"
)

const (
	// PageSize is the fixed published-feed page size.
	PageSize = 6

	// RelatedLimit caps the related posts on a detail page.
	RelatedLimit = 4

	featuredLimit = 5
	popularLimit  = 5
	recentLimit   = 5

	featuredTTL   = 15 * time.Minute
	categoriesTTL = 30 * time.Minute
	popularTTL    = 15 * time.Minute
)

// Service is the read-side facade over the stores and the cache.
type Service struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	comments   *store.CommentStore
	saved      *store.SavedPostStore
	cache      *cache.Cache
}

// NewService creates a feed Service.
func NewService(posts *store.PostStore, categories *store.CategoryStore,
	comments *store.CommentStore, saved *store.SavedPostStore, c *cache.Cache) *Service {
	return &Service{posts: posts, categories: categories, comments: comments, saved: saved, cache: c}
}

// Page is one page of the published feed.
type Page struct {
	Posts      []models.Post `json:"posts"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalPages int           `json:"total_pages"`
}

// List returns one page of the published feed for the given filters.
func (s *Service) List(f store.Filters, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	posts, total, err := s.posts.ListPublished(f, page, PageSize)
	if err != nil {
		return nil, err
	}

	totalPages := (total + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	return &Page{
		Posts:      posts,
		Total:      total,
		Page:       page,
		PerPage:    PageSize,
		TotalPages: totalPages,
	}, nil
}

// Sidebar carries the aggregates shown alongside the feed.
type Sidebar struct {
	Featured   []models.Post     `json:"featured"`
	Categories []models.Category `json:"categories"`
	Popular    []models.Post     `json:"popular"`
	Recent     []models.Post     `json:"recent"`
}

// Sidebar returns the sidebar aggregates. Featured, categories, and
// popular come from the query cache; recent posts are always fresh so a
// new publish shows up immediately.
func (s *Service) Sidebar(ctx context.Context) (*Sidebar, error) {
	featured, err := cache.GetOrCompute(ctx, s.cache, "featured_posts", featuredTTL, func() ([]models.Post, error) {
		return s.posts.Featured(featuredLimit)
	})
	if err != nil {
		return nil, fmt.Errorf("featured posts: %w", err)
	}

	categories, err := cache.GetOrCompute(ctx, s.cache, "categories_with_counts", categoriesTTL, func() ([]models.Category, error) {
		return s.categories.ActiveWithCounts()
	})
	if err != nil {
		return nil, fmt.Errorf("categories with counts: %w", err)
	}

	popular, err := cache.GetOrCompute(ctx, s.cache, "popular_posts", popularTTL, func() ([]models.Post, error) {
		return s.posts.PopularByViews(popularLimit)
	})
	if err != nil {
		return nil, fmt.Errorf("popular posts: %w", err)
	}

	recent, err := s.posts.Recent(recentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent posts: %w", err)
	}

	return &Sidebar{
		Featured:   featured,
		Categories: categories,
		Popular:    popular,
		Recent:     recent,
	}, nil
}

// Detail is the full payload of one post page.
type Detail struct {
	Post     models.Post      `json:"post"`
	BodyHTML string           `json:"body_html"`
	Related  []models.Post    `json:"related"`
	Previous *models.Post     `json:"previous,omitempty"`
	Next     *models.Post     `json:"next,omitempty"`
	Comments []models.Comment `json:"comments"`
	Saved    bool             `json:"saved"`
}

// Detail assembles the detail payload for a published post: rendered
// body, related posts, timeline neighbors, the approved comment thread,
// and whether the viewing user saved it. Returns nil if the slug does
// not resolve to a visible post.
func (s *Service) Detail(postSlug string, userID *uuid.UUID) (*Detail, error) {
	post, err := s.posts.FindPublishedBySlug(postSlug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, nil
	}

	bodyHTML, err := markdown.ToHTML(post.Body)
	if err != nil {
		return nil, fmt.Errorf("render post body: %w", err)
	}

	related, err := s.posts.Related(post, RelatedLimit)
	if err != nil {
		return nil, err
	}

	previous, next, err := s.posts.Adjacent(post)
	if err != nil {
		return nil, err
	}

	thread, err := s.comments.ApprovedForPost(post.ID)
	if err != nil {
		return nil, err
	}

	var saved bool
	if userID != nil {
		saved, err = s.saved.IsSaved(*userID, post.ID)
		if err != nil {
			return nil, err
		}
	}

	return &Detail{
		Post:     *post,
		BodyHTML: bodyHTML,
		Related:  related,
		Previous: previous,
		Next:     next,
		Comments: thread,
		Saved:    saved,
	}, nil
}
