// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// Post represents a blog post. The slug is globally unique and immutable
// once assigned. PublishedAt is set exactly once, on the first transition
// into published status, and never cleared.
type Post struct {
	ID               uuid.UUID  `json:"id"`
	AuthorID         uuid.UUID  `json:"author_id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Subtitle         *string    `json:"subtitle,omitempty"`
	Excerpt          string     `json:"excerpt"`
	Body             string     `json:"body"`
	FeaturedImageKey *string    `json:"featured_image_key,omitempty"`
	FeaturedImageAlt *string    `json:"featured_image_alt,omitempty"`
	VideoURL         *string    `json:"video_url,omitempty"`
	CategoryID       *uuid.UUID `json:"category_id,omitempty"`
	Status           PostStatus `json:"status"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	Featured         bool       `json:"featured"`
	AllowComments    bool       `json:"allow_comments"`
	MetaTitle        *string    `json:"meta_title,omitempty"`
	MetaDescription  *string    `json:"meta_description,omitempty"`
	MetaKeywords     *string    `json:"meta_keywords,omitempty"`
	OGTitle          *string    `json:"og_title,omitempty"`
	OGDescription    *string    `json:"og_description,omitempty"`
	ViewCount        int64      `json:"view_count"`
	ReadingTime      int        `json:"reading_time"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Virtual fields populated by store queries.
	AuthorHandle string   `json:"author_handle,omitempty"`
	AuthorName   string   `json:"author_name,omitempty"`
	CategorySlug *string  `json:"category_slug,omitempty"`
	CategoryName *string  `json:"category_name,omitempty"`
	Tags         []Tag    `json:"tags,omitempty"`
	CommentCount int      `json:"comment_count"`
	SharedTags   int      `json:"-"`
}

// IsPublished returns true if the post is published and its publish time
// is not in the future.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished &&
		p.PublishedAt != nil && !p.PublishedAt.After(time.Now())
}

// Tag is a label attached to posts through a many-to-many join.
type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// SavedPost is a user's bookmark of a post. A user may save a post at
// most once; the pair is unique.
type SavedPost struct {
	ID      uuid.UUID `json:"id"`
	UserID  uuid.UUID `json:"user_id"`
	PostID  uuid.UUID `json:"post_id"`
	SavedAt time.Time `json:"saved_at"`
}
