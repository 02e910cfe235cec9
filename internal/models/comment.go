// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CommentStatus is the moderation state controlling a comment's visibility.
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusSpam     CommentStatus = "spam"
	CommentStatusTrash    CommentStatus = "trash"
)

// Comment belongs to exactly one post (never reassigned after creation)
// and optionally to a parent comment for threading. The author is either
// a registered user or a guest name/email/website triple.
type Comment struct {
	ID        uuid.UUID     `json:"id"`
	PostID    uuid.UUID     `json:"post_id"`
	ParentID  *uuid.UUID    `json:"parent_id,omitempty"`
	UserID    *uuid.UUID    `json:"user_id,omitempty"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Website   *string       `json:"website,omitempty"`
	Body      string        `json:"body"`
	Status    CommentStatus `json:"status"`
	IPAddress *string       `json:"-"`
	UserAgent *string       `json:"-"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Replies is populated when comments are assembled into threads.
	Replies []Comment `json:"replies,omitempty"`
}

// IsApproved returns true if the comment is publicly visible.
func (c *Comment) IsApproved() bool {
	return c.Status == CommentStatusApproved
}
