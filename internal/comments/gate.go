// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package comments implements the moderation gate in front of the
// comment store. Guest comments land in the pending queue; comments
// from signed-in users are approved immediately and carry the account
// identity regardless of the submitted name and email.
package comments

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"vistapress/internal/models"
	"vistapress/internal/store"
	"vistapress/internal/textutil"
)

// MinBodyLength is the minimum length of a comment body after trimming.
const MinBodyLength = 10

var (
	// ErrBodyTooShort rejects comments under MinBodyLength after trimming.
	ErrBodyTooShort = errors.New("comment body too short")

	// ErrCommentsClosed rejects comments on posts that disallow them.
	ErrCommentsClosed = errors.New("comments are closed on this post")

	// ErrMissingIdentity rejects guest comments without a name or email.
	ErrMissingIdentity = errors.New("name and email are required")

	// ErrInvalidParent rejects replies whose parent is missing, belongs
	// to another post, or is itself a reply. Threads are one level deep.
	ErrInvalidParent = errors.New("invalid parent comment")
)

const (
	maxIPLength        = 45
	maxUserAgentLength = 255
)

// Gate validates and moderates incoming comment submissions.
type Gate struct {
	comments *store.CommentStore
}

// NewGate creates a Gate over the given comment store.
func NewGate(comments *store.CommentStore) *Gate {
	return &Gate{comments: comments}
}

// Submission is one incoming comment. User is nil for guests.
type Submission struct {
	Post     *models.Post
	ParentID *uuid.UUID
	User     *models.User

	Name    string
	Email   string
	Website string
	Body    string

	IPAddress string
	UserAgent string
}

// Submit runs the moderation gate and persists the comment. The
// returned comment carries the status the gate decided: approved for
// signed-in users, pending for guests.
func (g *Gate) Submit(sub Submission) (*models.Comment, error) {
	if !sub.Post.AllowComments {
		return nil, ErrCommentsClosed
	}

	body := strings.TrimSpace(sub.Body)
	if len([]rune(body)) < MinBodyLength {
		return nil, ErrBodyTooShort
	}

	if sub.ParentID != nil {
		parent, err := g.comments.FindByID(*sub.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.PostID != sub.Post.ID || parent.ParentID != nil {
			return nil, ErrInvalidParent
		}
	}

	c := &models.Comment{
		PostID:   sub.Post.ID,
		ParentID: sub.ParentID,
		Body:     body,
	}
	if ip := textutil.Truncate(sub.IPAddress, maxIPLength); ip != "" {
		c.IPAddress = &ip
	}
	if ua := textutil.Truncate(sub.UserAgent, maxUserAgentLength); ua != "" {
		c.UserAgent = &ua
	}

	if sub.User != nil {
		// Account identity wins over whatever the form carried.
		c.UserID = &sub.User.ID
		c.Name = sub.User.DisplayName
		c.Email = sub.User.Email
		c.Status = models.CommentStatusApproved
	} else {
		c.Name = strings.TrimSpace(sub.Name)
		c.Email = strings.TrimSpace(sub.Email)
		if c.Name == "" || c.Email == "" {
			return nil, ErrMissingIdentity
		}
		c.Status = models.CommentStatusPending
	}

	if website := strings.TrimSpace(sub.Website); website != "" {
		c.Website = &website
	}

	return g.comments.Create(c)
}
