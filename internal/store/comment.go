// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"vistapress/internal/models"
)

// CommentStore handles comment persistence and moderation queries.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `id, post_id, parent_id, user_id, name, email, website,
	body, status, ip_address, user_agent, created_at, updated_at`

func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(
		&c.ID, &c.PostID, &c.ParentID, &c.UserID, &c.Name, &c.Email, &c.Website,
		&c.Body, &c.Status, &c.IPAddress, &c.UserAgent, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a comment with the status the moderation gate decided.
func (s *CommentStore) Create(c *models.Comment) (*models.Comment, error) {
	row := s.db.QueryRow(`
		INSERT INTO comments (post_id, parent_id, user_id, name, email, website,
			body, status, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+commentColumns,
		c.PostID, c.ParentID, c.UserID, c.Name, c.Email, c.Website,
		c.Body, c.Status, c.IPAddress, c.UserAgent,
	)
	result, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return result, nil
}

// FindByID retrieves a comment by ID. Returns nil if not found.
func (s *CommentStore) FindByID(id uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRow(`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return c, nil
}

// ApprovedForPost returns the approved comments of a post as a thread:
// top-level comments oldest first, each carrying its approved replies
// oldest first. Replies to unapproved parents are not surfaced.
func (s *CommentStore) ApprovedForPost(postID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT `+commentColumns+` FROM comments
		WHERE post_id = $1 AND status = 'approved'
		ORDER BY created_at ASC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("approved comments: %w", err)
	}
	defer rows.Close()

	var all []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		all = append(all, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*models.Comment, len(all))
	for i := range all {
		byID[all[i].ID] = &all[i]
	}

	var thread []models.Comment
	for i := range all {
		c := &all[i]
		if c.ParentID == nil {
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, *c)
		}
	}
	for i := range all {
		if all[i].ParentID == nil {
			thread = append(thread, all[i])
		}
	}
	return thread, nil
}

// CountApproved returns the number of approved comments on a post.
func (s *CommentStore) CountApproved(postID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM comments WHERE post_id = $1 AND status = 'approved'`, postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count approved comments: %w", err)
	}
	return count, nil
}

// ListByStatus returns all comments in a moderation status, newest first,
// for the admin queue.
func (s *CommentStore) ListByStatus(status models.CommentStatus) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT `+commentColumns+` FROM comments
		WHERE status = $1 ORDER BY created_at DESC
	`, status)
	if err != nil {
		return nil, fmt.Errorf("list comments by status: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

// UpdateStatus moves a comment to a new moderation status.
func (s *CommentStore) UpdateStatus(id uuid.UUID, status models.CommentStatus) error {
	_, err := s.db.Exec(`UPDATE comments SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update comment status: %w", err)
	}
	return nil
}

// Delete removes a comment. Replies cascade.
func (s *CommentStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
