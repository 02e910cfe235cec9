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

// SavedPostStore manages per-user reading lists.
type SavedPostStore struct {
	db *sql.DB
}

// NewSavedPostStore creates a new SavedPostStore with the given database connection.
func NewSavedPostStore(db *sql.DB) *SavedPostStore {
	return &SavedPostStore{db: db}
}

// Toggle flips the saved state of a post for a user and reports the new
// state. The (user, post) pair is unique, so concurrent toggles settle on
// one row at most.
func (s *SavedPostStore) Toggle(userID, postID uuid.UUID) (saved bool, err error) {
	res, err := s.db.Exec(`
		INSERT INTO saved_posts (user_id, post_id) VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING
	`, userID, postID)
	if err != nil {
		return false, fmt.Errorf("save post: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("save post result: %w", err)
	}
	if inserted > 0 {
		return true, nil
	}

	// Already saved: the toggle removes it.
	_, err = s.db.Exec(`DELETE FROM saved_posts WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return false, fmt.Errorf("unsave post: %w", err)
	}
	return false, nil
}

// IsSaved reports whether the user has saved the post.
func (s *SavedPostStore) IsSaved(userID, postID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM saved_posts WHERE user_id = $1 AND post_id = $2)
	`, userID, postID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("is saved: %w", err)
	}
	return exists, nil
}

// ListForUser returns one page of the user's saved published posts,
// most recently saved first, plus the total of visible saves. Posts
// that were unpublished after saving drop out of the list without
// deleting the save row.
func (s *SavedPostStore) ListForUser(userID uuid.UUID, page, perPage int) ([]models.Post, int, error) {
	if page < 1 {
		page = 1
	}

	var total int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM saved_posts sp
		JOIN posts p ON p.id = sp.post_id
		WHERE sp.user_id = $1 AND `+publishedCond+`
	`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count saved posts page: %w", err)
	}

	rows, err := s.db.Query(postSelect+`
		JOIN saved_posts sp ON sp.post_id = p.id
		WHERE sp.user_id = $1 AND `+publishedCond+`
		ORDER BY sp.saved_at DESC
		LIMIT $2 OFFSET $3
	`, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list saved posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanJoinedPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan saved post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// CountForUser returns how many posts the user has saved.
func (s *SavedPostStore) CountForUser(userID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM saved_posts WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count saved posts: %w", err)
	}
	return count, nil
}
