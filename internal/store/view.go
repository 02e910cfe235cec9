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

// ViewStore persists the append-only post view ledger. Every detail
// request appends a row here; deduplication applies only to the counter
// on the post itself, never to this ledger.
type ViewStore struct {
	db *sql.DB
}

// NewViewStore creates a new ViewStore with the given database connection.
func NewViewStore(db *sql.DB) *ViewStore {
	return &ViewStore{db: db}
}

// Append records one view event.
func (s *ViewStore) Append(v *models.PostView) error {
	err := s.db.QueryRow(`
		INSERT INTO post_views (post_id, user_id, ip_address, user_agent, referer, session_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, viewed_at
	`, v.PostID, v.UserID, v.IPAddress, v.UserAgent, v.Referer, v.SessionID).Scan(&v.ID, &v.ViewedAt)
	if err != nil {
		return fmt.Errorf("append post view: %w", err)
	}
	return nil
}

// CountForPost returns the total ledger rows for a post. This can exceed
// the post's view_count because repeat views inside the dedup window still
// land in the ledger.
func (s *ViewStore) CountForPost(postID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM post_views WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count post views: %w", err)
	}
	return count, nil
}

// RecentForPost returns the latest ledger rows for a post, newest first.
func (s *ViewStore) RecentForPost(postID uuid.UUID, limit int) ([]models.PostView, error) {
	rows, err := s.db.Query(`
		SELECT id, post_id, user_id, ip_address, user_agent, referer, session_id, viewed_at
		FROM post_views WHERE post_id = $1
		ORDER BY viewed_at DESC LIMIT $2
	`, postID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent post views: %w", err)
	}
	defer rows.Close()

	var views []models.PostView
	for rows.Next() {
		var v models.PostView
		err := rows.Scan(&v.ID, &v.PostID, &v.UserID, &v.IPAddress, &v.UserAgent,
			&v.Referer, &v.SessionID, &v.ViewedAt)
		if err != nil {
			return nil, fmt.Errorf("scan post view: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}
