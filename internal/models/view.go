// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostView is one row of the append-only view analytics ledger. Rows are
// never updated or deleted by normal operation; the post's view counter is
// a separate, dedup-gated aggregate.
type PostView struct {
	ID        uuid.UUID  `json:"id"`
	PostID    uuid.UUID  `json:"post_id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	IPAddress string     `json:"ip_address"`
	UserAgent string     `json:"user_agent"`
	Referer   string     `json:"referer"`
	SessionID string     `json:"session_id"`
	ViewedAt  time.Time  `json:"viewed_at"`
}
