// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"vistapress/internal/models"
)

// ErrAlreadySubscribed is returned when an email with an active
// subscription tries to subscribe again.
var ErrAlreadySubscribed = errors.New("email already subscribed")

// NewsletterStore manages newsletter subscriptions.
type NewsletterStore struct {
	db *sql.DB
}

// NewNewsletterStore creates a new NewsletterStore with the given database connection.
func NewNewsletterStore(db *sql.DB) *NewsletterStore {
	return &NewsletterStore{db: db}
}

const subscriptionColumns = `id, email, name, active, confirmed, confirmation_token,
	subscribed_at, confirmed_at, unsubscribed_at`

func scanSubscription(scanner interface{ Scan(...any) error }) (*models.Subscription, error) {
	var sub models.Subscription
	err := scanner.Scan(
		&sub.ID, &sub.Email, &sub.Name, &sub.Active, &sub.Confirmed, &sub.ConfirmationToken,
		&sub.SubscribedAt, &sub.ConfirmedAt, &sub.UnsubscribedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Subscribe registers an email for the newsletter. An email with an
// active subscription gets ErrAlreadySubscribed; a previously
// unsubscribed email is reactivated with a fresh confirmation token.
func (s *NewsletterStore) Subscribe(email, name string) (*models.Subscription, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.FindByEmail(email)
	if err != nil {
		return nil, err
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.Active {
			return nil, ErrAlreadySubscribed
		}
		row := s.db.QueryRow(`
			UPDATE newsletter_subscriptions
			SET active = TRUE, confirmed = FALSE, confirmation_token = $1, name = $2,
				subscribed_at = NOW(), confirmed_at = NULL, unsubscribed_at = NULL
			WHERE id = $3
			RETURNING `+subscriptionColumns, token, name, existing.ID)
		sub, err := scanSubscription(row)
		if err != nil {
			return nil, fmt.Errorf("resubscribe: %w", err)
		}
		return sub, nil
	}

	row := s.db.QueryRow(`
		INSERT INTO newsletter_subscriptions (email, name, confirmation_token)
		VALUES ($1, $2, $3)
		RETURNING `+subscriptionColumns, email, name, token)
	sub, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	return sub, nil
}

// Confirm marks the subscription holding the token as confirmed.
// Returns nil if no active subscription carries the token.
func (s *NewsletterStore) Confirm(token string) (*models.Subscription, error) {
	row := s.db.QueryRow(`
		UPDATE newsletter_subscriptions
		SET confirmed = TRUE, confirmed_at = NOW()
		WHERE confirmation_token = $1 AND active
		RETURNING `+subscriptionColumns, token)
	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("confirm subscription: %w", err)
	}
	return sub, nil
}

// Unsubscribe deactivates the subscription holding the token. Returns
// false if no active subscription carries it. The row is kept so the
// email can resubscribe later.
func (s *NewsletterStore) Unsubscribe(token string) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE newsletter_subscriptions
		SET active = FALSE, unsubscribed_at = NOW()
		WHERE confirmation_token = $1 AND active
	`, token)
	if err != nil {
		return false, fmt.Errorf("unsubscribe: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unsubscribe result: %w", err)
	}
	return affected > 0, nil
}

// FindByEmail retrieves a subscription by email, active or not.
// Returns nil if not found.
func (s *NewsletterStore) FindByEmail(email string) (*models.Subscription, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := s.db.QueryRow(`SELECT `+subscriptionColumns+` FROM newsletter_subscriptions WHERE email = $1`, email)
	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	return sub, nil
}

// ListActive returns all active subscriptions, newest first.
func (s *NewsletterStore) ListActive() ([]models.Subscription, error) {
	rows, err := s.db.Query(`
		SELECT ` + subscriptionColumns + ` FROM newsletter_subscriptions
		WHERE active ORDER BY subscribed_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
