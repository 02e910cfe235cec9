package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is a newsletter signup. Emails are unique; duplicate active
// signups are rejected, inactive ones are reactivated with a fresh token.
// Delivery of confirmation and newsletter emails is an external concern.
type Subscription struct {
	ID                uuid.UUID  `json:"id"`
	Email             string     `json:"email"`
	Name              string     `json:"name"`
	Active            bool       `json:"active"`
	Confirmed         bool       `json:"confirmed"`
	ConfirmationToken string     `json:"-"`
	SubscribedAt      time.Time  `json:"subscribed_at"`
	ConfirmedAt       *time.Time `json:"confirmed_at,omitempty"`
	UnsubscribedAt    *time.Time `json:"unsubscribed_at,omitempty"`
}
