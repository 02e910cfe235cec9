package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewsletterStoreSubscribe(t *testing.T) {
	db := testDB(t)
	s := NewNewsletterStore(db)

	email := "test-sub-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanSubscriptions(t, db, email) })

	sub, err := s.Subscribe(email, "Test Person")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if !sub.Active {
		t.Error("new subscription should be active")
	}
	if sub.Confirmed {
		t.Error("new subscription should be unconfirmed")
	}
	if sub.ConfirmationToken == "" {
		t.Error("expected a confirmation token")
	}
}

func TestNewsletterStoreDuplicateActive(t *testing.T) {
	db := testDB(t)
	s := NewNewsletterStore(db)

	email := "test-dup-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanSubscriptions(t, db, email) })

	if _, err := s.Subscribe(email, ""); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	_, err := s.Subscribe(email, "")
	if !errors.Is(err, ErrAlreadySubscribed) {
		t.Errorf("expected ErrAlreadySubscribed, got %v", err)
	}

	// Emails are normalized before lookup, so case changes still collide.
	_, err = s.Subscribe(strings.ToUpper(email), "")
	if !errors.Is(err, ErrAlreadySubscribed) {
		t.Errorf("expected ErrAlreadySubscribed for uppercased email, got %v", err)
	}
}

func TestNewsletterStoreConfirm(t *testing.T) {
	db := testDB(t)
	s := NewNewsletterStore(db)

	email := "test-conf-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanSubscriptions(t, db, email) })

	sub, err := s.Subscribe(email, "")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	confirmed, err := s.Confirm(sub.ConfirmationToken)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if confirmed == nil {
		t.Fatal("expected confirmed subscription, got nil")
	}
	if !confirmed.Confirmed || confirmed.ConfirmedAt == nil {
		t.Error("expected confirmed flag and timestamp set")
	}

	// An unknown token confirms nothing.
	none, err := s.Confirm("no-such-token")
	if err != nil {
		t.Fatalf("Confirm unknown: %v", err)
	}
	if none != nil {
		t.Error("expected nil for unknown token")
	}
}

func TestNewsletterStoreUnsubscribeAndResubscribe(t *testing.T) {
	db := testDB(t)
	s := NewNewsletterStore(db)

	email := "test-resub-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanSubscriptions(t, db, email) })

	first, err := s.Subscribe(email, "")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	ok, err := s.Unsubscribe(first.ConfirmationToken)
	if err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	if !ok {
		t.Fatal("expected unsubscribe to succeed")
	}

	// The row survives deactivation so the email can come back.
	kept, err := s.FindByEmail(email)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if kept == nil {
		t.Fatal("expected subscription row to survive unsubscribe")
	}
	if kept.Active {
		t.Error("expected inactive after unsubscribe")
	}
	if kept.UnsubscribedAt == nil {
		t.Error("expected unsubscribed_at set")
	}

	second, err := s.Subscribe(email, "")
	if err != nil {
		t.Fatalf("resubscribe: %v", err)
	}
	if !second.Active {
		t.Error("expected resubscription to reactivate")
	}
	if second.Confirmed {
		t.Error("resubscription must require fresh confirmation")
	}
	if second.ConfirmationToken == first.ConfirmationToken {
		t.Error("resubscription must mint a fresh token")
	}
}
