package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestTagStoreEnsure(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)

	marker := uuid.NewString()[:8]
	a := "Test Tag A " + marker
	b := "Test Tag B " + marker
	t.Cleanup(func() { cleanTags(t, db, "test-tag-a-"+marker, "test-tag-b-"+marker) })

	tags, err := s.Ensure([]string{a, b, "", a})
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("got %d tags, want 2 (blank and duplicate dropped)", len(tags))
	}

	// Ensuring again reuses the same rows.
	again, err := s.Ensure([]string{a, b})
	if err != nil {
		t.Fatalf("Ensure again: %v", err)
	}
	if len(again) != 2 {
		t.Fatalf("got %d tags on re-ensure, want 2", len(again))
	}
	if again[0].ID != tags[0].ID {
		t.Error("re-ensuring a tag must reuse the existing row")
	}
}
