package store

import (
	"testing"

	"github.com/google/uuid"

	"vistapress/internal/models"
)

func TestViewStoreAppend(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	views := NewViewStore(db)
	authorID := testAuthorID(t, db)

	post := makePost(t, db, posts, &models.Post{
		AuthorID: authorID, Title: "Viewed", Slug: "test-view-" + uuid.NewString()[:8],
		Body: "body", Status: models.PostStatusPublished,
	})

	sessionID := "sess-" + uuid.NewString()[:8]
	for i := 0; i < 3; i++ {
		v := &models.PostView{
			PostID:    post.ID,
			IPAddress: "203.0.113.7",
			UserAgent: "test-agent",
			SessionID: sessionID,
		}
		if err := views.Append(v); err != nil {
			t.Fatalf("Append: %v", err)
		}
		if v.ID == uuid.Nil {
			t.Error("expected generated view ID")
		}
		if v.ViewedAt.IsZero() {
			t.Error("expected viewed_at stamped")
		}
	}

	// The ledger keeps every row; repeat sessions are not collapsed.
	count, err := views.CountForPost(post.ID)
	if err != nil {
		t.Fatalf("CountForPost: %v", err)
	}
	if count != 3 {
		t.Errorf("ledger count: got %d, want 3", count)
	}

	recent, err := views.RecentForPost(post.ID, 2)
	if err != nil {
		t.Fatalf("RecentForPost: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("recent: got %d rows, want 2", len(recent))
	}
}
