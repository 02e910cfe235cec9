package store

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"vistapress/internal/models"
)

func makeReader(t *testing.T, db *sql.DB, users *UserStore) *models.User {
	t.Helper()
	email := "test-reader-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	u, err := users.Create(email, "secret", "reader-"+uuid.NewString()[:8], "Test Reader", models.RoleReader)
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}
	return u
}

func TestSavedPostStoreToggle(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	users := NewUserStore(db)
	saved := NewSavedPostStore(db)
	authorID := testAuthorID(t, db)

	reader := makeReader(t, db, users)
	post := makePost(t, db, posts, &models.Post{
		AuthorID: authorID, Title: "Save me", Slug: "test-save-" + uuid.NewString()[:8],
		Body: "body", Status: models.PostStatusPublished,
	})

	on, err := saved.Toggle(reader.ID, post.ID)
	if err != nil {
		t.Fatalf("Toggle (save): %v", err)
	}
	if !on {
		t.Error("first toggle should save")
	}

	is, err := saved.IsSaved(reader.ID, post.ID)
	if err != nil {
		t.Fatalf("IsSaved: %v", err)
	}
	if !is {
		t.Error("expected post to be saved")
	}

	off, err := saved.Toggle(reader.ID, post.ID)
	if err != nil {
		t.Fatalf("Toggle (unsave): %v", err)
	}
	if off {
		t.Error("second toggle should unsave")
	}

	is, err = saved.IsSaved(reader.ID, post.ID)
	if err != nil {
		t.Fatalf("IsSaved after unsave: %v", err)
	}
	if is {
		t.Error("expected post to be unsaved")
	}
}

func TestSavedPostStoreListHidesUnpublished(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	users := NewUserStore(db)
	saved := NewSavedPostStore(db)
	authorID := testAuthorID(t, db)

	reader := makeReader(t, db, users)
	post := makePost(t, db, posts, &models.Post{
		AuthorID: authorID, Title: "Will vanish", Slug: "test-vanish-" + uuid.NewString()[:8],
		Body: "body", Status: models.PostStatusPublished,
	})

	if _, err := saved.Toggle(reader.ID, post.ID); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	list, total, err := saved.ListForUser(reader.ID, 1, 10)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(list) != 1 || total != 1 {
		t.Fatalf("got %d saved posts (total %d), want 1", len(list), total)
	}

	// Unpublishing hides the post from the list without deleting the save.
	db.Exec("UPDATE posts SET status = 'archived' WHERE id = $1", post.ID)

	list, total, err = saved.ListForUser(reader.ID, 1, 10)
	if err != nil {
		t.Fatalf("ListForUser after archive: %v", err)
	}
	if len(list) != 0 || total != 0 {
		t.Errorf("got %d saved posts (total %d) after archive, want 0", len(list), total)
	}

	count, err := saved.CountForUser(reader.ID)
	if err != nil {
		t.Fatalf("CountForUser: %v", err)
	}
	if count != 1 {
		t.Errorf("save row count: got %d, want 1 (row survives unpublish)", count)
	}
}
