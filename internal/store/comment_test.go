package store

import (
	"testing"

	"github.com/google/uuid"

	"vistapress/internal/models"
)

func TestCommentStoreCreateAndThread(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	comments := NewCommentStore(db)
	authorID := testAuthorID(t, db)

	post := makePost(t, db, posts, &models.Post{
		AuthorID: authorID, Title: "Commented", Slug: "test-thr-" + uuid.NewString()[:8],
		Body: "body", Status: models.PostStatusPublished,
	})

	top, err := comments.Create(&models.Comment{
		PostID: post.ID, Name: "Alice", Email: "alice@example.com",
		Body: "Top-level comment here", Status: models.CommentStatusApproved,
	})
	if err != nil {
		t.Fatalf("Create top: %v", err)
	}

	if _, err := comments.Create(&models.Comment{
		PostID: post.ID, ParentID: &top.ID, Name: "Bob", Email: "bob@example.com",
		Body: "An approved reply arrives", Status: models.CommentStatusApproved,
	}); err != nil {
		t.Fatalf("Create reply: %v", err)
	}
	if _, err := comments.Create(&models.Comment{
		PostID: post.ID, ParentID: &top.ID, Name: "Eve", Email: "eve@example.com",
		Body: "A pending reply stays hidden", Status: models.CommentStatusPending,
	}); err != nil {
		t.Fatalf("Create pending reply: %v", err)
	}

	thread, err := comments.ApprovedForPost(post.ID)
	if err != nil {
		t.Fatalf("ApprovedForPost: %v", err)
	}
	if len(thread) != 1 {
		t.Fatalf("got %d top-level comments, want 1", len(thread))
	}
	if len(thread[0].Replies) != 1 {
		t.Fatalf("got %d replies, want 1 (pending reply excluded)", len(thread[0].Replies))
	}
	if thread[0].Replies[0].Name != "Bob" {
		t.Errorf("reply author: got %q, want Bob", thread[0].Replies[0].Name)
	}

	count, err := comments.CountApproved(post.ID)
	if err != nil {
		t.Fatalf("CountApproved: %v", err)
	}
	if count != 2 {
		t.Errorf("approved count: got %d, want 2", count)
	}
}

func TestCommentStoreModeration(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	comments := NewCommentStore(db)
	authorID := testAuthorID(t, db)

	post := makePost(t, db, posts, &models.Post{
		AuthorID: authorID, Title: "Moderated", Slug: "test-mod-" + uuid.NewString()[:8],
		Body: "body", Status: models.PostStatusPublished,
	})

	pending, err := comments.Create(&models.Comment{
		PostID: post.ID, Name: "Guest", Email: "guest@example.com",
		Body: "Waiting for moderation", Status: models.CommentStatusPending,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := comments.UpdateStatus(pending.ID, models.CommentStatusApproved); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	found, err := comments.FindByID(pending.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Status != models.CommentStatusApproved {
		t.Errorf("status: got %q, want approved", found.Status)
	}

	thread, err := comments.ApprovedForPost(post.ID)
	if err != nil {
		t.Fatalf("ApprovedForPost: %v", err)
	}
	if len(thread) != 1 {
		t.Errorf("got %d comments after approval, want 1", len(thread))
	}
}

func TestCommentStoreDeleteCascadesReplies(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	comments := NewCommentStore(db)
	authorID := testAuthorID(t, db)

	post := makePost(t, db, posts, &models.Post{
		AuthorID: authorID, Title: "Cascade", Slug: "test-ccd-" + uuid.NewString()[:8],
		Body: "body", Status: models.PostStatusPublished,
	})

	top, err := comments.Create(&models.Comment{
		PostID: post.ID, Name: "Top", Email: "top@example.com",
		Body: "Parent comment to delete", Status: models.CommentStatusApproved,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	reply, err := comments.Create(&models.Comment{
		PostID: post.ID, ParentID: &top.ID, Name: "Child", Email: "child@example.com",
		Body: "Reply that goes with it", Status: models.CommentStatusApproved,
	})
	if err != nil {
		t.Fatalf("Create reply: %v", err)
	}

	if err := comments.Delete(top.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	gone, err := comments.FindByID(reply.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if gone != nil {
		t.Error("expected reply to cascade on parent delete")
	}
}
