// Integration tests for the comment moderation gate. Skipped if
// PostgreSQL is not available.
package comments

import (
	"database/sql"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"vistapress/internal/database"
	"vistapress/internal/models"
	"vistapress/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := "postgres://" + envOr("POSTGRES_USER", "vistapress") + ":" +
		envOr("POSTGRES_PASSWORD", "changeme") + "@" +
		envOr("POSTGRES_HOST", "localhost") + ":" + envOr("POSTGRES_PORT", "5432") + "/" +
		envOr("POSTGRES_DB", "vistapress") + "?sslmode=disable"
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)
	t.Cleanup(func() { db.Close() })
	return db
}

func testPost(t *testing.T, db *sql.DB, allowComments bool) *models.Post {
	t.Helper()
	var authorID uuid.UUID
	if err := db.QueryRow("SELECT id FROM users LIMIT 1").Scan(&authorID); err != nil {
		t.Fatalf("no users in database — run seed first: %v", err)
	}
	slug := "test-gate-" + uuid.NewString()[:8]
	p, err := store.NewPostStore(db).Create(&models.Post{
		AuthorID: authorID, Title: "Gated", Slug: slug,
		Body: "body", Status: models.PostStatusPublished, AllowComments: allowComments,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM posts WHERE slug = $1", slug) })
	return p
}

func testUser(t *testing.T, db *sql.DB) *models.User {
	t.Helper()
	email := "test-gate-" + uuid.NewString()[:8] + "@example.com"
	u, err := store.NewUserStore(db).Create(email, "secret", "gate-"+uuid.NewString()[:8], "Gate Tester", models.RoleReader)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE email = $1", email) })
	return u
}

func TestGateGuestCommentIsPending(t *testing.T) {
	db := testDB(t)
	gate := NewGate(store.NewCommentStore(db))
	post := testPost(t, db, true)

	c, err := gate.Submit(Submission{
		Post: post, Name: "Guest", Email: "guest@example.com",
		Body: "A perfectly fine guest comment.",
		IPAddress: "203.0.113.9", UserAgent: "test-agent",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if c.Status != models.CommentStatusPending {
		t.Errorf("status: got %q, want pending", c.Status)
	}
	if c.UserID != nil {
		t.Error("guest comment must not carry a user ID")
	}
}

func TestGateUserCommentIsApprovedWithAccountIdentity(t *testing.T) {
	db := testDB(t)
	gate := NewGate(store.NewCommentStore(db))
	post := testPost(t, db, true)
	user := testUser(t, db)

	c, err := gate.Submit(Submission{
		Post: post, User: user,
		Name: "Spoofed Name", Email: "spoof@example.com",
		Body: "Signed-in users skip the queue.",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if c.Status != models.CommentStatusApproved {
		t.Errorf("status: got %q, want approved", c.Status)
	}
	if c.Name != user.DisplayName || c.Email != user.Email {
		t.Errorf("identity: got %q/%q, want account identity %q/%q", c.Name, c.Email, user.DisplayName, user.Email)
	}
	if c.UserID == nil || *c.UserID != user.ID {
		t.Error("expected comment linked to the user")
	}
}

func TestGateRejections(t *testing.T) {
	db := testDB(t)
	gate := NewGate(store.NewCommentStore(db))
	open := testPost(t, db, true)
	closed := testPost(t, db, false)

	// Body under the minimum after trimming.
	_, err := gate.Submit(Submission{
		Post: open, Name: "G", Email: "g@example.com", Body: "   short    ",
	})
	if !errors.Is(err, ErrBodyTooShort) {
		t.Errorf("expected ErrBodyTooShort, got %v", err)
	}

	// Comments closed on the post.
	_, err = gate.Submit(Submission{
		Post: closed, Name: "G", Email: "g@example.com", Body: "Long enough body here.",
	})
	if !errors.Is(err, ErrCommentsClosed) {
		t.Errorf("expected ErrCommentsClosed, got %v", err)
	}

	// Guest without identity.
	_, err = gate.Submit(Submission{
		Post: open, Body: "Long enough body here.",
	})
	if !errors.Is(err, ErrMissingIdentity) {
		t.Errorf("expected ErrMissingIdentity, got %v", err)
	}

	// Parent from another post.
	other, err := gate.Submit(Submission{
		Post: closedReopened(t, db, closed), Name: "G", Email: "g@example.com",
		Body: "Comment on the other post.",
	})
	if err != nil {
		t.Fatalf("Submit on other post: %v", err)
	}
	_, err = gate.Submit(Submission{
		Post: open, ParentID: &other.ID, Name: "G", Email: "g@example.com",
		Body: "Reply across posts should fail.",
	})
	if !errors.Is(err, ErrInvalidParent) {
		t.Errorf("expected ErrInvalidParent, got %v", err)
	}
}

// closedReopened flips allow_comments back on so the post accepts the
// setup comment for the cross-post parent case.
func closedReopened(t *testing.T, db *sql.DB, p *models.Post) *models.Post {
	t.Helper()
	db.Exec("UPDATE posts SET allow_comments = TRUE WHERE id = $1", p.ID)
	p.AllowComments = true
	return p
}

func TestGateTruncatesForensics(t *testing.T) {
	db := testDB(t)
	gate := NewGate(store.NewCommentStore(db))
	post := testPost(t, db, true)

	longUA := strings.Repeat("x", 400)
	c, err := gate.Submit(Submission{
		Post: post, Name: "G", Email: "g@example.com",
		Body: "Forensic fields get clamped.", UserAgent: longUA,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if c.UserAgent == nil || len(*c.UserAgent) != 255 {
		t.Errorf("user agent length: got %v, want 255", c.UserAgent)
	}
}
