// Integration tests for the feed facade. Skipped unless PostgreSQL and
// Valkey are reachable.
package feed

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"vistapress/internal/cache"
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

func testService(t *testing.T, db *sql.DB) *Service {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr: envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		DB:   15,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}
	c := cache.New(client)
	c.Flush(context.Background())
	t.Cleanup(func() { c.Flush(context.Background()); client.Close() })

	return NewService(
		store.NewPostStore(db),
		store.NewCategoryStore(db),
		store.NewCommentStore(db),
		store.NewSavedPostStore(db),
		c,
	)
}

func makePost(t *testing.T, db *sql.DB, title, slug, body string) *models.Post {
	t.Helper()
	var authorID uuid.UUID
	if err := db.QueryRow("SELECT id FROM users LIMIT 1").Scan(&authorID); err != nil {
		t.Fatalf("no users in database — run seed first: %v", err)
	}
	p, err := store.NewPostStore(db).Create(&models.Post{
		AuthorID: authorID, Title: title, Slug: slug, Body: body,
		Status: models.PostStatusPublished, AllowComments: true,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM posts WHERE slug = $1", slug) })
	return p
}

func TestListPagination(t *testing.T) {
	db := testDB(t)
	s := testService(t, db)

	marker := uuid.NewString()[:8]
	for i := 0; i < PageSize+1; i++ {
		makePost(t, db, "Feed post "+marker, "test-feed-"+marker+"-"+uuid.NewString()[:4], "body")
	}

	page, err := s.List(store.Filters{Search: "Feed post " + marker}, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != PageSize+1 {
		t.Errorf("total: got %d, want %d", page.Total, PageSize+1)
	}
	if len(page.Posts) != PageSize {
		t.Errorf("page 1 size: got %d, want %d", len(page.Posts), PageSize)
	}
	if page.TotalPages != 2 {
		t.Errorf("total pages: got %d, want 2", page.TotalPages)
	}
}

func TestDetailRendersMarkdown(t *testing.T) {
	db := testDB(t)
	s := testService(t, db)

	slug := "test-detail-" + uuid.NewString()[:8]
	makePost(t, db, "Detail post", slug, "# Heading\n\nSome **bold** text.")

	detail, err := s.Detail(slug, nil)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if detail == nil {
		t.Fatal("expected detail payload, got nil")
	}
	if !strings.Contains(detail.BodyHTML, "<h1") || !strings.Contains(detail.BodyHTML, "<strong>bold</strong>") {
		t.Errorf("markdown not rendered: %q", detail.BodyHTML)
	}
	if detail.Saved {
		t.Error("anonymous viewer cannot have the post saved")
	}

	// Unknown slug resolves to nil, not an error.
	missing, err := s.Detail("no-such-slug-"+uuid.NewString()[:8], nil)
	if err != nil {
		t.Fatalf("Detail (missing): %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown slug")
	}
}

func TestSidebarIsServedFromCache(t *testing.T) {
	db := testDB(t)
	s := testService(t, db)
	ctx := context.Background()

	marker := uuid.NewString()[:8]
	slug := "test-side-" + marker
	p := makePost(t, db, "Sidebar "+marker, slug, "body")
	db.Exec("UPDATE posts SET featured = TRUE WHERE id = $1", p.ID)

	first, err := s.Sidebar(ctx)
	if err != nil {
		t.Fatalf("Sidebar: %v", err)
	}
	var found bool
	for _, f := range first.Featured {
		if f.Slug == slug {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the featured post in the sidebar")
	}

	// Unfeature the post: the cached aggregate keeps serving it until
	// the TTL expires.
	db.Exec("UPDATE posts SET featured = FALSE WHERE id = $1", p.ID)

	second, err := s.Sidebar(ctx)
	if err != nil {
		t.Fatalf("Sidebar (cached): %v", err)
	}
	found = false
	for _, f := range second.Featured {
		if f.Slug == slug {
			found = true
		}
	}
	if !found {
		t.Error("expected the cached sidebar to still include the post")
	}
}
