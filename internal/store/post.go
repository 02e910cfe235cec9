// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"vistapress/internal/models"
)

// PostStore handles all post-related database operations: CRUD, the
// published feed queries, related/adjacent lookups, and the atomic view
// counter increment.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `p.id, p.author_id, p.title, p.slug, p.subtitle, p.excerpt, p.body,
	p.featured_image_key, p.featured_image_alt, p.video_url, p.category_id, p.status,
	p.published_at, p.featured, p.allow_comments, p.meta_title, p.meta_description,
	p.meta_keywords, p.og_title, p.og_description, p.view_count, p.reading_time,
	p.created_at, p.updated_at`

// postSelect joins author and category and annotates the approved comment
// count. Every feed query starts from this shape.
const postSelect = `SELECT ` + postColumns + `,
	u.handle, u.display_name, c.slug, c.name,
	(SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id AND cm.status = 'approved') AS comment_count
FROM posts p
JOIN users u ON u.id = p.author_id
LEFT JOIN categories c ON c.id = p.category_id`

// publishedCond restricts a query to publicly visible posts. Posts with a
// future publish time stay hidden until it passes.
const publishedCond = `p.status = 'published' AND p.published_at <= NOW()`

// scanJoinedPost scans one row of a postSelect query. extras receives any
// additional trailing columns (e.g. the shared-tag rank in Related).
func scanJoinedPost(scanner interface{ Scan(...any) error }, extras ...any) (*models.Post, error) {
	var p models.Post
	var catSlug, catName sql.NullString

	fields := []any{
		&p.ID, &p.AuthorID, &p.Title, &p.Slug, &p.Subtitle, &p.Excerpt, &p.Body,
		&p.FeaturedImageKey, &p.FeaturedImageAlt, &p.VideoURL, &p.CategoryID, &p.Status,
		&p.PublishedAt, &p.Featured, &p.AllowComments, &p.MetaTitle, &p.MetaDescription,
		&p.MetaKeywords, &p.OGTitle, &p.OGDescription, &p.ViewCount, &p.ReadingTime,
		&p.CreatedAt, &p.UpdatedAt,
		&p.AuthorHandle, &p.AuthorName, &catSlug, &catName, &p.CommentCount,
	}
	fields = append(fields, extras...)

	if err := scanner.Scan(fields...); err != nil {
		return nil, err
	}
	if catSlug.Valid {
		p.CategorySlug = &catSlug.String
		p.CategoryName = &catName.String
	}
	return &p, nil
}

// SlugExists reports whether any post already uses the given slug.
func (s *PostStore) SlugExists(postSlug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, postSlug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("post slug exists: %w", err)
	}
	return exists, nil
}

// Create inserts a new post and returns it with generated fields. If the
// post is created directly in published status, published_at is stamped now.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	row := s.db.QueryRow(`
		INSERT INTO posts (author_id, title, slug, subtitle, excerpt, body,
			featured_image_key, featured_image_alt, video_url, category_id, status,
			published_at, featured, allow_comments, meta_title, meta_description,
			meta_keywords, og_title, og_description, reading_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING `+strings.ReplaceAll(postColumns, "p.", ""),
		p.AuthorID, p.Title, p.Slug, p.Subtitle, p.Excerpt, p.Body,
		p.FeaturedImageKey, p.FeaturedImageAlt, p.VideoURL, p.CategoryID, p.Status,
		p.PublishedAt, p.Featured, p.AllowComments, p.MetaTitle, p.MetaDescription,
		p.MetaKeywords, p.OGTitle, p.OGDescription, p.ReadingTime,
	)

	result := &models.Post{}
	err := row.Scan(
		&result.ID, &result.AuthorID, &result.Title, &result.Slug, &result.Subtitle,
		&result.Excerpt, &result.Body, &result.FeaturedImageKey, &result.FeaturedImageAlt,
		&result.VideoURL, &result.CategoryID, &result.Status, &result.PublishedAt,
		&result.Featured, &result.AllowComments, &result.MetaTitle, &result.MetaDescription,
		&result.MetaKeywords, &result.OGTitle, &result.OGDescription, &result.ViewCount,
		&result.ReadingTime, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return result, nil
}

// Update modifies an existing post. The slug never changes, and
// published_at is stamped only on the first transition into published
// status — once set it is never cleared or moved.
func (s *PostStore) Update(p *models.Post) error {
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	_, err := s.db.Exec(`
		UPDATE posts SET
			title = $1, subtitle = $2, excerpt = $3, body = $4,
			featured_image_key = $5, featured_image_alt = $6, video_url = $7,
			category_id = $8, status = $9,
			published_at = COALESCE(published_at, $10),
			featured = $11, allow_comments = $12, meta_title = $13,
			meta_description = $14, meta_keywords = $15, og_title = $16,
			og_description = $17, reading_time = $18, updated_at = NOW()
		WHERE id = $19
	`, p.Title, p.Subtitle, p.Excerpt, p.Body,
		p.FeaturedImageKey, p.FeaturedImageAlt, p.VideoURL,
		p.CategoryID, p.Status, p.PublishedAt,
		p.Featured, p.AllowComments, p.MetaTitle,
		p.MetaDescription, p.MetaKeywords, p.OGTitle,
		p.OGDescription, p.ReadingTime, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post. Comments, views, tag links, and saves cascade.
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// FindByID retrieves a post by ID regardless of status, with tags attached.
// Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(postSelect+` WHERE p.id = $1`, id)
	p, err := scanJoinedPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	if err := s.attachTags([]*models.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// FindPublishedBySlug retrieves a publicly visible post by slug, with
// tags attached. Returns nil if absent, unpublished, or scheduled ahead.
func (s *PostStore) FindPublishedBySlug(postSlug string) (*models.Post, error) {
	row := s.db.QueryRow(postSelect+` WHERE p.slug = $1 AND `+publishedCond, postSlug)
	p, err := scanJoinedPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	if err := s.attachTags([]*models.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// Filters narrows the published feed. All set filters combine as an
// AND-conjunction; Search alone fans out as an OR across title, body,
// excerpt, and tag names. Unknown slugs and handles match nothing.
type Filters struct {
	Search       string
	TagSlug      string
	CategorySlug string
	AuthorHandle string
	FeaturedOnly bool
}

// buildFilterWhere renders the WHERE clause for a filtered published feed
// query, appending bind arguments to args.
func buildFilterWhere(f Filters, args *[]any) string {
	var b strings.Builder
	b.WriteString(` WHERE ` + publishedCond)

	arg := func(v any) string {
		*args = append(*args, v)
		return fmt.Sprintf("$%d", len(*args))
	}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		n := arg(pattern)
		b.WriteString(` AND (p.title ILIKE ` + n +
			` OR p.body ILIKE ` + n +
			` OR p.excerpt ILIKE ` + n +
			` OR EXISTS (SELECT 1 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
				WHERE pt.post_id = p.id AND t.name ILIKE ` + n + `))`)
	}
	if f.TagSlug != "" {
		b.WriteString(` AND EXISTS (SELECT 1 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
			WHERE pt.post_id = p.id AND t.slug = ` + arg(f.TagSlug) + `)`)
	}
	if f.CategorySlug != "" {
		b.WriteString(` AND c.slug = ` + arg(f.CategorySlug))
	}
	if f.AuthorHandle != "" {
		b.WriteString(` AND u.handle = ` + arg(f.AuthorHandle))
	}
	if f.FeaturedOnly {
		b.WriteString(` AND p.featured`)
	}

	return b.String()
}

// ListPublished returns one page of the published feed matching the
// filters, ordered by published time descending with creation time as a
// stable tie-break, plus the total match count. page is 1-based.
func (s *PostStore) ListPublished(f Filters, page, perPage int) ([]models.Post, int, error) {
	if page < 1 {
		page = 1
	}

	var args []any
	where := buildFilterWhere(f, &args)

	var total int
	countQuery := `SELECT COUNT(*) FROM posts p
		JOIN users u ON u.id = p.author_id
		LEFT JOIN categories c ON c.id = p.category_id` + where
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count published posts: %w", err)
	}

	query := postSelect + where +
		fmt.Sprintf(` ORDER BY p.published_at DESC, p.created_at DESC LIMIT $%d OFFSET $%d`,
			len(args)+1, len(args)+2)
	args = append(args, perPage, (page-1)*perPage)

	posts, err := s.queryPosts(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list published posts: %w", err)
	}
	return posts, total, nil
}

// Related returns up to limit published posts sharing at least one tag or
// the same category with the given post, ranked by number of shared tags
// descending, then publish time descending. The post itself is excluded;
// an uncategorized post relates only through its tags.
func (s *PostStore) Related(p *models.Post, limit int) ([]models.Post, error) {
	rows, err := s.db.Query(`SELECT `+postColumns+`,
		u.handle, u.display_name, c.slug, c.name,
		(SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id AND cm.status = 'approved') AS comment_count,
		(SELECT COUNT(*) FROM post_tags pt
			WHERE pt.post_id = p.id
			AND pt.tag_id IN (SELECT tag_id FROM post_tags WHERE post_id = $1)) AS shared_tags
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id
		WHERE `+publishedCond+`
		AND p.id <> $1
		AND (
			EXISTS (SELECT 1 FROM post_tags pt
				WHERE pt.post_id = p.id
				AND pt.tag_id IN (SELECT tag_id FROM post_tags WHERE post_id = $1))
			OR p.category_id = $2
		)
		ORDER BY shared_tags DESC, p.published_at DESC
		LIMIT $3
	`, p.ID, p.CategoryID, limit)
	if err != nil {
		return nil, fmt.Errorf("related posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var sharedTags int
		post, err := scanJoinedPost(rows, &sharedTags)
		if err != nil {
			return nil, fmt.Errorf("scan related post: %w", err)
		}
		post.SharedTags = sharedTags
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, s.attachTagsSlice(posts)
}

// Adjacent returns the nearest published post with a strictly earlier
// publish time (previous) and the nearest with a strictly later one
// (next). Either may be nil at the ends of the timeline.
func (s *PostStore) Adjacent(p *models.Post) (previous, next *models.Post, err error) {
	if p.PublishedAt == nil {
		return nil, nil, nil
	}

	row := s.db.QueryRow(postSelect+` WHERE `+publishedCond+`
		AND p.published_at < $1 ORDER BY p.published_at DESC LIMIT 1`, *p.PublishedAt)
	previous, err = scanJoinedPost(row)
	if err == sql.ErrNoRows {
		previous, err = nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("previous post: %w", err)
	}

	row = s.db.QueryRow(postSelect+` WHERE `+publishedCond+`
		AND p.published_at > $1 ORDER BY p.published_at ASC LIMIT 1`, *p.PublishedAt)
	next, err = scanJoinedPost(row)
	if err == sql.ErrNoRows {
		next, err = nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("next post: %w", err)
	}

	return previous, next, nil
}

// Featured returns up to limit published featured posts, newest first.
func (s *PostStore) Featured(limit int) ([]models.Post, error) {
	posts, err := s.queryPosts(postSelect+` WHERE `+publishedCond+`
		AND p.featured ORDER BY p.published_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("featured posts: %w", err)
	}
	return posts, nil
}

// PopularByViews returns up to limit published posts ordered by view count.
func (s *PostStore) PopularByViews(limit int) ([]models.Post, error) {
	posts, err := s.queryPosts(postSelect+` WHERE `+publishedCond+`
		ORDER BY p.view_count DESC, p.published_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("popular posts: %w", err)
	}
	return posts, nil
}

// Recent returns up to limit published posts, newest first.
func (s *PostStore) Recent(limit int) ([]models.Post, error) {
	posts, err := s.queryPosts(postSelect+` WHERE `+publishedCond+`
		ORDER BY p.published_at DESC, p.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent posts: %w", err)
	}
	return posts, nil
}

// ListByStatus returns all posts in the given status for the admin panel,
// newest first.
func (s *PostStore) ListByStatus(status models.PostStatus) ([]models.Post, error) {
	posts, err := s.queryPosts(postSelect+` WHERE p.status = $1
		ORDER BY p.created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("list posts by status: %w", err)
	}
	return posts, nil
}

// IncrementViewCount adds exactly one to the post's view counter with a
// single atomic UPDATE. Concurrent increments never lose updates; the
// application never read-modify-writes this value.
func (s *PostStore) IncrementViewCount(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	return nil
}

// SetTags replaces the post's tag associations in one transaction.
func (s *PostStore) SetTags(postID uuid.UUID, tags []models.Tag) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}
	for _, t := range tags {
		if _, err := tx.Exec(`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)`, postID, t.ID); err != nil {
			return fmt.Errorf("link tag %s: %w", t.Slug, err)
		}
	}

	return tx.Commit()
}

// queryPosts runs a postSelect-shaped query and attaches tags.
func (s *PostStore) queryPosts(query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanJoinedPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, s.attachTagsSlice(posts)
}

// attachTagsSlice loads tags for a slice of posts in one query.
func (s *PostStore) attachTagsSlice(posts []models.Post) error {
	refs := make([]*models.Post, len(posts))
	for i := range posts {
		refs[i] = &posts[i]
	}
	return s.attachTags(refs)
}

// attachTags populates the Tags field of each post with a single query
// over the join table.
func (s *PostStore) attachTags(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	placeholders := make([]string, len(posts))
	args := make([]any, len(posts))
	byID := make(map[uuid.UUID]*models.Post, len(posts))
	for i, p := range posts {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = p.ID
		byID[p.ID] = p
	}

	rows, err := s.db.Query(`
		SELECT pt.post_id, t.id, t.name, t.slug
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY t.name
	`, args...)
	if err != nil {
		return fmt.Errorf("load post tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID uuid.UUID
		var t models.Tag
		if err := rows.Scan(&postID, &t.ID, &t.Name, &t.Slug); err != nil {
			return fmt.Errorf("scan post tag: %w", err)
		}
		if p, ok := byID[postID]; ok {
			p.Tags = append(p.Tags, t)
		}
	}
	return rows.Err()
}
