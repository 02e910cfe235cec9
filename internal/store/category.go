// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"vistapress/internal/models"
)

// ErrCategoryCycle is returned when a parent assignment would introduce a
// loop in the category tree. The hierarchy is acyclic by construction:
// every parent change walks the ancestor chain before committing.
var ErrCategoryCycle = errors.New("category parent assignment would create a cycle")

// CategoryStore manages the hierarchical category tree.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, parent_id, image_key, meta_description, active, sort_order, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID,
		&c.ImageKey, &c.MetaDescription, &c.Active, &c.SortOrder,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SlugExists reports whether any category already uses the given slug.
func (s *CategoryStore) SlugExists(categorySlug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1)`, categorySlug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category slug exists: %w", err)
	}
	return exists, nil
}

// List returns all categories ordered by sort order and name.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryColumns + ` FROM categories ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// ActiveWithCounts returns active categories annotated with their
// published-post counts, excluding categories with no published posts.
// This is the sidebar aggregate the feed memoizes for 30 minutes.
func (s *CategoryStore) ActiveWithCounts() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.parent_id, c.image_key,
		       c.meta_description, c.active, c.sort_order, c.created_at, c.updated_at,
		       COUNT(p.id) AS post_count
		FROM categories c
		JOIN posts p ON p.category_id = c.id
			AND p.status = 'published' AND p.published_at <= NOW()
		WHERE c.active
		GROUP BY c.id
		ORDER BY c.sort_order, c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("active categories with counts: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID,
			&c.ImageKey, &c.MetaDescription, &c.Active, &c.SortOrder,
			&c.CreatedAt, &c.UpdatedAt, &c.PostCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Tree returns categories as a nested tree structure.
func (s *CategoryStore) Tree() ([]models.Category, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}
	return buildTree(flat, nil, 0), nil
}

// buildTree recursively builds a tree from a flat list.
func buildTree(flat []models.Category, parentID *uuid.UUID, depth int) []models.Category {
	var result []models.Category
	for _, c := range flat {
		if ptrEqual(c.ParentID, parentID) {
			c.Depth = depth
			c.Children = buildTree(flat, &c.ID, depth+1)
			result = append(result, c)
		}
	}
	return result
}

// ptrEqual compares two *uuid.UUID for equality (both nil or same value).
func ptrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(categorySlug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, categorySlug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Children returns the direct active children of a category, annotated
// with published-post counts.
func (s *CategoryStore) Children(parentID uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.parent_id, c.image_key,
		       c.meta_description, c.active, c.sort_order, c.created_at, c.updated_at,
		       COUNT(p.id) FILTER (WHERE p.status = 'published') AS post_count
		FROM categories c
		LEFT JOIN posts p ON p.category_id = c.id
		WHERE c.parent_id = $1 AND c.active
		GROUP BY c.id
		ORDER BY c.sort_order, c.name
	`, parentID)
	if err != nil {
		return nil, fmt.Errorf("category children: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID,
			&c.ImageKey, &c.MetaDescription, &c.Active, &c.SortOrder,
			&c.CreatedAt, &c.UpdatedAt, &c.PostCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Breadcrumbs returns the chain from the root down to the given category.
func (s *CategoryStore) Breadcrumbs(id uuid.UUID) ([]models.Category, error) {
	var trail []models.Category
	current := &id
	for current != nil {
		c, err := s.FindByID(*current)
		if err != nil {
			return nil, err
		}
		if c == nil {
			break
		}
		trail = append([]models.Category{*c}, trail...)
		current = c.ParentID
	}
	return trail, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, parent_id, image_key, meta_description, active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ParentID, c.ImageKey,
		c.MetaDescription, c.Active, c.SortOrder,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category. The slug is immutable and the
// parent assignment is rejected with ErrCategoryCycle if it would close
// a loop in the tree.
func (s *CategoryStore) Update(c *models.Category) error {
	cycle, err := s.wouldCycle(c.ID, c.ParentID)
	if err != nil {
		return err
	}
	if cycle {
		return ErrCategoryCycle
	}

	_, err = s.db.Exec(`
		UPDATE categories SET
			name = $1, description = $2, parent_id = $3, image_key = $4,
			meta_description = $5, active = $6, sort_order = $7, updated_at = NOW()
		WHERE id = $8
	`, c.Name, c.Description, c.ParentID, c.ImageKey,
		c.MetaDescription, c.Active, c.SortOrder, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// wouldCycle walks the ancestor chain from parentID and reports whether
// it reaches id. A nil parent can never cycle.
func (s *CategoryStore) wouldCycle(id uuid.UUID, parentID *uuid.UUID) (bool, error) {
	current := parentID
	for current != nil {
		if *current == id {
			return true, nil
		}
		var next *uuid.UUID
		err := s.db.QueryRow(`SELECT parent_id FROM categories WHERE id = $1`, *current).Scan(&next)
		if err == sql.ErrNoRows {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("walk category ancestors: %w", err)
		}
		current = next
	}
	return false, nil
}

// Delete removes a category and, through ON DELETE CASCADE, its whole
// subtree. Posts referencing any deleted category get their category
// nulled (ON DELETE SET NULL), not removed.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
