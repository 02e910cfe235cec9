// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"vistapress/internal/models"
)

// ListingStore handles real-estate listing persistence and search.
type ListingStore struct {
	db *sql.DB
}

// NewListingStore creates a new ListingStore with the given database connection.
func NewListingStore(db *sql.DB) *ListingStore {
	return &ListingStore{db: db}
}

const listingColumns = `l.id, l.realtor_id, l.title, l.slug, l.address, l.city, l.zipcode,
	l.description, l.price, l.bedrooms, l.bathrooms, l.garage, l.sqft, l.lot_size,
	l.published, l.list_date, l.created_at, l.updated_at`

const listingSelect = `SELECT ` + listingColumns + `, u.display_name
FROM listings l
JOIN users u ON u.id = l.realtor_id`

func scanListing(scanner interface{ Scan(...any) error }) (*models.Listing, error) {
	var l models.Listing
	err := scanner.Scan(
		&l.ID, &l.RealtorID, &l.Title, &l.Slug, &l.Address, &l.City, &l.Zipcode,
		&l.Description, &l.Price, &l.Bedrooms, &l.Bathrooms, &l.Garage, &l.Sqft, &l.LotSize,
		&l.Published, &l.ListDate, &l.CreatedAt, &l.UpdatedAt,
		&l.RealtorName,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// SlugExists reports whether any listing already uses the given slug.
func (s *ListingStore) SlugExists(listingSlug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM listings WHERE slug = $1)`, listingSlug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("listing slug exists: %w", err)
	}
	return exists, nil
}

// Create inserts a new listing and returns it with generated fields.
func (s *ListingStore) Create(l *models.Listing) (*models.Listing, error) {
	err := s.db.QueryRow(`
		INSERT INTO listings (realtor_id, title, slug, address, city, zipcode,
			description, price, bedrooms, bathrooms, garage, sqft, lot_size, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, list_date, created_at, updated_at
	`, l.RealtorID, l.Title, l.Slug, l.Address, l.City, l.Zipcode,
		l.Description, l.Price, l.Bedrooms, l.Bathrooms, l.Garage, l.Sqft, l.LotSize, l.Published,
	).Scan(&l.ID, &l.ListDate, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	return l, nil
}

// Update modifies an existing listing. The slug never changes.
func (s *ListingStore) Update(l *models.Listing) error {
	_, err := s.db.Exec(`
		UPDATE listings SET
			title = $1, address = $2, city = $3, zipcode = $4, description = $5,
			price = $6, bedrooms = $7, bathrooms = $8, garage = $9, sqft = $10,
			lot_size = $11, published = $12, updated_at = NOW()
		WHERE id = $13
	`, l.Title, l.Address, l.City, l.Zipcode, l.Description,
		l.Price, l.Bedrooms, l.Bathrooms, l.Garage, l.Sqft,
		l.LotSize, l.Published, l.ID)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	return nil
}

// Delete removes a listing. Photo and video rows cascade; the caller is
// responsible for deleting the objects from storage first.
func (s *ListingStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	return nil
}

// FindByID retrieves a listing by ID regardless of published state, with
// media attached. Returns nil if not found.
func (s *ListingStore) FindByID(id uuid.UUID) (*models.Listing, error) {
	row := s.db.QueryRow(listingSelect+` WHERE l.id = $1`, id)
	l, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find listing by id: %w", err)
	}
	if err := s.attachMedia(l); err != nil {
		return nil, err
	}
	return l, nil
}

// FindPublishedBySlug retrieves a published listing by slug, with media
// attached. Returns nil if absent or unpublished.
func (s *ListingStore) FindPublishedBySlug(listingSlug string) (*models.Listing, error) {
	row := s.db.QueryRow(listingSelect+` WHERE l.slug = $1 AND l.published`, listingSlug)
	l, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find listing by slug: %w", err)
	}
	if err := s.attachMedia(l); err != nil {
		return nil, err
	}
	return l, nil
}

// ListingFilters narrows a listing search. Zero values mean no bound.
type ListingFilters struct {
	Keyword  string
	City     string
	Bedrooms int
	MaxPrice int64
}

// Search returns one page of published listings matching the filters,
// newest list date first, plus the total match count. page is 1-based.
func (s *ListingStore) Search(f ListingFilters, page, perPage int) ([]models.Listing, int, error) {
	if page < 1 {
		page = 1
	}

	var args []any
	var b strings.Builder
	b.WriteString(` WHERE l.published`)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Keyword != "" {
		n := arg("%" + f.Keyword + "%")
		b.WriteString(` AND (l.title ILIKE ` + n + ` OR l.description ILIKE ` + n + ` OR l.address ILIKE ` + n + `)`)
	}
	if f.City != "" {
		b.WriteString(` AND l.city ILIKE ` + arg(f.City))
	}
	if f.Bedrooms > 0 {
		b.WriteString(` AND l.bedrooms >= ` + arg(f.Bedrooms))
	}
	if f.MaxPrice > 0 {
		b.WriteString(` AND l.price <= ` + arg(f.MaxPrice))
	}
	where := b.String()

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM listings l`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	query := listingSelect + where +
		fmt.Sprintf(` ORDER BY l.list_date DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search listings: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range listings {
		if err := s.attachMedia(&listings[i]); err != nil {
			return nil, 0, err
		}
	}
	return listings, total, nil
}

// ListAll returns every listing for the admin panel, newest first.
func (s *ListingStore) ListAll() ([]models.Listing, error) {
	rows, err := s.db.Query(listingSelect + ` ORDER BY l.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

// AddPhoto attaches a stored photo to a listing.
func (s *ListingStore) AddPhoto(p *models.ListingPhoto) error {
	err := s.db.QueryRow(`
		INSERT INTO listing_photos (listing_id, storage_key, content_type, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, p.ListingID, p.StorageKey, p.ContentType, p.SortOrder).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("add listing photo: %w", err)
	}
	return nil
}

// DeletePhoto removes a photo row and returns its storage key so the
// caller can delete the object.
func (s *ListingStore) DeletePhoto(id uuid.UUID) (string, error) {
	var key string
	err := s.db.QueryRow(`DELETE FROM listing_photos WHERE id = $1 RETURNING storage_key`, id).Scan(&key)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("delete listing photo: %w", err)
	}
	return key, nil
}

// AddVideo attaches an uploaded video to a listing.
func (s *ListingStore) AddVideo(v *models.ListingVideo) error {
	err := s.db.QueryRow(`
		INSERT INTO listing_videos (listing_id, storage_key, content_type, size_bytes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, v.ListingID, v.StorageKey, v.ContentType, v.SizeBytes).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("add listing video: %w", err)
	}
	return nil
}

// DeleteVideo removes a video row and returns its storage key so the
// caller can delete the object.
func (s *ListingStore) DeleteVideo(id uuid.UUID) (string, error) {
	var key string
	err := s.db.QueryRow(`DELETE FROM listing_videos WHERE id = $1 RETURNING storage_key`, id).Scan(&key)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("delete listing video: %w", err)
	}
	return key, nil
}

// MediaKeys returns every storage key attached to a listing, for cleanup
// before the listing itself is deleted.
func (s *ListingStore) MediaKeys(listingID uuid.UUID) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT storage_key FROM listing_photos WHERE listing_id = $1
		UNION ALL
		SELECT storage_key FROM listing_videos WHERE listing_id = $1
	`, listingID)
	if err != nil {
		return nil, fmt.Errorf("listing media keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan media key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (s *ListingStore) attachMedia(l *models.Listing) error {
	rows, err := s.db.Query(`
		SELECT id, listing_id, storage_key, content_type, sort_order, created_at
		FROM listing_photos WHERE listing_id = $1 ORDER BY sort_order, created_at
	`, l.ID)
	if err != nil {
		return fmt.Errorf("load listing photos: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p models.ListingPhoto
		if err := rows.Scan(&p.ID, &p.ListingID, &p.StorageKey, &p.ContentType, &p.SortOrder, &p.CreatedAt); err != nil {
			return fmt.Errorf("scan listing photo: %w", err)
		}
		l.Photos = append(l.Photos, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	vrows, err := s.db.Query(`
		SELECT id, listing_id, storage_key, content_type, size_bytes, created_at
		FROM listing_videos WHERE listing_id = $1 ORDER BY created_at
	`, l.ID)
	if err != nil {
		return fmt.Errorf("load listing videos: %w", err)
	}
	defer vrows.Close()
	for vrows.Next() {
		var v models.ListingVideo
		if err := vrows.Scan(&v.ID, &v.ListingID, &v.StorageKey, &v.ContentType, &v.SizeBytes, &v.CreatedAt); err != nil {
			return fmt.Errorf("scan listing video: %w", err)
		}
		l.Videos = append(l.Videos, v)
	}
	return vrows.Err()
}
