// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Listing is a real-estate listing managed alongside the blog.
type Listing struct {
	ID          uuid.UUID `json:"id"`
	RealtorID   uuid.UUID `json:"realtor_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Zipcode     string    `json:"zipcode"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   float64   `json:"bathrooms"`
	Garage      int       `json:"garage"`
	Sqft        int       `json:"sqft"`
	LotSize     float64   `json:"lot_size"`
	Published   bool      `json:"published"`
	ListDate    time.Time `json:"list_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual fields populated by store queries.
	RealtorName string         `json:"realtor_name,omitempty"`
	Photos      []ListingPhoto `json:"photos,omitempty"`
	Videos      []ListingVideo `json:"videos,omitempty"`
}

// ListingPhoto is a photo stored in object storage and attached to a
// listing. SortOrder 0 is the main photo.
type ListingPhoto struct {
	ID          uuid.UUID `json:"id"`
	ListingID   uuid.UUID `json:"listing_id"`
	StorageKey  string    `json:"storage_key"`
	ContentType string    `json:"content_type"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`

	// URL is resolved from the storage client at read time.
	URL string `json:"url,omitempty"`
}

// ListingVideo is an uploaded walkthrough video attached to a listing.
type ListingVideo struct {
	ID          uuid.UUID `json:"id"`
	ListingID   uuid.UUID `json:"listing_id"`
	StorageKey  string    `json:"storage_key"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`

	URL string `json:"url,omitempty"`
}
