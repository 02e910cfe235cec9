// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vistapress/internal/middleware"
	"vistapress/internal/models"
	"vistapress/internal/slug"
	"vistapress/internal/storage"
	"vistapress/internal/store"
)

const (
	maxPhotoSize = 10 << 20  // 10 MiB
	maxVideoSize = 500 << 20 // 500 MiB

	listingsPerPage = 9
)

// photoTypes are the accepted photo upload content types.
var photoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// videoTypes are the accepted walkthrough video content types.
var videoTypes = map[string]bool{
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
}

// Listings groups the real-estate listing handlers, public and staff.
// storageClient may be nil when S3 is not configured; media endpoints
// then answer 503 while the rest of the listing API keeps working.
type Listings struct {
	listings      *store.ListingStore
	storageClient *storage.Client
}

// NewListings creates the listings handler group.
func NewListings(listings *store.ListingStore, storageClient *storage.Client) *Listings {
	return &Listings{listings: listings, storageClient: storageClient}
}

// resolveURLs fills the media URLs from storage keys.
func (h *Listings) resolveURLs(l *models.Listing) {
	if h.storageClient == nil {
		return
	}
	for i := range l.Photos {
		l.Photos[i].URL = h.storageClient.FileURL(l.Photos[i].StorageKey)
	}
	for i := range l.Videos {
		l.Videos[i].URL = h.storageClient.FileURL(l.Videos[i].StorageKey)
	}
}

// Search serves one page of published listings matched by the query
// parameters: ?q=, ?city=, ?bedrooms=, ?max_price=, ?page=.
func (h *Listings) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	bedrooms, _ := strconv.Atoi(q.Get("bedrooms"))
	maxPrice, _ := strconv.ParseInt(q.Get("max_price"), 10, 64)

	filters := store.ListingFilters{
		Keyword:  q.Get("q"),
		City:     q.Get("city"),
		Bedrooms: bedrooms,
		MaxPrice: maxPrice,
	}

	listings, total, err := h.listings.Search(filters, page, listingsPerPage)
	if err != nil {
		serverError(w, "search listings failed", err)
		return
	}
	for i := range listings {
		h.resolveURLs(&listings[i])
	}

	totalPages := (total + listingsPerPage - 1) / listingsPerPage
	if totalPages < 1 {
		totalPages = 1
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"listings":    listings,
		"total":       total,
		"page":        page,
		"per_page":    listingsPerPage,
		"total_pages": totalPages,
	})
}

// Get serves one published listing by slug.
func (h *Listings) Get(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.FindPublishedBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		serverError(w, "find listing failed", err)
		return
	}
	if listing == nil {
		respondError(w, http.StatusNotFound, "listing not found")
		return
	}
	h.resolveURLs(listing)
	respondJSON(w, http.StatusOK, listing)
}

// --- Staff management ---

type listingRequest struct {
	Title       string  `json:"title"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	Zipcode     string  `json:"zipcode"`
	Description string  `json:"description"`
	Price       int64   `json:"price"`
	Bedrooms    int     `json:"bedrooms"`
	Bathrooms   float64 `json:"bathrooms"`
	Garage      int     `json:"garage"`
	Sqft        int     `json:"sqft"`
	LotSize     float64 `json:"lot_size"`
	Published   *bool   `json:"published"`
}

func (req *listingRequest) apply(l *models.Listing) {
	l.Title = req.Title
	l.Address = req.Address
	l.City = req.City
	l.Zipcode = req.Zipcode
	l.Description = req.Description
	l.Price = req.Price
	l.Bedrooms = req.Bedrooms
	l.Bathrooms = req.Bathrooms
	l.Garage = req.Garage
	l.Sqft = req.Sqft
	l.LotSize = req.LotSize
	l.Published = req.Published == nil || *req.Published
}

// Create registers a new listing under the signed-in staff member.
func (h *Listings) Create(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateListing(req.Title, req.Address, req.City, req.Zipcode,
		req.Price, req.Bedrooms, req.Bathrooms, req.Sqft); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	listingSlug, err := slug.Unique(slug.Generate(req.Title), h.listings.SlugExists)
	if err != nil {
		serverError(w, "slug assignment failed", err)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	listing := &models.Listing{RealtorID: sess.UserID, Slug: listingSlug}
	req.apply(listing)

	created, err := h.listings.Create(listing)
	if err != nil {
		serverError(w, "create listing failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Update modifies a listing. The slug never changes.
func (h *Listings) Update(w http.ResponseWriter, r *http.Request) {
	listing, ok := h.load(w, r)
	if !ok {
		return
	}

	var req listingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateListing(req.Title, req.Address, req.City, req.Zipcode,
		req.Price, req.Bedrooms, req.Bathrooms, req.Sqft); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	req.apply(listing)
	if err := h.listings.Update(listing); err != nil {
		serverError(w, "update listing failed", err)
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

// ListAll returns every listing for the management screen.
func (h *Listings) ListAll(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listings.ListAll()
	if err != nil {
		serverError(w, "list listings failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"listings": listings})
}

// Delete removes a listing after deleting its stored media objects.
func (h *Listings) Delete(w http.ResponseWriter, r *http.Request) {
	listing, ok := h.load(w, r)
	if !ok {
		return
	}

	if h.storageClient != nil {
		keys, err := h.listings.MediaKeys(listing.ID)
		if err != nil {
			serverError(w, "listing media keys failed", err)
			return
		}
		for _, key := range keys {
			// A failed object delete should not block the row delete;
			// orphans are cheaper than an undeletable listing.
			if err := h.storageClient.Delete(r.Context(), key); err != nil {
				slogWarnDelete(key, err)
			}
		}
	}

	if err := h.listings.Delete(listing.ID); err != nil {
		serverError(w, "delete listing failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// UploadPhoto accepts a multipart photo upload for a listing.
func (h *Listings) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	listing, ok := h.load(w, r)
	if !ok {
		return
	}
	if h.storageClient == nil {
		respondError(w, http.StatusServiceUnavailable, "media storage not configured")
		return
	}

	file, header, ok := h.openUpload(w, r, maxPhotoSize, photoTypes)
	if !ok {
		return
	}
	defer file.Close()

	sortOrder, _ := strconv.Atoi(r.FormValue("sort_order"))
	contentType := header.Header.Get("Content-Type")
	key := "listings/" + listing.ID.String() + "/photos/" + uuid.NewString() + extensionFor(contentType)

	if err := h.storageClient.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		serverError(w, "photo upload failed", err)
		return
	}

	photo := &models.ListingPhoto{
		ListingID:   listing.ID,
		StorageKey:  key,
		ContentType: contentType,
		SortOrder:   sortOrder,
	}
	if err := h.listings.AddPhoto(photo); err != nil {
		serverError(w, "record photo failed", err)
		return
	}
	photo.URL = h.storageClient.FileURL(key)
	respondJSON(w, http.StatusCreated, photo)
}

// UploadVideo accepts a multipart walkthrough video upload for a listing.
func (h *Listings) UploadVideo(w http.ResponseWriter, r *http.Request) {
	listing, ok := h.load(w, r)
	if !ok {
		return
	}
	if h.storageClient == nil {
		respondError(w, http.StatusServiceUnavailable, "media storage not configured")
		return
	}

	file, header, ok := h.openUpload(w, r, maxVideoSize, videoTypes)
	if !ok {
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	key := "listings/" + listing.ID.String() + "/videos/" + uuid.NewString() + extensionFor(contentType)

	if err := h.storageClient.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		serverError(w, "video upload failed", err)
		return
	}

	video := &models.ListingVideo{
		ListingID:   listing.ID,
		StorageKey:  key,
		ContentType: contentType,
		SizeBytes:   header.Size,
	}
	if err := h.listings.AddVideo(video); err != nil {
		serverError(w, "record video failed", err)
		return
	}
	video.URL = h.storageClient.FileURL(key)
	respondJSON(w, http.StatusCreated, video)
}

// DeletePhoto removes a photo row and its stored object.
func (h *Listings) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	h.deleteMedia(w, r, h.listings.DeletePhoto)
}

// DeleteVideo removes a video row and its stored object.
func (h *Listings) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	h.deleteMedia(w, r, h.listings.DeleteVideo)
}

func (h *Listings) deleteMedia(w http.ResponseWriter, r *http.Request, del func(uuid.UUID) (string, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "mediaID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid media id")
		return
	}

	key, err := del(id)
	if err != nil {
		serverError(w, "delete media failed", err)
		return
	}
	if key == "" {
		respondError(w, http.StatusNotFound, "media not found")
		return
	}
	if h.storageClient != nil {
		if err := h.storageClient.Delete(r.Context(), key); err != nil {
			slogWarnDelete(key, err)
		}
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Listings) load(w http.ResponseWriter, r *http.Request) (*models.Listing, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid listing id")
		return nil, false
	}
	listing, err := h.listings.FindByID(id)
	if err != nil {
		serverError(w, "find listing failed", err)
		return nil, false
	}
	if listing == nil {
		respondError(w, http.StatusNotFound, "listing not found")
		return nil, false
	}
	return listing, true
}

// openUpload parses the multipart form and validates the "file" part
// against the size cap and accepted content types.
func (h *Listings) openUpload(w http.ResponseWriter, r *http.Request, maxSize int64, accepted map[string]bool) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "upload too large or malformed")
		return nil, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return nil, nil, false
	}
	if header.Size > maxSize {
		file.Close()
		respondError(w, http.StatusRequestEntityTooLarge, "file too large")
		return nil, nil, false
	}
	if !accepted[header.Header.Get("Content-Type")] {
		file.Close()
		respondError(w, http.StatusUnsupportedMediaType, "unsupported content type")
		return nil, nil, false
	}
	return file, header, true
}

// extensionFor maps accepted content types to file extensions.
func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "video/quicktime":
		return ".mov"
	}
	return ""
}

func slogWarnDelete(key string, err error) {
	slog.Warn("storage object delete failed", "key", key, "error", err)
}
