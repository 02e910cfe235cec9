package handlers

import (
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Validation limits for post, comment, and listing fields.
const (
	maxTitleLen    = 300
	maxBodyLen     = 100_000
	maxExcerptLen  = 1_000
	maxMetaDescLen = 500
	maxNameLen     = 120
	maxEmailLen    = 254
	maxWebsiteLen  = 500
	maxCommentLen  = 10_000
	maxAddressLen  = 300
	maxCityLen     = 120
	maxZipcodeLen  = 20
)

// validatePost checks post form inputs and returns the first error found.
func validatePost(title, body string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if strings.TrimSpace(body) == "" {
		return "Body is required."
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "Body is too long (max 100,000 characters)."
	}
	return ""
}

// validateMetadata checks optional SEO metadata fields.
func validateMetadata(excerpt, metaDesc string) string {
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		return "Excerpt is too long (max 1,000 characters)."
	}
	if utf8.RuneCountInString(metaDesc) > maxMetaDescLen {
		return "Meta description is too long (max 500 characters)."
	}
	return ""
}

// validateCommentIdentity checks the guest fields of a comment form.
// The body length rule itself lives in the moderation gate.
func validateCommentIdentity(name, email, website string) string {
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 120 characters)."
	}
	if email != "" && !validEmail(email) {
		return "Email address looks invalid."
	}
	if website != "" && !validURL(website) {
		return "Website must be an http or https URL."
	}
	if utf8.RuneCountInString(website) > maxWebsiteLen {
		return "Website is too long (max 500 characters)."
	}
	return ""
}

// validateSubscription checks newsletter form inputs.
func validateSubscription(email, name string) string {
	if strings.TrimSpace(email) == "" {
		return "Email is required."
	}
	if !validEmail(email) {
		return "Email address looks invalid."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 120 characters)."
	}
	return ""
}

// validateListing checks listing form inputs and returns the first error found.
func validateListing(title, address, city, zipcode string, price int64, bedrooms int, bathrooms float64, sqft int) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if strings.TrimSpace(address) == "" || utf8.RuneCountInString(address) > maxAddressLen {
		return "Address is required (max 300 characters)."
	}
	if strings.TrimSpace(city) == "" || utf8.RuneCountInString(city) > maxCityLen {
		return "City is required (max 120 characters)."
	}
	if strings.TrimSpace(zipcode) == "" || utf8.RuneCountInString(zipcode) > maxZipcodeLen {
		return "Zipcode is required (max 20 characters)."
	}
	if price <= 0 {
		return "Price must be positive."
	}
	if bedrooms < 0 || bathrooms < 0 || sqft <= 0 {
		return "Bedrooms, bathrooms, and square footage must be sensible."
	}
	return ""
}

// validEmail accepts what net/mail parses as a single address.
func validEmail(email string) bool {
	if utf8.RuneCountInString(email) > maxEmailLen {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// validURL accepts absolute http/https URLs only.
func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
