// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package textutil provides derived-field helpers for post content:
// excerpt generation and reading-time estimation.
package textutil

import (
	"regexp"
	"strings"
)

// wordsPerMinute is the assumed reading speed for the reading-time estimate.
const wordsPerMinute = 200

// excerptLength is the maximum number of runes an auto-generated excerpt keeps.
const excerptLength = 200

var htmlTag = regexp.MustCompile(`<[^>]+>`)

// StripTags removes HTML/markup tags from the given text.
func StripTags(s string) string {
	return htmlTag.ReplaceAllString(s, "")
}

// Excerpt derives a short plain-text excerpt from the content body.
// Tags are stripped first; text longer than 200 runes is truncated with
// an ellipsis.
func Excerpt(content string) string {
	text := strings.TrimSpace(StripTags(content))
	runes := []rune(text)
	if len(runes) > excerptLength {
		return string(runes[:excerptLength]) + "..."
	}
	return text
}

// ReadingTime estimates reading time in minutes at 200 words per minute,
// rounded to the nearest minute with a minimum of 1 for non-empty content.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	minutes := (words + wordsPerMinute/2) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Truncate clips s to at most n runes. Used to bound request metadata
// (user agent, referer) before storage.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
