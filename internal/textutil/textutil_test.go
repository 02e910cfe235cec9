package textutil

import (
	"strings"
	"testing"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "no tags here", "no tags here"},
		{"simple tag", "<p>hello</p>", "hello"},
		{"nested tags", "<div><strong>bold</strong> text</div>", "bold text"},
		{"attributes", `<a href="https://example.com">link</a>`, "link"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripTags(tt.input); got != tt.want {
				t.Errorf("StripTags(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExcerptShortContent(t *testing.T) {
	got := Excerpt("<p>A short post.</p>")
	if got != "A short post." {
		t.Errorf("got %q", got)
	}
}

func TestExcerptTruncatesLongContent(t *testing.T) {
	long := strings.Repeat("word ", 100)
	got := Excerpt(long)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
	// 200 runes + "..."
	if len([]rune(got)) != 203 {
		t.Errorf("expected 203 runes, got %d", len([]rune(got)))
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		name  string
		words int
		want  int
	}{
		{"empty", 0, 0},
		{"few words", 10, 1},
		{"one minute", 200, 1},
		{"rounds up past half", 320, 2},
		{"five minutes", 1000, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := strings.TrimSpace(strings.Repeat("word ", tt.words))
			if got := ReadingTime(content); got != tt.want {
				t.Errorf("ReadingTime(%d words) = %d, want %d", tt.words, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 4); got != "abcd" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("", 5); got != "" {
		t.Errorf("got %q", got)
	}
}
