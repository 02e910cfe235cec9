// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "basic formatting",
			source: "# Heading\n\nSome **bold** text.",
			want:   []string{"<h1", "Heading</h1>", "<strong>bold</strong>"},
		},
		{
			name:   "gfm table",
			source: "| a | b |\n|---|---|\n| 1 | 2 |",
			want:   []string{"<table>", "<td>1</td>"},
		},
		{
			name:   "auto heading id",
			source: "## Getting Started",
			want:   []string{`id="getting-started"`},
		},
		{
			name:   "raw html passes through",
			source: `<div class="embed">video</div>`,
			want:   []string{`<div class="embed">video</div>`},
		},
		{
			name:   "fenced code is highlighted",
			source: "```go\nfunc main() {}\n```",
			want:   []string{"<pre", "main"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.source)
			if err != nil {
				t.Fatalf("ToHTML: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
		})
	}
}
