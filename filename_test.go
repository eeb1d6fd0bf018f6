package marksnap

import (
	"strings"
	"testing"
	"time"
)

func TestBaseFilename(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1700000000123)

	tests := []struct {
		name     string
		segments []string
		want     string
	}{
		{name: "heading in first segment", segments: []string{"# My Title\nbody", "second"}, want: "my_title"},
		{name: "punctuation replaced", segments: []string{"# Part 2: Code & Lists"}, want: "part_2__code___lists"},
		{name: "heading not on first line", segments: []string{"intro\n# Later"}, want: "later"},
		{name: "only first segment counts", segments: []string{"no heading", "# Second"}, want: "marksnap-1700000000123"},
		{name: "level two ignored", segments: []string{"## Sub"}, want: "marksnap-1700000000123"},
		{name: "no segments", segments: nil, want: "marksnap-1700000000123"},
		{name: "non-ascii becomes underscore", segments: []string{"# Café"}, want: "caf_"},
		{name: "truncated to 50", segments: []string{"# " + strings.Repeat("Ab", 40)}, want: strings.Repeat("ab", 25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := BaseFilename(tt.segments, now); got != tt.want {
				t.Errorf("BaseFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename_Charset(t *testing.T) {
	t.Parallel()

	got := SanitizeFilename("Héllo / Wörld! <2024> 🚀")
	for _, r := range got {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_') {
			t.Fatalf("SanitizeFilename() = %q contains %q", got, r)
		}
	}
	if len(got) > 50 {
		t.Errorf("SanitizeFilename() length = %d, want <= 50", len(got))
	}
}

func TestSegmentFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		i, n int
		want string
	}{
		{i: 0, n: 1, want: "intro.png"},
		{i: 0, n: 3, want: "intro-1.png"},
		{i: 2, n: 3, want: "intro-3.png"},
	}

	for _, tt := range tests {
		if got := SegmentFilename("intro", tt.i, tt.n); got != tt.want {
			t.Errorf("SegmentFilename(intro, %d, %d) = %q, want %q", tt.i, tt.n, got, tt.want)
		}
	}
}
