package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	t.Parallel()

	converter := NewGoldmarkConverter()

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "heading gets an id",
			input:        "# Part 1",
			wantContains: []string{`<h1 id="part-1">Part 1</h1>`},
		},
		{
			name:         "returns a fragment",
			input:        "text",
			wantExcludes: []string{"<html", "<body"},
		},
		{
			name:         "GFM table",
			input:        "| a | b |\n| --- | --- |\n| 1 | 2 |",
			wantContains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:         "GFM strikethrough",
			input:        "~~gone~~",
			wantContains: []string{"<del>gone</del>"},
		},
		{
			name:         "task list",
			input:        "- [x] done\n- [ ] todo",
			wantContains: []string{`type="checkbox"`, "checked"},
		},
		{
			name:         "fenced code uses chroma classes",
			input:        "```go\nfunc main() {}\n```",
			wantContains: []string{`class="chroma"`},
		},
		{
			name:         "raw HTML is not passed through",
			input:        "<script>alert(1)</script>",
			wantExcludes: []string{"<script>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := converter.ToHTML(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("ToHTML(%q) = %q, want to contain %q", tt.input, got, want)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("ToHTML(%q) = %q, should not contain %q", tt.input, got, exclude)
				}
			}
		})
	}
}

func TestGoldmarkConverter_ToHTML_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkConverter().ToHTML(ctx, "# Hello")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ToHTML() error = %v, want context.Canceled", err)
	}
}

func TestHighlightCSS(t *testing.T) {
	t.Parallel()

	for _, name := range []string{DefaultHighlightStyle, "no-such-style"} {
		css, err := HighlightCSS(name)
		if err != nil {
			t.Fatalf("HighlightCSS(%q) error = %v", name, err)
		}
		if !strings.Contains(css, ".chroma") {
			t.Errorf("HighlightCSS(%q) should contain .chroma rules", name)
		}
	}
}

func TestCommonMarkPreprocessor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "CRLF normalized", input: "a\r\nb", want: "a\nb"},
		{name: "bare CR normalized", input: "a\rb", want: "a\nb"},
		{name: "blank lines kept", input: "a\n\n\n\nb", want: "a\n\n\n\nb"},
		{name: "code block blank lines kept", input: "```\nline1\n\n\n\nline2\n```", want: "```\nline1\n\n\n\nline2\n```"},
		{name: "plain text unchanged", input: "a\n\nb", want: "a\n\nb"},
	}

	p := &CommonMarkPreprocessor{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := p.PreprocessMarkdown(context.Background(), tt.input); got != tt.want {
				t.Errorf("PreprocessMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
