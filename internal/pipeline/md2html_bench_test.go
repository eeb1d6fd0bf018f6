//go:build bench

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// BenchmarkSplitAndRender measures splitting a document and rendering every segment.
func BenchmarkSplitAndRender(b *testing.B) {
	converter := NewGoldmarkConverter()
	ctx := context.Background()

	for _, n := range []int{1, 10, 50} {
		doc := generateSegmentedMarkdown(n)
		b.Run(fmt.Sprintf("segments_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				for _, seg := range SplitSegments(doc) {
					if _, err := converter.ToHTML(ctx, seg); err != nil {
						b.Fatal(err)
					}
				}
			}
		})
	}
}

func generateSegmentedMarkdown(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString("\n=====\n")
		}
		fmt.Fprintf(&sb, "# Part %d\n\nSome **bold** text.\n\n```go\nfmt.Println(%d)\n```\n\n| a | b |\n|---|---|\n| 1 | 2 |\n", i, i)
	}
	return sb.String()
}
