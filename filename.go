package marksnap

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/alnah/go-marksnap/internal/pipeline"
)

// maxBaseFilenameLen caps the heading-derived part of exported filenames.
const maxBaseFilenameLen = 50

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9]`)

// BaseFilename picks the stem shared by all files of one export run.
// The first segment's level-one heading wins when present; otherwise the
// stem is "marksnap-<unix millis>".
func BaseFilename(segments []string, now time.Time) string {
	if len(segments) > 0 {
		if heading, ok := pipeline.FirstHeading(segments[0]); ok {
			if name := SanitizeFilename(heading); name != "" {
				return name
			}
		}
	}
	return fmt.Sprintf("marksnap-%d", now.UnixMilli())
}

// SanitizeFilename replaces every non-alphanumeric ASCII character with an
// underscore, lowercases the result, and truncates it.
func SanitizeFilename(s string) string {
	name := strings.ToLower(unsafeFilenameChars.ReplaceAllString(s, "_"))
	if len(name) > maxBaseFilenameLen {
		name = name[:maxBaseFilenameLen]
	}
	return name
}

// SegmentFilename names the i-th (0-based) of n images.
func SegmentFilename(base string, i, n int) string {
	if n > 1 {
		return fmt.Sprintf("%s-%d.png", base, i+1)
	}
	return base + ".png"
}
