package pipeline

import (
	"regexp"
	"strings"
)

var (
	// A delimiter line is 3 to 20 "=" characters, optionally followed by
	// horizontal whitespace. Shorter or longer runs stay literal text.
	delimiterLine = regexp.MustCompile(`^={3,20}[ \t\f\v\r]*$`)

	// First level-one ATX heading in a segment.
	headingPattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)
)

// IsDelimiterLine reports whether line (without its trailing "\n") separates segments.
func IsDelimiterLine(line string) bool {
	return delimiterLine.MatchString(line)
}

// SplitSegments splits a document on delimiter lines, discarding them.
// Pieces are trimmed and empty pieces are dropped, so consecutive delimiters
// never produce an empty segment. Order matches document order.
func SplitSegments(doc string) []string {
	if doc == "" {
		return nil
	}

	var (
		segments []string
		current  []string
	)
	flush := func() {
		if s := strings.TrimSpace(strings.Join(current, "\n")); s != "" {
			segments = append(segments, s)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(doc, "\n") {
		if IsDelimiterLine(line) {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return segments
}

// FirstHeading returns the text of the first "# " heading in segment.
func FirstHeading(segment string) (string, bool) {
	m := headingPattern.FindStringSubmatch(segment)
	if m == nil {
		return "", false
	}
	text := strings.TrimRight(m[1], "\r")
	if text == "" {
		return "", false
	}
	return text, true
}
