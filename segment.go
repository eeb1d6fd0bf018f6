package marksnap

import "github.com/alnah/go-marksnap/internal/pipeline"

// Split divides a document into segments on lines of 3 to 20 "=" characters
// (trailing whitespace allowed). Segments are trimmed, empty ones dropped,
// and document order is kept. An empty document has no segments.
func Split(doc string) []string {
	return pipeline.SplitSegments(doc)
}

// FirstHeading returns the text of the first level-one ATX heading in segment.
func FirstHeading(segment string) (string, bool) {
	return pipeline.FirstHeading(segment)
}
