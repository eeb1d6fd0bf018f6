package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks that an asset name is safe to use as a file stem.
// Names must be non-empty and free of path separators and dots.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
