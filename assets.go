package marksnap

import (
	"errors"
	"fmt"

	"github.com/alnah/go-marksnap/internal/assets"
)

// AssetLoader loads theme stylesheets and lists the themes it knows about.
//
// NewAssetLoader returns a filesystem-backed loader with fallback to the
// embedded presets. Implement this interface for other backends.
type AssetLoader interface {
	// LoadTheme loads a theme stylesheet by name (without .css extension).
	// Returns ErrThemeNotFound if the theme doesn't exist.
	LoadTheme(name string) (string, error)

	// ListThemes returns the available theme names, sorted.
	ListThemes() ([]string, error)
}

// NewAssetLoader creates an AssetLoader for the given base path.
// If basePath is empty, only embedded themes are available.
//
// The basePath directory may contain:
//   - themes/{name}.css for additional or overriding themes
//   - styles/base.css to replace the surface layout
//   - templates/surface.html to replace the surface page
//
// Returns ErrInvalidAssetPath if basePath is set but not a readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &assetLoaderAdapter{resolver: resolver}, nil
}

// assetLoaderAdapter maps internal asset errors to public sentinels.
type assetLoaderAdapter struct {
	resolver *assets.AssetResolver
}

func (a *assetLoaderAdapter) LoadTheme(name string) (string, error) {
	content, err := a.resolver.LoadTheme(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
}

func (a *assetLoaderAdapter) ListThemes() ([]string, error) {
	names, err := a.resolver.ListThemes()
	if err != nil {
		return nil, convertAssetError(err)
	}
	return names, nil
}

// convertAssetError maps internal asset errors to public sentinel errors.
func convertAssetError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, assets.ErrThemeNotFound):
		return fmt.Errorf("%w: %v", ErrThemeNotFound, err)
	case errors.Is(err, assets.ErrInvalidBasePath):
		return fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	case errors.Is(err, assets.ErrStyleNotFound), errors.Is(err, assets.ErrTemplateNotFound):
		return fmt.Errorf("%w: %v", ErrSurfaceTemplate, err)
	default:
		return err
	}
}

// Compile-time interface check.
var _ AssetLoader = (*assetLoaderAdapter)(nil)
