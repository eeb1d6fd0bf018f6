package marksnap

import "errors"

// Sentinel errors for library operations.
var (
	ErrExportInProgress = errors.New("an export is already in progress")
	ErrBrowserConnect   = errors.New("failed to connect to browser")
	ErrPageCreate       = errors.New("failed to create browser page")
	ErrPageLoad         = errors.New("failed to load page")
	ErrRasterize        = errors.New("failed to rasterize surface")
	ErrSinkWrite        = errors.New("failed to save image")

	// Canvas validation errors.
	ErrInvalidCanvasMode = errors.New("invalid canvas mode")
	ErrInvalidPixelRatio = errors.New("invalid pixel ratio")

	// Theme errors.
	ErrPresetNotFound = errors.New("theme preset not found")
	ErrThemeNotFound  = errors.New("theme not found")

	// Asset loading errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrSurfaceTemplate  = errors.New("surface template unavailable")

	// Enhancement errors.
	ErrMissingAPIKey = errors.New("missing Gemini API key")
	ErrEnhance       = errors.New("text enhancement failed")
)
