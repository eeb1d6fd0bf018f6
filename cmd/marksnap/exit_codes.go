package main

import (
	"errors"
	"os"

	"github.com/alnah/go-marksnap"
	"github.com/alnah/go-marksnap/internal/config"
	"github.com/alnah/go-marksnap/internal/store"
)

// Exit codes for the marksnap CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, store or sink errors
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, marksnap.ErrBrowserConnect) ||
		errors.Is(err, marksnap.ErrPageCreate) ||
		errors.Is(err, marksnap.ErrPageLoad) ||
		errors.Is(err, marksnap.ErrRasterize) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, marksnap.ErrInvalidCanvasMode) ||
		errors.Is(err, marksnap.ErrInvalidPixelRatio) ||
		errors.Is(err, marksnap.ErrPresetNotFound) ||
		errors.Is(err, marksnap.ErrThemeNotFound) ||
		errors.Is(err, marksnap.ErrInvalidAssetPath) ||
		errors.Is(err, marksnap.ErrSurfaceTemplate) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, marksnap.ErrSinkWrite) ||
		errors.Is(err, store.ErrOpen) {
		return ExitIO
	}

	return ExitGeneral
}
