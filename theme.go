package marksnap

import (
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-marksnap/internal/assets"
	"github.com/alnah/go-marksnap/internal/fileutil"
)

// ThemeConfig is the user-editable theme state.
// An empty CustomCSS means the default stylesheet applies.
type ThemeConfig struct {
	CustomCSS string `json:"customCss"`
}

// ThemePreset is one entry of the built-in theme catalog.
type ThemePreset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	CSS  string `json:"css"`
}

// presetCatalog lists preset IDs and display names in display order.
// The CSS for each lives in the embedded theme assets.
var presetCatalog = []struct{ id, name string }{
	{"github-light", "GitHub Light"},
	{"github-dark", "GitHub Dark"},
	{"dracula", "Dracula"},
	{"notion-light", "Notion Style"},
	{"solarized-light", "Solarized Light"},
	{"elegant", "Elegant Serif"},
	{"cyberpunk", "Cyberpunk"},
}

// DefaultPresetID names the preset used when no custom CSS is set.
const DefaultPresetID = assets.DefaultThemeName

// Presets returns the built-in theme catalog in display order.
func Presets() []ThemePreset {
	presets := make([]ThemePreset, 0, len(presetCatalog))
	for _, p := range presetCatalog {
		css, err := assets.LoadTheme(p.id)
		if err != nil {
			// Catalog and embedded files ship together.
			panic(fmt.Sprintf("embedded theme %q missing: %v", p.id, err))
		}
		presets = append(presets, ThemePreset{ID: p.id, Name: p.name, CSS: strings.TrimRight(css, "\n")})
	}
	return presets
}

// LookupPreset finds a preset by ID.
func LookupPreset(id string) (ThemePreset, error) {
	for _, p := range Presets() {
		if p.ID == id {
			return p, nil
		}
	}
	return ThemePreset{}, fmt.Errorf("%w: %q", ErrPresetNotFound, id)
}

// DefaultThemeCSS returns the stylesheet applied when no custom CSS is set.
func DefaultThemeCSS() string {
	p, err := LookupPreset(DefaultPresetID)
	if err != nil {
		panic(err)
	}
	return p.CSS
}

// ResolveThemeCSS returns the effective theme stylesheet: the custom CSS
// verbatim when it has any non-whitespace content, the default otherwise.
func ResolveThemeCSS(cfg ThemeConfig) string {
	if strings.TrimSpace(cfg.CustomCSS) != "" {
		return cfg.CustomCSS
	}
	return DefaultThemeCSS()
}

// WithPreset returns a config whose CustomCSS is replaced by the preset CSS.
// The previous content is discarded, never merged.
func (c ThemeConfig) WithPreset(id string) (ThemeConfig, error) {
	p, err := LookupPreset(id)
	if err != nil {
		return c, err
	}
	return ThemeConfig{CustomCSS: p.CSS}, nil
}

// ThemeLoader loads theme stylesheets by name.
type ThemeLoader interface {
	LoadTheme(name string) (string, error)
}

// ResolveThemeInput turns a user-supplied theme reference into CSS:
//   - CSS text (contains "{") is used as-is
//   - a path (contains a separator) is read from disk
//   - anything else is a theme name looked up through loader
//
// A nil loader uses the embedded themes only.
func ResolveThemeInput(input string, loader ThemeLoader) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", nil
	}

	// CSS text first: comments contain slashes.
	if fileutil.IsCSS(input) {
		return input, nil
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("loading theme file %q: %w", input, err)
		}
		return string(content), nil
	}

	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}
	css, err := loader.LoadTheme(input)
	if err != nil {
		return "", convertAssetError(fmt.Errorf("loading theme %q: %w", input, err))
	}
	return css, nil
}
