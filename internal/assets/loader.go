package assets

// AssetLoader defines the contract for loading theme stylesheets, base
// stylesheets and surface templates.
type AssetLoader interface {
	// LoadTheme loads a theme stylesheet by name (without .css extension).
	// Returns ErrThemeNotFound if the theme doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTheme(name string) (string, error)

	// LoadStyle loads a base stylesheet by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)

	// ListThemes returns the names of all themes the loader can serve, sorted.
	ListThemes() ([]string, error)
}
