package assets

// Names of the built-in assets every surface is rendered with.
const (
	DefaultThemeName    = "github-light"
	BaseStyleName       = "base"
	SurfaceTemplateName = "surface"
)

var defaultLoader = NewEmbeddedLoader()

// LoadTheme loads a theme stylesheet by name using the default embedded loader.
func LoadTheme(name string) (string, error) {
	return defaultLoader.LoadTheme(name)
}

// LoadStyle loads a base stylesheet by name using the default embedded loader.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads an HTML template by name using the default embedded loader.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// ListThemes lists the embedded theme names.
func ListThemes() ([]string, error) {
	return defaultLoader.ListThemes()
}
