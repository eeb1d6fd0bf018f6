// Package assets provides the stylesheets and HTML templates used to build
// snapshot surfaces.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in themes)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in theme presets (github-light,
// github-dark, dracula, notion-light, solarized-light, elegant, cyberpunk),
// the base surface stylesheet and the surface page template.
//
// FilesystemLoader lets users drop in extra themes or override built-in
// ones, with path traversal protection and symlink resolution.
//
// AssetResolver tries the custom FilesystemLoader first and falls back to
// EmbeddedLoader when the asset is not found there.
//
// # Directory Structure
//
//	{basePath}/
//	├── themes/
//	│   └── {name}.css      # theme stylesheets (e.g., dracula.css)
//	├── styles/
//	│   └── {name}.css      # base stylesheets (base.css)
//	└── templates/
//	    └── {name}.html     # surface templates (surface.html)
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
