package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/alnah/go-marksnap"
	"github.com/alnah/go-marksnap/internal/config"
	"github.com/alnah/go-marksnap/internal/hints"
	"github.com/alnah/go-marksnap/internal/store"
	flag "github.com/spf13/pflag"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrNoInput            = errors.New("no input specified")
	ErrReadMarkdown       = errors.New("failed to read markdown file")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// usageError tags flag parsing errors for exit code mapping.
// flag.ErrHelp passes through so that -h exits cleanly.
func usageError(err error) error {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// newLogger builds the CLI logger on w: Info by default, Debug with
// --verbose, Error with --quiet.
func newLogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// lockedWriter serializes writes from concurrent workers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// loadConfig loads the config named by --config or MARKSNAP_CONFIG, then
// fills empty fields from the environment.
func loadConfig(f commonFlags) (*config.Config, error) {
	env := loadEnvConfig()

	name := f.config
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	if f.store != "" {
		cfg.Store.Path = f.store
	}
	return cfg, nil
}

// mergeRenderFlags applies canvas and theme flags to cfg (CLI wins).
func mergeRenderFlags(f renderFlags, cfg *config.Config) {
	setFlag(&cfg.Canvas.Mode, f.canvas)
	setFlag(&cfg.Theme.Name, f.theme)
	setFlag(&cfg.Assets.BasePath, f.assetPath)
	if f.width > 0 {
		cfg.Canvas.Width = f.width
	}
}

// mergeTuningFlags applies export pipeline flags to cfg (CLI wins).
func mergeTuningFlags(f tuningFlags, cfg *config.Config) {
	setFlag(&cfg.Export.Timeout, f.timeout)
	setFlag(&cfg.Export.Delay, f.delay)
	if f.pixelRatio != 0 {
		cfg.Export.PixelRatio = f.pixelRatio
	}
}

// setFlag overwrites dst when the flag was given.
func setFlag(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// converterOptions translates cfg into converter options. Export failure
// messages go to w.
func converterOptions(cfg *config.Config, logger *slog.Logger, w io.Writer, observer marksnap.Observer) []marksnap.Option {
	opts := []marksnap.Option{
		marksnap.WithLogger(logger),
		marksnap.WithDelay(cfg.DelayDuration()),
		marksnap.WithTimeout(cfg.TimeoutDuration()),
		marksnap.WithNotifier(marksnap.NotifierFunc(func(msg string) {
			fmt.Fprintln(w, msg)
		})),
	}
	if cfg.Export.PixelRatio > 0 {
		opts = append(opts, marksnap.WithPixelRatio(cfg.Export.PixelRatio))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, marksnap.WithAssetPath(cfg.Assets.BasePath))
	}
	if observer != nil {
		opts = append(opts, marksnap.WithObserver(observer))
	}
	return opts
}

// canvasMode returns the configured mode, or the default when unset.
func canvasMode(cfg *config.Config) (marksnap.CanvasMode, error) {
	if cfg.Canvas.Mode == "" {
		return marksnap.DefaultCanvasMode, nil
	}
	return marksnap.ParseCanvasMode(cfg.Canvas.Mode)
}

// resolveTheme turns a theme reference into a theme config. Empty keeps
// the default theme.
func resolveTheme(ref, basePath string) (marksnap.ThemeConfig, error) {
	if ref == "" {
		return marksnap.ThemeConfig{}, nil
	}
	loader, err := marksnap.NewAssetLoader(basePath)
	if err != nil {
		return marksnap.ThemeConfig{}, err
	}
	css, err := marksnap.ResolveThemeInput(ref, loader)
	if err != nil {
		return marksnap.ThemeConfig{}, err
	}
	return marksnap.ThemeConfig{CustomCSS: css}, nil
}

// inputFromConfig builds converter input for a document using cfg's canvas
// and theme.
func inputFromConfig(markdown, sourceDir string, cfg *config.Config) (marksnap.Input, error) {
	mode, err := canvasMode(cfg)
	if err != nil {
		return marksnap.Input{}, err
	}
	theme, err := resolveTheme(cfg.Theme.Name, cfg.Assets.BasePath)
	if err != nil {
		return marksnap.Input{}, err
	}
	return marksnap.Input{
		Markdown:    markdown,
		SourceDir:   sourceDir,
		Mode:        mode,
		CustomWidth: cfg.Canvas.Width,
		Theme:       theme,
	}, nil
}

// applyRenderOverrides lets explicit flags override the stored session
// settings for one run, without persisting them.
func applyRenderOverrides(input *marksnap.Input, f renderFlags, basePath string) error {
	if f.canvas != "" {
		mode, err := marksnap.ParseCanvasMode(f.canvas)
		if err != nil {
			return err
		}
		input.Mode = mode
	}
	if f.width > 0 {
		input.CustomWidth = f.width
	}
	if f.theme != "" {
		theme, err := resolveTheme(f.theme, basePath)
		if err != nil {
			return err
		}
		input.Theme = theme
	}
	return nil
}

// openSession opens the store and hydrates a session from it. The returned
// func closes the store.
func openSession(ctx context.Context, cfg *config.Config, env *Environment, logger *slog.Logger) (*marksnap.Session, func(), error) {
	path := cfg.Store.Path
	if path == "" {
		path = config.DefaultStorePath()
	}

	st, err := env.OpenStore(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening session store %s: %w", path, err)
	}

	sess := marksnap.NewSession(st, logger)
	sess.Hydrate(ctx)
	logger.Debug("session hydrated", "store", path, "segments", len(sess.Segments()))

	return sess, func() { _ = st.Close() }, nil
}

// readMarkdown reads a document from path, or stdin when path is "-".
func readMarkdown(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("%w: stdin: %v", ErrReadMarkdown, err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}
	return string(data), nil
}

// sourceDirOf returns the absolute directory of path, for relative images.
func sourceDirOf(path string) string {
	if path == "" || path == "-" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Dir(path)
	}
	return filepath.Dir(abs)
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, marksnap.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(userConfigCandidates())
	case errors.Is(err, store.ErrOpen):
		return hints.ForStoreOpen("")
	case errors.Is(err, marksnap.ErrThemeNotFound), errors.Is(err, marksnap.ErrPresetNotFound):
		return hints.ForThemeNotFound(presetIDs())
	case errors.Is(err, marksnap.ErrMissingAPIKey):
		return hints.ForMissingAPIKey()
	case errors.Is(err, marksnap.ErrExportInProgress):
		return hints.ForBusy()
	case errors.Is(err, marksnap.ErrSinkWrite):
		return hints.ForOutputDirectory()
	}
	return ""
}

// userConfigCandidates lists the default config location in the user dir.
func userConfigCandidates() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, config.AppName, config.AppName+".yaml")}
}

// presetIDs lists the built-in preset IDs in catalog order.
func presetIDs() []string {
	presets := marksnap.Presets()
	ids := make([]string, 0, len(presets))
	for _, p := range presets {
		ids = append(ids, p.ID)
	}
	return ids
}
