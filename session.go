package marksnap

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// SessionState is a read-only copy of a session.
type SessionState struct {
	Markdown        string      `json:"markdown"`
	CanvasMode      CanvasMode  `json:"canvasMode"`
	CustomWidth     int         `json:"customWidth"`
	Theme           ThemeConfig `json:"themeConfig"`
	Width           CanvasWidth `json:"-"`
	SegmentCount    int         `json:"segmentCount"`
	Hydrated        bool        `json:"hydrated"`
	Exporting       bool        `json:"exporting"`
	ThemeEditorOpen bool        `json:"themeEditorOpen"`
}

// Session owns the editor state and keeps it in sync with a Store.
//
// Nothing is written until Hydrate has run, so defaults never overwrite
// stored values. Safe for concurrent use.
type Session struct {
	mu     sync.RWMutex
	store  Store
	logger *slog.Logger

	markdown        string
	mode            CanvasMode
	customWidth     int
	theme           ThemeConfig
	hydrated        bool
	exporting       bool
	themeEditorOpen bool
}

// NewSession creates a session with default state backed by store.
// A nil logger uses slog.Default().
func NewSession(store Store, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		store:       store,
		logger:      logger,
		markdown:    DefaultMarkdown,
		mode:        DefaultCanvasMode,
		customWidth: DefaultCustomWidth,
	}
}

// Hydrate loads persisted values. Each value replaces its default only if it
// is present and parseable; read and parse failures are logged and skipped.
// The session is marked hydrated either way.
func (s *Session) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.load(ctx, KeyContent); ok {
		s.markdown = v
	}

	if v, ok := s.load(ctx, KeyCanvasMode); ok {
		if mode := CanvasMode(v); mode.Valid() {
			s.mode = mode
		} else {
			s.logger.Debug("ignoring stored canvas mode", "value", v)
		}
	}

	if v, ok := s.load(ctx, KeyCustomWidth); ok {
		if w, ok := parseLeadingInt(v); ok {
			s.customWidth = w
		} else {
			s.logger.Debug("ignoring stored custom width", "value", v)
		}
	}

	if v, ok := s.load(ctx, KeyThemeConfig); ok {
		var cfg ThemeConfig
		if err := json.Unmarshal([]byte(v), &cfg); err == nil {
			s.theme = cfg
		} else {
			s.logger.Debug("ignoring stored theme config", "error", err)
		}
	}

	s.hydrated = true
}

func (s *Session) load(ctx context.Context, key string) (string, bool) {
	if s.store == nil {
		return "", false
	}
	v, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Debug("store read skipped", "key", key, "error", err)
		return "", false
	}
	return v, true
}

// persist writes key if the session is hydrated. Callers hold s.mu.
func (s *Session) persist(ctx context.Context, key, value string) error {
	if !s.hydrated || s.store == nil {
		return nil
	}
	if err := s.store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("persisting %s: %w", key, err)
	}
	return nil
}

// SetMarkdown replaces the document.
func (s *Session) SetMarkdown(ctx context.Context, md string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markdown = md
	return s.persist(ctx, KeyContent, md)
}

// SetCanvasMode changes the canvas mode. Invalid modes are rejected.
func (s *Session) SetCanvasMode(ctx context.Context, mode CanvasMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCanvasMode, mode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	return s.persist(ctx, KeyCanvasMode, string(mode))
}

// SetCustomWidth stores the raw custom width. Clamping happens when the
// width is resolved, so the value the user typed is kept.
func (s *Session) SetCustomWidth(ctx context.Context, px int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customWidth = px
	return s.persist(ctx, KeyCustomWidth, strconv.Itoa(px))
}

// SetThemeCSS replaces the custom theme CSS.
func (s *Session) SetThemeCSS(ctx context.Context, css string) error {
	return s.setTheme(ctx, ThemeConfig{CustomCSS: css})
}

// ApplyPreset overwrites the custom CSS with a preset's CSS.
func (s *Session) ApplyPreset(ctx context.Context, id string) error {
	s.mu.RLock()
	current := s.theme
	s.mu.RUnlock()

	cfg, err := current.WithPreset(id)
	if err != nil {
		return err
	}
	return s.setTheme(ctx, cfg)
}

func (s *Session) setTheme(ctx context.Context, cfg ThemeConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding theme config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = cfg
	return s.persist(ctx, KeyThemeConfig, string(data))
}

// SetThemeEditorOpen toggles the transient theme editor flag.
func (s *Session) SetThemeEditorOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themeEditorOpen = open
}

// SetExporting toggles the transient exporting flag.
func (s *Session) SetExporting(exporting bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exporting = exporting
}

// Exporting reports whether an export is running for this session.
func (s *Session) Exporting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exporting
}

// Hydrated reports whether Hydrate has completed.
func (s *Session) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Segments splits the current document.
func (s *Session) Segments() []string {
	s.mu.RLock()
	md := s.markdown
	s.mu.RUnlock()
	return Split(md)
}

// Input returns the current state as converter input.
func (s *Session) Input(sourceDir string) Input {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Input{
		Markdown:    s.markdown,
		SourceDir:   sourceDir,
		Mode:        s.mode,
		CustomWidth: s.customWidth,
		Theme:       s.theme,
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SessionState{
		Markdown:        s.markdown,
		CanvasMode:      s.mode,
		CustomWidth:     s.customWidth,
		Theme:           s.theme,
		Width:           ResolveWidth(s.mode, s.customWidth),
		SegmentCount:    len(Split(s.markdown)),
		Hydrated:        s.hydrated,
		Exporting:       s.exporting,
		ThemeEditorOpen: s.themeEditorOpen,
	}
}

// parseLeadingInt parses the integer prefix of s ("800px" -> 800), ignoring
// leading whitespace. It fails when s has no digits.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
