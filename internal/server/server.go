package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/alnah/go-marksnap"
)

// Converter is the slice of *marksnap.Converter the server drives.
type Converter interface {
	Render(ctx context.Context, input marksnap.Input) (*marksnap.RenderResult, error)
	Export(ctx context.Context, input marksnap.Input, sink marksnap.Sink) (*marksnap.ExportResult, error)
	Busy() bool
}

var _ Converter = (*marksnap.Converter)(nil)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = "127.0.0.1:8080"

// Server timeouts.
const (
	readTimeout     = 30 * time.Second
	writeTimeout    = 5 * time.Minute // exports of long documents take a while
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server serves the preview page and the session API.
type Server struct {
	session   *marksnap.Session
	conv      Converter
	sink      marksnap.Sink
	sourceDir string
	metrics   http.Handler
	logger    *slog.Logger

	exportMu sync.Mutex // held for the whole export request
}

// Option configures a Server.
type Option func(*Server)

// WithSourceDir sets the base directory for relative image paths.
func WithSourceDir(dir string) Option {
	return func(s *Server) { s.sourceDir = dir }
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Server. sink receives exported images.
func New(session *marksnap.Session, conv Converter, sink marksnap.Sink, opts ...Option) *Server {
	s := &Server{
		session: session,
		conv:    conv,
		sink:    sink,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handlePreview)
	mux.HandleFunc("GET /segments/{n}", s.handleSegment)

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("PUT /api/document", s.handleDocument)
	mux.HandleFunc("PUT /api/canvas", s.handleCanvas)
	mux.HandleFunc("PUT /api/theme", s.handleTheme)
	mux.HandleFunc("POST /api/theme/presets/{id}", s.handlePreset)
	mux.HandleFunc("GET /api/presets", s.handlePresets)
	mux.HandleFunc("POST /api/export", s.handleExport)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}

	return s.logRequests(mux)
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
// ready, when non-nil, receives the bound address once listening.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	if addr == "" {
		addr = DefaultAddr
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info("server listening", "addr", ln.Addr().String())
	if ready != nil {
		ready(ln.Addr())
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// logRequests logs each request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// ---------------------------------------------------------------------------
// Preview
// ---------------------------------------------------------------------------

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>marksnap preview</title>
<style>
body { margin: 0; padding: 24px; background: #f6f8fa; font-family: -apple-system, "Segoe UI", sans-serif; }
header { display: flex; gap: 16px; align-items: baseline; margin-bottom: 24px; color: #57606a; }
header strong { color: #24292f; }
.surface { display: block; margin: 0 auto 32px; border: 0; box-shadow: 0 1px 3px rgba(0,0,0,.12); background: transparent; }
.empty { text-align: center; color: #8b949e; padding: 64px 0; }
</style>
</head>
<body>
<header>
<strong>{{.Count}} {{if eq .Count 1}}segment{{else}}segments{{end}}</strong>
<span>canvas: {{.Width}}</span>
{{if .Exporting}}<span>exporting…</span>{{end}}
</header>
{{if .Count}}{{range .Segments}}<iframe class="surface" title="{{.Title}}" src="/segments/{{.Number}}" style="width: {{$.FrameWidth}}px; height: 640px"></iframe>
{{end}}{{else}}<p class="empty">Nothing to export. Separate segments with a line of === .</p>{{end}}
</body>
</html>
`))

type previewSegment struct {
	Number int
	Title  string
}

type previewData struct {
	Count      int
	Width      string
	FrameWidth int
	Exporting  bool
	Segments   []previewSegment
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	st := s.session.Snapshot()
	segments := marksnap.Split(st.Markdown)

	data := previewData{
		Count:      len(segments),
		Width:      st.Width.String(),
		FrameWidth: st.Width.Pixels,
		Exporting:  st.Exporting || s.conv.Busy(),
	}
	for i, seg := range segments {
		title, ok := marksnap.FirstHeading(seg)
		if !ok {
			title = fmt.Sprintf("Segment %d", i+1)
		}
		data.Segments = append(data.Segments, previewSegment{Number: i + 1, Title: title})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := previewTemplate.Execute(w, data); err != nil {
		s.logger.Error("rendering preview", "error", err)
	}
}

func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil || n < 1 {
		http.Error(w, "segment number must be a positive integer", http.StatusBadRequest)
		return
	}

	res, err := s.conv.Render(r.Context(), s.session.Input(s.sourceDir))
	if err != nil {
		s.logger.Error("rendering surfaces", "error", err)
		http.Error(w, "rendering failed", http.StatusInternalServerError)
		return
	}
	if n > len(res.Surfaces) {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(res.Surfaces[n-1].HTML))
}

// ---------------------------------------------------------------------------
// API
// ---------------------------------------------------------------------------

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st := s.session.Snapshot()
	st.Exporting = st.Exporting || s.conv.Busy()
	_ = writeJSON(w, http.StatusOK, st)
}

type documentRequest struct {
	Markdown string `json:"markdown"`
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.session.SetMarkdown(r.Context(), req.Markdown); err != nil {
		s.persistFailed(w, err)
		return
	}
	s.handleState(w, r)
}

type canvasRequest struct {
	Mode  string `json:"mode"`
	Width *int   `json:"width,omitempty"`
}

func (s *Server) handleCanvas(w http.ResponseWriter, r *http.Request) {
	var req canvasRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if req.Mode != "" {
		mode, err := marksnap.ParseCanvasMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := s.session.SetCanvasMode(r.Context(), mode); err != nil {
			s.persistFailed(w, err)
			return
		}
	}
	if req.Width != nil {
		if err := s.session.SetCustomWidth(r.Context(), *req.Width); err != nil {
			s.persistFailed(w, err)
			return
		}
	}
	s.handleState(w, r)
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	var req marksnap.ThemeConfig
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.session.SetThemeCSS(r.Context(), req.CustomCSS); err != nil {
		s.persistFailed(w, err)
		return
	}
	s.handleState(w, r)
}

func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	err := s.session.ApplyPreset(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, marksnap.ErrPresetNotFound):
		writeError(w, http.StatusNotFound, err)
		return
	case err != nil:
		s.persistFailed(w, err)
		return
	}
	s.handleState(w, r)
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, marksnap.Presets())
}

// exportResponse mirrors marksnap.ExportResult for JSON clients.
type exportResponse struct {
	RunID   string   `json:"runId"`
	Files   []string `json:"files"`
	Skipped []int    `json:"skipped,omitempty"`
	Error   string   `json:"error,omitempty"`
	Message string   `json:"message,omitempty"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !s.exportMu.TryLock() {
		writeError(w, http.StatusConflict, marksnap.ErrExportInProgress)
		return
	}
	defer s.exportMu.Unlock()

	if s.conv.Busy() || s.session.Exporting() {
		writeError(w, http.StatusConflict, marksnap.ErrExportInProgress)
		return
	}

	s.session.SetExporting(true)
	defer s.session.SetExporting(false)

	res, err := s.conv.Export(r.Context(), s.session.Input(s.sourceDir), s.sink)
	if errors.Is(err, marksnap.ErrExportInProgress) {
		writeError(w, http.StatusConflict, err)
		return
	}

	resp := exportResponse{Files: []string{}}
	if res != nil {
		resp.RunID = res.RunID
		resp.Skipped = res.Skipped
		for _, f := range res.Files {
			resp.Files = append(resp.Files, f.Location)
		}
	}
	if err != nil {
		resp.Error = err.Error()
		resp.Message = marksnap.ExportFailureMessage
		_ = writeJSON(w, http.StatusInternalServerError, resp)
		return
	}
	_ = writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// persistFailed reports a store write failure. The in-memory change is kept.
func (s *Server) persistFailed(w http.ResponseWriter, err error) {
	s.logger.Error("persisting session", "error", err)
	writeError(w, http.StatusInternalServerError, err)
}
