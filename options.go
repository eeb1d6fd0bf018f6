package marksnap

import (
	"log/slog"
	"time"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds Converter configuration.
type converterConfig struct {
	timeout    time.Duration
	pixelRatio float64
	delay      time.Duration
	logger     *slog.Logger
	notifier   Notifier
	observer   Observer
	assetPath  string
	now        func() time.Time
}

// defaultTimeout bounds a single surface capture when the context has no deadline.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the per-surface capture timeout.
// Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Converter) {
		if d > 0 {
			c.cfg.timeout = d
		}
	}
}

// WithPixelRatio sets the device scale factor used for captures.
// NewConverter rejects values outside (0, MaxPixelRatio].
func WithPixelRatio(ratio float64) Option {
	return func(c *Converter) {
		c.cfg.pixelRatio = ratio
	}
}

// WithDelay sets the pause between consecutive segment exports.
// Negative values are treated as zero.
func WithDelay(d time.Duration) Option {
	return func(c *Converter) {
		if d < 0 {
			d = 0
		}
		c.cfg.delay = d
	}
}

// WithLogger sets the structured logger. Nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.cfg.logger = l
		}
	}
}

// WithNotifier sets where export failure messages are delivered.
func WithNotifier(n Notifier) Option {
	return func(c *Converter) {
		if n != nil {
			c.cfg.notifier = n
		}
	}
}

// WithObserver registers an export observer, e.g. a metrics recorder.
func WithObserver(o Observer) Option {
	return func(c *Converter) {
		if o != nil {
			c.cfg.observer = o
		}
	}
}

// WithAssetPath sets a directory of custom themes, styles and templates.
// Assets missing there fall back to the embedded ones.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithClock overrides the clock used for timestamped filenames.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.cfg.now = now
		}
	}
}
