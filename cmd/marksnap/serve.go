package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/alnah/go-marksnap"
	"github.com/alnah/go-marksnap/internal/metrics"
	"github.com/alnah/go-marksnap/internal/server"
	"github.com/alnah/go-marksnap/internal/watch"
)

// runServeCmd starts the HTTP shell on the stored session.
func runServeCmd(ctx context.Context, args []string, env *Environment) error {
	fs, flags := buildServeFlagSet(env.Stderr)
	pos, err := parseFlags(fs, args)
	if err != nil {
		return usageError(err)
	}
	if len(pos) > 0 {
		return fmt.Errorf("%w: serve takes no arguments", ErrUsage)
	}

	cfg, err := loadConfig(flags.common)
	if err != nil {
		return err
	}
	setFlag(&cfg.Output.Dir, flags.output)
	setFlag(&cfg.Server.Addr, flags.addr)
	setFlag(&cfg.Assets.BasePath, flags.assets)
	if flags.metrics {
		cfg.Server.Metrics = true
	}
	mergeTuningFlags(flags.tuning, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(env.Stderr, flags.common)

	sess, closeStore, err := openSession(ctx, cfg, env, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var observer marksnap.Observer
	var metricsHandler http.Handler
	if cfg.Server.Metrics {
		rec := metrics.NewRecorder(nil)
		observer = rec
		metricsHandler = rec.Handler()
	}

	conv, err := env.NewConverter(converterOptions(cfg, logger, env.Stderr, observer)...)
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	opts := []server.Option{server.WithLogger(logger)}
	if metricsHandler != nil {
		opts = append(opts, server.WithMetrics(metricsHandler))
	}

	if flags.watch != "" {
		w, err := watch.New(flags.watch, watch.WithLogger(logger))
		if err != nil {
			return err
		}
		if err := syncDocument(ctx, sess, w.Path(), logger); err != nil {
			return err
		}
		opts = append(opts, server.WithSourceDir(sourceDirOf(w.Path())))

		go func() {
			err := w.Run(ctx, func(ctx context.Context) {
				_ = syncDocument(ctx, sess, w.Path(), logger)
			})
			if err != nil {
				logger.Error("watch stopped", "error", err)
			}
		}()
	}

	srv := server.New(sess, conv, marksnap.NewDirSink(cfg.Output.Dir), opts...)
	return srv.ListenAndServe(ctx, cfg.Server.Addr, func(addr net.Addr) {
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "Serving on http://%s (Ctrl-C to stop)\n", addr)
		}
	})
}

// syncDocument copies a markdown file into the session.
func syncDocument(ctx context.Context, sess *marksnap.Session, path string, logger *slog.Logger) error {
	md, err := readMarkdown(path, nil)
	if err != nil {
		logger.Warn("document sync failed", "path", path, "error", err)
		return err
	}
	if err := sess.SetMarkdown(ctx, md); err != nil {
		logger.Warn("document sync failed", "path", path, "error", err)
		return err
	}
	logger.Info("document synced", "path", path, "segments", len(marksnap.Split(md)))
	return nil
}
