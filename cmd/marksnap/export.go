package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alnah/go-marksnap"
	"github.com/alnah/go-marksnap/internal/config"
)

// runExportCmd exports the files and directories given as arguments, or the
// stored document when there are none.
func runExportCmd(ctx context.Context, args []string, env *Environment) error {
	fs, flags := buildExportFlagSet("export", env.Stderr)
	inputs, err := parseFlags(fs, args)
	if err != nil {
		return usageError(err)
	}

	cfg, logger, err := exportSettings(flags, env)
	if err != nil {
		return err
	}

	if len(inputs) == 0 {
		return exportStored(ctx, flags, cfg, env, logger)
	}
	return exportFiles(ctx, inputs, flags, cfg, env, logger)
}

// exportSettings merges config, environment and flags for export and watch.
func exportSettings(flags *exportFlags, env *Environment) (*config.Config, *slog.Logger, error) {
	if err := validateWorkers(flags.workers); err != nil {
		return nil, nil, err
	}

	cfg, err := loadConfig(flags.common)
	if err != nil {
		return nil, nil, err
	}
	setFlag(&cfg.Output.Dir, flags.output)
	if flags.workers > 0 {
		cfg.Export.Workers = flags.workers
	}
	mergeRenderFlags(flags.render, cfg)
	mergeTuningFlags(flags.tuning, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, newLogger(env.Stderr, flags.common), nil
}

// exportStored exports the document kept in the session store. Render flags
// apply to this run only.
func exportStored(ctx context.Context, flags *exportFlags, cfg *config.Config, env *Environment, logger *slog.Logger) error {
	sess, closeStore, err := openSession(ctx, cfg, env, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	input := sess.Input("")
	if err := applyRenderOverrides(&input, flags.render, cfg.Assets.BasePath); err != nil {
		return err
	}

	conv, err := env.NewConverter(converterOptions(cfg, logger, env.Stderr, nil)...)
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	sess.SetExporting(true)
	defer sess.SetExporting(false)
	return exportDocument(ctx, conv, input, cfg.Output.Dir, env, flags.common)
}

// exportDocument exports one document into dir and prints the saved files.
func exportDocument(ctx context.Context, conv exporter, input marksnap.Input, dir string, env *Environment, common commonFlags) error {
	if len(marksnap.Split(input.Markdown)) == 0 {
		if !common.quiet {
			fmt.Fprintln(env.Stdout, "Nothing to export: the document is empty.")
		}
		return nil
	}

	start := time.Now()
	res, err := conv.Export(ctx, input, marksnap.NewDirSink(dir))
	if res != nil && !common.quiet {
		for _, f := range res.Files {
			fmt.Fprintf(env.Stdout, "Created %s\n", f.Location)
		}
		if common.verbose {
			fmt.Fprintf(env.Stdout, "%d images in %v\n", len(res.Files), time.Since(start).Round(time.Millisecond))
		}
	}
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// exportFiles exports every discovered file through a converter pool.
func exportFiles(ctx context.Context, inputs []string, flags *exportFlags, cfg *config.Config, env *Environment, logger *slog.Logger) error {
	jobs, err := discoverFiles(inputs, cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(jobs) == 0 {
		return fmt.Errorf("%w: no markdown files found in %v", ErrNoInput, inputs)
	}

	mode, err := canvasMode(cfg)
	if err != nil {
		return err
	}
	theme, err := resolveTheme(cfg.Theme.Name, cfg.Assets.BasePath)
	if err != nil {
		return err
	}

	size := marksnap.ResolvePoolSize(cfg.Export.Workers)
	if size > len(jobs) {
		size = len(jobs)
	}

	// Workers share stderr for logs and failure notices.
	stderr := &lockedWriter{w: env.Stderr}
	logger = newLogger(stderr, flags.common)
	logger.Debug("starting batch", "documents", len(jobs), "workers", size)

	pool := env.NewPool(size, converterOptions(cfg, logger, stderr, nil)...)
	defer func() { _ = pool.Close() }()

	results := exportBatch(ctx, pool, jobs, &batchParams{
		mode:        mode,
		customWidth: cfg.Canvas.Width,
		theme:       theme,
	})

	err = printResults(results, flags.common.quiet, flags.common.verbose, env.Stdout, stderr)
	if err != nil && errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("interrupted: %w", err)
	}
	return err
}
