package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-marksnap/internal/watch"
)

// runWatchCmd re-exports a markdown file every time it changes.
func runWatchCmd(ctx context.Context, args []string, env *Environment) error {
	fs, flags := buildExportFlagSet("watch", env.Stderr)
	pos, err := parseFlags(fs, args)
	if err != nil {
		return usageError(err)
	}
	if len(pos) != 1 {
		return fmt.Errorf("%w: watch takes exactly one markdown file", ErrUsage)
	}
	path := pos[0]
	if err := validateMarkdownExtension(path); err != nil {
		return err
	}

	cfg, logger, err := exportSettings(flags, env)
	if err != nil {
		return err
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = sourceDirOf(path)
	}

	w, err := watch.New(path, watch.WithLogger(logger))
	if err != nil {
		return err
	}

	// One converter, and so one browser, serves every re-export.
	conv, err := env.NewConverter(converterOptions(cfg, logger, env.Stderr, nil)...)
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	exportOnce := func(ctx context.Context) {
		md, err := readMarkdown(w.Path(), nil)
		if err != nil {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
			return
		}
		input, err := inputFromConfig(md, sourceDirOf(w.Path()), cfg)
		if err != nil {
			fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
			return
		}
		if err := exportDocument(ctx, conv, input, cfg.Output.Dir, env, flags.common); err != nil && ctx.Err() == nil {
			fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		}
	}

	exportOnce(ctx)
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Watching %s (Ctrl-C to stop)\n", w.Path())
	}

	if err := w.Run(ctx, exportOnce); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
