package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-marksnap"
	"github.com/alnah/go-marksnap/internal/termview"
)

// runPreviewCmd renders a document's segments in the terminal. With no
// file argument the stored document is shown.
func runPreviewCmd(ctx context.Context, args []string, env *Environment) error {
	fs, flags := buildPreviewFlagSet(env.Stderr)
	pos, err := parseFlags(fs, args)
	if err != nil {
		return usageError(err)
	}
	if len(pos) > 1 {
		return fmt.Errorf("%w: preview takes at most one file", ErrUsage)
	}

	cfg, err := loadConfig(flags.common)
	if err != nil {
		return err
	}
	logger := newLogger(env.Stderr, flags.common)

	var input marksnap.Input
	if len(pos) == 1 {
		md, err := readMarkdown(pos[0], env.Stdin)
		if err != nil {
			return err
		}
		mergeRenderFlags(flags.render, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		if input, err = inputFromConfig(md, sourceDirOf(pos[0]), cfg); err != nil {
			return err
		}
	} else {
		sess, closeStore, err := openSession(ctx, cfg, env, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		input = sess.Input("")
		if err := applyRenderOverrides(&input, flags.render, cfg.Assets.BasePath); err != nil {
			return err
		}
	}

	previewer, err := termview.New(input.Theme,
		termview.WithStyle(flags.style),
		termview.WithColumns(flags.columns),
		termview.WithBorder(!flags.noBorder),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	out, err := previewer.Render(input.Markdown, marksnap.ResolveWidth(input.Mode, input.CustomWidth))
	if err != nil {
		return err
	}
	fmt.Fprint(env.Stdout, out)
	return nil
}
