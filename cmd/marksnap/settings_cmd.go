package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alnah/go-marksnap"
)

// settingsCommand opens the session for doc, canvas and theme, then calls fn
// with the positional arguments.
func settingsCommand(ctx context.Context, name string, args []string, env *Environment, usage func(io.Writer),
	fn func(ctx context.Context, sess *marksnap.Session, f *settingsFlags, pos []string) error,
) error {
	fs, flags := buildSettingsFlagSet(name, env.Stderr, usage)
	pos, err := parseFlags(fs, args)
	if err != nil {
		return usageError(err)
	}

	cfg, err := loadConfig(flags.common)
	if err != nil {
		return err
	}
	setFlag(&cfg.Assets.BasePath, flags.assetPath)
	flags.assetPath = cfg.Assets.BasePath

	sess, closeStore, err := openSession(ctx, cfg, env, newLogger(env.Stderr, flags.common))
	if err != nil {
		return err
	}
	defer closeStore()

	return fn(ctx, sess, flags, pos)
}

// runDocCmd shows or replaces the stored document.
func runDocCmd(ctx context.Context, args []string, env *Environment) error {
	return settingsCommand(ctx, "doc", args, env, printDocUsage,
		func(ctx context.Context, sess *marksnap.Session, f *settingsFlags, pos []string) error {
			if len(pos) == 0 {
				printDocUsage(env.Stderr)
				return fmt.Errorf("%w: doc needs a subcommand", ErrUsage)
			}

			switch pos[0] {
			case "show":
				fmt.Fprintln(env.Stdout, sess.Snapshot().Markdown)
				return nil
			case "set":
				if len(pos) != 2 {
					return fmt.Errorf("%w: doc set takes one file (or - for stdin)", ErrUsage)
				}
				md, err := readMarkdown(pos[1], env.Stdin)
				if err != nil {
					return err
				}
				return storeDocument(ctx, sess, md, f, env)
			case "reset":
				return storeDocument(ctx, sess, marksnap.DefaultMarkdown, f, env)
			default:
				return fmt.Errorf("%w: doc %s", ErrUnknownCommand, pos[0])
			}
		})
}

func storeDocument(ctx context.Context, sess *marksnap.Session, md string, f *settingsFlags, env *Environment) error {
	if err := sess.SetMarkdown(ctx, md); err != nil {
		return err
	}
	if !f.common.quiet {
		n := len(sess.Segments())
		fmt.Fprintf(env.Stdout, "Stored document (%d %s)\n", n, plural(n, "segment"))
	}
	return nil
}

// runCanvasCmd shows or changes the stored canvas settings.
func runCanvasCmd(ctx context.Context, args []string, env *Environment) error {
	return settingsCommand(ctx, "canvas", args, env, printCanvasUsage,
		func(ctx context.Context, sess *marksnap.Session, f *settingsFlags, pos []string) error {
			if len(pos) > 1 {
				return fmt.Errorf("%w: canvas takes one mode", ErrUsage)
			}

			if len(pos) == 1 {
				mode, err := marksnap.ParseCanvasMode(pos[0])
				if err != nil {
					return err
				}
				if err := sess.SetCanvasMode(ctx, mode); err != nil {
					return err
				}
			}
			if f.width != 0 {
				if err := sess.SetCustomWidth(ctx, f.width); err != nil {
					return err
				}
			}

			state := sess.Snapshot()
			fmt.Fprintf(env.Stdout, "mode:  %s\n", state.CanvasMode)
			fmt.Fprintf(env.Stdout, "width: %s\n", state.Width)
			if state.CanvasMode == marksnap.CanvasCustom && state.Width.Pixels != state.CustomWidth {
				fmt.Fprintf(env.Stdout, "       (stored %dpx, clamped to %d-%d)\n", state.CustomWidth, marksnap.MinCustomWidth, marksnap.MaxCustomWidth)
			}
			return nil
		})
}

// runThemeCmd lists, shows, or changes the stored theme.
func runThemeCmd(ctx context.Context, args []string, env *Environment) error {
	return settingsCommand(ctx, "theme", args, env, printThemeUsage,
		func(ctx context.Context, sess *marksnap.Session, f *settingsFlags, pos []string) error {
			if len(pos) == 0 {
				printThemeUsage(env.Stderr)
				return fmt.Errorf("%w: theme needs a subcommand", ErrUsage)
			}

			switch pos[0] {
			case "list":
				return listThemes(env.Stdout, sess.Snapshot().Theme, f.assetPath)
			case "show":
				fmt.Fprintln(env.Stdout, marksnap.ResolveThemeCSS(sess.Snapshot().Theme))
				return nil
			case "use":
				if len(pos) != 2 {
					return fmt.Errorf("%w: theme use takes a preset name, CSS file, or CSS text", ErrUsage)
				}
				return useTheme(ctx, sess, pos[1], f, env)
			case "reset":
				if err := sess.SetThemeCSS(ctx, ""); err != nil {
					return err
				}
				if !f.common.quiet {
					fmt.Fprintln(env.Stdout, "Theme reset to the default")
				}
				return nil
			default:
				return fmt.Errorf("%w: theme %s", ErrUnknownCommand, pos[0])
			}
		})
}

// useTheme applies a preset by ID, or stores the CSS a theme reference
// resolves to.
func useTheme(ctx context.Context, sess *marksnap.Session, ref string, f *settingsFlags, env *Environment) error {
	if _, err := marksnap.LookupPreset(ref); err == nil {
		if err := sess.ApplyPreset(ctx, ref); err != nil {
			return err
		}
	} else {
		theme, err := resolveTheme(ref, f.assetPath)
		if err != nil {
			return err
		}
		if err := sess.SetThemeCSS(ctx, theme.CustomCSS); err != nil {
			return err
		}
	}

	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Theme set: %s\n", themeLabel(sess.Snapshot().Theme))
	}
	return nil
}

// listThemes prints the presets, then custom themes from the asset path.
// The active theme is marked with "*".
func listThemes(w io.Writer, current marksnap.ThemeConfig, assetPath string) error {
	active := marksnap.ResolveThemeCSS(current)
	fmt.Fprintln(w, "Presets:")
	for _, p := range marksnap.Presets() {
		marker := " "
		if p.CSS == active {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s %-16s %s\n", marker, p.ID, p.Name)
	}

	if assetPath == "" {
		return nil
	}
	loader, err := marksnap.NewAssetLoader(assetPath)
	if err != nil {
		return err
	}
	names, err := loader.ListThemes()
	if err != nil {
		return err
	}

	known := make(map[string]bool)
	for _, id := range presetIDs() {
		known[id] = true
	}
	var custom []string
	for _, name := range names {
		if !known[name] {
			custom = append(custom, name)
		}
	}
	if len(custom) == 0 {
		return nil
	}
	sort.Strings(custom)
	fmt.Fprintln(w, "Custom:")
	for _, name := range custom {
		fmt.Fprintf(w, "    %s\n", name)
	}
	return nil
}

// themeLabel names the active theme for messages.
func themeLabel(theme marksnap.ThemeConfig) string {
	if strings.TrimSpace(theme.CustomCSS) == "" {
		return marksnap.DefaultPresetID + " (default)"
	}
	for _, p := range marksnap.Presets() {
		if p.CSS == theme.CustomCSS {
			return p.ID
		}
	}
	return "custom CSS"
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
