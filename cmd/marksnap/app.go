package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"
)

// commands lists the CLI commands by name.
var commands = map[string]bool{
	"export":     true,
	"preview":    true,
	"serve":      true,
	"watch":      true,
	"doc":        true,
	"canvas":     true,
	"theme":      true,
	"doctor":     true,
	"completion": true,
	"version":    true,
	"help":       true,
}

// isCommand reports whether arg names a command. Case sensitive.
func isCommand(arg string) bool {
	return commands[arg]
}

// looksLikeMarkdown reports whether arg is a markdown path, so that
// "marksnap notes.md" is shorthand for "marksnap export notes.md".
func looksLikeMarkdown(arg string) bool {
	ext := strings.ToLower(filepath.Ext(arg))
	return ext == ".md" || ext == ".markdown"
}

// runMain dispatches args to a command and returns the process exit code.
func runMain(args []string, env *Environment) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(env.Stderr, "internal error: %v\n", r)
			code = ExitGeneral
		}
	}()

	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	var err error

	switch cmd {
	case "export":
		err = runExportCmd(ctx, rest, env)
	case "preview":
		err = runPreviewCmd(ctx, rest, env)
	case "serve":
		err = runServeCmd(ctx, rest, env)
	case "watch":
		err = runWatchCmd(ctx, rest, env)
	case "doc":
		err = runDocCmd(ctx, rest, env)
	case "canvas":
		err = runCanvasCmd(ctx, rest, env)
	case "theme":
		err = runThemeCmd(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "marksnap %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		if looksLikeMarkdown(cmd) {
			err = runExportCmd(ctx, args[1:], env)
			break
		}
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}
