package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: marksnap <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Split markdown on === lines and export each segment as a PNG image.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export      Export files, directories, or the stored document")
	fmt.Fprintln(w, "  preview     Show segments in the terminal")
	fmt.Fprintln(w, "  serve       Start the local preview and editing server")
	fmt.Fprintln(w, "  watch       Re-export a file whenever it changes")
	fmt.Fprintln(w, "  doc         Show or replace the stored document")
	fmt.Fprintln(w, "  canvas      Show or change the canvas width")
	fmt.Fprintln(w, "  theme       List, show, or change the theme")
	fmt.Fprintln(w, "  doctor      Check the environment")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'marksnap help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --store <path>        Session store file (SQLite)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

func printRenderFlags(w io.Writer) {
	fmt.Fprintln(w, "Canvas and theme:")
	fmt.Fprintln(w, "      --canvas <mode>       auto, mobile (375), tablet (768), desktop (1024), custom")
	fmt.Fprintln(w, "      --width <px>          Custom width, clamped to 300-2000")
	fmt.Fprintln(w, "      --theme <s>           Preset name, CSS file path, or CSS text")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom themes, styles and templates")
}

func printTuningFlags(w io.Writer) {
	fmt.Fprintln(w, "Export:")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-image capture timeout (e.g., 30s)")
	fmt.Fprintln(w, "      --delay <d>           Pause between images (default 300ms)")
	fmt.Fprintln(w, "      --pixel-ratio <f>     Device pixel ratio (default 2, max 4)")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: marksnap export [inputs...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export one PNG per segment. Inputs are markdown files or directories;")
	fmt.Fprintln(w, "without inputs the stored document is exported with the stored settings.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel documents (0 = auto)")
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w)
	printTuningFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: marksnap watch <file.md> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export the file, then export it again after every change.")
	fmt.Fprintln(w, "Accepts the same flags as export.")
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w)
	printTuningFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printPreviewUsage prints usage for the preview command.
func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: marksnap preview [file.md|-] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render every segment in the terminal. Without a file the stored")
	fmt.Fprintln(w, "document is shown.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Display:")
	fmt.Fprintln(w, "      --style <s>           dark, light, dracula, tokyo-night, notty, ascii")
	fmt.Fprintln(w, "      --columns <n>         Wrap width (0 = from canvas)")
	fmt.Fprintln(w, "      --no-border           Do not frame segments")
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: marksnap serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the stored document: preview at /, JSON API under /api.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default 127.0.0.1:8080)")
	fmt.Fprintln(w, "      --watch <file.md>     Sync a file into the session on change")
	fmt.Fprintln(w, "      --metrics             Expose Prometheus metrics on /metrics")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory for exports")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom themes, styles and templates")
	fmt.Fprintln(w)
	printTuningFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printDocUsage prints usage for the doc command.
func printDocUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: marksnap doc <show|set|reset> [file|-]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  show          Print the stored document")
	fmt.Fprintln(w, "  set <file|->  Replace the stored document")
	fmt.Fprintln(w, "  reset         Restore the sample document")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printCanvasUsage prints usage for the canvas command.
func printCanvasUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: marksnap canvas [mode] [--width <px>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Without arguments, print the stored canvas settings.")
	fmt.Fprintln(w, "Modes: auto, mobile, tablet, desktop, custom")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printThemeUsage prints usage for the theme command.
func printThemeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: marksnap theme <list|show|use|reset> [theme]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  list          List presets (and custom themes with --asset-path)")
	fmt.Fprintln(w, "  show          Print the active theme CSS")
	fmt.Fprintln(w, "  use <theme>   Apply a preset, CSS file, or CSS text")
	fmt.Fprintln(w, "  reset         Go back to the default theme")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "export":
		printExportUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "preview":
		printPreviewUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "doc":
		printDocUsage(env.Stdout)
	case "canvas":
		printCanvasUsage(env.Stdout)
	case "theme":
		printThemeUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: marksnap doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, the session store, and the environment.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: marksnap version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: marksnap help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
