package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	store   string
	quiet   bool
	verbose bool
}

// renderFlags holds the canvas and theme flags.
type renderFlags struct {
	canvas    string
	width     int
	theme     string
	assetPath string
}

// tuningFlags holds export pipeline flags.
type tuningFlags struct {
	timeout    string
	delay      string
	pixelRatio float64
}

// exportFlags holds all flags for the export and watch commands.
type exportFlags struct {
	common  commonFlags
	render  renderFlags
	tuning  tuningFlags
	output  string
	workers int
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common  commonFlags
	tuning  tuningFlags
	output  string
	addr    string
	watch   string
	metrics bool
	assets  string
}

// previewFlags holds flags for the preview command.
type previewFlags struct {
	common   commonFlags
	render   renderFlags
	style    string
	columns  int
	noBorder bool
}

// settingsFlags holds flags for doc, canvas and theme.
type settingsFlags struct {
	common    commonFlags
	width     int
	assetPath string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.store, "store", "", "session store file (SQLite)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addRenderFlags adds canvas and theme flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.canvas, "canvas", "", "canvas mode: auto, mobile, tablet, desktop, custom")
	fs.IntVar(&f.width, "width", 0, "custom canvas width in pixels (300-2000)")
	fs.StringVar(&f.theme, "theme", "", "theme preset name, CSS file path, or CSS text")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// addTuningFlags adds export pipeline flags to a FlagSet.
func addTuningFlags(fs *flag.FlagSet, f *tuningFlags) {
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-image capture timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.delay, "delay", "", "pause between images (e.g., 300ms)")
	fs.Float64Var(&f.pixelRatio, "pixel-ratio", 0, "device pixel ratio (default 2)")
}

// newFlagSet creates a FlagSet that prints usage to w on error.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// buildExportFlagSet registers export flags. Also used by watch and completion.
func buildExportFlagSet(name string, w io.Writer) (*flag.FlagSet, *exportFlags) {
	usage := printExportUsage
	if name == "watch" {
		usage = printWatchUsage
	}
	fs := newFlagSet(name, w, usage)
	f := &exportFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addTuningFlags(fs, &f.tuning)

	return fs, f
}

// buildServeFlagSet registers serve flags.
func buildServeFlagSet(w io.Writer) (*flag.FlagSet, *serveFlags) {
	fs := newFlagSet("serve", w, printServeUsage)
	f := &serveFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory for exports")
	fs.StringVar(&f.addr, "addr", "", "listen address (default 127.0.0.1:8080)")
	fs.StringVar(&f.watch, "watch", "", "markdown file to sync into the session")
	fs.BoolVar(&f.metrics, "metrics", false, "expose Prometheus metrics on /metrics")
	fs.StringVar(&f.assets, "asset-path", "", "custom asset directory")
	addCommonFlags(fs, &f.common)
	addTuningFlags(fs, &f.tuning)

	return fs, f
}

// buildPreviewFlagSet registers preview flags.
func buildPreviewFlagSet(w io.Writer) (*flag.FlagSet, *previewFlags) {
	fs := newFlagSet("preview", w, printPreviewUsage)
	f := &previewFlags{}

	fs.StringVar(&f.style, "style", "", "terminal style: dark, light, dracula, tokyo-night, notty, ascii")
	fs.IntVar(&f.columns, "columns", 0, "wrap width in columns (0 = from canvas)")
	fs.BoolVar(&f.noBorder, "no-border", false, "do not frame segments")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	return fs, f
}

// buildSettingsFlagSet registers flags for the doc, canvas and theme commands.
func buildSettingsFlagSet(name string, w io.Writer, usage func(io.Writer)) (*flag.FlagSet, *settingsFlags) {
	fs := newFlagSet(name, w, usage)
	f := &settingsFlags{}

	addCommonFlags(fs, &f.common)
	switch name {
	case "canvas":
		fs.IntVar(&f.width, "width", 0, "custom canvas width in pixels")
	case "theme":
		fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	}

	return fs, f
}

// parseFlags parses args and returns the positional arguments.
func parseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}
