// Package marksnap turns Markdown documents into PNG snapshots using headless Chrome.
//
// # Quick Start
//
// Create a converter, export a document, and close when done:
//
//	conv, err := marksnap.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Export(ctx, marksnap.Input{
//	    Markdown: "# Intro\n\nHello\n\n===\n\n# Details\n\nWorld",
//	}, marksnap.NewDirSink("out"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// out/intro-1.png, out/intro-2.png
//
// # Segments
//
// A document is split on lines made of 3 to 20 "=" characters. Each
// non-empty segment becomes its own image. The first segment's level-one
// heading names the files; otherwise they are named marksnap-<unix millis>.
//
// # Pipeline
//
//  1. Segmentation (Split)
//  2. Markdown to HTML via Goldmark (GFM, chroma highlighting)
//  3. Surface page: canvas width, base layout, highlight and theme CSS
//  4. PNG capture via headless Chrome (go-rod), 2x pixel ratio, transparent backdrop
//  5. Sequential hand-off to a Sink, with a short pause between images
//
// # Canvas and Themes
//
// Input.Mode picks the surface width (auto, mobile, tablet, desktop, custom).
// Input.Theme.CustomCSS styles .markdown-body; when empty the GitHub Light
// preset applies. Presets lists the built-in themes.
//
// # Sessions
//
// Session keeps editor state (document, canvas, theme) and persists it to a
// Store once hydrated. internal/store provides SQLite and in-memory stores.
//
// # Parallel Processing
//
// For batch export, ConverterPool manages several browser instances:
//
//	pool := marksnap.NewConverterPool(marksnap.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//
// Each document's images are still exported one at a time.
package marksnap
