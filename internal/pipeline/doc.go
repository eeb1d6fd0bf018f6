// Package pipeline implements the Markdown-to-surface pipeline.
//
// This package handles the document-side stages:
//   - Segmentation of a document on "===" delimiter lines
//   - Markdown preprocessing (line normalization)
//   - Markdown to HTML conversion via Goldmark (GFM, chroma highlighting)
//   - Relative image path rewriting for file-backed surfaces
//   - CSS injection and surface page templating
//
// Rasterization is handled separately by the root marksnap package using
// headless Chrome (go-rod). This package never touches the browser.
package pipeline
