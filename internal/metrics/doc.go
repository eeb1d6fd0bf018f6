// Package metrics records export activity as Prometheus metrics.
//
// Recorder implements marksnap.Observer, so it plugs into a Converter with
// marksnap.WithObserver. Handler serves the registry for scraping.
package metrics
