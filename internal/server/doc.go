// Package server exposes a session over HTTP.
//
// The preview page stacks every segment's surface; the JSON API edits the
// session and triggers exports into the configured sink. Only one export runs
// at a time: a second request while busy gets 409 Conflict.
package server
