// Package store persists session state.
//
// SQLiteStore keeps the key-value pairs in a single SQLite table using the
// pure-Go modernc.org/sqlite driver, so no cgo toolchain is needed. Memory is
// a map-backed store for tests and throwaway sessions.
package store
