// Package storage persists uploaded file bytes outside the database.
package storage

import "io"

// RemoveStatus classifies the outcome of a best-effort file removal.
type RemoveStatus int

const (
	// Removed means the file existed and was deleted.
	Removed RemoveStatus = iota
	// NotFound means there was nothing to delete.
	NotFound
	// Failed means the file may still exist.
	Failed
)

func (s RemoveStatus) String() string {
	switch s {
	case Removed:
		return "removed"
	case NotFound:
		return "not_found"
	default:
		return "failed"
	}
}

// Backend stores raw file bytes under opaque string keys.
type Backend interface {
	// Store writes r under key and returns the key the bytes ended up at.
	Store(key string, r io.Reader) (string, error)
	// Remove deletes the file at key. It never returns an error; callers
	// inspect the status and decide what to log.
	Remove(key string) RemoveStatus
	// Exists reports whether key currently holds bytes.
	Exists(key string) bool
}
