// Package store gives read-only access to hierarchical configuration stores
// that hold the ADE activation data: the live Windows registry, an offline
// registry hive file, and an in-memory tree.
//
// Paths use backslash separators as in the registry. Lookups never modify
// the underlying store.
package store

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a key or value does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnsupported is returned by stores that are unavailable on this OS.
var ErrUnsupported = errors.New("store not supported on this platform")

// Node is an open key in a hierarchical store.
type Node interface {
	// Open opens the child at path, which may span several levels.
	Open(path string) (Node, error)

	// String reads a string value. The empty name selects the key's
	// default (unnamed) value.
	String(name string) (string, error)

	// Binary reads a binary value.
	Binary(name string) ([]byte, error)

	// Close releases the key. Closing a child does not affect its parent.
	Close() error
}

// Stater is implemented by nodes that know when they were last written.
type Stater interface {
	ModTime() (time.Time, error)
}

// IndexName formats the numbered child names used by the activation tree.
func IndexName(i int) string {
	return fmt.Sprintf("%04d", i)
}

// splitPath breaks a backslash-separated path into components, dropping
// empty segments from leading, trailing, or doubled separators.
func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, `\`) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}
