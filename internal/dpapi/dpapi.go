// Package dpapi unprotects blobs sealed with the Windows Data Protection API
// for the current user.
package dpapi

import "errors"

// ErrUnsupported is returned on hosts without DPAPI.
var ErrUnsupported = errors.New("dpapi: not supported on this platform")

// Unprotector reverses CryptProtectData for the current user.
type Unprotector interface {
	// Unprotect returns the plaintext of blob. entropy must equal the
	// optional entropy used when the blob was protected; nil means none.
	Unprotect(blob, entropy []byte) ([]byte, error)
}

// UnprotectFunc adapts a function to Unprotector.
type UnprotectFunc func(blob, entropy []byte) ([]byte, error)

func (f UnprotectFunc) Unprotect(blob, entropy []byte) ([]byte, error) { return f(blob, entropy) }

// New returns the Unprotector of this host.
func New() Unprotector { return UnprotectFunc(unprotect) }
