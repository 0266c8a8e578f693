//go:build !windows

package dpapi

func unprotect(blob, entropy []byte) ([]byte, error) { return nil, ErrUnsupported }
