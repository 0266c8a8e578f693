//go:build !windows

package store

// OpenCurrentUser is only available on Windows. Use OpenHive to read a
// copied NTUSER.DAT elsewhere.
func OpenCurrentUser() (Node, error) {
	return nil, ErrUnsupported
}
