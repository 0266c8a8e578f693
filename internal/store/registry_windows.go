//go:build windows

package store

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/windows/registry"
)

// registryNode wraps an open key of the live registry.
type registryNode struct {
	key  registry.Key
	path string
	root bool
}

// OpenCurrentUser returns the HKEY_CURRENT_USER hive of the live registry.
func OpenCurrentUser() (Node, error) {
	return &registryNode{key: registry.CURRENT_USER, path: "HKCU", root: true}, nil
}

func (n *registryNode) Open(path string) (Node, error) {
	k, err := registry.OpenKey(n.key, path, registry.QUERY_VALUE|registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, translate(err, `key `+n.path+`\`+path)
	}
	return &registryNode{key: k, path: n.path + `\` + path}, nil
}

func (n *registryNode) String(name string) (string, error) {
	v, _, err := n.key.GetStringValue(name)
	if err != nil {
		return "", translate(err, "value "+valueLabel(name)+" of "+n.path)
	}
	return v, nil
}

func (n *registryNode) Binary(name string) ([]byte, error) {
	v, _, err := n.key.GetBinaryValue(name)
	if err != nil {
		return nil, translate(err, "value "+valueLabel(name)+" of "+n.path)
	}
	return v, nil
}

func (n *registryNode) ModTime() (time.Time, error) {
	info, err := n.key.Stat()
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", n.path, err)
	}
	return info.ModTime(), nil
}

func (n *registryNode) Close() error {
	if n.root {
		return nil
	}
	return n.key.Close()
}

func translate(err error, what string) error {
	if errors.Is(err, registry.ErrNotExist) {
		return notFound(what)
	}
	return fmt.Errorf("%s: %w", what, err)
}
