package store

import (
	"fmt"
	"os"
	"strings"
	"time"

	"www.velocidex.com/golang/regparser"
)

// hiveNode is a key inside an offline registry hive (for example a copy of
// a user's NTUSER.DAT, whose root corresponds to HKEY_CURRENT_USER).
type hiveNode struct {
	reg  *regparser.Registry
	key  *regparser.CM_KEY_NODE
	path string
	file *os.File // set on the root only
}

// OpenHive opens the registry hive file at path and returns its root key.
func OpenHive(path string) (Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	reg, err := regparser.NewRegistry(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("parse hive %s: %w", path, err)
	}

	root := reg.OpenKey(`\`)
	if root == nil {
		f.Close()
		return nil, fmt.Errorf("parse hive %s: no root key", path)
	}
	return &hiveNode{reg: reg, key: root, file: f}, nil
}

// Open walks path one component at a time. Key names compare
// case-insensitively, as they do in the live registry.
func (n *hiveNode) Open(path string) (Node, error) {
	k, full := n.key, n.path
	for _, part := range splitPath(path) {
		full += `\` + part
		k = subkey(k, part)
		if k == nil {
			return nil, notFound("key " + full)
		}
	}
	return &hiveNode{reg: n.reg, key: k, path: full}, nil
}

func subkey(k *regparser.CM_KEY_NODE, name string) *regparser.CM_KEY_NODE {
	for _, sub := range k.Subkeys() {
		if strings.EqualFold(sub.Name(), name) {
			return sub
		}
	}
	return nil
}

// ModTime reports the key's last write time.
func (n *hiveNode) ModTime() (time.Time, error) {
	ft := n.key.LastWriteTime()
	if ft == nil {
		return time.Time{}, nil
	}
	return ft.Time, nil
}

func (n *hiveNode) value(name string) (*regparser.ValueData, error) {
	for _, v := range n.key.Values() {
		if valueNameMatches(v.ValueName(), name) {
			return v.ValueData(), nil
		}
	}
	where := n.path
	if where == "" {
		where = "hive root"
	}
	return nil, notFound("value " + valueLabel(name) + " of " + where)
}

func (n *hiveNode) String(name string) (string, error) {
	data, err := n.value(name)
	if err != nil {
		return "", err
	}
	// Trailing NULs survive in some REG_SZ payloads written by older
	// clients; the live API strips them.
	return strings.TrimRight(data.String, "\x00"), nil
}

func (n *hiveNode) Binary(name string) ([]byte, error) {
	data, err := n.value(name)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), data.Data...), nil
}

func (n *hiveNode) Close() error {
	if n.file != nil {
		return n.file.Close()
	}
	return nil
}

// valueNameMatches compares value names case-insensitively. The default
// value has no name on disk; parsers render it as "", "@" or "(default)".
func valueNameMatches(got, want string) bool {
	if want == "" {
		return got == "" || got == "@" || strings.EqualFold(got, "(default)")
	}
	return strings.EqualFold(got, want)
}
