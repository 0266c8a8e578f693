package store

import (
	"strings"
	"sync"
	"time"
)

// Memory is an in-memory Node. Names are matched case-insensitively, the
// way the registry matches them. Every Open call is recorded so callers can
// assert which children were visited.
type Memory struct {
	name     string
	strings  map[string]string
	binaries map[string][]byte
	children map[string]*Memory
	modTime  time.Time

	mu     sync.Mutex
	opened []string
}

// NewMemory returns an empty root node.
func NewMemory() *Memory {
	return newMemory("")
}

func newMemory(name string) *Memory {
	return &Memory{
		name:     name,
		strings:  make(map[string]string),
		binaries: make(map[string][]byte),
		children: make(map[string]*Memory),
	}
}

// Child returns the child at path, creating missing levels.
func (m *Memory) Child(path string) *Memory {
	node := m
	for _, part := range splitPath(path) {
		key := strings.ToLower(part)
		next, ok := node.children[key]
		if !ok {
			next = newMemory(part)
			node.children[key] = next
		}
		node = next
	}
	return node
}

// SetString stores a string value and returns the node for chaining.
func (m *Memory) SetString(name, value string) *Memory {
	m.strings[strings.ToLower(name)] = value
	return m
}

// SetBinary stores a binary value and returns the node for chaining.
func (m *Memory) SetBinary(name string, value []byte) *Memory {
	m.binaries[strings.ToLower(name)] = append([]byte(nil), value...)
	return m
}

// SetModTime sets the last-write time reported by ModTime.
func (m *Memory) SetModTime(t time.Time) *Memory {
	m.modTime = t
	return m
}

// ModTime implements Stater.
func (m *Memory) ModTime() (time.Time, error) { return m.modTime, nil }

// Opened returns the paths passed to Open on this node, in call order.
func (m *Memory) Opened() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.opened...)
}

// Open implements Node.
func (m *Memory) Open(path string) (Node, error) {
	m.mu.Lock()
	m.opened = append(m.opened, path)
	m.mu.Unlock()

	node := m
	for _, part := range splitPath(path) {
		next, ok := node.children[strings.ToLower(part)]
		if !ok {
			return nil, notFound(`key `+path)
		}
		node = next
	}
	return node, nil
}

// String implements Node.
func (m *Memory) String(name string) (string, error) {
	v, ok := m.strings[strings.ToLower(name)]
	if !ok {
		return "", notFound("value " + valueLabel(name))
	}
	return v, nil
}

// Binary implements Node.
func (m *Memory) Binary(name string) ([]byte, error) {
	v, ok := m.binaries[strings.ToLower(name)]
	if !ok {
		return nil, notFound("value " + valueLabel(name))
	}
	return append([]byte(nil), v...), nil
}

// Close implements Node.
func (m *Memory) Close() error { return nil }

func valueLabel(name string) string {
	if name == "" {
		return "(default)"
	}
	return name
}
