package adept

import (
	"errors"

	"github.com/wethinkt/go-adeptkey/internal/runlog"
	"github.com/wethinkt/go-adeptkey/internal/store"
)

// DefaultMaxInner caps the leaf scan inside one credential group. ADE has
// never been seen writing more leaves, but nothing is known to require the
// limit, so it is configurable.
const DefaultMaxInner = 16

// Decoder turns a raw privateLicenseKey value into key bytes.
type Decoder func(payload string) ([]byte, error)

// Group is the result of scanning one numbered child of the activation root.
type Group struct {
	Index    int       `json:"index"`
	Type     string    `json:"type"`
	Kind     EntryKind `json:"-"`
	Name     string    `json:"name,omitempty"`
	Leaves   int       `json:"leaves"`
	Payloads int       `json:"payloads"`
	Keys     [][]byte  `json:"-"`
}

// Accepted reports whether the group's keys count towards the result.
func (g Group) Accepted() bool { return g.Kind == KindCredentials }

// Walker enumerates the two-level activation tree.
type Walker struct {
	// MaxInner bounds the leaf index within a group. Zero means
	// DefaultMaxInner.
	MaxInner int

	// Decode unwraps privateLicenseKey values. When nil, payloads are
	// counted but not decoded.
	Decode Decoder

	Log *runlog.Logger
}

func (w *Walker) maxInner() int {
	if w.MaxInner > 0 {
		return w.MaxInner
	}
	return DefaultMaxInner
}

// Walk scans root's children 0000, 0001, ... until the first one that
// cannot be opened. The first gap ends the whole walk. A decode failure
// aborts the walk.
func (w *Walker) Walk(root store.Node) ([]Group, error) {
	var groups []Group
	for i := 0; ; i++ {
		node, err := root.Open(store.IndexName(i))
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				w.Log.Warn("Stopping credential scan on open error", "index", i, "error", err)
			} else {
				w.Log.Debug("Credential scan finished", "groups", i)
			}
			break
		}

		g, err := w.walkGroup(i, node)
		node.Close()
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (w *Walker) walkGroup(index int, node store.Node) (Group, error) {
	g := Group{Index: index}

	declared, err := node.String("")
	if err != nil {
		w.Log.Warn("Credential group has no type", "index", index, "error", err)
	}
	g.Type = declared
	g.Kind = ParseEntryKind(declared)

	if g.Kind != KindCredentials {
		w.Log.Debug("Skipping group", "index", index, "type", declared)
		return g, nil
	}

	var name NameBuilder
	for j := 0; j < w.maxInner(); j++ {
		leaf, err := node.Open(store.IndexName(j))
		if err != nil {
			break
		}
		err = w.visitLeaf(index, j, leaf, &g, &name)
		leaf.Close()
		if err != nil {
			return g, err
		}
		g.Leaves++
	}
	if g.Leaves == w.maxInner() {
		w.Log.Debug("Leaf scan reached its cap", "index", index, "max", w.maxInner())
	}

	g.Name = name.String()
	return g, nil
}

func (w *Walker) visitLeaf(group, index int, leaf store.Node, g *Group, name *NameBuilder) error {
	declared, _ := leaf.String("")
	kind := ParseEntryKind(declared)

	switch kind {
	case KindUser:
		v, err := leaf.String("value")
		if err != nil {
			w.Log.Warn("user entry without value", "group", group, "leaf", index)
			return nil
		}
		name.AddUser(v)

	case KindUsername:
		name.AddUsername(optional(leaf, "method"), optional(leaf, "value"))

	case KindPrivateLicenseKey:
		v, err := leaf.String("value")
		if err != nil {
			w.Log.Warn("privateLicenseKey entry without value", "group", group, "leaf", index)
			return nil
		}
		g.Payloads++
		if w.Decode == nil {
			return nil
		}
		key, err := w.Decode(v)
		if err != nil {
			return err
		}
		g.Keys = append(g.Keys, key)

	case KindCredentials, KindOther:
		w.Log.Debug("Ignoring leaf", "group", group, "leaf", index, "type", declared)
	}
	return nil
}

func optional(n store.Node, name string) *string {
	v, err := n.String(name)
	if err != nil {
		return nil
	}
	return &v
}

// CollectKeys flattens the keys of accepted groups, pairing each with its
// group's name, in walk order.
func CollectKeys(groups []Group) []Key {
	var keys []Key
	for _, g := range groups {
		if !g.Accepted() {
			continue
		}
		for _, k := range g.Keys {
			keys = append(keys, Key{Bytes: k, Name: g.Name})
		}
	}
	return keys
}
