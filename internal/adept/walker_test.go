package adept

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/wethinkt/go-adeptkey/internal/store"
)

func echoDecoder(payload string) ([]byte, error) {
	return []byte("key:" + payload), nil
}

// credentialsGroup adds a credentials group at index with the given
// user, username and key leaves.
func credentialsGroup(root *store.Memory, index string, user string, method, username *string, payload string) {
	g := root.Child(index).SetString("", "credentials")
	leaf := 0
	next := func() *store.Memory {
		n := g.Child(store.IndexName(leaf))
		leaf++
		return n
	}
	if user != "" {
		next().SetString("", "user").SetString("value", user)
	}
	if method != nil || username != nil {
		n := next().SetString("", "username")
		if method != nil {
			n.SetString("method", *method)
		}
		if username != nil {
			n.SetString("value", *username)
		}
	}
	if payload != "" {
		next().SetString("", "privateLicenseKey").SetString("value", payload)
	}
}

func TestWalkStopsAtFirstGap(t *testing.T) {
	root := store.NewMemory()
	root.Child("0000").SetString("", "licenseServiceInfo")
	credentialsGroup(root, "0001", "urn:uuid:abc", strp("AdobeID"), strp("me@example.com"), "K1")
	// 0002 is missing; 0003 must never be reached.
	credentialsGroup(root, "0003", "urn:uuid:late", nil, nil, "K2")

	w := &Walker{Decode: echoDecoder}
	groups, err := w.Walk(root)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	if len(groups) != 2 {
		t.Fatalf("Walk() returned %d groups, want 2", len(groups))
	}
	if groups[0].Accepted() || groups[0].Type != "licenseServiceInfo" {
		t.Errorf("group 0 = %+v, want skipped licenseServiceInfo", groups[0])
	}

	keys := CollectKeys(groups)
	if len(keys) != 1 {
		t.Fatalf("CollectKeys() = %d keys, want 1", len(keys))
	}
	if !bytes.Equal(keys[0].Bytes, []byte("key:K1")) {
		t.Errorf("key bytes = %q", keys[0].Bytes)
	}
	if keys[0].Name != "abc_AdobeID_me@example.com" {
		t.Errorf("key name = %q", keys[0].Name)
	}

	opened := root.Opened()
	if slices.Contains(opened, "0003") {
		t.Errorf("walk opened 0003 past the gap: %v", opened)
	}
	if !slices.Equal(opened, []string{"0000", "0001", "0002"}) {
		t.Errorf("Opened() = %v", opened)
	}
}

func TestWalkUnknownName(t *testing.T) {
	root := store.NewMemory()
	credentialsGroup(root, "0000", "", nil, nil, "K")

	groups, err := (&Walker{Decode: echoDecoder}).Walk(root)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	keys := CollectKeys(groups)
	if len(keys) != 1 || keys[0].Name != UnknownName {
		t.Errorf("keys = %+v, want one named %q", keys, UnknownName)
	}
}

func TestWalkPairsKeysWithOwnGroup(t *testing.T) {
	root := store.NewMemory()
	credentialsGroup(root, "0000", "urn:uuid:first", nil, nil, "A")
	credentialsGroup(root, "0001", "urn:uuid:second", nil, nil, "")
	credentialsGroup(root, "0002", "urn:uuid:third", nil, nil, "C")

	groups, err := (&Walker{Decode: echoDecoder}).Walk(root)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	keys := CollectKeys(groups)
	var got []string
	for _, k := range keys {
		got = append(got, k.Name+"="+string(k.Bytes))
	}
	want := []string{"first=key:A", "third=key:C"}
	if !slices.Equal(got, want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
}

func TestWalkLeafCap(t *testing.T) {
	root := store.NewMemory()
	g := root.Child("0000").SetString("", "credentials")
	for j := 0; j < 20; j++ {
		g.Child(store.IndexName(j)).SetString("", "privateLicenseKey").SetString("value", store.IndexName(j))
	}

	tests := []struct {
		max  int
		want int
	}{
		{0, DefaultMaxInner},
		{4, 4},
		{32, 20},
	}
	for _, tt := range tests {
		groups, err := (&Walker{MaxInner: tt.max, Decode: echoDecoder}).Walk(root)
		if err != nil {
			t.Fatalf("Walk(max %d) error = %v", tt.max, err)
		}
		if n := len(groups[0].Keys); n != tt.want {
			t.Errorf("Walk(max %d) decoded %d keys, want %d", tt.max, n, tt.want)
		}
	}
}

func TestWalkInnerGapEndsGroupOnly(t *testing.T) {
	root := store.NewMemory()
	g := root.Child("0000").SetString("", "credentials")
	g.Child("0000").SetString("", "user").SetString("value", "urn:uuid:u")
	g.Child("0002").SetString("", "privateLicenseKey").SetString("value", "hidden")
	credentialsGroup(root, "0001", "urn:uuid:v", nil, nil, "K")

	groups, err := (&Walker{Decode: echoDecoder}).Walk(root)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("Walk() returned %d groups, want 2", len(groups))
	}
	if groups[0].Leaves != 1 || len(groups[0].Keys) != 0 {
		t.Errorf("group 0 = %+v, want one leaf and no keys", groups[0])
	}
	if len(groups[1].Keys) != 1 {
		t.Errorf("group 1 keys = %d, want 1", len(groups[1].Keys))
	}
}

func TestWalkSkipsLeavesWithoutValue(t *testing.T) {
	root := store.NewMemory()
	g := root.Child("0000").SetString("", "credentials")
	g.Child("0000").SetString("", "user")
	g.Child("0001").SetString("", "privateLicenseKey")
	g.Child("0002").SetString("", "privateLicenseKey").SetString("value", "K")

	groups, err := (&Walker{Decode: echoDecoder}).Walk(root)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if groups[0].Leaves != 3 || len(groups[0].Keys) != 1 {
		t.Errorf("group = %+v, want 3 leaves and 1 key", groups[0])
	}
	if groups[0].Name != UnknownName {
		t.Errorf("name = %q, want %q", groups[0].Name, UnknownName)
	}
}

func TestWalkDecodeErrorAborts(t *testing.T) {
	root := store.NewMemory()
	credentialsGroup(root, "0000", "urn:uuid:a", nil, nil, "bad")
	credentialsGroup(root, "0001", "urn:uuid:b", nil, nil, "good")

	boom := Errorf(NoKeyFound, nil, "bad payload")
	w := &Walker{Decode: func(p string) ([]byte, error) {
		if p == "bad" {
			return nil, boom
		}
		return []byte(p), nil
	}}

	groups, err := w.Walk(root)
	if !errors.Is(err, ErrNoKeyFound) {
		t.Fatalf("Walk() error = %v, want NoKeyFound", err)
	}
	if groups != nil {
		t.Errorf("Walk() groups = %v, want nil on error", groups)
	}
	if slices.Contains(root.Opened(), "0001") {
		t.Error("walk continued after decode failure")
	}
}

func TestWalkWithoutDecoderCountsPayloads(t *testing.T) {
	root := store.NewMemory()
	credentialsGroup(root, "0000", "urn:uuid:a", nil, strp("anon"), "K")

	groups, err := (&Walker{}).Walk(root)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	g := groups[0]
	if g.Payloads != 1 || len(g.Keys) != 0 {
		t.Errorf("group = %+v, want 1 payload and no keys", g)
	}
	if g.Name != "a_anon" {
		t.Errorf("name = %q, want %q", g.Name, "a_anon")
	}
}

func TestWalkEmptyRoot(t *testing.T) {
	groups, err := (&Walker{}).Walk(store.NewMemory())
	if err != nil || len(groups) != 0 {
		t.Errorf("Walk(empty) = %v, %v", groups, err)
	}
}
