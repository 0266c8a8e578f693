package store

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
	"time"
)

func TestIndexName(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0000"},
		{7, "0007"},
		{15, "0015"},
		{1234, "1234"},
	}
	for _, tt := range tests {
		if got := IndexName(tt.in); got != tt.want {
			t.Errorf("IndexName(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitPath(t *testing.T) {
	got := splitPath(`\Software\\Adobe\Adept\`)
	want := []string{"Software", "Adobe", "Adept"}
	if !slices.Equal(got, want) {
		t.Errorf("splitPath = %v, want %v", got, want)
	}
}

func TestMemoryOpenNested(t *testing.T) {
	root := NewMemory()
	root.Child(`Software\Adobe\Adept\Device`).
		SetBinary("key", []byte{1, 2, 3}).
		SetString("username", "reader")

	dev, err := root.Open(`software\adobe\ADEPT\device`)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer dev.Close()

	blob, err := dev.Binary("KEY")
	if err != nil {
		t.Fatalf("Binary() error = %v", err)
	}
	if !slices.Equal(blob, []byte{1, 2, 3}) {
		t.Errorf("Binary() = %v", blob)
	}

	user, err := dev.String("username")
	if err != nil || user != "reader" {
		t.Errorf("String() = %q, %v", user, err)
	}
}

func TestMemoryNotFound(t *testing.T) {
	root := NewMemory()
	root.Child("a").SetString("", "credentials")

	if _, err := root.Open(`a\b`); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open(missing) error = %v, want ErrNotFound", err)
	}

	a, _ := root.Open("a")
	if v, err := a.String(""); err != nil || v != "credentials" {
		t.Errorf("default value = %q, %v", v, err)
	}
	if _, err := a.String("value"); !errors.Is(err, ErrNotFound) {
		t.Errorf("String(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := a.Binary("key"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Binary(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryBinaryIsCopied(t *testing.T) {
	root := NewMemory()
	src := []byte{9, 9}
	root.SetBinary("k", src)
	src[0] = 0

	got, _ := root.Binary("k")
	got[1] = 0

	again, _ := root.Binary("k")
	if !slices.Equal(again, []byte{9, 9}) {
		t.Errorf("stored value was mutated: %v", again)
	}
}

func TestMemoryRecordsOpens(t *testing.T) {
	root := NewMemory()
	root.Child("0000")
	_, _ = root.Open("0000")
	_, _ = root.Open("0001")

	if got := root.Opened(); !slices.Equal(got, []string{"0000", "0001"}) {
		t.Errorf("Opened() = %v", got)
	}
}

func TestValueNameMatches(t *testing.T) {
	tests := []struct {
		got, want string
		match     bool
	}{
		{"", "", true},
		{"@", "", true},
		{"(Default)", "", true},
		{"value", "", false},
		{"Value", "value", true},
		{"method", "value", false},
	}
	for _, tt := range tests {
		if m := valueNameMatches(tt.got, tt.want); m != tt.match {
			t.Errorf("valueNameMatches(%q, %q) = %v, want %v", tt.got, tt.want, m, tt.match)
		}
	}
}

func TestOpenHiveMissingFile(t *testing.T) {
	if _, err := OpenHive(filepath.Join(t.TempDir(), "missing.dat")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("OpenHive(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestOpenCurrentUserOffWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("live registry is available on Windows")
	}
	if _, err := OpenCurrentUser(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("OpenCurrentUser() error = %v, want ErrUnsupported", err)
	}
}

func TestMemoryModTime(t *testing.T) {
	when := time.Date(2021, 5, 4, 3, 2, 1, 0, time.UTC)
	root := NewMemory()
	root.Child("a").SetModTime(when)

	n, err := root.Open("a")
	if err != nil {
		t.Fatal(err)
	}
	s, ok := n.(Stater)
	if !ok {
		t.Fatal("memory node does not implement Stater")
	}
	if got, _ := s.ModTime(); !got.Equal(when) {
		t.Errorf("ModTime() = %v, want %v", got, when)
	}
}
