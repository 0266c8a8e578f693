package store

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func openTestHive(t *testing.T) Node {
	t.Helper()
	root, err := OpenHive(filepath.Join("testdata", "NTUSER.DAT"))
	if err != nil {
		t.Fatalf("OpenHive() error = %v", err)
	}
	t.Cleanup(func() { root.Close() })
	return root
}

func TestHiveOpenIgnoresCase(t *testing.T) {
	root := openTestHive(t)
	for _, path := range []string{
		"Software",
		"software",
		"SOFTWARE",
		`software\JETICO`,
		`\Control Panel\desktop\`,
	} {
		k, err := root.Open(path)
		if err != nil {
			t.Errorf("Open(%q) error = %v", path, err)
			continue
		}
		k.Close()
	}
}

func TestHiveOpenNested(t *testing.T) {
	root := openTestHive(t)
	sw, err := root.Open("SOFTWARE")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sw.Open("jetico"); err != nil {
		t.Errorf("Open(jetico) below Software error = %v", err)
	}
}

func TestHiveNotFound(t *testing.T) {
	root := openTestHive(t)
	if _, err := root.Open(`Software\Adobe\Adept`); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open(missing key) error = %v, want ErrNotFound", err)
	}
	if _, err := root.String("nothing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("String(missing) on root error = %v, want ErrNotFound", err)
	}
	env, err := root.Open("Environment")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.Binary("nothing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Binary(missing) error = %v, want ErrNotFound", err)
	}
}

func TestHiveString(t *testing.T) {
	env, err := openTestHive(t).Open("environment")
	if err != nil {
		t.Fatal(err)
	}
	got, err := env.String("temp")
	if err != nil {
		t.Fatalf("String(temp) error = %v", err)
	}
	if !strings.HasPrefix(got, `%USERPROFILE%\Local Settings`) || strings.HasSuffix(got, "\x00") {
		t.Errorf("String(temp) = %q", got)
	}
}

func TestHiveModTime(t *testing.T) {
	k, err := openTestHive(t).Open("software")
	if err != nil {
		t.Fatal(err)
	}
	st, ok := k.(Stater)
	if !ok {
		t.Fatal("hive key does not implement Stater")
	}
	mod, err := st.ModTime()
	if err != nil {
		t.Fatalf("ModTime() error = %v", err)
	}
	if mod.IsZero() || mod.Year() < 1990 {
		t.Errorf("ModTime() = %v", mod)
	}
}
