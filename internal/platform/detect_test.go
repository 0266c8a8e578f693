package platform

import (
	"errors"
	"testing"

	"github.com/wethinkt/go-adeptkey/internal/adept"
)

func TestDetect(t *testing.T) {
	orig := goos
	t.Cleanup(func() { goos = orig })

	tests := []struct {
		name    string
		goos    string
		opts    Options
		want    string
		wantErr error
	}{
		{"windows", "windows", Options{}, "registry", nil},
		{"darwin", "darwin", Options{ADEDir: "/x"}, "activation-file", nil},
		{"hive wins everywhere", "darwin", Options{Hive: "NTUSER.DAT", ADEDir: "/x"}, "registry", nil},
		{"explicit dir on windows", "windows", Options{ADEDir: "/x", ADEDirExplicit: true}, "activation-file", nil},
		{"linux with explicit dir", "linux", Options{ADEDir: "/x", ADEDirExplicit: true}, "activation-file", nil},
		{"linux default dir", "linux", Options{ADEDir: "/x"}, "", adept.ErrUnsupportedPlatform},
		{"linux nothing", "linux", Options{}, "", adept.ErrUnsupportedPlatform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goos = tt.goos
			p, err := Detect(tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Detect() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if p.Name() != tt.want {
				t.Errorf("Detect() = %s, want %s", p.Name(), tt.want)
			}
		})
	}
}

func TestDetectPassesMaxInner(t *testing.T) {
	orig := goos
	t.Cleanup(func() { goos = orig })
	goos = "windows"

	p, err := Detect(Options{MaxInner: 3})
	if err != nil {
		t.Fatal(err)
	}
	if rp, ok := p.(*RegistryPlatform); !ok || rp.MaxInner != 3 {
		t.Errorf("Detect() = %#v", p)
	}
}
