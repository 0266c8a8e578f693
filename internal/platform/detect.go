package platform

import (
	"runtime"

	"github.com/wethinkt/go-adeptkey/internal/adept"
	"github.com/wethinkt/go-adeptkey/internal/runlog"
	"github.com/wethinkt/go-adeptkey/internal/store"
)

// Options selects and configures the strategy.
type Options struct {
	// Hive is an offline NTUSER.DAT to read instead of the live registry.
	Hive string

	// ADEDir is searched for activation.dat. ADEDirExplicit is set when it
	// came from a flag, config, or environment rather than the default.
	ADEDir         string
	ADEDirExplicit bool

	MaxInner int
}

// goos is replaced in tests.
var goos = runtime.GOOS

// Detect picks the strategy for this host. A hive file always selects the
// registry strategy and an explicit ADE directory the activation file.
// Otherwise Windows uses the live registry and macOS the default ADE
// directory.
func Detect(opts Options) (adept.Platform, error) {
	var p adept.Platform
	switch {
	case opts.Hive != "":
		hive := opts.Hive
		p = NewRegistryPlatform(func() (store.Node, error) { return store.OpenHive(hive) }, hive, opts.MaxInner)
	case opts.ADEDirExplicit && opts.ADEDir != "":
		p = &ActivationFilePlatform{Dir: opts.ADEDir}
	case goos == "windows":
		p = NewRegistryPlatform(store.OpenCurrentUser, "HKCU", opts.MaxInner)
	case goos == "darwin":
		p = &ActivationFilePlatform{Dir: opts.ADEDir}
	default:
		return nil, adept.ErrUnsupportedPlatform
	}
	runlog.Log.Debug("Selected platform", "platform", p.Name(), "os", goos)
	return p, nil
}
