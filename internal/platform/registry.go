// Package platform implements the recovery strategies for the places ADE
// keeps its activation: the Windows registry (device key protected with
// DPAPI) and the macOS activation.dat file (key stored in the clear).
package platform

import (
	"errors"
	"fmt"

	"github.com/wethinkt/go-adeptkey/internal/adept"
	"github.com/wethinkt/go-adeptkey/internal/dpapi"
	"github.com/wethinkt/go-adeptkey/internal/fingerprint"
	"github.com/wethinkt/go-adeptkey/internal/runlog"
	"github.com/wethinkt/go-adeptkey/internal/store"
)

// Registry paths below HKEY_CURRENT_USER.
const (
	DevicePath     = `Software\Adobe\Adept\Device`
	ActivationPath = `Software\Adobe\Adept\Activation`
)

// RegistryPlatform recovers keys from the ADEPT registry tree.
type RegistryPlatform struct {
	// Open returns the HKEY_CURRENT_USER root, live or from a hive file.
	Open func() (store.Node, error)

	// Source names the root in diagnostics.
	Source string

	Probe       fingerprint.HostProbe
	Unprotector dpapi.Unprotector
	MaxInner    int
}

// NewRegistryPlatform returns a strategy over open using this host's probe
// and DPAPI.
func NewRegistryPlatform(open func() (store.Node, error), source string, maxInner int) *RegistryPlatform {
	return &RegistryPlatform{
		Open:        open,
		Source:      source,
		Probe:       fingerprint.NewHostProbe(),
		Unprotector: dpapi.New(),
		MaxInner:    maxInner,
	}
}

type registryLocation struct {
	root     store.Node
	source   string
	blob     []byte
	username *string
}

func (l *registryLocation) Describe() string { return l.source + `\` + DevicePath }

func (l *registryLocation) Close() error { return l.root.Close() }

func (p *RegistryPlatform) Name() string { return "registry" }

func (p *RegistryPlatform) openRoot() (store.Node, error) {
	root, err := p.Open()
	if err != nil {
		if errors.Is(err, store.ErrUnsupported) {
			return nil, adept.NewError(adept.UnsupportedPlatform, err, adept.ErrUnsupportedPlatform.Msg)
		}
		return nil, fmt.Errorf("open %s: %w", p.Source, err)
	}
	return root, nil
}

// LocateStore reads the protected device key and the optional account
// name recorded next to it.
func (p *RegistryPlatform) LocateStore() (adept.Location, error) {
	root, err := p.openRoot()
	if err != nil {
		return nil, err
	}

	dev, err := root.Open(DevicePath)
	if err != nil {
		root.Close()
		return nil, adept.NewError(adept.NotActivated, err, adept.ErrNotActivated.Msg)
	}
	defer dev.Close()

	blob, err := dev.Binary("key")
	if err != nil {
		root.Close()
		return nil, adept.NewError(adept.NotActivated, err, adept.ErrNotActivated.Msg)
	}

	loc := &registryLocation{root: root, source: p.Source, blob: blob}
	if name, err := dev.String("username"); err == nil {
		loc.username = &name
	}
	return loc, nil
}

func location(loc adept.Location) (*registryLocation, error) {
	l, ok := loc.(*registryLocation)
	if !ok {
		return nil, fmt.Errorf("registry platform: unexpected location %T", loc)
	}
	return l, nil
}

// DeriveEntropy rebuilds the machine fingerprint.
func (p *RegistryPlatform) DeriveEntropy(loc adept.Location) ([]byte, error) {
	l, err := location(loc)
	if err != nil {
		return nil, err
	}
	info, err := p.derive(l)
	if err != nil {
		return nil, err
	}
	return info.Entropy.Bytes(), nil
}

func (p *RegistryPlatform) derive(l *registryLocation) (fingerprint.Info, error) {
	info, err := fingerprint.Derive(p.Probe, l.username)
	if err != nil {
		if errors.Is(err, fingerprint.ErrUnsupported) {
			return info, adept.NewError(adept.UnsupportedPlatform, err, adept.ErrUnsupportedPlatform.Msg)
		}
		return info, err
	}
	runlog.Log.Debug("Derived fingerprint", "account_source", info.AccountSource)
	return info, nil
}

// UnwrapDeviceKey unprotects the device key with DPAPI.
func (p *RegistryPlatform) UnwrapDeviceKey(loc adept.Location, entropy []byte) ([]byte, error) {
	l, err := location(loc)
	if err != nil {
		return nil, err
	}
	key, err := p.Unprotector.Unprotect(l.blob, entropy)
	if err != nil {
		if errors.Is(err, dpapi.ErrUnsupported) {
			return nil, adept.NewError(adept.UnsupportedPlatform, err, adept.ErrUnsupportedPlatform.Msg)
		}
		return nil, adept.NewError(adept.Unwrap, err, adept.ErrUnwrap.Msg)
	}
	if !adept.KeySizeOK(len(key)) {
		runlog.Log.Warn("Device key has an unusual length", "bytes", len(key))
	}
	return key, nil
}

// EnumerateCredentials walks the activation tree.
func (p *RegistryPlatform) EnumerateCredentials(loc adept.Location, decode adept.Decoder) ([]adept.Key, error) {
	l, err := location(loc)
	if err != nil {
		return nil, err
	}
	groups, err := p.walk(l.root, decode)
	if err != nil {
		return nil, err
	}
	return adept.CollectKeys(groups), nil
}

func (p *RegistryPlatform) walk(root store.Node, decode adept.Decoder) ([]adept.Group, error) {
	act, err := root.Open(ActivationPath)
	if err != nil {
		return nil, adept.NewError(adept.NoCredentials, err, adept.ErrNoCredentials.Msg)
	}
	defer act.Close()

	w := &adept.Walker{MaxInner: p.MaxInner, Decode: decode, Log: runlog.Log}
	return w.Walk(act)
}

// DecodePayload decrypts one registry privateLicenseKey.
func (p *RegistryPlatform) DecodePayload(intermediate []byte, payload string) ([]byte, error) {
	return adept.DecryptLicenseKey(intermediate, payload)
}

// Inspect lists the credential groups without touching DPAPI.
func (p *RegistryPlatform) Inspect() (adept.Report, error) {
	report := adept.Report{Platform: p.Name(), Store: p.Source + `\` + ActivationPath}

	root, err := p.openRoot()
	if err != nil {
		return report, err
	}
	defer root.Close()

	act, err := root.Open(ActivationPath)
	if err != nil {
		return report, adept.NewError(adept.NoCredentials, err, adept.ErrNoCredentials.Msg)
	}
	defer act.Close()

	if s, ok := act.(store.Stater); ok {
		if t, err := s.ModTime(); err == nil {
			report.Modified = t
		}
	}

	w := &adept.Walker{MaxInner: p.MaxInner, Log: runlog.Log}
	report.Groups, err = w.Walk(act)
	return report, err
}

// Fingerprint derives the entropy the way LocateStore and DeriveEntropy do,
// for diagnostics.
func (p *RegistryPlatform) Fingerprint() (fingerprint.Info, error) {
	loc, err := p.LocateStore()
	if err != nil {
		return fingerprint.Info{}, err
	}
	defer loc.Close()
	return p.derive(loc.(*registryLocation))
}
