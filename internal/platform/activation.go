package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/wethinkt/go-adeptkey/internal/adept"
	"github.com/wethinkt/go-adeptkey/internal/runlog"
)

// ActivationFileName is the file ADE writes on activation.
const ActivationFileName = "activation.dat"

// FindActivationFile returns the first activation.dat below dir in lexical
// order.
func FindActivationFile(dir string) (string, error) {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", adept.NewError(adept.NotActivated, err, adept.ErrNotActivated.Msg)
		}
		return "", err
	}

	matches, err := doublestar.Glob(os.DirFS(dir), "**/"+ActivationFileName)
	if err != nil {
		return "", fmt.Errorf("search %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return "", adept.Errorf(adept.NotActivated, nil, "%s: no %s under %s", adept.ErrNotActivated.Msg, ActivationFileName, dir)
	}
	slices.Sort(matches)
	if len(matches) > 1 {
		runlog.Log.Info("Several activation files found, using the first", "count", len(matches), "path", matches[0])
	}
	return filepath.Join(dir, filepath.FromSlash(matches[0])), nil
}

// ActivationFilePlatform recovers the key from activation.dat. Nothing is
// protected, so the entropy and unwrap steps are no-ops.
type ActivationFilePlatform struct {
	Dir string
}

type fileLocation struct {
	path  string
	creds adept.Credentials
}

func (l *fileLocation) Describe() string { return l.path }
func (l *fileLocation) Close() error     { return nil }

func (p *ActivationFilePlatform) Name() string { return "activation-file" }

func (p *ActivationFilePlatform) LocateStore() (adept.Location, error) {
	path, err := FindActivationFile(p.Dir)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	creds, err := adept.ParseActivation(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &fileLocation{path: path, creds: creds}, nil
}

func (p *ActivationFilePlatform) DeriveEntropy(adept.Location) ([]byte, error) { return nil, nil }

func (p *ActivationFilePlatform) UnwrapDeviceKey(adept.Location, []byte) ([]byte, error) {
	return nil, nil
}

func (p *ActivationFilePlatform) EnumerateCredentials(loc adept.Location, decode adept.Decoder) ([]adept.Key, error) {
	l, ok := loc.(*fileLocation)
	if !ok {
		return nil, fmt.Errorf("activation file platform: unexpected location %T", loc)
	}
	if l.creds.PrivateLicenseKey == nil {
		return nil, adept.ErrNoKeyFound
	}
	key, err := decode(*l.creds.PrivateLicenseKey)
	if err != nil {
		return nil, err
	}
	return []adept.Key{{Bytes: key, Name: l.creds.Name()}}, nil
}

func (p *ActivationFilePlatform) DecodePayload(_ []byte, payload string) ([]byte, error) {
	return adept.DecodeLicenseKey(payload)
}

// Inspect reports the credentials element as a single group.
func (p *ActivationFilePlatform) Inspect() (adept.Report, error) {
	report := adept.Report{Platform: p.Name(), Store: p.Dir}

	loc, err := p.LocateStore()
	if err != nil {
		return report, err
	}
	l := loc.(*fileLocation)
	report.Store = l.path
	if info, err := os.Stat(l.path); err == nil {
		report.Modified = info.ModTime()
	}

	c := l.creds
	g := adept.Group{Type: adept.KindCredentials.String(), Kind: adept.KindCredentials, Name: c.Name()}
	for _, field := range []*string{c.User, c.Username, c.PrivateLicenseKey} {
		if field != nil {
			g.Leaves++
		}
	}
	if c.PrivateLicenseKey != nil {
		g.Payloads = 1
	}
	report.Groups = []adept.Group{g}
	return report, nil
}
