// Package adept recovers the ADEPT private license key that Adobe Digital
// Editions keeps after activation.
//
// The pipeline is fixed: locate the secure store, derive the machine
// entropy, unprotect the device key, walk the stored credentials, and
// unwrap each privateLicenseKey. Platform supplies each step; Recover runs
// them in order and stops at the first error.
package adept

import (
	"time"

	"github.com/awnumar/memguard"

	"github.com/wethinkt/go-adeptkey/internal/runlog"
)

// Key is one recovered private license key with its display name.
type Key struct {
	Bytes []byte `json:"-"`
	Name  string `json:"name"`
}

// Location is the opened secure store of one run. Implementations are
// specific to their Platform.
type Location interface {
	// Describe names the store for diagnostics (a registry path or file).
	Describe() string
	Close() error
}

// Platform is one storage and protection strategy.
type Platform interface {
	// Name identifies the strategy in logs and output.
	Name() string

	// LocateStore opens the store holding the device key and credentials.
	LocateStore() (Location, error)

	// DeriveEntropy rebuilds the auxiliary entropy used at protection
	// time. Strategies without a protection step return nil.
	DeriveEntropy(loc Location) ([]byte, error)

	// UnwrapDeviceKey unprotects the device key. Strategies without a
	// protection step return nil.
	UnwrapDeviceKey(loc Location, entropy []byte) ([]byte, error)

	// EnumerateCredentials returns every key found in the store, decoding
	// payloads with decode.
	EnumerateCredentials(loc Location, decode Decoder) ([]Key, error)

	// DecodePayload unwraps one stored privateLicenseKey.
	DecodePayload(intermediate []byte, payload string) ([]byte, error)
}

// Report describes a store without unprotecting anything.
type Report struct {
	Platform string    `json:"platform"`
	Store    string    `json:"store"`
	Modified time.Time `json:"modified,omitzero"`
	Groups   []Group   `json:"groups"`
}

// Inspector is implemented by platforms that can list their credential
// groups without unprotecting anything.
type Inspector interface {
	Inspect() (Report, error)
}

// Recover runs the full pipeline on p. It returns at least one key or an
// error; there is no partial result.
func Recover(p Platform) ([]Key, error) {
	log := runlog.Log
	defer log.Timed("recover " + p.Name())()

	loc, err := p.LocateStore()
	if err != nil {
		return nil, err
	}
	defer loc.Close()
	log.Info("Located secure store", "platform", p.Name(), "store", loc.Describe())

	entropy, err := p.DeriveEntropy(loc)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(entropy)

	intermediate, err := p.UnwrapDeviceKey(loc, entropy)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(intermediate)
	if intermediate != nil {
		log.Debug("Device key unwrapped", "key", describeKeySize(len(intermediate)))
	}

	keys, err := p.EnumerateCredentials(loc, func(payload string) ([]byte, error) {
		return p.DecodePayload(intermediate, payload)
	})
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, ErrNoKeyFound
	}

	log.Info("Recovered keys", "count", len(keys))
	return keys, nil
}
