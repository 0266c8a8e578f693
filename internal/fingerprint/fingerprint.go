// Package fingerprint rebuilds the machine entropy that Adobe Digital
// Editions passed to DPAPI when it protected the device key.
//
// The entropy is 32 bytes: the system volume serial (big-endian), the CPUID
// vendor string, the low three bytes of the CPUID signature, and the first
// 13 bytes of the narrowed account name.
package fingerprint

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"

	"github.com/wethinkt/go-adeptkey/internal/runlog"
)

// Size is the width of the entropy in bytes.
const Size = 32

const accountLen = 13

// ErrUnsupported is returned by probes on hosts where ADE never runs.
var ErrUnsupported = errors.New("fingerprint: not supported on this platform")

// HostProbe reads the host identifiers that make up the entropy.
type HostProbe interface {
	VolumeSerial() (uint32, error)
	ProcessorVendor() ([12]byte, error)
	ProcessorSignature() (uint32, error)
	AccountName() (string, error)
}

// Entropy is the packed fingerprint.
type Entropy [Size]byte

// Hex returns the entropy as lowercase hex.
func (e Entropy) Hex() string { return hex.EncodeToString(e[:]) }

// Bytes returns a copy of the entropy.
func (e Entropy) Bytes() []byte { return append([]byte(nil), e[:]...) }

func (e Entropy) MarshalText() ([]byte, error) { return []byte(e.Hex()), nil }

// Components are the raw identifiers packed into the entropy.
type Components struct {
	VolumeSerial uint32   `json:"volume_serial"`
	Vendor       [12]byte `json:"-"`
	Signature    uint32   `json:"cpu_signature"`

	// Account is the name before narrowing. AccountSource says where it
	// came from: "device", "os", or "" when none was found.
	Account       string `json:"account"`
	AccountSource string `json:"account_source"`
}

// VendorString returns the vendor bytes as text.
func (c Components) VendorString() string { return strings.TrimRight(string(c.Vendor[:]), "\x00") }

// Build packs c into the entropy layout. It never fails; fields that are
// too long are truncated and short ones are zero-padded.
func Build(c Components) Entropy {
	var e Entropy
	binary.BigEndian.PutUint32(e[0:4], c.VolumeSerial)
	copy(e[4:16], c.Vendor[:])

	var sig [4]byte
	binary.BigEndian.PutUint32(sig[:], c.Signature)
	copy(e[16:19], sig[1:])

	copy(e[19:19+accountLen], NarrowName(c.Account))
	return e
}

// NarrowName encodes name as UTF-16LE and keeps the low byte of each code
// unit. Characters outside Latin-1 lose their high byte.
func NarrowName(name string) []byte {
	wide, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(name))
	if err != nil {
		wide = wide[:0]
		for _, u := range utf16.Encode([]rune(name)) {
			wide = append(wide, byte(u), byte(u>>8))
		}
	}
	out := make([]byte, 0, len(wide)/2)
	for i := 0; i+1 < len(wide); i += 2 {
		out = append(out, wide[i])
	}
	return out
}

// Info is a derived fingerprint together with its inputs.
type Info struct {
	Components
	CPUVendor string  `json:"cpu_vendor"`
	Entropy   Entropy `json:"entropy"`
}

// String returns a human-readable representation of the fingerprint info.
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Volume serial: %08X\n", i.VolumeSerial)
	fmt.Fprintf(&b, "CPU vendor:    %s\n", i.CPUVendor)
	fmt.Fprintf(&b, "CPU signature: %06X\n", i.Signature&0xFFFFFF)
	if i.AccountSource != "" {
		fmt.Fprintf(&b, "Account:       %s (%s)\n", i.Account, i.AccountSource)
	} else {
		fmt.Fprintf(&b, "Account:       (none)\n")
	}
	fmt.Fprintf(&b, "Entropy:       %s\n", i.Entropy.Hex())
	return b.String()
}

// Derive queries probe and builds the entropy. account, when non-nil, is
// the name recorded next to the device key and takes precedence over the
// OS account. A missing account name is not an error.
func Derive(probe HostProbe, account *string) (Info, error) {
	var c Components
	var err error

	if c.VolumeSerial, err = probe.VolumeSerial(); err != nil {
		return Info{}, fmt.Errorf("volume serial: %w", err)
	}
	if c.Vendor, err = probe.ProcessorVendor(); err != nil {
		return Info{}, fmt.Errorf("processor vendor: %w", err)
	}
	if c.Signature, err = probe.ProcessorSignature(); err != nil {
		return Info{}, fmt.Errorf("processor signature: %w", err)
	}

	switch {
	case account != nil:
		c.Account, c.AccountSource = *account, "device"
	default:
		name, err := probe.AccountName()
		if err != nil {
			runlog.Log.Warn("No account name for fingerprint, leaving it empty", "error", err)
		} else {
			c.Account, c.AccountSource = name, "os"
		}
	}

	return Info{Components: c, CPUVendor: c.VendorString(), Entropy: Build(c)}, nil
}
