//go:build !windows

package fingerprint

type unsupportedProbe struct{}

// NewHostProbe returns the probe for this host. ADE protects its device key
// only on Windows, so every query fails here.
func NewHostProbe() HostProbe { return unsupportedProbe{} }

func (unsupportedProbe) VolumeSerial() (uint32, error)       { return 0, ErrUnsupported }
func (unsupportedProbe) ProcessorVendor() ([12]byte, error)  { return [12]byte{}, ErrUnsupported }
func (unsupportedProbe) ProcessorSignature() (uint32, error) { return 0, ErrUnsupported }
func (unsupportedProbe) AccountName() (string, error)        { return "", ErrUnsupported }
