//go:build windows

package fingerprint

import (
	"fmt"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

// windowsProbe owns the advapi32 handle used for the account lookup.
type windowsProbe struct {
	getUserName *windows.LazyProc
}

// NewHostProbe returns the probe for this host.
func NewHostProbe() HostProbe {
	advapi32 := windows.NewLazySystemDLL("advapi32.dll")
	return &windowsProbe{getUserName: advapi32.NewProc("GetUserNameW")}
}

// VolumeSerial reads the serial of the volume holding the system directory.
func (p *windowsProbe) VolumeSerial() (uint32, error) {
	sysdir, err := windows.GetSystemDirectory()
	if err != nil {
		return 0, fmt.Errorf("GetSystemDirectory: %w", err)
	}
	root, err := windows.UTF16PtrFromString(filepath.VolumeName(sysdir) + `\`)
	if err != nil {
		return 0, err
	}

	var serial uint32
	if err := windows.GetVolumeInformation(root, nil, 0, &serial, nil, nil, nil, 0); err != nil {
		return 0, fmt.Errorf("GetVolumeInformation: %w", err)
	}
	return serial, nil
}

func (p *windowsProbe) ProcessorVendor() ([12]byte, error) { return processorVendor() }

func (p *windowsProbe) ProcessorSignature() (uint32, error) { return processorSignature() }

func (p *windowsProbe) AccountName() (string, error) {
	if err := p.getUserName.Find(); err != nil {
		return "", err
	}
	// UNLEN + 1
	size := uint32(257)
	buf := make([]uint16, size)
	r, _, err := p.getUserName.Call(uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&size)))
	if r == 0 {
		return "", fmt.Errorf("GetUserNameW: %w", err)
	}
	return windows.UTF16ToString(buf), nil
}
