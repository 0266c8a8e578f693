package fingerprint

import (
	"errors"

	"github.com/klauspost/cpuid/v2"
)

// processorVendor returns the 12-byte CPUID leaf 0 vendor string.
func processorVendor() ([12]byte, error) {
	var v [12]byte
	if cpuid.CPU.VendorString == "" {
		return v, errors.New("cpuid: vendor string unavailable")
	}
	copy(v[:], cpuid.CPU.VendorString)
	return v, nil
}

// processorSignature returns the CPUID leaf 1 EAX value. cpuid exposes the
// decoded family, model and stepping, so the register is rebuilt from them;
// the processor type bits (13:12) are always zero.
func processorSignature() (uint32, error) {
	if cpuid.CPU.Family == 0 && cpuid.CPU.Model == 0 && cpuid.CPU.Stepping == 0 {
		return 0, errors.New("cpuid: signature unavailable")
	}
	return signature(cpuid.CPU.Family, cpuid.CPU.Model, cpuid.CPU.Stepping), nil
}

// signature is the inverse of the family/model/stepping decoding in the
// EAX of CPUID leaf 1.
func signature(family, model, stepping int) uint32 {
	baseFamily, extFamily := family, 0
	if family >= 0xF {
		baseFamily, extFamily = 0xF, family-0xF
	}

	baseModel, extModel := model&0xF, 0
	if baseFamily == 0x6 || baseFamily == 0xF {
		extModel = (model >> 4) & 0xF
	}

	return uint32(extFamily&0xFF)<<20 |
		uint32(extModel)<<16 |
		uint32(baseFamily)<<8 |
		uint32(baseModel)<<4 |
		uint32(stepping&0xF)
}
