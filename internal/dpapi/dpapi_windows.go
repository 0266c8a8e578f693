//go:build windows

package dpapi

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

func unprotect(blob, entropy []byte) ([]byte, error) {
	if len(blob) == 0 {
		return nil, errors.New("dpapi: empty blob")
	}

	in := windows.DataBlob{Size: uint32(len(blob)), Data: &blob[0]}
	var ent *windows.DataBlob
	if len(entropy) > 0 {
		ent = &windows.DataBlob{Size: uint32(len(entropy)), Data: &entropy[0]}
	}

	var out windows.DataBlob
	if err := windows.CryptUnprotectData(&in, nil, ent, 0, nil, windows.CRYPTPROTECT_UI_FORBIDDEN, &out); err != nil {
		return nil, fmt.Errorf("CryptUnprotectData: %w", err)
	}
	defer windows.LocalFree(windows.Handle(unsafe.Pointer(out.Data)))

	return append([]byte(nil), unsafe.Slice(out.Data, out.Size)...), nil
}
