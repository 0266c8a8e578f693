package adept

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
	"strings"
)

// HeaderSize is the length of the envelope header that precedes the DER
// key material in every decrypted or decoded privateLicenseKey.
const HeaderSize = 26

// DecryptLicenseKey unwraps a base64 privateLicenseKey stored in the
// registry: AES-CBC with an all-zero IV, trailing padding removed by count,
// envelope header stripped.
func DecryptLicenseKey(key []byte, encoded string) ([]byte, error) {
	ciphertext, err := decodeBase64(encoded)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, NewError(NoKeyFound, err, "Invalid intermediate key")
	}
	if len(ciphertext) == 0 || len(ciphertext)%block.BlockSize() != 0 {
		return nil, Errorf(NoKeyFound, nil, "privateLicenseKey length %d is not a multiple of the block size", len(ciphertext))
	}

	plaintext := make([]byte, len(ciphertext))
	iv := make([]byte, block.BlockSize())
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := unpad(plaintext)
	if err != nil {
		return nil, err
	}
	return stripHeader(unpadded)
}

// DecodeLicenseKey unwraps a privateLicenseKey that is stored unencrypted,
// as in activation.dat: base64 decode, then strip the envelope header.
func DecodeLicenseKey(encoded string) ([]byte, error) {
	raw, err := decodeBase64(encoded)
	if err != nil {
		return nil, err
	}
	return stripHeader(raw)
}

// unpad trusts the final byte as a count and drops that many bytes. The
// dropped bytes are not checked against each other.
func unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, NewError(NoKeyFound, nil, "privateLicenseKey is empty")
	}
	n := int(b[len(b)-1])
	if n > len(b) {
		return nil, Errorf(NoKeyFound, nil, "padding count %d exceeds payload length %d", n, len(b))
	}
	return b[:len(b)-n], nil
}

func stripHeader(b []byte) ([]byte, error) {
	if len(b) < HeaderSize {
		return nil, Errorf(NoKeyFound, nil, "privateLicenseKey too short (%d bytes, header is %d)", len(b), HeaderSize)
	}
	return b[HeaderSize:], nil
}

func decodeBase64(s string) ([]byte, error) {
	// XML text nodes may wrap the value across lines.
	s = strings.Join(strings.Fields(s), "")
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, NewError(NoKeyFound, err, "privateLicenseKey is not valid base64")
	}
	return b, nil
}

// KeySizeOK reports whether n is a valid AES key length.
func KeySizeOK(n int) bool {
	switch n {
	case 16, 24, 32:
		return true
	}
	return false
}

func describeKeySize(n int) string {
	if KeySizeOK(n) {
		return fmt.Sprintf("AES-%d", n*8)
	}
	return fmt.Sprintf("%d bytes (not an AES key size)", n)
}
