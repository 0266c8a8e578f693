package adept

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"math/rand/v2"
	"testing"
)

// sealLicenseKey wraps key material the way ADE stores it: header, key,
// PKCS#7 padding, AES-CBC with a zero IV, base64.
func sealLicenseKey(t *testing.T, intermediate, header, der []byte) string {
	t.Helper()
	plain := append(append([]byte(nil), header...), der...)
	return encryptRaw(t, intermediate, pkcs7(plain))
}

func pkcs7(b []byte) []byte {
	n := aes.BlockSize - len(b)%aes.BlockSize
	return append(append([]byte(nil), b...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func encryptRaw(t *testing.T, key, padded []byte) string {
	t.Helper()
	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatalf("aes.NewCipher: %v", err)
	}
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, make([]byte, aes.BlockSize)).CryptBlocks(out, padded)
	return base64.StdEncoding.EncodeToString(out)
}

func testHeader() []byte {
	h := make([]byte, HeaderSize)
	for i := range h {
		h[i] = byte(0xA0 + i)
	}
	return h
}

func TestDecryptRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	key := make([]byte, 16)
	for i := range key {
		key[i] = byte(rng.IntN(256))
	}

	for n := 1; n <= 256; n++ {
		plain := make([]byte, n)
		for i := range plain {
			plain[i] = byte(rng.IntN(256))
		}
		encoded := encryptRaw(t, key, pkcs7(plain))

		block, _ := aes.NewCipher(key)
		raw, _ := base64.StdEncoding.DecodeString(encoded)
		got := make([]byte, len(raw))
		cipher.NewCBCDecrypter(block, make([]byte, aes.BlockSize)).CryptBlocks(got, raw)
		got, err := unpad(got)
		if err != nil {
			t.Fatalf("len %d: unpad error = %v", n, err)
		}
		if !bytes.Equal(got, plain) {
			t.Fatalf("len %d: round trip mismatch", n)
		}
	}
}

func TestDecryptLicenseKey(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 16)
	der := []byte("0\x82\x02\x5c fake der body")

	got, err := DecryptLicenseKey(key, sealLicenseKey(t, key, testHeader(), der))
	if err != nil {
		t.Fatalf("DecryptLicenseKey() error = %v", err)
	}
	if !bytes.Equal(got, der) {
		t.Errorf("DecryptLicenseKey() = %x, want %x", got, der)
	}
}

func TestDecryptLicenseKeyAcceptsWrappedBase64(t *testing.T) {
	key := bytes.Repeat([]byte{7}, 32)
	der := bytes.Repeat([]byte{0x30}, 40)
	encoded := sealLicenseKey(t, key, testHeader(), der)
	wrapped := "\n  " + encoded[:10] + "\n  " + encoded[10:] + "\n"

	got, err := DecryptLicenseKey(key, wrapped)
	if err != nil {
		t.Fatalf("DecryptLicenseKey() error = %v", err)
	}
	if !bytes.Equal(got, der) {
		t.Error("wrapped base64 decoded to different key")
	}
}

func TestUnpadAdversarial(t *testing.T) {
	// Last byte says 5; the four before it are unrelated values.
	in := []byte{1, 2, 3, 4, 5, 6, 0xff, 0x00, 0x13, 0x77, 5}
	got, err := unpad(in)
	if err != nil {
		t.Fatalf("unpad() error = %v", err)
	}
	if want := []byte{1, 2, 3, 4, 5, 6}; !bytes.Equal(got, want) {
		t.Errorf("unpad() = %v, want %v", got, want)
	}
}

func TestUnpadZeroCountKeepsEverything(t *testing.T) {
	in := []byte{9, 9, 0}
	got, err := unpad(in)
	if err != nil {
		t.Fatalf("unpad() error = %v", err)
	}
	if !bytes.Equal(got, in) {
		t.Errorf("unpad() = %v, want %v", got, in)
	}
}

func TestUnpadCountTooLarge(t *testing.T) {
	if _, err := unpad([]byte{1, 2, 200}); !errors.Is(err, ErrNoKeyFound) {
		t.Errorf("unpad() error = %v, want NoKeyFound", err)
	}
	if _, err := unpad(nil); !errors.Is(err, ErrNoKeyFound) {
		t.Errorf("unpad(nil) error = %v, want NoKeyFound", err)
	}
}

func TestStripHeaderShortInput(t *testing.T) {
	for n := 0; n < HeaderSize; n++ {
		_, err := stripHeader(make([]byte, n))
		var de *Error
		if !errors.As(err, &de) || de.Kind != NoKeyFound {
			t.Fatalf("stripHeader(%d bytes) error = %v, want NoKeyFound", n, err)
		}
	}

	got, err := stripHeader(make([]byte, HeaderSize))
	if err != nil || len(got) != 0 {
		t.Errorf("stripHeader(exact header) = %v, %v", got, err)
	}
}

func TestDecryptLicenseKeyShortPlaintext(t *testing.T) {
	key := bytes.Repeat([]byte{1}, 16)
	encoded := encryptRaw(t, key, pkcs7([]byte("only ten b")))

	if _, err := DecryptLicenseKey(key, encoded); !errors.Is(err, ErrNoKeyFound) {
		t.Errorf("DecryptLicenseKey() error = %v, want NoKeyFound", err)
	}
}

func TestDecryptLicenseKeyBadInputs(t *testing.T) {
	key := bytes.Repeat([]byte{1}, 16)
	tests := []struct {
		name    string
		key     []byte
		payload string
	}{
		{"not base64", key, "%%%"},
		{"bad key size", []byte{1, 2, 3}, base64.StdEncoding.EncodeToString(make([]byte, 32))},
		{"partial block", key, base64.StdEncoding.EncodeToString(make([]byte, 20))},
		{"empty", key, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecryptLicenseKey(tt.key, tt.payload); !errors.Is(err, ErrNoKeyFound) {
				t.Errorf("error = %v, want NoKeyFound", err)
			}
		})
	}
}

func TestDecodeLicenseKey(t *testing.T) {
	der := []byte("plain der")
	encoded := base64.StdEncoding.EncodeToString(append(testHeader(), der...))

	got, err := DecodeLicenseKey(encoded)
	if err != nil {
		t.Fatalf("DecodeLicenseKey() error = %v", err)
	}
	if !bytes.Equal(got, der) {
		t.Errorf("DecodeLicenseKey() = %q, want %q", got, der)
	}

	short := base64.StdEncoding.EncodeToString([]byte("short"))
	if _, err := DecodeLicenseKey(short); !errors.Is(err, ErrNoKeyFound) {
		t.Errorf("DecodeLicenseKey(short) error = %v, want NoKeyFound", err)
	}
}

func TestKeySizeOK(t *testing.T) {
	for _, n := range []int{16, 24, 32} {
		if !KeySizeOK(n) {
			t.Errorf("KeySizeOK(%d) = false", n)
		}
	}
	for _, n := range []int{0, 15, 20, 64} {
		if KeySizeOK(n) {
			t.Errorf("KeySizeOK(%d) = true", n)
		}
	}
}
