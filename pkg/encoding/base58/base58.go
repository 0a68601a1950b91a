// Package base58 implements Base58 and Base58-Check encoding, used for
// WIF-encoded private keys and N3 addresses.
package base58

import (
	"errors"

	"github.com/mr-tron/base58"
	"github.com/n3lib/core/pkg/crypto/hash"
)

// ErrInvalidChecksum is returned by CheckDecode when the trailing
// 4-byte checksum does not match the decoded payload.
var ErrInvalidChecksum = errors.New("base58: invalid checksum")

// Encode encodes b into a Base58 string.
func Encode(b []byte) string {
	return base58.Encode(b)
}

// Decode decodes a Base58 string back into bytes.
func Decode(s string) ([]byte, error) {
	return base58.Decode(s)
}

// CheckEncode encodes b with a trailing 4-byte double-SHA256 checksum.
func CheckEncode(b []byte) string {
	buf := make([]byte, 0, len(b)+4)
	buf = append(buf, b...)
	buf = append(buf, hash.Checksum(b)...)
	return base58.Encode(buf)
}

// CheckDecode decodes a Base58-Check string, verifying and stripping
// its trailing checksum.
func CheckDecode(s string) ([]byte, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, err
	}
	if len(raw) < 4 {
		return nil, errors.New("base58: payload too short")
	}

	payload := raw[:len(raw)-4]
	checksum := raw[len(raw)-4:]
	expected := hash.Checksum(payload)
	for i := range expected {
		if expected[i] != checksum[i] {
			return nil, ErrInvalidChecksum
		}
	}
	return payload, nil
}
