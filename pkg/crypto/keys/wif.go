package keys

import (
	"errors"

	"github.com/n3lib/core/pkg/encoding/base58"
)

// WIFVersion is the version byte N3 uses for Wallet Import Format
// private keys.
const WIFVersion = 0x80

// WIF holds the decoded fields of a Wallet Import Format string.
type WIF struct {
	Version    byte
	PrivateKey *PrivateKey
	Compressed bool
	S          string
}

// WIFEncode encodes a 32-byte private key scalar in Wallet Import
// Format.
func WIFEncode(b []byte, version byte, compressed bool) (string, error) {
	if len(b) != 32 {
		return "", errors.New("keys: invalid private key length for WIF")
	}
	if version == 0 {
		version = WIFVersion
	}

	buf := make([]byte, 0, 34)
	buf = append(buf, version)
	buf = append(buf, b...)
	if compressed {
		buf = append(buf, 0x01)
	}
	return base58.CheckEncode(buf), nil
}

// WIFDecode decodes a WIF string. If version is non-zero it is
// validated against the decoded version byte; otherwise WIFVersion is
// assumed.
func WIFDecode(wif string, version byte) (*WIF, error) {
	b, err := base58.CheckDecode(wif)
	if err != nil {
		return nil, err
	}

	if version == 0 {
		version = WIFVersion
	}

	switch len(b) {
	case 33:
		if b[0] != version {
			return nil, errors.New("keys: wrong WIF version byte")
		}
		priv, err := NewPrivateKeyFromBytes(b[1:])
		if err != nil {
			return nil, err
		}
		return &WIF{Version: version, PrivateKey: priv, Compressed: false, S: wif}, nil
	case 34:
		if b[0] != version {
			return nil, errors.New("keys: wrong WIF version byte")
		}
		if b[33] != 0x01 {
			return nil, errors.New("keys: invalid compression flag")
		}
		priv, err := NewPrivateKeyFromBytes(b[1:33])
		if err != nil {
			return nil, err
		}
		return &WIF{Version: version, PrivateKey: priv, Compressed: true, S: wif}, nil
	default:
		return nil, errors.New("keys: invalid WIF payload length")
	}
}
