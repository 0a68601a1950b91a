package keys

import (
	"crypto/aes"
	"errors"

	"github.com/n3lib/core/pkg/crypto/hash"
	"github.com/n3lib/core/pkg/encoding/base58"
	"golang.org/x/crypto/scrypt"
)

const (
	nep2ScryptN = 16384
	nep2ScryptR = 8
	nep2ScryptP = 8

	nep2Prefix1 = 0x01
	nep2Prefix2 = 0x42
	nep2Flag    = 0xE0
)

// NEP2Encrypt encrypts priv with passphrase per the NEP-2 standard,
// returning the Base58-Check-encoded result.
func NEP2Encrypt(priv *PrivateKey, passphrase string) (string, error) {
	address := priv.Address()
	addressHash := hash.Checksum([]byte(address))

	derived, err := scrypt.Key([]byte(passphrase), addressHash, nep2ScryptN, nep2ScryptR, nep2ScryptP, 64)
	if err != nil {
		return "", err
	}
	derived1, derived2 := derived[:32], derived[32:]

	privBytes := priv.Bytes()
	xor := make([]byte, 32)
	for i := 0; i < 32; i++ {
		xor[i] = privBytes[i] ^ derived1[i]
	}

	block, err := aes.NewCipher(derived2)
	if err != nil {
		return "", err
	}

	encrypted := make([]byte, 32)
	block.Encrypt(encrypted[:16], xor[:16])
	block.Encrypt(encrypted[16:], xor[16:])

	buf := make([]byte, 0, 39)
	buf = append(buf, nep2Prefix1, nep2Prefix2, nep2Flag)
	buf = append(buf, addressHash...)
	buf = append(buf, encrypted...)

	return base58.CheckEncode(buf), nil
}

// NEP2Decrypt decrypts a NEP-2 string with passphrase, returning the
// recovered private key's WIF encoding.
func NEP2Decrypt(nep2 string, passphrase string) (string, error) {
	b, err := base58.CheckDecode(nep2)
	if err != nil {
		return "", err
	}
	if len(b) != 39 || b[0] != nep2Prefix1 || b[1] != nep2Prefix2 || b[2] != nep2Flag {
		return "", errors.New("keys: invalid NEP-2 payload")
	}

	addressHash := b[3:7]
	encrypted := b[7:39]

	derived, err := scrypt.Key([]byte(passphrase), addressHash, nep2ScryptN, nep2ScryptR, nep2ScryptP, 64)
	if err != nil {
		return "", err
	}
	derived1, derived2 := derived[:32], derived[32:]

	block, err := aes.NewCipher(derived2)
	if err != nil {
		return "", err
	}

	xor := make([]byte, 32)
	block.Decrypt(xor[:16], encrypted[:16])
	block.Decrypt(xor[16:], encrypted[16:])

	privBytes := make([]byte, 32)
	for i := 0; i < 32; i++ {
		privBytes[i] = xor[i] ^ derived1[i]
	}

	priv, err := NewPrivateKeyFromBytes(privBytes)
	if err != nil {
		return "", err
	}

	addr := priv.Address()
	gotHash := hash.Checksum([]byte(addr))
	for i := range gotHash {
		if gotHash[i] != addressHash[i] {
			return "", errors.New("keys: wrong passphrase")
		}
	}

	return priv.WIF(), nil
}
