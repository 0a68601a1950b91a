package keys

import (
	"errors"
	"sort"

	"github.com/n3lib/core/pkg/crypto/hash"
	"github.com/n3lib/core/pkg/encoding/address"
	"github.com/n3lib/core/pkg/io"
	"github.com/n3lib/core/pkg/util"
	"github.com/n3lib/core/pkg/vm/emit"
	"github.com/n3lib/core/pkg/vm/interopnames"
)

// VerificationScript returns the standard single-signature
// verification script for p: push the public key, then invoke
// CheckSig.
func VerificationScript(p *PublicKey) []byte {
	w := io.NewBufBinWriter()
	emit.Bytes(w.BinWriter, p.Bytes())
	emit.Syscall(w.BinWriter, interopnames.SystemCryptoCheckSig)
	return w.Bytes()
}

// PublicKeys is a slice of public keys sortable by their compressed
// encoding, the canonical ordering used in multisig scripts.
type PublicKeys []*PublicKey

func (p PublicKeys) Len() int           { return len(p) }
func (p PublicKeys) Less(i, j int) bool { return p[i].Cmp(p[j]) < 0 }
func (p PublicKeys) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

// CreateDefaultMultiSigRedeemScript builds the standard m-of-n
// verification script over pubs, sorted into canonical order first.
func CreateDefaultMultiSigRedeemScript(pubs []*PublicKey, m int) ([]byte, error) {
	n := len(pubs)
	if m <= 0 || m > n {
		return nil, errors.New("keys: invalid m for m-of-n multisig")
	}
	if n > 1024 {
		return nil, errors.New("keys: too many public keys")
	}

	sorted := make(PublicKeys, n)
	copy(sorted, pubs)
	sort.Sort(sorted)

	w := io.NewBufBinWriter()
	emit.Int(w.BinWriter, int64(m))
	for _, pub := range sorted {
		emit.Bytes(w.BinWriter, pub.Bytes())
	}
	emit.Int(w.BinWriter, int64(n))
	emit.Syscall(w.BinWriter, interopnames.SystemCryptoCheckMultisig)

	if w.Err() != nil {
		return nil, w.Err()
	}
	return w.Bytes(), nil
}

// scriptHashFromScript is a shared helper kept here (rather than in
// the smartcontract package) to avoid an import cycle: keys needs a
// script hash to compute an address, and smartcontract's own script
// builder needs keys' public key type for multisig accounts.
func scriptHashFromScript(script []byte) util.Uint160 {
	return hash.Hash160(script)
}

func addrFromHash(h util.Uint160) string {
	return address.Uint160ToString(h)
}
