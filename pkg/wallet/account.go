package wallet

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/n3lib/core/pkg/config/netmode"
	"github.com/n3lib/core/pkg/core/transaction"
	"github.com/n3lib/core/pkg/crypto/hash"
	"github.com/n3lib/core/pkg/crypto/keys"
	"github.com/n3lib/core/pkg/encoding/address"
	"github.com/n3lib/core/pkg/io"
	"github.com/n3lib/core/pkg/smartcontract"
	"github.com/n3lib/core/pkg/util"
	"github.com/n3lib/core/pkg/vm/emit"
)

// ErrAccountLocked is returned on signing attempts with a locked
// account; unlock it explicitly before use.
var ErrAccountLocked = errors.New("account is locked")

// ErrNoKey is returned on signing attempts with an account that has no
// decrypted private key available.
var ErrNoKey = errors.New("account has no key")

// Account represents a single N3 account: at minimum an address, at
// most a full key pair with the verification contract derived from it.
// Watch-only accounts carry no contract; multi-signature accounts
// additionally carry their sorted public key list and threshold.
type Account struct {
	// privateKey is available only for key-bearing accounts that are
	// either unencrypted or have been decrypted.
	privateKey *keys.PrivateKey

	// Address of the account.
	Address string `json:"address"`

	// EncryptedWIF is the NEP-2 encrypted form of the account's key,
	// kept alongside so the account can be stored with no plaintext
	// secret in it.
	EncryptedWIF string `json:"key"`

	// Label is a user-assigned name.
	Label string `json:"label"`

	// Contract is the verification contract controlling the account;
	// nil for address-only accounts.
	Contract *Contract `json:"contract"`

	// Locked refuses any signing operation without affecting stored
	// data; a UI-level safety latch.
	Locked bool `json:"lock"`

	// Default marks the wallet's default account.
	Default bool `json:"isDefault"`

	// MultisigM is the signature threshold of a multi-signature
	// account, zero otherwise.
	MultisigM int `json:"-"`

	// MultisigKeys holds the public keys of a multi-signature account
	// sorted by their compressed encoding, nil otherwise.
	MultisigKeys keys.PublicKeys `json:"-"`
}

// Contract represents a verification script with the parameters its
// invocation script is expected to push.
type Contract struct {
	// Script of the contract.
	Script []byte

	// Parameters expected by the invocation script, in push order.
	Parameters []ContractParam

	// Deployed is true for an on-chain contract account, in which case
	// Script is empty and witness construction is out of this
	// package's hands.
	Deployed bool
}

// ContractParam is a name/type pair describing one parameter of a
// Contract.
type ContractParam struct {
	Name string                  `json:"name"`
	Type smartcontract.ParamType `json:"type"`
}

type contractAux struct {
	Script     string             `json:"script"`
	Parameters []contractParamAux `json:"parameters"`
	Deployed   bool               `json:"deployed"`
}

type contractParamAux struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ScriptHash returns the hash of the contract's script.
func (c Contract) ScriptHash() util.Uint160 {
	return hash.Hash160(c.Script)
}

// MarshalJSON implements the json.Marshaler interface.
func (c Contract) MarshalJSON() ([]byte, error) {
	params := make([]contractParamAux, len(c.Parameters))
	for i := range c.Parameters {
		params[i] = contractParamAux{
			Name: c.Parameters[i].Name,
			Type: c.Parameters[i].Type.String(),
		}
	}
	return json.Marshal(contractAux{
		Script:     base64.StdEncoding.EncodeToString(c.Script),
		Parameters: params,
		Deployed:   c.Deployed,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (c *Contract) UnmarshalJSON(data []byte) error {
	aux := new(contractAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	script, err := base64.StdEncoding.DecodeString(aux.Script)
	if err != nil {
		return err
	}
	params := make([]ContractParam, len(aux.Parameters))
	for i := range aux.Parameters {
		pt, err := smartcontract.ParseParamType(aux.Parameters[i].Type)
		if err != nil {
			return err
		}
		params[i] = ContractParam{Name: aux.Parameters[i].Name, Type: pt}
	}
	c.Script = script
	c.Parameters = params
	c.Deployed = aux.Deployed
	return nil
}

// NewAccount creates a new Account with a freshly generated private
// key.
func NewAccount() (*Account, error) {
	priv, err := keys.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(priv), nil
}

// NewAccountFromPrivateKey creates a key-bearing single-signature
// Account from the given key.
func NewAccountFromPrivateKey(p *keys.PrivateKey) *Account {
	pub := p.PublicKey()
	return &Account{
		privateKey: p,
		Address:    p.Address(),
		Contract: &Contract{
			Script: keys.VerificationScript(pub),
			Parameters: []ContractParam{
				{Name: "signature", Type: smartcontract.SignatureType},
			},
		},
	}
}

// NewAccountFromWIF creates an Account from a WIF-encoded private key.
func NewAccountFromWIF(wif string) (*Account, error) {
	priv, err := keys.NewPrivateKeyFromWIF(wif)
	if err != nil {
		return nil, err
	}
	return NewAccountFromPrivateKey(priv), nil
}

// NewAccountFromEncryptedWIF creates an Account from a NEP-2 encrypted
// key and its passphrase, keeping the encrypted form on the account.
func NewAccountFromEncryptedWIF(wif string, pass string) (*Account, error) {
	rawWif, err := keys.NEP2Decrypt(wif, pass)
	if err != nil {
		return nil, err
	}
	a, err := NewAccountFromWIF(rawWif)
	if err != nil {
		return nil, err
	}
	a.EncryptedWIF = wif
	return a, nil
}

// NewWatchOnlyAccount creates an address-only Account: it can appear
// as a transaction signer, but can't sign anything.
func NewWatchOnlyAccount(addr string) (*Account, error) {
	if _, err := address.StringToUint160(addr); err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}
	return &Account{Address: addr}, nil
}

// NewContractAccount creates a verification-script-only Account: it
// knows its contract but has no key material.
func NewContractAccount(script []byte, params ...ContractParam) *Account {
	return &Account{
		Address: address.Uint160ToString(hash.Hash160(script)),
		Contract: &Contract{
			Script:     script,
			Parameters: params,
		},
	}
}

// NewMultiSigAccount creates an M-of-N multi-signature Account over
// pubs, sorting the keys into their canonical order first. The
// resulting account has no private key of its own; co-signers add
// signatures with their key-bearing accounts via SignTx.
func NewMultiSigAccount(m int, pubs keys.PublicKeys) (*Account, error) {
	script, err := keys.CreateDefaultMultiSigRedeemScript(pubs, m)
	if err != nil {
		return nil, err
	}
	params := make([]ContractParam, m)
	for i := range params {
		params[i] = ContractParam{
			Name: fmt.Sprintf("parameter%d", i),
			Type: smartcontract.SignatureType,
		}
	}
	a := NewContractAccount(script, params...)
	a.MultisigM = m
	a.MultisigKeys = sortedCopy(pubs)
	return a, nil
}

// ConvertMultisig converts a key-bearing single-signature account into
// a multi-signature one; the account's own public key must be among
// pubs.
func (a *Account) ConvertMultisig(m int, pubs keys.PublicKeys) error {
	if a.Locked {
		return ErrAccountLocked
	}
	if a.privateKey == nil {
		return ErrNoKey
	}
	accPub := a.privateKey.PublicKey()
	found := false
	for _, pub := range pubs {
		if accPub.Equals(pub) {
			found = true
			break
		}
	}
	if !found {
		return errors.New("own public key is not among the multisig keys")
	}

	script, err := keys.CreateDefaultMultiSigRedeemScript(pubs, m)
	if err != nil {
		return err
	}
	params := make([]ContractParam, m)
	for i := range params {
		params[i] = ContractParam{
			Name: fmt.Sprintf("parameter%d", i),
			Type: smartcontract.SignatureType,
		}
	}
	a.Address = address.Uint160ToString(hash.Hash160(script))
	a.Contract = &Contract{Script: script, Parameters: params}
	a.MultisigM = m
	a.MultisigKeys = sortedCopy(pubs)
	return nil
}

func sortedCopy(pubs keys.PublicKeys) keys.PublicKeys {
	sorted := make(keys.PublicKeys, len(pubs))
	copy(sorted, pubs)
	sort.Sort(sorted)
	return sorted
}

// IsMultiSig reports whether a is a multi-signature account.
func (a *Account) IsMultiSig() bool {
	return a.MultisigM > 0
}

// Contains reports whether pub participates in this multi-signature
// account.
func (a *Account) Contains(pub *keys.PublicKey) bool {
	for _, k := range a.MultisigKeys {
		if k.Equals(pub) {
			return true
		}
	}
	return false
}

// ScriptHash returns the script hash (account identifier) of the
// account.
func (a *Account) ScriptHash() util.Uint160 {
	if a.Contract != nil {
		return a.Contract.ScriptHash()
	}
	h, _ := address.StringToUint160(a.Address)
	return h
}

// GetVerificationScript returns the account's verification script, or
// nil for an address-only account.
func (a *Account) GetVerificationScript() []byte {
	if a.Contract != nil {
		return a.Contract.Script
	}
	return nil
}

// PrivateKey returns the decrypted private key, or nil if none is
// available.
func (a *Account) PrivateKey() *keys.PrivateKey {
	return a.privateKey
}

// PublicKey returns the public key for a key-bearing account, nil
// otherwise.
func (a *Account) PublicKey() *keys.PublicKey {
	if a.privateKey == nil {
		return nil
	}
	return a.privateKey.PublicKey()
}

// CanSign reports whether the account is currently able to produce
// signatures: it has a decrypted key and isn't locked.
func (a *Account) CanSign() bool {
	return !a.Locked && a.privateKey != nil
}

// SignTx adds a witness for this account to the transaction, signing
// its magic-bound digest. For a multi-signature account it appends the
// signature of the account's own key to the invocation script being
// accumulated; co-signers call SignTx on their own accounts until M
// signatures are collected.
func (a *Account) SignTx(net netmode.Magic, t *transaction.Transaction) error {
	if a.Locked {
		return ErrAccountLocked
	}
	if a.Contract == nil {
		return errors.New("account has no contract")
	}
	if a.privateKey == nil {
		return ErrNoKey
	}

	idx := -1
	accHash := a.ScriptHash()
	for i := range t.Signers {
		if t.Signers[i].Account.Equals(accHash) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.New("transaction is not signed by this account")
	}
	for len(t.Scripts) <= idx {
		t.Scripts = append(t.Scripts, transaction.Witness{})
	}

	sig := a.privateKey.SignHash([32]byte(t.SigningHash(uint32(net))))

	bw := io.NewBufBinWriter()
	if a.IsMultiSig() {
		bw.WriteBytes(t.Scripts[idx].InvocationScript)
	}
	emit.Bytes(bw.BinWriter, sig)
	if bw.Err() != nil {
		return bw.Err()
	}
	t.Scripts[idx].InvocationScript = bw.Bytes()
	t.Scripts[idx].VerificationScript = a.Contract.Script
	return nil
}

// Encrypt stores the NEP-2 encrypted form of the account's key under
// the given passphrase.
func (a *Account) Encrypt(passphrase string) error {
	if a.privateKey == nil {
		return ErrNoKey
	}
	wif, err := keys.NEP2Encrypt(a.privateKey, passphrase)
	if err != nil {
		return err
	}
	a.EncryptedWIF = wif
	return nil
}

// Decrypt recovers the account's private key from its EncryptedWIF.
func (a *Account) Decrypt(passphrase string) error {
	if a.EncryptedWIF == "" {
		return errors.New("no encrypted wif in the account")
	}
	wif, err := keys.NEP2Decrypt(a.EncryptedWIF, passphrase)
	if err != nil {
		return err
	}
	a.privateKey, err = keys.NewPrivateKeyFromWIF(wif)
	return err
}

// Close zeroes out the private key material; the account remains
// usable as a watch-only one.
func (a *Account) Close() {
	if a.privateKey == nil {
		return
	}
	a.privateKey.Destroy()
	a.privateKey = nil
}
