// Package txbuilder assembles, fee-accounts and signs transactions out
// of the lower-level script, signer and key primitives. A Builder goes
// through the usual lifecycle: set a script, add signers, build the
// unsigned transaction, then sign it with whatever accounts hold the
// needed keys.
package txbuilder

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/n3lib/core/pkg/config"
	"github.com/n3lib/core/pkg/core/transaction"
	"github.com/n3lib/core/pkg/crypto/keys"
	"github.com/n3lib/core/pkg/io"
	"github.com/n3lib/core/pkg/util"
	"github.com/n3lib/core/pkg/vm/emit"
	"github.com/n3lib/core/pkg/wallet"
	"go.uber.org/zap"
)

var (
	// ErrNoScript is returned on an attempt to build a transaction with
	// no script set.
	ErrNoScript = errors.New("no script")
	// ErrNoSigners is returned on an attempt to build a transaction
	// with no signers added.
	ErrNoSigners = errors.New("no signers")
	// ErrNoValidUntilBlock is returned on an attempt to build a
	// transaction with no expiry height set.
	ErrNoValidUntilBlock = errors.New("validUntilBlock is not set")
	// ErrAlreadyBuilt is returned by mutating operations once the
	// unsigned transaction has been built.
	ErrAlreadyBuilt = errors.New("transaction is already built")
	// ErrMissingKey is returned by Sign when no supplied account can
	// produce a signature required by one of the signers.
	ErrMissingKey = errors.New("no key for signer")
	// ErrInsufficientSignatures is returned by Sign when a
	// multi-signature signer can't reach its threshold with the
	// supplied accounts.
	ErrInsufficientSignatures = errors.New("not enough signatures")
	// ErrOverflow is returned when the expiry height would exceed the
	// uint32 range.
	ErrOverflow = errors.New("validUntilBlock overflow")
)

// systemFeeEstimateFactor scales the per-byte fee into a rough system
// fee guess when no node is reachable to test-execute the script. The
// real value comes from invokescript; the estimate only keeps offline
// flows moving.
const systemFeeEstimateFactor = 100

// Builder accumulates the parts of a transaction and produces a
// signed, chain-valid result.
type Builder struct {
	cfg config.ProtocolConfiguration
	log *zap.Logger

	version  uint8
	nonce    uint32
	nonceSet bool
	vub      uint32
	script   []byte
	signers  []transaction.Signer
	attrs    []transaction.Attribute
	netFee   int64
	sysFee   int64

	tx *transaction.Transaction
}

// New creates a Builder for the network described by cfg. A nil logger
// keeps the builder silent.
func New(cfg config.ProtocolConfiguration, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		cfg: cfg,
		log: log,
	}
}

// SetVersion sets the transaction format version; zero is the only one
// any deployed network currently accepts.
func (b *Builder) SetVersion(v uint8) error {
	if b.tx != nil {
		return ErrAlreadyBuilt
	}
	b.version = v
	return nil
}

// SetNonce sets an explicit nonce; if never called, a random one is
// drawn at build time.
func (b *Builder) SetNonce(n uint32) error {
	if b.tx != nil {
		return ErrAlreadyBuilt
	}
	b.nonce = n
	b.nonceSet = true
	return nil
}

// SetValidUntilBlock sets the height after which the transaction is
// invalid.
func (b *Builder) SetValidUntilBlock(h uint32) error {
	if b.tx != nil {
		return ErrAlreadyBuilt
	}
	if h == 0 {
		return errors.New("validUntilBlock can't be 0")
	}
	b.vub = h
	return nil
}

// SetValidUntilBlockFromRPC queries the current chain height and sets
// the expiry to height+increment; a zero increment means the
// configured default.
func (b *Builder) SetValidUntilBlockFromRPC(client RPCClient, increment uint32) error {
	if b.tx != nil {
		return ErrAlreadyBuilt
	}
	height, err := client.GetBlockCount()
	if err != nil {
		return fmt.Errorf("can't get block count: %w", err)
	}
	if increment == 0 {
		increment = b.cfg.ValidUntilBlockIncrement
	}
	if height > math.MaxUint32-increment {
		return ErrOverflow
	}
	b.vub = height + increment
	return nil
}

// SetScript sets the invocation script to execute.
func (b *Builder) SetScript(script []byte) error {
	if b.tx != nil {
		return ErrAlreadyBuilt
	}
	if len(script) == 0 {
		return ErrNoScript
	}
	if uint32(len(script)) > b.cfg.MaxScriptSize {
		return fmt.Errorf("script is too big (%d > %d)", len(script), b.cfg.MaxScriptSize)
	}
	b.script = script
	return nil
}

// AddSigner appends a signer; the first added signer pays the fees.
func (b *Builder) AddSigner(s transaction.Signer) error {
	if b.tx != nil {
		return ErrAlreadyBuilt
	}
	if err := s.Validate(); err != nil {
		return err
	}
	for i := range b.signers {
		if b.signers[i].Account.Equals(s.Account) {
			return fmt.Errorf("%w: %s", transaction.ErrDuplicateSigner, s.Account.StringLE())
		}
	}
	b.signers = append(b.signers, s)
	return nil
}

// SetFirstSigner promotes the signer with the given account hash to
// index 0, making it the fee payer.
func (b *Builder) SetFirstSigner(acc util.Uint160) error {
	if b.tx != nil {
		return ErrAlreadyBuilt
	}
	for i := range b.signers {
		if b.signers[i].Account.Equals(acc) {
			b.signers[0], b.signers[i] = b.signers[i], b.signers[0]
			return nil
		}
	}
	return fmt.Errorf("signer %s not found", acc.StringLE())
}

// AddAttribute appends a transaction attribute.
func (b *Builder) AddAttribute(attr transaction.Attribute) error {
	if b.tx != nil {
		return ErrAlreadyBuilt
	}
	if len(b.attrs) >= transaction.MaxAttributes {
		return errors.New("too many attributes")
	}
	b.attrs = append(b.attrs, attr)
	return nil
}

// SetHighPriority toggles the HighPriority attribute; setting the same
// state twice is a no-op.
func (b *Builder) SetHighPriority(on bool) error {
	if b.tx != nil {
		return ErrAlreadyBuilt
	}
	idx := -1
	for i := range b.attrs {
		if b.attrs[i].Type == transaction.HighPriority {
			idx = i
			break
		}
	}
	switch {
	case on && idx < 0:
		return b.AddAttribute(transaction.Attribute{Type: transaction.HighPriority})
	case !on && idx >= 0:
		b.attrs = append(b.attrs[:idx], b.attrs[idx+1:]...)
	}
	return nil
}

// AddNetworkFee adds n to the accumulated network fee.
func (b *Builder) AddNetworkFee(n int64) {
	b.netFee += n
}

// AddSystemFee adds n to the accumulated system fee.
func (b *Builder) AddSystemFee(n int64) {
	b.sysFee += n
}

// CalculateFees sets the network fee from the measured transaction
// size and signer count, and the system fee from a test execution via
// client. When the node is unreachable the system fee falls back to a
// size-based estimate, which is logged since it is almost never what
// the chain will actually charge.
func (b *Builder) CalculateFees(client RPCClient) error {
	if b.tx != nil {
		return ErrAlreadyBuilt
	}
	size, err := b.measureSize()
	if err != nil {
		return err
	}

	netFee := int64(size)*b.cfg.FeePerByte + int64(len(b.signers))*b.cfg.FeePerSignature
	if netFee < b.cfg.MinimumNetworkFee {
		netFee = b.cfg.MinimumNetworkFee
	}
	b.netFee = netFee

	res, err := client.InvokeScript(b.script, b.signers)
	if err != nil {
		b.sysFee = int64(size) * b.cfg.FeePerByte * systemFeeEstimateFactor
		b.log.Warn("system fee estimated offline",
			zap.Error(err),
			zap.Int64("estimate", b.sysFee))
		return nil
	}
	if res.State != "HALT" {
		return fmt.Errorf("test invocation faulted: %s", res.FaultException)
	}
	b.sysFee = res.GasConsumed
	return nil
}

// measureSize serializes the would-be transaction with empty witnesses
// to get the size fee accounting needs.
func (b *Builder) measureSize() (int, error) {
	if len(b.script) == 0 {
		return 0, ErrNoScript
	}
	if len(b.signers) == 0 {
		return 0, ErrNoSigners
	}
	t := &transaction.Transaction{
		Version:         b.version,
		Nonce:           b.nonce,
		SystemFee:       b.sysFee,
		NetworkFee:      b.netFee,
		ValidUntilBlock: b.vub,
		Signers:         b.signers,
		Attributes:      b.attrs,
		Script:          b.script,
		Scripts:         make([]transaction.Witness, len(b.signers)),
	}
	return t.Size(), nil
}

// BuildUnsigned produces the unsigned transaction, taking ownership of
// the accumulated signers and attributes. The builder keeps a
// reference for a subsequent Sign call; every other mutating operation
// is rejected from here on.
func (b *Builder) BuildUnsigned() (*transaction.Transaction, error) {
	if b.tx != nil {
		return nil, ErrAlreadyBuilt
	}
	if len(b.script) == 0 {
		return nil, ErrNoScript
	}
	if len(b.signers) == 0 {
		return nil, ErrNoSigners
	}
	if b.vub == 0 {
		return nil, ErrNoValidUntilBlock
	}
	if !b.nonceSet {
		var buf [4]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return nil, fmt.Errorf("can't get random nonce: %w", err)
		}
		b.nonce = binary.LittleEndian.Uint32(buf[:])
		b.nonceSet = true
	}

	t := &transaction.Transaction{
		Version:         b.version,
		Nonce:           b.nonce,
		SystemFee:       b.sysFee,
		NetworkFee:      b.netFee,
		ValidUntilBlock: b.vub,
		Signers:         b.signers,
		Attributes:      b.attrs,
		Script:          b.script,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	b.signers = nil
	b.attrs = nil
	b.tx = t
	return t, nil
}

// Sign builds the transaction if that hasn't happened yet and attaches
// a witness for every signer, drawing keys from accounts. Witnesses
// are attached all-or-nothing: on any failure the transaction is left
// exactly as it was.
func (b *Builder) Sign(accounts []*wallet.Account) (*transaction.Transaction, error) {
	if err := b.cfg.RequireMagic(); err != nil {
		return nil, err
	}
	if b.tx == nil {
		if _, err := b.BuildUnsigned(); err != nil {
			return nil, err
		}
	}
	t := b.tx

	digest := [32]byte(t.SigningHash(uint32(b.cfg.Magic)))
	witnesses := make([]transaction.Witness, len(t.Signers))
	for i, s := range t.Signers {
		w, err := witnessFor(s.Account, digest, accounts)
		if err != nil {
			return nil, fmt.Errorf("signer %d (%s): %w", i, s.Account.StringLE(), err)
		}
		witnesses[i] = w
	}
	t.Scripts = witnesses
	return t, nil
}

// witnessFor produces the witness authorizing the given account hash,
// single- or multi-signature depending on what kind of account matches
// it.
func witnessFor(acc util.Uint160, digest [32]byte, accounts []*wallet.Account) (transaction.Witness, error) {
	var match *wallet.Account
	for _, a := range accounts {
		if a.ScriptHash().Equals(acc) {
			match = a
			break
		}
	}
	if match == nil {
		return transaction.Witness{}, ErrMissingKey
	}
	if match.Locked {
		return transaction.Witness{}, wallet.ErrAccountLocked
	}

	if match.IsMultiSig() {
		return multisigWitness(match, digest, accounts)
	}

	if match.PrivateKey() == nil {
		return transaction.Witness{}, ErrMissingKey
	}
	sig := match.PrivateKey().SignHash(digest)
	bw := io.NewBufBinWriter()
	emit.Bytes(bw.BinWriter, sig)
	if bw.Err() != nil {
		return transaction.Witness{}, bw.Err()
	}
	return transaction.Witness{
		InvocationScript:   bw.Bytes(),
		VerificationScript: match.GetVerificationScript(),
	}, nil
}

// multisigWitness collects signatures for msAcc from the key-bearing
// entries of accounts, pushing them in the order of the multisig
// account's sorted key list.
func multisigWitness(msAcc *wallet.Account, digest [32]byte, accounts []*wallet.Account) (transaction.Witness, error) {
	keyFor := func(pub *keys.PublicKey) *wallet.Account {
		for _, a := range accounts {
			if a.CanSign() && a.PublicKey() != nil && a.PublicKey().Equals(pub) {
				return a
			}
		}
		return nil
	}

	bw := io.NewBufBinWriter()
	collected := 0
	for _, pub := range msAcc.MultisigKeys {
		if collected == msAcc.MultisigM {
			break
		}
		a := keyFor(pub)
		if a == nil {
			continue
		}
		sig := a.PrivateKey().SignHash(digest)
		emit.Bytes(bw.BinWriter, sig)
		collected++
	}
	if collected < msAcc.MultisigM {
		return transaction.Witness{}, fmt.Errorf("%w: got %d out of %d",
			ErrInsufficientSignatures, collected, msAcc.MultisigM)
	}
	if bw.Err() != nil {
		return transaction.Witness{}, bw.Err()
	}
	return transaction.Witness{
		InvocationScript:   bw.Bytes(),
		VerificationScript: msAcc.GetVerificationScript(),
	}, nil
}
